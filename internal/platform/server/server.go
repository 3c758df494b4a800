package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
)

// Services はサーバーに登録するユースケースと変更通知の購読元です。
type Services struct {
	Departments department.UseCase
	Sellers     seller.UseCase
	Events      handler.Subscriber
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	watch      *handler.DataChangeGrpcHandler
	log        *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// ログ用インターセプタは opts より先に適用されます。
func New(listenAddr string, svcs Services, log *zap.Logger, opts ...grpc.ServerOption) *Server {
	if svcs.Departments == nil || svcs.Sellers == nil || svcs.Events == nil {
		panic("server: departments, sellers and events are required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(log)),
		grpc.ChainStreamInterceptor(StreamLoggingInterceptor(log)),
	}, opts...)
	srv := grpc.NewServer(serverOpts...)

	handler.RegisterDepartmentServiceServer(srv, handler.NewDepartmentGrpcHandler(svcs.Departments, log.Named("department")))
	handler.RegisterSellerServiceServer(srv, handler.NewSellerGrpcHandler(svcs.Sellers, log.Named("seller")))
	watch := handler.NewDataChangeGrpcHandler(svcs.Events, log.Named("watch"))
	handler.RegisterDataChangeServiceServer(srv, watch)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	for _, name := range []string{handler.DepartmentServiceName, handler.SellerServiceName, handler.DataChangeServiceName} {
		healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		watch:      watch,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。テストでは bufconn のリスナーを渡せます。
// Serve が戻った時点で停止用のゴルーチンも終了します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.GracefulStop()
		case <-done:
		}
	}()

	s.log.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にし、Watch を終了させてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.watch.Close()
	s.grpcServer.GracefulStop()
}
