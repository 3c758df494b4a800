package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
)

// SellerGrpcHandler は SellerService の gRPC 実装です。
type SellerGrpcHandler struct {
	svc seller.UseCase
	log *zap.Logger
}

var _ SellerServiceServer = (*SellerGrpcHandler)(nil)

// NewSellerGrpcHandler は SellerGrpcHandler を生成します。
// log が nil の場合はログを出力しません。
func NewSellerGrpcHandler(svc seller.UseCase, log *zap.Logger) *SellerGrpcHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SellerGrpcHandler{svc: svc, log: log}
}

// SaveSeller は販売員フォームを保存します。
// departmentId は部署選択の結果で、存在しない ID は未選択として検証されます。
func (h *SellerGrpcHandler) SaveSeller(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	saved, err := h.svc.SaveSeller(ctx, seller.SaveSellerInput{
		ID:           stringField(req, keyID),
		Name:         stringField(req, keyName),
		Email:        stringField(req, keyEmail),
		Salary:       stringField(req, keySalary),
		BirthDate:    stringField(req, keyBirthDate),
		DepartmentID: idField(req, keyDepartmentID),
	})
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return sellerToStruct(saved), nil
}

// GetSeller は販売員を取得します。
func (h *SellerGrpcHandler) GetSeller(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetSeller(ctx, idField(req, keyID))
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return sellerToStruct(found), nil
}

// ListSellers は販売員の一覧を取得します。
func (h *SellerGrpcHandler) ListSellers(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	sellers, err := h.svc.ListSellers(ctx)
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return sellersToList(sellers), nil
}

// ListSellersByDepartment は部署に所属する販売員の一覧を取得します。
func (h *SellerGrpcHandler) ListSellersByDepartment(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	sellers, err := h.svc.ListSellersByDepartment(ctx, idField(req, keyDepartmentID))
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return sellersToList(sellers), nil
}

// DeleteSeller は販売員を削除します。
func (h *SellerGrpcHandler) DeleteSeller(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteSeller(ctx, idField(req, keyID)); err != nil {
		return nil, toStatusError(h.log, err)
	}

	return &emptypb.Empty{}, nil
}
