package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// サービス名は salesadmin.v1 パッケージに属します。
const (
	DepartmentServiceName = "salesadmin.v1.DepartmentService"
	SellerServiceName     = "salesadmin.v1.SellerService"
	DataChangeServiceName = "salesadmin.v1.DataChangeService"
)

// DepartmentServiceServer は DepartmentService のサーバー側インターフェースです。
type DepartmentServiceServer interface {
	SaveDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDepartments(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	DeleteDepartment(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// SellerServiceServer は SellerService のサーバー側インターフェースです。
type SellerServiceServer interface {
	SaveSeller(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSeller(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSellers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	ListSellersByDepartment(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	DeleteSeller(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// DataChangeServiceServer は DataChangeService のサーバー側インターフェースです。
type DataChangeServiceServer interface {
	Watch(*structpb.Struct, grpc.ServerStream) error
}

// DepartmentServiceDesc は DepartmentService の記述子です。
var DepartmentServiceDesc = grpc.ServiceDesc{
	ServiceName: DepartmentServiceName,
	HandlerType: (*DepartmentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(DepartmentServiceName, "SaveDepartment", newStruct, DepartmentServiceServer.SaveDepartment),
		unaryMethod(DepartmentServiceName, "GetDepartment", newStruct, DepartmentServiceServer.GetDepartment),
		unaryMethod(DepartmentServiceName, "ListDepartments", newEmpty, DepartmentServiceServer.ListDepartments),
		unaryMethod(DepartmentServiceName, "DeleteDepartment", newStruct, DepartmentServiceServer.DeleteDepartment),
	},
	Metadata: "salesadmin/v1/department.proto",
}

// SellerServiceDesc は SellerService の記述子です。
var SellerServiceDesc = grpc.ServiceDesc{
	ServiceName: SellerServiceName,
	HandlerType: (*SellerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(SellerServiceName, "SaveSeller", newStruct, SellerServiceServer.SaveSeller),
		unaryMethod(SellerServiceName, "GetSeller", newStruct, SellerServiceServer.GetSeller),
		unaryMethod(SellerServiceName, "ListSellers", newEmpty, SellerServiceServer.ListSellers),
		unaryMethod(SellerServiceName, "ListSellersByDepartment", newStruct, SellerServiceServer.ListSellersByDepartment),
		unaryMethod(SellerServiceName, "DeleteSeller", newStruct, SellerServiceServer.DeleteSeller),
	},
	Metadata: "salesadmin/v1/seller.proto",
}

// DataChangeServiceDesc は DataChangeService の記述子です。
var DataChangeServiceDesc = grpc.ServiceDesc{
	ServiceName: DataChangeServiceName,
	HandlerType: (*DataChangeServiceServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(structpb.Struct)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(DataChangeServiceServer).Watch(in, stream)
			},
		},
	},
	Metadata: "salesadmin/v1/datachange.proto",
}

// RegisterDepartmentServiceServer は DepartmentService を登録します。
func RegisterDepartmentServiceServer(s grpc.ServiceRegistrar, srv DepartmentServiceServer) {
	s.RegisterService(&DepartmentServiceDesc, srv)
}

// RegisterSellerServiceServer は SellerService を登録します。
func RegisterSellerServiceServer(s grpc.ServiceRegistrar, srv SellerServiceServer) {
	s.RegisterService(&SellerServiceDesc, srv)
}

// RegisterDataChangeServiceServer は DataChangeService を登録します。
func RegisterDataChangeServiceServer(s grpc.ServiceRegistrar, srv DataChangeServiceServer) {
	s.RegisterService(&DataChangeServiceDesc, srv)
}

// FullMethod は "/service/method" 形式のメソッド名を返します。
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

func unaryMethod[S any, Req, Resp proto.Message](service, method string, newReq func() Req, call func(S, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(Req))
			})
		},
	}
}
