package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
)

// DepartmentGrpcHandler は DepartmentService の gRPC 実装です。
type DepartmentGrpcHandler struct {
	svc department.UseCase
	log *zap.Logger
}

var _ DepartmentServiceServer = (*DepartmentGrpcHandler)(nil)

// NewDepartmentGrpcHandler は DepartmentGrpcHandler を生成します。
// log が nil の場合はログを出力しません。
func NewDepartmentGrpcHandler(svc department.UseCase, log *zap.Logger) *DepartmentGrpcHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DepartmentGrpcHandler{svc: svc, log: log}
}

// SaveDepartment は部署フォームを保存します。id がなければ新規作成です。
func (h *DepartmentGrpcHandler) SaveDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	saved, err := h.svc.SaveDepartment(ctx, department.Form{
		ID:   stringField(req, keyID),
		Name: stringField(req, keyName),
	})
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return departmentToStruct(saved), nil
}

// GetDepartment は部署を取得します。
func (h *DepartmentGrpcHandler) GetDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetDepartment(ctx, idField(req, keyID))
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return departmentToStruct(found), nil
}

// ListDepartments は部署の一覧を取得します。
func (h *DepartmentGrpcHandler) ListDepartments(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return nil, toStatusError(h.log, err)
	}

	return departmentsToList(departments), nil
}

// DeleteDepartment は部署を削除します。
func (h *DepartmentGrpcHandler) DeleteDepartment(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteDepartment(ctx, idField(req, keyID)); err != nil {
		return nil, toStatusError(h.log, err)
	}

	return &emptypb.Empty{}, nil
}
