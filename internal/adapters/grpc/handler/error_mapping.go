package handler

import (
	"errors"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/validation"
)

// internalMessage はクライアントに返す内部エラーの文言です。原因は log にだけ記録します。
const internalMessage = "internal error"

func toStatusError(log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	if verr, ok := validation.AsError(err); ok {
		return validationStatus(verr)
	}

	switch {
	case errors.Is(err, department.ErrInvalidID),
		errors.Is(err, seller.ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, seller.ErrSellerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, department.ErrDepartmentInUse),
		errors.Is(err, seller.ErrDepartmentNotFound),
		errors.Is(err, seller.ErrDepartmentRequired):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		return status.Error(codes.Internal, internalMessage)
	}
}

// validationStatus はフィールドごとのメッセージを BadRequest の詳細として付与します。
func validationStatus(verr *validation.Error) error {
	st := status.New(codes.InvalidArgument, verr.Error())

	violations := make([]*errdetails.BadRequest_FieldViolation, 0, verr.Len())
	for _, field := range verr.FieldNames() {
		msg, _ := verr.Message(field)
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: msg,
		})
	}

	detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// FieldViolations は status エラーから field → message を取り出します。
// gRPC クライアントがフォームにエラーを表示する際に利用します。
func FieldViolations(err error) map[string]string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}

	fields := make(map[string]string)
	for _, detail := range st.Details() {
		br, ok := detail.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range br.GetFieldViolations() {
			fields[v.GetField()] = v.GetDescription()
		}
	}
	return fields
}
