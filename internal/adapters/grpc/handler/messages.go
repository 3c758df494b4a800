package handler

import (
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
)

// リクエスト / レスポンスの Struct で使うキーです。
const (
	keyID           = "id"
	keyName         = "name"
	keyEmail        = "email"
	keySalary       = "salary"
	keyBaseSalary   = "baseSalary"
	keyBirthDate    = "birthDate"
	keyDepartment   = "department"
	keyDepartmentID = "departmentId"
	keyEntity       = "entity"
	keyEntityID     = "entityId"
	keyAction       = "action"
	keyOccurredAt   = "occurredAt"
)

// stringField はフォーム入力として key の値を文字列で取り出します。
// 数値はそのまま十進表記にし、存在しない・null の場合は空文字を返します。
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		return ""
	}
}

// idField は key の値を ID として解釈します。解釈できない場合は 0 です。
func idField(s *structpb.Struct, key string) int64 {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0
		}
		return int64(n)
	case *structpb.Value_StringValue:
		id, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

func departmentToStruct(d *department.Department) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyID:   structpb.NewNumberValue(float64(d.ID)),
		keyName: structpb.NewStringValue(d.Name),
	}}
}

func departmentsToList(departments []*department.Department) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(departments))
	for _, d := range departments {
		values = append(values, structpb.NewStructValue(departmentToStruct(d)))
	}
	return &structpb.ListValue{Values: values}
}

func sellerToStruct(s *seller.Seller) *structpb.Struct {
	fields := map[string]*structpb.Value{
		keyID:         structpb.NewNumberValue(float64(s.ID)),
		keyName:       structpb.NewStringValue(s.Name),
		keyEmail:      structpb.NewStringValue(s.Email),
		keyBirthDate:  structpb.NewStringValue(s.BirthDate.Format(seller.DateLayout)),
		keyBaseSalary: structpb.NewNumberValue(s.BaseSalary),
		keyDepartment: structpb.NewNullValue(),
	}
	if s.Department != nil {
		fields[keyDepartment] = structpb.NewStructValue(departmentToStruct(s.Department))
	}
	return &structpb.Struct{Fields: fields}
}

func sellersToList(sellers []*seller.Seller) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(sellers))
	for _, s := range sellers {
		values = append(values, structpb.NewStructValue(sellerToStruct(s)))
	}
	return &structpb.ListValue{Values: values}
}

func eventToStruct(e datachange.Event) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyID:         structpb.NewStringValue(e.ID),
		keyEntity:     structpb.NewStringValue(e.Entity),
		keyAction:     structpb.NewStringValue(string(e.Action)),
		keyEntityID:   structpb.NewNumberValue(float64(e.EntityID)),
		keyOccurredAt: structpb.NewStringValue(e.OccurredAt.UTC().Format(time.RFC3339Nano)),
	}}
}
