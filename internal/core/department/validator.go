package department

import (
	"strconv"
	"strings"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/validation"
)

// FieldName は部署名フィールドのキーです。
const FieldName = "name"

// Form は部署フォームから受け取る生の入力値です。
type Form struct {
	ID   string
	Name string
}

type formRules struct {
	Name string `field:"name" validate:"required"`
}

// Validate はフォームの入力値から Department を組み立てます。
// 名前が空白のみの場合は "name" フィールドの validation.Error を返します。
// ID は呼び出し側が管理する値のため、解釈できない場合も 0 として扱いエラーにはしません。
func Validate(form Form) (*Department, error) {
	name := strings.TrimSpace(form.Name)

	verr := validation.NewError()
	if err := validation.CheckStruct(verr, formRules{Name: name}); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Department{ID: ParseID(form.ID), Name: name}, nil
}

// ParseID は文字列を ID として解釈します。解釈できない値だけが 0 になり、負数はそのまま返します。
// 負数の ID は既存行に一致しないため、保存しても更新対象がなく何も変わりません。
func ParseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
