package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func rules() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// エラーのフィールド名には `field` タグの値を使う。
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("field"), ",")
			if name == "" || name == "-" {
				return sf.Name
			}
			return name
		})
		engine = v
	})
	return engine
}

// CheckStruct は `validate` タグで宣言された規則を評価し、違反したフィールドをすべて verr に追加します。
// 最初の違反で打ち切らず、1 回の評価で全フィールドを報告します。
// 返却されるエラーは規則の宣言そのものが不正な場合のみです。
func CheckStruct(verr *Error, v any) error {
	err := rules().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: check struct: %w", err)
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), messageForTag(fe.Tag()))
	}
	return nil
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return MessageRequired
	default:
		return "Invalid value"
	}
}
