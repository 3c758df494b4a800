package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation は入力検証に失敗したことを表す種別です。
// errors.Is(err, ErrValidation) で判定します。
var ErrValidation = errors.New("validation failed")

const (
	// MessageRequired は必須フィールドが空の場合のメッセージです。
	MessageRequired = "Field can't be empty"
	// MessageInvalidNumber は数値として解釈できない場合のメッセージです。
	MessageInvalidNumber = "Invalid number"
	// MessageInvalidDate は日付として解釈できない場合のメッセージです。
	MessageInvalidDate = "Invalid date"
)

// Error はフィールド名からメッセージへの対応を保持する検証エラーです。
// 検証 1 回ごとに生成され、使い終わったら破棄されます。
type Error struct {
	fields map[string]string
}

// NewError は空の Error を生成します。
func NewError() *Error {
	return &Error{fields: make(map[string]string)}
}

// Add はフィールドにメッセージを追加します。同じフィールドへの 2 回目以降の追加は無視されます。
func (e *Error) Add(field, message string) {
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	if _, exists := e.fields[field]; exists {
		return
	}
	e.fields[field] = message
}

// Message は指定フィールドのメッセージを返します。
func (e *Error) Message(field string) (string, bool) {
	msg, ok := e.fields[field]
	return msg, ok
}

// Fields はフィールドとメッセージの対応のコピーを返します。
func (e *Error) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// FieldNames はエラーのあるフィールド名を昇順で返します。
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for k := range e.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len はエラーのあるフィールド数を返します。
func (e *Error) Len() int {
	return len(e.fields)
}

func (e *Error) Error() string {
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is は ErrValidation との比較を可能にします。
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// OrNil はエラーが 1 件もなければ nil を返します。
func (e *Error) OrNil() error {
	if e == nil || e.Len() == 0 {
		return nil
	}
	return e
}

// AsError は err から *Error を取り出します。
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
