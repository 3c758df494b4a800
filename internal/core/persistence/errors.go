package persistence

import (
	"errors"
	"fmt"
)

// ErrPersistence はストレージ層の失敗を表す種別です。
// 制約違反・接続断・構文エラーなどを区別せずにこの種別で扱います。
var ErrPersistence = errors.New("persistence failure")

// Error はストレージ操作の失敗を表します。
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は ErrPersistence との比較を可能にします。
func (e *Error) Is(target error) bool {
	return target == ErrPersistence
}

// Wrap は err を操作名付きの Error で包みます。err が nil なら nil を、既に Error なら err をそのまま返します。
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Op: op, Err: err}
}
