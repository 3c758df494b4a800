package department

import "errors"

var (
	// ErrDepartmentNotFound は部署が存在しない場合に返却されます。
	ErrDepartmentNotFound = errors.New("department: not found")
	// ErrDepartmentInUse は販売員から参照されている部署を削除しようとした場合に返却されます。
	ErrDepartmentInUse = errors.New("department: still referenced by sellers")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("department: invalid id")
)
