package seller

import "errors"

var (
	ErrSellerNotFound     = errors.New("seller: not found")
	ErrDepartmentRequired = errors.New("seller: department id is required")
	ErrDepartmentNotFound = errors.New("seller: department not found")
	ErrInvalidID          = errors.New("seller: invalid id")
)
