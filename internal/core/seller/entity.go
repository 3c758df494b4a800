package seller

import (
	"time"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
)

// EntityName は変更通知で使うエンティティ名です。
const EntityName = "seller"

// Seller は販売員エンティティです。ID が 0 の場合は未永続化を表します。
type Seller struct {
	ID         int64
	Name       string
	Email      string
	BirthDate  time.Time
	BaseSalary float64
	Department *department.Department
}

// IsNew は永続化前のエンティティかどうかを返します。
func (s *Seller) IsNew() bool {
	return s.ID == 0
}

// DepartmentID は所属部署の ID を返します。部署が未設定なら 0 です。
func (s *Seller) DepartmentID() int64 {
	if s.Department == nil {
		return 0
	}
	return s.Department.ID
}
