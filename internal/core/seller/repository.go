package seller

import "context"

// Repository は販売員永続化の抽象です。
// 読み取り系は部署と内部結合するため、部署行のない販売員は返却されません。
// Update と Delete は該当行がなければ false を返し、エラーにはしません。
type Repository interface {
	Insert(ctx context.Context, seller *Seller) (*Seller, error)
	Update(ctx context.Context, seller *Seller) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*Seller, error)
	FindAll(ctx context.Context) ([]*Seller, error)
	FindByDepartment(ctx context.Context, departmentID int64) ([]*Seller, error)
}
