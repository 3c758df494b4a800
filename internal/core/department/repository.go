package department

import "context"

// Repository は部署エンティティの永続化を行うインターフェースです。
// Update と Delete は該当行がなければ false を返し、エラーにはしません。
type Repository interface {
	Insert(ctx context.Context, department *Department) (*Department, error)
	Update(ctx context.Context, department *Department) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*Department, error)
	FindAll(ctx context.Context) ([]*Department, error)
}
