package seller

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Notifier はコミット済みの変更を購読者へ通知します。
type Notifier interface {
	Publish(ctx context.Context, entity string, action datachange.Action, entityID int64) datachange.Event
}

// DepartmentFinder は選択された部署を解決します。
type DepartmentFinder interface {
	FindByID(ctx context.Context, id int64) (*department.Department, error)
}

// UseCase は販売員ユースケースの公開インターフェースです。
type UseCase interface {
	SaveSeller(ctx context.Context, in SaveSellerInput) (*Seller, error)
	GetSeller(ctx context.Context, id int64) (*Seller, error)
	ListSellers(ctx context.Context) ([]*Seller, error)
	ListSellersByDepartment(ctx context.Context, departmentID int64) ([]*Seller, error)
	DeleteSeller(ctx context.Context, id int64) error
}

// SaveSellerInput は販売員保存時の入力です。DepartmentID が 0 なら部署未選択です。
type SaveSellerInput struct {
	ID           string
	Name         string
	Email        string
	Salary       string
	BirthDate    string
	DepartmentID int64
}

// Service は販売員に関するユースケースをまとめます。
type Service struct {
	repo        Repository
	departments DepartmentFinder
	events      Notifier
	tx          TransactionManager
}

// NewService は Service を生成します。tx 以外は必須で、nil の場合は panic します。
func NewService(repo Repository, departments DepartmentFinder, events Notifier, tx TransactionManager) *Service {
	if repo == nil {
		panic("seller: repository is required")
	}
	if departments == nil {
		panic("seller: department finder is required")
	}
	if events == nil {
		panic("seller: notifier is required")
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, departments: departments, events: events, tx: tx}
}

// SaveSeller は部署を解決してフォームを検証し、ID がなければ新規作成、あれば更新します。
// 存在しない部署 ID は未選択として扱われ、"department" の検証エラーになります。
// 存在しない ID の更新は何も変更せずに成功し、変更通知も行いません。
func (s *Service) SaveSeller(ctx context.Context, in SaveSellerInput) (*Seller, error) {
	action := datachange.ActionUpdated
	changed := false
	var saved *Seller
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		dept, err := s.resolveDepartment(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}

		entity, err := Validate(Form{
			ID:         in.ID,
			Name:       in.Name,
			Email:      in.Email,
			Salary:     in.Salary,
			BirthDate:  in.BirthDate,
			Department: dept,
		})
		if err != nil {
			return err
		}

		if entity.IsNew() {
			created, err := s.repo.Insert(txCtx, entity)
			if err != nil {
				return err
			}
			action = datachange.ActionCreated
			changed = true
			saved = created
			return nil
		}

		updated, err := s.repo.Update(txCtx, entity)
		if err != nil {
			return err
		}
		changed = updated
		saved = entity
		return nil
	}); err != nil {
		return nil, err
	}

	if changed {
		s.events.Publish(ctx, EntityName, action, saved.ID)
	}
	return saved, nil
}

// GetSeller は ID で販売員を取得します。
func (s *Service) GetSeller(ctx context.Context, id int64) (*Seller, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var found *Seller
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListSellers は販売員の一覧を取得します。
func (s *Service) ListSellers(ctx context.Context) ([]*Seller, error) {
	var sellers []*Seller
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		sellers = result
		return nil
	}); err != nil {
		return nil, err
	}

	return sellers, nil
}

// ListSellersByDepartment は部署に所属する販売員の一覧を取得します。
func (s *Service) ListSellersByDepartment(ctx context.Context, departmentID int64) ([]*Seller, error) {
	if departmentID <= 0 {
		return nil, fmt.Errorf("department id: %w", ErrInvalidID)
	}

	var sellers []*Seller
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByDepartment(txCtx, departmentID)
		if err != nil {
			return err
		}
		sellers = result
		return nil
	}); err != nil {
		return nil, err
	}

	return sellers, nil
}

// DeleteSeller は販売員を削除します。存在しない ID の削除は成功扱いです。
func (s *Service) DeleteSeller(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	deleted := false
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(txCtx, id)
		return err
	}); err != nil {
		return err
	}

	if deleted {
		s.events.Publish(ctx, EntityName, datachange.ActionDeleted, id)
	}
	return nil
}

func (s *Service) resolveDepartment(ctx context.Context, id int64) (*department.Department, error) {
	if id <= 0 {
		return nil, nil
	}

	dept, err := s.departments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dept, nil
}
