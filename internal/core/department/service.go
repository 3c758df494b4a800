package department

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
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

// UseCase は部署ユースケースの公開インターフェースです。
type UseCase interface {
	SaveDepartment(ctx context.Context, form Form) (*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
}

// Service は部署に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	events Notifier
	tx     TransactionManager
}

// NewService は Service を生成します。repo と events は必須で、nil の場合は panic します。
func NewService(repo Repository, events Notifier, tx TransactionManager) *Service {
	if repo == nil {
		panic("department: repository is required")
	}
	if events == nil {
		panic("department: notifier is required")
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, events: events, tx: tx}
}

// SaveDepartment はフォームを検証し、ID がなければ新規作成、あれば更新します。
// 存在しない ID の更新は何も変更せずに成功し、変更通知も行いません。
func (s *Service) SaveDepartment(ctx context.Context, form Form) (*Department, error) {
	dept, err := Validate(form)
	if err != nil {
		return nil, err
	}

	action := datachange.ActionUpdated
	changed := false
	var saved *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if dept.IsNew() {
			created, err := s.repo.Insert(txCtx, dept)
			if err != nil {
				return err
			}
			action = datachange.ActionCreated
			changed = true
			saved = created
			return nil
		}

		updated, err := s.repo.Update(txCtx, dept)
		if err != nil {
			return err
		}
		changed = updated
		saved = dept
		return nil
	}); err != nil {
		return nil, err
	}

	if changed {
		s.events.Publish(ctx, EntityName, action, saved.ID)
	}
	return saved, nil
}

// GetDepartment は ID で部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var found *Department
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

// ListDepartments は部署の一覧を取得します。
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	var departments []*Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		departments = result
		return nil
	}); err != nil {
		return nil, err
	}

	return departments, nil
}

// DeleteDepartment は部署を削除します。存在しない ID の削除は成功扱いです。
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
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
