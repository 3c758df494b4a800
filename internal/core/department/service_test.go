package department

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/persistence"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/validation"
)

type fakeRepo struct {
	departments map[int64]*Department
	seq         int64
	insertErr   error
	deleteErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{departments: make(map[int64]*Department)}
}

func (r *fakeRepo) Insert(_ context.Context, d *Department) (*Department, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.seq++
	clone := *d
	clone.ID = r.seq
	r.departments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeRepo) Update(_ context.Context, d *Department) (bool, error) {
	if _, ok := r.departments[d.ID]; !ok {
		return false, nil
	}
	clone := *d
	r.departments[d.ID] = &clone
	return true, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.departments[id]; !ok {
		return false, nil
	}
	delete(r.departments, id)
	return true, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*Department, error) {
	out := make([]*Department, 0, len(r.departments))
	for _, d := range r.departments {
		clone := *d
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type recordingNotifier struct {
	events []datachange.Event
}

func (n *recordingNotifier) Publish(_ context.Context, entity string, action datachange.Action, id int64) datachange.Event {
	e := datachange.Event{Entity: entity, Action: action, EntityID: id}
	n.events = append(n.events, e)
	return e
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (tx *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	tx.readOnly++
	return fn(ctx)
}

func (tx *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	tx.readWrite++
	return fn(ctx)
}

func TestService_SaveDepartment_Insert(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	events := &recordingNotifier{}
	tx := &recordingTx{}
	svc := NewService(repo, events, tx)

	saved, err := svc.SaveDepartment(context.Background(), Form{Name: " Sales "})
	if err != nil {
		t.Fatalf("SaveDepartment returned error: %v", err)
	}

	if saved.ID == 0 {
		t.Fatal("expected generated id to be returned")
	}

	found, err := svc.GetDepartment(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("GetDepartment returned error: %v", err)
	}
	if found.Name != "Sales" {
		t.Fatalf("expected name Sales, got %q", found.Name)
	}

	if len(events.events) != 1 || events.events[0].Action != datachange.ActionCreated || events.events[0].EntityID != saved.ID {
		t.Fatalf("expected one created event, got %+v", events.events)
	}
	if events.events[0].Entity != EntityName {
		t.Fatalf("unexpected entity name %q", events.events[0].Entity)
	}

	if tx.readWrite != 1 || tx.readOnly != 1 {
		t.Fatalf("unexpected transaction usage: %+v", tx)
	}
}

func TestService_SaveDepartment_BlankNameHasNoSideEffects(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	_, err := svc.SaveDepartment(context.Background(), Form{Name: "   "})
	if !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if len(repo.departments) != 0 {
		t.Fatalf("expected nothing persisted, got %d rows", len(repo.departments))
	}
	if len(events.events) != 0 {
		t.Fatalf("expected no events, got %+v", events.events)
	}
}

func TestService_SaveDepartment_Update(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	created, err := svc.SaveDepartment(context.Background(), Form{Name: "Books"})
	if err != nil {
		t.Fatalf("SaveDepartment error: %v", err)
	}

	updated, err := svc.SaveDepartment(context.Background(), Form{ID: "1", Name: "Music"})
	if err != nil {
		t.Fatalf("SaveDepartment (update) error: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Music" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	found, _ := repo.FindByID(context.Background(), created.ID)
	if found.Name != "Music" {
		t.Fatalf("expected stored name Music, got %q", found.Name)
	}

	if events.events[1].Action != datachange.ActionUpdated {
		t.Fatalf("expected updated event, got %+v", events.events[1])
	}
}

func TestService_SaveDepartment_UpdateMissingIsNoop(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	if _, err := svc.SaveDepartment(context.Background(), Form{Name: "Books"}); err != nil {
		t.Fatalf("SaveDepartment error: %v", err)
	}

	for _, id := range []string{"99", "-5"} {
		if _, err := svc.SaveDepartment(context.Background(), Form{ID: id, Name: "Ghost"}); err != nil {
			t.Fatalf("expected update of missing id %s to succeed, got %v", id, err)
		}
	}

	all, _ := svc.ListDepartments(context.Background())
	if len(all) != 1 || all[0].Name != "Books" {
		t.Fatalf("expected storage unchanged, got %+v", all)
	}
	if len(events.events) != 1 || events.events[0].Action != datachange.ActionCreated {
		t.Fatalf("expected only the created event, got %+v", events.events)
	}
}

func TestService_DeleteDepartment_MissingPublishesNothing(t *testing.T) {
	t.Parallel()

	events := &recordingNotifier{}
	svc := NewService(newFakeRepo(), events, nil)

	if err := svc.DeleteDepartment(context.Background(), 7); err != nil {
		t.Fatalf("expected delete of missing id to succeed, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("expected no events, got %+v", events.events)
	}
}

func TestService_SaveDepartment_PersistenceFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.insertErr = persistence.Wrap("department.insert", errors.New("connection reset"))
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	_, err := svc.SaveDepartment(context.Background(), Form{Name: "Books"})
	if !errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("expected no events after failure, got %+v", events.events)
	}
}

func TestService_GetDepartment_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &recordingNotifier{}, nil)

	if _, err := svc.GetDepartment(context.Background(), 42); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestService_InvalidID(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &recordingNotifier{}, nil)

	if _, err := svc.GetDepartment(context.Background(), 0); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.DeleteDepartment(context.Background(), -1); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_DeleteDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	created, err := svc.SaveDepartment(context.Background(), Form{Name: "Books"})
	if err != nil {
		t.Fatalf("SaveDepartment error: %v", err)
	}

	if err := svc.DeleteDepartment(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteDepartment error: %v", err)
	}

	if _, err := svc.GetDepartment(context.Background(), created.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound after delete, got %v", err)
	}

	last := events.events[len(events.events)-1]
	if last.Action != datachange.ActionDeleted || last.EntityID != created.ID {
		t.Fatalf("expected deleted event, got %+v", last)
	}
}

func TestService_DeleteDepartment_InUse(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.deleteErr = persistence.Wrap("department.delete", ErrDepartmentInUse)
	events := &recordingNotifier{}
	svc := NewService(repo, events, nil)

	err := svc.DeleteDepartment(context.Background(), 1)
	if !errors.Is(err, ErrDepartmentInUse) || !errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("expected in-use persistence error, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("expected no events, got %+v", events.events)
	}
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	cases := map[string]func(){
		"repository": func() { NewService(nil, &recordingNotifier{}, nil) },
		"notifier":   func() { NewService(newFakeRepo(), nil, nil) },
	}

	for name, fn := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic when %s is nil", name)
				}
			}()
			fn()
		}()
	}
}
