package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/datachange"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/persistence"
	pgdb "github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/db/postgres"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDepartmentRepository_Insert(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(insertDepartmentSQL)).
		WithArgs("Computers").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(7), "Computers"))

	created, err := repo.Insert(context.Background(), &department.Department{Name: "Computers"})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if created.ID != 7 || created.Name != "Computers" {
		t.Fatalf("unexpected department: %+v", created)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_InsertFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(insertDepartmentSQL)).
		WithArgs("Computers").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), &department.Department{Name: "Computers"})
	if !errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_UpdateMissingRowIsNotAnError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(updateDepartmentSQL)).
		WithArgs("Books", int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.Update(context.Background(), &department.Department{ID: 999, Name: "Books"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated {
		t.Fatal("expected no row to be reported as updated")
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_Delete(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteDepartmentSQL)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteDepartmentSQL)).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if deleted, err := repo.Delete(context.Background(), 3); err != nil || !deleted {
		t.Fatalf("expected row 3 deleted, got deleted=%v err=%v", deleted, err)
	}
	if deleted, err := repo.Delete(context.Background(), 4); err != nil || deleted {
		t.Fatalf("expected missing row to be a no-op, got deleted=%v err=%v", deleted, err)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_DeleteReferencedDepartment(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteDepartmentSQL)).
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "seller_department_id_fkey"})

	_, err := repo.Delete(context.Background(), 1)
	if !errors.Is(err, department.ErrDepartmentInUse) {
		t.Fatalf("expected ErrDepartmentInUse, got %v", err)
	}
	if !errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("expected persistence kind, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(findDepartmentSQL)).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Electronics"))

	found, err := repo.FindByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.ID != 2 || found.Name != "Electronics" {
		t.Fatalf("unexpected department: %+v", found)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_FindByIDNotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(findDepartmentSQL)).
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 999)
	if !errors.Is(err, department.ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
	if errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("not found must not be a persistence failure: %v", err)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_FindAll(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(findAllDepartmentsSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "Books").
			AddRow(int64(1), "Computers").
			AddRow(int64(3), "Fashion"))

	departments, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(departments) != 3 {
		t.Fatalf("expected 3 departments, got %d", len(departments))
	}
	if departments[0].Name != "Books" || departments[2].ID != 3 {
		t.Fatalf("unexpected order: %+v %+v", departments[0], departments[2])
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_FindAllEmpty(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(findAllDepartmentsSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	departments, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if departments == nil || len(departments) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", departments)
	}

	expectationsMet(t, mock)
}

func TestDepartmentRepository_UsesContextTransaction(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewDepartmentRepository(mock)
	tm := pgdb.NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(regexp.QuoteMeta(updateDepartmentSQL)).
		WithArgs("Books", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		_, err := repo.Update(ctx, &department.Department{ID: 1, Name: "Books"})
		return err
	})
	if err != nil {
		t.Fatalf("Update in transaction returned error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestDepartmentService_UnreachableDatabaseIsPersistenceError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	svc := department.NewService(NewDepartmentRepository(mock), datachange.NewRegistry(), pgdb.NewTransactionManager(mock))

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly}).
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := svc.ListDepartments(context.Background())
	if !errors.Is(err, persistence.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestTranslateDepartmentPgError(t *testing.T) {
	t.Parallel()

	if translateDepartmentPgError("op", nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	other := errors.New("syntax error")
	translated := translateDepartmentPgError("department.find_all", other)
	if !errors.Is(translated, persistence.ErrPersistence) || !errors.Is(translated, other) {
		t.Fatalf("expected wrapped persistence error, got %v", translated)
	}

	var perr *persistence.Error
	if !errors.As(translated, &perr) || perr.Op != "department.find_all" {
		t.Fatalf("expected op to be recorded, got %v", translated)
	}
}
