package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/persistence"
	pgdb "github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/db/postgres"
)

const foreignKeyViolationCode = "23503"

const (
	insertDepartmentSQL   = `INSERT INTO department (name) VALUES ($1) RETURNING id, name`
	updateDepartmentSQL   = `UPDATE department SET name = $1 WHERE id = $2`
	deleteDepartmentSQL   = `DELETE FROM department WHERE id = $1`
	findDepartmentSQL     = `SELECT id, name FROM department WHERE id = $1`
	findAllDepartmentsSQL = `SELECT id, name FROM department ORDER BY name, id`
)

// DepartmentRepository は PostgreSQL を利用した部署永続化の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	if pool == nil {
		panic("postgres: department repository requires a queryer")
	}
	return &DepartmentRepository{pool: pool}
}

// Insert は部署を登録し、採番された ID を持つ部署を返します。
func (r *DepartmentRepository) Insert(ctx context.Context, d *department.Department) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	created, err := scanDepartment(exec.QueryRow(ctx, insertDepartmentSQL, d.Name))
	if err != nil {
		return nil, translateDepartmentPgError("department.insert", err)
	}
	return created, nil
}

// Update は ID で部署名を更新します。該当行がなくてもエラーにはせず false を返します。
func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, updateDepartmentSQL, d.Name, d.ID)
	if err != nil {
		return false, translateDepartmentPgError("department.update", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete は部署を削除します。販売員から参照されている場合は ErrDepartmentInUse になります。
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteDepartmentSQL, id)
	if err != nil {
		return false, translateDepartmentPgError("department.delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanDepartment(exec.QueryRow(ctx, findDepartmentSQL, id))
	if err != nil {
		return nil, translateDepartmentPgError("department.find_by_id", err)
	}
	return found, nil
}

// FindAll は部署を名前順で全件取得します。
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, findAllDepartmentsSQL)
	if err != nil {
		return nil, translateDepartmentPgError("department.find_all", err)
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, translateDepartmentPgError("department.find_all", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDepartmentPgError("department.find_all", err)
	}

	return departments, nil
}

func scanDepartment(row pgx.Row) (*department.Department, error) {
	var d department.Department
	if err := row.Scan(&d.ID, &d.Name); err != nil {
		return nil, err
	}
	return &d, nil
}

func translateDepartmentPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return department.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return persistence.Wrap(op, department.ErrDepartmentInUse)
	}

	return persistence.Wrap(op, err)
}
