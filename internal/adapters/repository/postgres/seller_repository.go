package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/persistence"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/seller"
	pgdb "github.com/ogurasousui/codex-grpc-sales-admin/internal/platform/db/postgres"
)

const sellerColumns = `s.id, s.name, s.email, s.birth_date, s.base_salary, d.id, d.name`

const (
	insertSellerSQL = `
        WITH inserted AS (
            INSERT INTO seller (name, email, birth_date, base_salary, department_id)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, name, email, birth_date, base_salary, department_id
        )
        SELECT i.id, i.name, i.email, i.birth_date, i.base_salary, d.id, d.name
          FROM inserted i
         INNER JOIN department d ON d.id = i.department_id
    `
	updateSellerSQL = `
        UPDATE seller
           SET name = $1,
               email = $2,
               birth_date = $3,
               base_salary = $4,
               department_id = $5
         WHERE id = $6
    `
	deleteSellerSQL = `DELETE FROM seller WHERE id = $1`

	selectSellerSQL = `
        SELECT ` + sellerColumns + `
          FROM seller s
         INNER JOIN department d ON d.id = s.department_id`

	findSellerSQL              = selectSellerSQL + ` WHERE s.id = $1`
	findAllSellersSQL          = selectSellerSQL + ` ORDER BY s.name, s.id`
	findSellersByDepartmentSQL = selectSellerSQL + ` WHERE s.department_id = $1 ORDER BY s.name, s.id`
)

// SellerRepository は PostgreSQL を利用した販売員永続化の実装です。
type SellerRepository struct {
	pool pgdb.Queryer
}

// NewSellerRepository は SellerRepository を生成します。
func NewSellerRepository(pool pgdb.Queryer) *SellerRepository {
	if pool == nil {
		panic("postgres: seller repository requires a queryer")
	}
	return &SellerRepository{pool: pool}
}

// Insert は販売員を登録し、採番 ID と部署名を含む販売員を返します。
func (r *SellerRepository) Insert(ctx context.Context, s *seller.Seller) (*seller.Seller, error) {
	if s.DepartmentID() == 0 {
		return nil, seller.ErrDepartmentRequired
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, insertSellerSQL,
		s.Name,
		s.Email,
		seller.NormalizeDate(s.BirthDate),
		s.BaseSalary,
		s.DepartmentID(),
	)

	created, err := scanSeller(row, nil)
	if err != nil {
		return nil, translateSellerPgError("seller.insert", err)
	}
	return created, nil
}

// Update は ID で販売員を更新します。該当行がなくてもエラーにはせず false を返します。
func (r *SellerRepository) Update(ctx context.Context, s *seller.Seller) (bool, error) {
	if s.DepartmentID() == 0 {
		return false, seller.ErrDepartmentRequired
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, updateSellerSQL,
		s.Name,
		s.Email,
		seller.NormalizeDate(s.BirthDate),
		s.BaseSalary,
		s.DepartmentID(),
		s.ID,
	)
	if err != nil {
		return false, translateSellerPgError("seller.update", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete は販売員を削除します。該当行がなければ false を返します。
func (r *SellerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteSellerSQL, id)
	if err != nil {
		return false, translateSellerPgError("seller.delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID は ID で販売員を取得します。
func (r *SellerRepository) FindByID(ctx context.Context, id int64) (*seller.Seller, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanSeller(exec.QueryRow(ctx, findSellerSQL, id), nil)
	if err != nil {
		return nil, translateSellerPgError("seller.find_by_id", err)
	}
	return found, nil
}

// FindAll は販売員を名前順で全件取得します。
func (r *SellerRepository) FindAll(ctx context.Context) ([]*seller.Seller, error) {
	return r.list(ctx, "seller.find_all", findAllSellersSQL)
}

// FindByDepartment は指定部署に所属する販売員を名前順で取得します。
func (r *SellerRepository) FindByDepartment(ctx context.Context, departmentID int64) ([]*seller.Seller, error) {
	return r.list(ctx, "seller.find_by_department", findSellersByDepartmentSQL, departmentID)
}

func (r *SellerRepository) list(ctx context.Context, op, query string, args ...any) ([]*seller.Seller, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateSellerPgError(op, err)
	}
	defer rows.Close()

	// 同じ部署の販売員は 1 つの Department を共有します。
	departments := make(map[int64]*department.Department)
	sellers := make([]*seller.Seller, 0)
	for rows.Next() {
		s, err := scanSeller(rows, departments)
		if err != nil {
			return nil, translateSellerPgError(op, err)
		}
		sellers = append(sellers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateSellerPgError(op, err)
	}

	return sellers, nil
}

func scanSeller(row pgx.Row, departments map[int64]*department.Department) (*seller.Seller, error) {
	var (
		s         seller.Seller
		birthDate time.Time
		deptID    int64
		deptName  string
	)

	if err := row.Scan(&s.ID, &s.Name, &s.Email, &birthDate, &s.BaseSalary, &deptID, &deptName); err != nil {
		return nil, err
	}
	s.BirthDate = seller.NormalizeDate(birthDate)

	dept, ok := departments[deptID]
	if !ok {
		dept = &department.Department{ID: deptID, Name: deptName}
		if departments != nil {
			departments[deptID] = dept
		}
	}
	s.Department = dept

	return &s, nil
}

func translateSellerPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return seller.ErrSellerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return persistence.Wrap(op, seller.ErrDepartmentNotFound)
	}

	return persistence.Wrap(op, err)
}
