package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	pgdb "github.com/ogurasousui/codex-staff-admin/internal/platform/db/postgres"
)

const departmentColumns = `id, name, manager_id, employee_ids, created_at`

// DepartmentRepository は PostgreSQL を利用した部署永続化の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
	tx   pgdb.Transactor
}

var _ department.Repository = (*DepartmentRepository)(nil)

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer, tx pgdb.Transactor) *DepartmentRepository {
	return &DepartmentRepository{pool: pool, tx: tx}
}

// Create は部署を新規作成します。
func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	ids := d.EmployeeIDs
	if ids == nil {
		ids = []string{}
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO departments (name, manager_id, employee_ids, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING `+departmentColumns,
		d.Name,
		d.ManagerID,
		ids,
		d.CreatedAt,
	)

	created, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return created, nil
}

// Update はパッチに含まれる列のみを更新します。
func (r *DepartmentRepository) Update(ctx context.Context, id string, patch department.Patch) (*department.Department, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.ManagerID != nil {
		set("manager_id", *patch.ManagerID)
	}
	if patch.EmployeeIDs != nil {
		ids := *patch.EmployeeIDs
		if ids == nil {
			ids = []string{}
		}
		set("employee_ids", ids)
	}

	args = append(args, id)
	query := `
        UPDATE departments
           SET ` + strings.Join(sets, ", ") + `
         WHERE id = $` + strconv.Itoa(len(args)) + `
        RETURNING ` + departmentColumns

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	updated, err := scanDepartment(exec.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return updated, nil
}

// Delete は部署を削除します。
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return translateDepartmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// DeleteMany は複数の部署を 1 文で削除します。
func (r *DepartmentRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM departments WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return translateDepartmentPgError(err)
	}
	return nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1 LIMIT 1`, id)

	found, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return found, nil
}

// FindByName は部署名で部署を取得します。
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE name = $1 ORDER BY created_at, id LIMIT 1`, name)

	found, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return found, nil
}

// List は部署を作成日時の降順で全件取得します。
func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, translateDepartmentPgError(err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return departments, nil
}

// AddEmployee は所属一覧へ社員 ID を集合として追加します。
func (r *DepartmentRepository) AddEmployee(ctx context.Context, departmentID, employeeID string) error {
	return r.apply(ctx, department.AddOp(departmentID, employeeID))
}

// RemoveEmployee は所属一覧から社員 ID を削除します。
func (r *DepartmentRepository) RemoveEmployee(ctx context.Context, departmentID, employeeID string) error {
	return r.apply(ctx, department.RemoveOp(departmentID, employeeID))
}

// ApplyBatch は全操作を 1 トランザクションで実行します。1 件でも失敗すれば全て取り消します。
func (r *DepartmentRepository) ApplyBatch(ctx context.Context, ops []department.MembershipOp) error {
	if len(ops) == 0 {
		return nil
	}
	run := func(txCtx context.Context) error {
		for _, op := range ops {
			if err := r.apply(txCtx, op); err != nil {
				return err
			}
		}
		return nil
	}
	if r.tx == nil {
		return run(ctx)
	}
	return r.tx.WithinReadWrite(ctx, run)
}

func (r *DepartmentRepository) apply(ctx context.Context, op department.MembershipOp) error {
	var (
		query string
		args  []any
	)
	switch op.Kind {
	case department.OpAdd:
		query = `
        UPDATE departments
           SET employee_ids = CASE WHEN $2 = ANY(employee_ids) THEN employee_ids ELSE array_append(employee_ids, $2) END
         WHERE id = $1`
		args = []any{op.DepartmentID, op.EmployeeID}
	case department.OpRemove:
		query = `UPDATE departments SET employee_ids = array_remove(employee_ids, $2) WHERE id = $1`
		args = []any{op.DepartmentID, op.EmployeeID}
	case department.OpReplace:
		ids := op.EmployeeIDs
		if ids == nil {
			ids = []string{}
		}
		query = `UPDATE departments SET employee_ids = $2 WHERE id = $1`
		args = []any{op.DepartmentID, ids}
	default:
		return fmt.Errorf("postgres: unsupported membership op %d", op.Kind)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: apply %s to %s: %w", op.Kind, op.DepartmentID, translateDepartmentPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: apply %s to %s: %w", op.Kind, op.DepartmentID, department.ErrDepartmentNotFound)
	}
	return nil
}

func scanDepartment(row pgx.Row) (*department.Department, error) {
	var d department.Department
	if err := row.Scan(&d.ID, &d.Name, &d.ManagerID, &d.EmployeeIDs, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}
	if d.EmployeeIDs == nil {
		d.EmployeeIDs = []string{}
	}
	return &d, nil
}

func translateDepartmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return department.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return department.ErrNameAlreadyExists
		case invalidTextRepresentCode:
			return department.ErrDepartmentNotFound
		}
	}
	return err
}
