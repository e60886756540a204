package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-staff-admin/internal/platform/db/postgres"
)

const (
	uniqueViolationCode      = "23505"
	invalidTextRepresentCode = "22P02"
)

const employeeColumns = `id, name, email, department, active, position, admission_date, hierarchy_level, manager_id, base_salary, created_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (name, email, department, active, position, admission_date, hierarchy_level, manager_id, base_salary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+employeeColumns,
		e.Name,
		e.Email,
		e.Department,
		e.Active,
		nullableString(e.Position),
		nullableDate(e.AdmissionDate),
		nullableLevel(e.HierarchyLevel),
		nullableString(e.ManagerID),
		nullableFloat(e.BaseSalary),
		e.CreatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update はパッチに含まれる列のみを更新します。
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, 9)
	args := make([]any, 0, 10)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Department != nil {
		set("department", *patch.Department)
	}
	if patch.Active != nil {
		set("active", *patch.Active)
	}
	if patch.PositionSet {
		set("position", nullableString(patch.Position))
	}
	if patch.AdmissionDateSet {
		set("admission_date", nullableDate(patch.AdmissionDate))
	}
	if patch.HierarchyLevelSet {
		set("hierarchy_level", nullableLevel(patch.HierarchyLevel))
	}
	if patch.ManagerIDSet {
		set("manager_id", nullableString(patch.ManagerID))
	}
	if patch.BaseSalarySet {
		set("base_salary", nullableFloat(patch.BaseSalary))
	}

	args = append(args, id)
	query := `
        UPDATE employees
           SET ` + strings.Join(sets, ", ") + `
         WHERE id = $` + strconv.Itoa(len(args)) + `
        RETURNING ` + employeeColumns

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	updated, err := scanEmployee(exec.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// DeleteMany は複数の社員を 1 文で削除します。存在しない ID は無視します。
func (r *EmployeeRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 LIMIT 1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスで社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1 LIMIT 1`, email)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員を作成日時の降順で全件取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

// ManagerDirectory は employees テーブルから部署管理者を解決します。
type ManagerDirectory struct {
	pool pgdb.Queryer
}

var _ department.ManagerDirectory = (*ManagerDirectory)(nil)

// NewManagerDirectory は ManagerDirectory を生成します。
func NewManagerDirectory(pool pgdb.Queryer) *ManagerDirectory {
	return &ManagerDirectory{pool: pool}
}

// FindManager は社員を管理者候補として返します。存在しない場合は nil を返します。
func (d *ManagerDirectory) FindManager(ctx context.Context, id string) (*department.Manager, error) {
	exec := pgdb.QueryerFromContext(ctx, d.pool)
	var (
		active bool
		level  sql.NullString
	)
	err := exec.QueryRow(ctx, `SELECT active, hierarchy_level FROM employees WHERE id = $1 LIMIT 1`, id).Scan(&active, &level)
	if err != nil {
		if errors.Is(translateEmployeePgError(err), employee.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department.Manager{
		ID:        id,
		Active:    active,
		IsManager: level.Valid && level.String == string(employee.LevelManager),
	}, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e         employee.Employee
		position  sql.NullString
		admission sql.NullTime
		level     sql.NullString
		managerID sql.NullString
		salary    sql.NullFloat64
	)

	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Department,
		&e.Active,
		&position,
		&admission,
		&level,
		&managerID,
		&salary,
		&e.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if position.Valid {
		v := position.String
		e.Position = &v
	}
	if admission.Valid {
		t := admission.Time.UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		e.AdmissionDate = &date
	}
	if level.Valid {
		v := employee.HierarchyLevel(level.String)
		e.HierarchyLevel = &v
	}
	if managerID.Valid {
		v := managerID.String
		e.ManagerID = &v
	}
	if salary.Valid {
		v := salary.Float64
		e.BaseSalary = &v
	}
	return &e, nil
}

// translateEmployeePgError は PostgreSQL のエラーをドメインエラーへ変換します。
// UUID として解釈できない ID は存在しない社員として扱います。
func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmailAlreadyExists
		case invalidTextRepresentCode:
			return employee.ErrEmployeeNotFound
		}
	}
	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableLevel(value *employee.HierarchyLevel) any {
	if value == nil {
		return nil
	}
	return string(*value)
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
