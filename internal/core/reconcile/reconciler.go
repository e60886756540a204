// Package reconcile は社員と部署の所属関係を全件で修復する一括処理を提供します。
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/rs/zerolog"
)

// EmployeeLister は全社員を取得します。
type EmployeeLister interface {
	List(ctx context.Context) ([]*employee.Employee, error)
}

// DepartmentStore は修復処理が必要とする部署ストア操作です。
type DepartmentStore interface {
	List(ctx context.Context) ([]*department.Department, error)
	AddEmployee(ctx context.Context, departmentID, employeeID string) error
	ApplyBatch(ctx context.Context, ops []department.MembershipOp) error
}

// Result は修復処理の件数です。
type Result struct {
	SyncCount  int
	CleanCount int
}

// Reconciler は所属関係の一括修復を行います。
type Reconciler struct {
	employees   EmployeeLister
	departments DepartmentStore
	logger      zerolog.Logger
}

// NewReconciler は Reconciler を生成します。
func NewReconciler(employees EmployeeLister, departments DepartmentStore, logger zerolog.Logger) *Reconciler {
	return &Reconciler{employees: employees, departments: departments, logger: logger}
}

// Run は 2 フェーズで所属関係を修復します。
//
// 1. 全部署の所属一覧から、存在しない・無効・別部署名の社員 ID と重複を取り除き、1 回の一括書き込みで反映します。
// 2. 一括書き込みの完了後、有効な社員を部署名で対応付け、未登録なら個別に追加します。
//
// 静的なデータに対して 2 回続けて実行すると 2 回目は {0, 0} になります。
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	var result Result

	employees, err := r.employees.List(ctx)
	if err != nil {
		return result, fmt.Errorf("reconcile: list employees: %w", err)
	}

	departments, err := r.departments.List(ctx)
	if err != nil {
		return result, fmt.Errorf("reconcile: list departments: %w", err)
	}

	byID := make(map[string]*employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	cleaned := make(map[string][]string, len(departments))
	ops := make([]department.MembershipOp, 0, len(departments))
	for _, d := range departments {
		valid := make([]string, 0, len(d.EmployeeIDs))
		seen := make(map[string]struct{}, len(d.EmployeeIDs))
		for _, id := range d.EmployeeIDs {
			_, dup := seen[id]
			if dup || !belongsTo(byID[id], d.Name) {
				result.CleanCount++
				r.logger.Info().
					Str("employee_id", id).
					Str("department", d.Name).
					Bool("duplicate", dup).
					Msg("removing orphan membership")
				continue
			}
			seen[id] = struct{}{}
			valid = append(valid, id)
		}
		cleaned[d.ID] = valid
		ops = append(ops, department.ReplaceOp(d.ID, valid))
	}

	if len(ops) > 0 {
		if err := r.departments.ApplyBatch(ctx, ops); err != nil {
			return result, fmt.Errorf("reconcile: cleanup batch: %w", err)
		}
	}
	r.logger.Info().Int("clean_count", result.CleanCount).Msg("orphan cleanup committed")

	byName := make(map[string]*department.Department, len(departments))
	for _, d := range departments {
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = d
		}
	}

	for _, e := range employees {
		name := strings.TrimSpace(e.Department)
		if !e.Active || name == "" {
			continue
		}
		target, ok := byName[name]
		if !ok {
			continue
		}
		if containsID(cleaned[target.ID], e.ID) {
			continue
		}
		if err := r.departments.AddEmployee(ctx, target.ID, e.ID); err != nil {
			return result, fmt.Errorf("reconcile: add %s to %q: %w", e.ID, target.Name, err)
		}
		cleaned[target.ID] = append(cleaned[target.ID], e.ID)
		result.SyncCount++
		r.logger.Info().
			Str("employee_id", e.ID).
			Str("employee", e.Name).
			Str("department", target.Name).
			Msg("employee added to department")
	}

	r.logger.Info().
		Int("sync_count", result.SyncCount).
		Int("clean_count", result.CleanCount).
		Msg("reconciliation finished")

	return result, nil
}

// belongsTo は社員が存在し、有効で、部署名が一致するかを返します。
func belongsTo(e *employee.Employee, departmentName string) bool {
	return e != nil && e.Active && strings.TrimSpace(e.Department) == departmentName
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
