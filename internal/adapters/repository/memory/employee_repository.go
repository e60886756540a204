package memory

import (
	"context"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
)

// EmployeeRepository はインメモリの社員リポジトリです。
type EmployeeRepository struct {
	store *Store
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// Create は社員を保存し、ID を採番します。
func (r *EmployeeRepository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneEmployee(e)
	clone.ID = r.store.newID()
	r.store.employees[clone.ID] = clone
	return cloneEmployee(clone), nil
}

// Update はパッチを適用します。
func (r *EmployeeRepository) Update(_ context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	patch.Apply(existing)
	return cloneEmployee(existing), nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.store.employees, id)
	return nil
}

// DeleteMany は複数の社員を一括削除します。存在しない ID は無視します。
func (r *EmployeeRepository) DeleteMany(_ context.Context, ids []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range ids {
		delete(r.store.employees, id)
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	found, ok := r.store.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(found), nil
}

// FindByEmail はメールアドレスの完全一致で社員を取得します。
func (r *EmployeeRepository) FindByEmail(_ context.Context, email string) (*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.sortedEmployees() {
		if e.Email == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// List は作成日時の降順で全社員を返します。
func (r *EmployeeRepository) List(_ context.Context) ([]*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := r.store.sortedEmployees()
	result := make([]*employee.Employee, 0, len(sorted))
	for _, e := range sorted {
		result = append(result, cloneEmployee(e))
	}
	return result, nil
}

func (s *Store) sortedEmployees() []*employee.Employee {
	entries := make([]createdEntry, 0, len(s.employees))
	for id, e := range s.employees {
		entries = append(entries, createdEntry{id: id, createdAt: e.CreatedAt})
	}
	sortNewestFirst(entries)

	result := make([]*employee.Employee, 0, len(entries))
	for _, entry := range entries {
		result = append(result, s.employees[entry.id])
	}
	return result
}

// ManagerDirectory は社員コレクションから部署の管理者を解決します。
type ManagerDirectory struct {
	store *Store
}

var _ department.ManagerDirectory = (*ManagerDirectory)(nil)

// FindManager は社員を管理者候補として返します。存在しない場合は nil を返します。
func (d *ManagerDirectory) FindManager(_ context.Context, id string) (*department.Manager, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	found, ok := d.store.employees[id]
	if !ok {
		return nil, nil
	}
	return &department.Manager{ID: found.ID, Active: found.Active, IsManager: found.IsManager()}, nil
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Position != nil {
		v := *e.Position
		clone.Position = &v
	}
	if e.AdmissionDate != nil {
		v := *e.AdmissionDate
		clone.AdmissionDate = &v
	}
	if e.HierarchyLevel != nil {
		v := *e.HierarchyLevel
		clone.HierarchyLevel = &v
	}
	if e.ManagerID != nil {
		v := *e.ManagerID
		clone.ManagerID = &v
	}
	if e.BaseSalary != nil {
		v := *e.BaseSalary
		clone.BaseSalary = &v
	}
	return &clone
}
