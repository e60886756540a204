package memory

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
)

// DepartmentRepository はインメモリの部署リポジトリです。
type DepartmentRepository struct {
	store *Store
}

var _ department.Repository = (*DepartmentRepository)(nil)

// Create は部署を保存し、ID を採番します。
func (r *DepartmentRepository) Create(_ context.Context, d *department.Department) (*department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneDepartment(d)
	clone.ID = r.store.newID()
	if clone.EmployeeIDs == nil {
		clone.EmployeeIDs = []string{}
	}
	r.store.departments[clone.ID] = clone
	return cloneDepartment(clone), nil
}

// Update はパッチを適用します。
func (r *DepartmentRepository) Update(_ context.Context, id string, patch department.Patch) (*department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.departments[id]
	if !ok {
		return nil, department.ErrDepartmentNotFound
	}
	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.ManagerID != nil {
		existing.ManagerID = *patch.ManagerID
	}
	if patch.EmployeeIDs != nil {
		existing.EmployeeIDs = append([]string{}, (*patch.EmployeeIDs)...)
	}
	return cloneDepartment(existing), nil
}

// Delete は部署を削除します。
func (r *DepartmentRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.departments[id]; !ok {
		return department.ErrDepartmentNotFound
	}
	delete(r.store.departments, id)
	return nil
}

// DeleteMany は複数の部署を一括削除します。
func (r *DepartmentRepository) DeleteMany(_ context.Context, ids []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range ids {
		delete(r.store.departments, id)
	}
	return nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(_ context.Context, id string) (*department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	found, ok := r.store.departments[id]
	if !ok {
		return nil, department.ErrDepartmentNotFound
	}
	return cloneDepartment(found), nil
}

// FindByName は部署名の完全一致で部署を取得します。
func (r *DepartmentRepository) FindByName(_ context.Context, name string) (*department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, d := range r.store.sortedDepartments() {
		if d.Name == name {
			return cloneDepartment(d), nil
		}
	}
	return nil, department.ErrDepartmentNotFound
}

// List は作成日時の降順で全部署を返します。
func (r *DepartmentRepository) List(_ context.Context) ([]*department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := r.store.sortedDepartments()
	result := make([]*department.Department, 0, len(sorted))
	for _, d := range sorted {
		result = append(result, cloneDepartment(d))
	}
	return result, nil
}

// AddEmployee は所属一覧へ社員 ID を集合として追加します。
func (r *DepartmentRepository) AddEmployee(ctx context.Context, departmentID, employeeID string) error {
	return r.ApplyBatch(ctx, []department.MembershipOp{department.AddOp(departmentID, employeeID)})
}

// RemoveEmployee は所属一覧から社員 ID を削除します。
func (r *DepartmentRepository) RemoveEmployee(ctx context.Context, departmentID, employeeID string) error {
	return r.ApplyBatch(ctx, []department.MembershipOp{department.RemoveOp(departmentID, employeeID)})
}

// ApplyBatch は操作をコピーに適用し、全て成功した場合のみ反映します。
func (r *DepartmentRepository) ApplyBatch(_ context.Context, ops []department.MembershipOp) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	staged := make(map[string][]string, len(ops))
	for _, op := range ops {
		current, ok := staged[op.DepartmentID]
		if !ok {
			d, exists := r.store.departments[op.DepartmentID]
			if !exists {
				return fmt.Errorf("memory: apply %s to %s: %w", op.Kind, op.DepartmentID, department.ErrDepartmentNotFound)
			}
			current = append([]string{}, d.EmployeeIDs...)
		}

		switch op.Kind {
		case department.OpAdd:
			current = addToSet(current, op.EmployeeID)
		case department.OpRemove:
			current = removeFromSet(current, op.EmployeeID)
		case department.OpReplace:
			current = append([]string{}, op.EmployeeIDs...)
		default:
			return fmt.Errorf("memory: unsupported membership op %d", op.Kind)
		}
		staged[op.DepartmentID] = current
	}

	for id, ids := range staged {
		r.store.departments[id].EmployeeIDs = ids
	}
	return nil
}

func (s *Store) sortedDepartments() []*department.Department {
	entries := make([]createdEntry, 0, len(s.departments))
	for id, d := range s.departments {
		entries = append(entries, createdEntry{id: id, createdAt: d.CreatedAt})
	}
	sortNewestFirst(entries)

	result := make([]*department.Department, 0, len(entries))
	for _, entry := range entries {
		result = append(result, s.departments[entry.id])
	}
	return result
}

func addToSet(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeFromSet(ids []string, id string) []string {
	result := ids[:0]
	for _, existing := range ids {
		if existing != id {
			result = append(result, existing)
		}
	}
	return result
}

func cloneDepartment(d *department.Department) *department.Department {
	if d == nil {
		return nil
	}
	clone := *d
	clone.EmployeeIDs = append([]string{}, d.EmployeeIDs...)
	return &clone
}
