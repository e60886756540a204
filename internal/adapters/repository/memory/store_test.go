package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
)

func TestEmployeeRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := store.Employees()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[name]
		if _, err := repo.Create(ctx, &employee.Employee{Name: name, Email: name + "@x.com", CreatedAt: base.Add(offset)}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 3 || list[0].Name != "new" || list[1].Name != "mid" || list[2].Name != "old" {
		t.Fatalf("unexpected order: %v, %v, %v", list[0].Name, list[1].Name, list[2].Name)
	}
}

func TestEmployeeRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewStore().Employees()
	ctx := context.Background()
	position := "Designer"

	created, err := repo.Create(ctx, &employee.Employee{Name: "Joe", Email: "joe@x.com", Position: &position})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	*created.Position = "changed"

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if *found.Position != "Designer" {
		t.Fatalf("expected stored copy to be isolated, got %s", *found.Position)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestDepartmentRepository_MembershipOps(t *testing.T) {
	t.Parallel()

	repo := NewStore().Departments()
	ctx := context.Background()

	d, err := repo.Create(ctx, &department.Department{Name: "TI", EmployeeIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.AddEmployee(ctx, d.ID, "e2"); err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}
	if err := repo.AddEmployee(ctx, d.ID, "e2"); err != nil {
		t.Fatalf("AddEmployee (again) returned error: %v", err)
	}
	if err := repo.RemoveEmployee(ctx, d.ID, "e1"); err != nil {
		t.Fatalf("RemoveEmployee returned error: %v", err)
	}

	found, err := repo.FindByName(ctx, "TI")
	if err != nil {
		t.Fatalf("FindByName returned error: %v", err)
	}
	if len(found.EmployeeIDs) != 1 || found.EmployeeIDs[0] != "e2" {
		t.Fatalf("expected [e2], got %v", found.EmployeeIDs)
	}
}

func TestDepartmentRepository_ApplyBatchIsAllOrNothing(t *testing.T) {
	t.Parallel()

	repo := NewStore().Departments()
	ctx := context.Background()

	d, err := repo.Create(ctx, &department.Department{Name: "TI", EmployeeIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err = repo.ApplyBatch(ctx, []department.MembershipOp{
		department.ReplaceOp(d.ID, nil),
		department.AddOp("missing", "e9"),
	})
	if !errors.Is(err, department.ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	found, err := repo.FindByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if len(found.EmployeeIDs) != 1 {
		t.Fatalf("expected failed batch to leave roster untouched, got %v", found.EmployeeIDs)
	}
}

func TestManagerDirectory_FindManager(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	level := employee.LevelManager

	mgr, err := store.Employees().Create(ctx, &employee.Employee{Name: "Boss", Email: "boss@x.com", Active: true, HierarchyLevel: &level})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	found, err := store.Managers().FindManager(ctx, mgr.ID)
	if err != nil || found == nil || !found.IsManager || !found.Active {
		t.Fatalf("expected active manager, got %+v, %v", found, err)
	}

	missing, err := store.Managers().FindManager(ctx, "missing")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing manager, got %+v, %v", missing, err)
	}
}
