package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/membership"
	"github.com/ogurasousui/codex-staff-admin/internal/core/reconcile"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubReconciler struct {
	result reconcile.Result
	err    error
}

func (s stubReconciler) Run(context.Context) (reconcile.Result, error) {
	return s.result, s.err
}

func newHandler(t *testing.T) (*StaffAdminHandler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	sync := membership.NewSynchronizer(store.Departments())
	return NewStaffAdminHandler(
		employee.NewService(store.Employees(), sync, nil),
		department.NewService(store.Departments(), nil, nil),
		stubReconciler{result: reconcile.Result{SyncCount: 2, CleanCount: 1}},
	), store
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func TestStaffAdminHandler_CreateAndUpdateEmployee(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)
	ctx := context.Background()

	if _, err := h.CreateDepartment(ctx, mustStruct(t, map[string]any{"name": "TI", "manager_id": "boss"})); err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	created, err := h.CreateEmployee(ctx, mustStruct(t, map[string]any{
		"name":           "Maria",
		"email":          "maria@example.com",
		"department":     "TI",
		"position":       "Analyst",
		"admission_date": "2024-02-01",
	}))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	emp := created.GetFields()["employee"].GetStructValue().GetFields()
	if !emp["active"].GetBoolValue() {
		t.Fatalf("expected active to default to true")
	}
	if emp["admission_date"].GetStringValue() != "2024-02-01" {
		t.Fatalf("unexpected admission date: %v", emp["admission_date"])
	}

	updated, err := h.UpdateEmployee(ctx, mustStruct(t, map[string]any{
		"id":       emp["id"].GetStringValue(),
		"position": nil,
		"active":   false,
	}))
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	fields := updated.GetFields()["employee"].GetStructValue().GetFields()
	if _, isNull := fields["position"].GetKind().(*structpb.Value_NullValue); !isNull {
		t.Fatalf("expected position to be cleared, got %v", fields["position"])
	}
	if fields["active"].GetBoolValue() {
		t.Fatalf("expected active false")
	}
	if fields["name"].GetStringValue() != "Maria" {
		t.Fatalf("expected name to be untouched")
	}
}

func TestStaffAdminHandler_FindMissingReturnsNull(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)
	resp, err := h.FindEmployeeByEmail(context.Background(), mustStruct(t, map[string]any{"email": "nobody@example.com"}))
	if err != nil {
		t.Fatalf("FindEmployeeByEmail returned error: %v", err)
	}
	if _, isNull := resp.GetFields()["employee"].GetKind().(*structpb.Value_NullValue); !isNull {
		t.Fatalf("expected null employee, got %v", resp.GetFields()["employee"])
	}

	resp, err = h.FindDepartmentByName(context.Background(), mustStruct(t, map[string]any{"name": "Nowhere"}))
	if err != nil {
		t.Fatalf("FindDepartmentByName returned error: %v", err)
	}
	if _, isNull := resp.GetFields()["department"].GetKind().(*structpb.Value_NullValue); !isNull {
		t.Fatalf("expected null department")
	}
}

func TestStaffAdminHandler_InvalidFieldTypes(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)
	ctx := context.Background()

	_, err := h.CreateEmployee(ctx, mustStruct(t, map[string]any{"name": 12.0}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	_, err = h.CreateEmployee(ctx, mustStruct(t, map[string]any{
		"name": "Maria", "email": "maria@example.com", "department": "TI", "admission_date": "01/02/2024",
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for bad date, got %v", err)
	}

	_, err = h.DeleteEmployees(ctx, mustStruct(t, map[string]any{"ids": []any{"a", 1.0}}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for mixed ids, got %v", err)
	}
}

func TestStaffAdminHandler_DepartmentLifecycle(t *testing.T) {
	t.Parallel()

	h, store := newHandler(t)
	ctx := context.Background()

	created, err := h.CreateDepartment(ctx, mustStruct(t, map[string]any{
		"name": "Design", "manager_id": "boss", "employee_ids": []any{"e1", "e1", "e2"},
	}))
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}
	id := created.GetFields()["department"].GetStructValue().GetFields()["id"].GetStringValue()

	if _, err := h.UpdateDepartment(ctx, mustStruct(t, map[string]any{"id": id, "employee_ids": []any{"e3"}})); err != nil {
		t.Fatalf("UpdateDepartment returned error: %v", err)
	}
	d, err := store.Departments().FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if len(d.EmployeeIDs) != 1 || d.EmployeeIDs[0] != "e3" {
		t.Fatalf("unexpected roster: %v", d.EmployeeIDs)
	}

	if _, err := h.DeleteDepartments(ctx, mustStruct(t, map[string]any{"ids": []any{id}})); err != nil {
		t.Fatalf("DeleteDepartments returned error: %v", err)
	}
	list, err := h.ListDepartments(ctx, nil)
	if err != nil {
		t.Fatalf("ListDepartments returned error: %v", err)
	}
	if n := len(list.GetFields()["departments"].GetListValue().GetValues()); n != 0 {
		t.Fatalf("expected no departments, got %d", n)
	}
}

func TestStaffAdminHandler_Reconcile(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)
	resp, err := h.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if resp.GetFields()["sync_count"].GetNumberValue() != 2 || resp.GetFields()["clean_count"].GetNumberValue() != 1 {
		t.Fatalf("unexpected counts: %v", resp)
	}

	h.reconciler = stubReconciler{err: errors.New("store down")}
	if _, err := h.Reconcile(context.Background(), nil); status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestToStatusError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("id: %w", employee.ErrInvalidID), codes.InvalidArgument},
		{department.ErrInvalidName, codes.InvalidArgument},
		{employee.ErrEmailAlreadyExists, codes.AlreadyExists},
		{department.ErrNameAlreadyExists, codes.AlreadyExists},
		{employee.ErrEmployeeNotFound, codes.NotFound},
		{fmt.Errorf("apply: %w", department.ErrDepartmentNotFound), codes.NotFound},
		{department.ErrInvalidManager, codes.FailedPrecondition},
		{department.ErrEmployeeAlreadyAssigned, codes.FailedPrecondition},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}

	for _, tc := range cases {
		if got := status.Code(toStatusError(tc.err)); got != tc.code {
			t.Errorf("%v: expected %v, got %v", tc.err, tc.code, got)
		}
	}

	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestReportValue(t *testing.T) {
	t.Parallel()

	r := membership.Report{Steps: []membership.Step{
		{Action: membership.ActionRemove, EmployeeID: "e1", Department: "TI", Outcome: membership.OutcomeFailed, Err: errors.New("down")},
	}}
	v := reportValue(r)
	if v["status"] != "failed" {
		t.Fatalf("expected failed status, got %v", v["status"])
	}
	if _, err := structpb.NewStruct(v); err != nil {
		t.Fatalf("report must be encodable: %v", err)
	}

	emp := employeeValue(&employee.Employee{ID: "e1", CreatedAt: time.Now()})
	if _, err := structpb.NewValue(emp); err != nil {
		t.Fatalf("employee must be encodable: %v", err)
	}
}
