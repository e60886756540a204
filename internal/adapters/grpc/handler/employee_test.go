package handler

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/membership"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubEmployeeUseCase struct {
	createInput employee.CreateEmployeeInput
	createOut   *employee.CreateEmployeeResult
	createErr   error

	updateInput employee.UpdateEmployeeInput
	updateOut   *employee.UpdateEmployeeResult
	updateErr   error

	deleteManyInput employee.DeleteEmployeesInput
	deleteOut       *employee.DeleteEmployeesResult
	deleteErr       error

	getOut *employee.Employee
	getErr error
}

func (s *stubEmployeeUseCase) CreateEmployee(_ context.Context, in employee.CreateEmployeeInput) (*employee.CreateEmployeeResult, error) {
	s.createInput = in
	return s.createOut, s.createErr
}

func (s *stubEmployeeUseCase) GetEmployee(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) ListEmployees(context.Context) ([]*employee.Employee, error) {
	return nil, nil
}

func (s *stubEmployeeUseCase) UpdateEmployee(_ context.Context, in employee.UpdateEmployeeInput) (*employee.UpdateEmployeeResult, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubEmployeeUseCase) DeleteEmployee(context.Context, employee.DeleteEmployeeInput) (*employee.DeleteEmployeesResult, error) {
	return s.deleteOut, s.deleteErr
}

func (s *stubEmployeeUseCase) DeleteEmployees(_ context.Context, in employee.DeleteEmployeesInput) (*employee.DeleteEmployeesResult, error) {
	s.deleteManyInput = in
	return s.deleteOut, s.deleteErr
}

func (s *stubEmployeeUseCase) FindEmployeeByEmail(context.Context, string) (*employee.Employee, error) {
	return nil, nil
}

func TestEmployeeHandler_CreateEmployee_MapsInput(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{
		createOut: &employee.CreateEmployeeResult{
			Employee: &employee.Employee{ID: "emp-1", Name: "Taro", Email: "taro@example.com", Department: "TI", Active: true},
		},
	}
	h := NewStaffAdminHandler(stub, nil, nil)

	resp, err := h.CreateEmployee(context.Background(), mustStruct(t, map[string]any{
		"name":            "Taro",
		"email":           "taro@example.com",
		"department":      "TI",
		"admission_date":  "2024-01-01",
		"hierarchy_level": "senior",
		"base_salary":     4200.5,
	}))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	in := stub.createInput
	if !in.Active {
		t.Errorf("expected active to default to true")
	}
	if in.AdmissionDate == nil || in.AdmissionDate.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("expected admission date parsed, got %+v", in.AdmissionDate)
	}
	if in.HierarchyLevel == nil || *in.HierarchyLevel != employee.LevelSenior {
		t.Errorf("expected hierarchy level senior, got %+v", in.HierarchyLevel)
	}
	if in.BaseSalary == nil || *in.BaseSalary != 4200.5 {
		t.Errorf("expected base salary 4200.5, got %+v", in.BaseSalary)
	}
	if in.Position != nil || in.ManagerID != nil {
		t.Errorf("expected omitted optional fields to stay nil: %+v", in)
	}

	got := resp.GetFields()["employee"].GetStructValue().GetFields()["id"].GetStringValue()
	if got != "emp-1" {
		t.Fatalf("expected response id emp-1, got %q", got)
	}
	if resp.GetFields()["sync"].GetStructValue().GetFields()["status"].GetStringValue() != "ok" {
		t.Fatalf("expected sync status ok, got %v", resp.GetFields()["sync"])
	}
}

func TestEmployeeHandler_CreateEmployee_InvalidDateFormat(t *testing.T) {
	t.Parallel()

	h := NewStaffAdminHandler(&stubEmployeeUseCase{}, nil, nil)

	_, err := h.CreateEmployee(context.Background(), mustStruct(t, map[string]any{
		"name":           "Taro",
		"email":          "taro@example.com",
		"department":     "TI",
		"admission_date": "2024/01/01",
	}))
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		t.Fatalf("expected invalid argument for date parse, got %v", err)
	}
}

func TestEmployeeHandler_UpdateEmployee_NullClearsOptionalFields(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{
		updateOut: &employee.UpdateEmployeeResult{
			Employee: &employee.Employee{ID: "emp-1", Name: "Taro", CreatedAt: time.Now().UTC()},
		},
	}
	h := NewStaffAdminHandler(stub, nil, nil)

	_, err := h.UpdateEmployee(context.Background(), &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":          structpb.NewStringValue("emp-1"),
		"position":    structpb.NewNullValue(),
		"manager_id":  structpb.NewStringValue("boss"),
		"active":      structpb.NewBoolValue(false),
		"base_salary": structpb.NewNullValue(),
	}})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	in := stub.updateInput
	if in.ID != "emp-1" {
		t.Errorf("expected id emp-1, got %s", in.ID)
	}
	if !in.PositionSet || in.Position != nil {
		t.Errorf("expected position to be cleared, got set=%t value=%v", in.PositionSet, in.Position)
	}
	if !in.BaseSalarySet || in.BaseSalary != nil {
		t.Errorf("expected base salary to be cleared, got set=%t value=%v", in.BaseSalarySet, in.BaseSalary)
	}
	if !in.ManagerIDSet || in.ManagerID == nil || *in.ManagerID != "boss" {
		t.Errorf("expected manager id boss, got %+v", in.ManagerID)
	}
	if in.Active == nil || *in.Active {
		t.Errorf("expected active false, got %+v", in.Active)
	}
	if in.Name != nil || in.AdmissionDateSet || in.HierarchyLevelSet {
		t.Errorf("expected omitted fields to be untouched: %+v", in)
	}
}

func TestEmployeeHandler_UpdateEmployee_NotFound(t *testing.T) {
	t.Parallel()

	h := NewStaffAdminHandler(&stubEmployeeUseCase{updateErr: employee.ErrEmployeeNotFound}, nil, nil)

	_, err := h.UpdateEmployee(context.Background(), mustStruct(t, map[string]any{"id": "missing", "name": "X"}))
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestEmployeeHandler_DeleteEmployees_ReportsSyncFailure(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{
		deleteOut: &employee.DeleteEmployeesResult{Sync: membership.Report{Steps: []membership.Step{
			{Action: membership.ActionRemove, EmployeeID: "a", Outcome: membership.OutcomeFailed, Err: context.DeadlineExceeded},
		}}},
	}
	h := NewStaffAdminHandler(stub, nil, nil)

	resp, err := h.DeleteEmployees(context.Background(), mustStruct(t, map[string]any{"ids": []any{"a", "b"}}))
	if err != nil {
		t.Fatalf("DeleteEmployees returned error: %v", err)
	}
	if len(stub.deleteManyInput.IDs) != 2 {
		t.Fatalf("expected 2 ids passed through, got %v", stub.deleteManyInput.IDs)
	}
	if got := resp.GetFields()["sync"].GetStructValue().GetFields()["status"].GetStringValue(); got != "failed" {
		t.Fatalf("expected sync status failed, got %q", got)
	}
}
