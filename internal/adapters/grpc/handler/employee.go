package handler

import (
	"context"

	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"google.golang.org/protobuf/types/known/structpb"
)

// ListEmployees は社員の一覧を取得します。
func (h *StaffAdminHandler) ListEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := h.employees.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"employees": employeesValue(list)})
}

// GetEmployee は社員を取得します。
func (h *StaffAdminHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	found, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"employee": employeeValue(found)})
}

// CreateEmployee は社員を作成します。active を省略した場合は有効として作成します。
func (h *StaffAdminHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := createEmployeeInput(req)
	if err != nil {
		return nil, err
	}

	result, err := h.employees.CreateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{
		"employee": employeeValue(result.Employee),
		"sync":     reportValue(result.Sync),
	})
}

// UpdateEmployee は社員を部分更新します。null を指定した任意項目はクリアされます。
func (h *StaffAdminHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := updateEmployeeInput(req)
	if err != nil {
		return nil, err
	}

	result, err := h.employees.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{
		"employee": employeeValue(result.Employee),
		"sync":     reportValue(result.Sync),
	})
}

// DeleteEmployee は社員を削除します。
func (h *StaffAdminHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	result, err := h.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"sync": reportValue(result.Sync)})
}

// DeleteEmployees は複数の社員を削除します。
func (h *StaffAdminHandler) DeleteEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ids, _, err := stringListField(req, "ids")
	if err != nil {
		return nil, err
	}
	result, err := h.employees.DeleteEmployees(ctx, employee.DeleteEmployeesInput{IDs: ids})
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"sync": reportValue(result.Sync)})
}

// FindEmployeeByEmail はメールアドレスで社員を検索します。存在しない場合 employee は null です。
func (h *StaffAdminHandler) FindEmployeeByEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := stringField(req, "email")
	if err != nil {
		return nil, err
	}
	found, err := h.employees.FindEmployeeByEmail(ctx, email)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"employee": employeeValue(found)})
}

func createEmployeeInput(req *structpb.Struct) (employee.CreateEmployeeInput, error) {
	var (
		in  employee.CreateEmployeeInput
		err error
	)
	if in.Name, err = stringField(req, "name"); err != nil {
		return in, err
	}
	if in.Email, err = stringField(req, "email"); err != nil {
		return in, err
	}
	if in.Department, err = stringField(req, "department"); err != nil {
		return in, err
	}

	active, err := boolField(req, "active")
	if err != nil {
		return in, err
	}
	in.Active = active == nil || *active

	if in.Position, _, err = nullableStringField(req, "position"); err != nil {
		return in, err
	}
	if in.AdmissionDate, _, err = nullableDateField(req, "admission_date"); err != nil {
		return in, err
	}
	if in.HierarchyLevel, _, err = nullableLevelField(req, "hierarchy_level"); err != nil {
		return in, err
	}
	if in.ManagerID, _, err = nullableStringField(req, "manager_id"); err != nil {
		return in, err
	}
	if in.BaseSalary, _, err = nullableNumberField(req, "base_salary"); err != nil {
		return in, err
	}
	return in, nil
}

func updateEmployeeInput(req *structpb.Struct) (employee.UpdateEmployeeInput, error) {
	var (
		in  employee.UpdateEmployeeInput
		err error
	)
	if in.ID, err = stringField(req, "id"); err != nil {
		return in, err
	}
	if in.Name, err = optionalStringField(req, "name"); err != nil {
		return in, err
	}
	if in.Email, err = optionalStringField(req, "email"); err != nil {
		return in, err
	}
	if in.Department, err = optionalStringField(req, "department"); err != nil {
		return in, err
	}
	if in.Active, err = boolField(req, "active"); err != nil {
		return in, err
	}
	if in.Position, in.PositionSet, err = nullableStringField(req, "position"); err != nil {
		return in, err
	}
	if in.AdmissionDate, in.AdmissionDateSet, err = nullableDateField(req, "admission_date"); err != nil {
		return in, err
	}
	if in.HierarchyLevel, in.HierarchyLevelSet, err = nullableLevelField(req, "hierarchy_level"); err != nil {
		return in, err
	}
	if in.ManagerID, in.ManagerIDSet, err = nullableStringField(req, "manager_id"); err != nil {
		return in, err
	}
	if in.BaseSalary, in.BaseSalarySet, err = nullableNumberField(req, "base_salary"); err != nil {
		return in, err
	}
	return in, nil
}
