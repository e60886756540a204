package handler

import (
	"context"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"google.golang.org/protobuf/types/known/structpb"
)

// ListDepartments は部署の一覧を取得します。
func (h *StaffAdminHandler) ListDepartments(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := h.departments.ListDepartments(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"departments": departmentsValue(list)})
}

// GetDepartment は部署を取得します。
func (h *StaffAdminHandler) GetDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	found, err := h.departments.GetDepartment(ctx, department.GetDepartmentInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"department": departmentValue(found)})
}

// CreateDepartment は部署を作成します。
func (h *StaffAdminHandler) CreateDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		in  department.CreateDepartmentInput
		err error
	)
	if in.Name, err = stringField(req, "name"); err != nil {
		return nil, err
	}
	if in.ManagerID, err = stringField(req, "manager_id"); err != nil {
		return nil, err
	}
	if in.EmployeeIDs, _, err = stringListField(req, "employee_ids"); err != nil {
		return nil, err
	}

	created, err := h.departments.CreateDepartment(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"department": departmentValue(created)})
}

// UpdateDepartment は部署を部分更新します。
func (h *StaffAdminHandler) UpdateDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		in  department.UpdateDepartmentInput
		err error
	)
	if in.ID, err = stringField(req, "id"); err != nil {
		return nil, err
	}
	if in.Name, err = optionalStringField(req, "name"); err != nil {
		return nil, err
	}
	if in.ManagerID, err = optionalStringField(req, "manager_id"); err != nil {
		return nil, err
	}
	ids, set, err := stringListField(req, "employee_ids")
	if err != nil {
		return nil, err
	}
	if set {
		in.EmployeeIDs = &ids
	}

	updated, err := h.departments.UpdateDepartment(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"department": departmentValue(updated)})
}

// DeleteDepartment は部署を削除します。所属社員の部署名は変更しません。
func (h *StaffAdminHandler) DeleteDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	if err := h.departments.DeleteDepartment(ctx, department.DeleteDepartmentInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}
	return respond(nil)
}

// DeleteDepartments は複数の部署を削除します。
func (h *StaffAdminHandler) DeleteDepartments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ids, _, err := stringListField(req, "ids")
	if err != nil {
		return nil, err
	}
	if err := h.departments.DeleteDepartments(ctx, department.DeleteDepartmentsInput{IDs: ids}); err != nil {
		return nil, toStatusError(err)
	}
	return respond(nil)
}

// FindDepartmentByName は部署名で部署を検索します。存在しない場合 department は null です。
func (h *StaffAdminHandler) FindDepartmentByName(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := stringField(req, "name")
	if err != nil {
		return nil, err
	}
	found, err := h.departments.FindDepartmentByName(ctx, name)
	if err != nil {
		return nil, toStatusError(err)
	}
	return respond(map[string]any{"department": departmentValue(found)})
}
