package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/membership"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

func field(req *structpb.Struct, key string) (*structpb.Value, bool) {
	if req == nil {
		return nil, false
	}
	v, ok := req.GetFields()[key]
	return v, ok
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return v == nil || ok
}

func invalidField(key, expected string) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf("%s: expected %s", key, expected))
}

func stringField(req *structpb.Struct, key string) (string, error) {
	v, ok := field(req, key)
	if !ok || isNull(v) {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", invalidField(key, "string")
	}
	return s.StringValue, nil
}

// optionalStringField はキーが存在する場合のみ値を返します。
func optionalStringField(req *structpb.Struct, key string) (*string, error) {
	v, ok := field(req, key)
	if !ok {
		return nil, nil
	}
	if isNull(v) {
		return nil, invalidField(key, "string")
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, invalidField(key, "string")
	}
	value := s.StringValue
	return &value, nil
}

// nullableStringField は null をクリア指定として扱います。
func nullableStringField(req *structpb.Struct, key string) (*string, bool, error) {
	v, ok := field(req, key)
	if !ok {
		return nil, false, nil
	}
	if isNull(v) {
		return nil, true, nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, false, invalidField(key, "string or null")
	}
	value := s.StringValue
	return &value, true, nil
}

func boolField(req *structpb.Struct, key string) (*bool, error) {
	v, ok := field(req, key)
	if !ok || isNull(v) {
		return nil, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, invalidField(key, "bool")
	}
	value := b.BoolValue
	return &value, nil
}

func nullableNumberField(req *structpb.Struct, key string) (*float64, bool, error) {
	v, ok := field(req, key)
	if !ok {
		return nil, false, nil
	}
	if isNull(v) {
		return nil, true, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, false, invalidField(key, "number or null")
	}
	value := n.NumberValue
	return &value, true, nil
}

func nullableDateField(req *structpb.Struct, key string) (*time.Time, bool, error) {
	raw, set, err := nullableStringField(req, key)
	if err != nil || !set {
		return nil, set, err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(*raw), time.UTC)
	if err != nil {
		return nil, false, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: invalid format, expected YYYY-MM-DD", key))
	}
	return &t, true, nil
}

func nullableLevelField(req *structpb.Struct, key string) (*employee.HierarchyLevel, bool, error) {
	raw, set, err := nullableStringField(req, key)
	if err != nil || raw == nil {
		return nil, set, err
	}
	level := employee.HierarchyLevel(strings.TrimSpace(*raw))
	return &level, true, nil
}

func stringListField(req *structpb.Struct, key string) ([]string, bool, error) {
	v, ok := field(req, key)
	if !ok {
		return nil, false, nil
	}
	if isNull(v) {
		return []string{}, true, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, false, invalidField(key, "list of strings")
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for _, item := range list.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, false, invalidField(key, "list of strings")
		}
		out = append(out, s.StringValue)
	}
	return out, true, nil
}

func respond(body map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(body)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

func employeeValue(e *employee.Employee) any {
	if e == nil {
		return nil
	}
	v := map[string]any{
		"id":              e.ID,
		"name":            e.Name,
		"email":           e.Email,
		"department":      e.Department,
		"active":          e.Active,
		"created_at":      e.CreatedAt.UTC().Format(time.RFC3339Nano),
		"position":        nil,
		"admission_date":  nil,
		"hierarchy_level": nil,
		"manager_id":      nil,
		"base_salary":     nil,
	}
	if e.Position != nil {
		v["position"] = *e.Position
	}
	if e.AdmissionDate != nil {
		v["admission_date"] = e.AdmissionDate.Format(dateLayout)
	}
	if e.HierarchyLevel != nil {
		v["hierarchy_level"] = string(*e.HierarchyLevel)
	}
	if e.ManagerID != nil {
		v["manager_id"] = *e.ManagerID
	}
	if e.BaseSalary != nil {
		v["base_salary"] = *e.BaseSalary
	}
	return v
}

func employeesValue(list []*employee.Employee) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		out = append(out, employeeValue(e))
	}
	return out
}

func departmentValue(d *department.Department) any {
	if d == nil {
		return nil
	}
	ids := make([]any, 0, len(d.EmployeeIDs))
	for _, id := range d.EmployeeIDs {
		ids = append(ids, id)
	}
	return map[string]any{
		"id":           d.ID,
		"name":         d.Name,
		"manager_id":   d.ManagerID,
		"employee_ids": ids,
		"created_at":   d.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func departmentsValue(list []*department.Department) []any {
	out := make([]any, 0, len(list))
	for _, d := range list {
		out = append(out, departmentValue(d))
	}
	return out
}

func reportValue(r membership.Report) map[string]any {
	steps := make([]any, 0, len(r.Steps))
	for _, step := range r.Steps {
		s := map[string]any{
			"action":        string(step.Action),
			"employee_id":   step.EmployeeID,
			"department_id": step.DepartmentID,
			"department":    step.Department,
			"outcome":       string(step.Outcome),
		}
		if step.Err != nil {
			s["error"] = step.Err.Error()
		}
		steps = append(steps, s)
	}
	return map[string]any{
		"status": r.Status(),
		"steps":  steps,
	}
}
