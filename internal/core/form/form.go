// Package form は社員入力ウィザードの 2 ステップ状態機械を提供します。
// 状態は値型で、遷移は新しい State を返す純粋なメソッドです。
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/validation"
)

// Field は入力フィールドの識別子です。
type Field string

const (
	FieldName           Field = "name"
	FieldEmail          Field = "email"
	FieldActive         Field = "active"
	FieldDepartment     Field = "department"
	FieldPosition       Field = "position"
	FieldAdmissionDate  Field = "admission_date"
	FieldHierarchyLevel Field = "hierarchy_level"
	FieldManagerID      Field = "manager_id"
	FieldBaseSalary     Field = "base_salary"
)

// SubmitFunc は最終ステップの検証成功時に呼ばれます。
type SubmitFunc func(ctx context.Context, values Values) error

// State はウィザードの状態です。
type State struct {
	Step      int
	Values    Values
	Errors    map[Field]string
	Touched   map[Field]bool
	Submitted bool
}

// Valid はフィールドエラーがないかを返します。
func (s State) Valid() bool {
	return len(s.Errors) == 0
}

func (s State) clone() State {
	out := s
	out.Errors = make(map[Field]string, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	out.Touched = make(map[Field]bool, len(s.Touched))
	for k, v := range s.Touched {
		out.Touched[k] = v
	}
	return out
}

// Form はステップ構成と検証ルールを保持します。
type Form struct {
	rules  validation.Rules
	steps  [][]Field
	submit SubmitFunc
}

// NewMinimal は氏名・メール・有効フラグと部署のみを扱うフォームを生成します。
func NewMinimal(submit SubmitFunc) *Form {
	return &Form{
		rules: validation.Minimal(),
		steps: [][]Field{
			{FieldName, FieldEmail, FieldActive},
			{FieldDepartment},
		},
		submit: submit,
	}
}

// NewExtended は職務情報まで扱うフォームを生成します。
func NewExtended(submit SubmitFunc) *Form {
	return &Form{
		rules: validation.Extended(),
		steps: [][]Field{
			{FieldName, FieldEmail, FieldActive},
			{FieldDepartment, FieldPosition, FieldAdmissionDate, FieldHierarchyLevel, FieldManagerID, FieldBaseSalary},
		},
		submit: submit,
	}
}

// TotalSteps はステップ数を返します。
func (f *Form) TotalSteps() int {
	return len(f.steps)
}

// StepFields は指定ステップのフィールドを返します。範囲外は nil です。
func (f *Form) StepFields(step int) []Field {
	if step < 0 || step >= len(f.steps) {
		return nil
	}
	return append([]Field(nil), f.steps[step]...)
}

// Initial は初期状態を返します。
func (f *Form) Initial() State {
	return State{
		Values:  Values{Active: true},
		Errors:  map[Field]string{},
		Touched: map[Field]bool{},
	}
}

// Reset はステップ 0 の空の状態に戻します。
func (f *Form) Reset() State {
	return f.Initial()
}

// FromEmployee は編集用に既存社員の値で初期化した状態を返します。
func (f *Form) FromEmployee(e *employee.Employee) State {
	s := f.Initial()
	if e == nil {
		return s
	}
	s.Values = ValuesFromEmployee(e)
	return s
}

// UpdateField は値を更新し、一度フォーカスを外したフィールドのみ再検証します。
func (f *Form) UpdateField(s State, field Field, value string) State {
	next := s.clone()
	next.Values.set(field, value)
	next.Submitted = false
	if next.Touched[field] {
		f.applyFieldError(&next, field)
	}
	return next
}

// SetActive は有効フラグを更新します。
func (f *Form) SetActive(s State, active bool) State {
	next := s.clone()
	next.Values.Active = active
	next.Submitted = false
	return next
}

// Blur はフィールドを touched にして検証します。
func (f *Form) Blur(s State, field Field) State {
	next := s.clone()
	next.Touched[field] = true
	f.applyFieldError(&next, field)
	return next
}

// ValidateStep は現在ステップの全フィールドを touched 状態に関係なく検証します。
func (f *Form) ValidateStep(s State) (State, bool) {
	next := s.clone()
	ok := true
	for _, field := range f.StepFields(next.Step) {
		f.applyFieldError(&next, field)
		if _, failed := next.Errors[field]; failed {
			ok = false
		}
	}
	return next, ok
}

// NextStep は現在ステップを検証し、成功すれば次へ進みます。
// 最終ステップでは SubmitFunc を呼び出し、その失敗はそのまま返します。
// 検証失敗はエラーではなく State.Errors で表現します。
func (f *Form) NextStep(ctx context.Context, s State) (State, error) {
	next, ok := f.ValidateStep(s)
	if !ok {
		return next, nil
	}
	if next.Step < f.TotalSteps()-1 {
		next.Step++
		return next, nil
	}
	if f.submit != nil {
		if err := f.submit(ctx, next.Values); err != nil {
			return s, err
		}
	}
	next.Submitted = true
	return next, nil
}

// PreviousStep は 1 つ前のステップに戻ります。0 未満にはなりません。
func (f *Form) PreviousStep(s State) State {
	next := s.clone()
	if next.Step > 0 {
		next.Step--
	}
	next.Submitted = false
	return next
}

// Progress は (Step+1)/TotalSteps*100 を返します。
func (f *Form) Progress(s State) float64 {
	if f.TotalSteps() == 0 {
		return 0
	}
	return float64(s.Step+1) / float64(f.TotalSteps()) * 100
}

// Validate は単一フィールドを検証してメッセージを返します。
func (f *Form) Validate(field Field, values Values) string {
	switch field {
	case FieldName:
		return f.rules.Name(values.Name)
	case FieldEmail:
		return f.rules.Email(values.Email)
	case FieldDepartment:
		return f.rules.Department(values.Department)
	case FieldBaseSalary:
		return f.rules.BaseSalary(values.BaseSalary)
	case FieldHierarchyLevel:
		return f.rules.HierarchyLevel(values.HierarchyLevel)
	case FieldAdmissionDate:
		return f.rules.AdmissionDate(values.AdmissionDate)
	default:
		return ""
	}
}

func (f *Form) applyFieldError(s *State, field Field) {
	if msg := f.Validate(field, s.Values); msg != "" {
		s.Errors[field] = msg
		return
	}
	delete(s.Errors, field)
}

// Values はフィールドの生の入力値です。
type Values struct {
	Name           string
	Email          string
	Active         bool
	Department     string
	Position       string
	AdmissionDate  string
	HierarchyLevel string
	ManagerID      string
	BaseSalary     string
}

// Get はフィールドの値を返します。
func (v Values) Get(field Field) string {
	switch field {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldActive:
		return strconv.FormatBool(v.Active)
	case FieldDepartment:
		return v.Department
	case FieldPosition:
		return v.Position
	case FieldAdmissionDate:
		return v.AdmissionDate
	case FieldHierarchyLevel:
		return v.HierarchyLevel
	case FieldManagerID:
		return v.ManagerID
	case FieldBaseSalary:
		return v.BaseSalary
	default:
		return ""
	}
}

func (v *Values) set(field Field, value string) {
	switch field {
	case FieldName:
		v.Name = value
	case FieldEmail:
		v.Email = value
	case FieldActive:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			v.Active = parsed
		}
	case FieldDepartment:
		v.Department = value
	case FieldPosition:
		v.Position = value
	case FieldAdmissionDate:
		v.AdmissionDate = value
	case FieldHierarchyLevel:
		v.HierarchyLevel = value
	case FieldManagerID:
		v.ManagerID = value
	case FieldBaseSalary:
		v.BaseSalary = value
	}
}

// ValuesFromEmployee は社員エンティティを入力値に変換します。
func ValuesFromEmployee(e *employee.Employee) Values {
	v := Values{
		Name:       e.Name,
		Email:      e.Email,
		Active:     e.Active,
		Department: e.Department,
	}
	if e.Position != nil {
		v.Position = *e.Position
	}
	if e.AdmissionDate != nil {
		v.AdmissionDate = e.AdmissionDate.Format(validation.AdmissionDateLayout)
	}
	if e.HierarchyLevel != nil {
		v.HierarchyLevel = string(*e.HierarchyLevel)
	}
	if e.ManagerID != nil {
		v.ManagerID = *e.ManagerID
	}
	if e.BaseSalary != nil {
		v.BaseSalary = strconv.FormatFloat(*e.BaseSalary, 'f', -1, 64)
	}
	return v
}

// CreateInput は入力値を社員作成ユースケースの入力に変換します。空の任意項目は nil になります。
func (v Values) CreateInput() (employee.CreateEmployeeInput, error) {
	in := employee.CreateEmployeeInput{
		Name:       strings.TrimSpace(v.Name),
		Email:      strings.TrimSpace(v.Email),
		Department: strings.TrimSpace(v.Department),
		Active:     v.Active,
		Position:   optional(v.Position),
		ManagerID:  optional(v.ManagerID),
	}

	if raw := strings.TrimSpace(v.AdmissionDate); raw != "" {
		date, err := time.Parse(validation.AdmissionDateLayout, raw)
		if err != nil {
			return in, fmt.Errorf("admission date: %w", err)
		}
		in.AdmissionDate = &date
	}
	if raw := strings.TrimSpace(v.HierarchyLevel); raw != "" {
		level := employee.HierarchyLevel(raw)
		in.HierarchyLevel = &level
	}
	if raw := strings.TrimSpace(v.BaseSalary); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("base salary: %w", err)
		}
		in.BaseSalary = &amount
	}
	return in, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
