package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/rs/zerolog"
)

// Synchronizer は社員の部署名と部署の所属一覧の整合を保ちます。
// いずれの操作もエラーを返さず、失敗はログに記録したうえで Report に残します。
type Synchronizer struct {
	departments department.Repository
	logger      zerolog.Logger
	exclusive   bool
}

// Option は Synchronizer の設定を変更します。
type Option func(*Synchronizer)

// WithLogger はログ出力先を設定します。
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithExclusive は社員を同時に 1 部署のみに所属させるかを設定します。
func WithExclusive(exclusive bool) Option {
	return func(s *Synchronizer) {
		s.exclusive = exclusive
	}
}

// NewSynchronizer は Synchronizer を生成します。既定では排他所属を有効にします。
func NewSynchronizer(departments department.Repository, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		departments: departments,
		logger:      zerolog.Nop(),
		exclusive:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMembership は部署名で部署を探し、所属一覧に社員 ID を追加します。
// 部署が存在しない場合は何もせず skipped として記録します。
func (s *Synchronizer) AddMembership(ctx context.Context, employeeID, departmentName string) Report {
	step := Step{Action: ActionAdd, EmployeeID: employeeID, Department: departmentName}

	target, ok := s.lookup(ctx, &step)
	if !ok {
		return single(step)
	}
	step.DepartmentID = target.ID

	if target.Contains(employeeID) {
		step.Outcome = OutcomeApplied
		return single(step)
	}

	if s.exclusive {
		holder, err := s.findOtherHolder(ctx, employeeID, target.ID)
		if err != nil {
			return single(s.fail(step, err))
		}
		if holder != nil {
			step.Outcome = OutcomeConflict
			step.Err = ErrConflict
			s.logger.Warn().
				Str("employee_id", employeeID).
				Str("department", departmentName).
				Str("holder", holder.Name).
				Msg("membership add skipped: employee listed by another department")
			return single(step)
		}
	}

	if err := s.departments.AddEmployee(ctx, target.ID, employeeID); err != nil {
		return single(s.fail(step, err))
	}

	step.Outcome = OutcomeApplied
	return single(step)
}

// RemoveMembership は部署名で部署を探し、所属一覧から社員 ID を削除します。
func (s *Synchronizer) RemoveMembership(ctx context.Context, employeeID, departmentName string) Report {
	step := Step{Action: ActionRemove, EmployeeID: employeeID, Department: departmentName}

	target, ok := s.lookup(ctx, &step)
	if !ok {
		return single(step)
	}
	step.DepartmentID = target.ID

	if err := s.departments.RemoveEmployee(ctx, target.ID, employeeID); err != nil {
		return single(s.fail(step, err))
	}

	step.Outcome = OutcomeApplied
	return single(step)
}

// RemoveMembershipEverywhere は全部署を走査し、社員 ID を含む部署から一括で削除します。
// 社員の現在の部署名に依存しないため、削除系の処理で利用します。
func (s *Synchronizer) RemoveMembershipEverywhere(ctx context.Context, employeeID string) Report {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return single(s.fail(Step{Action: ActionRemove, EmployeeID: employeeID}, err))
	}

	var (
		ops   []department.MembershipOp
		steps []Step
	)
	for _, d := range departments {
		if !d.Contains(employeeID) {
			continue
		}
		ops = append(ops, department.RemoveOp(d.ID, employeeID))
		steps = append(steps, Step{
			Action:       ActionRemove,
			EmployeeID:   employeeID,
			DepartmentID: d.ID,
			Department:   d.Name,
		})
	}

	if len(ops) == 0 {
		return Report{}
	}

	outcome := OutcomeApplied
	err = s.departments.ApplyBatch(ctx, ops)
	if err != nil {
		outcome = OutcomeFailed
		s.logger.Error().Err(err).
			Str("employee_id", employeeID).
			Int("departments", len(ops)).
			Msg("membership removal batch failed")
	}
	for i := range steps {
		steps[i].Outcome = outcome
		steps[i].Err = err
	}
	return Report{Steps: steps}
}

// MoveMembership は旧部署から削除したうえで新部署へ追加します。
// 各ステップは独立しており、削除に失敗しても追加は試行します。
func (s *Synchronizer) MoveMembership(ctx context.Context, employeeID, oldDepartment, newDepartment string) Report {
	removed := s.RemoveMembership(ctx, employeeID, oldDepartment)
	added := s.AddMembership(ctx, employeeID, newDepartment)
	return removed.Merge(added)
}

func (s *Synchronizer) lookup(ctx context.Context, step *Step) (*department.Department, bool) {
	name := strings.TrimSpace(step.Department)
	if name == "" {
		step.Outcome = OutcomeSkipped
		return nil, false
	}

	found, err := s.departments.FindByName(ctx, name)
	if errors.Is(err, department.ErrDepartmentNotFound) {
		step.Outcome = OutcomeSkipped
		s.logger.Warn().
			Str("employee_id", step.EmployeeID).
			Str("department", name).
			Str("action", string(step.Action)).
			Msg("membership sync skipped: department not found")
		return nil, false
	}
	if err != nil {
		*step = s.fail(*step, err)
		return nil, false
	}
	return found, true
}

func (s *Synchronizer) findOtherHolder(ctx context.Context, employeeID, targetID string) (*department.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range departments {
		if d.ID != targetID && d.Contains(employeeID) {
			return d, nil
		}
	}
	return nil, nil
}

func (s *Synchronizer) fail(step Step, err error) Step {
	step.Outcome = OutcomeFailed
	step.Err = err
	s.logger.Error().Err(err).
		Str("employee_id", step.EmployeeID).
		Str("department", step.Department).
		Str("action", string(step.Action)).
		Msg("membership sync failed")
	return step
}
