package membership

import (
	"errors"
	"fmt"
)

// Action は所属一覧に対する操作の種類です。
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Outcome は同期ステップの結果です。
type Outcome string

const (
	// OutcomeApplied は書き込みが成功したことを示します。
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped は対象部署が無い等で書き込み不要だったことを示します。
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed はストア操作が失敗したことを示します。
	OutcomeFailed Outcome = "failed"
	// OutcomeConflict は社員が別部署に所属済みで追加を見送ったことを示します。
	OutcomeConflict Outcome = "conflict"
)

// ErrConflict は社員が既に別部署に所属している場合のステップエラーです。
var ErrConflict = errors.New("membership: employee already listed by another department")

// Step は同期処理の 1 ステップの記録です。
type Step struct {
	Action       Action
	EmployeeID   string
	DepartmentID string
	Department   string
	Outcome      Outcome
	Err          error
}

// Report は同期処理の結果です。主操作の成否とは独立して参照できます。
type Report struct {
	Steps []Step
}

// OK は失敗・競合したステップが無いかを返します。
func (r Report) OK() bool {
	for _, step := range r.Steps {
		if step.Outcome == OutcomeFailed || step.Outcome == OutcomeConflict {
			return false
		}
	}
	return true
}

// Err は失敗したステップのエラーを結合して返します。
func (r Report) Err() error {
	var errs []error
	for _, step := range r.Steps {
		if step.Err != nil {
			errs = append(errs, fmt.Errorf("%s %s in %q: %w", step.Action, step.EmployeeID, step.Department, step.Err))
		}
	}
	return errors.Join(errs...)
}

// Status は Report 全体の状態を ok / failed で返します。
func (r Report) Status() string {
	if r.OK() {
		return "ok"
	}
	return "failed"
}

// Merge は別の Report のステップを追加した Report を返します。
func (r Report) Merge(other Report) Report {
	steps := make([]Step, 0, len(r.Steps)+len(other.Steps))
	steps = append(steps, r.Steps...)
	steps = append(steps, other.Steps...)
	return Report{Steps: steps}
}

func single(step Step) Report {
	return Report{Steps: []Step{step}}
}
