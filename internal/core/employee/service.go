package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/core/membership"
	"github.com/ogurasousui/codex-staff-admin/internal/core/validation"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// MembershipSyncer は部署の所属一覧への副作用を担います。
// 失敗は Report に記録され、主操作のエラーにはなりません。
type MembershipSyncer interface {
	AddMembership(ctx context.Context, employeeID, departmentName string) membership.Report
	RemoveMembershipEverywhere(ctx context.Context, employeeID string) membership.Report
	MoveMembership(ctx context.Context, employeeID, oldDepartment, newDepartment string) membership.Report
}

type noopSyncer struct{}

func (noopSyncer) AddMembership(context.Context, string, string) membership.Report {
	return membership.Report{}
}

func (noopSyncer) RemoveMembershipEverywhere(context.Context, string) membership.Report {
	return membership.Report{}
}

func (noopSyncer) MoveMembership(context.Context, string, string, string) membership.Report {
	return membership.Report{}
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	sync  MembershipSyncer
	clock Clock
	rules validation.Rules
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*CreateEmployeeResult, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*UpdateEmployeeResult, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (*DeleteEmployeesResult, error)
	DeleteEmployees(ctx context.Context, in DeleteEmployeesInput) (*DeleteEmployeesResult, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, sync MembershipSyncer, clock Clock) *Service {
	if sync == nil {
		sync = noopSyncer{}
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, sync: sync, clock: clock, rules: validation.Extended()}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name           string
	Email          string
	Department     string
	Active         bool
	Position       *string
	AdmissionDate  *time.Time
	HierarchyLevel *HierarchyLevel
	ManagerID      *string
	BaseSalary     *float64
}

// UpdateEmployeeInput は社員更新時の入力です。
type UpdateEmployeeInput struct {
	ID         string
	Name       *string
	Email      *string
	Department *string
	Active     *bool

	Position          *string
	PositionSet       bool
	AdmissionDate     *time.Time
	AdmissionDateSet  bool
	HierarchyLevel    *HierarchyLevel
	HierarchyLevelSet bool
	ManagerID         *string
	ManagerIDSet      bool
	BaseSalary        *float64
	BaseSalarySet     bool
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// DeleteEmployeesInput は社員一括削除時の入力です。
type DeleteEmployeesInput struct {
	IDs []string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// CreateEmployeeResult は作成結果と部署同期の結果です。
type CreateEmployeeResult struct {
	Employee *Employee
	Sync     membership.Report
}

// UpdateEmployeeResult は更新結果と部署同期の結果です。
type UpdateEmployeeResult struct {
	Employee *Employee
	Sync     membership.Report
}

// DeleteEmployeesResult は削除時の部署同期の結果です。
type DeleteEmployeesResult struct {
	Sync membership.Report
}

// CreateEmployee は社員を作成し、部署の所属一覧へ追加します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*CreateEmployeeResult, error) {
	name, err := s.normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	department, err := s.normalizeDepartment(in.Department)
	if err != nil {
		return nil, err
	}

	if err := s.validateLevel(in.HierarchyLevel); err != nil {
		return nil, err
	}

	if err := s.validateSalary(in.BaseSalary); err != nil {
		return nil, err
	}

	if err := s.ensureEmailNotExists(ctx, email, ""); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Employee{
		Name:           name,
		Email:          email,
		Department:     department,
		Active:         in.Active,
		Position:       normalizeOptional(in.Position),
		AdmissionDate:  normalizeDate(in.AdmissionDate),
		HierarchyLevel: cloneLevel(in.HierarchyLevel),
		ManagerID:      normalizeOptional(in.ManagerID),
		BaseSalary:     cloneFloat(in.BaseSalary),
		CreatedAt:      s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	report := s.sync.AddMembership(ctx, created.ID, created.Department)

	return &CreateEmployeeResult{Employee: created, Sync: report}, nil
}

// UpdateEmployee は社員を部分更新します。
// 部署名が変わる場合は、更新を書き込む前に旧部署から新部署へ所属を移します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*UpdateEmployeeResult, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch Patch

	if in.Name != nil {
		name, err := s.normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	if in.Email != nil {
		email, err := s.normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailNotExists(ctx, email, id); err != nil {
			return nil, err
		}
		patch.Email = &email
	}

	if in.Department != nil {
		department, err := s.normalizeDepartment(*in.Department)
		if err != nil {
			return nil, err
		}
		patch.Department = &department
	}

	if in.Active != nil {
		active := *in.Active
		patch.Active = &active
	}

	if in.PositionSet {
		patch.Position, patch.PositionSet = normalizeOptional(in.Position), true
	}

	if in.AdmissionDateSet {
		patch.AdmissionDate, patch.AdmissionDateSet = normalizeDate(in.AdmissionDate), true
	}

	if in.HierarchyLevelSet {
		if err := s.validateLevel(in.HierarchyLevel); err != nil {
			return nil, err
		}
		patch.HierarchyLevel, patch.HierarchyLevelSet = cloneLevel(in.HierarchyLevel), true
	}

	if in.ManagerIDSet {
		patch.ManagerID, patch.ManagerIDSet = normalizeOptional(in.ManagerID), true
	}

	if in.BaseSalarySet {
		if err := s.validateSalary(in.BaseSalary); err != nil {
			return nil, err
		}
		patch.BaseSalary, patch.BaseSalarySet = cloneFloat(in.BaseSalary), true
	}

	var report membership.Report
	if patch.Department != nil && *patch.Department != current.Department {
		report = s.sync.MoveMembership(ctx, id, current.Department, *patch.Department)
	}

	if patch.IsEmpty() {
		return &UpdateEmployeeResult{Employee: current, Sync: report}, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	return &UpdateEmployeeResult{Employee: updated, Sync: report}, nil
}

// DeleteEmployee は全部署の所属一覧から社員を外した後、社員を削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (*DeleteEmployeesResult, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	report := s.sync.RemoveMembershipEverywhere(ctx, id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return &DeleteEmployeesResult{Sync: report}, nil
}

// DeleteEmployees は社員ごとに所属を外した後、社員をまとめて削除します。
// 2 つのフェーズは原子的ではありません。
func (s *Service) DeleteEmployees(ctx context.Context, in DeleteEmployeesInput) (*DeleteEmployeesResult, error) {
	ids := make([]string, 0, len(in.IDs))
	for _, raw := range in.IDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("ids: %w", ErrInvalidID)
		}
		ids = append(ids, id)
	}

	var report membership.Report
	for _, id := range ids {
		report = report.Merge(s.sync.RemoveMembershipEverywhere(ctx, id))
	}

	if len(ids) > 0 {
		if err := s.repo.DeleteMany(ctx, ids); err != nil {
			return nil, err
		}
	}

	return &DeleteEmployeesResult{Sync: report}, nil
}

// GetEmployee は ID で社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// ListEmployees は作成日時の降順で全社員を取得します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.List(ctx)
}

// FindEmployeeByEmail はメールアドレスで社員を検索します。存在しない場合は nil を返します。
func (s *Service) FindEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	found, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrEmployeeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) normalizeName(raw string) (string, error) {
	if msg := s.rules.Name(raw); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, msg)
	}
	return strings.TrimSpace(raw), nil
}

func (s *Service) normalizeEmail(raw string) (string, error) {
	if msg := s.rules.Email(raw); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, msg)
	}
	return strings.TrimSpace(raw), nil
}

func (s *Service) normalizeDepartment(raw string) (string, error) {
	if msg := s.rules.Department(raw); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidDepartment, msg)
	}
	return strings.TrimSpace(raw), nil
}

func (s *Service) validateLevel(level *HierarchyLevel) error {
	if level == nil {
		return nil
	}
	if !validation.IsHierarchyLevel(string(*level)) {
		return ErrInvalidHierarchyLevel
	}
	return nil
}

func (s *Service) validateSalary(salary *float64) error {
	if salary == nil {
		return nil
	}
	if msg := s.rules.BaseSalaryAmount(*salary); msg != "" {
		return fmt.Errorf("%w: %s", ErrInvalidBaseSalary, msg)
	}
	return nil
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}
