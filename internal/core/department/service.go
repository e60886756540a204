package department

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は部署に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	clock    Clock
	managers ManagerDirectory
}

// UseCase は部署ユースケースの公開インターフェースです。
type UseCase interface {
	CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error)
	GetDepartment(ctx context.Context, in GetDepartmentInput) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
	UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error)
	DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error
	DeleteDepartments(ctx context.Context, in DeleteDepartmentsInput) error
	FindDepartmentByName(ctx context.Context, name string) (*Department, error)
}

// NewService は Service を生成します。managers が nil の場合は管理者の実在確認を行いません。
func NewService(repo Repository, clock Clock, managers ManagerDirectory) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock, managers: managers}
}

// CreateDepartmentInput は部署作成時の入力です。
type CreateDepartmentInput struct {
	Name        string
	ManagerID   string
	EmployeeIDs []string
}

// UpdateDepartmentInput は部署更新時の入力です。
type UpdateDepartmentInput struct {
	ID          string
	Name        *string
	ManagerID   *string
	EmployeeIDs *[]string
}

// DeleteDepartmentInput は部署削除時の入力です。
type DeleteDepartmentInput struct {
	ID string
}

// DeleteDepartmentsInput は部署一括削除時の入力です。
type DeleteDepartmentsInput struct {
	IDs []string
}

// GetDepartmentInput は部署取得時の入力です。
type GetDepartmentInput struct {
	ID string
}

// CreateDepartment は新しい部署を作成します。同名の部署がある場合は何も書き込みません。
func (s *Service) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	managerID := strings.TrimSpace(in.ManagerID)
	if managerID == "" {
		return nil, ErrInvalidManagerID
	}

	if err := s.ensureNameNotExists(ctx, name, ""); err != nil {
		return nil, err
	}

	if err := s.ensureManager(ctx, managerID); err != nil {
		return nil, err
	}

	employeeIDs := normalizeEmployeeIDs(in.EmployeeIDs)
	if err := s.ensureEmployeesUnassigned(ctx, "", employeeIDs); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Department{
		Name:        name,
		ManagerID:   managerID,
		EmployeeIDs: employeeIDs,
		CreatedAt:   s.clock.Now(),
	})
}

// UpdateDepartment は部署情報を部分更新します。
func (s *Service) UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	var patch Patch

	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNameNotExists(ctx, name, id); err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	if in.ManagerID != nil {
		managerID := strings.TrimSpace(*in.ManagerID)
		if managerID == "" {
			return nil, ErrInvalidManagerID
		}
		if err := s.ensureManager(ctx, managerID); err != nil {
			return nil, err
		}
		patch.ManagerID = &managerID
	}

	if in.EmployeeIDs != nil {
		employeeIDs := normalizeEmployeeIDs(*in.EmployeeIDs)
		if err := s.ensureEmployeesUnassigned(ctx, id, employeeIDs); err != nil {
			return nil, err
		}
		patch.EmployeeIDs = &employeeIDs
	}

	if patch.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	return s.repo.Update(ctx, id, patch)
}

// DeleteDepartment は部署を削除します。所属社員の部署名は変更しません。
func (s *Service) DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.Delete(ctx, id)
}

// DeleteDepartments は複数の部署を一括削除します。
func (s *Service) DeleteDepartments(ctx context.Context, in DeleteDepartmentsInput) error {
	ids := make([]string, 0, len(in.IDs))
	for _, raw := range in.IDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return fmt.Errorf("ids: %w", ErrInvalidID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	return s.repo.DeleteMany(ctx, ids)
}

// GetDepartment は ID で部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, in GetDepartmentInput) (*Department, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// ListDepartments は作成日時の降順で全部署を取得します。
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	return s.repo.List(ctx)
}

// FindDepartmentByName は部署名で検索します。存在しない場合は nil を返します。
func (s *Service) FindDepartmentByName(ctx context.Context, name string) (*Department, error) {
	found, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, ErrDepartmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) ensureNameNotExists(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrNameAlreadyExists
	}
	return nil
}

func (s *Service) ensureManager(ctx context.Context, managerID string) error {
	if s.managers == nil {
		return nil
	}
	manager, err := s.managers.FindManager(ctx, managerID)
	if err != nil {
		return err
	}
	if manager == nil || !manager.Active || !manager.IsManager {
		return ErrInvalidManager
	}
	return nil
}

// ensureEmployeesUnassigned は社員が selfID 以外の部署に所属していないことを確認します。
func (s *Service) ensureEmployeesUnassigned(ctx context.Context, selfID string, employeeIDs []string) error {
	if len(employeeIDs) == 0 {
		return nil
	}

	departments, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	for _, d := range departments {
		if d.ID == selfID {
			continue
		}
		for _, employeeID := range employeeIDs {
			if d.Contains(employeeID) {
				return fmt.Errorf("%s in %q: %w", employeeID, d.Name, ErrEmployeeAlreadyAssigned)
			}
		}
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeEmployeeIDs(raw []string) []string {
	ids := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		id := strings.TrimSpace(value)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
