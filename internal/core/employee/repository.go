package employee

import (
	"context"
	"time"
)

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
}

// Patch は部分更新の内容です。nil のフィールドは変更しません。
// null を許容する項目は *Set フラグが true の場合のみ値 (nil を含む) を反映します。
type Patch struct {
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

// IsEmpty は変更対象が無いかを返します。
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Department == nil && p.Active == nil &&
		!p.PositionSet && !p.AdmissionDateSet && !p.HierarchyLevelSet && !p.ManagerIDSet && !p.BaseSalarySet
}

// Apply はパッチを社員エンティティへ適用します。
func (p Patch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Active != nil {
		e.Active = *p.Active
	}
	if p.PositionSet {
		e.Position = cloneString(p.Position)
	}
	if p.AdmissionDateSet {
		e.AdmissionDate = cloneTime(p.AdmissionDate)
	}
	if p.HierarchyLevelSet {
		e.HierarchyLevel = cloneLevel(p.HierarchyLevel)
	}
	if p.ManagerIDSet {
		e.ManagerID = cloneString(p.ManagerID)
	}
	if p.BaseSalarySet {
		e.BaseSalary = cloneFloat(p.BaseSalary)
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneLevel(v *HierarchyLevel) *HierarchyLevel {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
