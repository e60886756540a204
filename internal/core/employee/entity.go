package employee

import "time"

// HierarchyLevel は社員の職位レベルです。
type HierarchyLevel string

const (
	LevelJunior  HierarchyLevel = "junior"
	LevelPleno   HierarchyLevel = "pleno"
	LevelSenior  HierarchyLevel = "senior"
	LevelManager HierarchyLevel = "gestor"
)

// Employee は社員エンティティです。
// Department は部署 ID ではなく部署名を保持する非正規化参照です。
type Employee struct {
	ID             string
	Name           string
	Email          string
	Department     string
	Active         bool
	Position       *string
	AdmissionDate  *time.Time
	HierarchyLevel *HierarchyLevel
	ManagerID      *string
	BaseSalary     *float64
	CreatedAt      time.Time
}

// IsManager は社員が管理職レベルかを返します。
func (e *Employee) IsManager() bool {
	return e.HierarchyLevel != nil && *e.HierarchyLevel == LevelManager
}
