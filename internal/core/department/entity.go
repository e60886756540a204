package department

import "time"

// Department は部署エンティティです。
// EmployeeIDs は所属社員の ID 一覧で、重複しない集合として扱います。
type Department struct {
	ID          string
	Name        string
	ManagerID   string
	EmployeeIDs []string
	CreatedAt   time.Time
}

// Contains は社員 ID が所属一覧に含まれるかを返します。
func (d *Department) Contains(employeeID string) bool {
	for _, id := range d.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Manager は部署の管理者候補となる社員の要約です。
type Manager struct {
	ID        string
	Active    bool
	IsManager bool
}
