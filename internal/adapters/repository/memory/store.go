// Package memory は社員・部署コレクションのインメモリ実装を提供します。
// PostgreSQL 実装と同じ契約を満たし、storage.driver=memory の場合とテストで利用します。
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
)

// Store は 2 つのコレクションを保持します。
type Store struct {
	mu          sync.RWMutex
	employees   map[string]*employee.Employee
	departments map[string]*department.Department
	newID       func() string
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{
		employees:   make(map[string]*employee.Employee),
		departments: make(map[string]*department.Department),
		newID:       uuid.NewString,
	}
}

// Employees は社員コレクションのリポジトリを返します。
func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

// Departments は部署コレクションのリポジトリを返します。
func (s *Store) Departments() *DepartmentRepository {
	return &DepartmentRepository{store: s}
}

// Managers は部署の管理者解決を返します。
func (s *Store) Managers() *ManagerDirectory {
	return &ManagerDirectory{store: s}
}

type createdEntry struct {
	id        string
	createdAt time.Time
}

func sortNewestFirst(entries []createdEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].createdAt.Equal(entries[j].createdAt) {
			return entries[i].createdAt.After(entries[j].createdAt)
		}
		return entries[i].id > entries[j].id
	})
}
