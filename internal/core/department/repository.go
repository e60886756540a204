package department

import "context"

// Repository は部署永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, department *Department) (*Department, error)
	Update(ctx context.Context, id string, patch Patch) (*Department, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	FindByID(ctx context.Context, id string) (*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)

	AddEmployee(ctx context.Context, departmentID, employeeID string) error
	RemoveEmployee(ctx context.Context, departmentID, employeeID string) error
	ApplyBatch(ctx context.Context, ops []MembershipOp) error
}

// Patch は部分更新の内容です。nil のフィールドは変更しません。
type Patch struct {
	Name        *string
	ManagerID   *string
	EmployeeIDs *[]string
}

// IsEmpty は変更対象が無いかを返します。
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.ManagerID == nil && p.EmployeeIDs == nil
}

// OpKind は所属一覧に対する一括操作の種類です。
type OpKind int

const (
	// OpAdd は集合への追加です。既に含まれていれば何もしません。
	OpAdd OpKind = iota + 1
	// OpRemove は集合からの削除です。
	OpRemove
	// OpReplace は所属一覧全体の置き換えです。
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// MembershipOp は特定部署の所属一覧に対する一括書き込みの 1 操作です。
type MembershipOp struct {
	Kind         OpKind
	DepartmentID string
	EmployeeID   string
	EmployeeIDs  []string
}

// AddOp は集合追加の操作を生成します。
func AddOp(departmentID, employeeID string) MembershipOp {
	return MembershipOp{Kind: OpAdd, DepartmentID: departmentID, EmployeeID: employeeID}
}

// RemoveOp は集合削除の操作を生成します。
func RemoveOp(departmentID, employeeID string) MembershipOp {
	return MembershipOp{Kind: OpRemove, DepartmentID: departmentID, EmployeeID: employeeID}
}

// ReplaceOp は所属一覧の置き換え操作を生成します。
func ReplaceOp(departmentID string, employeeIDs []string) MembershipOp {
	ids := make([]string, len(employeeIDs))
	copy(ids, employeeIDs)
	return MembershipOp{Kind: OpReplace, DepartmentID: departmentID, EmployeeIDs: ids}
}

// ManagerDirectory は管理者候補の社員を解決します。
type ManagerDirectory interface {
	FindManager(ctx context.Context, employeeID string) (*Manager, error)
}
