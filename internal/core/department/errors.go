package department

import "errors"

var (
	// ErrDepartmentNotFound は部署が存在しない場合に返却されます。
	ErrDepartmentNotFound = errors.New("department: not found")
	// ErrNameAlreadyExists は部署名の重複時に返却されます。
	ErrNameAlreadyExists = errors.New("department: name already exists")
	// ErrInvalidName は部署名が不正な場合に返却されます。
	ErrInvalidName = errors.New("department: invalid name")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("department: invalid id")
	// ErrInvalidManagerID は管理者 ID が未指定の場合に返却されます。
	ErrInvalidManagerID = errors.New("department: invalid manager id")
	// ErrInvalidManager は管理者が有効な gestor でない場合に返却されます。
	ErrInvalidManager = errors.New("department: manager must be an active gestor")
	// ErrEmployeeAlreadyAssigned は社員が別部署に所属済みの場合に返却されます。
	ErrEmployeeAlreadyAssigned = errors.New("department: employee already assigned to another department")
)
