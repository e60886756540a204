package employee

import "errors"

var (
	ErrInvalidID             = errors.New("employee: invalid id")
	ErrInvalidName           = errors.New("employee: invalid name")
	ErrInvalidEmail          = errors.New("employee: invalid email")
	ErrInvalidDepartment     = errors.New("employee: invalid department")
	ErrInvalidHierarchyLevel = errors.New("employee: invalid hierarchy level")
	ErrInvalidBaseSalary     = errors.New("employee: invalid base salary")
	ErrEmployeeNotFound      = errors.New("employee: not found")
	ErrEmailAlreadyExists    = errors.New("employee: email already exists")
)
