package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidDepartment),
		errors.Is(err, employee.ErrInvalidHierarchyLevel),
		errors.Is(err, employee.ErrInvalidBaseSalary),
		errors.Is(err, department.ErrInvalidID),
		errors.Is(err, department.ErrInvalidName),
		errors.Is(err, department.ErrInvalidManagerID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrEmailAlreadyExists), errors.Is(err, department.ErrNameAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, department.ErrDepartmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, department.ErrInvalidManager), errors.Is(err, department.ErrEmployeeAlreadyAssigned):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
