package handler

import (
	"context"

	"github.com/ogurasousui/codex-staff-admin/internal/adapters/grpc/staffv1"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/reconcile"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// Reconciler は所属関係の一括修復を実行します。
type Reconciler interface {
	Run(ctx context.Context) (reconcile.Result, error)
}

// StaffAdminHandler は StaffAdminService の gRPC 実装です。
type StaffAdminHandler struct {
	employees   employee.UseCase
	departments department.UseCase
	reconciler  Reconciler
}

var _ staffv1.StaffAdminServer = (*StaffAdminHandler)(nil)

// NewStaffAdminHandler は StaffAdminHandler を生成します。
func NewStaffAdminHandler(employees employee.UseCase, departments department.UseCase, reconciler Reconciler) *StaffAdminHandler {
	return &StaffAdminHandler{employees: employees, departments: departments, reconciler: reconciler}
}

// Reconcile は所属関係の一括修復を実行し、件数を返します。
func (h *StaffAdminHandler) Reconcile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := h.reconciler.Run(ctx)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("reconciliation failed")
		return nil, toStatusError(err)
	}
	logger.FromContext(ctx).Info().
		Int("sync_count", result.SyncCount).
		Int("clean_count", result.CleanCount).
		Msg("reconciliation finished")
	return respond(map[string]any{
		"sync_count":  result.SyncCount,
		"clean_count": result.CleanCount,
	})
}
