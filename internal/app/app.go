// Package app は設定に従ってストレージとユースケースを組み立てます。
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/codex-staff-admin/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-staff-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-staff-admin/internal/core/department"
	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/membership"
	"github.com/ogurasousui/codex-staff-admin/internal/core/reconcile"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/config"
	pgdb "github.com/ogurasousui/codex-staff-admin/internal/platform/db/postgres"
	"github.com/rs/zerolog"
)

// Storage は永続化層の実装一式です。
type Storage struct {
	Employees   employee.Repository
	Departments department.Repository
	Managers    department.ManagerDirectory
	close       func()
}

// Close は接続などのリソースを解放します。
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStorage はインメモリの Storage を返します。
func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Employees:   store.Employees(),
		Departments: store.Departments(),
		Managers:    store.Managers(),
	}
}

// NewPostgresStorage は pgx プールを利用する Storage を返します。
func NewPostgresStorage(pool *pgxpool.Pool) *Storage {
	tx := pgdb.NewTransactionManager(pool)
	return &Storage{
		Employees:   postgres.NewEmployeeRepository(pool),
		Departments: postgres.NewDepartmentRepository(pool, tx),
		Managers:    postgres.NewManagerDirectory(pool),
		close:       pool.Close,
	}
}

// OpenStorage は storage.driver に従って Storage を開きます。
func OpenStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on exit")
		return NewMemoryStorage(), nil
	case config.StorageDriverPostgres:
		pool, err := pgdb.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(pool), nil
	default:
		return nil, fmt.Errorf("app: unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// Services はユースケースの集合です。
type Services struct {
	Employees    *employee.Service
	Departments  *department.Service
	Synchronizer *membership.Synchronizer
	Reconciler   *reconcile.Reconciler
}

// NewServices は Storage からユースケースを構築します。
func NewServices(storage *Storage, membershipCfg config.MembershipConfig, logger zerolog.Logger) *Services {
	sync := membership.NewSynchronizer(
		storage.Departments,
		membership.WithLogger(logger.With().Str("component", "membership").Logger()),
		membership.WithExclusive(membershipCfg.IsExclusive()),
	)
	return &Services{
		Employees:    employee.NewService(storage.Employees, sync, nil),
		Departments:  department.NewService(storage.Departments, nil, storage.Managers),
		Synchronizer: sync,
		Reconciler:   reconcile.NewReconciler(storage.Employees, storage.Departments, logger.With().Str("component", "reconcile").Logger()),
	}
}
