// Package app は設定からストレージとユースケースを組み立てます。
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	badgerrepo "github.com/ogurasousui/hc-talent-grpc/internal/adapters/repository/badger"
	"github.com/ogurasousui/hc-talent-grpc/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/config"
	badgerdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/badger"
	pg "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/postgres"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/logger"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/metrics"
)

// App は組み立て済みのユースケースとその後始末を保持します。
type App struct {
	Employee     *employee.Service
	Audit        *audit.Service
	Dashboard    *dashboard.Service
	Operator     *operator.Service
	Requirements talent.Requirements

	closers []func() error
}

type repositories struct {
	employees employee.Repository
	audit     audit.Repository
	operators operator.Repository
	tx        employee.TransactionManager
}

// New は cfg.Storage.Driver に応じたリポジトリでユースケースを構築します。
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	requirements, err := talent.NewRequirements(cfg.Promotion.RequiredTechnical, cfg.Promotion.RequiredSoft)
	if err != nil {
		return nil, fmt.Errorf("promotion requirements: %w", err)
	}

	a := &App{Requirements: requirements}

	repos, err := a.openStorage(ctx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	mirror, err := logger.NewAuditMirror(cfg.Audit.FilePath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if mirror != nil {
		a.closers = append(a.closers, func() error {
			_ = mirror.Sync()
			return nil
		})
	}
	auditRepo := audit.NewMirroredRepository(repos.audit, mirror)

	a.Employee = employee.NewService(repos.employees, auditRepo, requirements,
		employee.WithTransactionManager(repos.tx),
		employee.WithLogger(log.Named("employee")),
		employee.WithMutationObserver(metrics.ObserveMutation),
	)
	a.Audit = audit.NewService(auditRepo, repos.tx)
	a.Dashboard = dashboard.NewService(repos.employees, requirements, repos.tx)
	a.Operator = operator.NewService(repos.operators, nil)

	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverBadger:
		db, err := badgerdb.Open(cfg.Badger, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		auditRepo, err := badgerrepo.NewAuditRepository(db)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, auditRepo.Close)
		log.Info("storage opened", zap.String("driver", cfg.Storage.Driver), zap.Bool("in_memory", cfg.Badger.InMemory))
		return &repositories{
			employees: badgerrepo.NewEmployeeRepository(db),
			audit:     auditRepo,
			operators: badgerrepo.NewOperatorRepository(db),
			tx:        badgerdb.NewTransactionManager(db),
		}, nil

	case config.StorageDriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database, log.Named("pgx"))
		if err != nil {
			return nil, fmt.Errorf("initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		log.Info("storage opened", zap.String("driver", cfg.Storage.Driver), zap.String("host", cfg.Database.Host))
		return &repositories{
			employees: postgres.NewEmployeeRepository(pool),
			audit:     postgres.NewAuditRepository(pool),
			operators: postgres.NewOperatorRepository(pool),
			tx:        pg.NewTransactionManager(pool),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// Close は開いたリソースを逆順に閉じます。
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
