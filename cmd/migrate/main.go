package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/ogurasousui/hc-talent-grpc/internal/platform/config"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/logger"
)

const usage = `usage: migrate [-config path] [-dir path] <action>

actions:
  up            apply all pending migrations (default)
  down          revert all migrations
  steps N       apply N migrations, negative N reverts
  goto V        migrate up or down to version V
  force V       mark version V as applied and clear the dirty flag
  drop          drop every table in the database
  version       print the current version`

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Usage = func() { fmt.Fprintln(flag.CommandLine.Output(), usage) }
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Fatal("migrations require the postgres storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	m, err := open(*migrationsDir, cfg.Database.DSN(), log)
	if err != nil {
		log.Fatal("failed to open migrations", zap.String("dir", *migrationsDir), zap.Error(err))
	}
	defer m.Close()

	if err := cmd.run(m, log); err != nil {
		log.Fatal("migration failed", zap.String("action", cmd.action), zap.Error(err))
	}
	log.Info("migration completed", zap.String("action", cmd.action))
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

// command は解釈済みのマイグレーション操作です。
type command struct {
	action string
	n      int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{action: "up"}, nil
	}

	cmd := command{action: args[0]}
	switch cmd.action {
	case "up", "down", "drop", "version":
		if len(args) != 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.action)
		}
		return cmd, nil
	case "steps", "goto", "force":
		if len(args) != 2 {
			return command{}, fmt.Errorf("%s requires exactly one number", cmd.action)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("%s: %q is not a number", cmd.action, args[1])
		}
		if n == 0 && cmd.action == "steps" {
			return command{}, errors.New("steps: N must not be zero")
		}
		if n < 0 && cmd.action != "steps" {
			return command{}, fmt.Errorf("%s: version must not be negative", cmd.action)
		}
		cmd.n = n
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unsupported action %q", cmd.action)
	}
}

func (c command) run(m *migrate.Migrate, log *zap.Logger) error {
	var err error
	switch c.action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(c.n)
	case "goto":
		err = m.Migrate(uint(c.n))
	case "force":
		return m.Force(c.n)
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info("no migration applied")
			return nil
		}
		if verr != nil {
			return verr
		}
		log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no change")
		return nil
	}
	return err
}

func open(dir, dsn string, log *zap.Logger) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{log: log.Named("migrate").Sugar()}
	return m, nil
}

// migrateLogger は golang-migrate の進捗ログを zap に流します。
type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.log.Desugar().Core().Enabled(zap.DebugLevel)
}
