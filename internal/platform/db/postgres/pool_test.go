package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ogurasousui/hc-talent-grpc/internal/platform/config"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "db",
		SSLMode:         "disable",
		ApplicationName: "hc-talent-test",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		QueryLogLevel:   "warn",
	}
}

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(testDatabaseConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 || poolCfg.MinConns != 5 {
		t.Errorf("unexpected conns: max=%d min=%d", poolCfg.MaxConns, poolCfg.MinConns)
	}
	if poolCfg.MaxConnLifetime != 30*time.Minute || poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected lifetimes: %v %v", poolCfg.MaxConnLifetime, poolCfg.MaxConnIdleTime)
	}
	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "hc-talent-test" {
		t.Errorf("expected application_name hc-talent-test, got %q", got)
	}

	tracer, ok := poolCfg.ConnConfig.Tracer.(*tracelog.TraceLog)
	if !ok {
		t.Fatalf("expected tracelog tracer, got %T", poolCfg.ConnConfig.Tracer)
	}
	if tracer.LogLevel != tracelog.LogLevelWarn {
		t.Errorf("expected warn level, got %v", tracer.LogLevel)
	}
}

func TestBuildPoolConfig_DefaultsWithoutLogger(t *testing.T) {
	t.Parallel()

	dbCfg := testDatabaseConfig()
	dbCfg.ApplicationName = ""

	poolCfg, err := BuildPoolConfig(dbCfg, nil)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != defaultApplicationName {
		t.Errorf("expected default application_name, got %q", got)
	}
	if poolCfg.ConnConfig.Tracer != nil {
		t.Errorf("expected no tracer without logger, got %T", poolCfg.ConnConfig.Tracer)
	}
}

func TestBuildPoolConfig_InvalidQueryLogLevel(t *testing.T) {
	t.Parallel()

	dbCfg := testDatabaseConfig()
	dbCfg.QueryLogLevel = "loud"

	if _, err := BuildPoolConfig(dbCfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid query log level")
	}
}

func TestQueryLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	log := queryLogger(zap.New(core))

	log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{"sql": "SELECT 1"})
	log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"sql": "SELECT broken", "err": "syntax error"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry above warn, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["sql"]; got != "SELECT broken" {
		t.Errorf("unexpected sql field: %v", got)
	}
}
