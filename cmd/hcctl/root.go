package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ogurasousui/hc-talent-grpc/internal/app"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/config"
	"github.com/ogurasousui/hc-talent-grpc/internal/platform/logger"
)

// cliAddress は CLI からの操作として監査ログに記録するクライアントアドレスです。
const cliAddress = "hcctl"

// commandline はサブコマンド間で共有する状態です。
type commandline struct {
	configPath string
	role       string
	actor      string

	app *app.App
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	cl := &commandline{}

	root := &cobra.Command{
		Use:           "hcctl",
		Short:         "Manage employee talent records against the configured storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cl.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&cl.role, "role", "", "acting role (viewer, hr_admin, bureau_head)")
	root.PersistentFlags().StringVar(&cl.actor, "actor", "", "acting identity; resolved as an operator ID when --role is empty")

	cl.employeeCommands(root)
	cl.reportCommands(root)
	cl.operatorCommands(root)
	return root
}

// run は設定からユースケースを組み立ててから fn を実行し、終了後にリソースを解放します。
func (cl *commandline) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := cl.open(cmd.Context()); err != nil {
			return err
		}
		defer cl.close()
		return fn(cmd, args)
	}
}

func (cl *commandline) open(ctx context.Context) error {
	cfg, err := config.Load(effectiveConfigPath(cl.configPath))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	cl.log = log

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	cl.app = a
	return nil
}

func (cl *commandline) close() {
	if cl.app != nil {
		if err := cl.app.Close(); err != nil {
			cl.log.Warn("failed to close storage", zap.Error(err))
		}
		cl.app = nil
	}
	if cl.log != nil {
		_ = cl.log.Sync()
	}
}

// actorContext は --role / --actor から操作者を決定して ctx に紐付けます。
// どちらも指定されない場合は操作者なしの ctx を返します。
func (cl *commandline) actorContext(ctx context.Context) (context.Context, error) {
	identity := strings.TrimSpace(cl.actor)
	rawRole := strings.TrimSpace(cl.role)

	switch {
	case rawRole != "":
		role, err := access.ParseRole(rawRole)
		if err != nil {
			return nil, err
		}
		if identity == "" {
			return nil, fmt.Errorf("--actor is required when --role is set")
		}
		return access.WithActor(ctx, access.Actor{Identity: identity, Role: role, Address: cliAddress}), nil
	case identity != "":
		actor, err := cl.app.Operator.ResolveActor(ctx, identity, cliAddress)
		if err != nil {
			return nil, err
		}
		return access.WithActor(ctx, actor), nil
	default:
		return ctx, nil
	}
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
