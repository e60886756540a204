// Package cli は staffctl コマンドを提供します。
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ogurasousui/codex-staff-admin/internal/app"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/config"
	"github.com/ogurasousui/codex-staff-admin/internal/platform/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions は全コマンド共通のフラグです。
type RootOptions struct {
	ConfigPath string
	Timeout    time.Duration
	Format     string
	Verbose    bool
}

// ValidFormats は出力形式の一覧です。
var ValidFormats = []string{"text", "json"}

// Env はコマンド実行に必要な依存です。
type Env struct {
	Services *app.Services
	Logger   zerolog.Logger
	Close    func()
}

// Bootstrap は設定から Env を構築します。テストではインメモリの Env を差し込みます。
type Bootstrap func(ctx context.Context, opts *RootOptions) (*Env, error)

// NewRootCommand は staffctl のルートコマンドを生成します。bootstrap が nil の場合は設定ファイルから構築します。
func NewRootCommand(bootstrap Bootstrap) *cobra.Command {
	if bootstrap == nil {
		bootstrap = DefaultBootstrap
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "staffctl",
		Short: "Staff admin maintenance tool",
		Long:  "Administrative commands for employees and departments: membership reconciliation and onboarding.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Timeout <= 0 {
				return fmt.Errorf("invalid timeout %s: must be positive", opts.Timeout)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "timeout for store operations")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewReconcileCommand(opts, bootstrap))
	cmd.AddCommand(NewOnboardCommand(opts, bootstrap))
	cmd.AddCommand(NewEmployeesCommand(opts, bootstrap))

	return cmd
}

// DefaultBootstrap は設定ファイルを読み込み、ロガーとストレージを初期化します。
func DefaultBootstrap(ctx context.Context, opts *RootOptions) (*Env, error) {
	cfg, err := config.Load(config.ResolvePath(opts.ConfigPath))
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	l, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	storage, err := app.OpenStorage(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	return &Env{
		Services: app.NewServices(storage, cfg.Membership, l),
		Logger:   l,
		Close:    storage.Close,
	}, nil
}

func openEnv(cmd *cobra.Command, opts *RootOptions, bootstrap Bootstrap) (*Env, error) {
	env, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize", err)
	}
	if env.Close == nil {
		env.Close = func() {}
	}
	return env, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
