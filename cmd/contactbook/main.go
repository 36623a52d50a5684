package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contactbook/internal/config"
	"contactbook/internal/contacts"
	"contactbook/internal/render"
	"contactbook/internal/script"
	"contactbook/internal/tools"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// runnerFactory builds the script backend for a resolved configuration.
type runnerFactory func(cfg config.Config, logger *zap.Logger) script.Runner

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(newRunner)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "contactbook",
		Short:         "contactbook - macOS Contacts CLI and MCP server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Bool("json", false, "Output JSON")
	cmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().String("backend", config.BackendOsascript, "Script backend (osascript or relay)")

	cmd.AddCommand(
		newContactsCmd(runners),
		newGroupsCmd(runners),
		newMCPCmd(runners),
	)
	return cmd
}

// app is the per-invocation wiring shared by every subcommand.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	service    *contacts.Service
	dispatcher *tools.Dispatcher
	printer    *render.Printer
}

func setup(cmd *cobra.Command, runners runnerFactory) (*app, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}
	logger := buildLogger(cfg.Verbose)
	logger.Debug("configuration loaded",
		zap.String("backend", cfg.Runner.Backend),
		zap.String("config_file", cfg.ConfigFile),
		zap.Int("default_limit", cfg.DefaultLimit),
	)

	service := contacts.NewService(runners(cfg, logger), logger, contacts.WithDefaultLimit(cfg.DefaultLimit))
	registry := tools.NewRegistry(tools.ContactTools(service)...)
	return &app{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		dispatcher: tools.NewDispatcher(registry, logger),
		printer:    render.NewPrinter(cmd.OutOrStdout(), cfg.JSON),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// run wraps a command body with setup and teardown.
func run(runners runnerFactory, body func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, runners)
		if err != nil {
			return err
		}
		defer a.close()
		return body(cmd, args, a)
	}
}

func newRunner(cfg config.Config, logger *zap.Logger) script.Runner {
	if cfg.Runner.Backend == config.BackendRelay {
		relay := cfg.Runner.Relay
		return script.NewRelayRunner(relay.URL, relay.Token, relay.RetryMax, relay.Timeout, logger)
	}
	return script.NewExecRunner(cfg.Runner.OsascriptPath, cfg.Runner.OsascriptFlag)
}

func buildLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
