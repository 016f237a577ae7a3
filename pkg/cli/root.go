// Package cli implements the kitty-panel command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/config"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/notify"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/panel"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/sysexec"
)

// globals are the flags shared by every command.
type globals struct {
	configPath string
	verbose    bool
	bar        bool
}

// Execute runs the root command with the process arguments.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "kitty-panel",
		Short: "Status panel and bar for kitty on Hyprland",
		Long: `kitty-panel polls audio, brightness, network, bluetooth, battery,
privacy indicators, workspaces, weather and the calendar, and draws them
as a side panel (default) or a one-line bar in the terminal it runs in.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, g)
		},
	}
	root.SetVersionTemplate("kitty-panel version {{.Version}}\n")

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/kitty-panel/config.toml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&g.bar, "bar", false, "render the one-line bar instead of the panel")

	root.AddCommand(newDetectCmd(g), newProbesCmd(g), newStatusCmd(g))
	return root
}

func (g *globals) mode() panel.Mode {
	if g.bar {
		return panel.ModeBar
	}
	return panel.ModePanel
}

// loadConfig returns the configuration and the path it came from. An
// explicit --config must exist.
func (g *globals) loadConfig() (*config.Config, string, error) {
	if g.configPath == "" {
		return config.Load()
	}
	if _, err := os.Stat(g.configPath); err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}
	cfg, err := config.LoadFromFile(g.configPath)
	return cfg, g.configPath, err
}

// level maps the configured level, raised to debug by --verbose.
func (g *globals) level(cfg *config.Config) slog.Level {
	if g.verbose {
		return slog.LevelDebug
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.General.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// stderrLogger is used by the one-shot commands, which do not own the
// terminal.
func (g *globals) stderrLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLog opens the log file the dashboard writes to; the terminal itself
// is the display.
func openLog(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}

func runDashboard(cmd *cobra.Command, g *globals) error {
	cfg, path, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := openLog(cfg.General.LogFile, g.level(cfg))
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sysexec.New()
	mode := g.mode()
	logger.Info("starting", "mode", mode, "config", path, "version", cmd.Root().Version)
	return panel.Run(ctx, cfg, panel.Options{
		Mode:       mode,
		ConfigPath: path,
		Out:        cmd.OutOrStdout(),
		Logger:     logger,
		Deps: panel.Deps{
			Runner:   runner,
			Notifier: notify.NewDesktop(runner),
		},
		PIDFile:    panel.RuntimePath(mode, ".pid"),
		HealthFile: panel.RuntimePath(mode, ".json"),
	})
}

// commandContext returns cmd's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
