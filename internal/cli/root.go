// Package cli implements the deskbell command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"deskbell/internal/config"
	"deskbell/internal/kit"
	"deskbell/pkg/deskbell"
	"deskbell/pkg/logx"
)

var (
	flagConfig   string
	flagLogLevel string
)

// app holds the state every subcommand needs. Populated by the root
// PersistentPreRunE, torn down by PersistentPostRun.
var app struct {
	mgr    *config.Manager
	cfg    *config.Config
	logSvc *logx.Service
	log    logx.Logger
}

var rootCmd = &cobra.Command{
	Use:   "deskbell",
	Short: "Desktop notifications through whatever the host supports",
	Long: `deskbell probes the host for a native notification mechanism
(freedesktop D-Bus, notify-send, osascript, or a tray icon overlay)
and sends notifications through the best one it finds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = defaultConfigPath()
		}
		app.mgr = config.NewManager(path)
		cfg, err := app.mgr.Load()
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		app.cfg = cfg

		level := cfg.Logging.Level
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		app.logSvc, app.log = logx.New(logx.Config{
			Level:   level,
			Console: cfg.Logging.ConsoleEnabled(),
			File: logx.FileConfig{
				Enabled: cfg.Logging.File.Enabled,
				Path:    cfg.Logging.File.Path,
			},
			Journal: logx.JournalConfig{
				Enabled:  cfg.Logging.Journal.Enabled,
				MinLevel: cfg.Logging.Journal.MinLevel,
			},
		})
		app.mgr.SetLogger(app.log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.logSvc != nil {
			_ = app.logSvc.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level")
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "deskbell.yaml"
	}
	return filepath.Join(dir, "deskbell", "config.yaml")
}

// newNotifier builds a notifier from the loaded config.
func newNotifier() (*deskbell.Notifier, error) {
	disabled, err := app.cfg.DisabledVariants()
	if err != nil {
		return nil, err
	}
	opts := []deskbell.Option{
		deskbell.WithLogger(app.log),
		deskbell.WithDisabledVariants(disabled),
	}
	if name := app.cfg.App.Name; name != "" {
		opts = append(opts, deskbell.WithAppName(name))
	}
	return deskbell.New(opts...), nil
}

// baseOptions seeds send options from config defaults.
func baseOptions() kit.Options {
	return kit.Options{
		Icon:    app.cfg.DefaultIcon(),
		Timeout: app.cfg.DefaultTimeout(),
	}
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deskbell:", err)
		return err
	}
	return nil
}
