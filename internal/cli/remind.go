package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"deskbell/internal/schedule"
	"deskbell/pkg/logx"
)

var remindWatchConfig bool

var remindCmd = &cobra.Command{
	Use:   "remind SPEC TITLE [BODY]",
	Short: "Send a recurring notification on a schedule",
	Long: `Run in the foreground and send the notification at every fire of
SPEC. SPEC is a cron expression ("*/5 * * * *", "@hourly"), a Go
duration ("55m", "2h30m"), or HH:MM interval shorthand ("02:30").
Stop with Ctrl-C.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := schedule.Parse(args[0])
		if err != nil {
			return err
		}
		title := args[1]
		body := ""
		if len(args) == 3 {
			body = args[2]
		}

		n, err := newNotifier()
		if err != nil {
			return err
		}
		if !n.IsSupported() {
			return fmt.Errorf("no supported notification capability on this host")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if remindWatchConfig {
			go watchConfig(ctx)
		}

		next := spec.Next(time.Now())
		fmt.Fprintf(cmd.OutOrStdout(), "reminding %q, next fire %s\n",
			title, next.Format(time.RFC3339))

		err = spec.Run(ctx, func(at time.Time) {
			n.Create(title, sendOptions(body))
			app.log.Info("reminder fired",
				logx.String("title", title), logx.String("at", at.Format(time.RFC3339)))
		})
		if err == context.Canceled {
			return nil
		}
		return err
	},
}

// watchConfig reloads the config file on edits and applies logging changes
// live. Other sections need a restart; the probe result in particular is
// fixed for the life of the process.
func watchConfig(ctx context.Context) {
	sub := app.mgr.Subscribe(1)
	defer app.mgr.Unsubscribe(sub)

	go func() {
		if err := app.mgr.Watch(ctx); err != nil {
			app.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-sub:
			if !ok {
				return
			}
			app.logSvc.Apply(logx.Config{
				Level:   cfg.Logging.Level,
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
			app.log.Info("logging config reapplied")
		}
	}
}

func init() {
	remindCmd.Flags().BoolVar(&remindWatchConfig, "watch-config", false, "reload the config file on edits")
	rootCmd.AddCommand(remindCmd)
}
