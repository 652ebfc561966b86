package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"deskbell/internal/config"
	"deskbell/internal/dispatch"
	"deskbell/internal/eventbus"
	"deskbell/internal/kit"
	"deskbell/pkg/logx"
)

var (
	sendIcon    string
	sendIcon32  string
	sendIcon16  string
	sendTag     string
	sendTimeout time.Duration
	sendWait    bool
	sendStdin   bool
)

var sendCmd = &cobra.Command{
	Use:   "send TITLE [BODY]",
	Short: "Send one notification, or a batch from stdin",
	Long: `Send a desktop notification.

With --stdin, TITLE and BODY are not used; instead each input line is a
notification of the form "TITLE|BODY" (bare TITLE also works) and the
batch goes through the rate-limited, deduplicating dispatch queue.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendStdin {
			if len(args) > 0 {
				return fmt.Errorf("--stdin takes no TITLE/BODY arguments")
			}
			return runSendStdin(cmd)
		}
		if len(args) == 0 {
			return fmt.Errorf("TITLE required (or use --stdin)")
		}
		return runSendOne(cmd, args)
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendIcon, "icon", "", "icon path (unsized fallback)")
	sendCmd.Flags().StringVar(&sendIcon32, "icon32", "", "32px icon path")
	sendCmd.Flags().StringVar(&sendIcon16, "icon16", "", "16px icon path (tray overlay)")
	sendCmd.Flags().StringVar(&sendTag, "tag", "", "replacement tag; a later send with the same tag replaces this one")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 0, "auto-close this long after shown (0 = config default)")
	sendCmd.Flags().BoolVar(&sendWait, "wait", false, "block until the notification closes")
	sendCmd.Flags().BoolVar(&sendStdin, "stdin", false, "read a batch of notifications from stdin")
	rootCmd.AddCommand(sendCmd)
}

// sendOptions merges flags over the config defaults.
func sendOptions(body string) kit.Options {
	o := baseOptions()
	o.Body = body
	o.Tag = sendTag
	if sendIcon != "" {
		o.Icon.Path = sendIcon
	}
	if sendIcon32 != "" {
		o.Icon.Path32 = sendIcon32
	}
	if sendIcon16 != "" {
		o.Icon.Path16 = sendIcon16
	}
	if sendTimeout > 0 {
		o.Timeout = sendTimeout
	}
	return o
}

func runSendOne(cmd *cobra.Command, args []string) error {
	n, err := newNotifier()
	if err != nil {
		return err
	}
	if !n.IsSupported() {
		return fmt.Errorf("no supported notification capability on this host")
	}

	title := args[0]
	body := ""
	if len(args) == 2 {
		body = args[1]
	}

	var (
		events <-chan eventbus.Event
		cancel func()
	)
	if sendWait {
		events, cancel = n.Bus().Subscribe(16)
		defer cancel()
	}

	h := n.Create(title, sendOptions(body))
	defer h.Close()

	if !sendWait {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Title != title {
				continue
			}
			switch ev.Topic {
			case eventbus.TopicClosed:
				return nil
			case eventbus.TopicFailed:
				return fmt.Errorf("notification failed: %s", ev.Err)
			}
		}
	}
}

func runSendStdin(cmd *cobra.Command) error {
	n, err := newNotifier()
	if err != nil {
		return err
	}
	if !n.IsSupported() {
		return fmt.Errorf("no supported notification capability on this host")
	}

	dcfg, err := dispatchConfig(app.cfg)
	if err != nil {
		return err
	}
	svc := dispatch.New(dcfg, n, app.log, n.Bus())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc.Start(ctx)

	var failed int
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		title, body, _ := strings.Cut(line, "|")
		err := svc.Enqueue(ctx, dispatch.Request{Title: title, Options: sendOptions(body)})
		if err != nil {
			failed++
			app.log.Warn("enqueue failed", logx.String("title", title), logx.Err(err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	// Drain what was accepted before reporting.
	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	svc.Stop(drainCtx)

	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d notifications not enqueued", failed)
	}
	return nil
}

func dispatchConfig(cfg *config.Config) (dispatch.Config, error) {
	window, err := config.ParseDurationField("dispatch.dedup_window", cfg.Dispatch.DedupWindow)
	if err != nil {
		return dispatch.Config{}, err
	}
	return dispatch.Config{
		Workers:         cfg.Dispatch.Workers,
		QueueSize:       cfg.Dispatch.QueueSize,
		RatePerSec:      cfg.Dispatch.RatePerSec,
		DedupWindow:     window,
		DedupMaxEntries: cfg.Dispatch.DedupMaxEntries,
	}, nil
}
