package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"deskbell/internal/kit"
)

var requestTimeout time.Duration

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request notification permission from the host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newNotifier()
		if err != nil {
			return err
		}
		if !n.IsSupported() {
			return fmt.Errorf("no supported notification capability on this host")
		}

		done := make(chan kit.Permission, 1)
		n.RequestPermission(func(state kit.Permission) { done <- state })

		select {
		case state := <-done:
			fmt.Fprintf(cmd.OutOrStdout(), "permission: %s\n", state)
			if state != kit.PermissionGranted {
				return fmt.Errorf("permission not granted")
			}
			return nil
		case <-time.After(requestTimeout):
			return fmt.Errorf("permission request did not resolve within %s", requestTimeout)
		}
	},
}

func init() {
	requestCmd.Flags().DurationVar(&requestTimeout, "timeout", 10*time.Second, "how long to wait for the host to answer")
	rootCmd.AddCommand(requestCmd)
}
