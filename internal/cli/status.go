package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskbell/internal/driver"
	"deskbell/internal/kit"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the detected notification capability and permission state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newNotifier()
		if err != nil {
			return err
		}
		n.Init()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "supported: %v\n", n.IsSupported())
		fmt.Fprintf(out, "variant:   %s\n", n.Variant())
		if perm, ok := n.Permission(); ok {
			fmt.Fprintf(out, "permission: %s\n", perm)
		}

		disabled, _ := app.cfg.DisabledVariants()
		fmt.Fprintln(out, "probe order:")
		for _, v := range driver.Variants() {
			marker := " "
			switch {
			case v == n.Variant():
				marker = "*"
			case variantIn(v, disabled):
				marker = "-"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, v)
		}
		return nil
	},
}

func variantIn(v kit.Variant, vs []kit.Variant) bool {
	for _, d := range vs {
		if d == v {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
