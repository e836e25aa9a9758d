package cli

import (
	"errors"
	"fmt"

	"github.com/sadopc/workhours/internal/tracker"
	"github.com/spf13/cobra"
)

func newResetCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the saved week and undo history with the default week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset discards all intervals and undo history; rerun with --yes")
			}
			if err := tracker.NewState(e.prefs).Save(e.store); err != nil {
				return err
			}
			e.logger.Info("week reset")
			fmt.Fprintln(cmd.OutOrStdout(), "Week reset to defaults")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
