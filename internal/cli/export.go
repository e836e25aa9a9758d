package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/workhours/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(e *env) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current week as CSV, JSON or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = export.DefaultPath(".", f, time.Now())
			}
			if err := export.Write(f, e.load().Week, path); err != nil {
				return err
			}
			e.logger.Debug("exported", slog.String("format", string(f)), slog.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ./workhours-export-<date>.<format>)")
	return cmd
}
