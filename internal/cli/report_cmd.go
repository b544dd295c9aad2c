package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suretydesk/suretydesk/internal/cli/formatter"
	"github.com/suretydesk/suretydesk/internal/importer"
	"github.com/suretydesk/suretydesk/internal/report"
)

func newReportCmd(_ *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect the review report layout and check report files",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "paths",
			Short:       "List every editable report path",
			Annotations: map[string]string{offlineAnnotation: "true"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPaths(report.Default()))
				return nil
			},
		},
		newReportValidateCmd(),
	)
	return cmd
}

func newReportValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <file.json|file.csv>",
		Short:       "Check a report file before importing it into a review",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			rep, err := importer.LoadReport(args[0])
			var verr *importer.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(out, "  %s %v\n", formatter.StyleRed.Render("✖"), p)
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("✔"),
				fmt.Sprintf("%s: %d fields, %d shareholders", args[0], len(report.Fields(rep)), len(rep.Shareholders)))
			return nil
		},
	}
}
