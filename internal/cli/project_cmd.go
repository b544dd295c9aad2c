package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suretydesk/suretydesk/internal/cli/formatter"
	"github.com/suretydesk/suretydesk/internal/domain"
)

// resolveProjectID accepts a full id or a unique prefix of one, such as the
// eight-character display id.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Browse submitted projects and move them through review",
	}
	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectStatusCmd(app),
		newProjectLogsCmd(app),
	)
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(projects)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, time.Now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print projects as JSON")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	var withReport bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its operation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			logs, err := app.Projects.History(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatProjectShow(p, logs, time.Now()))
			if withReport && p.Report != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatReport(*p.Report))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withReport, "report", false, "also print the archived review report")
	return cmd
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a project's status (Draft, Reviewing, Approved, Rejected, Completed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status, err := domain.ParseProjectStatus(args[1])
			if err != nil {
				return err
			}
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.UpdateStatus(ctx, id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %s\n", id[:min(8, len(id))], formatter.StatusPill(status))
			return nil
		},
	}
}

func newProjectLogsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logs <id>",
		Short: "List a project's operation log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			logs, err := app.Projects.History(ctx, id)
			if err != nil {
				return err
			}
			t := formatter.NewTable("TIME", "ACTION", "DETAILS", "USER")
			for _, l := range logs {
				t.Row(l.CreatedAt.Local().Format("2006-01-02 15:04:05"), l.Action, l.Details, formatter.Or(l.User))
			}
			fmt.Fprint(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
