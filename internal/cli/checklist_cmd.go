package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suretydesk/suretydesk/internal/checklist"
	"github.com/suretydesk/suretydesk/internal/cli/formatter"
	"github.com/suretydesk/suretydesk/internal/domain"
)

func parseModeFlags(category, mode string) (domain.BondCategory, domain.CreditMode, error) {
	c, err := domain.ParseBondCategory(category)
	if err != nil {
		return "", "", err
	}
	m, err := domain.ParseCreditMode(mode)
	if err != nil {
		return "", "", err
	}
	return c, m, nil
}

func newChecklistCmd(_ *App) *cobra.Command {
	var category, mode string
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "checklist",
		Short:       "Show the required documents for a bond category and credit mode",
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, m, err := parseModeFlags(category, mode)
			if err != nil {
				return err
			}
			cl := checklist.Generate(c, m)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cl)
			}
			fmt.Fprintf(out, "%s · %s\n\n", formatter.CategoryBadge(c), m.Label())
			fmt.Fprint(out, formatter.FormatChecklist(cl, nil))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(domain.BondBid), "bond category: BID, PERFORMANCE, ADVANCE_PAYMENT, QUALITY, MIGRANT_WORKER")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(domain.CreditEntity), "credit mode: CREDIT or NON_CREDIT")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the checklist as JSON")
	return cmd
}
