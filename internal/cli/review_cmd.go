package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/cli/formatter"
	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/importer"
	"github.com/suretydesk/suretydesk/internal/intake"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/session"
)

type reviewOptions struct {
	category string
	mode     string
	classify bool
	extract  bool
	force    bool
	submit   bool
	asJSON   bool
	csvPath  string
	fromFile string
	fee      string
	form     report.Overrides
}

func newReviewCmd(app *App) *cobra.Command {
	var opts reviewOptions

	cmd := &cobra.Command{
		Use:   "review <dir>",
		Short: "Run an application folder through intake, drafting and submission",
		Long: `Review reads an application folder. Sub-directories named after a
checklist item id (see "suretydesk checklist") are filed under that item.
Every other file is classified by the model when --classify is set, and
filed as unclassified otherwise. The report is then drafted from all files
and merged with the form flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, app, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.category, "category", "c", string(domain.BondBid), "bond category")
	f.StringVarP(&opts.mode, "mode", "m", string(domain.CreditEntity), "credit mode: CREDIT or NON_CREDIT")
	f.BoolVar(&opts.classify, "classify", false, "classify loose files with the model")
	f.BoolVar(&opts.extract, "extract", false, "fill empty form fields from the documents first")
	f.BoolVar(&opts.force, "force", false, "draft the report even when required documents are missing")
	f.BoolVar(&opts.submit, "submit", false, "archive the report as a new project")
	f.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	f.StringVar(&opts.csvPath, "csv", "", "also write the report as CSV to this path")
	f.StringVar(&opts.fromFile, "report", "", "use a prepared report file (.json or .csv) instead of drafting one")
	f.StringVar(&opts.fee, "fee", "", "fee description passed to the drafting model")
	f.StringVar(&opts.form.ProjectName, "project-name", "", "project name override")
	f.StringVar(&opts.form.CustomerName, "customer", "", "customer name override")
	f.StringVar(&opts.form.Amount, "amount", "", "guarantee amount override")
	f.StringVar(&opts.form.Beneficiary, "beneficiary", "", "beneficiary override")
	return cmd
}

func runReview(cmd *cobra.Command, app *App, dir string, opts reviewOptions) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log := app.logger()

	category, mode, err := parseModeFlags(opts.category, opts.mode)
	if err != nil {
		return err
	}
	s, err := session.New(app.Deps, category, mode)
	if err != nil {
		return err
	}

	filed, loose, err := collectSources(dir, s.Checklist())
	if err != nil {
		return err
	}
	for itemID, sources := range filed {
		for _, src := range sources {
			if _, err := s.Upload(itemID, src); err != nil {
				return err
			}
		}
	}
	if len(loose) > 0 {
		if opts.classify {
			stop := app.spinner(errOut, fmt.Sprintf("正在识别 %d 个文件...", len(loose)))
			res, err := s.BatchUpload(ctx, loose)
			stop()
			if err != nil {
				return err
			}
			log.Info("batch filed",
				zap.Int("files", len(loose)),
				zap.Int("reassigned", res.Reassigned),
				zap.Int("unmatched", res.Unmatched))
		} else {
			for _, src := range loose {
				if _, err := s.Upload(domain.CatchAllItemID, src); err != nil {
					return err
				}
			}
		}
	}
	s.Tracker().Wait()
	fmt.Fprintln(out, formatter.FormatChecklist(s.Checklist(), s.Tracker().Snapshot()))

	s.SetForm(opts.form)
	s.SetFeeDescription(opts.fee)
	if opts.extract {
		if _, err := s.FillBlanks(ctx); err != nil {
			fmt.Fprintf(errOut, "%s %v\n", formatter.StyleYellow.Render("智能识别失败:"), err)
		}
	}

	var rep domain.ReportData
	if opts.fromFile != "" {
		rep, err = importReport(s, opts.fromFile)
	} else {
		rep, err = app.generate(cmd, s, opts.force)
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, formatter.FormatReport(rep))
	}

	if opts.csvPath != "" {
		if err := writeCSVFile(opts.csvPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(errOut, "CSV written to %s\n", opts.csvPath)
	}

	if opts.submit {
		p, err := s.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created project %s [%s] %s\n", formatter.Bold(p.Name), p.DisplayID(), formatter.StatusPill(p.Status))
	}
	return nil
}

// generate drafts the report. When required documents are missing it asks
// to continue on a terminal, and fails otherwise.
func (a *App) generate(cmd *cobra.Command, s *session.Session, force bool) (domain.ReportData, error) {
	errOut := cmd.ErrOrStderr()
	stop := a.spinner(errOut, "正在生成评审报告...")
	rep, err := s.Generate(cmd.Context(), force)
	stop()

	var inc *session.IncompleteError
	if !errors.As(err, &inc) {
		return rep, err
	}
	fmt.Fprintln(errOut, formatter.FormatMissing(inc.Missing))
	if !a.interactive() || a.Confirm == nil {
		return rep, fmt.Errorf("%w (use --force to draft anyway)", err)
	}
	ok, cerr := a.Confirm("必备资料不全，仍要生成报告吗?", inc.Summary())
	if cerr != nil {
		return rep, cerr
	}
	if !ok {
		return rep, err
	}

	stop = a.spinner(errOut, "正在生成评审报告...")
	defer stop()
	return s.Generate(cmd.Context(), true)
}

// importReport replaces the working report with a file and applies the
// form flags over it.
func importReport(s *session.Session, path string) (domain.ReportData, error) {
	imported, err := importer.LoadReport(path)
	if err != nil {
		return domain.ReportData{}, err
	}
	if err := s.Replace(report.Merge(imported, nil, s.Form())); err != nil {
		return domain.ReportData{}, err
	}
	rep, _ := s.Report()
	return rep, nil
}

func (a *App) spinner(w io.Writer, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(w, message)
}

// collectSources splits dir into files filed by sub-directory name and
// loose files. Hidden entries are skipped.
func collectSources(dir string, cl domain.Checklist) (map[string][]intake.Source, []intake.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading application folder: %w", err)
	}
	filed := map[string][]intake.Source{}
	var loose []intake.Source

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !e.IsDir() {
			loose = append(loose, intake.NewFileSource(path))
			continue
		}
		files, err := listFiles(path)
		if err != nil {
			return nil, nil, err
		}
		if cl.Has(e.Name()) {
			filed[e.Name()] = append(filed[e.Name()], files...)
		} else {
			loose = append(loose, files...)
		}
	}
	return filed, loose, nil
}

func listFiles(dir string) ([]intake.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []intake.Source
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, intake.NewFileSource(filepath.Join(dir, e.Name())))
	}
	return out, nil
}

func writeCSVFile(path string, rep domain.ReportData) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	// Excel needs the UTF-8 BOM to read Chinese headers.
	if _, err := f.WriteString("\ufeff"); err != nil {
		return err
	}
	return report.WriteCSV(f, rep)
}
