// Package session holds the state of one bond application in flight: the
// checklist, the uploaded files, the officer's form and the working report.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/checklist"
	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/intake"
	"github.com/suretydesk/suretydesk/internal/reconcile"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/service"
)

var (
	ErrClosed      = errors.New("session already submitted")
	ErrUnknownItem = errors.New("unknown checklist item")
	ErrNoFiles     = errors.New("no uploaded files are ready")
	ErrIncomplete  = errors.New("required documents missing")
)

// IncompleteError lists the labels of required items with no files.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncomplete, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

// Summary lists at most five labels, one per line, with a trailing "..."
// when more are missing.
func (e *IncompleteError) Summary() string {
	shown := e.Missing
	more := ""
	if len(shown) > 5 {
		shown, more = shown[:5], "\n..."
	}
	return strings.Join(shown, "\n") + more
}

// Extractor reads the four basic form fields out of the documents.
type Extractor interface {
	Extract(ctx context.Context, docs []domain.Document) (domain.BasicInfo, error)
}

// Reporter drafts a full review report from the documents.
type Reporter interface {
	Generate(ctx context.Context, docs []domain.Document, feeDescription string) (*domain.ReportData, error)
}

// Deps are the collaborators a session calls out to. Nil collaborators
// make the matching operation fail.
type Deps struct {
	Reconciler *reconcile.Reconciler
	Extractor  Extractor
	Reporter   Reporter
	Projects   service.ProjectService
	Log        *zap.Logger

	// OnFile observes every background read; OnBatch every batch upload.
	OnFile  func(domain.FileRecord)
	OnBatch func(reconcile.Result, error)
}

type Session struct {
	ID        string
	CreatedAt time.Time

	deps    Deps
	log     *zap.Logger
	tracker *intake.Tracker

	mu        sync.Mutex
	category  domain.BondCategory
	mode      domain.CreditMode
	checklist domain.Checklist
	form      report.Overrides
	fee       string
	report    *domain.ReportData
	project   *domain.Project

	// submitting is set while Submit is creating the project.
	submitting bool
}

func New(deps Deps, category domain.BondCategory, mode domain.CreditMode) (*Session, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown bond category %q", category)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown credit mode %q", mode)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New().String()
	log = log.With(zap.String("session", id))

	tracker := intake.NewTracker(log)
	tracker.OnComplete = deps.OnFile

	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		deps:      deps,
		log:       log,
		tracker:   tracker,
		category:  category,
		mode:      mode,
		checklist: checklist.Generate(category, mode),
	}, nil
}

func (s *Session) Category() domain.BondCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

func (s *Session) Mode() domain.CreditMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Checklist() domain.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checklist
}

// Tracker exposes the intake map for reads and waits.
func (s *Session) Tracker() *intake.Tracker { return s.tracker }

// SelectMode switches bond category and credit mode. The checklist is
// regenerated; files under items the new checklist lacks move to the
// catch-all bucket.
func (s *Session) SelectMode(category domain.BondCategory, mode domain.CreditMode) error {
	if !category.Valid() {
		return fmt.Errorf("unknown bond category %q", category)
	}
	if !mode.Valid() {
		return fmt.Errorf("unknown credit mode %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedLocked() {
		return ErrClosed
	}
	s.category, s.mode = category, mode
	s.checklist = checklist.Generate(category, mode)
	moved := s.tracker.Rehome(s.checklist.Has)
	s.log.Debug("mode selected",
		zap.String("category", string(category)),
		zap.String("mode", string(mode)),
		zap.Int("rehomed", moved))
	return nil
}

// Upload files one document under itemID and reads it in the background.
func (s *Session) Upload(itemID string, src intake.Source) (domain.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedLocked() {
		return domain.FileRecord{}, ErrClosed
	}
	if !s.checklist.Has(itemID) {
		return domain.FileRecord{}, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	return s.tracker.AddFile(itemID, src), nil
}

func (s *Session) Remove(itemID, fileID string) {
	s.tracker.RemoveFile(itemID, fileID)
}

// BatchUpload classifies sources in one call and files them. On failure
// the intake map is unchanged.
func (s *Session) BatchUpload(ctx context.Context, sources []intake.Source) (reconcile.Result, error) {
	if s.deps.Reconciler == nil {
		return reconcile.Result{}, errors.New("batch classification is not configured")
	}
	s.mu.Lock()
	closed, cl := s.closedLocked(), s.checklist
	s.mu.Unlock()
	if closed {
		return reconcile.Result{}, ErrClosed
	}

	res, err := s.deps.Reconciler.ClassifyAndFile(ctx, sources, cl, s.tracker)
	if err == nil {
		// The mode may have changed while the classifier ran.
		s.mu.Lock()
		s.tracker.Rehome(s.checklist.Has)
		s.mu.Unlock()
	}
	if s.deps.OnBatch != nil {
		s.deps.OnBatch(res, err)
	}
	return res, err
}

// Missing returns required checklist items that have no files.
func (s *Session) Missing() []domain.ChecklistItem {
	return checklist.Missing(s.Checklist(), s.tracker)
}

func (s *Session) Form() report.Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) SetForm(form report.Overrides) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

func (s *Session) FeeDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fee
}

func (s *Session) SetFeeDescription(fee string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fee = fee
}

// SmartFill extracts basic info from every ready file and writes the
// non-empty values into the form. On failure the form is unchanged.
func (s *Session) SmartFill(ctx context.Context) (report.Overrides, error) {
	return s.extractInto(ctx, report.ApplyBasicInfo)
}

// FillBlanks is SmartFill for batch runs: values already in the form are
// kept and extraction only fills the empty fields.
func (s *Session) FillBlanks(ctx context.Context) (report.Overrides, error) {
	return s.extractInto(ctx, report.FillBlanks)
}

func (s *Session) extractInto(ctx context.Context, apply func(report.Overrides, domain.BasicInfo) report.Overrides) (report.Overrides, error) {
	if s.deps.Extractor == nil {
		return report.Overrides{}, errors.New("extraction is not configured")
	}
	docs := s.documents()
	if len(docs) == 0 {
		return s.Form(), ErrNoFiles
	}

	info, err := s.deps.Extractor.Extract(ctx, docs)
	if err != nil {
		return s.Form(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = apply(s.form, info)
	return s.form, nil
}

// ReuseProject copies name, customer and amount from a past project into
// the form.
func (s *Session) ReuseProject(p *domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = report.FromProject(s.form, p)
}

// Generate drafts the report from every ready file and merges it under
// the form values. Unless force is set, missing required documents stop
// it with an *IncompleteError.
func (s *Session) Generate(ctx context.Context, force bool) (domain.ReportData, error) {
	if s.deps.Reporter == nil {
		return domain.ReportData{}, errors.New("report generation is not configured")
	}
	if missing := s.Missing(); len(missing) > 0 && !force {
		return domain.ReportData{}, &IncompleteError{Missing: checklist.Labels(missing)}
	}
	docs := s.documents()
	if len(docs) == 0 {
		return domain.ReportData{}, ErrNoFiles
	}

	s.mu.Lock()
	fee := s.fee
	s.mu.Unlock()

	draft, err := s.deps.Reporter.Generate(ctx, docs, fee)
	if err != nil {
		return domain.ReportData{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	merged := report.Merge(report.Default(), draft, s.form)
	s.report = &merged
	return report.Clone(merged), nil
}

// Report returns the working report, if one was generated or edited.
func (s *Session) Report() (domain.ReportData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return domain.ReportData{}, false
	}
	return report.Clone(*s.report), true
}

// Edit sets one report leaf. Editing before generation starts from a blank
// report carrying the form values.
func (s *Session) Edit(path report.Path, value string) (domain.ReportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedLocked() {
		return domain.ReportData{}, ErrClosed
	}
	next, err := report.Set(s.workingLocked(), path, value)
	if err != nil {
		return domain.ReportData{}, err
	}
	s.report = &next
	return report.Clone(next), nil
}

// Replace swaps the working report wholesale, for example with an edited
// export.
func (s *Session) Replace(r domain.ReportData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedLocked() {
		return ErrClosed
	}
	merged := report.Merge(report.Default(), &r, report.Overrides{})
	s.report = &merged
	return nil
}

// Submit creates the project from the working report and closes the
// session: the intake map and working report are discarded. Later
// mutations, including a Submit racing this one, fail with ErrClosed.
func (s *Session) Submit(ctx context.Context) (*domain.Project, error) {
	if s.deps.Projects == nil {
		return nil, errors.New("project store is not configured")
	}
	s.mu.Lock()
	if s.closedLocked() {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.submitting = true
	r, category := s.workingLocked(), s.category
	s.mu.Unlock()

	p, err := s.deps.Projects.CreateFromReport(ctx, &r, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return nil, err
	}
	s.project = p
	s.report = nil
	s.tracker.Discard()
	s.log.Info("session submitted", zap.String("project", p.ID))
	return p, nil
}

// Project returns the project created by Submit, or nil.
func (s *Session) Project() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

func (s *Session) closedLocked() bool {
	return s.project != nil || s.submitting
}

func (s *Session) workingLocked() domain.ReportData {
	if s.report != nil {
		return report.Clone(*s.report)
	}
	return report.Merge(report.Default(), nil, s.form)
}

func (s *Session) documents() []domain.Document {
	files := s.tracker.DoneFiles()
	docs := make([]domain.Document, len(files))
	for i, f := range files {
		docs[i] = domain.DocumentFromRecord(f)
	}
	return docs
}
