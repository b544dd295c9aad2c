// Package reconcile files a batch of uploads into checklist buckets using
// one call to an external classifier.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/intake"
)

// ErrBatchFailed is returned when any read or the classifier call fails.
// The tracker is left untouched.
var ErrBatchFailed = errors.New("classification batch failed")

// Classifier suggests a checklist item for each document, positionally.
type Classifier interface {
	Classify(ctx context.Context, docs []domain.Document, items []domain.ItemDescriptor) ([]domain.Classification, error)
}

// Filer receives the reconciled records.
type Filer interface {
	AppendBatch(batch map[string][]domain.FileRecord)
}

// ProgressFunc is called after each payload read with (done, total).
type ProgressFunc func(done, total int)

// Result summarizes one reconciled batch.
type Result struct {
	Filed      map[string][]domain.FileRecord
	Reassigned int // results whose category id was not in the checklist
	Unmatched  int // files the classifier returned no entry for
}

type Reconciler struct {
	classifier Classifier
	log        *zap.Logger
	progress   ProgressFunc
	readLimit  int
}

type Option func(*Reconciler)

func WithProgress(fn ProgressFunc) Option {
	return func(r *Reconciler) { r.progress = fn }
}

// WithReadLimit bounds concurrent payload reads. Zero means unbounded.
func WithReadLimit(n int) Option {
	return func(r *Reconciler) { r.readLimit = n }
}

func New(c Classifier, log *zap.Logger, opts ...Option) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reconciler{classifier: c, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClassifyAndFile reads every source, classifies the batch and appends the
// resulting DONE records to filer in one step.
func (r *Reconciler) ClassifyAndFile(ctx context.Context, sources []intake.Source, cl domain.Checklist, filer Filer) (Result, error) {
	if len(sources) == 0 {
		return Result{Filed: map[string][]domain.FileRecord{}}, nil
	}

	docs, err := r.readAll(ctx, sources)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBatchFailed, err)
	}

	start := time.Now()
	results, err := r.classifier.Classify(ctx, docs, cl.Descriptors())
	if err != nil {
		r.log.Warn("classifier failed", zap.Int("files", len(docs)), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrBatchFailed, err)
	}
	r.log.Info("batch classified",
		zap.Int("files", len(docs)),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)))

	res := Assign(docs, results, cl)
	if filer != nil {
		filer.AppendBatch(res.Filed)
	}
	return res, nil
}

func (r *Reconciler) readAll(ctx context.Context, sources []intake.Source) ([]domain.Document, error) {
	docs := make([]domain.Document, len(sources))
	var done atomic.Int32
	total := len(sources)

	g, gctx := errgroup.WithContext(ctx)
	if r.readLimit > 0 {
		g.SetLimit(r.readLimit)
	}
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := intake.ReadAll(src)
			if err != nil {
				return fmt.Errorf("read %s: %w", src.Name(), err)
			}
			docs[i] = domain.Document{
				Name:     src.Name(),
				MIMEType: domain.FirstNonEmpty(src.MIMEType(), domain.DefaultMIMEType),
				Data:     data,
			}
			n := int(done.Add(1))
			if r.progress != nil {
				r.progress(n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Assign maps positional classifier results onto documents. Unknown ids go
// to the catch-all bucket, surplus results are ignored and documents with no
// result fall back to the catch-all under their original name.
func Assign(docs []domain.Document, results []domain.Classification, cl domain.Checklist) Result {
	res := Result{Filed: map[string][]domain.FileRecord{}}
	now := time.Now().UTC()

	for i, doc := range docs {
		target := domain.CatchAllItemID
		name := doc.Name
		if i < len(results) {
			c := results[i]
			if cl.Has(c.CategoryID) {
				target = c.CategoryID
			} else {
				res.Reassigned++
			}
			name = domain.FirstNonEmpty(c.SuggestedName, doc.Name)
		} else {
			res.Unmatched++
		}

		res.Filed[target] = append(res.Filed[target], domain.FileRecord{
			FileID:       uuid.New().String(),
			OriginalName: doc.Name,
			DisplayName:  name,
			MIMEType:     doc.MIMEType,
			Status:       domain.FileDone,
			Payload:      doc.Data,
			AddedAt:      now,
		})
	}
	return res
}
