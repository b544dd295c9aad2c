package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

const (
	defaultProjectName  = "未命名项目"
	defaultCustomerName = "未知客户"
)

type projectService struct {
	store    repository.Store
	observer UseCaseObserver
	events   ProjectEvents
	user     string
	now      func() time.Time
}

type Option func(*projectService)

func WithObserver(obs UseCaseObserver) Option {
	return func(s *projectService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func WithEvents(ev ProjectEvents) Option {
	return func(s *projectService) { s.events = ev }
}

// WithUser sets the operator recorded on operation logs.
func WithUser(user string) Option {
	return func(s *projectService) { s.user = user }
}

func WithClock(now func() time.Time) Option {
	return func(s *projectService) { s.now = now }
}

func NewProjectService(store repository.Store, opts ...Option) ProjectService {
	s := &projectService{
		store:    store,
		observer: NoopUseCaseObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *projectService) CreateFromReport(ctx context.Context, r *domain.ReportData, category domain.BondCategory) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "project.create_from_report", time.Now(),
		map[string]any{"category": string(category)}, &err)

	if r == nil {
		return nil, errors.New("report is required")
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown bond category %q", category)
	}

	snapshot := report.Clone(*r)
	now := s.now()
	p = &domain.Project{
		ID:           uuid.New().String(),
		Name:         domain.FirstNonEmpty(strings.TrimSpace(r.GuaranteeInfo.ProjectName), defaultProjectName),
		BondCategory: category,
		Status:       domain.ProjectReviewing,
		CustomerName: domain.FirstNonEmpty(strings.TrimSpace(r.ClientInfo.Name), defaultCustomerName),
		Amount:       report.ParseAmount(r.GuaranteeInfo.Amount),
		Report:       &snapshot,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, projects repository.ProjectRepo, logs repository.OperationLogRepo) error {
		if err := projects.Create(ctx, p); err != nil {
			return err
		}
		return logs.Insert(ctx, &domain.OperationLog{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			Action:    domain.ActionProjectCreated,
			Details:   fmt.Sprintf("%s · %s", category.Label(), p.Name),
			User:      s.user,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	if s.events != nil {
		s.events.ObserveProjectCreated(category)
	}
	return p, nil
}

func (s *projectService) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (err error) {
	defer observe(ctx, s.observer, "project.update_status", time.Now(),
		map[string]any{"project_id": id, "status": string(status)}, &err)

	now := s.now()
	err = s.store.WithinTx(ctx, func(ctx context.Context, projects repository.ProjectRepo, logs repository.OperationLogRepo) error {
		current, err := projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.ValidateTransition(current.Status, status); err != nil {
			return err
		}
		if err := projects.UpdateStatus(ctx, id, status, now); err != nil {
			return err
		}
		return logs.Insert(ctx, &domain.OperationLog{
			ID:        uuid.New().String(),
			ProjectID: id,
			Action:    domain.ActionStatusChanged,
			Details:   fmt.Sprintf("%s -> %s", current.Status, status),
			User:      s.user,
			CreatedAt: now,
		})
	})
	if err != nil {
		return mapNotFound(err)
	}
	if s.events != nil {
		s.events.ObserveStatusChange(status)
	}
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.store.Projects().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.store.Projects().List(ctx)
}

func (s *projectService) History(ctx context.Context, id string) ([]*domain.OperationLog, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Logs().ListByProject(ctx, id)
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrProjectNotFound, err)
	}
	return err
}
