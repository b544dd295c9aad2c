package service

import (
	"context"

	"github.com/suretydesk/suretydesk/internal/domain"
)

type ProjectService interface {
	// CreateFromReport files a submitted report as a new project in the
	// Reviewing state.
	CreateFromReport(ctx context.Context, r *domain.ReportData, category domain.BondCategory) (*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	History(ctx context.Context, id string) ([]*domain.OperationLog, error)
}

// ProjectEvents receives project counters. *metrics.Metrics implements it.
type ProjectEvents interface {
	ObserveProjectCreated(category domain.BondCategory)
	ObserveStatusChange(status domain.ProjectStatus)
}
