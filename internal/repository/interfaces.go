package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// ErrNotFound is returned when a lookup or update matches no record.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns every project, newest first.
	List(ctx context.Context) ([]*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus, at time.Time) error
}

type OperationLogRepo interface {
	Insert(ctx context.Context, l *domain.OperationLog) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.OperationLog, error)
}

// Store hands out repositories for one backend. WithinTx gives fn
// repositories whose writes commit together or not at all.
type Store interface {
	Projects() ProjectRepo
	Logs() OperationLogRepo
	WithinTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo, logs OperationLogRepo) error) error
}
