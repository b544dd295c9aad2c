package repository

import (
	"context"
	"fmt"

	"github.com/suretydesk/suretydesk/internal/db"
	"github.com/suretydesk/suretydesk/internal/domain"
)

type SQLiteOperationLogRepo struct {
	db db.DBTX
}

func NewSQLiteOperationLogRepo(conn db.DBTX) *SQLiteOperationLogRepo {
	return &SQLiteOperationLogRepo{db: conn}
}

func (r *SQLiteOperationLogRepo) Insert(ctx context.Context, l *domain.OperationLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operation_logs (id, project_id, action, details, user, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.ProjectID, l.Action, l.Details, l.User, formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting operation log: %w", err)
	}
	return nil
}

// ListByProject returns the project's log entries oldest first.
func (r *SQLiteOperationLogRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.OperationLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, action, details, user, created_at
		FROM operation_logs WHERE project_id = ? ORDER BY created_at, rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing operation logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.OperationLog
	for rows.Next() {
		var l domain.OperationLog
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Action, &l.Details, &l.User, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning operation log: %w", err)
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operation logs: %w", err)
	}
	return logs, nil
}
