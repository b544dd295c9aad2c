package domain

import (
	"fmt"
	"time"
)

// Project is the durable record left behind once an intake session is
// submitted. Only Status and UpdatedAt change after creation.
type Project struct {
	ID           string
	Name         string
	BondCategory BondCategory
	Status       ProjectStatus
	CustomerName string
	Amount       float64
	// Report is the submitted review report. Nil when the store kept no
	// snapshot.
	Report       *ReportData
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanTransition reports whether a project may move from one status to
// another. Officers may reassign any status manually, so every pair of valid
// statuses is allowed, including a no-op reassignment.
func CanTransition(from, to ProjectStatus) bool {
	return from.Valid() && to.Valid()
}

// ValidateTransition is CanTransition with a descriptive error.
func ValidateTransition(from, to ProjectStatus) error {
	if !to.Valid() {
		return fmt.Errorf("invalid target status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot move project from %q to %q", from, to)
	}
	return nil
}

// DisplayID returns the first 8 characters of the project id.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// OperationLog is an audit entry written alongside project mutations.
type OperationLog struct {
	ID        string
	ProjectID string
	Action    string
	Details   string
	User      string
	CreatedAt time.Time
}

const (
	ActionProjectCreated = "project_created"
	ActionStatusChanged  = "status_changed"
)
