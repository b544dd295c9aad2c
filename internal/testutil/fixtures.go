package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/suretydesk/suretydesk/internal/domain"
)

type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithCategory(c domain.BondCategory) ProjectOption {
	return func(p *domain.Project) {
		p.BondCategory = c
	}
}

func WithCustomer(name string) ProjectOption {
	return func(p *domain.Project) {
		p.CustomerName = name
	}
}

func WithAmount(a float64) ProjectOption {
	return func(p *domain.Project) {
		p.Amount = a
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t.UTC()
		p.UpdatedAt = t.UTC()
	}
}

func WithReport(r *domain.ReportData) ProjectOption {
	return func(p *domain.Project) {
		p.Report = r
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:           uuid.New().String(),
		Name:         name,
		BondCategory: domain.BondBid,
		Status:       domain.ProjectReviewing,
		CustomerName: "测试建设有限公司",
		Amount:       500000,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestLog(projectID, action string, at time.Time) *domain.OperationLog {
	return &domain.OperationLog{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Action:    action,
		CreatedAt: at.UTC(),
	}
}

// NewTestReport returns a report with the header fields filled in.
func NewTestReport(projectName, customer, amount string) *domain.ReportData {
	return &domain.ReportData{
		GuaranteeInfo: domain.GuaranteeInfo{ProjectName: projectName, Amount: amount},
		ClientInfo:    domain.ClientInfo{Name: customer},
		Signatures:    &domain.Signatures{},
	}
}
