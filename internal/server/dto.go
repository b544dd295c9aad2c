package server

import (
	"time"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/reconcile"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/session"
)

type modeRequest struct {
	Category string `json:"category"`
	Mode     string `json:"mode"`
}

type formRequest struct {
	report.Overrides
	FeeDescription *string `json:"feeDescription,omitempty"`
}

type editRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type fileView struct {
	FileID       string `json:"fileId"`
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	MIMEType     string `json:"mimeType"`
	Status       string `json:"status"`
	Size         int    `json:"size"`
	Error        string `json:"error,omitempty"`
}

func toFileView(itemID string, f domain.FileRecord) fileView {
	return fileView{
		FileID:       f.FileID,
		ItemID:       itemID,
		Name:         f.Name(),
		OriginalName: f.OriginalName,
		MIMEType:     f.MIMEType,
		Status:       string(f.Status),
		Size:         len(f.Payload),
		Error:        f.Err,
	}
}

type formView struct {
	report.Overrides
	FeeDescription string `json:"feeDescription"`
}

type sessionView struct {
	ID        string                `json:"id"`
	Category  domain.BondCategory   `json:"category"`
	Mode      domain.CreditMode     `json:"mode"`
	Checklist domain.Checklist      `json:"checklist"`
	Files     map[string][]fileView `json:"files"`
	Missing   []string              `json:"missing"`
	Form      formView              `json:"form"`
	HasReport bool                  `json:"hasReport"`
	ProjectID string                `json:"projectId,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

func toSessionView(s *session.Session) sessionView {
	files := map[string][]fileView{}
	for itemID, recs := range s.Tracker().Snapshot() {
		views := make([]fileView, len(recs))
		for i, r := range recs {
			views[i] = toFileView(itemID, r)
		}
		files[itemID] = views
	}
	missing := []string{}
	for _, item := range s.Missing() {
		missing = append(missing, item.Label)
	}
	_, hasReport := s.Report()
	v := sessionView{
		ID:        s.ID,
		Category:  s.Category(),
		Mode:      s.Mode(),
		Checklist: s.Checklist(),
		Files:     files,
		Missing:   missing,
		Form:      formView{Overrides: s.Form(), FeeDescription: s.FeeDescription()},
		HasReport: hasReport,
		CreatedAt: s.CreatedAt,
	}
	if p := s.Project(); p != nil {
		v.ProjectID = p.ID
	}
	return v
}

type batchView struct {
	Filed      map[string][]fileView `json:"filed"`
	Reassigned int                   `json:"reassigned"`
	Unmatched  int                   `json:"unmatched"`
}

func toBatchView(res reconcile.Result) batchView {
	v := batchView{Filed: map[string][]fileView{}, Reassigned: res.Reassigned, Unmatched: res.Unmatched}
	for itemID, recs := range res.Filed {
		for _, r := range recs {
			v.Filed[itemID] = append(v.Filed[itemID], toFileView(itemID, r))
		}
	}
	return v
}

type projectView struct {
	ID            string             `json:"id"`
	DisplayID     string             `json:"displayId"`
	Name          string             `json:"name"`
	BondCategory  string             `json:"bondCategory"`
	CategoryLabel string             `json:"categoryLabel"`
	Status        string             `json:"status"`
	StatusLabel   string             `json:"statusLabel"`
	CustomerName  string             `json:"customerName"`
	Amount        float64            `json:"amount"`
	Report        *domain.ReportData `json:"report,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toProjectView(p *domain.Project, withReport bool) projectView {
	v := projectView{
		ID:            p.ID,
		DisplayID:     p.DisplayID(),
		Name:          p.Name,
		BondCategory:  string(p.BondCategory),
		CategoryLabel: p.BondCategory.Label(),
		Status:        string(p.Status),
		StatusLabel:   p.Status.Label(),
		CustomerName:  p.CustomerName,
		Amount:        p.Amount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if withReport {
		v.Report = p.Report
	}
	return v
}

type logView struct {
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
