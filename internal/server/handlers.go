package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/checklist"
	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/importer"
	"github.com/suretydesk/suretydesk/internal/intake"
	"github.com/suretydesk/suretydesk/internal/logging"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/service"
	"github.com/suretydesk/suretydesk/internal/session"
)

type handler struct {
	sessions  *session.Manager
	projects  service.ProjectService
	maxUpload int64
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func parseMode(req modeRequest) (domain.BondCategory, domain.CreditMode, error) {
	category, err := domain.ParseBondCategory(req.Category)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	mode, err := domain.ParseCreditMode(req.Mode)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return category, mode, nil
}

func (h *handler) session(r *http.Request) (*session.Session, error) {
	return h.sessions.Get(chi.URLParam(r, "session"))
}

func (h *handler) getChecklist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, mode, err := parseMode(modeRequest{Category: q.Get("category"), Mode: q.Get("mode")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checklist.Generate(category, mode))
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	category, mode, err := parseMode(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.sessions.Create(category, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("session created",
		zap.String("session", s.ID), zap.String("category", string(category)))
	writeJSON(w, http.StatusCreated, toSessionView(s))
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(s))
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session(r); err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.Delete(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) selectMode(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req modeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	category, mode, err := parseMode(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.SelectMode(category, mode); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(s))
}

// readUploads loads every multipart "file" part into memory. The parts'
// temp files do not outlive the request.
func (h *handler) readUploads(w http.ResponseWriter, r *http.Request) ([]intake.Source, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["file"]
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no file parts", errBadRequest)
	}
	sources := make([]intake.Source, 0, len(parts))
	for _, fh := range parts {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		sources = append(sources, &intake.BytesSource{
			FileName: fh.Filename,
			Mime:     fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return sources, nil
}

func (h *handler) uploadFiles(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID := chi.URLParam(r, "item")
	sources, err := h.readUploads(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]fileView, 0, len(sources))
	for _, src := range sources {
		rec, err := s.Upload(itemID, src)
		if err != nil {
			writeError(w, r, err)
			return
		}
		views = append(views, toFileView(itemID, rec))
	}
	writeJSON(w, http.StatusAccepted, views)
}

func (h *handler) removeFile(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.Remove(chi.URLParam(r, "item"), chi.URLParam(r, "file"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) classifyBatch(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sources, err := h.readUploads(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.BatchUpload(r.Context(), sources)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchView(res))
}

func (h *handler) updateForm(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req formRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.SetForm(req.Overrides)
	if req.FeeDescription != nil {
		s.SetFeeDescription(*req.FeeDescription)
	}
	writeJSON(w, http.StatusOK, formView{Overrides: s.Form(), FeeDescription: s.FeeDescription()})
}

func (h *handler) smartFill(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	form, err := s.SmartFill(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formView{Overrides: form, FeeDescription: s.FeeDescription()})
}

func (h *handler) reuseProject(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.ReuseProject(p)
	writeJSON(w, http.StatusOK, formView{Overrides: s.Form(), FeeDescription: s.FeeDescription()})
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	rep, err := s.Generate(r.Context(), force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, ok := s.Report()
	if !ok {
		rep = report.Merge(report.Default(), nil, s.Form())
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) editReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	path, err := report.ParsePath(req.Path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := s.Edit(path, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// replaceReport swaps the working report for an uploaded one, sent either
// as the JSON document or as export CSV.
func (h *handler) replaceReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var rep domain.ReportData
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		rep, err = importer.ParseCSV(http.MaxBytesReader(w, r.Body, h.maxUpload))
	} else {
		var data []byte
		data, err = io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
		if err == nil {
			rep, err = importer.ParseJSON(data)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Replace(rep); err != nil {
		writeError(w, r, err)
		return
	}
	rep, _ = s.Report()
	writeJSON(w, http.StatusOK, rep)
}

func (h *handler) exportReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, ok := s.Report()
	if !ok {
		rep = report.Merge(report.Default(), nil, s.Form())
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	if err := report.WriteCSV(w, rep); err != nil {
		logging.FromContext(r.Context()).Error("csv export failed", zap.Error(err))
	}
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.Submit(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.Delete(s.ID)
	writeJSON(w, http.StatusCreated, toProjectView(p, false))
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]projectView, len(projects))
	for i, p := range projects {
		views[i] = toProjectView(p, false)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, true))
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := domain.ParseProjectStatus(req.Status)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	id := chi.URLParam(r, "project")
	if err := h.projects.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, false))
}

func (h *handler) projectLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.projects.History(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]logView, len(logs))
	for i, l := range logs {
		views[i] = logView{Action: l.Action, Details: l.Details, User: l.User, CreatedAt: l.CreatedAt}
	}
	writeJSON(w, http.StatusOK, views)
}
