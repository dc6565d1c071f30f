package api

import (
	"io"
	"net/http"
	"strconv"

	reportCommands "github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
)

type requestReportRequest struct {
	ReportType string         `json:"report_type"`
	Filters    map[string]any `json:"filters"`
}

// requestReport handles POST /api/v1/projects/{id}/reports. Generation runs
// asynchronously; poll the status route.
func (s *Server) requestReport(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req requestReportRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	actor := actorID(r)
	result, err := s.app.RequestReport.Handle(r.Context(), reportCommands.RequestReportCommand{
		ProjectID:  projectID,
		ReportType: req.ReportType,
		CreatedBy:  &actor,
		Filters:    req.Filters,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, result.Report)
}

// getReport handles GET /api/v1/reports/{id}
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	report, err := s.app.Reports.GetReport(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// reportStatus handles GET /api/v1/reports/{id}/status
func (s *Server) reportStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	status, err := s.app.Reports.GetReportStatus(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// downloadReport handles GET /api/v1/reports/{id}/download
func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	download, err := s.app.Reports.DownloadReport(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer download.Body.Close()
	streamAttachment(w, r, s, download.Name, download.ContentType, -1, download.Body)
}

// streamAttachment copies body to the client as a download.
func streamAttachment(w http.ResponseWriter, r *http.Request, s *Server, name, contentType string, size int64, body io.Reader) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.WarnContext(r.Context(), "download interrupted", "file", name, "error", err)
	}
}
