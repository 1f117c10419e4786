package rest

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dotcommander/innerscope/internal/profile"
	"github.com/dotcommander/innerscope/internal/service"
	"github.com/dotcommander/innerscope/internal/source"
)

// MaxBodyBytes bounds uploaded profile documents.
const MaxBodyBytes = 4 << 20

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Generate handles POST /v1/reports
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "profile document too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	res, err := h.reportSvc.ForDocument(r.Context(), body, requestEncoding(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeResult(w, res)
}

// ForUser handles GET /v1/users/{userId}/report
func (h *ReportHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	res, err := h.reportSvc.ForUser(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeResult(w, res)
}

func (h *ReportHandler) fail(w http.ResponseWriter, err error) {
	var invalid *service.InvalidProfileError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid profile",
			"issues": issueMessages(invalid),
		})
	case errors.Is(err, source.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, source.ErrNoSource):
		writeError(w, http.StatusNotImplemented, "no profile source configured")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func issueMessages(invalid *service.InvalidProfileError) []string {
	out := make([]string, 0, len(invalid.Issues))
	for _, issue := range invalid.Issues {
		out = append(out, issue.String())
	}
	return out
}

// requestEncoding treats YAML content types as YAML and everything else as JSON.
func requestEncoding(r *http.Request) profile.Encoding {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return profile.EncodingYAML
	}
	return profile.EncodingJSON
}

func writeResult(w http.ResponseWriter, res *service.Result) {
	cacheStatus := "miss"
	if res.Cached {
		cacheStatus = "hit"
	}
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Validation-Warnings", strconv.Itoa(len(res.Warnings)))
	writeJSON(w, http.StatusOK, res.Report)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
