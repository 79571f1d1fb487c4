package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/synnbad/fixbot/internal/model"
	"github.com/synnbad/fixbot/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type scanResponse struct {
	ScanID  string `json:"scanId"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req model.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "URL must be absolute http or https")
		return
	}

	report, err := s.scanner.Scan(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("scan failed", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.reports.Save(report); err != nil {
		s.logger.Error("save report failed", "scanId", report.ScanID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist report")
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{ScanID: report.ScanID, Message: "Scan complete"})
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.reports.Summaries()
	if err != nil {
		s.logger.Error("list scans failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := r.PathValue("scanId")

	report, err := s.reports.Get(scanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		s.logger.Error("get scan failed", "scanId", scanID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ScanID == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "scanId and message are required")
		return
	}

	report, err := s.reports.Get(req.ScanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		s.logger.Error("load report failed", "scanId", req.ScanID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	// A configured backend that fails is fatal to the turn. The rule
	// engine answers only when no backend is configured at all.
	if s.assistant.Enabled() {
		resp, err := s.assistant.Chat(r.Context(), report, req.Message, nil)
		if err != nil {
			s.logger.Error("chat generation failed", "scanId", req.ScanID, "error", err)
			writeError(w, http.StatusInternalServerError, "generation failed")
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := s.engine.Respond(report, req.Message, req.UserProfile)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
