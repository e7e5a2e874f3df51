package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/analytics"
	"github.com/ccraze049/ai/internal/chat"
	"github.com/ccraze049/ai/internal/knowledge"
	"github.com/ccraze049/ai/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error("request failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

type queryRequest struct {
	Query   string       `json:"query"`
	Context chat.Context `json:"context"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required and must be a string")
		return
	}

	resp, err := s.engine.ProcessQuery(r.Context(), req.Query, req.Context)
	if err != nil {
		s.internalError(w, "query", err)
		return
	}
	s.record(req.Query, resp)
	writeJSON(w, http.StatusOK, resp)
}

// record is best-effort; a log write failure never fails the request.
func (s *Server) record(query string, resp chat.Response) {
	if s.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         time.Now().UTC(),
		SessionID:         resp.Context.SessionID,
		UserMessage:       query,
		AssistantResponse: resp.Answer,
		Language:          string(resp.Language.Language),
		Confidence:        string(resp.Confidence),
	}
	if err := s.recorder.AppendInteraction(ev); err != nil {
		s.log.Warn("failed to record interaction", zap.Error(err))
	}
}

type teachRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type teachConflict struct {
	Error   string                   `json:"error"`
	Similar []knowledge.SearchResult `json:"similar"`
}

func (s *Server) handleTeach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req teachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	out, err := s.learner.LearnNew(req.Question, req.Answer)
	if err != nil {
		s.internalError(w, "teach", err)
		return
	}
	if out.HasSimilar {
		writeJSON(w, http.StatusConflict, teachConflict{
			Error:   "a similar question already exists; use /api/knowledge/improve",
			Similar: out.Similar,
		})
		return
	}
	writeJSON(w, http.StatusCreated, out.Entry)
}

type improveRequest struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req improveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "id and answer are required")
		return
	}

	out, err := s.learner.Improve(req.ID, req.Answer)
	if err != nil {
		s.internalError(w, "improve", err)
		return
	}
	if out.NotFound {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, out.Entry)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n, err := s.base.Count()
	if err != nil {
		s.internalError(w, "count", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// handleDailyStats aggregates the interaction log for one calendar day
// (UTC). ?date=YYYY-MM-DD, default today.
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	if s.recorder == nil {
		writeError(w, http.StatusNotFound, "interaction recording is disabled")
		return
	}
	events, err := s.recorder.LoadInteractions()
	if err != nil {
		s.internalError(w, "stats", err)
		return
	}
	stats := analytics.AnalyzeDailyLogs(events, day)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(stats.Summary()))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n, err := s.base.Count()
	if err != nil && !errors.Is(err, knowledge.ErrNotFound) {
		s.internalError(w, "status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"entries": n,
	})
}
