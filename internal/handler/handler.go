package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	appI18n "github.com/pavelanni/assessor/internal/i18n"
	"github.com/pavelanni/assessor/internal/metrics"
	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/store"
)

const (
	defaultReportLimit    = 10
	defaultSummaryTimeout = 20 * time.Second
)

// Summarizer writes a narrative summary of a feedback report.
type Summarizer interface {
	Summarize(ctx context.Context, report model.FeedbackReport, lang string) (string, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	llm      Summarizer
	config   model.ServerConfig
	validate *validator.Validate
}

// New creates a new Handler. l may be nil, in which case reports carry no
// narrative summary.
func New(s *store.Store, l Summarizer, cfg model.ServerConfig) (*Handler, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if cfg.ReportLimit <= 0 {
		cfg.ReportLimit = defaultReportLimit
	}
	if cfg.SummaryTimeout <= 0 {
		cfg.SummaryTimeout = defaultSummaryTimeout
	}
	return &Handler{store: s, llm: l, config: cfg, validate: newValidator()}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/feedback-report", h.handleFeedbackReport)
		r.Get("/feedback-report/{userID}", h.handleUserReports)
		r.Get("/feedback-report/report/{reportID}", h.handleGetReport)
		r.Get("/feedback-report/report/{reportID}/test-data", h.handleGetTestData)
		r.Post("/submissions", h.handleSubmission)
		r.Post("/attempts/analyze", h.handleAnalyzeAttempt)
		r.Get("/questions", h.handleListQuestions)
		r.Get("/questions/{questionID}", h.handleGetQuestion)
	})
}

// envelope is the JSON body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data, meta any) {
	writeJSON(w, status, envelope{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, envelope{Error: kind, Message: message})
}

func (h *Handler) validationError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, http.StatusBadRequest, appI18n.T(r.Context(), "ValidationError"), message)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "error", err)
	text := appI18n.T(r.Context(), "InternalError")
	writeError(w, http.StatusInternalServerError, text, text)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.QuestionCount()
	if err != nil {
		h.internalError(w, r, "health check failed", err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"status": "ok", "questions": count}, nil)
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	questions, err := h.store.ListQuestionsFiltered(q.Get("topic"), q.Get("difficulty"), q.Get("type"))
	if err != nil {
		h.internalError(w, r, "list questions failed", err)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	writeData(w, http.StatusOK, questions, map[string]int{"count": len(questions)})
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "questionID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.validationError(w, r, appI18n.Td(r.Context(), "UnknownQuestion", map[string]any{"ID": raw}))
		return
	}
	q, err := h.store.GetQuestion(id)
	if err != nil {
		h.internalError(w, r, "get question failed", err)
		return
	}
	if q == nil {
		writeJSON(w, http.StatusNotFound, envelope{Message: appI18n.Td(r.Context(), "UnknownQuestion", map[string]any{"ID": raw})})
		return
	}
	writeData(w, http.StatusOK, q, nil)
}
