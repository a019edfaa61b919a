package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/assessor/internal/evaluation"
	appI18n "github.com/pavelanni/assessor/internal/i18n"
	"github.com/pavelanni/assessor/internal/metrics"
	"github.com/pavelanni/assessor/internal/model"
)

type feedbackRequest struct {
	UserID    string                   `json:"userId" validate:"required,notblank"`
	TestTitle string                   `json:"testTitle"`
	Questions []model.AnsweredQuestion `json:"questions" validate:"required,min=1,dive"`
}

type submissionAnswer struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

type submissionRequest struct {
	UserID    string             `json:"userId" validate:"required,notblank"`
	TestTitle string             `json:"testTitle"`
	Answers   []submissionAnswer `json:"answers" validate:"required,min=1,dive"`
}

// reportMeta identifies where a generated report was persisted. It is
// omitted when persistence failed.
type reportMeta struct {
	ReportID     string `json:"reportId"`
	SubmissionID string `json:"submissionId"`
}

func (h *Handler) handleFeedbackReport(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		h.validationError(w, r, appI18n.T(r.Context(), "InvalidJSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, describe(r.Context(), err))
		return
	}
	h.respondWithReport(w, r, "api", req.UserID, req.TestTitle, req.Questions)
}

func (h *Handler) handleSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.validationError(w, r, appI18n.T(r.Context(), "InvalidJSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, describe(r.Context(), err))
		return
	}

	questions := make([]model.AnsweredQuestion, 0, len(req.Answers))
	for _, a := range req.Answers {
		unknown := appI18n.Td(r.Context(), "UnknownQuestion", map[string]any{"ID": a.QuestionID})
		id, err := strconv.ParseInt(strings.TrimSpace(a.QuestionID), 10, 64)
		if err != nil {
			h.validationError(w, r, unknown)
			return
		}
		q, err := h.store.GetQuestion(id)
		if err != nil {
			h.internalError(w, r, "get question failed", err)
			return
		}
		if q == nil {
			h.validationError(w, r, unknown)
			return
		}
		questions = append(questions, q.ToAnswered(a.Answer))
	}
	h.respondWithReport(w, r, "submission", req.UserID, req.TestTitle, questions)
}

// respondWithReport grades the questions, attaches an optional summary,
// persists the result and writes it. Persistence failures are logged and
// do not fail the request.
func (h *Handler) respondWithReport(w http.ResponseWriter, r *http.Request, source, userID, testTitle string, questions []model.AnsweredQuestion) {
	ctx := r.Context()
	evals := evaluation.EvaluateAll(questions)
	report, err := evaluation.Aggregate(questions, evals,
		evaluation.WithLocalizer(appI18n.LocalizerFromContext(ctx)))
	if errors.Is(err, evaluation.ErrInvalidInput) {
		h.validationError(w, r, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, "aggregate report failed", err)
		return
	}
	report.UserID = userID
	metrics.ObserveReport(source, questions, evals, report)

	if h.llm != nil && h.config.SummaryEnabled {
		report.Summary = h.summarize(ctx, report)
	}

	var meta any
	sub, err := h.store.CreateSubmission(userID, testTitle, questions)
	if err != nil {
		slog.Error("save submission failed", "user_id", userID, "error", err)
	} else if stored, err := h.store.UpsertReport(sub.ID, testTitle, report); err != nil {
		slog.Error("save report failed", "user_id", userID, "submission_id", sub.ID, "error", err)
	} else {
		slog.Info("feedback report saved", "report_id", stored.ID, "user_id", userID,
			"accuracy", report.AccuracyPercent, "source", source)
		meta = reportMeta{ReportID: stored.ID, SubmissionID: sub.ID}
	}

	writeData(w, http.StatusOK, report, meta)
}

func (h *Handler) summarize(ctx context.Context, report model.FeedbackReport) string {
	ctx, cancel := context.WithTimeout(ctx, h.config.SummaryTimeout)
	defer cancel()

	start := time.Now()
	summary, err := h.llm.Summarize(ctx, report, appI18n.LanguageFromContext(ctx))
	metrics.ObserveSummary(start, err)
	if err != nil {
		slog.Warn("report summary failed", "user_id", report.UserID, "error", err)
		return ""
	}
	return summary
}

func (h *Handler) handleUserReports(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reports, err := h.store.ListReportsForUser(userID, h.config.ReportLimit)
	if err != nil {
		h.internalError(w, r, "list reports failed", err)
		return
	}
	if len(reports) == 0 {
		writeJSON(w, http.StatusNotFound, envelope{
			Message: appI18n.Td(r.Context(), "NoReportsForUser", map[string]any{"UserID": userID}),
		})
		return
	}
	writeData(w, http.StatusOK, reports, nil)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.GetReport(chi.URLParam(r, "reportID"))
	if err != nil {
		h.internalError(w, r, "get report failed", err)
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), appI18n.T(r.Context(), "ReportNotFound"))
		return
	}
	writeData(w, http.StatusOK, report, nil)
}

type testDataMeta struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) handleGetTestData(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	report, err := h.store.GetReport(reportID)
	if err != nil {
		h.internalError(w, r, "get report failed", err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, envelope{
			Message: appI18n.Td(r.Context(), "NoTestData", map[string]any{"ID": reportID}),
		})
		return
	}
	sub, err := h.store.GetSubmission(report.SubmissionID)
	if err != nil {
		h.internalError(w, r, "get submission failed", err)
		return
	}
	questions := []model.AnsweredQuestion{}
	if sub != nil && sub.Questions != nil {
		questions = sub.Questions
	}
	writeData(w, http.StatusOK, questions, testDataMeta{UserID: report.Report.UserID, CreatedAt: report.CreatedAt})
}
