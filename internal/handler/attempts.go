package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pavelanni/assessor/internal/attempt"
	appI18n "github.com/pavelanni/assessor/internal/i18n"
)

type attemptResult struct {
	Analysis attempt.Analysis `json:"analysis"`
	Feedback attempt.Report   `json:"feedback"`
}

func (h *Handler) handleAnalyzeAttempt(w http.ResponseWriter, r *http.Request) {
	var a attempt.Attempt
	if err := decodeJSON(r, &a); err != nil {
		h.validationError(w, r, appI18n.T(r.Context(), "InvalidJSON"))
		return
	}
	if err := h.validate.Struct(a); err != nil {
		h.validationError(w, r, describe(r.Context(), err))
		return
	}

	// Responses to unknown questions are ignored, as Analyze does.
	seen := make(map[int64]bool, len(a.Responses))
	var questions []attempt.Question
	for _, resp := range a.Responses {
		id, err := strconv.ParseInt(strings.TrimSpace(resp.QuestionID), 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		q, err := h.store.GetQuestion(id)
		if err != nil {
			h.internalError(w, r, "get question failed", err)
			return
		}
		if q != nil {
			questions = append(questions, attempt.FromBank(*q))
		}
	}

	loc := appI18n.LocalizerFromContext(r.Context())
	analysis := attempt.Analyze(questions, a, loc)
	feedback := attempt.Feedback(analysis, loc)
	writeData(w, http.StatusOK, attemptResult{Analysis: analysis, Feedback: feedback}, nil)
}
