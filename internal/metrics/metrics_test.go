package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/assessor/internal/model"
)

func TestObserveReport(t *testing.T) {
	mcqBefore := testutil.ToFloat64(questionsEvaluated.WithLabelValues("mcq"))
	unknownBefore := testutil.ToFloat64(questionsEvaluated.WithLabelValues("unknown"))
	subBefore := testutil.ToFloat64(reportsGenerated.WithLabelValues("submission"))

	questions := []model.AnsweredQuestion{
		{QuestionID: "1", Type: "MCQ"},
		{QuestionID: "2", Type: "essay"},
	}
	evals := []model.QuestionEvaluation{{Score: 1}, {Score: 0}}
	ObserveReport("submission", questions, evals, model.FeedbackReport{AccuracyPercent: 50})

	assert.Equal(t, mcqBefore+1, testutil.ToFloat64(questionsEvaluated.WithLabelValues("mcq")))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(questionsEvaluated.WithLabelValues("unknown")))
	assert.Equal(t, subBefore+1, testutil.ToFloat64(reportsGenerated.WithLabelValues("submission")))
}

func TestObserveReportCodeIssues(t *testing.T) {
	braces := testutil.ToFloat64(codeIssues.WithLabelValues("Mismatched braces"))
	missing := testutil.ToFloat64(codeIssues.WithLabelValues("Missing required constructs"))

	questions := []model.AnsweredQuestion{{QuestionID: "1", Type: model.TypeCode}}
	evals := []model.QuestionEvaluation{{
		Score: 0.4,
		AnalysisDetails: model.AnalysisDetails{Code: &model.CodeAnalysis{
			Issues: []string{"Mismatched braces", "Missing required constructs"},
		}},
	}}
	ObserveReport("api", questions, evals, model.FeedbackReport{})

	assert.Equal(t, braces+1, testutil.ToFloat64(codeIssues.WithLabelValues("Mismatched braces")))
	assert.Equal(t, missing+1, testutil.ToFloat64(codeIssues.WithLabelValues("Missing required constructs")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveSummary(time.Now(), errors.New("boom"))
	ObserveReport("api", nil, nil, model.FeedbackReport{})

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "assessor_reports_generated_total")
	assert.Contains(t, body, `assessor_summary_duration_seconds_count{status="error"}`)
}
