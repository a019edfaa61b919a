// Package metrics exposes Prometheus instrumentation for grading and
// report generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pavelanni/assessor/internal/model"
)

var (
	// questionsEvaluated counts graded questions.
	// Labels: type (mcq, paragraph, code, unknown)
	questionsEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assessor",
		Subsystem: "evaluation",
		Name:      "questions_total",
		Help:      "Total questions graded by type",
	}, []string{"type"})

	// questionScore tracks the distribution of normalized question scores.
	// Labels: type
	questionScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assessor",
		Subsystem: "evaluation",
		Name:      "question_score",
		Help:      "Distribution of normalized question scores",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"type"})

	// codeIssues counts diagnostics raised on code answers.
	// Labels: issue
	codeIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assessor",
		Subsystem: "evaluation",
		Name:      "code_issues_total",
		Help:      "Total issues found in code answers",
	}, []string{"issue"})

	// reportsGenerated counts feedback reports.
	// Labels: source (api, submission)
	reportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assessor",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Total feedback reports generated",
	}, []string{"source"})

	// reportAccuracy tracks overall accuracy of generated reports.
	reportAccuracy = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "assessor",
		Subsystem: "reports",
		Name:      "accuracy_percent",
		Help:      "Distribution of overall report accuracy",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})

	// summaryDuration measures LLM summary latency.
	// Labels: status (success, error)
	summaryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assessor",
		Subsystem: "summary",
		Name:      "duration_seconds",
		Help:      "LLM summary latency in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"status"})
)

// ObserveReport records one generated report and its per-question scores.
// questions and evals are parallel slices.
func ObserveReport(source string, questions []model.AnsweredQuestion, evals []model.QuestionEvaluation, report model.FeedbackReport) {
	for i, q := range questions {
		label := string(q.Type.Normalize())
		if !q.Type.Known() {
			label = "unknown"
		}
		questionsEvaluated.WithLabelValues(label).Inc()
		if i >= len(evals) {
			continue
		}
		questionScore.WithLabelValues(label).Observe(evals[i].Score)
		if code := evals[i].AnalysisDetails.Code; code != nil {
			for _, issue := range code.Issues {
				codeIssues.WithLabelValues(issue).Inc()
			}
		}
	}
	reportsGenerated.WithLabelValues(source).Inc()
	reportAccuracy.Observe(report.AccuracyPercent)
}

// ObserveSummary records the latency and outcome of one summary request.
func ObserveSummary(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	summaryDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
