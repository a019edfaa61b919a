// Package evaluation grades answered questions and folds the results into a
// feedback report. All functions are deterministic and keep no state between
// calls, so they are safe for concurrent use.
package evaluation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/pavelanni/assessor/internal/codeanalysis"
	"github.com/pavelanni/assessor/internal/model"
	"github.com/pavelanni/assessor/internal/textsim"
)

// ErrInvalidInput is returned when a submission cannot be evaluated at all.
var ErrInvalidInput = errors.New("invalid input")

// Evaluate grades a single answered question.
//
// Questions of an unknown type are graded as zero with a warning; they never
// abort the surrounding batch.
func Evaluate(q model.AnsweredQuestion) model.QuestionEvaluation {
	marks := math.Max(q.Marks, 0)
	ev := model.QuestionEvaluation{MaxMarks: marks}

	switch q.Type.Normalize() {
	case model.TypeMCQ:
		correct := MCQMatches(q.UserAnswer, q.CorrectAnswer)
		if correct {
			ev.Score = 1
			ev.ObtainedMarks = marks
		}
		ev.AnalysisDetails.MCQ = &model.MCQAnalysis{
			IsCorrect:     correct,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
		}

	case model.TypeParagraph:
		score := textsim.AnalyzeParagraphAnswer(q.UserAnswer, q.CorrectAnswer)
		ev.Score = score
		ev.ObtainedMarks = math.Round(score * marks)
		ev.AnalysisDetails.Paragraph = &model.ParagraphAnalysis{
			SimilarityScore: score,
			VocabularyScore: textsim.VocabularyRichness(q.UserAnswer),
			KeywordScore:    textsim.KeywordOverlapScore(q.UserAnswer, q.CorrectAnswer),
		}

	case model.TypeCode:
		expected := q.ExpectedOutput
		if expected == "" {
			expected = q.CorrectAnswer
		}
		score := codeanalysis.AnalyzeCodeAnswer(q.UserAnswer, q.CorrectAnswer, expected)
		structure := codeanalysis.AnalyzeStructure(q.UserAnswer)
		issues := structure.Issues
		// Declared constructs are diagnostic only and do not change the score.
		if len(q.Keywords) > 0 && !codeanalysis.ContainsKeywords(q.UserAnswer, q.Keywords) {
			issues = append(issues, codeanalysis.IssueMissingConstructs)
		}
		ev.Score = score
		ev.ObtainedMarks = math.Round(score * marks)
		ev.AnalysisDetails.Code = &model.CodeAnalysis{
			CodeScore:      score,
			StructureScore: structure.Score,
			Issues:         issues,
		}

	default:
		slog.Warn("unknown question type, grading as zero",
			"type", string(q.Type), "question_id", q.QuestionID)
	}

	return ev
}

// EvaluateAll grades every question, preserving input order.
func EvaluateAll(questions []model.AnsweredQuestion) []model.QuestionEvaluation {
	evals := make([]model.QuestionEvaluation, len(questions))
	for i, q := range questions {
		evals[i] = Evaluate(q)
	}
	return evals
}

// EvaluateSubmission grades all questions of a user's submission and builds
// the feedback report. An empty question list yields ErrInvalidInput.
func EvaluateSubmission(userID string, questions []model.AnsweredQuestion, opts ...Option) (model.FeedbackReport, error) {
	if len(questions) == 0 {
		return model.FeedbackReport{}, fmt.Errorf("%w: questions array is required", ErrInvalidInput)
	}
	report, err := Aggregate(questions, EvaluateAll(questions), opts...)
	if err != nil {
		return model.FeedbackReport{}, err
	}
	report.UserID = userID
	return report, nil
}

// MCQMatches compares two options ignoring case and surrounding space.
// Empty options never match.
func MCQMatches(user, correct string) bool {
	u := strings.ToLower(strings.TrimSpace(user))
	c := strings.ToLower(strings.TrimSpace(correct))
	return u != "" && c != "" && u == c
}
