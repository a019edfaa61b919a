package evaluation

import (
	"fmt"
	"math"

	"github.com/pavelanni/assessor/internal/model"
)

const (
	// CorrectScoreThreshold is the per-question score counted as a correct answer.
	CorrectScoreThreshold = 0.7
	// StrengthAccuracy is the topic accuracy (percent) at which a topic is a strength.
	StrengthAccuracy = 70.0
)

type topicStats struct {
	totalQuestions int
	correctAnswers int
	totalMarks     float64
	obtainedMarks  float64
}

// Aggregate folds per-question evaluations into a feedback report. The
// evaluations must correspond to questions index by index. UserID is left
// empty for the caller to fill in.
func Aggregate(questions []model.AnsweredQuestion, evals []model.QuestionEvaluation, opts ...Option) (model.FeedbackReport, error) {
	if len(questions) == 0 {
		return model.FeedbackReport{}, fmt.Errorf("%w: no questions to aggregate", ErrInvalidInput)
	}
	if len(questions) != len(evals) {
		return model.FeedbackReport{}, fmt.Errorf("%w: %d questions but %d evaluations",
			ErrInvalidInput, len(questions), len(evals))
	}
	o := buildOptions(opts)

	var totalMarks, totalScore float64
	for _, ev := range evals {
		totalMarks += ev.MaxMarks
		totalScore += ev.ObtainedMarks
	}
	accuracy := percent(totalScore, totalMarks)

	breakdown := topicBreakdown(questions, evals)

	strengths := []string{}
	weaknesses := []string{}
	var weakTopics []string
	for _, tb := range breakdown {
		line := o.render(MsgTopicAccuracy, map[string]any{
			"Topic":    tb.Topic,
			"Accuracy": fmt.Sprintf("%.1f", tb.Accuracy),
		})
		if tb.Status == model.StatusStrength {
			strengths = append(strengths, line)
		} else {
			weaknesses = append(weaknesses, line)
			weakTopics = append(weakTopics, tb.Topic)
		}
	}

	paragraph := byType(questions, evals, model.TypeParagraph)
	code := byType(questions, evals, model.TypeCode)

	f := facts{
		weakTopics:    weakTopics,
		hasParagraph:  len(paragraph) > 0,
		paragraphMean: mean(paragraph, func(ev model.QuestionEvaluation) float64 { return ev.Score }),
		hasCode:       len(code) > 0,
		codeMean:      mean(code, func(ev model.QuestionEvaluation) float64 { return ev.Score }),
		accuracy:      accuracy,
	}
	recommendations := []string{}
	for _, a := range recommend(f) {
		recommendations = append(recommendations, o.render(a.msg, a.data))
	}

	return model.FeedbackReport{
		TotalScore:         round2(totalScore),
		TotalMarks:         totalMarks,
		AccuracyPercent:    round2(accuracy),
		TopicWiseBreakdown: breakdown,
		Strengths:          strengths,
		Weaknesses:         weaknesses,
		Recommendations:    recommendations,
		CommunicationScore: scaledMean(paragraph, func(ev model.QuestionEvaluation) float64 {
			if ev.AnalysisDetails.Paragraph == nil {
				return 0
			}
			return ev.AnalysisDetails.Paragraph.VocabularyScore
		}),
		CodeQualityScore: scaledMean(code, func(ev model.QuestionEvaluation) float64 {
			if ev.AnalysisDetails.Code == nil {
				return 0
			}
			return ev.AnalysisDetails.Code.StructureScore
		}),
	}, nil
}

// topicBreakdown groups evaluations by topic in first-seen order. Topics are
// compared verbatim; only an empty topic maps to DefaultTopic.
func topicBreakdown(questions []model.AnsweredQuestion, evals []model.QuestionEvaluation) []model.TopicBreakdown {
	stats := make(map[string]*topicStats)
	var order []string
	for i, q := range questions {
		topic := q.Topic
		if topic == "" {
			topic = model.DefaultTopic
		}
		st, ok := stats[topic]
		if !ok {
			st = &topicStats{}
			stats[topic] = st
			order = append(order, topic)
		}
		ev := evals[i]
		st.totalQuestions++
		st.totalMarks += ev.MaxMarks
		st.obtainedMarks += ev.ObtainedMarks
		if ev.Score >= CorrectScoreThreshold {
			st.correctAnswers++
		}
	}

	out := make([]model.TopicBreakdown, 0, len(order))
	for _, topic := range order {
		st := stats[topic]
		acc := round2(percent(st.obtainedMarks, st.totalMarks))
		status := model.StatusWeakness
		if acc >= StrengthAccuracy {
			status = model.StatusStrength
		}
		out = append(out, model.TopicBreakdown{
			Topic:          topic,
			Accuracy:       acc,
			TotalQuestions: st.totalQuestions,
			CorrectAnswers: st.correctAnswers,
			Status:         status,
		})
	}
	return out
}

// byType selects the evaluations whose question has type t.
func byType(questions []model.AnsweredQuestion, evals []model.QuestionEvaluation, t model.QuestionType) []model.QuestionEvaluation {
	var out []model.QuestionEvaluation
	for i, q := range questions {
		if q.Type.Normalize() == t {
			out = append(out, evals[i])
		}
	}
	return out
}

func mean(evals []model.QuestionEvaluation, value func(model.QuestionEvaluation) float64) float64 {
	if len(evals) == 0 {
		return 0
	}
	var sum float64
	for _, ev := range evals {
		sum += value(ev)
	}
	return sum / float64(len(evals))
}

// scaledMean returns round(mean × 100), or nil when evals is empty.
func scaledMean(evals []model.QuestionEvaluation, value func(model.QuestionEvaluation) float64) *int {
	if len(evals) == 0 {
		return nil
	}
	v := int(math.Round(mean(evals, value) * 100))
	return &v
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
