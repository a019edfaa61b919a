// Package attempt analyzes timed multiple-choice attempts: accuracy by topic
// and difficulty, answer speed, and behavioral patterns such as fast wrong
// answers.
package attempt

import (
	"math"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pavelanni/assessor/internal/evaluation"
	"github.com/pavelanni/assessor/internal/model"
)

// Speed thresholds relative to the average time per question.
const (
	FastFactor = 0.6
	SlowFactor = 1.4
)

// Question is the part of a bank question needed for attempt analysis.
type Question struct {
	ID            string           `json:"id"`
	Topic         string           `json:"topic"`
	Difficulty    model.Difficulty `json:"difficulty"`
	CorrectAnswer string           `json:"correctAnswer"`
	Marks         float64          `json:"marks"`
}

// FromBank converts a bank question.
func FromBank(q model.Question) Question {
	return Question{
		ID:            q.Key(),
		Topic:         q.Topic,
		Difficulty:    q.Difficulty,
		CorrectAnswer: q.CorrectAnswer,
		Marks:         q.Marks,
	}
}

// Response is one answer in an attempt. A nil SelectedOption means the
// question was left unattempted.
type Response struct {
	QuestionID     string  `json:"questionId" validate:"required"`
	SelectedOption *string `json:"selectedOption"`
	TimeTaken      float64 `json:"timeTaken" validate:"gte=0"`
}

// Attempt is a user's set of responses to a test.
type Attempt struct {
	UserID    string     `json:"userId" validate:"required"`
	Responses []Response `json:"responses" validate:"required,min=1,dive"`
}

// Summary holds overall attempt statistics.
type Summary struct {
	TotalQuestions     int     `json:"totalQuestions"`
	Attempted          int     `json:"attempted"`
	Correct            int     `json:"correct"`
	Wrong              int     `json:"wrong"`
	Unattempted        int     `json:"unattempted"`
	Score              float64 `json:"score"`
	TotalMarks         float64 `json:"totalMarks"`
	AccuracyPercentage int     `json:"accuracyPercentage"`
	AvgTimePerQuestion int     `json:"avgTimePerQuestion"`
}

// Accuracy counts correct answers within a group.
type Accuracy struct {
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Accuracy int    `json:"accuracy"`
}

// Speed describes the thresholds used to classify answers as fast or slow.
type Speed struct {
	AvgTime       int     `json:"avgTime"`
	FastThreshold float64 `json:"fastThreshold"`
	SlowThreshold float64 `json:"slowThreshold"`
	FastAttempts  int     `json:"fastAttempts"`
	SlowAttempts  int     `json:"slowAttempts"`
}

var (
	msgFastCorrectMeaning = &goi18n.Message{ID: "BehaviorFastCorrect", Other: "Answered correctly very quickly, indicating strong intuition or possible guessing."}
	msgSlowCorrectMeaning = &goi18n.Message{ID: "BehaviorSlowCorrect", Other: "Answered correctly but took more time, showing conceptual clarity with slower recall."}
	msgFastWrongMeaning   = &goi18n.Message{ID: "BehaviorFastWrong", Other: "Answered incorrectly very quickly, suggesting impulsive or careless mistakes."}
	msgSlowWrongMeaning   = &goi18n.Message{ID: "BehaviorSlowWrong", Other: "Spent time but still answered incorrectly, indicating conceptual gaps."}
)

// Behavior is one behavioral bucket.
type Behavior struct {
	Count          int    `json:"count"`
	Percentage     int    `json:"percentage"`
	Interpretation string `json:"interpretation"`
}

// Behavioral groups attempted answers by speed and correctness.
type Behavioral struct {
	FastCorrect Behavior `json:"fastCorrect"`
	SlowCorrect Behavior `json:"slowCorrect"`
	FastWrong   Behavior `json:"fastWrong"`
	SlowWrong   Behavior `json:"slowWrong"`
}

// Analysis is the full result of Analyze.
type Analysis struct {
	Summary    Summary    `json:"summary"`
	Topics     []Accuracy `json:"topicAnalysis"`
	Difficulty []Accuracy `json:"difficultyAnalysis"`
	Speed      Speed      `json:"speedAnalysis"`
	Behavioral Behavioral `json:"behavioralAnalysis"`
}

type counter struct {
	total, correct int
}

// Analyze computes attempt statistics. Responses that reference unknown
// questions are ignored. Behavior interpretations are rendered with loc;
// a nil localizer renders English.
func Analyze(questions []Question, a Attempt, loc *goi18n.Localizer) Analysis {
	byID := make(map[string]Question, len(questions))
	var totalMarks float64
	for _, q := range questions {
		byID[q.ID] = q
		totalMarks += q.Marks
	}

	sum := Summary{TotalQuestions: len(questions), TotalMarks: totalMarks}

	topics := make(map[string]*counter)
	var topicOrder []string
	diffs := map[model.Difficulty]*counter{
		model.DifficultyEasy:   {},
		model.DifficultyMedium: {},
		model.DifficultyHard:   {},
	}
	diffOrder := []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}

	var totalTime float64
	for _, r := range a.Responses {
		q, ok := byID[r.QuestionID]
		if !ok {
			continue
		}
		totalTime += r.TimeTaken

		tc, ok := topics[q.Topic]
		if !ok {
			tc = &counter{}
			topics[q.Topic] = tc
			topicOrder = append(topicOrder, q.Topic)
		}
		tc.total++

		diff := model.Difficulty(strings.ToLower(string(q.Difficulty)))
		dc, ok := diffs[diff]
		if !ok {
			dc = &counter{}
			diffs[diff] = dc
			diffOrder = append(diffOrder, diff)
		}
		dc.total++

		if r.SelectedOption == nil {
			sum.Unattempted++
			continue
		}
		sum.Attempted++
		if evaluation.MCQMatches(*r.SelectedOption, q.CorrectAnswer) {
			sum.Correct++
			sum.Score += q.Marks
			tc.correct++
			dc.correct++
		} else {
			sum.Wrong++
		}
	}

	sum.AccuracyPercentage = ratio(sum.Correct, sum.Attempted)
	if sum.TotalQuestions > 0 {
		sum.AvgTimePerQuestion = int(math.Round(totalTime / float64(sum.TotalQuestions)))
	}

	out := Analysis{Summary: sum}
	for _, name := range topicOrder {
		c := topics[name]
		out.Topics = append(out.Topics, Accuracy{Name: name, Total: c.total, Correct: c.correct, Accuracy: ratio(c.correct, c.total)})
	}
	for _, d := range diffOrder {
		c := diffs[d]
		out.Difficulty = append(out.Difficulty, Accuracy{Name: string(d), Total: c.total, Correct: c.correct, Accuracy: ratio(c.correct, c.total)})
	}

	avg := float64(sum.AvgTimePerQuestion)
	out.Speed = Speed{
		AvgTime:       sum.AvgTimePerQuestion,
		FastThreshold: avg * FastFactor,
		SlowThreshold: avg * SlowFactor,
	}

	var fastCorrect, slowCorrect, fastWrong, slowWrong int
	for _, r := range a.Responses {
		q, ok := byID[r.QuestionID]
		if !ok || r.SelectedOption == nil {
			continue
		}
		fast := r.TimeTaken < out.Speed.FastThreshold
		slow := r.TimeTaken > out.Speed.SlowThreshold
		correct := evaluation.MCQMatches(*r.SelectedOption, q.CorrectAnswer)
		switch {
		case fast && correct:
			fastCorrect++
		case slow && correct:
			slowCorrect++
		case fast:
			fastWrong++
		case slow:
			slowWrong++
		}
	}
	behaved := fastCorrect + slowCorrect + fastWrong + slowWrong
	bucket := func(n int, msg *goi18n.Message) Behavior {
		return Behavior{
			Count:          n,
			Percentage:     ratio(n, behaved),
			Interpretation: evaluation.Render(loc, msg, nil),
		}
	}
	out.Behavioral = Behavioral{
		FastCorrect: bucket(fastCorrect, msgFastCorrectMeaning),
		SlowCorrect: bucket(slowCorrect, msgSlowCorrectMeaning),
		FastWrong:   bucket(fastWrong, msgFastWrongMeaning),
		SlowWrong:   bucket(slowWrong, msgSlowWrongMeaning),
	}
	out.Speed.FastAttempts = fastCorrect + fastWrong
	out.Speed.SlowAttempts = slowCorrect + slowWrong

	return out
}

// ratio returns round(part/whole × 100), or 0 when whole is 0.
func ratio(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
