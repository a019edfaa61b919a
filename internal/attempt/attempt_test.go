package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/assessor/internal/model"
)

func opt(s string) *string { return &s }

func sampleQuestions() []Question {
	return []Question{
		{ID: "1", Topic: "Arrays", Difficulty: model.DifficultyEasy, CorrectAnswer: "A", Marks: 1},
		{ID: "2", Topic: "Arrays", Difficulty: model.DifficultyMedium, CorrectAnswer: "B", Marks: 1},
		{ID: "3", Topic: "Graphs", Difficulty: model.DifficultyHard, CorrectAnswer: "C", Marks: 2},
		{ID: "4", Topic: "Graphs", Difficulty: model.DifficultyHard, CorrectAnswer: "D", Marks: 2},
	}
}

func sampleAttempt() Attempt {
	return Attempt{
		UserID: "u1",
		Responses: []Response{
			{QuestionID: "1", SelectedOption: opt("a"), TimeTaken: 10},
			{QuestionID: "2", SelectedOption: opt("C"), TimeTaken: 50},
			{QuestionID: "3", SelectedOption: nil, TimeTaken: 20},
			{QuestionID: "4", SelectedOption: opt("A"), TimeTaken: 80},
			{QuestionID: "zzz", SelectedOption: opt("A"), TimeTaken: 1000},
		},
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze(sampleQuestions(), sampleAttempt(), nil)

	assert.Equal(t, Summary{
		TotalQuestions:     4,
		Attempted:          3,
		Correct:            1,
		Wrong:              2,
		Unattempted:        1,
		Score:              1,
		TotalMarks:         6,
		AccuracyPercentage: 33,
		AvgTimePerQuestion: 40,
	}, a.Summary)

	assert.Equal(t, []Accuracy{
		{Name: "Arrays", Total: 2, Correct: 1, Accuracy: 50},
		{Name: "Graphs", Total: 2, Correct: 0, Accuracy: 0},
	}, a.Topics)

	assert.Equal(t, []Accuracy{
		{Name: "easy", Total: 1, Correct: 1, Accuracy: 100},
		{Name: "medium", Total: 1, Correct: 0, Accuracy: 0},
		{Name: "hard", Total: 2, Correct: 0, Accuracy: 0},
	}, a.Difficulty)

	assert.InDelta(t, 24.0, a.Speed.FastThreshold, 1e-9)
	assert.InDelta(t, 56.0, a.Speed.SlowThreshold, 1e-9)
	assert.Equal(t, 1, a.Speed.FastAttempts)
	assert.Equal(t, 1, a.Speed.SlowAttempts)

	assert.Equal(t, Behavior{
		Count:          1,
		Percentage:     50,
		Interpretation: "Answered correctly very quickly, indicating strong intuition or possible guessing.",
	}, a.Behavioral.FastCorrect)
	assert.Equal(t, Behavior{
		Count:          1,
		Percentage:     50,
		Interpretation: "Spent time but still answered incorrectly, indicating conceptual gaps.",
	}, a.Behavioral.SlowWrong)
	assert.Zero(t, a.Behavioral.SlowCorrect.Count)
	assert.Zero(t, a.Behavioral.FastWrong.Count)
	// Empty buckets still explain what they measure.
	assert.Equal(t, "Answered incorrectly very quickly, suggesting impulsive or careless mistakes.",
		a.Behavioral.FastWrong.Interpretation)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, Attempt{}, nil)
	assert.Zero(t, a.Summary.AccuracyPercentage)
	assert.Zero(t, a.Summary.AvgTimePerQuestion)
	assert.Empty(t, a.Topics)
	require.Len(t, a.Difficulty, 3)
}

func TestFeedback(t *testing.T) {
	r := Feedback(Analyze(sampleQuestions(), sampleAttempt(), nil), nil)

	assert.Empty(t, r.Strengths)
	assert.Equal(t, []string{
		"Low overall accuracy indicates gaps in core concepts.",
		"Weak performance in Graphs.",
		"Unable to solve hard-level questions.",
		"Some questions took time but were still incorrect, indicating conceptual gaps.",
	}, r.Weaknesses)
	assert.Equal(t, []string{
		"Revise fundamentals before attempting more mock tests.",
		"Practice more Graphs questions and revise basics.",
		"Work on advanced problem-solving patterns and edge cases.",
		"Focus on understanding weak concepts instead of increasing speed.",
	}, r.Recommendations)
}

func TestFeedbackStrong(t *testing.T) {
	a := Analysis{
		Summary: Summary{AccuracyPercentage: 90},
		Topics:  []Accuracy{{Name: "Trees", Total: 3, Correct: 3, Accuracy: 100}},
		Behavioral: Behavioral{
			SlowCorrect: Behavior{Count: 3, Percentage: 60},
		},
	}
	r := Feedback(a, nil)
	assert.Equal(t, []string{
		"Strong overall accuracy with good conceptual understanding.",
		"Good performance in Trees.",
		"You show strong conceptual understanding but need to improve speed.",
	}, r.Strengths)
	assert.Empty(t, r.Weaknesses)
	assert.Equal(t, []string{"Practice timed questions to improve recall speed."}, r.Recommendations)
}
