package attempt

import (
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pavelanni/assessor/internal/evaluation"
	"github.com/pavelanni/assessor/internal/model"
)

// Feedback thresholds, in percent.
const (
	strongOverall   = 75
	weakOverall     = 40
	strongTopic     = 70
	weakTopic       = 40
	slowCorrectHigh = 40
	fastWrongHigh   = 30
	slowWrongHigh   = 25
)

var (
	msgStrongOverall = &goi18n.Message{ID: "AttemptStrongOverall", Other: "Strong overall accuracy with good conceptual understanding."}
	msgWeakOverall   = &goi18n.Message{ID: "AttemptWeakOverall", Other: "Low overall accuracy indicates gaps in core concepts."}
	msgReviseBasics  = &goi18n.Message{ID: "AttemptReviseBasics", Other: "Revise fundamentals before attempting more mock tests."}
	msgGoodTopic     = &goi18n.Message{ID: "AttemptGoodTopic", Other: "Good performance in {{.Topic}}."}
	msgWeakTopic     = &goi18n.Message{ID: "AttemptWeakTopic", Other: "Weak performance in {{.Topic}}."}
	msgPracticeTopic = &goi18n.Message{ID: "AttemptPracticeTopic", Other: "Practice more {{.Topic}} questions and revise basics."}
	msgNoHard        = &goi18n.Message{ID: "AttemptNoHard", Other: "Unable to solve hard-level questions."}
	msgAdvanced      = &goi18n.Message{ID: "AttemptAdvanced", Other: "Work on advanced problem-solving patterns and edge cases."}
	msgSlowCorrect   = &goi18n.Message{ID: "AttemptSlowCorrect", Other: "You show strong conceptual understanding but need to improve speed."}
	msgTimedPractice = &goi18n.Message{ID: "AttemptTimedPractice", Other: "Practice timed questions to improve recall speed."}
	msgFastWrong     = &goi18n.Message{ID: "AttemptFastWrong", Other: "Many incorrect answers were due to rushing through questions."}
	msgSlowDown      = &goi18n.Message{ID: "AttemptSlowDown", Other: "Slow down slightly and read questions more carefully."}
	msgSlowWrong     = &goi18n.Message{ID: "AttemptSlowWrong", Other: "Some questions took time but were still incorrect, indicating conceptual gaps."}
	msgFocusConcepts = &goi18n.Message{ID: "AttemptFocusConcepts", Other: "Focus on understanding weak concepts instead of increasing speed."}
)

// Report is qualitative feedback derived from an Analysis.
type Report struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Feedback derives strengths, weaknesses and recommendations from an
// analysis. A nil localizer renders English.
func Feedback(a Analysis, loc *goi18n.Localizer) Report {
	r := Report{Strengths: []string{}, Weaknesses: []string{}, Recommendations: []string{}}
	say := func(dst *[]string, msg *goi18n.Message, data map[string]any) {
		*dst = append(*dst, evaluation.Render(loc, msg, data))
	}

	switch acc := a.Summary.AccuracyPercentage; {
	case acc >= strongOverall:
		say(&r.Strengths, msgStrongOverall, nil)
	case acc <= weakOverall:
		say(&r.Weaknesses, msgWeakOverall, nil)
		say(&r.Recommendations, msgReviseBasics, nil)
	}

	for _, t := range a.Topics {
		data := map[string]any{"Topic": t.Name}
		switch {
		case t.Accuracy >= strongTopic:
			say(&r.Strengths, msgGoodTopic, data)
		case t.Accuracy <= weakTopic:
			say(&r.Weaknesses, msgWeakTopic, data)
			say(&r.Recommendations, msgPracticeTopic, data)
		}
	}

	for _, d := range a.Difficulty {
		if d.Name == string(model.DifficultyHard) && d.Total > 0 && d.Accuracy == 0 {
			say(&r.Weaknesses, msgNoHard, nil)
			say(&r.Recommendations, msgAdvanced, nil)
		}
	}

	if a.Behavioral.SlowCorrect.Percentage > slowCorrectHigh {
		say(&r.Strengths, msgSlowCorrect, nil)
		say(&r.Recommendations, msgTimedPractice, nil)
	}
	if a.Behavioral.FastWrong.Percentage > fastWrongHigh {
		say(&r.Weaknesses, msgFastWrong, nil)
		say(&r.Recommendations, msgSlowDown, nil)
	}
	if a.Behavioral.SlowWrong.Percentage > slowWrongHigh {
		say(&r.Weaknesses, msgSlowWrong, nil)
		say(&r.Recommendations, msgFocusConcepts, nil)
	}

	return r
}
