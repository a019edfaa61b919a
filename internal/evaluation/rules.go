package evaluation

import (
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

// Thresholds used by the recommendation rules.
const (
	CommunicationThreshold = 0.6
	CodingThreshold        = 0.6
	ExcellentAccuracy      = 80.0
	GoodAccuracy           = 60.0
)

// facts is the evidence the recommendation rules are evaluated against.
type facts struct {
	weakTopics    []string
	hasParagraph  bool
	paragraphMean float64
	hasCode       bool
	codeMean      float64
	accuracy      float64
}

// advice is a recommendation before it is rendered to text.
type advice struct {
	msg  *goi18n.Message
	data map[string]any
}

type recommendationRule struct {
	name    string
	applies func(f facts) bool
	advise  func(f facts) advice
}

func fixed(msg *goi18n.Message) func(facts) advice {
	return func(facts) advice { return advice{msg: msg} }
}

// recommendationRules are evaluated in order and every matching rule
// contributes one recommendation. The last three are mutually exclusive.
var recommendationRules = []recommendationRule{
	{
		name:    "weak-topics",
		applies: func(f facts) bool { return len(f.weakTopics) > 0 },
		advise: func(f facts) advice {
			return advice{
				msg:  MsgFocusWeakTopics,
				data: map[string]any{"Topics": strings.Join(f.weakTopics, ", ")},
			}
		},
	},
	{
		name:    "communication",
		applies: func(f facts) bool { return f.hasParagraph && f.paragraphMean < CommunicationThreshold },
		advise:  fixed(MsgImproveCommunication),
	},
	{
		name:    "coding",
		applies: func(f facts) bool { return f.hasCode && f.codeMean < CodingThreshold },
		advise:  fixed(MsgImproveCoding),
	},
	{
		name:    "overall-excellent",
		applies: func(f facts) bool { return f.accuracy >= ExcellentAccuracy },
		advise:  fixed(MsgOverallExcellent),
	},
	{
		name:    "overall-good",
		applies: func(f facts) bool { return f.accuracy >= GoodAccuracy && f.accuracy < ExcellentAccuracy },
		advise:  fixed(MsgOverallGood),
	},
	{
		name:    "overall-fundamentals",
		applies: func(f facts) bool { return f.accuracy < GoodAccuracy },
		advise:  fixed(MsgOverallFundamentals),
	},
}

func recommend(f facts) []advice {
	var out []advice
	for _, r := range recommendationRules {
		if r.applies(f) {
			out = append(out, r.advise(f))
		}
	}
	return out
}
