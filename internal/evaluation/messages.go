package evaluation

import (
	"log/slog"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Report messages. The English text is the source language; other languages
// are loaded from locale files by the i18n package.
var (
	MsgTopicAccuracy = &goi18n.Message{
		ID:    "TopicAccuracy",
		Other: "{{.Topic}} ({{.Accuracy}}% accuracy)",
	}
	MsgFocusWeakTopics = &goi18n.Message{
		ID:    "RecommendFocusWeakTopics",
		Other: "Focus on improving {{.Topics}} concepts. Consider reviewing fundamentals and practicing more questions in these areas.",
	}
	MsgImproveCommunication = &goi18n.Message{
		ID:    "RecommendImproveCommunication",
		Other: "Work on improving written communication skills. Practice structuring answers clearly and using appropriate technical vocabulary.",
	}
	MsgImproveCoding = &goi18n.Message{
		ID:    "RecommendImproveCoding",
		Other: "Focus on improving coding skills. Practice problem-solving, algorithm implementation, and code structure. Consider working on more coding challenges.",
	}
	MsgOverallExcellent = &goi18n.Message{
		ID:    "RecommendOverallExcellent",
		Other: "Excellent performance! Keep up the good work and continue practicing to maintain your skills.",
	}
	MsgOverallGood = &goi18n.Message{
		ID:    "RecommendOverallGood",
		Other: "Good performance. Review incorrect answers and focus on areas that need improvement.",
	}
	MsgOverallFundamentals = &goi18n.Message{
		ID:    "RecommendOverallFundamentals",
		Other: "Consider dedicating more time to study and practice. Focus on understanding core concepts before attempting advanced topics.",
	}
)

var defaultLocalizer = goi18n.NewLocalizer(goi18n.NewBundle(language.English), "en")

// Option configures report generation.
type Option func(*options)

type options struct {
	localizer *goi18n.Localizer
}

// WithLocalizer renders report messages through loc.
// A nil localizer keeps the English defaults.
func WithLocalizer(loc *goi18n.Localizer) Option {
	return func(o *options) {
		if loc != nil {
			o.localizer = loc
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{localizer: defaultLocalizer}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// render localizes msg. When the active language lacks a translation the
// English text is used.
func (o options) render(msg *goi18n.Message, data map[string]any) string {
	return Render(o.localizer, msg, data)
}

// Render localizes msg with loc, falling back to English when loc is nil or
// has no translation for it.
func Render(loc *goi18n.Localizer, msg *goi18n.Message, data map[string]any) string {
	if loc == nil {
		loc = defaultLocalizer
	}
	s, err := loc.Localize(&goi18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		if s != "" {
			slog.Debug("missing translation, using default", "id", msg.ID)
			return s
		}
		slog.Warn("render message", "id", msg.ID, "error", err)
		return msg.Other
	}
	return s
}
