package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/assessor/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var reportDataRegex = regexp.MustCompile(`(?i)</?\s*report-data\b[^>]*>`)

// maxFieldRunes caps any single learner-controlled value placed in a prompt.
const maxFieldRunes = 500

// PromptVariant selects the tone of the generated summary.
type PromptVariant string

const (
	// PromptStandard is a neutral reviewer tone.
	PromptStandard PromptVariant = "standard"
	// PromptEncouraging leads with strengths and frames weaknesses as next steps.
	PromptEncouraging PromptVariant = "encouraging"
	// PromptConcise produces at most two sentences.
	PromptConcise PromptVariant = "concise"
)

var validVariants = map[PromptVariant]bool{
	PromptStandard:    true,
	PromptEncouraging: true,
	PromptConcise:     true,
}

var (
	loadOnce         sync.Once
	loadErr          error
	summaryTemplates map[PromptVariant]*template.Template
)

// IsValidVariant checks if a prompt variant name is valid.
func IsValidVariant(v string) bool {
	return validVariants[PromptVariant(v)]
}

// SummaryData holds template data for summary prompts.
type SummaryData struct {
	Language           string
	TotalScore         string
	TotalMarks         string
	Accuracy           string
	CommunicationScore string
	CodeQualityScore   string
	Topics             []string
	Strengths          []string
	Weaknesses         []string
}

// Load parses the embedded prompt templates.
// It uses sync.Once to ensure templates are loaded only once.
func Load() error {
	loadOnce.Do(func() {
		summaryTemplates = make(map[PromptVariant]*template.Template)
		for v := range validVariants {
			name := "templates/summary_" + string(v) + ".txt"
			content, err := fs.ReadFile(templateFS, name)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", name, err)
				return
			}
			tmpl, err := template.New("summary").Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", name, err)
				return
			}
			summaryTemplates[v] = tmpl
		}
	})
	return loadErr
}

// BuildSummaryPrompt renders the summary prompt for a report in the given
// variant. lang is the language code the narrative should be written in.
func BuildSummaryPrompt(variant PromptVariant, report model.FeedbackReport, lang string) (string, error) {
	if err := Load(); err != nil {
		return "", fmt.Errorf("templates load failed: %w", err)
	}
	tmpl, ok := summaryTemplates[variant]
	if !ok {
		return "", errors.New("invalid prompt variant: " + string(variant))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewSummaryData(report, lang)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewSummaryData flattens a report into sanitized template fields.
func NewSummaryData(r model.FeedbackReport, lang string) SummaryData {
	if lang == "" {
		lang = "en"
	}
	d := SummaryData{
		Language:   sanitize(lang),
		TotalScore: formatNumber(r.TotalScore),
		TotalMarks: formatNumber(r.TotalMarks),
		Accuracy:   formatNumber(r.AccuracyPercent),
		Strengths:  sanitizeAll(r.Strengths),
		Weaknesses: sanitizeAll(r.Weaknesses),
	}
	if r.CommunicationScore != nil {
		d.CommunicationScore = strconv.Itoa(*r.CommunicationScore)
	}
	if r.CodeQualityScore != nil {
		d.CodeQualityScore = strconv.Itoa(*r.CodeQualityScore)
	}
	for _, t := range r.TopicWiseBreakdown {
		d.Topics = append(d.Topics, fmt.Sprintf("%s: %d/%d correct, %s%% accuracy (%s)",
			sanitize(t.Topic), t.CorrectAnswers, t.TotalQuestions, formatNumber(t.Accuracy), t.Status))
	}
	return d
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sanitizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, sanitize(s))
	}
	return out
}

func sanitize(s string) string {
	s = reportDataRegex.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if utf8.RuneCountInString(s) > maxFieldRunes {
		runes := []rune(s)
		s = string(runes[:maxFieldRunes]) + "…"
	}
	return s
}
