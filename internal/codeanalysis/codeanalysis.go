// Package codeanalysis grades code answers with static heuristics.
// User code is never compiled or executed.
package codeanalysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/pavelanni/assessor/internal/textsim"
)

// Structure penalties and bonus.
const (
	braceMismatchPenalty = 0.3
	parenMismatchPenalty = 0.2
	noControlPenalty     = 0.1
	commentBonus         = 0.05

	// noControlMinLen is the code length above which missing control
	// structures are penalized.
	noControlMinLen = 50
)

// Blend weights for AnalyzeCodeAnswer.
const (
	StructureWeight = 0.6
	LogicWeight     = 0.4
	KeywordWeight   = 0.2
)

// Logic bonuses per detected construct. They sum to 1.
const (
	functionBonus    = 0.3
	loopBonus        = 0.2
	conditionalBonus = 0.2
	returnBonus      = 0.3
)

// Issue messages reported for code answers.
const (
	IssueMismatchedBraces  = "Mismatched braces"
	IssueMismatchedParens  = "Mismatched parentheses"
	IssueMissingControl    = "Missing control structures"
	IssueMissingConstructs = "Missing required constructs"
)

var (
	controlRe     = regexp.MustCompile(`(?i)(if|else|for|while|switch|return)`)
	commentRe     = regexp.MustCompile(`(//|/\*|\*/)`)
	loopRe        = regexp.MustCompile(`(?i)(for|while|do\s*\{)`)
	conditionalRe = regexp.MustCompile(`(?i)(if|else|switch)`)
	returnRe      = regexp.MustCompile(`(?i)return`)
	functionRe    = regexp.MustCompile(`(?i)(function|=>|def\s+\w+)`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Structure is the result of a structural check.
type Structure struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// AnalyzeStructure checks bracket balance, control flow and comments.
func AnalyzeStructure(code string) Structure {
	issues := []string{}
	if code == "" {
		return Structure{Score: 0, Issues: issues}
	}

	score := 1.0
	if strings.Count(code, "{") != strings.Count(code, "}") {
		issues = append(issues, IssueMismatchedBraces)
		score -= braceMismatchPenalty
	}
	if strings.Count(code, "(") != strings.Count(code, ")") {
		issues = append(issues, IssueMismatchedParens)
		score -= parenMismatchPenalty
	}
	if !controlRe.MatchString(code) && len(code) > noControlMinLen {
		issues = append(issues, IssueMissingControl)
		score -= noControlPenalty
	}
	if commentRe.MatchString(code) {
		score += commentBonus
	}

	return Structure{Score: textsim.Clamp(score), Issues: issues}
}

// CompareOutput reports whether two outputs match after trimming and
// collapsing whitespace runs. Empty outputs never match.
func CompareOutput(user, expected string) bool {
	if user == "" || expected == "" {
		return false
	}
	return normalizeOutput(user) == normalizeOutput(expected)
}

// ContainsKeywords reports whether code contains any of the keywords,
// ignoring case.
func ContainsKeywords(code string, keywords []string) bool {
	if code == "" {
		return false
	}
	lower := strings.ToLower(code)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// AnalyzeCodeAnswer scores a code answer in [0, 1].
//
// When both pattern and expected are set and the answer matches expected
// output, the result is exactly 1. Otherwise the score blends structure,
// detected constructs and the share of pattern keywords present in the code.
func AnalyzeCodeAnswer(code, pattern, expected string) float64 {
	if strings.TrimSpace(code) == "" {
		return 0
	}
	if expected != "" && pattern != "" && CompareOutput(code, expected) {
		return 1.0
	}

	score := AnalyzeStructure(code).Score * StructureWeight
	score += LogicScore(code) * LogicWeight

	if kws := patternKeywords(pattern); len(kws) > 0 {
		lower := strings.ToLower(code)
		matched := 0
		for _, kw := range kws {
			if strings.Contains(lower, kw) {
				matched++
			}
		}
		score += float64(matched) / float64(len(kws)) * KeywordWeight
	}

	return textsim.Clamp(score)
}

// LogicScore sums the bonuses for function, loop, conditional and return
// constructs found in code.
func LogicScore(code string) float64 {
	var s float64
	if functionRe.MatchString(code) {
		s += functionBonus
	}
	if loopRe.MatchString(code) {
		s += loopBonus
	}
	if conditionalRe.MatchString(code) {
		s += conditionalBonus
	}
	if returnRe.MatchString(code) {
		s += returnBonus
	}
	return math.Min(s, 1)
}

// patternKeywords keeps every token longer than three characters,
// duplicates included.
func patternKeywords(pattern string) []string {
	var out []string
	for _, w := range textsim.Tokenize(pattern) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

func normalizeOutput(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
