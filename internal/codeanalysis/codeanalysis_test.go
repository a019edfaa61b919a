package codeanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sumJS = `function sum(arr) {
  let total = 0;
  for (const x of arr) {
    if (x > 0) total += x;
  }
  return total;
}`

func TestAnalyzeStructure(t *testing.T) {
	noControl := "a = 1\nb = 2\nc = 3\nd = 4\ne = 5\ng = 6\nh = 7\nj = 8\nk = 9\nm = 10\n"

	tests := []struct {
		name       string
		code       string
		wantScore  float64
		wantIssues []string
	}{
		{"empty", "", 0, []string{}},
		{"balanced", "func f() { return 1 }", 1.0, []string{}},
		{"both mismatched", "if (x { y", 0.5, []string{IssueMismatchedBraces, IssueMismatchedParens}},
		{"long without control", noControl, 0.9, []string{IssueMissingControl}},
		{"short without control", "x = 1", 1.0, []string{}},
		{"comment bonus", "{ // note\nreturn x", 0.75, []string{IssueMismatchedBraces}},
		{"bonus is capped", "// fine\nreturn x", 1.0, []string{}},
		{"full function", sumJS, 1.0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeStructure(tt.code)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantIssues, got.Issues)
		})
	}
}

func TestCompareOutput(t *testing.T) {
	tests := []struct {
		user, expected string
		want           bool
	}{
		{"foo   bar", "foo bar", true},
		{" a\n\t b ", "a b", true},
		{"a", "b", false},
		{"", "", false},
		{"x", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareOutput(tt.user, tt.expected), "CompareOutput(%q, %q)", tt.user, tt.expected)
	}
}

func TestContainsKeywords(t *testing.T) {
	assert.True(t, ContainsKeywords(sumJS, []string{"RETURN"}))
	assert.False(t, ContainsKeywords(sumJS, []string{"while", "switch"}))
	assert.False(t, ContainsKeywords("", []string{"x"}))
}

func TestLogicScore(t *testing.T) {
	assert.InDelta(t, 1.0, LogicScore(sumJS), 1e-9)
	assert.InDelta(t, 0.6, LogicScore("def foo(): return 1"), 1e-9)
	assert.Zero(t, LogicScore("x = 1"))
}

func TestAnalyzeCodeAnswer(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		pattern  string
		expected string
		want     float64
	}{
		{"blank", "   ", "pattern", "out", 0},
		{"output match short-circuits", "}}}((( Hello   World", "anything", "}}}((( Hello World", 1.0},
		{"no pattern disables short-circuit", "Hello   World", "", "Hello World", 0.6},
		{"keyword bonus", "x = compute(y)", "compute result value", "42", 0.6 + 0.2/3},
		{"complete function", sumJS, "return total sum", "15", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AnalyzeCodeAnswer(tt.code, tt.pattern, tt.expected), 1e-9)
		})
	}
}

func TestAnalyzeCodeAnswerBounded(t *testing.T) {
	inputs := []string{"{", ")", "return return return", sumJS + "\n// done", "while(true){}"}
	for _, in := range inputs {
		got := AnalyzeCodeAnswer(in, "while loop return", "")
		assert.GreaterOrEqual(t, got, 0.0, in)
		assert.LessOrEqual(t, got, 1.0, in)
	}
}
