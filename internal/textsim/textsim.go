// Package textsim scores free-text answers with word-frequency heuristics.
package textsim

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Blend weights for AnalyzeParagraphAnswer. They must stay fixed so that
// scores remain comparable across stored reports.
const (
	SimilarityWeight = 0.4
	KeywordWeight    = 0.3
	VocabularyWeight = 0.2
	LengthWeight     = 0.1

	// LengthTarget is the trimmed answer length that earns the full length score.
	LengthTarget = 200.0
)

// Vocabulary richness weights.
const (
	uniqueRatioWeight = 0.6
	wordLengthWeight  = 0.4
	wordLengthTarget  = 10.0
)

// minKeywordLen is the exclusive lower bound on keyword length.
const minKeywordLen = 3

var wordRe = regexp.MustCompile(`\b\w+\b`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {},
}

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// IsStopWord reports whether w is ignored during keyword matching.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// CosineSimilarity compares two texts as term-frequency vectors.
// It returns 0 when either text has no tokens.
func CosineSimilarity(a, b string) float64 {
	wa, wb := Tokenize(a), Tokenize(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	fa := frequencies(wa)
	fb := frequencies(wb)

	var dot, magA, magB float64
	for w, ca := range fa {
		dot += ca * fb[w]
		magA += ca * ca
	}
	for _, cb := range fb {
		magB += cb * cb
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// KeywordOverlapScore returns the fraction of the correct answer's keywords
// that also appear in the user's answer.
func KeywordOverlapScore(user, correct string) float64 {
	if user == "" || correct == "" {
		return 0
	}
	want := keywords(correct)
	if len(want) == 0 {
		return 0
	}
	matched := 0
	for w := range keywords(user) {
		if _, ok := want[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}

// VocabularyRichness rewards lexical diversity and longer average words.
func VocabularyRichness(text string) float64 {
	words := Tokenize(text)
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	totalLen := 0
	for _, w := range words {
		unique[w] = struct{}{}
		totalLen += len(w)
	}
	uniqueRatio := float64(len(unique)) / float64(len(words))
	avgLen := float64(totalLen) / float64(len(words))
	return uniqueRatio*uniqueRatioWeight + math.Min(avgLen/wordLengthTarget, 1)*wordLengthWeight
}

// AnalyzeParagraphAnswer blends similarity, keyword overlap, vocabulary and
// length into a single score in [0, 1]. Blank answers score 0.
func AnalyzeParagraphAnswer(user, correct string) float64 {
	trimmed := strings.TrimSpace(user)
	if trimmed == "" {
		return 0
	}

	similarity := CosineSimilarity(user, correct)
	keyword := KeywordOverlapScore(user, correct)
	vocab := VocabularyRichness(user)
	length := math.Min(float64(utf8.RuneCountInString(trimmed))/LengthTarget, 1)

	score := similarity*SimilarityWeight +
		keyword*KeywordWeight +
		vocab*VocabularyWeight +
		length*LengthWeight
	return Clamp(score)
}

// Clamp limits v to [0, 1].
func Clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func frequencies(words []string) map[string]float64 {
	freq := make(map[string]float64, len(words))
	for _, w := range words {
		freq[w]++
	}
	return freq
}

// keywords returns the distinct tokens longer than minKeywordLen that are not stop words.
func keywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range Tokenize(text) {
		if len(w) > minKeywordLen && !IsStopWord(w) {
			out[w] = struct{}{}
		}
	}
	return out
}
