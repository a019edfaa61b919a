package model

import (
	"strings"
	"time"
)

// QuestionType identifies how an answer is graded.
type QuestionType string

const (
	// TypeMCQ is a multiple-choice question graded by exact option match.
	TypeMCQ QuestionType = "mcq"
	// TypeParagraph is a free-text question graded by text similarity.
	TypeParagraph QuestionType = "paragraph"
	// TypeCode is a code question graded by structural heuristics.
	TypeCode QuestionType = "code"
)

// Normalize returns the lowercase, trimmed form of the type.
// Unrecognized values are returned unchanged apart from case and spacing.
func (t QuestionType) Normalize() QuestionType {
	return QuestionType(strings.ToLower(strings.TrimSpace(string(t))))
}

// Known reports whether the type is one of mcq, paragraph or code.
func (t QuestionType) Known() bool {
	switch t.Normalize() {
	case TypeMCQ, TypeParagraph, TypeCode:
		return true
	}
	return false
}

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TopicStatus classifies a topic as a strength or a weakness.
type TopicStatus string

const (
	StatusStrength TopicStatus = "strength"
	StatusWeakness TopicStatus = "weakness"
)

// DefaultTopic is used for questions submitted without a topic.
const DefaultTopic = "General"

// AnsweredQuestion is a question joined with the user's submitted answer.
type AnsweredQuestion struct {
	QuestionID     string       `json:"questionId" yaml:"questionId" validate:"required"`
	Type           QuestionType `json:"type" yaml:"type" validate:"required"`
	Topic          string       `json:"topic" yaml:"topic" validate:"required"`
	QuestionText   string       `json:"questionText,omitempty" yaml:"questionText"`
	UserAnswer     string       `json:"userAnswer" yaml:"userAnswer"`
	CorrectAnswer  string       `json:"correctAnswer" yaml:"correctAnswer"`
	Marks          float64      `json:"marks" yaml:"marks" validate:"gte=0"`
	ExpectedOutput string       `json:"expectedOutput,omitempty" yaml:"expectedOutput"`
	Keywords       []string     `json:"keywords,omitempty" yaml:"keywords"`
}

// MCQAnalysis holds diagnostics for a multiple-choice answer.
type MCQAnalysis struct {
	IsCorrect     bool   `json:"isCorrect"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// ParagraphAnalysis holds diagnostics for a free-text answer.
type ParagraphAnalysis struct {
	SimilarityScore float64 `json:"similarityScore"`
	VocabularyScore float64 `json:"vocabularyScore"`
	KeywordScore    float64 `json:"keywordScore"`
}

// CodeAnalysis holds diagnostics for a code answer.
type CodeAnalysis struct {
	CodeScore      float64  `json:"codeScore"`
	StructureScore float64  `json:"structureScore"`
	Issues         []string `json:"issues"`
}

// AnalysisDetails carries at most one type-specific analysis.
// All fields are nil for questions of an unknown type.
type AnalysisDetails struct {
	MCQ       *MCQAnalysis       `json:"mcq,omitempty"`
	Paragraph *ParagraphAnalysis `json:"paragraph,omitempty"`
	Code      *CodeAnalysis      `json:"code,omitempty"`
}

// QuestionEvaluation is the graded result of one AnsweredQuestion.
type QuestionEvaluation struct {
	Score           float64         `json:"score"`
	ObtainedMarks   float64         `json:"obtainedMarks"`
	MaxMarks        float64         `json:"maxMarks"`
	AnalysisDetails AnalysisDetails `json:"analysisDetails"`
}

// TopicBreakdown summarizes performance within one topic.
type TopicBreakdown struct {
	Topic          string      `json:"topic"`
	Accuracy       float64     `json:"accuracy"`
	TotalQuestions int         `json:"totalQuestions"`
	CorrectAnswers int         `json:"correctAnswers"`
	Status         TopicStatus `json:"status"`
}

// FeedbackReport is the final output of an evaluation.
type FeedbackReport struct {
	UserID             string           `json:"userId"`
	TotalScore         float64          `json:"totalScore"`
	TotalMarks         float64          `json:"totalMarks"`
	AccuracyPercent    float64          `json:"accuracyPercent"`
	TopicWiseBreakdown []TopicBreakdown `json:"topicWiseBreakdown"`
	Strengths          []string         `json:"strengths"`
	Weaknesses         []string         `json:"weaknesses"`
	Recommendations    []string         `json:"recommendations"`
	CommunicationScore *int             `json:"communicationScore"`
	CodeQualityScore   *int             `json:"codeQualityScore"`
	Summary            string           `json:"summary,omitempty"`
}

// Submission is a persisted set of answered questions.
type Submission struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId" yaml:"userId"`
	TestTitle   string             `json:"testTitle,omitempty" yaml:"testTitle"`
	Questions   []AnsweredQuestion `json:"questions" yaml:"questions"`
	SubmittedAt time.Time          `json:"submittedAt"`
}

// StoredReport is a feedback report persisted for a submission.
type StoredReport struct {
	ID           string         `json:"id"`
	SubmissionID string         `json:"submissionId"`
	TestTitle    string         `json:"testTitle,omitempty"`
	Report       FeedbackReport `json:"report"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Question is an entry in the question bank.
type Question struct {
	ID             int64        `json:"id"`
	Type           QuestionType `json:"type"`
	Topic          string       `json:"topic"`
	Subtopic       string       `json:"subtopic,omitempty"`
	Difficulty     Difficulty   `json:"difficulty"`
	Text           string       `json:"questionText"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correctAnswer"`
	ExpectedOutput string       `json:"expectedOutput,omitempty"`
	Keywords       []string     `json:"keywords,omitempty"`
	Marks          float64      `json:"marks"`
}

// QuestionImport is used for loading questions from JSON or YAML files.
type QuestionImport struct {
	Type           QuestionType `json:"type" yaml:"type"`
	Topic          string       `json:"topic" yaml:"topic"`
	Subtopic       string       `json:"subtopic" yaml:"subtopic"`
	Difficulty     Difficulty   `json:"difficulty" yaml:"difficulty"`
	Text           string       `json:"questionText" yaml:"questionText"`
	Options        []string     `json:"options" yaml:"options"`
	CorrectAnswer  string       `json:"correctAnswer" yaml:"correctAnswer"`
	ExpectedOutput string       `json:"expectedOutput" yaml:"expectedOutput"`
	Keywords       []string     `json:"keywords" yaml:"keywords"`
	Marks          float64      `json:"marks" yaml:"marks"`
}

// Key returns the question ID in the string form used by submissions.
func (q Question) Key() string {
	return formatID(q.ID)
}

// ToAnswered joins a bank question with a submitted answer.
func (q Question) ToAnswered(answer string) AnsweredQuestion {
	return AnsweredQuestion{
		QuestionID:     q.Key(),
		Type:           q.Type,
		Topic:          q.Topic,
		QuestionText:   q.Text,
		UserAnswer:     answer,
		CorrectAnswer:  q.CorrectAnswer,
		Marks:          q.Marks,
		ExpectedOutput: q.ExpectedOutput,
		Keywords:       q.Keywords,
	}
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	Lang           string        // default UI language for generated messages
	ReportLimit    int           // reports returned per user listing
	SummaryEnabled bool          // request an LLM narrative for each report
	SummaryTimeout time.Duration // upper bound on one narrative request
}
