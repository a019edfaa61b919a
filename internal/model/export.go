package model

import (
	"strconv"
	"time"
)

// ReportExport is the top-level JSON structure for report export.
type ReportExport struct {
	ExportedAt time.Time      `json:"exportedAt"`
	NumReports int            `json:"numReports"`
	Reports    []ReportResult `json:"reports"`
}

// ReportResult holds one stored report together with its submission.
type ReportResult struct {
	ReportID     string             `json:"reportId"`
	SubmissionID string             `json:"submissionId"`
	UserID       string             `json:"userId"`
	TestTitle    string             `json:"testTitle,omitempty"`
	SubmittedAt  time.Time          `json:"submittedAt"`
	Questions    []AnsweredQuestion `json:"questions"`
	Report       FeedbackReport     `json:"report"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
