package store

import (
	"fmt"

	"github.com/pavelanni/assessor/internal/model"
)

// ExportAllReports builds export-ready results from all stored reports,
// each joined with the submission it was generated from.
func (s *Store) ExportAllReports() ([]model.ReportResult, error) {
	reports, err := s.ListReports()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	results := make([]model.ReportResult, 0, len(reports))
	for _, r := range reports {
		sub, err := s.GetSubmission(r.SubmissionID)
		if err != nil {
			return nil, fmt.Errorf("get submission %s: %w", r.SubmissionID, err)
		}

		res := model.ReportResult{
			ReportID:     r.ID,
			SubmissionID: r.SubmissionID,
			UserID:       r.Report.UserID,
			TestTitle:    r.TestTitle,
			Report:       r.Report,
		}
		// Tolerate a report whose submission row is gone.
		if sub != nil {
			res.SubmittedAt = sub.SubmittedAt
			res.Questions = sub.Questions
		}
		results = append(results, res)
	}

	return results, nil
}
