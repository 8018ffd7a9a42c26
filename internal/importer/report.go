package importer

import "fmt"

// RowError describes one rejected row. Email is "N/A" when the row did not
// carry one.
type RowError struct {
	Row    int    `json:"row"`
	Email  string `json:"email"`
	Reason string `json:"error"`
}

// ImportOutcome describes one successfully created account.
type ImportOutcome struct {
	Row            int    `json:"row"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	IsActive       bool   `json:"is_active"`
	IsVerified     bool   `json:"is_verified"`
	EducationAdded bool   `json:"education_added"`
}

// RowResult is the tagged outcome of one row: exactly one of Outcome or Err
// is set. Folding results instead of raising per row keeps the aggregation
// a pure function over the sequence.
type RowResult struct {
	Outcome *ImportOutcome
	Err     *RowError
}

// Summary holds the headline counts of a report.
// Total == Successful + Failed always holds.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Report is the full per-row account of one import run, returned to the
// operator so failed rows can be fixed and re-uploaded in isolation.
type Report struct {
	Message string          `json:"message"`
	Success []ImportOutcome `json:"success"`
	Errors  []RowError      `json:"errors"`
	Summary Summary         `json:"summary"`
}

// Aggregate folds the ordered per-row results into one report, preserving
// row order within both the success and error sequences.
func Aggregate(results []RowResult) *Report {
	report := &Report{
		Success: make([]ImportOutcome, 0, len(results)),
		Errors:  make([]RowError, 0),
	}

	for _, res := range results {
		if res.Outcome != nil {
			report.Success = append(report.Success, *res.Outcome)
		} else if res.Err != nil {
			report.Errors = append(report.Errors, *res.Err)
		}
	}

	report.Summary = Summary{
		Total:      len(report.Success) + len(report.Errors),
		Successful: len(report.Success),
		Failed:     len(report.Errors),
	}
	report.Message = fmt.Sprintf("Import completed: %d successful, %d errors",
		report.Summary.Successful, report.Summary.Failed)

	return report
}
