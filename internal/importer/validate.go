package importer

import (
	"strings"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

// ReasonMissingRequired is the fixed reason for rows lacking email or name.
const ReasonMissingRequired = "Missing email or name"

// EducationDraft is the optional education entry carried by a valid row.
// Years are kept as the 4-digit strings from the spreadsheet and widened to
// first-of-year dates at persistence time.
type EducationDraft struct {
	School      string
	Course      string
	Degree      string
	StartYear   string
	EndYear     string
	Description string
	IsPresent   bool
}

// ValidRecord is the normalized, typed form of one importable member.
type ValidRecord struct {
	Line       int
	Email      string
	Name       string
	Phone      string
	Role       model.Role
	IsActive   bool
	IsVerified bool
	Education  *EducationDraft
}

// ValidateRow checks required fields and normalizes the row into a
// ValidRecord, or rejects it with a RowError. It is a pure function: no
// storage is consulted, so the same row always validates the same way.
func ValidateRow(row NamedRow) (*ValidRecord, *RowError) {
	if row.Email == "" || row.Name == "" {
		return nil, &RowError{
			Row:    row.Line,
			Email:  orNA(row.Email),
			Reason: ReasonMissingRequired,
		}
	}

	rec := &ValidRecord{
		Line:  row.Line,
		Email: row.Email,
		Name:  row.Name,
		Phone: row.Phone,
		Role:  model.ParseRole(row.Role),

		// is_active is accepted in the template but effectively ignored:
		// imported members always start active, even when the cell says
		// "false". Operators re-import old spreadsheets that rely on this,
		// so changing it needs explicit product sign-off.
		IsActive: true,

		IsVerified: strings.EqualFold(row.IsVerified, "true"),
	}

	if row.School != "" || row.Course != "" || row.Degree != "" {
		rec.Education = &EducationDraft{
			School:      row.School,
			Course:      row.Course,
			Degree:      row.Degree,
			StartYear:   row.StartYear,
			EndYear:     row.EndYear,
			Description: row.Description,
			IsPresent:   row.StartYear != "" && row.EndYear == "",
		}
	}

	return rec, nil
}

func orNA(email string) string {
	if email == "" {
		return "N/A"
	}
	return email
}
