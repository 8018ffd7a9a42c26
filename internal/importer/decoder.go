package importer

import (
	"errors"
	"strings"
)

// InstructionsMarker starts the documentation footer of an import file.
// Everything from the marker line to the end of the file is ignored.
const InstructionsMarker = "Instructions:"

// File-level errors. These fail the whole request before any per-row
// processing; every other problem is row-scoped and lands in the report.
var (
	ErrEmptyFile  = errors.New("file is empty")
	ErrNoDataRows = errors.New("no data rows found after header")
)

// NamedRow is one decoded data row. Recognized columns are promoted to
// fields so header typos surface at the boundary instead of deep inside
// validation; anything else lands in Other. All values are trimmed.
type NamedRow struct {
	// Line is the 1-based physical line number in the uploaded file
	// (header = line 1). It is carried through to the report so operators
	// can trace every outcome back to the spreadsheet.
	Line int

	Email      string
	Name       string
	Phone      string
	Role       string
	IsActive   string
	IsVerified string

	School      string
	Course      string
	Degree      string
	StartYear   string
	EndYear     string
	Description string

	// Other holds values for unrecognized headers, keyed by the
	// lower-cased header name.
	Other map[string]string
}

func (r *NamedRow) set(key, value string) {
	switch key {
	case "email":
		r.Email = value
	case "name":
		r.Name = value
	case "phone":
		r.Phone = value
	case "role":
		r.Role = value
	case "is_active":
		r.IsActive = value
	case "is_verified":
		r.IsVerified = value
	case "school":
		r.School = value
	case "course":
		r.Course = value
	case "degree":
		r.Degree = value
	case "start_year":
		r.StartYear = value
	case "end_year":
		r.EndYear = value
	case "education_description":
		r.Description = value
	default:
		if r.Other == nil {
			r.Other = make(map[string]string)
		}
		r.Other[key] = value
	}
}

// Batch is the decoded form of one uploaded file.
type Batch struct {
	Headers []string
	Rows    []NamedRow
}

// Decode parses the full file text into a header and its data rows.
//
// Lines that are blank after trimming are skipped. A line beginning with
// InstructionsMarker ends the data section: the template ships with a
// documentation footer that operators are not expected to delete. The first
// surviving line is the header; its cells are lower-cased and trimmed.
//
// A data row whose field count differs from the header's is dropped without
// a trace: it never reaches validation and is not counted in the report
// total. Reporting these as errors would change the meaning of the total
// and needs a product decision first.
func Decode(text string) (*Batch, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var headers []string
	batch := &Batch{}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, InstructionsMarker) {
			break
		}

		if headers == nil {
			headers = SplitFields(trimmed)
			for j := range headers {
				headers[j] = strings.ToLower(strings.TrimSpace(headers[j]))
			}
			batch.Headers = headers
			continue
		}

		fields := SplitFields(line)
		if len(fields) != len(headers) {
			continue
		}

		row := NamedRow{Line: i + 1}
		for j, h := range headers {
			row.set(h, strings.TrimSpace(fields[j]))
		}
		batch.Rows = append(batch.Rows, row)
	}

	if headers == nil {
		return nil, ErrEmptyFile
	}
	if len(batch.Rows) == 0 {
		return nil, ErrNoDataRows
	}

	return batch, nil
}
