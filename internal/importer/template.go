package importer

import "strings"

// TemplateColumns lists the import file's columns in file order.
var TemplateColumns = []string{
	"email", "name", "phone", "role", "is_active", "is_verified",
	"school", "course", "degree", "start_year", "end_year",
	"education_description",
}

var templateExamples = [][]string{
	{"jane@example.com", "Jane Mokoena", "+61 400 000 001", "user", "true", "false",
		"University of Sydney", "Computer Science", "BSc", "2015", "2018",
		"Graduated with honours"},
	{"sipho@example.com", "Sipho Dlamini", "", "admin", "true", "true",
		"", "", "", "", "", ""},
}

var templateInstructions = []string{
	"",
	InstructionsMarker,
	"email                 - required, must be unique across the directory",
	"name                  - required, the member's display name",
	"phone                 - optional contact number",
	"role                  - 'user' or 'admin' (defaults to user)",
	"is_active             - 'true' or 'false' (imported members start active)",
	"is_verified           - 'true' to mark the account verified",
	"school, course, degree - fill any of these to attach an education record",
	"start_year, end_year  - 4-digit years; leave end_year blank for ongoing study",
	"education_description - optional free text for the education record",
	"Rows with a missing email or name are rejected; fix and re-upload them.",
	"Re-uploading a file is safe: existing members are skipped, not duplicated.",
}

// Template returns the downloadable import template: header, two example
// rows, and the documentation footer the decoder ignores.
func Template() string {
	var b strings.Builder

	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(QuoteField(c))
		}
		b.WriteByte('\n')
	}

	writeRow(TemplateColumns)
	for _, row := range templateExamples {
		writeRow(row)
	}
	for _, line := range templateInstructions {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}
