package importer

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	text := "email,Name,phone,role,is_active,is_verified,school,course,degree,start_year,end_year,education_description\n" +
		"a@x.com,Alice,,user,true,true,MIT,CS,BSc,2010,2014,\n" +
		"\n" +
		"  b@x.com  ,  Bob  ,,,,,,,,,,\n" +
		"short,row\n" +
		"c@x.com,Carol,,admin,false,false,,,,,,\n"

	batch, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(batch.Headers) != 12 {
		t.Fatalf("headers = %d, want 12", len(batch.Headers))
	}
	if batch.Headers[1] != "name" {
		t.Errorf("header[1] = %q, want lower-cased %q", batch.Headers[1], "name")
	}

	// Blank line and the short row are dropped; they never reach validation.
	if len(batch.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(batch.Rows))
	}

	// Physical line numbers survive the skipped lines.
	wantLines := []int{2, 4, 6}
	for i, row := range batch.Rows {
		if row.Line != wantLines[i] {
			t.Errorf("row %d line = %d, want %d", i, row.Line, wantLines[i])
		}
	}

	if batch.Rows[1].Email != "b@x.com" || batch.Rows[1].Name != "Bob" {
		t.Errorf("values not trimmed: %q %q", batch.Rows[1].Email, batch.Rows[1].Name)
	}
	if batch.Rows[2].Role != "admin" {
		t.Errorf("role = %q, want admin", batch.Rows[2].Role)
	}
}

func TestDecodeInstructionsFooter(t *testing.T) {
	text := "email,name,phone,role,is_active,is_verified,school,course,degree,start_year,end_year,education_description\n" +
		"a@x.com,Alice,,,,,,,,,,\n" +
		"Instructions:\n" +
		"email - required, must be unique\n" +
		"b@x.com,Bob,,,,,,,,,,\n"

	batch, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(batch.Rows) != 1 {
		t.Fatalf("rows = %d, want 1; footer rows must not be decoded", len(batch.Rows))
	}
	if batch.Rows[0].Email != "a@x.com" {
		t.Errorf("email = %q, want a@x.com", batch.Rows[0].Email)
	}
}

func TestDecodeUnrecognizedHeaders(t *testing.T) {
	text := "email,name,linkedin\n" +
		"a@x.com,Alice,https://linkedin.com/in/alice\n"

	batch, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	row := batch.Rows[0]
	if row.Other["linkedin"] != "https://linkedin.com/in/alice" {
		t.Errorf("Other[linkedin] = %q", row.Other["linkedin"])
	}
}

func TestDecodeCRLF(t *testing.T) {
	text := "email,name\r\na@x.com,Alice\r\n"

	batch, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if batch.Rows[0].Name != "Alice" {
		t.Errorf("name = %q, want Alice", batch.Rows[0].Name)
	}
}

func TestDecodeFileLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"empty file", "", ErrEmptyFile},
		{"whitespace only", "   \n\n  \n", ErrEmptyFile},
		{"instructions only", "Instructions:\nemail - required\n", ErrEmptyFile},
		{"header only", "email,name\n", ErrNoDataRows},
		{"header then footer", "email,name\nInstructions:\n", ErrNoDataRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
