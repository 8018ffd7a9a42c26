package importer

import (
	"testing"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

func TestValidateRowRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		row       NamedRow
		wantEmail string
	}{
		{
			name:      "missing email",
			row:       NamedRow{Line: 3, Name: "NoEmail"},
			wantEmail: "N/A",
		},
		{
			name:      "missing name",
			row:       NamedRow{Line: 4, Email: "a@x.com"},
			wantEmail: "a@x.com",
		},
		{
			name:      "missing both",
			row:       NamedRow{Line: 5},
			wantEmail: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ValidateRow(tt.row)
			if rec != nil {
				t.Fatalf("ValidateRow() record = %+v, want rejection", rec)
			}
			if rowErr.Reason != ReasonMissingRequired {
				t.Errorf("reason = %q, want %q", rowErr.Reason, ReasonMissingRequired)
			}
			if rowErr.Row != tt.row.Line {
				t.Errorf("row = %d, want %d", rowErr.Row, tt.row.Line)
			}
			if rowErr.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", rowErr.Email, tt.wantEmail)
			}
		})
	}
}

func TestValidateRowNormalization(t *testing.T) {
	tests := []struct {
		name         string
		row          NamedRow
		wantRole     model.Role
		wantVerified bool
	}{
		{
			name:     "empty role defaults to user",
			row:      NamedRow{Email: "a@x.com", Name: "A"},
			wantRole: model.RoleUser,
		},
		{
			name:     "admin role case-insensitive",
			row:      NamedRow{Email: "a@x.com", Name: "A", Role: "ADMIN"},
			wantRole: model.RoleAdmin,
		},
		{
			name:     "unknown role falls back to user",
			row:      NamedRow{Email: "a@x.com", Name: "A", Role: "moderator"},
			wantRole: model.RoleUser,
		},
		{
			name:         "verified requires literal true",
			row:          NamedRow{Email: "a@x.com", Name: "A", IsVerified: "TRUE"},
			wantRole:     model.RoleUser,
			wantVerified: true,
		},
		{
			name:     "verified rejects yes",
			row:      NamedRow{Email: "a@x.com", Name: "A", IsVerified: "yes"},
			wantRole: model.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ValidateRow(tt.row)
			if rowErr != nil {
				t.Fatalf("ValidateRow() error = %+v", rowErr)
			}
			if rec.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", rec.Role, tt.wantRole)
			}
			if rec.IsVerified != tt.wantVerified {
				t.Errorf("isVerified = %v, want %v", rec.IsVerified, tt.wantVerified)
			}
		})
	}
}

// Imported members are always active, even when the spreadsheet says
// "false". This matches what operators have come to rely on; see the
// comment in ValidateRow before changing it.
func TestValidateRowIsActiveAlwaysTrue(t *testing.T) {
	for _, v := range []string{"", "true", "false", "FALSE", "no", "0"} {
		rec, rowErr := ValidateRow(NamedRow{Email: "a@x.com", Name: "A", IsActive: v})
		if rowErr != nil {
			t.Fatalf("ValidateRow() error = %+v", rowErr)
		}
		if !rec.IsActive {
			t.Errorf("is_active=%q: IsActive = false, want true", v)
		}
	}
}

func TestValidateRowEducation(t *testing.T) {
	tests := []struct {
		name        string
		row         NamedRow
		wantDraft   bool
		wantPresent bool
	}{
		{
			name:      "no education fields",
			row:       NamedRow{Email: "a@x.com", Name: "A", StartYear: "2010"},
			wantDraft: false,
		},
		{
			name:      "course alone attaches a draft",
			row:       NamedRow{Email: "a@x.com", Name: "A", Course: "CS"},
			wantDraft: true,
		},
		{
			name:      "degree alone attaches a draft",
			row:       NamedRow{Email: "a@x.com", Name: "A", Degree: "BSc"},
			wantDraft: true,
		},
		{
			name:        "start year without end year is ongoing",
			row:         NamedRow{Email: "a@x.com", Name: "A", School: "MIT", StartYear: "2020"},
			wantDraft:   true,
			wantPresent: true,
		},
		{
			name:      "start and end year is completed",
			row:       NamedRow{Email: "a@x.com", Name: "A", School: "MIT", StartYear: "2010", EndYear: "2014"},
			wantDraft: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ValidateRow(tt.row)
			if rowErr != nil {
				t.Fatalf("ValidateRow() error = %+v", rowErr)
			}
			if (rec.Education != nil) != tt.wantDraft {
				t.Fatalf("education draft present = %v, want %v", rec.Education != nil, tt.wantDraft)
			}
			if tt.wantDraft && rec.Education.IsPresent != tt.wantPresent {
				t.Errorf("isPresent = %v, want %v", rec.Education.IsPresent, tt.wantPresent)
			}
		})
	}
}
