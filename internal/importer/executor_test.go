package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
)

func newExecutor(t *testing.T) (*Executor, store.Stores) {
	t.Helper()
	stores := store.NewMemory()
	return &Executor{
		Accounts:  stores.Users,
		Profiles:  stores.Profiles,
		Education: stores.Education,
	}, stores
}

const importHeader = "email,name,phone,role,is_active,is_verified,school,course,degree,start_year,end_year,education_description\n"

func TestImportEndToEnd(t *testing.T) {
	exec, stores := newExecutor(t)
	ctx := context.Background()

	// Seed the duplicate with a different email casing to exercise the
	// case-insensitive match.
	if _, err := stores.Users.Create(ctx, model.NewUser{
		Email: "Existing@Example.com", Name: "Already Here", Role: model.RoleUser, IsActive: true,
	}); err != nil {
		t.Fatal(err)
	}

	text := importHeader +
		"new@example.com,New Member,+27 82 000 0000,user,true,true,Wits,CS,BSc,2015,2018,Honours\n" +
		"existing@example.com,Someone Else,,,,,,,,,,\n" +
		",No Email,,,,,,,,,,\n"

	report, err := exec.Import(ctx, text)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if report.Summary.Total != 3 {
		t.Errorf("total = %d, want 3", report.Summary.Total)
	}
	if report.Summary.Successful != 1 || report.Summary.Failed != 2 {
		t.Errorf("summary = %d/%d, want 1/2", report.Summary.Successful, report.Summary.Failed)
	}
	if report.Summary.Total != report.Summary.Successful+report.Summary.Failed {
		t.Errorf("summary does not add up: %+v", report.Summary)
	}
	if want := "Import completed: 1 successful, 2 errors"; report.Message != want {
		t.Errorf("message = %q, want %q", report.Message, want)
	}

	if len(report.Success) != 1 {
		t.Fatalf("success rows = %d, want 1", len(report.Success))
	}
	ok := report.Success[0]
	if ok.Row != 2 || ok.Email != "new@example.com" || !ok.EducationAdded {
		t.Errorf("success row = %+v", ok)
	}

	if len(report.Errors) != 2 {
		t.Fatalf("error rows = %d, want 2", len(report.Errors))
	}
	if report.Errors[0].Row != 3 || report.Errors[0].Reason != ReasonDuplicate {
		t.Errorf("error[0] = %+v, want row 3 duplicate", report.Errors[0])
	}
	if report.Errors[1].Row != 4 || report.Errors[1].Reason != ReasonMissingRequired {
		t.Errorf("error[1] = %+v, want row 4 missing fields", report.Errors[1])
	}
	if report.Errors[1].Email != "N/A" {
		t.Errorf("error[1] email = %q, want N/A", report.Errors[1].Email)
	}

	// The successful row landed its account, profile, and education record.
	u, err := stores.Users.FindByEmail(ctx, "new@example.com")
	if err != nil || u == nil {
		t.Fatalf("imported account missing: %v", err)
	}
	if !u.IsActive || !u.IsVerified || u.Role != model.RoleUser {
		t.Errorf("imported account = %+v", u)
	}
	if _, err := stores.Profiles.Get(ctx, u.ID); err != nil {
		t.Errorf("imported profile missing: %v", err)
	}
	edu, err := stores.Education.ListByUser(ctx, u.ID)
	if err != nil || len(edu) != 1 {
		t.Fatalf("education rows = %d (%v), want 1", len(edu), err)
	}
	if edu[0].School != "Wits" || edu[0].IsPresent {
		t.Errorf("education = %+v", edu[0])
	}
	if edu[0].StartDate == nil || edu[0].StartDate.Year() != 2015 {
		t.Errorf("start date = %v, want 2015-01-01", edu[0].StartDate)
	}
}

// Re-uploading the same file must not duplicate anyone: every row that
// succeeded the first time fails the second time as an existing user.
func TestImportIsIdempotent(t *testing.T) {
	exec, stores := newExecutor(t)
	ctx := context.Background()

	text := importHeader +
		"a@example.com,Alice,,,,,,,,,,\n" +
		"b@example.com,Bob,,,,,,,,,,\n"

	first, err := exec.Import(ctx, text)
	if err != nil {
		t.Fatalf("first Import() error = %v", err)
	}
	if first.Summary.Successful != 2 {
		t.Fatalf("first run successful = %d, want 2", first.Summary.Successful)
	}

	second, err := exec.Import(ctx, text)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if second.Summary.Successful != 0 || second.Summary.Failed != 2 {
		t.Errorf("second run summary = %+v", second.Summary)
	}
	for _, e := range second.Errors {
		if e.Reason != ReasonDuplicate {
			t.Errorf("row %d reason = %q, want %q", e.Row, e.Reason, ReasonDuplicate)
		}
	}

	users, total, err := stores.Users.List(ctx, store.ListUsersParams{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("directory has %d users, want 2", total)
	}
}

func TestImportFailuresDoNotStopTheBatch(t *testing.T) {
	exec, _ := newExecutor(t)

	text := importHeader +
		",First Broken,,,,,,,,,,\n" +
		"good@example.com,Good Row,,,,,,,,,,\n" +
		",Second Broken,,,,,,,,,,\n"

	report, err := exec.Import(context.Background(), text)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Summary.Successful != 1 || report.Summary.Failed != 2 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Success[0].Row != 3 {
		t.Errorf("good row = %d, want 3", report.Success[0].Row)
	}
}

type failingProfiles struct{}

func (failingProfiles) Create(context.Context, uuid.UUID, model.NewProfile) (*model.Profile, error) {
	return nil, errors.New("profiles table unavailable")
}

// A profile failure marks the row failed but leaves the already-created
// account in place. The duplicate check then makes the re-upload report the
// row as existing rather than creating a second account.
func TestImportProfileFailureLeavesAccount(t *testing.T) {
	stores := store.NewMemory()
	exec := &Executor{
		Accounts:  stores.Users,
		Profiles:  failingProfiles{},
		Education: stores.Education,
	}
	ctx := context.Background()

	text := importHeader + "half@example.com,Half Done,,,,,,,,,,\n"

	report, err := exec.Import(ctx, text)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Summary.Failed != 1 {
		t.Fatalf("failed = %d, want 1", report.Summary.Failed)
	}
	if !strings.Contains(report.Errors[0].Reason, "profiles table unavailable") {
		t.Errorf("reason = %q", report.Errors[0].Reason)
	}

	u, err := stores.Users.FindByEmail(ctx, "half@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u == nil {
		t.Fatal("account was rolled back; partial writes should stay")
	}

	retry, err := exec.Import(ctx, text)
	if err != nil {
		t.Fatal(err)
	}
	if retry.Errors[0].Reason != ReasonDuplicate {
		t.Errorf("retry reason = %q, want %q", retry.Errors[0].Reason, ReasonDuplicate)
	}
}

func TestImportFileLevelErrors(t *testing.T) {
	exec, _ := newExecutor(t)

	if _, err := exec.Import(context.Background(), ""); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty upload error = %v, want %v", err, ErrEmptyFile)
	}
	if _, err := exec.Import(context.Background(), importHeader); !errors.Is(err, ErrNoDataRows) {
		t.Errorf("header-only upload error = %v, want %v", err, ErrNoDataRows)
	}
}

// The downloadable template must decode cleanly and import its example rows.
func TestTemplateImportsCleanly(t *testing.T) {
	exec, _ := newExecutor(t)

	report, err := exec.Import(context.Background(), Template())
	if err != nil {
		t.Fatalf("Import(Template()) error = %v", err)
	}
	if report.Summary.Total != 2 || report.Summary.Successful != 2 {
		t.Errorf("summary = %+v, want 2 successful example rows", report.Summary)
	}
	if !report.Success[0].EducationAdded {
		t.Errorf("first example row should carry an education record")
	}
}
