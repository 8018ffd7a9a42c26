package importer

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

// ReasonDuplicate is the fixed reason for rows whose email already has an
// account.
const ReasonDuplicate = "User already exists"

// AccountDirectory is the account lookup/creation capability the executor
// needs. FindByEmail matches case-insensitively and returns (nil, nil) when
// no account exists. Injected rather than reached for globally so tests can
// run against an in-memory fake.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u model.NewUser) (*model.User, error)
}

// ProfileStore creates the profile record owned by a new account.
type ProfileStore interface {
	Create(ctx context.Context, userID uuid.UUID, p model.NewProfile) (*model.Profile, error)
}

// EducationStore creates an education record owned by a new account.
type EducationStore interface {
	Create(ctx context.Context, userID uuid.UUID, e model.NewEducation) (*model.Education, error)
}

// Executor materializes valid records into accounts, profiles, and
// education rows, one record at a time in source order. Rows are
// independent: each is reported on its own and a failure never stops the
// batch. There is deliberately no cross-entity transaction — an account
// that lands before a later step fails stays put, and the duplicate check
// makes re-uploading the fixed file safe.
type Executor struct {
	Accounts  AccountDirectory
	Profiles  ProfileStore
	Education EducationStore
}

// Import runs the whole pipeline over the uploaded file text and returns
// the per-row report. Only file-level problems (empty file, header with no
// data) surface as an error; everything row-scoped is folded into the
// report.
func (e *Executor) Import(ctx context.Context, text string) (*Report, error) {
	batch, err := Decode(text)
	if err != nil {
		return nil, err
	}

	results := make([]RowResult, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		rec, rowErr := ValidateRow(row)
		if rowErr != nil {
			results = append(results, RowResult{Err: rowErr})
			continue
		}
		results = append(results, e.ImportRecord(ctx, rec))
	}

	return Aggregate(results), nil
}

// ImportRecord performs the write sequence for one valid record:
// duplicate check, account, profile, then the optional education record.
// Steps after account creation are best-effort for reporting only — a
// profile or education failure marks the row failed but does not roll the
// account back.
func (e *Executor) ImportRecord(ctx context.Context, rec *ValidRecord) RowResult {
	existing, err := e.Accounts.FindByEmail(ctx, rec.Email)
	if err != nil {
		return rec.failed(err.Error())
	}
	if existing != nil {
		return rec.failed(ReasonDuplicate)
	}

	user, err := e.Accounts.Create(ctx, model.NewUser{
		Email:      rec.Email,
		Name:       rec.Name,
		Role:       rec.Role,
		IsActive:   rec.IsActive,
		IsVerified: rec.IsVerified,
	})
	if err != nil {
		return rec.failed(err.Error())
	}

	if _, err := e.Profiles.Create(ctx, user.ID, model.NewProfile{
		Name:  rec.Name,
		Phone: rec.Phone,
	}); err != nil {
		return rec.failed(err.Error())
	}

	educationAdded := false
	if draft := rec.Education; draft != nil {
		if _, err := e.Education.Create(ctx, user.ID, model.NewEducation{
			School:      draft.School,
			Course:      draft.Course,
			Degree:      draft.Degree,
			StartDate:   yearStart(draft.StartYear),
			EndDate:     yearStart(draft.EndYear),
			IsPresent:   draft.IsPresent,
			Description: draft.Description,
		}); err != nil {
			return rec.failed(err.Error())
		}
		educationAdded = true
	}

	return RowResult{Outcome: &ImportOutcome{
		Row:            rec.Line,
		Email:          rec.Email,
		Name:           rec.Name,
		Role:           string(rec.Role),
		IsActive:       rec.IsActive,
		IsVerified:     rec.IsVerified,
		EducationAdded: educationAdded,
	}}
}

func (rec *ValidRecord) failed(reason string) RowResult {
	return RowResult{Err: &RowError{
		Row:    rec.Line,
		Email:  rec.Email,
		Reason: reason,
	}}
}

// yearStart widens a 4-digit year string to January 1st of that year.
// Returns nil for empty or unparseable values.
func yearStart(year string) *time.Time {
	if len(year) != 4 {
		return nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}
