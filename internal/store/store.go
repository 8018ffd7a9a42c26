// Package store provides persistence for the membership directory.
//
// The pgx-backed implementations returned by New are what the server runs
// against; NewMemory returns map-backed equivalents used by tests and by
// anything that needs a directory without a database.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already taken (case-insensitive).
	ErrDuplicateEmail = errors.New("a member with this email already exists")
)

// ListUsersParams controls pagination and search for user listings.
type ListUsersParams struct {
	Query    string // matches name or email, case-insensitive substring
	Page     int    // 1-based
	PageSize int
}

// UserUpdate carries the editable account fields. Nil pointers leave the
// stored value unchanged.
type UserUpdate struct {
	Name       *string
	Role       *model.Role
	IsActive   *bool
	IsVerified *bool
}

// Users is the account store.
type Users interface {
	Create(ctx context.Context, u model.NewUser) (*model.User, error)
	// FindByEmail matches case-insensitively and returns (nil, nil) when
	// no account exists.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, p ListUsersParams) ([]model.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, u UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
}

// Profiles is the profile store. Every account owns at most one profile.
type Profiles interface {
	Create(ctx context.Context, userID uuid.UUID, p model.NewProfile) (*model.Profile, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, p model.ProfileUpdate) (*model.Profile, error)
}

// Experiences is the work-history store.
type Experiences interface {
	Create(ctx context.Context, userID uuid.UUID, e model.NewExperience) (*model.Experience, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Experience, error)
	Update(ctx context.Context, userID, id uuid.UUID, e model.NewExperience) (*model.Experience, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Education is the education-history store.
type Education interface {
	Create(ctx context.Context, userID uuid.UUID, e model.NewEducation) (*model.Education, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Education, error)
	Update(ctx context.Context, userID, id uuid.UUID, e model.NewEducation) (*model.Education, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Skills is the skill-tag store.
type Skills interface {
	Add(ctx context.Context, userID uuid.UUID, name string) (*model.Skill, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Skill, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

// Sessions is the bearer-token store.
type Sessions interface {
	Create(ctx context.Context, s model.Session) error
	// UserByToken resolves a live session to its user. Returns ErrNotFound
	// for unknown or expired tokens.
	UserByToken(ctx context.Context, token string) (*model.User, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Stores bundles every store behind its interface so the server and tests
// can swap the pgx and in-memory implementations wholesale.
type Stores struct {
	Users       Users
	Profiles    Profiles
	Experiences Experiences
	Education   Education
	Skills      Skills
	Sessions    Sessions
}

// New returns pgx-backed stores sharing the given connection source.
func New(db DBTX) Stores {
	return Stores{
		Users:       &userStore{db: db},
		Profiles:    &profileStore{db: db},
		Experiences: &experienceStore{db: db},
		Education:   &educationStore{db: db},
		Skills:      &skillStore{db: db},
		Sessions:    &sessionStore{db: db},
	}
}

// prefixed qualifies each column in a comma-separated list with a table
// alias, for joins that reuse a shared column list.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

// ----------------------------------------------------------------------------
// pgtype helpers
// ----------------------------------------------------------------------------

func toText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func fromText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func toDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func fromDate(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
