// Package model defines the domain records shared by the store, the web
// layer, and the import pipeline.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a member account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a free-form role string. Anything that is not
// "admin" (case-insensitive) becomes RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User is a member account. PasswordHash is empty for accounts created by
// bulk import; those accounts cannot log in until a password is set.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Email        string
	Name         string
	Role         Role
	IsActive     bool
	IsVerified   bool
	PasswordHash string
}

// Profile is the directory-visible profile owned by a user.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Headline  string    `json:"headline,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile carries the fields needed to create a profile.
type NewProfile struct {
	Name  string
	Phone string
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// stored value unchanged.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Headline *string
	Bio      *string
	Location *string
}

// Experience is a single work-history entry on a profile.
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	Description string     `json:"description,omitempty"`
}

// NewExperience carries the fields needed to create an experience entry.
type NewExperience struct {
	Title       string
	Company     string
	StartDate   *time.Time
	EndDate     *time.Time
	IsCurrent   bool
	Description string
}

// Education is a single education entry on a profile. Dates are stored as
// first-of-year when the entry originates from a bulk import, which only
// carries 4-digit years.
type Education struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	School      string     `json:"school,omitempty"`
	Course      string     `json:"course,omitempty"`
	Degree      string     `json:"degree,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPresent   bool       `json:"is_present"`
	Description string     `json:"description,omitempty"`
}

// NewEducation carries the fields needed to create an education entry.
type NewEducation struct {
	School      string
	Course      string
	Degree      string
	StartDate   *time.Time
	EndDate     *time.Time
	IsPresent   bool
	Description string
}

// Skill is a single skill tag on a profile.
type Skill struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

// Session is an issued bearer token. Tokens are opaque; the token string is
// the natural key.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
