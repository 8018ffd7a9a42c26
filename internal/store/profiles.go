package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

type profileStore struct {
	db DBTX
}

const profileColumns = `user_id, name, phone, headline, bio, location, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	var phone, headline, bio, location pgtype.Text
	err := row.Scan(&p.UserID, &p.Name, &phone, &headline, &bio, &location, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Phone = fromText(phone)
	p.Headline = fromText(headline)
	p.Bio = fromText(bio)
	p.Location = fromText(location)
	return &p, nil
}

func (s *profileStore) Create(ctx context.Context, userID uuid.UUID, n model.NewProfile) (*model.Profile, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO profiles (user_id, name, phone, updated_at)
		VALUES ($1, $2, $3, now())
		RETURNING `+profileColumns,
		userID, n.Name, toText(n.Phone),
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (s *profileStore) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *profileStore) Update(ctx context.Context, userID uuid.UUID, u model.ProfileUpdate) (*model.Profile, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE profiles SET
			name       = COALESCE($2, name),
			phone      = COALESCE($3, phone),
			headline   = COALESCE($4, headline),
			bio        = COALESCE($5, bio),
			location   = COALESCE($6, location),
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+profileColumns,
		userID, u.Name, u.Phone, u.Headline, u.Bio, u.Location,
	)
	p, err := scanProfile(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
