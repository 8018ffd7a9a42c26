package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

type skillStore struct {
	db DBTX
}

func (s *skillStore) Add(ctx context.Context, userID uuid.UUID, name string) (*model.Skill, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO skills (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, user_id, name`,
		uuid.New(), userID, name,
	)
	var sk model.Skill
	if err := row.Scan(&sk.ID, &sk.UserID, &sk.Name); err != nil {
		return nil, fmt.Errorf("add skill: %w", err)
	}
	return &sk, nil
}

func (s *skillStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Skill, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name FROM skills WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []model.Skill
	for rows.Next() {
		var sk model.Skill
		if err := rows.Scan(&sk.ID, &sk.UserID, &sk.Name); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *skillStore) Remove(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("remove skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
