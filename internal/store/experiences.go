package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

type experienceStore struct {
	db DBTX
}

const experienceColumns = `id, user_id, title, company, start_date, end_date, is_current, description`

func scanExperience(row pgx.Row) (*model.Experience, error) {
	var e model.Experience
	var start, end pgtype.Date
	var desc pgtype.Text
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &start, &end, &e.IsCurrent, &desc)
	if err != nil {
		return nil, err
	}
	e.StartDate = fromDate(start)
	e.EndDate = fromDate(end)
	e.Description = fromText(desc)
	return &e, nil
}

func (s *experienceStore) Create(ctx context.Context, userID uuid.UUID, n model.NewExperience) (*model.Experience, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO experiences (id, user_id, title, company, start_date, end_date, is_current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+experienceColumns,
		uuid.New(), userID, n.Title, n.Company, toDate(n.StartDate), toDate(n.EndDate), n.IsCurrent, toText(n.Description),
	)
	e, err := scanExperience(row)
	if err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return e, nil
}

func (s *experienceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Experience, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+experienceColumns+` FROM experiences
		WHERE user_id = $1
		ORDER BY start_date DESC NULLS LAST, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	var out []model.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *experienceStore) Update(ctx context.Context, userID, id uuid.UUID, n model.NewExperience) (*model.Experience, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE experiences SET
			title = $3, company = $4, start_date = $5, end_date = $6,
			is_current = $7, description = $8
		WHERE id = $1 AND user_id = $2
		RETURNING `+experienceColumns,
		id, userID, n.Title, n.Company, toDate(n.StartDate), toDate(n.EndDate), n.IsCurrent, toText(n.Description),
	)
	e, err := scanExperience(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	return e, nil
}

func (s *experienceStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
