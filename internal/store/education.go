package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

type educationStore struct {
	db DBTX
}

const educationColumns = `id, user_id, school, course, degree, start_date, end_date, is_present, description`

func scanEducation(row pgx.Row) (*model.Education, error) {
	var e model.Education
	var school, course, degree, desc pgtype.Text
	var start, end pgtype.Date
	err := row.Scan(&e.ID, &e.UserID, &school, &course, &degree, &start, &end, &e.IsPresent, &desc)
	if err != nil {
		return nil, err
	}
	e.School = fromText(school)
	e.Course = fromText(course)
	e.Degree = fromText(degree)
	e.StartDate = fromDate(start)
	e.EndDate = fromDate(end)
	e.Description = fromText(desc)
	return &e, nil
}

func (s *educationStore) Create(ctx context.Context, userID uuid.UUID, n model.NewEducation) (*model.Education, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO education (id, user_id, school, course, degree, start_date, end_date, is_present, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+educationColumns,
		uuid.New(), userID, toText(n.School), toText(n.Course), toText(n.Degree),
		toDate(n.StartDate), toDate(n.EndDate), n.IsPresent, toText(n.Description),
	)
	e, err := scanEducation(row)
	if err != nil {
		return nil, fmt.Errorf("create education: %w", err)
	}
	return e, nil
}

func (s *educationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Education, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+educationColumns+` FROM education
		WHERE user_id = $1
		ORDER BY start_date DESC NULLS LAST, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	var out []model.Education
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *educationStore) Update(ctx context.Context, userID, id uuid.UUID, n model.NewEducation) (*model.Education, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE education SET
			school = $3, course = $4, degree = $5, start_date = $6,
			end_date = $7, is_present = $8, description = $9
		WHERE id = $1 AND user_id = $2
		RETURNING `+educationColumns,
		id, userID, toText(n.School), toText(n.Course), toText(n.Degree),
		toDate(n.StartDate), toDate(n.EndDate), n.IsPresent, toText(n.Description),
	)
	e, err := scanEducation(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update education: %w", err)
	}
	return e, nil
}

func (s *educationStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM education WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete education: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
