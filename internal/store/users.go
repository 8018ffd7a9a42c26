package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

type userStore struct {
	db DBTX
}

const userColumns = `id, email, name, role, is_active, is_verified, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var hash, role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.IsActive, &u.IsVerified,
		&hash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.PasswordHash = hash
	return &u, nil
}

func (s *userStore) Create(ctx context.Context, n model.NewUser) (*model.User, error) {
	existing, err := s.FindByEmail(ctx, n.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, role, is_active, is_verified, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+userColumns,
		uuid.New(), n.Email, n.Name, string(n.Role), n.IsActive, n.IsVerified, n.PasswordHash,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		email,
	)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *userStore) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userStore) List(ctx context.Context, p ListUsersParams) ([]model.User, int64, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 200 {
		p.PageSize = 50
	}

	where := ""
	args := []any{}
	if q := strings.TrimSpace(p.Query); q != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+q+"%")
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limitArgs := append(args, p.PageSize, (p.Page-1)*p.PageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2,
	)

	rows, err := s.db.Query(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (s *userStore) Update(ctx context.Context, id uuid.UUID, u UserUpdate) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET
			name        = COALESCE($2, name),
			role        = COALESCE($3, role),
			is_active   = COALESCE($4, is_active),
			is_verified = COALESCE($5, is_verified),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, u.Name, roleArg(u.Role), u.IsActive, u.IsVerified,
	)
	out, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return out, nil
}

func roleArg(r *model.Role) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func (s *userStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, hash,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
