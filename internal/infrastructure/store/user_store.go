package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/multimart/internal/user"
)

const userColumns = `id, email, password_hash, full_name, phone, address, role, status, created_at`

// UserStore persists user accounts in PostgreSQL.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Insert(ctx context.Context, u *user.User) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, address, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, u.Address, u.Role, u.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	where := ""
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		and(fmt.Sprintf("(email ILIKE %s OR full_name ILIKE %s)", p, p))
	}
	if filter.Role != "" {
		and("role = " + arg(filter.Role))
	}
	if filter.Status != "" {
		and("status = " + arg(filter.Status))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users%s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		where, arg(filter.Page.Limit), arg(filter.Page.Offset()))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res, user.ErrUserNotFound)
}

func (s *UserStore) UpdateProfile(ctx context.Context, id int64, fullName, phone, address string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET full_name = $1, phone = $2, address = $3 WHERE id = $4`,
		fullName, phone, address, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res, user.ErrUserNotFound)
}

func (s *UserStore) UpdateRole(ctx context.Context, id int64, role string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return requireRow(res, user.ErrUserNotFound)
}

func (s *UserStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireRow(res, user.ErrUserNotFound)
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, user.ErrUserNotFound)
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.Address, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
