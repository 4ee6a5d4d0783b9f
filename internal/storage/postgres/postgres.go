package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	db *sqlx.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sqlx.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveUser(ctx context.Context, email, name string, passHash []byte) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `INSERT INTO users (email, name, pass_hash) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, email, name, passHash).Scan(&id)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.User"

	query := `SELECT id, email, name, pass_hash, created_at, updated_at FROM users WHERE email = $1`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT id, email, name, pass_hash, created_at, updated_at FROM users WHERE id = $1`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UpdateUserName(ctx context.Context, id int64, name string) (models.User, error) {
	const op = "storage.postgres.UpdateUserName"

	query := `UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2
		RETURNING id, email, name, pass_hash, created_at, updated_at`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, name, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// DeleteUser removes the user; polls and votes go with it through ON DELETE
// CASCADE. It reports which polls were affected.
func (s *Storage) DeleteUser(ctx context.Context, id int64) (storage.DeletedUser, error) {
	const op = "storage.postgres.DeleteUser"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storage.DeletedUser{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var deleted storage.DeletedUser
	if err := tx.SelectContext(ctx, &deleted.AuthoredPolls,
		`SELECT id FROM polls WHERE author_id = $1 ORDER BY id`, id); err != nil {
		return storage.DeletedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.SelectContext(ctx, &deleted.VotedPolls,
		`SELECT DISTINCT v.poll_id
		FROM votes v
		JOIN polls p ON p.id = v.poll_id
		WHERE v.user_id = $1 AND p.author_id <> $1
		ORDER BY v.poll_id`, id); err != nil {
		return storage.DeletedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storage.DeletedUser{}, fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.DeletedUser{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	if err := tx.Commit(); err != nil {
		return storage.DeletedUser{}, fmt.Errorf("%s: commit: %w", op, err)
	}

	return deleted, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
