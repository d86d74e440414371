package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/postboard/shared/domain"
	internal_errors "github.com/itchan-dev/postboard/shared/errors"
)

const usersEmailConstraint = "users_email_key"

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// InsertUser relies on the users_email_key constraint alone; a concurrent
// insert of the same email fails inside postgres and surfaces as
// ErrDuplicateEmail.
func (s *Storage) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	return s.insertUser(ctx, s.db, user)
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	return s.userById(ctx, s.db, id)
}

func (s *Storage) ClearUsers(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) insertUser(ctx context.Context, q Querier, user domain.User) (domain.User, error) {
	err := q.QueryRowContext(ctx,
		"INSERT INTO users(email, created_at) VALUES($1, $2) RETURNING id",
		user.Email, user.CreatedAt,
	).Scan(&user.Id)
	if err != nil {
		if isUniqueViolation(err, usersEmailConstraint) {
			return domain.User{}, fmt.Errorf("failed to insert user: %w", internal_errors.ErrDuplicateEmail)
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(ctx context.Context, q Querier, id domain.UserId) (domain.User, error) {
	if !validId(id) {
		return domain.User{}, fmt.Errorf("user %q: %w", id, internal_errors.NotFound)
	}

	var user domain.User
	err := q.QueryRowContext(ctx,
		"SELECT id, email, created_at FROM users WHERE id = $1", id,
	).Scan(&user.Id, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %q: %w", id, internal_errors.NotFound)
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
