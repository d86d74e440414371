package service

import (
	"context"
	"time"

	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/logger"
)

// to mock service in tests
type UserService interface {
	CreateUser(ctx context.Context, email domain.Email) (domain.UserCreationResult, error)
	FindUser(ctx context.Context, id domain.UserId) (domain.UserLookup, error)
	ClearDb(ctx context.Context) error
}

// UserStorage is the store side of user creation. InsertUser must be a single
// constrained insert: it returns errors.ErrDuplicateEmail (possibly wrapped)
// when the unique email index rejects the record.
type UserStorage interface {
	InsertUser(ctx context.Context, user domain.User) (domain.User, error)
	UserById(ctx context.Context, id domain.UserId) (domain.User, error)
	ClearUsers(ctx context.Context) error
}

type User struct {
	storage UserStorage
	now     func() time.Time
}

func NewUser(storage UserStorage) *User {
	return &User{storage: storage, now: time.Now}
}

// CreateUser never looks the email up before inserting. Concurrent callers
// race at the store and the loser gets UserCreationFailed.
func (u *User) CreateUser(ctx context.Context, email domain.Email) (domain.UserCreationResult, error) {
	user, err := u.storage.InsertUser(ctx, domain.User{Email: email, CreatedAt: timestamp(u.now)})
	if err != nil {
		if errors.IsDuplicateEmail(err) {
			logger.Log.Debug("user creation rejected", "reason", domain.DuplicateEmail)
			userCreations.WithLabelValues(string(domain.DuplicateEmail)).Inc()
			return domain.UserCreationFailed{Reason: domain.DuplicateEmail}, nil
		}
		return nil, err
	}
	userCreations.WithLabelValues("created").Inc()
	return domain.UserCreated{User: user}, nil
}

func (u *User) FindUser(ctx context.Context, id domain.UserId) (domain.UserLookup, error) {
	user, err := u.storage.UserById(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.UserNotFound{}, nil
		}
		return nil, err
	}
	return domain.UserFound{User: user}, nil
}

func (u *User) ClearDb(ctx context.Context) error {
	return u.storage.ClearUsers(ctx)
}

// timestamp is the single source of record times: UTC with microsecond
// precision, which every store round-trips unchanged.
func timestamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}
