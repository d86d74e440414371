package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/itchan-dev/postboard/shared/domain"
	internal_errors "github.com/itchan-dev/postboard/shared/errors"
)

// KEYS[1] email index, KEYS[2] user hash
// ARGV[1] id, ARGV[2] email, ARGV[3] created_at
var insertUserScript = goredis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	return 0
end
redis.call('HSET', KEYS[2], 'id', ARGV[1], 'email', ARGV[2], 'created_at', ARGV[3])
return 1
`)

func (s *Storage) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	user.Id = uuid.NewString()
	inserted, err := insertUserScript.Run(ctx, s.client,
		[]string{s.userEmailKey(user.Email), s.userKey(user.Id)},
		user.Id, user.Email, formatTime(user.CreatedAt),
	).Int()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	if inserted == 0 {
		return domain.User{}, fmt.Errorf("failed to insert user: %w", internal_errors.ErrDuplicateEmail)
	}
	return user, nil
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	fields, err := s.client.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if len(fields) == 0 {
		return domain.User{}, fmt.Errorf("user %q: %w", id, internal_errors.NotFound)
	}

	createdAt, err := parseTime("created_at", fields["created_at"])
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Id: fields["id"], Email: fields["email"], CreatedAt: createdAt}, nil
}

func (s *Storage) ClearUsers(ctx context.Context) error {
	if err := s.deleteMatching(ctx, s.userEmailKey("*")); err != nil {
		return err
	}
	return s.deleteMatching(ctx, s.userKey("*"))
}
