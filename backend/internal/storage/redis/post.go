package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/itchan-dev/postboard/shared/domain"
	internal_errors "github.com/itchan-dev/postboard/shared/errors"
)

// KEYS[1] post hash
// ARGV[1] last_updated_at, ARGV[2] title set?, ARGV[3] title, ARGV[4] content set?, ARGV[5] content
var updatePostScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
local deleted = redis.call('HGET', KEYS[1], 'deleted_at')
if deleted and deleted ~= '' then
	return false
end
if ARGV[2] == '1' then
	redis.call('HSET', KEYS[1], 'title', ARGV[3])
end
if ARGV[4] == '1' then
	redis.call('HSET', KEYS[1], 'content', ARGV[5])
end
redis.call('HSET', KEYS[1], 'last_updated_at', ARGV[1])
return redis.call('HGETALL', KEYS[1])
`)

// KEYS[1] active set, KEYS[2] post hash
// ARGV[1] id, ARGV[2] deleted_at
var softDeletePostScript = goredis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[2], 'deleted_at', ARGV[2])
return 1
`)

func (s *Storage) InsertPost(ctx context.Context, post domain.Post) (domain.Post, error) {
	post.Id = uuid.NewString()
	post.DeletedAt = nil

	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.postKey(post.Id), map[string]any{
			"id":              post.Id,
			"creator_user_id": post.CreatorUserId,
			"title":           post.Title,
			"content":         post.Content,
			"created_at":      formatTime(post.CreatedAt),
			"last_updated_at": formatTime(post.LastUpdatedAt),
			"deleted_at":      "",
		})
		pipe.ZAdd(ctx, s.activePostsKey(), goredis.Z{Score: score(post.CreatedAt), Member: post.Id})
		return nil
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

// Posts reads a window of the active set newest first. Equal scores come
// back in reverse id order, which keeps repeated reads stable.
func (s *Storage) Posts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error) {
	start := int64(pagination.Offset)
	stop := int64(-1) // through the last member
	if int64(pagination.Limit) <= math.MaxInt64-start {
		stop = start + int64(pagination.Limit) - 1
	}
	ids, err := s.client.ZRevRange(ctx, s.activePostsKey(), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	posts := []domain.Post{}
	if len(ids) == 0 {
		return posts, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.postKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // cleared between the two reads
		}
		post, err := decodePost(fields)
		if err != nil {
			return nil, err
		}
		if post.IsActive() {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Storage) ActivePostCount(ctx context.Context) (int, error) {
	count, err := s.client.ZCard(ctx, s.activePostsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return int(count), nil
}

func (s *Storage) PostById(ctx context.Context, id domain.PostId) (domain.Post, error) {
	fields, err := s.client.HGetAll(ctx, s.postKey(id)).Result()
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	if len(fields) == 0 {
		return domain.Post{}, fmt.Errorf("post %q: %w", id, internal_errors.NotFound)
	}
	post, err := decodePost(fields)
	if err != nil {
		return domain.Post{}, err
	}
	if !post.IsActive() {
		return domain.Post{}, fmt.Errorf("post %q: %w", id, internal_errors.NotFound)
	}
	return post, nil
}

func (s *Storage) UpdatePost(ctx context.Context, patch domain.PostPatch) (domain.Post, error) {
	titleSet, title := optional(patch.Title)
	contentSet, content := optional(patch.Content)

	reply, err := updatePostScript.Run(ctx, s.client, []string{s.postKey(patch.Id)},
		formatTime(patch.LastUpdatedAt), titleSet, title, contentSet, content,
	).Slice()
	if err != nil {
		if stderrors.Is(err, goredis.Nil) {
			return domain.Post{}, fmt.Errorf("update post %q: %w", patch.Id, internal_errors.NotFound)
		}
		return domain.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	fields := make(map[string]string, len(reply)/2)
	for i := 0; i+1 < len(reply); i += 2 {
		k, _ := reply[i].(string)
		v, _ := reply[i+1].(string)
		fields[k] = v
	}
	return decodePost(fields)
}

func (s *Storage) SoftDeletePost(ctx context.Context, id domain.PostId, deletedAt time.Time) (bool, error) {
	deleted, err := softDeletePostScript.Run(ctx, s.client,
		[]string{s.activePostsKey(), s.postKey(id)},
		id, formatTime(deletedAt),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	return deleted == 1, nil
}

func (s *Storage) ClearPosts(ctx context.Context) error {
	if err := s.client.Del(ctx, s.activePostsKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear active posts: %w", err)
	}
	return s.deleteMatching(ctx, s.postKey("*"))
}

func decodePost(fields map[string]string) (domain.Post, error) {
	createdAt, err := parseTime("created_at", fields["created_at"])
	if err != nil {
		return domain.Post{}, err
	}
	lastUpdatedAt, err := parseTime("last_updated_at", fields["last_updated_at"])
	if err != nil {
		return domain.Post{}, err
	}
	post := domain.Post{
		Id:            fields["id"],
		CreatorUserId: fields["creator_user_id"],
		Title:         fields["title"],
		Content:       fields["content"],
		CreatedAt:     createdAt,
		LastUpdatedAt: lastUpdatedAt,
	}
	if v := fields["deleted_at"]; v != "" {
		deletedAt, err := parseTime("deleted_at", v)
		if err != nil {
			return domain.Post{}, err
		}
		post.DeletedAt = &deletedAt
	}
	return post, nil
}

// score orders the active set by creation time. Microseconds since the epoch
// stay well inside float64's exact integer range.
func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func optional(v *string) (string, string) {
	if v == nil {
		return "0", ""
	}
	return "1", *v
}
