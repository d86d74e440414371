// Package memory is an in-process store with the same atomicity guarantees as
// the database adapters: one mutex serialises every write, so the email index
// check and the insert, and the active check and the delete mark, happen as
// one step.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
)

type Storage struct {
	mu     sync.RWMutex
	users  map[domain.UserId]domain.User
	emails map[domain.Email]domain.UserId
	posts  map[domain.PostId]domain.Post
}

func New() *Storage {
	return &Storage{
		users:  make(map[domain.UserId]domain.User),
		emails: make(map[domain.Email]domain.UserId),
		posts:  make(map[domain.PostId]domain.Post),
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Cleanup() error {
	return nil
}

// =========================================================================
// Users
// =========================================================================

func (s *Storage) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return domain.User{}, fmt.Errorf("insert user: %w", errors.ErrDuplicateEmail)
	}
	user.Id = uuid.NewString()
	s.users[user.Id] = user
	s.emails[user.Email] = user.Id
	return user, nil
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, errors.NotFound)
	}
	return user, nil
}

func (s *Storage) ClearUsers(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.users)
	clear(s.emails)
	return nil
}

// =========================================================================
// Posts
// =========================================================================

func (s *Storage) InsertPost(ctx context.Context, post domain.Post) (domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return domain.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	post.Id = uuid.NewString()
	post.DeletedAt = nil
	s.posts[post.Id] = post
	return post, nil
}

func (s *Storage) Posts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	active := s.activePosts()
	s.mu.RUnlock()

	slices.SortFunc(active, newestFirst)

	if pagination.Offset >= len(active) {
		return []domain.Post{}, nil
	}
	end := pagination.Offset + min(pagination.Limit, len(active)-pagination.Offset)
	return active[pagination.Offset:end], nil
}

func (s *Storage) ActivePostCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.activePosts()), nil
}

func (s *Storage) PostById(ctx context.Context, id domain.PostId) (domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return domain.Post{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok || !post.IsActive() {
		return domain.Post{}, fmt.Errorf("post %s: %w", id, errors.NotFound)
	}
	return post, nil
}

func (s *Storage) UpdatePost(ctx context.Context, patch domain.PostPatch) (domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return domain.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[patch.Id]
	if !ok || !post.IsActive() {
		return domain.Post{}, fmt.Errorf("update post %s: %w", patch.Id, errors.NotFound)
	}
	post = patch.Apply(post)
	s.posts[post.Id] = post
	return post, nil
}

func (s *Storage) SoftDeletePost(ctx context.Context, id domain.PostId, deletedAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || !post.IsActive() {
		return false, nil
	}
	post.DeletedAt = &deletedAt
	s.posts[id] = post
	return true, nil
}

func (s *Storage) ClearPosts(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.posts)
	return nil
}

// activePosts must be called with s.mu held.
func (s *Storage) activePosts() []domain.Post {
	active := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

func newestFirst(a, b domain.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.Id, a.Id)
}
