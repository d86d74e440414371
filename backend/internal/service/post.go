package service

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/logger"
)

var ErrEmptyUpdate = stderrors.New("post update must set title or content")

type PostService interface {
	CreatePost(ctx context.Context, data domain.PostCreationData) (domain.Post, error)
	GetPosts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error)
	GetTotalPosts(ctx context.Context) (int, error)
	GetPostById(ctx context.Context, id domain.PostId) (domain.PostLookup, error)
	UpdatePost(ctx context.Context, data domain.PostUpdateData) (domain.PostUpdateResult, error)
	DeletePost(ctx context.Context, id domain.PostId) (bool, error)
	ClearDb(ctx context.Context) error
}

// PostStorage only ever returns active posts. UpdatePost and SoftDeletePost
// must match "id AND not deleted" in the same atomic write that modifies the
// record.
type PostStorage interface {
	InsertPost(ctx context.Context, post domain.Post) (domain.Post, error)
	Posts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error)
	ActivePostCount(ctx context.Context) (int, error)
	PostById(ctx context.Context, id domain.PostId) (domain.Post, error)
	UpdatePost(ctx context.Context, patch domain.PostPatch) (domain.Post, error)
	SoftDeletePost(ctx context.Context, id domain.PostId, deletedAt time.Time) (bool, error)
	ClearPosts(ctx context.Context) error
}

type Post struct {
	storage PostStorage
	now     func() time.Time
}

func NewPost(storage PostStorage) *Post {
	return &Post{storage: storage, now: time.Now}
}

func (p *Post) CreatePost(ctx context.Context, data domain.PostCreationData) (domain.Post, error) {
	now := timestamp(p.now)
	return p.storage.InsertPost(ctx, domain.Post{
		CreatorUserId: data.CreatorUserId,
		Title:         data.Title,
		Content:       data.Content,
		CreatedAt:     now,
		LastUpdatedAt: now,
	})
}

// GetPosts returns active posts newest first. The result is never nil.
func (p *Post) GetPosts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error) {
	pagination.Offset = max(0, pagination.Offset)
	if pagination.Limit <= 0 {
		return []domain.Post{}, nil
	}
	// Offset+Limit must fit in an int for every store.
	pagination.Limit = min(pagination.Limit, math.MaxInt-pagination.Offset)

	posts, err := p.storage.Posts(ctx, pagination)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (p *Post) GetTotalPosts(ctx context.Context) (int, error) {
	return p.storage.ActivePostCount(ctx)
}

func (p *Post) GetPostById(ctx context.Context, id domain.PostId) (domain.PostLookup, error) {
	post, err := p.storage.PostById(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.PostNotFound{}, nil
		}
		return nil, err
	}
	return domain.PostFound{Post: post}, nil
}

// UpdatePost applies the supplied fields to an active post. When nothing
// matched, the attempted merge is returned with Applied set to false.
func (p *Post) UpdatePost(ctx context.Context, data domain.PostUpdateData) (domain.PostUpdateResult, error) {
	if data.IsEmpty() {
		return domain.PostUpdateResult{}, ErrEmptyUpdate
	}

	patch := domain.PostPatch{PostUpdateData: data, LastUpdatedAt: timestamp(p.now)}
	post, err := p.storage.UpdatePost(ctx, patch)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Debug("post update matched nothing", "post_id", data.Id)
			return domain.PostUpdateResult{Post: patch.Apply(domain.Post{Id: data.Id}), Applied: false}, nil
		}
		return domain.PostUpdateResult{}, err
	}
	return domain.PostUpdateResult{Post: post, Applied: true}, nil
}

// DeletePost reports true only for the call that moved the post from active
// to deleted.
func (p *Post) DeletePost(ctx context.Context, id domain.PostId) (bool, error) {
	deleted, err := p.storage.SoftDeletePost(ctx, id, timestamp(p.now))
	if err != nil {
		return false, err
	}
	if deleted {
		postDeletions.WithLabelValues("deleted").Inc()
	} else {
		postDeletions.WithLabelValues("noop").Inc()
	}
	return deleted, nil
}

func (p *Post) ClearDb(ctx context.Context) error {
	return p.storage.ClearPosts(ctx)
}
