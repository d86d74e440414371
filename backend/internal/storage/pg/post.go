package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/itchan-dev/postboard/shared/domain"
	internal_errors "github.com/itchan-dev/postboard/shared/errors"
)

const postColumns = "id, creator_user_id, title, content, created_at, last_updated_at"

// =========================================================================
// Public Methods (satisfy the service.PostStorage interface)
// =========================================================================

func (s *Storage) InsertPost(ctx context.Context, post domain.Post) (domain.Post, error) {
	return s.insertPost(ctx, s.db, post)
}

// Posts lists active posts newest first; id breaks ties so pages are stable.
func (s *Storage) Posts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error) {
	return s.posts(ctx, s.db, pagination)
}

func (s *Storage) ActivePostCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM posts WHERE deleted_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (s *Storage) PostById(ctx context.Context, id domain.PostId) (domain.Post, error) {
	return s.postById(ctx, s.db, id)
}

// UpdatePost patches an active post in one statement and returns the row as
// written. NotFound means the post is missing or deleted.
func (s *Storage) UpdatePost(ctx context.Context, patch domain.PostPatch) (domain.Post, error) {
	return s.updatePost(ctx, s.db, patch)
}

// SoftDeletePost marks an active post deleted. Only one of several concurrent
// callers can see a row affected.
func (s *Storage) SoftDeletePost(ctx context.Context, id domain.PostId, deletedAt time.Time) (bool, error) {
	return s.softDeletePost(ctx, s.db, id, deletedAt)
}

func (s *Storage) ClearPosts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) insertPost(ctx context.Context, q Querier, post domain.Post) (domain.Post, error) {
	err := q.QueryRowContext(ctx, `
        INSERT INTO posts(creator_user_id, title, content, created_at, last_updated_at)
        VALUES($1, $2, $3, $4, $5)
        RETURNING id`,
		post.CreatorUserId, post.Title, post.Content, post.CreatedAt, post.LastUpdatedAt,
	).Scan(&post.Id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	post.DeletedAt = nil
	return post, nil
}

func (s *Storage) posts(ctx context.Context, q Querier, pagination domain.Pagination) ([]domain.Post, error) {
	rows, err := q.QueryContext(ctx, `
        SELECT `+postColumns+`
        FROM posts
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC, id DESC
        OFFSET $1 LIMIT $2`,
		pagination.Offset, pagination.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return posts, nil
}

func (s *Storage) postById(ctx context.Context, q Querier, id domain.PostId) (domain.Post, error) {
	if !validId(id) {
		return domain.Post{}, fmt.Errorf("post %q: %w", id, internal_errors.NotFound)
	}

	row := q.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = $1 AND deleted_at IS NULL", id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, fmt.Errorf("post %q: %w", id, internal_errors.NotFound)
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func (s *Storage) updatePost(ctx context.Context, q Querier, patch domain.PostPatch) (domain.Post, error) {
	if !validId(patch.Id) {
		return domain.Post{}, fmt.Errorf("update post %q: %w", patch.Id, internal_errors.NotFound)
	}

	row := q.QueryRowContext(ctx, `
        UPDATE posts
        SET title = COALESCE($2::text, title),
            content = COALESCE($3::text, content),
            last_updated_at = $4
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING `+postColumns,
		patch.Id, patch.Title, patch.Content, patch.LastUpdatedAt,
	)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, fmt.Errorf("update post %q: %w", patch.Id, internal_errors.NotFound)
		}
		return domain.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *Storage) softDeletePost(ctx context.Context, q Querier, id domain.PostId, deletedAt time.Time) (bool, error) {
	if !validId(id) {
		return false, nil
	}

	result, err := q.ExecContext(ctx,
		"UPDATE posts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL", id, deletedAt)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows for post deletion: %w", err)
	}
	return rowsAffected == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.Id, &post.CreatorUserId, &post.Title, &post.Content,
		&post.CreatedAt, &post.LastUpdatedAt,
	); err != nil {
		return domain.Post{}, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.LastUpdatedAt = post.LastUpdatedAt.UTC()
	return post, nil
}
