package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/postboard/backend/internal/service"
	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/domain"
)

func TestCreatePostHandler(t *testing.T) {
	requestBody := []byte(`{"userId": "u1", "title": "<b>Hello</b>", "content": "<p>Body</p><script>alert(1)</script>"}`)

	t.Run("successful request", func(t *testing.T) {
		f := newFixture()

		rr := serve(f, http.MethodPost, "/api/posts", requestBody)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "FindUser", f.rec.next(t).method)
		c := f.rec.next(t)
		assert.Equal(t, "CreatePost", c.method)
		assert.Equal(t, []any{domain.PostCreationData{
			CreatorUserId: "u1",
			Title:         "Hello",
			Content:       "<p>Body</p>",
		}}, c.args)

		var post domain.Post
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&post))
		assert.Equal(t, domain.PostId("p1"), post.Id)
	})

	t.Run("unknown creator", func(t *testing.T) {
		f := newFixture()
		f.user.MockFind = func(id domain.UserId) (domain.UserLookup, error) {
			return domain.UserNotFound{}, nil
		}

		rr := serve(f, http.MethodPost, "/api/posts", requestBody)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{api.CodeUserNotFound}, decodeErrors(t, rr))
		assert.Equal(t, "FindUser", f.rec.next(t).method)
		f.rec.expectNone(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		tests := []struct {
			body     string
			expected string
		}{
			{body: `{"title": "t", "content": "c"}`, expected: "INVALID_USER_ID"},
			{body: `{"userId": "u1", "content": "c"}`, expected: "INVALID_TITLE"},
			{body: `{"userId": "u1", "title": "t"}`, expected: "INVALID_CONTENT"},
			{body: `{"userId": "u1", "title": "<b></b>", "content": "c"}`, expected: "INVALID_TITLE"},
		}
		for _, tt := range tests {
			f := newFixture()

			rr := serve(f, http.MethodPost, "/api/posts", []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, rr.Code, tt.body)
			assert.Equal(t, []string{tt.expected}, decodeErrors(t, rr), tt.body)
			f.rec.expectNone(t)
		}
	})
}

func TestGetPostsHandler(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := newFixture()
		f.post.MockTotal = func() (int, error) { return 0, nil }

		rr := serve(f, http.MethodGet, "/api/posts", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"posts":[],"total":0}`, rr.Body.String())
		assert.Equal(t, []any{domain.Pagination{Offset: 0, Limit: 10}}, f.rec.next(t).args)
		assert.Equal(t, "GetTotalPosts", f.rec.next(t).method)
	})

	t.Run("explicit window", func(t *testing.T) {
		f := newFixture()
		f.post.MockList = func(pagination domain.Pagination) ([]domain.Post, error) {
			return []domain.Post{{Id: "p4", Title: "P4", CreatedAt: testTime, LastUpdatedAt: testTime}}, nil
		}
		f.post.MockTotal = func() (int, error) { return 4, nil }

		rr := serve(f, http.MethodGet, "/api/posts?offset=3&limit=1", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var body api.PostsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, 4, body.Total)
		require.Len(t, body.Posts, 1)
		assert.Equal(t, domain.PostId("p4"), body.Posts[0].Id)
		assert.Equal(t, []any{domain.Pagination{Offset: 3, Limit: 1}}, f.rec.next(t).args)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		for _, query := range []string{"offset=-1", "offset=x", "limit=0", "limit=51", "limit=ten"} {
			f := newFixture()

			rr := serve(f, http.MethodGet, "/api/posts?"+query, nil)

			assert.Equal(t, http.StatusBadRequest, rr.Code, query)
			assert.Equal(t, []string{api.CodeInvalidPagination}, decodeErrors(t, rr), query)
			f.rec.expectNone(t)
		}
	})

	t.Run("service error", func(t *testing.T) {
		f := newFixture()
		f.post.MockTotal = func() (int, error) { return 0, errors.New("timeout") }

		rr := serve(f, http.MethodGet, "/api/posts", nil)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetPostHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture()

		rr := serve(f, http.MethodGet, "/api/posts/p9", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []any{domain.PostId("p9")}, f.rec.next(t).args)
		assert.NotContains(t, rr.Body.String(), "deleted")
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.post.MockGet = func(id domain.PostId) (domain.PostLookup, error) {
			return domain.PostNotFound{}, nil
		}

		rr := serve(f, http.MethodGet, "/api/posts/p9", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, []string{api.CodePostNotFound}, decodeErrors(t, rr))
	})
}

func TestUpdatePostHandler(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		f := newFixture()

		rr := serve(f, http.MethodPut, "/api/posts/p1", []byte(`{"content": "new body"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		c := f.rec.next(t)
		require.Len(t, c.args, 1)
		data := c.args[0].(domain.PostUpdateData)
		assert.Equal(t, domain.PostId("p1"), data.Id)
		assert.Nil(t, data.Title)
		require.NotNil(t, data.Content)
		assert.Equal(t, "new body", *data.Content)
	})

	t.Run("not applied", func(t *testing.T) {
		f := newFixture()
		f.post.MockUpdate = func(data domain.PostUpdateData) (domain.PostUpdateResult, error) {
			return domain.PostUpdateResult{Post: domain.Post{Id: data.Id}, Applied: false}, nil
		}

		rr := serve(f, http.MethodPut, "/api/posts/gone", []byte(`{"title": "x"}`))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, []string{api.CodePostNotFound}, decodeErrors(t, rr))
	})

	t.Run("empty update", func(t *testing.T) {
		f := newFixture()
		f.post.MockUpdate = func(data domain.PostUpdateData) (domain.PostUpdateResult, error) {
			return domain.PostUpdateResult{}, service.ErrEmptyUpdate
		}

		rr := serve(f, http.MethodPut, "/api/posts/p1", []byte(`{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{api.CodeEmptyUpdate}, decodeErrors(t, rr))
	})

	t.Run("empty title", func(t *testing.T) {
		f := newFixture()

		rr := serve(f, http.MethodPut, "/api/posts/p1", []byte(`{"title": ""}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{"INVALID_TITLE"}, decodeErrors(t, rr))
		f.rec.expectNone(t)
	})
}

func TestDeletePostHandler(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture()

		rr := serve(f, http.MethodDelete, "/api/posts/p1", nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, []any{domain.PostId("p1")}, f.rec.next(t).args)
	})

	t.Run("already deleted", func(t *testing.T) {
		f := newFixture()
		f.post.MockDelete = func(id domain.PostId) (bool, error) { return false, nil }

		rr := serve(f, http.MethodDelete, "/api/posts/p1", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, []string{api.CodePostNotFound}, decodeErrors(t, rr))
	})
}

func TestResetHandler(t *testing.T) {
	f := newFixture()

	rr := serve(f, http.MethodPost, "/api/admin/reset", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "ClearPosts", f.rec.next(t).method)
	assert.Equal(t, "ClearUsers", f.rec.next(t).method)
	f.rec.expectNone(t)
}
