package handler

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/postboard/shared/config"
	"github.com/itchan-dev/postboard/shared/domain"
)

type call struct {
	method string
	args   []any
}

// recorder collects service calls in order. Each test owns its own.
type recorder struct {
	calls chan call
}

func newRecorder() *recorder {
	return &recorder{calls: make(chan call, 16)}
}

func (r *recorder) record(method string, args ...any) {
	r.calls <- call{method: method, args: args}
}

func (r *recorder) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-r.calls:
		return c
	default:
		t.Fatal("expected a service call, got none")
		return call{}
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case c := <-r.calls:
		t.Fatalf("unexpected service call %s%v", c.method, c.args)
	default:
	}
}

type MockUserService struct {
	rec         *recorder
	MockCreate  func(email domain.Email) (domain.UserCreationResult, error)
	MockFind    func(id domain.UserId) (domain.UserLookup, error)
	MockClearDb func() error
}

func (m *MockUserService) CreateUser(ctx context.Context, email domain.Email) (domain.UserCreationResult, error) {
	m.rec.record("CreateUser", email)
	if m.MockCreate != nil {
		return m.MockCreate(email)
	}
	return domain.UserCreated{User: domain.User{Id: "u1", Email: email}}, nil
}

func (m *MockUserService) FindUser(ctx context.Context, id domain.UserId) (domain.UserLookup, error) {
	m.rec.record("FindUser", id)
	if m.MockFind != nil {
		return m.MockFind(id)
	}
	return domain.UserFound{User: domain.User{Id: id}}, nil
}

func (m *MockUserService) ClearDb(ctx context.Context) error {
	m.rec.record("ClearUsers")
	if m.MockClearDb != nil {
		return m.MockClearDb()
	}
	return nil
}

type MockPostService struct {
	rec         *recorder
	MockCreate  func(data domain.PostCreationData) (domain.Post, error)
	MockList    func(pagination domain.Pagination) ([]domain.Post, error)
	MockTotal   func() (int, error)
	MockGet     func(id domain.PostId) (domain.PostLookup, error)
	MockUpdate  func(data domain.PostUpdateData) (domain.PostUpdateResult, error)
	MockDelete  func(id domain.PostId) (bool, error)
	MockClearDb func() error
}

func (m *MockPostService) CreatePost(ctx context.Context, data domain.PostCreationData) (domain.Post, error) {
	m.rec.record("CreatePost", data)
	if m.MockCreate != nil {
		return m.MockCreate(data)
	}
	return domain.Post{Id: "p1", CreatorUserId: data.CreatorUserId, Title: data.Title, Content: data.Content}, nil
}

func (m *MockPostService) GetPosts(ctx context.Context, pagination domain.Pagination) ([]domain.Post, error) {
	m.rec.record("GetPosts", pagination)
	if m.MockList != nil {
		return m.MockList(pagination)
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) GetTotalPosts(ctx context.Context) (int, error) {
	m.rec.record("GetTotalPosts")
	if m.MockTotal != nil {
		return m.MockTotal()
	}
	return 0, nil
}

func (m *MockPostService) GetPostById(ctx context.Context, id domain.PostId) (domain.PostLookup, error) {
	m.rec.record("GetPostById", id)
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.PostFound{Post: domain.Post{Id: id}}, nil
}

func (m *MockPostService) UpdatePost(ctx context.Context, data domain.PostUpdateData) (domain.PostUpdateResult, error) {
	m.rec.record("UpdatePost", data)
	if m.MockUpdate != nil {
		return m.MockUpdate(data)
	}
	return domain.PostUpdateResult{Post: domain.Post{Id: data.Id}, Applied: true}, nil
}

func (m *MockPostService) DeletePost(ctx context.Context, id domain.PostId) (bool, error) {
	m.rec.record("DeletePost", id)
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return true, nil
}

func (m *MockPostService) ClearDb(ctx context.Context) error {
	m.rec.record("ClearPosts")
	if m.MockClearDb != nil {
		return m.MockClearDb()
	}
	return nil
}

var testTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	rec    *recorder
	user   *MockUserService
	post   *MockPostService
	router chi.Router
}

func newFixture() *fixture {
	rec := newRecorder()
	f := &fixture{
		rec:  rec,
		user: &MockUserService{rec: rec},
		post: &MockPostService{rec: rec},
	}
	cfg := &config.Config{Public: config.Public{DefaultPageLimit: 10, MaxPageLimit: 50}}
	h := New(f.user, f.post, &MockHealthChecker{}, cfg)

	r := chi.NewRouter()
	r.Post("/api/users", h.CreateUser)
	r.Get("/api/users/{userId}", h.GetUser)
	r.Post("/api/posts", h.CreatePost)
	r.Get("/api/posts", h.GetPosts)
	r.Get("/api/posts/{postId}", h.GetPost)
	r.Put("/api/posts/{postId}", h.UpdatePost)
	r.Delete("/api/posts/{postId}", h.DeletePost)
	r.Post("/api/admin/reset", h.Reset)
	f.router = r
	return f
}
