package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/itchan-dev/postboard/backend/internal/handler"
	"github.com/itchan-dev/postboard/backend/internal/service"
	"github.com/itchan-dev/postboard/backend/internal/storage/memory"
	"github.com/itchan-dev/postboard/backend/internal/storage/pg"
	"github.com/itchan-dev/postboard/backend/internal/storage/redis"
	"github.com/itchan-dev/postboard/shared/config"
	"github.com/itchan-dev/postboard/shared/logger"
	"github.com/itchan-dev/postboard/shared/middleware/ratelimiter"
)

// Store is what every adapter under storage/ provides.
type Store interface {
	service.UserStorage
	service.PostStorage
	Ping(ctx context.Context) error
	Cleanup() error
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config            *config.Config
	Store             Store
	Handler           *handler.Handler
	CreateUserLimiter *ratelimiter.UserRateLimiter
	CreatePostLimiter *ratelimiter.UserRateLimiter
}

const limiterExpiration = 15 * time.Minute

// SetupDependencies initializes all dependencies required for the application.
// The rate limiter janitors stop when ctx is done.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	user := service.NewUser(store)
	post := service.NewPost(store)
	h := handler.New(user, post, store, cfg)

	deps := &Dependencies{
		Config:            cfg,
		Store:             store,
		Handler:           h,
		CreateUserLimiter: ratelimiter.New(cfg.Public.CreateUserRPS, cfg.Public.CreateUserBurst, limiterExpiration),
		CreatePostLimiter: ratelimiter.New(cfg.Public.CreatePostRPS, cfg.Public.CreatePostBurst, limiterExpiration),
	}
	deps.CreateUserLimiter.StartJanitor(ctx, 2*time.Minute)
	deps.CreatePostLimiter.StartJanitor(ctx, 2*time.Minute)
	return deps, nil
}

// NewStore opens the adapter selected by the store key.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	logger.Log.Info("opening store", "store", cfg.Public.Store)
	switch cfg.Public.Store {
	case config.StorePostgres:
		return pg.New(ctx, cfg)
	case config.StoreRedis:
		return redis.New(ctx, cfg)
	case config.StoreMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Public.Store)
	}
}
