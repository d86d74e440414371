package handler

import (
	"context"
	"net/http"

	"github.com/itchan-dev/postboard/backend/internal/service"
	"github.com/itchan-dev/postboard/shared/config"
	"github.com/itchan-dev/postboard/shared/utils"
)

// HealthChecker is satisfied by every store adapter.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	user      service.UserService
	post      service.PostService
	health    HealthChecker
	cfg       *config.Config
	sanitizer *sanitizer
}

func New(user service.UserService, post service.PostService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		user:      user,
		post:      post,
		health:    health,
		cfg:       cfg,
		sanitizer: newSanitizer(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	utils.WriteJSON(w, status, v)
}
