package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/utils"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body api.CreateUserRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := h.user.CreateUser(r.Context(), domain.Email(body.Email))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	switch res := result.(type) {
	case domain.UserCreated:
		writeJSON(w, http.StatusCreated, res.User)
	case domain.UserCreationFailed:
		// duplicate emails are reported the same way as malformed ones
		utils.WriteErrorAndStatusCode(w, errors.BadRequest(api.CodeInvalidEmail))
	default:
		utils.WriteErrorAndStatusCode(w, fmt.Errorf("unexpected user creation result %T", result))
	}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	lookup, err := h.user.FindUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	switch res := lookup.(type) {
	case domain.UserFound:
		writeJSON(w, http.StatusOK, res.User)
	case domain.UserNotFound:
		utils.WriteErrorAndStatusCode(w, errors.NotFoundError(api.CodeUserNotFound))
	default:
		utils.WriteErrorAndStatusCode(w, fmt.Errorf("unexpected user lookup %T", lookup))
	}
}
