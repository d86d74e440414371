package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/postboard/backend/internal/service"
	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/domain"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/utils"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	title := h.sanitizer.Title(body.Title)
	content := h.sanitizer.Content(body.Content)
	if title == "" {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest(utils.InvalidFieldCode("title")))
		return
	}
	if content == "" {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest(utils.InvalidFieldCode("content")))
		return
	}

	lookup, err := h.user.FindUser(r.Context(), body.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if _, ok := lookup.(domain.UserFound); !ok {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest(api.CodeUserNotFound))
		return
	}

	post, err := h.post.CreatePost(r.Context(), domain.PostCreationData{
		CreatorUserId: body.UserId,
		Title:         title,
		Content:       content,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	pagination, err := h.parsePagination(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	posts, err := h.post.GetPosts(r.Context(), pagination)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	total, err := h.post.GetTotalPosts(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PostsResponse{Posts: posts, Total: total})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	lookup, err := h.post.GetPostById(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	switch res := lookup.(type) {
	case domain.PostFound:
		writeJSON(w, http.StatusOK, res.Post)
	case domain.PostNotFound:
		utils.WriteErrorAndStatusCode(w, errors.NotFoundError(api.CodePostNotFound))
	default:
		utils.WriteErrorAndStatusCode(w, fmt.Errorf("unexpected post lookup %T", lookup))
	}
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var body api.UpdatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	data := domain.PostUpdateData{Id: chi.URLParam(r, "postId")}
	if body.Title != nil {
		title := h.sanitizer.Title(*body.Title)
		if title == "" {
			utils.WriteErrorAndStatusCode(w, errors.BadRequest(utils.InvalidFieldCode("title")))
			return
		}
		data.Title = &title
	}
	if body.Content != nil {
		content := h.sanitizer.Content(*body.Content)
		if content == "" {
			utils.WriteErrorAndStatusCode(w, errors.BadRequest(utils.InvalidFieldCode("content")))
			return
		}
		data.Content = &content
	}

	result, err := h.post.UpdatePost(r.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrEmptyUpdate) {
			err = errors.BadRequest(api.CodeEmptyUpdate)
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if !result.Applied {
		utils.WriteErrorAndStatusCode(w, errors.NotFoundError(api.CodePostNotFound))
		return
	}
	writeJSON(w, http.StatusOK, result.Post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.post.DeletePost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if !deleted {
		utils.WriteErrorAndStatusCode(w, errors.NotFoundError(api.CodePostNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
