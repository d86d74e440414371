package api

import "github.com/itchan-dev/postboard/shared/domain"

// Error codes returned in the "errors" array of a failed response.
const (
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodePostNotFound      = "POST_NOT_FOUND"
	CodeInvalidPagination = "INVALID_PAGINATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeEmptyUpdate       = "EMPTY_UPDATE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeUnknown           = "UNKNOWN_ERROR"
)

type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

type CreatePostRequest struct {
	UserId  string `json:"userId" validate:"required,max=64"`
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required,max=20000"`
}

// UpdatePostRequest fields are optional, absent ones are left untouched.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
}

type PostsResponse struct {
	Posts []domain.Post `json:"posts"`
	Total int           `json:"total"`
}

type ErrorResponse struct {
	Errors []string `json:"errors"`
}
