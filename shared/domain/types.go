package domain

type (
	Email  = string
	UserId = string

	PostId      = string
	PostTitle   = string
	PostContent = string
)

type Pagination struct {
	Offset int
	Limit  int
}
