package domain

import "time"

type User struct {
	Id        UserId    `json:"userId"`
	Email     Email     `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserCreationErrorReason string

const (
	DuplicateEmail UserCreationErrorReason = "DUPLICATE_EMAIL"
)

// UserCreationResult is either UserCreated or UserCreationFailed.
type UserCreationResult interface {
	isUserCreationResult()
}

type UserCreated struct {
	User User
}

type UserCreationFailed struct {
	Reason UserCreationErrorReason
}

func (UserCreated) isUserCreationResult()        {}
func (UserCreationFailed) isUserCreationResult() {}

// UserLookup is either UserFound or UserNotFound.
type UserLookup interface {
	isUserLookup()
}

type UserFound struct {
	User User
}

type UserNotFound struct{}

func (UserFound) isUserLookup()    {}
func (UserNotFound) isUserLookup() {}
