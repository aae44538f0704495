// Package domain contains entity types without logic, just meta-data.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

type UserID string

// User is a room participant as the roster endpoint reports it.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser builds the local participant identity. An empty id means the
// caller has no registered identity yet and gets a fresh one.
func NewUser(id, username string) (*User, error) {
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &User{ID: UserID(id), Username: username}, nil
}
