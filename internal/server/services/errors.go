package services

import "github.com/dmitrijs2005/gophtasks/internal/common"

// publicError carries a client-facing message while still matching its
// common sentinel with errors.Is.
type publicError struct {
	kind error
	msg  string
}

func (e *publicError) Error() string { return e.msg }
func (e *publicError) Unwrap() error { return e.kind }

var (
	ErrUserExists         error = &publicError{kind: common.ErrAlreadyExists, msg: "User already exists"}
	ErrEmailTaken         error = &publicError{kind: common.ErrAlreadyExists, msg: "Email already in use"}
	ErrInvalidCredentials error = &publicError{kind: common.ErrorUnauthorized, msg: "Invalid email or password"}
	ErrUserNotFound       error = &publicError{kind: common.ErrorNotFound, msg: "User not found"}
	ErrTaskNotFound       error = &publicError{kind: common.ErrorNotFound, msg: "Task not found"}
)
