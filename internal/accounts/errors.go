package accounts

import "errors"

var (
	ErrNotFound        = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmptyUsername   = errors.New("username is required")
	ErrEmptySecret     = errors.New("password is required")
	ErrInvalidValidity = errors.New("validity must be \"lifetime\" or a positive number of days")
)
