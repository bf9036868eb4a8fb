package admin

import "errors"

var (
	ErrWrongMasterPassword = errors.New("invalid master password")
	ErrGateDisabled        = errors.New("admin access is not configured")
	ErrUnauthorized        = errors.New("admin session is missing or expired")
)
