package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrForbidden      = errors.New("not allowed for this account")
	ErrRejected       = errors.New("request rejected")
)
