package catalog

import "errors"

var (
	ErrUnverified     = errors.New("email not verified")
	ErrNotStarted     = errors.New("catalog controller not started")
	ErrAlreadyStarted = errors.New("catalog controller already started")
	ErrDeleteFailed   = errors.New("delete failed")
	ErrUnknownItem    = errors.New("paper not in catalog")
	ErrDetailClosed   = errors.New("detail view closed")
)
