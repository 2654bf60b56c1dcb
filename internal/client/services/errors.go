package services

import "errors"

var (
	ErrInvalidDraft         = errors.New("invalid paper")
	ErrVerificationDisabled = errors.New("verification endpoint not configured")
	ErrAlreadyVerified      = errors.New("email already verified")
)
