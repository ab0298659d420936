package verification

import "errors"

// Verification errors.
var (
	ErrNotFound        = errors.New("verification not found")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrWrongCode       = errors.New("wrong verification code")
)
