package domain

import "errors"

var (
	// ErrCorruptToken is returned when an attempt token cannot be decoded
	// or does not split into the expected fields.
	ErrCorruptToken = errors.New("corrupt attempt token")
	// ErrInvalidSignature is returned when a token's signature does not verify.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrUserMismatch is returned when a token was issued to a different user.
	ErrUserMismatch = errors.New("token does not belong to user")
	// ErrTokenExpired is returned when expiry enforcement is on and the token is too old.
	ErrTokenExpired = errors.New("token expired")
	// ErrAlreadyRedeemed indicates the token was already consumed by a correct answer.
	ErrAlreadyRedeemed = errors.New("token already redeemed")
	// ErrQuestionNotFound indicates no question matched the requested criteria.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidThreshold is returned for similarity thresholds outside [0,1].
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0.0 and 1.0")
	// ErrInvalidLimit is returned for non-positive result limits.
	ErrInvalidLimit = errors.New("result limit must be positive")
)
