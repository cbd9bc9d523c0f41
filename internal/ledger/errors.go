package ledger

import "errors"

// Request failure kinds. None of these escape Handle: each maps to a
// user-visible reply and the handler returns normally. They exist so
// logs and tests can classify what went wrong.
var (
	ErrAuthDenied        = errors.New("actor not allow-listed")
	ErrResolutionFailed  = errors.New("intent resolution failed")
	ErrValidationFailed  = errors.New("record candidate invalid")
	ErrPersistenceFailed = errors.New("store operation failed")
	ErrInputIncomplete   = errors.New("query input incomplete")
)
