package services

import (
	"errors"

	"github.com/Mariolucas03/Kairos/app/queries"
)

var (
	ErrNotFound          = queries.ErrNotFound
	ErrConflict          = queries.ErrConflict
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("not a participant of this mission")
	ErrForbidden         = errors.New("only the owner can do this")
	ErrWaitingForPartner = errors.New("waiting for partner to accept")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrNotOwned          = errors.New("item not in inventory")
	ErrDuplicateUser     = errors.New("username or email already taken")
	ErrBadCredentials    = errors.New("invalid username or password")
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
