package game

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that map failures to transport
// status codes.
type Kind int

const (
	KindStoreFailure Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "store_failure"
	}
}

// Error is the error type returned by every engine operation.
// Two errors match under errors.Is when their codes are equal, so a
// sentinel still matches after its message has been specialised.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithMessage returns a copy of e carrying a different user-facing message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

var (
	ErrNotFound            = &Error{Kind: KindNotFound, Code: "not_found", Message: "Not found."}
	ErrValidation          = &Error{Kind: KindValidation, Code: "validation", Message: "Invalid request."}
	ErrUniqueViolation     = &Error{Kind: KindConflict, Code: "unique_violation", Message: "Record already exists."}
	ErrInUse               = &Error{Kind: KindConflict, Code: "in_use", Message: "Record is still referenced."}
	ErrRoundLimitExceeded  = &Error{Kind: KindConflict, Code: "round_limit_exceeded", Message: "All rounds have already been completed."}
	ErrNoCardsAvailable    = &Error{Kind: KindConflict, Code: "no_cards_available", Message: "No cards available."}
	ErrRoundNotActive      = &Error{Kind: KindConflict, Code: "round_not_active", Message: "No active round in progress."}
	ErrDuplicateSubmission = &Error{Kind: KindConflict, Code: "duplicate_submission", Message: "Design already submitted for this round."}
	ErrNoSubmissions       = &Error{Kind: KindConflict, Code: "no_submissions", Message: "No submissions found for this round."}
	ErrAlreadyScored       = &Error{Kind: KindConflict, Code: "already_scored", Message: "Round has already been scored."}
	ErrTeamFull            = &Error{Kind: KindConflict, Code: "team_full", Message: "Team cannot have more than 5 users."}
	ErrDuplicateTeamName   = &Error{Kind: KindConflict, Code: "duplicate_team_name", Message: "Team name already exists."}
)

func validationError(message string) error {
	return ErrValidation.WithMessage(message)
}

func notFound(message string) error {
	return ErrNotFound.WithMessage(message)
}

// StoreFailure wraps a backend error that has no domain meaning.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}
	var domain *Error
	if errors.As(err, &domain) {
		return err
	}
	return &Error{Kind: KindStoreFailure, Code: "store_failure", Message: "store failure", Err: err}
}

// KindOf reports the kind of err. Errors that did not originate in this
// package are treated as store failures.
func KindOf(err error) Kind {
	var domain *Error
	if errors.As(err, &domain) {
		return domain.Kind
	}
	return KindStoreFailure
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var domain *Error
	if errors.As(err, &domain) {
		return domain.Message
	}
	return err.Error()
}

// IsNotFound reports whether err is a not-found error of any flavour.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
