package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the game core wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

var (
	// ErrGameNotFound covers both a missing record and a record of another game kind.
	ErrGameNotFound = fmt.Errorf("game %w", ErrNotFound)
	// ErrQuestionNotFound indicates a question id absent from the document.
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	// ErrNotOwner is returned when the requester is neither creator nor privileged.
	ErrNotOwner = fmt.Errorf("%w: you do not have permission to modify this game", ErrForbidden)
	// ErrNotPublished is returned by play flows for draft games.
	ErrNotPublished = fmt.Errorf("%w: this game is not published yet", ErrForbidden)
	// ErrAnonymous is returned when an operation requires an identity.
	ErrAnonymous = fmt.Errorf("%w: user not authenticated", ErrUnauthorized)
	// ErrNameTaken indicates a game with the same name already exists.
	ErrNameTaken = fmt.Errorf("%w: game with this name already exists", ErrConflict)
	// ErrStaleRevision is returned when a concurrent writer saved the record first.
	ErrStaleRevision = fmt.Errorf("%w: game was modified concurrently", ErrConflict)
	// ErrInvalidQuestion marks a question that breaks a structural invariant.
	ErrInvalidQuestion = fmt.Errorf("%w: invalid question", ErrValidation)
	// ErrNoQuestions is returned when publishing or scoring a game without questions.
	ErrNoQuestions = fmt.Errorf("%w: game has no questions", ErrValidation)
)
