package orchestrator

import (
	"errors"

	"github.com/mcdev12/draftroom/go/internal/models"
)

// Error kinds returned by the orchestrator. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrNotFound           = models.ErrNotFound
	ErrInvalidState       = errors.New("invalid draft state")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrAlreadyDrafted     = errors.New("player already drafted")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrBidTooLow          = errors.New("bid too low")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrExhausted          = errors.New("no eligible players available")
	ErrInvalidArgument    = errors.New("invalid argument")

	// ErrPersistence means the repository rejected the write. The mutation may
	// not be durable and the cached draft has been dropped.
	ErrPersistence = errors.New("persistence failure")
)
