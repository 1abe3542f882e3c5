package service

import (
	"errors"

	"github.com/okian/matchledger/internal/adapters/repository"
	"github.com/okian/matchledger/internal/domain/draft"
)

// Sentinel error kinds returned by the ledger.
var (
	ErrNotStarted           = errors.New("ledger not started")
	ErrNotFound             = errors.New("not found")
	ErrNotOnDraft           = errors.New("player not on draft")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidInput         = errors.New("invalid input")

	// ErrPersist means the operation was applied in memory but storage
	// could not be updated. A later write or Flush retries.
	ErrPersist = repository.ErrPersist

	// ErrValidation means required draft fields were empty at commit.
	// Use errors.As with *draft.ValidationError for the field list.
	ErrValidation = draft.ErrValidation
)
