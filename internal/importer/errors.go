package importer

import "errors"

// Session errors. All of them are scoped to one session; none is fatal.
var (
	ErrInvalidTransition    = errors.New("invalid import step transition")
	ErrCommitInProgress     = errors.New("commit already in progress")
	ErrExtractionInProgress = errors.New("text extraction already in progress")
	ErrNothingToCommit      = errors.New("no importable rows to commit")
	ErrRowIndex             = errors.New("row index out of range")
	ErrEmptyInput           = errors.New("input is empty")
	ErrExtractionFailed     = errors.New("text extraction failed")
	ErrExtractionEmpty      = errors.New("text extraction found no transactions")
	ErrNoExtractor          = errors.New("no text extractor configured")
	ErrWriteFailed          = errors.New("failed to write transactions")
	ErrMissingOwner         = errors.New("owner identity is required")
	ErrMissingWriter        = errors.New("transaction writer is required")
)
