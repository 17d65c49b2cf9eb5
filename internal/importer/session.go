package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/lootlog/internal/model"
)

// Step is a state of the import workflow.
type Step int

// Import steps. Upload is initial and Result is terminal.
const (
	StepUpload Step = iota
	StepPreview
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepPreview:
		return "preview"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// transitions lists the legal moves between steps.
var transitions = map[Step][]Step{
	StepUpload:  {StepPreview},
	StepPreview: {StepUpload, StepResult},
	StepResult:  {},
}

// Mode is the kind of source rows came from.
type Mode string

// Source modes.
const (
	ModeStructured Mode = "structured"
	ModeText       Mode = "text"
)

// CommitStrategy selects how accepted rows are written.
type CommitStrategy string

// Commit strategies.
const (
	// CommitBulk writes all rows in a single call; a failure fails every row.
	CommitBulk CommitStrategy = "bulk"
	// CommitPerRow writes rows one call at a time and counts each outcome.
	CommitPerRow CommitStrategy = "per_row"
)

// ExtractionOutcome records how the last text extraction ended.
type ExtractionOutcome string

// Extraction outcomes.
const (
	ExtractionNone   ExtractionOutcome = ""
	ExtractionOK     ExtractionOutcome = "ok"
	ExtractionEmpty  ExtractionOutcome = "empty"
	ExtractionFailed ExtractionOutcome = "error"
)

// Extractor turns free text into loosely-structured transaction objects that
// use canonical field names. An empty result means nothing was found.
type Extractor interface {
	Extract(ctx context.Context, text, language string) ([]map[string]any, error)
}

// Writer persists transactions on behalf of an owner. It reports success or a
// single aggregate failure; no per-row outcome is assumed.
type Writer interface {
	SaveTransactions(ctx context.Context, ownerID string, transactions []model.Transaction) error
}

// ImportResult summarizes a commit. Success + Errors always equals the number
// of rows considered: Preview rows minus the ones the user deleted.
type ImportResult struct {
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// Considered returns the number of rows the result accounts for.
func (r ImportResult) Considered() int {
	return r.Success + r.Errors
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Writer    Writer
	Extractor Extractor
	Logger    *slog.Logger
	// Now defaults to time.Now. It is read once, when the session is created.
	Now      func() time.Time
	OwnerID  string
	Strategy CommitStrategy
}

// Session drives one import from raw input to a result. It is safe for
// concurrent use; only one commit or extraction runs at a time.
type Session struct {
	writer    Writer
	extractor Extractor
	logger    *slog.Logger
	validator *Validator
	result    *ImportResult
	ownerID   string
	strategy  CommitStrategy
	mode      Mode
	outcome   ExtractionOutcome
	rows      []ValidatedRow
	unmapped  []Column
	mu        sync.Mutex
	step      Step
	busy      bool
}

// NewSession creates a session in the Upload step.
func NewSession(cfg SessionConfig) (*Session, error) {
	if strings.TrimSpace(cfg.OwnerID) == "" {
		return nil, ErrMissingOwner
	}
	if cfg.Writer == nil {
		return nil, ErrMissingWriter
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = CommitBulk
	}

	return &Session{
		writer:    cfg.Writer,
		extractor: cfg.Extractor,
		logger:    logger,
		validator: NewValidator(now()),
		ownerID:   cfg.OwnerID,
		strategy:  strategy,
		mode:      ModeStructured,
		step:      StepUpload,
	}, nil
}

// LoadDelimited reads comma-separated text whose first row is the header.
func (s *Session) LoadDelimited(text string) error {
	return s.LoadRows(ReadDelimited(text))
}

// LoadRows maps and validates rows whose first row is the header, then moves
// to Preview. Input with no data row yields an empty Preview.
func (s *Session) LoadRows(rows []RawRow) error {
	var (
		validated []ValidatedRow
		mapping   ColumnMapping
	)
	if len(rows) >= 2 {
		mapping = MapColumns(rows[0])
		records := make([]Record, 0, len(rows)-1)
		for _, row := range rows[1:] {
			records = append(records, mapping.Apply(row))
		}
		validated = s.validator.ValidateAll(records)
	}

	if len(mapping.Unmapped) > 0 {
		s.logger.Info("import columns not recognized", "headers", mapping.UnmappedHeaders())
	}

	return s.enterPreview(ModeStructured, validated, mapping.Unmapped)
}

// LoadRecords validates records that already carry canonical field names,
// such as statement entries, and moves to Preview.
func (s *Session) LoadRecords(records []Record) error {
	return s.enterPreview(ModeStructured, s.validator.ValidateAll(records), nil)
}

// Extract sends free text to the extractor and moves to Preview with the
// validated results. On failure, or when nothing is extracted, the session
// stays in Upload and the outcome is recorded: ErrExtractionFailed and
// ErrExtractionEmpty let callers tell "try again" from "nothing found".
func (s *Session) Extract(ctx context.Context, text, language string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if s.extractor == nil {
		return ErrNoExtractor
	}

	s.mu.Lock()
	if err := s.checkIdle(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.step != StepUpload {
		s.mu.Unlock()
		return fmt.Errorf("%w: extract from %s", ErrInvalidTransition, s.step)
	}
	s.busy = true
	s.mode = ModeText
	s.mu.Unlock()

	objects, err := s.extractor.Extract(ctx, text, language)

	s.mu.Lock()
	s.busy = false
	switch {
	case err != nil:
		s.outcome = ExtractionFailed
	case len(objects) == 0:
		s.outcome = ExtractionEmpty
	default:
		s.outcome = ExtractionOK
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("text extraction failed", "error", err)
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	if len(objects) == 0 {
		s.logger.Info("text extraction returned no transactions")
		return ErrExtractionEmpty
	}

	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		records = append(records, RecordFromExtracted(obj))
	}
	return s.enterPreview(ModeText, s.validator.ValidateAll(records), nil)
}

func (s *Session) enterPreview(mode Mode, rows []ValidatedRow, unmapped []Column) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdle(); err != nil {
		return err
	}
	if err := s.transition(StepPreview); err != nil {
		return err
	}

	s.mode = mode
	s.rows = rows
	s.unmapped = unmapped

	s.logger.Info("import preview ready",
		"mode", mode,
		"rows", len(rows),
		"importable", countImportable(rows))
	return nil
}

// DeleteRow removes the row at index from the Preview. Deleted rows are
// neither committed nor counted in the result.
func (s *Session) DeleteRow(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdle(); err != nil {
		return err
	}
	if s.step != StepPreview {
		return fmt.Errorf("%w: delete row in %s", ErrInvalidTransition, s.step)
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}

	s.rows = append(s.rows[:index:index], s.rows[index+1:]...)
	return nil
}

// Discard drops every Preview row and returns to Upload.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdle(); err != nil {
		return err
	}
	if err := s.transition(StepUpload); err != nil {
		return err
	}

	s.rows = nil
	s.unmapped = nil
	s.outcome = ExtractionNone
	return nil
}

// CanCommit reports whether a commit would write at least one row.
func (s *Session) CanCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step == StepPreview && !s.busy && countImportable(s.rows) > 0
}

// Commit writes every error-free Preview row, in Preview order, and moves to
// Result whatever the write outcome. It is the point of no return: the write
// runs to completion even if ctx is canceled afterwards.
//
// A second call while a commit is running fails with ErrCommitInProgress.
// When no row is importable the call is a no-op returning ErrNothingToCommit.
// A write failure is returned wrapped in ErrWriteFailed alongside the result.
func (s *Session) Commit(ctx context.Context) (ImportResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ImportResult{}, ErrCommitInProgress
	}
	if s.step != StepPreview {
		s.mu.Unlock()
		return ImportResult{}, fmt.Errorf("%w: commit from %s", ErrInvalidTransition, s.step)
	}

	// Blocked rows are never written
	accepted := make([]model.Transaction, 0, len(s.rows))
	for _, row := range s.rows {
		if row.Importable() {
			accepted = append(accepted, row.Data)
		}
	}
	if len(accepted) == 0 {
		s.mu.Unlock()
		return ImportResult{}, ErrNothingToCommit
	}
	// Mark busy and release the lock for the write
	considered := len(s.rows)
	s.busy = true
	s.mu.Unlock()

	written, writeErr := s.write(context.WithoutCancel(ctx), accepted)
	// Blocked rows count as errors
	result := ImportResult{Success: written, Errors: considered - written}

	s.mu.Lock()
	s.busy = false
	s.result = &result
	s.step = StepResult
	s.mu.Unlock()

	if writeErr != nil {
		s.logger.Error("import commit failed",
			"strategy", s.strategy,
			"attempted", len(accepted),
			"success", result.Success,
			"error", writeErr)
		return result, fmt.Errorf("%w: %w", ErrWriteFailed, writeErr)
	}

	s.logger.Info("import committed",
		"strategy", s.strategy,
		"success", result.Success,
		"errors", result.Errors)
	return result, nil
}

func (s *Session) write(ctx context.Context, txns []model.Transaction) (int, error) {
	// Bulk: one atomic write, all or nothing
	if s.strategy != CommitPerRow {
		if err := s.writer.SaveTransactions(ctx, s.ownerID, txns); err != nil {
			return 0, err
		}
		return len(txns), nil
	}

	// Per row: keep going past failures and count each outcome
	var (
		written int
		errs    []error
	)
	for i := range txns {
		if err := s.writer.SaveTransactions(ctx, s.ownerID, txns[i:i+1]); err != nil {
			errs = append(errs, fmt.Errorf("row %q: %w", txns[i].Title, err))
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

// transition moves to next if the step machine allows it. Callers hold mu.
func (s *Session) transition(next Step) error {
	for _, allowed := range transitions[s.step] {
		if allowed == next {
			s.logger.Debug("import step", "from", s.step, "to", next)
			s.step = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.step, next)
}

// checkIdle fails while a commit or extraction is running. Callers hold mu.
func (s *Session) checkIdle() error {
	if !s.busy {
		return nil
	}
	if s.step == StepPreview {
		return ErrCommitInProgress
	}
	return ErrExtractionInProgress
}

// Step returns the current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Mode returns the source mode of the current rows.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Busy reports whether a commit or extraction is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Rows returns a copy of the Preview rows.
func (s *Session) Rows() []ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ValidatedRow(nil), s.rows...)
}

// ImportableRows returns a copy of the Preview rows without errors.
func (s *Session) ImportableRows() []ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]ValidatedRow, 0, len(s.rows))
	for _, row := range s.rows {
		if row.Importable() {
			rows = append(rows, row)
		}
	}
	return rows
}

// Unmapped returns the header columns that matched no field.
func (s *Session) Unmapped() []Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Column(nil), s.unmapped...)
}

// ExtractionOutcome returns how the last extraction ended.
func (s *Session) ExtractionOutcome() ExtractionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Result returns the commit result once the session reached Result.
func (s *Session) Result() (ImportResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return ImportResult{}, false
	}
	return *s.result, true
}

// Today returns the default purchase date used for this session.
func (s *Session) Today() string {
	return s.validator.Today()
}

func countImportable(rows []ValidatedRow) int {
	n := 0
	for _, row := range rows {
		if row.Importable() {
			n++
		}
	}
	return n
}
