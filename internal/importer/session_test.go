package importer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lootlog/internal/model"
)

const testOwner = "owner-1"

// recordingWriter captures every SaveTransactions call.
type recordingWriter struct {
	err     error
	failOn  map[string]bool
	release chan struct{}
	entered chan struct{}
	calls   [][]model.Transaction
	owners  []string
	mu      sync.Mutex
}

func (w *recordingWriter) SaveTransactions(ctx context.Context, ownerID string, txns []model.Transaction) error {
	if w.entered != nil {
		w.entered <- struct{}{}
	}
	if w.release != nil {
		<-w.release
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, append([]model.Transaction(nil), txns...))
	w.owners = append(w.owners, ownerID)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if w.err != nil {
		return w.err
	}
	for _, txn := range txns {
		if w.failOn[txn.Title] {
			return errors.New("constraint violation")
		}
	}
	return nil
}

func (w *recordingWriter) titles() [][]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]string, 0, len(w.calls))
	for _, call := range w.calls {
		titles := make([]string, 0, len(call))
		for _, txn := range call {
			titles = append(titles, txn.Title)
		}
		out = append(out, titles)
	}
	return out
}

type fakeExtractor struct {
	err      error
	text     string
	language string
	objects  []map[string]any
}

func (e *fakeExtractor) Extract(_ context.Context, text, language string) ([]map[string]any, error) {
	e.text = text
	e.language = language
	return e.objects, e.err
}

func newTestSession(t *testing.T, cfg SessionConfig) *Session {
	t.Helper()
	if cfg.OwnerID == "" {
		cfg.OwnerID = testOwner
	}
	if cfg.Writer == nil {
		cfg.Writer = &recordingWriter{}
	}
	cfg.Now = func() time.Time { return testNow }

	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s
}

const threeRowCSV = "Title,Price,Platform\nHades,24.99,Switch\n,5,PC\nCeleste,19.99,Dreamcast\n"

func TestNewSessionRequiresCollaborators(t *testing.T) {
	_, err := NewSession(SessionConfig{Writer: &recordingWriter{}})
	require.ErrorIs(t, err, ErrMissingOwner)

	_, err = NewSession(SessionConfig{OwnerID: testOwner})
	require.ErrorIs(t, err, ErrMissingWriter)

	s, err := NewSession(SessionConfig{OwnerID: testOwner, Writer: &recordingWriter{}})
	require.NoError(t, err)
	assert.Equal(t, StepUpload, s.Step())
	assert.False(t, s.CanCommit())
}

func TestSessionLoadDelimited(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	require.NoError(t, s.LoadDelimited(threeRowCSV+"\n"))
	assert.Equal(t, StepPreview, s.Step())
	assert.Equal(t, ModeStructured, s.Mode())

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Importable())
	assert.False(t, rows[1].Importable())
	assert.Equal(t, []Reason{ReasonUnknownPlatform}, Reasons(rows[2].Warnings))
	assert.Len(t, s.ImportableRows(), 2)
	assert.True(t, s.CanCommit())
	assert.Equal(t, testToday, s.Today())
}

func TestSessionLoadReportsUnmappedHeaders(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	require.NoError(t, s.LoadDelimited("Title,Rating,Titre\nHades,5,Other\n"))

	unmapped := s.Unmapped()
	require.Len(t, unmapped, 2)
	assert.Equal(t, "Rating", unmapped[0].Header)
	assert.Equal(t, Column{Index: 2, Header: "Titre", DuplicateOf: FieldTitle}, unmapped[1])
}

func TestSessionLoadHeaderOnly(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	require.NoError(t, s.LoadDelimited("Title,Price\n"))
	assert.Equal(t, StepPreview, s.Step())
	assert.Empty(t, s.Rows())
	assert.False(t, s.CanCommit())

	_, err := s.Commit(context.Background())
	require.ErrorIs(t, err, ErrNothingToCommit)
	assert.Equal(t, StepPreview, s.Step())
}

func TestSessionLoadTwiceRejected(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	require.NoError(t, s.LoadDelimited(threeRowCSV))
	err := s.LoadDelimited(threeRowCSV)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, s.Rows(), 3)
}

func TestSessionCommit(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ImportResult{Success: 2, Errors: 1}, result)
	assert.Equal(t, 3, result.Considered())
	assert.Equal(t, StepResult, s.Step())
	assert.Equal(t, [][]string{{"Hades", "Celeste"}}, writer.titles())
	assert.Equal(t, []string{testOwner}, writer.owners)

	stored, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestSessionDeleteRowExcludesFromAccounting(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	// Remove the row without a title, then the first valid row.
	require.NoError(t, s.DeleteRow(1))
	require.NoError(t, s.DeleteRow(0))
	require.ErrorIs(t, s.DeleteRow(1), ErrRowIndex)
	require.ErrorIs(t, s.DeleteRow(-1), ErrRowIndex)

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Success: 1, Errors: 0}, result)
	assert.Equal(t, [][]string{{"Celeste"}}, writer.titles())
}

func TestSessionDeleteAllImportableRows(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	require.NoError(t, s.DeleteRow(2))
	require.NoError(t, s.DeleteRow(0))
	assert.False(t, s.CanCommit())

	_, err := s.Commit(context.Background())
	require.ErrorIs(t, err, ErrNothingToCommit)
	assert.Empty(t, writer.titles())
	_, ok := s.Result()
	assert.False(t, ok)
}

func TestSessionDiscard(t *testing.T) {
	s := newTestSession(t, SessionConfig{})
	require.ErrorIs(t, s.Discard(), ErrInvalidTransition)

	require.NoError(t, s.LoadDelimited(threeRowCSV))
	require.NoError(t, s.Discard())
	assert.Equal(t, StepUpload, s.Step())
	assert.Empty(t, s.Rows())

	require.NoError(t, s.LoadDelimited("Title\nTunic\n"))
	assert.Len(t, s.Rows(), 1)
}

func TestSessionWriteFailureBulk(t *testing.T) {
	writer := &recordingWriter{err: errors.New("database is locked")}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	result, err := s.Commit(context.Background())
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, ImportResult{Success: 0, Errors: 3}, result)
	assert.Equal(t, StepResult, s.Step())
}

func TestSessionPerRowStrategy(t *testing.T) {
	writer := &recordingWriter{failOn: map[string]bool{"Hades": true}}
	s := newTestSession(t, SessionConfig{Writer: writer, Strategy: CommitPerRow})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	result, err := s.Commit(context.Background())
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, ImportResult{Success: 1, Errors: 2}, result)
	assert.Equal(t, [][]string{{"Hades"}, {"Celeste"}}, writer.titles())
}

func TestSessionCommitIgnoresCancellation(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
}

func TestSessionResultIsTerminal(t *testing.T) {
	s := newTestSession(t, SessionConfig{})
	require.NoError(t, s.LoadDelimited(threeRowCSV))
	_, err := s.Commit(context.Background())
	require.NoError(t, err)

	_, err = s.Commit(context.Background())
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, s.Discard(), ErrInvalidTransition)
	require.ErrorIs(t, s.DeleteRow(0), ErrInvalidTransition)
	require.ErrorIs(t, s.LoadDelimited(threeRowCSV), ErrInvalidTransition)
}

func TestSessionRejectsConcurrentCommit(t *testing.T) {
	writer := &recordingWriter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestSession(t, SessionConfig{Writer: writer})
	require.NoError(t, s.LoadDelimited(threeRowCSV))

	done := make(chan ImportResult)
	go func() {
		result, err := s.Commit(context.Background())
		assert.NoError(t, err)
		done <- result
	}()

	<-writer.entered
	assert.True(t, s.Busy())
	assert.False(t, s.CanCommit())

	_, err := s.Commit(context.Background())
	require.ErrorIs(t, err, ErrCommitInProgress)
	require.ErrorIs(t, s.DeleteRow(0), ErrCommitInProgress)
	require.ErrorIs(t, s.Discard(), ErrCommitInProgress)

	close(writer.release)
	result := <-done
	assert.Equal(t, ImportResult{Success: 2, Errors: 1}, result)
	assert.Len(t, writer.titles(), 1)
	assert.False(t, s.Busy())
}

func TestSessionExtract(t *testing.T) {
	extractor := &fakeExtractor{objects: []map[string]any{
		{"title": "Genshin Impact", "type": "currency", "price": 4.99, "currency": "USD", "platform": "Mobile"},
		{"title": "", "price": "2"},
		{"Title": "Hades", "price": float64(25), "unknown_key": "ignored"},
	}}
	s := newTestSession(t, SessionConfig{Extractor: extractor})

	require.NoError(t, s.Extract(context.Background(), "bought gems and hades", "fr"))
	assert.Equal(t, "bought gems and hades", extractor.text)
	assert.Equal(t, "fr", extractor.language)

	assert.Equal(t, StepPreview, s.Step())
	assert.Equal(t, ModeText, s.Mode())
	assert.Equal(t, ExtractionOK, s.ExtractionOutcome())

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, model.TypeCurrency, rows[0].Data.Type)
	assert.Equal(t, "4.99", rows[0].Data.Price.String())
	assert.Empty(t, rows[0].Warnings)
	assert.False(t, rows[1].Importable())
	assert.Equal(t, "Hades", rows[2].Data.Title)
	assert.Equal(t, "25", rows[2].Data.Price.String())
}

func TestSessionExtractOutcomes(t *testing.T) {
	tests := []struct {
		extractor Extractor
		wantErr   error
		name      string
		text      string
		outcome   ExtractionOutcome
	}{
		{
			name:      "empty result",
			extractor: &fakeExtractor{objects: []map[string]any{}},
			text:      "nothing here",
			wantErr:   ErrExtractionEmpty,
			outcome:   ExtractionEmpty,
		},
		{
			name:      "collaborator failure",
			extractor: &fakeExtractor{err: context.DeadlineExceeded},
			text:      "bought hades",
			wantErr:   ErrExtractionFailed,
			outcome:   ExtractionFailed,
		},
		{
			name:      "blank input",
			extractor: &fakeExtractor{},
			text:      "   ",
			wantErr:   ErrEmptyInput,
			outcome:   ExtractionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, SessionConfig{Extractor: tt.extractor})

			err := s.Extract(context.Background(), tt.text, "en")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StepUpload, s.Step())
			assert.Equal(t, tt.outcome, s.ExtractionOutcome())
			assert.Empty(t, s.Rows())
			assert.False(t, s.Busy())
		})
	}

	t.Run("failure keeps the cause", func(t *testing.T) {
		s := newTestSession(t, SessionConfig{Extractor: &fakeExtractor{err: context.DeadlineExceeded}})
		err := s.Extract(context.Background(), "text", "en")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("no extractor configured", func(t *testing.T) {
		s := newTestSession(t, SessionConfig{})
		require.ErrorIs(t, s.Extract(context.Background(), "text", "en"), ErrNoExtractor)
	})
}

func TestSessionLoadRecords(t *testing.T) {
	s := newTestSession(t, SessionConfig{})

	require.NoError(t, s.LoadRecords([]Record{
		{FieldTitle: "STEAM PURCHASE", FieldPrice: "59.99", FieldCurrency: "USD", FieldDate: "2024-01-15"},
	}))

	rows := s.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, model.CurrencyUSD, rows[0].Data.Currency)
	assert.Equal(t, "2024-01-15", rows[0].Data.PurchaseDate)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "upload", StepUpload.String())
	assert.Equal(t, "preview", StepPreview.String())
	assert.Equal(t, "result", StepResult.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
