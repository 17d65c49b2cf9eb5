package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/tui/components"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

// Outcome is how the import screen was left.
type Outcome int

// Screen outcomes.
const (
	// OutcomeQuit means the user left before committing.
	OutcomeQuit Outcome = iota
	// OutcomeDiscarded means the previewed file was thrown away.
	OutcomeDiscarded
	// OutcomeCommitted means a commit ran, successfully or not.
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeCommitted:
		return "committed"
	default:
		return "quit"
	}
}

// Model holds the import screen state.
type Model struct {
	ctx       context.Context
	theme     themes.Theme
	session   *importer.Session
	lastError error
	help      help.Model
	input     textarea.Model
	list      components.RowListModel
	detail    components.RowDetailModel
	keymap    KeyMap
	config    Config
	notice    string
	result    importer.ImportResult
	outcome   Outcome
	width     int
	height    int
	working   bool
	quitAfter bool
	showHelp  bool
	quitting  bool
}

// newModel creates a model for session, which is either in Upload waiting
// for text or already in Preview.
func newModel(ctx context.Context, session *importer.Session, cfg Config) Model {
	input := textarea.New()
	input.Placeholder = "Paste receipts, order emails or a list of purchases..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.Focus()

	m := Model{
		ctx:     ctx,
		theme:   cfg.Theme,
		session: session,
		help:    help.New(),
		input:   input,
		list:    components.NewRowList(session.Rows(), cfg.Theme),
		detail:  components.NewRowDetail(cfg.Theme),
		keymap:  DefaultKeyMap(),
		config:  cfg,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.handleResize()
	m.refreshRows()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.session.Step() == importer.StepUpload {
		return textarea.Blink
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case commitDoneMsg:
		m.working = false
		m.result = msg.result
		m.lastError = msg.err
		m.outcome = OutcomeCommitted
		if m.quitAfter {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case extractDoneMsg:
		m.working = false
		m.handleExtracted(msg.err)
		if m.quitAfter {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.session.Step() == importer.StepUpload {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press by step. Only force quit is honored while a
// commit or extraction is running.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		if m.working && m.session.Step() == importer.StepPreview {
			// The write finishes before the screen closes.
			m.quitAfter = true
			m.notice = "Finishing the write before exiting..."
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	if m.working {
		return m, nil
	}

	switch m.session.Step() {
	case importer.StepUpload:
		return m.handleUploadKey(msg)
	case importer.StepPreview:
		return m.handlePreviewKey(msg)
	default:
		m.quitting = true
		return m, tea.Quit
	}
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Extract):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.notice = "Paste some text to extract purchases from."
			return m, nil
		}
		m.working = true
		m.notice = ""
		return m, extractCmd(m.ctx, m.session, text, m.config.Language)

	case key.Matches(msg, m.keymap.Cancel):
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Delete):
		if m.list.Len() == 0 {
			return m, nil
		}
		if err := m.session.DeleteRow(m.list.Cursor()); err != nil {
			m.lastError = err
			return m, nil
		}
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keymap.Commit):
		if !m.session.CanCommit() {
			m.notice = "Nothing to import: every row has errors."
			return m, nil
		}
		m.working = true
		m.notice = ""
		return m, commitCmd(m.ctx, m.session)

	case key.Matches(msg, m.keymap.Discard):
		if err := m.session.Discard(); err != nil {
			m.lastError = err
			return m, nil
		}
		m.refreshRows()
		if m.session.Mode() != importer.ModeText {
			m.outcome = OutcomeDiscarded
			m.quitting = true
			return m, tea.Quit
		}
		m.input.Focus()
		return m, textarea.Blink
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.syncDetail()
	return m, cmd
}

// handleExtracted reports how an extraction ended. The text is kept on
// failure so the user can edit it and try again.
func (m *Model) handleExtracted(err error) {
	switch {
	case err == nil:
		m.notice = ""
		m.lastError = nil
		m.input.Blur()
		m.refreshRows()
	case errors.Is(err, importer.ErrExtractionEmpty):
		m.notice = "No purchases found in that text."
		m.lastError = nil
	default:
		m.notice = "Extraction failed, try again."
		m.lastError = err
	}
}

// refreshRows reloads preview rows from the session.
func (m *Model) refreshRows() {
	m.list.SetRows(m.session.Rows())
	m.syncDetail()
}

func (m *Model) syncDetail() {
	row, ok := m.list.Selected()
	if !ok {
		m.detail = m.detail.Clear()
		return
	}
	m.detail = m.detail.SetRow(m.list.Cursor(), row)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	usableWidth := max(20, m.width-2)

	// Title, summary, detail box and help take the rest of the screen.
	m.list.Resize(usableWidth, max(4, m.height-16))
	m.detail.Resize(usableWidth)
	m.input.SetWidth(usableWidth)
	m.input.SetHeight(max(3, m.height-8))
	m.help.Width = usableWidth
}

// Outcome returns how the screen was left.
func (m Model) Outcome() Outcome {
	return m.outcome
}

// Err returns the last session error, such as a failed commit.
func (m Model) Err() error {
	return m.lastError
}
