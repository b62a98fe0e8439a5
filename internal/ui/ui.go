package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// EntryLister provides the playlist snapshot the TUI renders.
// Implemented by [playlist.Store].
type EntryLister interface {
	Entries() []models.PlaylistEntry
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	store        EntryLister
	engine       tasks.SyncEngine
	width        int
	height       int
	entryList    list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.SyncRunResult
	err          error
	help         help.Model
	keys         keyMap
}

type entriesLoadedMsg struct {
	entries []models.PlaylistEntry
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncRunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store EntryLister, engine tasks.SyncEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlaylistView,
		store:  store,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the playlist.
func (m *Model) Init() tea.Cmd {
	return m.loadEntries()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.entryList.Width() == 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistView:
			return m.handlePlaylistKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case entriesLoadedMsg:
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = entryItem{entry: entry}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = "Virtual Playlist"
		m.entryList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistView:
		return m.renderPlaylist()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PlaylistView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistView
		m.result = nil
		m.err = nil
		return m, m.loadEntries()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PlaylistView {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadEntries() tea.Cmd {
	return func() tea.Msg {
		return entriesLoadedMsg{entries: m.store.Entries()}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	done := make(chan syncCompleteMsg, 1)
	go func() {
		result, err := m.engine.SyncAll(m.ctx, progressChan)
		done <- syncCompleteMsg{result: result, err: err}
		close(progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylist() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	entries := m.store.Entries()
	ready := 0
	for _, entry := range entries {
		if entry.Linked() {
			ready++
		}
	}

	title := styles.title.Render("Sync playlist to device?")
	info := fmt.Sprintf("\nTracks: %d\nReady to transfer: %d\n", len(entries), ready)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing to Device")

	var phase string
	switch m.progress.Phase {
	case tasks.ProbeDevice:
		phase = "Checking device..."
	case tasks.SelectTracks:
		phase = "Selecting tracks..."
	case tasks.UploadTrack:
		phase = fmt.Sprintf("Uploading (%d/%d) %d%%", m.progress.Step, m.progress.Total, m.progress.Percent)
	case tasks.RecordResult:
		phase = fmt.Sprintf("Finished (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf(
		"\nUploaded: %d\nFailed: %d\nSkipped: %d",
		m.result.Uploaded,
		m.result.Failed,
		m.result.Skipped,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to transfer %d tracks:", m.result.Failed)))
		for _, entry := range m.result.Results {
			if entry.Err != nil {
				failed += fmt.Sprintf("\n  • %s - %s", entry.Entry.Artist, entry.Entry.Name)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
