package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/coat-terminal/internal/geocoding"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/service"
)

// DefaultCheckTimeout bounds one whole check (locate, fetch and naming).
const DefaultCheckTimeout = 20 * time.Second

// AppState represents the current state of the application
type AppState int

const (
	StateSearch  AppState = iota // Enter a place, coordinates, or nothing for "here"
	StateLoading                 // Waiting for a check to finish
	StateDisplay                 // Showing the report
	StateError                   // Showing a short failure message
)

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	// Search
	searchInput textinput.Model
	searchQuery string // Last search query, empty for "my location"

	checker  Checker
	searcher geocoding.Searcher
	timeout  time.Duration

	// Only the result of the latest trigger is accepted.
	requestID int
	cancel    context.CancelFunc
	pending   tea.Cmd

	report  *models.Report
	spinner spinner.Model
}

// NewModel creates a new application model
func NewModel(checker Checker, searcher geocoding.Searcher, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	ti := textinput.New()
	ti.Placeholder = "City, address or lat,lon (leave empty to use your location)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:       StateSearch,
		searchInput: ti,
		checker:     checker,
		searcher:    searcher,
		timeout:     timeout,
		spinner:     s,
	}
}

// StartAt makes the program check pos as soon as it starts.
func (m Model) StartAt(pos models.Position) Model {
	m, cmd := m.beginCheck(func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd {
		return checkPosition(ctx, cancel, m.checker, id, pos)
	})
	m.pending = cmd
	return m
}

// StartHere makes the program locate the device as soon as it starts.
func (m Model) StartHere() Model {
	m, cmd := m.beginCheck(func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd {
		return checkHere(ctx, cancel, m.checker, id)
	})
	m.pending = cmd
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.pending != nil {
		return tea.Batch(m.spinner.Tick, m.pending)
	}
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportMsg:
		return m.handleReport(msg), nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.state {
		case StateSearch:
			return m.handleSearchInput(msg)
		case StateLoading:
			return m.handleLoadingKeys(msg)
		case StateDisplay:
			return m.handleDisplayKeys(msg)
		case StateError:
			return m.handleErrorKeys(msg)
		}
	}

	if m.state == StateSearch {
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// handleReport applies a finished check unless a newer trigger superseded it.
func (m Model) handleReport(msg reportMsg) Model {
	if msg.id != m.requestID || m.state != StateLoading {
		return m
	}
	m.cancel = nil

	if msg.err != nil {
		m.err = msg.err
		m.report = nil
		m.state = StateError
		return m
	}

	m.err = nil
	m.report = msg.report
	m.state = StateDisplay
	return m
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		query := strings.TrimSpace(m.searchInput.Value())
		m.searchQuery = query
		m.report = nil

		if query == "" {
			return m.beginCheck(func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd {
				return checkHere(ctx, cancel, m.checker, id)
			})
		}
		return m.beginCheck(func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd {
			return searchAndCheck(ctx, cancel, m.checker, m.searcher, id, query)
		})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.abort()
		return m, tea.Quit
	case "esc":
		// Abandon the in-flight check; its result will be dropped.
		m.abort()
		m.requestID++
		m.report = nil
		return m.toSearch()
	}
	return m, nil
}

func (m Model) handleDisplayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s", "esc":
		m.report = nil
		m.searchInput.SetValue("")
		return m.toSearch()
	case "r":
		if m.report == nil {
			return m, nil
		}
		pos := m.report.Place.Position
		return m.beginCheck(func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd {
			return checkPosition(ctx, cancel, m.checker, id, pos)
		})
	}
	return m, nil
}

// handleErrorKeys returns to search on any key; printable keys are typed
// into the search box.
func (m Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	m.err = nil
	next, blink := m.toSearch()
	m = next.(Model)
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeyBackspace {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, tea.Batch(blink, cmd)
	}
	return m, blink
}

// beginCheck supersedes any in-flight check and starts a new one.
func (m Model) beginCheck(start func(ctx context.Context, cancel context.CancelFunc, id int) tea.Cmd) (Model, tea.Cmd) {
	m.abort()
	m.requestID++

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancel = cancel
	m.err = nil
	m.state = StateLoading
	m.searchInput.Blur()

	return m, tea.Batch(m.spinner.Tick, start(ctx, cancel, m.requestID))
}

func (m *Model) abort() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) toSearch() (tea.Model, tea.Cmd) {
	m.state = StateSearch
	m.searchInput.Focus()
	return m, textinput.Blink
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateSearch:
		return m.viewSearch()
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	title := titleStyle.Render("🧥 Coat Terminal")
	subtitle := mutedStyle.Render("Should you take a coat today?")

	searchBox := searchBoxStyle.Render(m.searchInput.View())

	help := helpStyle.Render("Enter: Check (empty = my location) • Ctrl+C: Quit")
	examples := mutedStyle.Render("Examples: Oslo | 221B Baker Street, London | 40.71,-74.01")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		searchBox,
		"",
		examples,
		"",
		help,
	)
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	what := "Finding your location"
	if m.searchQuery != "" {
		what = "Looking up " + m.searchQuery
	}
	if m.report != nil {
		what = "Refreshing " + m.report.Place.Name
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.spinner.View()+" "+what+"...",
		helpStyle.Render("Esc: Cancel • Q: Quit"),
	)
}

// viewDisplay renders the report
func (m Model) viewDisplay() string {
	if m.report == nil {
		return "No report available"
	}

	help := helpStyle.Render("R: Refresh • S: New search • Q: Quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		reportBoxStyle.Render(RenderReport(m.report)),
		help,
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ " + service.UserMessage(m.err))

	sections := []string{title}
	if m.searchQuery != "" {
		sections = append(sections, mutedStyle.Render("Searched for: "+m.searchQuery))
	}
	sections = append(sections, "", helpStyle.Render("Press any key to return to search • Q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
