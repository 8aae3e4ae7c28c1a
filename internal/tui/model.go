// Package tui is the interactive review browser: app selector on top, the
// selected app's reviews below.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/render"
	"github.com/idilsaglam/reviews/internal/reviewapi"
	"github.com/idilsaglam/reviews/internal/selector"
)

// State is the app-level fetch state.
type State int

const (
	Loading State = iota
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ReviewSource fetches the reviews of one app.
type ReviewSource interface {
	Reviews(ctx context.Context, appID string) ([]model.Review, error)
}

// Options configures a Model.
type Options struct {
	Apps         []model.AppDescriptor
	DefaultIndex int
	Timeout      time.Duration
	Logger       *zap.SugaredLogger
}

// reviewsLoadedMsg carries the outcome of fetch number seq.
type reviewsLoadedMsg struct {
	appID   string
	seq     int
	reviews []model.Review
	err     error
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows used by the title, selector, help line and the panel border
	chromeHeight = 8
)

// Model is the root Bubble Tea model.
type Model struct {
	source  ReviewSource
	timeout time.Duration
	logger  *zap.SugaredLogger

	selector selector.Model
	list     list.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	state   State
	err     error
	reviews []model.Review
	appID   string // app whose reviews are shown or being fetched
	seq     int    // latest fetch issued; older results are dropped
	detail  bool

	width, height int
}

// New builds the model in the Loading state for the default app. The fetch
// itself is issued by Init.
func New(source ReviewSource, opts Options) Model {
	apps := opts.Apps
	if len(apps) == 0 {
		apps = model.Apps
	}
	idx := opts.DefaultIndex
	if idx < 0 || idx >= len(apps) {
		idx = 0
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	l := list.New(nil, reviewDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("review", "reviews")
	l.Styles.PaginationStyle = helpStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := Model{
		source:   source,
		timeout:  timeout,
		logger:   logger,
		selector: selector.New(apps, idx, nil),
		list:     l,
		spinner:  sp,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
		state:    Loading,
		appID:    apps[idx].ID,
		seq:      1,
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(source ReviewSource, opts Options) error {
	p := tea.NewProgram(New(source, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// State reports the current fetch state.
func (m Model) State() State { return m.state }

// Reviews returns the reviews currently shown.
func (m Model) Reviews() []model.Review { return m.reviews }

// Selected returns the selected app.
func (m Model) Selected() model.AppDescriptor { return m.selector.Selected() }

// Err is the error behind the Error state.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	m.logger.Infow("initial fetch", "app_id", m.appID)
	return tea.Batch(m.spinner.Tick, fetchReviews(m.source, m.appID, m.seq, m.timeout))
}

func fetchReviews(source ReviewSource, appID string, seq int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reviews, err := source.Reviews(ctx, appID)
		return reviewsLoadedMsg{appID: appID, seq: seq, reviews: reviews, err: err}
	}
}

// startFetch resets to Loading and issues a fetch for appID.
func (m *Model) startFetch(appID string) tea.Cmd {
	m.seq++
	m.appID = appID
	m.state = Loading
	m.err = nil
	m.reviews = nil
	m.detail = false
	m.keys.inDetail = false
	m.list.SetItems(nil)
	m.logger.Infow("app selected", "app_id", appID, "seq", m.seq)
	return tea.Batch(m.spinner.Tick, fetchReviews(m.source, appID, m.seq, m.timeout))
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	inner := w - 4
	if inner < 20 {
		inner = 20
	}
	body := h - chromeHeight
	if body < 4 {
		body = 4
	}
	m.list.SetSize(inner, body)
	m.viewport.Width = inner
	m.viewport.Height = body
	m.help.Width = inner
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.detail {
			m.openDetail()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case selector.AppSelectedMsg:
		if msg.ID == m.appID {
			return m, nil
		}
		return m, m.startFetch(msg.ID)

	case reviewsLoadedMsg:
		if msg.seq != m.seq {
			m.logger.Debugw("dropping stale reviews", "app_id", msg.appID, "seq", msg.seq, "latest", m.seq)
			return m, nil
		}
		if msg.err != nil {
			m.state = Error
			m.err = msg.err
			m.logger.Errorw("fetch failed", "app_id", msg.appID, "error", msg.err)
			return m, nil
		}
		m.state = Ready
		m.reviews = msg.reviews
		m.logger.Infow("reviews loaded", "app_id", msg.appID, "count", len(msg.reviews))
		cmd := m.list.SetItems(toItems(msg.reviews))
		m.list.ResetSelected()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.detail {
		if key.Matches(msg, m.keys.Back) {
			m.detail = false
			m.keys.inDetail = false
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Back) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Open) {
		if m.state == Ready && len(m.list.Items()) > 0 {
			m.openDetail()
		}
		return m, nil
	}

	before := m.selector.Index()
	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	if cmd != nil || m.selector.Index() != before {
		return m, cmd
	}

	if m.state == Ready {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openDetail() {
	it, ok := m.list.SelectedItem().(reviewItem)
	if !ok {
		return
	}
	m.detail = true
	m.keys.inDetail = true
	m.viewport.SetContent(render.Entry(it.review, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if m.state == Loading {
		return panelString(loadingStyle.Render(m.spinner.View() + " Loading..."))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Reviews"))
	b.WriteString(mutedStyle.Render("  " + m.selector.Selected().ID))
	b.WriteString("\n\n")
	b.WriteString(m.selector.View())
	b.WriteString("\n\n")

	switch {
	case m.state == Error:
		b.WriteString(errorStyle.Render("✖ " + reviewapi.Describe(m.err)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.err.Error()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Pick another app to try again."))
	case m.detail:
		b.WriteString(m.viewport.View())
	default:
		b.WriteString(m.list.View())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return panelString(lipgloss.NewStyle().MaxWidth(m.width - 4).Render(b.String()))
}
