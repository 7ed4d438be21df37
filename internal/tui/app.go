package tui

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/healthapp/internal/flows"
	"github.com/jask/healthapp/internal/inbox"
)

// App is the terminal host: the inbox plus one tab per guided workflow.
type App struct {
	screens []screen
	active  int
	status  note
	logger  *slog.Logger
	now     func() time.Time
}

// screen is one tab of the app.
type screen interface {
	title() string
	update(tea.KeyMsg) note
	view(now time.Time) string
	help() string
	// capturesText reports whether printable keys are input for the screen.
	capturesText() bool
}

// note is a status line update; the zero value leaves the line as it is.
type note struct {
	text string
	err  bool
}

// Options configures New. SaveFilter, when set, persists the inbox filter
// chosen as default.
type Options struct {
	Logger          *slog.Logger
	Now             func() time.Time
	SuggestDistance int
	Filter          inbox.FilterMode
	SaveFilter      func(inbox.FilterMode) error
}

func New(store *inbox.Store, booking flows.Flow[flows.BookingSession], prescription flows.Flow[flows.PrescriptionSession], opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	// completed flows leave their confirmation in the inbox
	deliver := func(r flows.Receipt) {
		m, err := store.Deliver(inbox.Message{Sender: r.Sender, Preview: r.Preview, Content: r.Content, Date: now()})
		if err != nil {
			logger.Error("deliver receipt", "sender", r.Sender, "err", err)
			return
		}
		logger.Info("receipt delivered", "id", m.ID, "sender", m.Sender)
	}
	return &App{
		screens: []screen{
			newInboxScreen(store, opts),
			newFlowScreen(booking, logger, deliver),
			newFlowScreen(prescription, logger, deliver),
		},
		logger: logger,
		now:    now,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		cur := a.screens[a.active]
		switch keys.action(m, scopeApp) {
		case "quit":
			if m.Type == tea.KeyCtrlC || !cur.capturesText() {
				return a, tea.Quit
			}
		case "next_tab":
			a.active = (a.active + 1) % len(a.screens)
			a.status = note{}
			return a, nil
		}
		if n := cur.update(m); n.text != "" {
			a.status = n
			if n.err {
				a.logger.Warn("status", "screen", cur.title(), "msg", n.text)
			}
		}
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder
	tabs := make([]string, len(a.screens))
	for i, s := range a.screens {
		if i == a.active {
			tabs[i] = activeTabStyle.Render(s.title())
		} else {
			tabs[i] = inactiveTabStyle.Render(s.title())
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	cur := a.screens[a.active]
	b.WriteString(cur.view(a.now()))
	b.WriteString("\n")
	if a.status.text != "" {
		if a.status.err {
			b.WriteString(statusErrStyle.Render("error: "+a.status.text) + "\n")
		} else {
			b.WriteString(statusStyle.Render(a.status.text) + "\n")
		}
	}
	b.WriteString(helpStyle.Render(cur.help() + " · " + keys.help(scopeApp)))
	return b.String()
}
