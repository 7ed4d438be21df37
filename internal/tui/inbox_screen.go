package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/healthapp/internal/inbox"
)

type inboxScreen struct {
	store           *inbox.Store
	mode            inbox.FilterMode
	query           string
	searching       bool
	showRemoved     bool
	cursor          int
	openedID        string
	suggestDistance int
	saveFilter      func(inbox.FilterMode) error
}

func newInboxScreen(store *inbox.Store, opts Options) *inboxScreen {
	return &inboxScreen{
		store:           store,
		mode:            opts.Filter,
		suggestDistance: opts.SuggestDistance,
		saveFilter:      opts.SaveFilter,
	}
}

func (s *inboxScreen) title() string {
	if n := s.store.UnreadCount(); n > 0 {
		return fmt.Sprintf("Messages (%d)", n)
	}
	return "Messages"
}

func (s *inboxScreen) capturesText() bool { return s.searching }

// rows is the list currently on screen. Filter mode and query are local UI
// state; the store only supplies the bins.
func (s *inboxScreen) rows() []inbox.Message {
	if s.showRemoved {
		return inbox.RemovedView(s.store, s.query)
	}
	return inbox.View(s.store, s.mode, s.query)
}

func (s *inboxScreen) current() (inbox.Message, bool) {
	rows := s.rows()
	if len(rows) == 0 {
		return inbox.Message{}, false
	}
	s.clamp(len(rows))
	return rows[s.cursor], true
}

func (s *inboxScreen) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *inboxScreen) scope() string {
	switch {
	case s.searching:
		return scopeInboxSearch
	case s.openedID != "":
		return scopeInboxDetail
	case s.showRemoved:
		return scopeInboxRemoved
	}
	return scopeInbox
}

func (s *inboxScreen) update(km tea.KeyMsg) note {
	action := keys.action(km, s.scope())
	if s.searching {
		return s.updateSearch(km, action)
	}

	switch action {
	case "close":
		s.openedID = ""
	case "down":
		s.cursor++
		s.clamp(len(s.rows()))
	case "up":
		s.cursor--
		s.clamp(len(s.rows()))
	case "filter":
		s.mode = s.mode.Next()
		s.cursor = 0
		return note{text: "Showing " + s.mode.String() + " messages"}
	case "bin":
		s.showRemoved = !s.showRemoved
		s.cursor = 0
		if s.showRemoved {
			return note{text: "Showing deleted messages"}
		}
		return note{text: "Showing inbox"}
	case "save_filter":
		if s.saveFilter == nil {
			return note{}
		}
		if err := s.saveFilter(s.mode); err != nil {
			return note{text: "save filter: " + err.Error(), err: true}
		}
		return note{text: "Inbox will open on " + s.mode.String() + " messages"}
	case "search":
		s.searching = true
	case "open":
		if m, ok := s.current(); ok {
			s.store.Open(m.ID)
			s.openedID = m.ID
		}
	case "toggle_read":
		if m, ok := s.current(); ok && s.store.ToggleRead(m.ID) {
			return note{text: "Updated " + m.Sender}
		}
	case "toggle_flag":
		if m, ok := s.current(); ok && s.store.ToggleFlag(m.ID) {
			return note{text: "Updated " + m.Sender}
		}
	case "remove":
		if m, ok := s.current(); ok && s.store.Remove(m.ID) {
			return note{text: "Deleted message from " + m.Sender + " (b to view, u to restore)"}
		}
	case "restore":
		if m, ok := s.current(); ok && s.store.Restore(m.ID) {
			return note{text: "Restored message from " + m.Sender}
		}
	case "purge":
		if m, ok := s.current(); ok && s.store.PermanentlyDelete(m.ID) {
			return note{text: "Permanently deleted message from " + m.Sender}
		}
	}
	return note{}
}

func (s *inboxScreen) updateSearch(km tea.KeyMsg, action string) note {
	switch action {
	case "search_done":
		s.searching = false
		return note{}
	case "search_clear":
		s.searching = false
		s.query = ""
		return note{}
	}
	switch km.Type {
	case tea.KeyBackspace:
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		s.query += " "
	case tea.KeyRunes:
		s.query += string(km.Runes)
	}
	s.cursor = 0
	return note{}
}

func (s *inboxScreen) view(now time.Time) string {
	if s.openedID != "" {
		return s.detailView(now)
	}
	var b strings.Builder
	c := s.store.Counts()
	if s.showRemoved {
		b.WriteString(headerStyle.Render(fmt.Sprintf("Deleted messages (%d)", c.Removed)))
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("Inbox · %s · %d unread · %d flagged", s.mode, c.Unread, c.Flagged)))
	}
	b.WriteString("\n")
	if s.searching || s.query != "" {
		line := "Search: " + s.query
		if s.searching {
			line += "_"
		}
		b.WriteString(mutedStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	rows := s.rows()
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("No messages") + "\n")
		if s.query != "" && s.suggestDistance > 0 {
			pool := inbox.Filter(s.store, s.mode)
			if s.showRemoved {
				pool = s.store.Removed()
			}
			if names := inbox.SuggestSenders(pool, s.query, s.suggestDistance); len(names) > 0 {
				b.WriteString(mutedStyle.Render("Did you mean: "+strings.Join(names, ", ")) + "\n")
			}
		}
		return b.String()
	}
	s.clamp(len(rows))
	for i, m := range rows {
		marker := "  "
		if i == s.cursor {
			marker = cursorStyle.Render("> ")
		}
		dot := " "
		if !m.IsRead && !s.showRemoved {
			dot = unreadStyle.Render("•")
		}
		flag := ""
		if m.IsFlagged {
			flag = " " + flagStyle.Render("⚑")
		}
		fmt.Fprintf(&b, "%s%s %s  %s%s\n", marker, dot, textStyle.Render(m.Sender), mutedStyle.Render(inbox.ListDateLabel(m.Date, now)), flag)
		fmt.Fprintf(&b, "     %s\n", mutedStyle.Render(m.Preview))
	}
	return b.String()
}

func (s *inboxScreen) detailView(now time.Time) string {
	m, _, ok := s.store.Get(s.openedID)
	if !ok {
		s.openedID = ""
		return s.view(now)
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.Sender) + "\n")
	b.WriteString(mutedStyle.Render(inbox.DetailDateLabel(m.Date, now)) + "\n\n")
	b.WriteString(textStyle.Render(m.Preview) + "\n\n")
	b.WriteString(textStyle.Render(m.Content) + "\n")
	return b.String()
}

func (s *inboxScreen) help() string {
	if s.searching {
		return "type to search · " + keys.help(scopeInboxSearch)
	}
	return keys.help(s.scope())
}
