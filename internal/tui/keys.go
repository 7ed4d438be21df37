package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// keyBinding maps keys to an action within some scopes. Bindings without a
// description are matched but left out of the help line; label overrides the
// first key in help.
type keyBinding struct {
	keys   []string
	action string
	label  string
	desc   string
	scopes []string
}

type keyMap struct {
	bindings []keyBinding
}

// action returns the action bound to msg in scope, or "".
func (m keyMap) action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range m.bindings {
		if !slices.Contains(b.scopes, scope) {
			continue
		}
		for _, k := range b.keys {
			if normalizeKey(k) == pressed {
				return b.action
			}
		}
	}
	return ""
}

// help renders the help line for scope, skipping the hidden actions.
func (m keyMap) help(scope string, hidden ...string) string {
	var parts []string
	for _, b := range m.bindings {
		if b.desc == "" || !slices.Contains(b.scopes, scope) || slices.Contains(hidden, b.action) {
			continue
		}
		label := b.label
		if label == "" {
			label = b.keys[0]
		}
		parts = append(parts, label+" "+b.desc)
	}
	return strings.Join(parts, " · ")
}

func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}

const (
	scopeApp          = "app"
	scopeInbox        = "inbox"
	scopeInboxRemoved = "inbox:removed"
	scopeInboxSearch  = "inbox:search"
	scopeInboxDetail  = "inbox:detail"
	scopeFlowSingle   = "flow:single"
	scopeFlowMulti    = "flow:multi"
	scopeFlowText     = "flow:text"
	scopeFlowReview   = "flow:review"
	scopeFlowFinal    = "flow:final"
	scopeFlowEnded    = "flow:ended"
	scopeFlowConfirm  = "flow:confirm"
)

var inProgressFlow = []string{scopeFlowSingle, scopeFlowMulti, scopeFlowText, scopeFlowReview, scopeFlowFinal}

var keys = keyMap{bindings: []keyBinding{
	{keys: []string{"shift+tab"}, action: "next_tab", desc: "next tab", scopes: []string{scopeApp}},
	{keys: []string{"q", "ctrl+c"}, action: "quit", desc: "quit", scopes: []string{scopeApp}},

	{keys: []string{"k", "up"}, action: "up", scopes: []string{scopeInbox, scopeInboxRemoved, scopeFlowSingle, scopeFlowMulti}},
	{keys: []string{"j", "down"}, action: "down", label: "j/k", desc: "move", scopes: []string{scopeInbox, scopeInboxRemoved, scopeFlowSingle, scopeFlowMulti}},

	{keys: []string{"enter"}, action: "open", desc: "open", scopes: []string{scopeInbox}},
	{keys: []string{"r"}, action: "toggle_read", desc: "read/unread", scopes: []string{scopeInbox}},
	{keys: []string{"f"}, action: "toggle_flag", desc: "flag", scopes: []string{scopeInbox}},
	{keys: []string{"d"}, action: "remove", desc: "delete", scopes: []string{scopeInbox}},
	{keys: []string{"tab"}, action: "filter", desc: "filter", scopes: []string{scopeInbox}},
	{keys: []string{"u"}, action: "restore", desc: "restore", scopes: []string{scopeInboxRemoved}},
	{keys: []string{"x"}, action: "purge", desc: "delete forever", scopes: []string{scopeInboxRemoved}},
	{keys: []string{"/"}, action: "search", desc: "search", scopes: []string{scopeInbox, scopeInboxRemoved}},
	{keys: []string{"b"}, action: "bin", desc: "deleted", scopes: []string{scopeInbox}},
	{keys: []string{"s"}, action: "save_filter", desc: "save filter", scopes: []string{scopeInbox}},
	{keys: []string{"b"}, action: "bin", desc: "inbox", scopes: []string{scopeInboxRemoved}},
	{keys: []string{"esc", "enter"}, action: "close", desc: "back", scopes: []string{scopeInboxDetail}},
	{keys: []string{"enter"}, action: "search_done", desc: "done", scopes: []string{scopeInboxSearch}},
	{keys: []string{"esc"}, action: "search_clear", desc: "clear", scopes: []string{scopeInboxSearch}},

	{keys: []string{"space"}, action: "toggle", desc: "toggle", scopes: []string{scopeFlowMulti}},
	{keys: []string{"a"}, action: "toggle_all", desc: "select all", scopes: []string{scopeFlowMulti}},
	{keys: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, action: "edit", label: "1-9", desc: "change answer", scopes: []string{scopeFlowReview}},
	{keys: []string{"enter"}, action: "continue", desc: "choose and continue", scopes: []string{scopeFlowSingle}},
	{keys: []string{"enter"}, action: "continue", desc: "continue", scopes: []string{scopeFlowMulti, scopeFlowText, scopeFlowReview}},
	{keys: []string{"enter"}, action: "complete", desc: "done", scopes: []string{scopeFlowFinal}},
	{keys: []string{"esc"}, action: "back", desc: "back", scopes: inProgressFlow},
	{keys: []string{"ctrl+x"}, action: "cancel", desc: "cancel", scopes: inProgressFlow},
	{keys: []string{"y"}, action: "confirm_cancel", desc: "close form", scopes: []string{scopeFlowConfirm}},
	{keys: []string{"n", "esc"}, action: "keep", desc: "keep going", scopes: []string{scopeFlowConfirm}},
	{keys: []string{"enter", "n"}, action: "restart", desc: "start again", scopes: []string{scopeFlowEnded}},
}}
