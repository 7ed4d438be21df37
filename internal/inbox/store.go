// Package inbox manages the patient's messages: an active bin, a removed bin,
// per-message read and flag state, and the projections used to list them.
package inbox

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyID     = errors.New("inbox: message id is empty")
	ErrDuplicateID = errors.New("inbox: message id already present")
	ErrRetiredID   = errors.New("inbox: message id was permanently deleted")
)

// Message is one item in the inbox. ID never changes once assigned.
type Message struct {
	ID        string
	Sender    string
	Preview   string
	Content   string
	Date      time.Time
	IsRead    bool
	IsFlagged bool
}

// Bin names the collection a message currently belongs to.
type Bin int

const (
	BinNone Bin = iota
	BinActive
	BinRemoved
)

func (b Bin) String() string {
	switch b {
	case BinActive:
		return "active"
	case BinRemoved:
		return "removed"
	default:
		return "none"
	}
}

// Counts summarises the store for badges and headers.
type Counts struct {
	Active  int
	Unread  int
	Flagged int
	Removed int
}

// Store owns the active and removed bins. Every message lives in exactly one
// bin; ids of permanently deleted messages are never accepted again.
// All methods are safe for concurrent use and are applied one at a time.
// The zero value is an empty store that logs to slog.Default.
type Store struct {
	mu      sync.RWMutex
	active  []Message
	removed []Message
	retired map[string]struct{}
	logger  *slog.Logger
}

// NewStore returns a store whose active bin holds msgs in the given order.
func NewStore(msgs ...Message) (*Store, error) {
	s := &Store{retired: make(map[string]struct{}), logger: slog.Default()}
	for _, m := range msgs {
		if err := s.admit(m.ID); err != nil {
			return nil, err
		}
		s.active = append(s.active, m)
	}
	return s, nil
}

func (s *Store) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

// SetLogger replaces the logger used for mutation records.
func (s *Store) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.logger = l
	s.mu.Unlock()
}

func (s *Store) admit(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, gone := s.retired[id]; gone {
		return fmt.Errorf("%w: %s", ErrRetiredID, id)
	}
	if _, bin := s.locate(id); bin != BinNone {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return nil
}

// Deliver appends a new message to the active bin. A message without an id
// is given a fresh one.
func (s *Store) Deliver(m Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.admit(m.ID); err != nil {
		return Message{}, err
	}
	s.active = append(s.active, m)
	s.log().Debug("inbox deliver", "id", m.ID, "sender", m.Sender)
	return m, nil
}

func (s *Store) locate(id string) (int, Bin) {
	if i := slices.IndexFunc(s.active, func(m Message) bool { return m.ID == id }); i >= 0 {
		return i, BinActive
	}
	if i := slices.IndexFunc(s.removed, func(m Message) bool { return m.ID == id }); i >= 0 {
		return i, BinRemoved
	}
	return -1, BinNone
}

// update applies fn to the active message with id. Unknown or removed ids
// are ignored.
func (s *Store) update(op, id string, fn func(*Message)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, bin := s.locate(id)
	if bin != BinActive {
		s.log().Debug("inbox no-op", "op", op, "id", id, "bin", bin)
		return false
	}
	fn(&s.active[i])
	s.log().Debug("inbox "+op, "id", id, "read", s.active[i].IsRead, "flagged", s.active[i].IsFlagged)
	return true
}

// MarkRead marks an active message read. It reports whether the id was found
// in the active bin.
func (s *Store) MarkRead(id string) bool {
	return s.update("mark_read", id, func(m *Message) { m.IsRead = true })
}

func (s *Store) MarkUnread(id string) bool {
	return s.update("mark_unread", id, func(m *Message) { m.IsRead = false })
}

func (s *Store) ToggleRead(id string) bool {
	return s.update("toggle_read", id, func(m *Message) { m.IsRead = !m.IsRead })
}

func (s *Store) ToggleFlag(id string) bool {
	return s.update("toggle_flag", id, func(m *Message) { m.IsFlagged = !m.IsFlagged })
}

// Open marks an active message read and returns it, as tapping a row does.
func (s *Store) Open(id string) (Message, bool) {
	var out Message
	ok := s.update("open", id, func(m *Message) {
		m.IsRead = true
		out = *m
	})
	return out, ok
}

// Remove moves an active message, unchanged, to the end of the removed bin.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, bin := s.locate(id)
	if bin != BinActive {
		return false
	}
	m := s.active[i]
	s.active = slices.Delete(s.active, i, i+1)
	s.removed = append(s.removed, m)
	s.log().Debug("inbox remove", "id", id, "active", len(s.active), "removed", len(s.removed))
	return true
}

// Restore moves a removed message back to the end of the active bin.
func (s *Store) Restore(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, bin := s.locate(id)
	if bin != BinRemoved {
		return false
	}
	m := s.removed[i]
	s.removed = slices.Delete(s.removed, i, i+1)
	s.active = append(s.active, m)
	s.log().Debug("inbox restore", "id", id, "active", len(s.active), "removed", len(s.removed))
	return true
}

// PermanentlyDelete drops a message from the removed bin and retires its id.
func (s *Store) PermanentlyDelete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, bin := s.locate(id)
	if bin != BinRemoved {
		return false
	}
	s.removed = slices.Delete(s.removed, i, i+1)
	if s.retired == nil {
		s.retired = make(map[string]struct{})
	}
	s.retired[id] = struct{}{}
	s.log().Debug("inbox delete", "id", id, "removed", len(s.removed))
	return true
}

// Get returns the message with id and the bin holding it.
func (s *Store) Get(id string) (Message, Bin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, bin := s.locate(id)
	switch bin {
	case BinActive:
		return s.active[i], bin, true
	case BinRemoved:
		return s.removed[i], bin, true
	}
	return Message{}, BinNone, false
}

// Active returns a copy of the active bin in storage order.
func (s *Store) Active() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.active)
}

// Removed returns a copy of the removed bin in storage order.
func (s *Store) Removed() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.removed)
}

// UnreadCount counts active messages not yet read.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.active {
		if !m.IsRead {
			n++
		}
	}
	return n
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := Counts{Active: len(s.active), Removed: len(s.removed)}
	for _, m := range s.active {
		if !m.IsRead {
			c.Unread++
		}
		if m.IsFlagged {
			c.Flagged++
		}
	}
	return c
}
