package terminal

import (
	"sync"

	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/core/prompt"
)

// Publisher is the narrow write side of BufferState used by the monitor.
type Publisher interface {
	UpdatePendingInput(m *prompt.Match)
	SetMonitoring(on bool)
}

// Snapshot is a copy of BufferState at one point in time.
type Snapshot struct {
	HasPendingInput bool
	PendingText     *string
	PendingCategory *prompt.Category
	LastCommand     *history.Record
	History         []history.Record // most recent first
	IsMonitoring    bool
}

// BufferState is the observable state of one terminal session. All writes go
// through RecordCommand, UpdatePendingInput, SetMonitoring and Reset; readers
// take snapshots or subscribe to changes.
//
// HasPendingInput is true exactly when PendingText is set.
type BufferState struct {
	mu          sync.Mutex
	pendingText *string
	pendingCat  *prompt.Category
	history     *history.Ring
	monitoring  bool
	subscribers map[int]chan Snapshot
	nextSubID   int
}

// NewBufferState creates an empty state retaining at most historyLimit
// commands.
func NewBufferState(historyLimit int) *BufferState {
	return &BufferState{
		history:     history.NewRing(historyLimit),
		subscribers: make(map[int]chan Snapshot),
	}
}

// RecordCommand adds a finished command to the history. The newest record
// is the last command.
func (s *BufferState) RecordCommand(rec history.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Push(rec)
	s.notify()
}

// UpdatePendingInput sets the pending prompt from m, or clears it when m is
// nil. Prompt text and category always change together.
func (s *BufferState) UpdatePendingInput(m *prompt.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == nil {
		s.pendingText = nil
		s.pendingCat = nil
	} else {
		text, cat := m.Text, m.Category
		s.pendingText = &text
		s.pendingCat = &cat
	}
	s.notify()
}

// SetMonitoring records whether a monitor is scanning this session.
func (s *BufferState) SetMonitoring(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.monitoring = on
	s.notify()
}

// Reset clears every field, including the command history.
func (s *BufferState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingText = nil
	s.pendingCat = nil
	s.history.Reset()
	s.monitoring = false
	s.notify()
}

// Snapshot returns a copy of the current state.
func (s *BufferState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the newest value; intermediate snapshots are
// dropped. Call the returned function to unsubscribe.
func (s *BufferState) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan Snapshot, 1)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// notify must be called with s.mu held.
func (s *BufferState) notify() {
	if len(s.subscribers) == 0 {
		return
	}

	snap := s.snapshot()
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// snapshot must be called with s.mu held.
func (s *BufferState) snapshot() Snapshot {
	snap := Snapshot{
		HasPendingInput: s.pendingText != nil,
		History:         s.history.Snapshot(),
		IsMonitoring:    s.monitoring,
	}
	if s.pendingText != nil {
		text := *s.pendingText
		snap.PendingText = &text
	}
	if s.pendingCat != nil {
		cat := *s.pendingCat
		snap.PendingCategory = &cat
	}
	if rec, ok := s.history.Latest(); ok {
		snap.LastCommand = &rec
	}
	return snap
}
