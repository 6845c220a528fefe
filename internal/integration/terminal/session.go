package terminal

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/internal/core/shellint"
)

// Options configures a Session.
type Options struct {
	HistoryLimit int
	Monitor      MonitorOptions
}

// Session ties together the two signal pipelines of one terminal: the
// shell-integration parser fed with raw output, and the prompt monitor fed
// with rendered lines. Both publish into the same BufferState.
type Session struct {
	ID      string
	Parser  *shellint.Parser
	State   *BufferState
	Monitor *Monitor

	log     zerolog.Logger
	mu      sync.Mutex
	handler shellint.Handler
}

// NewSession creates a session with a stopped monitor and no line source.
func NewSession(log zerolog.Logger, id string, engine *prompt.Engine, opts Options) *Session {
	if opts.HistoryLimit < 1 {
		opts.HistoryLimit = history.DefaultLimit
	}

	log = log.With().Str("session", id).Logger()
	state := NewBufferState(opts.HistoryLimit)

	s := &Session{
		ID:      id,
		Parser:  shellint.New(log.With().Str("component", "shellint").Logger(), opts.HistoryLimit),
		State:   state,
		Monitor: NewMonitor(log.With().Str("component", "monitor").Logger(), engine, state, opts.Monitor),
		log:     log,
	}
	s.Parser.SetHandler(s.handleEvent)
	return s
}

// OnEvent registers a handler that receives every parser event after the
// session has applied it to State.
func (s *Session) OnEvent(h shellint.Handler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Write feeds raw terminal output to the parser.
func (s *Session) Write(data []byte) (int, error) {
	return s.Parser.Write(data)
}

// Start attaches src and starts monitoring. A nil src leaves the current
// source in place.
func (s *Session) Start(ctx context.Context, src LineSource) {
	if src != nil {
		s.Monitor.SetSource(src)
	}
	s.Monitor.Start(ctx)
}

// Close stops monitoring and resets the observable state.
func (s *Session) Close() {
	s.Monitor.Stop()
	s.State.Reset()
}

func (s *Session) handleEvent(ev shellint.Event) {
	if ev.Kind == shellint.EventCommandFinished && ev.Record != nil {
		rec := *ev.Record
		rec.Session = s.ID
		s.State.RecordCommand(rec)
		ev.Record = &rec
	}

	s.log.Debug().
		Str("event", ev.Kind.String()).
		Int32("exit_code", ev.ExitCode).
		Msg("shell integration event")

	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		h(ev)
	}
}
