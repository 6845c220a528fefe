// Package shellint parses shell-integration marks (OSC 133) out of a raw
// terminal output stream.
//
// A shell configured for integration brackets each command with:
//
//	ESC ] 133 ; A ST       prompt drawn
//	ESC ] 133 ; B ST       command submitted
//	ESC ] 133 ; C ST       command output started
//	ESC ] 133 ; D [; N] ST command finished with exit code N
//
// where ST is BEL or ESC \.
package shellint

import (
	"bytes"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tenrec/internal/core/history"
)

const (
	esc = 0x1b
	bel = 0x07

	// maxSequenceLen bounds the body of an unterminated sequence. A valid
	// 133 mark is a handful of bytes.
	maxSequenceLen = 256

	markPrefix = "133;"
)

// Parser is a byte-level state machine for one terminal session. Feed must
// be called from a single stream of calls; History and SetHandler may be
// called from any goroutine.
type Parser struct {
	mu      sync.Mutex
	log     zerolog.Logger
	handler Handler
	now     func() time.Time

	buf    []byte // body of the sequence in progress
	inSeq  bool
	sawESC bool

	commandStart time.Time // zero until a B mark arrives
	commandText  *string   // reserved for command capture; never populated yet

	history *history.Ring
}

// New creates a parser keeping at most historyLimit finished commands.
func New(log zerolog.Logger, historyLimit int) *Parser {
	return &Parser{
		log:     log,
		now:     time.Now,
		buf:     make([]byte, 0, 32),
		history: history.NewRing(historyLimit),
	}
}

// SetHandler replaces the event handler. Events produced while no handler is
// set are dropped.
func (p *Parser) SetHandler(h Handler) {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// History returns the finished commands, most recent first.
func (p *Parser) History() []history.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Snapshot()
}

// Write implements io.Writer so the parser can be placed on a tee of the
// terminal output. It never fails.
func (p *Parser) Write(data []byte) (int, error) {
	p.Feed(data)
	return len(data), nil
}

// Feed consumes the next chunk of terminal output. Sequences split across
// calls are reassembled. Events for every sequence completed by this chunk
// are delivered, in stream order, before Feed returns.
func (p *Parser) Feed(data []byte) {
	p.mu.Lock()
	var events []Event
	for _, b := range data {
		if !p.inSeq {
			p.outsideSequence(b)
			continue
		}
		if ev, ok := p.insideSequence(b); ok {
			events = append(events, ev)
		}
	}
	handler := p.handler
	p.mu.Unlock()

	if handler == nil {
		return
	}
	for _, ev := range events {
		handler(ev)
	}
}

func (p *Parser) outsideSequence(b byte) {
	if p.sawESC {
		// any byte after the held ESC drops it, including another ESC
		p.sawESC = false
		if b == ']' {
			p.inSeq = true
			p.buf = p.buf[:0]
		}
		return
	}

	if b == esc {
		p.sawESC = true
	}
}

func (p *Parser) insideSequence(b byte) (Event, bool) {
	if b == bel {
		return p.flush()
	}

	if b == '\\' && len(p.buf) > 0 && p.buf[len(p.buf)-1] == esc {
		p.buf = p.buf[:len(p.buf)-1]
		return p.flush()
	}

	p.buf = append(p.buf, b)

	if len(p.buf) > maxSequenceLen {
		p.log.Debug().
			Int("length", len(p.buf)).
			Msg("discarding unterminated escape sequence")
		p.inSeq = false
		p.buf = p.buf[:0]
	}

	return Event{}, false
}

// flush ends the current sequence and interprets its body.
func (p *Parser) flush() (Event, bool) {
	p.inSeq = false
	body := p.buf
	p.buf = p.buf[:0]

	if !utf8.Valid(body) || !bytes.HasPrefix(body, []byte(markPrefix)) {
		return Event{}, false
	}

	payload := body[len(markPrefix):]
	if len(payload) == 0 {
		return Event{}, false
	}

	switch payload[0] {
	case 'A':
		return Event{Kind: EventPromptDrawn}, true
	case 'B':
		p.commandStart = p.now()
		return Event{Kind: EventCommandSubmitted}, true
	case 'C':
		return Event{Kind: EventOutputStarted}, true
	case 'D':
		code := parseExitCode(payload[1:])
		rec := p.recordFinished(code)
		return Event{Kind: EventCommandFinished, ExitCode: code, Record: &rec}, true
	default:
		// unknown marks are reserved for future protocol extensions
		return Event{}, false
	}
}

// parseExitCode reads the ";N" suffix of a D mark. Absent means 0, anything
// that is not a signed 32-bit integer means -1.
func parseExitCode(rest []byte) int32 {
	if len(rest) == 0 || rest[0] != ';' {
		return 0
	}
	code, err := strconv.ParseInt(string(rest[1:]), 10, 32)
	if err != nil {
		return -1
	}
	return int32(code)
}

func (p *Parser) recordFinished(code int32) history.Record {
	finished := p.now()
	started := p.commandStart
	if started.IsZero() {
		started = finished
	}

	rec := history.NewFinished(p.commandText, code, started, finished)
	p.history.Push(rec)

	p.log.Debug().
		Int32("exit_code", code).
		Int("history", p.history.Len()).
		Msg("command finished")

	p.commandStart = time.Time{}
	p.commandText = nil
	return rec
}
