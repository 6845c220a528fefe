package shellint

import "github.com/hay-kot/tenrec/internal/core/history"

// EventKind identifies a command lifecycle mark.
type EventKind int

const (
	EventPromptDrawn      EventKind = iota + 1 // 133;A
	EventCommandSubmitted                      // 133;B
	EventOutputStarted                         // 133;C
	EventCommandFinished                       // 133;D
)

func (k EventKind) String() string {
	switch k {
	case EventPromptDrawn:
		return "prompt-drawn"
	case EventCommandSubmitted:
		return "command-submitted"
	case EventOutputStarted:
		return "output-started"
	case EventCommandFinished:
		return "command-finished"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification produced by the parser.
type Event struct {
	Kind     EventKind
	ExitCode int32           // set for EventCommandFinished
	Record   *history.Record // set for EventCommandFinished
}

// Handler receives parser events synchronously on the feeding goroutine.
type Handler func(Event)
