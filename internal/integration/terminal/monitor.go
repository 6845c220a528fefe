package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/pkg/ansi"
)

const (
	// DefaultScanLines is the number of trailing lines sampled per scan.
	DefaultScanLines = 10
	// DefaultScanInterval is the time between scans.
	DefaultScanInterval = 500 * time.Millisecond
)

// MonitorOptions configures a Monitor. Zero values fall back to defaults.
type MonitorOptions struct {
	ScanLines    int
	ScanInterval time.Duration
}

func (o MonitorOptions) withDefaults() MonitorOptions {
	if o.ScanLines <= 0 {
		o.ScanLines = DefaultScanLines
	}
	if o.ScanInterval <= 0 {
		o.ScanInterval = DefaultScanInterval
	}
	return o
}

// Monitor periodically samples a LineSource, classifies the sampled lines and
// publishes the prompt nearest the cursor. Unchanged content is detected by
// fingerprint and skipped without classification.
type Monitor struct {
	log    zerolog.Logger
	engine *prompt.Engine
	state  Publisher
	opts   MonitorOptions

	mu     sync.Mutex // guards source, cancel, done
	source LineSource
	cancel context.CancelFunc
	done   chan struct{}

	scanMu      sync.Mutex // serializes scans; guards the fingerprint
	fingerprint uint64
	scanned     bool
}

// NewMonitor creates a stopped monitor publishing to state.
func NewMonitor(log zerolog.Logger, engine *prompt.Engine, state Publisher, opts MonitorOptions) *Monitor {
	return &Monitor{
		log:    log,
		engine: engine,
		state:  state,
		opts:   opts.withDefaults(),
	}
}

// SetSource attaches the line source. Until a source is attached scans are
// no-ops.
func (m *Monitor) SetSource(src LineSource) {
	m.mu.Lock()
	m.source = src
	m.mu.Unlock()
}

// IsMonitoring reports whether the scan loop is running.
func (m *Monitor) IsMonitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Start begins scanning every ScanInterval until Stop is called or ctx is
// cancelled. Calling Start on a running monitor does nothing. When ctx ends
// the monitor stops itself and can be started again.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}

	m.state.SetMonitoring(true)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	go m.run(ctx, done)

	m.log.Debug().
		Dur("interval", m.opts.ScanInterval).
		Int("lines", m.opts.ScanLines).
		Msg("monitoring started")
}

// Stop cancels the scan loop, waits for an in-flight scan to finish and
// clears the pending prompt. Command history is left untouched. Calling Stop
// on a stopped monitor only re-publishes the cleared state.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		m.log.Debug().Msg("monitoring stopped")
	}

	m.resetFingerprint()
	m.state.SetMonitoring(false)
	m.state.UpdatePendingInput(nil)
}

func (m *Monitor) resetFingerprint() {
	m.scanMu.Lock()
	m.scanned = false
	m.scanMu.Unlock()
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer func() {
		// Stop clears done before waiting; if it is still ours the loop
		// ended because the parent context did.
		m.mu.Lock()
		owned := m.done == done
		if owned {
			m.cancel()
			m.cancel, m.done = nil, nil
			m.state.SetMonitoring(false)
			m.state.UpdatePendingInput(nil)
		}
		m.mu.Unlock()

		if owned {
			m.resetFingerprint()
			m.log.Debug().Msg("monitoring ended with parent context")
		}
		close(done)
	}()

	ticker := time.NewTicker(m.opts.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if ctx.Err() != nil {
			return
		}
		m.Scan(ctx)
	}
}

// Scan performs one synchronous scan. It reports whether a state update was
// published.
func (m *Monitor) Scan(ctx context.Context) bool {
	m.scanMu.Lock()
	defer m.scanMu.Unlock()

	m.mu.Lock()
	src := m.source
	m.mu.Unlock()

	if src == nil {
		return false
	}

	lines, err := src.LastLines(ctx, m.opts.ScanLines)
	if err != nil {
		m.log.Debug().Err(err).Msg("line source unavailable")
		return false
	}
	if len(lines) == 0 {
		return false
	}
	if len(lines) > m.opts.ScanLines {
		lines = lines[len(lines)-m.opts.ScanLines:]
	}

	sum := fingerprint(lines)
	if m.scanned && sum == m.fingerprint {
		return false
	}
	m.fingerprint, m.scanned = sum, true

	matches := m.engine.MatchAll(ansi.StripAll(lines))

	// the last match is nearest the cursor
	var best *prompt.Match
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		best = &last
	}

	evt := m.log.Debug().
		Int("lines", len(lines)).
		Int("matches", len(matches))
	if best != nil {
		evt = evt.Str("best", best.Label)
	}
	evt.Msg("scan complete")

	m.state.UpdatePendingInput(best)
	return true
}

// fingerprint hashes the lines with a separator so that different splits of
// the same text produce different sums.
func fingerprint(lines []string) uint64 {
	d := xxhash.New()
	for i, line := range lines {
		if i > 0 {
			_, _ = d.WriteString("\n")
		}
		_, _ = d.WriteString(line)
	}
	return d.Sum64()
}
