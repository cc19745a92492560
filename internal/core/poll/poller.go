// Package poll drives the fixed-cadence document list refresh. It owns the
// single-flight guarantee, the stale-response guard, and deterministic stop
// semantics; what to fetch is injected, so the engine is also reused for
// upload --wait.
package poll

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 5 * time.Second

// FetchFunc returns the current document list. It is called from the
// poller's worker goroutine, never concurrently with itself.
type FetchFunc func(ctx context.Context) ([]models.Document, error)

// Snapshot is one observed state of the document list. Seq increases with
// every applied fetch; consumers treat the list as last-write-wins.
type Snapshot struct {
	Documents []models.Document
	Seq       uint64
	Fetched   time.Time
}

// Find returns the document with the given id from this snapshot.
func (s Snapshot) Find(id string) (models.Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return models.Document{}, false
}

// EventKind discriminates poller events.
type EventKind int

const (
	// EventSnapshot: a fresh list was applied; Snapshot is set.
	EventSnapshot EventKind = iota
	// EventError: a fetch failed; the previous snapshot is retained.
	EventError
	// EventAuthFailed: the backend rejected the token. The poller has
	// stopped itself; session teardown follows.
	EventAuthFailed
)

// Event is pushed to Events() after every fetch outcome. Delivery is
// best-effort: if the consumer lags, events are dropped in favor of Latest().
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Err      error
}

// Poller repeatedly fetches the document list on a fixed cadence with at
// most one request in flight. Start/Stop form an explicit handle scoped to
// the authenticated session.
type Poller struct {
	fetch        FetchFunc
	interval     time.Duration
	logf         func(format string, args ...any)
	onAuthFailed func()

	mu     sync.RWMutex
	latest Snapshot

	events   chan Event
	kick     chan struct{}
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// New constructs a poller. A non-positive interval selects DefaultInterval.
func New(fetch FetchFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		logf:     log.Printf,
		events:   make(chan Event, 16),
		kick:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetLogf redirects background error logging. The TUI points this at a file
// so stderr never corrupts the screen.
func (p *Poller) SetLogf(f func(format string, args ...any)) {
	if f != nil {
		p.logf = f
	}
}

// OnAuthFailed registers the session teardown hook, invoked once if a fetch
// is rejected with an authentication error. Must be set before Start.
func (p *Poller) OnAuthFailed(fn func()) {
	p.onAuthFailed = fn
}

// Events returns the event stream, closed when the poller stops. Latest()
// always holds the current truth; events only signal that it changed.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Latest returns the most recently applied snapshot. Zero Seq means no
// fetch has succeeded yet.
func (p *Poller) Latest() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Start begins polling: an immediate fetch, then one per interval. Calling
// Start twice is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()
	go p.run()
}

// Stop halts polling. When Stop returns, no further event will be delivered
// and Latest will not change, even for a request issued before the call.
// The in-flight request itself is not aborted; its result is discarded.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()
	if started {
		<-p.done
	}
}

// Refresh requests an out-of-cadence fetch, used after an upload so the new
// document appears without waiting a full interval. If a fetch is already in
// flight the request coalesces and re-fires as soon as that fetch lands.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

type fetchResult struct {
	seq  uint64
	docs []models.Document
	err  error
}

func (p *Poller) run() {
	// Events is closed after the loop exits so channel consumers observe
	// the shutdown; emit only ever runs inside the loop.
	defer close(p.done)
	defer close(p.events)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Buffered so a result arriving after stop never blocks the goroutine
	// that produced it. Single-flight means at most one writer.
	results := make(chan fetchResult, 1)

	var (
		inflight bool
		pending  bool
		nextSeq  uint64
		applied  uint64
	)

	launch := func() {
		inflight = true
		nextSeq++
		seq := nextSeq
		go func() {
			docs, err := p.fetch(context.Background())
			results <- fetchResult{seq: seq, docs: docs, err: err}
		}()
	}

	launch()

	for {
		select {
		case <-p.stopCh:
			return

		case <-ticker.C:
			// Single-flight: a tick that overlaps an outstanding fetch is
			// skipped, not queued.
			if !inflight {
				launch()
			}

		case <-p.kick:
			if inflight {
				pending = true
			} else {
				launch()
			}

		case res := <-results:
			inflight = false
			switch {
			case res.err != nil && api.IsAuth(res.err):
				// Token rejected mid-session. Stop first so teardown code
				// calling Stop() sees a finished poller.
				p.stopOnce.Do(func() { close(p.stopCh) })
				p.emit(Event{Kind: EventAuthFailed, Err: res.err})
				if p.onAuthFailed != nil {
					go p.onAuthFailed()
				}
				return
			case res.err != nil:
				// Fail-soft: keep the last good snapshot, log, move on.
				p.logf("document poll failed: %v", res.err)
				p.emit(Event{Kind: EventError, Err: res.err})
			case res.seq > applied:
				applied = res.seq
				snap := Snapshot{Documents: res.docs, Seq: res.seq, Fetched: time.Now()}
				p.mu.Lock()
				p.latest = snap
				p.mu.Unlock()
				p.emit(Event{Kind: EventSnapshot, Snapshot: snap})
			}
			if pending {
				pending = false
				launch()
			}
		}
	}
}

func (p *Poller) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
	}
}
