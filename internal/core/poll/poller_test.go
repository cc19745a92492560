package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

func waitEvent(t *testing.T, p *Poller, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-p.Events():
			if !ok {
				t.Fatalf("events closed while waiting for kind %d", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestPollerSingleFlight(t *testing.T) {
	var active, peak int32
	fetch := func(ctx context.Context) ([]models.Document, error) {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		// Slower than the cadence, so ticks overlap outstanding fetches.
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil, nil
	}

	p := New(fetch, 5*time.Millisecond)
	p.Start()
	time.Sleep(150 * time.Millisecond)
	p.Stop()

	if got := atomic.LoadInt32(&peak); got != 1 {
		t.Errorf("peak concurrent fetches = %d, want 1", got)
	}
}

func TestPollerStatusProgression(t *testing.T) {
	var calls int32
	fetch := func(ctx context.Context) ([]models.Document, error) {
		n := atomic.AddInt32(&calls, 1)
		status := models.StatusProcessing
		if n >= 3 {
			status = models.StatusReady
		}
		return []models.Document{{ID: "d1", Filename: "lease.pdf", Status: status}}, nil
	}

	p := New(fetch, 5*time.Millisecond)
	p.Start()
	defer p.Stop()

	ev := waitEvent(t, p, EventSnapshot)
	doc, ok := ev.Snapshot.Find("d1")
	if !ok {
		t.Fatal("first snapshot should contain d1")
	}
	if doc.Selectable() {
		t.Error("processing document must not be selectable")
	}

	deadline := time.After(2 * time.Second)
	for !doc.Selectable() {
		select {
		case ev, open := <-p.Events():
			if !open {
				t.Fatal("events closed before document became ready")
			}
			if ev.Kind == EventSnapshot {
				doc, _ = ev.Snapshot.Find("d1")
			}
		case <-deadline:
			t.Fatal("document never became ready")
		}
	}

	if got, _ := p.Latest().Find("d1"); got.Status != models.StatusReady {
		t.Errorf("Latest() status = %q, want ready", got.Status)
	}
}

func TestPollerStopFreezesState(t *testing.T) {
	first := make(chan struct{}, 1)
	gate := make(chan struct{})
	var calls int32
	fetch := func(ctx context.Context) ([]models.Document, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			first <- struct{}{}
			return []models.Document{{ID: "d1", Status: models.StatusUploaded}}, nil
		}
		// Later fetches block until released after Stop.
		<-gate
		return []models.Document{{ID: "d1", Status: models.StatusReady}}, nil
	}

	p := New(fetch, 5*time.Millisecond)
	p.Start()
	<-first
	waitEvent(t, p, EventSnapshot)

	// Let a second fetch launch and park on the gate.
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	before := p.Latest()
	close(gate)
	time.Sleep(20 * time.Millisecond)

	after := p.Latest()
	if after.Seq != before.Seq {
		t.Errorf("snapshot mutated after Stop: seq %d -> %d", before.Seq, after.Seq)
	}
	if doc, _ := after.Find("d1"); doc.Status != models.StatusUploaded {
		t.Errorf("late fetch result applied after Stop: %+v", doc)
	}

	// The stream ends; no snapshot from the in-flight fetch leaks out.
	for ev := range p.Events() {
		if ev.Kind == EventSnapshot && ev.Snapshot.Seq > before.Seq {
			t.Errorf("event delivered after Stop: %+v", ev)
		}
	}
}

func TestPollerRefreshCoalesces(t *testing.T) {
	gate := make(chan struct{})
	var calls int32
	fetch := func(ctx context.Context) ([]models.Document, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return nil, nil
	}

	// Long interval: only Refresh drives fetches after the initial one.
	p := New(fetch, time.Minute)
	p.Start()
	defer func() {
		close(gate)
		p.Stop()
	}()

	time.Sleep(10 * time.Millisecond) // initial fetch is parked on the gate
	p.Refresh()
	p.Refresh()
	p.Refresh()
	time.Sleep(10 * time.Millisecond) // let the requests coalesce
	gate <- struct{}{} // release the initial fetch
	gate <- struct{}{} // release the single coalesced refresh

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch calls = %d, want 2 (initial + one coalesced refresh)", got)
	}
}

func TestPollerTransientErrorRetainsSnapshot(t *testing.T) {
	var calls int32
	fetch := func(ctx context.Context) ([]models.Document, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return []models.Document{{ID: "d1", Status: models.StatusReady}}, nil
		}
		return nil, &api.Error{Kind: api.KindTransient, Op: "documents", Err: errors.New("connection refused")}
	}

	p := New(fetch, 5*time.Millisecond)
	p.SetLogf(func(format string, args ...any) {})
	p.Start()
	defer p.Stop()

	waitEvent(t, p, EventSnapshot)
	ev := waitEvent(t, p, EventError)
	if !api.IsTransient(ev.Err) {
		t.Errorf("event error = %v", ev.Err)
	}

	snap := p.Latest()
	if _, ok := snap.Find("d1"); !ok {
		t.Error("failed fetch must retain the previous snapshot")
	}
}

func TestPollerAuthFailureStops(t *testing.T) {
	fetch := func(ctx context.Context) ([]models.Document, error) {
		return nil, &api.Error{Kind: api.KindAuth, Status: 401, Detail: "Could not validate credentials", Op: "documents"}
	}

	p := New(fetch, 5*time.Millisecond)
	torn := make(chan struct{})
	p.OnAuthFailed(func() {
		// Teardown re-entering Stop must not deadlock.
		p.Stop()
		close(torn)
	})
	p.Start()

	ev := waitEvent(t, p, EventAuthFailed)
	if !api.IsAuth(ev.Err) {
		t.Errorf("event error = %v", ev.Err)
	}

	select {
	case <-torn:
	case <-time.After(2 * time.Second):
		t.Fatal("teardown hook never ran")
	}

	// The stream is closed; the poller fetches no more.
	for range p.Events() {
	}
	p.Stop()
}

func TestPollerStaleResponseDiscarded(t *testing.T) {
	// Seq numbers only move forward, so a fetch that lands out of order can
	// never roll the snapshot back.
	p := New(func(ctx context.Context) ([]models.Document, error) { return nil, nil }, time.Minute)

	p.latest = Snapshot{Seq: 5, Documents: []models.Document{{ID: "d1", Status: models.StatusReady}}}
	if p.Latest().Seq != 5 {
		t.Fatal("setup")
	}

	snap := p.Latest()
	if doc, ok := snap.Find("d1"); !ok || doc.Status != models.StatusReady {
		t.Errorf("Find(d1) = %+v, %v", doc, ok)
	}
	if _, ok := snap.Find("missing"); ok {
		t.Error("Find() should miss unknown ids")
	}
}
