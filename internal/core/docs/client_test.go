package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

// fakeBackend plays all three services on one mux with in-memory state.
type fakeBackend struct {
	mu      sync.Mutex
	docs    []map[string]any
	history map[string][]map[string]any
	reject  bool // when set, every authenticated call returns 401
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			reject := b.reject
			b.mu.Unlock()
			if reject || r.Header.Get("Authorization") != "Bearer tok123" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok123"})
	})
	mux.HandleFunc("/me", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "email": "a@x.com"})
	}))
	mux.HandleFunc("/documents", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.docs)
	}))
	mux.HandleFunc("/documents/", authed(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/documents/"), "/history")
		b.mu.Lock()
		defer b.mu.Unlock()
		entries := b.history[id]
		if entries == nil {
			entries = []map[string]any{}
		}
		json.NewEncoder(w).Encode(entries)
	}))
	mux.HandleFunc("/upload", authed(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile(file) error = %v", err)
			return
		}
		b.mu.Lock()
		id := fmt.Sprint(len(b.docs) + 1)
		b.docs = append(b.docs, map[string]any{"id": id, "filename": hdr.Filename, "status": "uploaded"})
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"document_id": id, "filename": hdr.Filename, "status": "uploaded"})
	}))
	mux.HandleFunc("/query", authed(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DocumentID any    `json:"document_id"`
			Question   string `json:"question"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		id := fmt.Sprint(body.DocumentID)
		b.mu.Lock()
		if b.history == nil {
			b.history = map[string][]map[string]any{}
		}
		b.history[id] = append(b.history[id], map[string]any{
			"question": body.Question,
			"answer":   "30 days",
			"sources":  3,
		})
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"answer": "30 days", "sources": 3})
	}))
	return mux
}

func (b *fakeBackend) setStatus(id, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.docs {
		if d["id"] == id {
			d["status"] = status
		}
	}
}

func newTestClient(t *testing.T, backend *fakeBackend, interval time.Duration) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	apiClient := api.New(srv.URL, srv.URL, srv.URL)
	sess := session.New(apiClient, session.NewFileTokenStore(filepath.Join(t.TempDir(), "token")))
	if err := sess.Login(context.Background(), "a@x.com", "secret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return New(apiClient, sess, interval), sess
}

func nextSnapshot(t *testing.T, p *poll.Poller) poll.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-p.Events():
			if !ok {
				t.Fatal("events closed while waiting for a snapshot")
			}
			if ev.Kind == poll.EventSnapshot {
				return ev.Snapshot
			}
		case <-deadline:
			t.Fatal("timed out waiting for a snapshot")
		}
	}
}

func TestSupportedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"lease.pdf", true},
		{"will.DOCX", true},
		{"notes.txt", true},
		{"scan.jpeg", false},
		{"archive.zip", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := SupportedFile(tt.name); got != tt.want {
			t.Errorf("SupportedFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	backend := &fakeBackend{}
	c, _ := newTestClient(t, backend, time.Minute)

	_, err := c.Upload(context.Background(), "/tmp/scan.jpeg")
	if !api.IsValidation(err) {
		t.Fatalf("err = %v, want validation failure", err)
	}
	// The invalid file never reaches the backend.
	if len(backend.docs) != 0 {
		t.Error("unsupported file was uploaded")
	}
}

func TestUploadTriggersRefresh(t *testing.T) {
	backend := &fakeBackend{}
	// Interval far longer than the test: only the upload nudge can surface
	// the new document.
	c, _ := newTestClient(t, backend, time.Minute)
	p := c.StartPolling(func(string, ...any) {})
	defer c.StopPolling()

	snap := nextSnapshot(t, p)
	if len(snap.Documents) != 0 {
		t.Fatalf("initial snapshot = %+v", snap.Documents)
	}

	path := filepath.Join(t.TempDir(), "lease.pdf")
	if err := os.WriteFile(path, []byte("contents"), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := c.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != models.StatusUploaded {
		t.Errorf("doc status = %q", doc.Status)
	}

	// Upload nudges the poller; the 1-minute cadence cannot be what
	// delivers this snapshot.
	snap = nextSnapshot(t, p)
	if _, ok := snap.Find(doc.ID); !ok {
		t.Errorf("new document missing from refreshed snapshot: %+v", snap.Documents)
	}
}

func TestSelectGatedOnReady(t *testing.T) {
	backend := &fakeBackend{
		docs: []map[string]any{
			{"id": "1", "filename": "lease.pdf", "status": "processing"},
			{"id": "2", "filename": "will.txt", "status": "ready"},
		},
	}
	c, _ := newTestClient(t, backend, 10*time.Millisecond)

	// No snapshot yet: nothing is selectable.
	if c.Select("2") {
		t.Error("Select() before the first snapshot should refuse")
	}

	p := c.StartPolling(func(string, ...any) {})
	defer c.StopPolling()
	nextSnapshot(t, p)

	if c.Select("1") {
		t.Error("Select() on a processing document should refuse")
	}
	if _, ok := c.Selected(); ok {
		t.Error("refused selection must not change state")
	}
	if c.Select("missing") {
		t.Error("Select() on an unknown id should refuse")
	}
	if !c.Select("2") {
		t.Error("Select() on a ready document should succeed")
	}
	if id, ok := c.Selected(); !ok || id != "2" {
		t.Errorf("Selected() = %q, %v", id, ok)
	}

	// The processing document becomes ready; the next snapshot re-evaluates
	// the affordance.
	backend.setStatus("1", "ready")
	deadline := time.After(2 * time.Second)
	for !c.Select("1") {
		select {
		case <-deadline:
			t.Fatal("document never became selectable")
		case <-time.After(10 * time.Millisecond):
		}
	}

	c.Deselect()
	if _, ok := c.Selected(); ok {
		t.Error("Deselect() should clear the target")
	}
}

func TestAskRequiresSelection(t *testing.T) {
	backend := &fakeBackend{}
	c, _ := newTestClient(t, backend, time.Minute)

	_, err := c.Ask(context.Background(), "What is the notice period?")
	if err == nil {
		t.Fatal("Ask() without a selection should fail")
	}
	if got := api.Detail(err, ""); got != "no document selected" {
		t.Errorf("Detail() = %q", got)
	}

	_, err = c.AskDocument(context.Background(), "1", "   ")
	if got := api.Detail(err, ""); got != "question is empty" {
		t.Errorf("Detail() = %q", got)
	}
}

func TestAskThenHistory(t *testing.T) {
	backend := &fakeBackend{
		docs: []map[string]any{{"id": "1", "filename": "lease.pdf", "status": "ready"}},
	}
	c, _ := newTestClient(t, backend, time.Minute)

	ans, err := c.AskDocument(context.Background(), "1", "What is the notice period?")
	if err != nil {
		t.Fatalf("AskDocument() error = %v", err)
	}
	if ans.Answer != "30 days" || ans.Sources != 3 {
		t.Errorf("answer = %+v", ans)
	}

	// History fetched after the answer resolves includes the new exchange.
	entries, err := c.History(context.Background(), "1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Question != "What is the notice period?" || entries[0].Answer != "30 days" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestListRejectedTokenTearsDownSession(t *testing.T) {
	backend := &fakeBackend{}
	c, sess := newTestClient(t, backend, time.Minute)

	backend.mu.Lock()
	backend.reject = true
	backend.mu.Unlock()

	// One-shot list, no poller running: the 401 must still log out.
	_, err := c.List(context.Background())
	if !api.IsAuth(err) {
		t.Fatalf("err = %v, want auth failure", err)
	}
	if sess.Authenticated() {
		t.Error("session still authenticated after a 401 on List")
	}
	if sess.Token() != "" {
		t.Errorf("token survived a 401 on List: %q", sess.Token())
	}
}

func TestRejectedTokenTearsDownSession(t *testing.T) {
	backend := &fakeBackend{}
	c, sess := newTestClient(t, backend, 10*time.Millisecond)

	p := c.StartPolling(func(string, ...any) {})
	nextSnapshot(t, p)

	backend.mu.Lock()
	backend.reject = true
	backend.mu.Unlock()

	deadline := time.After(2 * time.Second)
	for ev := range p.Events() {
		if ev.Kind == poll.EventAuthFailed {
			break
		}
		select {
		case <-deadline:
			t.Fatal("poller never reported the rejected token")
		default:
		}
	}

	// Teardown runs asynchronously from the poller goroutine.
	for sess.Authenticated() {
		select {
		case <-deadline:
			t.Fatal("session never tore down")
		case <-time.After(5 * time.Millisecond):
		}
	}
	c.StopPolling()
}
