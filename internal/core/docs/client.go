// Package docs is the document-facing client: upload, list polling,
// selection, questions, and history, all authenticated through the session.
package docs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

// MaxUploadSize mirrors the upload service's cap. Checked client-side so an
// oversized file fails before the bytes leave the machine.
const MaxUploadSize = 20 * 1024 * 1024

// allowedExtensions is a UX hint, not a security boundary; the backend
// validates for real.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// SupportedFile reports whether the filename looks like a document the
// backend accepts.
func SupportedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Client exposes the document operations on top of the API transport. One
// poller per authenticated session; selection is only ever granted to Ready
// documents.
type Client struct {
	api  *api.Client
	sess *session.Session

	interval time.Duration

	mu       sync.Mutex
	poller   *poll.Poller
	selected string
}

// New constructs a document client. A non-positive interval selects the
// poll default.
func New(client *api.Client, sess *session.Session, interval time.Duration) *Client {
	return &Client{api: client, sess: sess, interval: interval}
}

// StartPolling begins the list refresh loop and returns the poller handle.
// A 401 on any poll tears the session down and stops the loop. Starting
// while already polling returns the existing handle.
func (c *Client) StartPolling(logf func(format string, args ...any)) *poll.Poller {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poller != nil {
		return c.poller
	}
	p := poll.New(c.fetch, c.interval)
	if logf != nil {
		p.SetLogf(logf)
	}
	p.OnAuthFailed(func() {
		c.sess.Logout()
		c.StopPolling()
	})
	c.poller = p
	p.Start()
	return p
}

// StopPolling halts the refresh loop. Idempotent; safe during teardown.
func (c *Client) StopPolling() {
	c.mu.Lock()
	p := c.poller
	c.poller = nil
	c.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

// Snapshot returns the latest observed document list. Zero value before the
// first successful poll.
func (c *Client) Snapshot() poll.Snapshot {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p == nil {
		return poll.Snapshot{}
	}
	return p.Latest()
}

// fetch is the shared list path for the poller and List. A 401 here tears
// the session down like every other authenticated call.
func (c *Client) fetch(ctx context.Context) ([]models.Document, error) {
	documents, err := c.api.Documents(ctx, c.sess.Token())
	if err != nil && api.IsAuth(err) {
		c.sess.Logout()
	}
	return documents, err
}

// List fetches the document list once, outside the poll loop. Used by the
// one-shot CLI commands.
func (c *Client) List(ctx context.Context) ([]models.Document, error) {
	return c.fetch(ctx)
}

// Upload validates and sends one file, then nudges the poller so the new
// document shows up without waiting a full interval. The caller's file
// selection survives a failure; only success changes state here.
func (c *Client) Upload(ctx context.Context, path string) (models.Document, error) {
	name := filepath.Base(path)
	if !SupportedFile(name) {
		return models.Document{}, &api.Error{
			Kind:   api.KindValidation,
			Detail: fmt.Sprintf("unsupported file type %q: expected .pdf, .docx, or .txt", filepath.Ext(name)),
			Op:     "upload",
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return models.Document{}, &api.Error{Kind: api.KindUpload, Op: "upload", Err: err, Detail: err.Error()}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Document{}, &api.Error{Kind: api.KindUpload, Op: "upload", Err: err, Detail: err.Error()}
	}
	if info.Size() > MaxUploadSize {
		return models.Document{}, &api.Error{
			Kind:   api.KindValidation,
			Detail: fmt.Sprintf("%s is %s, over the %s limit", name, humanize.Bytes(uint64(info.Size())), humanize.Bytes(MaxUploadSize)),
			Op:     "upload",
		}
	}

	doc, err := c.upload(ctx, name, f)
	if err != nil {
		return models.Document{}, err
	}

	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p != nil {
		p.Refresh()
	}
	return doc, nil
}

// UploadReader sends already-opened content, for callers that do not have a
// file on disk (the MCP server, tests).
func (c *Client) UploadReader(ctx context.Context, filename string, r io.Reader) (models.Document, error) {
	return c.upload(ctx, filename, r)
}

func (c *Client) upload(ctx context.Context, filename string, r io.Reader) (models.Document, error) {
	doc, err := c.api.Upload(ctx, c.sess.Token(), filename, r)
	if err != nil {
		if api.IsAuth(err) {
			c.sess.Logout()
		}
		return models.Document{}, err
	}
	return doc, nil
}

// Select marks a document as the question target. Only a document the
// latest snapshot shows as Ready can be selected; anything else is a no-op
// and Select reports false. Affordances are re-evaluated on every snapshot,
// never cached stale.
func (c *Client) Select(id string) bool {
	snap := c.Snapshot()
	doc, ok := snap.Find(id)
	if !ok || !doc.Selectable() {
		return false
	}
	c.mu.Lock()
	c.selected = id
	c.mu.Unlock()
	return true
}

// Deselect clears the question target.
func (c *Client) Deselect() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

// Selected returns the current question target, if any.
func (c *Client) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

// Ask sends one question against the selected document. The caller's typed
// question is never cleared here; on failure they retry with it intact.
func (c *Client) Ask(ctx context.Context, question string) (models.Answer, error) {
	id, ok := c.Selected()
	if !ok {
		return models.Answer{}, &api.Error{Kind: api.KindQuery, Detail: "no document selected", Op: "query"}
	}
	return c.AskDocument(ctx, id, question)
}

// AskDocument sends one question against a specific document id.
func (c *Client) AskDocument(ctx context.Context, id, question string) (models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Answer{}, &api.Error{Kind: api.KindQuery, Detail: "question is empty", Op: "query"}
	}
	answer, err := c.api.Query(ctx, c.sess.Token(), id, question)
	if err != nil {
		if api.IsAuth(err) {
			c.sess.Logout()
		}
		return models.Answer{}, err
	}
	return answer, nil
}

// History fetches the full conversation history for a document, replacing
// any local copy. Called on selection and after each successful Ask.
func (c *Client) History(ctx context.Context, id string) ([]models.ConversationEntry, error) {
	entries, err := c.api.History(ctx, c.sess.Token(), id)
	if err != nil {
		if api.IsAuth(err) {
			c.sess.Logout()
		}
		return nil, err
	}
	return entries, nil
}
