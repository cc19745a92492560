// Package watch uploads documents dropped into a local directory. It exists
// for the "scan to folder, ask questions later" workflow: point it at the
// scanner's output directory and every new PDF lands in the backend.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AswinRaj1123/NyayaAI/internal/core/docs"
)

// settleDelay is how long a file must stop growing before it is considered
// fully written. Scanners and browsers write in bursts.
const settleDelay = 500 * time.Millisecond

// Watcher uploads new supported files appearing in one directory.
type Watcher struct {
	client  *docs.Client
	dir     string
	watcher *fsnotify.Watcher
	logf    func(format string, args ...any)
}

// New creates a watcher for dir. The directory must already exist.
func New(client *docs.Client, dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{client: client, dir: dir, watcher: fw, logf: log.Printf}, nil
}

// Run blocks until ctx is cancelled, uploading each new supported file once
// it settles. Upload failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.logf("watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logf("watch shutting down")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !docs.SupportedFile(event.Name) {
				continue
			}
			w.handleCreate(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleCreate(ctx context.Context, path string) {
	if err := waitForSettle(ctx, path); err != nil {
		w.logf("skipping %s: %v", filepath.Base(path), err)
		return
	}
	doc, err := w.client.Upload(ctx, path)
	if err != nil {
		w.logf("upload %s failed: %v", filepath.Base(path), err)
		return
	}
	w.logf("uploaded %s (id %s, status %s)", doc.Filename, doc.ID, doc.Status)
}

// waitForSettle waits until the file size stops changing.
func waitForSettle(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settleDelay):
		}
	}
}
