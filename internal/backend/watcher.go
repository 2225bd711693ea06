package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/atomicstack/navshell/internal/logging"
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/navtree"
)

// Event carries a freshly fetched tree. On failure Tree is empty and Err is
// set.
type Event struct {
	Tree      *navtree.Model
	Err       error
	Reason    string
	FetchedAt time.Time
}

// Options configures a Watcher.
type Options struct {
	Source Source
	// Poll re-fetches on a fixed interval when positive.
	Poll time.Duration
	// Timeout bounds a single fetch. Zero means no bound.
	Timeout time.Duration
	// MinInterval spaces successive fetches. Defaults to 250ms; negative
	// disables spacing.
	MinInterval time.Duration
}

// Watcher fetches the navigation payload at start, on Reload, on file
// change and optionally on a poll interval. Failed fetches are never
// retried on their own.
type Watcher struct {
	opts     Options
	throttle *throttle
	group    singleflight.Group
	fs       *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	reload chan string
	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher for opts.Source.
func NewWatcher(opts Options) (*Watcher, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("backend watcher: no source")
	}
	interval := opts.MinInterval
	if interval == 0 {
		interval = 250 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:     opts,
		throttle: newThrottle(interval),
		ctx:      ctx,
		cancel:   cancel,
		reload:   make(chan string, 1),
		events:   make(chan Event, 16),
	}

	if file, ok := opts.Source.(FileSource); ok {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("watch nav file: %w", err)
		}
		// editors replace files, so the directory is watched
		if err := fw.Add(filepath.Dir(file.Path)); err != nil {
			fw.Close()
			cancel()
			return nil, fmt.Errorf("watch nav file: %w", err)
		}
		w.fs = fw
		w.wg.Add(1)
		go w.watchFile(filepath.Clean(file.Path))
	}

	w.wg.Add(1)
	go w.loop()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns the channel of fetch results. It is closed once every
// goroutine has exited after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Reload requests a fetch. Requests made while one is queued collapse.
func (w *Watcher) Reload() {
	select {
	case w.reload <- "reload":
	default:
	}
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	if !w.refresh("start") {
		return
	}

	var tick <-chan time.Time
	if w.opts.Poll > 0 {
		ticker := time.NewTicker(w.opts.Poll)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		var reason string
		select {
		case <-w.ctx.Done():
			return
		case reason = <-w.reload:
		case <-tick:
			reason = "poll"
		}
		if !w.refresh(reason) {
			return
		}
	}
}

func (w *Watcher) watchFile(path string) {
	defer w.wg.Done()
	defer w.fs.Close()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.refresh("file") {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Error(fmt.Errorf("watch nav file: %w", err))
		}
	}
}

// refresh fetches once and emits the result. Overlapping calls share one
// fetch and one event. It reports false once the watcher is stopping.
func (w *Watcher) refresh(reason string) bool {
	events.Backend.Trigger(reason)
	w.group.Do("nav", func() (interface{}, error) {
		if !w.throttle.wait(w.ctx) {
			return nil, nil
		}
		evt := w.fetch(reason)
		select {
		case <-w.ctx.Done():
		case w.events <- evt:
		}
		return nil, nil
	})
	return w.ctx.Err() == nil
}

func (w *Watcher) fetch(reason string) Event {
	ctx := w.ctx
	if w.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.Timeout)
		defer cancel()
	}
	evt := Event{Reason: reason, FetchedAt: time.Now()}
	data, err := w.opts.Source.Fetch(ctx)
	events.Backend.Fetch(w.opts.Source.String(), len(data), err)
	if err != nil {
		evt.Tree = navtree.Empty()
		evt.Err = err
		return evt
	}
	tree, err := navtree.ParseBytes(data)
	if err != nil {
		err = fmt.Errorf("parse nav payload: %w", err)
		logging.Error(err)
	}
	evt.Tree = tree
	evt.Err = err
	return evt
}
