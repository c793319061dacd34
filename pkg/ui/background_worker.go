package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treeselect/pkg/loader"
	"github.com/vanderheijden86/treeselect/pkg/tree"
	"github.com/vanderheijden86/treeselect/pkg/watcher"
)

// WorkerState represents the current state of the reload worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is building a new forest.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load" or "build"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures so far
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// ReloadWorker watches an input file and rebuilds the forest off the UI
// goroutine whenever it changes. Each new forest is handed to the program
// in a ReloadedMsg and is not touched by the worker afterwards.
type ReloadWorker struct {
	inputPath     string
	plain         bool
	buildOpts     []tree.BuildOption
	debounceDelay time.Duration

	mu       sync.RWMutex
	state    WorkerState
	dirty    bool // A change came in while processing
	latest   *tree.Forest
	started  bool
	lastHash string // Hash of the last path list built

	lastError  *WorkerError
	errorCount int

	watcher *watcher.Watcher
	program *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerConfig configures the ReloadWorker.
type WorkerConfig struct {
	InputPath     string
	Plain         bool // InputPath is a plain path list rather than counted input
	BuildOptions  []tree.BuildOption
	DebounceDelay time.Duration
	Program       *tea.Program
}

// NewReloadWorker creates a reload worker. An empty InputPath yields a
// worker that never reloads.
func NewReloadWorker(cfg WorkerConfig) (*ReloadWorker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}

	w := &ReloadWorker{
		inputPath:     cfg.InputPath,
		plain:         cfg.Plain,
		buildOpts:     cfg.BuildOptions,
		debounceDelay: cfg.DebounceDelay,
		program:       cfg.Program,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	if cfg.InputPath != "" {
		fw, err := watcher.NewWatcher(cfg.InputPath,
			watcher.WithDebounceDuration(cfg.DebounceDelay),
		)
		if err != nil {
			cancel()
			return nil, err
		}
		w.watcher = fw
	}

	return w, nil
}

// Start begins watching. Start is idempotent.
func (w *ReloadWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	if w.watcher != nil {
		// started stays false on failure so a later Start can retry
		if err := w.watcher.Start(); err != nil {
			return err
		}
		go w.processLoop()
	} else {
		// Nothing to watch; let Stop return immediately
		close(w.done)
	}
	w.started = true
	return nil
}

// Stop halts the worker. Stop is idempotent.
func (w *ReloadWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()
	if w.watcher != nil {
		w.watcher.Stop()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// TriggerRefresh rebuilds immediately without waiting for a file event.
func (w *ReloadWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// Latest returns the most recently built forest, or nil. When a program is
// attached the forest belongs to the UI once sent, and callers must not
// modify it.
func (w *ReloadWorker) Latest() *tree.Forest {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// State returns the current worker state.
func (w *ReloadWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent error (nil if the last reload succeeded).
func (w *ReloadWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the content hash of the last successful build.
func (w *ReloadWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

func (w *ReloadWorker) processLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.watcher.Changed():
			w.process()
		}
	}
}

func (w *ReloadWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	forest := w.buildForest()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if forest != nil {
		w.latest = forest
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if w.program != nil && forest != nil {
		w.program.Send(ReloadedMsg{Forest: forest})
	}

	if wasDirty {
		go w.process()
	}
}

// safeCompute runs fn, converting errors and panics into a WorkerError.
func (w *ReloadWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
		}
	}()
	return result
}

func (w *ReloadWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

func (w *ReloadWorker) fail(err *WorkerError) {
	log.Printf("warning: reload %s: %v", w.inputPath, err)
	w.recordError(err)
	if w.program != nil {
		w.program.Send(ReloadErrorMsg{Err: err, Recoverable: true})
	}
}

// buildForest reads the input and builds a fresh forest. It returns nil when
// loading fails or the path list is unchanged since the last build.
func (w *ReloadWorker) buildForest() *tree.Forest {
	if w.inputPath == "" {
		return nil
	}

	var paths []string
	if werr := w.safeCompute("load", func() error {
		var err error
		paths, err = w.loadPaths()
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	hash := pathsHash(paths)
	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()
	if hash == lastHash {
		w.recordError(nil)
		return nil
	}

	var forest *tree.Forest
	if werr := w.safeCompute("build", func() error {
		var err error
		forest, err = tree.Build(paths, w.buildOpts...)
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	w.recordError(nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()
	return forest
}

func (w *ReloadWorker) loadPaths() ([]string, error) {
	if w.plain {
		return loader.LoadPathFiles(w.ctx, []string{w.inputPath})
	}
	in, err := loader.LoadInput(w.inputPath)
	if err != nil {
		return nil, err
	}
	return in.Paths, nil
}

// pathsHash fingerprints a path list for change detection.
func pathsHash(paths []string) string {
	sum := sha256.Sum256([]byte(strings.Join(paths, "\n")))
	return hex.EncodeToString(sum[:])
}

// ReloadedMsg carries a freshly built forest to the UI.
type ReloadedMsg struct {
	Forest *tree.Forest
}

// ReloadErrorMsg reports a failed reload. The UI keeps the previous forest.
type ReloadErrorMsg struct {
	Err         error
	Recoverable bool
}
