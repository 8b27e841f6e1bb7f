package filewatcher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Path      string    // Path to the changed file
	Timestamp time.Time // Time of the change
	Error     error     // Error if any occurred during processing
}

// ChangeListener is an interface for receiving file change notifications
type ChangeListener interface {
	OnFileChange(event ChangeEvent)
}

// ListenerFunc adapts a function to ChangeListener.
type ListenerFunc func(event ChangeEvent)

// OnFileChange calls f(event).
func (f ListenerFunc) OnFileChange(event ChangeEvent) { f(event) }

// Watcher reports content changes of a single file.
// The parent directory is watched so that editors and config maps that replace
// the file by rename are still seen. Rapid bursts are debounced and writes
// that leave the content unchanged are dropped.
type Watcher struct {
	watcher       *fsnotify.Watcher
	filePath      string
	debounceDelay time.Duration

	mu        sync.RWMutex
	listeners []ChangeListener
	lastSum   []byte
}

// NewWatcher creates a new file watcher with the specified debounce delay
func NewWatcher(filePath string, debounceDelay time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("failed to stat watched file: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory to watcher: %w", err)
	}

	w := &Watcher{
		watcher:       fsWatcher,
		filePath:      absPath,
		debounceDelay: debounceDelay,
	}
	w.lastSum, _ = checksum(absPath)

	return w, nil
}

// AddListener adds a listener to receive file change notifications
func (w *Watcher) AddListener(listener ChangeListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, listener)
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.filePath
}

// Start watches until ctx is done. It blocks; run it in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-pending:
			w.checkContent()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.notifyListeners(ChangeEvent{Path: w.filePath, Timestamp: time.Now(), Error: err})
		}
	}
}

// Close stops the watcher and releases resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil || eventPath != w.filePath {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// checkContent notifies listeners when the file's checksum moved.
func (w *Watcher) checkContent() {
	sum, err := checksum(w.filePath)
	if err != nil {
		// a rename-replace briefly leaves no file; the following Create retries
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		w.notifyListeners(ChangeEvent{Path: w.filePath, Timestamp: time.Now(), Error: err})
		return
	}

	w.mu.Lock()
	changed := !bytes.Equal(sum, w.lastSum)
	w.lastSum = sum
	w.mu.Unlock()

	if changed {
		w.notifyListeners(ChangeEvent{Path: w.filePath, Timestamp: time.Now()})
	}
}

func (w *Watcher) notifyListeners(event ChangeEvent) {
	w.mu.RLock()
	listeners := append([]ChangeListener(nil), w.listeners...)
	w.mu.RUnlock()

	for _, listener := range listeners {
		listener.OnFileChange(event)
	}
}

func checksum(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
