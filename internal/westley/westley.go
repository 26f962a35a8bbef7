// Package westley holds the live archive tree and is the sole executor of
// the command history: every mutation the façade in internal/archive wants
// to make is expressed as a command line, handed to Execute, and only takes
// effect once Execute validates and applies it.
package westley

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lovincyrus/westley/internal/command"
	"github.com/lovincyrus/westley/internal/logging"
)

// Config is an explicit, immutable configuration record passed into New.
// There are no process-wide mutable defaults (spec.md §9).
type Config struct {
	// PadCadence is the number of executed non-pad commands between
	// automatically inserted pad lines. Zero disables padding.
	PadCadence int
	// Rand supplies randomness for pad nonces. Defaults to crypto/rand
	// when nil.
	Rand io.Reader
	// Logger receives structured diagnostic events. Defaults to a no-op
	// logger when nil.
	Logger logging.Logger
}

// Westley is the command executor and owner of the live tree + history.
type Westley struct {
	mu sync.Mutex

	root *rootNode

	groupIndex map[string]*groupNode
	entryIndex map[string]*entryNode

	history    []string
	dirty      bool
	nonPadRuns int

	cfg Config
}

// New creates an empty Westley ready to Execute commands.
func New(cfg Config) *Westley {
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop{}
	}
	return &Westley{
		root:       newRootNode(),
		groupIndex: map[string]*groupNode{},
		entryIndex: map[string]*entryNode{},
		cfg:        cfg,
	}
}

// Execute decodes a single history line and applies it to the tree. On
// success the raw line is appended to history and the dirty bit is set. On
// failure the tree is left exactly as it was (validation happens before any
// mutation in every apply* helper).
func (w *Westley) Execute(line string) error {
	cmd, err := command.Decode(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.apply(cmd); err != nil {
		if errors.Is(err, ErrInternalInvariant) {
			panicOnInvariant(err)
		}
		return err
	}

	w.history = append(w.history, line)
	w.dirty = true
	w.cfg.Logger.Info(context.Background(), "command executed", "slug", string(cmd.Slug))

	if cmd.Slug != command.SlugPad {
		w.nonPadRuns++
		w.maybePad()
	}
	return nil
}

// maybePad inserts a pad line with a random nonce once nonPadRuns reaches
// the configured cadence. Must be called with mu held.
func (w *Westley) maybePad() {
	cadence := w.cfg.PadCadence
	if cadence <= 0 || w.nonPadRuns%cadence != 0 {
		return
	}
	nonce := make([]byte, 8)
	if _, err := io.ReadFull(w.cfg.Rand, nonce); err != nil {
		return // padding is best-effort; never fails the caller's command
	}
	line := command.Encode(command.SlugPad, hex.EncodeToString(nonce))
	w.history = append(w.history, line)
}

// Clear resets the tree and history to empty and clears the dirty bit.
func (w *Westley) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.root = newRootNode()
	w.groupIndex = map[string]*groupNode{}
	w.entryIndex = map[string]*entryNode{}
	w.history = nil
	w.dirty = false
	w.nonPadRuns = 0
}

// ClearDirtyState sets dirty to false without touching the tree or history.
// Callers should only do this after a successful save.
func (w *Westley) ClearDirtyState() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = false
}

// Dirty reports whether commands have executed since the last ClearDirtyState.
func (w *Westley) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// GetHistory returns a snapshot copy of the executed history lines.
func (w *Westley) GetHistory() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.history))
	copy(out, w.history)
	return out
}

// Replay resets the tree and executes every line of history in order. It is
// the deterministic-replay primitive that createFromHistory builds on.
func Replay(cfg Config, lines []string) (*Westley, error) {
	w := New(cfg)
	for _, line := range lines {
		if err := w.Execute(line); err != nil {
			return nil, err
		}
	}
	w.ClearDirtyState()
	return w, nil
}
