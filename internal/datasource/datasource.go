// Package datasource defines the contract a Workspace uses to load and
// save an archive's encrypted history, and provides the canonical
// in-memory TextDatasource every concrete datasource composes
// (spec.md §4.10).
package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lovincyrus/westley/internal/credentials"
	"github.com/lovincyrus/westley/internal/envelope"
)

// ErrNotFound is returned by Load when no content exists yet for the
// requested archive.
var ErrNotFound = errors.New("datasource: no content found")

// Descriptor advertises a datasource's kind and any parameters a caller
// might need to distinguish one instance from another (spec.md §4.10's
// "capability-set" framing — callers branch on Type, not on concrete
// Go type, so a remote datasource composing a TextDatasource still
// reports its own Type).
type Descriptor struct {
	Type   string
	Params map[string]string
}

// Datasource is the contract every storage backend implements: load and
// save a history under a given set of credentials, and describe itself.
type Datasource interface {
	Load(ctx context.Context, creds credentials.Credentials) ([]string, error)
	Save(ctx context.Context, history []string, creds credentials.Credentials) error
	Describe() Descriptor
}

// TextDatasource is the canonical in-memory implementation: it holds raw
// envelope text and encodes/decodes it against the envelope package.
// Concrete datasources (remote HTTP, local file, sqlite) compose a
// TextDatasource rather than reimplementing the envelope dance — the
// same "has-a, not is-a" pattern the spec requires of remote kinds.
type TextDatasource struct {
	mu      sync.Mutex
	content string
	envCfg  envelope.Config
}

// NewTextDatasource builds an empty TextDatasource using cfg for any new
// encryptions performed via Save.
func NewTextDatasource(cfg envelope.Config) *TextDatasource {
	return &TextDatasource{envCfg: cfg}
}

// SetContent installs raw envelope text directly, bypassing encryption —
// used by concrete datasources after they fetch bytes from their own
// backing store.
func (t *TextDatasource) SetContent(raw string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content = raw
}

// GetContent returns the raw envelope text currently held, and whether
// any content has been set.
func (t *TextDatasource) GetContent() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.content, t.content != ""
}

// Clear empties the held content. Concrete datasources call this before
// reloading from their backing store so a reload failure can never leave
// stale plaintext behind (spec.md §4.11's clear-before-reload rule).
func (t *TextDatasource) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content = ""
}

// Load decrypts the held content under creds. Returns ErrNotFound if no
// content has been set.
func (t *TextDatasource) Load(_ context.Context, creds credentials.Credentials) ([]string, error) {
	raw, ok := t.GetContent()
	if !ok {
		return nil, ErrNotFound
	}
	history, err := envelope.Decode(raw, creds.Password())
	if err != nil {
		return nil, fmt.Errorf("loading text datasource: %w", err)
	}
	return history, nil
}

// Save encrypts history under creds and installs it as the held content.
// The creds' key-derivation parameters are used when set; otherwise the
// datasource's envelope Config applies.
func (t *TextDatasource) Save(_ context.Context, history []string, creds credentials.Credentials) error {
	cfg := t.envCfg
	if p := creds.KeyDerivation(); p != nil {
		cfg.Params = *p
	}
	raw, err := envelope.Encode(cfg, history, creds.Password())
	if err != nil {
		return fmt.Errorf("saving text datasource: %w", err)
	}
	t.SetContent(raw)
	return nil
}

// Describe reports this datasource as an in-memory text buffer.
func (t *TextDatasource) Describe() Descriptor {
	return Descriptor{Type: "text"}
}
