// Package workspace binds together an Archive, a Datasource and a set of
// Credentials, coordinating load/merge/save through a per-archive FIFO
// save queue (spec.md §4.11).
package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/credentials"
	"github.com/lovincyrus/westley/internal/datasource"
	"github.com/lovincyrus/westley/internal/flatten"
	"github.com/lovincyrus/westley/internal/logging"
	"github.com/lovincyrus/westley/internal/merge"
	"github.com/lovincyrus/westley/internal/westley"
	"github.com/lovincyrus/westley/internal/workspace/savequeue"
)

// ErrNoArchive is returned by operations that require SetArchive to have
// been called first.
var ErrNoArchive = errors.New("workspace: no archive set")

// FlattenThreshold is the default history length above which Save
// flattens the archive before encoding (spec.md §4.6, §4.11).
const FlattenThreshold = 500

// Config carries the westley.Config used to replay merged/reconciled
// histories into a fresh Archive. Passed explicitly, never a process-wide
// default (spec.md §9).
type Config struct {
	WestleyConfig    westley.Config
	FlattenThreshold int
	Logger           logging.Logger
}

// Workspace coordinates one archive's lifecycle against its datasource.
type Workspace struct {
	cfg   Config
	ar    *archive.Archive
	ds    datasource.Datasource
	creds credentials.Credentials
	hasAr bool
}

// New builds an empty Workspace. Call SetArchive before Update/Save/etc.
func New(cfg Config) *Workspace {
	if cfg.FlattenThreshold <= 0 {
		cfg.FlattenThreshold = FlattenThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop{}
	}
	return &Workspace{cfg: cfg}
}

// SetArchive installs the archive, datasource, and credentials this
// Workspace coordinates. Replaces any previously set archive.
func (w *Workspace) SetArchive(ar *archive.Archive, ds datasource.Datasource, creds credentials.Credentials) {
	w.ar = ar
	w.ds = ds
	w.creds = creds
	w.hasAr = true
}

// Archive returns the currently bound archive.
func (w *Workspace) Archive() (*archive.Archive, error) {
	if !w.hasAr {
		return nil, ErrNoArchive
	}
	return w.ar, nil
}

// UpdatePrimaryCredentials swaps in new credentials, in-memory only; the
// change takes effect on the next Save. The old credentials are zeroed so
// stale plaintext keying material is never left reachable (closes the
// Open Question in spec.md §9: rotating credentials must invalidate any
// cached decrypted content).
func (w *Workspace) UpdatePrimaryCredentials(creds credentials.Credentials) {
	old := w.creds
	w.creds = creds
	old.Zero()
}

// LocalDiffersFromRemote loads the remote history and compares it against
// the local archive's, without mutating any local state. For non-text
// datasources that expose a Clear method it clears the underlying buffer
// first so stale content cannot masquerade as the remote (spec.md §4.11);
// a datasource without one (such as filestore's) is left to clear itself
// in Load.
func (w *Workspace) LocalDiffersFromRemote(ctx context.Context) (bool, error) {
	if !w.hasAr {
		return false, ErrNoArchive
	}

	if desc := w.ds.Describe(); desc.Type != "text" {
		if clearer, ok := w.ds.(interface{ Clear() }); ok {
			clearer.Clear()
		}
	}

	remote, err := w.ds.Load(ctx, w.creds)
	if err != nil {
		return false, fmt.Errorf("loading remote: %w", err)
	}

	diff := merge.Compare(w.ar.GetHistory(), remote)
	return diff.ArchivesDiffer(), nil
}

// MergeFromRemote loads the remote history, merges it against the local
// one, and replaces the local archive with the merged result (spec.md
// §4.8, §4.11).
func (w *Workspace) MergeFromRemote(ctx context.Context) (*archive.Archive, error) {
	if !w.hasAr {
		return nil, ErrNoArchive
	}

	if desc := w.ds.Describe(); desc.Type != "text" {
		if clearer, ok := w.ds.(interface{ Clear() }); ok {
			clearer.Clear()
		}
	}

	remote, err := w.ds.Load(ctx, w.creds)
	if err != nil {
		return nil, fmt.Errorf("loading remote: %w", err)
	}

	diff := merge.Compare(w.ar.GetHistory(), remote)
	merged, err := merge.Merge(diff, w.cfg.WestleyConfig)
	if err != nil {
		return nil, fmt.Errorf("merging: %w", err)
	}

	w.ar = merged
	w.cfg.Logger.Info(ctx, "merged remote archive", "archive_id", merged.ID())
	return merged, nil
}

// Update reconciles against the remote only if it has diverged from
// local; otherwise it is a no-op.
func (w *Workspace) Update(ctx context.Context) error {
	differs, err := w.LocalDiffersFromRemote(ctx)
	if err != nil {
		return err
	}
	if !differs {
		return nil
	}
	_, err = w.MergeFromRemote(ctx)
	return err
}

// flattenIfNeeded re-derives a minimal command history for the bound
// archive via internal/flatten when it exceeds threshold, returning a
// fresh archive replayed from that history. It does not mutate the
// Workspace — callers decide whether/when to commit the result, so a
// flatten that's followed by a failed save doesn't silently clear the
// original archive's dirty bit (spec.md §5, property 8). changed reports
// whether candidate is a new archive or simply w.ar unchanged.
func (w *Workspace) flattenIfNeeded(threshold int) (candidate *archive.Archive, changed bool, err error) {
	if len(w.ar.GetHistory()) <= threshold {
		return w.ar, false, nil
	}

	lines := flatten.Flatten(w.ar)
	flattened, err := archive.CreateFromHistory(w.cfg.WestleyConfig, lines)
	if err != nil {
		return nil, false, fmt.Errorf("flattening archive: %w", err)
	}
	return flattened, true, nil
}

// Flatten re-derives a minimal command history for the bound archive and
// commits it as the current archive immediately, but only when the
// current history exceeds threshold (spec.md §4.6, §4.11). A history at
// or below threshold is left alone. Unlike the flattening Save performs
// internally, this commits unconditionally — callers invoking Flatten
// directly (outside of Save) are not protected by a pending save outcome.
func (w *Workspace) Flatten(threshold int) error {
	if !w.hasAr {
		return ErrNoArchive
	}
	candidate, changed, err := w.flattenIfNeeded(threshold)
	if err != nil {
		return err
	}
	if changed {
		w.ar = candidate
	}
	return nil
}

// Save enqueues a save task on the per-archive FIFO channel and waits for
// it to complete. On success, Westley's dirty bit is cleared; a failed
// save leaves it set so retry logic can replay (spec.md §5). The archive
// is assigned an ID on first save (spec.md §3) before the save channel is
// keyed, so distinct archives always land on distinct queues. Flattening
// (when the history exceeds the configured threshold) is only committed
// to the Workspace once the save actually succeeds.
func (w *Workspace) Save(ctx context.Context) error {
	if !w.hasAr {
		return ErrNoArchive
	}

	id, err := w.ar.EnsureID()
	if err != nil {
		return fmt.Errorf("assigning archive id: %w", err)
	}

	candidate, flattened, err := w.flattenIfNeeded(w.cfg.FlattenThreshold)
	if err != nil {
		return err
	}

	ds := w.ds
	creds := w.creds

	q := savequeue.For(id)
	handle := q.Enqueue(0, "saving", func() error {
		if err := ds.Save(ctx, candidate.GetHistory(), creds); err != nil {
			return fmt.Errorf("saving to datasource: %w", err)
		}
		candidate.Westley().ClearDirtyState()
		return nil
	})

	if err := handle.Wait(); err != nil {
		return err
	}
	if flattened {
		w.ar = candidate
	}
	return nil
}

// Close zeroes the bound credentials. Call once the Workspace is no
// longer needed.
func (w *Workspace) Close() {
	w.creds.Zero()
}
