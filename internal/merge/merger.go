package merge

import (
	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/command"
	"github.com/lovincyrus/westley/internal/westley"
)

// Merge produces a merged history from a Diff and replays it into a fresh
// archive (spec.md §4.8):
//
//  1. If both Primary and Secondary are non-empty, destructive commands
//     (dgr, den, dga, dep, dea, daa) are stripped from both tails —
//     concurrent deletion from a divergent point has ambiguous intent, so
//     content is preserved conservatively.
//  2. The merged history is common ++ secondary_kept ++ primary_kept:
//     remote changes (secondary) replay before the caller's own pending
//     edits (primary).
//  3. The result is replayed into a fresh archive, which replaces the
//     caller's current archive.
//
// Merge is deterministic (same Diff + cfg → same output) but not
// commutative — the remote-before-local ordering is part of the contract.
func Merge(diff Diff, cfg westley.Config) (*archive.Archive, error) {
	primary, secondary := diff.Primary, diff.Secondary

	if len(primary) > 0 && len(secondary) > 0 {
		primary = stripDestructive(primary)
		secondary = stripDestructive(secondary)
	}

	merged := make([]string, 0, len(diff.Common)+len(secondary)+len(primary))
	merged = append(merged, diff.Common...)
	merged = append(merged, secondary...)
	merged = append(merged, primary...)

	return archive.CreateFromHistory(cfg, merged)
}

// stripDestructive drops lines whose opcode is marked destructive in the
// command descriptor table. Lines that fail to decode are kept as-is —
// destructiveness can't be determined for them, and a malformed line will
// surface its own error at replay time regardless of merge-time filtering.
func stripDestructive(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cmd, err := command.Decode(line)
		if err == nil && cmd.Destructive {
			continue
		}
		out = append(out, line)
	}
	return out
}
