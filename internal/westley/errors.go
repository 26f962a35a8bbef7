package westley

import "errors"

var (
	// ErrInvalidCommand is returned when a history line cannot be parsed,
	// or names an opcode westley.Execute does not know how to apply.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrEntityNotFound is returned when a command references a group or
	// entry ID that does not exist in the current tree.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrDuplicateID is returned when a creation command's new ID already
	// exists somewhere in the tree.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidMove is returned when a move command would introduce a
	// cycle (a group moved into its own subtree).
	ErrInvalidMove = errors.New("invalid move")
	// ErrInternalInvariant signals that replay produced an inconsistent
	// tree. It is not expected to occur in normal operation; see
	// invariant.go for how release builds respond to it.
	ErrInternalInvariant = errors.New("internal invariant violation")
)
