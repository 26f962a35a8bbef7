// Package idgen implements "Inigo", the history's ID generator: stable,
// collision-resistant string IDs plus convenience builders that turn a
// request like "a sep command for entry E, key K, value V" directly into an
// encoded history line.
package idgen

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/lovincyrus/westley/internal/command"
)

// Generator produces IDs and pre-encoded command lines.
type Generator struct{}

// New returns a ready-to-use Generator. Inigo carries no state: every ID
// is independently random, so a zero-value Generator also works.
func New() *Generator {
	return &Generator{}
}

// NewID returns a 128-bit, base-16 encoded ID (32 hex characters) derived
// from a version-4 UUID's raw bytes. Well over the spec's 48-bit entropy
// floor, and stable once assigned (callers never regenerate an existing
// entity's ID).
func (g *Generator) NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// BuildCreateGroup returns a fresh group ID and the encoded cgr line that
// creates it under parentID (use command.RootID for the archive root).
func (g *Generator) BuildCreateGroup(parentID string) (id, line string) {
	id = g.NewID()
	return id, command.Encode(command.SlugCreateGroup, parentID, id)
}

// BuildCreateEntry returns a fresh entry ID and the encoded cen line that
// creates it under groupID.
func (g *Generator) BuildCreateEntry(groupID string) (id, line string) {
	id = g.NewID()
	return id, command.Encode(command.SlugCreateEntry, groupID, id)
}

// BuildSetGroupTitle encodes a tgr line.
func (g *Generator) BuildSetGroupTitle(groupID, title string) string {
	return command.Encode(command.SlugSetGroupTitle, groupID, title)
}

// BuildMoveGroup encodes an mgr line.
func (g *Generator) BuildMoveGroup(groupID, newParentID string) string {
	return command.Encode(command.SlugMoveGroup, groupID, newParentID)
}

// BuildDeleteGroup encodes a dgr line.
func (g *Generator) BuildDeleteGroup(groupID string) string {
	return command.Encode(command.SlugDeleteGroup, groupID)
}

// BuildSetGroupAttribute encodes an sga line.
func (g *Generator) BuildSetGroupAttribute(groupID, key, value string) string {
	return command.Encode(command.SlugSetGroupAttribute, groupID, key, value)
}

// BuildDeleteGroupAttribute encodes a dga line.
func (g *Generator) BuildDeleteGroupAttribute(groupID, key string) string {
	return command.Encode(command.SlugDeleteGroupAttribute, groupID, key)
}

// BuildMoveEntry encodes a men line.
func (g *Generator) BuildMoveEntry(entryID, newGroupID string) string {
	return command.Encode(command.SlugMoveEntry, entryID, newGroupID)
}

// BuildDeleteEntry encodes a den line.
func (g *Generator) BuildDeleteEntry(entryID string) string {
	return command.Encode(command.SlugDeleteEntry, entryID)
}

// BuildSetEntryProperty encodes a sep line.
func (g *Generator) BuildSetEntryProperty(entryID, key, value string) string {
	return command.Encode(command.SlugSetEntryProperty, entryID, key, value)
}

// BuildDeleteEntryProperty encodes a dep line.
func (g *Generator) BuildDeleteEntryProperty(entryID, key string) string {
	return command.Encode(command.SlugDeleteEntryProperty, entryID, key)
}

// BuildSetEntryAttribute encodes a sea line.
func (g *Generator) BuildSetEntryAttribute(entryID, key, value string) string {
	return command.Encode(command.SlugSetEntryAttribute, entryID, key, value)
}

// BuildDeleteEntryAttribute encodes a dea line.
func (g *Generator) BuildDeleteEntryAttribute(entryID, key string) string {
	return command.Encode(command.SlugDeleteEntryAttribute, entryID, key)
}

// BuildSetArchiveAttribute encodes a saa line.
func (g *Generator) BuildSetArchiveAttribute(key, value string) string {
	return command.Encode(command.SlugSetArchiveAttribute, key, value)
}

// BuildDeleteArchiveAttribute encodes a daa line.
func (g *Generator) BuildDeleteArchiveAttribute(key string) string {
	return command.Encode(command.SlugDeleteArchiveAttr, key)
}

// BuildArchiveSetID encodes an aid line.
func (g *Generator) BuildArchiveSetID(id string) string {
	return command.Encode(command.SlugArchiveSetID, id)
}

// BuildFormat encodes an fmt line.
func (g *Generator) BuildFormat(formatString string) string {
	return command.Encode(command.SlugFormat, formatString)
}
