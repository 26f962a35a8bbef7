// Package credentials holds the opaque password + key-derivation bundle
// the envelope codec needs. Credentials are sensitive: never logged, and
// zeroed in place once no longer needed (spec.md §5, §4.12).
package credentials

import "github.com/lovincyrus/westley/internal/cryptoprim"

// Credentials is opaque to everything except the envelope codec.
type Credentials struct {
	password     []byte
	keyDerivation *cryptoprim.Params
}

// New builds Credentials from a password, copying the bytes so the caller
// can't mutate them out from under us. The copy is mlock'd and core dumps
// are disabled for the process, mirroring the teacher's session key
// protection.
func New(password []byte) Credentials {
	cp := make([]byte, len(password))
	copy(cp, password)
	disableCoreDumps()
	lockMemory(cp)
	return Credentials{password: cp}
}

// NewWithParams builds Credentials carrying explicit key-derivation
// parameters, e.g. when migrating an envelope to a stronger iteration
// count (spec.md §6).
func NewWithParams(password []byte, params cryptoprim.Params) Credentials {
	c := New(password)
	c.keyDerivation = &params
	return c
}

// Password returns the credential's password bytes. Callers must not
// retain or mutate the returned slice beyond the call.
func (c Credentials) Password() []byte { return c.password }

// KeyDerivation returns the credential's explicit key-derivation
// parameters, or nil if none were set (the envelope codec then falls back
// to its own Config).
func (c Credentials) KeyDerivation() *cryptoprim.Params { return c.keyDerivation }

// Zero wipes the password bytes in place. Call this once credentials are
// no longer needed — on Workspace.Close and whenever credentials are
// rotated (closing the Open Question in spec.md §9: rotating credentials
// must not leave stale plaintext reachable through the old bundle).
func (c Credentials) Zero() {
	for i := range c.password {
		c.password[i] = 0
	}
	unlockMemory(c.password)
}
