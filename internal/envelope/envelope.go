// Package envelope implements the on-disk encrypted container around a
// history: a human-readable signature line followed by the base64 of an
// authenticated-encryption packet (spec.md §4.9, §6).
package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lovincyrus/westley/internal/cryptoprim"
)

// CurrentMajor and CurrentMinor identify the envelope format version this
// package writes. Schema evolution beyond this version is out of scope
// (spec.md Non-goals).
const (
	CurrentMajor = 2
	CurrentMinor = 0

	signaturePrefix = "b~>buttercup/a v"
)

// ErrUnrecognizedFormat is returned when the first line is missing or does
// not match the expected signature.
var ErrUnrecognizedFormat = errors.New("unrecognized format")

// ErrAuthenticationFailure is re-exported from cryptoprim so callers only
// need to import this package's error taxonomy.
var ErrAuthenticationFailure = cryptoprim.ErrAuthenticationFailure

// Config carries the key-derivation parameters used for new encryptions.
// Passed explicitly, never a process-wide default (spec.md §9).
type Config struct {
	Params cryptoprim.Params
}

// DefaultConfig returns a Config meeting the spec's PBKDF2/salt floors.
func DefaultConfig() Config {
	return Config{Params: cryptoprim.DefaultParams()}
}

// Encode joins history lines with '\n', encrypts the result under
// password, and wraps it in the signed envelope format.
func Encode(cfg Config, history []string, password []byte) (string, error) {
	body := strings.Join(history, "\n")
	packed, err := cryptoprim.Encrypt(password, []byte(body), cfg.Params)
	if err != nil {
		return "", fmt.Errorf("encrypting envelope: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%d.%d\n", signaturePrefix, CurrentMajor, CurrentMinor)
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(packed)))
	return b.String(), nil
}

// Decode parses a signed envelope and decrypts its body, returning the
// history lines in order. A missing/unrecognized signature is
// ErrUnrecognizedFormat; any decryption failure is ErrAuthenticationFailure.
func Decode(raw string, password []byte) ([]string, error) {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		return nil, fmt.Errorf("%w: missing signature line", ErrUnrecognizedFormat)
	}
	sig, body := raw[:nl], raw[nl+1:]

	if _, _, ok := parseSignature(sig); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, sig)
	}

	packedBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 body", ErrAuthenticationFailure)
	}

	plaintext, err := cryptoprim.Decrypt(password, string(packedBytes))
	if err != nil {
		return nil, err
	}
	if len(plaintext) == 0 {
		return nil, nil
	}
	return strings.Split(string(plaintext), "\n"), nil
}

// parseSignature extracts (major, minor) from a "b~>buttercup/a vX.Y" line.
func parseSignature(line string) (major, minor int, ok bool) {
	if !strings.HasPrefix(line, signaturePrefix) {
		return 0, 0, false
	}
	version := strings.TrimPrefix(line, signaturePrefix)
	parts := strings.SplitN(version, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return major, minor, true
}
