package cryptoprim

import "errors"

// ErrAuthenticationFailure is returned by Decrypt when the HMAC tag does
// not verify (wrong password, corrupted or truncated ciphertext) or the
// packed artifact is malformed.
var ErrAuthenticationFailure = errors.New("authentication failure")
