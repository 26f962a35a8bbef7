package cryptoprim

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// deriveKeys turns a password + salt + iteration count into independent AES
// and HMAC keys: PBKDF2 derives one master key, then HKDF-SHA256 splits it
// by info string. Reusing one key for both encryption and authentication
// is never safe, so this separation is mandatory, not an optimization.
func deriveKeys(password, salt []byte, iterations int) (aesKey, hmacKey []byte, err error) {
	master := pbkdf2.Key(password, salt, iterations, aesKeyLen, sha256.New)
	defer zero(master)

	aesKey = make([]byte, aesKeyLen)
	r := hkdf.New(sha256.New, master, salt, []byte("westley-envelope-aes"))
	if _, err := io.ReadFull(r, aesKey); err != nil {
		return nil, nil, fmt.Errorf("deriving aes subkey: %w", err)
	}

	hmacKey = make([]byte, hmacKeyLen)
	r = hkdf.New(sha256.New, master, salt, []byte("westley-envelope-hmac"))
	if _, err := io.ReadFull(r, hmacKey); err != nil {
		return nil, nil, fmt.Errorf("deriving hmac subkey: %w", err)
	}
	return aesKey, hmacKey, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func pkcs7Pad(data []byte) []byte {
	padLen := aes.BlockSize - len(data)%aes.BlockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte(nil), data...), padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: bad padded length", ErrAuthenticationFailure)
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrAuthenticationFailure)
	}
	padding := data[len(data)-padLen:]
	for _, b := range padding {
		if int(b) != padLen {
			return nil, fmt.Errorf("%w: bad padding", ErrAuthenticationFailure)
		}
	}
	return data[:len(data)-padLen], nil
}

// Encrypt seals plaintext under password using AES-256-CBC with a random
// IV and salt, authenticated with HMAC-SHA256. It returns the packed,
// self-describing artifact: "<salt>$<iv>$<iterations>$<ciphertext>$<hmac>",
// every field hex-encoded except iterations (spec.md §6).
func Encrypt(password, plaintext []byte, params Params) (string, error) {
	params = params.normalize()

	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	aesKey, hmacKey, err := deriveKeys(password, salt, params.Iterations)
	if err != nil {
		return "", err
	}
	defer zero(aesKey)
	defer zero(hmacKey)

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	tag := mac.Sum(nil)

	return strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(iv),
		strconv.Itoa(params.Iterations),
		hex.EncodeToString(ciphertext),
		hex.EncodeToString(tag),
	}, "$"), nil
}

// Decrypt opens a packed artifact produced by Encrypt. Any failure —
// malformed packing, bad password, corrupted ciphertext, truncated input —
// surfaces as ErrAuthenticationFailure, per spec.md §4.9 and §7.
func Decrypt(password []byte, packed string) ([]byte, error) {
	fields := strings.Split(packed, "$")
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: malformed packed artifact", ErrAuthenticationFailure)
	}

	salt, err := hex.DecodeString(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt encoding", ErrAuthenticationFailure)
	}
	iv, err := hex.DecodeString(fields[1])
	if err != nil || len(iv) != ivLen {
		return nil, fmt.Errorf("%w: bad iv", ErrAuthenticationFailure)
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil || iterations <= 0 {
		return nil, fmt.Errorf("%w: bad iteration count", ErrAuthenticationFailure)
	}
	ciphertext, err := hex.DecodeString(fields[3])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: bad ciphertext", ErrAuthenticationFailure)
	}
	tag, err := hex.DecodeString(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: bad hmac encoding", ErrAuthenticationFailure)
	}

	aesKey, hmacKey, err := deriveKeys(password, salt, iterations)
	if err != nil {
		return nil, err
	}
	defer zero(aesKey)
	defer zero(hmacKey)

	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	expected := mac.Sum(nil)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, fmt.Errorf("%w: hmac mismatch", ErrAuthenticationFailure)
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	plaintextPadded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintextPadded, ciphertext)

	return pkcs7Unpad(plaintextPadded)
}
