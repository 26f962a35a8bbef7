package credentials

import (
	"testing"

	"github.com/lovincyrus/westley/internal/cryptoprim"
)

func TestNew_CopiesPassword(t *testing.T) {
	pw := []byte("hunter2")
	c := New(pw)

	pw[0] = 'x'
	if string(c.Password()) != "hunter2" {
		t.Fatalf("credentials aliased caller's slice: got %q", c.Password())
	}
}

func TestZero_WipesPassword(t *testing.T) {
	c := New([]byte("hunter2"))
	c.Zero()

	for i, b := range c.Password() {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %v", i, c.Password())
		}
	}
}

func TestNewWithParams_CarriesKeyDerivation(t *testing.T) {
	params := cryptoprim.Params{Iterations: 500_000, SaltLen: 32}
	c := NewWithParams([]byte("hunter2"), params)

	if c.KeyDerivation() == nil {
		t.Fatal("expected key derivation params to be set")
	}
	if *c.KeyDerivation() != params {
		t.Fatalf("got %+v, want %+v", *c.KeyDerivation(), params)
	}
}

func TestKeyDerivation_NilByDefault(t *testing.T) {
	c := New([]byte("hunter2"))
	if c.KeyDerivation() != nil {
		t.Fatal("expected nil key derivation params for New")
	}
}
