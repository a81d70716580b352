package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/splitweave/errors"
)

func TestBech32EncodeDecode(t *testing.T) {
	// bech32  -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	if err != nil {
		t.Fatal(err)
	}

	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected prefix: %q", hrp)
	}
	if !bytes.Equal(want, payload) {
		t.Logf("want %d", want)
		t.Logf("got  %d", payload)
		t.Fatal("invalid decode")
	}

	raw, err := Encode(hrp, payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if string(raw) != enc {
		t.Fatalf("invalid encoding: %q", raw)
	}
}

func TestDecodeExpect(t *testing.T) {
	addr := []byte("splitter-instance-01")
	raw, err := Encode("split", addr)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}

	got, err := DecodeExpect("split", string(raw))
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if !bytes.Equal(got, addr) {
		t.Fatalf("want %q, got %q", addr, got)
	}

	if _, err := DecodeExpect("tiov", string(raw)); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input error, got %+v", err)
	}
}
