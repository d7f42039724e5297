// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package crypto

import (
	"bytes"
	"testing"
)

func TestZeroBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	ZeroBytes(b)
	if !bytes.Equal(b, make([]byte, 5)) {
		t.Errorf("buffer not zeroed: %v", b)
	}

	// Nil and empty slices are no-ops.
	ZeroBytes(nil)
	ZeroBytes([]byte{})
}

func TestSecureBufferCopiesInput(t *testing.T) {
	original := []byte("master key material")
	buf := NewSecureBuffer(original)

	// Wiping the original must not affect the buffer's copy.
	ZeroBytes(original)

	err := buf.WithBytes(func(b []byte) error {
		if string(b) != "master key material" {
			t.Errorf("buffer shares memory with input: %q", b)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithBytes failed: %v", err)
	}
	buf.Destroy()
}

func TestSecureBufferDestroy(t *testing.T) {
	buf := NewSecureBuffer([]byte("secret"))
	if buf.IsEmpty() {
		t.Fatal("buffer empty before destroy")
	}

	buf.Destroy()
	if !buf.IsEmpty() {
		t.Error("buffer not empty after destroy")
	}

	err := buf.WithBytes(func(b []byte) error {
		if len(b) != 0 {
			t.Errorf("destroyed buffer still exposes %d bytes", len(b))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithBytes failed: %v", err)
	}
}

func TestSecureBufferNil(t *testing.T) {
	buf := NewSecureBuffer(nil)
	if !buf.IsEmpty() {
		t.Error("nil-initialized buffer should be empty")
	}
	buf.Destroy()
}
