// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package crypto

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// ZeroBytes securely overwrites a byte slice with zeros.
// Uses a constant-time copy to prevent the compiler from eliding the wipe.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}

// SecureBuffer wraps sensitive bytes (passphrases, master keys) with
// scoped access and explicit destruction.
type SecureBuffer struct {
	data []byte
	lock sync.RWMutex
}

// NewSecureBuffer creates a SecureBuffer from a byte slice.
// The input bytes are copied, so the caller can safely zero the original.
func NewSecureBuffer(b []byte) *SecureBuffer {
	if b == nil {
		return &SecureBuffer{data: nil}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &SecureBuffer{data: data}
}

// WithBytes provides scoped access to the underlying bytes without copying.
// The slice passed to fn is only valid during the callback; callers must
// not store or leak it.
func (s *SecureBuffer) WithBytes(fn func([]byte) error) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return fn(s.data)
}

// Destroy securely zeros the buffer. The SecureBuffer must not be used
// after Destroy returns.
func (s *SecureBuffer) Destroy() {
	s.lock.Lock()
	defer s.lock.Unlock()
	ZeroBytes(s.data)
	s.data = nil
}

// IsEmpty returns true if the buffer is empty or destroyed.
func (s *SecureBuffer) IsEmpty() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.data) == 0
}
