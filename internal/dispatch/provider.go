// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package dispatch routes operation requests to the correct suite
// implementation.
//
// Each suite registers a Provider. The dispatcher validates the entry's
// declared capabilities before any provider code runs, operates on a local
// decrypted copy outside the store's shared lock, and zeroes that copy on
// every exit path.
package dispatch

import (
	"errors"

	"github.com/univault-io/univault/internal/util"
)

// Provider implements the cryptographic operations for one suite.
// Methods the suite does not support return errUnsupported; the dispatcher
// never reaches them because capability validation happens first.
type Provider interface {
	// Suite returns the suite name this provider serves.
	Suite() string

	// Sign signs payload with the private material.
	Sign(priv, payload []byte) ([]byte, error)

	// Verify checks a signature against the public material. A mismatched
	// signature is (false, nil); structurally invalid input is an error.
	Verify(pub, payload, sig []byte) (bool, error)

	// Agree derives a Diffie-Hellman shared secret from the private
	// material and a counterparty public key.
	Agree(priv, peerPub []byte) ([]byte, error)

	// Encrypt encrypts plaintext to the public material.
	Encrypt(pub, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with the private material.
	Decrypt(priv, pub, ciphertext []byte) ([]byte, error)
}

// errUnsupported is returned by baseProvider for operations a suite does
// not implement. Unreachable through Execute, which gates on capabilities.
var errUnsupported = errors.New("operation not implemented for suite")

// baseProvider supplies default unsupported implementations so concrete
// providers only implement what their suite declares.
type baseProvider struct{}

func (baseProvider) Sign(_, _ []byte) ([]byte, error)       { return nil, errUnsupported }
func (baseProvider) Verify(_, _, _ []byte) (bool, error)    { return false, errUnsupported }
func (baseProvider) Agree(_, _ []byte) ([]byte, error)      { return nil, errUnsupported }
func (baseProvider) Encrypt(_, _ []byte) ([]byte, error)    { return nil, errUnsupported }
func (baseProvider) Decrypt(_, _, _ []byte) ([]byte, error) { return nil, errUnsupported }

var providers = util.NewStringRegistry[Provider]()

// Register adds a provider to the registry.
// Panics if a provider for the same suite is already registered.
func Register(p Provider) {
	if !providers.Set(p.Suite(), p) {
		panic("duplicate operation provider registration for suite: " + p.Suite())
	}
}
