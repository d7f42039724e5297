// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package suite

import (
	"crypto/ed25519"
	"fmt"

	"filippo.io/edwards25519"
)

// Ed25519PublicToX25519 converts an Ed25519 verification key to its
// birationally equivalent X25519 key-agreement key. DID tooling uses this
// to derive a keyAgreement entry from a signing key.
func Ed25519PublicToX25519(pub []byte) ([]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key size: expected %d, got %d",
			ed25519.PublicKeySize, len(pub))
	}
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("invalid ed25519 public key: %w", err)
	}
	return p.BytesMontgomery(), nil
}
