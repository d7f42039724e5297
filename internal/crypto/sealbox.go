// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/sha3"
)

// Sealed box: ECDH-ES to an X25519 recipient key with XChaCha20-Poly1305.
// Box layout: ephemeral public key (32) || nonce (24) || ciphertext+tag.
// The AEAD key is SHA3-256(shared secret || ephemeral pub || recipient pub),
// binding the key to both parties of the exchange.

const sealBoxOverhead = curve25519.PointSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

// SealBox encrypts plaintext to an X25519 recipient public key using a
// fresh ephemeral keypair. Anyone holding only the box and the recipient
// public key cannot recover the plaintext.
func SealBox(recipientPub, plaintext []byte) ([]byte, error) {
	if len(recipientPub) != curve25519.PointSize {
		return nil, fmt.Errorf("invalid recipient public key size: expected %d, got %d",
			curve25519.PointSize, len(recipientPub))
	}

	ephPriv := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(ephPriv); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}
	defer ZeroBytes(ephPriv)

	ephPub, err := curve25519.X25519(ephPriv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ephemeral public key: %w", err)
	}

	key, err := boxKey(ephPriv, recipientPub, ephPub, recipientPub)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	box := make([]byte, 0, len(plaintext)+sealBoxOverhead)
	box = append(box, ephPub...)
	box = append(box, nonce...)
	return aead.Seal(box, nonce, plaintext, nil), nil
}

// OpenBox decrypts a sealed box with the recipient's X25519 private key.
func OpenBox(recipientPriv, recipientPub, box []byte) ([]byte, error) {
	if len(recipientPriv) != curve25519.ScalarSize {
		return nil, fmt.Errorf("invalid recipient private key size: expected %d, got %d",
			curve25519.ScalarSize, len(recipientPriv))
	}
	if len(box) < sealBoxOverhead {
		return nil, errors.New("sealed box too short")
	}

	ephPub := box[:curve25519.PointSize]
	nonce := box[curve25519.PointSize : curve25519.PointSize+chacha20poly1305.NonceSizeX]
	ct := box[curve25519.PointSize+chacha20poly1305.NonceSizeX:]

	key, err := boxKey(recipientPriv, ephPub, ephPub, recipientPub)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, errors.New("sealed box authentication failed")
	}
	return plaintext, nil
}

// boxKey derives the AEAD key from the X25519 shared secret and both
// public halves of the exchange.
func boxKey(priv, peerPub, ephPub, recipientPub []byte) ([]byte, error) {
	shared, err := curve25519.X25519(priv, peerPub)
	if err != nil {
		return nil, fmt.Errorf("key agreement failed: %w", err)
	}
	defer ZeroBytes(shared)

	h := sha3.New256()
	h.Write(shared)
	h.Write(ephPub)
	h.Write(recipientPub)
	return h.Sum(nil), nil
}
