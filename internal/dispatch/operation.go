// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package dispatch

import (
	"errors"

	"github.com/univault-io/univault/internal/suite"
)

// Category is the operation category of a request.
type Category string

const (
	OpSign    Category = "sign"
	OpVerify  Category = "verify"
	OpAgree   Category = "agree"
	OpEncrypt Category = "encrypt"
	OpDecrypt Category = "decrypt"
)

var (
	// ErrCapabilityMismatch indicates the entry's suite does not declare
	// the requested operation category. A caller error, never retried.
	ErrCapabilityMismatch = errors.New("suite does not support requested operation")

	// ErrOperationFailure indicates the underlying primitive rejected the
	// call (malformed payload, bad key material, primitive failure).
	ErrOperationFailure = errors.New("operation failed")
)

// capability maps an operation category to the suite capability it needs.
func (c Category) capability() (suite.Capability, bool) {
	switch c {
	case OpSign:
		return suite.CapSign, true
	case OpVerify:
		return suite.CapVerify, true
	case OpAgree:
		return suite.CapAgree, true
	case OpEncrypt:
		return suite.CapEncrypt, true
	case OpDecrypt:
		return suite.CapDecrypt, true
	}
	return "", false
}

// Request is a transient operation request. Never persisted.
type Request struct {
	// EntryID is the content identifier of the target entry.
	EntryID string

	// Op is the operation category.
	Op Category

	// Payload carries the bytes to sign/verify/encrypt/decrypt.
	Payload []byte

	// PeerPublic carries the counterparty public key for key agreement.
	PeerPublic []byte

	// Signature carries the signature to check for verify requests.
	Signature []byte
}

// Result is a transient operation result. It never carries private
// material.
type Result struct {
	// Suite is the suite that served the operation.
	Suite string

	// Op echoes the operation category.
	Op Category

	// Output carries the signature, shared secret, ciphertext, or
	// plaintext, depending on Op. Empty for verify.
	Output []byte

	// Verified reports the outcome of a verify request.
	Verified bool
}
