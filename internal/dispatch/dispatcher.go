// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package dispatch

import (
	"fmt"

	"github.com/univault-io/univault/internal/store"
	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/wallet"
)

// Execute resolves an operation request against an unlocked vault session.
//
// The entry is loaded under the store's shared lock into a local decrypted
// copy; all suite-specific work happens on that copy outside the lock, and
// the copy's private material is zeroed on every exit path.
func Execute(v *store.Vault, req *Request) (*Result, error) {
	needed, ok := req.Op.capability()
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrCapabilityMismatch, req.Op)
	}

	entry, err := v.Get(req.EntryID)
	if err != nil {
		return nil, err
	}
	defer entry.Zero()

	desc, err := suite.Lookup(entry.Suite)
	if err != nil {
		// Opaque content entries have no suite descriptor and support no
		// operations.
		return nil, err
	}
	if !desc.Supports(needed) {
		return nil, fmt.Errorf("%w: suite %q does not declare %q",
			ErrCapabilityMismatch, entry.Suite, req.Op)
	}

	p, ok := providers.Get(entry.Suite)
	if !ok {
		return nil, fmt.Errorf("%w: no provider for suite %q", suite.ErrUnsupportedSuite, entry.Suite)
	}

	result := &Result{Suite: entry.Suite, Op: req.Op}

	switch req.Op {
	case OpSign:
		result.Output, err = p.Sign(entry.Private, req.Payload)
	case OpVerify:
		result.Verified, err = p.Verify(entry.Public, req.Payload, req.Signature)
	case OpAgree:
		result.Output, err = p.Agree(entry.Private, req.PeerPublic)
	case OpEncrypt:
		result.Output, err = p.Encrypt(entry.Public, req.Payload)
	case OpDecrypt:
		result.Output, err = p.Decrypt(entry.Private, entry.Public, req.Payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationFailure, err)
	}
	return result, nil
}

// ExecuteOnEntry runs a public-material operation (verify, encrypt) against
// an entry stub without a vault session. Private-material operations are
// rejected with ErrCapabilityMismatch.
func ExecuteOnEntry(entry *wallet.Entry, req *Request) (*Result, error) {
	if req.Op != OpVerify && req.Op != OpEncrypt {
		return nil, fmt.Errorf("%w: %q requires an unlocked vault session",
			ErrCapabilityMismatch, req.Op)
	}

	needed, _ := req.Op.capability()
	desc, err := suite.Lookup(entry.Suite)
	if err != nil {
		return nil, err
	}
	if !desc.Supports(needed) {
		return nil, fmt.Errorf("%w: suite %q does not declare %q",
			ErrCapabilityMismatch, entry.Suite, req.Op)
	}
	p, ok := providers.Get(entry.Suite)
	if !ok {
		return nil, fmt.Errorf("%w: no provider for suite %q", suite.ErrUnsupportedSuite, entry.Suite)
	}

	result := &Result{Suite: entry.Suite, Op: req.Op}
	switch req.Op {
	case OpVerify:
		result.Verified, err = p.Verify(entry.Public, req.Payload, req.Signature)
	case OpEncrypt:
		result.Output, err = p.Encrypt(entry.Public, req.Payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationFailure, err)
	}
	return result, nil
}
