// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package suite defines the key suites the vault supports and the
// capabilities each one declares.
//
// A suite is a named algorithm family with a fixed capability set and
// material size constraints. Every other component consults this registry
// before dispatching to suite-specific logic: dispatch is a capability
// lookup, never type-based branching, so new suites register a descriptor
// (plus a generator and an operation provider) without touching callers.
package suite

import (
	"errors"
	"fmt"

	"github.com/univault-io/univault/internal/util"
)

// Capability is an operation category a suite may support.
type Capability string

const (
	CapSign    Capability = "sign"
	CapVerify  Capability = "verify"
	CapAgree   Capability = "agree"
	CapEncrypt Capability = "encrypt"
	CapDecrypt Capability = "decrypt"
)

// ErrUnsupportedSuite indicates an unknown suite identifier.
var ErrUnsupportedSuite = errors.New("unsupported key suite")

// Descriptor declares a suite's capabilities and material constraints.
type Descriptor struct {
	// Name is the suite identifier ("ed25519", "x25519", ...).
	Name string

	// Capabilities lists the operation categories the suite supports.
	Capabilities []Capability

	// PrivateKeySize and PublicKeySize are the exact material lengths in
	// bytes, or 0 when the suite uses variable-length encodings (RSA).
	PrivateKeySize int
	PublicKeySize  int

	// VerificationType is the W3C verification-method type string used by
	// the exporter.
	VerificationType string

	// JOSEAlgorithm names the JWS/JWA algorithm, when one exists.
	JOSEAlgorithm string

	// MulticodecPrefix is the varint multicodec tag for multibase export,
	// or nil when no registered code exists for the suite.
	MulticodecPrefix []byte
}

// Supports reports whether the suite declares the given capability.
func (d *Descriptor) Supports(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

var registry = util.NewStringRegistry[*Descriptor]()

// Register adds a suite descriptor to the registry.
// Panics if a descriptor for the same name is already registered.
func Register(d *Descriptor) {
	if !registry.Set(d.Name, d) {
		panic("duplicate suite registration: " + d.Name)
	}
}

// Lookup returns the descriptor for a suite name.
func Lookup(name string) (*Descriptor, error) {
	d, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSuite, name)
	}
	return d, nil
}

// Names returns all registered suite names, sorted.
func Names() []string {
	return registry.Keys()
}
