// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package keygen produces new wallet entries, one generator per suite.
//
// Generation is pure: it returns an entry and never persists it. The caller
// decides whether the entry goes into a vault, which keeps generation
// testable without storage.
package keygen

import (
	"errors"
	"fmt"

	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/util"
	"github.com/univault-io/univault/internal/wallet"
)

// ErrGenerationFailure indicates the random source or the underlying
// primitive rejected the operation. Never retried silently.
var ErrGenerationFailure = errors.New("key generation failed")

// Generator produces keypairs for a single suite.
type Generator interface {
	// Suite returns the suite name this generator serves.
	Suite() string

	// Generate produces a fresh keypair from a cryptographically secure
	// random source.
	Generate() (public, private []byte, err error)

	// FromSeed derives a keypair deterministically from seed bytes.
	// Suites without deterministic derivation return an error.
	FromSeed(seed []byte) (public, private []byte, err error)
}

var generators = util.NewStringRegistry[Generator]()

// Register adds a generator to the registry.
// Panics if a generator for the same suite is already registered.
func Register(g Generator) {
	if !generators.Set(g.Suite(), g) {
		panic("duplicate key generator registration for suite: " + g.Suite())
	}
}

// Generate creates a new entry for the named suite using secure randomness.
// The suite must be registered and declare at least one capability.
func Generate(suiteName string) (*wallet.Entry, error) {
	g, err := generatorFor(suiteName)
	if err != nil {
		return nil, err
	}
	pub, priv, err := g.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	return wallet.New(suiteName, pub, priv)
}

// GenerateFromSeed creates an entry deterministically from seed bytes.
func GenerateFromSeed(suiteName string, seed []byte) (*wallet.Entry, error) {
	g, err := generatorFor(suiteName)
	if err != nil {
		return nil, err
	}
	pub, priv, err := g.FromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	return wallet.New(suiteName, pub, priv)
}

func generatorFor(suiteName string) (Generator, error) {
	desc, err := suite.Lookup(suiteName)
	if err != nil {
		return nil, err
	}
	if len(desc.Capabilities) == 0 {
		return nil, fmt.Errorf("%w: suite %q declares no capabilities", suite.ErrUnsupportedSuite, suiteName)
	}
	g, ok := generators.Get(suiteName)
	if !ok {
		return nil, fmt.Errorf("%w: no generator for suite %q", suite.ErrUnsupportedSuite, suiteName)
	}
	return g, nil
}
