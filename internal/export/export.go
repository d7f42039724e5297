// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package export converts the public portion of wallet entries into
// external encodings.
//
// Export is a pure function of the entry's public material, suite, and
// controller: deterministic, repeatable, and it never reads private
// material. Formats are a registry so wrappers can add their own.
package export

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"

	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/util"
	"github.com/univault-io/univault/internal/wallet"
)

// Format names an export encoding.
type Format string

const (
	// FormatJWK is a public JSON Web Key.
	FormatJWK Format = "jwk"

	// FormatMultibase is the multicodec-prefixed base58btc string used in
	// publicKeyMultibase fields.
	FormatMultibase Format = "multibase"

	// FormatBase58 is plain base58btc of the raw public material.
	FormatBase58 Format = "base58"

	// FormatHex is lowercase hex of the raw public material.
	FormatHex Format = "hex"

	// FormatVerificationMethod is a W3C DID verification method object.
	FormatVerificationMethod Format = "verification-method"
)

// ErrUnsupportedFormat indicates an unrecognized output format, or a
// format the entry's suite has no representation in.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Encoder renders the public portion of an entry in one format.
type Encoder func(e *wallet.Entry, d *suite.Descriptor) ([]byte, error)

var formats = util.NewStringRegistry[Encoder]()

func init() {
	RegisterFormat(FormatJWK, encodeJWK)
	RegisterFormat(FormatMultibase, encodeMultibaseFormat)
	RegisterFormat(FormatBase58, encodeBase58)
	RegisterFormat(FormatHex, encodeHex)
	RegisterFormat(FormatVerificationMethod, encodeVerificationMethod)
}

// RegisterFormat adds an export format to the table.
// Panics if the format name is already registered.
func RegisterFormat(f Format, enc Encoder) {
	if !formats.Set(string(f), enc) {
		panic("duplicate export format registration: " + string(f))
	}
}

// Formats returns all registered format names, sorted.
func Formats() []string {
	return formats.Keys()
}

// Export renders the entry's public portion in the requested format.
// Accepts locked-store public stubs; private material is never touched.
func Export(e *wallet.Entry, format Format) ([]byte, error) {
	enc, ok := formats.Get(string(format))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	desc, err := suite.Lookup(e.Suite)
	if err != nil {
		return nil, err
	}
	return enc(e, desc)
}

func encodeHex(e *wallet.Entry, _ *suite.Descriptor) ([]byte, error) {
	return []byte(hex.EncodeToString(e.Public)), nil
}

func encodeBase58(e *wallet.Entry, _ *suite.Descriptor) ([]byte, error) {
	return []byte(base58.Encode(e.Public)), nil
}

func encodeMultibaseFormat(e *wallet.Entry, d *suite.Descriptor) ([]byte, error) {
	s, err := multibaseString(e, d)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// multibaseString builds the multicodec-prefixed base58btc form.
func multibaseString(e *wallet.Entry, d *suite.Descriptor) (string, error) {
	if d.MulticodecPrefix == nil {
		return "", fmt.Errorf("%w: suite %q has no registered multicodec", ErrUnsupportedFormat, d.Name)
	}
	prefixed := make([]byte, 0, len(d.MulticodecPrefix)+len(e.Public))
	prefixed = append(prefixed, d.MulticodecPrefix...)
	prefixed = append(prefixed, e.Public...)
	return multibase.Encode(multibase.Base58BTC, prefixed)
}
