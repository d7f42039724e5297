// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package export

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/wallet"
)

// jwk is a public JSON Web Key. Field order is fixed by the struct, so
// marshaling is deterministic.
type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
	Kid string `json:"kid,omitempty"`
}

func encodeJWK(e *wallet.Entry, d *suite.Descriptor) ([]byte, error) {
	key, err := publicJWK(e, d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(key)
}

// publicJWK builds the JWK for the entry's public material.
func publicJWK(e *wallet.Entry, d *suite.Descriptor) (*jwk, error) {
	b64 := base64.RawURLEncoding.EncodeToString

	switch d.Name {
	case suite.Ed25519:
		return &jwk{Kty: "OKP", Crv: "Ed25519", X: b64(e.Public), Kid: e.ID}, nil

	case suite.X25519:
		return &jwk{Kty: "OKP", Crv: "X25519", X: b64(e.Public), Kid: e.ID}, nil

	case suite.P256:
		if len(e.Public) != 65 || e.Public[0] != 0x04 {
			return nil, fmt.Errorf("invalid p256 public key encoding")
		}
		return &jwk{
			Kty: "EC", Crv: "P-256",
			X:   b64(e.Public[1:33]),
			Y:   b64(e.Public[33:65]),
			Kid: e.ID,
		}, nil

	case suite.Secp256k1, suite.Secp256k1Recovery:
		pub, err := secp256k1.ParsePubKey(e.Public)
		if err != nil {
			return nil, fmt.Errorf("invalid secp256k1 public key: %w", err)
		}
		point := pub.SerializeUncompressed()
		return &jwk{
			Kty: "EC", Crv: "secp256k1",
			X:   b64(point[1:33]),
			Y:   b64(point[33:65]),
			Kid: e.ID,
		}, nil

	case suite.RSA2048:
		pub, err := x509.ParsePKCS1PublicKey(e.Public)
		if err != nil {
			return nil, fmt.Errorf("invalid rsa public key: %w", err)
		}
		return &jwk{
			Kty: "RSA",
			N:   b64(pub.N.Bytes()),
			E:   b64(big.NewInt(int64(pub.E)).Bytes()),
			Kid: e.ID,
		}, nil
	}

	return nil, fmt.Errorf("%w: suite %q has no JWK representation", ErrUnsupportedFormat, d.Name)
}

// verificationMethod is the W3C DID verification method object. Suites
// with a registered multicodec use publicKeyMultibase; the rest fall back
// to publicKeyJwk.
type verificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller,omitempty"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
	PublicKeyJwk       *jwk   `json:"publicKeyJwk,omitempty"`
}

func encodeVerificationMethod(e *wallet.Entry, d *suite.Descriptor) ([]byte, error) {
	vm := verificationMethod{
		ID:         e.ID,
		Type:       d.VerificationType,
		Controller: e.Controller,
	}

	if d.MulticodecPrefix != nil {
		mb, err := multibaseString(e, d)
		if err != nil {
			return nil, err
		}
		vm.PublicKeyMultibase = mb
	} else {
		key, err := publicJWK(e, d)
		if err != nil {
			return nil, err
		}
		key.Kid = "" // the method's id field already names the key
		vm.PublicKeyJwk = key
	}

	return json.Marshal(vm)
}
