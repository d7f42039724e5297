// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package suite

import (
	"crypto/ed25519"

	"golang.org/x/crypto/curve25519"
)

// Suite names. These are the identifiers stored in wallet entries.
const (
	Ed25519           = "ed25519"
	X25519            = "x25519"
	P256              = "p256"
	Secp256k1         = "secp256k1"
	Secp256k1Recovery = "secp256k1-recovery"
	RSA2048           = "rsa2048"
	Falcon1024        = "falcon1024"
)

// Falcon-1024 material sizes (github.com/algorandfoundation/falcon-signatures)
const (
	falconPublicKeySize  = 1793
	falconPrivateKeySize = 2305
)

func init() {
	Register(&Descriptor{
		Name:             Ed25519,
		Capabilities:     []Capability{CapSign, CapVerify},
		PrivateKeySize:   ed25519.PrivateKeySize,
		PublicKeySize:    ed25519.PublicKeySize,
		VerificationType: "Ed25519VerificationKey2018",
		JOSEAlgorithm:    "EdDSA",
		MulticodecPrefix: []byte{0xed, 0x01},
	})
	Register(&Descriptor{
		Name:             X25519,
		Capabilities:     []Capability{CapAgree, CapEncrypt, CapDecrypt},
		PrivateKeySize:   curve25519.ScalarSize,
		PublicKeySize:    curve25519.PointSize,
		VerificationType: "X25519KeyAgreementKey2019",
		MulticodecPrefix: []byte{0xec, 0x01},
	})
	Register(&Descriptor{
		Name:             P256,
		Capabilities:     []Capability{CapSign, CapVerify, CapAgree},
		PrivateKeySize:   32,
		PublicKeySize:    65, // uncompressed SEC1 point
		VerificationType: "JsonWebKey2020",
		JOSEAlgorithm:    "ES256",
		MulticodecPrefix: []byte{0x80, 0x24}, // p256-pub (0x1200)
	})
	Register(&Descriptor{
		Name:             Secp256k1,
		Capabilities:     []Capability{CapSign, CapVerify},
		PrivateKeySize:   32,
		PublicKeySize:    33, // compressed SEC1 point
		VerificationType: "EcdsaSecp256k1VerificationKey2019",
		JOSEAlgorithm:    "ES256K",
		MulticodecPrefix: []byte{0xe7, 0x01},
	})
	Register(&Descriptor{
		Name:             Secp256k1Recovery,
		Capabilities:     []Capability{CapSign, CapVerify},
		PrivateKeySize:   32,
		PublicKeySize:    33,
		VerificationType: "EcdsaSecp256k1RecoveryMethod2020",
		JOSEAlgorithm:    "ES256K-R",
		MulticodecPrefix: []byte{0xe7, 0x01},
	})
	Register(&Descriptor{
		Name:             RSA2048,
		Capabilities:     []Capability{CapSign, CapVerify, CapEncrypt, CapDecrypt},
		VerificationType: "RsaVerificationKey2018",
		JOSEAlgorithm:    "RS256",
	})
	Register(&Descriptor{
		Name:             Falcon1024,
		Capabilities:     []Capability{CapSign, CapVerify},
		PrivateKeySize:   falconPrivateKeySize,
		PublicKeySize:    falconPublicKeySize,
		VerificationType: "Falcon1024VerificationKey2024",
	})
}
