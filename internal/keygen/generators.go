// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package keygen

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"

	"github.com/algorandfoundation/falcon-signatures/falcongo"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/curve25519"

	"github.com/univault-io/univault/internal/suite"
)

func init() {
	Register(ed25519Generator{})
	Register(x25519Generator{})
	Register(p256Generator{})
	Register(secp256k1Generator{name: suite.Secp256k1})
	Register(secp256k1Generator{name: suite.Secp256k1Recovery})
	Register(rsaGenerator{})
	Register(falconGenerator{})
}

type ed25519Generator struct{}

func (ed25519Generator) Suite() string { return suite.Ed25519 }

func (ed25519Generator) Generate() ([]byte, []byte, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

// FromSeed uses the first 32 seed bytes as the RFC 8032 seed; the stored
// private material is the expanded 64-byte form (seed || public).
func (ed25519Generator) FromSeed(seed []byte) ([]byte, []byte, error) {
	if len(seed) < ed25519.SeedSize {
		return nil, nil, fmt.Errorf("seed too short for ed25519: need %d bytes, got %d",
			ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	return priv.Public().(ed25519.PublicKey), priv, nil
}

type x25519Generator struct{}

func (x25519Generator) Suite() string { return suite.X25519 }

func (g x25519Generator) Generate() ([]byte, []byte, error) {
	priv := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(priv); err != nil {
		return nil, nil, err
	}
	return g.derive(priv)
}

func (g x25519Generator) FromSeed(seed []byte) ([]byte, []byte, error) {
	if len(seed) < curve25519.ScalarSize {
		return nil, nil, fmt.Errorf("seed too short for x25519: need %d bytes, got %d",
			curve25519.ScalarSize, len(seed))
	}
	priv := append([]byte(nil), seed[:curve25519.ScalarSize]...)
	return g.derive(priv)
}

func (x25519Generator) derive(priv []byte) ([]byte, []byte, error) {
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

type p256Generator struct{}

func (p256Generator) Suite() string { return suite.P256 }

func (p256Generator) Generate() ([]byte, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return marshalP256(key)
}

// FromSeed maps SHA-256(seed) into the scalar range [1, n-1].
func (p256Generator) FromSeed(seed []byte) ([]byte, []byte, error) {
	curve := elliptic.P256()
	digest := sha256.Sum256(seed)

	d := new(big.Int).SetBytes(digest[:])
	nMinusOne := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
	d.Mod(d, nMinusOne)
	d.Add(d, big.NewInt(1))

	key := new(ecdsa.PrivateKey)
	key.Curve = curve
	key.D = d
	key.X, key.Y = curve.ScalarBaseMult(d.Bytes())
	return marshalP256(key)
}

// marshalP256 encodes the private scalar (32 bytes) and the uncompressed
// SEC1 point (65 bytes).
func marshalP256(key *ecdsa.PrivateKey) ([]byte, []byte, error) {
	priv := make([]byte, 32)
	key.D.FillBytes(priv)

	pub := make([]byte, 65)
	pub[0] = 0x04
	key.X.FillBytes(pub[1:33])
	key.Y.FillBytes(pub[33:65])
	return pub, priv, nil
}

type secp256k1Generator struct {
	name string
}

func (g secp256k1Generator) Suite() string { return g.name }

func (secp256k1Generator) Generate() ([]byte, []byte, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	return key.PubKey().SerializeCompressed(), key.Serialize(), nil
}

func (secp256k1Generator) FromSeed(seed []byte) ([]byte, []byte, error) {
	digest := sha256.Sum256(seed)
	key := secp256k1.PrivKeyFromBytes(digest[:])
	if key.Key.IsZero() {
		return nil, nil, errors.New("seed maps to the zero scalar")
	}
	return key.PubKey().SerializeCompressed(), key.Serialize(), nil
}

type rsaGenerator struct{}

func (rsaGenerator) Suite() string { return suite.RSA2048 }

func (rsaGenerator) Generate() ([]byte, []byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	return x509.MarshalPKCS1PublicKey(&key.PublicKey), x509.MarshalPKCS1PrivateKey(key), nil
}

func (rsaGenerator) FromSeed(seed []byte) ([]byte, []byte, error) {
	return nil, nil, errors.New("rsa2048 does not support deterministic derivation")
}

type falconGenerator struct{}

func (falconGenerator) Suite() string { return suite.Falcon1024 }

func (g falconGenerator) Generate() ([]byte, []byte, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, nil, err
	}
	return g.FromSeed(seed)
}

func (falconGenerator) FromSeed(seed []byte) ([]byte, []byte, error) {
	kp, err := falcongo.GenerateKeyPair(seed)
	if err != nil {
		return nil, nil, err
	}
	pub := append([]byte(nil), kp.PublicKey[:]...)
	priv := append([]byte(nil), kp.PrivateKey[:]...)
	return pub, priv, nil
}
