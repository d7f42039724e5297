// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package dispatch

import (
	stdcrypto "crypto"
	"crypto/ecdh"
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

	"github.com/algorand/falcon"
	"github.com/algorandfoundation/falcon-signatures/falcongo"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/sha3"

	vaultcrypto "github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/suite"
)

func init() {
	Register(ed25519Provider{})
	Register(x25519Provider{})
	Register(p256Provider{})
	Register(secp256k1Provider{})
	Register(secp256k1RecoveryProvider{})
	Register(rsaProvider{})
	Register(falconProvider{})
}

type ed25519Provider struct{ baseProvider }

func (ed25519Provider) Suite() string { return suite.Ed25519 }

func (ed25519Provider) Sign(priv, payload []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key size: %d", len(priv))
	}
	return ed25519.Sign(ed25519.PrivateKey(priv), payload), nil
}

func (ed25519Provider) Verify(pub, payload, sig []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid ed25519 public key size: %d", len(pub))
	}
	return ed25519.Verify(ed25519.PublicKey(pub), payload, sig), nil
}

type x25519Provider struct{ baseProvider }

func (x25519Provider) Suite() string { return suite.X25519 }

func (x25519Provider) Agree(priv, peerPub []byte) ([]byte, error) {
	shared, err := curve25519.X25519(priv, peerPub)
	if err != nil {
		return nil, fmt.Errorf("x25519 key agreement failed: %w", err)
	}
	return shared, nil
}

func (x25519Provider) Encrypt(pub, plaintext []byte) ([]byte, error) {
	return vaultcrypto.SealBox(pub, plaintext)
}

func (x25519Provider) Decrypt(priv, pub, ciphertext []byte) ([]byte, error) {
	return vaultcrypto.OpenBox(priv, pub, ciphertext)
}

type p256Provider struct{ baseProvider }

func (p256Provider) Suite() string { return suite.P256 }

func (p256Provider) Sign(priv, payload []byte) ([]byte, error) {
	key, err := parseP256Private(priv)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(payload)
	return ecdsa.SignASN1(rand.Reader, key, digest[:])
}

func (p256Provider) Verify(pub, payload, sig []byte) (bool, error) {
	key, err := parseP256Public(pub)
	if err != nil {
		return false, err
	}
	digest := sha256.Sum256(payload)
	return ecdsa.VerifyASN1(key, digest[:], sig), nil
}

func (p256Provider) Agree(priv, peerPub []byte) ([]byte, error) {
	key, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("invalid p256 private key: %w", err)
	}
	peer, err := ecdh.P256().NewPublicKey(peerPub)
	if err != nil {
		return nil, fmt.Errorf("invalid p256 peer public key: %w", err)
	}
	shared, err := key.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("p256 key agreement failed: %w", err)
	}
	return shared, nil
}

func parseP256Private(priv []byte) (*ecdsa.PrivateKey, error) {
	if len(priv) != 32 {
		return nil, fmt.Errorf("invalid p256 private key size: %d", len(priv))
	}
	curve := elliptic.P256()
	key := new(ecdsa.PrivateKey)
	key.Curve = curve
	key.D = new(big.Int).SetBytes(priv)
	key.X, key.Y = curve.ScalarBaseMult(priv)
	return key, nil
}

func parseP256Public(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != 65 || pub[0] != 0x04 {
		return nil, fmt.Errorf("invalid p256 public key encoding")
	}
	key := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(pub[1:33]),
		Y:     new(big.Int).SetBytes(pub[33:65]),
	}
	if !key.Curve.IsOnCurve(key.X, key.Y) {
		return nil, errors.New("p256 public key not on curve")
	}
	return key, nil
}

type secp256k1Provider struct{ baseProvider }

func (secp256k1Provider) Suite() string { return suite.Secp256k1 }

// Sign produces a DER-encoded ECDSA signature over SHA-256(payload).
func (secp256k1Provider) Sign(priv, payload []byte) ([]byte, error) {
	if len(priv) != 32 {
		return nil, fmt.Errorf("invalid secp256k1 private key size: %d", len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	defer key.Zero()
	digest := sha256.Sum256(payload)
	return secpecdsa.Sign(key, digest[:]).Serialize(), nil
}

func (secp256k1Provider) Verify(pub, payload, sig []byte) (bool, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false, fmt.Errorf("invalid secp256k1 public key: %w", err)
	}
	parsed, err := secpecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, nil
	}
	digest := sha256.Sum256(payload)
	return parsed.Verify(digest[:], key), nil
}

type secp256k1RecoveryProvider struct{ baseProvider }

func (secp256k1RecoveryProvider) Suite() string { return suite.Secp256k1Recovery }

// Sign produces a compact recoverable signature over Keccak-256(payload),
// Ethereum-style: the verifier recovers the signing key from the signature
// and compares it against the expected public key.
func (secp256k1RecoveryProvider) Sign(priv, payload []byte) ([]byte, error) {
	if len(priv) != 32 {
		return nil, fmt.Errorf("invalid secp256k1 private key size: %d", len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	defer key.Zero()
	return secpecdsa.SignCompact(key, keccak256(payload), true), nil
}

func (secp256k1RecoveryProvider) Verify(pub, payload, sig []byte) (bool, error) {
	expected, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false, fmt.Errorf("invalid secp256k1 public key: %w", err)
	}
	recovered, _, err := secpecdsa.RecoverCompact(sig, keccak256(payload))
	if err != nil {
		return false, nil
	}
	return recovered.IsEqual(expected), nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

type rsaProvider struct{ baseProvider }

func (rsaProvider) Suite() string { return suite.RSA2048 }

// Sign produces an RSASSA-PKCS1-v1_5 signature over SHA-256(payload).
func (rsaProvider) Sign(priv, payload []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("invalid rsa private key: %w", err)
	}
	digest := sha256.Sum256(payload)
	return rsa.SignPKCS1v15(nil, key, stdcrypto.SHA256, digest[:])
}

func (rsaProvider) Verify(pub, payload, sig []byte) (bool, error) {
	key, err := x509.ParsePKCS1PublicKey(pub)
	if err != nil {
		return false, fmt.Errorf("invalid rsa public key: %w", err)
	}
	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(key, stdcrypto.SHA256, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}

// Encrypt uses RSA-OAEP with SHA-256.
func (rsaProvider) Encrypt(pub, plaintext []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("invalid rsa public key: %w", err)
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, key, plaintext, nil)
}

func (rsaProvider) Decrypt(priv, _, ciphertext []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("invalid rsa private key: %w", err)
	}
	return rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
}

type falconProvider struct{ baseProvider }

func (falconProvider) Suite() string { return suite.Falcon1024 }

func (falconProvider) Sign(priv, payload []byte) ([]byte, error) {
	var kp falcongo.KeyPair
	if len(priv) != len(kp.PrivateKey) {
		return nil, fmt.Errorf("invalid falcon1024 private key size: %d", len(priv))
	}
	copy(kp.PrivateKey[:], priv)
	defer vaultcrypto.ZeroBytes(kp.PrivateKey[:])

	sig, err := kp.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("falcon signing failed: %w", err)
	}
	return sig, nil
}

func (falconProvider) Verify(pub, payload, sig []byte) (bool, error) {
	var pk falcongo.PublicKey
	if len(pub) != len(pk) {
		return false, fmt.Errorf("invalid falcon1024 public key size: %d", len(pub))
	}
	copy(pk[:], pub)
	if err := falcongo.Verify(payload, falcon.CompressedSignature(sig), pk); err != nil {
		return false, nil
	}
	return true, nil
}
