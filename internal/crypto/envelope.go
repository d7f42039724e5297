// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package crypto implements the at-rest encryption for the vault.
//
// The vault is persisted as a single authenticated envelope: the payload is
// encrypted with AES-256-GCM under a master key derived from the passphrase
// via Argon2id. The KDF parameters and salt travel inside the envelope so
// parameter upgrades never strand old vaults. A separate check value (the
// same master key over a known constant) lets unlock distinguish a wrong
// passphrase from a tampered payload.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// EnvelopeVersion is the current at-rest envelope format version.
	EnvelopeVersion = 1

	// Argon2id parameters (OWASP recommended)
	defaultKDFTime     = 2
	defaultKDFMemoryKB = 64 * 1024
	defaultKDFThreads  = 4
	masterKeyLen       = 32 // AES-256
	masterSaltLen      = 32

	// checkPlaintext is the known value encrypted in the Check field
	checkPlaintext = "UNIVAULT_OK"
)

var (
	// ErrWrongPassphrase indicates the passphrase does not match the envelope.
	ErrWrongPassphrase = errors.New("incorrect passphrase")

	// ErrIntegrityFailure indicates the envelope or its payload has been
	// tampered with. Unlock fails closed; no partial plaintext is exposed.
	ErrIntegrityFailure = errors.New("envelope failed integrity check")
)

// Envelope is the persisted at-rest format. All byte fields are base64.
// The AES-GCM authentication tag is appended to Ciphertext.
type Envelope struct {
	Version     int    `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        string `json:"salt"`
	Check       string `json:"check"`
	Nonce       string `json:"nonce"`
	Ciphertext  string `json:"ciphertext"`
}

// KDFParams carries the key-derivation inputs needed to reseal an envelope
// without re-running Argon2id on every write.
type KDFParams struct {
	Salt     []byte
	Time     uint32
	MemoryKB uint32
	Threads  uint8
	check    []byte // nonce || ciphertext of checkPlaintext
}

// NewKDFParams generates fresh KDF parameters (random salt, default cost),
// derives the master key, and seals the check value.
// Caller is responsible for zeroing the returned master key.
func NewKDFParams(passphrase []byte) (*KDFParams, []byte, error) {
	return NewKDFParamsWithCost(passphrase, defaultKDFTime, defaultKDFMemoryKB, defaultKDFThreads)
}

// NewKDFParamsWithCost is NewKDFParams with explicit Argon2id cost settings.
// A zero value for any setting falls back to the built-in cost; argon2
// panics on a zero time or parallelism, so partial overrides must never
// reach it.
func NewKDFParamsWithCost(passphrase []byte, time, memoryKB uint32, threads uint8) (*KDFParams, []byte, error) {
	if time == 0 {
		time = defaultKDFTime
	}
	if memoryKB == 0 {
		memoryKB = defaultKDFMemoryKB
	}
	if threads == 0 {
		threads = defaultKDFThreads
	}

	salt := make([]byte, masterSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate master salt: %w", err)
	}

	params := &KDFParams{
		Salt:     salt,
		Time:     time,
		MemoryKB: memoryKB,
		Threads:  threads,
	}
	masterKey := DeriveMasterKey(passphrase, params)

	nonce, ct, err := gcmSeal(masterKey, []byte(checkPlaintext))
	if err != nil {
		ZeroBytes(masterKey)
		return nil, nil, fmt.Errorf("failed to create check value: %w", err)
	}
	params.check = append(nonce, ct...)

	return params, masterKey, nil
}

// DeriveMasterKey derives the envelope master key from passphrase and
// parameters using Argon2id. Caller zeroes the returned key when done.
func DeriveMasterKey(passphrase []byte, p *KDFParams) []byte {
	return argon2.IDKey(passphrase, p.Salt, p.Time, p.MemoryKB, p.Threads, masterKeyLen)
}

// SealEnvelope encrypts plaintext under the master key with a fresh nonce.
// The params must be the ones the master key was derived with.
func SealEnvelope(p *KDFParams, masterKey, plaintext []byte) (*Envelope, error) {
	nonce, ct, err := gcmSeal(masterKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to seal envelope: %w", err)
	}

	return &Envelope{
		Version:     EnvelopeVersion,
		KDF:         "argon2id",
		KDFTime:     p.Time,
		KDFMemoryKB: p.MemoryKB,
		KDFThreads:  p.Threads,
		Salt:        base64.StdEncoding.EncodeToString(p.Salt),
		Check:       base64.StdEncoding.EncodeToString(p.check),
		Nonce:       base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:  base64.StdEncoding.EncodeToString(ct),
	}, nil
}

// Encode serializes the envelope for persistence.
func (e *Envelope) Encode() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// DecodeEnvelope parses a persisted envelope. Structural damage is
// indistinguishable from tampering and fails with ErrIntegrityFailure.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope", ErrIntegrityFailure)
	}
	if env.Version != EnvelopeVersion || env.KDF != "argon2id" {
		return nil, fmt.Errorf("%w: unsupported envelope version", ErrIntegrityFailure)
	}
	return &env, nil
}

// KDFParams extracts the derivation parameters for resealing.
func (e *Envelope) KDFParams() (*KDFParams, error) {
	salt, err := base64.StdEncoding.DecodeString(e.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed salt", ErrIntegrityFailure)
	}
	check, err := base64.StdEncoding.DecodeString(e.Check)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed check value", ErrIntegrityFailure)
	}
	return &KDFParams{
		Salt:     salt,
		Time:     e.KDFTime,
		MemoryKB: e.KDFMemoryKB,
		Threads:  e.KDFThreads,
		check:    check,
	}, nil
}

// Unlock verifies the passphrase and decrypts the payload.
// Returns ErrWrongPassphrase when the check value does not open under the
// derived key, and ErrIntegrityFailure when the check opens but the payload
// fails authentication (a tampered ciphertext or tag).
// Caller is responsible for zeroing both returned slices.
func (e *Envelope) Unlock(passphrase []byte) (masterKey, plaintext []byte, err error) {
	params, err := e.KDFParams()
	if err != nil {
		return nil, nil, err
	}

	masterKey = DeriveMasterKey(passphrase, params)

	if err := verifyCheck(masterKey, params.check); err != nil {
		ZeroBytes(masterKey)
		return nil, nil, ErrWrongPassphrase
	}

	nonce, err := base64.StdEncoding.DecodeString(e.Nonce)
	if err != nil {
		ZeroBytes(masterKey)
		return nil, nil, fmt.Errorf("%w: malformed nonce", ErrIntegrityFailure)
	}
	ct, err := base64.StdEncoding.DecodeString(e.Ciphertext)
	if err != nil {
		ZeroBytes(masterKey)
		return nil, nil, fmt.Errorf("%w: malformed ciphertext", ErrIntegrityFailure)
	}

	plaintext, err = gcmOpen(masterKey, nonce, ct)
	if err != nil {
		ZeroBytes(masterKey)
		return nil, nil, ErrIntegrityFailure
	}
	return masterKey, plaintext, nil
}

// verifyCheck decrypts the check value and compares against the constant.
func verifyCheck(masterKey, check []byte) error {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	if len(check) < gcm.NonceSize() {
		return errors.New("check value too short")
	}
	plaintext, err := gcm.Open(nil, check[:gcm.NonceSize()], check[gcm.NonceSize():], nil)
	if err != nil {
		return err
	}
	if string(plaintext) != checkPlaintext {
		return errors.New("check mismatch")
	}
	return nil
}

func gcmSeal(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

func gcmOpen(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	// gcm.Open panics on a wrong-size nonce; a tampered envelope must fail
	// closed instead.
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
