// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package keygen

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/wallet"
)

// NewMnemonic generates a fresh 24-word BIP-39 mnemonic (256 bits of
// entropy) for recovery export.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	return mnemonic, nil
}

// GenerateFromMnemonic derives an entry from BIP-39 mnemonic words.
// The mnemonic passphrase may be empty. The derivation method is recorded
// in the entry metadata.
func GenerateFromMnemonic(suiteName, mnemonic, passphrase string) (*wallet.Entry, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: invalid mnemonic", ErrGenerationFailure)
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	defer crypto.ZeroBytes(seed)

	entry, err := GenerateFromSeed(suiteName, seed)
	if err != nil {
		return nil, err
	}
	entry.Metadata = map[string]string{wallet.MetadataDerivation: "bip39-standard"}
	return entry, nil
}
