// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/dispatch"
	"github.com/univault-io/univault/internal/export"
	"github.com/univault-io/univault/internal/keygen"
	"github.com/univault-io/univault/internal/store"
)

// cmdInit initializes a new vault with a passphrase.
func cmdInit() error {
	fmt.Println("Vault Initialization")
	fmt.Println("====================")
	fmt.Println()

	if _, err := os.Stat(cfg.VaultFile); err == nil {
		return fmt.Errorf("vault already initialized at %s", cfg.VaultFile)
	}

	fmt.Printf("Vault file: %s\n", cfg.VaultFile)
	fmt.Println()
	fmt.Println("Choose a strong passphrase. This will be used to encrypt all keys.")
	fmt.Println()

	fmt.Print("Enter passphrase: ")
	passphrase, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}
	defer crypto.ZeroBytes(passphrase)
	fmt.Println()

	if len(passphrase) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}

	fmt.Print("Confirm passphrase: ")
	confirm, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	defer crypto.ZeroBytes(confirm)
	fmt.Println()

	if !bytes.Equal(passphrase, confirm) {
		return fmt.Errorf("passphrases do not match")
	}

	// Unset cost fields fall back to the built-in Argon2id parameters.
	blob := store.NewFileBlob(cfg.VaultFile)
	v, err := store.CreateWithCost(blob, passphrase, cfg.KDFTime, cfg.KDFMemoryKB, cfg.KDFThreads)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	if err := v.Lock(); err != nil {
		return fmt.Errorf("failed to lock vault: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Vault initialized successfully!")
	fmt.Printf("  Vault file: %s\n", cfg.VaultFile)
	return nil
}

// cmdGenerate creates a fresh keypair for the suite and stores it.
func cmdGenerate(suiteName string) error {
	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	entry, err := keygen.Generate(suiteName)
	if err != nil {
		return err
	}
	defer entry.Zero()

	if err := v.Put(entry); err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Generated %s key\n", suiteName)
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	listSuiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	listDimStyle    = lipgloss.NewStyle().Faint(true)
)

// cmdList prints public metadata for every entry in the vault.
func cmdList() error {
	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	entries, err := v.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("Vault is empty.")
		return nil
	}

	fmt.Println(listHeaderStyle.Render(fmt.Sprintf("%-62s %-20s %s", "ID", "SUITE", "CONTROLLER")))
	for _, e := range entries {
		controller := e.Controller
		if controller == "" {
			controller = listDimStyle.Render("-")
		}
		fmt.Printf("%-62s %-20s %s\n", e.ID, listSuiteStyle.Render(fmt.Sprintf("%-20s", e.Suite)), controller)
	}
	fmt.Printf("\n%d entr%s\n", len(entries), plural(len(entries), "y", "ies"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// cmdSign signs the file contents with the entry's key and prints the
// signature in base64.
func cmdSign(id, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	result, err := dispatch.Execute(v, &dispatch.Request{
		EntryID: id,
		Op:      dispatch.OpSign,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	fmt.Println(base64.StdEncoding.EncodeToString(result.Output))
	return nil
}

// cmdVerify checks a base64 signature over the file contents.
func cmdVerify(id, path, sigB64 string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("malformed signature: %w", err)
	}

	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	result, err := dispatch.Execute(v, &dispatch.Request{
		EntryID:   id,
		Op:        dispatch.OpVerify,
		Payload:   payload,
		Signature: sig,
	})
	if err != nil {
		return err
	}

	if !result.Verified {
		return fmt.Errorf("signature INVALID")
	}
	fmt.Println("✓ Signature valid")
	return nil
}

// cmdExport prints the entry's public material in the requested format.
func cmdExport(id, format string) error {
	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	entry, err := v.Get(id)
	if err != nil {
		return err
	}
	defer entry.Zero()

	out, err := export.Export(entry.PublicStub(), export.Format(format))
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

// cmdDelete removes an entry from the vault after confirmation.
func cmdDelete(id string) error {
	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	entry, err := v.Get(id)
	if err != nil {
		return err
	}
	entry.Zero()

	fmt.Printf("Delete %s (%s)? [y/N]: ", id, entry.Suite)
	response, _ := readLine()
	if response != "y" && response != "Y" && response != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := v.Delete(id); err != nil {
		return err
	}
	fmt.Println("✓ Entry deleted")
	return nil
}

// cmdImportMnemonic derives a key from BIP-39 mnemonic words and stores it.
func cmdImportMnemonic(suiteName string) error {
	fmt.Print("Enter mnemonic words: ")
	mnemonic, err := readLine()
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}

	fmt.Print("Enter mnemonic passphrase (empty for none): ")
	mnemonicPass, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read mnemonic passphrase: %w", err)
	}
	defer crypto.ZeroBytes(mnemonicPass)
	fmt.Println()

	v, err := unlockVault()
	if err != nil {
		return err
	}
	defer func() { _ = v.Lock() }()

	entry, err := keygen.GenerateFromMnemonic(suiteName, mnemonic, string(mnemonicPass))
	if err != nil {
		return err
	}
	defer entry.Zero()

	if err := v.Put(entry); err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Imported %s key from mnemonic\n", suiteName)
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}
