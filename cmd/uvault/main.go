// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// uvault manages a local encrypted key vault: generate keys across suites,
// sign and verify payloads, and export public material in standard formats.
//
// Usage:
//
//	uvault [-d path] init
//	uvault [-d path] generate [suite]
//	uvault [-d path] list
//	uvault [-d path] sign <id> <file>
//	uvault [-d path] verify <id> <file> <signature-b64>
//	uvault [-d path] export <id> [format]
//	uvault [-d path] delete <id>
//	uvault [-d path] import-mnemonic [suite]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/univault-io/univault/internal/config"
	"github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/export"
	"github.com/univault-io/univault/internal/store"
	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/util"
)

const uvaultVersion = "0.3.0"

// Global config for commands that need it
var cfg config.Config

// stdinReader is a shared reader for non-terminal stdin
var stdinReader *bufio.Reader

func main() {
	// Handle early-exit flags before any other processing
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Printf("uvault %s\n", uvaultVersion)
			os.Exit(0)
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "uvault - Local encrypted key vault\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] init\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] generate [suite]\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] list\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] sign <id> <file>\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] verify <id> <file> <signature-b64>\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] export <id> [format]\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] delete <id>\n")
		fmt.Fprintf(os.Stderr, "  uvault [-d path] import-mnemonic [suite]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "  -d path    Data directory (or set UNIVAULT_DATA env var)\n")
		fmt.Fprintf(os.Stderr, "\nSuites:  %s\n", strings.Join(suite.Names(), ", "))
		fmt.Fprintf(os.Stderr, "Formats: %s\n", strings.Join(export.Formats(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  uvault init\n")
		fmt.Fprintf(os.Stderr, "  uvault generate ed25519\n")
		fmt.Fprintf(os.Stderr, "  uvault sign bafkr... message.txt\n")
		fmt.Fprintf(os.Stderr, "  uvault export bafkr... jwk\n")
	}

	dataDir := flag.String("d", "", "Data directory (or set UNIVAULT_DATA)")
	flag.Parse()

	util.InitLogger()

	resolvedDataDir := config.RequireDataDir(*dataDir)

	var err error
	cfg, err = config.LoadConfig(resolvedDataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]

	switch command {
	case "init":
		if err := cmdInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "generate":
		suiteName := cfg.DefaultSuite
		if len(args) > 1 {
			suiteName = args[1]
		}
		if err := cmdGenerate(suiteName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "list":
		if err := cmdList(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "sign":
		if len(args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: uvault sign <id> <file>\n")
			os.Exit(1)
		}
		if err := cmdSign(args[1], args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "verify":
		if len(args) < 4 {
			fmt.Fprintf(os.Stderr, "Usage: uvault verify <id> <file> <signature-b64>\n")
			os.Exit(1)
		}
		if err := cmdVerify(args[1], args[2], args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "export":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Usage: uvault export <id> [format]\n")
			os.Exit(1)
		}
		format := string(export.FormatMultibase)
		if len(args) > 2 {
			format = args[2]
		}
		if err := cmdExport(args[1], format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "delete":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Usage: uvault delete <id>\n")
			os.Exit(1)
		}
		if err := cmdDelete(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "import-mnemonic":
		suiteName := cfg.DefaultSuite
		if len(args) > 1 {
			suiteName = args[1]
		}
		if err := cmdImportMnemonic(suiteName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

// readPassword safely reads a password from stdin, handling both terminal and
// non-terminal inputs. Callers zero the returned bytes when done.
func readPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 - file descriptors are small integers
	if term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}

	// Not a terminal - read plaintext line using shared reader
	if stdinReader == nil {
		stdinReader = bufio.NewReader(os.Stdin)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

// readLine reads a plaintext line from stdin (mnemonic words, confirmations).
func readLine() (string, error) {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(os.Stdin)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// unlockVault prompts for the passphrase and opens the configured vault.
func unlockVault() (*store.Vault, error) {
	fmt.Print("Enter passphrase: ")
	passphrase, err := readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	defer crypto.ZeroBytes(passphrase)
	fmt.Println()

	v, err := store.Unlock(store.NewFileBlob(cfg.VaultFile), passphrase)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			return nil, fmt.Errorf("vault not initialized at %s (run 'uvault init' first)", cfg.VaultFile)
		}
		return nil, err
	}
	return v, nil
}
