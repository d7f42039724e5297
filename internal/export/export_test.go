// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package export

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/univault-io/univault/internal/keygen"
	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/wallet"
)

func newEntry(t *testing.T, suiteName string) *wallet.Entry {
	t.Helper()
	e, err := keygen.Generate(suiteName)
	if err != nil {
		t.Fatalf("generating %s entry: %v", suiteName, err)
	}
	t.Cleanup(e.Zero)
	return e
}

func TestExportDeterministic(t *testing.T) {
	e := newEntry(t, suite.Ed25519)

	for _, format := range Formats() {
		a, err := Export(e, Format(format))
		if err != nil {
			t.Fatalf("Export(%s) failed: %v", format, err)
		}
		b, err := Export(e, Format(format))
		if err != nil {
			t.Fatalf("Export(%s) failed: %v", format, err)
		}
		if string(a) != string(b) {
			t.Errorf("format %s is not deterministic", format)
		}
	}
}

func TestExportHex(t *testing.T) {
	e := newEntry(t, suite.Ed25519)

	out, err := Export(e, FormatHex)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	decoded, err := hex.DecodeString(string(out))
	if err != nil {
		t.Fatalf("output is not hex: %v", err)
	}
	if string(decoded) != string(e.Public) {
		t.Error("hex output does not round-trip to public material")
	}
}

func TestExportMultibase(t *testing.T) {
	e := newEntry(t, suite.Ed25519)

	out, err := Export(e, FormatMultibase)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	// base58btc multibase strings carry the 'z' prefix.
	if !strings.HasPrefix(string(out), "z") {
		t.Errorf("multibase output missing base58btc prefix: %q", out)
	}
}

func TestExportMultibaseNoCodec(t *testing.T) {
	if testing.Short() {
		t.Skip("rsa keygen is slow")
	}
	e := newEntry(t, suite.RSA2048)

	// RSA has no registered multicodec.
	if _, err := Export(e, FormatMultibase); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportJWK(t *testing.T) {
	tests := []struct {
		suite string
		kty   string
		crv   string
	}{
		{suite.Ed25519, "OKP", "Ed25519"},
		{suite.X25519, "OKP", "X25519"},
		{suite.P256, "EC", "P-256"},
		{suite.Secp256k1, "EC", "secp256k1"},
	}

	for _, tt := range tests {
		t.Run(tt.suite, func(t *testing.T) {
			e := newEntry(t, tt.suite)

			out, err := Export(e, FormatJWK)
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}

			var key map[string]string
			if err := json.Unmarshal(out, &key); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if key["kty"] != tt.kty || key["crv"] != tt.crv {
				t.Errorf("kty/crv = %s/%s, want %s/%s", key["kty"], key["crv"], tt.kty, tt.crv)
			}
			if key["kid"] != e.ID {
				t.Errorf("kid = %q, want entry id", key["kid"])
			}
			if key["x"] == "" {
				t.Error("missing x coordinate")
			}
			if tt.kty == "EC" && key["y"] == "" {
				t.Error("missing y coordinate")
			}
		})
	}
}

func TestExportJWKFalconUnsupported(t *testing.T) {
	e := newEntry(t, suite.Falcon1024)

	if _, err := Export(e, FormatJWK); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportVerificationMethod(t *testing.T) {
	e := newEntry(t, suite.Ed25519)
	e.Controller = "did:example:alice"

	out, err := Export(e, FormatVerificationMethod)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var vm map[string]any
	if err := json.Unmarshal(out, &vm); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if vm["id"] != e.ID {
		t.Errorf("id = %v, want entry id", vm["id"])
	}
	if vm["type"] != "Ed25519VerificationKey2018" {
		t.Errorf("type = %v", vm["type"])
	}
	if vm["controller"] != "did:example:alice" {
		t.Errorf("controller = %v", vm["controller"])
	}
	mb, _ := vm["publicKeyMultibase"].(string)
	if !strings.HasPrefix(mb, "z") {
		t.Errorf("publicKeyMultibase = %q", mb)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	e := newEntry(t, suite.Ed25519)

	if _, err := Export(e, Format("pem")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportUnknownSuite(t *testing.T) {
	e := &wallet.Entry{ID: "x", Suite: "rot13", Public: []byte("material")}

	if _, err := Export(e, FormatHex); !errors.Is(err, suite.ErrUnsupportedSuite) {
		t.Errorf("expected ErrUnsupportedSuite, got %v", err)
	}
}

// Exports must never leak private material, in any encoding the formats use.
func TestExportNeverContainsPrivateMaterial(t *testing.T) {
	e := newEntry(t, suite.Ed25519)

	encodings := []string{
		string(e.Private),
		hex.EncodeToString(e.Private),
		base64.StdEncoding.EncodeToString(e.Private),
		base64.RawURLEncoding.EncodeToString(e.Private),
	}

	for _, format := range Formats() {
		out, err := Export(e, Format(format))
		if err != nil {
			t.Fatalf("Export(%s) failed: %v", format, err)
		}
		for _, enc := range encodings {
			if strings.Contains(string(out), enc) {
				t.Errorf("format %s output contains private material", format)
			}
		}
	}
}
