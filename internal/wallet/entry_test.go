// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package wallet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/univault-io/univault/internal/suite"
)

func TestContentIDDeterministic(t *testing.T) {
	material := []byte("public key material")

	a, err := ContentID(suite.Ed25519, material)
	if err != nil {
		t.Fatalf("ContentID failed: %v", err)
	}
	b, err := ContentID(suite.Ed25519, material)
	if err != nil {
		t.Fatalf("ContentID failed: %v", err)
	}
	if a != b {
		t.Errorf("same input produced different ids: %q vs %q", a, b)
	}

	// CIDv1 base32 strings start with the multibase 'b' prefix.
	if !strings.HasPrefix(a, "b") {
		t.Errorf("unexpected id encoding: %q", a)
	}
}

func TestContentIDVariesWithSuite(t *testing.T) {
	material := []byte("same material")

	a, err := ContentID(suite.Ed25519, material)
	if err != nil {
		t.Fatalf("ContentID failed: %v", err)
	}
	b, err := ContentID(suite.X25519, material)
	if err != nil {
		t.Fatalf("ContentID failed: %v", err)
	}
	if a == b {
		t.Error("different suites over the same material produced the same id")
	}
}

func TestNewEntry(t *testing.T) {
	e, err := New(suite.Ed25519, []byte("pub"), []byte("priv"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.ID == "" {
		t.Error("entry has no id")
	}
	if e.Suite != suite.Ed25519 {
		t.Errorf("suite = %q, want %q", e.Suite, suite.Ed25519)
	}
	if e.CreatedAt.IsZero() {
		t.Error("entry has no creation timestamp")
	}
}

func TestNewContentEntry(t *testing.T) {
	payload := []byte("opaque document bytes")
	e, err := NewContent(payload)
	if err != nil {
		t.Fatalf("NewContent failed: %v", err)
	}
	if e.Suite != ContentSuite {
		t.Errorf("suite = %q, want %q", e.Suite, ContentSuite)
	}
	if !bytes.Equal(e.Public, payload) {
		t.Error("payload not stored in public field")
	}
	if e.Private != nil {
		t.Error("content entry carries private material")
	}
}

func TestPublicStubDropsPrivate(t *testing.T) {
	e, err := New(suite.Ed25519, []byte("pub"), []byte("priv"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	stub := e.PublicStub()
	if stub.Private != nil {
		t.Error("stub still carries private material")
	}
	// Stubbing must not disturb the original.
	if !bytes.Equal(e.Private, []byte("priv")) {
		t.Error("original entry's private material was modified")
	}
}

func TestCloneIsDeep(t *testing.T) {
	e, err := New(suite.Ed25519, []byte("pub"), []byte("priv"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.Metadata = map[string]string{"purpose": "signing"}

	c := e.Clone()
	c.Public[0] = 'X'
	c.Private[0] = 'X'
	c.Metadata["purpose"] = "changed"

	if e.Public[0] == 'X' || e.Private[0] == 'X' {
		t.Error("clone shares byte slices with original")
	}
	if e.Metadata["purpose"] != "signing" {
		t.Error("clone shares metadata map with original")
	}
}

func TestZero(t *testing.T) {
	e, err := New(suite.Ed25519, []byte("pub"), []byte("priv"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.Zero()
	if e.Private != nil {
		t.Error("private material not cleared")
	}
	if e.Public == nil {
		t.Error("public material should survive Zero")
	}
}

func TestMarshalEntriesRoundTrip(t *testing.T) {
	key, err := New(suite.Ed25519, []byte("pubkey"), []byte("privkey"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	key.Controller = "did:example:alice"
	key.Metadata = map[string]string{MetadataDerivation: "bip39-standard"}

	content, err := NewContent([]byte("document"))
	if err != nil {
		t.Fatalf("NewContent failed: %v", err)
	}

	data, err := MarshalEntries([]*Entry{key, content})
	if err != nil {
		t.Fatalf("MarshalEntries failed: %v", err)
	}

	got, err := UnmarshalEntries(data)
	if err != nil {
		t.Fatalf("UnmarshalEntries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}

	k := got[0]
	if k.ID != key.ID || k.Suite != key.Suite || k.Controller != key.Controller {
		t.Errorf("key entry fields not preserved: %+v", k)
	}
	if !bytes.Equal(k.Public, key.Public) || !bytes.Equal(k.Private, key.Private) {
		t.Error("key material not preserved")
	}
	if !k.CreatedAt.Equal(key.CreatedAt) {
		t.Errorf("created_at not preserved: %v vs %v", k.CreatedAt, key.CreatedAt)
	}
	if k.Metadata[MetadataDerivation] != "bip39-standard" {
		t.Error("metadata not preserved")
	}

	c := got[1]
	if c.Private != nil {
		t.Error("content entry gained private material through serialization")
	}
	if !bytes.Equal(c.Public, []byte("document")) {
		t.Error("content payload not preserved")
	}
}

func TestUnmarshalEntriesMalformed(t *testing.T) {
	if _, err := UnmarshalEntries([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
	if _, err := UnmarshalEntries([]byte(`[{"id":"x","public":"!!!"}]`)); err == nil {
		t.Error("expected error for malformed base64")
	}
}
