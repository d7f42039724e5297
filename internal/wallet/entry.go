// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package wallet defines the content entry model: the canonical record for
// a key (or opaque content) held by the vault.
//
// Private material exists in decrypted form only transiently, inside the
// store/dispatcher boundary. Entry values handed across that boundary are
// deep copies; callers zero them after use.
package wallet

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/univault-io/univault/internal/crypto"
)

// ContentSuite marks an opaque (non-key) content entry. Content entries
// carry their payload in the public-material field, have no private
// material, and support no cryptographic operations.
const ContentSuite = "content"

// MetadataDerivation is the metadata key recording how an entry's key
// material was derived (e.g. "bip39-standard").
const MetadataDerivation = "derivation"

// Entry is a single wallet record.
type Entry struct {
	// ID is the stable content identifier; the sole lookup key.
	ID string

	// Suite names the key suite, or ContentSuite for opaque entries.
	Suite string

	// Controller is an opaque reference to the owning identity (optional).
	Controller string

	// Public holds the suite-specific public material (or the payload for
	// content entries). Always safe to expose.
	Public []byte

	// Private holds the suite-specific secret material. Present only in
	// unlocked form; never serialized outside the encrypted envelope.
	Private []byte

	// CreatedAt is the entry creation timestamp (UTC).
	CreatedAt time.Time

	// Metadata carries optional key-purpose tags.
	Metadata map[string]string
}

// New creates a key entry with a freshly minted content identifier.
func New(suiteName string, public, private []byte) (*Entry, error) {
	id, err := ContentID(suiteName, public)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        id,
		Suite:     suiteName,
		Public:    public,
		Private:   private,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewContent creates an opaque content entry addressed by its payload.
func NewContent(payload []byte) (*Entry, error) {
	id, err := ContentID(ContentSuite, payload)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        id,
		Suite:     ContentSuite,
		Public:    payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PublicStub returns a copy of the entry with private material removed.
// Safe to hand to the exporter or enumerate outside the store boundary.
func (e *Entry) PublicStub() *Entry {
	stub := e.Clone()
	crypto.ZeroBytes(stub.Private)
	stub.Private = nil
	return stub
}

// Clone returns a deep copy of the entry, private material included.
func (e *Entry) Clone() *Entry {
	c := &Entry{
		ID:         e.ID,
		Suite:      e.Suite,
		Controller: e.Controller,
		CreatedAt:  e.CreatedAt,
	}
	if e.Public != nil {
		c.Public = append([]byte(nil), e.Public...)
	}
	if e.Private != nil {
		c.Private = append([]byte(nil), e.Private...)
	}
	if e.Metadata != nil {
		c.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// Zero overwrites the entry's private material.
func (e *Entry) Zero() {
	crypto.ZeroBytes(e.Private)
	e.Private = nil
}

// serializedEntry is the wire form used inside the decrypted envelope.
// The private field must never appear on any other surface.
type serializedEntry struct {
	ID         string            `json:"id"`
	Suite      string            `json:"suite"`
	Controller string            `json:"controller,omitempty"`
	Public     string            `json:"public"`
	Private    string            `json:"private,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// MarshalEntries serializes entries for sealing into the envelope.
// The returned buffer contains private material; the caller must zero it
// once it has been encrypted.
func MarshalEntries(entries []*Entry) ([]byte, error) {
	out := make([]serializedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, serializedEntry{
			ID:         e.ID,
			Suite:      e.Suite,
			Controller: e.Controller,
			Public:     base64.StdEncoding.EncodeToString(e.Public),
			Private:    base64.StdEncoding.EncodeToString(e.Private),
			CreatedAt:  e.CreatedAt,
			Metadata:   e.Metadata,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entries: %w", err)
	}
	return data, nil
}

// UnmarshalEntries parses the decrypted envelope payload.
func UnmarshalEntries(data []byte) ([]*Entry, error) {
	var raw []serializedEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	entries := make([]*Entry, 0, len(raw))
	for _, s := range raw {
		pub, err := base64.StdEncoding.DecodeString(s.Public)
		if err != nil {
			return nil, fmt.Errorf("entry %s: malformed public material: %w", s.ID, err)
		}
		priv, err := base64.StdEncoding.DecodeString(s.Private)
		if err != nil {
			return nil, fmt.Errorf("entry %s: malformed private material: %w", s.ID, err)
		}
		if len(priv) == 0 {
			priv = nil
		}
		entries = append(entries, &Entry{
			ID:         s.ID,
			Suite:      s.Suite,
			Controller: s.Controller,
			Public:     pub,
			Private:    priv,
			CreatedAt:  s.CreatedAt,
			Metadata:   s.Metadata,
		})
	}
	return entries, nil
}
