// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package store implements the encrypted vault: the only shared mutable
// state in the system.
//
// A Vault is an explicit unlocked session object, passed by reference to
// every store and dispatcher call — there is no ambient global state. The
// store is either fully locked (only encrypted bytes exist) or fully
// unlocked (entries decryptable on demand); partial unlock is not a state.
// Reads (Get/List) proceed concurrently; Put/Delete/Lock are exclusive.
// Locking persists and then wipes every decrypted buffer before returning.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/wallet"
)

var (
	// ErrNotFound indicates the requested entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrLocked indicates the vault session has been locked.
	ErrLocked = errors.New("vault is locked")
)

// ListEntry is the public metadata returned by List. Never carries key
// material.
type ListEntry struct {
	ID         string
	Suite      string
	Controller string
}

// Vault is an unlocked store session.
type Vault struct {
	mu        sync.RWMutex
	blob      BlobStore
	params    *crypto.KDFParams
	masterKey *crypto.SecureBuffer
	entries   map[string]*wallet.Entry
	locked    bool
}

// Create initializes a new empty vault on the blob store and returns the
// unlocked session. Fails if deriving the master key or persisting the
// empty envelope fails.
func Create(blob BlobStore, passphrase []byte) (*Vault, error) {
	params, masterKey, err := crypto.NewKDFParams(passphrase)
	if err != nil {
		return nil, err
	}
	return newVault(blob, params, masterKey)
}

// CreateWithCost is Create with explicit Argon2id cost settings. Zero
// values fall back to the built-in cost. The settings are recorded in the
// envelope and reused on every later unlock.
func CreateWithCost(blob BlobStore, passphrase []byte, time, memoryKB uint32, threads uint8) (*Vault, error) {
	params, masterKey, err := crypto.NewKDFParamsWithCost(passphrase, time, memoryKB, threads)
	if err != nil {
		return nil, err
	}
	return newVault(blob, params, masterKey)
}

func newVault(blob BlobStore, params *crypto.KDFParams, masterKey []byte) (*Vault, error) {

	v := &Vault{
		blob:      blob,
		params:    params,
		masterKey: crypto.NewSecureBuffer(masterKey),
		entries:   make(map[string]*wallet.Entry),
	}
	crypto.ZeroBytes(masterKey)

	if err := v.persist(); err != nil {
		v.wipe()
		return nil, err
	}
	return v, nil
}

// Unlock decrypts the persisted blob and returns an unlocked session.
// Returns crypto.ErrWrongPassphrase for a bad passphrase and
// crypto.ErrIntegrityFailure for a tampered envelope — both terminal for
// this attempt, with no partial state exposed.
func Unlock(blob BlobStore, passphrase []byte) (*Vault, error) {
	raw, err := blob.Read()
	if err != nil {
		return nil, err
	}

	env, err := crypto.DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	params, err := env.KDFParams()
	if err != nil {
		return nil, err
	}

	masterKey, plaintext, err := env.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	defer crypto.ZeroBytes(plaintext)

	entries, err := wallet.UnmarshalEntries(plaintext)
	if err != nil {
		crypto.ZeroBytes(masterKey)
		return nil, fmt.Errorf("%w: %v", crypto.ErrIntegrityFailure, err)
	}

	byID := make(map[string]*wallet.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	v := &Vault{
		blob:      blob,
		params:    params,
		masterKey: crypto.NewSecureBuffer(masterKey),
		entries:   byID,
	}
	crypto.ZeroBytes(masterKey)
	return v, nil
}

// Put stores an entry (insert or replace) and persists the vault.
// The vault keeps its own copy; the caller retains ownership of e.
func (v *Vault) Put(e *wallet.Entry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return ErrLocked
	}

	prev, had := v.entries[e.ID]
	v.entries[e.ID] = e.Clone()

	if err := v.persist(); err != nil {
		// Roll back so memory matches the persisted state.
		v.entries[e.ID].Zero()
		if had {
			v.entries[e.ID] = prev
		} else {
			delete(v.entries, e.ID)
		}
		return err
	}
	if had {
		prev.Zero()
	}
	return nil
}

// Get returns a deep copy of the entry, private material included.
// The caller must zero the copy after use.
func (v *Vault) Get(id string) (*wallet.Entry, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.locked {
		return nil, ErrLocked
	}
	e, ok := v.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Clone(), nil
}

// Delete removes an entry, wipes its private material, and persists.
func (v *Vault) Delete(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return ErrLocked
	}
	e, ok := v.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(v.entries, id)

	if err := v.persist(); err != nil {
		v.entries[id] = e
		return err
	}
	e.Zero()
	return nil
}

// List returns public metadata for all entries, sorted by identifier.
// List requires an unlocked session: the vault never caches metadata in
// the locked state.
func (v *Vault) List() ([]ListEntry, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.locked {
		return nil, ErrLocked
	}
	out := make([]ListEntry, 0, len(v.entries))
	for _, e := range v.entries {
		out = append(out, ListEntry{ID: e.ID, Suite: e.Suite, Controller: e.Controller})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Lock persists the vault and wipes all decrypted material. The session is
// unusable afterwards; the wipe happens even when persistence fails.
func (v *Vault) Lock() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return nil
	}
	err := v.persist()
	v.wipe()
	return err
}

// wipe zeroes all decrypted buffers. Caller holds the write lock (or
// exclusive ownership during construction).
func (v *Vault) wipe() {
	for _, e := range v.entries {
		e.Zero()
	}
	v.entries = nil
	if v.masterKey != nil {
		v.masterKey.Destroy()
	}
	v.locked = true
}

// persist seals the current entry set into a fresh envelope and writes it
// to the blob store. Caller holds the write lock.
func (v *Vault) persist() error {
	ids := make([]string, 0, len(v.entries))
	for id := range v.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ordered := make([]*wallet.Entry, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, v.entries[id])
	}

	plaintext, err := wallet.MarshalEntries(ordered)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(plaintext)

	var env *crypto.Envelope
	err = v.masterKey.WithBytes(func(masterKey []byte) error {
		var sealErr error
		env, sealErr = crypto.SealEnvelope(v.params, masterKey, plaintext)
		return sealErr
	})
	if err != nil {
		return err
	}

	data, err := env.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return v.blob.Write(data)
}
