// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/univault-io/univault/internal/crypto"
	"github.com/univault-io/univault/internal/keygen"
	"github.com/univault-io/univault/internal/suite"
	"github.com/univault-io/univault/internal/wallet"
)

var testPassphrase = []byte("test passphrase")

// newTestVault creates an in-memory vault with reduced KDF cost so the
// suite stays fast.
func newTestVault(t *testing.T) (*Vault, *MemBlob) {
	t.Helper()
	blob := NewMemBlob()
	v, err := CreateWithCost(blob, testPassphrase, 1, 8*1024, 1)
	if err != nil {
		t.Fatalf("CreateWithCost failed: %v", err)
	}
	return v, blob
}

func newTestEntry(t *testing.T) *wallet.Entry {
	t.Helper()
	e, err := keygen.Generate(suite.Ed25519)
	if err != nil {
		t.Fatalf("generating test entry: %v", err)
	}
	return e
}

func TestCreateUnlockRoundTrip(t *testing.T) {
	v, blob := newTestVault(t)

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	reopened, err := Unlock(blob, testPassphrase)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	defer func() { _ = reopened.Lock() }()

	got, err := reopened.Get(e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer got.Zero()

	if !bytes.Equal(got.Public, e.Public) || !bytes.Equal(got.Private, e.Private) {
		t.Error("entry material not preserved across lock/unlock")
	}
}

func TestCreateWithCostZeroSettings(t *testing.T) {
	// Config overrides may set only some of the cost fields; the rest
	// arrive as zero and must fall back to the built-in cost instead of
	// reaching argon2, which panics on a zero time or parallelism.
	blob := NewMemBlob()
	v, err := CreateWithCost(blob, testPassphrase, 0, 8*1024, 1)
	if err != nil {
		t.Fatalf("CreateWithCost failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	reopened, err := Unlock(blob, testPassphrase)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if err := reopened.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
}

func TestPassphraseNotRetained(t *testing.T) {
	// Callers wipe the passphrase buffer as soon as the session opens; the
	// vault must hold only the derived master key, never the buffer itself.
	blob := NewMemBlob()
	passphrase := []byte("wiped after use")
	v, err := CreateWithCost(blob, passphrase, 1, 8*1024, 1)
	if err != nil {
		t.Fatalf("CreateWithCost failed: %v", err)
	}
	crypto.ZeroBytes(passphrase)

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put after wiping passphrase failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock after wiping passphrase failed: %v", err)
	}

	unlockPass := []byte("wiped after use")
	reopened, err := Unlock(blob, unlockPass)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	crypto.ZeroBytes(unlockPass)

	got, err := reopened.Get(e.ID)
	if err != nil {
		t.Fatalf("Get after wiping passphrase failed: %v", err)
	}
	got.Zero()
	if err := reopened.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
}

func TestUnlockWrongPassphrase(t *testing.T) {
	v, blob := newTestVault(t)
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	_, err := Unlock(blob, []byte("wrong"))
	if !errors.Is(err, crypto.ErrWrongPassphrase) {
		t.Errorf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestUnlockTamperedBlob(t *testing.T) {
	v, blob := newTestVault(t)
	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	raw, err := blob.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	// Flip a bit inside the base64 ciphertext body.
	tampered := bytes.Replace(raw, []byte(`"ciphertext": "`), []byte(`"ciphertext": "A`), 1)
	if err := blob.Write(tampered); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	_, err = Unlock(blob, testPassphrase)
	if !errors.Is(err, crypto.ErrIntegrityFailure) {
		t.Errorf("expected ErrIntegrityFailure, got %v", err)
	}
}

func TestUnlockMissingBlob(t *testing.T) {
	_, err := Unlock(NewMemBlob(), testPassphrase)
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := v.Get(e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got.Zero()
	got.Public[0] ^= 0xff

	again, err := v.Get(e.ID)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	defer again.Zero()

	if !bytes.Equal(again.Public, e.Public) {
		t.Error("mutating a returned entry affected the stored copy")
	}
	if again.Private == nil {
		t.Error("zeroing a returned entry wiped the stored private material")
	}
}

func TestGetNotFound(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	_, err := v.Get("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Same id, updated controller.
	updated := e.Clone()
	updated.Controller = "did:example:alice"
	if err := v.Put(updated); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := v.Get(e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer got.Zero()
	if got.Controller != "did:example:alice" {
		t.Errorf("controller = %q, want updated value", got.Controller)
	}

	entries, err := v.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("overwrite created a duplicate: %d entries", len(entries))
	}
}

func TestDelete(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Delete(e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := v.Get(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := v.Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestDeletePersists(t *testing.T) {
	v, blob := newTestVault(t)

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Delete(e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	reopened, err := Unlock(blob, testPassphrase)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	defer func() { _ = reopened.Lock() }()

	if _, err := reopened.Get(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted entry survived reopen: %v", err)
	}
}

func TestListSorted(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	for i := 0; i < 5; i++ {
		if err := v.Put(newTestEntry(t)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := v.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].ID >= entries[i].ID {
			t.Errorf("list not sorted: %q before %q", entries[i-1].ID, entries[i].ID)
		}
	}
}

func TestLockedSessionRejectsEverything(t *testing.T) {
	v, _ := newTestVault(t)
	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	if _, err := v.Get(e.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("Get after lock: expected ErrLocked, got %v", err)
	}
	if _, err := v.List(); !errors.Is(err, ErrLocked) {
		t.Errorf("List after lock: expected ErrLocked, got %v", err)
	}
	if err := v.Put(newTestEntry(t)); !errors.Is(err, ErrLocked) {
		t.Errorf("Put after lock: expected ErrLocked, got %v", err)
	}
	if err := v.Delete(e.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("Delete after lock: expected ErrLocked, got %v", err)
	}

	// Double lock is a no-op.
	if err := v.Lock(); err != nil {
		t.Errorf("second Lock failed: %v", err)
	}
}

func TestConcurrentReads(t *testing.T) {
	v, _ := newTestVault(t)
	defer func() { _ = v.Lock() }()

	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := v.Get(e.ID)
			if err != nil {
				t.Errorf("concurrent Get failed: %v", err)
				return
			}
			got.Zero()
			if _, err := v.List(); err != nil {
				t.Errorf("concurrent List failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestFileBlobRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	blob := NewFileBlob(path)

	if _, err := blob.Read(); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound for missing file, got %v", err)
	}

	if err := blob.Write([]byte("encrypted bytes")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := blob.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, []byte("encrypted bytes")) {
		t.Error("blob contents mismatch")
	}
}

func TestFileBlobVault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	blob := NewFileBlob(path)

	v, err := CreateWithCost(blob, testPassphrase, 1, 8*1024, 1)
	if err != nil {
		t.Fatalf("CreateWithCost failed: %v", err)
	}
	e := newTestEntry(t)
	if err := v.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	reopened, err := Unlock(blob, testPassphrase)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	defer func() { _ = reopened.Lock() }()

	got, err := reopened.Get(e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got.Zero()
}
