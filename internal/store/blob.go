// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BlobStore is the narrow persistence seam the vault consumes. The physical
// medium (file, OS keychain, remote KMS) stays outside the core; only
// opaque encrypted bytes cross this interface.
type BlobStore interface {
	// Read returns the persisted blob, or ErrBlobNotFound if none exists.
	Read() ([]byte, error)

	// Write replaces the persisted blob.
	Write(data []byte) error
}

// ErrBlobNotFound indicates no blob has been persisted yet.
var ErrBlobNotFound = errors.New("vault blob not found")

// FileBlob persists the vault blob as a single file, written atomically
// via a temp file and rename, mode 0600.
type FileBlob struct {
	path string
}

// NewFileBlob creates a file-backed blob store at path.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

// Path returns the backing file path.
func (f *FileBlob) Path() string {
	return f.path
}

func (f *FileBlob) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, f.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault blob: %w", err)
	}
	return data, nil
}

func (f *FileBlob) Write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set blob permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write vault blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace vault blob: %w", err)
	}
	return nil
}

// MemBlob is an in-memory blob store for tests and ephemeral vaults.
type MemBlob struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemBlob creates an empty in-memory blob store.
func NewMemBlob() *MemBlob {
	return &MemBlob{}
}

func (m *MemBlob) Read() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemBlob) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
