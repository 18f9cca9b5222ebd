// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store keeps uploaded PDF documents in temp-file backed storage
// keyed by generated IDs, with TTL-based eviction. It replaces ad-hoc
// process-global state with an explicit keyed store.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document ID is unknown or already evicted.
var ErrNotFound = errors.New("document not found")

// Document describes one stored upload
type Document struct {
	ID       string
	Filename string
	Path     string
	Uploaded time.Time
}

// Store is a keyed document store backed by temporary files. All methods
// are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	docs map[string]Document
	dir  string
	ttl  time.Duration
}

// New creates a store writing files under dir (os.TempDir() when empty)
// that evicts documents older than ttl on Sweep.
func New(dir string, ttl time.Duration) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{
		docs: make(map[string]Document),
		dir:  dir,
		ttl:  ttl,
	}
}

// Put stores the content of r as a new document and returns its record.
// The partially written file is removed when copying fails.
func (s *Store) Put(filename string, r io.Reader) (Document, error) {
	id := uuid.New().String()
	path := filepath.Join(s.dir, id+".pdf")

	f, err := os.Create(path)
	if err != nil {
		return Document{}, fmt.Errorf("error creating document file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return Document{}, fmt.Errorf("error writing document file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Document{}, fmt.Errorf("error closing document file: %w", err)
	}

	doc := Document{
		ID:       id,
		Filename: filename,
		Path:     path,
		Uploaded: time.Now(),
	}

	s.mu.Lock()
	s.docs[id] = doc
	s.mu.Unlock()

	return doc, nil
}

// Get returns the document for the given ID
func (s *Store) Get(id string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Delete removes a document and its backing file
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing document file: %w", err)
	}
	return nil
}

// Len returns the number of stored documents
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Sweep evicts documents older than the TTL and returns how many were
// removed. Backing files of evicted documents are deleted best-effort.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []Document
	for id, doc := range s.docs {
		if doc.Uploaded.Before(cutoff) {
			expired = append(expired, doc)
			delete(s.docs, id)
		}
	}
	s.mu.Unlock()

	for _, doc := range expired {
		os.Remove(doc.Path)
	}
	return len(expired)
}

// Janitor sweeps the store at the given interval until stop is closed
func (s *Store) Janitor(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}

// Close evicts every document and removes the backing files
func (s *Store) Close() {
	s.mu.Lock()
	docs := s.docs
	s.docs = make(map[string]Document)
	s.mu.Unlock()

	for _, doc := range docs {
		os.Remove(doc.Path)
	}
}
