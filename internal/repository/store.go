package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskflow/internal/models"
	"taskflow/pkg/logger"

	"go.uber.org/zap"
)

// Backend holds the serialized document. Load returns empty content when
// nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store is the whole-document store. Read and Write mirror the plain
// reload/persist contract; Update and View serialize read-modify-write
// sequences behind one mutex so concurrent requests in this process cannot
// lose each other's changes.
type Store struct {
	mu      sync.Mutex
	backend Backend
	data    *models.Document
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Read reloads the document from the backend and returns it. The returned
// value becomes the snapshot that Write persists.
func (s *Store) Read(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.data = doc
	return doc, nil
}

// Write persists the snapshot returned by the last Read.
func (s *Store) Write(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = &models.Document{}
		s.data.EnsureCollections()
	}
	return s.save(ctx, s.data)
}

// View loads a fresh copy of the document and hands it to fn. Changes made
// by fn are never persisted.
func (s *Store) View(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update reloads the document, applies fn and persists the result. If fn
// returns an error nothing is written.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.save(ctx, doc); err != nil {
		return err
	}
	s.data = doc
	return nil
}

func (s *Store) load(ctx context.Context) (*models.Document, error) {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	doc := &models.Document{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, doc); err != nil {
			// Corrupted content is discarded and replaced by an empty document.
			logger.SystemLogger.Warn("Document store corrupted, resetting to empty", zap.Error(err), zap.Int("bytes", len(raw)))
			logger.ErrorLogger.Error("Document store corrupted", zap.Error(err))
			doc = &models.Document{}
			doc.EnsureCollections()
			if err := s.save(ctx, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
	}
	doc.EnsureCollections()
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *models.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Save(ctx, raw); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
