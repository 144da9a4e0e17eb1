// Package sqlite implements store.MetadataStore on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/store"
)

// MetadataStore persists the catalog document in a single-row table.
type MetadataStore struct {
	db *sql.DB
}

var _ store.MetadataStore = (*MetadataStore)(nil)

// NewMetadataStore opens (or creates) the database file and applies schema.
func NewMetadataStore(path string) (*MetadataStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewMetadataStoreWithDB(db)
}

// NewMetadataStoreWithDB allows wiring with an existing connection (used by
// the factory and tests).
func NewMetadataStoreWithDB(db *sql.DB) (*MetadataStore, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return &MetadataStore{db: db}, nil
}

// DB exposes the underlying connection (local-only use case).
func (s *MetadataStore) DB() *sql.DB { return s.db }

func (s *MetadataStore) Close() error { return s.db.Close() }

// GetMetadata returns the stored document, or model.ErrNotFound before the
// first successful sync.
func (s *MetadataStore) GetMetadata(ctx context.Context) (*model.MetadataDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT Document FROM CatalogMetadata WHERE Id = 1`)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, &model.StorageError{Op: model.StorageRead, Err: err}
	}
	var doc model.MetadataDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &model.DecodeError{Err: err}
	}
	return &doc, nil
}

// SetMetadata replaces the stored document wholesale.
func (s *MetadataStore) SetMetadata(ctx context.Context, doc *model.MetadataDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO CatalogMetadata (Id, Marker, Document, UpdateTime) VALUES (1, ?, ?, ?)
         ON CONFLICT(Id) DO UPDATE SET Marker=excluded.Marker, Document=excluded.Document, UpdateTime=excluded.UpdateTime`,
		doc.Marker, string(raw), now)
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}
