// Package badger implements store.BlobStore on BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/wallkeep/wallkeep/internal/model"
	"github.com/wallkeep/wallkeep/internal/store"
)

// Key layout inside badger.
const (
	selectionKey       = "selection:current"
	legacySelectionKey = "wallpaper-selection"
	assetKeyPrefix     = "asset:"
)

// BlobStore is a BadgerDB-backed blob store. Badger gives us transactional
// writes, which is what makes PutAssetPair all-or-nothing.
type BlobStore struct {
	db *badger.DB
}

var _ store.BlobStore = (*BlobStore)(nil)

// Open opens (or creates) a badger database at dir.
func Open(dir string) (*BlobStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BlobStore{db: db}, nil
}

// NewWithDB wires an existing handle (used by tests and the factory).
func NewWithDB(db *badger.DB) *BlobStore {
	return &BlobStore{db: db}
}

func (s *BlobStore) Close() error { return s.db.Close() }

func assetKey(k model.AssetKey) []byte {
	return []byte(assetKeyPrefix + k.Scope + "/" + k.Name)
}

// validateKey guards the key encoding: the scope ends at the first "/" when
// keys are parsed back, so a scope containing one would round-trip under the
// wrong owner and confuse the reachability sweep.
func validateKey(k model.AssetKey) error {
	if k.Scope == "" || strings.Contains(k.Scope, "/") {
		return &model.StorageError{
			Op:  model.StorageWrite,
			Err: fmt.Errorf("%w: invalid asset scope %q", model.ErrValidation, k.Scope),
		}
	}
	return nil
}

func parseAssetKey(raw []byte) (model.AssetKey, bool) {
	rest, ok := strings.CutPrefix(string(raw), assetKeyPrefix)
	if !ok {
		return model.AssetKey{}, false
	}
	scope, name, ok := strings.Cut(rest, "/")
	if !ok {
		return model.AssetKey{}, false
	}
	return model.AssetKey{Scope: scope, Name: name}, true
}

// GetCurrentSelection returns the persisted selection record.
func (s *BlobStore) GetCurrentSelection(ctx context.Context) (*model.CurrentSelection, error) {
	return s.getSelection(selectionKey)
}

// SetCurrentSelection overwrites the selection record.
func (s *BlobStore) SetCurrentSelection(ctx context.Context, sel model.CurrentSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(selectionKey), data)
	})
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}

// PutAsset stores a single binary asset.
func (s *BlobStore) PutAsset(ctx context.Context, key model.AssetKey, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(assetKey(key), data)
	})
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}

// PutAssetPair stores both assets in one transaction so a wallpaper's pair is
// never half-cached.
func (s *BlobStore) PutAssetPair(ctx context.Context, portrait model.AssetKey, portraitData []byte, landscape model.AssetKey, landscapeData []byte) error {
	if err := validateKey(portrait); err != nil {
		return err
	}
	if err := validateKey(landscape); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(assetKey(portrait), portraitData); err != nil {
			return err
		}
		return txn.Set(assetKey(landscape), landscapeData)
	})
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}

// GetAsset returns the cached bytes for key.
func (s *BlobStore) GetAsset(ctx context.Context, key model.AssetKey) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(assetKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return model.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &model.StorageError{Op: model.StorageRead, Err: err}
	}
	return data, nil
}

// HasAsset reports presence without copying the value out.
func (s *BlobStore) HasAsset(ctx context.Context, key model.AssetKey) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(assetKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, &model.StorageError{Op: model.StorageRead, Err: err}
	}
	return found, nil
}

// ListAssetKeys enumerates every cached asset key.
func (s *BlobStore) ListAssetKeys(ctx context.Context) ([]model.AssetKey, error) {
	var keys []model.AssetKey
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(assetKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if k, ok := parseAssetKey(it.Item().Key()); ok {
				keys = append(keys, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &model.StorageError{Op: model.StorageRead, Err: err}
	}
	return keys, nil
}

// DeleteAsset removes one asset. Missing keys are not an error.
func (s *BlobStore) DeleteAsset(ctx context.Context, key model.AssetKey) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(assetKey(key))
	})
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}

// GetLegacySelection reads the pre-v2 selection record, if any.
func (s *BlobStore) GetLegacySelection(ctx context.Context) (*model.CurrentSelection, error) {
	return s.getSelection(legacySelectionKey)
}

// DeleteLegacySelection removes the pre-v2 selection record.
func (s *BlobStore) DeleteLegacySelection(ctx context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(legacySelectionKey))
	})
	if err != nil {
		return &model.StorageError{Op: model.StorageWrite, Err: err}
	}
	return nil
}

func (s *BlobStore) getSelection(key string) (*model.CurrentSelection, error) {
	var sel model.CurrentSelection
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return model.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sel)
		})
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &model.StorageError{Op: model.StorageRead, Err: err}
	}
	return &sel, nil
}
