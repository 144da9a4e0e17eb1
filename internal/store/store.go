package store

import (
	"context"

	"github.com/wallkeep/wallkeep/internal/model"
)

// BlobStore persists the current selection record and cached binary assets.
// Implementations live under internal/store/<driver>/ (e.g., badger).
type BlobStore interface {
	// GetCurrentSelection returns the persisted selection, or
	// model.ErrNotFound if none has been written yet.
	GetCurrentSelection(ctx context.Context) (*model.CurrentSelection, error)
	// SetCurrentSelection overwrites the single selection record.
	SetCurrentSelection(ctx context.Context, sel model.CurrentSelection) error

	// PutAsset stores one binary asset.
	PutAsset(ctx context.Context, key model.AssetKey, data []byte) error
	// PutAssetPair stores both halves of a wallpaper's asset pair in a
	// single transaction; either both are visible afterwards or neither.
	PutAssetPair(ctx context.Context, portrait model.AssetKey, portraitData []byte, landscape model.AssetKey, landscapeData []byte) error
	// GetAsset returns model.ErrNotFound for missing keys.
	GetAsset(ctx context.Context, key model.AssetKey) ([]byte, error)
	// HasAsset reports presence without reading the value.
	HasAsset(ctx context.Context, key model.AssetKey) (bool, error)
	// ListAssetKeys enumerates every cached asset key.
	ListAssetKeys(ctx context.Context) ([]model.AssetKey, error)
	// DeleteAsset removes one asset; deleting a missing key is not an error.
	DeleteAsset(ctx context.Context, key model.AssetKey) error

	// GetLegacySelection and DeleteLegacySelection expose the pre-v2
	// selection record for the one-shot migration pass.
	GetLegacySelection(ctx context.Context) (*model.CurrentSelection, error)
	DeleteLegacySelection(ctx context.Context) error

	Close() error
}

// MetadataStore persists the last-known remote metadata document together
// with its version marker.
type MetadataStore interface {
	// GetMetadata returns model.ErrNotFound before the first sync.
	GetMetadata(ctx context.Context) (*model.MetadataDocument, error)
	// SetMetadata replaces the stored document wholesale.
	SetMetadata(ctx context.Context, doc *model.MetadataDocument) error

	Close() error
}
