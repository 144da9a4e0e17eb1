package badger

import (
	"context"
	"errors"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/wallkeep/wallkeep/internal/model"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()
	opts := badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestSelectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetCurrentSelection(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.SetCurrentSelection(ctx, model.CurrentSelection{WallpaperID: "a"}))
	sel, err := s.GetCurrentSelection(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", sel.WallpaperID)

	// Overwrite, never append.
	require.NoError(t, s.SetCurrentSelection(ctx, model.CurrentSelection{WallpaperID: "b"}))
	sel, err = s.GetCurrentSelection(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", sel.WallpaperID)
}

func TestAssetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	key := model.AssetKey{Scope: "a", Name: "a-portrait"}

	_, err := s.GetAsset(ctx, key)
	require.ErrorIs(t, err, model.ErrNotFound)

	ok, err := s.HasAsset(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.PutAsset(ctx, key, []byte("pixels")))
	data, err := s.GetAsset(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("pixels"), data)

	ok, err = s.HasAsset(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPutAssetPairStoresBoth(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := model.AssetKey{Scope: "a", Name: "a-portrait"}
	l := model.AssetKey{Scope: "a", Name: "a-landscape"}

	require.NoError(t, s.PutAssetPair(ctx, p, []byte("p"), l, []byte("l")))

	keys, err := s.ListAssetKeys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []model.AssetKey{p, l}, keys)
}

func TestListAssetKeysIgnoresSelectionRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetCurrentSelection(ctx, model.CurrentSelection{WallpaperID: "a"}))
	require.NoError(t, s.PutAsset(ctx, model.AssetKey{Scope: "a", Name: "a-portrait"}, []byte("p")))

	keys, err := s.ListAssetKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "a", keys[0].Scope)
}

func TestDeleteAsset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	key := model.AssetKey{Scope: "a", Name: "a-portrait"}

	require.NoError(t, s.PutAsset(ctx, key, []byte("p")))
	require.NoError(t, s.DeleteAsset(ctx, key))

	_, err := s.GetAsset(ctx, key)
	require.ErrorIs(t, err, model.ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, s.DeleteAsset(ctx, key))
}

func TestLegacySelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetLegacySelection(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	// Write under the legacy key directly, as an old release would have.
	db := s.db
	require.NoError(t, db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(legacySelectionKey), []byte(`{"wallpaperId":"old"}`))
	}))

	legacy, err := s.GetLegacySelection(ctx)
	require.NoError(t, err)
	require.Equal(t, "old", legacy.WallpaperID)

	require.NoError(t, s.DeleteLegacySelection(ctx))
	_, err = s.GetLegacySelection(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestParseAssetKey(t *testing.T) {
	k, ok := parseAssetKey([]byte("asset:scope/name"))
	require.True(t, ok)
	require.Equal(t, model.AssetKey{Scope: "scope", Name: "name"}, k)

	_, ok = parseAssetKey([]byte("selection:current"))
	require.False(t, ok)

	_, ok = parseAssetKey([]byte("asset:no-separator"))
	require.False(t, ok)
}

func TestPutAssetRejectsAmbiguousScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// A "/" in the scope would parse back under the wrong owner.
	err := s.PutAsset(ctx, model.AssetKey{Scope: "a/b", Name: "n"}, []byte("p"))
	require.ErrorIs(t, err, model.ErrValidation)

	err = s.PutAssetPair(ctx,
		model.AssetKey{Scope: "a", Name: "p"}, []byte("p"),
		model.AssetKey{Scope: "a/b", Name: "l"}, []byte("l"),
	)
	require.ErrorIs(t, err, model.ErrValidation)

	err = s.PutAsset(ctx, model.AssetKey{Scope: "", Name: "n"}, []byte("p"))
	require.ErrorIs(t, err, model.ErrValidation)

	// Nothing was written, including the valid half of the rejected pair.
	keys, err := s.ListAssetKeys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutAsset(ctx, model.AssetKey{Scope: "a", Name: "n"}, []byte("p")))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	data, err := s.GetAsset(ctx, model.AssetKey{Scope: "a", Name: "n"})
	require.NoError(t, err)
	require.Equal(t, []byte("p"), data)
}

func TestStorageErrorClassification(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Close())

	err := s.PutAsset(ctx, model.AssetKey{Scope: "a", Name: "n"}, []byte("p"))
	var se *model.StorageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, model.StorageWrite, se.Op)
}
