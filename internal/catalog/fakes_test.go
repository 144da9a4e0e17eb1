package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/wallkeep/wallkeep/internal/model"
)

// --- Fakes shared by the catalog tests ---

type fakeBlobStore struct {
	mu        sync.Mutex
	selection *model.CurrentSelection
	legacy    *model.CurrentSelection
	assets    map[model.AssetKey][]byte

	setSelectionErr error
	deleteErr       map[model.AssetKey]error
	putPairErr      error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{assets: make(map[model.AssetKey][]byte)}
}

func (f *fakeBlobStore) GetCurrentSelection(ctx context.Context) (*model.CurrentSelection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selection == nil {
		return nil, model.ErrNotFound
	}
	sel := *f.selection
	return &sel, nil
}

func (f *fakeBlobStore) SetCurrentSelection(ctx context.Context, sel model.CurrentSelection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setSelectionErr != nil {
		return f.setSelectionErr
	}
	f.selection = &sel
	return nil
}

func (f *fakeBlobStore) PutAsset(ctx context.Context, key model.AssetKey, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[key] = data
	return nil
}

func (f *fakeBlobStore) PutAssetPair(ctx context.Context, portrait model.AssetKey, portraitData []byte, landscape model.AssetKey, landscapeData []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putPairErr != nil {
		return f.putPairErr
	}
	f.assets[portrait] = portraitData
	f.assets[landscape] = landscapeData
	return nil
}

func (f *fakeBlobStore) GetAsset(ctx context.Context, key model.AssetKey) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.assets[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) HasAsset(ctx context.Context, key model.AssetKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.assets[key]
	return ok, nil
}

func (f *fakeBlobStore) ListAssetKeys(ctx context.Context) ([]model.AssetKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]model.AssetKey, 0, len(f.assets))
	for k := range f.assets {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeBlobStore) DeleteAsset(ctx context.Context, key model.AssetKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErr[key]; ok {
		return err
	}
	delete(f.assets, key)
	return nil
}

func (f *fakeBlobStore) GetLegacySelection(ctx context.Context) (*model.CurrentSelection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.legacy == nil {
		return nil, model.ErrNotFound
	}
	sel := *f.legacy
	return &sel, nil
}

func (f *fakeBlobStore) DeleteLegacySelection(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.legacy = nil
	return nil
}

func (f *fakeBlobStore) Close() error { return nil }

func (f *fakeBlobStore) assetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.assets)
}

type fakeMetadataStore struct {
	mu      sync.Mutex
	doc     *model.MetadataDocument
	setDocs int
	setErr  error
}

func (f *fakeMetadataStore) GetMetadata(ctx context.Context) (*model.MetadataDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return nil, model.ErrNotFound
	}
	return f.doc, nil
}

func (f *fakeMetadataStore) SetMetadata(ctx context.Context, doc *model.MetadataDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.doc = doc
	f.setDocs++
	return nil
}

func (f *fakeMetadataStore) Close() error { return nil }

func (f *fakeMetadataStore) setMetadataCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setDocs
}

type fakeNetworkClient struct {
	mu       sync.Mutex
	doc      *model.MetadataDocument
	fetchErr error
	// conditional mirrors a server honouring If-None-Match: a fetch whose
	// marker matches the served document yields a marker-only answer.
	conditional bool
	markers     []string
	// assetErr injects per-asset failures, keyed by asset name.
	assetErr map[string]error
	fetched  []string
}

func (f *fakeNetworkClient) FetchMetadata(ctx context.Context, marker string) (*model.MetadataDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markers = append(f.markers, marker)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.conditional && marker != "" && marker == f.doc.Marker {
		return &model.MetadataDocument{Marker: marker}, nil
	}
	doc := *f.doc
	return &doc, nil
}

func (f *fakeNetworkClient) FetchAsset(ctx context.Context, scope, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.NetworkError{Transient: true, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.assetErr[name]; ok {
		return nil, err
	}
	f.fetched = append(f.fetched, scope+"/"+name)
	return []byte(fmt.Sprintf("bytes of %s/%s", scope, name)), nil
}

func (f *fakeNetworkClient) sentMarkers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.markers...)
}

func wp(id string) model.Wallpaper {
	return model.Wallpaper{
		ID:               id,
		PortraitAssetID:  id + "-portrait",
		LandscapeAssetID: id + "-landscape",
	}
}

func docWith(marker string, collections ...model.Collection) *model.MetadataDocument {
	return &model.MetadataDocument{Marker: marker, Collections: collections}
}
