// Package remote implements the network client for the wallpaper catalog
// endpoint.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/wallkeep/wallkeep/internal/model"
)

// NetworkClient fetches the catalog metadata document and named binary
// assets. Implementations bound individual fetch latency themselves; the
// sync core applies no operation-level timeout.
//
// marker is the last stored version marker, empty before the first sync.
// It turns the metadata fetch into a conditional request; a server answering
// "not modified" yields a document carrying the stored marker unchanged.
type NetworkClient interface {
	FetchMetadata(ctx context.Context, marker string) (*model.MetadataDocument, error)
	FetchAsset(ctx context.Context, scope, name string) ([]byte, error)
}

// Client calls the catalog HTTP endpoint via resty.
type Client struct {
	client *resty.Client
}

var _ NetworkClient = (*Client)(nil)

// NewClient creates a Client for the given base URL. timeout bounds each
// individual request; timeouts surface as transient NetworkErrors.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{client: c}
}

// NewClientWithResty wires an existing resty client (used by tests).
func NewClientWithResty(rc *resty.Client) *Client {
	return &Client{client: rc}
}

// FetchMetadata retrieves the current metadata document. The version marker
// is taken from the ETag response header when present, falling back to the
// marker field inside the document body.
//
// A non-empty marker is sent as If-None-Match; 304 short-circuits the body
// transfer and returns a document carrying the stored marker.
func (c *Client) FetchMetadata(ctx context.Context, marker string) (*model.MetadataDocument, error) {
	req := c.client.R().SetContext(ctx)
	if marker != "" {
		req.SetHeader("If-None-Match", marker)
	}
	resp, err := req.Get("/catalog/metadata")
	if err != nil {
		return nil, &model.NetworkError{Transient: true, Err: err}
	}
	if resp.StatusCode() == http.StatusNotModified {
		if marker == "" {
			return nil, &model.DecodeError{Err: fmt.Errorf("not modified without a stored marker")}
		}
		return &model.MetadataDocument{Marker: marker}, nil
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), "metadata fetch")
	}

	var doc model.MetadataDocument
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, &model.DecodeError{Err: err}
	}
	if etag := resp.Header().Get("ETag"); etag != "" {
		doc.Marker = etag
	}
	if doc.Marker == "" {
		return nil, &model.DecodeError{Err: fmt.Errorf("document has no version marker")}
	}
	return &doc, nil
}

// FetchAsset retrieves one binary asset by scope and name.
func (c *Client) FetchAsset(ctx context.Context, scope, name string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("scope", scope).
		SetPathParam("name", name).
		Get("/catalog/assets/{scope}/{name}")
	if err != nil {
		return nil, &model.NetworkError{Transient: true, Err: err}
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), "asset fetch")
	}
	return resp.Body(), nil
}

// statusError classifies HTTP failures: 5xx and 429 are transient, other 4xx
// are permanent.
func statusError(code int, op string) error {
	transient := code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	return &model.NetworkError{
		Transient: transient,
		Err:       fmt.Errorf("%s: unexpected status %d", op, code),
	}
}
