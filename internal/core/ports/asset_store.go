package ports

import "context"

// UploadResult is the remote store's answer to a completed ingest: a stable
// reference URL plus the remote identifier. It is consumed immediately to
// populate CatalogItem.FeatureImage and never persisted on its own.
type UploadResult struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// AssetStore is the remote service that durably stores uploaded images.
// Upload streams the file bytes and resolves to exactly one terminal
// outcome: a result or an error. No retry, no partial-progress reporting.
type AssetStore interface {
	Upload(ctx context.Context, file UploadFile) (*UploadResult, error)
}
