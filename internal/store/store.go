package store

import (
	"context"

	"github.com/adpulse/adpulse-go/internal/models"
)

// UploadState is the persisted pair: the last uploaded dataset (nil when
// none or unreadable) and whether uploads are the active data source.
type UploadState struct {
	Dataset *models.UploadedDataset `json:"dataset,omitempty"`
	Active  bool                    `json:"active"`
}

// UploadStore is the opaque key-value contract for upload state, one blob
// per tenant. A malformed stored value must load as absent, never as an
// error. Last write wins; callers serialize their own load-parse-save
// sequence.
type UploadStore interface {
	LoadUploadState(ctx context.Context, tenantID string) (UploadState, error)
	SaveUploadState(ctx context.Context, tenantID string, ds *models.UploadedDataset, active bool) error
	ClearUploadState(ctx context.Context, tenantID string) error
}
