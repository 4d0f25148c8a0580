package handlers

import (
	"context"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// RecordStore is the slice of the record-store client the handlers
// consume. *store.Client satisfies it.
type RecordStore interface {
	ListEntities(ctx context.Context) ([]models.Entity, error)
	CreateEntity(ctx context.Context, fields map[string]any) (models.Entity, error)
	UpdateEntity(ctx context.Context, id string, fields map[string]any) error
	ListTracking(ctx context.Context, cat models.Category) ([]models.TrackingRecord, error)
	ListTrackingForEntity(ctx context.Context, cat models.Category, entityID string) ([]models.TrackingRecord, error)
	UpdateTracking(ctx context.Context, cat models.Category, id string, fields map[string]any) error
	CreateAndLinkTracking(ctx context.Context, cat models.Category, fields map[string]any, entityID string) (models.TrackingRecord, error)
}
