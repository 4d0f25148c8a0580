// Package sync keeps the category tracking tables consistent with each
// entity's declared Type: at most one tracking record, in the table
// matching the current Type, with stale records in the other tables
// cleaned up.
package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// autoTitle marks tracking records created by the synchronizer rather
// than by hand.
const autoTitle = "Suivi (Auto-Généré)"

// Store is the slice of the record-store client the synchronizer needs.
type Store interface {
	ListTrackingForEntity(ctx context.Context, cat models.Category, entityID string) ([]models.TrackingRecord, error)
	CreateAndLinkTracking(ctx context.Context, cat models.Category, fields map[string]any, entityID string) (models.TrackingRecord, error)
	UpdateTracking(ctx context.Context, cat models.Category, id string, fields map[string]any) error
	DeleteTracking(ctx context.Context, cat models.Category, id string) error
}

type Synchronizer struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Synchronizer {
	return &Synchronizer{store: store, log: log}
}

// Synchronize realigns the tracking tables after an entity's Type
// changed from prevType to newType. Each table is handled
// independently: a failure on one is logged and does not stop the
// others, and the joined errors are returned for the caller's record.
// Unchanged types are a no-op.
func (s *Synchronizer) Synchronize(ctx context.Context, entityID, newType, prevType string) error {
	if newType == prevType {
		return nil
	}
	target, ok := models.ParseCategory(newType)
	if !ok || !target.Trackable() {
		// Subvention and blank/unknown types own no tracking table;
		// only cleanup remains.
		target = ""
	}

	var errs []error
	for _, cat := range models.TrackableCategories() {
		records, err := s.store.ListTrackingForEntity(ctx, cat, entityID)
		if err != nil {
			s.log.Warn("tracking sync: list failed",
				zap.String("entity", entityID), zap.String("category", cat.String()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", cat, err))
			continue
		}
		if cat == target {
			if len(records) > 0 {
				continue
			}
			if _, err := s.store.CreateAndLinkTracking(ctx, cat, map[string]any{"Titre": autoTitle}, entityID); err != nil {
				s.log.Warn("tracking sync: create failed",
					zap.String("entity", entityID), zap.String("category", cat.String()), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", cat, err))
			}
			continue
		}
		for _, rec := range records {
			if err := s.store.DeleteTracking(ctx, cat, rec.ID.String()); err != nil {
				s.log.Warn("tracking sync: delete failed",
					zap.String("entity", entityID), zap.String("category", cat.String()),
					zap.String("record", rec.ID.String()), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", cat, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ToggleStandPack selects or deselects the "Stand 3x3m" option on a
// partner's tracking record, keeping the side Stand record in step: a
// Stand record is created and cross-linked on selection and deleted on
// deselection. Both directions are idempotent.
func (s *Synchronizer) ToggleStandPack(ctx context.Context, entity models.Entity, rec models.TrackingRecord, selected bool) error {
	packs := rec.Packs()
	has := rec.HasPack(models.PackStand3x3)
	switch {
	case selected && !has:
		packs = append(packs, models.PackStand3x3)
	case !selected && has:
		kept := packs[:0]
		for _, p := range packs {
			if p != models.PackStand3x3 {
				kept = append(kept, p)
			}
		}
		packs = kept
	}
	if err := s.store.UpdateTracking(ctx, models.CategoryPartenaires, rec.ID.String(),
		map[string]any{"Pack_Choisi": models.JoinPacks(packs)}); err != nil {
		return fmt.Errorf("update pack selection: %w", err)
	}

	entityID := entity.ID.String()
	if selected {
		if !rec.Stand.IsZero() {
			return nil
		}
		stand, err := s.store.CreateAndLinkTracking(ctx, models.CategoryStand,
			map[string]any{"Titre": "Stand - " + entity.Title}, entityID)
		if err != nil {
			return fmt.Errorf("create stand record: %w", err)
		}
		if err := s.store.UpdateTracking(ctx, models.CategoryPartenaires, rec.ID.String(),
			map[string]any{"Stand": stand.ID.String()}); err != nil {
			return fmt.Errorf("reference stand record: %w", err)
		}
		return nil
	}

	if rec.Stand.IsZero() {
		return nil
	}
	if err := s.store.DeleteTracking(ctx, models.CategoryStand, rec.Stand.ID.String()); err != nil {
		s.log.Warn("stand cleanup: delete failed",
			zap.String("entity", entityID), zap.String("stand", rec.Stand.ID.String()), zap.Error(err))
	}
	if err := s.store.UpdateTracking(ctx, models.CategoryPartenaires, rec.ID.String(),
		map[string]any{"Stand": nil}); err != nil {
		return fmt.Errorf("clear stand reference: %w", err)
	}
	return nil
}
