// Package service contains the business logic for the City Info API.
// Services validate inputs, enforce the existence and scope rules, and
// orchestrate one repository unit of work per call.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/internal/repo"
)

// RepoFactory opens a fresh unit of work. Services call it once per operation.
type RepoFactory func() repo.CityInfoRepo

// authorizeCity enforces the caller's city scope, if ctx carries one.
// It runs before the existence check, so a scoped caller learns nothing about
// cities outside its scope.
func authorizeCity(ctx context.Context, r repo.CityInfoRepo, cityID int) error {
	name, ok := domain.CityScope(ctx)
	if !ok {
		return nil
	}
	matches, err := r.CityNameMatchesCityID(ctx, name, cityID)
	if err != nil {
		return err
	}
	if !matches {
		return fmt.Errorf("city %d is outside the caller's scope: %w", cityID, domain.ErrForbidden)
	}
	return nil
}

// requireCity runs the scope check and then the existence check.
func requireCity(ctx context.Context, r repo.CityInfoRepo, log *slog.Logger, cityID int) error {
	if err := authorizeCity(ctx, r, cityID); err != nil {
		return err
	}
	exists, err := r.CityExists(ctx, cityID)
	if err != nil {
		return err
	}
	if !exists {
		log.InfoContext(ctx, "city not found when accessing points of interest", slog.Int("city_id", cityID))
		return fmt.Errorf("city %d: %w", cityID, domain.ErrNotFound)
	}
	return nil
}
