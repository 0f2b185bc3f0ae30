package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

// menuCacheTTL bounds how stale a cached menu snapshot can get even if
// an invalidation is missed.
const menuCacheTTL = 10 * time.Minute

type menuCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	MenuCacheKey(truckID string) string
}

// Service serves menu snapshots with a Redis read-through cache and owns
// the menu write paths that invalidate it.
type Service interface {
	GetMenu(ctx context.Context, truckID uuid.UUID) (*Menu, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	SetItemAvailability(ctx context.Context, truckID, itemID uuid.UUID, available bool) error
	ArchiveItem(ctx context.Context, truckID, itemID uuid.UUID) error
}

type service struct {
	repo  Repository
	cache menuCache
	logg  *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo Repository, cache menuCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

// GetMenu returns the truck's snapshot, from cache when possible. Cache
// failures only cost the round trip to Postgres.
func (s *service) GetMenu(ctx context.Context, truckID uuid.UUID) (*Menu, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cache.MenuCacheKey(truckID.String()))
		if err == nil && cached != "" {
			var menu Menu
			if err := json.Unmarshal([]byte(cached), &menu); err == nil {
				return &menu, nil
			}
			s.logg.Warn(ctx, "discarding undecodable cached menu")
		}
	}

	categories, err := s.repo.ListCategories(ctx, truckID)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	items, err := s.repo.ListItems(ctx, truckID)
	if err != nil {
		return nil, fmt.Errorf("loading menu items: %w", err)
	}

	menu := BuildMenu(truckID, categories, items)
	if s.cache != nil {
		encoded, err := json.Marshal(menu)
		if err == nil {
			if err := s.cache.Set(ctx, s.cache.MenuCacheKey(truckID.String()), string(encoded), menuCacheTTL); err != nil {
				s.logg.Warn(ctx, "failed to cache menu snapshot")
			}
		}
	}
	return menu, nil
}

func (s *service) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, item.TruckID)
	return nil
}

func (s *service) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, item.TruckID)
	return nil
}

func (s *service) SetItemAvailability(ctx context.Context, truckID, itemID uuid.UUID, available bool) error {
	if err := s.repo.SetItemAvailability(ctx, itemID, available); err != nil {
		return err
	}
	s.invalidate(ctx, truckID)
	return nil
}

func (s *service) ArchiveItem(ctx context.Context, truckID, itemID uuid.UUID) error {
	if err := s.repo.ArchiveItem(ctx, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, truckID)
	return nil
}

func (s *service) invalidate(ctx context.Context, truckID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.MenuCacheKey(truckID.String())); err != nil {
		s.logg.Warn(ctx, "failed to invalidate menu cache")
	}
}
