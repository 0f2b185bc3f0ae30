package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

type fakeMenuCache struct {
	store   map[string]string
	getErr  error
	setErr  error
	sets    int
	deletes []string
}

func newFakeMenuCache() *fakeMenuCache {
	return &fakeMenuCache{store: map[string]string{}}
}

func (f *fakeMenuCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.store[key], nil
}

func (f *fakeMenuCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.store[key] = value.(string)
	return nil
}

func (f *fakeMenuCache) Del(_ context.Context, keys ...string) error {
	f.deletes = append(f.deletes, keys...)
	for _, key := range keys {
		delete(f.store, key)
	}
	return nil
}

func (f *fakeMenuCache) MenuCacheKey(truckID string) string {
	return "cb:menu:" + truckID
}

type fakeCatalogRepo struct {
	categories []models.Category
	items      []models.MenuItem
	listCalls  int
	created    []*models.MenuItem
}

func (f *fakeCatalogRepo) ListCategories(_ context.Context, _ uuid.UUID) ([]models.Category, error) {
	f.listCalls++
	return f.categories, nil
}

func (f *fakeCatalogRepo) ListItems(_ context.Context, _ uuid.UUID) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeCatalogRepo) FindItemByID(_ context.Context, _ uuid.UUID) (*models.MenuItem, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogRepo) CreateItem(_ context.Context, item *models.MenuItem) error {
	f.created = append(f.created, item)
	return nil
}

func (f *fakeCatalogRepo) UpdateItem(_ context.Context, _ *models.MenuItem) error { return nil }

func (f *fakeCatalogRepo) SetItemAvailability(_ context.Context, _ uuid.UUID, _ bool) error {
	return nil
}

func (f *fakeCatalogRepo) ArchiveItem(_ context.Context, _ uuid.UUID) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestGetMenuFillsAndReadsCache(t *testing.T) {
	truckID := uuid.New()
	repo := &fakeCatalogRepo{
		categories: []models.Category{buildTestCategory(truckID)},
		items: []models.MenuItem{{
			ID:             uuid.New(),
			TruckID:        truckID,
			CategoryID:     uuid.New(),
			Name:           "Birria Taco",
			BasePriceCents: 1100,
			IsAvailable:    true,
		}},
	}
	cache := newFakeMenuCache()

	svc, err := NewService(repo, cache, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	first, err := svc.GetMenu(context.Background(), truckID)
	if err != nil {
		t.Fatalf("first GetMenu: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repo read, got %d", repo.listCalls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected the snapshot to be cached, sets=%d", cache.sets)
	}

	second, err := svc.GetMenu(context.Background(), truckID)
	if err != nil {
		t.Fatalf("second GetMenu: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("second read should come from cache, repo reads=%d", repo.listCalls)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("cached snapshot differs: %d vs %d items", len(second.Items), len(first.Items))
	}
}

func TestGetMenuSurvivesCacheFailure(t *testing.T) {
	truckID := uuid.New()
	repo := &fakeCatalogRepo{}
	cache := newFakeMenuCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	svc, err := NewService(repo, cache, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.GetMenu(context.Background(), truckID); err != nil {
		t.Fatalf("GetMenu should degrade to the database: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected a database read, got %d", repo.listCalls)
	}
}

func TestGetMenuDiscardsCorruptCacheEntry(t *testing.T) {
	truckID := uuid.New()
	repo := &fakeCatalogRepo{}
	cache := newFakeMenuCache()
	cache.store[cache.MenuCacheKey(truckID.String())] = "{not json"

	svc, err := NewService(repo, cache, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	menu, err := svc.GetMenu(context.Background(), truckID)
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("corrupt entry must fall through to the database")
	}
	encoded, ok := cache.store[cache.MenuCacheKey(truckID.String())]
	if !ok {
		t.Fatalf("rebuilt snapshot should be re-cached")
	}
	var decoded Menu
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("cached snapshot is not valid JSON: %v", err)
	}
	if decoded.TruckID != menu.TruckID {
		t.Fatalf("cached snapshot truck mismatch")
	}
}

func TestWritePathsInvalidateCache(t *testing.T) {
	truckID := uuid.New()
	repo := &fakeCatalogRepo{}
	cache := newFakeMenuCache()
	key := cache.MenuCacheKey(truckID.String())
	cache.store[key] = "stale"

	svc, err := NewService(repo, cache, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	item := &models.MenuItem{ID: uuid.New(), TruckID: truckID, Name: "New Item", BasePriceCents: 500}
	if err := svc.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected the item to be persisted")
	}
	if _, ok := cache.store[key]; ok {
		t.Fatalf("create must evict the cached menu")
	}

	cache.store[key] = "stale"
	if err := svc.SetItemAvailability(context.Background(), truckID, item.ID, false); err != nil {
		t.Fatalf("SetItemAvailability: %v", err)
	}
	if _, ok := cache.store[key]; ok {
		t.Fatalf("availability change must evict the cached menu")
	}
}
