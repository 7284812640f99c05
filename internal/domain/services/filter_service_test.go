package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	apperrors "github.com/sobirov-market/storefront/internal/utils"
	"github.com/sobirov-market/storefront/pkg/models"
	"github.com/sobirov-market/storefront/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterService(t *testing.T, backend *fakeBackend) *FilterService {
	t.Helper()
	log := logger.NewNop()
	loader := filter.NewLoader(backend, nil, 0, log)
	catalog := NewCatalogService(backend, loader, nil, 0, nil, log)
	return NewFilterService(loader, catalog, time.Minute, time.Minute, log)
}

func treeBackend() *fakeBackend {
	return &fakeBackend{
		cats:   []models.Category{category("1", ""), category("2", "1"), category("3", "1"), category("4", "")},
		brands: []models.Brand{{ID: "b1", NameUz: "Legrand"}},
	}
}

func TestFilterService_OpenAppliesSubcategorySelection(t *testing.T) {
	backend := treeBackend()
	svc := newFilterService(t, backend)

	view, err := svc.Open(context.Background(), "s1", "shop", filter.Selection{Category: "2", Brand: "b1"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, view.Filter.State.Subcategories)
	assert.Empty(t, view.Filter.State.Categories)
	assert.Contains(t, view.Filter.Expanded, "1")
	assert.Equal(t, []string{"b1"}, view.Filter.State.Brands)
	assert.Equal(t, filter.Selection{Category: "2", Brand: "b1"}, view.Applied)

	q := backend.lastQuery()
	assert.Equal(t, "2", q.Get("categoryId"))
	assert.Equal(t, "b1", q.Get("brandId"))
}

func TestFilterService_ToggleCategoryCascades(t *testing.T) {
	backend := treeBackend()
	svc := newFilterService(t, backend)
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "shop", filter.Selection{}, nil, nil)
	require.NoError(t, err)

	view, err := svc.ToggleCategory(ctx, "s1", "shop", "1", utils.NewPagination(2, 24, "price", "asc"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, view.Filter.State.Categories)
	assert.ElementsMatch(t, []string{"2", "3"}, view.Filter.State.Subcategories)
	assert.EqualValues(t, 1, view.Notifications)

	q := backend.lastQuery()
	assert.Equal(t, "1,2,3", q.Get("categoryId"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "24", q.Get("limit"))

	view, err = svc.ToggleCategory(ctx, "s1", "shop", "1", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Filter.State.Categories)
	assert.Empty(t, view.Filter.State.Subcategories)
}

func TestFilterService_PriceLockSurvivesClear(t *testing.T) {
	svc := newFilterService(t, treeBackend())
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "shop", filter.Selection{}, &PriceBounds{Min: 0, Max: 1000}, nil)
	require.NoError(t, err)

	pr := filter.PriceRange{100, 500}
	_, err = svc.Update(ctx, "s1", "shop", filter.Partial{PriceRange: &pr}, nil)
	require.NoError(t, err)

	view, err := svc.SetBounds(ctx, "s1", "shop", PriceBounds{Min: 0, Max: 2000}, nil)
	require.NoError(t, err)
	assert.Equal(t, filter.PriceRange{100, 500}, view.Filter.State.PriceRange)

	view, err = svc.Clear(ctx, "s1", "shop", nil)
	require.NoError(t, err)
	assert.Equal(t, filter.PriceRange{0, 2000}, view.Filter.State.PriceRange)
	assert.True(t, view.Filter.PriceLocked)
}

func TestFilterService_PagesAreIndependent(t *testing.T) {
	svc := newFilterService(t, treeBackend())
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "shop", filter.Selection{}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Open(ctx, "s1", "catalog", filter.Selection{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.ToggleBrand(ctx, "s1", "shop", "b1", nil)
	require.NoError(t, err)

	view, err := svc.Get(ctx, "s1", "catalog", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Filter.State.Brands)
	assert.Equal(t, 2, svc.Count())

	svc.Close("s1", "catalog")
	_, err = svc.Get(ctx, "s1", "catalog", nil)
	assert.ErrorIs(t, err, ErrFilterSessionNotFound)
}

func TestFilterService_RetriesSelectionAfterTreeLoads(t *testing.T) {
	backend := treeBackend()
	backend.listErr = errors.New("timeout")
	cats := backend.cats
	backend.cats = nil
	svc := newFilterService(t, backend)
	ctx := context.Background()

	view, err := svc.Open(ctx, "s1", "shop", filter.Selection{Category: "1"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, view.Filter.State.Categories)

	backend.mu.Lock()
	backend.listErr = nil
	backend.cats = cats
	backend.mu.Unlock()

	view, err = svc.Get(ctx, "s1", "shop", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, view.Filter.State.Categories)
	assert.ElementsMatch(t, []string{"2", "3"}, view.Filter.State.Subcategories)

	// повторная загрузка дерева не применяет выбор второй раз
	view, err = svc.ToggleCategory(ctx, "s1", "shop", "1", nil)
	require.NoError(t, err)
	view, err = svc.Get(ctx, "s1", "shop", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Filter.State.Categories)
}

func TestFilterService_ReopenResetsStore(t *testing.T) {
	svc := newFilterService(t, treeBackend())
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "shop", filter.Selection{Category: "1"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.ToggleCategory(ctx, "s1", "shop", "1", nil)
	require.NoError(t, err)
	_, err = svc.ToggleBrand(ctx, "s1", "shop", "b1", nil)
	require.NoError(t, err)

	view, err := svc.Open(ctx, "s1", "shop", filter.Selection{Category: "1"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, view.Filter.State.Categories)
	assert.ElementsMatch(t, []string{"2", "3"}, view.Filter.State.Subcategories)
	assert.Empty(t, view.Filter.State.Brands)
	assert.EqualValues(t, 1, view.Notifications)
	assert.Equal(t, filter.Selection{Category: "1"}, view.Applied)

	view, err = svc.Open(ctx, "s1", "shop", filter.Selection{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, view.Filter.State.Categories)
	assert.Empty(t, view.Filter.State.Subcategories)
	assert.Empty(t, view.Filter.Expanded)
	assert.Equal(t, 1, svc.Count())
}

func TestFilterService_OpenNormalizesBounds(t *testing.T) {
	backend := treeBackend()
	svc := newFilterService(t, backend)

	view, err := svc.Open(context.Background(), "s1", "shop", filter.Selection{}, &PriceBounds{Min: 100, Max: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, filter.PriceRange{100, 100}, view.Filter.State.PriceRange)

	q := backend.lastQuery()
	assert.Equal(t, "100", q.Get("minPrice"))
	assert.Equal(t, "100", q.Get("maxPrice"))
}

func TestFilterService_Validation(t *testing.T) {
	svc := newFilterService(t, treeBackend())

	_, err := svc.Open(context.Background(), "", "shop", filter.Selection{}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptySessionID)

	_, err = svc.Open(context.Background(), "s1", "", filter.Selection{}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyFilterPage)

	_, err = svc.ToggleBrand(context.Background(), "s1", "nope", "b1", nil)
	assert.ErrorIs(t, err, ErrFilterSessionNotFound)
}
