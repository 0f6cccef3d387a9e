package services_test

import (
	"context"
	"lookup-api/internal/config"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"lookup-api/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, cache services.CacheService) services.CatalogService {
	t.Helper()
	db := newTestDB(t)
	return services.NewCatalogService(repository.NewServiceRepository(db), cache, config.NewCacheConfig())
}

func TestCatalogCreateRejectsDuplicateCode(t *testing.T) {
	catalog := newCatalog(t, nil)
	ctx := context.Background()

	err := catalog.Create(ctx, &models.Service{Code: "imei_basic", Name: "Basic", APIURL: "https://provider.example/check"})
	require.NoError(t, err)

	err = catalog.Create(ctx, &models.Service{Code: "imei_basic", Name: "Other", APIURL: "https://other.example"})
	assert.ErrorIs(t, err, errors.ErrDuplicateCode)
}

func TestCatalogGetByCodeUnknown(t *testing.T) {
	catalog := newCatalog(t, nil)

	_, err := catalog.GetByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, errors.ErrServiceNotFound)
}

func TestCatalogCreateDefaultsPreferredMethod(t *testing.T) {
	catalog := newCatalog(t, nil)
	ctx := context.Background()

	post := &models.Service{Code: "apple_full", Name: "Apple Full", APIURL: "https://api.imei.info/check"}
	require.NoError(t, catalog.Create(ctx, post))
	assert.Equal(t, models.MethodPost, post.PreferredMethod)

	get := &models.Service{Code: "imei_basic", Name: "Basic", APIURL: "https://provider.example/check"}
	require.NoError(t, catalog.Create(ctx, get))
	assert.Equal(t, models.MethodGet, get.PreferredMethod)
}

func TestCatalogListGrouped(t *testing.T) {
	catalog := newCatalog(t, nil)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, &models.Service{Code: "samsung_info", Name: "Samsung Info", Group: "Samsung", APIURL: "https://s.example"}))
	require.NoError(t, catalog.Create(ctx, &models.Service{Code: "apple_basic", Name: "Apple Basic", Group: "Apple", APIURL: "https://a.example"}))
	require.NoError(t, catalog.Create(ctx, &models.Service{Code: "apple_full", Name: "Apple Full", Group: "Apple", APIURL: "https://a.example/full"}))

	groups, err := catalog.ListGrouped(ctx)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	require.Len(t, groups["Apple"], 2)
	// Ordered by name within the group.
	assert.Equal(t, "apple_basic", groups["Apple"][0].Code)
	assert.Equal(t, "apple_full", groups["Apple"][1].Code)
	assert.Equal(t, "samsung_info", groups["Samsung"][0].Code)
	assert.Equal(t, "https://s.example", groups["Samsung"][0].APIURL)
}

func TestCatalogUpdateAppliesPartialFields(t *testing.T) {
	catalog := newCatalog(t, nil)
	ctx := context.Background()

	service := &models.Service{Code: "imei_basic", Name: "Basic", Group: "General", APIURL: "https://provider.example"}
	require.NoError(t, catalog.Create(ctx, service))

	newName := "Basic v2"
	updated, err := catalog.Update(ctx, service.ID, services.ServiceUpdate{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Basic v2", updated.Name)
	// Untouched fields survive, and code is immutable by construction.
	assert.Equal(t, "imei_basic", updated.Code)
	assert.Equal(t, "https://provider.example", updated.APIURL)

	reloaded, err := catalog.GetByCode(ctx, "imei_basic")
	require.NoError(t, err)
	assert.Equal(t, "Basic v2", reloaded.Name)
}

func TestCatalogUpdateUnknownService(t *testing.T) {
	catalog := newCatalog(t, nil)

	name := "x"
	_, err := catalog.Update(context.Background(), 999, services.ServiceUpdate{Name: &name})
	assert.ErrorIs(t, err, errors.ErrServiceNotFound)
}

func TestCatalogDefaultGroup(t *testing.T) {
	catalog := newCatalog(t, nil)
	ctx := context.Background()

	service := &models.Service{Code: "imei_basic", Name: "Basic", APIURL: "https://provider.example"}
	require.NoError(t, catalog.Create(ctx, service))
	assert.Equal(t, "General", service.Group)
}

func TestCatalogGroupedListingUsesCache(t *testing.T) {
	cache := newStubCache()
	catalog := newCatalog(t, cache)
	ctx := context.Background()

	require.NoError(t, catalog.Create(ctx, &models.Service{Code: "imei_basic", Name: "Basic", APIURL: "https://provider.example"}))

	_, err := catalog.ListGrouped(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache, not re-stored.
	_, err = catalog.ListGrouped(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	cache := newStubCache()
	catalog := newCatalog(t, cache)
	ctx := context.Background()

	service := &models.Service{Code: "imei_basic", Name: "Basic", APIURL: "https://provider.example"}
	require.NoError(t, catalog.Create(ctx, service))
	assert.Equal(t, 1, cache.deletes)

	_, err := catalog.ListGrouped(ctx)
	require.NoError(t, err)

	newName := "Basic v2"
	_, err = catalog.Update(ctx, service.ID, services.ServiceUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.deletes)

	groups, err := catalog.ListGrouped(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Basic v2", groups["General"][0].Name)

	require.NoError(t, catalog.Delete(ctx, service.ID))
	assert.Equal(t, 3, cache.deletes)
}
