package services_test

import (
	"context"
	"lookup-api/internal/config"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"lookup-api/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type lookupFixture struct {
	db      *gorm.DB
	lookup  services.LookupService
	account services.AccountService
	catalog services.CatalogService
}

func newLookupFixture(t *testing.T) *lookupFixture {
	t.Helper()
	db := newTestDB(t)

	accountService := services.NewAccountService(repository.NewAccountRepository(db))
	catalog := services.NewCatalogService(repository.NewServiceRepository(db), nil, config.NewCacheConfig())
	provider := services.NewProviderClient(5 * time.Second)
	usageRepo := repository.NewUsageRepository(db)

	return &lookupFixture{
		db:      db,
		lookup:  services.NewLookupService(accountService, catalog, provider, usageRepo),
		account: accountService,
		catalog: catalog,
	}
}

func (f *lookupFixture) addService(t *testing.T, code, apiURL string) *models.Service {
	t.Helper()
	service := &models.Service{Code: code, Name: code, APIURL: apiURL}
	require.NoError(t, f.catalog.Create(context.Background(), service))
	return service
}

func (f *lookupFixture) accountByTelegramID(t *testing.T, telegramID int64) *models.Account {
	t.Helper()
	var account models.Account
	require.NoError(t, f.db.First(&account, "telegram_id = ?", telegramID).Error)
	return &account
}

func (f *lookupFixture) usageCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.UsageRecord{}).Count(&count).Error)
	return count
}

func TestLookupSuccessDebitsQuotaAndAudits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"brand":"Acme","model":"X1"}`))
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	result, err := f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID:  42,
		ServiceCode: "imei_basic",
		IMEI:        "356938035643809",
	})
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.JSONEq(t, `{"brand":"Acme","model":"X1"}`, string(result.Payload))

	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, 9, account.FreeCalls)

	var usages []models.UsageRecord
	require.NoError(t, f.db.Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.True(t, usages[0].Success)
	assert.Equal(t, "356938035643809", usages[0].IMEI)
	assert.Equal(t, account.ID, usages[0].AccountID)
}

func TestLookupUnknownServiceLeavesNoTrace(t *testing.T) {
	f := newLookupFixture(t)

	_, err := f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID:  42,
		ServiceCode: "nope",
		IMEI:        "356938035643809",
	})
	assert.ErrorIs(t, err, errors.ErrServiceNotFound)

	// The account is still created lazily, with its quota intact.
	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, services.DefaultFreeCalls, account.FreeCalls)
	assert.Equal(t, int64(0), f.usageCount(t))
}

func TestLookupQuotaExhausted(t *testing.T) {
	var providerCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providerCalls++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	account, err := f.account.ResolveOrCreate(context.Background(), 42, "")
	require.NoError(t, err)
	require.NoError(t, f.account.SetFreeCalls(context.Background(), account.ID, 0))

	_, err = f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID:  42,
		ServiceCode: "imei_basic",
		IMEI:        "356938035643809",
	})
	assert.ErrorIs(t, err, errors.ErrQuotaExhausted)

	// No provider call and no audit row for a rejected request.
	assert.Equal(t, 0, providerCalls)
	assert.Equal(t, int64(0), f.usageCount(t))
}

func TestLookupProviderBusinessFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","message":"IMEI invalid"}`))
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	result, err := f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID:  42,
		ServiceCode: "imei_basic",
		IMEI:        "356938035643809",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "IMEI invalid", result.ErrorMessage)

	// Failed calls are audited but never billed.
	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, services.DefaultFreeCalls, account.FreeCalls)

	var usages []models.UsageRecord
	require.NoError(t, f.db.Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.False(t, usages[0].Success)
}

func TestLookupProviderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	result, err := f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID:  42,
		ServiceCode: "imei_basic",
		IMEI:        "356938035643809",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "Provider API call failed")

	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, services.DefaultFreeCalls, account.FreeCalls)
	assert.Equal(t, int64(1), f.usageCount(t))
}

func TestLookupCreatesDeviceRecordOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	req := services.LookupRequest{TelegramID: 42, ServiceCode: "imei_basic", IMEI: "356938035643809"}
	for i := 0; i < 3; i++ {
		_, err := f.lookup.Lookup(context.Background(), req)
		require.NoError(t, err)
	}

	var devices []models.DeviceRecord
	require.NoError(t, f.db.Find(&devices).Error)
	require.Len(t, devices, 1)
	assert.Equal(t, "356938035643809", devices[0].IMEI)

	// Three attempts, three audit rows, three debits.
	assert.Equal(t, int64(3), f.usageCount(t))
	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, 7, account.FreeCalls)
}

func TestLookupRefreshesUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newLookupFixture(t)
	f.addService(t, "imei_basic", srv.URL)

	_, err := f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID: 42, Username: "alice", ServiceCode: "imei_basic", IMEI: "1",
	})
	require.NoError(t, err)

	_, err = f.lookup.Lookup(context.Background(), services.LookupRequest{
		TelegramID: 42, Username: "alice_renamed", ServiceCode: "imei_basic", IMEI: "1",
	})
	require.NoError(t, err)

	account := f.accountByTelegramID(t, 42)
	assert.Equal(t, "alice_renamed", account.Username)
}
