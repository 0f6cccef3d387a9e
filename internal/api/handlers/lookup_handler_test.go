package handlers_test

import (
	"encoding/json"
	"lookup-api/internal/api/handlers"
	"lookup-api/internal/config"
	"lookup-api/internal/database"
	"lookup-api/internal/models"
	"lookup-api/internal/repository"
	"lookup-api/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type apiFixture struct {
	db     *gorm.DB
	router *mux.Router
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	accountService := services.NewAccountService(repository.NewAccountRepository(db))
	catalog := services.NewCatalogService(repository.NewServiceRepository(db), nil, config.NewCacheConfig())
	provider := services.NewProviderClient(5 * time.Second)
	lookupService := services.NewLookupService(accountService, catalog, provider, repository.NewUsageRepository(db))

	lookupHandler := handlers.NewLookupHandler(lookupService)
	accountHandler := handlers.NewAccountHandler(accountService)

	router := mux.NewRouter()
	router.HandleFunc("/api/lookup", lookupHandler.Lookup).Methods("POST")
	router.HandleFunc("/api/user/{telegram_id:[0-9]+}", accountHandler.GetProfile).Methods("GET")

	return &apiFixture{db: db, router: router}
}

func (f *apiFixture) addService(t *testing.T, code, apiURL string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Service{Code: code, Name: code, APIURL: apiURL}).Error)
}

func (f *apiFixture) doLookup(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lookup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLookupEndpointSuccessReturnsProviderPayload(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"brand":"Acme","model":"X1"}`))
	}))
	defer provider.Close()

	f := newAPIFixture(t)
	f.addService(t, "imei_basic", provider.URL)

	rec := f.doLookup(t, `{"user_id":42,"service":"imei_basic","imei":"356938035643809"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"brand":"Acme","model":"X1"}`, rec.Body.String())
}

func TestLookupEndpointUnknownService(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.doLookup(t, `{"user_id":42,"service":"nope","imei":"356938035643809"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Service not found"}`, rec.Body.String())
}

func TestLookupEndpointQuotaExhausted(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer provider.Close()

	f := newAPIFixture(t)
	f.addService(t, "imei_basic", provider.URL)
	require.NoError(t, f.db.Create(&models.Account{TelegramID: 42, FreeCalls: 0, Registered: true}).Error)

	rec := f.doLookup(t, `{"user_id":42,"service":"imei_basic","imei":"356938035643809"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"No free calls left"}`, rec.Body.String())
}

func TestLookupEndpointProviderFailureIs200WithErrorBody(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","message":"IMEI invalid"}`))
	}))
	defer provider.Close()

	f := newAPIFixture(t)
	f.addService(t, "imei_basic", provider.URL)

	rec := f.doLookup(t, `{"user_id":42,"service":"imei_basic","imei":"356938035643809"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"IMEI invalid"}`, rec.Body.String())
}

func TestLookupEndpointRejectsMissingFields(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.doLookup(t, `{"user_id":42}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpointCreatesAccountLazily(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/42?username=alice", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile services.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 10, profile.FreeCalls)
	assert.Equal(t, 0, profile.PaidCalls)
	assert.Equal(t, "alice", profile.Username)

	var account models.Account
	require.NoError(t, f.db.First(&account, "telegram_id = ?", 42).Error)
	assert.Equal(t, account.ID, profile.UserID)
}
