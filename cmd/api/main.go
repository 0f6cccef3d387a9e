package main

import (
	"log"
	"lookup-api/internal/api/handlers"
	"lookup-api/internal/config"
	"lookup-api/internal/database"
	"lookup-api/internal/middleware"
	"lookup-api/internal/repository"
	"lookup-api/internal/services"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := config.NewAppConfig()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Redis is optional; the catalog serves uncached without it
	cacheCfg := config.NewCacheConfig()
	var cache services.CacheService
	if redisCache, err := services.NewRedisCacheService(cacheCfg); err != nil {
		log.Printf("Warning: %v, running without catalog cache", err)
	} else {
		cache = redisCache
	}

	// Initialize services
	accountService := services.NewAccountService(accountRepo)
	catalogService := services.NewCatalogService(serviceRepo, cache, cacheCfg)
	providerClient := services.NewProviderClient(cfg.ProviderTimeout)
	lookupService := services.NewLookupService(accountService, catalogService, providerClient, usageRepo)
	statusService := services.NewStatusService(statsRepo, paymentRepo, usageRepo)

	// Initialize handlers
	lookupHandler := handlers.NewLookupHandler(lookupService)
	accountHandler := handlers.NewAccountHandler(accountService)
	serviceHandler := handlers.NewServiceHandler(catalogService)
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)
	usageHandler := handlers.NewUsageHandler(usageRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo)
	statusHandler := handlers.NewStatusHandler(statusService)

	// Initialize router
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Bot-facing routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/lookup", lookupHandler.Lookup).Methods("POST")
	api.HandleFunc("/user/{telegram_id:[0-9]+}", accountHandler.GetProfile).Methods("GET")
	api.HandleFunc("/services", serviceHandler.ListServices).Methods("GET")
	api.HandleFunc("/services/grouped", serviceHandler.ListGrouped).Methods("GET")
	api.HandleFunc("/services/code/{code}", serviceHandler.GetServiceByCode).Methods("GET")
	api.HandleFunc("/services/{id:[0-9]+}", serviceHandler.GetService).Methods("GET")

	// Admin routes (protected by static token)
	admin := router.PathPrefix("/api").Subrouter()
	admin.Use(middleware.AdminMiddleware(cfg.AdminToken))
	admin.HandleFunc("/services", serviceHandler.CreateService).Methods("POST")
	admin.HandleFunc("/services/{id:[0-9]+}", serviceHandler.UpdateService).Methods("PUT")
	admin.HandleFunc("/services/{id:[0-9]+}", serviceHandler.DeleteService).Methods("DELETE")

	admin.HandleFunc("/users", accountHandler.ListAccounts).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", accountHandler.GetAccount).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", accountHandler.UpdateAccount).Methods("PUT")
	admin.HandleFunc("/users/{id:[0-9]+}", accountHandler.DeleteAccount).Methods("DELETE")
	admin.HandleFunc("/users/{id:[0-9]+}/set_quota", accountHandler.SetQuota).Methods("POST")
	admin.HandleFunc("/users/{id:[0-9]+}/usages", usageHandler.ListAccountUsages).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}/payments", paymentHandler.ListAccountPayments).Methods("GET")

	admin.HandleFunc("/devices", deviceHandler.ListDevices).Methods("GET")
	admin.HandleFunc("/devices", deviceHandler.CreateDevice).Methods("POST")
	admin.HandleFunc("/devices/{id:[0-9]+}", deviceHandler.GetDevice).Methods("GET")
	admin.HandleFunc("/devices/{id:[0-9]+}", deviceHandler.UpdateDevice).Methods("PUT")
	admin.HandleFunc("/devices/{id:[0-9]+}", deviceHandler.DeleteDevice).Methods("DELETE")

	admin.HandleFunc("/usages", usageHandler.ListUsages).Methods("GET")
	admin.HandleFunc("/usages/{id:[0-9]+}", usageHandler.GetUsage).Methods("GET")

	admin.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	admin.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	admin.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.GetPayment).Methods("GET")
	admin.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.DeletePayment).Methods("DELETE")

	admin.HandleFunc("/status", statusHandler.GetStatus).Methods("GET")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Admin-Token",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + cfg.Port,
		WriteTimeout: 45 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(srv.ListenAndServe())
}
