package main

import (
	"context"
	"database/sql"
	"fmt"
	"haul-quote-service/internal/adapters/cache"
	"haul-quote-service/internal/adapters/repositories"
	"haul-quote-service/internal/api"
	"haul-quote-service/internal/api/handlers"
	"haul-quote-service/internal/config"
	"haul-quote-service/internal/platform/db"
	"haul-quote-service/internal/platform/ratelimit"
	"haul-quote-service/internal/ports"
	"haul-quote-service/internal/services"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"haul-quote-service/internal/adapters/distance"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires a cache backend and the Google provider behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	backend := config.Get("CACHE_BACKEND", "sqlite")

	ttl := config.GetDuration("CACHE_TTL", 30*24*time.Hour)
	ratePerSec := config.GetFloat("RATE_LIMIT_PER_SEC", 50)
	burst := config.GetInt("RATE_LIMIT_BURST", 50)
	sweepInterval := config.GetDuration("SWEEP_INTERVAL", time.Hour)
	unitCost := config.GetFloat("PROVIDER_UNIT_COST", 0.005)

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	provider, err := distance.NewGoogleDistanceProvider(apiKey)
	if err != nil {
		log.Fatal(err)
	}

	routeCache, permits, cleanup, err := openBackend(backend)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	limiter, err := ratelimit.NewBucket(ratePerSec, burst)
	if err != nil {
		log.Fatal(err)
	}

	distanceSvc := services.NewDistanceService(routeCache, provider, limiter, ttl)
	orchestrator := services.NewBatchOrchestrator(distanceSvc, unitCost)
	pricingSvc := services.NewPricingService(distanceSvc, permits)
	maintenance := services.NewCacheMaintenance(routeCache, distanceSvc, sweepInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go maintenance.Run(ctx)

	router := api.NewRouter(distanceSvc, orchestrator, pricingSvc, maintenance, handlers.RuntimeConfig{
		Backend:              backend,
		TTL:                  ttl,
		RateLimitPerSec:      ratePerSec,
		MaxConcurrentDefault: 5,
		UnitCostPerCall:      unitCost,
		SweepInterval:        sweepInterval,
	})

	// Write timeout leaves headroom over the batch deadline (cold-cache
	// batches spend most of it on external API latency).
	log.Printf("Server listening addr=:%s backend=%s", port, backend)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      services.DefaultBatchDeadline + time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openBackend builds the route cache and permit repository for the selected
// backend, returning a cleanup for whatever connections it opened.
func openBackend(backend string) (ports.RouteCache, ports.PermitRepository, func(), error) {
	switch backend {
	case "sqlite":
		dbPath := config.Get("DB_PATH", "data/app.db")
		conn, err := openSqlite(dbPath)
		if err != nil {
			return nil, nil, nil, err
		}

		// Initialize schema on startup for local runs.
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}

		return cache.NewSqliteRouteCache(conn),
			repositories.NewSqlitePermitRepository(conn),
			func() { conn.Close() }, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}

		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, nil, err
		}

		// Schema is managed by cmd/dbtool for this backend.
		return cache.NewSQLRouteCache(conn),
			repositories.NewSQLPermitRepository(conn),
			func() { conn.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: config.Get("REDIS_ADDR", "localhost:6379"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, nil, fmt.Errorf("verify redis connection: %w", err)
		}

		// Permit writes still need a SQL store when one is configured.
		var permits ports.PermitRepository
		cleanup := func() { client.Close() }
		if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
			conn, err := db.Open(databaseURL)
			if err != nil {
				client.Close()
				return nil, nil, nil, err
			}
			permits = repositories.NewSQLPermitRepository(conn)
			cleanup = func() {
				conn.Close()
				client.Close()
			}
		}

		return cache.NewRedisRouteCache(client), permits, cleanup, nil

	case "memory":
		return cache.NewMemoryRouteCache(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown CACHE_BACKEND %q", backend)
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}
