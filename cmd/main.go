// jobmate-search-service
//
// Job search aggregation pipeline.
// Exposes a REST API used by the Gateway to implement:
//   - search(email, location, country, jobType): ranked, paginated results e-mailed to the user
//   - searchPreview(location, country, jobType): free-tier results without e-mail
//   - jobs(location, country, jobType, page): raw listing of stored postings
//
// Premium searches also query the external providers; a cron job ingests
// provider postings into the store for free-tier searches.
// Publishes EVENT_SEARCH_COMPLETED to Redis when Redis is configured.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"jobmate/search-service/internal/api"
	"jobmate/search-service/internal/cache"
	"jobmate/search-service/internal/cascade"
	"jobmate/search-service/internal/config"
	"jobmate/search-service/internal/db"
	"jobmate/search-service/internal/entitlement"
	"jobmate/search-service/internal/logging"
	"jobmate/search-service/internal/notify"
	"jobmate/search-service/internal/provider"
	"jobmate/search-service/internal/scheduler"
	"jobmate/search-service/internal/scraper"
	"jobmate/search-service/internal/search"
	"jobmate/search-service/internal/store"
)

const version = "1.0.0"

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Service: "search-service",
		Version: version,
	})
}

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[search-service] .env not loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[search-service] Config error: %v", err)
	}
	slog.SetDefault(logging.New(cfg.LogLevel, cfg.LogFormat))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Store + entitlement ─────────────────────────────────────────────────
	var (
		st      store.Store
		checker entitlement.Checker
	)
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Printf("[search-service] Opening SQLite at %s…", cfg.SQLitePath)
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("[search-service] SQLite: %v", err)
		}
		defer conn.Close()
		st = store.NewSQLiteStore(conn)
		checker = entitlement.NewMemory(cfg.PremiumEmails)
	default:
		log.Println("[search-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, 0)
		if err != nil {
			log.Fatalf("[search-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		pc := entitlement.NewPostgresChecker(pool)
		if err := pc.Migrate(ctx); err != nil {
			log.Fatalf("[search-service] Migrate entitlement: %v", err)
		}
		st = store.NewPostgresStore(pool)
		checker = pc
		log.Println("[search-service] PostgreSQL connected ✓")
	}
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("[search-service] Migrate store: %v", err)
	}

	// ── Redis (optional) ────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[search-service] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[search-service] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[search-service] Redis connected ✓")
	}

	// ── Pipeline ────────────────────────────────────────────────────────────
	providers, err := provider.Build(providerSettings(cfg.Providers), nil)
	if err != nil {
		log.Fatalf("[search-service] Providers: %v", err)
	}
	log.Printf("[search-service] %d external provider(s) enabled", len(providers))

	gateway := provider.NewGateway(st, providers, cfg.Retry)
	controller := cascade.New(gateway, st, cfg.CascadeLimit)

	memory, err := cache.NewMemory(cache.DefaultShards, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("[search-service] Cache: %v", err)
	}
	var resultCache cache.Cache = memory
	if rdb != nil {
		resultCache = cache.NewTiered(memory, cache.NewRedis(rdb, cfg.CacheTTL))
	}

	var deliverers notify.Multi
	if cfg.SMTP.Host != "" {
		deliverers = append(deliverers, notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}))
	}
	if rdb != nil {
		deliverers = append(deliverers, notify.NewPublisher(rdb))
	}
	var notifier notify.Deliverer
	if len(deliverers) > 0 {
		notifier = deliverers
	}

	svc := search.NewService(controller, resultCache, notifier)

	// ── Scheduler ───────────────────────────────────────────────────────────
	var ingester scheduler.Ingester
	if len(providers) > 0 {
		ingester = scraper.NewWorker(providers, st, cfg.Retry, 0)
	}
	sched := scheduler.New(ingester, cfg.Targets, memory, cfg.ScrapeIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[search-service] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)

	h := api.NewHandler(svc, st, checker)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.WithRequestID(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("[search-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[search-service] Shutting down…")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[search-service] Shutdown error: %v", err)
	}
	log.Println("[search-service] Stopped.")
}

func providerSettings(in []config.Provider) []provider.Settings {
	out := make([]provider.Settings, 0, len(in))
	for _, p := range in {
		out = append(out, provider.Settings{
			ID:          provider.ID(p.ID),
			Enabled:     p.Enabled,
			BaseURL:     p.BaseURL,
			AppID:       p.AppID,
			APIKey:      p.APIKey,
			PublisherID: p.PublisherID,
			PartnerID:   p.PartnerID,
		})
	}
	return out
}
