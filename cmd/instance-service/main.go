// cmd/instance-service/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aamadmin/internal/instances"
	"aamadmin/pkg/cidr"
	"aamadmin/pkg/config"
	"aamadmin/pkg/db"
	"aamadmin/pkg/logger"
	"aamadmin/pkg/middleware"
	"aamadmin/pkg/openapi"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var store instances.Store
	if pool != nil {
		if err := instances.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		store = instances.NewPostgresStore(pool, log)
	} else {
		store = instances.NewMemoryStore()
	}

	svc := instances.NewService(log, store)
	handler, err := instances.NewHandler(log, svc, cfg.WebhookNameExpr)
	if err != nil {
		log.Fatalw("webhook name expression", "expr", cfg.WebhookNameExpr, "err", err)
	}

	allowed, err := cidr.ParseList(cfg.WebhookCIDRs)
	if err != nil {
		log.Fatalw("webhook allowlist", "err", err)
	}
	if cfg.WebhookToken == "" {
		log.Warnw("BREVO_WEBHOOK_TOKEN not set, webhook endpoint will reject all calls")
	}
	if cfg.Repository == "" {
		log.Warnw("GITHUB_REPOSITORY not set, bearer endpoints will reject all calls")
	}

	bearer := middleware.BearerAuth(cfg, log)
	webhook := middleware.WebhookAuth(cfg.WebhookToken, allowed, log)
	throttle := middleware.Throttle(cfg.CheckRateLimit, cfg.CheckRateWindow, rdb, log)

	doc := openapi.New("Aam Digital Admin API", "1.0.0")
	instances.RegisterOpenAPI(doc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing("instance-service", log))
	r.Use(middleware.Metrics())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/docs/openapi.json", doc.ServeJSON)
	r.Get("/api/docs/openapi.yaml", doc.ServeYAML)
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/instances", handler.Routes(bearer, webhook, throttle))
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("instance-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Infow("instance-service stopped")
}
