package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/markwize/quotewizard-backend/api/routes"
	"github.com/markwize/quotewizard-backend/internal/assessment"
	"github.com/markwize/quotewizard-backend/internal/catalog"
	"github.com/markwize/quotewizard-backend/internal/company"
	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/internal/quote"
	"github.com/markwize/quotewizard-backend/internal/referral"
	"github.com/markwize/quotewizard-backend/internal/search"
	"github.com/markwize/quotewizard-backend/internal/wizard"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/db"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/metrics"
	"github.com/markwize/quotewizard-backend/pkg/migrate"
	"github.com/markwize/quotewizard-backend/pkg/pubsub"
	"github.com/markwize/quotewizard-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine := metrics.NewEngineMetrics(registry)

	catalogRepo, err := catalog.NewRepo(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create catalog repository", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}
	if err := catalogSvc.Load(ctx); err != nil {
		logg.Error(ctx, "failed to load catalog tree", err)
		os.Exit(1)
	}

	pricingRepo, err := pricing.NewRepo(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create pricing repository", err)
		os.Exit(1)
	}
	bookLoader, err := pricing.NewLoader(pricingRepo)
	if err != nil {
		logg.Error(ctx, "failed to create price book loader", err)
		os.Exit(1)
	}
	if err := bookLoader.Load(ctx); err != nil {
		logg.Error(ctx, "failed to load price book", err)
		os.Exit(1)
	}

	searchIndex, err := search.NewHTTPIndex(cfg.Search)
	if err != nil {
		logg.Error(ctx, "failed to create search index client", err)
		os.Exit(1)
	}
	coordinator, err := search.NewCoordinator(searchIndex, cfg.Search, engine, logg)
	if err != nil {
		logg.Error(ctx, "failed to create search coordinator", err)
		os.Exit(1)
	}

	registryClient, err := company.NewHTTPRegistry(cfg.Registry)
	if err != nil {
		logg.Error(ctx, "failed to create company registry client", err)
		os.Exit(1)
	}
	companySvc, err := company.NewService(registryClient, cfg.Registry)
	if err != nil {
		logg.Error(ctx, "failed to create company service", err)
		os.Exit(1)
	}

	referralStore, err := referral.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create referral store", err)
		os.Exit(1)
	}
	attributor, err := referral.NewAttributor(referralStore)
	if err != nil {
		logg.Error(ctx, "failed to create referral attributor", err)
		os.Exit(1)
	}

	assessor, err := assessment.NewHTTPAssessor(cfg.Assessment)
	if err != nil {
		logg.Error(ctx, "failed to create assessment client", err)
		os.Exit(1)
	}
	assessSvc, err := assessment.NewService(assessor, cfg.Assessment, engine, logg)
	if err != nil {
		logg.Error(ctx, "failed to create assessment service", err)
		os.Exit(1)
	}

	sessionStore, err := wizard.NewRedisStore(redisClient, cfg.Session.TTL)
	if err != nil {
		logg.Error(ctx, "failed to create session store", err)
		os.Exit(1)
	}
	wizardSvc, err := wizard.NewService(sessionStore, catalogSvc, bookLoader, attributor, assessSvc, engine, logg)
	if err != nil {
		logg.Error(ctx, "failed to create wizard service", err)
		os.Exit(1)
	}

	quoteRepo, err := quote.NewRepo(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create quote repository", err)
		os.Exit(1)
	}
	tokenIssuer, err := quote.NewTokenIssuer(cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create token issuer", err)
		os.Exit(1)
	}

	var events quote.EventPublisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(ctx, "error closing pubsub", err)
			}
		}()
		events, err = quote.NewPubSubPublisher(pubsubClient.AttributionPublisher())
		if err != nil {
			logg.Error(ctx, "failed to create event publisher", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "pubsub not configured, attribution events disabled")
	}

	quoteSvc, err := quote.NewService(
		sessionStore, bookLoader, attributor, redisClient,
		dbClient, quoteRepo, tokenIssuer, events,
		engine, logg, cfg.Quote, cfg.Session,
	)
	if err != nil {
		logg.Error(ctx, "failed to create quote service", err)
		os.Exit(1)
	}

	var docs quote.DocumentClient
	if cfg.Docs.BaseURL != "" {
		docsClient, err := quote.NewHTTPDocs(cfg.Docs)
		if err != nil {
			logg.Error(ctx, "failed to create docs client", err)
			os.Exit(1)
		}
		docs = docsClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			RedisPinger: redisClient,
			Registry:    registry,
			Catalog:     catalogSvc,
			Search:      coordinator,
			Companies:   companySvc,
			Wizard:      wizardSvc,
			Quotes:      quoteSvc,
			Docs:        docs,
			TokenIssuer: tokenIssuer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
