package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/dataset"
	"review_insights/internal/adapters/groq"
	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/analysis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	"review_insights/internal/storage/memory"
	mysqlrepo "review_insights/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	strategy, err := analysis.ParseStrategy(cfg.AnalysisStrategy, analysis.StrategyLocal)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ANALYSIS_STRATEGY")
	}

	// deps
	repo := openStore(cfg)
	cache := openCache(ctx, cfg)
	gw := openGateway(cfg)

	local := analysis.NewKeywordAnalyzer(analysis.DefaultVocabulary())
	icfg := analysis.DefaultInsightConfig()
	icfg.AnomalyThreshold = cfg.AnomalyThreshold
	icfg.LowScoreThreshold = cfg.LowScoreThreshold
	engine := analysis.NewEngine(icfg, gw)

	reviews := app.NewReviewService(repo, local, gw, cfg.AnalysisFallback)
	if cfg.DatasetPath != "" {
		seed(ctx, cfg, repo, reviews)
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reviews:         reviews,
		Dashboard:       app.NewDashboardService(repo, cache, cfg.CacheTTL),
		Insights:        app.NewInsightService(repo, cache, cfg.CacheTTL, engine, cfg.AnalysisFallback),
		DefaultStrategy: strategy,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.ReviewStore).Str("strategy", string(strategy)).
		Bool("fallback", cfg.AnalysisFallback).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(cfg shared.Config) domain.ReviewRepository {
	if cfg.ReviewStore != "mysql" {
		log.Info().Msg("using in-memory review store")
		return memory.New()
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db)
}

// openCache returns nil when Redis is not configured or not reachable; the
// services then recompute on every request.
func openCache(ctx context.Context, cfg shared.Config) domain.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching disabled")
		_ = c.Close()
		return nil
	}
	return c
}

func openGateway(cfg shared.Config) domain.AnalysisGateway {
	if cfg.GroqKey == "" {
		return nil
	}
	c, err := groq.New(cfg.GroqBase, cfg.GroqKey, cfg.GroqRPS, groq.WithModel(cfg.GroqModel))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analysis gateway")
	}
	return c
}

// seed imports the configured spreadsheet with keyword analysis so the API
// starts quickly even when the gateway is slow.
func seed(ctx context.Context, cfg shared.Config, repo domain.ReviewRepository, reviews *app.ReviewService) {
	recs, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatasetPath).Msg("dataset load failed")
	}
	res, err := app.NewImportService(repo, reviews, cfg.ImportWorkers).Import(ctx, recs, analysis.StrategyLocal)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset seed failed")
	}
	log.Info().Int("imported", res.Imported).Str("path", cfg.DatasetPath).Msg("dataset seeded")
}
