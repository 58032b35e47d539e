package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/dataset"
	"review_insights/internal/adapters/groq"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/analysis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// importer loads an .xlsx review export into MySQL. The file comes from the
// first argument or DATASET_PATH.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	path := cfg.DatasetPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Fatal().Msg("no dataset given; pass a path or set DATASET_PATH")
	}
	strategy, err := analysis.ParseStrategy(cfg.AnalysisStrategy, analysis.StrategyLocal)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ANALYSIS_STRATEGY")
	}

	log.Info().
		Str("path", path).
		Str("strategy", string(strategy)).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")
	repo := mysqlrepo.New(db)

	var gw domain.AnalysisGateway
	if cfg.GroqKey != "" {
		c, err := groq.New(cfg.GroqBase, cfg.GroqKey, cfg.GroqRPS, groq.WithModel(cfg.GroqModel))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize analysis gateway")
		}
		gw = c
	} else if strategy == analysis.StrategyRemote {
		log.Warn().Msg("remote strategy without GROQ_API_KEY; rows will use keyword analysis")
	}

	recs, err := dataset.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	log.Info().Int("rows", len(recs)).Msg("dataset loaded")

	local := analysis.NewKeywordAnalyzer(analysis.DefaultVocabulary())
	reviews := app.NewReviewService(repo, local, gw, true)
	res, err := app.NewImportService(repo, reviews, cfg.ImportWorkers).Import(ctx, recs, strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().
		Int("imported", res.Imported).
		Int("analyzed", res.Analyzed).
		Int("fallbacks", res.Fallbacks).
		Msg("import completed")
}
