package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	ReviewStore string // memory|mysql
	MySQLDSN    string
	RedisAddr   string // empty disables the cache
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	GroqBase  string
	GroqKey   string
	GroqModel string
	GroqRPS   int

	AnalysisStrategy  string
	AnalysisFallback  bool
	AnomalyThreshold  float64
	LowScoreThreshold float64

	DatasetPath   string
	ImportWorkers int
	CORSOrigins   []string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	abool := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a boolean, using default")
		}
		return def
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		ReviewStore: strings.ToLower(env("REVIEW_STORE", "memory")),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		GroqBase:  env("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqKey:   env("GROQ_API_KEY", ""),
		GroqModel: env("GROQ_MODEL", "llama3-70b-8192"),
		GroqRPS:   atoi("GROQ_RPS", 2),

		AnalysisStrategy:  env("ANALYSIS_STRATEGY", "local"),
		AnalysisFallback:  abool("ANALYSIS_FALLBACK", true),
		AnomalyThreshold:  atof("ANOMALY_THRESHOLD", 0.30),
		LowScoreThreshold: atof("LOW_SCORE_THRESHOLD", 0.75),

		DatasetPath:   env("DATASET_PATH", ""),
		ImportWorkers: atoi("IMPORT_WORKERS", 4),
		CORSOrigins:   list(env("CORS_ORIGINS", "")),
	}
	if c.GroqKey == "" {
		log.Warn().Msg("GROQ_API_KEY is empty; remote analysis disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
