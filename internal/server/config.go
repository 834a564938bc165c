package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/newsify/newsify/pkg/config/env"
	"github.com/newsify/newsify/pkg/utils"
)

const defaultRefreshCooldown = 5 * time.Minute

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string

	DatabaseURL string
	RedisAddr   string

	NewsAPIKey  string
	NewsDataKey string
	GuardianKey string
	NYTimesKey  string
	GNewsKey    string

	// SourcesFile optionally overrides the built-in credibility and
	// category tables with a YAML file.
	SourcesFile string

	// RefreshCooldown throttles how often any caller may trigger an
	// ingestion run.
	RefreshCooldown time.Duration
	// PublicRefreshBudget is articles-per-category for caller-triggered
	// refreshes; AdminRefreshBudget applies to the admin endpoint.
	PublicRefreshBudget int
	AdminRefreshBudget  int

	// AdminToken guards the admin refresh endpoint. Empty disables it.
	AdminToken string
}

func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/newsify_api/.env"); err != nil {
		return nil, err
	}

	useHttp2Str := os.Getenv("USE_HTTP2")
	useHttp2 := useHttp2Str == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	corsOriginsEnv := os.Getenv("CORS_ORIGINS")
	if corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cooldown := defaultRefreshCooldown
	if v := os.Getenv("REFRESH_COOLDOWN"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_COOLDOWN: %w", err)
		}
		cooldown = parsed
	}

	publicBudget, err := intEnv("PUBLIC_REFRESH_BUDGET", 5)
	if err != nil {
		return nil, err
	}
	adminBudget, err := intEnv("ADMIN_REFRESH_BUDGET", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        port,
		UseHttp2:    useHttp2,
		CorsOrigins: origins,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		NewsAPIKey:  os.Getenv("NEWSAPI_KEY"),
		NewsDataKey: os.Getenv("NEWSDATA_KEY"),
		GuardianKey: os.Getenv("GUARDIAN_KEY"),
		NYTimesKey:  os.Getenv("NYTIMES_KEY"),
		GNewsKey:    os.Getenv("GNEWS_KEY"),

		SourcesFile: os.Getenv("SOURCES_FILE"),

		RefreshCooldown:     cooldown,
		PublicRefreshBudget: publicBudget,
		AdminRefreshBudget:  adminBudget,

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}, nil
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
