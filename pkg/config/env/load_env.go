package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from one or more .env files.
// ENV_PATH overrides the whole list. A missing file is only fatal in
// local mode, where the .env is the sole source of configuration;
// deployed environments inject real env vars instead.
func LoadDotEnv(env string, paths ...string) error {
	if override := os.Getenv("ENV_PATH"); override != "" {
		paths = []string{override}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if env == "local" {
				slog.Error("Failed to load environment variables in local mode", "path", p, "error", err)
				return err
			}
			slog.Debug("Skipping .env ...", "path", p)
		}
	}

	return nil
}
