package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, overlays ARCHIVECRAWLER_-prefixed
// environment variables (loading a .env file first, if present), and
// validates the result. It is the single entry point cmd/archivecrawler uses
// to turn a --config flag into a ready-to-run Config.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := WithDefault()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, newError(ErrCauseFileMissing, "%s: %v", path, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, newError(ErrCauseReadFailed, "%s: %v", path, err)
		}

		dto := configDTO{}
		if err := yaml.Unmarshal(content, &dto); err != nil {
			return Config{}, newError(ErrCauseParseFailed, "%s: %v", path, err)
		}

		cfg = newConfigFromDTO(dto)
	}

	if err := applyEnvOverlay(cfg); err != nil {
		return Config{}, err
	}

	return cfg.Build()
}
