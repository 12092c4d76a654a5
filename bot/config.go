package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultPrefix    = "!"
	DefaultStorePath = "storage/user_data.json"
)

// Config keeps bot configuration, read from a JSON file.
type Config struct {
	TgToken    string `json:"tgToken"`
	Prefix     string `json:"prefix"`
	StorePath  string `json:"storePath"`
	DBConnStr  string `json:"dbConnStr"`
	NewsAPIKey string `json:"newsApiKey"`
}

// ReadConfig reads configuration from the given file and fills in defaults
// for optional fields.
func ReadConfig(cfgFile string) (*Config, error) {
	raw, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.New("Couldn't unmarshal bot configuration")
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStorePath
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig makes sure that all required fields are present.
func validateConfig(cfg *Config) error {
	missingFields := []string{}
	if cfg.TgToken == "" {
		missingFields = append(missingFields, "tgToken")
	}

	if len(missingFields) > 0 {
		return errors.New(fmt.Sprintf("configuration is missing field(s): %s", strings.Join(missingFields, ", ")))
	}

	return nil
}
