// Package config loads cardsync settings from the environment and builds
// the components they configure.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/spachava753/cardsync/assets"
	"github.com/spachava753/cardsync/contactops"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds every cardsync setting.
type Config struct {
	// Account the converted contacts are created in.
	AccountName string `env:"CARDSYNC_ACCOUNT_NAME"`
	AccountType string `env:"CARDSYNC_ACCOUNT_TYPE" env-default:"com.github.spachava753.cardsync" validate:"required"`

	// Path of the SQLite contact store; ":memory:" for a throwaway store.
	StorePath string `env:"CARDSYNC_STORE_PATH" env-default:"cardsync.db" validate:"required"`

	PhotoFetchTimeout     time.Duration `env:"CARDSYNC_PHOTO_FETCH_TIMEOUT" env-default:"30s" validate:"gt=0"`
	PhotoFetchConcurrency int           `env:"CARDSYNC_PHOTO_FETCH_CONCURRENCY" env-default:"4" validate:"min=1,max=64"`
	PhotoMaxBytes         int64         `env:"CARDSYNC_PHOTO_MAX_BYTES" env-default:"10485760" validate:"min=1"`

	LogLevel   string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`
}

// Load reads the optional .env files at paths, then the environment.
// Missing files are skipped; variables already set win over file values.
func Load(paths ...string) (Config, error) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// Account returns the account contacts are inserted into.
func (c Config) Account() contactops.Account {
	return contactops.Account{Name: c.AccountName, Type: c.AccountType}
}

// FetcherConfig returns the photo fetcher settings.
func (c Config) FetcherConfig() assets.Config {
	cfg := assets.DefaultConfig()
	cfg.Timeout = c.PhotoFetchTimeout
	cfg.MaxBytes = c.PhotoMaxBytes
	return cfg
}

// ConverterOptions returns the converter options for these settings, using
// fetcher for remote photos.
func (c Config) ConverterOptions(fetcher contactops.AssetFetcher) []contactops.Option {
	return []contactops.Option{
		contactops.WithAssetFetcher(fetcher),
		contactops.WithPhotoFetchLimit(c.PhotoFetchConcurrency),
		contactops.WithPhotoFetchTimeout(c.PhotoFetchTimeout),
	}
}
