package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/engine"
	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/pattern"
	"github.com/ledgersift/ledgersift/internal/storage"
)

// matchConfig builds the run configuration from defaults overlaid with the
// "matching" section of the config file.
func matchConfig() (match.Config, error) {
	cfg := match.DefaultConfig()
	if err := viper.UnmarshalKey("matching", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse matching config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadRecordsFile reads a normalized record snapshot from a JSON file.
func loadRecordsFile(path string) ([]model.FinancialRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []model.FinancialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}
	return records, nil
}

// buildEngine constructs the detection engine. With a database path the
// merchant history comes from the store; otherwise the input snapshot
// doubles as history.
func buildEngine(ctx context.Context, cfg match.Config, dbPath string, records []model.FinancialRecord, opts ...engine.Option) (*engine.Engine, error) {
	if dbPath != "" {
		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, err
		}
		return engine.NewFromLoader(ctx, cfg, store, opts...)
	}
	return engine.New(cfg, pattern.NewIndex(records), opts...)
}
