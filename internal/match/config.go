// Package match implements the pairwise record scorer and its configuration.
package match

import (
	"fmt"

	"github.com/ledgersift/ledgersift/internal/common"
)

// Factor weights are fixed. Each weight is always part of the denominator,
// so a failed factor caps confidence at 1 minus its weight.
const (
	dateWeight     = 0.3
	amountWeight   = 0.4
	merchantWeight = 0.3
	totalWeight    = dateWeight + amountWeight + merchantWeight
)

// Config holds all thresholds for one detection run. Read-only after
// construction; Validate must pass before the engine accepts it.
type Config struct {
	DateToleranceDays     float64          `mapstructure:"date_tolerance_days"`
	AmountTolerance       float64          `mapstructure:"amount_tolerance"`
	MerchantSimilarity    float64          `mapstructure:"merchant_similarity"`
	DescriptionSimilarity float64          `mapstructure:"description_similarity"`
	ConfidenceThreshold   float64          `mapstructure:"confidence_threshold"`
	Recurring             RecurringConfig  `mapstructure:"recurring"`
	Split                 SplitConfig      `mapstructure:"split"`
	Receipts              ReceiptConfig    `mapstructure:"receipts"`
	Validation            ValidationConfig `mapstructure:"validation"`
}

// RecurringConfig controls recurring-charge detection.
type RecurringConfig struct {
	IntervalDays   float64 `mapstructure:"interval_days"`
	ToleranceDays  float64 `mapstructure:"tolerance_days"`
	MinOccurrences int     `mapstructure:"min_occurrences"`
}

// SplitConfig controls split-payment detection.
type SplitConfig struct {
	MaxParts  int     `mapstructure:"max_parts"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// ReceiptConfig controls receipt-to-record association.
type ReceiptConfig struct {
	RequireExactMatch     bool    `mapstructure:"require_exact_match"`
	AllowPartialMatch     bool    `mapstructure:"allow_partial_match"`
	MinConfidence         float64 `mapstructure:"min_confidence"`
	MaxDateDifferenceDays float64 `mapstructure:"max_date_difference_days"`
}

// ValidationConfig toggles the post-hoc group sanity checks.
type ValidationConfig struct {
	RequireReceipts      bool `mapstructure:"require_receipts"`
	AllowMissingReceipts bool `mapstructure:"allow_missing_receipts"`
	ValidateAmounts      bool `mapstructure:"validate_amounts"`
	ValidateDates        bool `mapstructure:"validate_dates"`
}

// DefaultConfig returns the documented defaults for every threshold.
func DefaultConfig() Config {
	return Config{
		DateToleranceDays:     3,
		AmountTolerance:       0.05,
		MerchantSimilarity:    0.8,
		DescriptionSimilarity: 0.7,
		ConfidenceThreshold:   0.7,
		Recurring: RecurringConfig{
			IntervalDays:   30,
			ToleranceDays:  3,
			MinOccurrences: 3,
		},
		Split: SplitConfig{
			MaxParts:  5,
			Tolerance: 0.05,
		},
		Receipts: ReceiptConfig{
			AllowPartialMatch:     true,
			MinConfidence:         0.7,
			MaxDateDifferenceDays: 3,
		},
		Validation: ValidationConfig{
			AllowMissingReceipts: true,
			ValidateAmounts:      true,
			ValidateDates:        true,
		},
	}
}

// Validate rejects out-of-range thresholds. Called at engine construction
// so a bad config can never surface mid-run.
func (c Config) Validate() error {
	if c.DateToleranceDays < 0 {
		return fmt.Errorf("%w: date_tolerance_days must be >= 0, got %v", common.ErrInvalidConfig, c.DateToleranceDays)
	}
	if c.AmountTolerance < 0 || c.AmountTolerance > 1 {
		return fmt.Errorf("%w: amount_tolerance must be in [0,1], got %v", common.ErrInvalidConfig, c.AmountTolerance)
	}
	fractions := []struct {
		name  string
		value float64
	}{
		{"merchant_similarity", c.MerchantSimilarity},
		{"description_similarity", c.DescriptionSimilarity},
		{"confidence_threshold", c.ConfidenceThreshold},
		{"receipts.min_confidence", c.Receipts.MinConfidence},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", common.ErrInvalidConfig, f.name, f.value)
		}
	}
	if c.Recurring.IntervalDays <= 0 {
		return fmt.Errorf("%w: recurring.interval_days must be > 0, got %v", common.ErrInvalidConfig, c.Recurring.IntervalDays)
	}
	if c.Recurring.ToleranceDays < 0 {
		return fmt.Errorf("%w: recurring.tolerance_days must be >= 0, got %v", common.ErrInvalidConfig, c.Recurring.ToleranceDays)
	}
	if c.Recurring.MinOccurrences < 2 {
		return fmt.Errorf("%w: recurring.min_occurrences must be >= 2, got %d", common.ErrInvalidConfig, c.Recurring.MinOccurrences)
	}
	if c.Split.MaxParts < 2 {
		return fmt.Errorf("%w: split.max_parts must be >= 2, got %d", common.ErrInvalidConfig, c.Split.MaxParts)
	}
	if c.Split.Tolerance < 0 {
		return fmt.Errorf("%w: split.tolerance must be >= 0, got %v", common.ErrInvalidConfig, c.Split.Tolerance)
	}
	if c.Receipts.MaxDateDifferenceDays < 0 {
		return fmt.Errorf("%w: receipts.max_date_difference_days must be >= 0, got %v", common.ErrInvalidConfig, c.Receipts.MaxDateDifferenceDays)
	}
	return nil
}
