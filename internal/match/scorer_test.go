package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/model"
)

func record(date string, amount float64, merchantName string) model.FinancialRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.FinancialRecord{
		Date:     d,
		Amount:   amount,
		Merchant: merchantName,
	}
}

func TestScoreExactDuplicate(t *testing.T) {
	cfg := DefaultConfig()
	a := record("2024-01-01", 50.00, "Whole Foods Market")
	b := record("2024-01-01", 50.00, "WHOLE FOODS MKT #123")

	result := Score(&a, &b, cfg)

	assert.True(t, result.IsDuplicate)
	assert.GreaterOrEqual(t, result.Confidence, 0.9)
	assert.Contains(t, result.Reasons, "exact date match")
	assert.Contains(t, result.Reasons, "exact amount match")
}

func TestScoreSymmetry(t *testing.T) {
	cfg := DefaultConfig()
	pairs := [][2]model.FinancialRecord{
		{record("2024-01-01", 50.00, "Whole Foods Market"), record("2024-01-03", 51.00, "Whole Foods")},
		{record("2024-02-10", -19.99, "Netflix"), record("2024-03-11", -19.99, "Netflix")},
		{record("2024-05-05", 12.00, "Cafe Luna"), record("2024-05-05", 120.00, "Hardware Depot")},
	}

	for _, pair := range pairs {
		ab := Score(&pair[0], &pair[1], cfg)
		ba := Score(&pair[1], &pair[0], cfg)
		assert.Equal(t, ab.Confidence, ba.Confidence)
		assert.Equal(t, ab.IsDuplicate, ba.IsDuplicate)
		assert.Equal(t, ab.Reasons, ba.Reasons)
	}
}

func TestScoreDateToleranceBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DateToleranceDays = 3

	base := record("2024-01-01", 50.00, "Whole Foods")
	atBoundary := record("2024-01-04", 50.00, "Whole Foods")
	pastBoundary := record("2024-01-05", 50.00, "Whole Foods")

	// Amount and merchant agree fully, so anything above 0.7 is the date
	// factor's doing.
	boundaryResult := Score(&base, &atBoundary, cfg)
	assert.Greater(t, boundaryResult.Confidence, 0.7,
		"date diff equal to tolerance must contribute a positive factor")
	assert.Less(t, boundaryResult.Confidence, 1.0,
		"boundary date factor must not be maximal")

	pastResult := Score(&base, &pastBoundary, cfg)
	assert.InDelta(t, 0.7, pastResult.Confidence, 1e-9,
		"date diff past tolerance must contribute exactly zero")
}

func TestScoreDistantDateStrongAgreement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DateToleranceDays = 3

	a := record("2024-01-01", 50.00, "Whole Foods")
	b := record("2024-01-11", 50.00, "Whole Foods")

	result := Score(&a, &b, cfg)

	// Ten days apart: date factor is zero, but amount and merchant alone
	// reach the 0.7 threshold under the default weights.
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.True(t, result.IsDuplicate)
	assert.InDelta(t, 10, result.Metadata.DateDiffDays, 1e-9)
}

func TestScoreMerchantHardCutoff(t *testing.T) {
	cfg := DefaultConfig()
	a := record("2024-01-01", 50.00, "Whole Foods")
	b := record("2024-01-01", 50.00, "Whole Paycheck")

	result := Score(&a, &b, cfg)

	// Similarity below the threshold contributes nothing but is still
	// recorded in metadata.
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Greater(t, result.Metadata.MerchantSimilarity, 0.0)
	assert.Less(t, result.Metadata.MerchantSimilarity, cfg.MerchantSimilarity)
}

func TestScoreAmountTolerance(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		amountA     float64
		amountB     float64
		wantPartial bool
	}{
		{"exact amounts", 100.00, 100.00, false},
		{"within tolerance", 100.00, 102.00, true},
		{"past tolerance", 100.00, 110.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := record("2024-01-01", tt.amountA, "Whole Foods")
			b := record("2024-01-01", tt.amountB, "Whole Foods")
			result := Score(&a, &b, cfg)

			require.GreaterOrEqual(t, result.Confidence, 0.0)
			require.LessOrEqual(t, result.Confidence, 1.0)

			if tt.wantPartial {
				assert.Contains(t, result.Reasons, "amounts within 2.0%")
			}
		})
	}
}

func TestScoreDescriptionFallback(t *testing.T) {
	cfg := DefaultConfig()
	a := model.FinancialRecord{
		Date:        record("2024-01-01", 0, "").Date,
		Amount:      25.00,
		Description: "coffee with sarah",
	}
	b := model.FinancialRecord{
		Date:        a.Date,
		Amount:      25.00,
		Description: "coffee with sarah",
	}

	result := Score(&a, &b, cfg)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestScoreBoundedConfidence(t *testing.T) {
	cfg := DefaultConfig()
	records := []model.FinancialRecord{
		record("2024-01-01", 50.00, "Whole Foods"),
		record("2024-01-02", -50.00, "Whole Foods"),
		record("2024-03-15", 0, "Unknown"),
		record("2023-12-31", 1_000_000, "Mega Corp Holdings"),
	}

	for i := range records {
		for j := range records {
			result := Score(&records[i], &records[j], cfg)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		}
	}
}
