package match

import (
	"fmt"
	"math"
	"time"

	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Score computes the weighted duplicate likelihood for a record pair.
// Pure function: same inputs always yield the same result, and
// Score(a, b) == Score(b, a).
func Score(a, b *model.FinancialRecord, cfg Config) model.MatchResult {
	var (
		score   float64
		reasons []string
	)

	// Date factor: linear falloff from exact match to the tolerance edge.
	dateDiff := daysBetween(a.Date, b.Date)
	switch {
	case dateDiff == 0:
		score += dateWeight
		reasons = append(reasons, "exact date match")
	case cfg.DateToleranceDays > 0 && dateDiff <= cfg.DateToleranceDays:
		// Denominator is tolerance+1 so a diff sitting exactly on the
		// tolerance still contributes a positive factor.
		score += dateWeight * (1 - dateDiff/(cfg.DateToleranceDays+1))
		reasons = append(reasons, fmt.Sprintf("dates within %.0f days", dateDiff))
	}

	// Amount factor: relative difference against the larger magnitude.
	amountDiff := math.Abs(a.Amount - b.Amount)
	maxAmount := math.Max(math.Abs(a.Amount), math.Abs(b.Amount))
	var amountRatio float64
	if maxAmount > 0 {
		amountRatio = amountDiff / maxAmount
	}
	switch {
	case amountRatio == 0:
		score += amountWeight
		reasons = append(reasons, "exact amount match")
	case cfg.AmountTolerance > 0 && amountRatio <= cfg.AmountTolerance:
		score += amountWeight * (1 - amountRatio/cfg.AmountTolerance)
		reasons = append(reasons, fmt.Sprintf("amounts within %.1f%%", amountRatio*100))
	}

	// Merchant factor: hard cutoff at the similarity threshold, no falloff.
	// The raw similarity is recorded in metadata either way.
	similarity := merchant.Similarity(merchant.Normalize(a.Text()), merchant.Normalize(b.Text()))
	if similarity >= similarityThreshold(a, b, cfg) {
		score += merchantWeight * similarity
		reasons = append(reasons, fmt.Sprintf("merchant match %.0f%%", similarity*100))
	}

	confidence := score / totalWeight
	if confidence > 1 {
		confidence = 1
	}

	return model.MatchResult{
		IsDuplicate: confidence >= cfg.ConfidenceThreshold,
		Confidence:  confidence,
		Reasons:     reasons,
		Metadata: model.MatchMetadata{
			DateDiffDays:       dateDiff,
			AmountDiff:         amountDiff,
			AmountDiffPercent:  amountRatio * 100,
			MerchantSimilarity: similarity,
		},
	}
}

// similarityThreshold picks the merchant threshold when both records carry
// a cleaned merchant name, and the looser description threshold otherwise.
func similarityThreshold(a, b *model.FinancialRecord, cfg Config) float64 {
	if a.Merchant != "" && b.Merchant != "" {
		return cfg.MerchantSimilarity
	}
	return cfg.DescriptionSimilarity
}

func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}
