package pattern

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Pattern tag prefixes.
const (
	TagRecurring = "recurring_payment"
	TagSplit     = "split_payment"
	TagTax       = "tax_pair"
	TagTip       = "tip_pair"
)

// Common rates expressed as percentages.
var (
	taxRates = []float64{5, 6, 7, 7.25, 8, 8.25, 9, 10}
	tipRates = []float64{10, 15, 18, 20, 22, 25}
)

// Split candidates are gathered from history within this many days.
const splitWindowDays = 7

// Cent-level epsilon for tax/tip back-calculation.
const rateEpsilon = 0.01

// Detector derives structural relationship tags for matched record pairs,
// consulting the merchant-history index built at engine construction.
type Detector struct {
	index *Index
}

// NewDetector creates a detector over the given history index.
func NewDetector(index *Index) *Detector {
	if index == nil {
		index = NewIndex(nil)
	}
	return &Detector{index: index}
}

// Detect returns deduplicated pattern tags for a matching pair, in stable
// order: recurring, split, tax, tip. Pure with respect to its inputs; the
// index is read-only.
func (d *Detector) Detect(a, b *model.FinancialRecord, cfg match.Config) []string {
	var tags []string

	history := d.index.Records(merchant.Normalize(a.Text()))

	if a.Amount == b.Amount {
		tags = append(tags, d.detectRecurring(a, history, cfg)...)
	}
	tags = append(tags, d.detectSplit(a, history, cfg)...)
	tags = append(tags, detectRatePair(a, b, taxRates, TagTax, "tax_rate_")...)
	tags = append(tags, detectRatePair(a, b, tipRates, TagTip, "tip_rate_")...)

	return dedupe(tags)
}

// detectRecurring looks for same-amount history records spaced at the
// configured interval.
func (d *Detector) detectRecurring(a *model.FinancialRecord, history []model.FinancialRecord, cfg match.Config) []string {
	if a.Amount == 0 {
		return nil
	}

	var sameAmount []model.FinancialRecord
	for _, h := range history {
		diff := math.Abs(h.Amount - a.Amount)
		if diff <= cfg.AmountTolerance*math.Abs(a.Amount) {
			sameAmount = append(sameAmount, h)
		}
	}
	if len(sameAmount) < cfg.Recurring.MinOccurrences {
		return nil
	}

	interval := cfg.Recurring.IntervalDays
	tolerance := cfg.Recurring.ToleranceDays
	for _, h := range sameAmount {
		offset := math.Abs(a.Date.Sub(h.Date).Hours() / 24)
		remainder := math.Mod(offset, interval)
		if remainder <= tolerance || interval-remainder <= tolerance {
			return []string{
				TagRecurring,
				"recurring_" + strconv.FormatFloat(interval, 'f', -1, 64) + "_days",
			}
		}
	}
	return nil
}

// detectSplit looks for a cluster of nearby charges whose absolute amounts
// sum to a round figure, suggesting one purchase split across records.
func (d *Detector) detectSplit(a *model.FinancialRecord, history []model.FinancialRecord, cfg match.Config) []string {
	var parts []model.FinancialRecord
	for _, h := range history {
		if math.Abs(a.Date.Sub(h.Date).Hours()/24) <= splitWindowDays {
			parts = append(parts, h)
		}
	}
	if len(parts) < 2 || len(parts) > cfg.Split.MaxParts {
		return nil
	}

	// Decimal arithmetic here: float summation drift would defeat the
	// rounds-to-an-integer test.
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(decimal.NewFromFloat(p.Amount).Abs())
	}
	distance := sum.Sub(sum.Round(0)).Abs()
	if distance.InexactFloat64() > cfg.Split.Tolerance {
		return nil
	}

	return []string{
		TagSplit,
		"split_" + strconv.Itoa(len(parts)) + "_parts",
	}
}

// detectRatePair tests whether the smaller amount is the larger one with a
// common percentage removed, e.g. 108.25 = 100 plus 8.25% tax.
func detectRatePair(a, b *model.FinancialRecord, rates []float64, tag, ratePrefix string) []string {
	hi := math.Max(math.Abs(a.Amount), math.Abs(b.Amount))
	lo := math.Min(math.Abs(a.Amount), math.Abs(b.Amount))
	if lo == 0 || hi == lo {
		return nil
	}

	for _, rate := range rates {
		base := hi / (1 + rate/100)
		if math.Abs(base-lo) < rateEpsilon {
			return []string{
				tag,
				ratePrefix + strconv.FormatFloat(rate, 'f', -1, 64),
			}
		}
	}
	return nil
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
