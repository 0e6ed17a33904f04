// Package receipt associates receipt-bearing records with other members
// of a duplicate group.
package receipt

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Association confidences.
const (
	exactConfidence   = 1.0
	partialConfidence = 0.8
)

// amountEpsilon is the exact-match cutoff: below one cent of difference.
var amountEpsilon = decimal.New(1, -2)

// Matcher links receipts to group members at exact or partial confidence.
// Read-only over its inputs.
type Matcher struct {
	cfg match.Config
}

// NewMatcher creates a receipt matcher with the given configuration.
func NewMatcher(cfg match.Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// MatchGroup associates each receipt-bearing item of a group with the best
// remaining member. The aggregate confidence is the mean over all retained
// associations, 0 when there are none.
func (m *Matcher) MatchGroup(g *model.DuplicateGroup) model.ReceiptMatchResult {
	var result model.ReceiptMatchResult

	for i := range g.Items {
		rcpt := &g.Items[i]
		if !rcpt.HasReceipt && rcpt.ReceiptID == "" {
			continue
		}

		record, confidence := m.bestMatch(g, i)
		if record == nil || confidence < m.cfg.Receipts.MinConfidence {
			continue
		}

		result.Matches = append(result.Matches, model.ReceiptMatch{
			Receipt:    rcpt,
			Record:     record,
			Confidence: confidence,
		})
	}

	if len(result.Matches) > 0 {
		var sum float64
		for _, assoc := range result.Matches {
			sum += assoc.Confidence
		}
		result.Confidence = sum / float64(len(result.Matches))
	}
	return result
}

// bestMatch scans the remaining group members for an exact association,
// falling back to a partial one when allowed.
func (m *Matcher) bestMatch(g *model.DuplicateGroup, receiptIdx int) (*model.FinancialRecord, float64) {
	rcpt := &g.Items[receiptIdx]

	var partial *model.FinancialRecord
	for j := range g.Items {
		if j == receiptIdx {
			continue
		}
		candidate := &g.Items[j]

		dateDiff := math.Abs(rcpt.Date.Sub(candidate.Date).Hours() / 24)
		if dateDiff > m.cfg.Receipts.MaxDateDifferenceDays {
			continue
		}

		if m.exactAmount(rcpt, candidate) {
			return candidate, exactConfidence
		}

		if partial == nil && m.cfg.Receipts.AllowPartialMatch && m.partialAmount(rcpt, candidate) {
			partial = candidate
		}
	}

	if partial != nil {
		return partial, partialConfidence
	}
	return nil, 0
}

// exactAmount reports whether two amounts differ by less than one cent.
func (m *Matcher) exactAmount(rcpt, candidate *model.FinancialRecord) bool {
	diff := decimal.NewFromFloat(math.Abs(rcpt.Amount)).
		Sub(decimal.NewFromFloat(math.Abs(candidate.Amount))).
		Abs()
	return diff.LessThan(amountEpsilon)
}

// partialAmount accepts a candidate whose amount is part of the receipt
// total: strictly smaller, within the amount tolerance of the receipt, and
// from a sufficiently similar merchant.
func (m *Matcher) partialAmount(rcpt, candidate *model.FinancialRecord) bool {
	receiptAmount := math.Abs(rcpt.Amount)
	candidateAmount := math.Abs(candidate.Amount)
	if receiptAmount <= candidateAmount {
		return false
	}
	if receiptAmount-candidateAmount > m.cfg.AmountTolerance*receiptAmount {
		return false
	}

	similarity := merchant.Similarity(
		merchant.Normalize(rcpt.Text()),
		merchant.Normalize(candidate.Text()))
	return similarity >= m.cfg.MerchantSimilarity
}
