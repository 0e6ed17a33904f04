// Package pattern detects structural relationships between matched records:
// recurring charges, split payments, and tax/tip pairs.
package pattern

import (
	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Index maps normalized merchant keys to all known records for that
// merchant. Built once per engine instance from a caller-supplied snapshot
// and read-only for the run's duration.
type Index struct {
	byMerchant map[string][]model.FinancialRecord
}

// NewIndex builds a merchant-history index from a record snapshot.
func NewIndex(records []model.FinancialRecord) *Index {
	idx := &Index{byMerchant: make(map[string][]model.FinancialRecord)}
	for _, r := range records {
		key := merchant.Normalize(r.Text())
		if key == "" {
			continue
		}
		idx.byMerchant[key] = append(idx.byMerchant[key], r)
	}
	return idx
}

// Records returns the history for a normalized merchant key. The returned
// slice is shared and must not be mutated.
func (idx *Index) Records(key string) []model.FinancialRecord {
	return idx.byMerchant[key]
}

// Len returns the number of distinct merchants in the index.
func (idx *Index) Len() int {
	return len(idx.byMerchant)
}
