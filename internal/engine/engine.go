// Package engine implements the duplicate detection engine that clusters
// financial records into ranked groups.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/pattern"
	"github.com/ledgersift/ledgersift/internal/service"
)

// Engine clusters records into duplicate groups for one frozen snapshot.
// Safe for repeated runs; all state set at construction is read-only.
type Engine struct {
	cfg      match.Config
	detector *pattern.Detector
	progress func(done, total int)
}

// Option configures optional engine behavior.
type Option func(*Engine)

// WithProgress registers a callback invoked after each anchor scan.
func WithProgress(fn func(done, total int)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an engine from a validated config and a pre-built history
// index. Config errors fail here, never mid-run.
func New(cfg match.Config, index *pattern.Index, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		detector: pattern.NewDetector(index),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewFromLoader creates an engine whose history index is loaded from the
// given collaborator. A load failure degrades to an empty history rather
// than propagating: pattern tags are lost, detection still runs.
func NewFromLoader(ctx context.Context, cfg match.Config, loader service.HistoryLoader, opts ...Option) (*Engine, error) {
	if loader == nil {
		return nil, fmt.Errorf("%w: history loader is required", common.ErrMissingConfig)
	}

	history, err := loader.ListRecords(ctx)
	if err != nil {
		common.LogError(fmt.Errorf("%w: %v", common.ErrHistoryLoad, err),
			"history load failed, continuing with empty history", nil)
		history = nil
	}

	return New(cfg, pattern.NewIndex(history), opts...)
}

// FindDuplicates clusters records into duplicate groups, ordered by
// descending confidence. Deterministic for a fixed input order. Malformed
// records are skipped with a diagnostic; the run never fails because of
// them.
func (e *Engine) FindDuplicates(records []model.FinancialRecord) []model.DuplicateGroup {
	valid := make([]model.FinancialRecord, 0, len(records))
	for i := range records {
		if !records[i].Valid() {
			common.LogWarn("skipping malformed record", common.Fields{
				"id":    records[i].ID,
				"index": i,
			})
			continue
		}
		valid = append(valid, records[i])
	}

	processed := make([]bool, len(valid))
	var groups []model.DuplicateGroup

	for i := range valid {
		if e.progress != nil {
			e.progress(i+1, len(valid))
		}
		if processed[i] {
			continue
		}

		g := newGroup(&valid[i])
		for j := i + 1; j < len(valid); j++ {
			if processed[j] {
				continue
			}

			result := match.Score(&valid[i], &valid[j], e.cfg)
			if !result.IsDuplicate {
				continue
			}

			result.Metadata.Patterns = e.detector.Detect(&valid[i], &valid[j], e.cfg)
			g.absorb(&valid[j], result)
			processed[j] = true
		}

		// An anchor that matched nothing stays unprocessed so a later
		// anchor can still absorb it.
		if len(g.group.Items) > 1 {
			groups = append(groups, *g.group)
			processed[i] = true
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Confidence > groups[j].Confidence
	})

	// Threshold re-filter as a safety net; absorption already requires it.
	filtered := groups[:0]
	for _, g := range groups {
		if g.Confidence >= e.cfg.ConfidenceThreshold {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// FindDuplicatesForMerchant scopes detection to records whose normalized
// merchant key matches the given merchant name.
func (e *Engine) FindDuplicatesForMerchant(records []model.FinancialRecord, merchantName string) []model.DuplicateGroup {
	key := merchant.Normalize(merchantName)
	scoped := make([]model.FinancialRecord, 0, len(records))
	for i := range records {
		if merchant.Normalize(records[i].Text()) == key {
			scoped = append(scoped, records[i])
		}
	}
	return e.FindDuplicates(scoped)
}

// FilterByPattern returns the groups carrying at least one pattern tag
// with the given prefix.
func FilterByPattern(groups []model.DuplicateGroup, prefix string) []model.DuplicateGroup {
	var out []model.DuplicateGroup
	for i := range groups {
		if groups[i].HasPattern(prefix) {
			out = append(out, groups[i])
		}
	}
	return out
}

// RecurringGroups returns only groups tagged as recurring charges.
func RecurringGroups(groups []model.DuplicateGroup) []model.DuplicateGroup {
	return FilterByPattern(groups, "recurring")
}

// SplitGroups returns only groups tagged as split payments.
func SplitGroups(groups []model.DuplicateGroup) []model.DuplicateGroup {
	return FilterByPattern(groups, "split")
}

// groupBuilder accumulates a candidate group around an anchor record.
type groupBuilder struct {
	group *model.DuplicateGroup
}

func newGroup(anchor *model.FinancialRecord) *groupBuilder {
	// Content-derived ID keeps repeated runs over the same snapshot
	// byte-for-byte identical.
	g := &model.DuplicateGroup{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(anchor.Hash())).String(),
		Items: []model.FinancialRecord{*anchor},
		Metadata: model.GroupMetadata{
			DateStart:   anchor.Date,
			DateEnd:     anchor.Date,
			TotalAmount: math.Abs(anchor.Amount),
			Merchants:   []string{anchor.Text()},
		},
	}
	if anchor.Category != "" {
		g.Metadata.Categories = []string{anchor.Category}
	}
	return &groupBuilder{group: g}
}

// absorb folds a matched record and its pair result into the group:
// reasons become a deduplicated union, metadata expands, and confidence
// is the maximum over all folded pairs.
func (b *groupBuilder) absorb(r *model.FinancialRecord, result model.MatchResult) {
	g := b.group
	g.Items = append(g.Items, *r)

	g.Reasons = appendUnique(g.Reasons, result.Reasons...)
	g.Metadata.Patterns = appendUnique(g.Metadata.Patterns, result.Metadata.Patterns...)
	g.Metadata.Merchants = appendUnique(g.Metadata.Merchants, r.Text())
	if r.Category != "" {
		g.Metadata.Categories = appendUnique(g.Metadata.Categories, r.Category)
	}

	if r.Date.Before(g.Metadata.DateStart) {
		g.Metadata.DateStart = r.Date
	}
	if r.Date.After(g.Metadata.DateEnd) {
		g.Metadata.DateEnd = r.Date
	}
	g.Metadata.TotalAmount += math.Abs(r.Amount)

	if result.Confidence > g.Confidence {
		g.Confidence = result.Confidence
	}
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}
