package model

import "time"

// MatchResult is the ephemeral outcome of scoring a single record pair.
type MatchResult struct {
	Metadata    MatchMetadata
	Reasons     []string
	Confidence  float64
	IsDuplicate bool
}

// MatchMetadata carries the raw per-factor measurements behind a score.
type MatchMetadata struct {
	Patterns           []string
	DateDiffDays       float64
	AmountDiff         float64
	AmountDiffPercent  float64
	MerchantSimilarity float64
}

// DuplicateGroup is a cluster of records believed to represent the same
// real-world event or a structurally related set. Immutable once emitted.
type DuplicateGroup struct {
	Metadata   GroupMetadata
	ID         string
	Items      []FinancialRecord
	Reasons    []string
	Confidence float64
}

// GroupMetadata aggregates descriptive facts about a group's members.
type GroupMetadata struct {
	DateStart   time.Time
	DateEnd     time.Time
	Merchants   []string
	Categories  []string
	Patterns    []string
	TotalAmount float64 // Sum of absolute amounts
}

// HasPattern reports whether any group pattern tag starts with prefix.
func (g *DuplicateGroup) HasPattern(prefix string) bool {
	for _, tag := range g.Metadata.Patterns {
		if len(tag) >= len(prefix) && tag[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// Warning is an informational annotation produced by group validation.
// Warnings are never errors and never alter group membership.
type Warning struct {
	Code    string
	Message string
}

// ValidatedGroup pairs an emitted group with its validation warnings.
// The wrapped group is shared, not copied, and must not be mutated.
type ValidatedGroup struct {
	Group    *DuplicateGroup
	Warnings []Warning
}

// ReceiptMatch associates a receipt-bearing record with another group
// member at a given confidence (1.0 exact, 0.8 partial).
type ReceiptMatch struct {
	Receipt    *FinancialRecord
	Record     *FinancialRecord
	Confidence float64
}

// ReceiptMatchResult is the outcome of receipt association over one group.
type ReceiptMatchResult struct {
	Matches    []ReceiptMatch
	Confidence float64 // Mean of per-association confidences, 0 when empty
}
