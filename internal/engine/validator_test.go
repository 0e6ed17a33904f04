package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/model"
)

type requireAllPolicy struct{}

func (requireAllPolicy) RequiresReceipt(_ *model.FinancialRecord) bool { return true }

func makeGroup(items ...model.FinancialRecord) model.DuplicateGroup {
	g := model.DuplicateGroup{Items: items, Confidence: 0.9}
	g.Metadata.DateStart = items[0].Date
	g.Metadata.DateEnd = items[0].Date
	for _, item := range items {
		if item.Date.Before(g.Metadata.DateStart) {
			g.Metadata.DateStart = item.Date
		}
		if item.Date.After(g.Metadata.DateEnd) {
			g.Metadata.DateEnd = item.Date
		}
		if item.Amount < 0 {
			g.Metadata.TotalAmount -= item.Amount
		} else {
			g.Metadata.TotalAmount += item.Amount
		}
	}
	return g
}

func TestValidateGroupMissingReceipts(t *testing.T) {
	cfg := match.DefaultConfig()
	v := NewValidator(cfg, requireAllPolicy{})

	withReceipt := record("a", "2024-01-01", 50.00, "Whole Foods")
	withReceipt.HasReceipt = true
	without := record("b", "2024-01-01", 50.00, "Whole Foods")

	g := makeGroup(withReceipt, without)
	warnings := v.ValidateGroup(&g)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnMissingReceipts, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "1 of 2")
	assert.Len(t, g.Items, 2, "validation must not alter membership")
	assert.Equal(t, 0.9, g.Confidence, "validation must not alter confidence")
}

func TestValidateGroupReceiptsNotRequiredByDefault(t *testing.T) {
	v := NewValidator(match.DefaultConfig(), nil)

	g := makeGroup(
		record("a", "2024-01-01", 50.00, "Whole Foods"),
		record("b", "2024-01-01", 50.00, "Whole Foods"),
	)

	assert.Empty(t, v.ValidateGroup(&g))
}

func TestValidateGroupAmountOutlier(t *testing.T) {
	v := NewValidator(match.DefaultConfig(), nil)

	g := makeGroup(
		record("a", "2024-01-01", 50.00, "Whole Foods"),
		record("b", "2024-01-01", 50.00, "Whole Foods"),
		record("c", "2024-01-01", 90.00, "Whole Foods"),
	)

	warnings := v.ValidateGroup(&g)
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, WarnAmountOutlier)
}

func TestValidateGroupDateSpread(t *testing.T) {
	v := NewValidator(match.DefaultConfig(), nil)

	g := makeGroup(
		record("a", "2024-01-01", 50.00, "Whole Foods"),
		record("b", "2024-01-15", 50.00, "Whole Foods"),
	)

	warnings := v.ValidateGroup(&g)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnDateSpread, warnings[0].Code)
}

func TestValidateGroupTogglesOff(t *testing.T) {
	cfg := match.DefaultConfig()
	cfg.Validation.ValidateAmounts = false
	cfg.Validation.ValidateDates = false
	v := NewValidator(cfg, nil)

	g := makeGroup(
		record("a", "2024-01-01", 50.00, "Whole Foods"),
		record("b", "2024-03-01", 500.00, "Whole Foods"),
	)

	assert.Empty(t, v.ValidateGroup(&g))
}

func TestValidateGroupsAnnotates(t *testing.T) {
	v := NewValidator(match.DefaultConfig(), nil)

	clean := makeGroup(
		record("a", "2024-01-01", 50.00, "Whole Foods"),
		record("b", "2024-01-01", 50.00, "Whole Foods"),
	)
	spread := makeGroup(
		record("c", "2024-01-01", 19.99, "Netflix"),
		record("d", "2024-02-01", 19.99, "Netflix"),
	)

	groups := []model.DuplicateGroup{clean, spread}
	validated := v.ValidateGroups(groups)

	require.Len(t, validated, 2)
	assert.Empty(t, validated[0].Warnings)
	assert.NotEmpty(t, validated[1].Warnings)
	assert.Same(t, &groups[1], validated[1].Group, "wrappers share the group, not a copy")
}
