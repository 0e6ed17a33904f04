package engine

import (
	"fmt"
	"math"

	"github.com/ledgersift/ledgersift/internal/match"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

// Warning codes emitted by group validation.
const (
	WarnMissingReceipts = "missing_receipts"
	WarnAmountOutlier   = "amount_outlier"
	WarnDateSpread      = "date_spread"
)

// Validator runs read-only sanity checks over emitted groups. Warnings
// are informational annotations for human review, never errors, and group
// membership and confidence are never altered.
type Validator struct {
	cfg    match.Config
	policy service.ReceiptPolicy
}

// NewValidator creates a validator. The receipt policy is optional; when
// nil, the require_receipts toggle decides which records need receipts.
func NewValidator(cfg match.Config, policy service.ReceiptPolicy) *Validator {
	return &Validator{cfg: cfg, policy: policy}
}

// ValidateGroup returns the warnings for a single group.
func (v *Validator) ValidateGroup(g *model.DuplicateGroup) []model.Warning {
	var warnings []model.Warning

	if missing := v.missingReceipts(g); missing > 0 {
		warnings = append(warnings, model.Warning{
			Code:    WarnMissingReceipts,
			Message: fmt.Sprintf("%d of %d items lack a required receipt", missing, len(g.Items)),
		})
	}

	if v.cfg.Validation.ValidateAmounts {
		warnings = append(warnings, v.amountOutliers(g)...)
	}

	if v.cfg.Validation.ValidateDates {
		span := g.Metadata.DateEnd.Sub(g.Metadata.DateStart).Hours() / 24
		if span > v.cfg.DateToleranceDays {
			warnings = append(warnings, model.Warning{
				Code:    WarnDateSpread,
				Message: fmt.Sprintf("group spans %.0f days, tolerance is %.0f", span, v.cfg.DateToleranceDays),
			})
		}
	}

	return warnings
}

// ValidateGroups annotates each group with its warnings.
func (v *Validator) ValidateGroups(groups []model.DuplicateGroup) []model.ValidatedGroup {
	out := make([]model.ValidatedGroup, len(groups))
	for i := range groups {
		out[i] = model.ValidatedGroup{
			Group:    &groups[i],
			Warnings: v.ValidateGroup(&groups[i]),
		}
	}
	return out
}

// missingReceipts counts items that need a receipt but carry none.
func (v *Validator) missingReceipts(g *model.DuplicateGroup) int {
	if !v.cfg.Validation.RequireReceipts && v.policy == nil {
		return 0
	}

	var missing int
	for i := range g.Items {
		item := &g.Items[i]
		required := v.cfg.Validation.RequireReceipts
		if v.policy != nil {
			required = v.policy.RequiresReceipt(item)
		}
		if required && !item.HasReceipt && item.ReceiptID == "" {
			missing++
		}
	}
	return missing
}

// amountOutliers flags items deviating from the group mean by more than
// the relative amount tolerance.
func (v *Validator) amountOutliers(g *model.DuplicateGroup) []model.Warning {
	if len(g.Items) == 0 {
		return nil
	}

	mean := g.Metadata.TotalAmount / float64(len(g.Items))
	if mean == 0 {
		return nil
	}

	var warnings []model.Warning
	for i := range g.Items {
		amount := math.Abs(g.Items[i].Amount)
		if math.Abs(amount-mean)/mean > v.cfg.AmountTolerance {
			warnings = append(warnings, model.Warning{
				Code: WarnAmountOutlier,
				Message: fmt.Sprintf("item %s amount %.2f deviates from group mean %.2f",
					g.Items[i].ID, amount, mean),
			})
		}
	}
	return warnings
}
