// Package service defines the contracts for external collaborators the
// engine consumes but does not implement.
package service

import (
	"context"

	"github.com/ledgersift/ledgersift/internal/model"
)

// HistoryLoader supplies the merchant-history snapshot the pattern detector
// indexes at engine construction. Implementations own persistence and
// freshness; the engine treats each snapshot as frozen for one run.
type HistoryLoader interface {
	// ListRecords returns all known records.
	ListRecords(ctx context.Context) ([]model.FinancialRecord, error)
	// ListRecordsByMerchant returns all known records for one merchant,
	// matched on the normalized merchant key.
	ListRecordsByMerchant(ctx context.Context, merchant string) ([]model.FinancialRecord, error)
}

// ReceiptPolicy decides whether a record requires a receipt under the
// current policy. Consulted only by group validation.
type ReceiptPolicy interface {
	RequiresReceipt(record *model.FinancialRecord) bool
}
