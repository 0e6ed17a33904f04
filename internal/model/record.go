// Package model defines the core domain types shared across the engine.
package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"time"
)

// RecordKind identifies the originating shape of a financial record.
type RecordKind string

// Known record kinds. Ingestion adapters normalize every source shape to
// one of these before records reach the matching engine.
const (
	KindExpense         RecordKind = "expense"
	KindBankTransaction RecordKind = "bank_transaction"
	KindCashEntry       RecordKind = "cash_entry"
)

// FinancialRecord represents a single dated monetary event from any source.
// Records are owned by the caller and treated as read-only by the engine.
type FinancialRecord struct {
	Date        time.Time  `json:"date"`
	ID          string     `json:"id"`
	Merchant    string     `json:"merchant"`    // Cleaned merchant name, may be empty
	Description string     `json:"description"` // Raw description text
	Category    string     `json:"category,omitempty"`
	ReceiptID   string     `json:"receipt_id,omitempty"`
	Kind        RecordKind `json:"kind"`
	Amount      float64    `json:"amount"` // Signed; expenses negative or positive per source convention
	HasReceipt  bool       `json:"has_receipt"`
}

// Text returns the merchant name, falling back to the raw description.
func (r *FinancialRecord) Text() string {
	if r.Merchant != "" {
		return r.Merchant
	}
	return r.Description
}

// Valid reports whether the record carries the fields matching requires.
// Records failing this check are skipped with a diagnostic, not fatal.
func (r *FinancialRecord) Valid() bool {
	if r.Date.IsZero() {
		return false
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return false
	}
	return r.Text() != ""
}

// Hash creates a stable identity hash for a record, used when the source
// did not supply an ID.
func (r *FinancialRecord) Hash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		r.Date.Format("2006-01-02"),
		r.Amount,
		r.Text())
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
