// Package storage provides a SQLite-backed record store implementing the
// history loader contract.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ledgersift/ledgersift/internal/merchant"
	"github.com/ledgersift/ledgersift/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id           TEXT PRIMARY KEY,
	date         TEXT NOT NULL,
	amount       REAL NOT NULL,
	merchant     TEXT NOT NULL,
	merchant_key TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL DEFAULT '',
	has_receipt  INTEGER NOT NULL DEFAULT 0,
	receipt_id   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_merchant_key ON records(merchant_key);
CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
`

// SQLiteStore persists financial records and serves merchant-history
// snapshots. Implements service.HistoryLoader.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) a record database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecords inserts records, ignoring duplicates by ID. Records without
// an ID get their content hash.
func (s *SQLiteStore) SaveRecords(ctx context.Context, records []model.FinancialRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO records (
			id, date, amount, merchant, merchant_key,
			description, category, kind, has_receipt, receipt_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		id := r.ID
		if id == "" {
			id = r.Hash()
		}
		_, err := stmt.ExecContext(ctx,
			id,
			r.Date.Format(time.RFC3339),
			r.Amount,
			r.Merchant,
			merchant.Normalize(r.Text()),
			r.Description,
			r.Category,
			string(r.Kind),
			r.HasReceipt,
			r.ReceiptID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// ListRecords returns all known records in date order.
func (s *SQLiteStore) ListRecords(ctx context.Context) ([]model.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, merchant, description, category, kind, has_receipt, receipt_id
		FROM records ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// ListRecordsByMerchant returns all known records for one merchant,
// matched on the normalized merchant key.
func (s *SQLiteStore) ListRecordsByMerchant(ctx context.Context, merchantName string) ([]model.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, merchant, description, category, kind, has_receipt, receipt_id
		FROM records WHERE merchant_key = ? ORDER BY date, id
	`, merchant.Normalize(merchantName))
	if err != nil {
		return nil, fmt.Errorf("failed to query records by merchant: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]model.FinancialRecord, error) {
	var records []model.FinancialRecord
	for rows.Next() {
		var (
			r       model.FinancialRecord
			dateStr string
			kind    string
		)
		if err := rows.Scan(
			&r.ID, &dateStr, &r.Amount, &r.Merchant,
			&r.Description, &r.Category, &kind, &r.HasReceipt, &r.ReceiptID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse record date %q: %w", dateStr, err)
		}
		r.Date = date
		r.Kind = model.RecordKind(kind)
		records = append(records, r)
	}
	return records, rows.Err()
}
