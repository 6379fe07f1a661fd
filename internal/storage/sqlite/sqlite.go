// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateReceipt persists a new receipt with its items and assignments.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Title == "" {
		receipt.Title = fmt.Sprintf("Receipt - %s", time.Unix(receipt.CreatedAt, 0).Format("Jan 2, 2006"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if receipt.GroupID != "" {
		groupID = receipt.GroupID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, group_id, title, tax_amount, tip_amount, payer_id, scanned_total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, groupID, receipt.Title, receipt.TaxAmount, receipt.TipAmount,
		receipt.PayerID, receipt.ScannedTotal, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := insertItems(ctx, tx, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, including items and assignments.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var groupID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, tax_amount, tip_amount, payer_id, scanned_total, created_at
		 FROM receipts WHERE id = ?`,
		receiptID,
	).Scan(&receipt.ID, &groupID, &receipt.Title, &receipt.TaxAmount, &receipt.TipAmount,
		&receipt.PayerID, &receipt.ScannedTotal, &receipt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt not found: %s", receiptID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	if groupID.Valid {
		receipt.GroupID = groupID.String
	}

	items, err := s.loadItems(ctx, receipt.ID)
	if err != nil {
		return nil, err
	}
	receipt.Items = items
	return receipt, nil
}

// ListReceiptsByGroup retrieves all receipts for a group, oldest first.
func (s *SQLiteStore) ListReceiptsByGroup(ctx context.Context, groupID string) ([]*models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM receipts WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan receipt id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	receipts := make([]*models.Receipt, 0, len(ids))
	for _, id := range ids {
		receipt, err := s.GetReceipt(ctx, id)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// UpdateReceipt replaces an existing receipt and its items.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, receipt *models.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE receipts SET title = ?, tax_amount = ?, tip_amount = ?, payer_id = ?, scanned_total = ?
		 WHERE id = ?`,
		receipt.Title, receipt.TaxAmount, receipt.TipAmount, receipt.PayerID,
		receipt.ScannedTotal, receipt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt not found: %s", receipt.ID)
	}

	// Items are replaced wholesale; diffing buys nothing at this scale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE receipt_id = ?`, receipt.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if err := insertItems(ctx, tx, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteReceipt removes a receipt and its items.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, receiptID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt not found: %s", receiptID)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, receipt *models.Receipt) error {
	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		mode := item.Assignment.Mode
		if mode == "" {
			mode = models.SplitEqual
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, receipt_id, name, quantity, unit_price, category_id, split_mode)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, receipt.ID, item.Name, item.Quantity, item.UnitPrice,
			string(item.CategoryID), string(mode),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		if mode == models.SplitEqual {
			for _, pid := range item.Assignment.Participants {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO item_assignments (item_id, participant_id, value) VALUES (?, ?, NULL)`,
					item.ID, pid,
				)
				if err != nil {
					return fmt.Errorf("failed to insert item assignment: %w", err)
				}
			}
			continue
		}
		for pid, value := range item.Assignment.Values {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO item_assignments (item_id, participant_id, value) VALUES (?, ?, ?)`,
				item.ID, pid, value,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}

func (s *SQLiteStore) loadItems(ctx context.Context, receiptID string) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, quantity, unit_price, category_id, split_mode
		 FROM items WHERE receipt_id = ? ORDER BY id`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		var category, mode string
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice, &category, &mode); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.CategoryID = models.CategoryID(category)
		item.Assignment.Mode = models.SplitMode(mode)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range items {
		if err := s.loadAssignments(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *SQLiteStore) loadAssignments(ctx context.Context, item *models.LineItem) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, value FROM item_assignments WHERE item_id = ? ORDER BY participant_id`,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get item assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid string
		var value sql.NullFloat64
		if err := rows.Scan(&pid, &value); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if item.Assignment.Mode == models.SplitEqual {
			item.Assignment.Participants = append(item.Assignment.Participants, pid)
			continue
		}
		if item.Assignment.Values == nil {
			item.Assignment.Values = make(map[string]float64)
		}
		item.Assignment.Values[pid] = value.Float64
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return nil
}
