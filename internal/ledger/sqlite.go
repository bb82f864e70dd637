package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"jaehyun/sms-ledger/internal/models"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	amount      TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL,
	date        TIMESTAMP NOT NULL,
	group_id    TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_expenses_fingerprint ON expenses(fingerprint);
CREATE INDEX IF NOT EXISTS idx_expenses_group_date ON expenses(group_id, date);
`

// SQLiteLedger implements Ledger on a local SQLite database. The unique
// fingerprint index makes cross-session re-imports fail with ErrDuplicate
// instead of silently duplicating rows.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (creating if needed) the database at dbPath and
// bootstraps the schema.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("ledger database path is empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
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
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Submit inserts one expense row.
func (l *SQLiteLedger) Submit(ctx context.Context, expense models.Expense) (string, error) {
	result, err := l.db.ExecContext(ctx,
		`INSERT INTO expenses (amount, category, description, date, group_id, user_id, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.Amount.String(),
		expense.Category,
		expense.Description,
		expense.Date,
		expense.GroupID,
		expense.UserID,
		expense.Fingerprint,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return "", fmt.Errorf("%w: fingerprint %s", ErrDuplicate, expense.Fingerprint)
		}
		return "", fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read inserted id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Close closes the database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// CountByGroup returns the number of stored expenses for one group.
func (l *SQLiteLedger) CountByGroup(ctx context.Context, groupID string) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE group_id = ?`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// TotalByGroup returns the summed amount of stored expenses for one group.
func (l *SQLiteLedger) TotalByGroup(ctx context.Context, groupID string) (decimal.Decimal, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT amount FROM expenses WHERE group_id = ?`, groupID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		amount, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt amount %q in ledger: %w", text, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return total, nil
}
