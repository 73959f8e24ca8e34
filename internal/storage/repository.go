package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oscarlagatta/next-cash/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable transaction store. Every query and
// mutation predicate on transactions includes equality on user_id, so a
// guessed id can never cross user boundaries.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction stores a new transaction and returns its assigned id.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category_id, amount_cents, description, transaction_date)
		VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, t.Amount.Cents, t.Description, t.Date.String())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return id, nil
}

// UpdateTransaction updates the mutable fields of a transaction. The
// predicate matches both id and user_id; a row owned by another user is
// left untouched and the returned count is zero.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID string, id int64, d core.TransactionDraft) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, description = ?, transaction_date = ?
		WHERE id = ? AND user_id = ?`,
		d.CategoryID, d.Amount.Cents, d.Description, d.Date.String(), id, userID)
	if err != nil {
		return 0, fmt.Errorf("update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "rows", affected)
	return affected, nil
}

// DeleteTransaction permanently removes a transaction. Same double
// predicate as UpdateTransaction; there is no soft delete.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID string, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "rows", affected)
	return affected, nil
}

// GetTransaction fetches a single transaction owned by userID. Returns
// nil without error when no such row exists.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID string, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, amount_cents, description, transaction_date
		FROM transactions
		WHERE id = ? AND user_id = ?`,
		id, userID)

	var (
		t       core.Transaction
		dateStr string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount.Cents, &t.Description, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	t.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
	}
	return &t, nil
}

// ListRecent returns at most limit transactions joined with their
// category, most recent first, id descending as the tiebreak.
func (r *SQLiteRepository) ListRecent(ctx context.Context, userID string, limit int) ([]core.TransactionListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.description, t.amount_cents, t.transaction_date, c.name, c.type
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?
		ORDER BY t.transaction_date DESC, t.id DESC
		LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

// ListByMonth returns the transactions of a single calendar month,
// joined with their category, most recent first.
func (r *SQLiteRepository) ListByMonth(ctx context.Context, userID string, year, month int) ([]core.TransactionListItem, error) {
	first, last := monthBounds(year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.description, t.amount_cents, t.transaction_date, c.name, c.type
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.transaction_date BETWEEN ? AND ?
		ORDER BY t.transaction_date DESC, t.id DESC`,
		userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list transactions by month: %w", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

// ListCashflowEntries returns the month bucket, amount and category type
// of every transaction in the year, Jan 1 through Dec 31 inclusive.
func (r *SQLiteRepository) ListCashflowEntries(ctx context.Context, userID string, year int) ([]core.CashflowEntry, error) {
	first := core.NewDate(year, 1, 1).String()
	last := core.NewDate(year, 12, 31).String()
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', t.transaction_date) AS INTEGER), t.amount_cents, c.type
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.transaction_date BETWEEN ? AND ?`,
		userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list cashflow entries: %w", err)
	}
	defer rows.Close()

	var entries []core.CashflowEntry
	for rows.Next() {
		var (
			e       core.CashflowEntry
			catType sql.NullString
		)
		if err := rows.Scan(&e.Month, &e.Amount.Cents, &catType); err != nil {
			return nil, fmt.Errorf("scan cashflow entry: %w", err)
		}
		e.Type = core.CategoryType(catType.String)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashflow entries: %w", err)
	}
	return entries, nil
}

// DistinctYears returns the years present in the user's history,
// most recent first.
func (r *SQLiteRepository) DistinctYears(ctx context.Context, userID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT CAST(strftime('%Y', transaction_date) AS INTEGER) AS y
		FROM transactions
		WHERE user_id = ?
		ORDER BY y DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("distinct transaction years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate years: %w", err)
	}
	return years, nil
}

// ListCategories returns all categories. Categories are shared reference
// data, not user-scoped.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// GetCategory fetches a category by id. Returns nil without error when
// no such category exists.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, type FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func scanListItems(rows *sql.Rows) ([]core.TransactionListItem, error) {
	var items []core.TransactionListItem
	for rows.Next() {
		var (
			it      core.TransactionListItem
			dateStr string
			catName sql.NullString
			catType sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Description, &it.Amount.Cents, &dateStr, &catName, &catType); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		it.Date = d
		it.Category = catName.String
		it.Type = core.CategoryType(catType.String)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return items, nil
}

// monthBounds returns the first and last day of a month as storage-encoded
// dates. Day zero of the following month normalizes to the last day.
func monthBounds(year, month int) (string, string) {
	first := core.NewDate(year, month, 1)
	last := core.Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
	return first.String(), last.String()
}
