package local

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	// Import sqlite driver
	_ "modernc.org/sqlite"

	"github.com/sulavtimsina/expense-sync/internal/models"
)

// Store is the on-device expense store. It is always available, durable,
// and the source of truth for every UI read; the cloud never sits on a
// read path.
type Store struct {
	conn *sql.DB

	mu      sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Open opens (creating if needed) the database at path and runs migrations.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; a one-connection pool also keeps
	// ":memory:" databases from splitting across connections.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	s := &Store{conn: conn, subs: make(map[int]chan struct{})}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		note TEXT,
		date TEXT NOT NULL,
		image_path TEXT
	)`)
	return err
}

// Insert writes a new expense. The id is caller-supplied and must be unique.
func (s *Store) Insert(ctx context.Context, e models.Expense) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO expenses (id, amount, category, note, date, image_path) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.Amount.String(), e.Category.String(), e.Note, e.Date.Format(models.DateLayout), e.ImagePath,
	)
	if err != nil {
		return err
	}
	s.notifyChange()
	return nil
}

// Update overwrites the expense with the same id.
func (s *Store) Update(ctx context.Context, e models.Expense) error {
	_, err := s.conn.ExecContext(ctx,
		"UPDATE expenses SET amount = ?, category = ?, note = ?, date = ?, image_path = ? WHERE id = ?",
		e.Amount.String(), e.Category.String(), e.Note, e.Date.Format(models.DateLayout), e.ImagePath, e.ID,
	)
	if err != nil {
		return err
	}
	s.notifyChange()
	return nil
}

// Delete removes an expense. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	s.notifyChange()
	return nil
}

// GetByID returns the expense with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, amount, category, note, date, image_path FROM expenses WHERE id = ?", id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListAll returns every expense, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Expense, error) {
	return s.list(ctx,
		"SELECT id, amount, category, note, date, image_path FROM expenses ORDER BY date DESC")
}

// ListByCategory returns the expenses in one category, newest first.
func (s *Store) ListByCategory(ctx context.Context, category models.Category) ([]models.Expense, error) {
	return s.list(ctx,
		"SELECT id, amount, category, note, date, image_path FROM expenses WHERE category = ? ORDER BY date DESC",
		category.String())
}

// ListByDateRange returns the expenses with start <= date <= end, newest
// first. The TEXT date column sorts correctly because the layout is
// lexicographic.
func (s *Store) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Expense, error) {
	return s.list(ctx,
		"SELECT id, amount, category, note, date, image_path FROM expenses WHERE date >= ? AND date <= ? ORDER BY date DESC",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e                    models.Expense
		amount, category, dt string
		note, imagePath      sql.NullString
	)
	if err := row.Scan(&e.ID, &amount, &category, &note, &dt, &imagePath); err != nil {
		return models.Expense{}, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Expense{}, err
	}
	date, err := time.Parse(models.DateLayout, dt)
	if err != nil {
		return models.Expense{}, err
	}

	e.Amount = amt
	e.Category = models.CategoryFromName(category)
	e.Date = date
	if note.Valid {
		e.Note = &note.String
	}
	if imagePath.Valid {
		e.ImagePath = &imagePath.String
	}
	return e, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
