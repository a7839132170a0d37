package history

import (
	"database/sql"

	"lootradar/logger"
	"lootradar/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the last observed price per product link so sudden
// price drops can be detected across restarts, independent of the
// brand and discount rules.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// New opens (or creates) the price history database at path
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.NewStorage("history", "failed to open database", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS price_history (
		link TEXT PRIMARY KEY,
		price INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.NewStorage("history", "failed to create table", err)
	}

	return &Store{db: db, log: logger.ForComponent("history")}, nil
}

// LastPrice returns the last recorded price for link. The boolean is
// false when the link has never been seen.
func (s *Store) LastPrice(link string) (int, bool, error) {
	var price int
	err := s.db.QueryRow("SELECT price FROM price_history WHERE link = ?", link).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.NewStorage("history", "failed to read price", err)
	}
	return price, true, nil
}

// Record upserts the latest observed price for link
func (s *Store) Record(link string, price int) error {
	_, err := s.db.Exec(
		`INSERT INTO price_history (link, price, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(link) DO UPDATE SET price = excluded.price, updated_at = CURRENT_TIMESTAMP`,
		link, price,
	)
	if err != nil {
		return errors.NewStorage("history", "failed to record price", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
