package store

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	// Foreign keys are off by default in SQLite; line items reference
	// orders and products, so turn them on for every connection.
	dsn := "file:" + dataSourceName + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		price INTEGER NOT NULL,
		in_stock INTEGER NOT NULL DEFAULT 0 CHECK (in_stock >= 0)
	);

	CREATE TABLE IF NOT EXISTS customer_orders (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lastname TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		adress TEXT NOT NULL,
		apartment TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		order_notice TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT 'card',
		payment_status TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		tracking_number TEXT NOT NULL DEFAULT '',
		total INTEGER NOT NULL,
		user_id TEXT REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT NOT NULL REFERENCES customer_orders(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	);

	CREATE TABLE IF NOT EXISTS order_idempotency (
		idempotency_key TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES customer_orders(id)
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		key TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		sent_at DATETIME
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		slog.Error("Error creating schema", "error", err)
		return err
	}
	return nil
}
