package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool, ensuring the parent directory exists.
func New(dataSourceName string) (*sql.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS listings (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		address TEXT NOT NULL,
		type TEXT NOT NULL,
		bedrooms INTEGER NOT NULL,
		bathrooms INTEGER NOT NULL,
		regular_price INTEGER NOT NULL,
		discount_price INTEGER NOT NULL,
		offer INTEGER NOT NULL DEFAULT 0,
		parking INTEGER NOT NULL DEFAULT 0,
		furnished INTEGER NOT NULL DEFAULT 0,
		-- Ordered list of image URLs, stored as a JSON array string
		image_urls_json TEXT NOT NULL,
		-- Owner ID without a foreign key: listings survive account deletion
		user_ref TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_listings_user_ref ON listings(user_ref);
	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		listing_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS backups (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		remote_url TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
