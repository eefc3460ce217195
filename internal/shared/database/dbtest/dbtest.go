// Package dbtest opens throwaway SQL databases for repository tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// schema mirrors the Postgres tables in SQLite types. uuid and jsonb
// columns are stored as text; row locks are not enforced.
var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT,
		image TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE movies (
		id TEXT PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		overview TEXT,
		poster_path TEXT,
		backdrop_path TEXT,
		release_date TEXT,
		original_language TEXT,
		vote_average REAL,
		num_votes INTEGER,
		runtime INTEGER,
		trailer TEXT,
		genres TEXT,
		casts TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE shows (
		id TEXT PRIMARY KEY,
		movie_id TEXT NOT NULL REFERENCES movies(id),
		show_date_time DATETIME NOT NULL,
		show_price REAL NOT NULL CHECK (show_price >= 0),
		occupied_seats TEXT NOT NULL DEFAULT '{}',
		version INTEGER NOT NULL DEFAULT 0 CHECK (version >= 0),
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		show_id TEXT NOT NULL,
		amount REAL NOT NULL CHECK (amount >= 0),
		booked_seats TEXT NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT 0,
		payment_session_id TEXT,
		payment_link TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns an in-memory database with the application schema. A single
// connection serializes transactions, so concurrent writers queue the way
// they would behind a row lock.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
