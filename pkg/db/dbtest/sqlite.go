// Package dbtest opens isolated in-memory SQLite databases carrying the
// marketplace schema for package tests.
package dbtest

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/farmfresh-backend/pkg/db"
)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		user_type TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE farmer_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
		farm_name TEXT NOT NULL,
		farm_location TEXT NOT NULL,
		farm_description TEXT,
		product_ids TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		farmer_id TEXT NOT NULL REFERENCES farmer_profiles(id),
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		price NUMERIC NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		unit TEXT NOT NULL,
		image TEXT NOT NULL,
		listed BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE addresses (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		street TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL,
		phone TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT 0,
		position INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		subtotal NUMERIC NOT NULL,
		delivery_fee NUMERIC NOT NULL,
		discount NUMERIC NOT NULL,
		coupon_code TEXT,
		total NUMERIC NOT NULL,
		delivery_address TEXT NOT NULL,
		delivery_slot TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		status TEXT NOT NULL,
		placed_at DATETIME NOT NULL,
		status_changed_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_line_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		farmer_id TEXT NOT NULL,
		farmer_user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		image TEXT NOT NULL,
		unit_price NUMERIC NOT NULL,
		quantity INTEGER NOT NULL,
		line_total NUMERIC NOT NULL,
		created_at DATETIME,
		UNIQUE (order_id, product_id)
	)`,
}

// Open returns a gorm handle on a fresh, uniquely named in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// a single connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// OpenClient wraps Open in a *db.Client so services can run real transactions.
func OpenClient(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.Wrap(conn), conn
}
