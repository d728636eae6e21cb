package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/farmfresh-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestProductsMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_products"), []string{
		"CREATE TABLE IF NOT EXISTS products",
		"FOREIGN KEY (farmer_id) REFERENCES farmer_profiles(id) ON DELETE RESTRICT",
		"CHECK (price > 0)",
		"CHECK (stock >= 0)",
		"'Vegetables', 'Fruits', 'Herbs', 'Dairy', 'Grains'",
		"DROP TABLE IF EXISTS products",
	})
}

func TestAddressesMigrationEnforcesSingleDefault(t *testing.T) {
	assertContains(t, readMigration(t, "create_addresses"), []string{
		"CREATE TABLE IF NOT EXISTS addresses",
		"CREATE UNIQUE INDEX IF NOT EXISTS addresses_one_default_per_customer ON addresses (customer_id) WHERE is_default",
		"DROP TABLE IF EXISTS addresses",
	})
}

func TestOrdersMigrationContainsInvariants(t *testing.T) {
	assertContains(t, readMigration(t, "create_orders"), []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (total = subtotal + delivery_fee - discount)",
		"CONSTRAINT order_line_items_order_product_key UNIQUE (order_id, product_id)",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"'New', 'Processing', 'Shipped', 'Delivered', 'Cancelled'",
		"DROP TABLE IF EXISTS orders",
	})
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Harvest Notes!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_harvest_notes.sql") {
		t.Fatalf("unexpected migration name %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"20260101000000_first.sql":  "-- +goose Up\n",
		"20260101000000_second.sql": "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	err := migrate.ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"missing \"-- +goose Down\"", "already used by"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
