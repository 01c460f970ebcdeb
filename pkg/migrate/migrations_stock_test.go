package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laundryline/laundryline-backend/pkg/migrate"
)

func TestStockMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_stock.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no stock migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE stock_items",
		"CHECK (current_quantity >= 0)",
		"version bigint NOT NULL DEFAULT 0",
		"CREATE TABLE consumption_entries",
		"CREATE TABLE restock_entries",
		"CREATE TABLE stock_alerts",
		"WHERE NOT is_resolved",
		"DROP TABLE stock_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
