package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "create_catalog_tables")
	assertContains(t, content, []string{
		"CREATE TABLE IF NOT EXISTS products",
		"category text NOT NULL CHECK (category IN ('print', 'original'))",
		"stock_quantity integer NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)",
		"CREATE TABLE IF NOT EXISTS events",
		"CHECK (current_participants >= 0 AND current_participants <= max_participants)",
		"CREATE INDEX IF NOT EXISTS idx_events_active_event_date",
		"DROP TABLE IF EXISTS products",
	})
}

func TestOrdersMigrationEnforcesSingleReference(t *testing.T) {
	content := readMigration(t, "create_orders_tables")
	assertContains(t, content, []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"status text NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed'))",
		"CREATE TABLE IF NOT EXISTS order_items",
		"order_id uuid NOT NULL REFERENCES orders(id) ON DELETE CASCADE",
		"product_id uuid REFERENCES products(id)",
		"event_id uuid REFERENCES events(id)",
		"CHECK ((product_id IS NULL) <> (event_id IS NULL))",
		"quantity integer NOT NULL CHECK (quantity > 0)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_reference",
	})
}

func TestSeedMigrationOnlyFillsEmptyCatalog(t *testing.T) {
	content := readMigration(t, "seed_sample_catalog")
	assertContains(t, content, []string{
		"WHERE NOT EXISTS (SELECT 1 FROM products)",
		"WHERE NOT EXISTS (SELECT 1 FROM events)",
	})
}
