package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMenuMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_menu.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no menu migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS menu_items",
		"CREATE TABLE IF NOT EXISTS category_option_groups",
		"role          option_role NOT NULL DEFAULT 'supplement'",
		"CHECK (base_price_cents >= 0)",
		"FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS menu_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
