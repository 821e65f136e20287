package db

import (
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by selecting from each one.
	tables := []string{"customers", "interactions", "opportunities", "contacts"}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestInteractionOutcomeConstraint(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO customers (id) VALUES ('c1')`); err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	_, err = d.Exec(`INSERT INTO interactions (id, customer_id, seq, outcome) VALUES ('i1', 'c1', 1, 'bogus')`)
	if err == nil {
		t.Fatal("expected CHECK constraint violation for bad outcome")
	}
}
