package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ysalloum/pulsedesk/internal/db"
	"github.com/ysalloum/pulsedesk/internal/records"
)

// silentReporter keeps test output clean.
type silentReporter struct{}

func (silentReporter) Start(int)          {}
func (silentReporter) Update(int, string) {}
func (silentReporter) Finish()            {}

const sampleYAML = `
customers:
  - id: c1
    name: Alnoor Trading
    channel: whatsapp
    tone: casual
    phone: "0566100095"
    email: sales@alnoor.sa
    needs: [erp, pos]
    opportunities:
      - title: ERP rollout
        stage: negotiation
        value_sar: 50000
  - id: c2
    name: Falcon Systems
    phone: "0501112233"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("writing sample: %v", err)
	}
	return path
}

func TestLoadParsesSeedFile(t *testing.T) {
	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(f.Customers))
	}
	if f.Customers[0].Opportunities[0].ValueSAR != 50000 {
		t.Errorf("unexpected opportunity %+v", f.Customers[0].Opportunities[0])
	}
}

func TestImportPopulatesRecords(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Import(context.Background(), database, f, silentReporter{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	store := records.NewStore(database)
	audience, err := store.CustomersInStage(context.Background(), "negotiation")
	if err != nil {
		t.Fatalf("CustomersInStage: %v", err)
	}
	if len(audience) != 1 || audience[0].Address != "0566100095" {
		t.Errorf("unexpected audience %+v", audience)
	}

	all, err := store.AllCustomers(context.Background())
	if err != nil {
		t.Fatalf("AllCustomers: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 customers with phones, got %d", len(all))
	}
}

func TestImportIsIdempotentForCustomers(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := Import(context.Background(), database, f, silentReporter{}); err != nil {
			t.Fatalf("Import #%d: %v", i+1, err)
		}
	}

	var customers, contacts int
	if err := database.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&customers); err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if err := database.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&contacts); err != nil {
		t.Fatalf("counting contacts: %v", err)
	}
	if customers != 2 {
		t.Errorf("re-import must not duplicate customers, got %d", customers)
	}
	if contacts != 3 {
		t.Errorf("re-import must not duplicate contacts, got %d", contacts)
	}
}

func TestImportRejectsMissingID(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	f := &File{Customers: []Customer{{Name: "Anonymous"}}}
	if err := Import(context.Background(), database, f, silentReporter{}); err == nil {
		t.Fatal("expected an error for a customer without an id")
	}
}
