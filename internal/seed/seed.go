// Package seed provisions demo tenants: customers, contacts and pipeline
// records imported from a YAML file.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ysalloum/pulsedesk/internal/db"
	"github.com/ysalloum/pulsedesk/internal/progress"
)

// File is the root of a seed YAML document.
type File struct {
	Customers []Customer `yaml:"customers"`
}

// Customer is one seeded customer with optional contacts and opportunities.
type Customer struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Channel       string        `yaml:"channel"`
	Language      string        `yaml:"language"`
	Tone          string        `yaml:"tone"`
	Needs         []string      `yaml:"needs"`
	Phone         string        `yaml:"phone"`
	Email         string        `yaml:"email"`
	Opportunities []Opportunity `yaml:"opportunities"`
}

// Opportunity is one seeded pipeline entry.
type Opportunity struct {
	Title    string  `yaml:"title"`
	Stage    string  `yaml:"stage"`
	ValueSAR float64 `yaml:"value_sar"`
}

// Load parses a seed file from disk.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// Import writes the seed data into the database, one transaction per
// customer, reporting progress along the way. Re-importing the same file
// updates customers in place.
func Import(ctx context.Context, database *db.DB, f *File, reporter progress.Reporter) error {
	reporter.Start(len(f.Customers))
	defer reporter.Finish()

	for i, c := range f.Customers {
		if c.ID == "" {
			return fmt.Errorf("customer %d has no id", i)
		}
		if err := importCustomer(ctx, database, c); err != nil {
			return fmt.Errorf("importing customer %s: %w", c.ID, err)
		}
		reporter.Update(i+1, c.Name)
	}
	return nil
}

func importCustomer(ctx context.Context, database *db.DB, c Customer) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	needs, err := json.Marshal(append([]string{}, c.Needs...))
	if err != nil {
		return fmt.Errorf("encoding needs: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO customers (id, name, channel, language, tone, needs)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, channel = excluded.channel,
		   language = excluded.language, tone = excluded.tone,
		   needs = excluded.needs, updated_at = datetime('now')`,
		c.ID, c.Name, defaulted(c.Channel, "web"), defaulted(c.Language, "ar"),
		defaulted(c.Tone, "formal"), string(needs),
	); err != nil {
		return fmt.Errorf("upserting customer: %w", err)
	}

	if c.Phone != "" {
		if err := insertContact(ctx, tx, c.ID, "phone", c.Phone); err != nil {
			return err
		}
	}
	if c.Email != "" {
		if err := insertContact(ctx, tx, c.ID, "email", c.Email); err != nil {
			return err
		}
	}

	// Opportunities are replaced wholesale so re-importing a seed file
	// does not duplicate the pipeline.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM opportunities WHERE customer_id = ?`, c.ID,
	); err != nil {
		return fmt.Errorf("clearing opportunities: %w", err)
	}
	for _, o := range c.Opportunities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO opportunities (id, customer_id, title, stage, value_sar)
			 VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), c.ID, o.Title, defaulted(o.Stage, "lead"), o.ValueSAR,
		); err != nil {
			return fmt.Errorf("inserting opportunity %q: %w", o.Title, err)
		}
	}

	return tx.Commit()
}

func insertContact(ctx context.Context, tx *sql.Tx, customerID, kind, address string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contacts (id, customer_id, kind, address)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(customer_id, kind, address) DO NOTHING`,
		uuid.New().String(), customerID, kind, address,
	)
	if err != nil {
		return fmt.Errorf("inserting %s contact: %w", kind, err)
	}
	return nil
}

func defaulted(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
