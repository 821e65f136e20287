// Package records gives the router read-only access to business records
// (opportunities, contacts). The core never writes these; the dashboard's
// CRUD layer owns them.
package records

import (
	"context"
	"fmt"

	"github.com/ysalloum/pulsedesk/internal/db"
)

// Recipient is one resolvable bulk-send target.
type Recipient struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Address    string `json:"address"` // phone number or email, per kind
}

// StageCount is one row of the pipeline summary.
type StageCount struct {
	Stage    string  `json:"stage"`
	Count    int     `json:"count"`
	ValueSAR float64 `json:"value_sar"`
}

// Store exposes read-only queries over the business records database.
type Store struct {
	db *db.DB
}

// NewStore creates a records reader over the shared database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CustomersInStage resolves the audience "all customers in stage X" to their
// phone contacts. Customers without a phone contact are skipped; an audience
// of zero is the caller's problem to report, not an error here.
func (s *Store) CustomersInStage(ctx context.Context, stage string) ([]Recipient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.name, ct.address
		 FROM customers c
		 JOIN opportunities o ON o.customer_id = c.id
		 JOIN contacts ct ON ct.customer_id = c.id AND ct.kind = 'phone'
		 WHERE o.stage = ?
		 ORDER BY c.id`, stage,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stage %q audience: %w", stage, err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.CustomerID, &r.Name, &r.Address); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipients: %w", err)
	}
	return out, nil
}

// AllCustomers resolves the audience "all customers" to phone contacts.
func (s *Store) AllCustomers(ctx context.Context) ([]Recipient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.name, ct.address
		 FROM customers c
		 JOIN contacts ct ON ct.customer_id = c.id AND ct.kind = 'phone'
		 ORDER BY c.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying all-customers audience: %w", err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.CustomerID, &r.Name, &r.Address); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipients: %w", err)
	}
	return out, nil
}

// PipelineSummary returns opportunity counts and totals per stage, for the
// report command family.
func (s *Store) PipelineSummary(ctx context.Context) ([]StageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, COUNT(*), COALESCE(SUM(value_sar), 0)
		 FROM opportunities GROUP BY stage ORDER BY stage`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying pipeline summary: %w", err)
	}
	defer rows.Close()

	var out []StageCount
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count, &sc.ValueSAR); err != nil {
			return nil, fmt.Errorf("scanning stage count: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return out, nil
}
