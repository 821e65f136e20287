// Package memory owns customer profiles and their bounded interaction logs.
// All read-modify-write cycles for one customer are serialized through a
// striped lock, so concurrent requests for the same customer cannot lose
// records or flap the learned tone preference.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ysalloum/pulsedesk/internal/db"
)

const lockStripes = 64

// Store manages persistence of customer profiles and interaction logs.
type Store struct {
	db         *db.DB
	historyCap int
	locks      [lockStripes]sync.Mutex
}

// NewStore creates a memory store with the given per-customer history cap.
func NewStore(database *db.DB, historyCap int) (*Store, error) {
	if historyCap <= 0 {
		return nil, fmt.Errorf("history cap must be positive, got %d", historyCap)
	}
	return &Store{db: database, historyCap: historyCap}, nil
}

// lockFor maps a customer id onto its lock stripe.
func (s *Store) lockFor(customerID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(customerID))
	return &s.locks[h.Sum32()%lockStripes]
}

// GetOrCreate returns the profile for customerID, creating a minimal one on
// first contact: formal tone, language "ar", channel set to the inbound one.
func (s *Store) GetOrCreate(ctx context.Context, customerID, name, channel string) (*CustomerProfile, error) {
	mu := s.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := s.get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	if channel == "" {
		channel = "web"
	}
	now := time.Now().UTC()
	profile = &CustomerProfile{
		ID:        customerID,
		Name:      name,
		Channel:   channel,
		Language:  "ar",
		Tone:      ToneFormal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, channel, language, tone, needs, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '[]', ?, ?)`,
		profile.ID, profile.Name, profile.Channel, profile.Language, string(profile.Tone),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating customer %s: %w", customerID, err)
	}
	return profile, nil
}

// get reads a profile without locking; callers hold the customer lock.
func (s *Store) get(ctx context.Context, customerID string) (*CustomerProfile, error) {
	var p CustomerProfile
	var tone, needsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, channel, language, tone, needs, created_at, updated_at
		 FROM customers WHERE id = ?`, customerID,
	).Scan(&p.ID, &p.Name, &p.Channel, &p.Language, &tone, &needsJSON, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading customer %s: %w", customerID, err)
	}
	p.Tone = Tone(tone)
	if err := json.Unmarshal([]byte(needsJSON), &p.Needs); err != nil {
		p.Needs = nil
	}
	return &p, nil
}

// Get returns the profile for customerID, or nil when unknown.
func (s *Store) Get(ctx context.Context, customerID string) (*CustomerProfile, error) {
	mu := s.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()
	return s.get(ctx, customerID)
}

// formalMarkers and casualMarkers drive tone learning. Last write wins:
// a single marker in the current message overrides the stored preference.
var formalMarkers = []string{"please", "kindly", "dear", "لو سمحت", "من فضلك", "حضرتك", "تكرم"}
var casualMarkers = []string{"hey", "yo", "bro", "هلا", "هاي", "يا صاحبي", "شلونك"}

// LearnPreferences updates the learned tone and preferred channel from one
// inbound message. No marker means no change.
func (s *Store) LearnPreferences(ctx context.Context, customerID, message, channel string) error {
	mu := s.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	lower := strings.ToLower(message)
	tone := ""
	for _, m := range casualMarkers {
		if strings.Contains(lower, m) {
			tone = string(ToneCasual)
			break
		}
	}
	for _, m := range formalMarkers {
		if strings.Contains(lower, m) {
			tone = string(ToneFormal)
			break
		}
	}

	if tone == "" && channel == "" {
		return nil
	}

	query := `UPDATE customers SET updated_at = ?`
	args := []interface{}{time.Now().UTC()}
	if tone != "" {
		query += `, tone = ?`
		args = append(args, tone)
	}
	if channel != "" {
		query += `, channel = ?`
		args = append(args, channel)
	}
	query += ` WHERE id = ?`
	args = append(args, customerID)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating preferences for %s: %w", customerID, err)
	}
	return nil
}

// AppendInteraction appends one record to the customer's log and evicts the
// oldest entries past the cap, inside a single transaction. The per-customer
// lock makes the seq assignment race-free.
func (s *Store) AppendInteraction(ctx context.Context, customerID string, rec InteractionRecord) error {
	mu := s.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	if rec.Outcome == "" {
		rec.Outcome = OutcomePending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting append transaction: %w", err)
	}
	defer tx.Rollback()

	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM interactions WHERE customer_id = ?`, customerID,
	).Scan(&maxSeq); err != nil {
		return fmt.Errorf("reading log position for %s: %w", customerID, err)
	}
	seq := maxSeq.Int64 + 1

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interactions (id, customer_id, seq, occurred_at, specialist_id, channel, summary, sentiment, outcome, follow_up)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, customerID, seq, rec.OccurredAt, rec.SpecialistID, rec.Channel,
		rec.Summary, rec.Sentiment, string(rec.Outcome), boolToInt(rec.FollowUp),
	)
	if err != nil {
		return fmt.Errorf("inserting interaction for %s: %w", customerID, err)
	}

	// FIFO eviction keeps the log at the cap.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM interactions WHERE customer_id = ? AND seq <= ?`,
		customerID, seq-int64(s.historyCap),
	)
	if err != nil {
		return fmt.Errorf("evicting old interactions for %s: %w", customerID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append for %s: %w", customerID, err)
	}
	return nil
}

// ContextWindow returns at most maxEntries of the customer's most recent
// records in chronological order (oldest first). It is a pure read.
func (s *Store) ContextWindow(ctx context.Context, customerID string, maxEntries int) ([]InteractionRecord, error) {
	if maxEntries <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, occurred_at, specialist_id, channel, summary, sentiment, outcome, follow_up
		 FROM interactions WHERE customer_id = ?
		 ORDER BY seq DESC LIMIT ?`, customerID, maxEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("querying interactions for %s: %w", customerID, err)
	}
	defer rows.Close()

	var recent []InteractionRecord
	for rows.Next() {
		var rec InteractionRecord
		var outcome string
		var followUp int
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.OccurredAt, &rec.SpecialistID,
			&rec.Channel, &rec.Summary, &rec.Sentiment, &outcome, &followUp); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		rec.FollowUp = followUp != 0
		recent = append(recent, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}

	// Rows came newest-first; reverse into chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// LogLength returns the number of records currently held for the customer.
func (s *Store) LogLength(ctx context.Context, customerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interactions WHERE customer_id = ?`, customerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting interactions for %s: %w", customerID, err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
