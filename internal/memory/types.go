package memory

import "time"

// Tone is a customer's learned conversational tone preference.
type Tone string

const (
	ToneFormal Tone = "formal"
	ToneCasual Tone = "casual"
)

// Outcome is the recorded result of one interaction turn.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomePending   Outcome = "pending"
	OutcomeEscalated Outcome = "escalated"
)

// CustomerProfile is the durable per-customer record. The store creates it
// lazily on first contact and never deletes it automatically.
type CustomerProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Channel   string    `json:"channel"`
	Language  string    `json:"language"`
	Tone      Tone      `json:"tone"`
	Needs     []string  `json:"needs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InteractionRecord is one logged turn in a customer's bounded history.
type InteractionRecord struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	SpecialistID string    `json:"specialist_id"`
	Channel      string    `json:"channel"`
	Summary      string    `json:"summary"`
	Sentiment    string    `json:"sentiment"`
	Outcome      Outcome   `json:"outcome"`
	FollowUp     bool      `json:"follow_up"`
}
