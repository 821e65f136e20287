// Package intent classifies inbound free-text messages into a closed set of
// intents and extracts structured entities. Classification is deterministic
// keyword matching over bilingual trigger tables; absence of signal always
// degrades to defaults, never to an error.
package intent

// Label identifies one intent in the closed vocabulary.
type Label string

const (
	PriceInquiry     Label = "price_inquiry"
	TechnicalSupport Label = "technical_support"
	Complaint        Label = "complaint"
	Greeting         Label = "greeting"
	GeneralInquiry   Label = "general_inquiry"
)

// Urgency is the resolved urgency tier of a message.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Category is the business category an intent maps to.
type Category string

const (
	CategorySales     Category = "sales"
	CategorySupport   Category = "support"
	CategoryTechnical Category = "technical"
	CategoryGeneral   Category = "general"
)

// Entities holds the optional structured values extracted from a message.
// A zero value means the entity was absent; that is never an error.
type Entities struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// Result is the outcome of classifying one message. It is request-scoped:
// the router owns it and only its summary survives in the interaction log.
type Result struct {
	Intent     Label    `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
	Urgency    Urgency  `json:"urgency"`
	Category   Category `json:"category"`
	Specialist string   `json:"specialist"`
}
