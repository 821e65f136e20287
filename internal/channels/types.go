package channels

// Platform identifies the inbound messaging platform.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformWeb      Platform = "web"
)

// InboundMessage represents a customer message received from any platform.
type InboundMessage struct {
	Platform   Platform
	CustomerID string
	Name       string
	Text       string
	Timestamp  string
}
