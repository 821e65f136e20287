package dispatch

import "context"

// Telephony places outbound calls through an external provider. PlaceCall
// returns the provider-assigned reference id on success.
type Telephony interface {
	PlaceCall(ctx context.Context, to, message string) (string, error)
}

// Messenger sends one outbound message to one address. Bulk sends invoke it
// once per recipient.
type Messenger interface {
	Send(ctx context.Context, to, message string) (string, error)
}
