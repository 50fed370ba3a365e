/* models.go
 * This file contain the interfaces and structs that are shared between sub packages
 */

package shared

import "context"

// Messenger is the outbound side of the messaging transport: deliver text to an identity.
// Identities are opaque handles such as "whatsapp:+34600111222" or a free-text phone number
// typed in as a partner
type Messenger interface {
	Send(ctx context.Context, identity string, text string) error
}

// Delivery is one outbound message waiting to be sent
type Delivery struct {
	To   string
	Text string
}

// DeliveryReport summarises a fan-out of deliveries
type DeliveryReport struct {
	Sent   int
	Failed int
}

// MessengerFunc adapts a function to the Messenger interface
type MessengerFunc func(ctx context.Context, identity string, text string) error

func (f MessengerFunc) Send(ctx context.Context, identity string, text string) error {
	return f(ctx, identity, text)
}
