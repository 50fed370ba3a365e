/* models.go
 * This file contain the structs used by api consumers and the internal outcome of a routed command
 */

package api

import (
	"time"

	"poolmanager-bot/api/shared"
	"poolmanager-bot/logger"
)

// Config holds the optional settings of the command router. Zero values fall back to defaults
type Config struct {
	// Admins are the identities allowed to run crear_pool and notificar
	Admins []string
	// Location is used for zone-less opening times and for displaying them
	Location *time.Location
	// Clock returns the current instant; tests pin it
	Clock               func() time.Time
	DeliveryConcurrency int
	Logger              *logger.Logger
}

// outcome is what a routing rule decided: the reply, whether the document changed, and the
// messages to send once the change is committed
type outcome struct {
	reply      string
	changed    bool
	deliveries []shared.Delivery
	// event names the state change for the log; empty when nothing changed
	event string
}

func replyOnly(text string) outcome {
	return outcome{reply: text}
}

// message is an inbound command split the ways the rules need it
type message struct {
	raw        string
	normalized string
	keyword    string
	// args are the quote-aware tokens after the keyword, case preserved
	args     []string
	argsErr  error
	trailing string
}
