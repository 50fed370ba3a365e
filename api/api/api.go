/* api.go
 * This file contains the public methods for interacting with this package. Transports hand every inbound
 * command to Handle and send back the reply it returns. For the command set see `commands.go`
 */

package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	apperrors "poolmanager-bot/api/errors"
	"poolmanager-bot/api/logic"
	"poolmanager-bot/api/shared"
	"poolmanager-bot/api/store"
	"poolmanager-bot/logger"
)

// API routes inbound commands against the shared store
type API struct {
	Store     store.Interface
	Messenger shared.Messenger

	admins      map[string]struct{}
	location    *time.Location
	clock       func() time.Time
	concurrency int
	log         *logger.Logger

	// deliveries tracks fan-outs still running after their command returned
	deliveries sync.WaitGroup
}

// NewAPI creates a new API instance with the provided store, messenger and configuration
func NewAPI(s store.Interface, m shared.Messenger, cfg Config) (*API, error) {
	if s == nil || m == nil {
		return nil, fmt.Errorf("store and messenger are required")
	}

	admins := make(map[string]struct{}, len(cfg.Admins))
	for _, admin := range cfg.Admins {
		if admin = strings.TrimSpace(admin); admin != "" {
			admins[admin] = struct{}{}
		}
	}

	a := &API{
		Store:       s,
		Messenger:   m,
		admins:      admins,
		location:    cfg.Location,
		clock:       cfg.Clock,
		concurrency: cfg.DeliveryConcurrency,
		log:         cfg.Logger,
	}
	if a.location == nil {
		a.location = time.Local
	}
	if a.clock == nil {
		a.clock = time.Now
	}
	if a.concurrency <= 0 {
		a.concurrency = shared.DefaultConcurrency
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	return a, nil
}

// IsAdmin reports whether the identity is on the admin allow-list
func (a *API) IsAdmin(identity string) bool {
	_, ok := a.admins[identity]
	return ok
}

// Handle applies one inbound command from sender and returns the reply text.
// Preconditions: sender is the transport identity of the author, command the raw text they sent
// Postconditions: At most one state transition is persisted. The error is non-nil when sender is empty
// or when the store could not be read or written, in which case the returned reply is a generic apology
func (a *API) Handle(ctx context.Context, command string, sender string) (string, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return "", apperrors.InvalidInput("sender identity is required")
	}

	msg := parseMessage(command)
	now := a.clock()
	a.log.Debug("command received", "sender", sender, "keyword", msg.keyword)

	var result outcome
	err := a.Store.Update(ctx, func(doc *store.Document) (bool, error) {
		// Update may run this more than once on write conflicts, so the outcome is rebuilt each time
		result = a.route(doc, msg, sender, now)
		return result.changed, nil
	})
	if err != nil {
		a.log.Error("command not persisted", "sender", sender, "keyword", msg.keyword, "error", err)
		return replyStoreError, err
	}

	if result.event != "" {
		a.log.Info(result.event, "sender", sender)
	}
	if len(result.deliveries) > 0 {
		a.dispatch(ctx, result.deliveries)
	}
	return result.reply, nil
}

// Wait blocks until every fan-out started by Handle has finished
func (a *API) Wait() {
	a.deliveries.Wait()
}

// dispatch sends deliveries in the background so a long broadcast never holds up the reply.
// The sends outlive the request, so they are detached from its cancellation
func (a *API) dispatch(ctx context.Context, deliveries []shared.Delivery) {
	sendCtx := context.WithoutCancel(ctx)
	a.deliveries.Add(1)
	go func() {
		defer a.deliveries.Done()
		report := shared.DeliverAll(sendCtx, a.Messenger, deliveries, a.concurrency, func(d shared.Delivery, err error) {
			a.log.Warn("delivery failed", "to", d.To, "error", err)
		})
		a.log.Info("broadcast delivered", "sent", report.Sent, "failed", report.Failed)
	}()
}

// route evaluates the rules in priority order. The first rule that matches decides the outcome
func (a *API) route(doc *store.Document, msg message, sender string, now time.Time) outcome {
	if !doc.IsKnownUser(sender) {
		doc.AddUser(sender)
		return outcome{reply: replyWelcome, changed: true, event: "user onboarded"}
	}

	if a.IsAdmin(sender) {
		switch msg.keyword {
		case "crear_pool", "create_pool":
			return a.createPool(doc, msg)
		case "notificar", "notify":
			return a.notify(doc, msg)
		}
	}

	switch msg.keyword {
	case "lista_pools", "list_pools":
		return replyOnly(formatPoolList(doc.Pools, now, a.location))
	case "apuntarme_alerta":
		return a.addAlert(doc, msg, sender, now)
	case "apuntarme":
		return a.signup(doc, msg, sender, now)
	case "quitarme":
		return a.withdraw(doc, msg, sender)
	}

	if logic.IsSelection(msg.normalized) {
		return a.selectPool(doc, msg, sender, now)
	}

	if _, ok := doc.Pending(sender); ok {
		return a.completeSelection(doc, msg, sender)
	}

	switch msg.keyword {
	case "mis_pools":
		return replyOnly(formatMyPools(doc.Pools, sender))
	case "ayuda", "help":
		return replyOnly(replyHelp)
	}

	return replyOnly(replyUnknown)
}

// parseMessage splits the command once; every rule reads from the result
func parseMessage(command string) message {
	raw := strings.TrimSpace(command)
	msg := message{raw: raw, normalized: logic.Normalize(raw)}

	keyword, trailing := raw, ""
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		keyword, trailing = raw[:i], raw[i:]
	}
	msg.keyword = strings.ToLower(keyword)
	msg.trailing = strings.TrimSpace(trailing)

	tokens, err := logic.Tokenize(msg.trailing)
	msg.args = tokens
	msg.argsErr = err
	return msg
}
