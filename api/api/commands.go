/* commands.go
 * Contains one handler per routing rule. Handlers run inside a store transaction: they read and mutate
 * the document and describe the outcome, but never perform I/O themselves
 */

package api

import (
	"time"

	apperrors "poolmanager-bot/api/errors"
	"poolmanager-bot/api/logic"
	"poolmanager-bot/api/shared"
	"poolmanager-bot/api/store"
)

// createPool handles crear_pool "<name>" <price> <schedule> <openAt> <maxCourts>
func (a *API) createPool(doc *store.Document, msg message) outcome {
	if msg.argsErr != nil {
		return replyOnly(replyCreateUsage)
	}
	cmd, err := logic.ParseCreatePool(msg.args, a.location)
	if err != nil {
		a.log.Debug("crear_pool rejected", "error", err)
		return replyOnly(replyCreateUsage)
	}

	id := cmd.PoolID()
	if doc.FindPool(id) != nil {
		return replyOnly(replyDuplicatePool(id))
	}

	pool := cmd.ToPool()
	doc.Pools = append(doc.Pools, pool)
	return outcome{reply: replyPoolCreated(pool), changed: true, event: "pool created " + id}
}

// notify handles notificar <poolId> <message>. Each player and each named partner gets the message once
func (a *API) notify(doc *store.Document, msg message) outcome {
	cmd, err := logic.ParseNotify(msg.trailing)
	if err != nil {
		return replyOnly(replyNotifyUsage)
	}
	pool, ok := findPool(doc, cmd.PoolRef)
	if !ok {
		return replyOnly(replyPoolNotFound)
	}

	seen := make(map[string]struct{})
	var deliveries []shared.Delivery
	add := func(identity string) {
		if identity == "" {
			return
		}
		if _, dup := seen[identity]; dup {
			return
		}
		seen[identity] = struct{}{}
		deliveries = append(deliveries, shared.Delivery{To: identity, Text: cmd.Message})
	}
	for _, reg := range pool.Players {
		add(reg.User)
		if logic.SlotsFor(reg) == 2 {
			add(reg.Partner)
		}
	}

	return outcome{reply: replyNotified(*pool, len(deliveries)), deliveries: deliveries}
}

// selectPool handles a bare list number
func (a *API) selectPool(doc *store.Document, msg message, sender string, now time.Time) outcome {
	idx := logic.SelectionIndex(msg.normalized)
	if idx < 0 || idx >= len(doc.Pools) {
		return replyOnly(replyInvalidIndex)
	}

	pool := doc.Pools[idx]
	if !pool.IsOpen(now) {
		return replyOnly(replyNotOpenYet(pool, a.location))
	}
	if logic.FreeSlots(pool) <= 0 {
		return replyOnly(replyNoSlots(pool))
	}

	doc.SetPending(sender, idx)
	return outcome{reply: replyChooseSide(pool), changed: true}
}

// completeSelection turns a pending selection into a registration
func (a *API) completeSelection(doc *store.Document, msg message, sender string) outcome {
	idx, _ := doc.Pending(sender)
	completion, err := logic.ParseCompletion(msg.raw)
	if err != nil {
		return replyOnly(replyCompletionFmt)
	}

	// From here on the pending selection is consumed whatever the result
	doc.ClearPending(sender)
	if idx < 0 || idx >= len(doc.Pools) {
		return outcome{reply: replyInvalidIndex, changed: true}
	}

	pool := &doc.Pools[idx]
	reg := store.Registration{User: sender, Partner: completion.Partner, Side: completion.Side}
	if reply, ok := a.register(pool, reg); !ok {
		return outcome{reply: reply, changed: true}
	}
	return outcome{reply: replyRegistered(*pool, reg), changed: true, event: "registered in " + pool.ID}
}

// signup handles apuntarme <pool> [<partner>] [<side>]
func (a *API) signup(doc *store.Document, msg message, sender string, now time.Time) outcome {
	if msg.argsErr != nil {
		return replyOnly(replySignupUsage)
	}
	cmd, err := logic.ParseSignup(msg.args)
	if err != nil {
		return replyOnly(replySignupUsage)
	}
	pool, failure, ok := a.resolvePool(doc, cmd.PoolRef)
	if !ok {
		return failure
	}
	if !pool.IsOpen(now) {
		return replyOnly(replyNotOpenYet(*pool, a.location))
	}

	reg := store.Registration{User: sender, Partner: cmd.Partner, Side: cmd.Side}
	if reply, ok := a.register(pool, reg); !ok {
		return replyOnly(reply)
	}
	return outcome{reply: replyRegistered(*pool, reg), changed: true, event: "registered in " + pool.ID}
}

// register appends reg to the pool when the user is not in it yet and the slots are there.
// Returns the rejection reply and false otherwise
func (a *API) register(pool *store.Pool, reg store.Registration) (string, bool) {
	if pool.HasPlayer(reg.User) {
		return replyAlreadyRegistered(*pool), false
	}
	if !logic.CanFit(*pool, reg) {
		return replyNoSlots(*pool), false
	}
	pool.Players = append(pool.Players, reg)
	return "", true
}

// addAlert handles apuntarme_alerta <pool>
func (a *API) addAlert(doc *store.Document, msg message, sender string, now time.Time) outcome {
	if msg.argsErr != nil {
		return replyOnly(replyAlertUsage)
	}
	ref, err := logic.ParseSingleRef(msg.args)
	if err != nil {
		return replyOnly(replyAlertUsage)
	}
	pool, failure, ok := a.resolvePool(doc, ref)
	if !ok {
		return failure
	}
	if pool.Announced || pool.IsOpen(now) {
		return replyOnly(replyAlreadyOpen(*pool))
	}

	added := pool.AddInterested(sender)
	return outcome{reply: replyAlertSet(*pool), changed: added}
}

// withdraw handles quitarme <poolId>
func (a *API) withdraw(doc *store.Document, msg message, sender string) outcome {
	if msg.argsErr != nil {
		return replyOnly(replyWithdrawUsage)
	}
	ref, err := logic.ParseSingleRef(msg.args)
	if err != nil {
		return replyOnly(replyWithdrawUsage)
	}
	pool, ok := findPool(doc, ref)
	if !ok {
		return replyOnly(replyPoolNotFound)
	}

	if pool.RemovePlayer(sender) == 0 {
		return replyOnly(replyNotInPool(*pool))
	}
	return outcome{reply: replyWithdrawn(*pool), changed: true, event: "withdrawn from " + pool.ID}
}

// findPool looks a pool up by its exact id, or by a name deriving to it. Broadcasts and withdrawals
// go through here so a typo never lands on another pool
func findPool(doc *store.Document, ref string) (*store.Pool, bool) {
	id, err := logic.FindPoolID(ref, doc.PoolIDs())
	if err != nil {
		return nil, false
	}
	return doc.FindPool(id), true
}

// resolvePool maps a typed reference to a pool in doc, or to the reply explaining why it could not
func (a *API) resolvePool(doc *store.Document, ref string) (*store.Pool, outcome, bool) {
	id, err := logic.ResolvePoolID(ref, doc.PoolIDs())
	if err != nil {
		if apperrors.Is(err, apperrors.CodeInvalidInput) && len(doc.Pools) > 0 {
			return nil, replyOnly(replyAmbiguous(ref)), false
		}
		return nil, replyOnly(replyPoolNotFound), false
	}
	return doc.FindPool(id), outcome{}, true
}
