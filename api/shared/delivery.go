/* delivery.go
 * Contains the fan-out used whenever the bot has to message several people at once (admin broadcasts,
 * opening notices). Deliveries run concurrently up to a limit and a failed delivery never stops the rest
 */

package shared

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

// DeliverAll sends every delivery through m with at most concurrency sends in flight.
// Preconditions: m is non-nil; onFailure may be nil
// Postconditions: Returns how many deliveries were sent and how many failed. onFailure is called
// for each failed delivery, possibly from several goroutines at once
func DeliverAll(ctx context.Context, m Messenger, deliveries []Delivery, concurrency int, onFailure func(Delivery, error)) DeliveryReport {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, d := range deliveries {
		g.Go(func() error {
			if err := m.Send(ctx, d.To, d.Text); err != nil {
				failed.Add(1)
				if onFailure != nil {
					onFailure(d, err)
				}
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return DeliveryReport{Sent: int(sent.Load()), Failed: int(failed.Load())}
}
