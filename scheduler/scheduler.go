/* scheduler.go
 * Contains the notification scheduler: a background loop that watches for pools whose registration has
 * opened and tells everyone who asked to be notified. It shares the store with the command router
 */

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poolmanager-bot/api/shared"
	"poolmanager-bot/api/store"
	"poolmanager-bot/logger"
)

const DefaultInterval = 60 * time.Second

// TickResult summarises one pass of the scheduler
type TickResult struct {
	// Announced is the number of pools flipped to announced
	Announced int
	Delivered int
	Failed    int
}

type Scheduler struct {
	store       store.Interface
	messenger   shared.Messenger
	log         *logger.Logger
	interval    time.Duration
	clock       func() time.Time
	concurrency int

	stop     chan struct{}
	stopOnce sync.Once
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(st store.Interface, m shared.Messenger, log *logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		store:       st,
		messenger:   m,
		log:         log,
		interval:    DefaultInterval,
		clock:       time.Now,
		concurrency: shared.DefaultConcurrency,
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs a tick immediately and then one per interval until ctx is done or Stop is called.
// Preconditions: Called once; blocks, so callers usually run it in its own goroutine
// Postconditions: Returns nil on Stop and the context error on cancellation
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("scheduler started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped", "reason", ctx.Err().Error())
			return ctx.Err()
		case <-s.stop:
			s.log.Info("scheduler stopped", "reason", "stop requested")
			return nil
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

// Stop ends Start. Safe to call more than once
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// runTick is one supervised tick: a failure or panic is logged and the loop carries on
func (s *Scheduler) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduler tick panicked", "panic", fmt.Sprint(r))
		}
	}()

	result, err := s.Tick(ctx, s.clock())
	if err != nil {
		s.log.Error("scheduler tick failed", "error", err)
		return
	}
	if result.Announced > 0 {
		s.log.Info("pools announced", "pools", result.Announced, "delivered", result.Delivered, "failed", result.Failed)
	}
}

// Tick announces every pool whose registration has opened by now.
// Preconditions: now is the instant compared with each pool's opening time
// Postconditions: All qualifying pools are marked announced with their interested lists cleared in a
// single store write. Notices go out only after that write succeeds, so a crash in between loses them
// rather than sending them twice
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (TickResult, error) {
	var result TickResult
	var notices []shared.Delivery

	err := s.store.Update(ctx, func(doc *store.Document) (bool, error) {
		result = TickResult{}
		notices = nil
		for i := range doc.Pools {
			pool := &doc.Pools[i]
			if pool.Announced || !pool.IsOpen(now) {
				continue
			}
			for _, identity := range pool.Interested {
				notices = append(notices, shared.Delivery{To: identity, Text: OpeningNotice(*pool)})
			}
			pool.Announced = true
			pool.Interested = []string{}
			result.Announced++
		}
		return result.Announced > 0, nil
	})
	if err != nil {
		return TickResult{}, fmt.Errorf("announcing opened pools: %w", err)
	}

	if len(notices) > 0 {
		report := shared.DeliverAll(ctx, s.messenger, notices, s.concurrency, func(d shared.Delivery, err error) {
			s.log.Warn("opening notice not delivered", "to", d.To, "error", err)
		})
		result.Delivered = report.Sent
		result.Failed = report.Failed
	}
	return result, nil
}

// OpeningNotice is the message interested users receive once registration opens
func OpeningNotice(pool store.Pool) string {
	return fmt.Sprintf("📢 La inscripción para %s ya está abierta. Envía 'lista_pools' y elige su número, o 'apuntarme %s' para unirte.",
		pool.Name, pool.ID)
}
