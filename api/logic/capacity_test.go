/* capacity_test.go
 * Contains unit tests for capacity.go
 */

package logic

import (
	"testing"
	"time"

	"poolmanager-bot/api/store"

	"github.com/stretchr/testify/assert"
)

func samplePool(maxCourts int, players ...store.Registration) store.Pool {
	pool := store.CreateSamplePool("padel_martes", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), maxCourts)
	pool.Players = append(pool.Players, players...)
	return pool
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 4, Capacity(samplePool(1)))
	assert.Equal(t, 12, Capacity(samplePool(3)))
}

func TestSlotsFor(t *testing.T) {
	tests := []struct {
		name string
		reg  store.Registration
		want int
	}{
		{"solo", store.Registration{User: "u1"}, 1},
		{"with partner", store.Registration{User: "u1", Partner: "+34600000002"}, 2},
		{"blank partner", store.Registration{User: "u1", Partner: "   "}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsFor(tt.reg))
		})
	}
}

func TestOccupiedAndFreeSlots(t *testing.T) {
	pool := samplePool(1,
		store.Registration{User: "u1"},
		store.Registration{User: "u2", Partner: "p2"},
	)

	assert.Equal(t, 3, OccupiedSlots(pool))
	assert.Equal(t, 1, FreeSlots(pool))
}

func TestFreeSlots_EmptyPool(t *testing.T) {
	assert.Equal(t, 8, FreeSlots(samplePool(2)))
}

func TestCanFit(t *testing.T) {
	pool := samplePool(1,
		store.Registration{User: "u1"},
		store.Registration{User: "u2", Partner: "p2"},
	)

	assert.True(t, CanFit(pool, store.Registration{User: "u3"}))
	assert.False(t, CanFit(pool, store.Registration{User: "u3", Partner: "p3"}))
}

// Registering solo adds exactly one occupied slot, with a partner exactly two
func TestOccupiedSlots_Increments(t *testing.T) {
	pool := samplePool(2)

	before := OccupiedSlots(pool)
	pool.Players = append(pool.Players, store.Registration{User: "u1"})
	assert.Equal(t, before+1, OccupiedSlots(pool))

	before = OccupiedSlots(pool)
	pool.Players = append(pool.Players, store.Registration{User: "u2", Partner: "p"})
	assert.Equal(t, before+2, OccupiedSlots(pool))
}
