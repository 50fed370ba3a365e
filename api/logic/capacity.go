/* capacity.go
 * Contains the capacity calculator: how many player slots a pool has, uses and has left
 */

package logic

import (
	"strings"

	"poolmanager-bot/api/store"
)

// SlotsPerCourt is the number of players a single court holds
const SlotsPerCourt = 4

// Capacity returns the total number of player slots of a pool
func Capacity(pool store.Pool) int {
	return pool.MaxCourts * SlotsPerCourt
}

// SlotsFor returns the slots a registration consumes: two with a partner, one without.
// A partner made only of whitespace does not count
func SlotsFor(reg store.Registration) int {
	if strings.TrimSpace(reg.Partner) != "" {
		return 2
	}
	return 1
}

// OccupiedSlots sums the slots taken by every registration in the pool
func OccupiedSlots(pool store.Pool) int {
	total := 0
	for _, reg := range pool.Players {
		total += SlotsFor(reg)
	}
	return total
}

// FreeSlots returns capacity minus occupied slots. It can be negative for data that was
// over-booked before limits were enforced
func FreeSlots(pool store.Pool) int {
	return Capacity(pool) - OccupiedSlots(pool)
}

// CanFit reports whether the registration fits in what is left of the pool
func CanFit(pool store.Pool, reg store.Registration) bool {
	return FreeSlots(pool) >= SlotsFor(reg)
}
