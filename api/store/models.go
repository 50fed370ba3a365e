/* models.go
 * This file contain the structs and helper methods that relate to the persisted document: pools,
 * known users and pending selections
 */

package store

import (
	"slices"
	"time"
)

// Side is the court side a player asked for. Values outside the known ones are kept as typed
type Side string

const (
	SideRight  Side = "derecha"
	SideLeft   Side = "reves"
	SideEither Side = "da igual"
)

// Registration is one roster entry. A non-empty Partner means the entry takes two slots
type Registration struct {
	User    string `json:"user" bson:"user"`
	Partner string `json:"partner,omitempty" bson:"partner,omitempty"`
	Side    Side   `json:"side,omitempty" bson:"side,omitempty"`
}

type Pool struct {
	ID         string         `json:"id" bson:"id"`
	Name       string         `json:"name" bson:"name"`
	Price      float64        `json:"price" bson:"price"`
	Schedule   string         `json:"schedule" bson:"schedule"`
	OpenAt     time.Time      `json:"openAt" bson:"openAt"`
	MaxCourts  int            `json:"maxCourts" bson:"maxCourts"`
	Announced  bool           `json:"announced" bson:"announced"`
	Players    []Registration `json:"players" bson:"players"`
	Interested []string       `json:"interested" bson:"interested"`
}

// Document is the whole persisted state. Pool order is the numbering users see in listings
type Document struct {
	Pools      []Pool         `json:"pools" bson:"pools"`
	Users      []string       `json:"usuarios" bson:"usuarios"`
	Selections map[string]int `json:"seleccion_temp,omitempty" bson:"-"`
}

// NewDocument returns the empty state used when nothing has been persisted yet
func NewDocument() *Document {
	return &Document{
		Pools:      []Pool{},
		Users:      []string{},
		Selections: map[string]int{},
	}
}

// normalize replaces nil collections left by decoding so callers never have to nil-check
func (d *Document) normalize() {
	if d.Pools == nil {
		d.Pools = []Pool{}
	}
	if d.Users == nil {
		d.Users = []string{}
	}
	if d.Selections == nil {
		d.Selections = map[string]int{}
	}
	for i := range d.Pools {
		if d.Pools[i].Players == nil {
			d.Pools[i].Players = []Registration{}
		}
		if d.Pools[i].Interested == nil {
			d.Pools[i].Interested = []string{}
		}
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	out := &Document{
		Pools:      make([]Pool, len(d.Pools)),
		Users:      slices.Clone(d.Users),
		Selections: make(map[string]int, len(d.Selections)),
	}
	for i, p := range d.Pools {
		p.Players = slices.Clone(p.Players)
		p.Interested = slices.Clone(p.Interested)
		out.Pools[i] = p
	}
	for k, v := range d.Selections {
		out.Selections[k] = v
	}
	out.normalize()
	return out
}

func (d *Document) IsKnownUser(user string) bool {
	return slices.Contains(d.Users, user)
}

// AddUser records a user as onboarded. Returns false when the user was already known
func (d *Document) AddUser(user string) bool {
	if d.IsKnownUser(user) {
		return false
	}
	d.Users = append(d.Users, user)
	return true
}

// FindPool returns a pointer into Pools for the given id, or nil
func (d *Document) FindPool(id string) *Pool {
	for i := range d.Pools {
		if d.Pools[i].ID == id {
			return &d.Pools[i]
		}
	}
	return nil
}

// PoolIDs lists pool ids in document order
func (d *Document) PoolIDs() []string {
	ids := make([]string, 0, len(d.Pools))
	for _, p := range d.Pools {
		ids = append(ids, p.ID)
	}
	return ids
}

// Pending returns the pool index the user selected and is still completing
func (d *Document) Pending(user string) (int, bool) {
	idx, ok := d.Selections[user]
	return idx, ok
}

// SetPending records a selection, replacing any previous one for the same user
func (d *Document) SetPending(user string, poolIndex int) {
	if d.Selections == nil {
		d.Selections = map[string]int{}
	}
	d.Selections[user] = poolIndex
}

func (d *Document) ClearPending(user string) {
	delete(d.Selections, user)
}

// IsOpen reports whether registration for the pool has opened at the given instant
func (p *Pool) IsOpen(now time.Time) bool {
	return !now.Before(p.OpenAt)
}

// HasPlayer reports whether the user holds a registration in the pool
func (p *Pool) HasPlayer(user string) bool {
	return slices.ContainsFunc(p.Players, func(r Registration) bool { return r.User == user })
}

// AddInterested adds the user to the notify-on-open list. Returns false when already present
func (p *Pool) AddInterested(user string) bool {
	if slices.Contains(p.Interested, user) {
		return false
	}
	p.Interested = append(p.Interested, user)
	return true
}

// RemovePlayer drops every registration owned by the user and returns how many were removed
func (p *Pool) RemovePlayer(user string) int {
	before := len(p.Players)
	p.Players = slices.DeleteFunc(p.Players, func(r Registration) bool { return r.User == user })
	return before - len(p.Players)
}

// PlayersFor returns the registrations owned by the user
func (p *Pool) PlayersFor(user string) []Registration {
	var out []Registration
	for _, r := range p.Players {
		if r.User == user {
			out = append(out, r)
		}
	}
	return out
}
