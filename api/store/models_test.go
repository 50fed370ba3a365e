/* models_test.go
 * Contains unit tests for models.go functions
 */

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpenAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// region Document tests

func TestAddUser_OnlyOnce(t *testing.T) {
	doc := NewDocument()

	assert.True(t, doc.AddUser("u1"))
	assert.False(t, doc.AddUser("u1"))
	assert.True(t, doc.IsKnownUser("u1"))
	assert.Len(t, doc.Users, 1)
}

func TestFindPool(t *testing.T) {
	doc := CreateSampleDocument(nil, CreateSamplePool("a", testOpenAt, 1), CreateSamplePool("b", testOpenAt, 1))

	pool := doc.FindPool("b")
	require.NotNil(t, pool)
	pool.Announced = true

	assert.True(t, doc.Pools[1].Announced, "FindPool must return a pointer into the document")
	assert.Nil(t, doc.FindPool("missing"))
	assert.Equal(t, []string{"a", "b"}, doc.PoolIDs())
}

func TestPending_ReplaceAndClear(t *testing.T) {
	doc := NewDocument()

	doc.SetPending("u1", 0)
	doc.SetPending("u1", 2)
	idx, ok := doc.Pending("u1")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	doc.ClearPending("u1")
	_, ok = doc.Pending("u1")
	assert.False(t, ok)
}

func TestSetPending_NilMap(t *testing.T) {
	doc := &Document{}
	doc.SetPending("u1", 1)

	idx, ok := doc.Pending("u1")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestClone_IsDeep(t *testing.T) {
	pool := CreateSamplePool("a", testOpenAt, 1)
	pool.Players = append(pool.Players, Registration{User: "u1"})
	doc := CreateSampleDocument([]string{"u1"}, pool)
	doc.SetPending("u1", 0)

	clone := doc.Clone()
	clone.Pools[0].Players[0].User = "changed"
	clone.Pools[0].Interested = append(clone.Pools[0].Interested, "x")
	clone.Users[0] = "changed"
	clone.SetPending("u1", 5)

	assert.Equal(t, "u1", doc.Pools[0].Players[0].User)
	assert.Empty(t, doc.Pools[0].Interested)
	assert.Equal(t, "u1", doc.Users[0])
	idx, _ := doc.Pending("u1")
	assert.Equal(t, 0, idx)
}

// endregion

// region Pool tests

func TestIsOpen_Boundary(t *testing.T) {
	pool := CreateSamplePool("a", testOpenAt, 1)

	assert.False(t, pool.IsOpen(testOpenAt.Add(-time.Second)))
	assert.True(t, pool.IsOpen(testOpenAt))
	assert.True(t, pool.IsOpen(testOpenAt.Add(time.Hour)))
}

func TestAddInterested_Idempotent(t *testing.T) {
	pool := CreateSamplePool("a", testOpenAt, 1)

	assert.True(t, pool.AddInterested("u1"))
	assert.False(t, pool.AddInterested("u1"))
	assert.Equal(t, []string{"u1"}, pool.Interested)
}

func TestRemovePlayer(t *testing.T) {
	pool := CreateSamplePool("a", testOpenAt, 2)
	pool.Players = []Registration{{User: "u1"}, {User: "u2", Partner: "p"}, {User: "u1", Partner: "q"}}

	assert.True(t, pool.HasPlayer("u1"))
	assert.Len(t, pool.PlayersFor("u1"), 2)
	assert.Equal(t, 2, pool.RemovePlayer("u1"))
	assert.False(t, pool.HasPlayer("u1"))
	assert.Equal(t, 0, pool.RemovePlayer("u1"))
	assert.Equal(t, []Registration{{User: "u2", Partner: "p"}}, pool.Players)
}

// endregion
