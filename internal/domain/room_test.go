package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomMembership(t *testing.T) {
	r := &Room{OwnerID: "alice", Members: []string{"alice", "bob"}}

	assert.True(t, r.IsOwner("alice"))
	assert.False(t, r.IsOwner("bob"))
	assert.True(t, r.HasMember("bob"))
	assert.False(t, r.HasMember("carol"))
}

func TestApplyDetails(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{Title: "old", CreatedAt: created}

	later := created.Add(time.Hour)
	r.ApplyDetails(&RoomPayload{Title: "new", Description: "d", Avatar: "a.png"}, later)

	assert.Equal(t, "new", r.Title)
	assert.Equal(t, "d", r.Description)
	assert.Equal(t, "a.png", r.Avatar)
	require.NotNil(t, r.UpdatedAt)
	assert.Equal(t, later, *r.UpdatedAt)
}

func TestApplyDetailsNeverMovesBackwards(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{CreatedAt: created}

	// clock behind creation
	r.ApplyDetails(&RoomPayload{}, created.Add(-time.Minute))
	require.NotNil(t, r.UpdatedAt)
	assert.Equal(t, created, *r.UpdatedAt)

	first := created.Add(time.Hour)
	r.ApplyDetails(&RoomPayload{}, first)
	r.ApplyDetails(&RoomPayload{}, first.Add(-time.Second))
	assert.Equal(t, first, *r.UpdatedAt)
}

func TestModelConversionCopiesMembers(t *testing.T) {
	r := &Room{ID: "r1", OwnerID: "alice", Members: []string{"alice", "bob", "bob"}}
	m := RoomToModel(r)
	m.Members[0] = "mallory"

	assert.Equal(t, "alice", r.Members[0])

	back := m.ToDomain()
	assert.Equal(t, []string{"mallory", "bob", "bob"}, back.Members)
	assert.Nil(t, back.UpdatedAt)
}

func TestMessageModelConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := &Message{ID: "m1", Message: "hi", SenderID: "bob", RoomID: "r1", CreatedAt: now}

	assert.Equal(t, msg, MessageToModel(msg).ToDomain())
}
