package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(id, userID string, hub *Hub) *Client {
	return NewClient(id, userID, nil, hub)
}

func receive(t *testing.T, c *Client) *ServerMessage {
	t.Helper()
	select {
	case raw := <-c.SendChannel:
		var msg ServerMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return &msg
	default:
		t.Fatal("expected a delivered event")
		return nil
	}
}

func TestRoomID(t *testing.T) {
	t.Run("StableAndHex", func(t *testing.T) {
		a := RoomID("user-1")
		assert.Equal(t, a, RoomID("user-1"))
		assert.Len(t, a, 64)
	})

	t.Run("DistinctPerUser", func(t *testing.T) {
		assert.NotEqual(t, RoomID("user-1"), RoomID("user-2"))
	})
}

func TestHubPublish(t *testing.T) {
	t.Run("FanOutToAllRoomMembers", func(t *testing.T) {
		hub := NewHub()
		room := RoomID("user-1")

		// same user on two devices
		phone := testClient("c-phone", "user-1", hub)
		laptop := testClient("c-laptop", "user-1", hub)
		hub.JoinRoom(room, phone)
		hub.JoinRoom(room, laptop)

		hub.Publish(room, EventNewNotification, map[string]string{"id": "n-1"})

		for _, c := range []*Client{phone, laptop} {
			msg := receive(t, c)
			assert.Equal(t, EventNewNotification, msg.Event)
		}
	})

	t.Run("RoomsAreIsolated", func(t *testing.T) {
		hub := NewHub()
		alice := testClient("c-alice", "user-1", hub)
		bob := testClient("c-bob", "user-2", hub)
		hub.JoinRoom(RoomID("user-1"), alice)
		hub.JoinRoom(RoomID("user-2"), bob)

		hub.Publish(RoomID("user-1"), EventNewNotification, "for alice only")

		receive(t, alice)
		assert.Empty(t, bob.SendChannel)
	})

	t.Run("EmptyRoomIsNoOp", func(t *testing.T) {
		hub := NewHub()
		assert.NotPanics(t, func() {
			hub.Publish(RoomID("nobody-here"), EventNewNotification, "dropped")
		})
	})
}

func TestHubMembership(t *testing.T) {
	t.Run("DisconnectDropsEmptyRoom", func(t *testing.T) {
		hub := NewHub()
		room := RoomID("user-1")
		c := testClient("c-1", "user-1", hub)
		hub.JoinRoom(room, c)
		assert.Equal(t, 1, hub.RoomCount())

		hub.RemoveClient(c)
		assert.Equal(t, 0, hub.RoomCount())

		// event after disconnect goes nowhere
		hub.Publish(room, EventNewNotification, "late")
		assert.Empty(t, c.SendChannel)
	})

	t.Run("RoomSurvivesWhileAMemberRemains", func(t *testing.T) {
		hub := NewHub()
		room := RoomID("user-1")
		first := testClient("c-1", "user-1", hub)
		second := testClient("c-2", "user-1", hub)
		hub.JoinRoom(room, first)
		hub.JoinRoom(room, second)

		hub.RemoveClient(first)
		assert.Equal(t, 1, hub.RoomCount())

		hub.Publish(room, EventNewNotification, "still delivered")
		receive(t, second)
	})

	t.Run("DuplicateJoinKeepsOneMember", func(t *testing.T) {
		hub := NewHub()
		room := RoomID("user-1")
		c := testClient("c-1", "user-1", hub)
		hub.JoinRoom(room, c)
		hub.JoinRoom(room, c)

		hub.Publish(room, EventNewNotification, "once")
		receive(t, c)
		assert.Empty(t, c.SendChannel)
	})
}

func TestRoomBroadcastBackpressure(t *testing.T) {
	room := NewRoom("r-1")
	c := testClient("c-1", "user-1", NewHub())
	room.AddClient(c)

	// fill the send buffer; further events must be dropped, not block
	for i := 0; i < cap(c.SendChannel); i++ {
		c.SendChannel <- []byte("x")
	}
	done := make(chan struct{})
	go func() {
		room.Broadcast([]byte("overflow"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}
