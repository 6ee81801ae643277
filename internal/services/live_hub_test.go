package services

import (
	"errors"
	"os"
	"testing"

	"github.com/nossoespaco/server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

type fakeLiveConn struct {
	closed   bool
	events   []ChangeEvent
	writeErr error
}

func (c *fakeLiveConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.events = append(c.events, v.(ChangeEvent))
	return nil
}

func (c *fakeLiveConn) Close() error {
	c.closed = true
	return nil
}

func TestLiveHub_PublishToSubscribed(t *testing.T) {
	hub := NewLiveHub()
	conn := &fakeLiveConn{}
	hub.Register("user1", conn)
	hub.Subscribe("user1", []string{"notes"})

	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "create", ID: "n1"})
	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "dreams", Action: "create", ID: "d1"})

	require.Len(t, conn.events, 1)
	assert.Equal(t, "n1", conn.events[0].ID)
}

func TestLiveHub_RegisterReplacesAndClosesPrevious(t *testing.T) {
	hub := NewLiveHub()
	first := &fakeLiveConn{}
	second := &fakeLiveConn{}

	hub.Register("user1", first)
	hub.Register("user1", second)
	hub.Subscribe("user1", []string{"notes"})

	assert.True(t, first.closed)

	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "create", ID: "n1"})
	assert.Empty(t, first.events)
	assert.Len(t, second.events, 1)
}

func TestLiveHub_UnregisterStaleConnKeepsReplacement(t *testing.T) {
	hub := NewLiveHub()
	stale := &fakeLiveConn{}
	replacement := &fakeLiveConn{}

	hub.Register("user1", stale)
	hub.Register("user1", replacement)
	hub.Subscribe("user1", []string{"notes"})

	// The stale handler unwinds after its client reconnected. Its
	// deferred unregister must not drop the replacement connection.
	hub.Unregister("user1", stale)

	assert.False(t, replacement.closed)
	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "update", ID: "n1"})
	assert.Len(t, replacement.events, 1)
}

func TestLiveHub_UnregisterCurrentConn(t *testing.T) {
	hub := NewLiveHub()
	conn := &fakeLiveConn{}

	hub.Register("user1", conn)
	hub.Subscribe("user1", []string{"notes"})
	hub.Unregister("user1", conn)

	assert.True(t, conn.closed)
	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "create", ID: "n1"})
	assert.Empty(t, conn.events)
}

func TestLiveHub_FailedWriteDropsConnection(t *testing.T) {
	hub := NewLiveHub()
	conn := &fakeLiveConn{writeErr: errors.New("broken pipe")}

	hub.Register("user1", conn)
	hub.Subscribe("user1", []string{"notes"})

	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "create", ID: "n1"})
	assert.True(t, conn.closed)

	conn.writeErr = nil
	hub.Publish([]string{"user1"}, ChangeEvent{Collection: "notes", Action: "create", ID: "n2"})
	assert.Empty(t, conn.events)
}
