package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger.com/internal/constants"
	"bizledger.com/internal/event"
	"bizledger.com/internal/infra"
	"bizledger.com/internal/testutil"
)

func TestNotificationService_QueuesMail(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	queue := infra.NewMailQueue(rdb)
	n := NewNotificationService(queue, "https://app.example.com/", nil)
	ctx := context.Background()

	err := n.Handle(ctx, event.Event{
		Type: constants.EventPasswordResetRequested,
		Data: AccountEvent{UserID: 1, Email: "ann@example.com", Username: "ann", Token: "abc123"},
	})
	require.NoError(t, err)

	msg, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "ann@example.com", msg.To)
	assert.Equal(t, "Reset Password", msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://app.example.com/reset-password?token=abc123"`)
	assert.Contains(t, msg.HTML, "Hi ann")
}

func TestNotificationService_ThroughBus(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	queue := infra.NewMailQueue(rdb)
	n := NewNotificationService(queue, "http://localhost:3000", nil)

	bus := event.NewBus(4, nil)
	n.Register(bus)

	bus.Publish(event.Event{
		Type: constants.EventUserRegistered,
		Data: AccountEvent{Email: "bob@example.com", Username: "<bob>", Token: "t1"},
	})
	bus.Shutdown()

	msg, err := queue.Dequeue(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Verify Your Email", msg.Subject)
	assert.Contains(t, msg.HTML, "/verify-email?token=t1")
	assert.Contains(t, msg.HTML, "&lt;bob&gt;")
}

func TestNotificationService_BadPayload(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	n := NewNotificationService(infra.NewMailQueue(rdb), "", nil)

	err := n.Handle(context.Background(), event.Event{Type: constants.EventUserRegistered, Data: "oops"})
	assert.Error(t, err)

	assert.NoError(t, n.Handle(context.Background(), event.Event{Type: "other"}))
}
