package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThreeDotsLabs/watermill/message"
)

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	t.Cleanup(func() { pubSub.Close() })
	return pubSub
}

func receive(t *testing.T, msgs <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestPublishIssued(t *testing.T) {
	ctx := context.Background()
	pubSub := newPubSub(t)

	msgs, err := pubSub.Subscribe(ctx, IssuedTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	require.NoError(t, publisher.PublishIssued(ctx, 7, "enhanced"))

	msg := receive(t, msgs)
	var event IssuedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, 7, event.SubjectID)
	assert.Equal(t, "enhanced", event.Format)
	assert.False(t, event.At.IsZero())
	assert.NotEmpty(t, msg.UUID)
}

func TestPublishCleared(t *testing.T) {
	ctx := context.Background()
	pubSub := newPubSub(t)

	msgs, err := pubSub.Subscribe(ctx, ClearedTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	require.NoError(t, publisher.PublishCleared(ctx, "rejected"))

	msg := receive(t, msgs)
	var event ClearedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, "rejected", event.Reason)
}
