package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/custodian/service/messaging/memory"
)

type event struct {
	RequestID string
	Status    string
}

// TestQueuePublishConsume verifies the publish/consume round trip and ack.
func TestQueuePublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := memory.NewQueue[event](memory.DefaultConfig())

	err := queue.Publish(ctx, &event{RequestID: "r1", Status: "approved"})
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "r1", msg.T().RequestID)
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack())
}

// TestQueueNackRetriesToDLQ verifies that a message exhausting its retries
// lands on the dead letter queue.
func TestQueueNackRetriesToDLQ(t *testing.T) {
	ctx := context.Background()
	queue := memory.NewQueue[event](memory.Config{
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 4,
	})

	assert.NoError(t, queue.Publish(ctx, &event{RequestID: "r2"}))

	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Nack(errors.New("boom")))

	// The retry is requeued after the delay.
	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err = queue.Consume(retryCtx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Nack(errors.New("boom again")))

	assert.Eventually(t, func() bool {
		return queue.DLQSize() == 1
	}, time.Second, 5*time.Millisecond)
}
