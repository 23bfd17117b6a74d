package fs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"

	fsq "github.com/viant/custodian/service/messaging/fs"
)

type event struct {
	RequestID string
	Status    string
}

// TestQueueLifecycle verifies the pending -> processing -> completed path
// and the failed -> retry path across the state directories.
func TestQueueLifecycle(t *testing.T) {
	ctx := context.Background()
	config := fsq.DefaultConfig()
	config.BasePath = t.TempDir()
	config.MaxRetries = 1

	queue, err := fsq.NewQueue[event](afs.New(), config)
	assert.NoError(t, err)

	// Empty queue yields no message and no error.
	msg, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Nil(t, msg)

	assert.NoError(t, queue.Publish(ctx, &event{RequestID: "r1", Status: "created"}))

	msg, err = queue.Consume(ctx)
	assert.NoError(t, err)
	if assert.NotNil(t, msg) {
		assert.Equal(t, "r1", msg.T().RequestID)
		assert.NoError(t, msg.Ack())
	}

	// A nacked message comes back on the next consume.
	assert.NoError(t, queue.Publish(ctx, &event{RequestID: "r2", Status: "created"}))
	msg, err = queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Nack(errors.New("transient")))

	msg, err = queue.Consume(ctx)
	assert.NoError(t, err)
	if assert.NotNil(t, msg) {
		assert.Equal(t, "r2", msg.T().RequestID)
		assert.NoError(t, msg.Ack())
	}
}
