package notification_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/messaging/memory"
	"github.com/viant/custodian/service/notification"
)

func newID(b byte) model.ID {
	var id model.ID
	id[15] = b
	return id
}

// TestNotifyRequestCreated verifies the approver fan-out skips the proposer
// and publishes each notification.
func TestNotifyRequestCreated(t *testing.T) {
	ctx := context.Background()
	store := repository.NewNotifications()
	queue := memory.NewQueue[model.Notification](memory.DefaultConfig())
	service := notification.New(store, queue)

	proposer := newID(1)
	approverA := newID(2)
	approverB := newID(3)
	request := &model.Request{
		ID:         newID(9),
		Title:      "add treasury account",
		ProposedBy: proposer,
		Operation:  model.Operation{AddUserGroup: &model.AddUserGroupOperation{}},
		Policy: &model.Rule{
			Kind:        model.RuleQuorum,
			Approvers:   []model.ID{proposer, approverA, approverB},
			MinApproved: 2,
		},
	}

	assert.NoError(t, service.NotifyRequestCreated(ctx, request))

	assert.Empty(t, service.List(ctx, proposer))
	assert.Len(t, service.List(ctx, approverA), 1)
	assert.Len(t, service.List(ctx, approverB), 1)
	assert.Equal(t, 2, queue.Size())

	got := service.List(ctx, approverA)[0]
	assert.Equal(t, model.NotificationStatusSent, got.Status)
	if assert.NotNil(t, got.RequestID) {
		assert.EqualValues(t, request.ID, *got.RequestID)
	}
}

// TestNotifyTruncatesOversizedContent verifies bound enforcement on title
// and message.
func TestNotifyTruncatesOversizedContent(t *testing.T) {
	ctx := context.Background()
	service := notification.New(repository.NewNotifications(), nil)

	got, err := service.Notify(ctx, newID(1), nil, strings.Repeat("t", 300), strings.Repeat("m", 5000))
	assert.NoError(t, err)
	assert.Len(t, got.Title, 255)
	assert.Len(t, got.Message, 4096)
}

// TestMarkRead verifies ownership enforcement and idempotence.
func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	store := repository.NewNotifications()
	service := notification.New(store, nil)

	target := newID(1)
	got, err := service.Notify(ctx, target, nil, "title", "message")
	assert.NoError(t, err)

	assert.ErrorIs(t, service.MarkRead(ctx, got.ID, newID(2)), model.ErrForbidden)
	assert.NoError(t, service.MarkRead(ctx, got.ID, target))
	assert.NoError(t, service.MarkRead(ctx, got.ID, target))

	updated, _ := store.Get(got.ID)
	assert.Equal(t, model.NotificationStatusRead, updated.Status)

	assert.ErrorIs(t, service.MarkRead(ctx, newID(9), target), model.ErrNotFound)
}
