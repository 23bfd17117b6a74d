// Package operation implements the per-kind request handlers: payload
// validation and staging on creation, post-create notification fan-out and
// the state mutation applied once a request is approved.
package operation

import (
	"context"

	"github.com/viant/custodian/model"
)

// Notifier delivers notifications about newly created requests to the users
// eligible to approve them.
type Notifier interface {
	NotifyRequestCreated(ctx context.Context, request *model.Request) error
}

// approverNotifier gives every handler the same post-create fan-out.
type approverNotifier struct {
	notifier Notifier
}

// AfterCreate notifies eligible approvers about the new request.
func (n *approverNotifier) AfterCreate(ctx context.Context, request *model.Request) error {
	if n.notifier == nil {
		return nil
	}
	return n.notifier.NotifyRequestCreated(ctx, request)
}
