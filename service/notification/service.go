// Package notification records per-user messages produced by request
// lifecycle hooks and fans them out on a queue for external delivery
// channels.
package notification

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/custodian/internal/clock"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/messaging"
)

// Service persists notifications and publishes them for delivery.
type Service struct {
	notifications *repository.Notifications
	queue         messaging.Queue[model.Notification]
}

// New creates the notification service. Queue may be nil when no delivery
// channel is attached.
func New(notifications *repository.Notifications, queue messaging.Queue[model.Notification]) *Service {
	return &Service{notifications: notifications, queue: queue}
}

// Notify records a notification for target and publishes it.
func (s *Service) Notify(ctx context.Context, target model.ID, requestID *model.ID, title, message string) (*model.Notification, error) {
	now := clock.Now()
	notification := &model.Notification{
		ID:             idgen.New(),
		TargetUserID:   target,
		RequestID:      requestID,
		Title:          title,
		Message:        message,
		Status:         model.NotificationStatusSent,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	notification.Truncate()
	if err := notification.Validate(); err != nil {
		return nil, err
	}
	s.notifications.Insert(notification.ID, notification)
	if s.queue != nil {
		if err := s.queue.Publish(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to publish notification: %w", err)
		}
	}
	return notification, nil
}

// NotifyRequestCreated notifies every user eligible to approve the request,
// except the proposer.
func (s *Service) NotifyRequestCreated(ctx context.Context, request *model.Request) error {
	approvers := request.Policy.ApproverSet()
	delete(approvers, request.ProposedBy)

	targets := make([]model.ID, 0, len(approvers))
	for approverID := range approvers {
		targets = append(targets, approverID)
	}
	sort.Slice(targets, func(i, j int) bool {
		return model.CompareID(targets[i], targets[j]) < 0
	})

	requestID := request.ID
	title := fmt.Sprintf("Request awaits your approval: %v", request.Title)
	message := fmt.Sprintf("A %v request proposed by %v requires your decision.", request.Operation.Kind(), request.ProposedBy)
	for _, target := range targets {
		if _, err := s.Notify(ctx, target, &requestID, title, message); err != nil {
			return err
		}
	}
	return nil
}

// List returns the notifications addressed to target.
func (s *Service) List(ctx context.Context, target model.ID) []*model.Notification {
	return s.notifications.FindByTarget(target)
}

// MarkRead marks the notification read. Only the target user may do so.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID model.ID) error {
	notification, ok := s.notifications.Get(notificationID)
	if !ok {
		return fmt.Errorf("notification %v: %w", notificationID, model.ErrNotFound)
	}
	if notification.TargetUserID != userID {
		return fmt.Errorf("notification %v does not belong to user %v: %w", notificationID, userID, model.ErrForbidden)
	}
	if notification.Status == model.NotificationStatusRead {
		return nil
	}
	notification.Status = model.NotificationStatusRead
	notification.LastModifiedAt = clock.Now()
	s.notifications.Insert(notification.ID, notification)
	return nil
}
