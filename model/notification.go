package model

import "time"

// NotificationStatus marks delivery progress of a notification record.
type NotificationStatus string

const (
	NotificationStatusSent NotificationStatus = "sent"
	NotificationStatusRead NotificationStatus = "read"
)

// Notification is a per-user message produced by request lifecycle hooks
// (e.g. "a transfer awaits your approval"). Delivery to an external channel
// is the concern of out-of-scope adapters consuming the notification queue.
type Notification struct {
	ID             ID                 `json:"id" yaml:"id"`
	TargetUserID   ID                 `json:"targetUserId" yaml:"targetUserId"`
	RequestID      *ID                `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Title          string             `json:"title" yaml:"title"`
	Message        string             `json:"message" yaml:"message"`
	Status         NotificationStatus `json:"status" yaml:"status"`
	CreatedAt      time.Time          `json:"createdAt" yaml:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

const (
	maxNotificationTitleLen   = 255
	maxNotificationMessageLen = 4096
)

// Validate enforces structural bounds.
func (n *Notification) Validate() error {
	if len(n.Title) > maxNotificationTitleLen {
		return NewValidationError("notification title exceeds the maximum allowed: %d", maxNotificationTitleLen)
	}
	if len(n.Message) > maxNotificationMessageLen {
		return NewValidationError("notification message exceeds the maximum allowed: %d", maxNotificationMessageLen)
	}
	return nil
}

// Truncate clips title and message to their structural bounds.
func (n *Notification) Truncate() {
	if len(n.Title) > maxNotificationTitleLen {
		n.Title = n.Title[:maxNotificationTitleLen]
	}
	if len(n.Message) > maxNotificationMessageLen {
		n.Message = n.Message[:maxNotificationMessageLen]
	}
}

// Clone returns an owned copy.
func (n *Notification) Clone() *Notification {
	out := *n
	if n.RequestID != nil {
		id := *n.RequestID
		out.RequestID = &id
	}
	return &out
}
