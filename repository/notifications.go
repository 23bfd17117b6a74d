package repository

import "github.com/viant/custodian/model"

// Notifications stores notification records indexed by target user.
type Notifications struct {
	*Memory[model.ID, *model.Notification]
	target *Index[model.ID, model.ID]
}

// NewNotifications creates the notification repository.
func NewNotifications() *Notifications {
	target := NewIndex[model.ID, model.ID](model.CompareID, model.CompareID)
	return &Notifications{
		Memory: NewMemory[model.ID, *model.Notification](ByEntries(target, notificationTargetEntries)),
		target: target,
	}
}

func notificationTargetEntries(notification *model.Notification) []Entry[model.ID, model.ID] {
	if notification == nil {
		return nil
	}
	return []Entry[model.ID, model.ID]{{Group: notification.TargetUserID, Key: notification.ID}}
}

// FindByTarget returns the notifications addressed to userID.
func (n *Notifications) FindByTarget(userID model.ID) []*model.Notification {
	var out []*model.Notification
	for _, key := range n.target.FindByGroup(userID) {
		if notification, ok := n.Get(key); ok {
			out = append(out, notification)
		}
	}
	return out
}
