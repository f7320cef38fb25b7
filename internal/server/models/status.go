package models

// Status is the lifecycle state of a document.
type Status string

const (
	StatusPrivate  Status = "private"
	StatusPublic   Status = "public"
	StatusShared   Status = "shared"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// Statuses lists every status in transition order.
var Statuses = []Status{StatusPrivate, StatusPublic, StatusShared, StatusArchived, StatusDeleted}

// ParseStatus returns the Status named s.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

func ParseNotificationStatus(s string) (NotificationStatus, bool) {
	switch NotificationStatus(s) {
	case NotificationUnread, NotificationRead:
		return NotificationStatus(s), true
	}
	return "", false
}
