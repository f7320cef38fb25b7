package models

import "time"

type Notification struct {
	ID         string
	ReceiverID string
	Message    string
	Status     NotificationStatus
	CreatedAt  time.Time
}
