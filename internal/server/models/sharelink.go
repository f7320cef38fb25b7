package models

import "time"

// ShareLink is a visit-limited token redirecting to a pre-signed URL.
type ShareLink struct {
	Token     string
	OwnerID   string
	Filename  string
	URL       string
	ExpiresAt time.Time
	Visits    int
	ShareTo   StringList
	CreatedAt time.Time
}

// Expired reports whether the link is past its expiry at now.
func (l *ShareLink) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
