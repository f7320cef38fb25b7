package models

import "time"

// User is the identity record other components resolve e-mails and
// usernames against.
type User struct {
	ID        string
	UserName  string
	Email     string
	CreatedAt time.Time
}
