package models

import "time"

// Comment is a note left on a document by its owner or a grantee.
type Comment struct {
	ID        string
	DocID     string
	AuthorID  string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
