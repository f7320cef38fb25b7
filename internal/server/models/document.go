// Package models defines server-side records persisted in the database.
package models

import "time"

// Document is the metadata of one stored file.
type Document struct {
	ID      string
	OwnerID string
	Name    string
	// S3URL is the location reference of the stored object; unique per row.
	S3URL      string
	Size       int64
	FileType   string
	Tags       StringList
	Categories StringList
	FileHash   string
	Status     Status
	// AccessTo holds the e-mails of collaborators allowed to push new versions.
	AccessTo  StringList
	CreatedAt time.Time
	// PurgeAfter is set while the document sits in the bin.
	PurgeAfter *time.Time
}

// DocumentPatch carries a partial update. Nil fields are left unchanged.
type DocumentPatch struct {
	Name       *string
	S3URL      *string
	Size       *int64
	FileType   *string
	FileHash   *string
	Tags       *StringList
	Categories *StringList
	Status     *Status
	AccessTo   *StringList
}

// IsEmpty reports whether the patch changes nothing.
func (p DocumentPatch) IsEmpty() bool {
	return p.Name == nil && p.S3URL == nil && p.Size == nil && p.FileType == nil &&
		p.FileHash == nil && p.Tags == nil && p.Categories == nil && p.Status == nil && p.AccessTo == nil
}

// ContentOnly returns a copy restricted to the fields a new upload changes.
func (p DocumentPatch) ContentOnly() DocumentPatch {
	return DocumentPatch{
		Name:     p.Name,
		S3URL:    p.S3URL,
		Size:     p.Size,
		FileType: p.FileType,
		FileHash: p.FileHash,
	}
}
