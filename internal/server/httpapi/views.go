package httpapi

import (
	"time"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Username: u.UserName, Email: u.Email, CreatedAt: u.CreatedAt}
}

type documentView struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	S3URL      string     `json:"s3_url"`
	Size       int64      `json:"size"`
	FileType   string     `json:"file_type,omitempty"`
	Tags       []string   `json:"tags"`
	Categories []string   `json:"categories"`
	FileHash   string     `json:"file_hash"`
	Status     string     `json:"status"`
	AccessTo   []string   `json:"access_to"`
	CreatedAt  time.Time  `json:"created_at"`
	PurgeAfter *time.Time `json:"purge_after,omitempty"`
}

func newDocumentView(d *models.Document) documentView {
	return documentView{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		Name:       d.Name,
		S3URL:      d.S3URL,
		Size:       d.Size,
		FileType:   d.FileType,
		Tags:       nonNil(d.Tags),
		Categories: nonNil(d.Categories),
		FileHash:   d.FileHash,
		Status:     string(d.Status),
		AccessTo:   nonNil(d.AccessTo),
		CreatedAt:  d.CreatedAt,
		PurgeAfter: d.PurgeAfter,
	}
}

func newDocumentViews(docs []*models.Document) []documentView {
	if docs == nil {
		return nil
	}
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, newDocumentView(d))
	}
	return out
}

func nonNil(l models.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

type documentList struct {
	Documents []documentView `json:"documents"`
	Count     int            `json:"no_of_docs"`
}

func newDocumentList(docs []*models.Document) documentList {
	views := newDocumentViews(docs)
	if views == nil {
		views = []documentView{}
	}
	return documentList{Documents: views, Count: len(views)}
}

type uploadView struct {
	Outcome  string       `json:"outcome"`
	IsOwner  bool         `json:"is_owner"`
	Document documentView `json:"document"`
}

type notificationView struct {
	ID         string    `json:"id"`
	ReceiverID string    `json:"receiver_id"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func newNotificationView(n *models.Notification) notificationView {
	return notificationView{
		ID:         n.ID,
		ReceiverID: n.ReceiverID,
		Message:    n.Message,
		Status:     string(n.Status),
		CreatedAt:  n.CreatedAt,
	}
}

type commentView struct {
	ID        string    `json:"id"`
	DocID     string    `json:"doc_id"`
	AuthorID  string    `json:"author_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCommentView(c *models.Comment) commentView {
	return commentView{
		ID:        c.ID,
		DocID:     c.DocID,
		AuthorID:  c.AuthorID,
		Comment:   c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type commentRequest struct {
	DocID   string `json:"doc_id"`
	Comment string `json:"comment"`
}

// patchRequest is the body of a metadata update. Absent fields are kept.
type patchRequest struct {
	Name       *string   `json:"name"`
	Tags       *[]string `json:"tags"`
	Categories *[]string `json:"categories"`
	Status     *string   `json:"status"`
	AccessTo   *[]string `json:"access_to"`
}

func (r patchRequest) toPatch() (models.DocumentPatch, error) {
	var p models.DocumentPatch
	p.Name = r.Name
	if r.Tags != nil {
		l := models.StringList(*r.Tags)
		p.Tags = &l
	}
	if r.Categories != nil {
		l := models.StringList(*r.Categories)
		p.Categories = &l
	}
	if r.AccessTo != nil {
		l := models.StringList(*r.AccessTo)
		p.AccessTo = &l
	}
	if r.Status != nil {
		st, ok := models.ParseStatus(*r.Status)
		if !ok {
			return p, badRequest("unknown status "+*r.Status, nil)
		}
		p.Status = &st
	}
	return p, nil
}

type shareRequest struct {
	Visits  int      `json:"visits"`
	ShareTo []string `json:"share_to"`
}

type attachmentRequest struct {
	ShareTo []string `json:"share_to"`
	Notify  *bool    `json:"notify"`
}

type notificationStatusRequest struct {
	Status string `json:"status"`
}
