package services

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/mail"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/access"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/comments"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/documents"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/sharelinks"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/users"
	"github.com/dmitrijs2005/docflow/internal/server/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeState is an in-memory stand-in for the database. It enforces the same
// uniqueness rules as the PostgreSQL schema. Transactions are not modeled:
// every repository, pooled or transactional, writes here directly.
type fakeState struct {
	mu       sync.Mutex
	now      time.Time
	users    []*models.User
	docs     []*models.Document
	grants   map[[2]string]bool
	links    map[string]*models.ShareLink
	notes    []*models.Notification
	comments []*models.Comment
	// fail makes the named repository method return the error.
	fail map[string]error
}

func newFakeState() *fakeState {
	return &fakeState{
		now:    t0,
		grants: map[[2]string]bool{},
		links:  map[string]*models.ShareLink{},
		fail:   map[string]error{},
	}
}

func (s *fakeState) failure(method string) error {
	return s.fail[method]
}

func (s *fakeState) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

type fakeRepoManager struct{ st *fakeState }

func (m fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return fakeUsers{m.st} }
func (m fakeRepoManager) Documents(dbx.DBTX) documents.Repository         { return fakeDocs{m.st} }
func (m fakeRepoManager) Access(dbx.DBTX) access.Repository               { return fakeAccess{m.st} }
func (m fakeRepoManager) ShareLinks(dbx.DBTX) sharelinks.Repository       { return fakeLinks{m.st} }
func (m fakeRepoManager) Notifications(dbx.DBTX) notifications.Repository { return fakeNotes{m.st} }
func (m fakeRepoManager) Comments(dbx.DBTX) comments.Repository           { return fakeComments{m.st} }

// --- users ---

type fakeUsers struct{ st *fakeState }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Users.Create"); err != nil {
		return nil, err
	}
	for _, e := range f.st.users {
		if e.UserName == u.UserName || e.Email == u.Email {
			return nil, common.Wrap(common.ErrorConflict, "user already exists", nil)
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.CreatedAt = f.st.tick()
	f.st.users = append(f.st.users, &c)
	out := c
	return &out, nil
}

func (f fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Users.Get"); err != nil {
		return nil, err
	}
	for _, u := range f.st.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.Wrap(common.ErrorNotFound, "user not found", nil)
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f fakeUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.UserName == name })
}

// --- documents ---

type fakeDocs struct{ st *fakeState }

func cloneDoc(d *models.Document) *models.Document {
	c := *d
	c.Tags = slices.Clone(d.Tags)
	c.Categories = slices.Clone(d.Categories)
	c.AccessTo = slices.Clone(d.AccessTo)
	if d.PurgeAfter != nil {
		p := *d.PurgeAfter
		c.PurgeAfter = &p
	}
	return &c
}

func (f fakeDocs) filter(match func(*models.Document) bool) []*models.Document {
	out := []*models.Document{}
	for _, d := range f.st.docs {
		if match(d) {
			out = append(out, cloneDoc(d))
		}
	}
	return out
}

func (f fakeDocs) liveNameTaken(ownerID, name, exceptID string) bool {
	for _, d := range f.st.docs {
		if d.ID != exceptID && d.OwnerID == ownerID && d.Name == name && d.Status != models.StatusDeleted {
			return true
		}
	}
	return false
}

func (f fakeDocs) row(id string) *models.Document {
	for _, d := range f.st.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func notFound(what string) error {
	return common.Wrap(common.ErrorNotFound, what+" not found", nil)
}

func (f fakeDocs) Create(_ context.Context, doc *models.Document) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Documents.Create"); err != nil {
		return nil, err
	}
	if f.liveNameTaken(doc.OwnerID, doc.Name, "") {
		return nil, common.Wrap(common.ErrorConflict, "documents_owner_name_live_key", nil)
	}
	for _, d := range f.st.docs {
		if d.S3URL == doc.S3URL {
			return nil, common.Wrap(common.ErrorConflict, "documents_s3_url_key", nil)
		}
	}
	c := cloneDoc(doc)
	c.ID = uuid.NewString()
	c.CreatedAt = f.st.tick()
	f.st.docs = append(f.st.docs, c)
	return cloneDoc(c), nil
}

func (f fakeDocs) one(docs []*models.Document, what string) (*models.Document, error) {
	if len(docs) == 0 {
		return nil, notFound(what)
	}
	return docs[0], nil
}

func (f fakeDocs) GetByID(_ context.Context, ownerID, id string) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.one(f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.ID == id && d.Status != models.StatusDeleted
	}), "document "+id)
}

func (f fakeDocs) GetLiveByID(_ context.Context, id string) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.one(f.filter(func(d *models.Document) bool {
		return d.ID == id && d.Status != models.StatusDeleted
	}), "document "+id)
}

func (f fakeDocs) GetByName(_ context.Context, ownerID, name string) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Documents.GetByName"); err != nil {
		return nil, err
	}
	return f.one(f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Name == name && d.Status != models.StatusDeleted
	}), "document "+name)
}

func (f fakeDocs) ListLiveByName(_ context.Context, name string) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.filter(func(d *models.Document) bool {
		return d.Name == name && d.Status != models.StatusDeleted
	}), nil
}

func (f fakeDocs) GetDeletedByName(_ context.Context, ownerID, name string) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.one(f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Name == name && d.Status == models.StatusDeleted
	}), "deleted document "+name)
}

func (f fakeDocs) ExistsByName(_ context.Context, ownerID, name string) (bool, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return len(f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Name == name
	})) > 0, nil
}

func (f fakeDocs) List(_ context.Context, ownerID string, limit, offset int) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	all := f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Status != models.StatusDeleted && d.Status != models.StatusArchived
	})
	if offset >= len(all) {
		return []*models.Document{}, nil
	}
	return all[offset:min(len(all), offset+limit)], nil
}

func (f fakeDocs) ListByStatus(_ context.Context, ownerID string, status models.Status) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.filter(func(d *models.Document) bool { return d.OwnerID == ownerID && d.Status == status }), nil
}

func (f fakeDocs) ListByTag(_ context.Context, ownerID, tag string) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Status != models.StatusDeleted && d.Tags.Contains(tag)
	}), nil
}

func (f fakeDocs) ListByCategory(_ context.Context, ownerID, category string) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Status != models.StatusDeleted && d.Categories.Contains(category)
	}), nil
}

func (f fakeDocs) ListByFileType(_ context.Context, ownerID, fileType string) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Status != models.StatusDeleted && d.FileType == fileType
	}), nil
}

func (f fakeDocs) Update(_ context.Context, id string, p models.DocumentPatch) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Documents.Update"); err != nil {
		return nil, err
	}
	d := f.row(id)
	if d == nil {
		return nil, notFound("document " + id)
	}
	if p.Name != nil && *p.Name != d.Name && f.liveNameTaken(d.OwnerID, *p.Name, d.ID) {
		return nil, common.Wrap(common.ErrorConflict, "documents_owner_name_live_key", nil)
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.S3URL != nil {
		d.S3URL = *p.S3URL
	}
	if p.Size != nil {
		d.Size = *p.Size
	}
	if p.FileType != nil {
		d.FileType = *p.FileType
	}
	if p.FileHash != nil {
		d.FileHash = *p.FileHash
	}
	if p.Tags != nil {
		d.Tags = slices.Clone(*p.Tags)
	}
	if p.Categories != nil {
		d.Categories = slices.Clone(*p.Categories)
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.AccessTo != nil {
		d.AccessTo = slices.Clone(*p.AccessTo)
	}
	return cloneDoc(d), nil
}

func (f fakeDocs) SoftDelete(_ context.Context, id string, purgeAfter time.Time) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Documents.SoftDelete"); err != nil {
		return nil, err
	}
	d := f.row(id)
	if d == nil || d.Status == models.StatusDeleted {
		return nil, notFound("document " + id)
	}
	d.Status = models.StatusDeleted
	d.Tags, d.Categories, d.AccessTo, d.FileType = nil, nil, nil, ""
	d.PurgeAfter = &purgeAfter
	return cloneDoc(d), nil
}

func (f fakeDocs) Restore(_ context.Context, id string) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	d := f.row(id)
	if d == nil || d.Status != models.StatusDeleted {
		return nil, notFound("document " + id)
	}
	if f.liveNameTaken(d.OwnerID, d.Name, d.ID) {
		return nil, common.Wrap(common.ErrorConflict, "documents_owner_name_live_key", nil)
	}
	d.Status = models.StatusPrivate
	d.PurgeAfter = nil
	return cloneDoc(d), nil
}

func (f fakeDocs) SetStatus(_ context.Context, id string, status models.Status) (*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	d := f.row(id)
	if d == nil {
		return nil, notFound("document " + id)
	}
	d.Status = status
	return cloneDoc(d), nil
}

func (f fakeDocs) PurgeExpired(_ context.Context, ownerID string, now time.Time) ([]*models.Document, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var purged []*models.Document
	kept := f.st.docs[:0]
	for _, d := range f.st.docs {
		if d.OwnerID == ownerID && d.Status == models.StatusDeleted && !d.PurgeAfter.After(now) {
			purged = append(purged, cloneDoc(d))
			continue
		}
		kept = append(kept, d)
	}
	f.st.docs = kept
	return purged, nil
}

func (f fakeDocs) Delete(_ context.Context, ownerID, id string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Documents.Delete"); err != nil {
		return err
	}
	for i, d := range f.st.docs {
		if d.ID == id && d.OwnerID == ownerID && d.Status == models.StatusDeleted {
			f.st.docs = slices.Delete(f.st.docs, i, i+1)
			return nil
		}
	}
	return notFound("document " + id)
}

// --- access ---

type fakeAccess struct{ st *fakeState }

func (f fakeAccess) Grant(_ context.Context, docID, userID string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	k := [2]string{docID, userID}
	if f.st.grants[k] {
		return common.Wrap(common.ErrorConflict, "access already granted", nil)
	}
	f.st.grants[k] = true
	return nil
}

func (f fakeAccess) RevokeAll(_ context.Context, docID string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for k := range f.st.grants {
		if k[0] == docID {
			delete(f.st.grants, k)
		}
	}
	return nil
}

func (f fakeAccess) HasAccess(_ context.Context, docID, userID string) (bool, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.st.grants[[2]string{docID, userID}], nil
}

// --- share links ---

type fakeLinks struct{ st *fakeState }

func cloneLink(l *models.ShareLink) *models.ShareLink {
	c := *l
	c.ShareTo = slices.Clone(l.ShareTo)
	return &c
}

func (f fakeLinks) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var n int64
	for tok, l := range f.st.links {
		if l.Expired(now) {
			delete(f.st.links, tok)
			n++
		}
	}
	return n, nil
}

func (f fakeLinks) GetByFilename(_ context.Context, ownerID, filename string) (*models.ShareLink, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, l := range f.st.links {
		if l.OwnerID == ownerID && l.Filename == filename {
			return cloneLink(l), nil
		}
	}
	return nil, notFound("share link for " + filename)
}

func (f fakeLinks) GetByToken(_ context.Context, token string) (*models.ShareLink, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if l, ok := f.st.links[token]; ok {
		return cloneLink(l), nil
	}
	return nil, notFound("share link")
}

func (f fakeLinks) Create(_ context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, ok := f.st.links[link.Token]; ok {
		return nil, sharelinks.ErrTokenTaken
	}
	for _, l := range f.st.links {
		if l.OwnerID == link.OwnerID && l.Filename == link.Filename {
			return nil, common.Wrap(common.ErrorConflict, "share_links_owner_filename_key", nil)
		}
	}
	c := cloneLink(link)
	c.CreatedAt = f.st.now
	f.st.links[c.Token] = c
	return cloneLink(c), nil
}

func (f fakeLinks) Delete(_ context.Context, token string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, ok := f.st.links[token]; !ok {
		return notFound("link " + token)
	}
	delete(f.st.links, token)
	return nil
}

func (f fakeLinks) ConsumeVisit(_ context.Context, token string, now time.Time) (*models.ShareLink, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	l, ok := f.st.links[token]
	if !ok || l.Expired(now) {
		return nil, common.ErrLinkExpired
	}
	before := cloneLink(l)
	if l.Visits-1 <= 0 {
		delete(f.st.links, token)
	} else {
		l.Visits--
	}
	return before, nil
}

// --- comments ---

type fakeComments struct{ st *fakeState }

func (f fakeComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Comments.Create"); err != nil {
		return nil, err
	}
	n := *c
	n.ID = uuid.NewString()
	n.CreatedAt = f.st.tick()
	n.UpdatedAt = n.CreatedAt
	f.st.comments = append(f.st.comments, &n)
	out := n
	return &out, nil
}

func (f fakeComments) GetByID(_ context.Context, id string) (*models.Comment, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, c := range f.st.comments {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, notFound("comment " + id)
}

func (f fakeComments) ListByDocument(_ context.Context, docID string) ([]*models.Comment, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := make([]*models.Comment, 0)
	for _, c := range f.st.comments {
		if c.DocID == docID {
			x := *c
			out = append(out, &x)
		}
	}
	return out, nil
}

func (f fakeComments) UpdateText(_ context.Context, id, text string) (*models.Comment, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, c := range f.st.comments {
		if c.ID == id {
			c.Text = text
			c.UpdatedAt = f.st.tick()
			out := *c
			return &out, nil
		}
	}
	return nil, notFound("comment " + id)
}

func (f fakeComments) Delete(_ context.Context, id string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for i, c := range f.st.comments {
		if c.ID == id {
			f.st.comments = slices.Delete(f.st.comments, i, i+1)
			return nil
		}
	}
	return notFound("comment " + id)
}

// --- notifications ---

type fakeNotes struct{ st *fakeState }

func (f fakeNotes) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if err := f.st.failure("Notifications.Create"); err != nil {
		return nil, err
	}
	c := *n
	c.ID = uuid.NewString()
	c.CreatedAt = f.st.tick()
	f.st.notes = append(f.st.notes, &c)
	out := c
	return &out, nil
}

func (f fakeNotes) ListByReceiver(_ context.Context, receiverID string) ([]*models.Notification, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := []*models.Notification{}
	for _, n := range f.st.notes {
		if n.ReceiverID == receiverID {
			c := *n
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeNotes) MarkAllRead(_ context.Context, receiverID string) (int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var n int64
	for _, x := range f.st.notes {
		if x.ReceiverID == receiverID && x.Status == models.NotificationUnread {
			x.Status = models.NotificationRead
			n++
		}
	}
	return n, nil
}

func (f fakeNotes) UpdateStatus(_ context.Context, id, receiverID string, status models.NotificationStatus) (*models.Notification, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, x := range f.st.notes {
		if x.ID == id && x.ReceiverID == receiverID {
			x.Status = status
			c := *x
			return &c, nil
		}
	}
	return nil, notFound("notification " + id)
}

func (f fakeNotes) DeleteAll(_ context.Context, receiverID string) (int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	before := len(f.st.notes)
	f.st.notes = slices.DeleteFunc(f.st.notes, func(n *models.Notification) bool { return n.ReceiverID == receiverID })
	return int64(before - len(f.st.notes)), nil
}

// --- mail ---

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	// attachments holds the attachment contents read at send time.
	attachments map[string][]byte
	err         error
	readFile    func(string) ([]byte, error)
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if msg.AttachmentPath != "" && m.readFile != nil {
		b, err := m.readFile(msg.AttachmentPath)
		if err != nil {
			return err
		}
		if m.attachments == nil {
			m.attachments = map[string][]byte{}
		}
		m.attachments[msg.To] = b
	}
	m.sent = append(m.sent, msg)
	return nil
}

// --- wiring ---

type testEnv struct {
	st            *fakeState
	db            *sql.DB
	store         *storage.MemoryStore
	locator       storage.Locator
	mailer        *fakeMailer
	identity      *IdentityService
	metadata      *MetadataService
	documents     *DocumentService
	notifications *NotificationService
	sharing       *SharingService
	comments      *CommentService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

// newSQLiteDB returns an in-memory database used only to drive
// transactions; the fakes hold the data.
func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, newSQLiteDB(t))
}

func newTestEnvWithDB(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()
	cfg := testConfig()
	st := newFakeState()
	rm := fakeRepoManager{st}
	log := logging.Nop()
	store := storage.NewMemoryStore()
	locator := storage.NewLocator(cfg.S3BaseEndpoint, cfg.S3Bucket, cfg.S3Region)
	mailer := &fakeMailer{}

	e := &testEnv{st: st, db: db, store: store, locator: locator, mailer: mailer}
	e.identity = NewIdentityService(db, rm, cfg, log)
	e.metadata = NewMetadataService(db, rm, store, locator, cfg, log)
	e.metadata.now = func() time.Time { return st.now }
	e.documents = NewDocumentService(e.metadata, store, locator, log)
	e.notifications = NewNotificationService(db, rm, log)
	e.sharing = NewSharingService(db, rm, e.metadata, e.notifications, store, locator, mailer, cfg, log)
	e.sharing.now = func() time.Time { return st.now }
	e.comments = NewCommentService(db, rm, log)
	return e
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.identity.Register(context.Background(), name, name+"@docflow.io")
	require.NoError(t, err)
	return u
}

func (e *testEnv) upload(t *testing.T, u *models.User, name, body string) *UploadResult {
	t.Helper()
	res, err := e.documents.Upload(context.Background(), u, UploadInput{
		Filename:    name,
		Content:     []byte(body),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) advance(d time.Duration) {
	e.st.mu.Lock()
	defer e.st.mu.Unlock()
	e.st.now = e.st.now.Add(d)
}

func (e *testEnv) object(t *testing.T, doc *models.Document) string {
	t.Helper()
	key, err := e.locator.URLToKey(doc.S3URL)
	require.NoError(t, err)
	b, err := e.store.Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}
