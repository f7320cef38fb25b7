package httpapi

import (
	"context"

	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/services"
	"github.com/stretchr/testify/mock"
)

type MockIdentity struct{ mock.Mock }

func (m *MockIdentity) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockDocuments struct{ mock.Mock }

func (m *MockDocuments) Upload(ctx context.Context, user *models.User, in services.UploadInput) (*services.UploadResult, error) {
	args := m.Called(ctx, user, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadResult), args.Error(1)
}

func (m *MockDocuments) Download(ctx context.Context, location, name string) (*services.Object, error) {
	args := m.Called(ctx, location, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Object), args.Error(1)
}

func (m *MockDocuments) Preview(ctx context.Context, doc *models.Document) (*services.Preview, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Preview), args.Error(1)
}

func (m *MockDocuments) PermanentlyDelete(ctx context.Context, owner *models.User, name string, all bool) (int, error) {
	args := m.Called(ctx, owner, name, all)
	return args.Int(0), args.Error(1)
}

type MockMetadata struct{ mock.Mock }

func (m *MockMetadata) doc(args mock.Arguments) (*models.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockMetadata) docs(args mock.Arguments) ([]*models.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockMetadata) Get(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	return m.doc(m.Called(ctx, owner, identifier))
}

func (m *MockMetadata) List(ctx context.Context, owner *models.User, limit, offset int) ([]*models.Document, error) {
	return m.docs(m.Called(ctx, owner, limit, offset))
}

func (m *MockMetadata) Search(ctx context.Context, owner *models.User, q services.SearchQuery) (*services.SearchResult, error) {
	args := m.Called(ctx, owner, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SearchResult), args.Error(1)
}

func (m *MockMetadata) Patch(ctx context.Context, user *models.User, identifier string, patch models.DocumentPatch, isOwner bool) (*models.Document, error) {
	return m.doc(m.Called(ctx, user, identifier, patch, isOwner))
}

func (m *MockMetadata) SoftDelete(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	return m.doc(m.Called(ctx, owner, identifier))
}

func (m *MockMetadata) BinList(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	return m.docs(m.Called(ctx, owner))
}

func (m *MockMetadata) Restore(ctx context.Context, owner *models.User, name string) (*models.Document, error) {
	return m.doc(m.Called(ctx, owner, name))
}

func (m *MockMetadata) Archive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	return m.doc(m.Called(ctx, owner, identifier))
}

func (m *MockMetadata) Unarchive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	return m.doc(m.Called(ctx, owner, identifier))
}

func (m *MockMetadata) ArchiveList(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	return m.docs(m.Called(ctx, owner))
}

type MockSharing struct{ mock.Mock }

func (m *MockSharing) Mint(ctx context.Context, owner *models.User, identifier string, visits int, recipients []string) (*services.MintResult, error) {
	args := m.Called(ctx, owner, identifier, visits, recipients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MintResult), args.Error(1)
}

func (m *MockSharing) Follow(ctx context.Context, user *models.User, token string) (string, error) {
	args := m.Called(ctx, user, token)
	return args.String(0), args.Error(1)
}

func (m *MockSharing) SendAsAttachment(ctx context.Context, owner *models.User, identifier string, recipients []string, notify bool) error {
	return m.Called(ctx, owner, identifier, recipients, notify).Error(0)
}

type MockNotifications struct{ mock.Mock }

func (m *MockNotifications) List(ctx context.Context, user *models.User) ([]*models.Notification, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotifications) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifications) UpdateStatus(ctx context.Context, user *models.User, id string, status models.NotificationStatus) (*models.Notification, error) {
	args := m.Called(ctx, user, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotifications) Clear(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

type MockComments struct{ mock.Mock }

func (m *MockComments) Create(ctx context.Context, user *models.User, docID, text string) (*models.Comment, error) {
	args := m.Called(ctx, user, docID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockComments) List(ctx context.Context, user *models.User, docID string) ([]*models.Comment, error) {
	args := m.Called(ctx, user, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockComments) Update(ctx context.Context, user *models.User, id, text string) (*models.Comment, error) {
	args := m.Called(ctx, user, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockComments) Delete(ctx context.Context, user *models.User, id string) error {
	return m.Called(ctx, user, id).Error(0)
}
