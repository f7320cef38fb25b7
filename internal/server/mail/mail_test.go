package mail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "docflow@example.com"}

	err := s.Send(context.Background(), Message{
		To:      "bob@example.com",
		Subject: "DocFlow: alice share a document",
		Body:    "Visit the link",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	raw := render(t, d.sent[0])
	assert.Contains(t, raw, "From: docflow@example.com")
	assert.Contains(t, raw, "To: bob@example.com")
	assert.Contains(t, raw, "Subject: DocFlow: alice share a document")
	assert.Contains(t, raw, "Visit the link")
}

func TestSMTPSender_Attachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("quarterly"), 0o600))

	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "docflow@example.com"}

	require.NoError(t, s.Send(context.Background(), Message{To: "bob@example.com", Subject: "s", Body: "b", AttachmentPath: path}))
	raw := render(t, d.sent[0])
	assert.Contains(t, raw, `filename="report.txt"`)
}

func TestSMTPSender_TransportError(t *testing.T) {
	s := &SMTPSender{dialer: &fakeDialer{err: errors.New("connection refused")}, from: "x@y"}

	err := s.Send(context.Background(), Message{To: "bob@example.com"})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "x@y"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{To: "bob@example.com"}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestNewSMTPSender(t *testing.T) {
	s := NewSMTPSender("smtp.local", 2525, "u", "p", "docflow@example.com")
	assert.Equal(t, "docflow@example.com", s.from)
	assert.IsType(t, &gomail.Dialer{}, s.dialer)
}
