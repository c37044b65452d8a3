package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/doorloop"
	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/quo"
	"github.com/doorstep-labs/proptext/internal/responder"
	"github.com/doorstep-labs/proptext/internal/storage"
)

type stubResponder struct {
	reply responder.Reply
}

func (s *stubResponder) GetResponse(ctx context.Context, message, fromPhone string) responder.Reply {
	return s.reply
}

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) SendMessage(ctx context.Context, to, text string) (*quo.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, to+": "+text)
	return &quo.Message{ID: "sent-1"}, nil
}

type stubSyncer struct {
	counts doorloop.Counts
	err    error
}

func (s *stubSyncer) SyncAll(ctx context.Context) (doorloop.Counts, error) {
	return s.counts, s.err
}

func newTestServer(t *testing.T, store storage.Storage, reply responder.Reply, sender *stubSender) *Server {
	t.Helper()
	return New(store, &stubResponder{reply: reply}, sender, &stubSyncer{}, zap.NewNop())
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const inboundEvent = `{
	"type": "message.received",
	"data": {"object": {"body": "is the 2 bed still open?", "from": "+15551234567", "to": "+15550000000"}}
}`

func TestWebhook_CreatesPendingMessage(t *testing.T) {
	store := storage.NewMemoryStorage()
	srv := newTestServer(t, store, responder.Reply{
		Text:       "Yes, the 2 bed at Aspen Row is available!",
		CallerType: models.CallerProspect,
	}, &stubSender{})

	rec := postJSON(t, srv, "/webhook", inboundEvent)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	msg, err := store.GetMessage(context.Background(), resp.MessageID)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, models.StatusPending, msg.Status)
	assert.Equal(t, models.CallerProspect, msg.CallerType)
	assert.Equal(t, "+15551234567", msg.FromPhone)
	assert.Equal(t, "Yes, the 2 bed at Aspen Row is available!", msg.AIReply)
}

func TestWebhook_IgnoresOtherEventTypes(t *testing.T) {
	store := storage.NewMemoryStorage()
	srv := newTestServer(t, store, responder.Reply{}, &stubSender{})

	rec := postJSON(t, srv, "/webhook", `{"type": "message.delivered"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")

	msgs, err := store.ListMessages(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestWebhook_RejectsMissingFields(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStorage(), responder.Reply{}, &stubSender{})

	rec := postJSON(t, srv, "/webhook", `{"type": "message.received", "data": {"object": {"body": ""}}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_RepliesWithoutPhone(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStorage(), responder.Reply{
		Text:       "We have several 2 beds available.",
		CallerType: models.CallerProspect,
	}, &stubSender{})

	rec := postJSON(t, srv, "/chat", `{"message": "anything available?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "We have several 2 beds available.")
}

func TestApprove_SendsAndMarksSent(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-1", FromPhone: "+15551234567", IncomingMessage: "hi",
		AIReply: "hello!", Status: models.StatusPending,
	}))
	sender := &stubSender{}
	srv := newTestServer(t, store, responder.Reply{}, sender)

	rec := postJSON(t, srv, "/messages/m-1/approve", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+15551234567: hello!", sender.sent[0])

	msg, err := store.GetMessage(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, msg.Status)
}

func TestApprove_DoubleApprovalConflicts(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-1", FromPhone: "+15551234567", AIReply: "hello!", Status: models.StatusPending,
	}))
	srv := newTestServer(t, store, responder.Reply{}, &stubSender{})

	first := postJSON(t, srv, "/messages/m-1/approve", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, srv, "/messages/m-1/approve", "")
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestApprove_SendFailureLeavesApproved(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-1", FromPhone: "+15551234567", AIReply: "hello!", Status: models.StatusPending,
	}))
	srv := newTestServer(t, store, responder.Reply{}, &stubSender{err: errors.New("provider down")})

	rec := postJSON(t, srv, "/messages/m-1/approve", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	msg, err := store.GetMessage(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, msg.Status)
}

func TestReject_MarksRejected(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-1", FromPhone: "+15551234567", AIReply: "hello!", Status: models.StatusPending,
	}))
	srv := newTestServer(t, store, responder.Reply{}, &stubSender{})

	rec := postJSON(t, srv, "/messages/m-1/reject", "")

	require.Equal(t, http.StatusOK, rec.Code)
	msg, err := store.GetMessage(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, msg.Status)
}

func TestListMessages_FiltersByStatus(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-1", FromPhone: "+1555", Status: models.StatusPending,
	}))
	require.NoError(t, store.CreateMessage(ctx, &models.Message{
		ID: "m-2", FromPhone: "+1555", Status: models.StatusSent,
	}))
	srv := newTestServer(t, store, responder.Reply{}, &stubSender{})

	req := httptest.NewRequest(http.MethodGet, "/messages?status=pending", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "m-1", resp.Messages[0].ID)
}
