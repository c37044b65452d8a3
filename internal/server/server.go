// Package server exposes the HTTP surface: the provider webhook, the public
// chat endpoint, the approval dashboard API, and the sync trigger. Handlers
// validate payloads here; the responder core assumes clean input.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/doorloop"
	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/quo"
	"github.com/doorstep-labs/proptext/internal/responder"
	"github.com/doorstep-labs/proptext/internal/storage"
)

const messageListLimit = 100

// ResponderService is the core pipeline boundary.
type ResponderService interface {
	GetResponse(ctx context.Context, message, fromPhone string) responder.Reply
}

// MessageSender relays approved replies to the provider.
type MessageSender interface {
	SendMessage(ctx context.Context, to, text string) (*quo.Message, error)
}

// SyncRunner runs the DoorLoop import.
type SyncRunner interface {
	SyncAll(ctx context.Context) (doorloop.Counts, error)
}

type Server struct {
	store     storage.Storage
	responder ResponderService
	sender    MessageSender
	syncer    SyncRunner
	logger    *zap.Logger
	mux       *http.ServeMux
}

func New(store storage.Storage, resp ResponderService, sender MessageSender, syncer SyncRunner, logger *zap.Logger) *Server {
	s := &Server{
		store:     store,
		responder: resp,
		sender:    sender,
		syncer:    syncer,
		logger:    logger,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("GET /messages", s.handleListMessages)
	s.mux.HandleFunc("POST /messages/{id}/approve", s.handleApprove)
	s.mux.HandleFunc("POST /messages/{id}/reject", s.handleReject)
	s.mux.HandleFunc("POST /sync", s.handleSync)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// webhookEvent is the provider's inbound message event, limited to the
// fields the handler reads.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Body string `json:"body"`
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"object"`
	} `json:"data"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if event.Type != "message.received" {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ignored"})
		return
	}

	incoming := event.Data.Object
	if incoming.Body == "" || incoming.From == "" {
		writeError(w, http.StatusBadRequest, "missing message body or sender")
		return
	}

	reply := s.responder.GetResponse(r.Context(), incoming.Body, incoming.From)

	msg := &models.Message{
		ID:              uuid.New().String(),
		FromPhone:       incoming.From,
		ToPhone:         incoming.To,
		IncomingMessage: incoming.Body,
		AIReply:         reply.Text,
		Status:          models.StatusPending,
		CallerType:      reply.CallerType,
		CallerName:      reply.CallerName,
	}
	if err := s.store.CreateMessage(r.Context(), msg); err != nil {
		s.logger.Error("Failed to save pending message",
			zap.Error(err),
			zap.String("from", incoming.From))
		writeError(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	s.logger.Info("Pending reply created",
		zap.String("message_id", msg.ID),
		zap.String("caller_type", string(reply.CallerType)),
		zap.String("caller_name", reply.CallerName))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"messageId":  msg.ID,
		"callerType": reply.CallerType,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "missing message")
		return
	}

	reply := s.responder.GetResponse(r.Context(), req.Message, "")
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply.Text})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	msgs, err := s.store.ListMessages(r.Context(), status, messageListLimit)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	msg, err := s.store.GetMessage(r.Context(), id)
	if err != nil {
		s.logger.Error("Failed to load message", zap.Error(err), zap.String("message_id", id))
		writeError(w, http.StatusInternalServerError, "failed to load message")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}

	if err := s.store.SetMessageStatus(r.Context(), id, models.StatusPending, models.StatusApproved); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if _, err := s.sender.SendMessage(r.Context(), msg.FromPhone, msg.AIReply); err != nil {
		// Approved but not relayed; the dashboard can retry.
		s.logger.Error("Failed to relay approved reply",
			zap.Error(err),
			zap.String("message_id", id))
		writeError(w, http.StatusBadGateway, "approved but failed to send")
		return
	}

	if err := s.store.SetMessageStatus(r.Context(), id, models.StatusApproved, models.StatusSent); err != nil {
		s.logger.Error("Failed to mark message sent", zap.Error(err), zap.String("message_id", id))
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": models.StatusSent})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.SetMessageStatus(r.Context(), id, models.StatusPending, models.StatusRejected); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": models.StatusRejected})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	counts, err := s.syncer.SyncAll(r.Context())
	if err != nil {
		s.logger.Error("DoorLoop sync failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "synced": counts})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
