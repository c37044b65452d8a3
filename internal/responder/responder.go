// Package responder is the caller-identification and context-assembly
// pipeline: it classifies an inbound phone number against the CRM store,
// assembles a bounded role-specific context, merges local and provider
// conversation history, and delegates to the completion service.
package responder

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/phone"
	"github.com/doorstep-labs/proptext/internal/quo"
	"github.com/doorstep-labs/proptext/internal/storage"
)

// fallbackReply is the fixed human-sounding reply substituted when the
// completion call fails. The caller still receives whatever role and name
// identification already determined.
const fallbackReply = "Sorry, I'm having a little trouble pulling that up right now. Let me double-check and text you back shortly."

// HistoryProvider is the slice of the messaging provider the responder
// needs: read-only message history by participant.
type HistoryProvider interface {
	ListMessages(ctx context.Context, participant string, limit int) ([]quo.Message, error)
}

// CompletionClient is the completion service boundary, satisfied by
// *openai.Client against any OpenAI-compatible endpoint.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options tunes the responder. Zero values get sensible defaults.
type Options struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	HistoryLimit int
	ListingCap   int
}

// Reply is what the webhook and chat collaborators receive. GetResponse
// always produces one; a pipeline error never reaches the caller.
type Reply struct {
	Text       string            `json:"reply"`
	CallerType models.CallerType `json:"caller_type"`
	CallerName string            `json:"caller_name,omitempty"`
}

type Responder struct {
	store       storage.Storage
	history     HistoryProvider
	completions CompletionClient
	opts        Options
	retryDelay  time.Duration
	logger      *zap.Logger
}

func New(store storage.Storage, history HistoryProvider, completions CompletionClient, opts Options, logger *zap.Logger) *Responder {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.ListingCap <= 0 {
		opts.ListingCap = 15
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}

	return &Responder{
		store:       store,
		history:     history,
		completions: completions,
		opts:        opts,
		retryDelay:  listingRetryDelay,
		logger:      logger,
	}
}

// GetResponse runs the full pipeline for one inbound message. fromPhone may
// be empty (the public chat widget), in which case the caller is a prospect
// with no history and the context comes from the message text alone.
func (r *Responder) GetResponse(ctx context.Context, message, fromPhone string) Reply {
	var class Classification
	var historyBlock string

	if fromPhone == "" {
		class = prospect()
	} else {
		class = r.Identify(ctx, fromPhone)
		historyBlock = r.buildHistory(ctx, phone.Normalize(fromPhone))
	}

	var contextBlock string
	switch class.CallerType {
	case models.CallerTenant:
		contextBlock = renderTenantContext(class.Person, class.Tenant)
	case models.CallerOwner:
		contextBlock = renderOwnerContext(class.Person, class.Owner)
	case models.CallerVendor:
		contextBlock = renderVendorContext(class.Person, class.Vendor)
	default:
		contextBlock = r.buildListings(ctx, message)
	}

	systemPrompt := composePrompt(class.CallerType, contextBlock, historyBlock)

	reply := Reply{
		CallerType: class.CallerType,
		CallerName: class.CallerName(),
	}

	resp, err := r.completions.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: float32(r.opts.Temperature),
	})
	if err != nil {
		r.logger.Error("Completion call failed",
			zap.Error(err),
			zap.String("caller_type", string(class.CallerType)))
		reply.Text = fallbackReply
		return reply
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		r.logger.Warn("Completion returned no content",
			zap.String("caller_type", string(class.CallerType)))
		reply.Text = fallbackReply
		return reply
	}

	reply.Text = resp.Choices[0].Message.Content
	return reply
}
