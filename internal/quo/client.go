// Package quo wraps the Quo (OpenPhone) messaging API: paginated message
// history, outbound sends, and the conversation list used by bulk import.
package quo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// pageSize is the provider's maximum page size for list endpoints.
const pageSize = 50

// bulkPageDelay keeps the bulk conversation import under the provider's
// documented ~10 req/sec limit.
const bulkPageDelay = 150 * time.Millisecond

// Message is a provider-side message. Read-only; never persisted locally.
type Message struct {
	ID        string    `json:"id"`
	To        []string  `json:"to"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Direction string    `json:"direction"` // "incoming" or "outgoing"
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is a provider-side conversation summary.
type Conversation struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	LastActivity string   `json:"lastActivityAt"`
}

type listMessagesResponse struct {
	Data          []Message `json:"data"`
	TotalItems    int       `json:"totalItems"`
	NextPageToken string    `json:"nextPageToken"`
}

type listConversationsResponse struct {
	Data          []Conversation `json:"data"`
	NextPageToken string         `json:"nextPageToken"`
}

type sendMessageRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Content string   `json:"content"`
}

type sendMessageResponse struct {
	Data Message `json:"data"`
}

type Client struct {
	httpClient    *resty.Client
	phoneNumberID string
	logger        *zap.Logger
}

func NewClient(baseURL, apiKey, phoneNumberID string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Authorization", apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:    client,
		phoneNumberID: phoneNumberID,
		logger:        logger,
	}
}

// ListMessages pages through the provider's message history for one
// participant until limit messages are collected or no pages remain, then
// returns them sorted oldest first (pagination order is not chronological).
func (c *Client) ListMessages(ctx context.Context, participant string, limit int) ([]Message, error) {
	var all []Message
	pageToken := ""

	for len(all) < limit {
		remaining := limit - len(all)
		if remaining > pageSize {
			remaining = pageSize
		}

		params := map[string]string{
			"phoneNumberId":  c.phoneNumberID,
			"participants[]": participant,
			"maxResults":     strconv.Itoa(remaining),
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}

		var page listMessagesResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&page).
			Get("/messages")
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("quo API error %d: %s", resp.StatusCode(), resp.String())
		}

		all = append(all, page.Data...)

		if page.NextPageToken == "" || len(page.Data) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	return all, nil
}

// SendMessage relays an approved reply through the provider.
func (c *Client) SendMessage(ctx context.Context, to, text string) (*Message, error) {
	var result sendMessageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{
			From:    c.phoneNumberID,
			To:      []string{to},
			Content: text,
		}).
		SetResult(&result).
		Post("/messages")
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quo API error %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Info("Relayed message through Quo",
		zap.String("to", to),
		zap.String("message_id", result.Data.ID))

	return &result.Data, nil
}

// ListConversations walks every conversation page, pausing between pages to
// respect the provider rate limit. Used by the bulk-import path only.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var all []Conversation
	pageToken := ""

	for {
		params := map[string]string{
			"phoneNumberId": c.phoneNumberID,
			"maxResults":    strconv.Itoa(pageSize),
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}

		var page listConversationsResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&page).
			Get("/conversations")
		if err != nil {
			return nil, fmt.Errorf("failed to list conversations: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("quo API error %d: %s", resp.StatusCode(), resp.String())
		}

		all = append(all, page.Data...)

		if page.NextPageToken == "" || len(page.Data) == 0 {
			break
		}
		pageToken = page.NextPageToken

		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(bulkPageDelay):
		}
	}

	return all, nil
}
