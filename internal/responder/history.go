package responder

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/quo"
)

// buildHistory merges the provider's message history with the local reply
// log into one transcript, remote section first. The two fetches are
// independent and run concurrently; either one failing just drops its
// section. A missing history is acceptable, a crashed response is not.
func (r *Responder) buildHistory(ctx context.Context, phoneNumber string) string {
	var remote, local string
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		msgs, err := r.history.ListMessages(ctx, phoneNumber, r.opts.HistoryLimit)
		if err != nil {
			r.logger.Warn("Provider history fetch failed",
				zap.Error(err),
				zap.String("phone", phoneNumber))
			return
		}
		remote = renderRemoteHistory(msgs)
	}()
	go func() {
		defer wg.Done()
		msgs, err := r.store.GetMessagesByPhone(ctx, phoneNumber, r.opts.HistoryLimit)
		if err != nil {
			r.logger.Warn("Local history fetch failed",
				zap.Error(err),
				zap.String("phone", phoneNumber))
			return
		}
		local = renderLocalHistory(msgs)
	}()
	wg.Wait()

	var sections []string
	if remote != "" {
		sections = append(sections, "CONVERSATION HISTORY (messaging provider):\n"+remote)
	}
	if local != "" {
		sections = append(sections, "RECENT LOGGED EXCHANGES:\n"+local)
	}

	return strings.Join(sections, "\n\n")
}

// renderRemoteHistory formats provider messages, already sorted ascending
// by the client. Empty-text messages (media, delivery stubs) are skipped.
func renderRemoteHistory(msgs []quo.Message) string {
	var lines []string
	for _, m := range msgs {
		if m.Text == "" {
			continue
		}
		label := "Them"
		if m.Direction == "outgoing" {
			label = "You"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", formatDate(m.CreatedAt), label, m.Text))
	}
	return strings.Join(lines, "\n")
}

// renderLocalHistory formats the local reply log as inbound/reply pairs.
func renderLocalHistory(msgs []models.Message) string {
	var lines []string
	for _, m := range msgs {
		lines = append(lines, "Them: "+m.IncomingMessage)
		reply := m.AIReply
		if reply == "" {
			reply = "(no reply recorded)"
		}
		lines = append(lines, "You: "+reply)
	}
	return strings.Join(lines, "\n")
}
