package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
)

// Renderer re-renders a giveaway's public entry surface. Render is
// idempotent; the engine calls it after every entrant-list mutation and at
// close/cancel. Failures are for the caller to log, never to propagate.
type Renderer interface {
	Render(ctx context.Context, giveaway *models.Giveaway) error
}

// Announcer broadcasts close and reroll results to the guild channel.
// Best-effort.
type Announcer interface {
	Announce(ctx context.Context, guildID, text string) error
}

// WebhookGateway posts render and announce payloads to the platform bridge
// that owns the actual chat messages.
type WebhookGateway struct {
	RenderURL   string
	AnnounceURL string
	Mock        bool
	client      *http.Client
}

// NewWebhookGateway creates a new WebhookGateway
func NewWebhookGateway(renderURL, announceURL string, mock bool) *WebhookGateway {
	return &WebhookGateway{
		RenderURL:   renderURL,
		AnnounceURL: announceURL,
		Mock:        mock,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type renderPayload struct {
	GuildID    string           `json:"guildId"`
	ChannelID  string           `json:"channelId"`
	MessageID  string           `json:"messageId,omitempty"`
	Giveaway   *models.Giveaway `json:"giveaway"`
	Eligible   int              `json:"eligibleCount"`
	Ineligible int              `json:"ineligibleCount"`
	Ended      bool             `json:"ended"`
}

type announcePayload struct {
	GuildID string `json:"guildId"`
	Text    string `json:"text"`
}

// Render posts the giveaway record to the render webhook.
func (g *WebhookGateway) Render(ctx context.Context, giveaway *models.Giveaway) error {
	if g.Mock {
		return nil
	}
	payload := renderPayload{
		GuildID:    giveaway.GuildID,
		ChannelID:  giveaway.ChannelID,
		MessageID:  giveaway.MessageID,
		Giveaway:   giveaway,
		Eligible:   len(giveaway.EligibleEntrants),
		Ineligible: len(giveaway.IneligibleEntrants),
		Ended:      !giveaway.IsActive,
	}
	return g.post(ctx, g.RenderURL, payload)
}

// Announce posts a text broadcast to the announce webhook.
func (g *WebhookGateway) Announce(ctx context.Context, guildID, text string) error {
	if g.Mock {
		return nil
	}
	return g.post(ctx, g.AnnounceURL, announcePayload{GuildID: guildID, Text: text})
}

func (g *WebhookGateway) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("presentation webhook returned status %d", resp.StatusCode)
	}
	return nil
}
