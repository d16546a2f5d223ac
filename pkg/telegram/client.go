package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Telegram Bot API
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client authorized with the bot token
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	return &Client{api: api}, nil
}

// Self returns the bot's own username
func (c *Client) Self() string {
	return c.api.Self.UserName
}

// Reply sends a plain text message to the chat
func (c *Client) Reply(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// ReplyWithKeyboard sends a message with a one-time single-row reply keyboard
func (c *Client) ReplyWithKeyboard(chatID int64, text string, buttons []string) error {
	row := make([]tgbotapi.KeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, tgbotapi.NewKeyboardButton(b))
	}
	keyboard := tgbotapi.NewOneTimeReplyKeyboard(row)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send keyboard message to chat %d: %w", chatID, err)
	}
	return nil
}

// Events starts the long-poll loop and converts each update into a tagged
// event. The channel closes when ctx is cancelled.
func (c *Client) Events(ctx context.Context) <-chan Event {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := c.api.GetUpdatesChan(cfg)

	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				c.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				ev, ok := c.convert(update)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					c.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

// convert maps one raw update to an event variant. Updates without a message
// or sender, and message kinds the bot does not handle, are dropped.
func (c *Client) convert(update tgbotapi.Update) (Event, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil, false
	}
	meta := Meta{
		ChatID: msg.Chat.ID,
		User: Sender{
			ID:        msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
		},
	}
	switch {
	case msg.IsCommand():
		return CommandEvent{Meta: meta, Name: msg.Command()}, true
	case len(msg.Photo) > 0:
		// Telegram delivers several resolutions of one logical photo;
		// the last entry is the largest and is the one representative
		// counted against the photo cap.
		best := msg.Photo[len(msg.Photo)-1]
		return PhotoEvent{
			Meta:    meta,
			Caption: msg.Caption,
			Photos:  []Attachment{&photoAttachment{api: c.api, fileID: best.FileID}},
		}, true
	case msg.Text != "":
		return TextEvent{Meta: meta, Body: msg.Text}, true
	}
	return nil, false
}

// photoAttachment resolves a Telegram file id to its download stream.
type photoAttachment struct {
	api    *tgbotapi.BotAPI
	fileID string
}

func (a *photoAttachment) ID() string {
	return a.fileID
}

func (a *photoAttachment) Open(ctx context.Context) (io.ReadCloser, error) {
	url, err := a.api.GetFileDirectURL(a.fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", a.fileID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", a.fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		log.Printf("Telegram file download for %s returned status %d", a.fileID, resp.StatusCode)
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
