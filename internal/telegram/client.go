// Package telegram provides a Bot API client for offset-addressed update retrieval and message delivery.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/message"
)

// ErrTransport marks network failures, non-2xx answers and ok=false envelopes
var ErrTransport = errors.New("telegram transport failure")

// RequestError describes a failed Bot API call. It matches ErrTransport with errors.Is.
type RequestError struct {
	Method      string
	StatusCode  int
	Description string
	Err         error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("telegram %s: %v", e.Method, e.Err)
	case e.StatusCode > 0 && e.Description != "":
		return fmt.Sprintf("telegram %s: http %d: %s", e.Method, e.StatusCode, e.Description)
	case e.StatusCode > 0:
		return fmt.Sprintf("telegram %s: http %d", e.Method, e.StatusCode)
	case e.Description != "":
		return fmt.Sprintf("telegram %s: %s", e.Method, e.Description)
	}
	return fmt.Sprintf("telegram %s: request failed", e.Method)
}

// Is reports ErrTransport for every RequestError
func (e *RequestError) Is(target error) bool {
	return target == ErrTransport
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client manages Bot API calls
type Client struct {
	http           *resty.Client
	token          string
	pollTimeout    time.Duration
	requestTimeout time.Duration
	log            *log.Logger
}

// NewClient creates a Bot API client. The token is read at call time so a
// client can exist before credentials are configured.
func NewClient(cfg *config.TelegramConfig, logger *log.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:           httpClient,
		token:          cfg.Token,
		pollTimeout:    cfg.PollTimeout,
		requestTimeout: cfg.RequestTimeout,
		log:            logger,
	}
}

type getUpdatesRequest struct {
	Offset  int64 `json:"offset"`
	Limit   int   `json:"limit"`
	Timeout int   `json:"timeout"`
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

type update struct {
	UpdateID          int64        `json:"update_id"`
	Message           *wireMessage `json:"message,omitempty"`
	EditedMessage     *wireMessage `json:"edited_message,omitempty"`
	ChannelPost       *wireMessage `json:"channel_post,omitempty"`
	EditedChannelPost *wireMessage `json:"edited_channel_post,omitempty"`
}

type wireMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      *wireChat    `json:"chat,omitempty"`
	From      *wireUser    `json:"from,omitempty"`
	Text      string       `json:"text,omitempty"`
	Entities  []wireEntity `json:"entities,omitempty"`
}

type wireChat struct {
	ID int64 `json:"id"`
}

type wireUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type wireEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// GetUpdates fetches at most limit updates starting at offset. Updates that
// carry no chat message are reported in Batch.Skipped so the cursor still
// moves past them.
func (c *Client) GetUpdates(ctx context.Context, offset int64, limit int) (message.Batch, error) {
	// The provider holds the request for pollTimeout; the deadline covers that plus the round trip
	reqCtx, cancel := context.WithTimeout(ctx, c.pollTimeout+c.requestTimeout)
	defer cancel()

	body := getUpdatesRequest{
		Offset:  offset,
		Limit:   limit,
		Timeout: int(c.pollTimeout / time.Second),
	}

	var out apiResponse[[]update]
	if err := c.call(reqCtx, "getUpdates", body, &out); err != nil {
		return message.Batch{}, err
	}

	batch := message.Batch{Items: make([]message.Inbound, 0, len(out.Result))}
	for _, u := range out.Result {
		msg := u.message()
		if msg == nil || msg.Chat == nil {
			batch.Skipped = append(batch.Skipped, u.UpdateID)
			continue
		}
		batch.Items = append(batch.Items, toInbound(u.UpdateID, msg))
	}
	return batch, nil
}

// SendMessage delivers a plain text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("refusing to send an empty message to chat %d", chatID)
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var out apiResponse[json.RawMessage]
	if err := c.call(reqCtx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text}, &out); err != nil {
		return err
	}
	c.log.Debug("Message sent to chat %d", chatID)
	return nil
}

// call posts a JSON body to a Bot API method and decodes the envelope into out
func (c *Client) call(ctx context.Context, method string, body any, out interface{ ok() (bool, string) }) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/bot" + c.token + "/" + method)
	if err != nil {
		return &RequestError{Method: method, Err: err}
	}

	raw := resp.Body()
	if resp.IsError() {
		reqErr := &RequestError{Method: method, StatusCode: resp.StatusCode()}
		var envelope apiResponse[json.RawMessage]
		if json.Unmarshal(raw, &envelope) == nil && envelope.Description != "" {
			reqErr.Description = envelope.Description
		} else {
			reqErr.Description = strings.TrimSpace(string(raw))
		}
		return reqErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Method: method, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if ok, desc := out.ok(); !ok {
		if desc == "" {
			desc = "ok=false"
		}
		return &RequestError{Method: method, StatusCode: resp.StatusCode(), Description: desc}
	}
	return nil
}

func (r *apiResponse[T]) ok() (bool, string) {
	return r.OK, r.Description
}

func (u update) message() *wireMessage {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	}
	return u.EditedChannelPost
}

func toInbound(updateID int64, msg *wireMessage) message.Inbound {
	in := message.Inbound{
		ID:         updateID,
		ChatID:     msg.Chat.ID,
		SenderName: displayName(msg.From),
		Text:       msg.Text,
	}
	if len(msg.Entities) > 0 {
		in.Markers = make([]message.Marker, len(msg.Entities))
		for i, e := range msg.Entities {
			in.Markers[i] = message.Marker{Type: e.Type, Offset: e.Offset, Length: e.Length}
		}
	}
	return in
}

func displayName(u *wireUser) string {
	if u == nil {
		return ""
	}
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case u.Username != "":
		return "@" + strings.TrimSpace(u.Username)
	}
	return ""
}
