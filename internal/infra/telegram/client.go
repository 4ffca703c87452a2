// Package telegram connects the bot to the Telegram Bot API using long polling.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Ensure Client implements domain.Sender.
var _ domain.Sender = (*Client)(nil)

// APIError is a response with "ok": false.
type APIError struct {
	Method      string
	Description string
	Code        int64
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client calls Bot API methods.
// Fields are ordered to minimize memory padding.
type Client struct {
	http    *http.Client
	apiRoot string
	token   string
}

// NewClient creates a Client. An empty apiRoot selects the public API.
func NewClient(apiRoot, token string, httpClient *http.Client) *Client {
	if strings.TrimSpace(apiRoot) == "" {
		apiRoot = domain.DefaultAPIRoot
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:    httpClient,
		apiRoot: strings.TrimRight(apiRoot, "/"),
		token:   token,
	}
}

// call posts a JSON body and returns the "result" member of the response.
func (c *Client) call(ctx context.Context, method string, body []byte) (gjson.Result, error) {
	endpoint := c.apiRoot + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return gjson.Result{}, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("telegram %s: read response: %w", method, err)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("telegram %s: status %d: invalid response body", method, resp.StatusCode)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.Get("ok").Bool() {
		return gjson.Result{}, &APIError{
			Method:      method,
			Code:        parsed.Get("error_code").Int(),
			Description: parsed.Get("description").String(),
		}
	}
	return parsed.Get("result"), nil
}

// GetUpdates long-polls for updates with an ID of at least offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]gjson.Result, error) {
	body := []byte(`{"allowed_updates":["message","callback_query"]}`)
	body, _ = sjson.SetBytes(body, "timeout", int(timeout/time.Second))
	if offset > 0 {
		body, _ = sjson.SetBytes(body, "offset", offset)
	}
	result, err := c.call(ctx, "getUpdates", body)
	if err != nil {
		return nil, err
	}
	return result.Array(), nil
}

// Send delivers a plain text message.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	return c.SendMessage(ctx, chatID, text, nil)
}

// SendMessage delivers text with an optional inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, options [][]domain.Option) error {
	body, err := messageBody(chatID, text, options)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, "sendMessage", body)
	return err
}

// EditMessageText replaces the text and keyboard of an earlier message.
func (c *Client) EditMessageText(ctx context.Context, chatID string, messageID int64, text string, options [][]domain.Option) error {
	body, err := messageBody(chatID, text, options)
	if err != nil {
		return err
	}
	body, _ = sjson.SetBytes(body, "message_id", messageID)
	_, err = c.call(ctx, "editMessageText", body)
	return err
}

// AnswerCallbackQuery acknowledges a button press so the client stops its spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID string) error {
	body, _ := sjson.SetBytes([]byte(`{}`), "callback_query_id", queryID)
	_, err := c.call(ctx, "answerCallbackQuery", body)
	return err
}

type button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

func messageBody(chatID, text string, options [][]domain.Option) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "chat_id", chatID)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	if body, err = sjson.SetBytes(body, "text", text); err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	if len(options) == 0 {
		return body, nil
	}
	rows := make([][]button, 0, len(options))
	for _, row := range options {
		buttons := make([]button, 0, len(row))
		for _, opt := range row {
			buttons = append(buttons, button{Text: opt.Label, CallbackData: opt.Action})
		}
		rows = append(rows, buttons)
	}
	if body, err = sjson.SetBytes(body, "reply_markup.inline_keyboard", rows); err != nil {
		return nil, fmt.Errorf("build keyboard: %w", err)
	}
	return body, nil
}
