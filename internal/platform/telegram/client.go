package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL, nil)
}

// NewClientWithBaseURL targets a custom API host; a nil httpClient gets a
// 10s timeout client.
func NewClientWithBaseURL(token, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// APIError is a response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type tgResponse[T any] struct {
	Ok          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Result      T      `json:"result"`
}

// WebAppInfo opens a Mini App when the button is pressed.
type WebAppInfo struct {
	URL string `json:"url"`
}

// InlineButton is one inline keyboard button; set either URL or WebApp.
type InlineButton struct {
	Text   string      `json:"text"`
	URL    string      `json:"url,omitempty"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

// Message is the subset of a sent message we keep.
type Message struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// SendOptions are optional parameters shared by send methods.
type SendOptions struct {
	ParseMode        string
	ReplyToMessageID int64
	Buttons          []InlineButton
}

// SendMessage posts a text message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts SendOptions) (*Message, error) {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	if err := opts.apply(params); err != nil {
		return nil, err
	}
	return c.send(ctx, "sendMessage", params)
}

// SendPhoto posts a photo by URL with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, opts SendOptions) (*Message, error) {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"photo":   {photoURL},
		"caption": {caption},
	}
	if err := opts.apply(params); err != nil {
		return nil, err
	}
	return c.send(ctx, "sendPhoto", params)
}

func (o SendOptions) apply(params url.Values) error {
	if o.ParseMode != "" {
		params.Set("parse_mode", o.ParseMode)
	}
	if o.ReplyToMessageID != 0 {
		params.Set("reply_to_message_id", strconv.FormatInt(o.ReplyToMessageID, 10))
	}
	if len(o.Buttons) > 0 {
		markup := map[string][][]InlineButton{"inline_keyboard": {o.Buttons}}
		data, err := json.Marshal(markup)
		if err != nil {
			return fmt.Errorf("marshal reply markup: %w", err)
		}
		params.Set("reply_markup", string(data))
	}
	return nil
}

func (c *Client) send(ctx context.Context, method string, params url.Values) (*Message, error) {
	var result tgResponse[Message]
	if err := c.makeRequest(ctx, method, params, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if !result.Ok {
		return nil, &APIError{Method: method, Code: result.ErrorCode, Description: result.Description}
	}
	return &result.Result, nil
}

func (c *Client) makeRequest(ctx context.Context, method string, data url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
