package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "-100", r.PostForm.Get("chat_id"))
		assert.Equal(t, "hello", r.PostForm.Get("text"))
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		assert.Equal(t, "7", r.PostForm.Get("reply_to_message_id"))

		var markup struct {
			InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("reply_markup")), &markup))
		require.Len(t, markup.InlineKeyboard, 1)
		assert.Equal(t, "Join", markup.InlineKeyboard[0][0].Text)
		assert.Equal(t, "https://app/g/1", markup.InlineKeyboard[0][0].WebApp.URL)

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":55,"chat":{"id":-100}}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("TOKEN", srv.URL, srv.Client())
	msg, err := c.SendMessage(context.Background(), -100, "hello", SendOptions{
		ParseMode:        "HTML",
		ReplyToMessageID: 7,
		Buttons:          []InlineButton{{Text: "Join", WebApp: &WebAppInfo{URL: "https://app/g/1"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(55), msg.MessageID)
	assert.Equal(t, int64(-100), msg.Chat.ID)
}

func TestSendPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://img/x.png", r.PostForm.Get("photo"))
		assert.Equal(t, "caption", r.PostForm.Get("caption"))
		assert.Empty(t, r.PostForm.Get("reply_markup"))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":9}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("TOKEN", srv.URL, nil)
	msg, err := c.SendPhoto(context.Background(), 1, "https://img/x.png", "caption", SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(9), msg.MessageID)
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"bot was kicked"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("TOKEN", srv.URL, nil)
	_, err := c.SendMessage(context.Background(), 1, "x", SendOptions{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Code)
	assert.Equal(t, "sendMessage", apiErr.Method)
}
