package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/platform/telegram"
)

type sentMessage struct {
	method  string
	chatID  int64
	text    string
	photo   string
	options telegram.SendOptions
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, opts telegram.SendOptions) (*telegram.Message, error) {
	f.sent = append(f.sent, sentMessage{method: "sendMessage", chatID: chatID, text: text, options: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &telegram.Message{MessageID: int64(100 + len(f.sent))}, nil
}

func (f *fakeSender) SendPhoto(_ context.Context, chatID int64, photoURL, caption string, opts telegram.SendOptions) (*telegram.Message, error) {
	f.sent = append(f.sent, sentMessage{method: "sendPhoto", chatID: chatID, text: caption, photo: photoURL, options: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &telegram.Message{MessageID: int64(100 + len(f.sent))}, nil
}

func announced() *models.Giveaway {
	return &models.Giveaway{
		ID:          "g-1",
		Name:        "Summer <Drop>",
		Prize:       "Nitro",
		HostID:      42,
		EndAt:       1_700_000_000,
		Status:      models.GiveawayStatusActive,
		WinnerCount: 2,
		Gating: models.GatingRules{
			RequiredLevel:   5,
			ExtraEntryRoles: []models.BonusRule{{Role: "booster", Entries: 3}},
		},
	}
}

func TestAnnounceCreatedGroupUsesURLButton(t *testing.T) {
	sender := &fakeSender{}
	a := NewTelegramAnnouncer(sender, -1001, "https://app.example/")

	ann, err := a.AnnounceCreated(context.Background(), announced())
	require.NoError(t, err)
	assert.Equal(t, Announcement{ChatID: -1001, MessageID: 101}, ann)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "sendMessage", msg.method)
	assert.Contains(t, msg.text, "Summer &lt;Drop&gt;")
	assert.Contains(t, msg.text, "Required level: 5")
	assert.Contains(t, msg.text, "booster: 3 entries")
	require.Len(t, msg.options.Buttons, 1)
	assert.Equal(t, "https://app.example/giveaways/g-1", msg.options.Buttons[0].URL)
	assert.Nil(t, msg.options.Buttons[0].WebApp)
}

func TestAnnounceCreatedPrivateChatWithImage(t *testing.T) {
	sender := &fakeSender{}
	a := NewTelegramAnnouncer(sender, -1001, "https://app.example")

	g := announced()
	g.AnnounceChatID = 77
	g.Appearance.ImageURL = "https://img.example/banner.png"

	ann, err := a.AnnounceCreated(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, int64(77), ann.ChatID)

	msg := sender.sent[0]
	assert.Equal(t, "sendPhoto", msg.method)
	assert.Equal(t, "https://img.example/banner.png", msg.photo)
	require.NotNil(t, msg.options.Buttons[0].WebApp)
	assert.Equal(t, "https://app.example/giveaways/g-1", msg.options.Buttons[0].WebApp.URL)
}

func TestAnnounceWithoutChatIsNoop(t *testing.T) {
	sender := &fakeSender{}
	a := NewTelegramAnnouncer(sender, 0, "")

	ann, err := a.AnnounceCreated(context.Background(), announced())
	require.NoError(t, err)
	assert.Zero(t, ann)
	require.NoError(t, a.AnnounceEnded(context.Background(), announced(), nil))
	assert.Empty(t, sender.sent)
}

func TestAnnounceEndedRepliesWithMentions(t *testing.T) {
	sender := &fakeSender{}
	a := NewTelegramAnnouncer(sender, -1001, "")

	g := announced()
	g.AnnounceChatID = -1001
	g.AnnounceMessageID = 555

	require.NoError(t, a.AnnounceEnded(context.Background(), g, []models.ParticipantID{7, 9}))
	msg := sender.sent[0]
	assert.Equal(t, int64(555), msg.options.ReplyToMessageID)
	assert.Contains(t, msg.text, `<a href="tg://user?id=7">7</a>, <a href="tg://user?id=9">9</a>`)
}

func TestAnnounceEndedNoParticipants(t *testing.T) {
	sender := &fakeSender{}
	a := NewTelegramAnnouncer(sender, -1001, "")

	require.NoError(t, a.AnnounceEnded(context.Background(), announced(), []models.ParticipantID{}))
	assert.True(t, strings.HasSuffix(sender.sent[0].text, "has ended with no participants."))
	assert.Zero(t, sender.sent[0].options.ReplyToMessageID)
}

func TestAnnounceFailureIsExternalAPIError(t *testing.T) {
	a := NewTelegramAnnouncer(&fakeSender{err: errors.New("timeout")}, -1001, "")

	_, err := a.AnnounceCreated(context.Background(), announced())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeExternalAPI))
	err = a.AnnounceEnded(context.Background(), announced(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeExternalAPI))
}

func TestAnnouncerWithBotAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botT/sendMessage", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":31}}`))
	}))
	defer srv.Close()

	a := NewTelegramAnnouncer(telegram.NewClientWithBaseURL("T", srv.URL, srv.Client()), -5, "")
	ann, err := a.AnnounceCreated(context.Background(), announced())
	require.NoError(t, err)
	assert.Equal(t, int64(31), ann.MessageID)
}

func newDirectory(t *testing.T) (*miniredis.Miniredis, *RedisDirectory) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisDirectory(client)
}

func TestDirectoryUnknownMember(t *testing.T) {
	_, d := newDirectory(t)
	ctx := context.Background()

	roles, err := d.QueryRoles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roles)

	level, err := d.QueryLevel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, level)
}

func TestDirectorySetAndQuery(t *testing.T) {
	mr, d := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.SetRoles(ctx, 5, []models.RoleRef{"vip", "booster"}))
	require.NoError(t, d.SetLevel(ctx, 5, 12))

	roles, err := d.QueryRoles(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []models.RoleRef{"booster", "vip"}, roles)

	level, err := d.QueryLevel(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, level)

	require.NoError(t, d.SetRoles(ctx, 5, nil))
	assert.False(t, mr.Exists("member:5:roles"))

	assert.Error(t, d.SetLevel(ctx, 5, -1))
}

func TestDirectoryCorruptLevel(t *testing.T) {
	mr, d := newDirectory(t)
	require.NoError(t, mr.Set("member:3:level", "high"))

	_, err := d.QueryLevel(context.Background(), 3)
	assert.Error(t, err)
}
