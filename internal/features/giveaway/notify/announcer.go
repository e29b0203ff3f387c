package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/platform/telegram"
)

// Announcement locates a posted announcement message.
type Announcement struct {
	ChatID    int64
	MessageID int64
}

// Sender is the part of the Bot API client the announcer needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts telegram.SendOptions) (*telegram.Message, error)
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, opts telegram.SendOptions) (*telegram.Message, error)
}

// TelegramAnnouncer posts giveaway announcements to a Telegram chat.
type TelegramAnnouncer struct {
	sender        Sender
	chatID        int64
	webAppBaseURL string
}

// NewTelegramAnnouncer posts to chatID unless a record carries its own
// announcement chat.
func NewTelegramAnnouncer(sender Sender, chatID int64, webAppBaseURL string) *TelegramAnnouncer {
	return &TelegramAnnouncer{
		sender:        sender,
		chatID:        chatID,
		webAppBaseURL: strings.TrimRight(webAppBaseURL, "/"),
	}
}

// AnnounceCreated posts the giveaway with a join button.
func (a *TelegramAnnouncer) AnnounceCreated(ctx context.Context, g *models.Giveaway) (Announcement, error) {
	chatID := a.targetChat(g)
	if chatID == 0 {
		return Announcement{}, nil
	}

	opts := telegram.SendOptions{ParseMode: "HTML"}
	if btn, ok := a.joinButton(chatID, g.ID); ok {
		opts.Buttons = []telegram.InlineButton{btn}
	}

	text := formatCreated(g)
	var (
		msg *telegram.Message
		err error
	)
	if g.Appearance.ImageURL != "" {
		msg, err = a.sender.SendPhoto(ctx, chatID, g.Appearance.ImageURL, text, opts)
	} else {
		msg, err = a.sender.SendMessage(ctx, chatID, text, opts)
	}
	if err != nil {
		return Announcement{}, apperrors.Wrap(err, apperrors.ErrCodeExternalAPI, "Failed to announce giveaway").
			WithDetail("giveaway_id", g.ID)
	}

	logger.Info().Str("giveaway_id", g.ID).Int64("chat_id", chatID).Int64("message_id", msg.MessageID).
		Msg("Giveaway announced")
	return Announcement{ChatID: chatID, MessageID: msg.MessageID}, nil
}

// AnnounceEnded posts the result as a reply to the original announcement.
// An empty winners list renders the no-participants message.
func (a *TelegramAnnouncer) AnnounceEnded(ctx context.Context, g *models.Giveaway, winners []models.ParticipantID) error {
	chatID := a.targetChat(g)
	if chatID == 0 {
		return nil
	}

	opts := telegram.SendOptions{ParseMode: "HTML"}
	if g.AnnounceChatID == chatID {
		opts.ReplyToMessageID = g.AnnounceMessageID
	}
	if _, err := a.sender.SendMessage(ctx, chatID, formatEnded(g, winners), opts); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalAPI, "Failed to announce giveaway result").
			WithDetail("giveaway_id", g.ID)
	}

	logger.Info().Str("giveaway_id", g.ID).Int("winners", len(winners)).Msg("Giveaway result announced")
	return nil
}

func (a *TelegramAnnouncer) targetChat(g *models.Giveaway) int64 {
	if g.AnnounceChatID != 0 {
		return g.AnnounceChatID
	}
	return a.chatID
}

// joinButton opens the Mini App in private chats; groups only accept plain
// URL buttons.
func (a *TelegramAnnouncer) joinButton(chatID int64, giveawayID string) (telegram.InlineButton, bool) {
	if a.webAppBaseURL == "" {
		return telegram.InlineButton{}, false
	}
	link := fmt.Sprintf("%s/giveaways/%s", a.webAppBaseURL, giveawayID)
	if chatID > 0 {
		return telegram.InlineButton{Text: "Join", WebApp: &telegram.WebAppInfo{URL: link}}, true
	}
	return telegram.InlineButton{Text: "Join", URL: link}, true
}

func formatCreated(g *models.Giveaway) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(g.Name))
	fmt.Fprintf(&b, "Prize: %s\n", html.EscapeString(g.Prize))
	fmt.Fprintf(&b, "Winners: %d\n", g.WinnerCount)
	fmt.Fprintf(&b, "Hosted by: %s\n", mention(g.HostID))
	fmt.Fprintf(&b, "Ends: %s", time.Unix(g.EndAt, 0).UTC().Format("2006-01-02 15:04 MST"))

	if g.Gating.RequiredLevel > 0 {
		fmt.Fprintf(&b, "\nRequired level: %d", g.Gating.RequiredLevel)
	}
	if len(g.Gating.RequiredRoles) > 0 {
		fmt.Fprintf(&b, "\nRequired roles: %s", joinRoles(g.Gating.RequiredRoles))
	}
	for _, rule := range g.Gating.ExtraEntryRoles {
		fmt.Fprintf(&b, "\n%s: %d entries", html.EscapeString(string(rule.Role)), rule.Entries)
	}
	return b.String()
}

func formatEnded(g *models.Giveaway, winners []models.ParticipantID) string {
	if len(winners) == 0 {
		return fmt.Sprintf("Giveaway <b>%s</b> has ended with no participants.", html.EscapeString(g.Name))
	}
	mentions := make([]string, len(winners))
	for i, w := range winners {
		mentions[i] = mention(w)
	}
	return fmt.Sprintf("Giveaway <b>%s</b> has ended!\nPrize: %s\nWinners: %s\nUse /claim to collect your prize.",
		html.EscapeString(g.Name), html.EscapeString(g.Prize), strings.Join(mentions, ", "))
}

func mention(p models.ParticipantID) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%d</a>`, p, p)
}

func joinRoles(roles []models.RoleRef) string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = html.EscapeString(string(r))
	}
	return strings.Join(out, ", ")
}
