package models

import (
	"slices"
)

// ParticipantID identifies a member of the population (Telegram user id).
type ParticipantID int64

// RoleRef is an opaque identifier of a role a participant may hold.
type RoleRef string

// GiveawayStatus represents the lifecycle state of a giveaway.
type GiveawayStatus string

const (
	GiveawayStatusDraft  GiveawayStatus = "draft"
	GiveawayStatusActive GiveawayStatus = "active"
	GiveawayStatusEnded  GiveawayStatus = "ended"
)

// Appearance is passed through to announcements only.
type Appearance struct {
	EmbedColor   int    `json:"embed_color,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Giveaway is the persisted giveaway record.
type Giveaway struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Prize       string         `json:"prize"`
	HostID      ParticipantID  `json:"host_id"`
	CreatedAt   int64          `json:"created_at"`
	EndAt       int64          `json:"end_at"`
	Status      GiveawayStatus `json:"status"`
	WinnerCount int            `json:"winner_count"`
	Gating      GatingRules    `json:"gating"`
	Entries     Entries        `json:"entries"`
	// Winners is nil until the draw; an ended giveaway without entries has
	// an empty, non-nil list.
	Winners    []ParticipantID `json:"winners"`
	Claims     []ParticipantID `json:"claims,omitempty"`
	Appearance Appearance      `json:"appearance"`

	AnnounceChatID    int64 `json:"announce_chat_id,omitempty"`
	AnnounceMessageID int64 `json:"announce_message_id,omitempty"`
}

// IsExpired reports whether an active giveaway is due at unix time now.
func (g *Giveaway) IsExpired(now int64) bool {
	return g.Status == GiveawayStatusActive && now >= g.EndAt
}

// IsWinner reports whether p was drawn as a winner.
func (g *Giveaway) IsWinner(p ParticipantID) bool {
	return slices.Contains(g.Winners, p)
}

// HasClaimed reports whether p already acknowledged the prize.
func (g *Giveaway) HasClaimed(p ParticipantID) bool {
	return slices.Contains(g.Claims, p)
}

// AddClaim records a claim for a winner. It returns false when p is not a
// winner or already claimed.
func (g *Giveaway) AddClaim(p ParticipantID) bool {
	if !g.IsWinner(p) || g.HasClaimed(p) {
		return false
	}
	g.Claims = append(g.Claims, p)
	return true
}

// Unclaimed returns winners minus claims, in draw order.
func (g *Giveaway) Unclaimed() []ParticipantID {
	out := make([]ParticipantID, 0, len(g.Winners))
	for _, w := range g.Winners {
		if !g.HasClaimed(w) {
			out = append(out, w)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand outside the record lock.
func (g *Giveaway) Clone() *Giveaway {
	if g == nil {
		return nil
	}
	c := *g
	c.Gating = g.Gating.Clone()
	c.Entries = g.Entries.Clone()
	if g.Winners != nil {
		c.Winners = slices.Clone(g.Winners)
	}
	c.Claims = slices.Clone(g.Claims)
	return &c
}

// Summary is the read model returned by ViewInfo and ListUnclaimed.
type Summary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Prize          string          `json:"prize"`
	HostID         ParticipantID   `json:"host_id"`
	Status         GiveawayStatus  `json:"status"`
	EndAt          int64           `json:"end_at"`
	WinnerCount    int             `json:"winner_count"`
	Participants   int             `json:"participants"`
	TotalEntries   int             `json:"total_entries"`
	RequiredLevel  int             `json:"required_level,omitempty"`
	RequiredRoles  []RoleRef       `json:"required_roles,omitempty"`
	Winners        []ParticipantID `json:"winners,omitempty"`
	Claimed        []ParticipantID `json:"claimed,omitempty"`
	Unclaimed      []ParticipantID `json:"unclaimed,omitempty"`
	NoParticipants bool            `json:"no_participants,omitempty"`
}

// Summarize builds the read model of g.
func (g *Giveaway) Summarize() Summary {
	s := Summary{
		ID:            g.ID,
		Name:          g.Name,
		Prize:         g.Prize,
		HostID:        g.HostID,
		Status:        g.Status,
		EndAt:         g.EndAt,
		WinnerCount:   g.WinnerCount,
		Participants:  g.Entries.Size(),
		TotalEntries:  g.Entries.TotalWeight(),
		RequiredLevel: g.Gating.RequiredLevel,
		RequiredRoles: slices.Clone(g.Gating.RequiredRoles),
	}
	if g.Status == GiveawayStatusEnded {
		s.Winners = slices.Clone(g.Winners)
		s.Claimed = slices.Clone(g.Claims)
		s.Unclaimed = g.Unclaimed()
		s.NoParticipants = len(g.Winners) == 0
	}
	return s
}
