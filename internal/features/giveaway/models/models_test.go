package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
)

func TestEntriesRegisterNeverDowngrades(t *testing.T) {
	e := make(Entries)

	assert.True(t, e.Register(1, Entry{Weight: 1, Rank: 2}))
	assert.True(t, e.Register(1, Entry{Weight: 5, Rank: 0}), "higher priority rule upgrades")
	assert.False(t, e.Register(1, Entry{Weight: 1, Rank: 2}), "lower priority rule is ignored")
	assert.False(t, e.Register(1, Entry{Weight: 5, Rank: 0}), "identical input is a no-op")

	assert.Equal(t, Entry{Weight: 5, Rank: 0}, e[1])
}

func TestEntriesRegisterPriorityNotMagnitude(t *testing.T) {
	e := make(Entries)

	require.True(t, e.Register(7, Entry{Weight: 10, Rank: 1}))
	// rank 0 wins even with a smaller weight
	require.True(t, e.Register(7, Entry{Weight: 3, Rank: 0}))
	assert.Equal(t, 3, e[7].Weight)
}

func TestEntriesRegisterClampsWeight(t *testing.T) {
	e := make(Entries)
	e.Register(1, Entry{Weight: 0, Rank: 0})
	assert.Equal(t, 1, e[1].Weight)
}

func TestEntriesAggregates(t *testing.T) {
	e := Entries{1: {Weight: 1}, 2: {Weight: 1}, 3: {Weight: 5}}
	assert.Equal(t, 3, e.Size())
	assert.Equal(t, 7, e.TotalWeight())

	var empty Entries
	assert.Equal(t, 0, empty.Size())
	assert.Equal(t, 0, empty.TotalWeight())
}

func TestParseGatingRules(t *testing.T) {
	raw := []byte(`{
		"required_roles": ["member", "member"],
		"required_level": 10,
		"bypass_roles": ["booster"],
		"extra_entry_roles": [
			{"role": "vip", "entries": 3},
			{"role": "booster", "entries": 2},
			{"role": "vip", "entries": 5}
		]
	}`)

	rules, err := ParseGatingRules(raw)
	require.NoError(t, err)

	assert.Equal(t, []RoleRef{"member"}, rules.RequiredRoles)
	assert.Equal(t, 10, rules.RequiredLevel)
	assert.Equal(t, []RoleRef{"booster"}, rules.BypassRoles)
	assert.Equal(t, []BonusRule{{Role: "booster", Entries: 2}, {Role: "vip", Entries: 5}}, rules.ExtraEntryRoles)
	assert.Equal(t, 2, rules.DefaultRank())
}

func TestParseGatingRulesRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "top level", raw: `{"required_messages": 50}`},
		{name: "nested", raw: `{"extra_entry_roles": [{"role": "vip", "entries": 2, "stack": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGatingRules([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
		})
	}
}

func TestParseGatingRulesValidation(t *testing.T) {
	for _, raw := range []string{
		`{"required_level": -1}`,
		`{"extra_entry_roles": [{"role": "vip", "entries": 0}]}`,
		`{"extra_entry_roles": [{"role": "", "entries": 2}]}`,
		`{"bypass_roles": [""]}`,
	} {
		_, err := ParseGatingRules([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestParseGatingRulesEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		rules, err := ParseGatingRules([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, GatingRules{}, rules)
	}
}

func validConfig() GiveawayConfig {
	return GiveawayConfig{
		Name:        "Summer drop",
		Prize:       "Nitro",
		HostID:      42,
		Duration:    2 * time.Hour,
		WinnerCount: 2,
	}
}

func TestNewDraftRejectsInvalidNumbers(t *testing.T) {
	cfg := validConfig()
	cfg.Duration = 0
	_, err := NewDraft(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))

	cfg = validConfig()
	cfg.WinnerCount = -1
	_, err = NewDraft(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
}

func TestDraftCommit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d, err := NewDraft(validConfig())
	require.NoError(t, err)

	g, err := d.Commit("g-1", now)
	require.NoError(t, err)

	assert.Equal(t, GiveawayStatusActive, g.Status)
	assert.Equal(t, now.Unix(), g.CreatedAt)
	assert.Equal(t, now.Add(2*time.Hour).Unix(), g.EndAt)
	assert.NotNil(t, g.Entries)
	assert.Nil(t, g.Winners)
}

func TestDraftCommitRequiresCompleteness(t *testing.T) {
	for name, mutate := range map[string]func(*GiveawayConfig){
		"name":  func(c *GiveawayConfig) { c.Name = " " },
		"prize": func(c *GiveawayConfig) { c.Prize = "" },
		"host":  func(c *GiveawayConfig) { c.HostID = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			d, err := NewDraft(cfg)
			require.NoError(t, err)

			_, err = d.Commit("g-1", time.Now())
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
		})
	}
}

func TestDraftIsolatedFromCallerConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Gating.RequiredRoles = []RoleRef{"vip"}
	d, err := NewDraft(cfg)
	require.NoError(t, err)

	cfg.WinnerCount = 5
	cfg.Gating.RequiredRoles[0] = "guest"

	assert.Equal(t, 2, d.Config().WinnerCount)
	assert.Equal(t, []RoleRef{"vip"}, d.Config().Gating.RequiredRoles)
}

func TestClaims(t *testing.T) {
	g := &Giveaway{Status: GiveawayStatusEnded, Winners: []ParticipantID{1, 2, 3}}

	assert.True(t, g.AddClaim(2))
	assert.False(t, g.AddClaim(2))
	assert.False(t, g.AddClaim(9), "non-winner cannot claim")

	assert.Equal(t, []ParticipantID{2}, g.Claims)
	assert.Equal(t, []ParticipantID{1, 3}, g.Unclaimed())
}

func TestCloneIsDeep(t *testing.T) {
	g := &Giveaway{
		ID:      "g-1",
		Gating:  GatingRules{RequiredRoles: []RoleRef{"a"}},
		Entries: Entries{1: {Weight: 2}},
		Winners: []ParticipantID{1},
	}
	c := g.Clone()
	c.Entries[2] = Entry{Weight: 1}
	c.Gating.RequiredRoles[0] = "b"
	c.Winners[0] = 5

	assert.Len(t, g.Entries, 1)
	assert.Equal(t, RoleRef("a"), g.Gating.RequiredRoles[0])
	assert.Equal(t, ParticipantID(1), g.Winners[0])

	assert.Nil(t, (&Giveaway{}).Clone().Winners)
}

func TestGiveawayJSONKeepsWinnerPresence(t *testing.T) {
	g := &Giveaway{ID: "g-1", Status: GiveawayStatusEnded, Winners: []ParticipantID{}, Entries: Entries{}}
	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back Giveaway
	require.NoError(t, json.Unmarshal(data, &back))
	assert.NotNil(t, back.Winners)
	assert.Empty(t, back.Winners)

	data, err = json.Marshal(&Giveaway{ID: "g-2", Status: GiveawayStatusActive})
	require.NoError(t, err)
	var active Giveaway
	require.NoError(t, json.Unmarshal(data, &active))
	assert.Nil(t, active.Winners)
}

func TestSummarize(t *testing.T) {
	g := &Giveaway{
		ID:          "g-1",
		Name:        "Drop",
		Status:      GiveawayStatusEnded,
		WinnerCount: 2,
		Entries:     Entries{1: {Weight: 1}, 2: {Weight: 4}},
		Winners:     []ParticipantID{2, 1},
		Claims:      []ParticipantID{1},
	}
	s := g.Summarize()
	assert.Equal(t, 2, s.Participants)
	assert.Equal(t, 5, s.TotalEntries)
	assert.Equal(t, []ParticipantID{2}, s.Unclaimed)
	assert.False(t, s.NoParticipants)

	empty := (&Giveaway{Status: GiveawayStatusEnded, Winners: []ParticipantID{}}).Summarize()
	assert.True(t, empty.NoParticipants)
}
