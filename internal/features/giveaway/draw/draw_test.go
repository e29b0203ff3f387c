package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/utils/random"
)

func TestDrawEmpty(t *testing.T) {
	got := Draw(nil, 3, random.NewSeeded(1, 2))
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Draw(models.Entries{1: {Weight: 1}}, 0, random.NewSeeded(1, 2))
	assert.Empty(t, got)
}

func TestDrawDistinctAndBounded(t *testing.T) {
	src := random.NewSeeded(7, 11)
	entries := models.Entries{
		1: {Weight: 1}, 2: {Weight: 3}, 3: {Weight: 99}, 4: {Weight: 2}, 5: {Weight: 1},
	}

	for winnerCount := 1; winnerCount <= 8; winnerCount++ {
		for trial := 0; trial < 200; trial++ {
			got := Draw(entries, winnerCount, src)
			assert.Len(t, got, min(winnerCount, len(entries)))

			seen := make(map[models.ParticipantID]bool)
			for _, p := range got {
				_, ok := entries[p]
				require.True(t, ok, "winner %d not an entrant", p)
				require.False(t, seen[p], "duplicate winner %d", p)
				seen[p] = true
			}
		}
	}
}

func TestDrawAllEntrantsWinWhenFewerThanSlots(t *testing.T) {
	entries := models.Entries{10: {Weight: 1}, 20: {Weight: 50}, 30: {Weight: 2}}
	got := Draw(entries, 10, random.NewSeeded(3, 4))
	assert.ElementsMatch(t, []models.ParticipantID{10, 20, 30}, got)
}

func TestDrawOrderVaries(t *testing.T) {
	entries := models.Entries{1: {Weight: 1}, 2: {Weight: 1}, 3: {Weight: 1}}
	src := random.NewSeeded(5, 6)
	firsts := make(map[models.ParticipantID]int)
	for i := 0; i < 300; i++ {
		firsts[Draw(entries, 3, src)[0]]++
	}
	assert.Len(t, firsts, 3, "every entrant should lead the draw order at some point")
}

func TestDrawWeightedDistribution(t *testing.T) {
	const (
		a      = models.ParticipantID(1)
		b      = models.ParticipantID(2)
		c      = models.ParticipantID(3)
		trials = 20000
	)
	entries := models.Entries{a: {Weight: 1}, b: {Weight: 1}, c: {Weight: 5}}
	src := random.NewSeeded(42, 1337)

	firstC := 0
	wins := map[models.ParticipantID]int{}
	for i := 0; i < trials; i++ {
		got := Draw(entries, 2, src)
		require.Len(t, got, 2)
		if got[0] == c {
			firstC++
		}
		for _, p := range got {
			wins[p]++
		}
	}

	// C takes the first slot with probability 5/7.
	assert.InDelta(t, 5.0/7.0, float64(firstC)/trials, 0.02)
	// Over both slots: C ~ 40/42, A and B ~ 22/42 each.
	assert.InDelta(t, 40.0/42.0, float64(wins[c])/trials, 0.02)
	assert.InDelta(t, 22.0/42.0, float64(wins[a])/trials, 0.02)
	assert.InDelta(t, 22.0/42.0, float64(wins[b])/trials, 0.02)
	assert.Greater(t, wins[c], wins[a])
	assert.Greater(t, wins[c], wins[b])
}

func TestDrawDefaultSource(t *testing.T) {
	got := Draw(models.Entries{1: {Weight: 2}, 2: {Weight: 2}}, 1, nil)
	assert.Len(t, got, 1)
}

func TestPoolTakesEachSlotOnce(t *testing.T) {
	p := newPool(50)
	src := random.NewSeeded(9, 9)
	seen := make(map[int]bool)
	for p.remaining > 0 {
		v := p.take(src)
		require.False(t, seen[v])
		require.True(t, v >= 0 && v < 50)
		seen[v] = true
	}
	assert.Len(t, seen, 50)
}
