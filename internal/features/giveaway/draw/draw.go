// Package draw selects distinct winners from a weighted entry ledger.
package draw

import (
	"slices"
	"sort"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-engine/internal/utils/random"
)

// Draw returns min(winnerCount, len(entries)) distinct participants in draw
// order. Each participant occupies Weight slots of a virtual pool; slots are
// sampled uniformly without replacement and a slot belonging to an already
// selected participant is discarded.
func Draw(entries models.Entries, winnerCount int, src random.Source) []models.ParticipantID {
	winners := make([]models.ParticipantID, 0)
	if winnerCount <= 0 || len(entries) == 0 {
		return winners
	}
	if src == nil {
		src = random.Default()
	}

	// stable slot layout so that only src decides the outcome
	ids := make([]models.ParticipantID, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	bounds := make([]int, len(ids))
	total := 0
	for i, id := range ids {
		w := entries[id].Weight
		if w < 1 {
			w = 1
		}
		total += w
		bounds[i] = total
	}

	target := min(winnerCount, len(ids))
	selected := make(map[models.ParticipantID]struct{}, target)
	p := newPool(total)
	for len(winners) < target && p.remaining > 0 {
		slot := p.take(src)
		owner := ids[sort.SearchInts(bounds, slot+1)]
		if _, dup := selected[owner]; dup {
			continue
		}
		selected[owner] = struct{}{}
		winners = append(winners, owner)
	}
	return winners
}

// pool is a sparse Fisher-Yates permutation of [0, size): only swapped
// positions are materialised.
type pool struct {
	remaining int
	swapped   map[int]int
}

func newPool(size int) *pool {
	return &pool{remaining: size, swapped: make(map[int]int)}
}

func (p *pool) at(i int) int {
	if v, ok := p.swapped[i]; ok {
		return v
	}
	return i
}

func (p *pool) take(src random.Source) int {
	r := src.IntN(p.remaining)
	v := p.at(r)
	last := p.remaining - 1
	p.swapped[r] = p.at(last)
	delete(p.swapped, last)
	p.remaining--
	return v
}
