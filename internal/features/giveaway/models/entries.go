package models

import "maps"

// Entry is a participant's slot count in the draw. Rank is the index of the
// bonus rule that produced Weight, or the number of bonus rules when the
// default weight applied; lower rank means higher priority.
type Entry struct {
	Weight int `json:"weight"`
	Rank   int `json:"rank"`
}

// Entries is the ledger of a single giveaway.
type Entries map[ParticipantID]Entry

// Register inserts p if absent. An existing entry is only replaced when the
// new entry comes from a higher-priority bonus rule, so weights are never
// downgraded. It reports whether the ledger changed.
func (e Entries) Register(p ParticipantID, entry Entry) bool {
	if entry.Weight < 1 {
		entry.Weight = 1
	}
	cur, ok := e[p]
	if ok && entry.Rank >= cur.Rank {
		return false
	}
	e[p] = entry
	return true
}

// Size returns the number of distinct participants.
func (e Entries) Size() int {
	return len(e)
}

// TotalWeight is the number of slots in the virtual draw pool.
func (e Entries) TotalWeight() int {
	total := 0
	for _, entry := range e {
		total += entry.Weight
	}
	return total
}

func (e Entries) Clone() Entries {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}
