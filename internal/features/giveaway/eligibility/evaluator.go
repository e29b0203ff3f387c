// Package eligibility decides whether a participant may enter a giveaway and
// with how many draw slots.
package eligibility

import (
	"slices"

	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
)

// Reason explains a rejection.
type Reason string

const (
	ReasonMissingRole Reason = "missing_role"
	ReasonLevelTooLow Reason = "level_too_low"
)

// Snapshot is a participant's roles and level at the time of the check.
type Snapshot struct {
	Participant models.ParticipantID
	Roles       []models.RoleRef
	Level       int
}

// HasAny reports whether the snapshot holds at least one of roles.
func (s Snapshot) HasAny(roles []models.RoleRef) bool {
	for _, r := range roles {
		if slices.Contains(s.Roles, r) {
			return true
		}
	}
	return false
}

// Result is either Eligible with an entry, or a rejection with a reason.
type Result struct {
	Eligible bool
	Entry    models.Entry
	Reason   Reason
}

// Evaluate applies rules to snap. It has no side effects.
func Evaluate(rules models.GatingRules, snap Snapshot) Result {
	if len(rules.RequiredRoles) > 0 && !snap.HasAny(rules.RequiredRoles) {
		return Result{Reason: ReasonMissingRole}
	}
	if rules.RequiredLevel > 0 && snap.Level < rules.RequiredLevel && !snap.HasAny(rules.BypassRoles) {
		return Result{Reason: ReasonLevelTooLow}
	}

	// first match wins; weights are never summed
	for i, rule := range rules.ExtraEntryRoles {
		if slices.Contains(snap.Roles, rule.Role) {
			return Result{Eligible: true, Entry: models.Entry{Weight: rule.Entries, Rank: i}}
		}
	}
	return Result{Eligible: true, Entry: models.Entry{Weight: 1, Rank: rules.DefaultRank()}}
}
