package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
)

// BonusRule grants Entries slots to holders of Role.
type BonusRule struct {
	Role    RoleRef `json:"role"`
	Entries int     `json:"entries"`
}

// GatingRules is the closed set of participation rules of a giveaway.
// ExtraEntryRoles is ordered; the first rule whose role a participant holds
// decides the weight.
type GatingRules struct {
	RequiredRoles   []RoleRef   `json:"required_roles,omitempty"`
	RequiredLevel   int         `json:"required_level,omitempty"`
	BypassRoles     []RoleRef   `json:"bypass_roles,omitempty"`
	ExtraEntryRoles []BonusRule `json:"extra_entry_roles,omitempty"`
}

// ParseGatingRules decodes a gating payload, rejecting unknown keys.
// An empty payload yields open rules.
func ParseGatingRules(data []byte) (GatingRules, error) {
	var rules GatingRules
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return rules, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		return GatingRules{}, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "Invalid gating rules").
			WithDetail("field", "gating")
	}
	if dec.More() {
		return GatingRules{}, apperrors.NewConfigurationError("gating", "trailing data after gating object")
	}
	rules = rules.Normalize()
	if err := rules.Validate(); err != nil {
		return GatingRules{}, err
	}
	return rules, nil
}

// Normalize drops duplicate roles. A bonus rule declared twice for the same
// role keeps only the last declaration, at its position.
func (r GatingRules) Normalize() GatingRules {
	out := GatingRules{
		RequiredLevel:   r.RequiredLevel,
		RequiredRoles:   dedupeRoles(r.RequiredRoles),
		BypassRoles:     dedupeRoles(r.BypassRoles),
		ExtraEntryRoles: make([]BonusRule, 0, len(r.ExtraEntryRoles)),
	}
	for _, rule := range r.ExtraEntryRoles {
		out.ExtraEntryRoles = slices.DeleteFunc(out.ExtraEntryRoles, func(b BonusRule) bool {
			return b.Role == rule.Role
		})
		out.ExtraEntryRoles = append(out.ExtraEntryRoles, rule)
	}
	if len(out.ExtraEntryRoles) == 0 {
		out.ExtraEntryRoles = nil
	}
	return out
}

// Validate checks value ranges.
func (r GatingRules) Validate() error {
	if r.RequiredLevel < 0 {
		return apperrors.NewConfigurationError("required_level", "must be 0 or higher")
	}
	for _, roles := range [][]RoleRef{r.RequiredRoles, r.BypassRoles} {
		for _, role := range roles {
			if role == "" {
				return apperrors.NewConfigurationError("roles", "role reference must not be empty")
			}
		}
	}
	for i, rule := range r.ExtraEntryRoles {
		if rule.Role == "" {
			return apperrors.NewConfigurationError(fmt.Sprintf("extra_entry_roles[%d].role", i), "role reference must not be empty")
		}
		if rule.Entries < 1 {
			return apperrors.NewConfigurationError(fmt.Sprintf("extra_entry_roles[%d].entries", i), "entries must be positive")
		}
	}
	return nil
}

// DefaultRank is the rank of an entry that matched no bonus rule.
func (r GatingRules) DefaultRank() int {
	return len(r.ExtraEntryRoles)
}

func (r GatingRules) Clone() GatingRules {
	return GatingRules{
		RequiredRoles:   slices.Clone(r.RequiredRoles),
		RequiredLevel:   r.RequiredLevel,
		BypassRoles:     slices.Clone(r.BypassRoles),
		ExtraEntryRoles: slices.Clone(r.ExtraEntryRoles),
	}
}

func dedupeRoles(roles []RoleRef) []RoleRef {
	if len(roles) == 0 {
		return nil
	}
	out := make([]RoleRef, 0, len(roles))
	for _, role := range roles {
		if !slices.Contains(out, role) {
			out = append(out, role)
		}
	}
	return out
}
