package user

import (
	"encoding/json"
)

// Capability names a back-office section. Hidden sections are also refused
// server side by the capability middleware.
type Capability string

const (
	CapabilityProduction Capability = "production"
	CapabilityFinance    Capability = "finance"
	CapabilityInventory  Capability = "inventory"
	CapabilityEmployees  Capability = "employees"
	CapabilityAnalytics  Capability = "analytics"
	CapabilityAI         Capability = "ai"
	CapabilityManagement Capability = "management"
	CapabilitySettings   Capability = "settings"
)

// AllCapabilities is in menu order.
var AllCapabilities = []Capability{
	CapabilityProduction,
	CapabilityFinance,
	CapabilityInventory,
	CapabilityEmployees,
	CapabilityAnalytics,
	CapabilityAI,
	CapabilityManagement,
	CapabilitySettings,
}

func (c Capability) Valid() bool {
	for _, known := range AllCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// Permissions are per-user grants stored with the user. true adds a
// capability on top of the role defaults, false removes one.
type Permissions map[Capability]bool

var roleDefaults = map[Role][]Capability{
	RoleAdmin: AllCapabilities,
	RoleOwner: AllCapabilities,
	RoleManager: {
		CapabilityProduction,
		CapabilityFinance,
		CapabilityInventory,
		CapabilityEmployees,
		CapabilityAnalytics,
		CapabilityAI,
	},
	RoleOperator: {
		CapabilityProduction,
		CapabilityInventory,
	},
}

// CapabilitySet is an unordered set; List and JSON output use menu order.
type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for _, c := range AllCapabilities {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// VisibleSections resolves what a role with the given grants can see.
// Admins and owners always see everything. Management stays owner-only
// whatever the grants say. Unknown roles see nothing.
func VisibleSections(role Role, perms Permissions) CapabilitySet {
	defaults, ok := roleDefaults[role]
	if !ok {
		return CapabilitySet{}
	}
	set := NewCapabilitySet(defaults...)
	if role == RoleAdmin || role == RoleOwner {
		return set
	}

	for c, granted := range perms {
		if !c.Valid() || c == CapabilityManagement {
			continue
		}
		if granted {
			set[c] = struct{}{}
		} else {
			delete(set, c)
		}
	}
	return set
}
