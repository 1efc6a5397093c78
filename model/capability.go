package model

import "strings"

// CapabilitySet is a set of capabilities granted to a user. Each key is a
// capability string (e.g. "parking:view") and may include wildcards
// (e.g. "parking:*").
type CapabilitySet map[string]bool

// Has returns true if the set contains the exact capability or a wildcard
// that matches it.
func (cs CapabilitySet) Has(cap string) bool {
	if cs[cap] {
		return true
	}
	for pattern := range cs {
		if matchWildcard(pattern, cap) {
			return true
		}
	}
	return false
}

// HasAll returns true if the set matches all given capabilities (including
// via wildcards).
func (cs CapabilitySet) HasAll(caps ...string) bool {
	for _, cap := range caps {
		if !cs.Has(cap) {
			return false
		}
	}
	return true
}

// matchWildcard returns true if pattern (which may end in ":*") matches cap.
// "*" matches anything; "parking:*" matches "parking:view"; an exact pattern
// without a wildcard never matches a longer capability.
func matchWildcard(pattern, cap string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.HasSuffix(pattern, ":*") {
		return false
	}
	prefix := pattern[:len(pattern)-1]
	return strings.HasPrefix(cap, prefix)
}

// CapabilitiesFromClaims derives a CapabilitySet from JWT claims. The "caps"
// claim (array of strings) is taken verbatim; each entry of the "roles"
// claim additionally grants "<role>:*".
func CapabilitiesFromClaims(claims map[string]any) CapabilitySet {
	cs := CapabilitySet{}
	if raw, ok := claims["caps"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				cs[s] = true
			}
		}
	}
	if raw, ok := claims["roles"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				cs[s+":*"] = true
			}
		}
	}
	return cs
}
