// Package cache is the snapshot cache layer the UI reads first: typed key
// derivation, save/load of whole JSON payloads with their freshness data,
// a hierarchical merge for survey trees, and a sequence tracker that drops
// stale in-flight responses.
package cache

import "strings"

const keySep = ":"

// Key identifies one cache entry. Kind names the payload family
// ("dashboard", "schedule", "survey", "classes.marker"), OwnerID scopes it
// to a user or school, and Scope holds optional extra dimensions such as the
// academic term.
type Key struct {
	Kind    string
	OwnerID string
	Scope   []string
}

// NewKey builds a Key from its parts.
func NewKey(kind, ownerID string, scope ...string) Key {
	return Key{Kind: kind, OwnerID: ownerID, Scope: scope}
}

// String derives the storage key. Each component is escaped before joining,
// so distinct (kind, owner, scope) tuples can never collide — two academic
// terms must never share an entry.
func (k Key) String() string {
	parts := make([]string, 0, 2+len(k.Scope))
	parts = append(parts, escape(k.Kind), escape(k.OwnerID))
	for _, s := range k.Scope {
		parts = append(parts, escape(s))
	}
	return strings.Join(parts, keySep)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, keySep, `\`+keySep)
}
