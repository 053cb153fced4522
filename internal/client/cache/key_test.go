package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	k := NewKey("schedule", "user1", "term2")
	assert.Equal(t, "schedule:user1:term2", k.String())
}

func TestKey_DistinctScopesNeverCollide(t *testing.T) {
	// Components containing the separator must not produce the same storage
	// key as a longer scope list.
	a := NewKey("schedule", "u1", "t:1")
	b := NewKey("schedule", "u1", "t", "1")
	assert.NotEqual(t, a.String(), b.String())

	c := NewKey("schedule", "u1:t", "1")
	assert.NotEqual(t, b.String(), c.String())
	assert.NotEqual(t, a.String(), c.String())
}

func TestKey_EscapingIsStable(t *testing.T) {
	k := NewKey("kind", `owner\:x`)
	assert.Equal(t, k.String(), k.String())
	assert.NotEqual(t, NewKey("kind", `owner\`, "x").String(), k.String())
}
