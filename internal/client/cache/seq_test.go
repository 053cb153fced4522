package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqTracker_StaleFetchDetected(t *testing.T) {
	tr := NewSeqTracker()

	first := tr.Begin("classes:u1")
	second := tr.Begin("classes:u1")

	// The slow first response must not be applied once a newer fetch started.
	assert.False(t, tr.Latest("classes:u1", first))
	assert.True(t, tr.Latest("classes:u1", second))
}

func TestSeqTracker_KeysAreIndependent(t *testing.T) {
	tr := NewSeqTracker()

	a := tr.Begin("a")
	tr.Begin("b")

	assert.True(t, tr.Latest("a", a))
}
