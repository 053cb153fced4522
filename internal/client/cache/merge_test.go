package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMerge(t *testing.T) *MergeCache {
	t.Helper()
	store, _ := setupStore(t)
	return NewMergeCache(store, "survey")
}

func sectionQuestions(t *testing.T, root Node, sectionID string) []any {
	t.Helper()
	sections, _ := root["sections"].([]any)
	for _, item := range sections {
		sec, ok := item.(map[string]any)
		require.True(t, ok)
		if sec["id"] == sectionID {
			qs, _ := sec["questions"].([]any)
			return qs
		}
	}
	t.Fatalf("section %s not found", sectionID)
	return nil
}

func TestUpsertNode_CreatesMissingLevels(t *testing.T) {
	m := setupMerge(t)
	ctx := context.Background()

	err := m.UpsertNode(ctx, "u1", "svy1",
		[]PathStep{{Collection: "sections", ID: "sec1"}},
		"questions",
		Node{"id": "q1", "text": "2+2?"})
	require.NoError(t, err)

	root, _, ok := m.GetByRootID(ctx, "u1", "svy1")
	require.True(t, ok)
	qs := sectionQuestions(t, root, "sec1")
	require.Len(t, qs, 1)
	q := qs[0].(map[string]any)
	assert.Equal(t, "2+2?", q["text"])
}

func TestUpsertNode_MatchingIDReplacesInPlace(t *testing.T) {
	m := setupMerge(t)
	ctx := context.Background()
	path := []PathStep{{Collection: "sections", ID: "sec1"}}

	require.NoError(t, m.UpsertNode(ctx, "u1", "svy1", path, "questions",
		Node{"id": "q1", "text": "old", "kind": "free_text"}))
	require.NoError(t, m.UpsertNode(ctx, "u1", "svy1", path, "questions",
		Node{"id": "q1", "text": "new"}))

	root, _, ok := m.GetByRootID(ctx, "u1", "svy1")
	require.True(t, ok)
	qs := sectionQuestions(t, root, "sec1")
	require.Len(t, qs, 1) // replaced, not appended

	q := qs[0].(map[string]any)
	assert.Equal(t, "new", q["text"])
	assert.Equal(t, "free_text", q["kind"]) // shallow merge keeps old fields
	assert.NotEmpty(t, q["updated_at"])
}

func TestUpsertNode_DraftWithoutIDAlwaysAppends(t *testing.T) {
	m := setupMerge(t)
	ctx := context.Background()
	path := []PathStep{{Collection: "sections", ID: "sec1"}}

	draft := Node{"text": "draft question"}
	require.NoError(t, m.UpsertNode(ctx, "u1", "svy1", path, "questions", draft))
	require.NoError(t, m.UpsertNode(ctx, "u1", "svy1", path, "questions",
		Node{"text": "draft question"})) // identical draft

	root, _, ok := m.GetByRootID(ctx, "u1", "svy1")
	require.True(t, ok)
	qs := sectionQuestions(t, root, "sec1")
	assert.Len(t, qs, 2)
}

func TestUpsertNode_DeepPath(t *testing.T) {
	m := setupMerge(t)
	ctx := context.Background()

	require.NoError(t, m.UpsertNode(ctx, "u1", "svy1",
		[]PathStep{{Collection: "sections", ID: "sec1"}, {Collection: "questions", ID: "q1"}},
		"options",
		Node{"id": "o1", "label": "Paris"}))

	root, _, ok := m.GetByRootID(ctx, "u1", "svy1")
	require.True(t, ok)
	qs := sectionQuestions(t, root, "sec1")
	require.Len(t, qs, 1)
	opts, _ := qs[0].(map[string]any)["options"].([]any)
	require.Len(t, opts, 1)
	assert.Equal(t, "Paris", opts[0].(map[string]any)["label"])
}

func TestGetByRootID_Absent(t *testing.T) {
	m := setupMerge(t)

	_, _, ok := m.GetByRootID(context.Background(), "u1", "nope")
	assert.False(t, ok)
}
