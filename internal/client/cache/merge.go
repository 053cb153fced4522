package cache

import (
	"context"
	"fmt"
	"time"
)

// Node is one node of a merge tree in its generic JSON form. Identity lives
// under the "id" key; child collections are lists stored under their
// collection name.
type Node = map[string]any

// PathStep selects one node inside a collection while walking down a tree.
type PathStep struct {
	Collection string
	ID         string
}

// MergeCache stores tree-shaped payloads (survey → sections → questions) as
// snapshots and supports upserting a node at any depth. A node with an id is
// matched and shallow-merged in place; a node without an id is always
// appended — that is how offline drafts accumulate before the server assigns
// them an identity.
type MergeCache struct {
	store *Store
	kind  string
	now   func() time.Time
}

// NewMergeCache returns a MergeCache storing trees under the given kind.
func NewMergeCache(store *Store, kind string) *MergeCache {
	return &MergeCache{store: store, kind: kind, now: time.Now}
}

// Put replaces the whole tree for rootID.
func (m *MergeCache) Put(ctx context.Context, ownerID, rootID string, root Node) (time.Time, error) {
	return m.store.Save(ctx, NewKey(m.kind, ownerID, rootID), root)
}

// GetByRootID returns the full tree for rootID, or ok=false when absent.
func (m *MergeCache) GetByRootID(ctx context.Context, ownerID, rootID string) (Node, time.Time, bool) {
	var root Node
	savedAt, ok := m.store.Load(ctx, NewKey(m.kind, ownerID, rootID), &root)
	if !ok {
		return nil, time.Time{}, false
	}
	return root, savedAt, true
}

// UpsertNode walks path from the root down, creating missing intermediate
// nodes, and upserts node into the collection named by the final step. When
// node carries an id matching an existing child, that child is shallow-merged
// (existing fields kept, new fields overwrite) and stamped; otherwise node is
// appended as a new draft.
func (m *MergeCache) UpsertNode(ctx context.Context, ownerID, rootID string, path []PathStep, collection string, node Node) error {
	if collection == "" {
		return fmt.Errorf("merge: empty target collection")
	}

	root, _, ok := m.GetByRootID(ctx, ownerID, rootID)
	if !ok {
		root = Node{"id": rootID}
	}

	cur := root
	for _, step := range path {
		cur = descend(cur, step)
	}

	list, _ := cur[collection].([]any)
	cur[collection] = m.upsertInto(list, node)

	_, err := m.Put(ctx, ownerID, rootID, root)
	return err
}

// descend finds the child of cur identified by step, creating the collection
// and a placeholder child when either is missing.
func descend(cur Node, step PathStep) Node {
	list, _ := cur[step.Collection].([]any)
	for _, item := range list {
		if child, ok := item.(map[string]any); ok && idOf(child) == step.ID && step.ID != "" {
			return child
		}
	}

	child := Node{"id": step.ID}
	cur[step.Collection] = append(list, any(child))
	return child
}

func (m *MergeCache) upsertInto(list []any, node Node) []any {
	id := idOf(node)
	if id != "" {
		for _, item := range list {
			existing, ok := item.(map[string]any)
			if !ok || idOf(existing) != id {
				continue
			}
			for k, v := range node {
				existing[k] = v
			}
			existing["updated_at"] = m.now().UTC().Format(time.RFC3339)
			return list
		}
	}
	// No identity or no match: always append, never guess a match. Identical
	// drafts are kept as distinct nodes on purpose.
	return append(list, any(node))
}

func idOf(n map[string]any) string {
	id, _ := n["id"].(string)
	return id
}
