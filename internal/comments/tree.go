// Package comments assembles flat comment lists into reply trees.
package comments

import (
	"bytes"
	"sort"

	"lotusnews/internal/models"

	"github.com/google/uuid"
)

// BuildForest links comments into trees by ParentID. Roots and siblings keep
// creation order. A comment whose parent is missing becomes a root, and so
// does any comment whose ancestor chain loops back to itself; every input
// comment appears exactly once in the result.
func BuildForest(list []models.Comment) []*models.CommentNode {
	sorted := make([]models.Comment, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return bytes.Compare(sorted[i].ID[:], sorted[j].ID[:]) < 0
	})

	nodes := make(map[uuid.UUID]*models.CommentNode, len(sorted))
	order := make([]*models.CommentNode, 0, len(sorted))
	for _, c := range sorted {
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		node := &models.CommentNode{Comment: c, Children: []*models.CommentNode{}}
		nodes[c.ID] = node
		order = append(order, node)
	}

	cyclic := cycleMembers(order, nodes)
	roots := make([]*models.CommentNode, 0)
	for _, node := range order {
		parent := parentOf(node, nodes)
		if parent == nil || cyclic[node.ID] {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

func parentOf(node *models.CommentNode, nodes map[uuid.UUID]*models.CommentNode) *models.CommentNode {
	if node.ParentID == nil {
		return nil
	}
	return nodes[*node.ParentID]
}

// cycleMembers returns the ids of comments whose ancestor chain loops back
// to themselves. Each comment is visited once.
func cycleMembers(order []*models.CommentNode, nodes map[uuid.UUID]*models.CommentNode) map[uuid.UUID]bool {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[uuid.UUID]int, len(order))
	members := make(map[uuid.UUID]bool)

	for _, start := range order {
		var path []*models.CommentNode
		cur := start
		for cur != nil && state[cur.ID] == unvisited {
			state[cur.ID] = onPath
			path = append(path, cur)
			cur = parentOf(cur, nodes)
		}
		if cur != nil && state[cur.ID] == onPath {
			for i := len(path) - 1; i >= 0; i-- {
				members[path[i].ID] = true
				if path[i] == cur {
					break
				}
			}
		}
		for _, n := range path {
			state[n.ID] = done
		}
	}
	return members
}
