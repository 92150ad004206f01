package comments

import (
	"testing"
	"time"

	"lotusnews/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func comment(id uuid.UUID, parent *uuid.UUID, minute int) models.Comment {
	return models.Comment{
		ID:        id,
		PostID:    uuid.Nil,
		ParentID:  parent,
		Body:      "c",
		CreatedAt: t0.Add(time.Duration(minute) * time.Minute),
	}
}

func ids(nodes []*models.CommentNode) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func count(nodes []*models.CommentNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + count(node.Children)
	}
	return n
}

func TestBuildForest_Empty(t *testing.T) {
	forest := BuildForest(nil)
	require.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuildForest_NestsRepliesInCreationOrder(t *testing.T) {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	list := []models.Comment{
		comment(d, &a, 3),
		comment(a, nil, 0),
		comment(c, &a, 2),
		comment(b, nil, 1),
		comment(e, &c, 4),
	}

	forest := BuildForest(list)
	require.Len(t, forest, 2)
	assert.Equal(t, []uuid.UUID{a, b}, ids(forest))
	assert.Equal(t, []uuid.UUID{c, d}, ids(forest[0].Children))
	assert.Equal(t, []uuid.UUID{e}, ids(forest[0].Children[0].Children))
	assert.NotNil(t, forest[1].Children)
	assert.Empty(t, forest[1].Children)
}

func TestBuildForest_ReplyAttachesEvenIfOlderThanParent(t *testing.T) {
	parent, child := uuid.New(), uuid.New()
	forest := BuildForest([]models.Comment{
		comment(child, &parent, 0),
		comment(parent, nil, 5),
	})
	require.Len(t, forest, 1)
	assert.Equal(t, parent, forest[0].ID)
	assert.Equal(t, []uuid.UUID{child}, ids(forest[0].Children))
}

func TestBuildForest_MissingParentBecomesRoot(t *testing.T) {
	ghost, orphan, root := uuid.New(), uuid.New(), uuid.New()
	forest := BuildForest([]models.Comment{
		comment(root, nil, 0),
		comment(orphan, &ghost, 1),
	})
	assert.Equal(t, []uuid.UUID{root, orphan}, ids(forest))
}

func TestBuildForest_BreaksCycles(t *testing.T) {
	self, x, y, z, tail := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	list := []models.Comment{
		comment(self, &self, 0),
		comment(x, &z, 1),
		comment(y, &x, 2),
		comment(z, &y, 3),
		comment(tail, &x, 4),
	}

	forest := BuildForest(list)
	assert.Equal(t, len(list), count(forest))
	assert.Equal(t, []uuid.UUID{self, x, y, z}, ids(forest))
	assert.Equal(t, []uuid.UUID{tail}, ids(forest[1].Children))
}

func TestBuildForest_TiesBreakByID(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	high := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	forest := BuildForest([]models.Comment{comment(high, nil, 0), comment(low, nil, 0)})
	assert.Equal(t, []uuid.UUID{low, high}, ids(forest))
}

func TestBuildForest_DeepChainDoesNotRecurse(t *testing.T) {
	const depth = 5000
	list := make([]models.Comment, 0, depth)
	var parent *uuid.UUID
	for i := 0; i < depth; i++ {
		id := uuid.New()
		list = append(list, comment(id, parent, i))
		parent = &id
	}

	forest := BuildForest(list)
	require.Len(t, forest, 1)
	n, node := 1, forest[0]
	for len(node.Children) == 1 {
		node = node.Children[0]
		n++
	}
	assert.Equal(t, depth, n)
}
