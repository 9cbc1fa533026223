package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

func queueFixture(t *testing.T) (*trimesh.Mesh, []trimesh.TriangleID) {
	t.Helper()
	set := settings.New()
	set.OuterSize = 20
	require.NoError(t, set.Validate())
	m := trimesh.NewMesh(set)
	require.NoError(t, BuildInitialPolygon(m))

	tris := m.VertexTriangles(m.RingVertex(0, 0))
	require.GreaterOrEqual(t, len(tris), 3)
	out := make([]trimesh.TriangleID, len(tris))
	copy(out, tris)
	return m, out
}

func TestEventQueueOrdering(t *testing.T) {
	m, tris := queueFixture(t)
	q := newEventQueue(m)

	q.insertWithoutCheck(0.7, tris[0])
	q.insertWithoutCheck(0.2, tris[1])
	q.insertWithoutCheck(0.5, tris[2])
	assert.Equal(t, 3, q.size())
	assert.True(t, m.IsEnqueued(tris[0]))

	tm, tri := q.pop()
	assert.Equal(t, 0.2, tm)
	assert.Equal(t, tris[1], tri)
	assert.False(t, m.IsEnqueued(tris[1]))

	tm, tri = q.pop()
	assert.Equal(t, 0.5, tm)
	assert.Equal(t, tris[2], tri)

	tm, tri = q.pop()
	assert.Equal(t, 0.7, tm)
	assert.Equal(t, tris[0], tri)
	assert.Equal(t, 0, q.size())
}

func TestEventQueueTiesKeepInsertionOrder(t *testing.T) {
	m, tris := queueFixture(t)
	q := newEventQueue(m)

	q.insertWithoutCheck(0.5, tris[0])
	q.insertWithoutCheck(0.5, tris[1])
	q.insertWithoutCheck(0.5, tris[2])

	_, first := q.pop()
	_, second := q.pop()
	_, third := q.pop()
	assert.Equal(t, tris[0], first)
	assert.Equal(t, tris[1], second)
	assert.Equal(t, tris[2], third)
}

func TestEventQueueRemove(t *testing.T) {
	m, tris := queueFixture(t)
	q := newEventQueue(m)

	q.insertWithoutCheck(0.1, tris[0])
	q.insertWithoutCheck(0.2, tris[1])
	q.insertWithoutCheck(0.3, tris[2])

	q.remove(tris[1])
	assert.Equal(t, 2, q.size())
	assert.False(t, m.IsEnqueued(tris[1]))

	// Removing a triangle that is not enqueued is a no-op.
	q.remove(tris[1])
	assert.Equal(t, 2, q.size())

	_, first := q.pop()
	_, second := q.pop()
	assert.Equal(t, tris[0], first)
	assert.Equal(t, tris[2], second)
}

func TestEventQueueDrain(t *testing.T) {
	m, tris := queueFixture(t)
	q := newEventQueue(m)

	q.insertWithoutCheck(0.1, tris[0])
	q.insertWithoutCheck(0.2, tris[1])
	q.drain()

	assert.Equal(t, 0, q.size())
	assert.False(t, m.IsEnqueued(tris[0]))
	assert.False(t, m.IsEnqueued(tris[1]))
}

func TestEventQueueStability(t *testing.T) {
	m, tris := queueFixture(t)

	t.Run("spread events are stable", func(t *testing.T) {
		q := newEventQueue(m)
		q.insertWithoutCheck(0.1, tris[0])
		q.insertWithoutCheck(0.2, tris[1])
		q.insertWithoutCheck(0.3, tris[2])
		assert.True(t, q.makeStable())
		q.drain()
	})

	t.Run("two concurrent events are tolerated", func(t *testing.T) {
		q := newEventQueue(m)
		q.insertWithoutCheck(0.1, tris[0])
		q.insertWithoutCheck(0.1+settings.EpsEventTime/2, tris[1])
		q.insertWithoutCheck(0.3, tris[2])
		assert.True(t, q.makeStable())
		q.drain()
	})

	t.Run("three concurrent events are not", func(t *testing.T) {
		q := newEventQueue(m)
		q.insertWithoutCheck(0.1, tris[0])
		q.insertWithoutCheck(0.1+settings.EpsEventTime/4, tris[1])
		q.insertWithoutCheck(0.1+settings.EpsEventTime/2, tris[2])
		assert.False(t, q.makeStable())
		q.drain()
	})
}
