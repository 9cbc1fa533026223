package transform

import (
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// event is one scheduled triangle collapse during a kinetic translation.
type event struct {
	time float64
	tri  trimesh.TriangleID
	next *event
}

// eventQueue is a sorted singly-linked list of collapse events, earliest
// first. It is small: only triangles of the moving vertex's fan are ever
// enqueued.
type eventQueue struct {
	m    *trimesh.Mesh
	head *event
	n    int
}

func newEventQueue(m *trimesh.Mesh) *eventQueue {
	return &eventQueue{m: m}
}

func (q *eventQueue) size() int {
	return q.n
}

// insertWithoutCheck inserts an event in time order and marks the triangle
// enqueued. Ties keep insertion order.
func (q *eventQueue) insertWithoutCheck(time float64, tri trimesh.TriangleID) {
	ev := &event{time: time, tri: tri}
	q.m.SetEnqueued(tri, true)
	q.n++

	if q.head == nil || time < q.head.time {
		ev.next = q.head
		q.head = ev
		return
	}
	at := q.head
	for at.next != nil && at.next.time <= time {
		at = at.next
	}
	ev.next = at.next
	at.next = ev
}

// pop removes and returns the earliest event.
func (q *eventQueue) pop() (float64, trimesh.TriangleID) {
	ev := q.head
	q.head = ev.next
	q.n--
	q.m.SetEnqueued(ev.tri, false)
	return ev.time, ev.tri
}

// remove deletes the event of tri, if enqueued.
func (q *eventQueue) remove(tri trimesh.TriangleID) {
	if !q.m.IsEnqueued(tri) {
		return
	}
	q.m.SetEnqueued(tri, false)

	if q.head != nil && q.head.tri == tri {
		q.head = q.head.next
		q.n--
		return
	}
	for at := q.head; at != nil && at.next != nil; at = at.next {
		if at.next.tri == tri {
			at.next = at.next.next
			q.n--
			return
		}
	}
}

// drain clears the queue and resets the enqueued flag of every remaining
// triangle.
func (q *eventQueue) drain() {
	for q.head != nil {
		q.m.SetEnqueued(q.head.tri, false)
		q.head = q.head.next
	}
	q.n = 0
}

// makeStable reports whether the queue's event times are far enough apart
// to process. Three or more events within EpsEventTime of each other make
// the ordering unreliable, so the translation is given up. Pairs of
// concurrent events are tolerated; their relative order is arbitrary but
// both get processed.
func (q *eventQueue) makeStable() bool {
	for ev := q.head; ev != nil && ev.next != nil && ev.next.next != nil; ev = ev.next {
		if ev.next.next.time-ev.time < settings.EpsEventTime {
			return false
		}
	}
	return true
}
