package graph

import (
	"bytes"
	"sync"

	"github.com/go-errors/errors"
	"golang.org/x/exp/slices"
)

// ErrVertexHasEdges is returned by RemoveVertex when the vertex still has
// at least one incident edge.
var ErrVertexHasEdges = errors.New("vertex has incident edges")

// ErrEdgeNotFound is returned by RemoveEdge when no edge exists under desc.
var ErrEdgeNotFound = errors.New("edge not found")

// DirectedGraph is an in-memory directed multigraph keyed by ChannelDesc.
// It is built once from a channel-graph snapshot and may subsequently be
// mutated (edges/vertices added or removed) between searches. It is the
// caller's responsibility to not mutate a DirectedGraph concurrently with a
// search running over it (see the routing package's concurrency notes);
// DirectedGraph itself only guarantees that concurrent *reads* (multiple
// searches, or a search running alongside Outgoing/Incoming/Contains*
// calls from other goroutines) are race-free.
type DirectedGraph struct {
	mu sync.RWMutex

	vertices map[NodeId]struct{}

	// out/in hold, per vertex, the ordered slice of edges, plus an index
	// from ChannelDesc to that edge's position for O(1) replace/remove.
	out      map[NodeId][]GraphEdge
	in       map[NodeId][]GraphEdge
	outIndex map[ChannelDesc]int
	inIndex  map[ChannelDesc]int
}

// NewDirectedGraph returns an empty graph.
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		vertices: make(map[NodeId]struct{}),
		out:      make(map[NodeId][]GraphEdge),
		in:       make(map[NodeId][]GraphEdge),
		outIndex: make(map[ChannelDesc]int),
		inIndex:  make(map[ChannelDesc]int),
	}
}

// AddVertex ensures n is a member of the graph.
func (g *DirectedGraph) AddVertex(n NodeId) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addVertex(n)
}

func (g *DirectedGraph) addVertex(n NodeId) {
	if _, ok := g.vertices[n]; ok {
		return
	}

	g.vertices[n] = struct{}{}
}

// RemoveVertex removes n, provided it has no incident edges (I1). It
// returns ErrVertexHasEdges otherwise.
func (g *DirectedGraph) RemoveVertex(n NodeId) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.out[n]) != 0 || len(g.in[n]) != 0 {
		return ErrVertexHasEdges
	}

	delete(g.vertices, n)
	delete(g.out, n)
	delete(g.in, n)

	return nil
}

// ContainsVertex reports whether n is a member of the graph.
func (g *DirectedGraph) ContainsVertex(n NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.vertices[n]
	return ok
}

// AddEdge inserts edge, ensuring both endpoints are members of the graph.
// An edge with an already-present ChannelDesc replaces the prior policy in
// place (I2), preserving its position in the adjacency ordering.
func (g *DirectedGraph) AddEdge(edge GraphEdge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	desc := edge.Desc
	g.addVertex(desc.From)
	g.addVertex(desc.To)

	if idx, ok := g.outIndex[desc]; ok {
		g.out[desc.From][idx] = edge
	} else {
		g.outIndex[desc] = len(g.out[desc.From])
		g.out[desc.From] = append(g.out[desc.From], edge)
	}

	if idx, ok := g.inIndex[desc]; ok {
		g.in[desc.To][idx] = edge
	} else {
		g.inIndex[desc] = len(g.in[desc.To])
		g.in[desc.To] = append(g.in[desc.To], edge)
	}
}

// RemoveEdge removes exactly the directed edge identified by desc, leaving
// both endpoints in the graph. It returns ErrEdgeNotFound if desc isn't
// present.
func (g *DirectedGraph) RemoveEdge(desc ChannelDesc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	outIdx, ok := g.outIndex[desc]
	if !ok {
		return ErrEdgeNotFound
	}
	inIdx := g.inIndex[desc]

	removeAt(g.out[desc.From], outIdx, g.outIndex, desc.From)
	removeAt(g.in[desc.To], inIdx, g.inIndex, desc.To)

	g.out[desc.From] = g.out[desc.From][:len(g.out[desc.From])-1]
	g.in[desc.To] = g.in[desc.To][:len(g.in[desc.To])-1]

	delete(g.outIndex, desc)
	delete(g.inIndex, desc)

	return nil
}

// removeAt swaps the element at idx with the last element of adj (the
// slice backing the relevant vertex bucket in index), updating index for
// whichever edge moved into idx. The caller truncates the slice by one
// afterward; this only fixes up the in-place contents and index.
func removeAt(adj []GraphEdge, idx int, index map[ChannelDesc]int, vertex NodeId) {
	last := len(adj) - 1
	if idx == last {
		return
	}

	adj[idx] = adj[last]
	index[adj[idx].Desc] = idx
}

// ContainsEdge reports whether desc is present in the graph.
func (g *DirectedGraph) ContainsEdge(desc ChannelDesc) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.outIndex[desc]
	return ok
}

// Outgoing returns a copy of the ordered outgoing edges from n. A copy is
// returned (rather than the internal slice) so that callers iterating a
// search can't observe a later mutation mid-iteration.
func (g *DirectedGraph) Outgoing(n NodeId) []GraphEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]GraphEdge(nil), g.out[n]...)
}

// Incoming returns a copy of the ordered incoming edges to n.
func (g *DirectedGraph) Incoming(n NodeId) []GraphEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]GraphEdge(nil), g.in[n]...)
}

// NumVertices returns the number of vertices currently in the graph.
func (g *DirectedGraph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// NumEdges returns the number of directed edges currently in the graph.
func (g *DirectedGraph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.outIndex)
}

// AllChannelDescs returns every directed edge key in the graph, sorted by
// (ChannelId, From, To) for deterministic iteration. Callers that log or
// diff graph contents need stable output across runs; Go's map iteration
// order doesn't provide that on its own.
func (g *DirectedGraph) AllChannelDescs() []ChannelDesc {
	g.mu.RLock()
	defer g.mu.RUnlock()

	descs := make([]ChannelDesc, 0, len(g.outIndex))
	for desc := range g.outIndex {
		descs = append(descs, desc)
	}

	slices.SortFunc(descs, func(a, b ChannelDesc) int {
		if a.ChannelId != b.ChannelId {
			if a.ChannelId < b.ChannelId {
				return -1
			}
			return 1
		}
		if c := bytes.Compare(a.From[:], b.From[:]); c != 0 {
			return c
		}

		return bytes.Compare(a.To[:], b.To[:])
	})

	return descs
}
