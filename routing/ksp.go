package routing

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/standardsats/eclair/graph"
	"github.com/standardsats/eclair/routing/route"
)

// weightedPath is a fully assembled candidate route together with the
// edge sequence it came from and the RichWeight.Weight that sequence
// would have accumulated had findPath itself walked it, kept side by
// side so the yen loop can both rank it and use it as a root for
// further spurs without re-deriving any of the three from the others.
type weightedPath struct {
	edges  []graph.GraphEdge
	route  *route.Route
	weight float64
}

// pathHeap is a min-heap of weightedPath ordered by accumulated path
// weight (spec.md §4.5's "ordered by path weight" requirement for the
// candidate set B), then by hop count, then by channel id sequence, so
// that iteration order is fully deterministic given identical inputs.
// When Query.Params.Ratios is nil, weight is just float64(total cost),
// so this also orders by fee in the common case.
type pathHeap []weightedPath

func (h pathHeap) Len() int { return len(h) }

func (h pathHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	if a.weight != b.weight {
		return a.weight < b.weight
	}
	if len(a.route.Hops) != len(b.route.Hops) {
		return len(a.route.Hops) < len(b.route.Hops)
	}

	for k := range a.route.Hops {
		if a.route.Hops[k].ChannelId != b.route.Hops[k].ChannelId {
			return a.route.Hops[k].ChannelId < b.route.Hops[k].ChannelId
		}
	}

	return false
}

func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pathHeap) Push(x interface{}) { *h = append(*h, x.(weightedPath)) }

func (h *pathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// FindRoutes enumerates up to numRoutes loopless paths from source to
// target in non-decreasing order of accumulated RichWeight.Weight, using
// Yen's algorithm over the same backward-Dijkstra spur search findPath
// uses for a single route (spec.md §6's yen_k_shortest_paths, invariant
// P6). When q.Params.Ratios is nil this coincides with non-decreasing
// total fee, since relax degenerates Weight to float64(cost) in that
// case; with Ratios set, a candidate can have a lower multi-factor
// weight than another despite a higher raw fee, and it is the weight
// order that's guaranteed, matching what findPath itself would rank the
// same edges by.
//
// The first route is exactly what FindRoute would return. Each
// subsequent route is derived by, for every prefix of the previous
// route, blacklisting the edge any earlier route took out of that
// prefix's last node and blacklisting every other node already in the
// prefix, then re-searching from the prefix's last node ("the spur
// node") to target. The lightest candidate produced by any prefix
// becomes the next route, and the process repeats.
func FindRoutes(q Query, numRoutes int) ([]*route.Route, error) {
	if numRoutes <= 0 {
		numRoutes = 1
	}

	firstEdges, err := findPath(q, alwaysTrue)
	if err != nil {
		return nil, err
	}

	firstRoute, err := assembleRoute(q.Source, q.Amount, firstEdges)
	if err != nil {
		return nil, err
	}

	paths := [][]graph.GraphEdge{firstEdges}
	routes := []*route.Route{firstRoute}

	seen := map[string]struct{}{pathKey(firstEdges): {}}

	var candidates pathHeap
	heap.Init(&candidates)

	for len(routes) < numRoutes {
		prevEdges := paths[len(paths)-1]
		nodes := pathNodes(q.Source, prevEdges)

		for i := 0; i < len(nodes)-1; i++ {
			spurNode := nodes[i]
			rootEdges := prevEdges[:i]

			spurQuery := q
			spurQuery.Source = spurNode
			spurQuery.IgnoredEdges = cloneEdgeSet(q.IgnoredEdges)
			spurQuery.IgnoredVertices = cloneVertexSet(q.IgnoredVertices)

			for _, p := range paths {
				pn := pathNodes(q.Source, p)
				if !sharesRoot(pn, nodes, i) {
					continue
				}

				spurQuery.IgnoredEdges[p[i].Desc] = struct{}{}
			}

			for _, n := range nodes[:i] {
				spurQuery.IgnoredVertices[n] = struct{}{}
			}

			spurEdges, err := findPath(spurQuery, alwaysTrue)
			if err != nil {
				continue
			}

			total := make([]graph.GraphEdge, 0, len(rootEdges)+len(spurEdges))
			total = append(total, rootEdges...)
			total = append(total, spurEdges...)

			key := pathKey(total)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			r, err := assembleRoute(q.Source, q.Amount, total)
			if err != nil {
				continue
			}

			heap.Push(&candidates, weightedPath{
				edges:  total,
				route:  r,
				weight: candidateWeight(q, total),
			})
		}

		if candidates.Len() == 0 {
			break
		}

		next := heap.Pop(&candidates).(weightedPath)
		paths = append(paths, next.edges)
		routes = append(routes, next.route)
	}

	return routes, nil
}

// candidateWeight computes the RichWeight.Weight a backward Dijkstra
// search would have assigned to edges, had it discovered this exact
// source-to-target sequence itself. edges runs source-first, so it's
// replayed back to front through relax, starting from the same
// target-side accumulator findPath seeds its search with, to match
// findPath's own notion of weight exactly (routing/weight.go).
func candidateWeight(q Query, edges []graph.GraphEdge) float64 {
	params := q.params()

	acc := RichWeight{Cost: q.Amount}
	for i := len(edges) - 1; i >= 0; i-- {
		edge := edges[i]
		isSourceEdge := edge.Desc.From == q.Source

		acc = relax(acc, edge, isSourceEdge, params.CurrentBlockHeight, params.Ratios)
	}

	return acc.Weight
}

// pathNodes returns the full node sequence of a source-to-target edge
// path, source first.
func pathNodes(source graph.NodeId, edges []graph.GraphEdge) []graph.NodeId {
	nodes := make([]graph.NodeId, 0, len(edges)+1)
	nodes = append(nodes, source)
	for _, e := range edges {
		nodes = append(nodes, e.Desc.To)
	}

	return nodes
}

// sharesRoot reports whether a and b agree on their first upTo+1 nodes,
// i.e. whether a path built from a shares its root with one built from b
// up to and including the spur node at index upTo.
func sharesRoot(a, b []graph.NodeId, upTo int) bool {
	if len(a) <= upTo || len(b) <= upTo {
		return false
	}

	for i := 0; i <= upTo; i++ {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// pathKey returns a canonical string identifying an edge sequence by its
// channel ids, used to dedupe candidates across spur iterations.
func pathKey(edges []graph.GraphEdge) string {
	var b strings.Builder
	for i, e := range edges {
		if i > 0 {
			b.WriteByte('>')
		}

		fmt.Fprintf(&b, "%d", e.Desc.ChannelId)
	}

	return b.String()
}

func cloneEdgeSet(in map[graph.ChannelDesc]struct{}) map[graph.ChannelDesc]struct{} {
	out := make(map[graph.ChannelDesc]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}

	return out
}

func cloneVertexSet(in map[graph.NodeId]struct{}) map[graph.NodeId]struct{} {
	out := make(map[graph.NodeId]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}

	return out
}
