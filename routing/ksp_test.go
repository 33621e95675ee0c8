package routing

import (
	"fmt"
	"testing"

	"github.com/standardsats/eclair/graph"
	"github.com/stretchr/testify/require"
)

// buildMultiPathGraph returns a graph with four distinct loopless paths
// from source to target, of varying fee, so FindRoutes has real work to
// do: a direct channel, two 2-hop detours, and one 3-hop detour.
func buildMultiPathGraph() (g *graph.DirectedGraph, source, target graph.NodeId) {
	s, a, b, tgt := testNode(1), testNode(2), testNode(3), testNode(4)
	g = graph.NewDirectedGraph()

	addChannel(g, 1, s, tgt, 5, 0, 10, 0, nil, 1_000_000) // s->t direct
	addChannel(g, 2, s, a, 10, 0, 10, 0, nil, 1_000_000)  // s->a->t
	addChannel(g, 3, a, tgt, 10, 0, 10, 0, nil, 1_000_000)
	addChannel(g, 4, s, b, 20, 0, 10, 0, nil, 1_000_000) // s->b->t
	addChannel(g, 5, b, tgt, 10, 0, 10, 0, nil, 1_000_000)
	addChannel(g, 6, a, b, 1, 0, 10, 0, nil, 1_000_000) // s->a->b->t

	return g, s, tgt
}

// TestFindRoutesOrdersByIncreasingFee checks that FindRoutes returns the
// requested number of distinct, loopless routes in non-decreasing total
// fee order, and that the first is exactly what FindRoute alone finds
// (spec.md's yen_k_shortest_paths).
func TestFindRoutesOrdersByIncreasingFee(t *testing.T) {
	t.Parallel()

	g, source, target := buildMultiPathGraph()

	single, err := FindRoute(Query{Graph: g, Source: source, Target: target, Amount: 100_000})
	require.NoError(t, err)

	routes, err := FindRoutes(Query{Graph: g, Source: source, Target: target, Amount: 100_000}, 4)
	require.NoError(t, err)
	require.LessOrEqual(t, len(routes), 4)
	require.NotEmpty(t, routes)

	require.Equal(t, single.Hops[0].ChannelId, routes[0].Hops[0].ChannelId)
	require.Len(t, routes[0].Hops, len(single.Hops))

	for i := 0; i < len(routes)-1; i++ {
		require.LessOrEqual(t, uint64(routes[i].TotalFees()), uint64(routes[i+1].TotalFees()))
	}

	seen := make(map[string]struct{})
	for _, r := range routes {
		visited := make(map[graph.NodeId]struct{})
		visited[r.Source] = struct{}{}

		var key string
		for _, h := range r.Hops {
			_, loop := visited[h.To]
			require.False(t, loop, "route must be loopless")
			visited[h.To] = struct{}{}

			key += fmt.Sprintf("%d>", h.ChannelId)
		}

		_, dup := seen[key]
		require.False(t, dup, "routes returned by FindRoutes must be distinct")
		seen[key] = struct{}{}
	}
}

// TestFindRoutesCapsAtAvailablePaths confirms that asking for more routes
// than exist between two nodes returns however many are actually
// reachable, rather than erroring or hanging.
func TestFindRoutesCapsAtAvailablePaths(t *testing.T) {
	t.Parallel()

	a, b := testNode(1), testNode(2)
	g := graph.NewDirectedGraph()
	addChannel(g, 1, a, b, 0, 0, 10, 0, nil, 1_000_000)

	routes, err := FindRoutes(Query{Graph: g, Source: a, Target: b, Amount: 1000}, 10)
	require.NoError(t, err)
	require.Len(t, routes, 1)
}

// TestFindRoutesPropagatesNotFound confirms FindRoutes surfaces the same
// error FindRoute would when no path exists at all.
func TestFindRoutesPropagatesNotFound(t *testing.T) {
	t.Parallel()

	a, b := testNode(1), testNode(2)
	g := graph.NewDirectedGraph()
	g.AddVertex(a)
	g.AddVertex(b)

	_, err := FindRoutes(Query{Graph: g, Source: a, Target: b, Amount: 1000}, 3)
	require.ErrorIs(t, err, ErrRouteNotFoundErr)
}
