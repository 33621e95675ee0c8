package routing

import (
	"container/heap"

	"github.com/standardsats/eclair/chanfee"
	"github.com/standardsats/eclair/graph"
	"github.com/standardsats/eclair/routing/route"
)

// Query bundles every input a single path-finding request needs: the graph
// snapshot to search, the endpoints and amount, and the per-search
// restrictions and configuration described in spec.md §3 and §6.
type Query struct {
	Graph          *graph.DirectedGraph
	Source, Target graph.NodeId
	Amount         chanfee.Amount

	IgnoredEdges    map[graph.ChannelDesc]struct{}
	IgnoredVertices map[graph.NodeId]struct{}
	IgnoredChannels map[chanfee.ChannelId]struct{}
	ExtraEdges      []graph.GraphEdge
	BandwidthHints  BandwidthHints

	Params *RouteParams

	// Cancel, if non-nil, is checked between priority-queue pops; a
	// close or send on it aborts the search with ErrCancelledErr. No
	// partial route is ever returned.
	Cancel <-chan struct{}
}

func (q *Query) buildRestrictions() *restrictions {
	r := newRestrictions()

	for d := range q.IgnoredEdges {
		r.ignoredEdges[d] = struct{}{}
	}
	for v := range q.IgnoredVertices {
		r.ignoredVertices[v] = struct{}{}
	}
	for c := range q.IgnoredChannels {
		r.ignoredChannels[c] = struct{}{}
	}
	for _, e := range q.ExtraEdges {
		r.extraEdges[e.Desc] = e
	}
	if q.BandwidthHints != nil {
		r.bandwidthHints = q.BandwidthHints
	}

	return r
}

func (q *Query) params() *RouteParams {
	if q.Params != nil {
		return q.Params
	}

	return &RouteParams{}
}

// FindRoute runs a single backward Dijkstra search and assembles the
// result into a Route. It is the core's primary entry point
// (spec.md §6's find_route).
func FindRoute(q Query) (*route.Route, error) {
	pathEdges, err := findPath(q, alwaysTrue)
	if err != nil {
		return nil, err
	}

	return assembleRoute(q.Source, q.Amount, pathEdges)
}

func alwaysTrue(RichWeight) bool { return true }

// findPath runs the backward Dijkstra search described in spec.md §4.4 and
// returns the winning path as an ordered slice of edges, from the source's
// first hop through to the target.
func findPath(q Query, boundary func(RichWeight) bool) ([]graph.GraphEdge, error) {
	if q.Source == q.Target {
		return nil, ErrCannotRouteToSelfErr
	}

	params := q.params()
	restr := q.buildRestrictions()
	maxLength := params.effectiveMaxLength()

	best := map[graph.NodeId]RichWeight{q.Target: {Cost: q.Amount}}
	pred := make(map[graph.NodeId]graph.GraphEdge)

	h := newDistanceHeap()
	heap.Push(&h, vertexDist{vertex: q.Target, dist: best[q.Target]})

	reached := false

	for h.Len() > 0 {
		if cancelled(q.Cancel) {
			return nil, ErrCancelledErr
		}

		item := heap.Pop(&h).(vertexDist)
		v := item.vertex

		cur, ok := best[v]
		if !ok || cur != item.dist {
			// PushOrFix updates entries in place, so an entry
			// whose accumulator no longer matches best[v] isn't
			// expected; skip one defensively if it appears.
			continue
		}

		if v == q.Source {
			reached = true
			break
		}

		for _, edge := range incomingCandidates(q.Graph, restr, v) {
			relaxEdgeInto(edge, v, q.Source, cur, params, restr, maxLength, boundary, best, pred, &h)
		}
	}

	if !reached {
		return nil, ErrRouteNotFoundErr
	}

	return reconstructPath(q.Source, q.Target, pred)
}

func cancelled(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}

	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

// relaxEdgeInto relaxes edge (u->v) given the finalized accumulator at v,
// updating best/pred/the heap for u if the relaxation improves on what's
// already known about u.
func relaxEdgeInto(
	edge graph.GraphEdge, v, source graph.NodeId, cur RichWeight,
	params *RouteParams, restr *restrictions, maxLength int,
	boundary func(RichWeight) bool,
	best map[graph.NodeId]RichWeight, pred map[graph.NodeId]graph.GraphEdge,
	h *distanceHeap,
) {

	desc := edge.Desc
	u := desc.From

	if u == v {
		return
	}
	if _, ok := restr.ignoredEdges[desc]; ok {
		return
	}
	if _, ok := restr.ignoredChannels[desc.ChannelId]; ok {
		return
	}
	if _, ok := restr.ignoredVertices[u]; ok {
		return
	}
	if !edgeFeasible(edge, restr, cur.Cost) {
		return
	}

	isSourceEdge := u == source
	next := relax(cur, edge, isSourceEdge, params.CurrentBlockHeight, params.Ratios)

	// A saturated cost means the fee arithmetic overflowed; such an edge
	// can't carry the payment.
	if next.Cost == chanfee.MaxAmount {
		return
	}
	if next.Length > maxLength {
		return
	}
	if next.Cltv > params.effectiveMaxCltv() {
		return
	}
	if !boundary(next) {
		return
	}

	if existing, ok := best[u]; ok && next.Weight >= existing.Weight {
		return
	}

	best[u] = next
	pred[u] = edge
	h.PushOrFix(vertexDist{vertex: u, dist: next, tieBreak: uint64(desc.ChannelId)})
}

// edgeFeasible checks the htlc bounds from the edge's policy, further
// narrowed by a caller-supplied bandwidth hint for that channel, if any.
func edgeFeasible(edge graph.GraphEdge, restr *restrictions, amount chanfee.Amount) bool {
	if !edge.Update.Feasible(amount) {
		return false
	}

	if bw, ok := restr.bandwidthHints.AvailableBandwidth(edge.Desc); ok && amount > bw {
		return false
	}

	return true
}

// incomingCandidates returns every candidate predecessor edge for v: the
// graph's own incoming edges, plus any extra edge terminating at v. An
// extra edge whose ChannelDesc collides with a graph edge overrides it for
// this search only; the graph itself is never mutated.
func incomingCandidates(g *graph.DirectedGraph, restr *restrictions, v graph.NodeId) []graph.GraphEdge {
	base := g.Incoming(v)

	if len(restr.extraEdges) == 0 {
		return base
	}

	out := make([]graph.GraphEdge, 0, len(base)+len(restr.extraEdges))
	seen := make(map[graph.ChannelDesc]struct{}, len(restr.extraEdges))

	for _, e := range restr.extraEdges {
		if e.Desc.To != v {
			continue
		}

		out = append(out, e)
		seen[e.Desc] = struct{}{}
	}

	for _, e := range base {
		if _, overridden := seen[e.Desc]; overridden {
			continue
		}

		out = append(out, e)
	}

	return out
}

// reconstructPath walks pred from source forward to target, yielding the
// edges in traversal order.
func reconstructPath(
	source, target graph.NodeId, pred map[graph.NodeId]graph.GraphEdge,
) ([]graph.GraphEdge, error) {

	var path []graph.GraphEdge

	cur := source
	for cur != target {
		edge, ok := pred[cur]
		if !ok {
			return nil, ErrRouteNotFoundErr
		}

		path = append(path, edge)
		cur = edge.Desc.To

		if len(path) > MaxRouteLength {
			return nil, ErrRouteNotFoundErr
		}
	}

	return path, nil
}

// assembleRoute converts a forward-ordered edge sequence into a validated
// Route, computing each hop's forwarded amount and fee from the amount
// that must ultimately reach target. The source pays no fee and no cltv
// delta on its own first hop (spec.md §4.3, §4.4, P9), so Hops[0]'s Fee
// and TimeLockDelta are forced to zero even though the policy on that edge
// may advertise non-zero values.
func assembleRoute(
	source graph.NodeId, amount chanfee.Amount, pathEdges []graph.GraphEdge,
) (*route.Route, error) {

	if len(pathEdges) == 0 {
		return nil, ErrRouteNotFoundErr
	}

	// Walk the path backward (target to source) accumulating the
	// amount each hop must forward, mirroring how the search itself
	// computed costs.
	hops := make([]route.Hop, len(pathEdges))
	runningAmt := amount

	for i := len(pathEdges) - 1; i >= 0; i-- {
		edge := pathEdges[i]
		isSourceEdge := i == 0

		var fee chanfee.Amount
		if !isSourceEdge {
			fee = edge.Update.FeeFor(runningAmt)
		}

		hop := route.Hop{
			From:         edge.Desc.From,
			To:           edge.Desc.To,
			ChannelId:    edge.Desc.ChannelId,
			LastUpdate:   edge.Update,
			AmtToForward: runningAmt,
			Fee:          0,
		}
		if !isSourceEdge {
			hop.Fee = fee
			hop.TimeLockDelta = edge.Update.CltvDelta
		}

		hops[i] = hop
		runningAmt = runningAmt.AddSaturating(fee)
	}

	return route.NewRouteFromHops(source, hops)
}
