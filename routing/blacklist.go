package routing

import (
	"github.com/standardsats/eclair/chanfee"
	"github.com/standardsats/eclair/graph"
)

// restrictions bundles every per-search blacklist and hint together so
// findPath's signature doesn't grow a parameter every time a new kind of
// restriction is added.
type restrictions struct {
	ignoredEdges    map[graph.ChannelDesc]struct{}
	ignoredVertices map[graph.NodeId]struct{}
	ignoredChannels map[chanfee.ChannelId]struct{}

	// extraEdges indexes assisted/extra edges by the directed key they
	// supersede or augment, so lookups during relaxation are O(1).
	extraEdges map[graph.ChannelDesc]graph.GraphEdge

	bandwidthHints BandwidthHints
}

func newRestrictions() *restrictions {
	return &restrictions{
		ignoredEdges:    make(map[graph.ChannelDesc]struct{}),
		ignoredVertices: make(map[graph.NodeId]struct{}),
		ignoredChannels: make(map[chanfee.ChannelId]struct{}),
		extraEdges:      make(map[graph.ChannelDesc]graph.GraphEdge),
		bandwidthHints:  noBandwidthHints{},
	}
}

// GetIgnoredChannelDescs expands a set of blacklisted nodes into the full
// set of ChannelDescs touching any of them, in either direction, across
// the given public channels. Callers use this to turn a node-level
// blacklist (e.g. nodes that previously failed an HTLC) into the
// edge-level blacklist findPath actually consumes.
func GetIgnoredChannelDescs(
	channels []graph.PublicChannel, ignoredNodes map[graph.NodeId]struct{},
) map[graph.ChannelDesc]struct{} {

	out := make(map[graph.ChannelDesc]struct{})
	if len(ignoredNodes) == 0 {
		return out
	}

	for _, ch := range channels {
		_, aIgnored := ignoredNodes[ch.EndpointA]
		_, bIgnored := ignoredNodes[ch.EndpointB]
		if !aIgnored && !bIgnored {
			continue
		}

		out[graph.ChannelDesc{
			ChannelId: ch.ChannelId, From: ch.EndpointA, To: ch.EndpointB,
		}] = struct{}{}
		out[graph.ChannelDesc{
			ChannelId: ch.ChannelId, From: ch.EndpointB, To: ch.EndpointA,
		}] = struct{}{}
	}

	return out
}

// AssistedChannel is a single-direction routing hint, typically decoded
// from an invoice's routing-hint field: it describes a channel the payer
// wouldn't otherwise know about (or a fresher policy for one it does).
type AssistedChannel struct {
	ChannelId chanfee.ChannelId
	From, To  graph.NodeId
	Policy    graph.ChannelUpdate
	Capacity  chanfee.Amount
}

// AssistedChannelsFromHints converts a set of routing hints that terminate
// at target into the map of extra edges a search should honor, keyed by
// channel id. Hints whose "to" endpoint isn't target are dropped: a hint
// only makes sense as the last private hop before the destination it was
// issued for.
func AssistedChannelsFromHints(
	hints []AssistedChannel, target graph.NodeId,
) map[chanfee.ChannelId]AssistedChannel {

	out := make(map[chanfee.ChannelId]AssistedChannel)
	for _, h := range hints {
		if h.To != target {
			continue
		}

		out[h.ChannelId] = h
	}

	return out
}

// asGraphEdges converts a set of assisted channels into GraphEdges keyed
// by their ChannelDesc, suitable for use as extra edges in a search.
func asGraphEdges(hints map[chanfee.ChannelId]AssistedChannel) map[graph.ChannelDesc]graph.GraphEdge {
	out := make(map[graph.ChannelDesc]graph.GraphEdge, len(hints))
	for _, h := range hints {
		desc := graph.ChannelDesc{ChannelId: h.ChannelId, From: h.From, To: h.To}
		out[desc] = graph.GraphEdge{
			Desc: desc, Update: h.Policy, Capacity: h.Capacity,
		}
	}

	return out
}

// WithAssistedChannels returns a copy of q with hints that terminate at
// q.Target folded into its ExtraEdges, overriding any graph edge sharing
// the same ChannelDesc for the duration of this search only. This is the
// entry point a caller decoding an invoice's routing hints is expected to
// use before calling FindRoute/FindRoutes.
func (q Query) WithAssistedChannels(hints []AssistedChannel) Query {
	assisted := AssistedChannelsFromHints(hints, q.Target)
	if len(assisted) == 0 {
		return q
	}

	edges := asGraphEdges(assisted)

	out := q
	out.ExtraEdges = make([]graph.GraphEdge, 0, len(q.ExtraEdges)+len(edges))
	out.ExtraEdges = append(out.ExtraEdges, q.ExtraEdges...)
	for _, e := range edges {
		out.ExtraEdges = append(out.ExtraEdges, e)
	}

	return out
}
