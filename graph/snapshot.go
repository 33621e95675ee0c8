package graph

import "github.com/standardsats/eclair/chanfee"

// PublicChannel is the shape a gossip-ingestion collaborator hands the core
// for one announced channel: its two endpoints and whichever of the two
// directional policies have been received so far. EndpointA/EndpointB may
// be given in either order; direction-bit disambiguation is computed from
// their lexicographic order, not from which field they were passed in.
type PublicChannel struct {
	ChannelId            chanfee.ChannelId
	Capacity             chanfee.Amount
	EndpointA, EndpointB NodeId

	// PolicyAToB/PolicyBToA are nil when that direction hasn't been
	// announced yet. A channel with both nil contributes no edges.
	PolicyAToB, PolicyBToA *ChannelUpdate
}

// BuildFromSnapshot constructs a DirectedGraph from a slice of public
// channels. Each channel contributes zero, one, or two directed edges
// depending on which directional policies are present. Per BOLT7, the
// direction bit recorded on each resulting edge's policy is false
// (node1->node2) when the edge runs from the lexicographically smaller
// endpoint to the larger one, true otherwise; this is purely descriptive
// metadata; both directions are added to the graph regardless of which
// pubkey sorts first.
func BuildFromSnapshot(channels []PublicChannel) *DirectedGraph {
	g := NewDirectedGraph()

	for _, ch := range channels {
		aIsNode1 := !ch.EndpointB.Less(ch.EndpointA)

		if ch.PolicyAToB != nil {
			addDirectedEdge(
				g, ch, ch.EndpointA, ch.EndpointB, *ch.PolicyAToB,
				!aIsNode1,
			)
		}
		if ch.PolicyBToA != nil {
			addDirectedEdge(
				g, ch, ch.EndpointB, ch.EndpointA, *ch.PolicyBToA,
				aIsNode1,
			)
		}
	}

	return g
}

func addDirectedEdge(
	g *DirectedGraph, ch PublicChannel, from, to NodeId, update ChannelUpdate,
	direction bool,
) {

	update.Direction = direction

	g.AddEdge(GraphEdge{
		Desc: ChannelDesc{
			ChannelId: ch.ChannelId,
			From:      from,
			To:        to,
		},
		Update:   update,
		Capacity: ch.Capacity,
	})
}
