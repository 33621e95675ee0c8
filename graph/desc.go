package graph

import "github.com/standardsats/eclair/chanfee"

// ChannelDesc is a directed edge key: a channel id together with the
// direction it's being traversed in. The same ChannelId can appear at most
// twice in a graph, once per direction; two ChannelDescs with the same
// fields always refer to the same directed edge.
type ChannelDesc struct {
	ChannelId chanfee.ChannelId
	From, To  NodeId
}

// GraphEdge couples a directed edge key with the policy governing it and
// the capacity of the channel it belongs to. Capacity, if known, feeds the
// optional weight-ratio capacity score; a zero value means unknown and
// scores as the worst case (see the routing package's capacityScore).
type GraphEdge struct {
	Desc     ChannelDesc
	Update   ChannelUpdate
	Capacity chanfee.Amount
}
