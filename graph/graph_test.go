package graph

import (
	"testing"

	"github.com/standardsats/eclair/chanfee"
	"github.com/stretchr/testify/require"
)

func testNode(b byte) NodeId {
	var n NodeId
	n[0] = 0x02
	n[NodeIdSize-1] = b
	return n
}

func TestAddRemoveEdge(t *testing.T) {
	t.Parallel()

	g := NewDirectedGraph()
	a, b := testNode(1), testNode(2)

	desc := ChannelDesc{ChannelId: 1, From: a, To: b}
	g.AddEdge(GraphEdge{Desc: desc, Update: ChannelUpdate{FeeBase: 5}})

	require.True(t, g.ContainsEdge(desc))
	require.True(t, g.ContainsVertex(a))
	require.True(t, g.ContainsVertex(b))
	require.Len(t, g.Outgoing(a), 1)
	require.Len(t, g.Incoming(b), 1)
	require.Empty(t, g.Outgoing(b))

	// Replacing the same desc updates the policy in place rather than
	// appending a duplicate (I2).
	g.AddEdge(GraphEdge{Desc: desc, Update: ChannelUpdate{FeeBase: 9}})
	require.Len(t, g.Outgoing(a), 1)
	require.Equal(t, chanfee.Amount(9), g.Outgoing(a)[0].Update.FeeBase)

	require.NoError(t, g.RemoveEdge(desc))
	require.False(t, g.ContainsEdge(desc))
	require.Empty(t, g.Outgoing(a))
	require.True(t, g.ContainsVertex(a), "removing an edge must not remove endpoints")

	require.ErrorIs(t, g.RemoveEdge(desc), ErrEdgeNotFound)
}

func TestRemoveVertexRequiresNoEdges(t *testing.T) {
	t.Parallel()

	g := NewDirectedGraph()
	a, b := testNode(1), testNode(2)
	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 1, From: a, To: b}})

	require.ErrorIs(t, g.RemoveVertex(a), ErrVertexHasEdges)
	require.NoError(t, g.RemoveEdge(ChannelDesc{ChannelId: 1, From: a, To: b}))
	require.NoError(t, g.RemoveVertex(a))
	require.False(t, g.ContainsVertex(a))
}

func TestParallelEdgesCoexist(t *testing.T) {
	t.Parallel()

	g := NewDirectedGraph()
	a, b := testNode(1), testNode(2)

	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 1, From: a, To: b}})
	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 2, From: a, To: b}})

	require.Len(t, g.Outgoing(a), 2)
}

func TestAllChannelDescsSorted(t *testing.T) {
	t.Parallel()

	g := NewDirectedGraph()
	a, b := testNode(1), testNode(2)

	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 5, From: a, To: b}})
	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 1, From: b, To: a}})
	g.AddEdge(GraphEdge{Desc: ChannelDesc{ChannelId: 3, From: a, To: b}})

	descs := g.AllChannelDescs()
	require.Len(t, descs, 3)
	require.Equal(t, chanfee.ChannelId(1), descs[0].ChannelId)
	require.Equal(t, chanfee.ChannelId(3), descs[1].ChannelId)
	require.Equal(t, chanfee.ChannelId(5), descs[2].ChannelId)
}

func TestBuildFromSnapshotDirectionBit(t *testing.T) {
	t.Parallel()

	lo, hi := testNode(1), testNode(2)
	require.True(t, lo.Less(hi))

	fee := chanfee.Amount(7)
	g := BuildFromSnapshot([]PublicChannel{
		{
			ChannelId: 42,
			// Deliberately pass endpoints in the "wrong" order to
			// confirm the direction bit follows lexicographic
			// order, not argument order.
			EndpointA:  hi,
			EndpointB:  lo,
			PolicyAToB: &ChannelUpdate{FeeBase: fee},
		},
	})

	desc := ChannelDesc{ChannelId: 42, From: hi, To: lo}
	require.True(t, g.ContainsEdge(desc))
	require.False(t, g.ContainsEdge(ChannelDesc{ChannelId: 42, From: lo, To: hi}))

	// hi sorts after lo, so hi is node2 and hi->lo is the node2->node1
	// direction: Direction must be true.
	edge := g.Outgoing(hi)[0]
	require.True(t, edge.Update.Direction)
}
