package routing

import (
	"github.com/standardsats/eclair/chanfee"
	"github.com/standardsats/eclair/graph"
)

// minWeightIncrement is substituted whenever a relaxation would otherwise
// produce a non-positive weight increment, preserving invariant M1 (every
// relaxation strictly increases the priority key) even for a zero-fee,
// zero-cltv edge.
const minWeightIncrement = 1e-6

// RichWeight is the per-vertex accumulator carried during the backward
// search: the amount that must enter this vertex to deliver the payment
// downstream, the summed cltv_delta, the hop count to the target, and the
// Dijkstra priority key.
type RichWeight struct {
	Cost   chanfee.Amount
	Cltv   chanfee.CltvDelta
	Length int
	Weight float64
}

// relax computes the accumulator that would result at the predecessor node
// of edge, given the accumulator already established at edge's target-side
// endpoint. isSourceEdge must be true exactly when edge's predecessor is
// the query's source node: by convention the source pays no fee and
// contributes no cltv_delta on its own outgoing edge.
func relax(
	acc RichWeight, edge graph.GraphEdge, isSourceEdge bool,
	current chanfee.BlockHeight, ratios *WeightRatios,
) RichWeight {

	var fee chanfee.Amount
	var cltvDelta chanfee.CltvDelta
	if !isSourceEdge {
		fee = edge.Update.FeeFor(acc.Cost)
		cltvDelta = edge.Update.CltvDelta
	}

	next := RichWeight{
		Cost:   acc.Cost.AddSaturating(fee),
		Cltv:   acc.Cltv + cltvDelta,
		Length: acc.Length + 1,
	}

	if ratios == nil {
		next.Weight = float64(next.Cost)
		if next.Weight <= acc.Weight {
			next.Weight = acc.Weight + minWeightIncrement
		}

		return next
	}

	increment := minWeightIncrement
	if !isSourceEdge {
		if hw := hopWeight(edge, current, *ratios) * float64(fee); hw > 0 {
			increment = hw
		}
	}
	next.Weight = acc.Weight + increment

	return next
}

// hopWeight computes the multi-factor penalty for traversing edge, per
// spec.md §4.3: 1 plus a weighted blend of an age score, a cltv score, and
// a capacity score, each normalized to [0,1].
func hopWeight(edge graph.GraphEdge, current chanfee.BlockHeight, r WeightRatios) float64 {
	return 1 +
		ageScore(edge.Desc.ChannelId, current)*r.AgeFactor +
		cltvScore(edge.Update.CltvDelta)*r.CltvDeltaFactor +
		capacityScore(edge.Capacity)*r.CapacityFactor
}

// cltvScore normalizes cltv_delta against CltvMax; longer timelocks score
// higher (worse).
func cltvScore(delta chanfee.CltvDelta) float64 {
	return clamp01(float64(delta) / CltvMax)
}

// ageScore scores a younger channel higher (worse) than an older one. A
// channel ID that doesn't encode a plausible block height (zero) is
// treated as maximally old, i.e. the best possible score, rather than
// penalizing channels the heuristic can't actually date.
func ageScore(id chanfee.ChannelId, current chanfee.BlockHeight) float64 {
	height := id.BlockHeight()
	if height == 0 || height > current {
		return 0
	}

	age := current - height
	return 1 - clamp01(float64(age)/BlockMax)
}

// capacityScore scores a smaller channel higher (worse) than a larger one.
// Zero (unknown) capacity scores as the worst case.
func capacityScore(capacity chanfee.Amount) float64 {
	return 1 - clamp01(float64(capacity)/float64(CapacityMax))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
