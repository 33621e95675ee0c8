// Package route holds the externally-visible result of a path-finding
// search: an ordered sequence of hops, plus the validated Route built from
// it. It is deliberately decoupled from the graph package so that callers
// can hand a Route to an onion-construction layer without dragging the
// whole search-time graph representation along.
package route

import (
	"github.com/go-errors/errors"
	"github.com/standardsats/eclair/chanfee"
	"github.com/standardsats/eclair/graph"
)

// ErrNoHops is returned when a Route is assembled from an empty hop list.
var ErrNoHops = errors.New("route must have at least one hop")

// ErrHopAmountBelowMin is returned when a hop would carry less than its
// channel's advertised minimum HTLC amount.
var ErrHopAmountBelowMin = errors.New("hop amount below htlc minimum")

// ErrHopAmountAboveMax is returned when a hop would carry more than its
// channel's advertised maximum HTLC amount.
var ErrHopAmountAboveMax = errors.New("hop amount above htlc maximum")

// Hop represents a single directed edge traversal within a route.
type Hop struct {
	// From and To are the endpoints of the channel this hop traverses.
	From, To graph.NodeId

	// ChannelId identifies the channel being traversed.
	ChannelId chanfee.ChannelId

	// LastUpdate is the policy in effect for this hop at search time.
	LastUpdate graph.ChannelUpdate

	// AmtToForward is the amount this hop forwards to the next hop (or,
	// for the final hop, delivers to the recipient).
	AmtToForward chanfee.Amount

	// Fee is the fee this hop's node charges to forward AmtToForward.
	// It is zero for the first hop (the source pays no fee on its own
	// outgoing channel).
	Fee chanfee.Amount

	// TimeLockDelta is this hop's contribution to the route's total
	// CLTV, in blocks.
	TimeLockDelta chanfee.CltvDelta
}

// Route is a fully assembled, validated path through the channel graph.
type Route struct {
	// Source is the node originating the payment.
	Source graph.NodeId

	// TotalAmount is the amount the source must extend on the first
	// hop, inclusive of every downstream fee.
	TotalAmount chanfee.Amount

	// TotalTimeLock is the cumulative CLTV delta across the whole
	// route.
	TotalTimeLock chanfee.CltvDelta

	// Hops holds the forwarding details at each hop, in traversal
	// order from the source's first hop to the final hop.
	Hops []Hop
}

// TotalFees returns the sum of every hop's fee.
func (r *Route) TotalFees() chanfee.Amount {
	var fees chanfee.Amount
	for _, h := range r.Hops {
		fees = fees.AddSaturating(h.Fee)
	}

	return fees
}

// PaymentAmount returns the amount the final hop delivers to the
// recipient.
func (r *Route) PaymentAmount() chanfee.Amount {
	if len(r.Hops) == 0 {
		return 0
	}

	return r.Hops[len(r.Hops)-1].AmtToForward
}

// FeeLimitExceeded reports whether the route's total fee exceeds both
// acceptance thresholds: an absolute ceiling and a percentage of the
// delivered amount. A route is only rejected when it fails *both* checks
// (spec: "max_fee_base OR max_fee_pct").
func (r *Route) FeeLimitExceeded(maxFeeBase chanfee.Amount, maxFeePct float64) bool {
	fee := r.TotalFees()
	if fee <= maxFeeBase {
		return false
	}

	amt := r.PaymentAmount()
	if amt == 0 {
		return true
	}

	if float64(fee)/float64(amt) <= maxFeePct {
		return false
	}

	return true
}

// NewRouteFromHops validates and assembles a Route from the source node and
// an ordered hop sequence, checking each hop's AmtToForward against that
// hop's htlc bounds.
func NewRouteFromHops(source graph.NodeId, hops []Hop) (*Route, error) {
	if len(hops) == 0 {
		return nil, ErrNoHops
	}

	var totalTimeLock chanfee.CltvDelta
	for _, h := range hops {
		totalTimeLock += h.TimeLockDelta

		if !h.LastUpdate.Feasible(h.AmtToForward) {
			if h.LastUpdate.HtlcMax != nil &&
				h.AmtToForward > *h.LastUpdate.HtlcMax {

				return nil, ErrHopAmountAboveMax
			}

			return nil, ErrHopAmountBelowMin
		}
	}

	return &Route{
		Source:        source,
		TotalAmount:   hops[0].AmtToForward,
		TotalTimeLock: totalTimeLock,
		Hops:          hops,
	}, nil
}
