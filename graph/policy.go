package graph

import "github.com/standardsats/eclair/chanfee"

// ChannelUpdate is the per-direction routing policy advertised for one side
// of a channel.
type ChannelUpdate struct {
	// FeeBase is the flat fee charged regardless of amount.
	FeeBase chanfee.Amount

	// FeeProportionalPPM is the fee rate, in parts per million of the
	// forwarded amount.
	FeeProportionalPPM uint32

	// CltvDelta is the timelock this hop subtracts from the incoming
	// HTLC's expiry before forwarding.
	CltvDelta chanfee.CltvDelta

	// HtlcMin is the smallest amount this direction will forward.
	HtlcMin chanfee.Amount

	// HtlcMax is the largest amount this direction will forward, if
	// advertised. A nil HtlcMax means no upper bound.
	HtlcMax *chanfee.Amount

	// Timestamp is the update's announcement time, seconds since epoch.
	Timestamp uint64

	// Direction is the BOLT7 direction bit: false for node1->node2,
	// true for node2->node1, where node1/node2 are lexicographically
	// ordered.
	Direction bool
}

// FeeFor computes the fee this policy charges to forward amount.
func (u *ChannelUpdate) FeeFor(amount chanfee.Amount) chanfee.Amount {
	return chanfee.FeeForAmount(u.FeeBase, u.FeeProportionalPPM, amount)
}

// Feasible reports whether amount lies within [HtlcMin, HtlcMax]. An
// HtlcMax present but smaller than HtlcMin is always infeasible; the
// implementation never tries to infer which bound the announcer "really
// meant".
func (u *ChannelUpdate) Feasible(amount chanfee.Amount) bool {
	if u.HtlcMax != nil && *u.HtlcMax < u.HtlcMin {
		return false
	}

	if amount < u.HtlcMin {
		return false
	}

	if u.HtlcMax != nil && amount > *u.HtlcMax {
		return false
	}

	return true
}
