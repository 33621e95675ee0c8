package graph

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/go-errors/errors"
)

// NodeIdSize is the length, in bytes, of a compressed secp256k1 public key.
const NodeIdSize = 33

// NodeId is an opaque compressed-public-key identifier for a node in the
// channel graph. Equality is byte-wise and order is byte-lexicographic,
// which is also the order BOLT7 uses to decide a channel's direction bit.
type NodeId [NodeIdSize]byte

// NewNodeId validates that b is a well-formed compressed secp256k1 public
// key and returns it as a NodeId.
func NewNodeId(b []byte) (NodeId, error) {
	var n NodeId
	if len(b) != NodeIdSize {
		return n, errors.Errorf("node id must be %d bytes, got %d",
			NodeIdSize, len(b))
	}

	if _, err := btcec.ParsePubKey(b); err != nil {
		return n, errors.Errorf("invalid node public key: %v", err)
	}

	copy(n[:], b)
	return n, nil
}

// Less reports whether n sorts before other in byte-lexicographic order.
func (n NodeId) Less(other NodeId) bool {
	return bytes.Compare(n[:], other[:]) < 0
}

// String returns the hex encoding of the node id, mirroring how lnd
// identifies nodes in logs.
func (n NodeId) String() string {
	const hexDigits = "0123456789abcdef"

	out := make([]byte, 0, 2*NodeIdSize)
	for _, b := range n {
		out = append(out, hexDigits[b>>4], hexDigits[b&0x0f])
	}

	return string(out)
}
