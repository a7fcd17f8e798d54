// Package hlc implements a Hybrid Logical Clock: local-event ticks,
// message-receive reconciliation, comparison, and a fixed-width wire form.
// A Clock is not safe for concurrent mutation; callers serialize access.
package hlc

import (
	"encoding/binary"
	"time"
)

// Timestamp is the (physical, logical, node) triple an HLC emits. It
// orders lexicographically over (PT, L, NodeID).
type Timestamp struct {
	PT     int64  // milliseconds since epoch
	L      uint32 // logical counter
	NodeID uint32 // tie-breaker across nodes
}

// WireSize is the length of the fixed-width serialized form.
const WireSize = 16

// Clock holds the last-issued timestamp for one node.
type Clock struct {
	nodeID uint32
	lastPT int64
	lastL  uint32
}

// New creates a clock for the given node, with no timestamps issued yet.
func New(nodeID uint32) *Clock {
	return &Clock{nodeID: nodeID}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Now issues a timestamp for a local event using the wall clock.
func (c *Clock) Now() Timestamp {
	return c.NowWithWall(nowMillis())
}

// NowWithWall issues a timestamp for a local event against an explicit
// wall-clock reading, for deterministic testing.
func (c *Clock) NowWithWall(wallMS int64) Timestamp {
	pt := c.lastPT
	if wallMS > pt {
		pt = wallMS
	}

	var l uint32
	if pt == c.lastPT {
		l = c.lastL + 1
	} else {
		l = 0
	}

	c.lastPT, c.lastL = pt, l
	return Timestamp{PT: pt, L: l, NodeID: c.nodeID}
}

// Receive reconciles the clock with an incoming message timestamp,
// returning the reconciled timestamp and advancing the clock's state.
func (c *Clock) Receive(msg Timestamp) Timestamp {
	return c.receiveWithWall(msg, nowMillis())
}

func (c *Clock) receiveWithWall(msg Timestamp, wallMS int64) Timestamp {
	pt := c.lastPT
	if msg.PT > pt {
		pt = msg.PT
	}
	if wallMS > pt {
		pt = wallMS
	}

	var l uint32
	switch {
	case pt == c.lastPT && pt == msg.PT:
		l = max(c.lastL, msg.L) + 1
	case pt == c.lastPT:
		l = c.lastL + 1
	case pt == msg.PT:
		l = msg.L + 1
	default:
		l = 0
	}

	c.lastPT, c.lastL = pt, l
	return Timestamp{PT: pt, L: l, NodeID: c.nodeID}
}

// Current returns the last-issued timestamp without advancing the clock.
func (c *Clock) Current() Timestamp {
	return Timestamp{PT: c.lastPT, L: c.lastL, NodeID: c.nodeID}
}

// Compare orders a and b lexicographically over (PT, L, NodeID).
func Compare(a, b Timestamp) int {
	switch {
	case a.PT != b.PT:
		if a.PT < b.PT {
			return -1
		}
		return 1
	case a.L != b.L:
		if a.L < b.L {
			return -1
		}
		return 1
	case a.NodeID != b.NodeID:
		if a.NodeID < b.NodeID {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// ToBytes encodes ts as 16 bytes big-endian: pt(8) | l(4) | node_id(4).
func ToBytes(ts Timestamp) [WireSize]byte {
	var out [WireSize]byte
	binary.BigEndian.PutUint64(out[0:8], uint64(ts.PT))
	binary.BigEndian.PutUint32(out[8:12], ts.L)
	binary.BigEndian.PutUint32(out[12:16], ts.NodeID)
	return out
}

// FromBytes decodes a 16-byte big-endian wire form produced by ToBytes.
func FromBytes(data []byte) Timestamp {
	return Timestamp{
		PT:     int64(binary.BigEndian.Uint64(data[0:8])),
		L:      binary.BigEndian.Uint32(data[8:12]),
		NodeID: binary.BigEndian.Uint32(data[12:16]),
	}
}
