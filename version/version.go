// Package version exposes the library version string and ABI number
// callers use to gate compatibility before speaking the wire protocol.
package version

// String is the library's semantic version.
const String = "0.1.0"

// ABI is a monotonically increasing integer bumped whenever a wire-visible
// behavior changes (framing, HLC encoding, bloom filter format). The CLI
// reports it next to String in its version output.
const ABI = 1
