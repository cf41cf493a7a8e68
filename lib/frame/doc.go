// Package frame implements the fixed-layout binary wire format spoken by the
// pricing daemon. It has no knowledge of the client protocol or of network
// connections; it only converts between Go values and byte records.
//
// The package focuses on:
//   - Encoding pricing requests into 41 or 45 byte little-endian frames
//   - Decoding 24 byte little-endian response records
//   - Reassembling response records from a byte stream that is not aligned
//     to record boundaries
//
// Key Components:
//
//   - Request: The parameters of one pricing request. EncodeRequest writes the
//     five float64 fields at offsets 0, 8, 16, 24 and 32, the option code at
//     offset 40 and, only if HasSteps is set, the step count as uint32 at
//     offset 41. There is no padding and no length prefix.
//
//   - Response: One price/delta/vega record. Records are exactly ResponseSize
//     bytes long and carry no terminator, so record boundaries are purely
//     positional.
//
//   - Accumulator: A growable buffer that accepts arbitrary chunks of the
//     daemon's byte stream and hands out complete Response records in order.
//     The sequence of records produced is independent of how the stream was
//     split into chunks.
//
// Thread Safety:
//
//	Encode and decode functions are stateless and safe for concurrent use.
//	An Accumulator must only be used by a single goroutine.
package frame
