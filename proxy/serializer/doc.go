// Package serializer converts between the client facing text protocol and
// the proxy's internal representations.
//
// Inbound client messages are JSON objects of the form
//
//	{"spot":100,"strike":100,"rate":0.05,"volatility":0.2,"maturity":1,"steps":500,"type":"call"}
//
// which are parsed into frame.Request values ready to be encoded for the
// pricing daemon. Outbound common.Message values are serialized to JSON.
//
// Parsing rules:
//
//   - The message must be a JSON object containing all five numeric fields
//     (spot, strike, rate, volatility, maturity). Anything else is rejected
//     with an error wrapping ErrBadRequest.
//   - Field values are coerced like the browser clients do: numbers are used
//     as is, numeric strings are parsed, null and false become 0, true becomes 1
//     and every other value becomes NaN. NaN is forwarded to the daemon,
//     checking numeric sanity is the daemon's job.
//   - Only the exact string "put" selects a put. A missing, misspelled or
//     non-string type silently selects a call.
//   - A step count is only sent if the steps field is truthy (not 0, "",
//     null, false or NaN). It is truncated to an integer and must fit into
//     an unsigned 32 bit integer.
package serializer
