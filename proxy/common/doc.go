// Package common provides the data structures and utilities shared across
// the pricing proxy. It defines the client facing message protocol, the
// configuration structures and the logging setup used by all other packages.
//
// The package focuses on:
//   - Message protocol definition for proxy to client communication
//   - Configuration structures for the proxy server and the command line client
//   - Custom logging implementation integrated with Dragonboat's logger registry
//
// Key Components:
//
//   - Message: Core data structure for everything the proxy sends to a client.
//     A message is either a price_result carrying a PriceResult or an error
//     carrying a human readable message. Non-finite values reported by the
//     daemon are mapped to JSON null since JSON has no NaN or Infinity.
//
//   - MessageType: Enumeration of the outbound message kinds, serialized as
//     the strings "price_result" and "error".
//
//   - ServerConfig: Configuration of the websocket listener and of the
//     connection to the pricing daemon (TCP or Unix socket, socket options).
//
//   - ClientConfig: Configuration for the command line client.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger factory while providing consistent formatting across the application.
package common
