// Package transport defines the interfaces for both sides of the pricing
// proxy: the message oriented client connections and the byte stream
// connection to the pricing daemon.
//
// The package focuses on:
//   - A common contract for client facing listeners (websocket)
//   - A common contract for daemon connectors (TCP, Unix sockets)
//   - A close protocol that distinguishes orderly closes from transport errors
//
// Key Components:
//
//   - IClientServerTransport: accepts client connections and hands each one
//     to the registered ClientHandleFunc.
//
//   - IClientConn: a single client connection. Reads return whole messages,
//     writes are safe for concurrent use. An orderly close by the client is
//     reported as ErrClientClosed so callers can tell it apart from failures.
//
//   - IBackendConnector / IBackendConn: dial the daemon and expose the
//     resulting byte stream, including half-close via CloseWrite.
package transport
