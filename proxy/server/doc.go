// Package server implements the pricing proxy.
//
// A ProxyServer accepts clients on an IClientServerTransport and, for every
// client, dials one connection to the pricing daemon through an
// IBackendConnector. The pair is owned by a Session which translates JSON
// requests into binary request frames and the daemon's stream of 24 byte
// records back into price_result messages.
//
// Session lifecycle:
//
//	connecting -> active -> closing -> closed
//
//	- the pricer can not be dialed: the client gets an error message and is
//	  closed, the session never becomes active
//	- the client sends a close frame: the pricer connection is half-closed
//	  and drained, results for the gone client are dropped
//	- the client connection fails: the pricer connection is closed
//	- the pricer ends its stream or fails: the client is closed
//
// Nothing is retried and sessions never share state. Process wide counters
// are exported on /metrics, per session counters are logged when a session
// closes.
package server
