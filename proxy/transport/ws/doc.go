// Package ws implements the client facing websocket transport of the
// pricing proxy on top of gorilla/websocket.
//
// Every upgraded connection is wrapped into a transport.IClientConn and
// handed to the registered handler on the goroutine of the http request,
// so accepting further clients never waits for a handler. Additional plain
// http handlers (metrics, health checks) can be mounted on the same listener
// with HandleHTTP; in debug mode their requests are logged.
//
// Closing:
//
//	A close frame sent by the client surfaces as transport.ErrClientClosed
//	from ReadMessage, every other read error is a transport failure. When
//	the proxy closes a connection it sends a close frame whose code reflects
//	the transport.CloseReason:
//
//	  CloseNormal             1000 (normal closure)
//	  CloseShutdown           1001 (going away)
//	  CloseBackendError       1011 (internal error)
//	  CloseBackendUnavailable 1013 (try again later)
//
// Thread Safety:
//
//	WriteMessage and Close may be called from any goroutine. ReadMessage
//	must only be called by a single goroutine.
package ws
