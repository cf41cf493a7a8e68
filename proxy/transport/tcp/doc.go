// Package tcp implements the TCP connector used to reach the pricing daemon.
// It dials the configured host and port and applies the socket options from
// common.TCPConf and common.SocketConf (TCP_NODELAY, buffer sizes,
// keep-alive and linger) before handing the connection to a session.
//
// The returned connection is a *net.TCPConn, which supports the half-close
// needed when a client disconnects while responses may still be in flight.
package tcp
