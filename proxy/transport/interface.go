package transport

import (
	"context"
	"errors"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"io"
	"net"
	"net/http"
)

// ErrClientClosed is wrapped by IClientConn.ReadMessage when the client closed
// the connection in an orderly way. Every other read error is a transport error.
var ErrClientClosed = errors.New("client closed the connection")

// --------------------------------------------------------------------------
// Client Transport (message oriented)
// --------------------------------------------------------------------------

// CloseReason tells the client why the proxy closes its connection
type CloseReason int

const (
	CloseNormal             CloseReason = iota // the daemon ended its stream
	CloseBackendError                          // the daemon connection failed
	CloseBackendUnavailable                    // the daemon could not be reached
	CloseShutdown                              // the proxy is shutting down
)

// String returns the string representation of a CloseReason.
func (r CloseReason) String() string {
	switch r {
	case CloseNormal:
		return "pricer closed connection"
	case CloseBackendError:
		return "pricer connection failed"
	case CloseBackendUnavailable:
		return "pricer unavailable"
	case CloseShutdown:
		return "server shutting down"
	default:
		return "unknown"
	}
}

// IClientConn is a single message oriented client connection
type IClientConn interface {
	// ReadMessage blocks until the next complete message arrives
	// An orderly close by the client is reported as an error wrapping ErrClientClosed
	ReadMessage() ([]byte, error)
	// WriteMessage sends one message to the client
	// It is safe to call WriteMessage from multiple goroutines
	WriteMessage(msg []byte) error
	// Close closes the connection and tells the client why
	// Calling Close more than once has no effect
	Close(reason CloseReason) error
	// RemoteAddr returns the address of the client
	RemoteAddr() string
}

// ClientHandleFunc is called by a server transport for every accepted client
// connection. The connection is owned by the handler until it returns.
type ClientHandleFunc func(conn IClientConn)

// IClientServerTransport is the interface for the client facing listener
type IClientServerTransport interface {
	// RegisterHandler registers the handler for new client connections
	RegisterHandler(handler ClientHandleFunc)
	// HandleHTTP registers a plain http handler next to the client endpoint
	HandleHTTP(pattern string, handler http.Handler)
	// Listen starts accepting clients and blocks until the listener fails or is shut down
	Listen(config common.ServerConfig) error
	// Addr returns the bound address or nil if the transport is not listening
	Addr() net.Addr
	// Shutdown stops accepting new clients
	Shutdown(ctx context.Context) error
}

// --------------------------------------------------------------------------
// Backend Transport (byte stream)
// --------------------------------------------------------------------------

// IBackendConn is a byte stream connection to the pricing daemon
type IBackendConn interface {
	io.Reader
	io.Writer
	// CloseWrite shuts down the sending side, reads keep working
	CloseWrite() error
	// Close closes both directions immediately
	Close() error
}

// IBackendConnector dials the pricing daemon
type IBackendConnector interface {
	// Connect establishes a single connection based on the provided configuration
	Connect(config common.BackendConfig) (IBackendConn, error)
	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}
