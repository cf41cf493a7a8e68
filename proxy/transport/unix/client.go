package unix

import (
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"net"
)

// backendConnector implements the IBackendConnector interface for Unix sockets
type backendConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IBackendConnector)
// --------------------------------------------------------------------------

func (c *backendConnector) GetName() string {
	return "unix"
}

func (c *backendConnector) Connect(config common.BackendConfig) (transport.IBackendConn, error) {
	if config.SocketPath == "" {
		return nil, fmt.Errorf("no socket path configured")
	}

	dialer := net.Dialer{Timeout: config.DialTimeout()}

	conn, err := dialer.Dial("unix", config.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.SocketPath, err)
	}

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("unexpected connection type %T", conn)
	}

	// Set socket buffer sizes if configured
	if config.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(config.WriteBufferSize); err != nil {
			unixConn.Close()
			return nil, err
		}
	}
	if config.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(config.ReadBufferSize); err != nil {
			unixConn.Close()
			return nil, err
		}
	}

	return unixConn, nil
}

// --------------------------------------------------------------------------
// Connector Factory Method
// --------------------------------------------------------------------------

// NewUnixBackendConnector creates a new Unix socket connector for the pricing daemon
func NewUnixBackendConnector() transport.IBackendConnector {
	return &backendConnector{}
}
