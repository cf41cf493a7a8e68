package tcp

import (
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"net"
	"time"
)

// backendConnector implements the IBackendConnector interface for TCP sockets
type backendConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IBackendConnector)
// --------------------------------------------------------------------------

func (c *backendConnector) GetName() string {
	return "tcp"
}

func (c *backendConnector) Connect(config common.BackendConfig) (transport.IBackendConn, error) {
	dialer := net.Dialer{Timeout: config.DialTimeout()}

	conn, err := dialer.Dial("tcp", config.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Endpoint(), err)
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("unexpected connection type %T", conn)
	}

	// Upgrade the connection with protocol-specific settings
	if err := UpgradeConnection(tcpConn, config); err != nil {
		tcpConn.Close()
		return nil, fmt.Errorf("failed to upgrade connection to %s: %w", config.Endpoint(), err)
	}

	return tcpConn, nil
}

// UpgradeConnection applies the socket options from TCPConf and SocketConf to a TCP connection
func UpgradeConnection(tcpConn *net.TCPConn, config common.BackendConfig) error {
	// Disable Nagle's algorithm (TCPNoDelay) if configured
	if err := tcpConn.SetNoDelay(config.TCPNoDelay); err != nil {
		return err
	}

	// Set socket write buffer size if configured
	if config.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.WriteBufferSize); err != nil {
			return err
		}
	}

	// Set socket read buffer size if configured
	if config.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.ReadBufferSize); err != nil {
			return err
		}
	}

	// Enable TCP keep-alive if configured
	if config.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}

		// Set keep-alive period
		keepAlivePeriod := time.Duration(config.TCPKeepAliveSec) * time.Second
		if err := tcpConn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
			return err
		}
	}

	// Set TCP linger option if configured
	if config.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(config.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Connector Factory Method
// --------------------------------------------------------------------------

// NewTCPBackendConnector creates a new TCP connector for the pricing daemon
func NewTCPBackendConnector() transport.IBackendConnector {
	return &backendConnector{}
}
