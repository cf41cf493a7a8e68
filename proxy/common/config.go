package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Backend transport configuration
// --------------------------------------------------------------------------

// BackendTransportType selects how the proxy reaches the pricing daemon
type BackendTransportType string

const (
	BackendTCP  BackendTransportType = "tcp"
	BackendUnix BackendTransportType = "unix"
)

// SocketConf holds socket buffer settings shared by all stream transports
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// BackendConfig describes the connection to the pricing daemon
type BackendConfig struct {
	Transport BackendTransportType

	// TCP endpoint
	Host string
	Port int

	// Unix socket path
	SocketPath string

	// DialTimeoutSecond limits a single dial, 0 means no limit
	DialTimeoutSecond int

	// ReadChunkSize is the size of the buffer used for a single read from the daemon
	ReadChunkSize int

	SocketConf
	TCPConf
}

// Endpoint returns the address to dial for the configured transport
func (c *BackendConfig) Endpoint() string {
	if c.Transport == BackendUnix {
		return c.SocketPath
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DialTimeout returns the dial timeout as a duration
func (c *BackendConfig) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutSecond) * time.Second
}

// --------------------------------------------------------------------------
// Proxy server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the proxy server
type ServerConfig struct {
	// Client facing websocket listener
	ListenHost     string
	ListenPort     int
	Path           string
	MaxMessageSize int64

	// Pricing daemon
	Backend BackendConfig

	// Expose /metrics and /healthz next to the websocket endpoint
	Metrics bool

	// Logging configuration
	LogLevel string
}

// ListenAddr returns the address the websocket server binds to
func (c *ServerConfig) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// DefaultServerConfig returns the configuration used when nothing is overridden
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenHost:     "0.0.0.0",
		ListenPort:     8080,
		Path:           "/",
		MaxMessageSize: 64 * 1024,
		Backend: BackendConfig{
			Transport:     BackendTCP,
			Host:          "pricer-cpp",
			Port:          9000,
			ReadChunkSize: 64 * 1024,
			TCPConf: TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
		},
		Metrics:  true,
		LogLevel: "info",
	}
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Websocket settings
	addSection("Websocket Server")
	addField("Listen Address", c.ListenAddr())
	addField("Path", c.Path)
	addField("Max Message Size", fmt.Sprintf("%d bytes", c.MaxMessageSize))
	addField("Metrics", fmt.Sprintf("%t", c.Metrics))

	// Pricer settings
	addSection("Pricer")
	addField("Transport", string(c.Backend.Transport))
	addField("Endpoint", c.Backend.Endpoint())
	if c.Backend.DialTimeoutSecond > 0 {
		addField("Dial Timeout", fmt.Sprintf("%d sec", c.Backend.DialTimeoutSecond))
	} else {
		addField("Dial Timeout", "none")
	}
	addField("Read Chunk", fmt.Sprintf("%d bytes", c.Backend.ReadChunkSize))
	if c.Backend.Transport == BackendTCP {
		addField("TCP NoDelay", fmt.Sprintf("%t", c.Backend.TCPNoDelay))
		addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Backend.TCPKeepAliveSec))
		addField("TCP Linger", fmt.Sprintf("%d sec", c.Backend.TCPLingerSec))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the settings of the command line client
type ClientConfig struct {
	Endpoint      string
	TimeoutSecond int
}

// Timeout returns the timeout as a duration, 0 means no timeout
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	sb.WriteString("\nCLIENT CONFIGURATION\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(fmt.Sprintf("  %-22s: %d sec\n", "Timeout", c.TimeoutSecond))

	return sb.String()
}
