package server

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/serializer"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"net"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"
)

var Logger = logger.GetLogger(common.LoggerProxy)

// shutdownPollInterval is how often Shutdown checks for remaining sessions
const shutdownPollInterval = 10 * time.Millisecond

// NewProxyServer creates a new proxy server
// It takes a config, the client transport, the pricer connector and a serializer as parameters
//
// Usage:
//
//	s := server.NewProxyServer(
//		config,
//		ws.NewWSServerTransport(),
//		tcp.NewTCPBackendConnector(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewProxyServer(
	config common.ServerConfig,
	transport transport.IClientServerTransport,
	connector transport.IBackendConnector,
	serializer serializer.IMessageSerializer,
) *ProxyServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &ProxyServer{
		config:     config,
		transport:  transport,
		connector:  connector,
		serializer: serializer,
		sessions:   xsync.NewMapOf[uint64, *Session](),
	}
}

// ProxyServer accepts clients and runs one session per client.
// The session table is only used to close live sessions on shutdown,
// sessions never look each other up.
type ProxyServer struct {
	config     common.ServerConfig
	transport  transport.IClientServerTransport
	connector  transport.IBackendConnector
	serializer serializer.IMessageSerializer

	sessions *xsync.MapOf[uint64, *Session]
	nextID   atomic.Uint64
	closing  atomic.Bool
}

// Serve registers the handlers and blocks until the listener fails or Shutdown is called
func (s *ProxyServer) Serve() error {
	s.transport.RegisterHandler(s.handleClient)

	if s.config.Metrics {
		s.transport.HandleHTTP("/metrics", metricsHandler())
		s.transport.HandleHTTP("/healthz", healthHandler(s))
	}

	Logger.Infof("Starting proxy (pricer via %s)", s.connector.GetName())
	Logger.Infof(s.config.String())

	if err := s.transport.Listen(s.config); err != nil {
		Logger.Errorf("Listener failed: %v", err)
		return fmt.Errorf("listener failed: %w", err)
	}
	return nil
}

// Addr returns the bound address of the listener or nil before Serve listens
func (s *ProxyServer) Addr() net.Addr {
	return s.transport.Addr()
}

// ActiveSessions returns the number of sessions that are not yet torn down
func (s *ProxyServer) ActiveSessions() int {
	return s.sessions.Size()
}

// Shutdown stops accepting clients, closes all live sessions and waits until
// they are released or ctx is done
func (s *ProxyServer) Shutdown(ctx context.Context) error {
	s.closing.Store(true)

	if err := s.transport.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop listener: %w", err)
	}

	s.sessions.Range(func(id uint64, session *Session) bool {
		session.Close(transport.CloseShutdown)
		return true
	})

	ticker := time.NewTicker(shutdownPollInterval)
	defer ticker.Stop()

	for s.sessions.Size() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%d sessions still open: %w", s.sessions.Size(), ctx.Err())
		case <-ticker.C:
		}
	}

	Logger.Infof("Proxy stopped")
	return nil
}

// handleClient runs a session for a newly accepted client, it returns once the session is closed
func (s *ProxyServer) handleClient(conn transport.IClientConn) {
	id := s.nextID.Add(1)
	session := newSession(id, conn, s.connector, s.serializer, s.config.Backend)
	s.sessions.Store(id, session)

	// Shutdown marks the server before it walks the table
	if s.closing.Load() {
		s.sessions.Delete(id)
		_ = conn.Close(transport.CloseShutdown)
		return
	}

	sessionsTotal.Inc()
	activeSessions.Add(1)
	defer func() {
		s.sessions.Delete(id)
		activeSessions.Add(-1)
	}()

	Logger.Debugf("Accepted client %s as session %d", conn.RemoteAddr(), id)
	session.Run()
}
