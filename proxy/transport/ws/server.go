package ws

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/gorilla/websocket"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"net/http"
	"sync"
	"time"
)

var Logger = logger.GetLogger(common.LoggerWS)

// NewWSServerTransport creates a new websocket server transport
func NewWSServerTransport() transport.IClientServerTransport {
	return &wsServerTransport{
		httpHandlers: make(map[string]http.Handler),
	}
}

type wsServerTransport struct {
	handler      transport.ClientHandleFunc
	httpHandlers map[string]http.Handler
	upgrader     websocket.Upgrader

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientServerTransport)
// --------------------------------------------------------------------------

func (t *wsServerTransport) RegisterHandler(handler transport.ClientHandleFunc) {
	t.handler = handler
}

func (t *wsServerTransport) HandleHTTP(pattern string, handler http.Handler) {
	t.httpHandlers[pattern] = handler
}

func (t *wsServerTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no client handler registered")
	}

	// Browsers connect from arbitrary origins, there is no authentication
	t.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	// Create a new HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc(config.Path, func(w http.ResponseWriter, r *http.Request) {
		t.handleUpgrade(w, r, config.MaxMessageSize)
	})

	// Register additional handlers (logged in debug mode)
	for pattern, h := range t.httpHandlers {
		if config.LogLevel == "debug" {
			mux.Handle(pattern, loggerMiddleware(h))
		} else {
			mux.Handle(pattern, h)
		}
	}

	listener, err := net.Listen("tcp", config.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.ListenAddr(), err)
	}

	server := &http.Server{Handler: mux}

	t.mu.Lock()
	t.server = server
	t.listener = listener
	t.mu.Unlock()

	Logger.Infof("Websocket server listening on ws://%s%s", listener.Addr(), config.Path)

	// Serve blocks until the listener fails or Shutdown is called
	err = server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (t *wsServerTransport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *wsServerTransport) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	server := t.server
	t.mu.Unlock()

	if server == nil {
		return nil
	}

	// Hijacked websocket connections are not tracked by the http server,
	// their sessions are closed by the caller
	return server.Shutdown(ctx)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleUpgrade upgrades a http request to a websocket connection and runs the client handler
func (t *wsServerTransport) handleUpgrade(w http.ResponseWriter, r *http.Request, maxMessageSize int64) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied with an http error
		Logger.Debugf("Rejected connection from %s: %v", r.RemoteAddr, err)
		return
	}

	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}

	// The handler owns the connection until it returns
	t.handler(newClientConn(conn))
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, duration)
	})
}
