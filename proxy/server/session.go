package server

import (
	"errors"
	"github.com/ValentinKolb/pricerproxy/lib/frame"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/serializer"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var sessionLogger = logger.GetLogger(common.LoggerSession)

// Session pairs one client connection with one pricer connection.
//
// The goroutine calling Run reads the client and is the only writer of the
// pricer connection. A second goroutine reads the pricer and is the only user
// of the accumulator. Writes to the client happen from both and are
// serialized by the client connection.
type Session struct {
	id         uint64
	client     transport.IClientConn
	connector  transport.IBackendConnector
	serializer serializer.IMessageSerializer
	config     common.BackendConfig

	state atomic.Int32
	stats *sessionStats

	mu       sync.Mutex
	backend  transport.IBackendConn
	shutdown bool
}

func newSession(
	id uint64,
	client transport.IClientConn,
	connector transport.IBackendConnector,
	serializer serializer.IMessageSerializer,
	config common.BackendConfig,
) *Session {
	return &Session{
		id:         id,
		client:     client,
		connector:  connector,
		serializer: serializer,
		config:     config,
		stats:      newSessionStats(),
	}
}

// ID returns the id of the session, unique per server
func (s *Session) ID() uint64 {
	return s.id
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run dials the pricer and relays until both sides are closed
func (s *Session) Run() {
	s.state.Store(int32(StateConnecting))
	sessionLogger.Debugf("[%d] Connecting to pricer at %s for %s", s.id, s.config.Endpoint(), s.client.RemoteAddr())

	backend, err := s.connector.Connect(s.config)
	if err != nil {
		sessionLogger.Warningf("[%d] Pricer unavailable: %v", s.id, err)
		dialFailuresTotal.Inc()
		s.sendError(common.ErrMsgPricerUnavailable)
		_ = s.client.Close(transport.CloseBackendUnavailable)
		s.state.Store(int32(StateClosed))
		return
	}

	// Close may have been called during the dial
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		_ = backend.Close()
		s.state.Store(int32(StateClosed))
		return
	}
	s.backend = backend
	s.mu.Unlock()

	s.state.Store(int32(StateActive))
	sessionLogger.Infof("[%d] Session active (%s <-> %s)", s.id, s.client.RemoteAddr(), s.config.Endpoint())

	// Response path
	backendDone := make(chan struct{})
	go func() {
		defer close(backendDone)
		s.readBackend()
	}()

	// Request path
	err = s.readClient()
	switch {
	case errors.Is(err, transport.ErrClientClosed):
		// Let the pricer finish what it has, results to the gone client are dropped
		if s.beginClosing() {
			sessionLogger.Debugf("[%d] Client closed, half-closing pricer connection", s.id)
		}
		if err := backend.CloseWrite(); err != nil {
			sessionLogger.Debugf("[%d] Half-close failed, closing pricer connection: %v", s.id, err)
			_ = backend.Close()
		}
	default:
		if s.beginClosing() {
			sessionLogger.Infof("[%d] Client connection failed: %v", s.id, err)
		}
		_ = backend.Close()
	}

	<-backendDone
	_ = backend.Close()
	_ = s.client.Close(transport.CloseNormal)
	s.state.Store(int32(StateClosed))

	sessionLogger.Infof("[%d] Session closed (%s)", s.id, s.stats.Summary())
}

// Close tears the session down from the outside, e.g. on server shutdown
func (s *Session) Close(reason transport.CloseReason) {
	s.mu.Lock()
	s.shutdown = true
	backend := s.backend
	s.mu.Unlock()

	s.beginClosing()
	_ = s.client.Close(reason)
	if backend != nil {
		_ = backend.Close()
	}
}

// --------------------------------------------------------------------------
// Request Path (client -> pricer)
// --------------------------------------------------------------------------

// readClient handles client messages until reading fails
func (s *Session) readClient() error {
	for {
		msg, err := s.client.ReadMessage()
		if err != nil {
			return err
		}
		s.handleRequest(msg)
	}
}

// handleRequest forwards a single client message to the pricer.
// Bad requests and write failures are reported to the client, the session stays open.
func (s *Session) handleRequest(msg []byte) {
	s.stats.requests.Inc(1)
	requestsTotal.Inc()

	req, err := s.serializer.DeserializeRequest(msg)
	if err != nil {
		sessionLogger.Debugf("[%d] Rejected request: %v", s.id, err)
		s.stats.badRequests.Inc(1)
		badRequestsTotal.Inc()
		s.sendError(common.ErrMsgBadRequest)
		return
	}

	// The backend is set before the request path starts
	if _, err := s.backend.Write(frame.EncodeRequest(req)); err != nil {
		sessionLogger.Warningf("[%d] Failed to send request to pricer: %v", s.id, err)
		s.stats.sendFailures.Inc(1)
		sendFailuresTotal.Inc()
		s.sendError(common.ErrMsgSendFailed)
	}
}

// --------------------------------------------------------------------------
// Response Path (pricer -> client)
// --------------------------------------------------------------------------

// readBackend decodes the pricer stream until it ends and then closes the client
func (s *Session) readBackend() {
	chunkSize := s.config.ReadChunkSize
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}

	buf := make([]byte, chunkSize)
	acc := frame.NewAccumulator(chunkSize)

	var err error
	for {
		var n int
		n, err = s.backend.Read(buf)
		if n > 0 {
			s.stats.readSizes.Update(int64(n))
			pricerBytesTotal.Add(n)

			_, _ = acc.Write(buf[:n])
			acc.Drain(s.deliver)
		}
		if err != nil {
			break
		}
	}

	if rest := acc.Buffered(); rest > 0 {
		sessionLogger.Debugf("[%d] Dropping %d bytes of an incomplete record", s.id, rest)
	}

	reason := transport.CloseNormal
	if !errors.Is(err, io.EOF) {
		reason = transport.CloseBackendError
	}

	if s.beginClosing() {
		if reason == transport.CloseNormal {
			sessionLogger.Infof("[%d] Pricer closed the connection", s.id)
		} else {
			sessionLogger.Warningf("[%d] Pricer connection failed: %v", s.id, err)
		}
	}

	// Unblocks the request path if the client is still connected
	_ = s.client.Close(reason)
}

// deliver sends one decoded record to the client. Failures are not escalated.
func (s *Session) deliver(resp frame.Response) {
	s.stats.results.Inc(1)
	resultsTotal.Inc()

	msg, err := s.serializer.Serialize(*common.NewPriceResultMessage(resp, time.Now()))
	if err != nil {
		sessionLogger.Errorf("[%d] Failed to serialize result: %v", s.id, err)
		return
	}

	if err := s.client.WriteMessage(msg); err != nil {
		s.stats.deliveryFailures.Inc(1)
		deliveryFailedTotal.Inc()
		sessionLogger.Debugf("[%d] Failed to deliver result: %v", s.id, err)
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sendError sends an error message to the client, failures are swallowed
func (s *Session) sendError(message string) {
	msg, err := s.serializer.Serialize(*common.NewErrorMessage(message))
	if err != nil {
		sessionLogger.Errorf("[%d] Failed to serialize error message: %v", s.id, err)
		return
	}
	if err := s.client.WriteMessage(msg); err != nil {
		sessionLogger.Debugf("[%d] Failed to deliver error message: %v", s.id, err)
	}
}

// beginClosing moves an active session to closing.
// It returns true for the caller that initiated the teardown.
func (s *Session) beginClosing() bool {
	return s.state.CompareAndSwap(int32(StateActive), int32(StateClosing))
}
