package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

// --------------------------------------------------------------------------
// Fake client connection
// --------------------------------------------------------------------------

// fakeClient is an in-memory transport.IClientConn
type fakeClient struct {
	in      chan []byte
	out     chan []byte
	readErr error

	closed    chan struct{}
	closeOnce sync.Once
	reason    transport.CloseReason
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 128),
		closed: make(chan struct{}),
	}
}

func (c *fakeClient) ReadMessage() ([]byte, error) {
	select {
	case msg, ok := <-c.in:
		if !ok {
			return nil, c.readErr
		}
		return msg, nil
	case <-c.closed:
		return nil, errors.New("use of closed connection")
	}
}

func (c *fakeClient) WriteMessage(msg []byte) error {
	select {
	case <-c.closed:
		return errors.New("use of closed connection")
	default:
	}
	c.out <- msg
	return nil
}

func (c *fakeClient) Close(reason transport.CloseReason) error {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.closed)
	})
	return nil
}

func (c *fakeClient) RemoteAddr() string {
	return "fake-client"
}

// send queues a message as if the client sent it
func (c *fakeClient) send(msg string) {
	c.in <- []byte(msg)
}

// hangUp ends the client stream with the given read error
func (c *fakeClient) hangUp(err error) {
	c.readErr = err
	close(c.in)
}

// next waits for the next message sent to the client
func (c *fakeClient) next(t *testing.T) common.Message {
	t.Helper()
	select {
	case raw := <-c.out:
		var msg common.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("Client received invalid json %q: %v", raw, err)
		}
		return msg
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for a client message")
	}
	return common.Message{}
}

// expectSilence fails if the client receives a message within d
func (c *fakeClient) expectSilence(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case raw := <-c.out:
		t.Fatalf("Unexpected client message %q", raw)
	case <-time.After(d):
	}
}

// waitClosed waits until the session closed the client and returns the reason
func (c *fakeClient) waitClosed(t *testing.T) transport.CloseReason {
	t.Helper()
	select {
	case <-c.closed:
		return c.reason
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for the client to be closed")
	}
	return 0
}

// --------------------------------------------------------------------------
// Fake pricer
// --------------------------------------------------------------------------

// fakePricer is a loopback TCP listener standing in for the pricing daemon
type fakePricer struct {
	listener net.Listener
	conns    chan *net.TCPConn
}

func newFakePricer(t *testing.T) *fakePricer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	p := &fakePricer{listener: l, conns: make(chan *net.TCPConn, 4)}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			p.conns <- conn.(*net.TCPConn)
		}
	}()

	t.Cleanup(func() { _ = l.Close() })
	return p
}

// config returns a backend configuration pointing at the fake pricer
func (p *fakePricer) config() common.BackendConfig {
	cfg := common.DefaultServerConfig().Backend
	addr := p.listener.Addr().(*net.TCPAddr)
	cfg.Host = "127.0.0.1"
	cfg.Port = addr.Port
	return cfg
}

// accept waits for the session to connect
func (p *fakePricer) accept(t *testing.T) *net.TCPConn {
	t.Helper()
	select {
	case conn := <-p.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for the proxy to connect")
	}
	return nil
}

// readFrame reads exactly n bytes from the proxy
func readFrame(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(testTimeout))
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("Failed to read %d byte frame: %v", n, err)
	}
	return buf
}

// unusedPort returns a loopback port nobody listens on
func unusedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port
}

// requestJSON builds a client request
func requestJSON(optionType string, steps int) string {
	if steps > 0 {
		return fmt.Sprintf(`{"spot":100,"strike":95,"rate":0.01,"volatility":0.2,"maturity":0.5,"type":%q,"steps":%d}`, optionType, steps)
	}
	return fmt.Sprintf(`{"spot":100,"strike":95,"rate":0.01,"volatility":0.2,"maturity":0.5,"type":%q}`, optionType)
}
