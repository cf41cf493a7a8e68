package ws

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/gorilla/websocket"
	"sync"
	"time"
)

// closeGracePeriod bounds the time spent sending the close frame
const closeGracePeriod = time.Second

// clientConn implements transport.IClientConn on top of a websocket connection
type clientConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex // websocket connections allow one concurrent writer
	closeOnce sync.Once
	closeErr  error
}

func newClientConn(conn *websocket.Conn) *clientConn {
	return &clientConn{conn: conn}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConn)
// --------------------------------------------------------------------------

func (c *clientConn) ReadMessage() ([]byte, error) {
	// Text and binary messages are treated the same
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, fmt.Errorf("%w: %v", transport.ErrClientClosed, err)
		}
		return nil, err
	}
	return data, nil
}

func (c *clientConn) WriteMessage(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *clientConn) Close(reason transport.CloseReason) error {
	c.closeOnce.Do(func() {
		// WriteControl may be called concurrently with WriteMessage.
		// The error is ignored, the peer may already be gone or have sent its own close frame
		msg := websocket.FormatCloseMessage(closeCode(reason), reason.String())
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))

		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *clientConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// closeCode maps a close reason to a websocket close code
func closeCode(reason transport.CloseReason) int {
	switch reason {
	case transport.CloseNormal:
		return websocket.CloseNormalClosure
	case transport.CloseBackendError:
		return websocket.CloseInternalServerErr
	case transport.CloseBackendUnavailable:
		return websocket.CloseTryAgainLater
	case transport.CloseShutdown:
		return websocket.CloseGoingAway
	default:
		return websocket.CloseInternalServerErr
	}
}
