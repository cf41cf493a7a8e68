package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/gorilla/websocket"
	"github.com/lni/dragonboat/v4/logger"
	"strings"
	"sync"
	"time"
)

var Logger = logger.GetLogger(common.LoggerClient)

// ErrProxy is wrapped by all errors the proxy reported with an error message
var ErrProxy = errors.New("proxy error")

// Request is a pricing request as it is sent to the proxy.
// Steps is omitted if zero, the pricer then uses its default.
type Request struct {
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
	Maturity   float64 `json:"maturity"`
	Type       string  `json:"type,omitempty"`
	Steps      uint32  `json:"steps,omitempty"`
}

// PricerClient is a websocket client of the pricing proxy.
// Results arrive in request order, so Price calls are serialized.
type PricerClient struct {
	conn    *websocket.Conn
	timeout time.Duration

	mu sync.Mutex
}

// Dial connects to the proxy. The endpoint may be a ws:// or wss:// url or a
// plain host:port. A timeout of 0 disables all deadlines.
func Dial(endpoint string, timeout time.Duration) (*PricerClient, error) {
	url := endpoint
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + url
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	Logger.Debugf("Connected to %s", url)
	return &PricerClient{conn: conn, timeout: timeout}, nil
}

// Price sends one request and waits for the next message of the proxy
func (c *PricerClient) Price(req Request) (*common.PriceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(req); err != nil {
		return nil, err
	}
	return c.receive()
}

// PriceBatch sends all requests before reading the results.
// It returns the results in request order and stops at the first error.
func (c *PricerClient) PriceBatch(reqs []Request) ([]*common.PriceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, req := range reqs {
		if err := c.send(req); err != nil {
			return nil, err
		}
	}

	results := make([]*common.PriceResult, 0, len(reqs))
	for range reqs {
		res, err := c.receive()
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Close sends a close frame and closes the connection
func (c *PricerClient) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (c *PricerClient) send(req Request) error {
	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if c.timeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func (c *PricerClient) receive() (*common.PriceResult, error) {
	if c.timeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	}

	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var msg common.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	// Check if the response is an error response
	if msg.MsgType == common.MsgTError {
		return nil, fmt.Errorf("%w: %s", ErrProxy, msg.Message)
	}

	if msg.MsgType != common.MsgTPriceResult || msg.Data == nil {
		return nil, fmt.Errorf("unexpected message type: %s", msg.MsgType)
	}
	return msg.Data, nil
}
