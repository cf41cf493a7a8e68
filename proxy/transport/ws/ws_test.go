package ws

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/gorilla/websocket"
	"io"
	"net/http"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

// startTransport listens on a random loopback port with the given handler
func startTransport(t *testing.T, handler transport.ClientHandleFunc, maxMessage int64) transport.IClientServerTransport {
	t.Helper()

	config := common.DefaultServerConfig()
	config.ListenHost = "127.0.0.1"
	config.ListenPort = 0
	config.Path = "/ws"
	config.MaxMessageSize = maxMessage

	tr := NewWSServerTransport()
	tr.RegisterHandler(handler)
	tr.HandleHTTP("/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}))

	listenErr := make(chan error, 1)
	go func() { listenErr <- tr.Listen(config) }()

	deadline := time.Now().Add(testTimeout)
	for tr.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatalf("Transport did not start listening")
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		if err := tr.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
		if err := <-listenErr; err != nil {
			t.Errorf("Listen returned an error: %v", err)
		}
	})
	return tr
}

func dial(t *testing.T, tr transport.IClientServerTransport) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", tr.Addr()), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestEchoAndClientClose(t *testing.T) {
	readErr := make(chan error, 1)

	tr := startTransport(t, func(conn transport.IClientConn) {
		for {
			msg, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			if err := conn.WriteMessage(msg); err != nil {
				readErr <- err
				return
			}
		}
	}, 1024)

	client := dial(t, tr)

	for _, msg := range []string{"hello", `{"spot":1}`} {
		if err := client.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
		_ = client.SetReadDeadline(time.Now().Add(testTimeout))
		typ, got, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read: %v", err)
		}
		if typ != websocket.TextMessage || string(got) != msg {
			t.Fatalf("Expected text message %q, got %d %q", msg, typ, got)
		}
	}

	// A close frame is reported as an orderly close
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	if err := client.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		t.Fatalf("Failed to send close frame: %v", err)
	}

	select {
	case err := <-readErr:
		if !errors.Is(err, transport.ErrClientClosed) {
			t.Fatalf("Expected ErrClientClosed, got %v", err)
		}
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for the handler")
	}
}

func TestCloseCodes(t *testing.T) {
	tests := []struct {
		reason transport.CloseReason
		code   int
	}{
		{transport.CloseNormal, websocket.CloseNormalClosure},
		{transport.CloseShutdown, websocket.CloseGoingAway},
		{transport.CloseBackendError, websocket.CloseInternalServerErr},
		{transport.CloseBackendUnavailable, websocket.CloseTryAgainLater},
	}

	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			tr := startTransport(t, func(conn transport.IClientConn) {
				_ = conn.Close(tt.reason)
				// A second close has no effect
				_ = conn.Close(transport.CloseNormal)
			}, 0)

			client := dial(t, tr)
			_ = client.SetReadDeadline(time.Now().Add(testTimeout))
			_, _, err := client.ReadMessage()

			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				t.Fatalf("Expected close error, got %v", err)
			}
			if closeErr.Code != tt.code || closeErr.Text != tt.reason.String() {
				t.Fatalf("Expected %d %q, got %d %q", tt.code, tt.reason.String(), closeErr.Code, closeErr.Text)
			}
		})
	}
}

func TestReadLimit(t *testing.T) {
	readErr := make(chan error, 1)
	tr := startTransport(t, func(conn transport.IClientConn) {
		_, err := conn.ReadMessage()
		readErr <- err
	}, 16)

	client := dial(t, tr)
	if err := client.WriteMessage(websocket.TextMessage, make([]byte, 64)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	select {
	case err := <-readErr:
		if err == nil {
			t.Fatalf("Expected oversized message to be rejected")
		}
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for the handler")
	}
}

func TestHandleHTTP(t *testing.T) {
	tr := startTransport(t, func(conn transport.IClientConn) {}, 0)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", tr.Addr()))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Fatalf("Expected pong, got %q", body)
	}
}

func TestListenWithoutHandler(t *testing.T) {
	tr := NewWSServerTransport()
	if err := tr.Listen(common.DefaultServerConfig()); err == nil {
		t.Fatalf("Expected an error without a registered handler")
	}
	if tr.Addr() != nil {
		t.Fatalf("Expected no address")
	}
}
