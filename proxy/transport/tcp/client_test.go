package tcp

import (
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"io"
	"net"
	"testing"
	"time"
)

func TestConnectAndHalfClose(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer l.Close()

	// The peer echoes everything until the proxy half-closes, then says goodbye
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		_, _ = conn.Write(append(data, []byte(" bye")...))
	}()

	config := common.DefaultServerConfig().Backend
	config.Host = "127.0.0.1"
	config.Port = l.Addr().(*net.TCPAddr).Port
	config.DialTimeoutSecond = 1
	config.TCPKeepAliveSec = 30
	config.WriteBufferSize = 8 * 1024
	config.ReadBufferSize = 8 * 1024

	connector := NewTCPBackendConnector()
	if connector.GetName() != "tcp" {
		t.Fatalf("Unexpected name %q", connector.GetName())
	}

	conn, err := connector.Connect(config)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("hello")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := conn.CloseWrite(); err != nil {
		t.Fatalf("Failed to half-close: %v", err)
	}

	// Reads keep working after the half-close
	done := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(conn)
		done <- data
	}()

	select {
	case data := <-done:
		if string(data) != "hello bye" {
			t.Fatalf("Expected %q, got %q", "hello bye", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for the peer")
	}
}

func TestConnectRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	config := common.DefaultServerConfig().Backend
	config.Host = "127.0.0.1"
	config.Port = port

	if _, err := NewTCPBackendConnector().Connect(config); err == nil {
		t.Fatalf("Expected connect to fail")
	}
}
