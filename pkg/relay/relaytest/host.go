// Package relaytest provides an in-process stand-in for the GUI host, for
// use in tests of code built on package relay.
package relaytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Timeout bounds every blocking helper in this package.
const Timeout = 5 * time.Second

// Host is a fake GUI host accepting WebSocket connections.
type Host struct {
	srv      *httptest.Server
	conns    chan *Conn
	accepted atomic.Int32

	mu     sync.Mutex
	open   []*Conn
	reject int
}

// NewHost starts a fake host. It is closed by t.Cleanup.
func NewHost(t testing.TB) *Host {
	t.Helper()
	h := &Host{conns: make(chan *Conn, 16)}
	upgrader := websocket.Upgrader{}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.rejecting() {
			http.Error(w, "host not ready", http.StatusServiceUnavailable)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &Conn{ws: ws, at: time.Now()}
		h.accepted.Add(1)
		h.mu.Lock()
		h.open = append(h.open, c)
		h.mu.Unlock()
		h.conns <- c
	}))
	t.Cleanup(h.Close)
	return h
}

// URL returns the ws:// endpoint of the host.
func (h *Host) URL() string {
	return "ws" + strings.TrimPrefix(h.srv.URL, "http")
}

// RejectNext makes the host refuse the next n handshakes with 503.
func (h *Host) RejectNext(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reject = n
}

func (h *Host) rejecting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reject > 0 {
		h.reject--
		return true
	}
	return false
}

// Accepted returns the number of connections accepted so far.
func (h *Host) Accepted() int {
	return int(h.accepted.Load())
}

// Accept waits for the next client connection.
func (h *Host) Accept(t testing.TB) *Conn {
	t.Helper()
	select {
	case c := <-h.conns:
		return c
	case <-time.After(Timeout):
		t.Fatalf("relaytest: no connection within %v", Timeout)
		return nil
	}
}

// Close shuts the host down, closing every accepted connection.
func (h *Host) Close() {
	h.mu.Lock()
	open := h.open
	h.open = nil
	h.mu.Unlock()
	for _, c := range open {
		c.Close()
	}
	h.srv.Close()
}

// Conn is one client connection seen from the host.
type Conn struct {
	ws *websocket.Conn
	at time.Time

	writeMu sync.Mutex
}

// AcceptedAt returns when the connection was accepted.
func (c *Conn) AcceptedAt() time.Time {
	return c.at
}

// Read returns the next command sent by the client, decoded as a JSON
// object.
func (c *Conn) Read() (map[string]any, error) {
	_ = c.ws.SetReadDeadline(time.Now().Add(Timeout))
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("relaytest: client sent non-JSON %q: %w", data, err)
	}
	return m, nil
}

// MustRead is Read for the test goroutine.
func (c *Conn) MustRead(t testing.TB) map[string]any {
	t.Helper()
	m, err := c.Read()
	if err != nil {
		t.Fatalf("relaytest: read: %v", err)
	}
	return m
}

// ReadType reads commands until one of the given type arrives.
func (c *Conn) ReadType(t testing.TB, typ string) map[string]any {
	t.Helper()
	for {
		m := c.MustRead(t)
		if m["type"] == typ {
			return m
		}
	}
}

// ExpectHello reads the greeting and returns its message.
func (c *Conn) ExpectHello(t testing.TB) string {
	t.Helper()
	m := c.MustRead(t)
	if m["type"] != "hello" {
		t.Fatalf("relaytest: first command = %v, want hello", m)
	}
	msg, _ := m["message"].(string)
	return msg
}

// Write sends v as a JSON text message.
func (c *Conn) Write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

// WriteText sends s verbatim as a text message.
func (c *Conn) WriteText(s string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(s))
}

// MustWrite is Write for the test goroutine.
func (c *Conn) MustWrite(t testing.TB, v any) {
	t.Helper()
	if err := c.Write(v); err != nil {
		t.Fatalf("relaytest: write: %v", err)
	}
}

// Close closes the connection without a close handshake.
func (c *Conn) Close() error {
	return c.ws.Close()
}
