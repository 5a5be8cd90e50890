package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultURL is the host endpoint.
	DefaultURL = "ws://127.0.0.1:9001"

	// DefaultGreeting is the message of the hello command.
	DefaultGreeting = "Hello from pioneer!"

	// DefaultReconnectDelay is the fixed wait between connection attempts.
	// There is no backoff and no jitter.
	DefaultReconnectDelay = 5 * time.Second

	// DefaultRequestTimeout bounds Request when ctx has no deadline.
	DefaultRequestTimeout = 10 * time.Second

	defaultHandshakeTimeout = 5 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

var (
	// ErrNotConnected is reported when a command is sent with no open
	// connection.
	ErrNotConnected = errors.New("relay: not connected")

	// ErrRunning is returned by Run if the relay is already running.
	ErrRunning = errors.New("relay: already running")
)

type config struct {
	url              string
	greeting         string
	reconnectDelay   time.Duration
	requestTimeout   time.Duration
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	log              Logger
	onConnectError   func(error)
	onConnected      func()
}

// Option configures a Relay.
type Option func(*config)

// WithURL sets the host WebSocket URL.
func WithURL(url string) Option {
	return func(c *config) {
		c.url = url
	}
}

// WithGreeting sets the message of the hello command sent on connect.
func WithGreeting(msg string) Option {
	return func(c *config) {
		c.greeting = msg
	}
}

// WithReconnectDelay sets the fixed delay between connection attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *config) {
		c.reconnectDelay = d
	}
}

// WithRequestTimeout sets the default Request timeout. Zero disables it;
// Request then waits until its context is done.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = d
	}
}

// WithHandshakeTimeout sets the WebSocket handshake timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.handshakeTimeout = d
	}
}

// WithWriteTimeout bounds each write to the connection.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		c.writeTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithOnConnectError registers a callback for failed connection attempts.
func WithOnConnectError(fn func(error)) Option {
	return func(c *config) {
		c.onConnectError = fn
	}
}

// WithOnConnected registers a callback invoked after each successful
// connect, once the greeting has been sent.
func WithOnConnected(fn func()) Option {
	return func(c *config) {
		c.onConnected = fn
	}
}

// Relay owns the connection to the host and the local event bus.
type Relay struct {
	cfg     config
	mux     *ServeMux
	pending *pendingSet
	running atomic.Bool
	stats   counters

	mu    sync.Mutex // guards conn and state
	conn  *websocket.Conn
	state State

	writeMu sync.Mutex
}

// New creates a Relay. The relay does nothing until Run is called.
func New(opts ...Option) *Relay {
	cfg := config{
		url:              DefaultURL,
		greeting:         DefaultGreeting,
		reconnectDelay:   DefaultReconnectDelay,
		requestTimeout:   DefaultRequestTimeout,
		handshakeTimeout: defaultHandshakeTimeout,
		writeTimeout:     defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = DefaultLogger()
	}
	return &Relay{
		cfg:     cfg,
		mux:     NewServeMux(cfg.log),
		pending: newPendingSet(),
		state:   StateDisconnected,
	}
}

// URL returns the host endpoint.
func (r *Relay) URL() string {
	return r.cfg.url
}

// Subscribe registers h for future events named name. Past events are not
// replayed and there is no way to unsubscribe.
func (r *Relay) Subscribe(name string, h Handler) {
	r.mux.Handle(name, h)
}

// SubscribeFunc registers fn for future events named name.
func (r *Relay) SubscribeFunc(name string, fn func(*Event)) {
	r.mux.HandleFunc(name, fn)
}

// Observe registers fn for every dispatched event.
func (r *Relay) Observe(fn func(*Event)) {
	r.mux.Observe(HandlerFunc(fn))
}

// State returns the current connection state.
func (r *Relay) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Relay) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStateLocked(s)
}

func (r *Relay) setStateLocked(s State) {
	if r.state == s {
		return
	}
	if !validTransition(r.state, s) {
		r.cfg.log.WarnPrintf("unexpected state transition %s -> %s", r.state, s)
	}
	r.cfg.log.DebugPrintf("state %s -> %s", r.state, s)
	r.state = s
}

// Run connects to the host and keeps the connection alive until ctx is
// cancelled. When a connection fails to open, or closes for any reason,
// Run waits the reconnect delay and dials again, indefinitely. Attempts
// never overlap. Run always returns ctx.Err(), or ErrRunning if another Run
// is active.
func (r *Relay) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer r.running.Store(false)
	defer r.setState(StateStopped)

	timer := time.NewTimer(r.cfg.reconnectDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		conn, err := r.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.cfg.log.WarnPrintf("connect %s: %v; retrying in %v", r.cfg.url, err, r.cfg.reconnectDelay)
			if r.cfg.onConnectError != nil {
				r.cfg.onConnectError(err)
			}
		} else {
			r.serve(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.cfg.log.InfoPrintf("connection closed; reconnecting in %v", r.cfg.reconnectDelay)
		}

		timer.Reset(r.cfg.reconnectDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		r.stats.reconnects.Add(1)
	}
}

// connect dials the host once. On success the connection becomes current
// and the greeting is sent; no event is emitted.
func (r *Relay) connect(ctx context.Context) (*websocket.Conn, error) {
	r.setState(StateConnecting)

	dialer := websocket.Dialer{
		HandshakeTimeout: r.cfg.handshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, r.cfg.url, nil)
	if err != nil {
		r.setState(StateDisconnected)
		if resp != nil {
			return nil, fmt.Errorf("relay: dial %s: %w (status %d)", r.cfg.url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("relay: dial %s: %w", r.cfg.url, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.setStateLocked(StateConnected)
	r.mu.Unlock()

	r.cfg.log.InfoPrintf("connected to %s", r.cfg.url)
	r.SendCommand(CommandHello, map[string]any{"message": r.cfg.greeting})
	if r.cfg.onConnected != nil {
		r.cfg.onConnected()
	}
	return conn, nil
}

// serve reads from conn until it fails or ctx is cancelled.
func (r *Relay) serve(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			r.writeMu.Unlock()
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			r.detach(conn, err, ctx.Err() != nil)
			return
		}
		r.handleMessage(msg)
	}
}

// detach forgets conn after a read error. Shutdown errors are not logged.
func (r *Relay) detach(conn *websocket.Conn, err error, stopping bool) {
	r.mu.Lock()
	if r.conn == conn {
		r.conn = nil
		r.setStateLocked(StateDisconnected)
	}
	r.mu.Unlock()
	conn.Close()

	if stopping {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		r.cfg.log.InfoPrintf("host closed connection: %v", err)
		return
	}
	r.cfg.log.WarnPrintf("read: %v", err)
}

func (r *Relay) handleMessage(msg []byte) {
	r.stats.received.Add(1)
	r.cfg.log.DebugPrintf("received %d bytes: %s", len(msg), truncate(msg, 1000))

	ev, err := ParseEvent(msg)
	if err != nil {
		r.stats.dropped.Add(1)
		r.cfg.log.InfoPrintf("dropped message: %v: %s", err, truncate(msg, 200))
		return
	}
	if r.pending.resolve(ev) {
		return
	}
	r.stats.dispatched.Add(1)
	r.mux.Dispatch(ev)
}

// Send fires cmd at the host. It never fails: encode errors, a missing
// connection, and write errors are logged and counted.
func (r *Relay) Send(cmd Command) {
	if err := r.write(cmd); err != nil {
		r.stats.sendFailures.Add(1)
		r.cfg.log.WarnPrintf("send %s: %v", cmd.Type, err)
		return
	}
	r.stats.sent.Add(1)
}

// SendCommand is shorthand for Send(NewCommand(name, args)).
func (r *Relay) SendCommand(name string, args any) {
	r.Send(NewCommand(name, args))
}

// Request sends cmd tagged with a fresh request_id and waits for the reply.
// Without a deadline on ctx the configured request timeout applies. On
// timeout the error wraps ErrRequestTimeout.
func (r *Relay) Request(ctx context.Context, cmd Command) (*Event, error) {
	if _, ok := ctx.Deadline(); !ok && r.cfg.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.requestTimeout)
		defer cancel()
	}

	cmd.RequestID = newRequestID()
	req := r.pending.add(cmd.RequestID, cmd.Type)
	defer r.pending.remove(req)

	if err := r.write(cmd); err != nil {
		r.stats.sendFailures.Add(1)
		return nil, fmt.Errorf("relay: request %s: %w", cmd.Type, err)
	}
	r.stats.sent.Add(1)

	select {
	case ev := <-req.reply:
		return ev, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.cfg.log.WarnPrintf("request %s (%s): no reply", cmd.Type, cmd.RequestID)
			return nil, fmt.Errorf("%w: %s", ErrRequestTimeout, cmd.Type)
		}
		return nil, ctx.Err()
	}
}

func (r *Relay) write(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	r.cfg.log.DebugPrintf("sending %s", truncate(data, 500))

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if r.cfg.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(r.cfg.writeTimeout))
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Stats returns a snapshot of the relay counters.
func (r *Relay) Stats() Stats {
	return r.stats.snapshot()
}
