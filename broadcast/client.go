// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultReconnectAttempts = 5
	defaultReconnectDelay    = time.Second
	outboxSize               = 256
	maxEventBytes            = maxPayloadBytes + 4096
)

var errNotJoined = errors.New("broadcast: emit before join")

type outbound struct {
	room    string
	event   string
	payload []byte
}

// Client connects to a broadcast server over HTTP. It implements
// store.Transport: Emit queues messages that a single goroutine posts in
// order without waiting on the caller, and Join opens an event stream that
// reconnects on failure.
type Client struct {
	baseURL    string
	id         string
	httpClient *http.Client
	logger     *slog.Logger

	reconnectAttempts uint
	reconnectDelay    time.Duration

	mu       sync.Mutex
	room     string
	closed   bool
	handlers map[string][]func([]byte)

	outbox     chan outbound
	sendCtx    context.Context
	sendCancel context.CancelFunc
	senderDone chan struct{}

	streamCtx    context.Context
	streamCancel context.CancelFunc
	streamWG     sync.WaitGroup

	readyOnce sync.Once
	ready     chan struct{}
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func WithClientID(id string) ClientOption {
	return func(c *Client) { c.id = id }
}

// WithReconnect sets how many times the stream is dialled after a
// disconnect and the fixed delay between attempts.
func WithReconnect(attempts uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.reconnectAttempts = attempts
		c.reconnectDelay = delay
	}
}

// NewClient creates a client for the server at baseURL and starts its
// sender goroutine. Call Close to release it.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		id:                NewClientID(),
		httpClient:        &http.Client{},
		logger:            slog.Default(),
		reconnectAttempts: defaultReconnectAttempts,
		reconnectDelay:    defaultReconnectDelay,
		handlers:          make(map[string][]func([]byte)),
		outbox:            make(chan outbound, outboxSize),
		senderDone:        make(chan struct{}),
		ready:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.sendCtx, c.sendCancel = context.WithCancel(context.Background())
	c.streamCtx, c.streamCancel = context.WithCancel(context.Background())

	go c.sendLoop()
	return c
}

// ID returns the identifier this client sends with every request.
func (c *Client) ID() string { return c.id }

// Ready is closed once the event stream has connected for the first time.
func (c *Client) Ready() <-chan struct{} { return c.ready }

// Join sets the room for emits and starts streaming its events. It returns
// immediately; connection failures are retried in the background.
func (c *Client) Join(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.room != "" {
		return fmt.Errorf("broadcast: already joined %q", c.room)
	}
	c.room = room

	c.streamWG.Add(1)
	go c.streamLoop(room)
	return nil
}

// On registers handler for event. Handlers run on the stream goroutine.
func (c *Client) On(event string, handler func(payload []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Emit queues payload for delivery to the room. It does not wait for the
// server; delivery failures are logged by the sender goroutine.
func (c *Client) Emit(event string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.room == "" {
		return errNotJoined
	}

	select {
	case c.outbox <- outbound{room: c.room, event: event, payload: payload}:
		return nil
	default:
		return fmt.Errorf("broadcast: outbox full, dropping %s", event)
	}
}

// Close stops accepting emits, waits until queued emits are sent or ctx is
// done, then disconnects the stream.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.outbox)
	c.mu.Unlock()

	var err error
	select {
	case <-c.senderDone:
	case <-ctx.Done():
		err = fmt.Errorf("failed to flush outbox: %w", ctx.Err())
		c.sendCancel()
		<-c.senderDone
	}
	c.sendCancel()

	c.streamCancel()
	c.streamWG.Wait()
	return err
}

func (c *Client) sendLoop() {
	defer close(c.senderDone)
	for out := range c.outbox {
		if err := c.post(c.sendCtx, out); err != nil {
			c.logger.Warn("failed to emit event", "room", out.room, "event", out.event, "error", err)
		}
	}
}

func (c *Client) post(ctx context.Context, out outbound) error {
	endpoint := fmt.Sprintf("%s/rooms/%s/events/%s", c.baseURL, url.PathEscape(out.room), url.PathEscape(out.event))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(out.payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ClientIDHeader, c.id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// streamLoop keeps the room stream open. Each disconnect gets a fresh
// budget of reconnectAttempts dials spaced reconnectDelay apart; when the
// budget runs out the client stops listening.
func (c *Client) streamLoop(room string) {
	defer c.streamWG.Done()

	for {
		resp, err := backoff.Retry(c.streamCtx, func() (*http.Response, error) {
			return c.dial(room)
		},
			backoff.WithBackOff(backoff.NewConstantBackOff(c.reconnectDelay)),
			backoff.WithMaxTries(c.reconnectAttempts),
		)
		if c.streamCtx.Err() != nil {
			return
		}
		if err != nil {
			c.logger.Error("giving up on event stream", "room", room, "attempts", c.reconnectAttempts, "error", err)
			return
		}

		c.readyOnce.Do(func() { close(c.ready) })
		c.logger.Info("event stream connected", "room", room, "client_id", c.id)

		err = c.consume(resp.Body)
		resp.Body.Close()
		if c.streamCtx.Err() != nil {
			return
		}
		c.logger.Warn("event stream disconnected", "room", room, "error", err)
	}
}

func (c *Client) dial(room string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/rooms/%s/stream", c.baseURL, url.PathEscape(room))
	req, err := http.NewRequestWithContext(c.streamCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set(ClientIDHeader, c.id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return resp, nil
}

// consume reads Server-Sent Events until the stream ends.
func (c *Client) consume(body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxEventBytes)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch([]byte(data.String()))
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
			// comment or heartbeat
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (c *Client) dispatch(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn("dropping undecodable event", "error", err)
		return
	}

	c.mu.Lock()
	handlers := append([]func([]byte){}, c.handlers[msg.Event]...)
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg.Payload)
	}
}
