// This file is part of Traceboy.
//
// Traceboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Traceboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Traceboy.  If not, see <https://www.gnu.org/licenses/>.

package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/logger"
	"github.com/jetsetilly/traceboy/trace"
)

// Default values for a new client.
const (
	DefaultAddress     = "tcp://localhost:1989"
	DefaultQueue       = 16
	DefaultDialTimeout = 2 * time.Second
)

// Sentinal error patterns.
const (
	AddressError = "transport: address: %v"
	MetricsError = "transport: metrics: %v"
)

const instrumentationName = "github.com/jetsetilly/traceboy/trace/transport"

// Option is used to configure a new client.
type Option func(*Client)

// WithQueue sets the number of records that can be waiting to be written.
func WithQueue(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithDialTimeout sets the timeout for a connection attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

// WithReconnect makes the client try again after a failed connection attempt
// or after losing a connection. The delay is the wait between attempts. A
// delay of zero disables reconnection, which is the default.
func WithReconnect(delay time.Duration) Option {
	return func(c *Client) {
		c.reconnect = delay
	}
}

var _ trace.Sender = (*Client)(nil)
var _ trace.Preparer = (*Client)(nil)

// Client sends trace records to a sink. It is safe to call TrySend() from one
// goroutine while the client connects and writes on another.
type Client struct {
	address string
	scheme  string
	host    string

	queueSize   int
	dialTimeout time.Duration
	reconnect   time.Duration

	// connect on first use
	once  sync.Once
	queue chan []byte
	wg    sync.WaitGroup

	// starting the writer goroutine and closing the client are exclusive
	crit sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	connected atomic.Bool
	closed    atomic.Bool

	// dial failures are logged once until the next successful connection
	dialLog logger.Latch

	sentCount    metric.Int64Counter
	droppedCount metric.Int64Counter
	attrs        metric.MeasurementOption
}

// NewClient is the preferred method of initialisation for the Client type.
// The network is not touched until Prepare() or TrySend() is called.
func NewClient(address string, opts ...Option) (*Client, error) {
	c := &Client{
		queueSize:   DefaultQueue,
		dialTimeout: DefaultDialTimeout,
	}

	if err := c.parseAddress(address); err != nil {
		return nil, err
	}

	for _, o := range opts {
		o(c)
	}

	m := otel.Meter(instrumentationName)

	var err error
	c.sentCount, err = m.Int64Counter("traceboy.transport.sent",
		metric.WithDescription("Records queued for sending"))
	if err != nil {
		return nil, curated.Errorf(MetricsError, err)
	}
	c.droppedCount, err = m.Int64Counter("traceboy.transport.dropped",
		metric.WithDescription("Records dropped because the sink was unavailable or the queue was full"))
	if err != nil {
		return nil, curated.Errorf(MetricsError, err)
	}
	c.attrs = metric.WithAttributes(attribute.String("sink", c.address))

	c.ctx, c.cancel = context.WithCancel(context.Background())

	return c, nil
}

func (c *Client) parseAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return curated.Errorf(AddressError, "empty address")
	}
	if !strings.Contains(address, "://") {
		address = "tcp://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return curated.Errorf(AddressError, err)
	}
	if u.Host == "" {
		return curated.Errorf(AddressError, fmt.Sprintf("no host in %s", address))
	}

	switch u.Scheme {
	case "tcp":
		if u.Port() == "" {
			return curated.Errorf(AddressError, fmt.Sprintf("no port in %s", address))
		}
		c.host = u.Host
	case "ws", "wss":
		c.host = u.String()
	default:
		return curated.Errorf(AddressError, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}

	c.scheme = u.Scheme
	c.address = address

	return nil
}

// Address returns the normalised address of the sink.
func (c *Client) Address() string {
	return c.address
}

// Connected returns true if the client currently has a connection to the
// sink.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Prepare starts connecting to the sink if it has not already been started.
// It returns immediately. Implements the trace.Preparer interface.
func (c *Client) Prepare() {
	c.once.Do(func() {
		c.queue = make(chan []byte, c.queueSize)

		c.crit.Lock()
		defer c.crit.Unlock()
		if c.closed.Load() {
			return
		}
		c.wg.Add(1)
		go c.run()
	})
}

// TrySend queues the record for sending. It never blocks. Implements the
// trace.Sender interface.
func (c *Client) TrySend(data []byte) trace.SendResult {
	c.Prepare()

	if c.closed.Load() || !c.connected.Load() {
		c.droppedCount.Add(context.Background(), 1, c.attrs)
		return trace.Dropped
	}

	select {
	case c.queue <- data:
		c.sentCount.Add(context.Background(), 1, c.attrs)
		return trace.Sent
	default:
		c.droppedCount.Add(context.Background(), 1, c.attrs)
		return trace.Dropped
	}
}

// Close the connection to the sink. Any records still queued are discarded.
// Once closed every call to TrySend() will return trace.Dropped. Close() can be
// called from any goroutine.
func (c *Client) Close() error {
	c.crit.Lock()
	c.closed.Store(true)
	c.crit.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

func (c *Client) dial() (link, error) {
	switch c.scheme {
	case "ws", "wss":
		return dialWebsocket(c.ctx, c.host, c.dialTimeout)
	}
	return dialTCP(c.ctx, c.host, c.dialTimeout)
}

// wait for the reconnection delay. returns false if the client has been closed
// or if reconnection is disabled
func (c *Client) wait() bool {
	if c.reconnect <= 0 {
		return false
	}
	select {
	case <-c.ctx.Done():
		return false
	case <-time.After(c.reconnect):
		return true
	}
}

// run is the only goroutine that touches the network
func (c *Client) run() {
	defer c.wg.Done()

	for {
		l, err := c.dial()
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Logf(&c.dialLog, "transport", "%s: %v", c.address, err)
			if !c.wait() {
				return
			}
			continue
		}

		logger.Logf(logger.Allow, "transport", "connected to %s", c.address)
		c.dialLog.Reopen()
		c.connected.Store(true)
		err = c.drain(l)
		c.connected.Store(false)
		_ = l.close()

		if err == nil {
			return
		}

		logger.Logf(logger.Allow, "transport", "disconnected from %s: %v", c.address, err)
		if !c.wait() {
			return
		}
	}
}

// drain the queue onto the link. returns nil if the client has been closed
func (c *Client) drain(l link) error {
	for {
		select {
		case <-c.ctx.Done():
			return nil
		case data := <-c.queue:
			if err := l.write(data); err != nil {
				return err
			}
		}
	}
}
