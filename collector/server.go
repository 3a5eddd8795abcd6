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

package collector

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/logger"
	"github.com/jetsetilly/traceboy/trace"
	"github.com/jetsetilly/traceboy/trace/transport"
)

// Sentinal error patterns.
const (
	ServerError = "collector: server: %v"
)

// WebsocketPath is the path of the websocket endpoint.
const WebsocketPath = "/trace"

const instrumentationName = "github.com/jetsetilly/traceboy/collector"

// Config for a new server.
type Config struct {
	// address for the TCP listener. for example "localhost:1989"
	Listen string

	// address for the websocket listener. empty string if no websocket
	// endpoint is required
	Websocket string

	// verifier for incoming records. can be nil
	Verifier *Verifier
}

// Stats is a summary of the records received by the server.
type Stats struct {
	Connections int64
	Received    int64
	Rejected    int64
	Verified    int64
	Mismatched  int64
}

// a decoded record on its way to the store
type incoming struct {
	connection string
	sequence   int
	received   time.Time
	window     *trace.Window
}

// Server accepts connections from transport clients.
type Server struct {
	cfg   Config
	store *Store

	tcp  net.Listener
	ws   net.Listener
	http *http.Server

	upgrader websocket.Upgrader

	// all decoded records are passed to a single goroutine for verification
	// and storage
	records chan incoming

	// open connections. closed on shutdown
	connsMu sync.Mutex
	conns   map[io.Closer]bool
	connsWg sync.WaitGroup
	closing bool

	connections atomic.Int64
	received    atomic.Int64
	rejected    atomic.Int64
	verified    atomic.Int64
	mismatched  atomic.Int64

	outcomes metric.Int64Counter
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer(cfg Config, store *Store) (*Server, error) {
	if store == nil {
		return nil, curated.Errorf(ServerError, "no store")
	}

	srv := &Server{
		cfg:     cfg,
		store:   store,
		records: make(chan incoming, 64),
		conns:   make(map[io.Closer]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	var err error
	srv.outcomes, err = otel.Meter(instrumentationName).Int64Counter("traceboy.collector.records",
		metric.WithDescription("Records received by outcome"))
	if err != nil {
		return nil, curated.Errorf(ServerError, err)
	}

	return srv, nil
}

// Listen opens the listeners. If Listen() is not called then Serve() will call
// it.
func (srv *Server) Listen() error {
	if srv.tcp != nil {
		return nil
	}

	var err error

	srv.tcp, err = net.Listen("tcp", srv.cfg.Listen)
	if err != nil {
		return curated.Errorf(ServerError, err)
	}

	if srv.cfg.Websocket != "" {
		srv.ws, err = net.Listen("tcp", srv.cfg.Websocket)
		if err != nil {
			_ = srv.tcp.Close()
			return curated.Errorf(ServerError, err)
		}

		mux := http.NewServeMux()
		mux.HandleFunc(WebsocketPath, srv.handleWebsocket)
		srv.http = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return nil
}

// Addr returns the address of the TCP listener. Nil if Listen() has not been
// called.
func (srv *Server) Addr() net.Addr {
	if srv.tcp == nil {
		return nil
	}
	return srv.tcp.Addr()
}

// WebsocketAddr returns the address of the websocket listener. Nil if there is
// no websocket listener.
func (srv *Server) WebsocketAddr() net.Addr {
	if srv.ws == nil {
		return nil
	}
	return srv.ws.Addr()
}

// Stats returns a summary of the records received so far.
func (srv *Server) Stats() Stats {
	return Stats{
		Connections: srv.connections.Load(),
		Received:    srv.received.Load(),
		Rejected:    srv.rejected.Load(),
		Verified:    srv.verified.Load(),
		Mismatched:  srv.mismatched.Load(),
	}
}

// Serve accepts connections until the context is cancelled. Records that have
// been received are stored before Serve() returns.
func (srv *Server) Serve(ctx context.Context) error {
	if err := srv.Listen(); err != nil {
		return err
	}

	logger.Logf(logger.Allow, "collector", "listening on %s", srv.tcp.Addr())

	storeDone := make(chan bool)
	go func() {
		defer close(storeDone)
		for in := range srv.records {
			srv.persist(in)
		}
	}()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		srv.acceptTCP()
	}()

	if srv.http != nil {
		logger.Logf(logger.Allow, "collector", "websocket on %s%s", srv.ws.Addr(), WebsocketPath)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := srv.http.Serve(srv.ws)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Logf(logger.Allow, "collector", "websocket: %v", err)
			}
		}()
	}

	<-ctx.Done()

	// stop accepting and then close every open connection
	_ = srv.tcp.Close()
	if srv.http != nil {
		_ = srv.http.Close()
	}
	wg.Wait()

	srv.connsMu.Lock()
	srv.closing = true
	for c := range srv.conns {
		_ = c.Close()
	}
	srv.connsMu.Unlock()
	srv.connsWg.Wait()

	close(srv.records)
	<-storeDone

	return nil
}

// track an open connection. returns the connection ID and false if the server
// is shutting down, in which case the connection should be dropped
func (srv *Server) track(c io.Closer) (string, bool) {
	srv.connsMu.Lock()
	defer srv.connsMu.Unlock()
	if srv.closing {
		return "", false
	}
	srv.conns[c] = true
	srv.connsWg.Add(1)
	srv.connections.Add(1)
	return uuid.New().String(), true
}

func (srv *Server) untrack(c io.Closer) {
	srv.connsMu.Lock()
	defer srv.connsMu.Unlock()
	delete(srv.conns, c)
	srv.connsWg.Done()
}

func (srv *Server) acceptTCP() {
	for {
		conn, err := srv.tcp.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Logf(logger.Allow, "collector", "accept: %v", err)
			}
			return
		}

		go srv.handleTCP(conn)
	}
}

func (srv *Server) handleTCP(conn net.Conn) {
	defer conn.Close()

	id, ok := srv.track(conn)
	if !ok {
		return
	}
	defer srv.untrack(conn)

	logger.Logf(logger.Allow, "collector", "connection %s from %s", id, conn.RemoteAddr())

	var seq int
	for {
		data, err := transport.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Logf(logger.Allow, "collector", "connection %s: %v", id, err)
			}
			return
		}
		srv.receive(id, &seq, data)
	}
}

func (srv *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logf(logger.Allow, "collector", "websocket upgrade: %v", err)
		return
	}

	defer conn.Close()

	id, ok := srv.track(conn)
	if !ok {
		return
	}
	defer srv.untrack(conn)

	logger.Logf(logger.Allow, "collector", "websocket connection %s from %s", id, r.RemoteAddr)

	var seq int
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, net.ErrClosed) {
				logger.Logf(logger.Allow, "collector", "connection %s: %v", id, err)
			}
			return
		}
		if typ != websocket.BinaryMessage {
			srv.reject(id, "not a binary message")
			continue
		}
		srv.receive(id, &seq, data)
	}
}

func (srv *Server) reject(id string, reason string) {
	srv.rejected.Add(1)
	srv.outcomes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
	logger.Logf(logger.Allow, "collector", "connection %s: rejected record: %s", id, reason)
}

// receive a record from a connection. seq is the sequence counter for the
// connection
func (srv *Server) receive(id string, seq *int, data []byte) {
	w, err := trace.Decode(data)
	if err != nil {
		srv.reject(id, err.Error())
		return
	}

	srv.received.Add(1)
	srv.records <- incoming{
		connection: id,
		sequence:   *seq,
		received:   time.Now(),
		window:     w,
	}
	*seq++
}

// verify and store a record. only called from the store goroutine
func (srv *Server) persist(in incoming) {
	rec := &Record{
		ID:                    uuid.New().String(),
		Connection:            in.connection,
		Sequence:              in.sequence,
		Received:              in.received,
		ContentFingerprint:    in.window.ContentFingerprint,
		StartStateFingerprint: trace.Checksum(in.window.StartState),
		EndStateFingerprint:   in.window.EndStateFingerprint,
		StartState:            in.window.StartState,
		Inputs:                make([]byte, len(in.window.Inputs)),
		Frames:                len(in.window.Inputs),
		Verification:          Unchecked,
	}
	for i, s := range in.window.Inputs {
		rec.Inputs[i] = byte(s)
	}

	if srv.cfg.Verifier != nil {
		rec.Verification, rec.Detail = srv.cfg.Verifier.Verify(in.window)
		switch rec.Verification {
		case Verified:
			srv.verified.Add(1)
		case Mismatch:
			srv.mismatched.Add(1)
			logger.Logf(logger.Allow, "collector", "connection %s: record %d: %s", in.connection, in.sequence, rec.Detail)
		}
	}

	srv.outcomes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", string(rec.Verification))))

	if err := srv.store.Add(rec); err != nil {
		logger.Logf(logger.Allow, "collector", "%v", err)
	}
}
