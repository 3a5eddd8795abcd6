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

package transport_test

import (
	"encoding/binary"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/test"
	"github.com/jetsetilly/traceboy/trace"
	"github.com/jetsetilly/traceboy/trace/transport"
)

// waitFor polls the condition until it is true or until the timeout expires
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// an address that nothing is listening on
func unusedAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	test.DemandSuccess(t, err)
	addr := l.Addr().String()
	test.DemandSuccess(t, l.Close())
	return addr
}

func TestAddress(t *testing.T) {
	c, err := transport.NewClient("localhost:1989")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Address(), "tcp://localhost:1989")

	c, err = transport.NewClient(transport.DefaultAddress)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Address(), transport.DefaultAddress)

	c, err = transport.NewClient("ws://localhost:1990/trace")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c.Address(), "ws://localhost:1990/trace")

	for _, a := range []string{"", "udp://localhost:1989", "tcp://localhost", "tcp://"} {
		_, err = transport.NewClient(a)
		test.ExpectFailure(t, err, a)
		test.ExpectSuccess(t, curated.Is(err, transport.AddressError), a)
	}
}

func TestCloseBeforeUse(t *testing.T) {
	c, err := transport.NewClient(unusedAddress(t))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, c.Close())
	test.ExpectEquality(t, c.TrySend([]byte{0x01}), trace.Dropped)
}

func TestTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer l.Close()

	received := make(chan []byte, 10)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			d, err := transport.ReadFrame(conn)
			if err != nil {
				return
			}
			received <- d
		}
	}()

	c, err := transport.NewClient(l.Addr().String())
	test.DemandSuccess(t, err)
	defer c.Close()

	c.Prepare()
	waitFor(t, c.Connected)

	for i := 0; i < 3; i++ {
		test.ExpectEquality(t, c.TrySend([]byte{byte(i), 0xaa}), trace.Sent, i)
	}

	for i := 0; i < 3; i++ {
		select {
		case d := <-received:
			test.DemandEquality(t, len(d), 2)
			test.ExpectEquality(t, d[0], byte(i))
			test.ExpectEquality(t, d[1], 0xaa)
		case <-time.After(5 * time.Second):
			t.Fatalf("record %d not received", i)
		}
	}
}

func TestWebsocket(t *testing.T) {
	received := make(chan []byte, 10)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			typ, d, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if typ == websocket.BinaryMessage {
				received <- d
			}
		}
	}))
	defer srv.Close()

	c, err := transport.NewClient("ws://" + strings.TrimPrefix(srv.URL, "http://") + "/trace")
	test.DemandSuccess(t, err)
	defer c.Close()

	c.Prepare()
	waitFor(t, c.Connected)

	test.ExpectEquality(t, c.TrySend([]byte("record")), trace.Sent)

	select {
	case d := <-received:
		test.ExpectEquality(t, string(d), "record")
	case <-time.After(5 * time.Second):
		t.Fatalf("record not received")
	}
}

func TestReconnect(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer l.Close()

	// the first connection is closed immediately
	var accepted atomic.Int32
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			if accepted.Add(1) == 1 {
				conn.Close()
				continue
			}
			go func(conn net.Conn) {
				defer conn.Close()
				_, _ = io.Copy(io.Discard, conn)
			}(conn)
		}
	}()

	c, err := transport.NewClient(l.Addr().String(), transport.WithReconnect(10*time.Millisecond))
	test.DemandSuccess(t, err)
	defer c.Close()

	// keep sending until the client notices the lost connection and
	// reconnects
	waitFor(t, func() bool {
		c.TrySend([]byte{0x00})
		return accepted.Load() >= 2 && c.Connected()
	})
}

// the sink never accepts a connection. every window is dropped and the frame
// loop is not held up
func TestUnreachable(t *testing.T) {
	const capacity = 200
	const windows = 5

	c, err := transport.NewClient(unusedAddress(t), transport.WithDialTimeout(100*time.Millisecond))
	test.DemandSuccess(t, err)
	defer c.Close()

	e := &counter{}
	sess, err := trace.NewSession(e, c, trace.WithCapacity(capacity))
	test.DemandSuccess(t, err)

	var slowest time.Duration
	for i := 0; i < capacity+(capacity-1)*(windows-1); i++ {
		start := time.Now()
		sess.OnFrame(0x01)
		if d := time.Since(start); d > slowest {
			slowest = d
		}
		e.n++
	}

	st := sess.Stats()
	test.ExpectEquality(t, st.Completed, windows)
	test.ExpectEquality(t, st.Dropped, windows)
	test.ExpectEquality(t, st.Sent, 0)
	test.ExpectSuccess(t, slowest < 100*time.Millisecond, slowest)
}

type counter struct {
	n uint32
}

func (c *counter) SnapshotState() ([]byte, error) {
	return binary.LittleEndian.AppendUint32(nil, c.n), nil
}

func (c *counter) ContentFingerprint() uint32 {
	return 0
}

func TestQueueFull(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer l.Close()

	// the sink accepts the connection but never reads from it
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	c, err := transport.NewClient(l.Addr().String(), transport.WithQueue(1))
	test.DemandSuccess(t, err)
	defer c.Close()

	c.Prepare()
	waitFor(t, c.Connected)

	select {
	case conn := <-accepted:
		defer conn.Close()
	case <-time.After(5 * time.Second):
		t.Fatalf("sink did not accept connection")
	}

	record := make([]byte, 4*1024*1024)

	var sent, dropped int
	var slowest time.Duration
	for i := 0; i < 50; i++ {
		start := time.Now()
		switch c.TrySend(record) {
		case trace.Sent:
			sent++
		case trace.Dropped:
			dropped++
		}
		if d := time.Since(start); d > slowest {
			slowest = d
		}
	}

	test.ExpectSuccess(t, sent > 0, sent)
	test.ExpectSuccess(t, dropped > 0, dropped)
	test.ExpectEquality(t, sent+dropped, 50)
	test.ExpectSuccess(t, slowest < 100*time.Millisecond, slowest)

	// a full queue is not a disconnection
	test.ExpectSuccess(t, c.Connected())
}

func TestCloseFromAnotherGoroutine(t *testing.T) {
	for i := 0; i < 20; i++ {
		c, err := transport.NewClient(unusedAddress(t), transport.WithDialTimeout(50*time.Millisecond))
		test.DemandSuccess(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.TrySend([]byte{0x01})
			}
		}()

		test.ExpectSuccess(t, c.Close(), i)
		wg.Wait()

		test.ExpectEquality(t, c.TrySend([]byte{0x01}), trace.Dropped, i)
	}
}
