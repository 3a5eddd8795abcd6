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

package collector_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/jetsetilly/traceboy/collector"
	"github.com/jetsetilly/traceboy/machine"
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

// start a server on the loopback interface. the returned function stops the
// server and waits for it to finish
func startServer(t *testing.T, store *collector.Store, verifier *collector.Verifier) (*collector.Server, func()) {
	t.Helper()

	srv, err := collector.NewServer(collector.Config{
		Listen:    "127.0.0.1:0",
		Websocket: "127.0.0.1:0",
		Verifier:  verifier,
	}, store)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- srv.Serve(ctx)
	}()

	return srv, func() {
		cancel()
		select {
		case err := <-done:
			test.ExpectSuccess(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("server did not stop")
		}
	}
}

// play the demo program, sending every window to the address
func play(t *testing.T, address string, capacity int, frames int) trace.Stats {
	t.Helper()

	vm, err := machine.NewMachine(demoLoader(t))
	test.DemandSuccess(t, err)

	client, err := transport.NewClient(address)
	test.DemandSuccess(t, err)
	defer client.Close()

	// the first window is only sent if the connection is ready in time
	client.Prepare()
	waitFor(t, client.Connected)

	sess, err := trace.NewSession(vm, client, trace.WithCapacity(capacity))
	test.DemandSuccess(t, err)

	for i := 0; i < frames; i++ {
		keys := uint8(i) & 0x0f
		sess.OnFrame(trace.InputSample(keys))
		vm.RunFrame(keys)
	}

	return sess.Stats()
}

func TestNewServer(t *testing.T) {
	_, err := collector.NewServer(collector.Config{}, nil)
	test.ExpectFailure(t, err)

	store, err := collector.OpenStore("")
	test.DemandSuccess(t, err)
	defer store.Close()

	srv, err := collector.NewServer(collector.Config{Listen: "127.0.0.1:0"}, store)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, srv.Addr(), nil)
	test.ExpectEquality(t, srv.WebsocketAddr(), nil)
}

func testEndToEnd(t *testing.T, websocket bool) {
	store, err := collector.OpenStore("")
	test.DemandSuccess(t, err)
	defer store.Close()

	verifier, err := collector.NewVerifier(demoLoader(t))
	test.DemandSuccess(t, err)

	srv, stop := startServer(t, store, verifier)

	address := srv.Addr().String()
	if websocket {
		address = "ws://" + srv.WebsocketAddr().String() + collector.WebsocketPath
	}

	// four windows
	stats := play(t, address, 20, 20+19*3)
	test.ExpectEquality(t, stats.Completed, 4)
	test.ExpectEquality(t, stats.Sent, 4)

	waitFor(t, func() bool {
		return srv.Stats().Received == 4
	})
	stop()

	st := srv.Stats()
	test.ExpectEquality(t, st.Connections, int64(1))
	test.ExpectEquality(t, st.Rejected, int64(0))
	test.ExpectEquality(t, st.Verified, int64(4))
	test.ExpectEquality(t, st.Mismatched, int64(0))

	chains, err := store.Chains()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(chains), 1)
	test.ExpectEquality(t, chains[0].Records, 4)
	test.ExpectEquality(t, chains[0].Links, 3)
	test.ExpectEquality(t, chains[0].Breaks, 0)
	test.ExpectEquality(t, chains[0].Verified, 4)

	recs, err := store.Records(chains[0].Connection)
	test.DemandSuccess(t, err)
	for i, r := range recs {
		test.ExpectEquality(t, r.Sequence, i)
		test.ExpectEquality(t, r.Frames, 20)
		test.ExpectEquality(t, r.Verification, collector.Verified)
		test.ExpectEquality(t, r.ContentFingerprint, verifier.Fingerprint())
	}
}

func TestTCP(t *testing.T) {
	testEndToEnd(t, false)
}

func TestWebsocket(t *testing.T) {
	testEndToEnd(t, true)
}

func TestReject(t *testing.T) {
	store, err := collector.OpenStore("")
	test.DemandSuccess(t, err)
	defer store.Close()

	srv, stop := startServer(t, store, nil)

	conn, err := net.Dial("tcp", srv.Addr().String())
	test.DemandSuccess(t, err)

	// a frame that is not a valid record followed by a valid one
	test.DemandSuccess(t, transport.WriteFrame(conn, []byte{0xff, 0xff}))

	w := &trace.Window{
		ContentFingerprint:  1,
		StartState:          []byte{0x01},
		Inputs:              []trace.InputSample{0x00, 0x01},
		EndStateFingerprint: 2,
	}
	rec, err := trace.Encode(w)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, transport.WriteFrame(conn, rec))

	waitFor(t, func() bool {
		st := srv.Stats()
		return st.Rejected == 1 && st.Received == 1
	})
	test.ExpectSuccess(t, conn.Close())
	stop()

	n, err := store.Count()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, int64(1))

	chains, err := store.Chains()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(chains), 1)

	recs, err := store.Records(chains[0].Connection)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(recs), 1)
	test.ExpectEquality(t, recs[0].Verification, collector.Unchecked)
	test.ExpectEquality(t, recs[0].Frames, 2)
	test.ExpectEquality(t, recs[0].StartStateFingerprint, trace.Checksum([]byte{0x01}))
}

func TestStopWithOpenConnection(t *testing.T) {
	store, err := collector.OpenStore("")
	test.DemandSuccess(t, err)
	defer store.Close()

	srv, stop := startServer(t, store, nil)

	conn, err := net.Dial("tcp", srv.Addr().String())
	test.DemandSuccess(t, err)
	defer conn.Close()

	waitFor(t, func() bool {
		return srv.Stats().Connections == 1
	})

	// the server closes the connection on shutdown
	stop()
}
