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

package trace_test

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/test"
	"github.com/jetsetilly/traceboy/trace"
)

// engine is a minimal deterministic machine. the state is a single counter
// that is mixed with every input that is applied
type engine struct {
	state     uint64
	program   uint32
	failing   bool
	snapshots int
}

func (e *engine) SnapshotState() ([]byte, error) {
	e.snapshots++
	if e.failing {
		return nil, errors.New("state unavailable")
	}
	return binary.BigEndian.AppendUint64(nil, e.state), nil
}

func (e *engine) ContentFingerprint() uint32 {
	return e.program
}

func (e *engine) restore(b []byte) {
	e.state = binary.BigEndian.Uint64(b)
}

func (e *engine) run(s trace.InputSample) {
	e.state = e.state*6364136223846793005 + uint64(s) + 1442695040888963407
}

func (e *engine) reset() {
	e.state = 0
}

// sink collects every record sent to it
type sink struct {
	records  [][]byte
	result   trace.SendResult
	prepared int
}

func (s *sink) TrySend(data []byte) trace.SendResult {
	s.records = append(s.records, data)
	return s.result
}

func (s *sink) Prepare() {
	s.prepared++
}

func (s *sink) decode(t *testing.T) []*trace.Window {
	t.Helper()
	var ws []*trace.Window
	for _, r := range s.records {
		w, err := trace.Decode(r)
		test.DemandSuccess(t, err)
		ws = append(ws, w)
	}
	return ws
}

// frame is the host loop for a single frame: the sample is recorded before it
// is applied to the machine
func frame(sess *trace.Session, e *engine, s trace.InputSample) {
	sess.OnFrame(s)
	e.run(s)
}

func TestNewSession(t *testing.T) {
	_, err := trace.NewSession(nil, &sink{})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, trace.SessionError))

	_, err = trace.NewSession(&engine{}, nil)
	test.ExpectFailure(t, err)

	_, err = trace.NewSession(&engine{}, &sink{}, trace.WithCapacity(1))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, trace.SessionError))
	test.ExpectEquality(t, err.Error(), "trace: session: capacity must be at least 2 (1)")

	sess, err := trace.NewSession(&engine{}, &sink{})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sess.Capacity(), trace.DefaultCapacity)
	test.ExpectFailure(t, sess.Active())
	test.ExpectEquality(t, sess.Len(), 0)
}

// a full window of the same input produces one record
func TestSingleWindow(t *testing.T) {
	e := &engine{program: 0x12345678}
	snk := &sink{}
	sess, err := trace.NewSession(e, snk)
	test.DemandSuccess(t, err)

	for i := 0; i < trace.DefaultCapacity; i++ {
		frame(sess, e, 0x01)
		if i < trace.DefaultCapacity-1 {
			test.DemandEquality(t, len(snk.records), 0)
		}
	}
	test.DemandEquality(t, len(snk.records), 1)

	w := snk.decode(t)[0]
	test.ExpectEquality(t, w.ContentFingerprint, 0x12345678)
	test.DemandEquality(t, len(w.Inputs), trace.DefaultCapacity)
	for i, s := range w.Inputs {
		test.ExpectEquality(t, s, 0x01, i)
	}

	// the start state is the power-on state
	test.ExpectEquality(t, binary.BigEndian.Uint64(w.StartState), 0)

	// replaying all but the final input reproduces the end state
	v := &engine{}
	v.restore(w.StartState)
	for _, s := range w.Replayable() {
		v.run(s)
	}
	b, _ := v.SnapshotState()
	test.ExpectEquality(t, trace.Checksum(b), w.EndStateFingerprint)

	// the next window is already open and contains the sample that closed
	// the previous window
	test.ExpectSuccess(t, sess.Active())
	test.ExpectEquality(t, sess.Len(), 1)

	// one snapshot to open the first window and one to close it
	test.ExpectEquality(t, e.snapshots, 2)
	test.ExpectEquality(t, snk.prepared, 2)

	st := sess.Stats()
	test.ExpectEquality(t, st.Opened, 2)
	test.ExpectEquality(t, st.Completed, 1)
	test.ExpectEquality(t, st.Sent, 1)
}

func TestCarryOver(t *testing.T) {
	const capacity = 50
	const windows = 6

	e := &engine{program: 1}
	snk := &sink{}
	sess, err := trace.NewSession(e, snk, trace.WithCapacity(capacity))
	test.DemandSuccess(t, err)

	// every window after the first needs one fewer frame to complete
	for i := 0; i < capacity+(capacity-1)*(windows-1); i++ {
		frame(sess, e, trace.InputSample(i%7))
	}

	ws := snk.decode(t)
	test.DemandEquality(t, len(ws), windows)
	test.ExpectEquality(t, sess.Len(), 1)

	// one snapshot per window boundary
	test.ExpectEquality(t, e.snapshots, windows+1)

	for i := 1; i < len(ws); i++ {
		test.ExpectEquality(t, trace.Checksum(ws[i].StartState), ws[i-1].EndStateFingerprint, i)
		test.ExpectEquality(t, ws[i].Inputs[0], ws[i-1].Inputs[capacity-1], i)
	}

	v := &engine{}
	for i, w := range ws {
		test.DemandEquality(t, len(w.Inputs), capacity, i)
		v.restore(w.StartState)
		for _, s := range w.Replayable() {
			v.run(s)
		}
		b, _ := v.SnapshotState()
		test.ExpectEquality(t, trace.Checksum(b), w.EndStateFingerprint, i)
	}
}

func TestResetDiscardsPartialWindow(t *testing.T) {
	const capacity = 20

	e := &engine{}
	snk := &sink{}

	var events []trace.Event
	sess, err := trace.NewSession(e, snk, trace.WithCapacity(capacity), trace.WithObserver(func(ev trace.Event) {
		events = append(events, ev)
	}))
	test.DemandSuccess(t, err)

	for i := 0; i < capacity/2; i++ {
		frame(sess, e, 0x10)
	}
	test.ExpectEquality(t, sess.Len(), capacity/2)

	e.reset()
	sess.OnReset()
	test.ExpectFailure(t, sess.Active())
	test.ExpectEquality(t, len(snk.records), 0)

	// reset again with no open window is harmless
	sess.OnReset()

	// move the machine away from the power-on state so that a stale snapshot
	// could be distinguished from a fresh one
	e.state = 99

	for i := 0; i < capacity; i++ {
		frame(sess, e, 0x20)
	}
	ws := snk.decode(t)
	test.DemandEquality(t, len(ws), 1)
	test.ExpectEquality(t, binary.BigEndian.Uint64(ws[0].StartState), 99)
	for _, s := range ws[0].Inputs {
		test.ExpectEquality(t, s, 0x20)
	}

	st := sess.Stats()
	test.ExpectEquality(t, st.Discarded, 1)
	test.ExpectEquality(t, st.Completed, 1)

	kinds := []trace.EventKind{
		trace.EventOpened, trace.EventDiscarded,
		trace.EventOpened, trace.EventSent, trace.EventOpened,
	}
	test.DemandEquality(t, len(events), len(kinds))
	for i := range kinds {
		test.ExpectEquality(t, events[i].Kind, kinds[i], i)
	}
	test.ExpectEquality(t, events[0].Window, 0)
	test.ExpectEquality(t, events[1].Len, capacity/2)
	test.ExpectEquality(t, events[4].Window, 2)
}

func TestDroppedWindows(t *testing.T) {
	const capacity = 100
	const windows = 8

	e := &engine{}
	snk := &sink{result: trace.Dropped}
	sess, err := trace.NewSession(e, snk, trace.WithCapacity(capacity))
	test.DemandSuccess(t, err)

	// windows-1 complete windows plus one frame to close the last one
	start := time.Now()
	for i := 0; i < capacity*windows-(windows-1); i++ {
		frame(sess, e, 0x02)
	}
	test.ExpectSuccess(t, time.Since(start) < time.Second)

	st := sess.Stats()
	test.ExpectEquality(t, st.Completed, windows)
	test.ExpectEquality(t, st.Dropped, windows)
	test.ExpectEquality(t, st.Sent, 0)
	test.ExpectEquality(t, len(snk.records), windows)
}

func TestSnapshotFailure(t *testing.T) {
	const capacity = 10

	e := &engine{failing: true}
	snk := &sink{}

	var failures []error
	sess, err := trace.NewSession(e, snk, trace.WithCapacity(capacity), trace.WithObserver(func(ev trace.Event) {
		if ev.Kind == trace.EventFailed {
			failures = append(failures, ev.Err)
		}
	}))
	test.DemandSuccess(t, err)

	// no window can be opened
	frame(sess, e, 0x00)
	test.ExpectFailure(t, sess.Active())
	test.DemandEquality(t, len(failures), 1)
	test.ExpectSuccess(t, curated.Is(failures[0], trace.SnapshotError))

	// the window opens but cannot be closed
	e.failing = false
	for i := 0; i < capacity-1; i++ {
		frame(sess, e, 0x00)
	}
	test.ExpectEquality(t, sess.Len(), capacity-1)
	e.failing = true
	frame(sess, e, 0x00)
	test.ExpectFailure(t, sess.Active())
	test.ExpectEquality(t, len(snk.records), 0)
	test.ExpectEquality(t, len(failures), 2)

	// the session recovers with a fresh window
	e.failing = false
	for i := 0; i < capacity; i++ {
		frame(sess, e, 0x00)
	}
	test.ExpectEquality(t, len(snk.records), 1)
	test.ExpectEquality(t, sess.Stats().Failed, 2)
}

// a sender that does not implement Preparer
type plainSender struct {
	count int
}

func (s *plainSender) TrySend(_ []byte) trace.SendResult {
	s.count++
	return trace.Sent
}

func TestPlainSender(t *testing.T) {
	e := &engine{}
	snd := &plainSender{}
	sess, err := trace.NewSession(e, snd, trace.WithCapacity(2))
	test.DemandSuccess(t, err)

	for i := 0; i < 5; i++ {
		frame(sess, e, 0x00)
	}

	// windows are closed on frames 2, 3, 4 and 5
	test.ExpectEquality(t, snd.count, 4)
	test.ExpectEquality(t, sess.Len(), 1)
}

func TestSendResultString(t *testing.T) {
	test.ExpectEquality(t, trace.Sent.String(), "sent")
	test.ExpectEquality(t, trace.Dropped.String(), "dropped")
}
