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

package trace

import (
	"fmt"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/logger"
)

// DefaultCapacity is the number of frames in a window if WithCapacity() is not
// used. At sixty frames per second this is twenty seconds of input.
const DefaultCapacity = 1200

// Sentinal error patterns.
const (
	SnapshotError = "trace: snapshot: %v"
	SessionError  = "trace: session: %v"
)

// Snapshotter is the part of the machine that the session needs.
type Snapshotter interface {
	// a complete, deterministic serialisation of the machine state. the same
	// machine state must always produce the same bytes. the returned slice is
	// owned by the caller
	SnapshotState() ([]byte, error)

	// identity of the loaded program
	ContentFingerprint() uint32
}

// SendResult is the outcome of a single send attempt.
type SendResult int

// List of valid SendResult values.
const (
	Sent SendResult = iota
	Dropped
)

func (r SendResult) String() string {
	switch r {
	case Sent:
		return "sent"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}

// Sender accepts encoded records. Implementations must not block.
type Sender interface {
	TrySend(data []byte) SendResult
}

// Preparer is an optional interface for a Sender. If the Sender implements it
// then Prepare() is called whenever a window is opened. A network sender can
// use this to start connecting while the window is filling.
type Preparer interface {
	Prepare()
}

// EventKind describes the type of Event sent to an observer.
type EventKind int

// List of valid EventKind values.
const (
	EventOpened EventKind = iota
	EventSent
	EventDropped
	EventDiscarded
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventOpened:
		return "opened"
	case EventSent:
		return "sent"
	case EventDropped:
		return "dropped"
	case EventDiscarded:
		return "discarded"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event is delivered to the observer function.
type Event struct {
	Kind EventKind

	// sequence number of the window the event applies to. the first window of
	// the session is number zero
	Window int

	// the window length at the time of the event
	Len int

	// the cause of an EventFailed
	Err error
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("window %d %s: %v", e.Window, e.Kind, e.Err)
	}
	return fmt.Sprintf("window %d %s (%d inputs)", e.Window, e.Kind, e.Len)
}

// Stats is a summary of the session so far.
type Stats struct {
	Opened    int
	Completed int
	Sent      int
	Dropped   int
	Discarded int
	Failed    int
}

func (s Stats) String() string {
	return fmt.Sprintf("opened=%d completed=%d sent=%d dropped=%d discarded=%d failed=%d",
		s.Opened, s.Completed, s.Sent, s.Dropped, s.Discarded, s.Failed)
}

// Option is used to configure a new session.
type Option func(*Session) error

// WithCapacity sets the number of inputs in a window. The minimum capacity is
// two because the input that closes a window is also the first input of the
// next window.
func WithCapacity(w int) Option {
	return func(s *Session) error {
		if w < 2 {
			return curated.Errorf(SessionError, fmt.Sprintf("capacity must be at least 2 (%d)", w))
		}
		s.capacity = w
		return nil
	}
}

// WithObserver sets a function to be called for every event in the session.
// The function is called on the same goroutine as OnFrame() and OnReset() and
// should return quickly.
func WithObserver(f func(Event)) Option {
	return func(s *Session) error {
		s.observer = f
		return nil
	}
}

// Session accumulates input samples into windows. It is not safe for
// concurrent use. OnFrame() and OnReset() should be called from the goroutine
// that drives the machine.
type Session struct {
	engine   Snapshotter
	sender   Sender
	capacity int
	observer func(Event)

	// there is at most one open window
	active bool
	window Window

	// sequence number of the current window
	seq int

	stats Stats
}

// NewSession is the preferred method of initialisation for the Session type.
func NewSession(engine Snapshotter, sender Sender, opts ...Option) (*Session, error) {
	if engine == nil {
		return nil, curated.Errorf(SessionError, "no snapshotter")
	}
	if sender == nil {
		return nil, curated.Errorf(SessionError, "no sender")
	}

	s := &Session{
		engine:   engine,
		sender:   sender,
		capacity: DefaultCapacity,
		seq:      -1,
	}

	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	s.window.Inputs = make([]InputSample, 0, s.capacity)

	return s, nil
}

// Active returns true if a window is open.
func (s *Session) Active() bool {
	return s.active
}

// Len returns the number of inputs in the open window. Zero if there is no
// open window.
func (s *Session) Len() int {
	if !s.active {
		return 0
	}
	return len(s.window.Inputs)
}

// Capacity returns the number of inputs in a complete window.
func (s *Session) Capacity() int {
	return s.capacity
}

// Stats returns a copy of the session statistics.
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) notify(kind EventKind, err error) {
	if s.observer == nil {
		return
	}
	s.observer(Event{
		Kind:   kind,
		Window: s.seq,
		Len:    len(s.window.Inputs),
		Err:    err,
	})
}

// OnFrame records the input sample for the frame that is about to be run. It
// must be called before the sample is applied to the machine.
//
// If there is no open window one is opened. If the window is full once the
// sample has been added then the window is closed and sent and a new window is
// opened with the closing state and sample.
//
// Errors are not returned. A failure loses the current window and nothing else.
func (s *Session) OnFrame(sample InputSample) {
	if !s.active {
		state, err := s.engine.SnapshotState()
		if err != nil {
			s.seq++
			s.fail(curated.Errorf(SnapshotError, err))
			return
		}
		s.open(state)
	}

	s.window.Inputs = append(s.window.Inputs, sample)
	if len(s.window.Inputs) < s.capacity {
		return
	}

	s.complete(sample)
}

// OnReset discards the open window, if there is one. It should be called
// whenever the machine is reset or a new program is loaded.
func (s *Session) OnReset() {
	if !s.active {
		return
	}
	s.stats.Discarded++
	s.notify(EventDiscarded, nil)
	s.close()
}

// open a new window with the start state. the state is owned by the window
// from this point
func (s *Session) open(state []byte) {
	s.active = true
	s.seq++
	s.stats.Opened++
	s.window.ContentFingerprint = s.engine.ContentFingerprint()
	s.window.StartState = state
	s.window.Inputs = s.window.Inputs[:0]
	s.window.EndStateFingerprint = 0

	if p, ok := s.sender.(Preparer); ok {
		p.Prepare()
	}

	s.notify(EventOpened, nil)
}

func (s *Session) close() {
	s.active = false
	s.window.StartState = nil
	s.window.Inputs = s.window.Inputs[:0]
}

func (s *Session) fail(err error) {
	s.stats.Failed++
	logger.Log(logger.Allow, "trace", err.Error())
	s.notify(EventFailed, err)
	s.close()
}

// the window is full. sample is the sample that filled it
func (s *Session) complete(sample InputSample) {
	end, err := s.engine.SnapshotState()
	if err != nil {
		// the next call to OnFrame() will start a new window from a fresh
		// snapshot
		s.fail(curated.Errorf(SnapshotError, err))
		return
	}

	s.window.EndStateFingerprint = Checksum(end)
	s.stats.Completed++

	data, err := Encode(&s.window)
	if err != nil {
		s.stats.Failed++
		logger.Log(logger.Allow, "trace", err.Error())
		s.notify(EventFailed, err)
	} else {
		switch s.sender.TrySend(data) {
		case Sent:
			s.stats.Sent++
			s.notify(EventSent, nil)
		default:
			s.stats.Dropped++
			s.notify(EventDropped, nil)
		}
	}

	// the end state of this window is the start state of the next window. the
	// sample that closed this window has not yet been applied to the machine
	// so it is also the first sample of the next window
	s.open(end)
	s.window.Inputs = append(s.window.Inputs, sample)
}
