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

package userinput

import (
	"sync"

	"github.com/pkg/term"

	"github.com/jetsetilly/traceboy/curated"
)

// Sentinal error patterns.
const (
	TerminalError = "userinput: terminal: %v"
)

// DefaultHold is the number of frames a key is held for after a keypress.
// Terminals do not report key releases so every keypress is treated as a
// short press.
const DefaultHold = 8

// DefaultTerminal is the device opened by NewTerminal() if no device is
// specified.
const DefaultTerminal = "/dev/tty"

// Terminal is a source that reads keypresses from a terminal. The terminal is
// put into cbreak mode until Close() is called.
//
// The arrow keys and WASD are the directions. Z and X are the A and B
// buttons. Enter is Start and backspace is Select. R resets the machine, L
// reloads the program and Q quits.
type Terminal struct {
	t    *term.Term
	hold int

	// frames remaining for each key bit
	held [8]int

	presses  chan Keys
	requests chan Request

	closing sync.Once
}

// NewTerminal opens the terminal device. If device is the empty string then
// DefaultTerminal is used.
func NewTerminal(device string, hold int) (*Terminal, error) {
	if device == "" {
		device = DefaultTerminal
	}
	if hold < 1 {
		hold = DefaultHold
	}

	t, err := term.Open(device, term.CBreakMode)
	if err != nil {
		return nil, curated.Errorf(TerminalError, err)
	}

	trm := &Terminal{
		t:        t,
		hold:     hold,
		presses:  make(chan Keys, 64),
		requests: make(chan Request, 8),
	}

	go trm.read()

	return trm, nil
}

// read from the terminal until it is closed
func (trm *Terminal) read() {
	var pending []byte
	buf := make([]byte, 64)

	for {
		n, err := trm.t.Read(buf)
		if err != nil {
			return
		}

		var evs []keyboard
		evs, pending = decode(append(pending, buf[:n]...))

		for _, ev := range evs {
			if ev.isReq {
				select {
				case trm.requests <- ev.request:
				default:
				}
				continue
			}

			// a key press is lost if the frame loop is not keeping up
			select {
			case trm.presses <- ev.keys:
			default:
			}
		}
	}
}

// Sample implements the Source interface.
func (trm *Terminal) Sample() Keys {
	// collect key presses since the last frame
	done := false
	for !done {
		select {
		case k := <-trm.presses:
			for i := range trm.held {
				if k&(1<<i) != 0 {
					trm.held[i] = trm.hold
				}
			}
		default:
			done = true
		}
	}

	var k Keys
	for i := range trm.held {
		if trm.held[i] > 0 {
			k |= 1 << i
			trm.held[i]--
		}
	}

	return k
}

// Requests implements the Requester interface.
func (trm *Terminal) Requests() <-chan Request {
	return trm.requests
}

// Close restores the terminal to the mode it was in before NewTerminal().
func (trm *Terminal) Close() error {
	var err error
	trm.closing.Do(func() {
		err = trm.t.Restore()
		if e := trm.t.Close(); err == nil {
			err = e
		}
	})
	if err != nil {
		return curated.Errorf(TerminalError, err)
	}
	return nil
}
