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

import "fmt"

// InputSample is the state of the logical controls for a single frame. Each
// bit is a control that was pressed when the frame was sampled.
type InputSample uint8

// Window is the unit of export. A window is complete when the number of
// Inputs is equal to the capacity of the session.
type Window struct {
	// identity of the program loaded into the machine
	ContentFingerprint uint32

	// snapshot of the machine immediately before the first input was applied
	StartState []byte

	// one sample for every frame in the window, in the order they were
	// recorded
	Inputs []InputSample

	// checksum of the machine snapshot taken when the window was closed
	EndStateFingerprint uint32
}

func (w Window) String() string {
	return fmt.Sprintf("program=%08x start=%08x (%d bytes) inputs=%d end=%08x",
		w.ContentFingerprint, Checksum(w.StartState), len(w.StartState),
		len(w.Inputs), w.EndStateFingerprint)
}

// Replayable returns the inputs that were applied to the machine between the
// start and end snapshots. This is every input except the last, which closed
// the window and was applied after the end snapshot was taken.
func (w Window) Replayable() []InputSample {
	if len(w.Inputs) == 0 {
		return nil
	}
	return w.Inputs[:len(w.Inputs)-1]
}
