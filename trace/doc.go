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

// Package trace captures the deterministic execution of the machine in
// fixed-length windows and exports each completed window as a compact record.
//
// A window consists of a snapshot of the machine state taken immediately
// before the first recorded input, the input sample for every frame, and the
// checksum of the machine state when the window is closed. Given the start
// state and the inputs, a collector can later verify that a replay reproduces
// a state with the same checksum.
//
// The Session type is the accumulator. The host calls OnFrame() once per frame
// boundary, on the goroutine driving the machine, with the input sample for
// the frame. Before the sample is applied to the machine:
//
//	sample := input.Sample()
//	sess.OnFrame(trace.InputSample(sample))
//	vm.RunFrame(sample)
//
// When the window reaches its capacity the machine is snapshotted, the
// snapshot is checksummed and the window is encoded and handed to a Sender.
// The same snapshot then becomes the start state of the next window, so there
// is only one snapshot per window boundary.
//
// The sample that closed a window is also the first sample of the next window.
// Because the closing snapshot is taken before that sample is applied to the
// machine, a verifier should replay all but the last sample of a window before
// comparing checksums.
//
// OnReset() must be called whenever the machine is reset or the program is
// reloaded. Any partial window is discarded and the next window starts from a
// fresh snapshot.
//
// Nothing in the package blocks. The Sender is expected to resolve a send
// immediately, either as Sent or Dropped. See the transport package for the
// network implementation. Failures (snapshot, encoding, transport) lose the
// current window only and are never returned to the frame loop. They can be
// observed with the WithObserver() option.
package trace
