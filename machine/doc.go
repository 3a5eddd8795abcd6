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

// Package machine is a small deterministic machine that runs a program one
// frame at a time. It is the reference engine for the trace system: given the
// same program, start state and input for each frame, the machine always ends
// up in the same state.
//
// The machine has an eight bit accumulator and index register, a program
// counter, a pseudo-random number generator and a bank of RAM. The size of the
// RAM depends on the size of the program. The program is not writable.
//
// Every byte of the program is a valid instruction. Bytes that are not one of
// the defined opcodes are mixed into the accumulator. This means that any file
// can be loaded and run, although the results are only interesting for
// programs written for the machine.
//
// The machine implements the trace.Snapshotter interface.
package machine
