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

package machine

import (
	"fmt"

	"github.com/jetsetilly/traceboy/cartridgeloader"
	"github.com/jetsetilly/traceboy/curated"
)

// InstructionsPerFrame is the maximum number of instructions executed in a
// single frame. A program can end the frame earlier with the HLT instruction.
const InstructionsPerFrame = 256

// Limits on the size of RAM.
const (
	MinRAM = 256
	MaxRAM = 65536
)

// Sentinal error patterns.
const (
	ProgramError = "machine: program: %v"
)

// Machine is the deterministic reference machine.
type Machine struct {
	program     []byte
	fingerprint uint32

	// everything in the state is included in a snapshot
	state state
}

type state struct {
	frame uint64
	pc    uint32
	a     uint8
	x     uint8
	keys  uint8
	rng   uint32
	ram   []uint8
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The loader will be loaded if it hasn't been already.
func NewMachine(cl cartridgeloader.Loader) (*Machine, error) {
	if err := cl.Load(); err != nil {
		return nil, curated.Errorf(ProgramError, err)
	}

	m := &Machine{
		program:     cl.Data,
		fingerprint: cl.Fingerprint,
	}
	m.state.ram = make([]uint8, RAMSize(len(m.program)))
	m.Reset()

	return m, nil
}

// RAMSize returns the amount of RAM for a program of the given length. The
// smallest power of two that is large enough for the program, within the
// limits of MinRAM and MaxRAM.
func RAMSize(programLen int) int {
	sz := MinRAM
	for sz < programLen && sz < MaxRAM {
		sz <<= 1
	}
	return sz
}

func (m *Machine) String() string {
	return fmt.Sprintf("frame=%d pc=%04x a=%02x x=%02x", m.state.frame, m.state.pc, m.state.a, m.state.x)
}

// Reset the machine to its power-on state.
func (m *Machine) Reset() {
	m.state.frame = 0
	m.state.pc = 0
	m.state.a = 0
	m.state.x = 0
	m.state.keys = 0
	m.state.rng = m.fingerprint | 1
	clear(m.state.ram)
}

// Frame returns the number of frames run since the last reset.
func (m *Machine) Frame() uint64 {
	return m.state.frame
}

// ContentFingerprint returns the CRC-32 of the program. Implements the
// trace.Snapshotter interface.
func (m *Machine) ContentFingerprint() uint32 {
	return m.fingerprint
}

// RAM returns a copy of the machine's RAM.
func (m *Machine) RAM() []uint8 {
	return append([]uint8{}, m.state.ram...)
}

// RunFrame runs the machine for a single frame with the supplied key mask.
func (m *Machine) RunFrame(keys uint8) {
	m.state.keys = keys
	for i := 0; i < InstructionsPerFrame; i++ {
		if m.step() {
			break
		}
	}
	m.state.frame++
}
