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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/traceboy/curated"
)

// Sentinal error patterns.
const (
	RestoreError = "machine: restore: %v"
)

var snapshotMagic = []byte("TBOY")

const snapshotVersion = 1

// size of everything in the snapshot except for the RAM
const snapshotHeaderSize = 4 + 1 + 4 + 8 + 4 + 1 + 1 + 1 + 4 + 4

// SnapshotState returns the complete state of the machine. The same state
// always produces the same bytes. Implements the trace.Snapshotter interface.
//
// The format is little-endian:
//
//	magic		"TBOY"
//	version		uint8
//	fingerprint	uint32
//	frame		uint64
//	pc		uint32
//	a, x, keys	uint8 * 3
//	rng		uint32
//	ram size	uint32
//	ram		...
func (m *Machine) SnapshotState() ([]byte, error) {
	b := make([]byte, 0, snapshotHeaderSize+len(m.state.ram))
	b = append(b, snapshotMagic...)
	b = append(b, snapshotVersion)
	b = binary.LittleEndian.AppendUint32(b, m.fingerprint)
	b = binary.LittleEndian.AppendUint64(b, m.state.frame)
	b = binary.LittleEndian.AppendUint32(b, m.state.pc)
	b = append(b, m.state.a, m.state.x, m.state.keys)
	b = binary.LittleEndian.AppendUint32(b, m.state.rng)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(m.state.ram)))
	b = append(b, m.state.ram...)
	return b, nil
}

// RestoreState puts the machine into the state from a previous call to
// SnapshotState(). The snapshot must have been taken from a machine running
// the same program.
func (m *Machine) RestoreState(b []byte) error {
	if len(b) < snapshotHeaderSize {
		return curated.Errorf(RestoreError, "snapshot too short")
	}
	if !bytes.Equal(b[:4], snapshotMagic) {
		return curated.Errorf(RestoreError, "not a snapshot")
	}
	if b[4] != snapshotVersion {
		return curated.Errorf(RestoreError, fmt.Sprintf("unsupported version (%d)", b[4]))
	}
	b = b[5:]

	fp := binary.LittleEndian.Uint32(b)
	if fp != m.fingerprint {
		return curated.Errorf(RestoreError, fmt.Sprintf("snapshot is for a different program (%08x)", fp))
	}
	b = b[4:]

	var s state
	s.frame = binary.LittleEndian.Uint64(b)
	b = b[8:]
	s.pc = binary.LittleEndian.Uint32(b)
	b = b[4:]
	s.a, s.x, s.keys = b[0], b[1], b[2]
	b = b[3:]
	s.rng = binary.LittleEndian.Uint32(b)
	b = b[4:]
	sz := binary.LittleEndian.Uint32(b)
	b = b[4:]

	if int(sz) != len(m.state.ram) {
		return curated.Errorf(RestoreError, fmt.Sprintf("unexpected RAM size (%d)", sz))
	}
	if len(b) != int(sz) {
		return curated.Errorf(RestoreError, "snapshot has the wrong length")
	}
	if s.pc >= uint32(len(m.program)) {
		return curated.Errorf(RestoreError, fmt.Sprintf("program counter out of range (%04x)", s.pc))
	}

	// the RAM slice is reused
	s.ram = m.state.ram
	copy(s.ram, b)
	m.state = s

	return nil
}
