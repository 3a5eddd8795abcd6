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

// Opcodes of the machine. Operands follow the opcode. Addresses are sixteen
// bits, little-endian. RAM addresses wrap at the RAM size and program
// addresses wrap at the program size.
const (
	NOP = 0x00 // no operation
	LDI = 0x01 // A = imm8
	LDA = 0x02 // A = ram[addr16]
	STA = 0x03 // ram[addr16] = A
	ADD = 0x04 // A += imm8
	XOR = 0x05 // A ^= ram[addr16]
	KEY = 0x06 // A = keys
	JMP = 0x07 // pc = addr16
	JNZ = 0x08 // if A != 0 then pc = addr16
	INX = 0x09 // X++
	STX = 0x0a // ram[X] = A
	LDX = 0x0b // A = ram[X]
	RND = 0x0c // A = next random number
	TAX = 0x0d // X = A
	HLT = 0x0e // end frame
)

// fetch the next byte of the program and advance the program counter
func (m *Machine) fetch() uint8 {
	v := m.program[m.state.pc]
	m.state.pc++
	if m.state.pc >= uint32(len(m.program)) {
		m.state.pc = 0
	}
	return v
}

func (m *Machine) fetch16() uint16 {
	lo := m.fetch()
	hi := m.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (m *Machine) ramAddr(addr uint16) int {
	return int(addr) % len(m.state.ram)
}

// xorshift32
func (m *Machine) random() uint8 {
	r := m.state.rng
	r ^= r << 13
	r ^= r >> 17
	r ^= r << 5
	m.state.rng = r
	return uint8(r)
}

// step executes a single instruction. returns true if the instruction ends the
// frame
func (m *Machine) step() bool {
	op := m.fetch()

	switch op {
	case NOP:
	case LDI:
		m.state.a = m.fetch()
	case LDA:
		m.state.a = m.state.ram[m.ramAddr(m.fetch16())]
	case STA:
		m.state.ram[m.ramAddr(m.fetch16())] = m.state.a
	case ADD:
		m.state.a += m.fetch()
	case XOR:
		m.state.a ^= m.state.ram[m.ramAddr(m.fetch16())]
	case KEY:
		m.state.a = m.state.keys
	case JMP:
		m.state.pc = uint32(m.fetch16()) % uint32(len(m.program))
	case JNZ:
		addr := m.fetch16()
		if m.state.a != 0 {
			m.state.pc = uint32(addr) % uint32(len(m.program))
		}
	case INX:
		m.state.x++
	case STX:
		m.state.ram[m.state.x] = m.state.a
	case LDX:
		m.state.a = m.state.ram[m.state.x]
	case RND:
		m.state.a = m.random()
	case TAX:
		m.state.x = m.state.a
	case HLT:
		return true
	default:
		m.state.a = m.state.a*33 + op
	}

	return false
}
