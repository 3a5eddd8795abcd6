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

// DemoProgram returns a short program that reacts to the keys. Every frame
// the key mask is stored, accumulated with XOR and a random number is written
// to the next location in the first page of RAM.
func DemoProgram() []byte {
	return []byte{
		KEY,
		STA, 0x10, 0x00,
		XOR, 0x20, 0x00,
		STA, 0x20, 0x00,
		RND,
		STX,
		INX,
		LDA, 0x10, 0x00,
		ADD, 0x01,
		STA, 0x11, 0x00,
		HLT,
		JMP, 0x00, 0x00,
	}
}
