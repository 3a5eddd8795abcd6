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

// keyboard event decoded from terminal input. either a key press or a request
type keyboard struct {
	keys    Keys
	request Request
	isReq   bool
}

// decode terminal input. unrecognised bytes are ignored. a partial escape
// sequence at the end of the data is returned as the remainder so that it can
// be prepended to the next read
func decode(b []byte) ([]keyboard, []byte) {
	var evs []keyboard

	for len(b) > 0 {
		c := b[0]

		if c == 0x1b {
			if len(b) < 3 {
				if len(b) == 1 || b[1] == '[' || b[1] == 'O' {
					return evs, b
				}
				b = b[1:]
				continue
			}
			if b[1] == '[' || b[1] == 'O' {
				switch b[2] {
				case 'A':
					evs = append(evs, keyboard{keys: Up})
				case 'B':
					evs = append(evs, keyboard{keys: Down})
				case 'C':
					evs = append(evs, keyboard{keys: Right})
				case 'D':
					evs = append(evs, keyboard{keys: Left})
				}
				b = b[3:]
				continue
			}
			b = b[1:]
			continue
		}

		switch c {
		case 'w', 'W':
			evs = append(evs, keyboard{keys: Up})
		case 's', 'S':
			evs = append(evs, keyboard{keys: Down})
		case 'a', 'A':
			evs = append(evs, keyboard{keys: Left})
		case 'd', 'D':
			evs = append(evs, keyboard{keys: Right})
		case 'z', 'Z':
			evs = append(evs, keyboard{keys: A})
		case 'x', 'X':
			evs = append(evs, keyboard{keys: B})
		case '\r', '\n':
			evs = append(evs, keyboard{keys: Start})
		case 0x7f, 0x08:
			evs = append(evs, keyboard{keys: Select})
		case 'r', 'R':
			evs = append(evs, keyboard{request: RequestReset, isReq: true})
		case 'l', 'L':
			evs = append(evs, keyboard{request: RequestReload, isReq: true})
		case 'q', 'Q', 0x03:
			evs = append(evs, keyboard{request: RequestQuit, isReq: true})
		}

		b = b[1:]
	}

	return evs, nil
}
