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
	"fmt"
	"strings"
)

// Keys is a bitmask of the logical controls.
type Keys uint8

// List of valid Keys.
const (
	Right Keys = 1 << iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// None is the Keys value for no keys pressed.
const None Keys = 0

var keyNames = [...]struct {
	key  Keys
	name string
}{
	{key: Right, name: "R"},
	{key: Left, name: "L"},
	{key: Up, name: "U"},
	{key: Down, name: "D"},
	{key: A, name: "A"},
	{key: B, name: "B"},
	{key: Select, name: "SEL"},
	{key: Start, name: "START"},
}

// String returns the keys as they would be written for ParseKeys().
func (k Keys) String() string {
	if k == None {
		return "-"
	}
	var s strings.Builder
	for _, n := range keyNames {
		if k&n.key == n.key {
			if s.Len() > 0 {
				s.WriteRune('+')
			}
			s.WriteString(n.name)
		}
	}
	return s.String()
}

// ParseKeys is the inverse of Keys.String(). Key names are separated by a
// plus sign and are not case sensitive. The dash character is no keys.
//
// For example: "R+A", "up+b", "start", "-"
func ParseKeys(s string) (Keys, error) {
	s = strings.TrimSpace(s)
	if s == "-" || s == "" {
		return None, nil
	}

	var k Keys
	for _, p := range strings.Split(s, "+") {
		switch strings.ToUpper(strings.TrimSpace(p)) {
		case "R", "RIGHT":
			k |= Right
		case "L", "LEFT":
			k |= Left
		case "U", "UP":
			k |= Up
		case "D", "DOWN":
			k |= Down
		case "A":
			k |= A
		case "B":
			k |= B
		case "SEL", "SELECT":
			k |= Select
		case "START":
			k |= Start
		default:
			return None, fmt.Errorf("unrecognised key %q", p)
		}
	}
	return k, nil
}

// Source is implemented by anything that provides input for the machine.
type Source interface {
	// Sample is called once per frame
	Sample() Keys
}

// Request is a request from the user to change the state of the machine.
type Request int

// List of valid Request values.
const (
	RequestReset Request = iota
	RequestReload
	RequestQuit
)

func (r Request) String() string {
	switch r {
	case RequestReset:
		return "reset"
	case RequestReload:
		return "reload"
	case RequestQuit:
		return "quit"
	}
	return "unknown"
}

// Requester is implemented by sources that can make requests.
type Requester interface {
	Requests() <-chan Request
}
