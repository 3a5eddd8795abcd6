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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package, with
// some differences. Instead of the flag.Parse() function, flags are parsed
// with the Parse() function of a Modes instance. Parse() returns a
// ParseResult, indicating whether help was requested or whether an error
// occurred.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "COLLECT", "VERSION")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		fmt.Println(err)
//		return
//	}
//
//	switch md.Mode() {
//	case "PLAY":
//		md.NewMode()
//		frames := md.AddInt("frames", 0, "number of frames to run")
//		...
//	}
//
// The first sub-mode in the list is the default mode. It is selected if the
// first argument does not match any sub-mode. Sub-modes are case insensitive.
//
// Mode() returns the most recently selected mode and Path() returns the
// sequence of modes selected so far, separated by a forward slash.
package modalflag
