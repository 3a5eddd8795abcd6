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

// Package prefs stores typed preference values and persists them to disk.
//
// Values are one of the types Bool, String, Int or Duration. Each type can have
// a hook function called before and after a new value is set. A pre-hook that
// returns an error prevents the value from being stored.
//
// A Disk instance associates a key with each value and saves/loads the values
// to/from a file. The file format is very simple: a warning line followed by
// one "key :: value" line per entry, sorted by key. Entries in the file that
// are not known to the Disk instance are preserved when the file is saved. This
// allows more than one part of the program to share the same preferences file.
//
// The command line stack allows preference values to be overridden for the
// duration of a single run. A group of values is pushed with
// PushCommandLineStack() using the format:
//
//	"trace.sink::ws://localhost:1990/trace; trace.capacity::600"
//
// The next call to Disk.Load() will use those values in preference to the
// values found in the file. Values taken from the command line stack are
// removed from the stack as they are used.
package prefs
