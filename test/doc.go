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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a test error and return false if the
// expectation fails. The Demand*() functions are the same except that a
// failure is fatal to the test. Use Demand*() when subsequent testing depends
// on the value being correct, for example, checking the length of two slices
// before iterating over them in unison.
//
// A value is a 'success' value depending on its type:
//
//	bool:  true
//	error: nil
//	nil:   always success
//
// It is worth noting how nil is handled because it is not obvious. The nil
// type is considered a success because of how errors usually work (nil to
// indicate no error).
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output for comparison with an expected string.
package test
