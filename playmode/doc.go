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

// Package playmode is the front end without any debugging features. It runs
// the machine one frame at a time, taking input from a userinput.Source, and
// records the execution with a trace.Session.
//
// The frame loop is the only goroutine that touches the machine and the
// session. Requests to reset the machine or to reload the program arrive on
// channels and are handled between frames. Neither the session nor the
// network transport can stall the loop.
package playmode
