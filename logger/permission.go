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

package logger

import "sync/atomic"

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow is the Permission to use if a log entry should always be made.
var Allow Permission = allow{}

// Latch is a Permission that allows one log entry and then refuses until it
// is reopened. Useful for conditions that repeat on every attempt of a retry
// loop. The zero value is open. Safe for concurrent use.
type Latch struct {
	closed atomic.Bool
}

// AllowLogging implements the Permission interface. The latch closes after
// returning true.
func (l *Latch) AllowLogging() bool {
	return l.closed.CompareAndSwap(false, true)
}

// Reopen the latch so that the next log entry is allowed.
func (l *Latch) Reopen() {
	l.closed.Store(false)
}
