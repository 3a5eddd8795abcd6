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

package trace_test

import (
	"testing"

	"github.com/jetsetilly/traceboy/test"
	"github.com/jetsetilly/traceboy/trace"
)

func TestChecksum(t *testing.T) {
	test.ExpectEquality(t, trace.Checksum([]byte("123456789")), 0xcbf43926)
	test.ExpectEquality(t, trace.Checksum([]byte("")), 0)
	test.ExpectEquality(t, trace.Checksum(nil), 0)
	test.ExpectEquality(t, trace.Checksum([]byte("The quick brown fox jumps over the lazy dog")), 0x414fa339)

	// single bit difference
	test.ExpectInequality(t, trace.Checksum([]byte{0x00}), trace.Checksum([]byte{0x01}))
}
