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

package transport_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/jetsetilly/traceboy/test"
	"github.com/jetsetilly/traceboy/trace/transport"
)

func TestFrames(t *testing.T) {
	var b bytes.Buffer

	test.DemandSuccess(t, transport.WriteFrame(&b, []byte("hello")))
	test.DemandSuccess(t, transport.WriteFrame(&b, nil))
	test.DemandSuccess(t, transport.WriteFrame(&b, []byte{0x00, 0xff}))
	test.ExpectEquality(t, b.Len(), 4+5+4+4+2)

	d, err := transport.ReadFrame(&b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), "hello")

	d, err = transport.ReadFrame(&b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(d), 0)

	d, err = transport.ReadFrame(&b)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(d, []byte{0x00, 0xff}))

	_, err = transport.ReadFrame(&b)
	test.ExpectEquality(t, err, io.EOF)
}

func TestTruncatedFrame(t *testing.T) {
	b := bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x04, 0x01, 0x02})
	_, err := transport.ReadFrame(b)
	test.ExpectEquality(t, err, io.ErrUnexpectedEOF)

	b = bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff})
	_, err = transport.ReadFrame(b)
	test.ExpectFailure(t, err)
}
