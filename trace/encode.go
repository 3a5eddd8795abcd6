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

package trace

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jetsetilly/traceboy/curated"
)

// Sentinal error patterns for Encode() and Decode().
const (
	EncodeError = "trace: encode: %v"
	DecodeError = "trace: decode: %v"
)

// field numbers of the record. the record is a protobuf message and can be
// decoded by any protobuf implementation with the following schema
//
//	message TracePacket {
//		uint32 game_rom_crc32 = 1;
//		bytes start_state = 2;
//		bytes user_inputs = 3;
//		uint32 end_state_crc32 = 4;
//	}
const (
	fieldContentFingerprint  protowire.Number = 1
	fieldStartState          protowire.Number = 2
	fieldInputs              protowire.Number = 3
	fieldEndStateFingerprint protowire.Number = 4
)

// Encode a completed window as a single self-contained record. All four fields
// are always written.
func Encode(w *Window) ([]byte, error) {
	if w == nil {
		return nil, curated.Errorf(EncodeError, "nil window")
	}
	if len(w.Inputs) == 0 {
		return nil, curated.Errorf(EncodeError, "window has no inputs")
	}

	sz := protowire.SizeTag(fieldContentFingerprint) + protowire.SizeVarint(uint64(w.ContentFingerprint)) +
		protowire.SizeTag(fieldStartState) + protowire.SizeBytes(len(w.StartState)) +
		protowire.SizeTag(fieldInputs) + protowire.SizeBytes(len(w.Inputs)) +
		protowire.SizeTag(fieldEndStateFingerprint) + protowire.SizeVarint(uint64(w.EndStateFingerprint))

	b := make([]byte, 0, sz)

	b = protowire.AppendTag(b, fieldContentFingerprint, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(w.ContentFingerprint))

	b = protowire.AppendTag(b, fieldStartState, protowire.BytesType)
	b = protowire.AppendBytes(b, w.StartState)

	b = protowire.AppendTag(b, fieldInputs, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(w.Inputs)))
	for _, s := range w.Inputs {
		b = append(b, byte(s))
	}

	b = protowire.AppendTag(b, fieldEndStateFingerprint, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(w.EndStateFingerprint))

	return b, nil
}

// Decode is the inverse of Encode(). Unknown fields are skipped. A record
// that is missing any of the four fields, or that has one of them with the
// wrong wire type, is an error.
func Decode(b []byte) (*Window, error) {
	var w Window
	var seen [fieldEndStateFingerprint + 1]bool

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, curated.Errorf(DecodeError, protowire.ParseError(n))
		}
		b = b[n:]

		known := true
		switch {
		case num == fieldContentFingerprint && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			w.ContentFingerprint = uint32(v)
		case num == fieldEndStateFingerprint && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			w.EndStateFingerprint = uint32(v)
		case num == fieldStartState && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				w.StartState = append([]byte{}, v...)
			}
		case num == fieldInputs && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				w.Inputs = make([]InputSample, len(v))
				for i := range v {
					w.Inputs[i] = InputSample(v[i])
				}
			}
		case num >= fieldContentFingerprint && num <= fieldEndStateFingerprint:
			return nil, curated.Errorf(DecodeError, fmt.Sprintf("field %d has wrong wire type (%d)", num, typ))
		default:
			known = false
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return nil, curated.Errorf(DecodeError, protowire.ParseError(n))
		}
		b = b[n:]

		if known {
			seen[num] = true
		}
	}

	for f := fieldContentFingerprint; f <= fieldEndStateFingerprint; f++ {
		if !seen[f] {
			return nil, curated.Errorf(DecodeError, fmt.Sprintf("missing field %d", f))
		}
	}

	return &w, nil
}
