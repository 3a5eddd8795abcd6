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

import "hash/crc32"

// Checksum returns the CRC-32 (IEEE) of the data. This is the same checksum as
// the one used for ZIP and PNG files and is the fingerprint that a collector
// will recompute when verifying a window.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
