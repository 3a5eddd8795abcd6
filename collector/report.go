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

package collector

import (
	"fmt"
	"io"
)

// Report writes a summary of every chain in the store.
func Report(output io.Writer, store *Store) error {
	chains, err := store.Chains()
	if err != nil {
		return err
	}

	if len(chains) == 0 {
		fmt.Fprintln(output, "no records")
		return nil
	}

	var total int
	for _, c := range chains {
		fmt.Fprintf(output, "%s: %d records, %d links, %d breaks", c.Connection, c.Records, c.Links, c.Breaks)
		if c.Verified > 0 || c.Mismatched > 0 {
			fmt.Fprintf(output, ", %d verified, %d mismatched", c.Verified, c.Mismatched)
		}
		fmt.Fprintln(output)
		total += c.Records
	}
	fmt.Fprintf(output, "%d records from %d connections\n", total, len(chains))

	return nil
}
