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

package random_test

import (
	"testing"

	"github.com/jetsetilly/traceboy/random"
	"github.com/jetsetilly/traceboy/test"
)

type clock struct {
	frame uint64
}

func (c *clock) Frame() uint64 {
	return c.frame
}

func TestZeroSeed(t *testing.T) {
	c := &clock{}
	a := random.NewRandom(c)
	b := random.NewRandom(c)
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		c.frame = uint64(i)
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}
}

func TestSeed(t *testing.T) {
	c := &clock{frame: 100}
	a := random.NewRandom(c)
	a.Seed = 1234

	// the same frame produces the same number
	v := a.Intn(1000000)
	test.ExpectEquality(t, a.Intn(1000000), v)

	// a different seed produces a different number (very likely)
	b := random.NewRandom(c)
	b.Seed = 4321
	test.ExpectInequality(t, b.Intn(1000000), v)
}
