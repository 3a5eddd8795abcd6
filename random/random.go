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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

// initialise base seed
func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Clock is anything that counts frames.
type Clock interface {
	Frame() uint64
}

// Random is a random number generator that is sensitive to the frame number
// of a Clock.
type Random struct {
	clock Clock

	// the seed to use instead of the base seed. ignored if ZeroSeed is true
	Seed int64

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(clock Clock) *Random {
	return &Random{
		clock: clock,
	}
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	frame := int64(rnd.clock.Frame())
	switch {
	case rnd.ZeroSeed:
		return rand.New(rand.NewSource(frame))
	case rnd.Seed != 0:
		return rand.New(rand.NewSource(rnd.Seed + frame))
	}
	return rand.New(rand.NewSource(baseSeed + frame))
}

// Intn returns a number in the range [0, n) for the current frame.
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}
