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

// Package random should be used in preference to the math/rand package when a
// random number is required for something that must be reproducible.
//
// Numbers returned by the Random type are based on the current frame of a
// Clock. The same frame will always return the same number for the same seed.
// This means that an input sequence generated with the package can be
// regenerated, for example when checking the output of the trace system.
//
// If no seed is specified with the Seed field, a seed is chosen when the
// program starts. If the same random numbers are required every single time
// then set ZeroSeed to true. This is useful for testing purposes.
package random
