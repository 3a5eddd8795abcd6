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

// Package performance contains helper functions relating to performance.
//
// Check() is a quick way of running the machine for a fixed duration of time,
// with the trace session capturing windows as it would in play mode. Completed
// records are encoded but discarded rather than sent anywhere. It will
// optionally generate profiling information.
//
// CalcFPS() calculates frames-per-second in aggregate along with an accuracy
// value (as compared to a target frame rate). Probably not suitable for "live"
// FPS monitoring.
//
// The limiter sub-package is used by the play mode to hold the frame rate at
// the target value.
package performance
