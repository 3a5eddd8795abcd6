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

// Package logger is the central log for Traceboy. Entries are made up of a tag
// and a detail string. The tag indicates the area of the program making the
// entry and should be short and consistent, for example "trace" or
// "transport".
//
// Consecutive entries with the same tag and detail are folded into a single
// entry with a repeat count. This means that noisy conditions, such as a sink
// that is never available, do not flood the log.
//
// The log is bounded. Once the maximum number of entries has been reached the
// oldest entries are forgotten.
//
// Log requests take a Permission argument. Use logger.Allow unless the caller
// has a reason to suppress logging in some situations.
package logger
