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

// Package curated wraps the plain Go error type with a pattern-preserving
// implementation. Errors are created with Errorf(), which takes the same
// arguments as fmt.Errorf() but keeps the pattern so that it can be tested for
// later with Is() and Has():
//
//	const SnapshotError = "trace: snapshot: %v"
//
//	e := curated.Errorf(SnapshotError, err)
//	if curated.Is(e, SnapshotError) {
//		...
//	}
//
// Has() looks for the pattern anywhere in a chain of curated errors. Is() only
// checks the outermost error.
//
// The Error() implementation normalises the message so that adjacent duplicate
// parts are removed. Parts are separated by ": ". This means that a package can
// wrap errors with its own prefix without worrying about whether the error it
// received has already been prefixed by the same package:
//
//	trace: trace: snapshot: engine busy
//
// is reported as
//
//	trace: snapshot: engine busy
//
// Patterns that are used as sentinals should be stored as exported string
// constants in the package that raises them.
//
// Curated errors implement Unwrap() so that the errors.Is() and errors.As()
// functions of the standard library see any error value passed to Errorf() as
// a placeholder value.
package curated
