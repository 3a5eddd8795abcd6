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

// Package cartridgeloader is used to specify the program that is to be loaded
// into the machine.
//
// When the program is ready to be loaded, the Load() function should be used.
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported.
//
// The simplest instance of the Loader type:
//
//	cl := cartridgeloader.NewLoader("programs/demo.tbx")
//	err := cl.Load()
//
// Once loaded, the Fingerprint field is the identity of the program. It is the
// value that the machine reports as its content fingerprint.
package cartridgeloader
