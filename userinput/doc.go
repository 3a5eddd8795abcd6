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

// Package userinput provides the input for the machine, one sample per frame.
//
// The Source interface is implemented by the Fixed, Script, Random and
// Terminal types. The frame loop calls Sample() once per frame and the
// returned Keys value is both recorded by the trace session and applied to the
// machine.
//
// Some sources can also ask for the machine to be reset or for the program to
// be reloaded. Those sources implement the Requester interface.
package userinput
