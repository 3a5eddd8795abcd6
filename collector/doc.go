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

// Package collector is the downstream end of the trace system. It accepts
// records from any number of transport clients, decodes them and stores them
// in a database.
//
// Records arrive over TCP, with each record preceded by its length, or as
// binary websocket messages. Every connection is given a unique ID and the
// records from a connection are numbered in the order they arrive. Because a
// client sends the windows of a session in order, consecutive records from one
// connection should form a chain: the start state of each record is the end
// state of the previous record. Store.Chains() reports on this.
//
// If a Verifier is supplied to the server then each record is replayed on a
// reference machine before it is stored. The start state is restored, every
// input except the last is applied, and the checksum of the resulting state is
// compared with the end state fingerprint of the record. The last input is not
// applied because the end state is captured before the input that closes a
// window is applied to the machine.
package collector
