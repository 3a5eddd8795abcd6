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

// Package transport is the network Sender for trace records. It implements
// the trace.Sender and trace.Preparer interfaces.
//
// The client connects on first use, either when Prepare() is called or on the
// first call to TrySend(). The connection is made on a background goroutine so
// that neither function ever waits for the network. Records are queued on a
// bounded channel and written by the same goroutine. A record is dropped if
// the client is not connected or if the queue is full.
//
// Two types of sink are supported, selected by the scheme of the address:
//
//	tcp://host:port	each record is preceded by its length as a 32bit big-endian value
//	ws://host:port/path	each record is a single binary websocket message
//
// An address with no scheme is treated as a tcp address.
//
// Delivery is not guaranteed. By default the client makes a single connection
// attempt. If the attempt fails, or if the connection is later lost, then
// every subsequent record is dropped. The WithReconnect() option changes this.
package transport
