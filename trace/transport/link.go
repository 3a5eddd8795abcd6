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

package transport

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// link is an established connection to a sink
type link interface {
	write(data []byte) error
	close() error
}

type tcpLink struct {
	conn net.Conn
	w    *bufio.Writer
}

func dialTCP(ctx context.Context, addr string, timeout time.Duration) (link, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &tcpLink{conn: conn, w: bufio.NewWriter(conn)}, nil
}

func (l *tcpLink) write(data []byte) error {
	if err := l.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := WriteFrame(l.w, data); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *tcpLink) close() error {
	return l.conn.Close()
}

type wsLink struct {
	conn *websocket.Conn
}

func dialWebsocket(ctx context.Context, url string, timeout time.Duration) (link, error) {
	d := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: timeout,
	}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsLink{conn: conn}, nil
}

func (l *wsLink) write(data []byte) error {
	if err := l.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return l.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (l *wsLink) close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = l.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return l.conn.Close()
}
