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

package playmode

import (
	"fmt"
	"time"

	"github.com/jetsetilly/traceboy/paths"
	"github.com/jetsetilly/traceboy/prefs"
	"github.com/jetsetilly/traceboy/trace"
	"github.com/jetsetilly/traceboy/trace/transport"
)

// reconnection delay used when trace.reconnect is true
const reconnectDelay = time.Second

// Preferences for the trace system.
type Preferences struct {
	dsk *prefs.Disk

	Enabled     prefs.Bool
	Capacity    prefs.Int
	Sink        prefs.String
	Queue       prefs.Int
	Reconnect   prefs.Bool
	DialTimeout prefs.Duration
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.Capacity.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 2 {
			return fmt.Errorf("trace.capacity must be at least 2")
		}
		return nil
	})

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("trace.enabled", &p.Enabled)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("trace.capacity", &p.Capacity)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("trace.sink", &p.Sink)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("trace.queue", &p.Queue)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("trace.reconnect", &p.Reconnect)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("trace.dialtimeout", &p.DialTimeout)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.Enabled.Set(true)
	_ = p.Capacity.Set(trace.DefaultCapacity)
	_ = p.Sink.Set(transport.DefaultAddress)
	_ = p.Queue.Set(transport.DefaultQueue)
	_ = p.Reconnect.Set(false)
	_ = p.DialTimeout.Set(transport.DefaultDialTimeout)
}

// Load current preference values from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preference values to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// transportOptions returns the options for a transport.Client.
func (p *Preferences) transportOptions() []transport.Option {
	opts := []transport.Option{
		transport.WithQueue(p.Queue.Get().(int)),
		transport.WithDialTimeout(p.DialTimeout.Get().(time.Duration)),
	}
	if p.Reconnect.Get().(bool) {
		opts = append(opts, transport.WithReconnect(reconnectDelay))
	}
	return opts
}
