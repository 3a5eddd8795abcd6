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

package collector

import (
	"github.com/jetsetilly/traceboy/paths"
	"github.com/jetsetilly/traceboy/prefs"
	"github.com/jetsetilly/traceboy/trace/transport"
)

// Preferences for the collector.
type Preferences struct {
	dsk *prefs.Disk

	Listen    prefs.String
	Websocket prefs.String
	Database  prefs.String
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
	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("collector.listen", &p.Listen)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("collector.websocket", &p.Websocket)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("collector.database", &p.Database)
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
func (p *Preferences) SetDefaults() error {
	db, err := paths.ResourcePath("", "collector.db")
	if err != nil {
		return err
	}
	_ = p.Listen.Set(defaultListen())
	_ = p.Websocket.Set("")
	_ = p.Database.Set(db)
	return nil
}

// the default listen address is the host and port of the default sink
func defaultListen() string {
	return transport.DefaultAddress[len("tcp://"):]
}

// Load current preference values from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preference values to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
