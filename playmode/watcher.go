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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/logger"
)

// editors often write a file in several steps. changes that arrive within the
// settle period are reported as a single change
const watcherSettle = 100 * time.Millisecond

// watcher reports changes to the program file. the directory is watched
// rather than the file so that editors that replace the file by renaming are
// noticed
type watcher struct {
	w    *fsnotify.Watcher
	file string

	changed chan bool
	done    chan bool
}

func newWatcher(file string) (*watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, curated.Errorf("watcher: %v", err)
	}

	file = filepath.Clean(file)
	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return nil, curated.Errorf("watcher: %v", err)
	}

	wt := &watcher{
		w:       w,
		file:    file,
		changed: make(chan bool, 1),
		done:    make(chan bool),
	}

	go wt.run()

	return wt, nil
}

func (wt *watcher) run() {
	defer close(wt.done)

	var settle <-chan time.Time

	for {
		select {
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != wt.file {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				settle = time.After(watcherSettle)
			}

		case err, ok := <-wt.w.Errors:
			if !ok {
				return
			}
			logger.Logf(logger.Allow, "watcher", "%v", err)

		case <-settle:
			settle = nil
			select {
			case wt.changed <- true:
			default:
			}
		}
	}
}

func (wt *watcher) close() error {
	err := wt.w.Close()
	<-wt.done
	return err
}
