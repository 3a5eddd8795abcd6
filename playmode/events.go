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
	"context"

	"github.com/jetsetilly/traceboy/logger"
	"github.com/jetsetilly/traceboy/machine"
	"github.com/jetsetilly/traceboy/userinput"
)

// eventHandler is called between frames. returns true if play should end
func (pl *playmode) eventHandler(ctx context.Context) (bool, error) {
	var changed <-chan bool
	if pl.watch != nil {
		changed = pl.watch.changed
	}

	select {
	case <-ctx.Done():
		return true, nil

	case req := <-pl.requests:
		switch req {
		case userinput.RequestQuit:
			return true, nil
		case userinput.RequestReset:
			pl.reset()
		case userinput.RequestReload:
			pl.reload()
		}

	case <-changed:
		pl.reload()

	default:
	}

	return false, nil
}

func (pl *playmode) reset() {
	pl.eng.vm.Reset()
	if pl.sess != nil {
		pl.sess.OnReset()
	}
	logger.Log(logger.Allow, "playmode", "machine reset")
}

// reload the program and start a new machine. the current machine continues
// to run if the program cannot be loaded
func (pl *playmode) reload() {
	cl := pl.cfg.Loader
	if err := cl.Reload(); err != nil {
		logger.Logf(logger.Allow, "playmode", "reload: %v", err)
		return
	}

	vm, err := machine.NewMachine(cl)
	if err != nil {
		logger.Logf(logger.Allow, "playmode", "reload: %v", err)
		return
	}

	pl.cfg.Loader = cl
	pl.eng.vm = vm
	if pl.sess != nil {
		pl.sess.OnReset()
	}
	logger.Logf(logger.Allow, "playmode", "reloaded %s (%08x)", cl.ShortName(), vm.ContentFingerprint())
}
