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
	"fmt"
	"io"

	"github.com/jetsetilly/traceboy/cartridgeloader"
	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/logger"
	"github.com/jetsetilly/traceboy/machine"
	"github.com/jetsetilly/traceboy/performance/limiter"
	"github.com/jetsetilly/traceboy/trace"
	"github.com/jetsetilly/traceboy/trace/transport"
	"github.com/jetsetilly/traceboy/userinput"
)

// Sentinal error patterns.
const (
	PlayError = "playmode: %v"
)

// DefaultFPS is the frame rate used if Config.FPS is not set.
const DefaultFPS = 60

// Config for Play().
type Config struct {
	Loader cartridgeloader.Loader

	// source of input. if the source also implements userinput.Requester then
	// its requests are handled between frames
	Input userinput.Source

	// frames per second. zero or less is unlimited
	FPS int

	// stop after this many frames. zero is no limit
	Frames int

	// reload the program when the file changes. only for local files
	Watch bool

	// preferences for the trace system. if nil the default values are used
	Prefs *Preferences

	// summary of the run is written here when play ends. can be nil
	Output io.Writer

	// sender to use instead of a network client. used for testing
	sender trace.Sender
}

// engine forwards the trace.Snapshotter interface to the current machine. the
// machine is replaced when the program is reloaded but the session stays the
// same
type engine struct {
	vm *machine.Machine
}

func (e *engine) SnapshotState() ([]byte, error) {
	return e.vm.SnapshotState()
}

func (e *engine) ContentFingerprint() uint32 {
	return e.vm.ContentFingerprint()
}

type playmode struct {
	cfg Config
	eng engine

	sess   *trace.Session
	client *transport.Client

	// number of frames run since Play() was called
	frames int

	requests <-chan userinput.Request
	watch    *watcher

	// true if the most recent send was dropped. drops are only logged when
	// this changes
	dropping bool
}

// Play runs the machine until the context is cancelled, the frame limit is
// reached or the user quits.
func Play(ctx context.Context, cfg Config) error {
	if cfg.Input == nil {
		cfg.Input = userinput.Fixed(userinput.None)
	}

	if cfg.Prefs == nil {
		p := &Preferences{}
		p.SetDefaults()
		cfg.Prefs = p
	}

	pl := &playmode{
		cfg: cfg,
	}

	var err error

	pl.eng.vm, err = machine.NewMachine(pl.cfg.Loader)
	if err != nil {
		return curated.Errorf(PlayError, err)
	}
	logger.Logf(logger.Allow, "playmode", "loaded %s (%08x)", pl.cfg.Loader.ShortName(), pl.eng.vm.ContentFingerprint())

	err = pl.startTrace()
	if err != nil {
		return curated.Errorf(PlayError, err)
	}
	defer pl.endTrace()

	if r, ok := cfg.Input.(userinput.Requester); ok {
		pl.requests = r.Requests()
	}

	if cfg.Watch {
		if !pl.cfg.Loader.IsLocal() {
			logger.Logf(logger.Allow, "playmode", "cannot watch %s for changes", pl.cfg.Loader.Filename)
		} else {
			pl.watch, err = newWatcher(pl.cfg.Loader.LocalPath())
			if err != nil {
				return curated.Errorf(PlayError, err)
			}
			defer pl.watch.close()
		}
	}

	lim, err := limiter.NewFPSLimiter(ctx, cfg.FPS)
	if err != nil {
		return curated.Errorf(PlayError, err)
	}

	for cfg.Frames <= 0 || pl.frames < cfg.Frames {
		quit, err := pl.eventHandler(ctx)
		if err != nil {
			return curated.Errorf(PlayError, err)
		}
		if quit {
			break
		}

		lim.Wait()
		pl.frame()
	}

	return nil
}

// run a single frame. the input sample is recorded before it is applied to
// the machine
func (pl *playmode) frame() {
	keys := pl.cfg.Input.Sample()
	if pl.sess != nil {
		pl.sess.OnFrame(trace.InputSample(keys))
	}
	pl.eng.vm.RunFrame(uint8(keys))
	pl.frames++
}

func (pl *playmode) startTrace() error {
	if !pl.cfg.Prefs.Enabled.Get().(bool) {
		logger.Log(logger.Allow, "playmode", "trace disabled")
		return nil
	}

	snd := pl.cfg.sender
	if snd == nil {
		var err error
		pl.client, err = transport.NewClient(pl.cfg.Prefs.Sink.String(), pl.cfg.Prefs.transportOptions()...)
		if err != nil {
			return err
		}
		snd = pl.client
	}

	var err error
	pl.sess, err = trace.NewSession(&pl.eng, snd,
		trace.WithCapacity(pl.cfg.Prefs.Capacity.Get().(int)),
		trace.WithObserver(pl.observe),
	)
	if err != nil {
		return err
	}

	if pl.client != nil {
		logger.Logf(logger.Allow, "playmode", "trace windows of %d frames to %s", pl.sess.Capacity(), pl.client.Address())
	}

	return nil
}

// there is no flush when play ends. a partial window is lost
func (pl *playmode) endTrace() {
	if pl.sess != nil {
		logger.Logf(logger.Allow, "playmode", "trace: %s", pl.sess.Stats())
	}
	if pl.client != nil {
		_ = pl.client.Close()
	}

	if pl.cfg.Output != nil {
		fmt.Fprintf(pl.cfg.Output, "%d frames\n", pl.frames)
		if pl.sess != nil {
			fmt.Fprintf(pl.cfg.Output, "trace: %s\n", pl.sess.Stats())
		}
	}
}

// observe trace events. called by the session on the frame loop goroutine
func (pl *playmode) observe(ev trace.Event) {
	switch ev.Kind {
	case trace.EventDropped:
		if !pl.dropping {
			logger.Logf(logger.Allow, "playmode", "trace window %d dropped. sink unavailable", ev.Window)
			pl.dropping = true
		}
	case trace.EventSent:
		if pl.dropping {
			logger.Logf(logger.Allow, "playmode", "trace window %d sent", ev.Window)
			pl.dropping = false
		}
	case trace.EventDiscarded:
		logger.Logf(logger.Allow, "playmode", "trace window %d discarded (%d frames)", ev.Window, ev.Len)
	}
}
