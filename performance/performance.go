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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/traceboy/cartridgeloader"
	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/machine"
	"github.com/jetsetilly/traceboy/trace"
	"github.com/jetsetilly/traceboy/userinput"
)

// Sentinal error patterns.
const (
	PerformanceError = "performance: %v"
)

// the period before measurement begins. allows the frame rate to settle down
var leadTime = 2 * time.Second

// Result of a performance check.
type Result struct {
	Frames   uint64
	Duration time.Duration
	FPS      float64
	Accuracy float64

	// statistics from the trace session. zero if tracing was not enabled
	Trace trace.Stats
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%", r.FPS, r.Frames, r.Duration.Seconds(), r.Accuracy)
}

// discard is a trace.Sender that accepts everything
type discard struct {
	bytes int
}

func (d *discard) TrySend(record []byte) trace.SendResult {
	d.bytes += len(record)
	return trace.Sent
}

// Check the performance of the machine using the supplied program. Input is
// taken from the supplied source, or no input at all if source is nil.
//
// The machine runs uncapped for the duration. The result is compared against
// the target frame rate.
func Check(ctx context.Context, output io.Writer, profile bool, cl cartridgeloader.Loader, source userinput.Source, withTrace bool, duration time.Duration, target float64) (Result, error) {
	vm, err := machine.NewMachine(cl)
	if err != nil {
		return Result{}, curated.Errorf(PerformanceError, err)
	}

	if source == nil {
		source = userinput.Fixed(userinput.None)
	}

	var sess *trace.Session
	if withTrace {
		sess, err = trace.NewSession(vm, &discard{})
		if err != nil {
			return Result{}, curated.Errorf(PerformanceError, err)
		}
	}

	var startFrame uint64

	runner := func() error {
		lead := time.NewTimer(leadTime)
		defer lead.Stop()

		// measurement period begins when the lead time has elapsed
		var measure <-chan time.Time
		measuring := false

		for {
			select {
			case <-ctx.Done():
				return curated.Errorf(PerformanceError, ctx.Err())
			case <-lead.C:
				startFrame = vm.Frame()
				measuring = true
				if sess != nil {
					sess.OnReset()
				}
				t := time.NewTimer(duration)
				defer t.Stop()
				measure = t.C
			case <-measure:
				return nil
			default:
			}

			// checking the channels is relatively expensive so run a batch of
			// frames between each check
			for i := 0; i < 16; i++ {
				keys := source.Sample()
				if sess != nil && measuring {
					sess.OnFrame(trace.InputSample(keys))
				}
				vm.RunFrame(uint8(keys))
			}
		}
	}

	err = cpuProfile(profile, "cpu.profile", runner)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Frames:   vm.Frame() - startFrame,
		Duration: duration,
	}
	res.FPS, res.Accuracy = CalcFPS(res.Frames, duration.Seconds(), target)
	if sess != nil {
		res.Trace = sess.Stats()
	}

	if output != nil {
		fmt.Fprintln(output, res.String())
		if withTrace {
			fmt.Fprintf(output, "trace: %s\n", res.Trace)
		}
	}

	return res, memProfile(profile, "mem.profile")
}
