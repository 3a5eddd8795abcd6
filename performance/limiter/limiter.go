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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(ctx, 60)
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		runFrame()
//	}
//
// A limit of zero or less means that Wait() never waits.
package limiter

import (
	"context"
	"time"
)

// FpsLimiter will trigger every frames per second
type FpsLimiter struct {
	framesPerSecond int
	secondsPerFrame time.Duration

	ctx  context.Context
	tick chan bool
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type.
// The limiter stops when the context is cancelled. Wait() will not block after
// that.
func NewFPSLimiter(ctx context.Context, framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		ctx:  ctx,
		tick: make(chan bool),
	}
	lim.SetLimit(framesPerSecond)

	if lim.framesPerSecond <= 0 {
		return lim, nil
	}

	// run ticker concurrently
	go func() {
		adjustedSecondPerFrame := lim.secondsPerFrame
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
			case <-ctx.Done():
				return
			}

			time.Sleep(adjustedSecondPerFrame)
			nt := time.Now()
			adjustedSecondPerFrame -= nt.Sub(t) - lim.secondsPerFrame
			if adjustedSecondPerFrame < 0 {
				adjustedSecondPerFrame = 0
			}
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits. Changing between
// limited and unlimited is not possible after NewFPSLimiter().
func (lim *FpsLimiter) SetLimit(framesPerSecond int) {
	lim.framesPerSecond = framesPerSecond
	if framesPerSecond > 0 {
		lim.secondsPerFrame = time.Second / time.Duration(framesPerSecond)
	}
}

// Limit returns the current frames per second limit.
func (lim *FpsLimiter) Limit() int {
	return lim.framesPerSecond
}

// Wait will block until trigger
func (lim *FpsLimiter) Wait() {
	if lim.framesPerSecond <= 0 {
		return
	}
	select {
	case <-lim.tick:
	case <-lim.ctx.Done():
	}
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen
func (lim *FpsLimiter) HasWaited() bool {
	if lim.framesPerSecond <= 0 {
		return true
	}
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}
