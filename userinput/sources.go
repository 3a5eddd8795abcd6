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

package userinput

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/random"
)

// Sentinal error patterns.
const (
	ScriptError = "userinput: script: %v"
)

// Fixed is a source that always returns the same keys.
type Fixed Keys

// Sample implements the Source interface.
func (f Fixed) Sample() Keys {
	return Keys(f)
}

type step struct {
	keys   Keys
	frames int
}

// Script is a source that plays a sequence of keys. The sequence repeats once
// it has finished.
type Script struct {
	steps []step
	idx   int
	count int
}

// NewScript parses a script. A script is a comma separated list of keys, as
// understood by ParseKeys(), each optionally followed by an asterisk and the
// number of frames. For example:
//
//	R*30,R+A*5,-*10
//
// Is thirty frames with the right key pressed, five frames of right and A and
// then ten frames with no keys pressed.
func NewScript(script string) (*Script, error) {
	scr := &Script{}

	for _, s := range strings.Split(script, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		st := step{frames: 1}

		k, n, found := strings.Cut(s, "*")
		if found {
			v, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				return nil, curated.Errorf(ScriptError, err)
			}
			if v < 1 {
				return nil, curated.Errorf(ScriptError, fmt.Sprintf("frame count must be positive (%s)", s))
			}
			st.frames = v
		}

		var err error
		st.keys, err = ParseKeys(k)
		if err != nil {
			return nil, curated.Errorf(ScriptError, err)
		}

		scr.steps = append(scr.steps, st)
	}

	if len(scr.steps) == 0 {
		return nil, curated.Errorf(ScriptError, "empty script")
	}

	return scr, nil
}

// Len returns the number of frames in one iteration of the script.
func (scr *Script) Len() int {
	var n int
	for _, s := range scr.steps {
		n += s.frames
	}
	return n
}

// Sample implements the Source interface.
func (scr *Script) Sample() Keys {
	st := scr.steps[scr.idx]
	scr.count++
	if scr.count >= st.frames {
		scr.count = 0
		scr.idx++
		if scr.idx >= len(scr.steps) {
			scr.idx = 0
		}
	}
	return st.keys
}

// counts the number of key changes made by a Random source
type counter struct {
	n uint64
}

func (c *counter) Frame() uint64 {
	return c.n
}

// Random is a source that presses random keys. The keys change after a fixed
// number of frames.
type Random struct {
	rnd   *random.Random
	clock counter

	hold    int
	frame   int
	current Keys
}

// NewRandom creates a Random source. The same seed will always produce the
// same sequence of keys. A seed of zero is a different sequence every time.
// The hold value is the number of frames between changes.
func NewRandom(seed int64, hold int) *Random {
	if hold < 1 {
		hold = 1
	}
	r := &Random{
		hold: hold,
	}
	r.rnd = random.NewRandom(&r.clock)
	r.rnd.Seed = seed
	return r
}

// Sample implements the Source interface.
func (r *Random) Sample() Keys {
	if r.frame%r.hold == 0 {
		r.current = Keys(r.rnd.Intn(256))
		r.clock.n++
	}
	r.frame++
	return r.current
}
