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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/traceboy/test"
	"github.com/jetsetilly/traceboy/userinput"
)

func TestInputSource(t *testing.T) {
	src, done, err := inputSource("none")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, src.Sample(), userinput.None)
	done()

	src, _, err = inputSource("fixed:U+A")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, src.Sample(), userinput.Up|userinput.A)

	src, _, err = inputSource("script:R*2,-")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, src.Sample(), userinput.Right)
	test.ExpectEquality(t, src.Sample(), userinput.Right)
	test.ExpectEquality(t, src.Sample(), userinput.None)

	// the same seed produces the same input
	a, _, err := inputSource("random:100")
	test.DemandSuccess(t, err)
	b, _, err := inputSource("random:100")
	test.DemandSuccess(t, err)
	for i := 0; i < 100; i++ {
		test.ExpectEquality(t, a.Sample(), b.Sample(), i)
	}

	for _, s := range []string{"joystick", "fixed:Q", "random:x", "script:R*"} {
		_, _, err = inputSource(s)
		test.ExpectFailure(t, err, s)
	}
}

func TestLaunch(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	ctx := context.Background()

	test.ExpectEquality(t, launch(ctx, []string{"version"}), 0)
	test.ExpectEquality(t, launch(ctx, []string{"-nosuchflag"}), 20)

	test.ExpectEquality(t, launch(ctx, []string{"play", "-input", "none", "-fps", "0", "-frames", "100",
		"-prefs", "trace.enabled::false"}), 0)

	test.ExpectEquality(t, launch(ctx, []string{"play", "-input", "none", "-frames", "10",
		filepath.Join(t.TempDir(), "missing.tbx")}), 20)

	test.ExpectEquality(t, launch(ctx, []string{"play", "a", "b"}), 20)
}

func TestLaunchReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	db := filepath.Join(dir, "records.db")
	test.ExpectEquality(t, launch(context.Background(), []string{"collect", "-report", "-log=false",
		"-prefs", "collector.database::" + db}), 0)

	_, err := os.Stat(db)
	test.ExpectSuccess(t, err)
}
