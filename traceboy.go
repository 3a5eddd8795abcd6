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
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/traceboy/cartridgeloader"
	"github.com/jetsetilly/traceboy/collector"
	"github.com/jetsetilly/traceboy/logger"
	"github.com/jetsetilly/traceboy/machine"
	"github.com/jetsetilly/traceboy/modalflag"
	"github.com/jetsetilly/traceboy/performance"
	"github.com/jetsetilly/traceboy/playmode"
	"github.com/jetsetilly/traceboy/prefs"
	"github.com/jetsetilly/traceboy/statsview"
	"github.com/jetsetilly/traceboy/userinput"
	"github.com/jetsetilly/traceboy/version"
)

func main() {
	// #ctrlc cancels the context. modes are expected to end gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(launch(ctx, os.Args[1:]))
}

// launch returns the value to use with os.Exit()
func launch(ctx context.Context, args []string) int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("PLAY", "COLLECT", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "PLAY":
		err = play(ctx, md)

	case "COLLECT":
		err = collect(ctx, md)

	case "PERFORMANCE":
		err = perform(ctx, md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		logger.Tail(os.Stderr, 10)
		return 20
	}

	return 0
}

// the program named on the command line or the demo program if there is no
// argument
func programLoader(md *modalflag.Modes) (cartridgeloader.Loader, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return cartridgeloader.NewLoaderFromData("demo", machine.DemoProgram())
	case 1:
		return cartridgeloader.NewLoader(md.GetArg(0)), nil
	}
	return cartridgeloader.Loader{}, fmt.Errorf("too many arguments for %s mode", md)
}

// inputSource parses the value of the -input flag. the returned function
// should be called when the source is no longer required
func inputSource(value string) (userinput.Source, func(), error) {
	none := func() {}

	kind, arg, _ := strings.Cut(value, ":")
	switch strings.ToLower(kind) {
	case "", "none":
		return userinput.Fixed(userinput.None), none, nil

	case "fixed":
		k, err := userinput.ParseKeys(arg)
		if err != nil {
			return nil, none, err
		}
		return userinput.Fixed(k), none, nil

	case "script":
		scr, err := userinput.NewScript(arg)
		if err != nil {
			return nil, none, err
		}
		return scr, none, nil

	case "random":
		seed := time.Now().UnixNano()
		if arg != "" {
			var err error
			seed, err = strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, none, fmt.Errorf("random input: %w", err)
			}
		}
		return userinput.NewRandom(seed, userinput.DefaultHold), none, nil

	case "terminal":
		device := userinput.DefaultTerminal
		if arg != "" {
			device = arg
		}
		trm, err := userinput.NewTerminal(device, userinput.DefaultHold)
		if err != nil {
			return nil, none, err
		}
		return trm, func() { _ = trm.Close() }, nil
	}

	return nil, none, fmt.Errorf("unrecognised input type (%s)", kind)
}

// apply the -prefs flag to the preferences created by the create function
func withCommandLinePrefs[T any](values string, create func() (T, error)) (T, error) {
	if values != "" {
		prefs.PushCommandLineStack(values)
		defer func() {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				logger.Logf(logger.Allow, "prefs", "unused preferences: %s", unused)
			}
		}()
	}
	return create()
}

func setEcho(echo bool) {
	if echo {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}
}

func play(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	fps := md.AddInt("fps", playmode.DefaultFPS, "frames per second. zero for unlimited")
	frames := md.AddInt("frames", 0, "stop after number of frames. zero for no limit")
	input := md.AddString("input", "terminal", "input source: none, fixed:KEYS, script:SCRIPT, random[:SEED], terminal[:DEVICE]")
	watch := md.AddBool("watch", false, "reload program when the file changes")
	prefsValues := md.AddString("prefs", "", "preferences to override. eg. \"trace.sink::ws://localhost:1990/trace; trace.capacity::600\"")
	savePrefs := md.AddBool("saveprefs", false, "save preferences after applying -prefs values")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	md.AdditionalHelp("with no program argument the built-in demo program is played")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setEcho(*log)

	cl, err := programLoader(md)
	if err != nil {
		return err
	}

	pref, err := withCommandLinePrefs(*prefsValues, playmode.NewPreferences)
	if err != nil {
		return err
	}
	if *savePrefs {
		if err := pref.Save(); err != nil {
			return err
		}
	}

	src, done, err := inputSource(*input)
	if err != nil {
		return err
	}
	defer done()

	if *stats {
		statsview.Launch(os.Stdout)
	}

	return playmode.Play(ctx, playmode.Config{
		Loader: cl,
		Input:  src,
		FPS:    *fps,
		Frames: *frames,
		Watch:  *watch,
		Prefs:  pref,
		Output: os.Stdout,
	})
}

func collect(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	verify := md.AddString("verify", "", "program to verify records against")
	report := md.AddBool("report", false, "print a report of the database and exit")
	prefsValues := md.AddString("prefs", "", "preferences to override. eg. \"collector.websocket::localhost:1990\"")
	log := md.AddBool("log", true, "echo debugging log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	setEcho(*log)

	pref, err := withCommandLinePrefs(*prefsValues, collector.NewPreferences)
	if err != nil {
		return err
	}

	store, err := collector.OpenStore(pref.Database.String())
	if err != nil {
		return err
	}
	defer store.Close()

	if *report {
		return collector.Report(os.Stdout, store)
	}

	cfg := collector.Config{
		Listen:    pref.Listen.String(),
		Websocket: pref.Websocket.String(),
	}

	if *verify != "" {
		cfg.Verifier, err = collector.NewVerifier(cartridgeloader.NewLoader(*verify))
		if err != nil {
			return err
		}
	}

	srv, err := collector.NewServer(cfg, store)
	if err != nil {
		return err
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	err = srv.Serve(ctx)
	if err != nil {
		return err
	}

	st := srv.Stats()
	fmt.Printf("%d connections, %d records, %d rejected\n", st.Connections, st.Received, st.Rejected)
	if cfg.Verifier != nil {
		fmt.Printf("%d verified, %d mismatched\n", st.Verified, st.Mismatched)
	}

	return nil
}

func perform(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddDuration("duration", 5*time.Second, "run duration (note: there is a 2s overhead)")
	profile := md.AddBool("profile", false, "produce cpu and memory profiling reports")
	input := md.AddString("input", "random", "input source: none, fixed:KEYS, script:SCRIPT, random[:SEED]")
	withTrace := md.AddBool("trace", true, "run the trace session during the check")
	target := md.AddInt("fps", playmode.DefaultFPS, "target frame rate for the accuracy value")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setEcho(*log)

	cl, err := programLoader(md)
	if err != nil {
		return err
	}

	src, done, err := inputSource(*input)
	if err != nil {
		return err
	}
	defer done()

	_, err = performance.Check(ctx, os.Stdout, *profile, cl, src, *withTrace, *duration, float64(*target))
	return err
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Printf("%s %s\n", version.ApplicationName, v)
	if *revision {
		if r == "" {
			r = "no revision information"
		}
		fmt.Println(r)
	}

	return nil
}
