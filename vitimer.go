// This file is part of Vitimer.
//
// Vitimer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vitimer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vitimer.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jetsetilly/vitimer/digest"
	"github.com/jetsetilly/vitimer/environment"
	"github.com/jetsetilly/vitimer/govern"
	"github.com/jetsetilly/vitimer/hardware"
	"github.com/jetsetilly/vitimer/hardware/clocks"
	"github.com/jetsetilly/vitimer/hardware/cpu"
	"github.com/jetsetilly/vitimer/hardware/preferences"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
	"github.com/jetsetilly/vitimer/limiter"
	"github.com/jetsetilly/vitimer/logger"
	"github.com/jetsetilly/vitimer/modalflag"
	"github.com/jetsetilly/vitimer/paths"
	"github.com/jetsetilly/vitimer/prefs"
	"github.com/jetsetilly/vitimer/script"
	"github.com/jetsetilly/vitimer/statsview"
	"github.com/jetsetilly/vitimer/version"
	"github.com/jetsetilly/vitimer/wavwriter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(launch(ctx, os.Args[1:], os.Stdout))
}

// launch the mode selected by the arguments. returns the exit value for the
// program
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "PROFILE", "SCRIPT", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* %s\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)
	case "PROFILE":
		err = profile(md, output)
	case "SCRIPT":
		err = runScript(md, output)
	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return 20
	}

	return 0
}

// flags shared by modes that create a machine
type machineFlags struct {
	spec      *string
	override  *string
	prefs     *string
	log       *bool
	statsview *bool
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	f := machineFlags{
		spec:     md.AddString("spec", "", fmt.Sprintf("video standard: %s", strings.Join(specification.IDs(), ", "))),
		override: md.AddString("override", "", "force refresh rate for all video standards. eg. 60fps"),
		prefs:    md.AddString("prefs", "", "preferences for this session. eg. \"ai.rate::48000; cpu.clock::93750000\""),
		log:      md.AddBool("log", false, "echo log to stdout"),
	}
	if statsview.Available() {
		f.statsview = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}
	return f
}

// create the machine described by the preferences file and the flags
func newMachine(f machineFlags, output io.Writer) (*hardware.Machine, *environment.Environment, error) {
	if *f.log {
		logger.SetEcho(output, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if f.statsview != nil && *f.statsview {
		statsview.Launch(output)
	}

	prefs.PushCommandLineStack(*f.prefs)
	defer func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "vitimer", "unused preferences: %s", unused)
		}
	}()

	hwPrefs, err := preferences.NewPreferences()
	if err != nil {
		return nil, nil, err
	}

	if *f.spec != "" {
		if err := hwPrefs.Spec.Set(*f.spec); err != nil {
			return nil, nil, err
		}
	}
	if *f.override != "" {
		if err := hwPrefs.Override.Set(*f.override); err != nil {
			return nil, nil, err
		}
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, hwPrefs)
	if err != nil {
		return nil, nil, err
	}

	m, err := hardware.NewMachine(env)
	if err != nil {
		return nil, nil, err
	}

	return m, env, nil
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	mf := addMachineFlags(md)
	frames := md.AddInt("frames", 60, "number of frames to run. zero to run until interrupted")
	limit := md.AddBool("limit", false, "limit emulation to the refresh rate")
	maxCycles := md.AddInt("maxcycles", cpu.MaxInstructionCycles, "length of longest synthetic instruction")
	deterministic := md.AddBool("deterministic", false, "use predictable instruction lengths")
	wav := md.AddString("wav", "", "write click track to wav file. requires ai.rate. use 'auto' to generate a filename")
	memviz := md.AddString("memviz", "", "write graphviz file of scheduler on exit")
	md.AdditionalHelp("The synthetic interpreter runs instructions of random length between\none and maxcycles cycles.")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	m, env, err := newMachine(mf, output)
	if err != nil {
		return err
	}

	if *deterministic {
		env.Random.ZeroSeed = true
		env.Random.Reset()
	}

	exec := cpu.NewSynthetic(env.Random)
	exec.MaxCycles = *maxCycles

	dig := digest.NewEvents(m.Interrupts, m.Scheduler)
	m.Scheduler.Plumb(dig)

	var frameCallbacks []func()

	if *limit {
		lmtr, err := limiter.NewLimiter(m.NominalRefreshHz())
		if err != nil {
			return err
		}
		defer lmtr.Stop()
		frameCallbacks = append(frameCallbacks, func() {
			lmtr.CheckFrame()
			lmtr.MeasureActual()
		})
		defer func() {
			fmt.Fprintf(output, "limiter: %s\n", lmtr)
		}()
	}

	if *wav != "" {
		rate, ok := m.AudioPeriod()
		if !ok {
			return fmt.Errorf("wav output requires the audio interrupt (ai.rate preference)")
		}

		fn := *wav
		if fn == "auto" {
			fn = fmt.Sprintf("%s.wav", paths.UniqueFilename("clicks", m.Profile().Spec.ID))
		}

		aw, err := wavwriter.New(fn, m.Profile().ClockHz/float64(rate))
		if err != nil {
			return err
		}
		frameCallbacks = append(frameCallbacks, aw.Click)
		m.Interrupts.SetCallback(scheduler.AudioInterrupt, aw.Sample)
		defer func() {
			if err := aw.EndMixing(); err != nil {
				fmt.Fprintf(output, "* %s\n", err)
			}
		}()
	}

	m.Interrupts.SetFrameCallback(func() {
		for _, f := range frameCallbacks {
			f()
		}
	})

	if *memviz != "" {
		defer func() {
			f, err := os.Create(*memviz)
			if err != nil {
				fmt.Fprintf(output, "* memviz: %s\n", err)
				return
			}
			defer f.Close()
			m.Scheduler.Visualise(f)
		}()
	}

	fmt.Fprintf(output, "%s\n", m.Profile())

	target := m.Frames() + uint64(*frames)
	start := time.Now()

	err = m.Run(exec, func() (govern.State, error) {
		if ctx.Err() != nil {
			return govern.Ending, nil
		}
		if *frames > 0 && m.Frames() >= target {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	emulated := float64(m.Clock.Now()) / m.Profile().ClockHz

	fmt.Fprintf(output, "%d frames in %d cycles (%.3fs emulated, %.3fs real)\n",
		m.Frames(), m.Clock.Now(), emulated, elapsed.Seconds())
	fmt.Fprintf(output, "%d instructions\n", exec.Instructions)
	fmt.Fprintf(output, "digest: %s\n", dig)

	return nil
}

func profile(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	clock := md.AddFloat64("clock", clocks.R4300, "CPU clock in Hz")
	override := md.AddString("override", "60", "override to compare with native timing")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	ovr, err := timing.ParseOverride(*override)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%-6s %-10s %12s %12s\n", "spec", "override", "vi period", "refresh")
	for _, spec := range specification.SpecList {
		for _, o := range []timing.Override{timing.NoOverride, ovr} {
			prof, err := timing.Resolve(spec, o, *clock)
			if err != nil {
				return err
			}
			fmt.Fprintf(output, "%-6s %-10s %12d %12.4f\n", spec.ID, o, prof.VIPeriod, prof.NominalRefreshHz)
		}
	}

	return nil
}

func runScript(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	mf := addMachineFlags(md)

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return errors.New("lua script required")
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	m, env, err := newMachine(mf, output)
	if err != nil {
		return err
	}

	scr := script.NewScript(m, cpu.NewSynthetic(env.Random), output)
	defer scr.Close()

	return scr.RunFile(md.GetArg(0))
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	revision := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Fprintln(output, r)
	}

	return nil
}
