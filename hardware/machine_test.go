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

package hardware_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/vitimer/assert"
	"github.com/jetsetilly/vitimer/environment"
	"github.com/jetsetilly/vitimer/govern"
	"github.com/jetsetilly/vitimer/hardware"
	"github.com/jetsetilly/vitimer/hardware/cpu"
	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/hardware/interrupts"
	"github.com/jetsetilly/vitimer/hardware/preferences"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
	"github.com/jetsetilly/vitimer/test"
)

// create a normalised environment with preferences from the key/value pairs
func newEnv(t *testing.T, kv ...string) *environment.Environment {
	t.Helper()

	prefs, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	test.DemandSuccess(t, err)
	env.Normalise()

	for i := 0; i+1 < len(kv); i += 2 {
		switch kv[i] {
		case "vi.spec":
			test.DemandSuccess(t, prefs.Spec.Set(kv[i+1]))
		case "vi.override":
			test.DemandSuccess(t, prefs.Override.Set(kv[i+1]))
		case "cpu.clock":
			test.DemandSuccess(t, prefs.ClockHz.Set(kv[i+1]))
		case "ai.rate":
			test.DemandSuccess(t, prefs.AudioRate.Set(kv[i+1]))
		default:
			t.Fatalf("unknown preference: %s", kv[i])
		}
	}

	return env
}

func newMachine(t *testing.T, kv ...string) *hardware.Machine {
	t.Helper()
	m, err := hardware.NewMachine(newEnv(t, kv...))
	test.DemandSuccess(t, err)
	return m
}

func TestDefaultProfile(t *testing.T) {
	m := newMachine(t)
	test.ExpectEquality(t, m.NominalRefreshHz(), specification.NTSCRefreshRate)
	test.ExpectEquality(t, m.Profile().VIPeriod, 1559931)

	_, ok := m.AudioPeriod()
	test.ExpectFailure(t, ok)

	ev, ok := m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, ev.Due, 1559931)
	test.ExpectEquality(t, m.Scheduler.Len(), 1)
}

func TestUniversal60(t *testing.T) {
	for _, spec := range []string{"NTSC", "PAL"} {
		m := newMachine(t, "vi.spec", spec, "vi.override", "60")
		test.ExpectEquality(t, m.NominalRefreshHz(), 60.0, spec)
		test.ExpectEquality(t, m.Profile().VIPeriod, 1562500, spec)
	}

	m := newMachine(t, "vi.spec", "PAL")
	test.ExpectEquality(t, m.NominalRefreshHz(), 50.0)
	test.ExpectEquality(t, m.Profile().VIPeriod, 1875000)
}

func TestConfigurationError(t *testing.T) {
	_, err := hardware.NewMachine(newEnv(t, "vi.spec", "SECAM"))
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))

	_, err = hardware.NewMachine(newEnv(t, "cpu.clock", "-1"))
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))

	_, err = hardware.NewMachine(newEnv(t, "ai.rate", "-44100"))
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
}

func TestStepDriftFree(t *testing.T) {
	m := newMachine(t)

	var fired []uint64
	m.Interrupts.SetFrameCallback(func() {
		c, _ := m.Scheduler.LastFired(scheduler.VideoInterrupt)
		fired = append(fired, c)
	})

	// irregular steps of instruction-like lengths
	deltas := []uint64{1, 3, 7, 2, 5, 11}
	for i := 0; m.Clock.Now() < 20*1559931; i++ {
		m.Step(deltas[i%len(deltas)])
	}

	test.DemandEquality(t, len(fired), 20)
	for i, c := range fired {
		test.ExpectEquality(t, c, uint64(i+1)*1559931)
	}
	test.ExpectEquality(t, m.Frames(), 20)
}

func TestStepLate(t *testing.T) {
	m := newMachine(t)

	// a single large step fires every missed interrupt
	fired := m.Step(5 * 1559931)
	test.ExpectEquality(t, len(fired), 5)
	test.ExpectEquality(t, m.Frames(), 5)

	ev, _ := m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.ExpectEquality(t, ev.Due, 6*1559931)
}

func TestRunForFrames(t *testing.T) {
	m := newMachine(t, "vi.spec", "PAL", "vi.override", "60fps")
	exec := cpu.NewSynthetic(m.Random())

	test.DemandSuccess(t, m.RunForFrames(exec, 60))
	test.ExpectEquality(t, m.Frames(), 60)

	// the machine may have run a few cycles beyond the final interrupt but
	// never as far as the next one
	last, _ := m.Scheduler.LastFired(scheduler.VideoInterrupt)
	test.ExpectEquality(t, last, 60*1562500)
	test.ExpectSuccess(t, m.Clock.Now() >= last)
	test.ExpectSuccess(t, m.Clock.Now() < last+cpu.MaxInstructionCycles)

	// one second of emulated time
	test.ExpectApproximate(t, float64(m.Clock.Now()), m.Profile().ClockHz, 0.0001)
}

func TestRunStates(t *testing.T) {
	m := newMachine(t)
	exec := cpu.NewSynthetic(m.Random())

	var checks int
	err := m.Run(exec, func() (govern.State, error) {
		checks++
		switch {
		case checks < 5:
			return govern.Paused, nil
		case checks < 10:
			return govern.Running, nil
		}
		return govern.Ending, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, checks, 10)

	err = m.Run(exec, func() (govern.State, error) {
		return govern.Running, errors.New("test error")
	})
	test.ExpectFailure(t, err)

	// a failing executor stops the run
	exec.MaxCycles = 0
	err = m.Run(exec, nil)
	test.ExpectFailure(t, err)
}

func TestReconfigure(t *testing.T) {
	m := newMachine(t)
	test.ExpectEquality(t, m.NominalRefreshHz(), specification.NTSCRefreshRate)

	m.Step(1000000)
	err := m.Reconfigure(specification.SpecNTSC, timing.ForceUniformRate(60))
	test.DemandSuccess(t, err)

	// reported rate changes immediately
	test.ExpectEquality(t, m.NominalRefreshHz(), 60.0)
	test.ExpectEquality(t, m.Profile().VIPeriod, 1562500)

	// the old deadline is discarded. the next interrupt is one new period
	// from the point of reconfiguration
	ev, ok := m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, ev.Due, 1000000+1562500)
	test.ExpectEquality(t, ev.Period, 1562500)
	test.ExpectEquality(t, m.Scheduler.Len(), 1)

	fired := m.Step(1562500)
	test.ExpectEquality(t, len(fired), 1)
	ev, _ = m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.ExpectEquality(t, ev.Due, 1000000+2*1562500)
}

func TestReconfigureInvalid(t *testing.T) {
	m := newMachine(t, "vi.spec", "PAL")
	before := m.Profile()

	err := m.Reconfigure(specification.SpecNTSC, timing.ForceUniformRate(-60))
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
	test.ExpectEquality(t, m.Profile(), before)

	ev, _ := m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.ExpectEquality(t, ev.Due, 1875000)
}

func TestAudioInterrupt(t *testing.T) {
	m := newMachine(t, "ai.rate", "48000")

	p, ok := m.AudioPeriod()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, p, 1953)

	m.Step(1953 * 10)
	test.ExpectEquality(t, m.Interrupts.Count(scheduler.AudioInterrupt), 10)
	test.ExpectSuccess(t, m.Interrupts.IsPending(scheduler.AudioInterrupt))
	test.ExpectFailure(t, m.Interrupts.IsPending(scheduler.VideoInterrupt))
}

func TestCompare(t *testing.T) {
	m := newMachine(t)

	test.DemandSuccess(t, m.SetCompare(100))
	ev, ok := m.Scheduler.Pending(scheduler.CompareTimer)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, ev.Due, 200)
	test.ExpectEquality(t, ev.Period, uint64(1)<<33)

	m.Step(199)
	test.ExpectFailure(t, m.Interrupts.IsPending(scheduler.CompareTimer))
	m.Step(1)
	test.ExpectSuccess(t, m.Interrupts.IsPending(scheduler.CompareTimer))
	test.ExpectEquality(t, m.Count(), 100)

	// writing COMPARE acknowledges the interrupt. COUNT already equals
	// COMPARE so the next interrupt is after COUNT wraps around
	test.DemandSuccess(t, m.SetCompare(100))
	test.ExpectFailure(t, m.Interrupts.IsPending(scheduler.CompareTimer))
	ev, _ = m.Scheduler.Pending(scheduler.CompareTimer)
	test.ExpectEquality(t, ev.Due, 200+uint64(1)<<33)

	// COMPARE less than COUNT also wraps around
	m.Step(1001)
	test.DemandSuccess(t, m.SetCompare(50))
	ev, _ = m.Scheduler.Pending(scheduler.CompareTimer)
	test.ExpectEquality(t, ev.Due, uint64(50)*2+uint64(1)<<33)

	c, ok := m.Compare()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, c, 50)
}

func TestReset(t *testing.T) {
	m := newMachine(t, "ai.rate", "44100")
	test.DemandSuccess(t, m.SetCompare(1000))
	m.Step(5000000)
	test.ExpectInequality(t, m.Frames(), 0)

	test.DemandSuccess(t, m.Reset())
	test.ExpectEquality(t, m.Clock.Now(), 0)
	test.ExpectEquality(t, m.Frames(), 0)
	test.ExpectFailure(t, m.Interrupts.Pending())
	test.ExpectEquality(t, m.Scheduler.Len(), 2)

	_, ok := m.Compare()
	test.ExpectFailure(t, ok)

	ev, _ := m.Scheduler.Pending(scheduler.VideoInterrupt)
	test.ExpectEquality(t, ev.Due, 1559931)
}

func TestSnapshot(t *testing.T) {
	m := newMachine(t, "ai.rate", "32000")
	test.DemandSuccess(t, m.SetCompare(123456))
	test.DemandSuccess(t, m.Reconfigure(specification.SpecPAL, timing.ForceUniformRate(60)))
	m.Step(3000001)

	state := m.Snapshot()
	test.ExpectEquality(t, state.Cycle, 3000001)
	test.ExpectEquality(t, state.Spec, "PAL")
	test.ExpectEquality(t, state.Override, timing.ForceUniformRate(60))
	test.ExpectEquality(t, len(state.Events), 3)

	// a second machine with a different configuration
	n := newMachine(t, "ai.rate", "32000")
	test.DemandSuccess(t, n.Plumb(state))
	test.ExpectEquality(t, n.Clock.Now(), m.Clock.Now())
	test.ExpectEquality(t, n.Profile(), m.Profile())
	test.ExpectEquality(t, n.Scheduler.String(), m.Scheduler.String())

	c, ok := n.Compare()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, c, 123456)

	// both machines fire identical sequences from now on
	for _, d := range []uint64{1, 500, 1562500, 3, 246912, 1000000} {
		a := append([]scheduler.Kind{}, m.Step(d)...)
		b := append([]scheduler.Kind{}, n.Step(d)...)
		test.ExpectEquality(t, len(a), len(b))
		for i := range a {
			test.ExpectEquality(t, a[i], b[i])
		}
	}

	// restoring the original snapshot undoes the steps
	test.DemandSuccess(t, m.Plumb(state))
	test.ExpectEquality(t, m.Clock.Now(), 3000001)
}

func TestPlumbInvalid(t *testing.T) {
	m := newMachine(t)
	before := m.Scheduler.String()

	test.ExpectFailure(t, m.Plumb(nil))

	err := m.Plumb(&hardware.State{Spec: "SECAM"})
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))

	// VI period disagrees with the profile
	err = m.Plumb(&hardware.State{
		Cycle: 100,
		Spec:  "NTSC",
		Events: []scheduler.Offset{
			{Kind: scheduler.VideoInterrupt, Offset: 10, Period: 1562500},
		},
	})
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))

	test.ExpectEquality(t, m.Scheduler.String(), before)
	test.ExpectEquality(t, m.Clock.Now(), 0)
}

func TestFrameSignal(t *testing.T) {
	m := newMachine(t, "vi.override", "60")
	exec := cpu.NewSynthetic(m.Random())

	sig := interrupts.NewFrameSignal()
	m.Interrupts.SetFrameCallback(func() {
		sig.Offer(m.Frames())
	})

	done := make(chan uint64)
	go func() {
		var last uint64
		for f := range sig.C() {
			last = f
			if f == 120 {
				break
			}
		}
		done <- last
	}()

	test.DemandSuccess(t, m.RunForFrames(exec, 120))
	test.ExpectEquality(t, <-done, 120)
}

// budgetExecutor consumes exactly the budget it is given and records every
// budget
type budgetExecutor struct {
	budgets []uint64
}

func (e *budgetExecutor) Execute(budget uint64) (uint64, error) {
	e.budgets = append(e.budgets, budget)
	return budget, nil
}

func TestRunOverdue(t *testing.T) {
	m := newMachine(t)

	// the VI event was due ten cycles before the state was taken
	err := m.Plumb(&hardware.State{
		Cycle: 1000,
		Spec:  "NTSC",
		Events: []scheduler.Offset{
			{Kind: scheduler.VideoInterrupt, Offset: -10, Period: 1559931},
		},
	})
	test.DemandSuccess(t, err)

	// the overdue event fires without the executor being called
	exec := &budgetExecutor{}
	test.DemandSuccess(t, m.RunForFrames(exec, 1))
	test.ExpectEquality(t, len(exec.budgets), 0)
	test.ExpectEquality(t, m.Frames(), 1)
	test.ExpectEquality(t, m.Clock.Now(), 1000)

	last, _ := m.Scheduler.LastFired(scheduler.VideoInterrupt)
	test.ExpectEquality(t, last, 990)

	// the next budget runs exactly to the next deadline
	test.DemandSuccess(t, m.RunForFrames(exec, 1))
	test.DemandEquality(t, len(exec.budgets), 1)
	test.ExpectEquality(t, exec.budgets[0], 990+1559931-1000)
	test.ExpectEquality(t, m.Frames(), 2)
}

func TestRunForNegativeFrames(t *testing.T) {
	m := newMachine(t)
	exec := &budgetExecutor{}
	test.ExpectFailure(t, m.RunForFrames(exec, -1))
	test.ExpectEquality(t, len(exec.budgets), 0)
	test.ExpectEquality(t, m.Clock.Now(), 0)
}

func TestSetCompareError(t *testing.T) {
	if assert.Enabled {
		t.Skip("invariant violations panic when assertions are enabled")
	}

	m := newMachine(t)
	test.DemandSuccess(t, m.SetCompare(1000))
	m.Step(5000)

	// moving the clock backwards puts the new COMPARE event before the last
	// firing
	m.Clock.Restore(0)
	err := m.SetCompare(10)
	test.ExpectSuccess(t, errors.Is(err, faults.InvariantViolation))
	test.ExpectSuccess(t, strings.HasPrefix(err.Error(), "machine: "))

	c, _ := m.Compare()
	test.ExpectEquality(t, c, 1000)
}

func TestPlumbAudioMismatch(t *testing.T) {
	withAudio := newMachine(t, "ai.rate", "48000")
	withAudio.Step(10000)
	withoutAudio := newMachine(t)
	withoutAudio.Step(10000)

	err := withoutAudio.Plumb(withAudio.Snapshot())
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
	test.ExpectEquality(t, withoutAudio.Scheduler.Len(), 1)

	err = withAudio.Plumb(withoutAudio.Snapshot())
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
	test.ExpectEquality(t, withAudio.Scheduler.Len(), 2)

	// a different audio rate is also rejected
	otherRate := newMachine(t, "ai.rate", "44100")
	err = otherRate.Plumb(withAudio.Snapshot())
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))

	// matching audio rates are accepted and the AI event survives a reset
	sameRate := newMachine(t, "ai.rate", "48000")
	test.DemandSuccess(t, sameRate.Plumb(withAudio.Snapshot()))
	test.DemandSuccess(t, sameRate.Reset())
	_, ok := sameRate.Scheduler.Pending(scheduler.AudioInterrupt)
	test.ExpectSuccess(t, ok)
}

func TestCheckpoint(t *testing.T) {
	m := newMachine(t, "ai.rate", "48000")
	test.DemandSuccess(t, m.SetCompare(5000))
	m.Step(1559931 + 100)

	// a dispatcher plumbed in after the checkpoint survives the rollback
	var fired int
	m.Scheduler.Plumb(dispatchCounter{next: m.Interrupts, n: &fired})

	cp := m.Checkpoint()
	before := m.Scheduler.String()
	frames := m.Frames()
	latch := m.Interrupts.Latch()

	m.Interrupts.Acknowledge(scheduler.VideoInterrupt)
	test.DemandSuccess(t, m.Reconfigure(specification.SpecPAL, timing.NoOverride))
	m.Step(2000000)
	test.ExpectInequality(t, m.Frames(), frames)

	test.DemandSuccess(t, m.Rollback(cp))
	test.ExpectEquality(t, m.Clock.Now(), 1559931+100)
	test.ExpectEquality(t, m.Scheduler.String(), before)
	test.ExpectEquality(t, m.Frames(), frames)
	test.ExpectEquality(t, m.Interrupts.Latch(), latch)
	test.ExpectEquality(t, m.Profile().Spec.ID, "NTSC")

	last, ok := m.Scheduler.LastFired(scheduler.VideoInterrupt)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, last, 1559931)

	c, ok := m.Compare()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, c, 5000)

	// the checkpoint is unchanged by the steps after a rollback
	fired = 0
	m.Step(1559931)
	test.ExpectInequality(t, fired, 0)
	test.DemandSuccess(t, m.Rollback(cp))
	test.ExpectEquality(t, m.Scheduler.String(), before)

	// checkpoints belong to one machine
	test.ExpectFailure(t, newMachine(t).Rollback(cp))
	test.ExpectFailure(t, m.Rollback(nil))
}

// dispatchCounter counts fired events before passing them on
type dispatchCounter struct {
	next scheduler.Dispatcher
	n    *int
}

func (d dispatchCounter) Fire(kind scheduler.Kind) {
	*d.n++
	d.next.Fire(kind)
}
