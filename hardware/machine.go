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

package hardware

import (
	"fmt"

	"github.com/jetsetilly/vitimer/assert"
	"github.com/jetsetilly/vitimer/environment"
	"github.com/jetsetilly/vitimer/hardware/clocks"
	"github.com/jetsetilly/vitimer/hardware/interrupts"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
	"github.com/jetsetilly/vitimer/logger"
	"github.com/jetsetilly/vitimer/random"
)

// Machine is the main container for the timing components.
type Machine struct {
	env *environment.Environment

	Clock      *clocks.Counter
	Scheduler  *scheduler.Scheduler
	Interrupts *interrupts.Dispatcher

	profile timing.Profile

	// zero if the audio interrupt is disabled
	audioPeriod uint64

	// the value of the COMPARE register. only meaningful if compareSet is true
	compare    uint32
	compareSet bool

	// the goroutine that created the machine
	goroutine uint64
}

// NewMachine creates a new Machine with the timing profile described by the
// environment's preferences. An invalid profile is a faults.ConfigurationError.
func NewMachine(env *environment.Environment) (*Machine, error) {
	prof, err := env.Prefs.Resolve()
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	m := &Machine{
		env:        env,
		Clock:      clocks.NewCounter(),
		Interrupts: interrupts.NewDispatcher(),
		profile:    prof,
		goroutine:  assert.GetGoRoutineID(),
	}
	m.Scheduler = scheduler.NewScheduler(env, m.Interrupts)
	m.Scheduler.Label = string(env.Label)

	if rate := env.Prefs.AudioRate.Get().(float64); rate != 0 {
		m.audioPeriod, err = timing.Period(prof.ClockHz, rate)
		if err != nil {
			return nil, fmt.Errorf("machine: audio: %w", err)
		}
	}

	if err := m.schedule(); err != nil {
		return nil, err
	}

	logger.Log(env, "machine", prof)

	return m, nil
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s %s", m.Clock, m.profile)
}

// schedule the periodic events for a machine starting from the current cycle
func (m *Machine) schedule() error {
	now := m.Clock.Now()

	err := m.Scheduler.Replace(scheduler.VideoInterrupt, now+m.profile.VIPeriod, m.profile.VIPeriod)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	if m.audioPeriod > 0 {
		err := m.Scheduler.Replace(scheduler.AudioInterrupt, now+m.audioPeriod, m.audioPeriod)
		if err != nil {
			return fmt.Errorf("machine: %w", err)
		}
	}

	return nil
}

// the machine must only be used on the goroutine that created it. the check
// only happens when assertions are enabled
func (m *Machine) checkGoroutine() {
	assert.SameGoRoutine(m.goroutine, "machine")
}

// Random returns the source of random numbers for the machine's environment.
func (m *Machine) Random() *random.Random {
	return m.env.Random
}

// Profile returns the active timing profile.
func (m *Machine) Profile() timing.Profile {
	return m.profile
}

// NominalRefreshHz is the refresh rate reported to the rest of the
// emulation. It always agrees with the period of the video interrupt.
func (m *Machine) NominalRefreshHz() float64 {
	return m.profile.NominalRefreshHz
}

// AudioPeriod returns the number of cycles between audio interrupts. Returns
// false if the audio interrupt is disabled.
func (m *Machine) AudioPeriod() (uint64, bool) {
	return m.audioPeriod, m.audioPeriod > 0
}

// Frames returns the number of video interrupts since the last reset.
func (m *Machine) Frames() uint64 {
	return m.Interrupts.Count(scheduler.VideoInterrupt)
}

// Step advances the clock by the number of cycles executed by the
// interpreter and fires any events that are now due. The returned slice is
// reused by the next call to Step().
func (m *Machine) Step(delta uint64) []scheduler.Kind {
	m.checkGoroutine()
	m.Clock.Advance(delta)
	return m.Scheduler.AdvanceAndFire(m.Clock.Now())
}

// Reconfigure the video timing. The period of the video interrupt changes
// immediately: the next video interrupt will be one new period from the
// current cycle. Any pending video interrupt is discarded.
//
// If the new configuration is invalid the existing timing is unchanged.
func (m *Machine) Reconfigure(spec specification.Spec, override timing.Override) error {
	m.checkGoroutine()

	prof, err := timing.Resolve(spec, override, m.profile.ClockHz)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	now := m.Clock.Now()
	err = m.Scheduler.Replace(scheduler.VideoInterrupt, now+prof.VIPeriod, prof.VIPeriod)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}
	m.profile = prof

	logger.Logf(m.env, "machine", "reconfigured at cycle %d: %s", now, prof)

	return nil
}

// Reset the machine. The clock returns to zero and all events are
// rescheduled from cycle zero with the current timing profile. The COMPARE
// register is cleared and the compare timer will not fire until SetCompare()
// is called.
func (m *Machine) Reset() error {
	m.checkGoroutine()

	m.Clock.Reset()
	m.Scheduler.Reset()
	m.Interrupts.Reset()
	m.compare = 0
	m.compareSet = false

	return m.schedule()
}
