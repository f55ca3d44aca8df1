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

	"github.com/jetsetilly/vitimer/hardware/clocks"
	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
)

// State is the persistent state of a Machine. It is produced by the
// Snapshot() function and can be restored with the Plumb() function.
//
// Pending events are recorded as offsets from the cycle count. The timing
// profile is recorded as the configuration that produced it and is resolved
// again when the state is plumbed in.
type State struct {
	Cycle    uint64
	Spec     string
	Override timing.Override
	Events   []scheduler.Offset
}

func (s *State) String() string {
	return fmt.Sprintf("cycle %d %s override=%s events=%d", s.Cycle, s.Spec, s.Override, len(s.Events))
}

// Snapshot the state of the machine.
func (m *Machine) Snapshot() *State {
	now := m.Clock.Now()
	return &State{
		Cycle:    now,
		Spec:     m.profile.Spec.ID,
		Override: m.profile.Override,
		Events:   m.Scheduler.Offsets(now),
	}
}

// Plumb a previously snapshotted state. The clock speed and audio rate of the
// machine are unchanged. A state taken from a machine with a different audio
// rate is a faults.ConfigurationError. If the state cannot be restored the
// machine is left unchanged.
//
// The interrupt latch is not part of the state and is cleared.
func (m *Machine) Plumb(state *State) error {
	m.checkGoroutine()

	if state == nil {
		return fmt.Errorf("machine: cannot plumb in a nil state")
	}

	spec, ok := specification.SearchSpec(state.Spec)
	if !ok {
		return fmt.Errorf("machine: %w: unknown video standard (%s)", faults.ConfigurationError, state.Spec)
	}
	prof, err := timing.Resolve(spec, state.Override, m.profile.ClockHz)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	// the period of a restored video interrupt must agree with the restored
	// profile. the audio interrupt is not part of the profile and must agree
	// with the audio rate of this machine
	var compare uint32
	var compareSet bool
	var audio bool
	for _, o := range state.Events {
		switch o.Kind {
		case scheduler.VideoInterrupt:
			if o.Period != prof.VIPeriod {
				return fmt.Errorf("machine: %w: VI period of %d does not match %s", faults.ConfigurationError, o.Period, prof)
			}
		case scheduler.AudioInterrupt:
			if o.Period != m.audioPeriod {
				return fmt.Errorf("machine: %w: AI period of %d does not match audio period of %d", faults.ConfigurationError, o.Period, m.audioPeriod)
			}
			audio = true
		case scheduler.CompareTimer:
			compare = uint32((int64(state.Cycle) + o.Offset) / clocks.CountDivider)
			compareSet = true
		}
	}

	if m.audioPeriod > 0 && !audio {
		return fmt.Errorf("machine: %w: state has no AI event but audio period is %d", faults.ConfigurationError, m.audioPeriod)
	}

	err = m.Scheduler.RestoreOffsets(state.Cycle, state.Events)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	m.Clock.Restore(state.Cycle)
	m.Interrupts.Reset()
	m.profile = prof
	m.compare = compare
	m.compareSet = compareSet

	return nil
}
