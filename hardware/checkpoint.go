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
	"github.com/jetsetilly/vitimer/hardware/interrupts"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
)

// Checkpoint is a complete in-memory copy of the machine's timing state. It
// differs from State in that it includes the firing history of the scheduler
// and the interrupt latch. A Checkpoint can only be rolled back into the
// machine that created it and can be rolled back any number of times.
type Checkpoint struct {
	machine *Machine

	clock      *clocks.Counter
	scheduler  *scheduler.Scheduler
	interrupts *interrupts.Dispatcher

	profile    timing.Profile
	compare    uint32
	compareSet bool
}

func (cp *Checkpoint) String() string {
	return fmt.Sprintf("%s %s", cp.clock, cp.profile)
}

// Checkpoint the current state of the machine.
func (m *Machine) Checkpoint() *Checkpoint {
	return &Checkpoint{
		machine:    m,
		clock:      m.Clock.Snapshot(),
		scheduler:  m.Scheduler.Snapshot(),
		interrupts: m.Interrupts.Snapshot(),
		profile:    m.profile,
		compare:    m.compare,
		compareSet: m.compareSet,
	}
}

// Rollback the machine to a checkpoint. Callbacks and the scheduler's
// dispatcher are unchanged.
func (m *Machine) Rollback(cp *Checkpoint) error {
	m.checkGoroutine()

	if cp == nil {
		return fmt.Errorf("machine: cannot rollback to a nil checkpoint")
	}
	if cp.machine != m {
		return fmt.Errorf("machine: checkpoint was created by a different machine")
	}

	// the checkpoint is copied again so that it can be reused
	sch := cp.scheduler.Snapshot()
	sch.Plumb(m.Scheduler.Dispatcher())
	*m.Scheduler = *sch

	m.Clock.Restore(cp.clock.Now())
	m.Interrupts.Restore(cp.interrupts)
	m.profile = cp.profile
	m.compare = cp.compare
	m.compareSet = cp.compareSet

	return nil
}
