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
	"github.com/jetsetilly/vitimer/hardware/scheduler"
)

// the number of CPU cycles for the COUNT register to wrap around
const comparePeriod = uint64(1<<32) * clocks.CountDivider

// Count returns the value of the COUNT register. COUNT increments once every
// clocks.CountDivider CPU cycles.
func (m *Machine) Count() uint32 {
	return uint32(m.Clock.Now() / clocks.CountDivider)
}

// Compare returns the value of the COMPARE register and whether it has been
// set since the last reset.
func (m *Machine) Compare() (uint32, bool) {
	return m.compare, m.compareSet
}

// SetCompare sets the COMPARE register. The CompareTimer event fires when
// COUNT next equals COMPARE and every time COUNT wraps around to the same
// value after that.
//
// If COUNT already equals COMPARE the event fires after COUNT has wrapped
// around.
func (m *Machine) SetCompare(compare uint32) error {
	m.checkGoroutine()

	ticks := m.Clock.Now() / clocks.CountDivider
	delta := uint64(compare - uint32(ticks))
	if delta == 0 {
		delta = 1 << 32
	}
	due := (ticks + delta) * clocks.CountDivider

	if err := m.Scheduler.Replace(scheduler.CompareTimer, due, comparePeriod); err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	m.compare = compare
	m.compareSet = true
	m.Interrupts.Acknowledge(scheduler.CompareTimer)

	return nil
}
