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

	"github.com/jetsetilly/vitimer/govern"
)

// Executor is implemented by the instruction interpreter.
type Executor interface {
	// Execute instructions until at least budget cycles have been consumed
	// and return the number of cycles actually consumed. The final
	// instruction can take the count past the budget.
	Execute(budget uint64) (uint64, error)
}

// the budget given to the executor when there are no pending events
const defaultBudget = 1 << 20

// Run the interpreter as quickly as possible. The interpreter is given a
// budget that takes it up to the next scheduled event. Due events are fired
// after every call to Execute().
//
// The continueCheck() function is called after every batch of instructions.
// The emulation continues while it returns govern.Running or govern.Paused. A
// nil continueCheck() will run the emulation forever.
func (m *Machine) Run(exec Executor, continueCheck func() (govern.State, error)) error {
	m.checkGoroutine()

	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state.Continue() {
		switch state {
		case govern.Running:
			budget := uint64(defaultBudget)
			if due, ok := m.Scheduler.PeekNextDeadline(); ok {
				now := m.Clock.Now()
				if due <= now {
					// overdue events are possible after a state has been
					// plumbed in. they fire before the interpreter runs
					m.Step(0)
					break
				}
				budget = due - now
			}

			n, err := exec.Execute(budget)
			if err != nil {
				return err
			}
			m.Step(n)
		case govern.Paused:
		default:
			return fmt.Errorf("machine: unsupported emulation state (%s) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForFrames runs the interpreter until numFrames video interrupts have
// fired. Useful for regression tests and for measuring the timing of a
// profile.
func (m *Machine) RunForFrames(exec Executor, numFrames int) error {
	if numFrames < 0 {
		return fmt.Errorf("machine: cannot run for a negative number of frames (%d)", numFrames)
	}
	target := m.Frames() + uint64(numFrames)
	return m.Run(exec, func() (govern.State, error) {
		if m.Frames() >= target {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
}
