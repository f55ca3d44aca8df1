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

// Package script runs Lua scripts against a hardware.Machine. Scripts are
// used to describe timing scenarios: run for a number of frames, change the
// video standard part way through, take and restore snapshots or
// checkpoints, and check the cycles on which interrupts fired.
//
// The machine is available to the script through the global "vi" table:
//
//	vi.now()                    current cycle
//	vi.step(cycles)             advance the clock. returns a list of fired events
//	vi.run(frames)              run the interpreter for a number of frames
//	vi.frames()                 number of video interrupts since reset
//	vi.period()                 cycles between video interrupts
//	vi.refresh()                reported refresh rate
//	vi.spec()                   video standard
//	vi.reconfigure(spec, rate)  change the video timing. rate can be nil or "none"
//	vi.compare(value)           set the COMPARE register
//	vi.count()                  value of the COUNT register
//	vi.next()                   cycle and kind of the next event
//	vi.last(kind)               cycle of the most recent event of the kind
//	vi.pending(kind)            true if the kind's interrupt is latched
//	vi.ack(kind)                acknowledge the kind's interrupt
//	vi.snapshot()               take a snapshot. returns an id
//	vi.restore(id)              restore a snapshot
//	vi.checkpoint()             take a complete copy of the timing state. returns an id
//	vi.rollback(id)             return to a checkpoint, including the interrupt latch
//	vi.reset()                  reset the machine
//	vi.log(msg)                 add an entry to the log
//
// Event kinds are named with the strings "VI", "AI", "COMPARE", "SI" and
// "PI". Errors from the machine are raised as Lua errors. The standard Lua
// print() function writes to the output given to NewScript().
package script
