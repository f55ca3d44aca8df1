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

// Package hardware is the base package for the timing core. The Machine type
// gathers the cycle counter, the event scheduler and the interrupt dispatcher
// and keeps them consistent with the timing profile selected by the
// preferences.
//
// The instruction interpreter is not part of the package. It drives the
// Machine either by reporting executed cycles with Step() or by implementing
// the Executor interface and handing control to Run().
//
//	m, err := hardware.NewMachine(env)
//	m.Interrupts.SetFrameCallback(func() { ... })
//	err = m.RunForFrames(interpreter, 60)
//
// A Machine must only be used from the goroutine that created it. Frames can
// be passed to another goroutine with an interrupts.FrameSignal.
package hardware
