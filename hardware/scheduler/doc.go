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

// Package scheduler keeps the hardware events that are due to happen at some
// point in the future, measured in CPU cycles.
//
// An event is either periodic or one-shot. A periodic event is rescheduled
// every time it fires. The new due cycle is always calculated from the
// previous due cycle and never from the current cycle. This means that if the
// scheduler is checked late (because the interpreter executes instructions in
// blocks, for example) the phase of the event is not disturbed.
//
// There is only ever one pending event for each Kind. Changing the period of
// an event is done with the Replace() function.
//
// Events that are due on the same cycle fire in the order in which the Kind
// values are declared. VideoInterrupt always fires first.
//
// The scheduler is not safe for concurrent use. It is expected to be driven
// from the same goroutine as the interpreter.
package scheduler
