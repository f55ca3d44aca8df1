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

package interrupts

import "sync/atomic"

// Handoff transfers values from the control goroutine to a consumer running
// on another goroutine. It holds at most one value. Offering a new value when
// the previous value has not been received replaces the previous value.
//
// Offer() never blocks and so is safe to call from an interrupt callback.
// Ownership of the offered value passes to the consumer. The producer must
// not alter it afterwards.
type Handoff[T any] struct {
	ch      chan T
	dropped atomic.Uint64
}

// NewHandoff is the preferred method of initialisation for the Handoff type.
func NewHandoff[T any]() *Handoff[T] {
	return &Handoff[T]{
		ch: make(chan T, 1),
	}
}

// Offer a value to the consumer. Should only be called by a single producer.
func (h *Handoff[T]) Offer(v T) {
	for {
		select {
		case h.ch <- v:
			return
		default:
		}

		// the consumer has not taken the previous value. discard it
		select {
		case <-h.ch:
			h.dropped.Add(1)
		default:
		}
	}
}

// C returns the channel on which the consumer receives values.
func (h *Handoff[T]) C() <-chan T {
	return h.ch
}

// Dropped returns the number of values that were replaced before the
// consumer received them.
func (h *Handoff[T]) Dropped() uint64 {
	return h.dropped.Load()
}

// FrameSignal carries the number of the most recently completed frame to the
// presentation goroutine.
type FrameSignal = Handoff[uint64]

// NewFrameSignal is the preferred method of initialisation for the
// FrameSignal type.
func NewFrameSignal() *FrameSignal {
	return NewHandoff[uint64]()
}
