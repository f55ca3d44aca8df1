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

// Package interrupts bridges fired scheduler events to the interrupt state
// of the CPU.
//
// Every event kind has a bit in the interrupt latch. A fired event sets its
// bit and the bit stays set until the CPU acknowledges it. The CPU's
// interrupt line is raised whenever a latched bit is also set in the mask.
//
// Callbacks can be registered for each kind. The callback for
// VideoInterrupt is the "frame boundary reached" signal for the presentation
// layer. Callbacks are called on the control goroutine and must not block. If
// the consumer runs on another goroutine then the Handoff type should be used
// to transfer ownership of the frame.
package interrupts

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/vitimer/hardware/scheduler"
)

// Mask is a bit field with one bit for every scheduler.Kind.
type Mask uint8

// MaskAll enables every interrupt.
const MaskAll Mask = (1 << scheduler.NumKinds) - 1

// Bit returns the bit for kind.
func Bit(kind scheduler.Kind) Mask {
	return 1 << kind
}

func (m Mask) String() string {
	s := strings.Builder{}
	for k := scheduler.Kind(0); k < scheduler.NumKinds; k++ {
		if m&Bit(k) != 0 {
			if s.Len() > 0 {
				s.WriteString("|")
			}
			s.WriteString(k.String())
		}
	}
	if s.Len() == 0 {
		return "-"
	}
	return s.String()
}

// Dispatcher implements the scheduler.Dispatcher interface.
type Dispatcher struct {
	latch Mask
	mask  Mask

	counts    [scheduler.NumKinds]uint64
	callbacks [scheduler.NumKinds]func()
}

// NewDispatcher is the preferred method of initialisation for the Dispatcher
// type. All interrupts are enabled in the mask.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		mask: MaskAll,
	}
}

func (d *Dispatcher) String() string {
	return fmt.Sprintf("latch=%s mask=%s", d.latch, d.mask)
}

// Fire implements the scheduler.Dispatcher interface. Sets the interrupt
// latch for the kind and calls any registered callback.
func (d *Dispatcher) Fire(kind scheduler.Kind) {
	if !kind.Valid() {
		return
	}

	d.latch |= Bit(kind)
	d.counts[kind]++

	if f := d.callbacks[kind]; f != nil {
		f()
	}
}

// SetCallback registers a function to be called whenever an event of the
// kind fires. A nil function removes the callback.
func (d *Dispatcher) SetCallback(kind scheduler.Kind, f func()) {
	if !kind.Valid() {
		return
	}
	d.callbacks[kind] = f
}

// SetFrameCallback registers the function to be called on every video
// interrupt.
func (d *Dispatcher) SetFrameCallback(f func()) {
	d.SetCallback(scheduler.VideoInterrupt, f)
}

// Pending returns true if any enabled interrupt is latched. This is the state
// of the CPU's interrupt line.
func (d *Dispatcher) Pending() bool {
	return d.latch&d.mask != 0
}

// IsPending returns true if the interrupt for the kind is latched, regardless
// of the mask.
func (d *Dispatcher) IsPending(kind scheduler.Kind) bool {
	return d.latch&Bit(kind) != 0
}

// Acknowledge clears the latched interrupt for the kind.
func (d *Dispatcher) Acknowledge(kind scheduler.Kind) {
	d.latch &^= Bit(kind)
}

// Latch returns the current state of the interrupt latch.
func (d *Dispatcher) Latch() Mask {
	return d.latch
}

// SetMask sets which latched interrupts raise the CPU's interrupt line.
func (d *Dispatcher) SetMask(mask Mask) {
	d.mask = mask & MaskAll
}

// Mask returns the current interrupt mask.
func (d *Dispatcher) Mask() Mask {
	return d.mask
}

// Count returns the number of times an event of the kind has fired since the
// last reset.
func (d *Dispatcher) Count(kind scheduler.Kind) uint64 {
	if !kind.Valid() {
		return 0
	}
	return d.counts[kind]
}

// Reset clears the latch and the fire counts and enables every interrupt.
// Callbacks are unchanged.
func (d *Dispatcher) Reset() {
	d.latch = 0
	d.mask = MaskAll
	d.counts = [scheduler.NumKinds]uint64{}
}

// Snapshot creates a copy of the latch, mask and fire counts. Callbacks are
// not copied.
func (d *Dispatcher) Snapshot() *Dispatcher {
	return &Dispatcher{
		latch:  d.latch,
		mask:   d.mask,
		counts: d.counts,
	}
}

// Restore the latch, mask and fire counts from a snapshot. Callbacks are
// unchanged.
func (d *Dispatcher) Restore(snapshot *Dispatcher) {
	d.latch = snapshot.latch
	d.mask = snapshot.mask
	d.counts = snapshot.counts
}
