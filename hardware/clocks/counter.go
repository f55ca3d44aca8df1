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

package clocks

import "fmt"

// Counter is the monotonic count of elapsed virtual CPU cycles. It is
// advanced by the interpreter and read by everything else.
//
// Overflow is not defended against. At 93.75 MHz a 64bit count will overflow
// after more than six thousand years of emulated time.
type Counter struct {
	now uint64
}

// NewCounter is the preferred method of initialisation for the Counter type.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) String() string {
	return fmt.Sprintf("cycle %d", c.now)
}

// Advance the count by delta cycles. The interpreter only ever reports cycles
// that have actually been executed so there is no negative delta.
func (c *Counter) Advance(delta uint64) {
	c.now += delta
}

// Now returns the current cycle count.
func (c *Counter) Now() uint64 {
	return c.now
}

// Reset the count to zero. Should only be called on machine reset.
func (c *Counter) Reset() {
	c.now = 0
}

// Snapshot creates a copy of the Counter.
func (c *Counter) Snapshot() *Counter {
	n := *c
	return &n
}

// Restore the count to a previously recorded value. Should only be called
// when plumbing in a snapshot.
func (c *Counter) Restore(now uint64) {
	c.now = now
}
