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

package scheduler

import (
	"fmt"
)

// Event represents a single pending hardware event.
type Event struct {
	Kind Kind

	// the cycle on which the event will fire
	Due uint64

	// the number of cycles added to Due when the event fires. a value of zero
	// indicates that the event is a one-shot event and will be forgotten once
	// it fires
	Period uint64

	// position in the queue. maintained by the heap functions
	index int
}

func (ev Event) String() string {
	if ev.Periodic() {
		return fmt.Sprintf("%s -> %d (every %d)", ev.Kind, ev.Due, ev.Period)
	}
	return fmt.Sprintf("%s -> %d", ev.Kind, ev.Due)
}

// Periodic returns true if the event will be rescheduled once it fires.
func (ev Event) Periodic() bool {
	return ev.Period > 0
}

// queue implements heap.Interface. ordering is by due cycle and then by kind
type queue []*Event

func (q queue) Len() int {
	return len(q)
}

func (q queue) Less(i, j int) bool {
	if q[i].Due == q[j].Due {
		return q[i].Kind < q[j].Kind
	}
	return q[i].Due < q[j].Due
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	ev := x.(*Event)
	ev.index = len(*q)
	*q = append(*q, ev)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*q = old[:n-1]
	return ev
}
