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
	"container/heap"
	"fmt"
	"sort"
)

// Snapshot creates a copy of the scheduler. The copy has no dispatcher until
// one is plumbed in with Plumb().
func (sch *Scheduler) Snapshot() *Scheduler {
	n := &Scheduler{
		Label:     sch.Label,
		perm:      sch.perm,
		queue:     make(queue, 0, len(sch.queue)),
		lastFired: sch.lastFired,
		hasFired:  sch.hasFired,
		fired:     make([]Kind, 0, NumKinds),
	}
	for _, ev := range sch.queue {
		c := *ev
		n.queue = append(n.queue, &c)
		n.pending[c.Kind] = &c
	}
	return n
}

// Plumb a new dispatcher into the scheduler. Used after a snapshot has been
// restored.
func (sch *Scheduler) Plumb(dispatcher Dispatcher) {
	sch.dispatcher = dispatcher
}

// Dispatcher returns the dispatcher currently plumbed into the scheduler.
func (sch *Scheduler) Dispatcher() Dispatcher {
	return sch.dispatcher
}

// Offset records a pending event relative to a reference cycle. This is the
// form in which pending events are persisted.
type Offset struct {
	Kind Kind

	// the number of cycles between the reference cycle and the due cycle. the
	// value is negative if the event is overdue
	Offset int64

	// zero for one-shot events
	Period uint64
}

// Offsets returns the pending events relative to the now cycle, ordered by
// due cycle and then by kind.
func (sch *Scheduler) Offsets(now uint64) []Offset {
	evs := make([]*Event, len(sch.queue))
	copy(evs, sch.queue)
	sort.Slice(evs, func(i, j int) bool {
		return queue(evs).Less(i, j)
	})

	offs := make([]Offset, 0, len(evs))
	for _, ev := range evs {
		offs = append(offs, Offset{
			Kind:   ev.Kind,
			Offset: int64(ev.Due - now),
			Period: ev.Period,
		})
	}
	return offs
}

// RestoreOffsets replaces all pending events with the events described by the
// offsets, relative to the now cycle. Firing history is forgotten.
//
// The offsets are checked before any change is made. If any offset is invalid
// the scheduler is left unchanged.
func (sch *Scheduler) RestoreOffsets(now uint64, offsets []Offset) error {
	var seen [NumKinds]bool
	for _, o := range offsets {
		if !o.Kind.Valid() {
			return sch.violation("cannot restore unknown event kind (%d)", o.Kind)
		}
		if seen[o.Kind] {
			return sch.violation("cannot restore more than one %s event", o.Kind)
		}
		if o.Offset < 0 && uint64(-o.Offset) > now {
			return fmt.Errorf("scheduler: cannot restore %s event before cycle zero", o.Kind)
		}
		seen[o.Kind] = true
	}

	sch.Reset()
	for _, o := range offsets {
		sch.insert(o.Kind, now+uint64(o.Offset), o.Period)
	}
	heap.Init(&sch.queue)

	return nil
}
