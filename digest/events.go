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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/vitimer/hardware/scheduler"
)

// the length of a single record: one byte for the kind and eight bytes for
// the cycle
const recordLength = 9

// the number of records in the buffer before the digest is updated
const numRecords = 1024

// the previous digest is stored at the head of the buffer
const bufferStart = sha1.Size

const bufferLength = bufferStart + numRecords*recordLength

// History is implemented by the scheduler.
type History interface {
	LastFired(kind scheduler.Kind) (uint64, bool)
}

// Events implements the scheduler.Dispatcher interface. Every fired event
// is added to the digest and then forwarded to the next dispatcher.
type Events struct {
	next    scheduler.Dispatcher
	history History

	digest   [sha1.Size]byte
	buffer   []byte
	bufferCt int

	// number of events in the digest
	count uint64
}

// NewEvents is the preferred method of initialisation for the Events type.
// The next argument can be nil.
func NewEvents(next scheduler.Dispatcher, history History) *Events {
	return &Events{
		next:     next,
		history:  history,
		buffer:   make([]byte, bufferLength),
		bufferCt: bufferStart,
	}
}

func (dig *Events) String() string {
	return fmt.Sprintf("%s (%d events)", dig.Hash(), dig.count)
}

// Hash returns the current digest value as a string.
func (dig *Events) Hash() string {
	if dig.bufferCt == bufferStart {
		return fmt.Sprintf("%x", dig.digest)
	}
	return fmt.Sprintf("%x", sha1.Sum(dig.buffer[:dig.bufferCt]))
}

// Count returns the number of events added to the digest.
func (dig *Events) Count() uint64 {
	return dig.count
}

// ResetDigest resets the current digest value to zero.
func (dig *Events) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	clear(dig.buffer)
	dig.bufferCt = bufferStart
	dig.count = 0
}

// Fire implements the scheduler.Dispatcher interface.
func (dig *Events) Fire(kind scheduler.Kind) {
	cycle, _ := dig.history.LastFired(kind)
	dig.Record(kind, cycle)

	if dig.next != nil {
		dig.next.Fire(kind)
	}
}

// Record an event in the digest.
func (dig *Events) Record(kind scheduler.Kind, cycle uint64) {
	dig.buffer[dig.bufferCt] = byte(kind)
	binary.LittleEndian.PutUint64(dig.buffer[dig.bufferCt+1:], cycle)
	dig.bufferCt += recordLength
	dig.count++

	if dig.bufferCt >= bufferLength {
		dig.flush()
	}
}

func (dig *Events) flush() {
	dig.digest = sha1.Sum(dig.buffer)
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = bufferStart
}
