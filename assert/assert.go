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

// Package assert contains helpers for conditions that should never happen in
// a correctly functioning program. Whether a failed assertion is fatal depends
// on the build: when the program is built with the assertions build tag the
// Enabled constant is true and callers are expected to panic.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identify for a goroutine. it returns a result that
// is (a) different between goroutines and (b) consistent for a given
// goroutine. It should only ever be used for debugging or testing purposes.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// SameGoRoutine panics if called from a goroutine other than the one
// identified by id. It does nothing unless assertions are enabled.
func SameGoRoutine(id uint64, context string) {
	if !Enabled {
		return
	}
	if GetGoRoutineID() != id {
		panic(context + ": called from a goroutine other than the control goroutine")
	}
}
