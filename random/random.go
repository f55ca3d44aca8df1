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

package random

import (
	"math/rand"
	"time"
)

var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Random is a source of random numbers. The zero value is ready to use.
type Random struct {
	rnd *rand.Rand

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(zeroSeed bool) *Random {
	rnd := &Random{ZeroSeed: zeroSeed}
	rnd.Reset()
	return rnd
}

// Reset the sequence of numbers. The sequence after a reset is the same as
// the sequence after the previous reset only if ZeroSeed is true.
func (rnd *Random) Reset() {
	seed := baseSeed
	if rnd.ZeroSeed {
		seed = 0
	} else {
		baseSeed++
	}
	rnd.rnd = rand.New(rand.NewSource(seed))
}

// Intn returns a random number in the range [0, n).
func (rnd *Random) Intn(n int) int {
	if rnd.rnd == nil {
		rnd.Reset()
	}
	return rnd.rnd.Intn(n)
}
