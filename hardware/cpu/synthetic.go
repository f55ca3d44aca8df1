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

// Package cpu contains a stand-in for the instruction interpreter. The
// interpreter proper is not part of vitimer. The Synthetic type consumes
// cycles in the same pattern as an interpreter: whole instructions of varying
// length, the last of which may run past the cycle budget.
package cpu

import (
	"fmt"

	"github.com/jetsetilly/vitimer/random"
)

// MaxInstructionCycles is the default length of the longest synthetic
// instruction.
const MaxInstructionCycles = 8

// Synthetic implements the hardware.Executor interface.
type Synthetic struct {
	rnd *random.Random

	// length of the longest instruction in cycles. instructions are between
	// one and MaxCycles cycles long
	MaxCycles int

	// number of instructions executed since the last reset
	Instructions uint64
}

// NewSynthetic is the preferred method of initialisation for the Synthetic
// type.
func NewSynthetic(rnd *random.Random) *Synthetic {
	return &Synthetic{
		rnd:       rnd,
		MaxCycles: MaxInstructionCycles,
	}
}

func (cpu *Synthetic) String() string {
	return fmt.Sprintf("%d instructions", cpu.Instructions)
}

// Execute instructions until at least budget cycles have been consumed.
// Returns the number of cycles actually consumed.
func (cpu *Synthetic) Execute(budget uint64) (uint64, error) {
	if cpu.MaxCycles < 1 {
		return 0, fmt.Errorf("cpu: instruction length must be at least one cycle (%d)", cpu.MaxCycles)
	}

	var n uint64
	for n < budget {
		n += uint64(1 + cpu.rnd.Intn(cpu.MaxCycles))
		cpu.Instructions++
	}
	return n, nil
}

// Reset the instruction count.
func (cpu *Synthetic) Reset() {
	cpu.Instructions = 0
}
