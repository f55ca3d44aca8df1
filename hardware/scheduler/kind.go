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

// Kind identifies the hardware event. The order of the declarations is the
// order in which events due on the same cycle will fire.
type Kind uint8

// List of valid Kind values.
const (
	VideoInterrupt Kind = iota
	AudioInterrupt
	CompareTimer
	SerialInterrupt
	PeripheralInterrupt

	// NumKinds is the number of valid Kind values. it is not a valid Kind
	NumKinds
)

func (k Kind) String() string {
	switch k {
	case VideoInterrupt:
		return "VI"
	case AudioInterrupt:
		return "AI"
	case CompareTimer:
		return "COMPARE"
	case SerialInterrupt:
		return "SI"
	case PeripheralInterrupt:
		return "PI"
	}
	return "unknown"
}

// Valid returns false if the Kind value is not one of the declared values.
func (k Kind) Valid() bool {
	return k < NumKinds
}
