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

// Package specification contains the definitions of the video standards
// supported by the emulation. A standard is identified by its ID and
// describes the native refresh rate of the video interface.
//
// Adding a new standard is a matter of adding a new Spec to SpecList. Nothing
// outside of this package branches on the identity of a standard.
package specification

import (
	"fmt"
	"strings"
)

// NTSCRefreshRate is the authentic field rate of the NTSC video interface.
// This is the single place where the value is defined. It should only ever be
// changed with reference to hardware measurements.
const NTSCRefreshRate = 60.0988

// PALRefreshRate is the field rate of the PAL video interface.
const PALRefreshRate = 50.0

// Spec is used to define a video standard.
type Spec struct {
	ID string

	// the number of video interrupts per second produced by the standard
	// when no override is in effect
	RefreshRate float64

	// the number of half-lines in a field. informational only
	ScanlinesTotal int
}

func (spec Spec) String() string {
	return fmt.Sprintf("%s (%.4fHz)", spec.ID, spec.RefreshRate)
}

// SpecNTSC is the specification for NTSC.
var SpecNTSC = Spec{
	ID:             "NTSC",
	RefreshRate:    NTSCRefreshRate,
	ScanlinesTotal: 525,
}

// SpecPAL is the specification for PAL.
var SpecPAL = Spec{
	ID:             "PAL",
	RefreshRate:    PALRefreshRate,
	ScanlinesTotal: 625,
}

// SpecList is the list of specifications that the video interface may adopt.
// The first entry is the default.
var SpecList = []Spec{SpecNTSC, SpecPAL}

// SearchSpec looks for a specification with the supplied ID. The search is
// case insensitive.
func SearchSpec(id string) (Spec, bool) {
	id = strings.TrimSpace(id)
	for _, s := range SpecList {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return Spec{}, false
}

// IDs returns the list of specification IDs.
func IDs() []string {
	ids := make([]string, 0, len(SpecList))
	for _, s := range SpecList {
		ids = append(ids, s.ID)
	}
	return ids
}
