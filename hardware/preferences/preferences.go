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

package preferences

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/vitimer/hardware/clocks"
	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
	"github.com/jetsetilly/vitimer/paths"
	"github.com/jetsetilly/vitimer/prefs"
)

// Preferences defines and collates all the preference values used by the
// timing hardware.
type Preferences struct {
	dsk *prefs.Disk

	// the video standard. one of the IDs in specification.SpecList
	Spec prefs.String

	// the timing override. "none" or a refresh rate in Hz
	Override prefs.String

	// CPU clock in Hz
	ClockHz prefs.Float

	// audio interrupt rate in Hz. zero disables the audio interrupt
	AudioRate prefs.Float
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

// NewPreferencesFromFile is the same as NewPreferences() but with an explicit
// preferences file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("vi.spec", &p.Spec)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("vi.override", &p.Override)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("cpu.clock", &p.ClockHz)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("ai.rate", &p.AudioRate)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(false)
	if err != nil {
		// ignore missing prefs file errors
		if !errors.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.Spec.Set(specification.SpecNTSC.ID)
	p.Override.Set(timing.NoOverride.String())
	p.ClockHz.Set(clocks.R4300)
	p.AudioRate.Set(0.0)
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Resolve the timing profile described by the current preference values.
// Invalid values result in a faults.ConfigurationError.
func (p *Preferences) Resolve() (timing.Profile, error) {
	spec, ok := specification.SearchSpec(p.Spec.String())
	if !ok {
		return timing.Profile{}, fmt.Errorf("preferences: %w: unknown video standard (%s)", faults.ConfigurationError, p.Spec.String())
	}
	override, err := timing.ParseOverride(p.Override.String())
	if err != nil {
		return timing.Profile{}, fmt.Errorf("preferences: %w", err)
	}
	prof, err := timing.Resolve(spec, override, p.ClockHz.Get().(float64))
	if err != nil {
		return timing.Profile{}, fmt.Errorf("preferences: %w", err)
	}
	return prof, nil
}
