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

package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. The function does not test for this.
//
// Used to name WAV files written by the RUN mode when no output filename has
// been given.
//
// Format of returned string is:
//
//	prepend_label_YYYYMMDD_HHMMSS
//
// If label is empty the returned string will be of the format:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, label string) string {
	n := time.Now()
	timestamp := n.Format("20060102_150405")

	l := strings.TrimSpace(label)
	if len(l) > 0 {
		return fmt.Sprintf("%s_%s_%s", prepend, l, timestamp)
	}
	return fmt.Sprintf("%s_%s", prepend, timestamp)
}
