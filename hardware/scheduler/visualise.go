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
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Visualise writes a graphviz representation of the scheduler's internal
// structure to io.Writer. Only intended for debugging.
func (sch *Scheduler) Visualise(w io.Writer) {
	memviz.Map(w, sch)
}
