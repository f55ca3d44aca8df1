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

//go:build statsview

package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address of the stats server.
const Address = "localhost:12600"

const url = "/debug/statsview"

// sample once a second and keep ten minutes of samples. a long run of the
// scheduler changes slowly and the default window is too short to show it
const (
	intervalMs = 1000
	maxPoints  = 600
)

var launch sync.Once

// Launch the stats server in a new goroutine. The server charts the heap,
// goroutines and garbage collector pauses of the running program. A
// scheduler that is allocating during AdvanceAndFire() shows up as a heap
// that grows in step with the frame count.
//
// Only the first call has any effect.
func Launch(output io.Writer) {
	launch.Do(func() {
		viewer.SetConfiguration(
			viewer.WithAddr(Address),
			viewer.WithInterval(intervalMs),
			viewer.WithMaxPoints(maxPoints),
		)
		go statsview.New().Start()
		fmt.Fprintf(output, "heap and GC charts at http://%s%s\n", Address, url)
	})
}

// Available returns true if the stats server can be launched.
func Available() bool {
	return true
}
