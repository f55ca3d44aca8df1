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

package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	dimPen    = "\033[2;36m"
	normalPen = "\033[0m"
)

// Colorizer writes log entries with the tag portion of the entry in a dim
// pen.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	s := string(p)
	tag, detail, ok := strings.Cut(s, ": ")
	if !ok {
		return c.out.Write(p)
	}

	_, err := io.WriteString(c.out, dimPen+tag+":"+normalPen+" "+detail)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// colorize wraps output in a Colorizer if output is a terminal. nil is
// returned if output is nil.
func colorize(output io.Writer) io.Writer {
	if output == nil {
		return nil
	}
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewColorizer(output)
	}
	return output
}
