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

package script

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/vitimer/hardware"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
	"github.com/jetsetilly/vitimer/hardware/vi/timing"
	"github.com/jetsetilly/vitimer/logger"
	lua "github.com/yuin/gopher-lua"
)

// Script is a Lua state bound to a Machine.
type Script struct {
	m      *hardware.Machine
	exec   hardware.Executor
	output io.Writer

	L *lua.LState

	snapshots   []*hardware.State
	checkpoints []*hardware.Checkpoint
}

// NewScript is the preferred method of initialisation for the Script type.
// The Close() function should be called when the script is no longer
// required.
func NewScript(m *hardware.Machine, exec hardware.Executor, output io.Writer) *Script {
	scr := &Script{
		m:      m,
		exec:   exec,
		output: output,
		L:      lua.NewState(),
	}

	vi := scr.L.NewTable()
	scr.L.SetFuncs(vi, map[string]lua.LGFunction{
		"now":         scr.now,
		"step":        scr.step,
		"run":         scr.run,
		"frames":      scr.frames,
		"period":      scr.period,
		"refresh":     scr.refresh,
		"spec":        scr.spec,
		"reconfigure": scr.reconfigure,
		"compare":     scr.compare,
		"count":       scr.count,
		"next":        scr.next,
		"last":        scr.last,
		"pending":     scr.pending,
		"ack":         scr.ack,
		"snapshot":    scr.snapshot,
		"restore":     scr.restore,
		"checkpoint":  scr.checkpoint,
		"rollback":    scr.rollback,
		"reset":       scr.reset,
		"log":         scr.log,
	})
	scr.L.SetGlobal("vi", vi)
	scr.L.SetGlobal("print", scr.L.NewFunction(scr.print))

	return scr
}

// Close the Lua state.
func (scr *Script) Close() {
	scr.L.Close()
}

// RunFile runs the Lua script in the named file.
func (scr *Script) RunFile(filename string) error {
	if err := scr.L.DoFile(filename); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// RunString runs the Lua source.
func (scr *Script) RunString(src string) error {
	if err := scr.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// convert a kind name to a scheduler.Kind. raises a Lua error if the name is
// not recognised
func (scr *Script) checkKind(n int) scheduler.Kind {
	name := strings.ToUpper(scr.L.CheckString(n))
	for k := scheduler.Kind(0); k < scheduler.NumKinds; k++ {
		if k.String() == name {
			return k
		}
	}
	scr.L.ArgError(n, fmt.Sprintf("unknown event kind (%s)", name))
	return scheduler.NumKinds
}

func (scr *Script) checkCycles(n int) uint64 {
	v := scr.L.CheckNumber(n)
	if v < 0 {
		scr.L.ArgError(n, "cycles cannot be negative")
	}
	return uint64(v)
}

func (scr *Script) print(L *lua.LState) int {
	s := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		s = append(s, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(scr.output, strings.Join(s, "\t"))
	return 0
}

func (scr *Script) now(L *lua.LState) int {
	L.Push(lua.LNumber(scr.m.Clock.Now()))
	return 1
}

func (scr *Script) step(L *lua.LState) int {
	fired := scr.m.Step(scr.checkCycles(1))
	t := L.CreateTable(len(fired), 0)
	for _, k := range fired {
		t.Append(lua.LString(k.String()))
	}
	L.Push(t)
	return 1
}

func (scr *Script) run(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "number of frames cannot be negative")
	}
	if err := scr.m.RunForFrames(scr.exec, n); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) frames(L *lua.LState) int {
	L.Push(lua.LNumber(scr.m.Frames()))
	return 1
}

func (scr *Script) period(L *lua.LState) int {
	L.Push(lua.LNumber(scr.m.Profile().VIPeriod))
	return 1
}

func (scr *Script) refresh(L *lua.LState) int {
	L.Push(lua.LNumber(scr.m.NominalRefreshHz()))
	return 1
}

func (scr *Script) spec(L *lua.LState) int {
	L.Push(lua.LString(scr.m.Profile().Spec.ID))
	return 1
}

func (scr *Script) reconfigure(L *lua.LState) int {
	id := L.CheckString(1)
	spec, ok := specification.SearchSpec(id)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown video standard (%s)", id))
	}

	override := timing.NoOverride
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		var err error
		override, err = timing.ParseOverride(L.ToStringMeta(L.Get(2)).String())
		if err != nil {
			L.RaiseError("%v", err)
		}
	}

	if err := scr.m.Reconfigure(spec, override); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) compare(L *lua.LState) int {
	v := L.CheckNumber(1)
	if v < 0 || v > 0xffffffff {
		L.ArgError(1, "COMPARE must be a 32bit value")
	}
	if err := scr.m.SetCompare(uint32(v)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) count(L *lua.LState) int {
	L.Push(lua.LNumber(scr.m.Count()))
	return 1
}

func (scr *Script) next(L *lua.LState) int {
	due, ok := scr.m.Scheduler.PeekNextDeadline()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(due))
	for k := scheduler.Kind(0); k < scheduler.NumKinds; k++ {
		if ev, ok := scr.m.Scheduler.Pending(k); ok && ev.Due == due {
			L.Push(lua.LString(k.String()))
			return 2
		}
	}
	return 1
}

func (scr *Script) last(L *lua.LState) int {
	c, ok := scr.m.Scheduler.LastFired(scr.checkKind(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(c))
	return 1
}

func (scr *Script) pending(L *lua.LState) int {
	L.Push(lua.LBool(scr.m.Interrupts.IsPending(scr.checkKind(1))))
	return 1
}

func (scr *Script) ack(L *lua.LState) int {
	scr.m.Interrupts.Acknowledge(scr.checkKind(1))
	return 0
}

func (scr *Script) snapshot(L *lua.LState) int {
	scr.snapshots = append(scr.snapshots, scr.m.Snapshot())
	L.Push(lua.LNumber(len(scr.snapshots)))
	return 1
}

func (scr *Script) restore(L *lua.LState) int {
	id := L.CheckInt(1)
	if id < 1 || id > len(scr.snapshots) {
		L.ArgError(1, fmt.Sprintf("no snapshot with id %d", id))
	}
	if err := scr.m.Plumb(scr.snapshots[id-1]); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) checkpoint(L *lua.LState) int {
	scr.checkpoints = append(scr.checkpoints, scr.m.Checkpoint())
	L.Push(lua.LNumber(len(scr.checkpoints)))
	return 1
}

func (scr *Script) rollback(L *lua.LState) int {
	id := L.CheckInt(1)
	if id < 1 || id > len(scr.checkpoints) {
		L.ArgError(1, fmt.Sprintf("no checkpoint with id %d", id))
	}
	if err := scr.m.Rollback(scr.checkpoints[id-1]); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) reset(L *lua.LState) int {
	if err := scr.m.Reset(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (scr *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}
