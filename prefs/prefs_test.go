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

package prefs_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/vitimer/prefs"
	"github.com/jetsetilly/vitimer/test"
)

func tmpPrefFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
}

func cmpPrefFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := tmpPrefFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var w prefs.Bool
	var x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("TRUE"))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")

	test.ExpectFailure(t, v.Set(1))
}

func TestString(t *testing.T) {
	fn := tmpPrefFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &v))
	test.ExpectSuccess(t, v.Set("bar"))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "foo :: bar\n")
}

func TestInt(t *testing.T) {
	fn := tmpPrefFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	var w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set("99"))
	test.ExpectEquality(t, w.Get(), prefs.Value(99))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "number :: 10\nnumberB :: 99\n")

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
	test.ExpectEquality(t, v.String(), "10")
}

func TestFloat(t *testing.T) {
	fn := tmpPrefFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Float
	test.ExpectSuccess(t, dsk.Add("clock", &v))
	test.ExpectSuccess(t, v.Set("93750000"))
	test.ExpectEquality(t, v.Get(), prefs.Value(93750000.0))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefFile(t, fn, "clock :: 93750000\n")

	test.ExpectSuccess(t, v.Set(60.0988))
	test.ExpectEquality(t, v.String(), "60.0988")
	test.ExpectFailure(t, v.Set("sixty"))
}

// write bool and then a string from a different prefs.Disk instance. the
// second write must not clobber the results of the first write
func TestBoolAndString(t *testing.T) {
	fn := tmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, v.Set(true))
	test.DemandSuccess(t, dsk.Save())

	dsk, err = prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &s))
	test.ExpectSuccess(t, s.Set("bar"))
	test.DemandSuccess(t, dsk.Save())

	cmpPrefFile(t, fn, "foo :: bar\ntest :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	var s prefs.String
	test.ExpectSuccess(t, s.Set("123456789"))
	test.ExpectEquality(t, s.String(), "123456789")

	// setting maximum length will crop the existing string
	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "12345")

	// removing the maximum length does not restore cropped information
	s.SetMaxLen(0)
	test.ExpectEquality(t, s.String(), "12345")

	s.SetMaxLen(3)
	test.ExpectSuccess(t, s.Set("abcdefghi"))
	test.ExpectEquality(t, s.String(), "abc")
}

func TestHooks(t *testing.T) {
	var s prefs.String

	var post []string
	s.SetHookPre(func(v prefs.Value) error {
		if v.(string) == "bad" {
			return errors.New("bad value")
		}
		return nil
	})
	s.SetHookPost(func(v prefs.Value) error {
		post = append(post, v.(string))
		return nil
	})

	test.ExpectSuccess(t, s.Set("good"))
	test.ExpectFailure(t, s.Set("bad"))
	test.ExpectEquality(t, s.String(), "good")
	test.ExpectSuccess(t, s.Set("good"))
	test.ExpectEquality(t, len(post), 2)
}

func TestLoad(t *testing.T) {
	fn := tmpPrefFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var spec prefs.String
	var rate prefs.Float
	test.ExpectSuccess(t, dsk.Add("vi.spec", &spec))
	test.ExpectSuccess(t, dsk.Add("ai.rate", &rate))
	test.ExpectFailure(t, dsk.Add("vi.spec", &spec))
	test.ExpectFailure(t, dsk.Add("bad key", &spec))

	// missing file
	err = dsk.Load(false)
	test.ExpectSuccess(t, errors.Is(err, prefs.NoPrefsFile))

	// missing file is created on first use
	test.ExpectSuccess(t, spec.Set("PAL"))
	test.ExpectSuccess(t, dsk.Load(true))
	cmpPrefFile(t, fn, "ai.rate :: 0\nvi.spec :: PAL\n")

	test.ExpectSuccess(t, spec.Set("NTSC"))
	test.ExpectSuccess(t, rate.Set(44100))
	test.ExpectSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, spec.String(), "PAL")
	test.ExpectEquality(t, rate.Get(), prefs.Value(0.0))

	// command line values take precedence
	prefs.PushCommandLineStack("vi.spec::NTSC; other::value")
	test.ExpectSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, spec.String(), "NTSC")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "other::value")

	test.ExpectSuccess(t, dsk.Reset())
	test.ExpectEquality(t, spec.String(), "")
}
