// seehuhn.de/go/eps - import Encapsulated PostScript drawings
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package filter

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hhrutter/lzw"
)

func TestASCIIHex(t *testing.T) {
	cases := []struct {
		in, out, rest string
	}{
		{"48656c6C6f>", "Hello", ""},
		{"4 8\n6>tail", "H`", "tail"},
		{">", "", ""},
		{"414", "A@", ""},
	}
	for _, c := range cases {
		r := bytes.NewReader([]byte(c.in))
		out, err := io.ReadAll(ASCIIHexDecode(r))
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.out, string(out)); d != "" {
			t.Errorf("%q: %s", c.in, d)
		}
		rest, _ := io.ReadAll(r)
		if string(rest) != c.rest {
			t.Errorf("%q: wrong remainder %q", c.in, rest)
		}
	}

	_, err := io.ReadAll(ASCIIHexDecode(bytes.NewReader([]byte("4x>"))))
	if err == nil {
		t.Error("invalid hex digit not detected")
	}
}

func TestASCII85(t *testing.T) {
	cases := []struct {
		in, out, rest string
	}{
		{"87cURD_*#4DfTZ)+T~>", "Hello, World!", ""},
		{"87cUR D_*#4\nDfTZ)+T~> x", "Hello, World!", " x"},
		{"z@:E^~>", "\x00\x00\x00\x00abc", ""},
		{"~>", "", ""},
	}
	for _, c := range cases {
		r := bytes.NewReader([]byte(c.in))
		out, err := io.ReadAll(ASCII85Decode(r))
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.out, string(out)); d != "" {
			t.Errorf("%q: %s", c.in, d)
		}
		rest, _ := io.ReadAll(r)
		if string(rest) != c.rest {
			t.Errorf("%q: wrong remainder %q", c.in, rest)
		}
	}
}

func TestASCII85SmallReads(t *testing.T) {
	dec := ASCII85Decode(bytes.NewReader([]byte("87cURD_*#4DfTZ)+T~>")))
	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := dec.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	if string(out) != "Hello, World!" {
		t.Errorf("got %q", out)
	}
}

func TestRunLength(t *testing.T) {
	in := []byte{2, 'a', 'b', 'c', 253, 'x', 0, 'z', 128, 'r', 'e', 's', 't'}
	r := bytes.NewReader(in)
	out, err := io.ReadAll(RunLengthDecode(r))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff("abcxxxxz", string(out)); d != "" {
		t.Error(d)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != "rest" {
		t.Errorf("wrong remainder %q", rest)
	}
}

func TestSubFile(t *testing.T) {
	cases := []struct {
		in    string
		count int
		eod   string
		out   string
		rest  string
	}{
		{"abc%EODdef", 0, "%EOD", "abc", "def"},
		{"a%EODb%EODc", 1, "%EOD", "a%EODb", "c"},
		{"a%EO%EODx", 0, "%EOD", "a%EO", "x"},
		{"abcdef", 4, "", "abcd", "ef"},
		{"abcdef", 0, "", "abcdef", ""},
		{"no marker", 0, "%EOD", "no marker", ""},
	}
	for _, c := range cases {
		r := bytes.NewReader([]byte(c.in))
		out, err := io.ReadAll(SubFileDecode(r, c.count, []byte(c.eod)))
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.out, string(out)); d != "" {
			t.Errorf("%q: %s", c.in, d)
		}
		rest, _ := io.ReadAll(r)
		if string(rest) != c.rest {
			t.Errorf("%q: wrong remainder %q", c.in, rest)
		}
	}
}

func TestLZW(t *testing.T) {
	// example from section 3.13.3 of the PostScript Language Reference
	in := []byte{45, 45, 45, 45, 45, 65, 45, 45, 45, 66}
	enc := []byte{0x80, 0x0B, 0x60, 0x50, 0x22, 0x0C, 0x0C, 0x85, 0x01}
	for _, early := range []bool{true, false} {
		out, err := io.ReadAll(LZWDecode(bytes.NewReader(enc), early))
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(in, out); d != "" {
			t.Errorf("earlyChange=%t: %s", early, d)
		}
	}
}

func TestLZWCodeWidth(t *testing.T) {
	// enough distinct sequences to need codes wider than 9 bits
	data := make([]byte, 4000)
	x := uint32(1)
	for i := range data {
		x = x*1103515245 + 12345
		data[i] = byte(x >> 24)
	}

	for _, early := range []bool{true, false} {
		buf := &bytes.Buffer{}
		w := lzw.NewWriter(buf, early)
		w.Write(data)
		w.Close()

		out, err := io.ReadAll(LZWDecode(bytes.NewReader(buf.Bytes()), early))
		if err != nil {
			t.Errorf("earlyChange=%t: %v", early, err)
			continue
		}
		if !bytes.Equal(out, data) {
			t.Errorf("earlyChange=%t: round trip failed", early)
		}

		out, _ = io.ReadAll(LZWDecode(bytes.NewReader(buf.Bytes()), !early))
		if bytes.Equal(out, data) {
			t.Errorf("earlyChange=%t: wrong code width not detected", early)
		}
	}
}

func TestFlate(t *testing.T) {
	data := bytes.Repeat([]byte("flate "), 100)
	buf := &bytes.Buffer{}
	w := zlib.NewWriter(buf)
	w.Write(data)
	w.Close()

	r, err := FlateDecode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Error("Flate round trip failed")
	}
}
