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

package eps

import (
	"io"
	"strings"
)

// File is a PostScript file object.
//
// Input files read their data through a [Scanner], so that the same
// bytes can be read both as tokens and as raw data.  Output files pass
// complete lines of text to a callback.
type File struct {
	name   string
	s      *Scanner
	access Access
	closed bool

	// restart, if non-nil, returns a fresh reader positioned at the
	// beginning of the data.
	restart func() (io.Reader, error)
	closer  io.Closer

	out     func(line string)
	pending []byte
}

// newInputFile returns a read-only file which reads from r.
func newInputFile(name string, r io.Reader, restart func() (io.Reader, error)) *File {
	f := &File{
		name:    name,
		access:  AccessReadOnly,
		restart: restart,
	}
	if c, ok := r.(io.Closer); ok {
		f.closer = c
	}
	f.s = NewScanner(r)
	f.s.file = f
	return f
}

// newOutputFile returns a write-only file.  Each line written to the file
// is passed to the message sink of intp.
func newOutputFile(name string, intp *Interpreter) *File {
	return &File{
		name:   name,
		access: AccessUnlimited,
		out: func(line string) {
			if intp.Messages != nil {
				intp.Messages.Info(line)
			}
		},
	}
}

// currentFile returns the file object corresponding to the data read
// by s.
func (s *Scanner) currentFile() *File {
	if s.file == nil {
		s.file = &File{
			name:   "%stdin",
			s:      s,
			access: AccessReadOnly,
		}
	}
	return s.file
}

// ReadByte implements the [io.ByteReader] interface.
func (f *File) ReadByte() (byte, error) {
	if f.closed || f.s == nil {
		return 0, io.EOF
	}
	return f.s.next()
}

// Read implements the [io.Reader] interface.  Data is read one byte at
// a time, so that no input beyond the returned data is consumed.
func (f *File) Read(p []byte) (int, error) {
	for i := range p {
		b, err := f.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				err = nil
			}
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// canRestart reports whether the file can be read again from the
// beginning.
func (f *File) canRestart() bool {
	return f.restart != nil
}

// Restart positions the file at the beginning of its data.
func (f *File) Restart() error {
	if f.restart == nil {
		return &Error{Kind: IOFailure, Msg: "file " + f.name + " cannot be restarted"}
	}
	r, err := f.restart()
	if err != nil {
		return err
	}
	f.s = NewScanner(r)
	f.s.file = f
	f.closed = false
	return nil
}

// scanner returns a token source which reads from the file.
func (f *File) scanner() TokenSource {
	if f.s == nil {
		return NewScanner(strings.NewReader(""))
	}
	return f.s
}

// Close closes the file.  Closing the file which holds the running
// program ends execution of the program.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.flush()
	f.closed = true
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *File) canWrite() bool {
	return f.out != nil && !f.closed
}

// write appends data to an output file.  Complete lines are passed on
// immediately, a trailing partial line is kept until the next newline
// or until the file is flushed.
func (f *File) write(data []byte) {
	for _, b := range data {
		if b == '\n' {
			f.out(string(f.pending))
			f.pending = f.pending[:0]
			continue
		}
		f.pending = append(f.pending, b)
	}
}

// flush passes any partial line on to the output.
func (f *File) flush() {
	if f.out == nil || len(f.pending) == 0 {
		return
	}
	f.out(string(f.pending))
	f.pending = f.pending[:0]
}
