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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"seehuhn.de/go/eps/document"
)

// TokenSource provides the tokens executed by the interpreter.
// [Scanner] is the standard implementation.
type TokenSource interface {
	// ScanToken returns the next token, or io.EOF at the end of input.
	ScanToken() (Object, error)

	// Line returns the current 1-based line number, for error messages.
	Line() int
}

// Interpreter executes EPS programs.
//
// An Interpreter must not be used concurrently from different goroutines.
// Different interpreters do not share any mutable state.
type Interpreter struct {
	Stack     []Object
	DictStack []Dict

	SystemDict    Dict
	UserDict      Dict
	ErrorDict     Dict
	FontDirectory Dict

	// DSC holds the structured comments found in the program text.
	DSC []Comment

	// If CheckStart is set, Execute fails for input which does not start
	// with "%!".
	CheckStart bool

	// MaxOps limits the number of objects executed.  If the limit is
	// exceeded, execution stops with a limitcheck error.
	// The value 0 means no limit.
	MaxOps int

	// Sink receives the painted shapes and images.
	Sink document.Sink

	// Raster converts sample data into bitmaps.
	Raster document.RasterSink

	// Messages receives warnings and the output of print, = and similar
	// operators.
	Messages document.MessageSink

	doc *document.Document

	gs     *GState
	gstack []*GState

	exitFlag  bool
	op        Name
	sources   []TokenSource
	procStart []int
	numOps    int
	warned    map[string]bool
	randState int32
	start     time.Time

	// resources holds the instances defined by defineresource, by
	// category.  Fonts are kept in FontDirectory.
	resources map[Name]Dict
	internal  Dict

	stdout, stderr *File
}

// NewInterpreter returns a new interpreter.  The interpreter writes its
// output to a new [document.Document], which can be obtained using the
// Document method.
func NewInterpreter() *Interpreter {
	doc := document.New()
	intp := &Interpreter{
		Sink:      doc,
		Raster:    doc,
		Messages:  doc,
		doc:       doc,
		warned:    make(map[string]bool),
		randState: 1,
		start:     time.Now(),
		resources: make(map[Name]Dict),
	}
	intp.SystemDict = makeSystemDict()
	intp.UserDict = intp.SystemDict[Name("userdict")].(Dict)
	intp.ErrorDict = intp.SystemDict[Name("errordict")].(Dict)
	intp.FontDirectory = intp.SystemDict[Name("FontDirectory")].(Dict)
	intp.DictStack = []Dict{intp.SystemDict, intp.UserDict}
	intp.gs = newGState()
	intp.stdout = newOutputFile("%stdout", intp)
	intp.stderr = newOutputFile("%stderr", intp)
	return intp
}

// Document returns the document created by NewInterpreter.
// If Sink has been replaced, the returned document may be empty.
func (intp *Interpreter) Document() *document.Document {
	return intp.doc
}

// ExecuteString runs the PostScript code in code.
func (intp *Interpreter) ExecuteString(code string) error {
	return intp.Execute(strings.NewReader(code))
}

// Execute reads a PostScript program from r and runs it.
// Files in the DOS EPS binary format are recognized and the PostScript
// section is extracted.
func (intp *Interpreter) Execute(r io.Reader) error {
	r, err := unwrapDOSEPS(r)
	if err != nil {
		return &Error{Kind: IOFailure, Msg: err.Error()}
	}
	s := NewScanner(r)
	if intp.CheckStart {
		if string(s.peekN(2)) != "%!" {
			return &Error{Kind: SyntaxError, Line: 1, Msg: "not a PostScript file"}
		}
		intp.CheckStart = false
	}
	err = intp.Run(s)
	intp.DSC = append(intp.DSC, s.DSC...)
	return err
}

// Run executes all tokens from src.
//
// Errors are returned as [*Error] values.  If the program calls quit,
// Run stops and returns nil.
func (intp *Interpreter) Run(src TokenSource) error {
	outer := len(intp.sources) == 0
	err := intp.run(src)
	if outer {
		intp.stdout.flush()
		intp.stderr.flush()
		switch err {
		case errQuit:
			err = nil
		case errStop:
			intp.warn("stop called outside of stopped")
			err = nil
		}
	}
	return err
}

func (intp *Interpreter) run(src TokenSource) error {
	intp.sources = append(intp.sources, src)
	base := len(intp.procStart)
	defer func() {
		intp.sources = intp.sources[:len(intp.sources)-1]
		intp.procStart = intp.procStart[:base]
	}()

	for {
		o, err := src.ScanToken()
		if err == io.EOF {
			if len(intp.procStart) > base {
				return &Error{Kind: SyntaxError, Line: src.Line(), Msg: "unterminated procedure"}
			}
			return nil
		} else if err != nil {
			var psErr *Error
			if !errors.As(err, &psErr) {
				err = &Error{Kind: IOFailure, Line: src.Line(), Msg: err.Error()}
			}
			return err
		}

		err = intp.executeToken(o, base)
		if err != nil {
			return err
		}

		if intp.exitFlag {
			if len(intp.sources) > 1 {
				return nil
			}
			intp.exitFlag = false
			intp.warn("exit called outside of a loop")
		}
	}
}

// executeToken handles a token read from a token source.  Tokens between
// "{" and "}" are collected into a procedure instead of being executed.
func (intp *Interpreter) executeToken(o Object, base int) error {
	switch o {
	case Operator("{"):
		intp.procStart = append(intp.procStart, len(intp.Stack))
		return nil
	case Operator("}"):
		if len(intp.procStart) <= base {
			return &Error{Kind: SyntaxError, Line: intp.line(), Msg: "unmatched '}'"}
		}
		a := intp.procStart[len(intp.procStart)-1]
		intp.procStart = intp.procStart[:len(intp.procStart)-1]
		proc := make(Procedure, len(intp.Stack)-a)
		copy(proc, intp.Stack[a:])
		intp.Stack = append(intp.Stack[:a], proc)
		return nil
	}

	if name, isImmediate := o.(immediateName); isImmediate {
		val, err := intp.load(Name(name))
		if err != nil {
			return err
		}
		intp.push(val)
		return nil
	}

	if len(intp.procStart) > base {
		intp.push(o)
		return nil
	}
	return intp.execute(o, false)
}

// execute executes a single object.  Procedures are only run if execProc
// is set; otherwise they are pushed onto the operand stack.
func (intp *Interpreter) execute(o Object, execProc bool) error {
	intp.numOps++
	if intp.MaxOps > 0 && intp.numOps > intp.MaxOps {
		return &Error{
			Kind: LimitExceeded,
			Line: intp.line(),
			Msg:  fmt.Sprintf("more than %d operations executed", intp.MaxOps),
		}
	}
	if len(intp.Stack) > maxOperandStackDepth {
		return intp.e(LimitExceeded, "operand stack overflow")
	}

	switch o := o.(type) {
	case Operator:
		return intp.dispatch(Name(o))
	case *builtin:
		return intp.runBuiltin(o)
	case Procedure:
		if execProc {
			return intp.execProc(o)
		}
		intp.push(o)
	case *File:
		if execProc {
			return intp.run(o.scanner())
		}
		intp.push(o)
	default:
		intp.push(o)
	}
	return nil
}

// dispatch executes the operator called name.  Built-in operators take
// precedence over definitions in the dictionary stack.
func (intp *Interpreter) dispatch(name Name) error {
	if b, ok := builtins[name]; ok {
		return intp.runBuiltin(b)
	}

	var val Object
	found := false
	for j := len(intp.DictStack) - 1; j >= 0; j-- {
		val, found = intp.DictStack[j][name]
		if found {
			break
		}
	}
	if !found {
		err := &Error{Kind: UnknownOperator, Op: string(name), Line: intp.line()}
		return intp.handleError(err)
	}
	return intp.execute(val, true)
}

func (intp *Interpreter) runBuiltin(b *builtin) error {
	saved := intp.op
	intp.op = b.name
	err := b.run(intp)
	intp.op = saved
	if err != nil {
		err = intp.handleError(err)
	}
	return err
}

// handleError runs the errordict entry for err, if there is one.
// If the handler completes without error, execution continues.
func (intp *Interpreter) handleError(err error) error {
	var psErr *Error
	if !errors.As(err, &psErr) || psErr.handled {
		return err
	}
	psErr.handled = true
	handler, ok := intp.ErrorDict[psErr.Kind.Name()]
	if !ok {
		return err
	}
	return intp.execute(handler, true)
}

// execProc runs the elements of a procedure, until the procedure ends or
// exit is called.
func (intp *Interpreter) execProc(p Procedure) error {
	for _, o := range p {
		err := intp.execute(o, false)
		if err != nil {
			return err
		}
		if intp.exitFlag {
			return nil
		}
	}
	return nil
}

// call executes an object as if it had been given to the exec operator.
func (intp *Interpreter) call(o Object) error {
	return intp.execute(o, true)
}

func (intp *Interpreter) line() int {
	if len(intp.sources) == 0 {
		return 0
	}
	return intp.sources[len(intp.sources)-1].Line()
}

func (intp *Interpreter) warn(format string, args ...any) {
	if intp.Messages == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if line := intp.line(); line > 0 {
		msg = fmt.Sprintf("line %d: %s", line, msg)
	}
	intp.Messages.Warn(msg)
}

// warnOnce emits a warning the first time an unsupported feature is used.
func (intp *Interpreter) warnOnce(key string, format string, args ...any) {
	if intp.warned[key] {
		return
	}
	intp.warned[key] = true
	intp.warn(format, args...)
}

// dosEPSMagic starts the header of DOS EPS binary files.
var dosEPSMagic = []byte{0xC5, 0xD0, 0xD3, 0xC6}

// unwrapDOSEPS returns a reader for the PostScript section of r.
func unwrapDOSEPS(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(12)
	if err != nil || !bytes.Equal(head[:4], dosEPSMagic) {
		return br, nil
	}
	offset := binary.LittleEndian.Uint32(head[4:8])
	length := binary.LittleEndian.Uint32(head[8:12])
	_, err = br.Discard(int(offset))
	if err != nil {
		return nil, err
	}
	return io.LimitReader(br, int64(length)), nil
}

func (intp *Interpreter) stackString() string {
	var ss []string
	for _, o := range intp.Stack {
		ss = append(ss, intp.objectString2(o, true))
	}
	return strings.Join(ss, " ")
}

func (intp *Interpreter) objectString(o Object) string {
	return intp.objectString2(o, false)
}

func (intp *Interpreter) objectString2(o Object, short bool) string {
	switch o := o.(type) {
	case nil:
		return "null"
	case Boolean, Integer:
		return fmt.Sprint(o)
	case Real:
		return formatReal(o)
	case Name:
		return "/" + string(o)
	case Operator:
		return string(o)
	case String:
		return o.PS()
	case Array:
		return "[" + intp.elemsString(o.Elems, short) + "]"
	case Procedure:
		return "{" + intp.elemsString(o, short) + "}"
	case Dict:
		if sameDict(o, intp.SystemDict) {
			return "-systemdict-"
		} else if sameDict(o, intp.UserDict) {
			return "-userdict-"
		}
		return "-dict-"
	case *builtin:
		return o.String()
	case *File:
		return "-file-"
	case *GState:
		return "-gstate-"
	case *saveObject:
		return "-save-"
	case mark:
		return "-mark-"
	default:
		return fmt.Sprintf("-%T-", o)
	}
}

func (intp *Interpreter) elemsString(elems []Object, short bool) string {
	var ss []string
	l := 1
	for i, oi := range elems {
		elems[i] = nil // protect against infinite loops
		si := intp.objectString2(oi, true)
		elems[i] = oi
		l += 1 + len(si)
		if short && l > 8 || l > 40 {
			ss = append(ss, "...")
			break
		}
		ss = append(ss, si)
	}
	return strings.Join(ss, " ")
}
