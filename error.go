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
	"errors"
	"fmt"
)

// ErrorKind classifies the errors raised by the interpreter.
type ErrorKind uint8

// These are the error kinds used by the interpreter.
const (
	StackUnderflow ErrorKind = iota + 1
	TypeMismatch
	IndexOutOfRange
	InvalidFormat
	NoCurrentPoint
	NoninvertibleTransform
	NoReadAccess
	NoWriteAccess
	IOFailure
	UnknownOperator
	LimitExceeded
	SyntaxError
	UnmatchedMark
	DictStackUnderflow
	UndefinedFile
)

// Name returns the PostScript name of the error.
// This is the key used to look up handlers in errordict.
func (k ErrorKind) Name() Name {
	switch k {
	case StackUnderflow:
		return "stackunderflow"
	case TypeMismatch:
		return "typecheck"
	case IndexOutOfRange, InvalidFormat:
		return "rangecheck"
	case NoCurrentPoint:
		return "nocurrentpoint"
	case NoninvertibleTransform:
		return "undefinedresult"
	case NoReadAccess, NoWriteAccess:
		return "invalidaccess"
	case IOFailure:
		return "ioerror"
	case UnknownOperator:
		return "undefined"
	case LimitExceeded:
		return "limitcheck"
	case SyntaxError:
		return "syntaxerror"
	case UnmatchedMark:
		return "unmatchedmark"
	case DictStackUnderflow:
		return "dictstackunderflow"
	case UndefinedFile:
		return "undefinedfilename"
	default:
		return "unregistered"
	}
}

func (k ErrorKind) String() string {
	return string(k.Name())
}

// Error is the error type returned by the interpreter.
type Error struct {
	Kind ErrorKind
	Op   string // operator which raised the error, if known
	Line int    // 1-based source line, 0 if unknown
	Msg  string

	handled bool // errordict has been consulted
}

func (err *Error) Error() string {
	msg := err.Msg
	if msg == "" {
		msg = string(err.Kind.Name())
	} else {
		msg = string(err.Kind.Name()) + ": " + msg
	}
	if err.Op != "" {
		msg = err.Op + ": " + msg
	}
	if err.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", err.Line, msg)
	}
	return msg
}

// Is allows to use errors.Is with the Err* sentinel values.
// Two errors match if they are of the same kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == err.Kind
}

// Sentinel values for use with errors.Is.
var (
	ErrStackUnderflow         = &Error{Kind: StackUnderflow}
	ErrTypeMismatch           = &Error{Kind: TypeMismatch}
	ErrIndexOutOfRange        = &Error{Kind: IndexOutOfRange}
	ErrInvalidFormat          = &Error{Kind: InvalidFormat}
	ErrNoCurrentPoint         = &Error{Kind: NoCurrentPoint}
	ErrNoninvertibleTransform = &Error{Kind: NoninvertibleTransform}
	ErrNoReadAccess           = &Error{Kind: NoReadAccess}
	ErrNoWriteAccess          = &Error{Kind: NoWriteAccess}
	ErrIOFailure              = &Error{Kind: IOFailure}
	ErrUnknownOperator        = &Error{Kind: UnknownOperator}
	ErrLimitExceeded          = &Error{Kind: LimitExceeded}
	ErrSyntaxError            = &Error{Kind: SyntaxError}
	ErrUnmatchedMark          = &Error{Kind: UnmatchedMark}
	ErrDictStackUnderflow     = &Error{Kind: DictStackUnderflow}
	ErrUndefinedFile          = &Error{Kind: UndefinedFile}
)

// e constructs an error for the operator which is currently executing.
func (intp *Interpreter) e(kind ErrorKind, format string, args ...any) error {
	return &Error{
		Kind: kind,
		Op:   string(intp.op),
		Line: intp.line(),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// errorKind returns the kind of err, or 0 if err is not an interpreter error.
func errorKind(err error) ErrorKind {
	var psErr *Error
	if errors.As(err, &psErr) {
		return psErr.Kind
	}
	return 0
}

// isRecoverableIO reports whether err is one of the errors which
// status, token and write turn into a "false" result.
func isRecoverableIO(err error) bool {
	switch errorKind(err) {
	case IOFailure, NoReadAccess, NoWriteAccess:
		return true
	}
	return false
}

// errStop is the signal raised by the stop operator.
var errStop = errors.New("stop")

// errQuit is the signal raised by the quit operator.
var errQuit = errors.New("quit")
