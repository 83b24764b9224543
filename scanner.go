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
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Scanner splits PostScript program text into tokens.
//
// Scanner implements [TokenSource].  Structured comments (starting with "%%"
// at the beginning of a line) are collected in the DSC field.
type Scanner struct {
	DSC []Comment

	line, col int // 0-based

	r         io.Reader
	buf       []byte
	pos, used int
	crSeen    bool
	peeked    []byte
	offset    int64

	// err is the first error returned by r.Read().
	// Once an error has been returned, all subsequent calls to .refill()
	// return err.
	err error

	file *File
}

// Comment is a DSC comment.  For the comment "%%BoundingBox: 0 0 10 10",
// the Key is "BoundingBox" and the Value is "0 0 10 10".
type Comment struct {
	Key   string
	Value string
}

// NewScanner returns a new scanner which reads from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:   r,
		buf: make([]byte, 512),
	}
}

// Line returns the 1-based number of the line containing the next
// unread byte.
func (s *Scanner) Line() int {
	return s.line + 1
}

// ScanToken returns the next token.  At the end of input, io.EOF is
// returned.
//
// Procedure delimiters "{" and "}" and the array and dictionary
// delimiters are returned as Operator values.
func (s *Scanner) ScanToken() (Object, error) {
	if s.file != nil && s.file.closed {
		return nil, io.EOF
	}
	return s.scanToken()
}

func (s *Scanner) scanToken() (Object, error) {
	err := s.skipWhiteSpace()
	if err != nil {
		return nil, err
	}
	b, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '(':
		return s.scanString()
	case '<':
		switch string(s.peekN(2)) {
		case "<<": // dict
			s.skipN(2)
			return Operator("<<"), nil
		case "<~": // base85-encoded string
			return s.scanBase85String()
		default: // hex string
			return s.scanHexString()
		}
	case '>':
		if string(s.peekN(2)) == ">>" {
			s.skipN(2)
			return Operator(">>"), nil
		}
		s.skipByte()
		return nil, s.syntaxError("unexpected '>'")
	case ')':
		s.skipByte()
		return nil, s.syntaxError("unexpected ')'")
	case '/':
		s.skipByte()
		immediate := false
		if next, err := s.peek(); err == nil && next == '/' {
			s.skipByte()
			immediate = true
		}
		name, err := s.scanRegular(nil)
		if err != nil {
			return nil, err
		}
		if immediate {
			return immediateName(name), nil
		}
		return Name(name), nil
	case '[', ']', '{', '}':
		s.skipByte()
		return Operator([]byte{b}), nil
	default:
		opBytes, err := s.scanRegular(nil)
		if err != nil {
			return nil, err
		}
		if x, ok := parseNumber(opBytes); ok {
			return x, nil
		}
		return Operator(opBytes), nil
	}
}

// scanRegular reads a run of regular characters.  One white-space
// character following the token is consumed.
func (s *Scanner) scanRegular(buf []byte) ([]byte, error) {
	for {
		b, err := s.peek()
		if err == io.EOF {
			return buf, nil
		} else if err != nil {
			return nil, err
		}
		if !isRegular(b) {
			if isSpace(b) {
				s.skipByte()
				if b == '\r' {
					s.skipOptionalByte('\n')
				}
			}
			return buf, nil
		}
		s.skipByte()
		buf = append(buf, b)
	}
}

func (s *Scanner) scanString() (String, error) {
	err := s.skipRequiredByte('(')
	if err != nil {
		return String{}, err
	}
	res := []byte{}
	bracketLevel := 1
	ignoreLF := false
	for {
		b, err := s.next()
		if err == io.EOF {
			return String{}, s.syntaxError("unterminated string")
		} else if err != nil {
			return String{}, err
		}
		if ignoreLF && b == 10 {
			ignoreLF = false
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			bracketLevel++
			res = append(res, b)
		case ')':
			bracketLevel--
			if bracketLevel == 0 {
				return String{Data: res}, nil
			}
			res = append(res, b)
		case '\\':
			b, err = s.next()
			if err != nil {
				return String{}, err
			}
			switch b {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case 10: // LF
				// ignore
			case 13: // CR or CR+LF
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := b - '0'
				for range 2 {
					b, err = s.peek()
					if err == io.EOF {
						break
					} else if err != nil {
						return String{}, err
					}
					if b < '0' || b > '7' {
						break
					}
					s.skipByte()
					oct = oct*8 + (b - '0')
				}
				res = append(res, oct)
			default: // includes '(', ')' and '\\'
				res = append(res, b)
			}
		case 13: // CR or CR+LF
			res = append(res, '\n')
			ignoreLF = true
		default:
			res = append(res, b)
		}
	}
}

func (s *Scanner) scanHexString() (String, error) {
	err := s.skipRequiredByte('<')
	if err != nil {
		return String{}, err
	}

	res := []byte{}
	first := true
	var hi byte
readLoop:
	for {
		b, err := s.next()
		if err == io.EOF {
			return String{}, s.syntaxError("unterminated hex string")
		} else if err != nil {
			return String{}, err
		}
		var lo byte
		switch {
		case b == '>':
			break readLoop
		case b <= 32:
			continue
		case b >= '0' && b <= '9':
			lo = b - '0'
		case b >= 'A' && b <= 'F':
			lo = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			lo = b - 'a' + 10
		default:
			return String{}, s.syntaxError(fmt.Sprintf("invalid hex digit %q", b))
		}
		if first {
			hi = lo << 4
			first = false
		} else {
			res = append(res, hi|lo)
			first = true
		}
	}
	if !first {
		res = append(res, hi)
	}

	return String{Data: res}, nil
}

func (s *Scanner) scanBase85String() (String, error) {
	s.skipN(2) // "<~"

	res := []byte{}
	var pos int
	var val uint64
readLoop:
	for {
		b, err := s.next()
		if err == io.EOF {
			return String{}, s.syntaxError("unterminated base85 string")
		} else if err != nil {
			return String{}, err
		}
		switch {
		case b == '~':
			break readLoop
		case b <= 32:
			continue
		case b == 'z' && pos == 0:
			res = append(res, 0, 0, 0, 0)
		case b >= '!' && b <= 'u':
			val = val*85 + uint64(b-'!')
			pos++
			if pos == 5 {
				if val > 0xFFFFFFFF {
					return String{}, s.syntaxError("base85 group out of range")
				}
				res = append(res, byte(val>>24), byte(val>>16), byte(val>>8), byte(val))
				pos = 0
				val = 0
			}
		default:
			return String{}, s.syntaxError(fmt.Sprintf("invalid base85 digit %q", b))
		}
	}
	switch pos {
	case 0:
		// pass
	case 1:
		return String{}, s.syntaxError("unexpected end of base85 string")
	default:
		for i := pos; i < 5; i++ {
			val = val*85 + 84
		}
		tail := []byte{byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val)}
		res = append(res, tail[:pos-1]...)
	}

	err := s.skipRequiredByte('>')
	if err != nil {
		return String{}, err
	}

	return String{Data: res}, nil
}

// skipWhiteSpace skips all input (including comments) until a
// non-whitespace character is found.
func (s *Scanner) skipWhiteSpace() error {
	for {
		b, err := s.peek()
		if err != nil {
			return err
		}
		if b <= 32 {
			s.skipByte()
		} else if b == '%' {
			if s.col == 0 && s.lookingAt("%%") {
				key, val, err := s.readStructuredComment()
				if err == nil {
					s.DSC = append(s.DSC, Comment{key, val})
				}
			} else {
				err = s.skipToEOL()
				if err != nil {
					return err
				}
			}
		} else {
			return nil
		}
	}
}

// readStructuredComment reads the next structured comment into a key-value pair.
func (s *Scanner) readStructuredComment() (key, value string, err error) {
	s.skipN(2)

	key, err = s.readCommentKey()
	if err != nil {
		s.skipToEOL()
		return
	}

	value, err = s.readCommentValue()
	return
}

func (s *Scanner) readCommentKey() (string, error) {
	var buf bytes.Buffer
	for {
		b, err := s.peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
		if b <= 32 {
			break
		}
		s.skipByte()
		if b == ':' {
			break
		}
		buf.WriteByte(b)
	}
	if buf.Len() == 0 {
		return "", errors.New("empty DSC key")
	}
	return buf.String(), nil
}

// readCommentValue reads the value of a structured comment.
// Multi-line values (using `%%+`) are supported.
// The method consumes the first EOL after the value.
func (s *Scanner) readCommentValue() (string, error) {
	var buf bytes.Buffer

commentLineLoop:
	for {
		for {
			b, err := s.peek()
			if err == io.EOF {
				break
			} else if err != nil {
				return "", err
			}
			if b == '\n' || b == '\r' || b > 32 {
				break
			}
			s.skipByte()
		}

		for {
			b, err := s.next()
			if err == io.EOF {
				break
			} else if err != nil {
				return "", err
			} else if b == '\n' { // LF
				break
			} else if b == '\r' { // CR or CR+LF
				s.skipOptionalByte(10)
				break
			}
			buf.WriteByte(b)
		}

		if s.lookingAt("%%+") {
			s.skipN(3)
			buf.WriteByte(' ')
			continue commentLineLoop
		}

		break
	}

	return buf.String(), nil
}

// skipToEOL skips everything up to and including the next end of line.
func (s *Scanner) skipToEOL() error {
	for {
		b, err := s.next()
		if err != nil {
			return err
		} else if b == 10 { // LF
			return nil
		} else if b == 13 { // CR or CR+LF
			s.skipOptionalByte(10)
			return nil
		}
	}
}

func (s *Scanner) lookingAt(pat string) bool {
	return string(s.peekN(len(pat))) == pat
}

// skipByte skips a single byte of input
func (s *Scanner) skipByte() {
	s.next()
}

func (s *Scanner) skipRequiredByte(expected byte) error {
	seen, err := s.next()
	if err != nil {
		return err
	}
	if seen != expected {
		return s.syntaxError(fmt.Sprintf("expected %q, got %q", expected, seen))
	}
	return nil
}

func (s *Scanner) skipOptionalByte(b byte) {
	next, err := s.peek()
	if err == nil && next == b {
		s.next()
	}
}

// skipN skips n bytes which have already been peeked.
func (s *Scanner) skipN(n int) {
	for range n {
		s.next()
	}
}

func (s *Scanner) peek() (byte, error) {
	if len(s.peeked) == 0 {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		s.peeked = append(s.peeked, b)
	}
	return s.peeked[0], nil
}

func (s *Scanner) peekN(n int) []byte {
	for len(s.peeked) < n {
		b, err := s.readByte()
		if err != nil {
			return s.peeked
		}
		s.peeked = append(s.peeked, b)
	}
	return s.peeked[:n]
}

// next returns the next byte of input and advances the position.
func (s *Scanner) next() (byte, error) {
	var b byte

	if len(s.peeked) > 0 {
		b = s.peeked[0]
		copy(s.peeked, s.peeked[1:])
		s.peeked = s.peeked[:len(s.peeked)-1]
	} else {
		var err error
		b, err = s.readByte()
		if err != nil {
			return 0, err
		}
	}

	if s.crSeen && b == 10 {
		// ignore LF after CR
	} else if b == 10 || b == 13 {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	s.crSeen = (b == 13)
	s.offset++

	return b, nil
}

// ReadByte implements the io.ByteReader interface.
// This allows to read binary data which follows a token.
func (s *Scanner) ReadByte() (byte, error) {
	return s.next()
}

func (s *Scanner) readByte() (byte, error) {
	for s.pos >= s.used {
		err := s.refill()
		if err != nil {
			return 0, err
		}
	}

	b := s.buf[s.pos]
	s.pos++

	return b, nil
}

func (s *Scanner) refill() error {
	if s.err != nil {
		return s.err
	}
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	n, err := s.r.Read(s.buf[s.used:])
	s.used += n
	if err != nil {
		s.err = err
	}
	if n > 0 {
		err = nil
	}
	return err
}

func (s *Scanner) syntaxError(msg string) error {
	return &Error{Kind: SyntaxError, Line: s.Line(), Msg: msg}
}

// immediateName is a name written as "//name" in the program text.
// Such names are replaced by their value as soon as they are scanned.
type immediateName Name

func isRegular(b byte) bool {
	if b <= 32 {
		return false
	}
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	default:
		return true
	}
}

func isSpace(b byte) bool {
	switch b {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}
