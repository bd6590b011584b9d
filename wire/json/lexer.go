// Copyright 2025 Rotational Labs
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package json

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	llsd "go.rtnl.ai/llsd"
)

// lexer scans a fully-buffered JSON document. Like the notation lexer it
// works over an in-memory byte slice; JSON's grammar doesn't strictly
// need the lookahead notation does, but buffering keeps line/column
// reporting (spec §9 supplement: "the original's ...llsd_json_parser.c
// maintain[s] a running line counter for diagnostics") a cheap
// after-the-fact scan over buf[:pos] rather than state threaded through
// every read.
type lexer struct {
	buf []byte
	pos int
}

func (l *lexer) eof() bool { return l.pos >= len(l.buf) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.buf[l.pos]
}

func (l *lexer) next() byte {
	b := l.buf[l.pos]
	l.pos++
	return b
}

func (l *lexer) skipSpace() {
	for !l.eof() {
		switch l.buf[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) expect(c byte) error {
	if l.eof() || l.next() != c {
		return fmt.Errorf("%w: expected %q", llsd.ErrTruncated, c)
	}
	return nil
}

// expectLiteral consumes exactly word, used for true/false/null.
func (l *lexer) expectLiteral(word string) error {
	if l.pos+len(word) > len(l.buf) || string(l.buf[l.pos:l.pos+len(word)]) != word {
		return fmt.Errorf("%w: expected %q", llsd.ErrUnknownTag, word)
	}
	l.pos += len(word)
	return nil
}

// lineCol scans buf[:pos] to report the approximate 1-based line/column
// of the current position, for error messages only (spec §7: "the
// approximate line/column for textual formats").
func (l *lexer) lineCol() (line, col int) {
	line, col = 1, 1
	end := l.pos
	if end > len(l.buf) {
		end = len(l.buf)
	}
	for i := 0; i < end; i++ {
		if l.buf[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// readNumberText reads a JSON number token: -?(0|[1-9][0-9]*)(\.[0-9]+)?
// ([eE][+-]?[0-9]+)?. It doesn't itself validate the grammar strictly —
// that's ParseInt/ParseFloat's job downstream — it just finds the token's
// extent.
func (l *lexer) readNumberText() string {
	start := l.pos
	if !l.eof() && l.peek() == '-' {
		l.pos++
	}
	for !l.eof() && isDigit(l.peek()) {
		l.pos++
	}
	if !l.eof() && l.peek() == '.' {
		l.pos++
		for !l.eof() && isDigit(l.peek()) {
			l.pos++
		}
	}
	if !l.eof() && (l.peek() == 'e' || l.peek() == 'E') {
		l.pos++
		if !l.eof() && (l.peek() == '+' || l.peek() == '-') {
			l.pos++
		}
		for !l.eof() && isDigit(l.peek()) {
			l.pos++
		}
	}
	return string(l.buf[start:l.pos])
}

func isRealText(s string) bool { return strings.ContainsAny(s, ".eE") }

// readString reads a double-quoted JSON string, decoding the standard
// escape set of spec §4.6.4 (\" \\ \/ \b \f \n \r \t \uXXXX) including
// \uXXXX\uXXXX surrogate pairs, which decode to a single UTF-32 code
// point and re-encode as UTF-8.
func (l *lexer) readString() (string, error) {
	if err := l.expect('"'); err != nil {
		return "", err
	}
	var out []byte
	for {
		if l.eof() {
			return "", fmt.Errorf("%w: unterminated string", llsd.ErrTruncated)
		}
		c := l.next()
		if c == '"' {
			return string(out), nil
		}
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if l.eof() {
			return "", fmt.Errorf("%w: dangling escape", llsd.ErrTruncated)
		}
		switch esc := l.next(); esc {
		case '"', '\\', '/':
			out = append(out, esc)
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r1, err := l.readHex4()
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(rune(r1)) && l.pos+6 <= len(l.buf) && l.buf[l.pos] == '\\' && l.buf[l.pos+1] == 'u' {
				l.pos += 2
				r2, err := l.readHex4()
				if err != nil {
					return "", err
				}
				combined := utf16.DecodeRune(rune(r1), rune(r2))
				if combined == utf8.RuneError {
					combined = unicode.ReplacementChar
				}
				out = utf8.AppendRune(out, combined)
			} else {
				out = utf8.AppendRune(out, rune(r1))
			}
		default:
			return "", fmt.Errorf("%w: bad escape \\%c", llsd.ErrTruncated, esc)
		}
	}
}

func (l *lexer) readHex4() (uint16, error) {
	if l.pos+4 > len(l.buf) {
		return 0, llsd.ErrTruncated
	}
	v, err := strconv.ParseUint(string(l.buf[l.pos:l.pos+4]), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: bad \\u escape", llsd.ErrTruncated)
	}
	l.pos += 4
	return uint16(v), nil
}
