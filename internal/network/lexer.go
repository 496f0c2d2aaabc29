package network

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokDollar
	tokArrow
	tokColon
	tokSemicolon
	tokComma
	tokAssign
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:       "end of line",
	tokNumber:    "number",
	tokIdent:     "identifier",
	tokDollar:    "'$'",
	tokArrow:     "'->'",
	tokColon:     "':'",
	tokSemicolon: "';'",
	tokComma:     "','",
	tokAssign:    "'='",
	tokPlus:      "'+'",
	tokMinus:     "'-'",
	tokStar:      "'*'",
	tokSlash:     "'/'",
	tokCaret:     "'^'",
	tokLParen:    "'('",
	tokRParen:    "')'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	num  float64
	col  int
}

// stripComment removes '#' and '//' comments.
func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return line
}

// lex splits one line of model text into tokens. Columns are 1-based.
func lex(line string, lineNo int) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		col := i + 1

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue
		case isDigit(c) || (c == '.' && i+1 < len(line) && isDigit(line[i+1])):
			j := scanNumber(line, i)
			v, err := strconv.ParseFloat(line[i:j], 64)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Col: col, Msg: fmt.Sprintf("bad number %q", line[i:j])}
			}
			toks = append(toks, token{kind: tokNumber, text: line[i:j], num: v, col: col})
			i = j
			continue
		case isIdentStart(c):
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: line[i:j], col: col})
			i = j
			continue
		}

		if i+1 < len(line) {
			switch line[i : i+2] {
			case "->", "=>":
				toks = append(toks, token{kind: tokArrow, text: line[i : i+2], col: col})
				i += 2
				continue
			}
		}

		var kind tokenKind
		switch c {
		case '$':
			kind = tokDollar
		case ':':
			kind = tokColon
		case ';':
			kind = tokSemicolon
		case ',':
			kind = tokComma
		case '=':
			kind = tokAssign
		case '+':
			kind = tokPlus
		case '-':
			kind = tokMinus
		case '*':
			kind = tokStar
		case '/':
			kind = tokSlash
		case '^':
			kind = tokCaret
		case '(':
			kind = tokLParen
		case ')':
			kind = tokRParen
		default:
			if c >= utf8.RuneSelf {
				r, _ := utf8.DecodeRuneInString(line[i:])
				return nil, &ParseError{Line: lineNo, Col: col, Msg: fmt.Sprintf("non-ASCII character %q; names use letters, digits and '_'", r)}
			}
			return nil, &ParseError{Line: lineNo, Col: col, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
		}
		toks = append(toks, token{kind: kind, text: string(c), col: col})
		i++
	}
	toks = append(toks, token{kind: tokEOF, col: len(line) + 1})
	return toks, nil
}

func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
