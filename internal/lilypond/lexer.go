// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/iter"
	"gopkg.microglot.org/lilyc/internal/ly"
	"gopkg.microglot.org/lilyc/internal/optional"
)

const (
	lexerLookahead = 8
)

// Lexer implements a tokenizer for LilyPond notation source.
type Lexer struct {
	reporter exc.Reporter
}

func NewLexer(reporter exc.Reporter) *Lexer {
	return &Lexer{reporter: reporter}
}

func (self *Lexer) Lex(ctx context.Context, f ly.File) (ly.LexerFile, error) {
	return &lexerFile{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFile struct {
	ly.File
	reporter exc.Reporter
}

func (self *lexerFile) Tokens(ctx context.Context) (ly.Iterator[*ly.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerLookahead)
	return &lexerFileTokens{
		uri:      self.File.Path(ctx),
		body:     points,
		reporter: self.reporter,
		line:     1,
		col:      1,
	}, nil
}

type lexerFileTokens struct {
	uri      string
	body     ly.Lookahead[ly.CodePoint]
	reporter exc.Reporter
	line     int32
	col      int32
	offset   int64
	done     bool
}

func (self *lexerFileTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

func (self *lexerFileTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{
		URI: self.uri,
		Location: ly.Location{
			Line:   self.line,
			Column: self.col,
			Offset: self.offset,
		},
	}, code, message)
}

// here captures the position of the next unread code point.
func (self *lexerFileTokens) here() ly.Location {
	return ly.Location{Line: self.line, Column: self.col, Offset: self.offset}
}

// next consumes one code point and advances the position counters. The
// offset advances in bytes so that token spans slice the original
// source text directly.
func (self *lexerFileTokens) next(ctx context.Context) optional.Optional[ly.CodePoint] {
	p := self.body.Next(ctx)
	if p.IsPresent() {
		r := rune(p.Value())
		self.offset += int64(utf8.RuneLen(r))
		if r == '\n' {
			self.line++
			self.col = 1
		} else {
			self.col++
		}
	}
	return p
}

func (self *lexerFileTokens) peek(ctx context.Context, n uint8) (rune, bool) {
	p := self.body.Lookahead(ctx, n)
	if !p.IsPresent() {
		return 0, false
	}
	return rune(p.Value()), true
}

func (self *lexerFileTokens) token(start ly.Location, kind ly.TokenType, value string) optional.Optional[*ly.Token] {
	return optional.Some(&ly.Token{
		Span:  &ly.Span{Start: start, End: self.here()},
		Type:  kind,
		Value: value,
	})
}

func (self *lexerFileTokens) Next(ctx context.Context) optional.Optional[*ly.Token] {
	for {
		start := self.here()
		point := self.next(ctx)
		if !point.IsPresent() {
			if self.done {
				return optional.None[*ly.Token]()
			}
			self.done = true
			return self.token(start, ly.TokenTypeEOF, "")
		}
		r := rune(point.Value())
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		case '%':
			return self.readComment(ctx, start)
		case '"':
			return self.readString(ctx, start)
		case '\\':
			return self.readEscaped(ctx, start)
		case '#':
			return self.readScheme(ctx, start)
		case '{':
			return self.token(start, ly.TokenTypeBraceOpen, "{")
		case '}':
			return self.token(start, ly.TokenTypeBraceClose, "}")
		case '<':
			if n, ok := self.peek(ctx, 1); ok && n == '<' {
				_ = self.next(ctx)
				return self.token(start, ly.TokenTypeDoubleAngleOpen, "<<")
			}
			return self.token(start, ly.TokenTypeAngleOpen, "<")
		case '>':
			if n, ok := self.peek(ctx, 1); ok && n == '>' {
				_ = self.next(ctx)
				return self.token(start, ly.TokenTypeDoubleAngleClose, ">>")
			}
			return self.token(start, ly.TokenTypeAngleClose, ">")
		case '[':
			return self.token(start, ly.TokenTypeBracketOpen, "[")
		case ']':
			return self.token(start, ly.TokenTypeBracketClose, "]")
		case '(':
			return self.token(start, ly.TokenTypeParenOpen, "(")
		case ')':
			return self.token(start, ly.TokenTypeParenClose, ")")
		case '~':
			return self.token(start, ly.TokenTypeTilde, "~")
		case '|':
			return self.token(start, ly.TokenTypePipe, "|")
		case '=':
			return self.token(start, ly.TokenTypeEqual, "=")
		case '.':
			return self.token(start, ly.TokenTypeDot, ".")
		case '\'':
			return self.token(start, ly.TokenTypeQuote, "'")
		case ',':
			return self.token(start, ly.TokenTypeComma, ",")
		case '!':
			return self.token(start, ly.TokenTypeExclamation, "!")
		case '?':
			return self.token(start, ly.TokenTypeQuestion, "?")
		case '-':
			if n, ok := self.peek(ctx, 1); ok && n == '-' {
				_ = self.next(ctx)
				return self.token(start, ly.TokenTypeLyricHyphen, "--")
			}
			return self.token(start, ly.TokenTypeDash, "-")
		case '^':
			return self.token(start, ly.TokenTypeCaret, "^")
		case '_':
			if n, ok := self.peek(ctx, 1); ok && n == '_' {
				_ = self.next(ctx)
				return self.token(start, ly.TokenTypeLyricExtender, "__")
			}
			return self.token(start, ly.TokenTypeUnderscore, "_")
		case '+':
			return self.token(start, ly.TokenTypePlus, "+")
		case '*':
			return self.token(start, ly.TokenTypeStar, "*")
		case '/':
			return self.token(start, ly.TokenTypeSlash, "/")
		case ':':
			return self.token(start, ly.TokenTypeColon, ":")
		default:
			if r >= '0' && r <= '9' {
				return self.readNumber(ctx, start, r)
			}
			if unicode.IsLetter(r) {
				return self.readWord(ctx, start, r)
			}
			_ = self.reporter.Report(self.exc(exc.CodeLexError, "unexpected character "+string(r)))
			return optional.None[*ly.Token]()
		}
	}
}

// readComment consumes a % line comment or a %{ ... %} block comment.
// The leading % has already been consumed.
func (self *lexerFileTokens) readComment(ctx context.Context, start ly.Location) optional.Optional[*ly.Token] {
	var b strings.Builder
	b.WriteByte('%')
	if n, ok := self.peek(ctx, 1); ok && n == '{' {
		_ = self.next(ctx)
		b.WriteByte('{')
		for {
			p := self.next(ctx)
			if !p.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeLexError, "EOF inside block comment"))
				return optional.None[*ly.Token]()
			}
			r := rune(p.Value())
			b.WriteRune(r)
			if r == '%' {
				if n, ok := self.peek(ctx, 1); ok && n == '}' {
					_ = self.next(ctx)
					b.WriteByte('}')
					return self.token(start, ly.TokenTypeComment, b.String())
				}
			}
		}
	}
	for {
		n, ok := self.peek(ctx, 1)
		if !ok || n == '\n' {
			return self.token(start, ly.TokenTypeComment, b.String())
		}
		_ = self.next(ctx)
		b.WriteRune(n)
	}
}

// readString consumes a double quoted string literal. The opening quote
// has already been consumed. The token value is the decoded content.
func (self *lexerFileTokens) readString(ctx context.Context, start ly.Location) optional.Optional[*ly.Token] {
	var b strings.Builder
	for {
		p := self.next(ctx)
		if !p.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF inside string literal"))
			return optional.None[*ly.Token]()
		}
		r := rune(p.Value())
		switch r {
		case '"':
			return self.token(start, ly.TokenTypeString, b.String())
		case '\\':
			e := self.next(ctx)
			if !e.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF inside string escape"))
				return optional.None[*ly.Token]()
			}
			switch rune(e.Value()) {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(rune(e.Value()))
			}
		default:
			b.WriteRune(r)
		}
	}
}

// readEscaped consumes everything that starts with a backslash: the
// reserved keywords, generic \word escapes, \N string numbers, and the
// compound punctuation forms.
func (self *lexerFileTokens) readEscaped(ctx context.Context, start ly.Location) optional.Optional[*ly.Token] {
	n, ok := self.peek(ctx, 1)
	if !ok {
		_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF after backslash"))
		return optional.None[*ly.Token]()
	}
	switch n {
	case '\\':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeDoubleBackslash, "\\\\")
	case '(':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedParenOpen, "\\(")
	case ')':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedParenClose, "\\)")
	case '!':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedExclamation, "\\!")
	case '+':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedPlus, "\\+")
	case '<':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedAngleOpen, "\\<")
	case '>':
		_ = self.next(ctx)
		return self.token(start, ly.TokenTypeEscapedAngleClose, "\\>")
	}
	if n >= '0' && n <= '9' {
		var b strings.Builder
		for {
			d, ok := self.peek(ctx, 1)
			if !ok || d < '0' || d > '9' {
				break
			}
			_ = self.next(ctx)
			b.WriteRune(d)
		}
		return self.token(start, ly.TokenTypeEscapedUnsigned, b.String())
	}
	if !unicode.IsLetter(n) {
		_ = self.reporter.Report(self.exc(exc.CodeLexError, "unexpected character after backslash: "+string(n)))
		return optional.None[*ly.Token]()
	}
	var b strings.Builder
	for {
		c, ok := self.peek(ctx, 1)
		if !ok || !unicode.IsLetter(c) {
			break
		}
		_ = self.next(ctx)
		b.WriteRune(c)
	}
	word := b.String()
	if kind, ok := ly.Keywords[word]; ok {
		return self.token(start, kind, word)
	}
	return self.token(start, ly.TokenTypeEscapedWord, word)
}

// readNumber consumes an unsigned integer, or a real when a dot is
// directly followed by another digit. A trailing bare dot is left for
// the duration parser.
func (self *lexerFileTokens) readNumber(ctx context.Context, start ly.Location, first rune) optional.Optional[*ly.Token] {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, ok := self.peek(ctx, 1)
		if !ok || c < '0' || c > '9' {
			break
		}
		_ = self.next(ctx)
		b.WriteRune(c)
	}
	c, ok := self.peek(ctx, 1)
	if ok && c == '.' {
		if d, ok := self.peek(ctx, 2); ok && d >= '0' && d <= '9' {
			_ = self.next(ctx)
			b.WriteByte('.')
			for {
				c, ok := self.peek(ctx, 1)
				if !ok || c < '0' || c > '9' {
					break
				}
				_ = self.next(ctx)
				b.WriteRune(c)
			}
			return self.token(start, ly.TokenTypeReal, b.String())
		}
	}
	return self.token(start, ly.TokenTypeUnsigned, b.String())
}

// readWord consumes a bare word of letters and classifies it as a note
// name or a generic symbol.
func (self *lexerFileTokens) readWord(ctx context.Context, start ly.Location, first rune) optional.Optional[*ly.Token] {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, ok := self.peek(ctx, 1)
		if !ok || !unicode.IsLetter(c) {
			break
		}
		_ = self.next(ctx)
		b.WriteRune(c)
	}
	word := b.String()
	if ly.IsNoteName(word) {
		return self.token(start, ly.TokenTypeNoteName, word)
	}
	return self.token(start, ly.TokenTypeSymbol, word)
}

// readScheme consumes a whole #... Scheme expression verbatim, '#'
// included. Scheme is never evaluated; the expression is carried as an
// opaque source slice.
func (self *lexerFileTokens) readScheme(ctx context.Context, start ly.Location) optional.Optional[*ly.Token] {
	var b strings.Builder
	b.WriteByte('#')
	for {
		c, ok := self.peek(ctx, 1)
		if !ok {
			break
		}
		if c == '#' || c == '\'' || c == '`' || c == ',' {
			_ = self.next(ctx)
			b.WriteRune(c)
			continue
		}
		break
	}
	c, ok := self.peek(ctx, 1)
	if !ok {
		return self.token(start, ly.TokenTypeSchemeRaw, b.String())
	}
	switch {
	case c == '(':
		depth := 0
		inString := false
		for {
			p := self.next(ctx)
			if !p.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF inside Scheme expression"))
				return optional.None[*ly.Token]()
			}
			r := rune(p.Value())
			b.WriteRune(r)
			if inString {
				if r == '\\' {
					if e := self.next(ctx); e.IsPresent() {
						b.WriteRune(rune(e.Value()))
					}
				} else if r == '"' {
					inString = false
				}
				continue
			}
			switch r {
			case '"':
				inString = true
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return self.token(start, ly.TokenTypeSchemeRaw, b.String())
				}
			}
		}
	case c == '"':
		_ = self.next(ctx)
		b.WriteByte('"')
		for {
			p := self.next(ctx)
			if !p.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF inside Scheme string"))
				return optional.None[*ly.Token]()
			}
			r := rune(p.Value())
			b.WriteRune(r)
			if r == '\\' {
				if e := self.next(ctx); e.IsPresent() {
					b.WriteRune(rune(e.Value()))
				}
				continue
			}
			if r == '"' {
				return self.token(start, ly.TokenTypeSchemeRaw, b.String())
			}
		}
	default:
		for {
			c, ok := self.peek(ctx, 1)
			if !ok || !isSchemeWordRune(c) {
				break
			}
			_ = self.next(ctx)
			b.WriteRune(c)
		}
		return self.token(start, ly.TokenTypeSchemeRaw, b.String())
	}
}

func isSchemeWordRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '-', '+', '.', '_', ':', '!', '?', '*', '/', '<', '>', '=':
		return true
	}
	return false
}
