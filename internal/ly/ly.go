// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ly holds the types shared by every stage of the LilyPond
// pipeline: the token stream produced by the lexer, the AST produced by
// the parser, and the small iterator and file abstractions the stages
// communicate through.
package ly

import (
	"context"
	"fmt"

	"gopkg.microglot.org/lilyc/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindLilyPond
)

func (k FileKind) String() string {
	switch k {
	case FileKindLilyPond:
		return "lilypond"
	case FileKindNone:
		return "none"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

// Location is a position within a source file. Offset is a byte offset
// from the start of the file.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

type Span struct {
	Start Location
	End   Location
}

func (s *Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

type Token struct {
	Span  *Span
	Type  TokenType
	Value string
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}

type TokenType uint16

const (
	TokenTypeUnknown TokenType = iota

	// Literals.
	TokenTypeString
	TokenTypeUnsigned
	TokenTypeReal

	// Reserved backslash keywords, one type per keyword. The word "key"
	// is deliberately absent: \key lexes as an escaped word so that it
	// can double as an assignment name.
	TokenTypeKeywordAccepts
	TokenTypeKeywordAddlyrics
	TokenTypeKeywordAlias
	TokenTypeKeywordAlternative
	TokenTypeKeywordBook
	TokenTypeKeywordBookpart
	TokenTypeKeywordChange
	TokenTypeKeywordChordmode
	TokenTypeKeywordChords
	TokenTypeKeywordConsists
	TokenTypeKeywordContext
	TokenTypeKeywordDefault
	TokenTypeKeywordDefaultchild
	TokenTypeKeywordDenies
	TokenTypeKeywordDescription
	TokenTypeKeywordDrummode
	TokenTypeKeywordDrums
	TokenTypeKeywordEtc
	TokenTypeKeywordFiguremode
	TokenTypeKeywordFigures
	TokenTypeKeywordFixed
	TokenTypeKeywordHeader
	TokenTypeKeywordInclude
	TokenTypeKeywordLanguage
	TokenTypeKeywordLayout
	TokenTypeKeywordLyricmode
	TokenTypeKeywordLyrics
	TokenTypeKeywordLyricsto
	TokenTypeKeywordMarkup
	TokenTypeKeywordMarkuplist
	TokenTypeKeywordMidi
	TokenTypeKeywordName
	TokenTypeKeywordNew
	TokenTypeKeywordNotemode
	TokenTypeKeywordOnce
	TokenTypeKeywordOverride
	TokenTypeKeywordPaper
	TokenTypeKeywordPartial
	TokenTypeKeywordRelative
	TokenTypeKeywordRemove
	TokenTypeKeywordRepeat
	TokenTypeKeywordRest
	TokenTypeKeywordRevert
	TokenTypeKeywordScore
	TokenTypeKeywordSequential
	TokenTypeKeywordSet
	TokenTypeKeywordSimultaneous
	TokenTypeKeywordTempo
	TokenTypeKeywordTime
	TokenTypeKeywordTimes
	TokenTypeKeywordTranspose
	TokenTypeKeywordTuplet
	TokenTypeKeywordTweak
	TokenTypeKeywordType
	TokenTypeKeywordUnset
	TokenTypeKeywordVersion
	TokenTypeKeywordWith

	// Words.
	TokenTypeEscapedWord     // \word that is not a reserved keyword
	TokenTypeEscapedUnsigned // \1 .. \9 (string numbers)
	TokenTypeNoteName        // bare word that spells a Dutch note name
	TokenTypeSymbol          // any other bare word

	// Punctuation.
	TokenTypeBraceOpen
	TokenTypeBraceClose
	TokenTypeAngleOpen
	TokenTypeAngleClose
	TokenTypeDoubleAngleOpen
	TokenTypeDoubleAngleClose
	TokenTypeBracketOpen
	TokenTypeBracketClose
	TokenTypeParenOpen
	TokenTypeParenClose
	TokenTypeTilde
	TokenTypePipe
	TokenTypeEqual
	TokenTypeDot
	TokenTypeQuote
	TokenTypeComma
	TokenTypeExclamation
	TokenTypeQuestion
	TokenTypeDash
	TokenTypeCaret
	TokenTypeUnderscore
	TokenTypePlus
	TokenTypeStar
	TokenTypeSlash
	TokenTypeColon
	TokenTypeDoubleBackslash

	// Compound punctuation.
	TokenTypeEscapedParenOpen  // \(
	TokenTypeEscapedParenClose // \)
	TokenTypeEscapedExclamation
	TokenTypeEscapedPlus
	TokenTypeEscapedAngleOpen  // \<
	TokenTypeEscapedAngleClose // \>
	TokenTypeLyricHyphen       // --
	TokenTypeLyricExtender     // __

	// A whole #... Scheme expression captured verbatim, '#' included.
	TokenTypeSchemeRaw

	TokenTypeComment
	TokenTypeEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:            "Unknown",
	TokenTypeString:             "String",
	TokenTypeUnsigned:           "Unsigned",
	TokenTypeReal:               "Real",
	TokenTypeEscapedWord:        "EscapedWord",
	TokenTypeEscapedUnsigned:    "EscapedUnsigned",
	TokenTypeNoteName:           "NoteName",
	TokenTypeSymbol:             "Symbol",
	TokenTypeBraceOpen:          "BraceOpen",
	TokenTypeBraceClose:         "BraceClose",
	TokenTypeAngleOpen:          "AngleOpen",
	TokenTypeAngleClose:         "AngleClose",
	TokenTypeDoubleAngleOpen:    "DoubleAngleOpen",
	TokenTypeDoubleAngleClose:   "DoubleAngleClose",
	TokenTypeBracketOpen:        "BracketOpen",
	TokenTypeBracketClose:       "BracketClose",
	TokenTypeParenOpen:          "ParenOpen",
	TokenTypeParenClose:         "ParenClose",
	TokenTypeTilde:              "Tilde",
	TokenTypePipe:               "Pipe",
	TokenTypeEqual:              "Equal",
	TokenTypeDot:                "Dot",
	TokenTypeQuote:              "Quote",
	TokenTypeComma:              "Comma",
	TokenTypeExclamation:        "Exclamation",
	TokenTypeQuestion:           "Question",
	TokenTypeDash:               "Dash",
	TokenTypeCaret:              "Caret",
	TokenTypeUnderscore:         "Underscore",
	TokenTypePlus:               "Plus",
	TokenTypeStar:               "Star",
	TokenTypeSlash:              "Slash",
	TokenTypeColon:              "Colon",
	TokenTypeDoubleBackslash:    "DoubleBackslash",
	TokenTypeEscapedParenOpen:   "EscapedParenOpen",
	TokenTypeEscapedParenClose:  "EscapedParenClose",
	TokenTypeEscapedExclamation: "EscapedExclamation",
	TokenTypeEscapedPlus:        "EscapedPlus",
	TokenTypeEscapedAngleOpen:   "EscapedAngleOpen",
	TokenTypeEscapedAngleClose:  "EscapedAngleClose",
	TokenTypeLyricHyphen:        "LyricHyphen",
	TokenTypeLyricExtender:      "LyricExtender",
	TokenTypeSchemeRaw:          "SchemeRaw",
	TokenTypeComment:            "Comment",
	TokenTypeEOF:                "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	if name, ok := keywordNames[t]; ok {
		return "Keyword(\\" + name + ")"
	}
	return fmt.Sprintf("TokenType(%d)", uint16(t))
}

// Keywords maps the reserved backslash words to their token types.
var Keywords = map[string]TokenType{
	"accepts":      TokenTypeKeywordAccepts,
	"addlyrics":    TokenTypeKeywordAddlyrics,
	"alias":        TokenTypeKeywordAlias,
	"alternative":  TokenTypeKeywordAlternative,
	"book":         TokenTypeKeywordBook,
	"bookpart":     TokenTypeKeywordBookpart,
	"change":       TokenTypeKeywordChange,
	"chordmode":    TokenTypeKeywordChordmode,
	"chords":       TokenTypeKeywordChords,
	"consists":     TokenTypeKeywordConsists,
	"context":      TokenTypeKeywordContext,
	"default":      TokenTypeKeywordDefault,
	"defaultchild": TokenTypeKeywordDefaultchild,
	"denies":       TokenTypeKeywordDenies,
	"description":  TokenTypeKeywordDescription,
	"drummode":     TokenTypeKeywordDrummode,
	"drums":        TokenTypeKeywordDrums,
	"etc":          TokenTypeKeywordEtc,
	"figuremode":   TokenTypeKeywordFiguremode,
	"figures":      TokenTypeKeywordFigures,
	"fixed":        TokenTypeKeywordFixed,
	"header":       TokenTypeKeywordHeader,
	"include":      TokenTypeKeywordInclude,
	"language":     TokenTypeKeywordLanguage,
	"layout":       TokenTypeKeywordLayout,
	"lyricmode":    TokenTypeKeywordLyricmode,
	"lyrics":       TokenTypeKeywordLyrics,
	"lyricsto":     TokenTypeKeywordLyricsto,
	"markup":       TokenTypeKeywordMarkup,
	"markuplist":   TokenTypeKeywordMarkuplist,
	"midi":         TokenTypeKeywordMidi,
	"name":         TokenTypeKeywordName,
	"new":          TokenTypeKeywordNew,
	"notemode":     TokenTypeKeywordNotemode,
	"once":         TokenTypeKeywordOnce,
	"override":     TokenTypeKeywordOverride,
	"paper":        TokenTypeKeywordPaper,
	"partial":      TokenTypeKeywordPartial,
	"relative":     TokenTypeKeywordRelative,
	"remove":       TokenTypeKeywordRemove,
	"repeat":       TokenTypeKeywordRepeat,
	"rest":         TokenTypeKeywordRest,
	"revert":       TokenTypeKeywordRevert,
	"score":        TokenTypeKeywordScore,
	"sequential":   TokenTypeKeywordSequential,
	"set":          TokenTypeKeywordSet,
	"simultaneous": TokenTypeKeywordSimultaneous,
	"tempo":        TokenTypeKeywordTempo,
	"time":         TokenTypeKeywordTime,
	"times":        TokenTypeKeywordTimes,
	"transpose":    TokenTypeKeywordTranspose,
	"tuplet":       TokenTypeKeywordTuplet,
	"tweak":        TokenTypeKeywordTweak,
	"type":         TokenTypeKeywordType,
	"unset":        TokenTypeKeywordUnset,
	"version":      TokenTypeKeywordVersion,
	"with":         TokenTypeKeywordWith,
}

var keywordNames = func() map[TokenType]string {
	m := make(map[TokenType]string, len(Keywords))
	for name, t := range Keywords {
		m[t] = name
	}
	return m
}()
