// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package lilypond implements the LilyPond notation pipeline: lexing
// and parsing source into an AST, validating the AST, and serializing
// it back to canonical source.
package lilypond

import (
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/fs"
	"gopkg.microglot.org/lilyc/internal/ly"
)

type Option func(p *Pipeline) error

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(p *Pipeline) error {
		p.Reporter = reporter
		return nil
	}
}

func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.Reporter == nil {
		p.Reporter = exc.NewReporter(nil)
	}
	return p, nil
}

// Pipeline ties the stages together behind one reporter so that a run
// over several files accumulates every diagnostic in one place.
type Pipeline struct {
	Reporter exc.Reporter
}

// ParseFile lexes and parses one file into its AST. Parsing is fail
// fast: the returned error wraps the first reported problem.
func (self *Pipeline) ParseFile(ctx context.Context, f ly.File) (*ly.Document, error) {
	before := len(self.Reporter.Reported())
	body, err := f.Body(ctx)
	if err != nil {
		return nil, err
	}
	src, err := readAll(ctx, body)
	if err != nil {
		return nil, err
	}
	lexer := NewLexer(self.Reporter)
	lexed, err := lexer.Lex(ctx, f)
	if err != nil {
		return nil, err
	}
	parser := NewParserLilyPond(self.Reporter)
	tokens, err := parser.PrepareParse(ctx, lexed, src)
	if err != nil {
		return nil, err
	}
	document := tokens.parse()
	// Lexing problems report to the reporter and end the token stream,
	// which the parser cannot tell apart from a clean EOF. Any exception
	// reported during this parse fails it, document or not.
	if caught := self.Reporter.Reported(); len(caught) > before {
		return nil, MultiException(caught[before:])
	}
	if document == nil {
		return nil, MultiException(self.Reporter.Reported())
	}
	return document, nil
}

// Tokens lexes one file and returns the raw token stream, comments and
// the EOF marker included.
func (self *Pipeline) Tokens(ctx context.Context, f ly.File) ([]*ly.Token, error) {
	lexer := NewLexer(self.Reporter)
	lexed, err := lexer.Lex(ctx, f)
	if err != nil {
		return nil, err
	}
	it, err := lexed.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Close(ctx)
	var tokens []*ly.Token
	for {
		maybeToken := it.Next(ctx)
		if !maybeToken.IsPresent() {
			break
		}
		tokens = append(tokens, maybeToken.Value())
	}
	if caught := self.Reporter.Reported(); len(caught) > 0 {
		return tokens, MultiException(caught)
	}
	return tokens, nil
}

// Validate checks the AST and accumulates every problem it finds. The
// returned error wraps the full set.
func (self *Pipeline) Validate(uri string, document *ly.Document) error {
	before := len(self.Reporter.Reported())
	NewValidator(self.Reporter).Validate(uri, document)
	caught := self.Reporter.Reported()
	if len(caught) > before {
		return MultiException(caught[before:])
	}
	return nil
}

// Serialize renders the AST back to canonical LilyPond source.
func (self *Pipeline) Serialize(document *ly.Document) string {
	return NewSerializer().Serialize(document)
}

// Parse is a convenience wrapper around a one-shot pipeline for string
// input.
func Parse(ctx context.Context, src string) (*ly.Document, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}
	f := fs.NewFileString("/memory.ly", src, ly.FileKindLilyPond)
	return p.ParseFile(ctx, f)
}

func readAll(ctx context.Context, body ly.FileBody) (string, error) {
	defer body.Close(ctx)
	var b strings.Builder
	for {
		chunk, err := body.Read(ctx, 4096)
		if len(chunk) > 0 {
			b.Write(chunk)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return "", err
		}
	}
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
