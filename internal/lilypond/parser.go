// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/iter"
	"gopkg.microglot.org/lilyc/internal/ly"
)

type ParserLilyPond struct {
	reporter exc.Reporter
}

func NewParserLilyPond(reporter exc.Reporter) *ParserLilyPond {
	return &ParserLilyPond{reporter: reporter}
}

func (self *ParserLilyPond) PrepareParse(ctx context.Context, f ly.LexerFile, src string) (*parserLilyPondTokens, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	// Comments never influence the parse and the trailing EOF marker is
	// represented as the absence of a token, so both are dropped here.
	filtered := iter.NewIteratorFilter(ft, ly.Filter[*ly.Token](iter.FilterFunc[*ly.Token](func(ctx context.Context, t *ly.Token) bool {
		switch t.Type {
		case ly.TokenTypeComment, ly.TokenTypeEOF:
			return false
		default:
			return true
		}
	})))

	tokens := iter.NewLookahead(filtered, 8)

	return &parserLilyPondTokens{
		reporter: self.reporter,
		ctx:      ctx,
		tokens:   tokens,
		uri:      f.Path(ctx),
		src:      src,
	}, nil
}

type parserLilyPondTokens struct {
	reporter exc.Reporter
	ctx      context.Context
	uri      string
	// src is the full source text; raw captures (markup, markuplist)
	// slice it by token offsets.
	src string
	// loc is the .Span.End of the last successfully parsed token, kept
	// so that "unexpected EOF" errors point somewhere meaningful.
	loc    ly.Location
	tokens ly.Lookahead[*ly.Token]
}

func (p *parserLilyPondTokens) report(code string, message string) {
	p.reporter.Report(exc.New(exc.Location{
		URI:      p.uri,
		Location: p.loc,
	}, code, message))
}

func (p *parserLilyPondTokens) advance() {
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if maybeToken.IsPresent() {
		p.loc = maybeToken.Value().Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserLilyPondTokens) peek() *ly.Token {
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

func (p *parserLilyPondTokens) peekN(n uint8) *ly.Token {
	maybeToken := p.tokens.Lookahead(p.ctx, n)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

// reports an error if there is no current token, or the current token
// isn't of the expected type. advances on success.
func (p *parserLilyPondTokens) expectOne(expectedType ly.TokenType) *ly.Token {
	return p.expectOneOf([]ly.TokenType{expectedType})
}

// reports an error if current token isn't one of the given expected
// types. advances on success.
func (p *parserLilyPondTokens) expectOneOf(expectedTypes []ly.TokenType) *ly.Token {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting %v)", expectedTypes))
		return nil
	}
	for _, expectedType := range expectedTypes {
		if maybeToken.Type == expectedType {
			p.advance()
			return maybeToken
		}
	}
	p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting %v)", maybeToken, expectedTypes))
	return nil
}

// raw slices the original source text between two token spans, both
// ends inclusive.
func (p *parserLilyPondTokens) raw(start *ly.Span, end *ly.Span) string {
	return p.src[start.Start.Offset:end.End.Offset]
}

func (p *parserLilyPondTokens) parseUnsigned(t *ly.Token) (uint32, bool) {
	v, err := strconv.ParseUint(t.Value, 10, 32)
	if err != nil {
		p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", t.Value))
		return 0, false
	}
	return uint32(v), true
}

// Document = [Version] { ToplevelExpression }
func (p *parserLilyPondTokens) parse() *ly.Document {
	file := ly.Document{}

	maybeToken := p.peek()
	if maybeToken != nil && maybeToken.Type == ly.TokenTypeKeywordVersion {
		version := p.parseVersion()
		if version == nil {
			return nil
		}
		file.Version = version
	}

	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			break
		}
		item := p.parseToplevelExpression(maybeToken)
		if item == nil {
			return nil
		}
		file.Items = append(file.Items, item)
	}

	return &file
}

// Version = "\version" string_lit
func (p *parserLilyPondTokens) parseVersion() *ly.Version {
	if p.expectOne(ly.TokenTypeKeywordVersion) == nil {
		return nil
	}
	v := p.expectOne(ly.TokenTypeString)
	if v == nil {
		return nil
	}
	return &ly.Version{Version: v.Value}
}

// ToplevelExpression = ScoreBlock | BookBlock | BookPartBlock |
// HeaderBlock | PaperBlock | LayoutBlock | MidiBlock | Assignment |
// Markup | MarkupList | Music
func (p *parserLilyPondTokens) parseToplevelExpression(t *ly.Token) ly.ToplevelExpression {
	switch t.Type {
	case ly.TokenTypeKeywordScore:
		score := p.parseScoreBlock()
		if score == nil {
			return nil
		}
		return score
	case ly.TokenTypeKeywordBook:
		book := p.parseBookBlock()
		if book == nil {
			return nil
		}
		return book
	case ly.TokenTypeKeywordBookpart:
		part := p.parseBookPartBlock()
		if part == nil {
			return nil
		}
		return part
	case ly.TokenTypeKeywordHeader:
		header := p.parseHeaderBlock()
		if header == nil {
			return nil
		}
		return header
	case ly.TokenTypeKeywordPaper:
		paper := p.parsePaperBlock()
		if paper == nil {
			return nil
		}
		return paper
	case ly.TokenTypeKeywordLayout:
		layout := p.parseLayoutBlock()
		if layout == nil {
			return nil
		}
		return layout
	case ly.TokenTypeKeywordMidi:
		midi := p.parseMidiBlock()
		if midi == nil {
			return nil
		}
		return midi
	case ly.TokenTypeKeywordMarkup:
		p.advance()
		markup := p.parseMarkup()
		if markup == nil {
			return nil
		}
		return &ly.MarkupExpr{Markup: *markup}
	case ly.TokenTypeKeywordMarkuplist:
		p.advance()
		raw := p.parseMarkupListRaw()
		if raw == "" {
			return nil
		}
		return &ly.MarkupList{Raw: raw}
	case ly.TokenTypeSymbol, ly.TokenTypeNoteName:
		if next := p.peekN(1); next != nil && next.Type == ly.TokenTypeEqual && !p.looksLikeOctaveCheck(t) {
			assignment := p.parseAssignment()
			if assignment == nil {
				return nil
			}
			return assignment
		}
	}
	music := p.parseMusic()
	if music == nil {
		return nil
	}
	return &ly.MusicItem{Music: music}
}

// ScoreBlock = "\score" "{" { ScoreItem } "}"
func (p *parserLilyPondTokens) parseScoreBlock() *ly.ScoreBlock {
	if p.expectOne(ly.TokenTypeKeywordScore) == nil {
		return nil
	}
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	score := ly.ScoreBlock{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in \\score block")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return &score
		}
		switch maybeToken.Type {
		case ly.TokenTypeKeywordHeader:
			header := p.parseHeaderBlock()
			if header == nil {
				return nil
			}
			score.Items = append(score.Items, header)
		case ly.TokenTypeKeywordLayout:
			layout := p.parseLayoutBlock()
			if layout == nil {
				return nil
			}
			score.Items = append(score.Items, layout)
		case ly.TokenTypeKeywordMidi:
			midi := p.parseMidiBlock()
			if midi == nil {
				return nil
			}
			score.Items = append(score.Items, midi)
		default:
			music := p.parseMusic()
			if music == nil {
				return nil
			}
			score.Items = append(score.Items, &ly.MusicItem{Music: music})
		}
	}
}

// BookBlock = "\book" "{" { BookItem } "}"
func (p *parserLilyPondTokens) parseBookBlock() *ly.BookBlock {
	if p.expectOne(ly.TokenTypeKeywordBook) == nil {
		return nil
	}
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	book := ly.BookBlock{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in \\book block")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return &book
		}
		switch maybeToken.Type {
		case ly.TokenTypeKeywordBookpart:
			part := p.parseBookPartBlock()
			if part == nil {
				return nil
			}
			book.Items = append(book.Items, part)
		case ly.TokenTypeKeywordScore:
			score := p.parseScoreBlock()
			if score == nil {
				return nil
			}
			book.Items = append(book.Items, score)
		case ly.TokenTypeKeywordHeader:
			header := p.parseHeaderBlock()
			if header == nil {
				return nil
			}
			book.Items = append(book.Items, header)
		case ly.TokenTypeKeywordPaper:
			paper := p.parsePaperBlock()
			if paper == nil {
				return nil
			}
			book.Items = append(book.Items, paper)
		default:
			if maybeToken.Type == ly.TokenTypeSymbol {
				if next := p.peekN(1); next != nil && next.Type == ly.TokenTypeEqual {
					assignment := p.parseAssignment()
					if assignment == nil {
						return nil
					}
					book.Items = append(book.Items, assignment)
					continue
				}
			}
			music := p.parseMusic()
			if music == nil {
				return nil
			}
			book.Items = append(book.Items, &ly.MusicItem{Music: music})
		}
	}
}

// BookPartBlock = "\bookpart" "{" { BookPartItem } "}"
func (p *parserLilyPondTokens) parseBookPartBlock() *ly.BookPartBlock {
	if p.expectOne(ly.TokenTypeKeywordBookpart) == nil {
		return nil
	}
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	part := ly.BookPartBlock{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in \\bookpart block")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return &part
		}
		switch maybeToken.Type {
		case ly.TokenTypeKeywordScore:
			score := p.parseScoreBlock()
			if score == nil {
				return nil
			}
			part.Items = append(part.Items, score)
		case ly.TokenTypeKeywordHeader:
			header := p.parseHeaderBlock()
			if header == nil {
				return nil
			}
			part.Items = append(part.Items, header)
		case ly.TokenTypeKeywordPaper:
			paper := p.parsePaperBlock()
			if paper == nil {
				return nil
			}
			part.Items = append(part.Items, paper)
		default:
			if maybeToken.Type == ly.TokenTypeSymbol {
				if next := p.peekN(1); next != nil && next.Type == ly.TokenTypeEqual {
					assignment := p.parseAssignment()
					if assignment == nil {
						return nil
					}
					part.Items = append(part.Items, assignment)
					continue
				}
			}
			music := p.parseMusic()
			if music == nil {
				return nil
			}
			part.Items = append(part.Items, &ly.MusicItem{Music: music})
		}
	}
}

// HeaderBlock = "\header" "{" { Assignment } "}"
func (p *parserLilyPondTokens) parseHeaderBlock() *ly.HeaderBlock {
	if p.expectOne(ly.TokenTypeKeywordHeader) == nil {
		return nil
	}
	fields := p.parseAssignmentBlock("\\header")
	if fields == nil {
		return nil
	}
	return &ly.HeaderBlock{Fields: fields}
}

// PaperBlock = "\paper" "{" { Assignment } "}"
func (p *parserLilyPondTokens) parsePaperBlock() *ly.PaperBlock {
	if p.expectOne(ly.TokenTypeKeywordPaper) == nil {
		return nil
	}
	body := p.parseAssignmentBlock("\\paper")
	if body == nil {
		return nil
	}
	return &ly.PaperBlock{Body: body}
}

// parseAssignmentBlock parses "{" { Assignment } "}" and always returns
// a non-nil (possibly empty) slice on success.
func (p *parserLilyPondTokens) parseAssignmentBlock(blockName string) []*ly.Assignment {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	assignments := []*ly.Assignment{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in "+blockName+" block")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return assignments
		}
		assignment := p.parseAssignment()
		if assignment == nil {
			return nil
		}
		assignments = append(assignments, assignment)
	}
}

// LayoutBlock = "\layout" "{" { Assignment | ContextModBlock } "}"
func (p *parserLilyPondTokens) parseLayoutBlock() *ly.LayoutBlock {
	if p.expectOne(ly.TokenTypeKeywordLayout) == nil {
		return nil
	}
	body := p.parseLayoutBody("\\layout")
	if body == nil {
		return nil
	}
	return &ly.LayoutBlock{Body: body}
}

// MidiBlock = "\midi" "{" { Assignment | ContextModBlock } "}"
func (p *parserLilyPondTokens) parseMidiBlock() *ly.MidiBlock {
	if p.expectOne(ly.TokenTypeKeywordMidi) == nil {
		return nil
	}
	body := p.parseLayoutBody("\\midi")
	if body == nil {
		return nil
	}
	return &ly.MidiBlock{Body: body}
}

func (p *parserLilyPondTokens) parseLayoutBody(blockName string) []ly.LayoutItem {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	items := []ly.LayoutItem{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in "+blockName+" block")
			return nil
		}
		switch maybeToken.Type {
		case ly.TokenTypeBraceClose:
			p.advance()
			return items
		case ly.TokenTypeKeywordContext:
			p.advance()
			if p.expectOne(ly.TokenTypeBraceOpen) == nil {
				return nil
			}
			mods := p.parseContextModItems("\\context")
			if mods == nil {
				return nil
			}
			items = append(items, &ly.ContextModBlock{Items: mods})
		default:
			assignment := p.parseAssignment()
			if assignment == nil {
				return nil
			}
			items = append(items, assignment)
		}
	}
}

// Assignment = symbol "=" AssignmentValue
// looksLikeOctaveCheck distinguishes a note with an octave check
// (`c ='' d`) from an assignment (`c = { d }`): only a note name can
// carry one, and the check mark (quote or comma) sits right after the
// equal sign.
func (p *parserLilyPondTokens) looksLikeOctaveCheck(t *ly.Token) bool {
	if t.Type != ly.TokenTypeNoteName {
		return false
	}
	after := p.peekN(2)
	return after != nil && (after.Type == ly.TokenTypeQuote || after.Type == ly.TokenTypeComma)
}

func (p *parserLilyPondTokens) parseAssignment() *ly.Assignment {
	name := p.expectOneOf([]ly.TokenType{ly.TokenTypeSymbol, ly.TokenTypeNoteName})
	if name == nil {
		return nil
	}
	if p.expectOne(ly.TokenTypeEqual) == nil {
		return nil
	}
	value := p.parseAssignmentValue()
	if value == nil {
		return nil
	}
	return &ly.Assignment{Name: name.Value, Value: value}
}

// AssignmentValue = string_lit | number | scheme | "\markup" Markup |
// "\markuplist" raw | identifier | Music
func (p *parserLilyPondTokens) parseAssignmentValue() ly.AssignmentValue {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting an assignment value)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeString:
		p.advance()
		return &ly.AssignString{Value: maybeToken.Value}
	case ly.TokenTypeUnsigned, ly.TokenTypeReal:
		p.advance()
		v, err := strconv.ParseFloat(maybeToken.Value, 64)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", maybeToken.Value))
			return nil
		}
		return &ly.AssignNumber{Value: v}
	case ly.TokenTypeDash:
		p.advance()
		num := p.expectOneOf([]ly.TokenType{ly.TokenTypeUnsigned, ly.TokenTypeReal})
		if num == nil {
			return nil
		}
		v, err := strconv.ParseFloat(num.Value, 64)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", num.Value))
			return nil
		}
		return &ly.AssignNumber{Value: -v}
	case ly.TokenTypeSchemeRaw:
		p.advance()
		return &ly.AssignScheme{Raw: maybeToken.Value}
	case ly.TokenTypeKeywordMarkup:
		p.advance()
		markup := p.parseMarkup()
		if markup == nil {
			return nil
		}
		return &ly.AssignMarkup{Markup: *markup}
	case ly.TokenTypeKeywordMarkuplist:
		p.advance()
		raw := p.parseMarkupListRaw()
		if raw == "" {
			return nil
		}
		return &ly.AssignMarkupList{Raw: raw}
	case ly.TokenTypeEscapedWord:
		p.advance()
		return &ly.AssignIdentifier{Name: maybeToken.Value}
	default:
		music := p.parseMusic()
		if music == nil {
			return nil
		}
		return &ly.AssignMusic{Music: music}
	}
}

// Markup = string_lit | markup body captured verbatim
func (p *parserLilyPondTokens) parseMarkup() *ly.Markup {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a markup body)")
		return nil
	}
	if maybeToken.Type == ly.TokenTypeString {
		p.advance()
		return &ly.Markup{Text: maybeToken.Value}
	}
	start := maybeToken.Span
	end := p.consumeMarkupUnit()
	if end == nil {
		return nil
	}
	return &ly.Markup{Raw: p.raw(start, end)}
}

// consumeMarkupUnit advances over one markup expression without
// interpreting it: any number of \command prefixes followed by a
// terminal word, literal, or balanced brace group. Returns the span of
// the last consumed token.
func (p *parserLilyPondTokens) consumeMarkupUnit() *ly.Span {
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in markup")
			return nil
		}
		switch maybeToken.Type {
		case ly.TokenTypeEscapedWord:
			p.advance()
		case ly.TokenTypeString, ly.TokenTypeSchemeRaw, ly.TokenTypeUnsigned,
			ly.TokenTypeReal, ly.TokenTypeSymbol, ly.TokenTypeNoteName:
			p.advance()
			return maybeToken.Span
		case ly.TokenTypeBraceOpen:
			return p.consumeBalancedBraces()
		default:
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s in markup", maybeToken))
			return nil
		}
	}
}

// consumeBalancedBraces advances from an opening brace to its matching
// close and returns the span of the closing token.
func (p *parserLilyPondTokens) consumeBalancedBraces() *ly.Span {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	depth := 1
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting })")
			return nil
		}
		p.advance()
		switch maybeToken.Type {
		case ly.TokenTypeBraceOpen:
			depth++
		case ly.TokenTypeBraceClose:
			depth--
			if depth == 0 {
				return maybeToken.Span
			}
		}
	}
}

// parseMarkupListRaw captures a \markuplist brace group verbatim.
func (p *parserLilyPondTokens) parseMarkupListRaw() string {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a markup list)")
		return ""
	}
	if maybeToken.Type != ly.TokenTypeBraceOpen {
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting {)", maybeToken))
		return ""
	}
	start := maybeToken.Span
	end := p.consumeBalancedBraces()
	if end == nil {
		return ""
	}
	return p.raw(start, end)
}

// ContextModItems = { ContextModItem } "}"
//
// Shared by \with { ... } and \context { ... } inside \layout and \midi.
// The opening brace has already been consumed.
func (p *parserLilyPondTokens) parseContextModItems(blockName string) []ly.ContextModItem {
	items := []ly.ContextModItem{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF in "+blockName+" block")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return items
		}
		item := p.parseContextModItem(maybeToken)
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
}

func (p *parserLilyPondTokens) parseContextModItem(t *ly.Token) ly.ContextModItem {
	switch t.Type {
	case ly.TokenTypeKeywordConsists:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModConsists{Name: name}
	case ly.TokenTypeKeywordRemove:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModRemove{Name: name}
	case ly.TokenTypeKeywordAccepts:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModAccepts{Name: name}
	case ly.TokenTypeKeywordDenies:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModDenies{Name: name}
	case ly.TokenTypeKeywordAlias:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModAlias{Name: name}
	case ly.TokenTypeKeywordDefaultchild:
		name := p.parseContextModName()
		if name == "" {
			return nil
		}
		return &ly.ContextModDefaultChild{Name: name}
	case ly.TokenTypeKeywordDescription:
		p.advance()
		text := p.expectOne(ly.TokenTypeString)
		if text == nil {
			return nil
		}
		return &ly.ContextModDescription{Text: text.Value}
	case ly.TokenTypeKeywordName:
		p.advance()
		name := p.expectOneOf([]ly.TokenType{ly.TokenTypeSymbol, ly.TokenTypeString})
		if name == nil {
			return nil
		}
		return &ly.ContextModName{Name: name.Value}
	case ly.TokenTypeKeywordOverride:
		p.advance()
		path, value := p.parsePropertyAssignment()
		if path == nil {
			return nil
		}
		return &ly.ContextModOverride{Path: *path, Value: value}
	case ly.TokenTypeKeywordRevert:
		p.advance()
		path := p.parsePropertyPath()
		if path == nil {
			return nil
		}
		return &ly.ContextModRevert{Path: *path}
	case ly.TokenTypeKeywordSet:
		p.advance()
		path, value := p.parsePropertyAssignment()
		if path == nil {
			return nil
		}
		return &ly.ContextModSet{Path: *path, Value: value}
	case ly.TokenTypeKeywordUnset:
		p.advance()
		path := p.parsePropertyPath()
		if path == nil {
			return nil
		}
		return &ly.ContextModUnset{Path: *path}
	case ly.TokenTypeEscapedWord:
		p.advance()
		return &ly.ContextModRef{Name: t.Value}
	case ly.TokenTypeSymbol:
		assignment := p.parseAssignment()
		if assignment == nil {
			return nil
		}
		return assignment
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a context modification)", t))
		return nil
	}
}

// parseContextModName handles the single-name modifications such as
// \consists "Timing_engraver" or \remove Note_heads_engraver.
func (p *parserLilyPondTokens) parseContextModName() string {
	p.advance()
	name := p.expectOneOf([]ly.TokenType{ly.TokenTypeString, ly.TokenTypeSymbol})
	if name == nil {
		return ""
	}
	return name.Value
}

// PropertyAssignment = PropertyPath "=" PropertyValue
func (p *parserLilyPondTokens) parsePropertyAssignment() (*ly.PropertyPath, ly.PropertyValue) {
	path := p.parsePropertyPath()
	if path == nil {
		return nil, nil
	}
	if p.expectOne(ly.TokenTypeEqual) == nil {
		return nil, nil
	}
	value := p.parsePropertyValue()
	if value == nil {
		return nil, nil
	}
	return path, value
}

// PropertyPath = segment { "." segment }
//
// Segments can be hyphenated (bound-details), which the lexer splits
// into word/dash/word runs that are joined back together here.
func (p *parserLilyPondTokens) parsePropertyPath() *ly.PropertyPath {
	segment := p.parsePathSegment()
	if segment == "" {
		return nil
	}
	path := ly.PropertyPath{Segments: []string{segment}}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != ly.TokenTypeDot {
			return &path
		}
		p.advance()
		segment := p.parsePathSegment()
		if segment == "" {
			return nil
		}
		path.Segments = append(path.Segments, segment)
	}
}

func (p *parserLilyPondTokens) parsePathSegment() string {
	word := p.expectOneOf([]ly.TokenType{ly.TokenTypeSymbol, ly.TokenTypeNoteName})
	if word == nil {
		return ""
	}
	segment := word.Value
	for {
		dash := p.peek()
		next := p.peekN(1)
		if dash == nil || dash.Type != ly.TokenTypeDash || next == nil {
			return segment
		}
		if next.Type != ly.TokenTypeSymbol && next.Type != ly.TokenTypeNoteName {
			return segment
		}
		p.advance()
		p.advance()
		segment = segment + "-" + next.Value
	}
}

// PropertyValue = string_lit | number | scheme | identifier
func (p *parserLilyPondTokens) parsePropertyValue() ly.PropertyValue {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a property value)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeString:
		p.advance()
		return &ly.PropString{Value: maybeToken.Value}
	case ly.TokenTypeUnsigned, ly.TokenTypeReal:
		p.advance()
		v, err := strconv.ParseFloat(maybeToken.Value, 64)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", maybeToken.Value))
			return nil
		}
		return &ly.PropNumber{Value: v}
	case ly.TokenTypeDash:
		p.advance()
		num := p.expectOneOf([]ly.TokenType{ly.TokenTypeUnsigned, ly.TokenTypeReal})
		if num == nil {
			return nil
		}
		v, err := strconv.ParseFloat(num.Value, 64)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", num.Value))
			return nil
		}
		return &ly.PropNumber{Value: -v}
	case ly.TokenTypeSchemeRaw:
		p.advance()
		return &ly.PropScheme{Raw: maybeToken.Value}
	case ly.TokenTypeEscapedWord:
		p.advance()
		return &ly.PropIdentifier{Name: maybeToken.Value}
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a property value)", maybeToken))
		return nil
	}
}
