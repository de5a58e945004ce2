// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/ly"
)

// parseChordModeBlock parses \chordmode { ... }. The keyword has
// already been consumed.
func (p *parserLilyPondTokens) parseChordModeBlock() ly.Music {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	body := p.parseChordBody()
	if body == nil {
		return nil
	}
	return &ly.ChordMode{Body: body}
}

// parseChordsShorthand parses \chords [\with mods] { ... }, which is
// sugar for a new ChordNames context around a \chordmode body.
func (p *parserLilyPondTokens) parseChordsShorthand() ly.Music {
	contexted := ly.ContextedMusic{Keyword: ly.ContextKeywordNew, ContextType: "ChordNames"}
	mods, ok := p.parseOptionalWith()
	if !ok {
		return nil
	}
	contexted.With = mods
	music := p.parseChordModeBlock()
	if music == nil {
		return nil
	}
	contexted.Music = music
	return &contexted
}

func (p *parserLilyPondTokens) parseDrumModeBlock() ly.Music {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	body := p.parseDrumBody()
	if body == nil {
		return nil
	}
	return &ly.DrumMode{Body: body}
}

// parseDrumsShorthand parses \drums [\with mods] { ... }: a new
// DrumStaff context around a \drummode body.
func (p *parserLilyPondTokens) parseDrumsShorthand() ly.Music {
	contexted := ly.ContextedMusic{Keyword: ly.ContextKeywordNew, ContextType: "DrumStaff"}
	mods, ok := p.parseOptionalWith()
	if !ok {
		return nil
	}
	contexted.With = mods
	music := p.parseDrumModeBlock()
	if music == nil {
		return nil
	}
	contexted.Music = music
	return &contexted
}

func (p *parserLilyPondTokens) parseFigureModeBlock() ly.Music {
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	body := p.parseFigureBody()
	if body == nil {
		return nil
	}
	return &ly.FigureMode{Body: body}
}

// parseFiguresShorthand parses \figures [\with mods] { ... }: a new
// FiguredBass context around a \figuremode body.
func (p *parserLilyPondTokens) parseFiguresShorthand() ly.Music {
	contexted := ly.ContextedMusic{Keyword: ly.ContextKeywordNew, ContextType: "FiguredBass"}
	mods, ok := p.parseOptionalWith()
	if !ok {
		return nil
	}
	contexted.With = mods
	music := p.parseFigureModeBlock()
	if music == nil {
		return nil
	}
	contexted.Music = music
	return &contexted
}

// parseOptionalWith consumes a \with block when present. The bool
// result is false only on a reported parse error.
func (p *parserLilyPondTokens) parseOptionalWith() ([]ly.ContextModItem, bool) {
	t := p.peek()
	if t == nil || t.Type != ly.TokenTypeKeywordWith {
		return nil, true
	}
	p.advance()
	mods := p.parseWithBody()
	if mods == nil {
		return nil, false
	}
	return mods, true
}

// ChordBody = { "|" | "r" | "s" | "q" | identifier | ChordEntry } "}"
//
// The opening brace has already been consumed.
func (p *parserLilyPondTokens) parseChordBody() ly.Music {
	seq := ly.Sequential{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting })")
			return nil
		}
		switch maybeToken.Type {
		case ly.TokenTypeBraceClose:
			p.advance()
			return &seq
		case ly.TokenTypePipe:
			p.advance()
			seq.Items = append(seq.Items, &ly.BarCheck{})
		case ly.TokenTypeEscapedWord:
			p.advance()
			seq.Items = append(seq.Items, &ly.Identifier{Name: maybeToken.Value})
		case ly.TokenTypeSymbol:
			switch maybeToken.Value {
			case "r", "s", "q":
				item := p.parseRestOrSkip(maybeToken)
				if item == nil {
					return nil
				}
				seq.Items = append(seq.Items, item)
			default:
				p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a chord)", maybeToken))
				return nil
			}
		case ly.TokenTypeNoteName:
			entry := p.parseChordEntry()
			if entry == nil {
				return nil
			}
			seq.Items = append(seq.Items, entry)
		default:
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a chord)", maybeToken))
			return nil
		}
	}
}

// ChordEntry = pitch [ Duration ] { ":" Quality | "^" Removals |
// "/" "+" pitch | "/" pitch } { PostEvent }
func (p *parserLilyPondTokens) parseChordEntry() ly.Music {
	root := p.parseModePitch()
	if root == nil {
		return nil
	}
	entry := ly.ChordEntry{Root: *root}
	entry.Duration = p.parseOptionalDuration()
suffix:
	for {
		t := p.peek()
		if t == nil {
			break
		}
		switch t.Type {
		case ly.TokenTypeColon:
			p.advance()
			items, ok := p.parseChordQualityItems()
			if !ok {
				return nil
			}
			entry.Quality = items
		case ly.TokenTypeCaret:
			p.advance()
			steps, ok := p.parseChordRemovals()
			if !ok {
				return nil
			}
			entry.Removals = steps
		case ly.TokenTypeSlash:
			p.advance()
			if next := p.peek(); next != nil && next.Type == ly.TokenTypePlus {
				p.advance()
				bass := p.parseModePitch()
				if bass == nil {
					return nil
				}
				entry.Bass = bass
			} else {
				inversion := p.parseModePitch()
				if inversion == nil {
					return nil
				}
				entry.Inversion = inversion
			}
		default:
			break suffix
		}
	}
	events, ok := p.parsePostEvents()
	if !ok {
		return nil
	}
	entry.PostEvents = events
	return &entry
}

// parseModePitch parses a note name with octave marks but none of the
// note-mode extras (accidental flags, octave checks).
func (p *parserLilyPondTokens) parseModePitch() *ly.Pitch {
	tok := p.expectOne(ly.TokenTypeNoteName)
	if tok == nil {
		return nil
	}
	step, alter, ok := ly.ParsePitch(tok.Value)
	if !ok {
		p.report(exc.CodeInvalidNoteName, fmt.Sprintf("invalid note name %s", tok.Value))
		return nil
	}
	pitch := ly.Pitch{Step: step, Alter: alter}
	for {
		t := p.peek()
		if t == nil {
			return &pitch
		}
		if t.Type == ly.TokenTypeQuote {
			p.advance()
			pitch.Octave++
			continue
		}
		if t.Type == ly.TokenTypeComma {
			p.advance()
			pitch.Octave--
			continue
		}
		return &pitch
	}
}

// Quality = QualityItem { [ "." ] QualityItem }
//
// Items run together in source (m7) or separate with dots (m.7). A dot
// only continues the list when a quality item follows it.
func (p *parserLilyPondTokens) parseChordQualityItems() ([]ly.ChordQualityItem, bool) {
	items, ok := p.parseChordQualityItem()
	if !ok {
		return nil, false
	}
	for {
		t := p.peek()
		if t == nil {
			break
		}
		if t.Type == ly.TokenTypeDot {
			next := p.peekN(1)
			if next == nil || !chordQualityItemStart(next) {
				break
			}
			p.advance()
		} else if !chordQualityItemStart(t) {
			break
		}
		more, ok := p.parseChordQualityItem()
		if !ok {
			return nil, false
		}
		items = append(items, more...)
	}
	return items, true
}

func chordQualityItemStart(t *ly.Token) bool {
	switch t.Type {
	case ly.TokenTypeUnsigned, ly.TokenTypeReal:
		return true
	case ly.TokenTypeSymbol, ly.TokenTypeNoteName:
		_, ok := ly.ChordModifierFromName(t.Value)
		return ok
	}
	return false
}

// parseChordQualityItem parses one quality item. A real literal such as
// 7.9 is two run-together steps, so the result is a slice.
func (p *parserLilyPondTokens) parseChordQualityItem() ([]ly.ChordQualityItem, bool) {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a chord quality)")
		return nil, false
	}
	switch maybeToken.Type {
	case ly.TokenTypeSymbol, ly.TokenTypeNoteName:
		modifier, ok := ly.ChordModifierFromName(maybeToken.Value)
		if !ok {
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unknown chord modifier %s", maybeToken.Value))
			return nil, false
		}
		p.advance()
		return []ly.ChordQualityItem{&ly.ChordQualityModifier{Modifier: modifier}}, true
	case ly.TokenTypeUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil, false
		}
		step := ly.ChordStep{Number: n, Alteration: p.parseStepAlteration()}
		return []ly.ChordQualityItem{&ly.ChordQualityStep{Step: step}}, true
	case ly.TokenTypeReal:
		p.advance()
		steps, ok := p.chordStepsFromReal(maybeToken)
		if !ok {
			return nil, false
		}
		items := make([]ly.ChordQualityItem, 0, len(steps))
		for _, step := range steps {
			items = append(items, &ly.ChordQualityStep{Step: step})
		}
		return items, true
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a chord quality)", maybeToken))
		return nil, false
	}
}

// chordStepsFromReal splits a run-together step pair such as 7.9 back
// into its steps. An alteration after the literal applies to the last
// step.
func (p *parserLilyPondTokens) chordStepsFromReal(t *ly.Token) ([]ly.ChordStep, bool) {
	parts := strings.Split(t.Value, ".")
	steps := make([]ly.ChordStep, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid chord step %s", t.Value))
			return nil, false
		}
		steps = append(steps, ly.ChordStep{Number: uint32(n)})
	}
	steps[len(steps)-1].Alteration = p.parseStepAlteration()
	return steps, true
}

func (p *parserLilyPondTokens) parseStepAlteration() ly.StepAlteration {
	t := p.peek()
	if t == nil {
		return ly.StepAlterationNatural
	}
	switch t.Type {
	case ly.TokenTypePlus:
		p.advance()
		return ly.StepAlterationSharp
	case ly.TokenTypeDash:
		p.advance()
		return ly.StepAlterationFlat
	}
	return ly.StepAlterationNatural
}

// Removals = Step { "." Step }
func (p *parserLilyPondTokens) parseChordRemovals() ([]ly.ChordStep, bool) {
	steps, ok := p.parseChordRemovalStep()
	if !ok {
		return nil, false
	}
	for {
		t := p.peek()
		if t == nil || t.Type != ly.TokenTypeDot {
			break
		}
		next := p.peekN(1)
		if next == nil || (next.Type != ly.TokenTypeUnsigned && next.Type != ly.TokenTypeReal) {
			break
		}
		p.advance()
		more, ok := p.parseChordRemovalStep()
		if !ok {
			return nil, false
		}
		steps = append(steps, more...)
	}
	return steps, true
}

func (p *parserLilyPondTokens) parseChordRemovalStep() ([]ly.ChordStep, bool) {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a chord step)")
		return nil, false
	}
	switch maybeToken.Type {
	case ly.TokenTypeUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil, false
		}
		return []ly.ChordStep{{Number: n, Alteration: p.parseStepAlteration()}}, true
	case ly.TokenTypeReal:
		p.advance()
		return p.chordStepsFromReal(maybeToken)
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a chord step)", maybeToken))
		return nil, false
	}
}

// DrumBody = { DrumElement } "}"
//
// The opening brace has already been consumed.
func (p *parserLilyPondTokens) parseDrumBody() ly.Music {
	seq := ly.Sequential{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting })")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return &seq
		}
		item := p.parseDrumElement(maybeToken)
		if item == nil {
			return nil
		}
		seq.Items = append(seq.Items, item)
	}
}

func (p *parserLilyPondTokens) parseDrumSimultaneous() ly.Music {
	sim := ly.Simultaneous{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting >>)")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeDoubleAngleClose {
			p.advance()
			return &sim
		}
		if maybeToken.Type == ly.TokenTypeDoubleBackslash {
			p.advance()
			sim.Items = append(sim.Items, &ly.VoiceSeparator{})
			continue
		}
		item := p.parseDrumElement(maybeToken)
		if item == nil {
			return nil
		}
		sim.Items = append(sim.Items, item)
	}
}

// DrumElement = "|" | rest | group | DrumChord | identifier | DrumNote
func (p *parserLilyPondTokens) parseDrumElement(t *ly.Token) ly.Music {
	switch t.Type {
	case ly.TokenTypePipe:
		p.advance()
		return &ly.BarCheck{}
	case ly.TokenTypeBraceOpen:
		p.advance()
		return p.parseDrumBody()
	case ly.TokenTypeDoubleAngleOpen:
		p.advance()
		return p.parseDrumSimultaneous()
	case ly.TokenTypeAngleOpen:
		return p.parseDrumChord()
	case ly.TokenTypeEscapedWord:
		p.advance()
		return &ly.Identifier{Name: t.Value}
	case ly.TokenTypeSymbol, ly.TokenTypeNoteName:
		if t.Value == "r" || t.Value == "s" || t.Value == "R" {
			return p.parseRestOrSkip(t)
		}
		if !ly.IsDrumPitch(t.Value) {
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unknown percussion name %s", t.Value))
			return nil
		}
		p.advance()
		note := ly.DrumNote{Name: t.Value}
		note.Duration = p.parseOptionalDuration()
		events, ok := p.parsePostEvents()
		if !ok {
			return nil
		}
		note.PostEvents = events
		return &note
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a drum event)", t))
		return nil
	}
}

// DrumChord = "<" { name } ">" [ Duration ] { PostEvent }
func (p *parserLilyPondTokens) parseDrumChord() ly.Music {
	if p.expectOne(ly.TokenTypeAngleOpen) == nil {
		return nil
	}
	chord := ly.DrumChord{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting >)")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeAngleClose {
			p.advance()
			break
		}
		if maybeToken.Type != ly.TokenTypeSymbol && maybeToken.Type != ly.TokenTypeNoteName {
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a percussion name)", maybeToken))
			return nil
		}
		if !ly.IsDrumPitch(maybeToken.Value) {
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unknown percussion name %s", maybeToken.Value))
			return nil
		}
		p.advance()
		chord.Names = append(chord.Names, maybeToken.Value)
	}
	chord.Duration = p.parseOptionalDuration()
	events, ok := p.parsePostEvents()
	if !ok {
		return nil
	}
	chord.PostEvents = events
	return &chord
}

// FigureBody = { "|" | rest | identifier | FigureEvent } "}"
//
// The opening brace has already been consumed. Rests here take a
// duration but no post events: \< and \> open and close figure groups
// in this mode.
func (p *parserLilyPondTokens) parseFigureBody() ly.Music {
	seq := ly.Sequential{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting })")
			return nil
		}
		switch maybeToken.Type {
		case ly.TokenTypeBraceClose:
			p.advance()
			return &seq
		case ly.TokenTypePipe:
			p.advance()
			seq.Items = append(seq.Items, &ly.BarCheck{})
		case ly.TokenTypeEscapedWord:
			p.advance()
			seq.Items = append(seq.Items, &ly.Identifier{Name: maybeToken.Value})
		case ly.TokenTypeSymbol:
			switch maybeToken.Value {
			case "r":
				p.advance()
				seq.Items = append(seq.Items, &ly.Rest{Duration: p.parseOptionalDuration()})
			case "s":
				p.advance()
				seq.Items = append(seq.Items, &ly.Skip{Duration: p.parseOptionalDuration()})
			default:
				p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a figure)", maybeToken))
				return nil
			}
		case ly.TokenTypeAngleOpen, ly.TokenTypeEscapedAngleOpen:
			figure := p.parseFigureEvent(maybeToken.Type == ly.TokenTypeEscapedAngleOpen)
			if figure == nil {
				return nil
			}
			seq.Items = append(seq.Items, figure)
		default:
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a figure)", maybeToken))
			return nil
		}
	}
}

// FigureEvent = ("<" | "\<") { BassFigure } (">" | "\>") [ Duration ]
//
// The escaped and plain delimiters pair up: \< closes with \> and <
// with >.
func (p *parserLilyPondTokens) parseFigureEvent(escaped bool) ly.Music {
	p.advance()
	closeType := ly.TokenTypeAngleClose
	if escaped {
		closeType = ly.TokenTypeEscapedAngleClose
	}
	figure := ly.Figure{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a figure group close)")
			return nil
		}
		if maybeToken.Type == closeType {
			p.advance()
			break
		}
		f := p.parseBassFigure()
		if f == nil {
			return nil
		}
		figure.Figures = append(figure.Figures, *f)
	}
	figure.Duration = p.parseOptionalDuration()
	return &figure
}

// BassFigure = [ "[" ] ( number | "_" ) [ Alteration ]
// { Modification } [ "]" ]
func (p *parserLilyPondTokens) parseBassFigure() *ly.BassFigure {
	figure := ly.BassFigure{}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeBracketOpen {
		p.advance()
		figure.BracketStart = true
	}
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a bass figure)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil
		}
		figure.Number = &n
	case ly.TokenTypeUnderscore:
		p.advance()
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a bass figure)", maybeToken))
		return nil
	}
	figure.Alteration = p.parseFigureAlteration()
mods:
	for {
		t := p.peek()
		if t == nil {
			break
		}
		switch t.Type {
		case ly.TokenTypeEscapedPlus:
			p.advance()
			figure.Modifications = append(figure.Modifications, ly.FigureModificationAugmented)
		case ly.TokenTypeEscapedExclamation:
			p.advance()
			figure.Modifications = append(figure.Modifications, ly.FigureModificationNoContinuation)
		case ly.TokenTypeSlash:
			p.advance()
			figure.Modifications = append(figure.Modifications, ly.FigureModificationDiminished)
		case ly.TokenTypeDoubleBackslash:
			p.advance()
			figure.Modifications = append(figure.Modifications, ly.FigureModificationAugmentedSlash)
		default:
			break mods
		}
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeBracketClose {
		p.advance()
		figure.BracketStop = true
	}
	return &figure
}

// parseFigureAlteration reads the accidental after a figure number. A
// double flat arrives as the single -- token.
func (p *parserLilyPondTokens) parseFigureAlteration() ly.FigureAlteration {
	t := p.peek()
	if t == nil {
		return ly.FigureAlterationNatural
	}
	switch t.Type {
	case ly.TokenTypePlus:
		p.advance()
		if next := p.peek(); next != nil && next.Type == ly.TokenTypePlus {
			p.advance()
			return ly.FigureAlterationDoubleSharp
		}
		return ly.FigureAlterationSharp
	case ly.TokenTypeDash:
		p.advance()
		return ly.FigureAlterationFlat
	case ly.TokenTypeLyricHyphen:
		p.advance()
		return ly.FigureAlterationDoubleFlat
	case ly.TokenTypeExclamation:
		p.advance()
		return ly.FigureAlterationForcedNatural
	}
	return ly.FigureAlterationNatural
}

// parseFunctionCall collects the arguments after an unrecognized \word.
// Greedy: everything that can be an argument is one, and the collection
// stops at the first token that cannot. A bare word stops the argument
// list when it is a note event letter or the start of an assignment. A
// trailing \etc marks a partial application; with no arguments at all
// the word is a plain identifier reference.
func (p *parserLilyPondTokens) parseFunctionCall(name string) ly.Music {
	var args []ly.FunctionArg
collect:
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			break
		}
		switch maybeToken.Type {
		case ly.TokenTypeString:
			p.advance()
			args = append(args, &ly.ArgString{Value: maybeToken.Value})
		case ly.TokenTypeSchemeRaw:
			p.advance()
			args = append(args, &ly.ArgScheme{Raw: maybeToken.Value})
		case ly.TokenTypeKeywordDefault:
			p.advance()
			args = append(args, &ly.ArgDefault{})
		case ly.TokenTypeReal:
			p.advance()
			v, err := strconv.ParseFloat(maybeToken.Value, 64)
			if err != nil {
				p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid number %s", maybeToken.Value))
				return nil
			}
			args = append(args, &ly.ArgNumber{Value: v})
		case ly.TokenTypeUnsigned:
			arg := p.parseNumericArg(maybeToken)
			if arg == nil {
				return nil
			}
			args = append(args, arg)
		case ly.TokenTypeSymbol:
			if maybeToken.Value == "r" || maybeToken.Value == "s" || maybeToken.Value == "R" || maybeToken.Value == "q" {
				break collect
			}
			if next := p.peekN(1); next != nil && next.Type == ly.TokenTypeEqual {
				break collect
			}
			args = append(args, p.parseSymbolListArg())
		case ly.TokenTypeBraceOpen:
			p.advance()
			music := p.parseSequentialBody()
			if music == nil {
				return nil
			}
			args = append(args, &ly.ArgMusic{Music: music})
		case ly.TokenTypeDoubleAngleOpen:
			p.advance()
			music := p.parseSimultaneousBody()
			if music == nil {
				return nil
			}
			args = append(args, &ly.ArgMusic{Music: music})
		default:
			break collect
		}
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeKeywordEtc {
		p.advance()
		return &ly.MusicFunction{Name: name, Args: args, Partial: true}
	}
	if len(args) == 0 {
		return &ly.Identifier{Name: name}
	}
	return &ly.MusicFunction{Name: name, Args: args}
}

// parseNumericArg reads an unsigned argument: a fraction, a written
// duration when dots or multipliers follow a valid base, or a plain
// number.
func (p *parserLilyPondTokens) parseNumericArg(t *ly.Token) ly.FunctionArg {
	if next := p.peekN(1); next != nil && (next.Type == ly.TokenTypeDot || next.Type == ly.TokenTypeStar) {
		if n, err := strconv.ParseUint(t.Value, 10, 32); err == nil && isDurationBase(uint32(n)) {
			duration := p.parseOptionalDuration()
			if duration == nil {
				return nil
			}
			return &ly.ArgDuration{Duration: *duration}
		}
	}
	p.advance()
	num, ok := p.parseUnsigned(t)
	if !ok {
		return nil
	}
	if next := p.peek(); next != nil && next.Type == ly.TokenTypeSlash {
		if after := p.peekN(1); after != nil && after.Type == ly.TokenTypeUnsigned {
			p.advance()
			denTok := p.expectOne(ly.TokenTypeUnsigned)
			if denTok == nil {
				return nil
			}
			den, ok := p.parseUnsigned(denTok)
			if !ok {
				return nil
			}
			return &ly.ArgNumber{Value: float64(num) / float64(den)}
		}
	}
	return &ly.ArgNumber{Value: float64(num)}
}

func isDurationBase(n uint32) bool {
	switch n {
	case 1, 2, 4, 8, 16, 32, 64, 128, 256:
		return true
	}
	return false
}

// parseSymbolListArg reads a bare word and any .segment continuations
// into a symbol list argument.
func (p *parserLilyPondTokens) parseSymbolListArg() ly.FunctionArg {
	first := p.peek()
	p.advance()
	segments := []string{first.Value}
	for {
		t := p.peek()
		if t == nil || t.Type != ly.TokenTypeDot {
			break
		}
		next := p.peekN(1)
		if next == nil {
			break
		}
		switch next.Type {
		case ly.TokenTypeSymbol, ly.TokenTypeNoteName, ly.TokenTypeString, ly.TokenTypeUnsigned:
			p.advance()
			p.advance()
			segments = append(segments, next.Value)
		default:
			return &ly.ArgSymbols{Segments: segments}
		}
	}
	return &ly.ArgSymbols{Segments: segments}
}
