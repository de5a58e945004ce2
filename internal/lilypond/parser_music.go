// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"fmt"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/ly"
)

// Music = MusicPrimary { "\addlyrics" "{" LyricBody "}" }
func (p *parserLilyPondTokens) parseMusic() ly.Music {
	music := p.parseMusicPrimary()
	if music == nil {
		return nil
	}
	var withLyrics *ly.AddLyrics
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != ly.TokenTypeKeywordAddlyrics {
			break
		}
		p.advance()
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		lyrics := p.parseLyricBody()
		if lyrics == nil {
			return nil
		}
		if withLyrics == nil {
			withLyrics = &ly.AddLyrics{Music: music}
		}
		withLyrics.Lyrics = append(withLyrics.Lyrics, lyrics)
	}
	if withLyrics != nil {
		return withLyrics
	}
	return music
}

func (p *parserLilyPondTokens) parseMusicPrimary() ly.Music {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a music expression)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeBraceOpen:
		p.advance()
		return p.parseSequentialBody()
	case ly.TokenTypeDoubleAngleOpen:
		p.advance()
		return p.parseSimultaneousBody()
	case ly.TokenTypeKeywordSequential:
		p.advance()
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		return p.parseSequentialBody()
	case ly.TokenTypeKeywordSimultaneous:
		p.advance()
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		return p.parseSimultaneousBraceBody()
	case ly.TokenTypeNoteName:
		return p.parseNote()
	case ly.TokenTypeAngleOpen:
		return p.parseChord()
	case ly.TokenTypeSymbol:
		return p.parseRestOrSkip(maybeToken)
	case ly.TokenTypePipe:
		p.advance()
		return &ly.BarCheck{}
	case ly.TokenTypeSchemeRaw:
		p.advance()
		return &ly.SchemeMusic{Raw: maybeToken.Value}
	case ly.TokenTypeKeywordRelative:
		p.advance()
		var pitch *ly.Note
		if t := p.peek(); t != nil && t.Type == ly.TokenTypeNoteName {
			pitch = p.parsePitchNote()
			if pitch == nil {
				return nil
			}
		}
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Relative{Pitch: pitch, Body: body}
	case ly.TokenTypeKeywordFixed:
		p.advance()
		pitch := p.parsePitchNote()
		if pitch == nil {
			return nil
		}
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Fixed{Pitch: pitch, Body: body}
	case ly.TokenTypeKeywordTranspose:
		p.advance()
		from := p.parsePitchNote()
		if from == nil {
			return nil
		}
		to := p.parsePitchNote()
		if to == nil {
			return nil
		}
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Transpose{From: from, To: to, Body: body}
	case ly.TokenTypeKeywordNew:
		p.advance()
		return p.parseContextedMusic(ly.ContextKeywordNew)
	case ly.TokenTypeKeywordContext:
		p.advance()
		return p.parseContextedMusic(ly.ContextKeywordContext)
	case ly.TokenTypeKeywordChange:
		p.advance()
		contextType := p.expectOne(ly.TokenTypeSymbol)
		if contextType == nil {
			return nil
		}
		if p.expectOne(ly.TokenTypeEqual) == nil {
			return nil
		}
		name := p.expectOneOf([]ly.TokenType{ly.TokenTypeString, ly.TokenTypeSymbol})
		if name == nil {
			return nil
		}
		return &ly.ContextChange{ContextType: contextType.Value, Name: name.Value}
	case ly.TokenTypeKeywordTuplet:
		p.advance()
		num, den, ok := p.parseFractionPair()
		if !ok {
			return nil
		}
		tuplet := ly.Tuplet{Numerator: num, Denominator: den}
		if t := p.peek(); t != nil && t.Type == ly.TokenTypeUnsigned {
			tuplet.SpanDuration = p.parseOptionalDuration()
		}
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		tuplet.Body = body
		return &tuplet
	case ly.TokenTypeKeywordTimes:
		// \times num/den means num/den of the written length, which is
		// the inverse of the \tuplet fraction.
		p.advance()
		num, den, ok := p.parseFractionPair()
		if !ok {
			return nil
		}
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Tuplet{Numerator: den, Denominator: num, Body: body}
	case ly.TokenTypeKeywordRepeat:
		return p.parseRepeat()
	case ly.TokenTypeKeywordTempo:
		return p.parseTempo()
	case ly.TokenTypeKeywordTime:
		return p.parseTimeSignature()
	case ly.TokenTypeKeywordOverride:
		p.advance()
		path, value := p.parsePropertyAssignment()
		if path == nil {
			return nil
		}
		return &ly.Override{Path: *path, Value: value}
	case ly.TokenTypeKeywordRevert:
		p.advance()
		path := p.parsePropertyPath()
		if path == nil {
			return nil
		}
		return &ly.Revert{Path: *path}
	case ly.TokenTypeKeywordSet:
		p.advance()
		path, value := p.parsePropertyAssignment()
		if path == nil {
			return nil
		}
		return &ly.Set{Path: *path, Value: value}
	case ly.TokenTypeKeywordUnset:
		p.advance()
		path := p.parsePropertyPath()
		if path == nil {
			return nil
		}
		return &ly.Unset{Path: *path}
	case ly.TokenTypeKeywordOnce:
		p.advance()
		music := p.parseMusicPrimary()
		if music == nil {
			return nil
		}
		return &ly.Once{Music: music}
	case ly.TokenTypeKeywordLyricmode, ly.TokenTypeKeywordLyrics:
		p.advance()
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		body := p.parseLyricBody()
		if body == nil {
			return nil
		}
		return &ly.LyricMode{Body: body}
	case ly.TokenTypeKeywordLyricsto:
		p.advance()
		voice := p.expectOneOf([]ly.TokenType{ly.TokenTypeString, ly.TokenTypeSymbol})
		if voice == nil {
			return nil
		}
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		lyrics := p.parseLyricBody()
		if lyrics == nil {
			return nil
		}
		return &ly.LyricsTo{VoiceID: voice.Value, Lyrics: lyrics}
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
	case ly.TokenTypeKeywordChordmode:
		p.advance()
		return p.parseChordModeBlock()
	case ly.TokenTypeKeywordChords:
		p.advance()
		return p.parseChordsShorthand()
	case ly.TokenTypeKeywordDrummode:
		p.advance()
		return p.parseDrumModeBlock()
	case ly.TokenTypeKeywordDrums:
		p.advance()
		return p.parseDrumsShorthand()
	case ly.TokenTypeKeywordFiguremode:
		p.advance()
		return p.parseFigureModeBlock()
	case ly.TokenTypeKeywordFigures:
		p.advance()
		return p.parseFiguresShorthand()
	case ly.TokenTypeEscapedWord:
		return p.parseEscapedWordMusic(maybeToken)
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a music expression)", maybeToken))
		return nil
	}
}

// parseSequentialBody parses music items up to the closing brace. The
// opening brace has already been consumed.
func (p *parserLilyPondTokens) parseSequentialBody() ly.Music {
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
		item := p.parseMusic()
		if item == nil {
			return nil
		}
		seq.Items = append(seq.Items, item)
	}
}

// parseSimultaneousBody parses music items up to the closing >>. The
// opening << has already been consumed.
func (p *parserLilyPondTokens) parseSimultaneousBody() ly.Music {
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
		item := p.parseMusic()
		if item == nil {
			return nil
		}
		sim.Items = append(sim.Items, item)
	}
}

// parseSimultaneousBraceBody handles the \simultaneous { ... } spelling.
func (p *parserLilyPondTokens) parseSimultaneousBraceBody() ly.Music {
	sim := ly.Simultaneous{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting })")
			return nil
		}
		if maybeToken.Type == ly.TokenTypeBraceClose {
			p.advance()
			return &sim
		}
		if maybeToken.Type == ly.TokenTypeDoubleBackslash {
			p.advance()
			sim.Items = append(sim.Items, &ly.VoiceSeparator{})
			continue
		}
		item := p.parseMusic()
		if item == nil {
			return nil
		}
		sim.Items = append(sim.Items, item)
	}
}

// Note = note_name { "'" | "," } [ "!" | "?" ] [ OctaveCheck ]
// [ Duration ] [ "\rest" ] { PostEvent }
func (p *parserLilyPondTokens) parseNote() ly.Music {
	tok := p.expectOne(ly.TokenTypeNoteName)
	if tok == nil {
		return nil
	}
	pitch, ok := p.parsePitchSuffix(tok)
	if !ok {
		return nil
	}
	note := ly.Note{Pitch: *pitch}
	note.Duration = p.parseOptionalDuration()
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeKeywordRest {
		p.advance()
		note.PitchedRest = true
	}
	events, ok := p.parsePostEvents()
	if !ok {
		return nil
	}
	note.PostEvents = events
	return &note
}

// parsePitchSuffix parses everything that can follow a note name token:
// octave marks, accidental flags, and the =' octave check.
func (p *parserLilyPondTokens) parsePitchSuffix(tok *ly.Token) (*ly.Pitch, bool) {
	step, alter, ok := ly.ParsePitch(tok.Value)
	if !ok {
		p.report(exc.CodeInvalidNoteName, fmt.Sprintf("invalid note name %s", tok.Value))
		return nil, false
	}
	pitch := ly.Pitch{Step: step, Alter: alter}
	for {
		t := p.peek()
		if t == nil {
			return &pitch, true
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
		break
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeExclamation {
		p.advance()
		pitch.ForceAccidental = true
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeQuestion {
		p.advance()
		pitch.Cautionary = true
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeEqual {
		p.advance()
		var check int8
		for {
			t := p.peek()
			if t == nil {
				break
			}
			if t.Type == ly.TokenTypeQuote {
				p.advance()
				check++
				continue
			}
			if t.Type == ly.TokenTypeComma {
				p.advance()
				check--
				continue
			}
			break
		}
		pitch.OctaveCheck = &check
	}
	return &pitch, true
}

// parsePitchNote parses a bare pitch reference, as used by \relative,
// \fixed, and \transpose.
func (p *parserLilyPondTokens) parsePitchNote() *ly.Note {
	tok := p.expectOne(ly.TokenTypeNoteName)
	if tok == nil {
		return nil
	}
	pitch, ok := p.parsePitchSuffix(tok)
	if !ok {
		return nil
	}
	return &ly.Note{Pitch: *pitch}
}

// Chord = "<" { Note } ">" [ Duration ] { PostEvent }
func (p *parserLilyPondTokens) parseChord() ly.Music {
	if p.expectOne(ly.TokenTypeAngleOpen) == nil {
		return nil
	}
	chord := ly.Chord{}
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
		tok := p.expectOne(ly.TokenTypeNoteName)
		if tok == nil {
			return nil
		}
		pitch, ok := p.parsePitchSuffix(tok)
		if !ok {
			return nil
		}
		chord.Pitches = append(chord.Pitches, *pitch)
	}
	chord.Duration = p.parseOptionalDuration()
	events, ok := p.parsePostEvents()
	if !ok {
		return nil
	}
	chord.PostEvents = events
	return &chord
}

// parseRestOrSkip handles the single letter event words: r, s, R, and q.
func (p *parserLilyPondTokens) parseRestOrSkip(t *ly.Token) ly.Music {
	switch t.Value {
	case "r":
		p.advance()
		duration := p.parseOptionalDuration()
		events, ok := p.parsePostEvents()
		if !ok {
			return nil
		}
		return &ly.Rest{Duration: duration, PostEvents: events}
	case "s":
		p.advance()
		duration := p.parseOptionalDuration()
		events, ok := p.parsePostEvents()
		if !ok {
			return nil
		}
		return &ly.Skip{Duration: duration, PostEvents: events}
	case "R":
		p.advance()
		duration := p.parseOptionalDuration()
		events, ok := p.parsePostEvents()
		if !ok {
			return nil
		}
		return &ly.MultiMeasureRest{Duration: duration, PostEvents: events}
	case "q":
		p.advance()
		duration := p.parseOptionalDuration()
		events, ok := p.parsePostEvents()
		if !ok {
			return nil
		}
		return &ly.ChordRepetition{Duration: duration, PostEvents: events}
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a music expression)", t))
		return nil
	}
}

// Duration = base { "." } { "*" num [ "/" den ] }
func (p *parserLilyPondTokens) parseOptionalDuration() *ly.Duration {
	maybeToken := p.peek()
	if maybeToken == nil || maybeToken.Type != ly.TokenTypeUnsigned {
		return nil
	}
	p.advance()
	base, ok := p.parseUnsigned(maybeToken)
	if !ok {
		return nil
	}
	duration := ly.Duration{Base: base}
	for {
		t := p.peek()
		if t == nil || t.Type != ly.TokenTypeDot {
			break
		}
		p.advance()
		duration.Dots++
	}
	for {
		t := p.peek()
		if t == nil || t.Type != ly.TokenTypeStar {
			break
		}
		p.advance()
		numTok := p.expectOne(ly.TokenTypeUnsigned)
		if numTok == nil {
			return nil
		}
		num, ok := p.parseUnsigned(numTok)
		if !ok {
			return nil
		}
		den := uint32(1)
		if t := p.peek(); t != nil && t.Type == ly.TokenTypeSlash {
			p.advance()
			denTok := p.expectOne(ly.TokenTypeUnsigned)
			if denTok == nil {
				return nil
			}
			den, ok = p.parseUnsigned(denTok)
			if !ok {
				return nil
			}
		}
		duration.Multipliers = append(duration.Multipliers, ly.Fraction{Num: num, Den: den})
	}
	return &duration
}

// parsePostEvents collects the events attached after a note, chord,
// rest, or skip. It stops at the first token that cannot begin a post
// event. The bool result is false only on a reported parse error.
func (p *parserLilyPondTokens) parsePostEvents() ([]ly.PostEvent, bool) {
	var events []ly.PostEvent
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			return events, true
		}
		switch maybeToken.Type {
		case ly.TokenTypeTilde:
			p.advance()
			events = append(events, &ly.PostTie{})
		case ly.TokenTypeParenOpen:
			p.advance()
			events = append(events, &ly.PostSlurStart{})
		case ly.TokenTypeParenClose:
			p.advance()
			events = append(events, &ly.PostSlurEnd{})
		case ly.TokenTypeEscapedParenOpen:
			p.advance()
			events = append(events, &ly.PostPhrasingSlurStart{})
		case ly.TokenTypeEscapedParenClose:
			p.advance()
			events = append(events, &ly.PostPhrasingSlurEnd{})
		case ly.TokenTypeBracketOpen:
			p.advance()
			events = append(events, &ly.PostBeamStart{})
		case ly.TokenTypeBracketClose:
			p.advance()
			events = append(events, &ly.PostBeamEnd{})
		case ly.TokenTypeEscapedAngleOpen:
			p.advance()
			events = append(events, &ly.PostCrescendo{})
		case ly.TokenTypeEscapedAngleClose:
			p.advance()
			events = append(events, &ly.PostDecrescendo{})
		case ly.TokenTypeEscapedExclamation:
			p.advance()
			events = append(events, &ly.PostHairpinEnd{})
		case ly.TokenTypeEscapedUnsigned:
			p.advance()
			n, ok := p.parseUnsigned(maybeToken)
			if !ok {
				return nil, false
			}
			events = append(events, &ly.PostStringNumber{Direction: ly.DirectionNeutral, Number: n})
		case ly.TokenTypeColon:
			p.advance()
			value := uint32(0)
			if t := p.peek(); t != nil && t.Type == ly.TokenTypeUnsigned {
				p.advance()
				v, ok := p.parseUnsigned(t)
				if !ok {
					return nil, false
				}
				value = v
			}
			events = append(events, &ly.PostTremolo{Value: value})
		case ly.TokenTypeLyricHyphen:
			// -- in note mode is two dashes: a neutral direction
			// followed by the dash script.
			p.advance()
			events = append(events, &ly.PostArticulation{Direction: ly.DirectionNeutral, Script: ly.ScriptDash})
		case ly.TokenTypeLyricExtender:
			// __ in note mode is a down direction followed by the
			// portato script.
			p.advance()
			events = append(events, &ly.PostArticulation{Direction: ly.DirectionDown, Script: ly.ScriptPortato})
		case ly.TokenTypeDash:
			p.advance()
			event := p.parseDirectedPostEvent(ly.DirectionNeutral)
			if event == nil {
				return nil, false
			}
			events = append(events, event)
		case ly.TokenTypeCaret:
			p.advance()
			event := p.parseDirectedPostEvent(ly.DirectionUp)
			if event == nil {
				return nil, false
			}
			events = append(events, event)
		case ly.TokenTypeUnderscore:
			p.advance()
			event := p.parseDirectedPostEvent(ly.DirectionDown)
			if event == nil {
				return nil, false
			}
			events = append(events, event)
		case ly.TokenTypeKeywordTweak:
			p.advance()
			path := p.parsePropertyPath()
			if path == nil {
				return nil, false
			}
			value := p.parsePropertyValue()
			if value == nil {
				return nil, false
			}
			events = append(events, &ly.PostTweak{Path: *path, Value: value})
		case ly.TokenTypeEscapedWord:
			if ly.IsDynamicMarking(maybeToken.Value) {
				p.advance()
				events = append(events, &ly.PostDynamic{Name: maybeToken.Value})
				continue
			}
			if ly.IsOrnamentOrScript(maybeToken.Value) {
				p.advance()
				events = append(events, &ly.PostNamedArticulation{Direction: ly.DirectionNeutral, Name: maybeToken.Value})
				continue
			}
			return events, true
		default:
			return events, true
		}
	}
}

// parseDirectedPostEvent parses the event after a -, ^, or _ direction
// prefix.
func (p *parserLilyPondTokens) parseDirectedPostEvent(direction ly.Direction) ly.PostEvent {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a post event)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeDot:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptDot}
	case ly.TokenTypeDash:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptDash}
	case ly.TokenTypeAngleClose:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptAccent}
	case ly.TokenTypeCaret:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptMarcato}
	case ly.TokenTypePlus:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptStopped}
	case ly.TokenTypeExclamation:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptStaccatissimo}
	case ly.TokenTypeUnderscore:
		p.advance()
		return &ly.PostArticulation{Direction: direction, Script: ly.ScriptPortato}
	case ly.TokenTypeUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil
		}
		return &ly.PostFingering{Direction: direction, Digit: n}
	case ly.TokenTypeEscapedUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil
		}
		return &ly.PostStringNumber{Direction: direction, Number: n}
	case ly.TokenTypeString:
		p.advance()
		return &ly.PostTextScript{Direction: direction, Text: ly.Markup{Text: maybeToken.Value}}
	case ly.TokenTypeKeywordMarkup:
		p.advance()
		markup := p.parseMarkup()
		if markup == nil {
			return nil
		}
		return &ly.PostTextScript{Direction: direction, Text: *markup}
	case ly.TokenTypeEscapedWord:
		if ly.IsDynamicMarking(maybeToken.Value) {
			p.advance()
			return &ly.PostDynamic{Name: maybeToken.Value}
		}
		p.advance()
		return &ly.PostNamedArticulation{Direction: direction, Name: maybeToken.Value}
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a post event)", maybeToken))
		return nil
	}
}

// ContextedMusic = ("\new" | "\context") context_type [ "=" name ]
// [ "\with" mods ] Music
func (p *parserLilyPondTokens) parseContextedMusic(keyword ly.ContextKeyword) ly.Music {
	contextType := p.expectOne(ly.TokenTypeSymbol)
	if contextType == nil {
		return nil
	}
	contexted := ly.ContextedMusic{Keyword: keyword, ContextType: contextType.Value}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeEqual {
		p.advance()
		name := p.expectOneOf([]ly.TokenType{ly.TokenTypeString, ly.TokenTypeSymbol})
		if name == nil {
			return nil
		}
		contexted.Name = name.Value
		contexted.HasName = true
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeKeywordWith {
		p.advance()
		mods := p.parseWithBody()
		if mods == nil {
			return nil
		}
		contexted.With = mods
	}
	music := p.parseMusic()
	if music == nil {
		return nil
	}
	contexted.Music = music
	return &contexted
}

// parseWithBody parses the body of \with: either a brace block of
// modifications or a single \Name reference.
func (p *parserLilyPondTokens) parseWithBody() []ly.ContextModItem {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a \\with body)")
		return nil
	}
	if maybeToken.Type == ly.TokenTypeEscapedWord {
		p.advance()
		return []ly.ContextModItem{&ly.ContextModRef{Name: maybeToken.Value}}
	}
	if p.expectOne(ly.TokenTypeBraceOpen) == nil {
		return nil
	}
	return p.parseContextModItems("\\with")
}

func (p *parserLilyPondTokens) parseFractionPair() (uint32, uint32, bool) {
	numTok := p.expectOne(ly.TokenTypeUnsigned)
	if numTok == nil {
		return 0, 0, false
	}
	num, ok := p.parseUnsigned(numTok)
	if !ok {
		return 0, 0, false
	}
	if p.expectOne(ly.TokenTypeSlash) == nil {
		return 0, 0, false
	}
	denTok := p.expectOne(ly.TokenTypeUnsigned)
	if denTok == nil {
		return 0, 0, false
	}
	den, ok := p.parseUnsigned(denTok)
	if !ok {
		return 0, 0, false
	}
	return num, den, true
}

// Repeat = "\repeat" type count Music [ "\alternative" "{" { Music } "}" ]
func (p *parserLilyPondTokens) parseRepeat() ly.Music {
	if p.expectOne(ly.TokenTypeKeywordRepeat) == nil {
		return nil
	}
	typeTok := p.expectOne(ly.TokenTypeSymbol)
	if typeTok == nil {
		return nil
	}
	repeatType, ok := ly.RepeatTypeFromName(typeTok.Value)
	if !ok {
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unknown repeat type %s", typeTok.Value))
		return nil
	}
	countTok := p.expectOne(ly.TokenTypeUnsigned)
	if countTok == nil {
		return nil
	}
	count, okCount := p.parseUnsigned(countTok)
	if !okCount {
		return nil
	}
	body := p.parseMusic()
	if body == nil {
		return nil
	}
	repeat := ly.Repeat{Type: repeatType, Count: count, Body: body}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeKeywordAlternative {
		p.advance()
		if p.expectOne(ly.TokenTypeBraceOpen) == nil {
			return nil
		}
		for {
			maybeToken := p.peek()
			if maybeToken == nil {
				p.report(exc.CodeUnexpectedEOF, "unexpected EOF in \\alternative block")
				return nil
			}
			if maybeToken.Type == ly.TokenTypeBraceClose {
				p.advance()
				break
			}
			alternative := p.parseMusic()
			if alternative == nil {
				return nil
			}
			repeat.Alternatives = append(repeat.Alternatives, alternative)
		}
	}
	return &repeat
}

// Tempo = "\tempo" [ text ] [ Duration "=" bpm [ "-" bpm ] ]
func (p *parserLilyPondTokens) parseTempo() ly.Music {
	if p.expectOne(ly.TokenTypeKeywordTempo) == nil {
		return nil
	}
	tempo := ly.Tempo{}
	if t := p.peek(); t != nil {
		if t.Type == ly.TokenTypeString {
			p.advance()
			tempo.Text = &ly.Markup{Text: t.Value}
		} else if t.Type == ly.TokenTypeKeywordMarkup {
			p.advance()
			markup := p.parseMarkup()
			if markup == nil {
				return nil
			}
			tempo.Text = markup
		}
	}
	if t := p.peek(); t != nil && t.Type == ly.TokenTypeUnsigned {
		duration := p.parseOptionalDuration()
		if duration == nil {
			return nil
		}
		tempo.Duration = duration
		if p.expectOne(ly.TokenTypeEqual) == nil {
			return nil
		}
		lowTok := p.expectOne(ly.TokenTypeUnsigned)
		if lowTok == nil {
			return nil
		}
		low, ok := p.parseUnsigned(lowTok)
		if !ok {
			return nil
		}
		bpm := ly.TempoRange{Low: low}
		if t := p.peek(); t != nil && t.Type == ly.TokenTypeDash {
			p.advance()
			highTok := p.expectOne(ly.TokenTypeUnsigned)
			if highTok == nil {
				return nil
			}
			high, ok := p.parseUnsigned(highTok)
			if !ok {
				return nil
			}
			bpm.High = high
			bpm.Range = true
		}
		tempo.BPM = &bpm
	}
	return &tempo
}

// TimeSignature = "\time" num { "+" num } "/" den
func (p *parserLilyPondTokens) parseTimeSignature() ly.Music {
	if p.expectOne(ly.TokenTypeKeywordTime) == nil {
		return nil
	}
	numTok := p.expectOne(ly.TokenTypeUnsigned)
	if numTok == nil {
		return nil
	}
	num, ok := p.parseUnsigned(numTok)
	if !ok {
		return nil
	}
	signature := ly.TimeSignature{Numerators: []uint32{num}}
	for {
		t := p.peek()
		if t == nil || t.Type != ly.TokenTypePlus {
			break
		}
		p.advance()
		numTok := p.expectOne(ly.TokenTypeUnsigned)
		if numTok == nil {
			return nil
		}
		num, ok := p.parseUnsigned(numTok)
		if !ok {
			return nil
		}
		signature.Numerators = append(signature.Numerators, num)
	}
	if p.expectOne(ly.TokenTypeSlash) == nil {
		return nil
	}
	denTok := p.expectOne(ly.TokenTypeUnsigned)
	if denTok == nil {
		return nil
	}
	den, ok := p.parseUnsigned(denTok)
	if !ok {
		return nil
	}
	signature.Denominator = den
	return &signature
}

// parseEscapedWordMusic dispatches the \word commands that are not
// reserved keywords. An unrecognized word is a music function call, or
// a reference to an assignment when no arguments follow it.
func (p *parserLilyPondTokens) parseEscapedWordMusic(t *ly.Token) ly.Music {
	switch t.Value {
	case "clef":
		p.advance()
		name := p.expectOneOf([]ly.TokenType{ly.TokenTypeString, ly.TokenTypeSymbol})
		if name == nil {
			return nil
		}
		return &ly.Clef{Name: name.Value}
	case "key":
		p.advance()
		pitchTok := p.expectOne(ly.TokenTypeNoteName)
		if pitchTok == nil {
			return nil
		}
		step, alter, ok := ly.ParsePitch(pitchTok.Value)
		if !ok {
			p.report(exc.CodeInvalidNoteName, fmt.Sprintf("invalid note name %s", pitchTok.Value))
			return nil
		}
		modeTok := p.expectOne(ly.TokenTypeEscapedWord)
		if modeTok == nil {
			return nil
		}
		mode, ok := ly.ModeFromName(modeTok.Value)
		if !ok {
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unknown mode \\%s", modeTok.Value))
			return nil
		}
		return &ly.KeySignature{Pitch: ly.Pitch{Step: step, Alter: alter}, Mode: mode}
	case "bar":
		p.advance()
		barType := p.expectOne(ly.TokenTypeString)
		if barType == nil {
			return nil
		}
		return &ly.BarLine{Type: barType.Value}
	case "mark":
		return p.parseMark()
	case "textMark":
		p.advance()
		markup := p.parseMarkup()
		if markup == nil {
			return nil
		}
		return &ly.TextMark{Text: *markup}
	case "grace":
		p.advance()
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Grace{Body: body}
	case "acciaccatura":
		p.advance()
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Acciaccatura{Body: body}
	case "appoggiatura":
		p.advance()
		body := p.parseMusic()
		if body == nil {
			return nil
		}
		return &ly.Appoggiatura{Body: body}
	case "afterGrace":
		p.advance()
		grace := ly.AfterGrace{}
		if t := p.peek(); t != nil && t.Type == ly.TokenTypeUnsigned {
			num, den, ok := p.parseFractionPair()
			if !ok {
				return nil
			}
			grace.Fraction = &ly.Fraction{Num: num, Den: den}
		}
		main := p.parseMusic()
		if main == nil {
			return nil
		}
		graceBody := p.parseMusic()
		if graceBody == nil {
			return nil
		}
		grace.Main = main
		grace.Grace = graceBody
		return &grace
	case "autoBeamOn":
		p.advance()
		return &ly.AutoBeamOn{}
	case "autoBeamOff":
		p.advance()
		return &ly.AutoBeamOff{}
	default:
		p.advance()
		return p.parseFunctionCall(t.Value)
	}
}

// Mark = "\mark" ( "\default" | number | Markup )
func (p *parserLilyPondTokens) parseMark() ly.Music {
	p.advance()
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a mark)")
		return nil
	}
	switch maybeToken.Type {
	case ly.TokenTypeKeywordDefault:
		p.advance()
		return &ly.Mark{}
	case ly.TokenTypeUnsigned:
		p.advance()
		n, ok := p.parseUnsigned(maybeToken)
		if !ok {
			return nil
		}
		return &ly.Mark{Number: &n}
	case ly.TokenTypeString:
		p.advance()
		return &ly.Mark{Label: &ly.Markup{Text: maybeToken.Value}}
	case ly.TokenTypeKeywordMarkup:
		p.advance()
		markup := p.parseMarkup()
		if markup == nil {
			return nil
		}
		return &ly.Mark{Label: markup}
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a mark)", maybeToken))
		return nil
	}
}

// LyricBody = { lyric | "|" | nested group } "}"
//
// The opening brace has already been consumed. Lyric mode treats every
// bare word as a syllable, note names included.
func (p *parserLilyPondTokens) parseLyricBody() ly.Music {
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
		case ly.TokenTypeBraceOpen:
			p.advance()
			nested := p.parseLyricBody()
			if nested == nil {
				return nil
			}
			seq.Items = append(seq.Items, nested)
		case ly.TokenTypePipe:
			p.advance()
			seq.Items = append(seq.Items, &ly.BarCheck{})
		case ly.TokenTypeString, ly.TokenTypeSymbol, ly.TokenTypeNoteName:
			p.advance()
			lyric := p.parseLyricTail(maybeToken.Value)
			if lyric == nil {
				return nil
			}
			seq.Items = append(seq.Items, lyric)
		case ly.TokenTypeUnderscore:
			p.advance()
			lyric := p.parseLyricTail("_")
			if lyric == nil {
				return nil
			}
			seq.Items = append(seq.Items, lyric)
		case ly.TokenTypeEscapedWord:
			p.advance()
			seq.Items = append(seq.Items, &ly.Identifier{Name: maybeToken.Value})
		case ly.TokenTypeSchemeRaw:
			p.advance()
			seq.Items = append(seq.Items, &ly.SchemeMusic{Raw: maybeToken.Value})
		default:
			p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a lyric)", maybeToken))
			return nil
		}
	}
}

// parseLyricTail attaches a duration and the hyphen and extender events
// to a syllable.
func (p *parserLilyPondTokens) parseLyricTail(text string) ly.Music {
	lyric := ly.Lyric{Text: text}
	lyric.Duration = p.parseOptionalDuration()
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			return &lyric
		}
		switch maybeToken.Type {
		case ly.TokenTypeLyricHyphen:
			p.advance()
			lyric.PostEvents = append(lyric.PostEvents, &ly.PostLyricHyphen{})
		case ly.TokenTypeLyricExtender:
			p.advance()
			lyric.PostEvents = append(lyric.PostEvents, &ly.PostLyricExtender{})
		case ly.TokenTypeTilde:
			p.advance()
			lyric.PostEvents = append(lyric.PostEvents, &ly.PostTie{})
		default:
			return &lyric
		}
	}
}
