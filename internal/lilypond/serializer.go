// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.microglot.org/lilyc/internal/ly"
)

// Serializer renders an AST back to LilyPond source in a canonical
// layout: block structures span lines with two space indents and music
// expressions stay on a single line. Serializing a parsed file and
// parsing the result yields the same AST.
type Serializer struct{}

func NewSerializer() *Serializer {
	return &Serializer{}
}

func (self *Serializer) Serialize(file *ly.Document) string {
	w := &sourceWriter{}
	first := true
	if file.Version != nil {
		w.line(`\version ` + quoteString(file.Version.Version))
		first = false
	}
	for _, item := range file.Items {
		if !first {
			w.blank()
		}
		w.writeToplevel(item)
		first = false
	}
	return w.String()
}

type sourceWriter struct {
	b      strings.Builder
	indent int
}

func (w *sourceWriter) String() string {
	return w.b.String()
}

func (w *sourceWriter) line(s string) {
	for i := 0; i < w.indent; i++ {
		w.b.WriteString("  ")
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *sourceWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *sourceWriter) writeToplevel(item ly.ToplevelExpression) {
	switch v := item.(type) {
	case *ly.ScoreBlock:
		w.writeScore(v)
	case *ly.BookBlock:
		w.writeBook(v)
	case *ly.BookPartBlock:
		w.writeBookPart(v)
	case *ly.HeaderBlock:
		w.writeAssignmentBlock(`\header`, v.Fields)
	case *ly.PaperBlock:
		w.writeAssignmentBlock(`\paper`, v.Body)
	case *ly.LayoutBlock:
		w.writeLayoutBody(`\layout`, v.Body)
	case *ly.MidiBlock:
		w.writeLayoutBody(`\midi`, v.Body)
	case *ly.Assignment:
		w.line(assignmentString(v))
	case *ly.MarkupExpr:
		w.line(`\markup ` + markupString(v.Markup))
	case *ly.MarkupList:
		w.line(`\markuplist ` + v.Raw)
	case *ly.MusicItem:
		w.line(musicString(v.Music))
	}
}

func (w *sourceWriter) writeScore(score *ly.ScoreBlock) {
	if len(score.Items) == 0 {
		w.line(`\score { }`)
		return
	}
	w.line(`\score {`)
	w.indent++
	for _, item := range score.Items {
		switch v := item.(type) {
		case *ly.HeaderBlock:
			w.writeAssignmentBlock(`\header`, v.Fields)
		case *ly.LayoutBlock:
			w.writeLayoutBody(`\layout`, v.Body)
		case *ly.MidiBlock:
			w.writeLayoutBody(`\midi`, v.Body)
		case *ly.MusicItem:
			w.line(musicString(v.Music))
		}
	}
	w.indent--
	w.line(`}`)
}

func (w *sourceWriter) writeBook(book *ly.BookBlock) {
	if len(book.Items) == 0 {
		w.line(`\book { }`)
		return
	}
	w.line(`\book {`)
	w.indent++
	for _, item := range book.Items {
		switch v := item.(type) {
		case *ly.ScoreBlock:
			w.writeScore(v)
		case *ly.BookPartBlock:
			w.writeBookPart(v)
		case *ly.HeaderBlock:
			w.writeAssignmentBlock(`\header`, v.Fields)
		case *ly.PaperBlock:
			w.writeAssignmentBlock(`\paper`, v.Body)
		case *ly.Assignment:
			w.line(assignmentString(v))
		case *ly.MusicItem:
			w.line(musicString(v.Music))
		}
	}
	w.indent--
	w.line(`}`)
}

func (w *sourceWriter) writeBookPart(part *ly.BookPartBlock) {
	if len(part.Items) == 0 {
		w.line(`\bookpart { }`)
		return
	}
	w.line(`\bookpart {`)
	w.indent++
	for _, item := range part.Items {
		switch v := item.(type) {
		case *ly.ScoreBlock:
			w.writeScore(v)
		case *ly.HeaderBlock:
			w.writeAssignmentBlock(`\header`, v.Fields)
		case *ly.PaperBlock:
			w.writeAssignmentBlock(`\paper`, v.Body)
		case *ly.Assignment:
			w.line(assignmentString(v))
		case *ly.MusicItem:
			w.line(musicString(v.Music))
		}
	}
	w.indent--
	w.line(`}`)
}

func (w *sourceWriter) writeAssignmentBlock(name string, fields []*ly.Assignment) {
	if len(fields) == 0 {
		w.line(name + ` { }`)
		return
	}
	w.line(name + ` {`)
	w.indent++
	for _, field := range fields {
		w.line(assignmentString(field))
	}
	w.indent--
	w.line(`}`)
}

func (w *sourceWriter) writeLayoutBody(name string, body []ly.LayoutItem) {
	if len(body) == 0 {
		w.line(name + ` { }`)
		return
	}
	w.line(name + ` {`)
	w.indent++
	for _, item := range body {
		switch v := item.(type) {
		case *ly.Assignment:
			w.line(assignmentString(v))
		case *ly.ContextModBlock:
			w.writeContextModBlock(v)
		}
	}
	w.indent--
	w.line(`}`)
}

func (w *sourceWriter) writeContextModBlock(block *ly.ContextModBlock) {
	if len(block.Items) == 0 {
		w.line(`\context { }`)
		return
	}
	w.line(`\context {`)
	w.indent++
	for _, item := range block.Items {
		w.line(contextModString(item))
	}
	w.indent--
	w.line(`}`)
}

func assignmentString(a *ly.Assignment) string {
	return a.Name + " = " + assignmentValueString(a.Value)
}

func assignmentValueString(v ly.AssignmentValue) string {
	switch value := v.(type) {
	case *ly.AssignString:
		return quoteString(value.Value)
	case *ly.AssignNumber:
		return formatNumber(value.Value)
	case *ly.AssignMusic:
		return musicString(value.Music)
	case *ly.AssignIdentifier:
		return `\` + value.Name
	case *ly.AssignScheme:
		return value.Raw
	case *ly.AssignMarkup:
		return `\markup ` + markupString(value.Markup)
	case *ly.AssignMarkupList:
		return `\markuplist ` + value.Raw
	}
	return ""
}

func markupString(m ly.Markup) string {
	if m.Raw != "" {
		return m.Raw
	}
	return quoteString(m.Text)
}

func contextModString(item ly.ContextModItem) string {
	switch v := item.(type) {
	case *ly.ContextModRef:
		return `\` + v.Name
	case *ly.ContextModConsists:
		return `\consists ` + quoteString(v.Name)
	case *ly.ContextModRemove:
		return `\remove ` + quoteString(v.Name)
	case *ly.ContextModAccepts:
		return `\accepts ` + quoteString(v.Name)
	case *ly.ContextModDenies:
		return `\denies ` + quoteString(v.Name)
	case *ly.ContextModAlias:
		return `\alias ` + quoteString(v.Name)
	case *ly.ContextModDefaultChild:
		return `\defaultchild ` + quoteString(v.Name)
	case *ly.ContextModDescription:
		return `\description ` + quoteString(v.Text)
	case *ly.ContextModName:
		return `\name ` + quoteString(v.Name)
	case *ly.ContextModOverride:
		return `\override ` + propertyPathString(v.Path) + " = " + propertyValueString(v.Value)
	case *ly.ContextModRevert:
		return `\revert ` + propertyPathString(v.Path)
	case *ly.ContextModSet:
		return `\set ` + propertyPathString(v.Path) + " = " + propertyValueString(v.Value)
	case *ly.ContextModUnset:
		return `\unset ` + propertyPathString(v.Path)
	case *ly.Assignment:
		return assignmentString(v)
	}
	return ""
}

func propertyPathString(path ly.PropertyPath) string {
	return strings.Join(path.Segments, ".")
}

func propertyValueString(v ly.PropertyValue) string {
	switch value := v.(type) {
	case *ly.PropString:
		return quoteString(value.Value)
	case *ly.PropNumber:
		return formatNumber(value.Value)
	case *ly.PropScheme:
		return value.Raw
	case *ly.PropIdentifier:
		return `\` + value.Name
	}
	return ""
}

func musicString(m ly.Music) string {
	var b strings.Builder
	writeMusic(&b, m)
	return b.String()
}

func writeMusic(b *strings.Builder, m ly.Music) {
	switch v := m.(type) {
	case *ly.Sequential:
		writeGroup(b, "{", "}", v.Items)
	case *ly.Simultaneous:
		writeGroup(b, "<<", ">>", v.Items)
	case *ly.VoiceSeparator:
		b.WriteString(`\\`)
	case *ly.Note:
		writePitch(b, v.Pitch)
		writeDuration(b, v.Duration)
		if v.PitchedRest {
			b.WriteString(`\rest`)
		}
		writePostEvents(b, v.PostEvents)
	case *ly.Chord:
		b.WriteByte('<')
		for i, pitch := range v.Pitches {
			if i > 0 {
				b.WriteByte(' ')
			}
			writePitch(b, pitch)
		}
		b.WriteByte('>')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.Rest:
		b.WriteByte('r')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.Skip:
		b.WriteByte('s')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.MultiMeasureRest:
		b.WriteByte('R')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.ChordRepetition:
		b.WriteByte('q')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.Relative:
		b.WriteString(`\relative `)
		if v.Pitch != nil {
			writePitch(b, v.Pitch.Pitch)
			b.WriteByte(' ')
		}
		writeMusic(b, v.Body)
	case *ly.Fixed:
		b.WriteString(`\fixed `)
		writePitch(b, v.Pitch.Pitch)
		b.WriteByte(' ')
		writeMusic(b, v.Body)
	case *ly.Transpose:
		b.WriteString(`\transpose `)
		writePitch(b, v.From.Pitch)
		b.WriteByte(' ')
		writePitch(b, v.To.Pitch)
		b.WriteByte(' ')
		writeMusic(b, v.Body)
	case *ly.ContextedMusic:
		if v.Keyword == ly.ContextKeywordNew {
			b.WriteString(`\new `)
		} else {
			b.WriteString(`\context `)
		}
		b.WriteString(v.ContextType)
		if v.HasName {
			b.WriteString(" = ")
			b.WriteString(quoteString(v.Name))
		}
		if len(v.With) > 0 {
			b.WriteString(` \with { `)
			for i, mod := range v.With {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(contextModString(mod))
			}
			b.WriteString(" }")
		}
		b.WriteByte(' ')
		writeMusic(b, v.Music)
	case *ly.ContextChange:
		b.WriteString(`\change `)
		b.WriteString(v.ContextType)
		b.WriteString(" = ")
		b.WriteString(quoteString(v.Name))
	case *ly.Clef:
		b.WriteString(`\clef `)
		if isPlainWord(v.Name) {
			b.WriteString(v.Name)
		} else {
			b.WriteString(quoteString(v.Name))
		}
	case *ly.KeySignature:
		b.WriteString(`\key `)
		b.WriteString(v.Pitch.NoteName())
		b.WriteString(` \`)
		b.WriteString(v.Mode.String())
	case *ly.TimeSignature:
		b.WriteString(`\time `)
		for i, num := range v.Numerators {
			if i > 0 {
				b.WriteByte('+')
			}
			b.WriteString(strconv.FormatUint(uint64(num), 10))
		}
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(v.Denominator), 10))
	case *ly.Tempo:
		writeTempo(b, v)
	case *ly.Mark:
		writeMark(b, v)
	case *ly.TextMark:
		b.WriteString(`\textMark `)
		b.WriteString(markupString(v.Text))
	case *ly.Tuplet:
		b.WriteString(`\tuplet `)
		b.WriteString(strconv.FormatUint(uint64(v.Numerator), 10))
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(v.Denominator), 10))
		b.WriteByte(' ')
		if v.SpanDuration != nil {
			writeDuration(b, v.SpanDuration)
			b.WriteByte(' ')
		}
		writeMusic(b, v.Body)
	case *ly.Grace:
		b.WriteString(`\grace `)
		writeMusic(b, v.Body)
	case *ly.Acciaccatura:
		b.WriteString(`\acciaccatura `)
		writeMusic(b, v.Body)
	case *ly.Appoggiatura:
		b.WriteString(`\appoggiatura `)
		writeMusic(b, v.Body)
	case *ly.AfterGrace:
		b.WriteString(`\afterGrace `)
		if v.Fraction != nil {
			b.WriteString(strconv.FormatUint(uint64(v.Fraction.Num), 10))
			b.WriteByte('/')
			b.WriteString(strconv.FormatUint(uint64(v.Fraction.Den), 10))
			b.WriteByte(' ')
		}
		writeMusic(b, v.Main)
		b.WriteByte(' ')
		writeMusic(b, v.Grace)
	case *ly.Repeat:
		b.WriteString(`\repeat `)
		b.WriteString(v.Type.String())
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(uint64(v.Count), 10))
		b.WriteByte(' ')
		writeMusic(b, v.Body)
		if len(v.Alternatives) > 0 {
			b.WriteString(` \alternative { `)
			for i, alternative := range v.Alternatives {
				if i > 0 {
					b.WriteByte(' ')
				}
				writeMusic(b, alternative)
			}
			b.WriteString(" }")
		}
	case *ly.BarCheck:
		b.WriteByte('|')
	case *ly.BarLine:
		b.WriteString(`\bar `)
		b.WriteString(quoteString(v.Type))
	case *ly.LyricMode:
		b.WriteString(`\lyricmode `)
		writeMusic(b, v.Body)
	case *ly.AddLyrics:
		writeMusic(b, v.Music)
		for _, lyrics := range v.Lyrics {
			b.WriteString(` \addlyrics `)
			writeMusic(b, lyrics)
		}
	case *ly.LyricsTo:
		b.WriteString(`\lyricsto `)
		b.WriteString(quoteString(v.VoiceID))
		b.WriteByte(' ')
		writeMusic(b, v.Lyrics)
	case *ly.Lyric:
		if isPlainWord(v.Text) || v.Text == "_" {
			b.WriteString(v.Text)
		} else {
			b.WriteString(quoteString(v.Text))
		}
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.Override:
		b.WriteString(`\override `)
		b.WriteString(propertyPathString(v.Path))
		b.WriteString(" = ")
		b.WriteString(propertyValueString(v.Value))
	case *ly.Revert:
		b.WriteString(`\revert `)
		b.WriteString(propertyPathString(v.Path))
	case *ly.Set:
		b.WriteString(`\set `)
		b.WriteString(propertyPathString(v.Path))
		b.WriteString(" = ")
		b.WriteString(propertyValueString(v.Value))
	case *ly.Unset:
		b.WriteString(`\unset `)
		b.WriteString(propertyPathString(v.Path))
	case *ly.Once:
		b.WriteString(`\once `)
		writeMusic(b, v.Music)
	case *ly.AutoBeamOn:
		b.WriteString(`\autoBeamOn`)
	case *ly.AutoBeamOff:
		b.WriteString(`\autoBeamOff`)
	case *ly.SchemeMusic:
		b.WriteString(v.Raw)
	case *ly.Identifier:
		b.WriteByte('\\')
		b.WriteString(v.Name)
	case *ly.ChordMode:
		b.WriteString(`\chordmode `)
		writeMusic(b, v.Body)
	case *ly.ChordEntry:
		writeChordEntry(b, v)
	case *ly.DrumMode:
		b.WriteString(`\drummode `)
		writeMusic(b, v.Body)
	case *ly.DrumNote:
		b.WriteString(v.Name)
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.DrumChord:
		b.WriteByte('<')
		for i, name := range v.Names {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(name)
		}
		b.WriteByte('>')
		writeDuration(b, v.Duration)
		writePostEvents(b, v.PostEvents)
	case *ly.FigureMode:
		b.WriteString(`\figuremode `)
		writeMusic(b, v.Body)
	case *ly.Figure:
		writeFigure(b, v)
	case *ly.MusicFunction:
		b.WriteByte('\\')
		b.WriteString(v.Name)
		writeFunctionArgs(b, v.Args)
		if v.Partial {
			b.WriteString(` \etc`)
		}
	case *ly.MarkupExpr:
		b.WriteString(`\markup `)
		b.WriteString(markupString(v.Markup))
	case *ly.MarkupList:
		b.WriteString(`\markuplist `)
		b.WriteString(v.Raw)
	}
}

func writeChordEntry(b *strings.Builder, entry *ly.ChordEntry) {
	writePitch(b, entry.Root)
	writeDuration(b, entry.Duration)
	if len(entry.Quality) > 0 {
		b.WriteByte(':')
		for i, item := range entry.Quality {
			if i > 0 {
				b.WriteByte('.')
			}
			switch q := item.(type) {
			case *ly.ChordQualityModifier:
				b.WriteString(q.Modifier.String())
			case *ly.ChordQualityStep:
				writeChordStep(b, q.Step)
			}
		}
	}
	if len(entry.Removals) > 0 {
		b.WriteByte('^')
		for i, step := range entry.Removals {
			if i > 0 {
				b.WriteByte('.')
			}
			writeChordStep(b, step)
		}
	}
	if entry.Inversion != nil {
		b.WriteByte('/')
		writePitch(b, *entry.Inversion)
	}
	if entry.Bass != nil {
		b.WriteString("/+")
		writePitch(b, *entry.Bass)
	}
	writePostEvents(b, entry.PostEvents)
}

func writeChordStep(b *strings.Builder, step ly.ChordStep) {
	b.WriteString(strconv.FormatUint(uint64(step.Number), 10))
	b.WriteString(step.Alteration.String())
}

// writeFigure always emits the escaped \<...\> delimiters; the plain
// <...> spelling parses to the same node.
func writeFigure(b *strings.Builder, figure *ly.Figure) {
	b.WriteString(`\<`)
	for i, f := range figure.Figures {
		if i > 0 {
			b.WriteByte(' ')
		}
		if f.BracketStart {
			b.WriteByte('[')
		}
		if f.Number != nil {
			b.WriteString(strconv.FormatUint(uint64(*f.Number), 10))
		} else {
			b.WriteByte('_')
		}
		b.WriteString(f.Alteration.String())
		for _, mod := range f.Modifications {
			switch mod {
			case ly.FigureModificationAugmented:
				b.WriteString(`\+`)
			case ly.FigureModificationNoContinuation:
				b.WriteString(`\!`)
			case ly.FigureModificationDiminished:
				b.WriteByte('/')
			case ly.FigureModificationAugmentedSlash:
				b.WriteString(`\\`)
			}
		}
		if f.BracketStop {
			b.WriteByte(']')
		}
	}
	b.WriteString(`\>`)
	writeDuration(b, figure.Duration)
}

func writeFunctionArgs(b *strings.Builder, args []ly.FunctionArg) {
	for _, arg := range args {
		b.WriteByte(' ')
		switch v := arg.(type) {
		case *ly.ArgMusic:
			writeMusic(b, v.Music)
		case *ly.ArgString:
			b.WriteString(quoteString(v.Value))
		case *ly.ArgNumber:
			b.WriteString(formatNumber(v.Value))
		case *ly.ArgScheme:
			b.WriteString(v.Raw)
		case *ly.ArgDuration:
			writeDuration(b, &v.Duration)
		case *ly.ArgDefault:
			b.WriteString(`\default`)
		case *ly.ArgSymbols:
			b.WriteString(strings.Join(v.Segments, "."))
		}
	}
}

func writeGroup(b *strings.Builder, open string, close string, items []ly.Music) {
	if len(items) == 0 {
		b.WriteString(open)
		b.WriteByte(' ')
		b.WriteString(close)
		return
	}
	b.WriteString(open)
	for _, item := range items {
		b.WriteByte(' ')
		writeMusic(b, item)
	}
	b.WriteByte(' ')
	b.WriteString(close)
}

func writePitch(b *strings.Builder, p ly.Pitch) {
	b.WriteString(p.NoteName())
	b.WriteString(p.OctaveMarks())
	if p.ForceAccidental {
		b.WriteByte('!')
	}
	if p.Cautionary {
		b.WriteByte('?')
	}
	if p.OctaveCheck != nil {
		b.WriteByte('=')
		check := *p.OctaveCheck
		if check > 0 {
			b.WriteString(strings.Repeat("'", int(check)))
		} else if check < 0 {
			b.WriteString(strings.Repeat(",", int(-check)))
		}
	}
}

func writeDuration(b *strings.Builder, d *ly.Duration) {
	if d == nil {
		return
	}
	b.WriteString(strconv.FormatUint(uint64(d.Base), 10))
	for i := uint8(0); i < d.Dots; i++ {
		b.WriteByte('.')
	}
	for _, mult := range d.Multipliers {
		b.WriteByte('*')
		b.WriteString(strconv.FormatUint(uint64(mult.Num), 10))
		if mult.Den != 1 {
			b.WriteByte('/')
			b.WriteString(strconv.FormatUint(uint64(mult.Den), 10))
		}
	}
}

func writePostEvents(b *strings.Builder, events []ly.PostEvent) {
	for _, event := range events {
		writePostEvent(b, event)
	}
}

func writePostEvent(b *strings.Builder, event ly.PostEvent) {
	switch v := event.(type) {
	case *ly.PostTie:
		b.WriteByte('~')
	case *ly.PostSlurStart:
		b.WriteByte('(')
	case *ly.PostSlurEnd:
		b.WriteByte(')')
	case *ly.PostPhrasingSlurStart:
		b.WriteString(`\(`)
	case *ly.PostPhrasingSlurEnd:
		b.WriteString(`\)`)
	case *ly.PostBeamStart:
		b.WriteByte('[')
	case *ly.PostBeamEnd:
		b.WriteByte(']')
	case *ly.PostCrescendo:
		b.WriteString(`\<`)
	case *ly.PostDecrescendo:
		b.WriteString(`\>`)
	case *ly.PostHairpinEnd:
		b.WriteString(`\!`)
	case *ly.PostDynamic:
		b.WriteByte('\\')
		b.WriteString(v.Name)
	case *ly.PostArticulation:
		b.WriteByte(directionChar(v.Direction))
		b.WriteByte(v.Script.Char())
	case *ly.PostNamedArticulation:
		if v.Direction != ly.DirectionNeutral {
			b.WriteByte(directionChar(v.Direction))
		}
		b.WriteByte('\\')
		b.WriteString(v.Name)
	case *ly.PostFingering:
		b.WriteByte(directionChar(v.Direction))
		b.WriteString(strconv.FormatUint(uint64(v.Digit), 10))
	case *ly.PostStringNumber:
		if v.Direction != ly.DirectionNeutral {
			b.WriteByte(directionChar(v.Direction))
		}
		b.WriteByte('\\')
		b.WriteString(strconv.FormatUint(uint64(v.Number), 10))
	case *ly.PostTextScript:
		b.WriteByte(directionChar(v.Direction))
		if v.Text.Raw != "" {
			b.WriteString(`\markup `)
			b.WriteString(v.Text.Raw)
		} else {
			b.WriteString(quoteString(v.Text.Text))
		}
	case *ly.PostTweak:
		b.WriteString(`\tweak `)
		b.WriteString(propertyPathString(v.Path))
		b.WriteByte(' ')
		b.WriteString(propertyValueString(v.Value))
	case *ly.PostTremolo:
		b.WriteByte(':')
		if v.Value > 0 {
			b.WriteString(strconv.FormatUint(uint64(v.Value), 10))
		}
	case *ly.PostLyricHyphen:
		b.WriteString(" --")
	case *ly.PostLyricExtender:
		b.WriteString(" __")
	}
}

func directionChar(d ly.Direction) byte {
	switch d {
	case ly.DirectionUp:
		return '^'
	case ly.DirectionDown:
		return '_'
	}
	return '-'
}

func writeTempo(b *strings.Builder, tempo *ly.Tempo) {
	b.WriteString(`\tempo`)
	if tempo.Text != nil {
		b.WriteByte(' ')
		if tempo.Text.Raw != "" {
			b.WriteString(`\markup `)
			b.WriteString(tempo.Text.Raw)
		} else {
			b.WriteString(quoteString(tempo.Text.Text))
		}
	}
	if tempo.Duration != nil && tempo.BPM != nil {
		b.WriteByte(' ')
		writeDuration(b, tempo.Duration)
		b.WriteString(" = ")
		b.WriteString(strconv.FormatUint(uint64(tempo.BPM.Low), 10))
		if tempo.BPM.Range {
			b.WriteByte('-')
			b.WriteString(strconv.FormatUint(uint64(tempo.BPM.High), 10))
		}
	}
}

func writeMark(b *strings.Builder, mark *ly.Mark) {
	b.WriteString(`\mark `)
	switch {
	case mark.Number != nil:
		b.WriteString(strconv.FormatUint(uint64(*mark.Number), 10))
	case mark.Label != nil:
		if mark.Label.Raw != "" {
			b.WriteString(`\markup `)
			b.WriteString(mark.Label.Raw)
		} else {
			b.WriteString(quoteString(mark.Label.Text))
		}
	default:
		b.WriteString(`\default`)
	}
}

// quoteString renders a double quoted string literal with the escapes
// the lexer understands.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isPlainWord reports whether s lexes back as a single bare word.
func isPlainWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// formatNumber prints integral values without a fraction part.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%g", v)
}
