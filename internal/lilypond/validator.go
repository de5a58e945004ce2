// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/ly"
)

// KnownContextTypes is the set of context type names that \new,
// \context, and \change accept.
var KnownContextTypes = map[string]bool{
	"Score": true, "StaffGroup": true, "ChoirStaff": true,
	"GrandStaff": true, "PianoStaff": true, "Staff": true,
	"RhythmicStaff": true, "TabStaff": true, "DrumStaff": true,
	"Voice": true, "TabVoice": true, "DrumVoice": true,
	"Lyrics": true, "ChordNames": true, "FiguredBass": true,
	"Devnull": true, "NullVoice": true, "CueVoice": true, "Global": true,
	"MensuralStaff": true, "MensuralVoice": true,
	"VaticanaStaff": true, "VaticanaVoice": true,
	"GregorianTranscriptionStaff": true, "GregorianTranscriptionVoice": true,
	"KievanStaff": true, "KievanVoice": true,
	"PetrucciStaff": true, "PetrucciVoice": true,
}

var knownClefNames = map[string]bool{
	"treble": true, "violin": true, "G": true, "G2": true, "french": true,
	"GG": true, "tenorG": true, "soprano": true, "mezzosoprano": true,
	"C": true, "alto": true, "viola": true, "tenor": true,
	"tenorvarC": true, "altovarC": true, "baritone": true,
	"varbaritone": true, "baritonevarF": true, "baritonevarC": true,
	"varC": true, "bass": true, "F": true, "subbass": true,
	"percussion": true, "varpercussion": true, "tab": true,
	"moderntab": true,
}

// Validator checks an AST for structural problems. Unlike the parser it
// never stops early: every problem it finds is reported, so one run
// shows the full set of diagnostics.
type Validator struct {
	reporter exc.Reporter
}

func NewValidator(reporter exc.Reporter) *Validator {
	return &Validator{reporter: reporter}
}

type validatorRun struct {
	reporter exc.Reporter
	uri      string
}

func (self *Validator) Validate(uri string, file *ly.Document) {
	run := validatorRun{reporter: self.reporter, uri: uri}
	for _, item := range file.Items {
		run.validateToplevel(item)
	}
}

func (v *validatorRun) report(code string, message string) {
	v.reporter.Report(exc.New(exc.Location{URI: v.uri}, code, message))
}

func (v *validatorRun) validateToplevel(item ly.ToplevelExpression) {
	switch value := item.(type) {
	case *ly.ScoreBlock:
		v.validateScore(value)
	case *ly.BookBlock:
		for _, bookItem := range value.Items {
			switch inner := bookItem.(type) {
			case *ly.ScoreBlock:
				v.validateScore(inner)
			case *ly.BookPartBlock:
				v.validateBookPart(inner)
			case *ly.MusicItem:
				v.validateMusicScope(inner.Music)
			case *ly.Assignment:
				v.validateAssignment(inner)
			}
		}
	case *ly.BookPartBlock:
		v.validateBookPart(value)
	case *ly.Assignment:
		v.validateAssignment(value)
	case *ly.MusicItem:
		v.validateMusicScope(value.Music)
	}
}

func (v *validatorRun) validateBookPart(part *ly.BookPartBlock) {
	for _, item := range part.Items {
		switch inner := item.(type) {
		case *ly.ScoreBlock:
			v.validateScore(inner)
		case *ly.MusicItem:
			v.validateMusicScope(inner.Music)
		case *ly.Assignment:
			v.validateAssignment(inner)
		}
	}
}

func (v *validatorRun) validateScore(score *ly.ScoreBlock) {
	hasMusic := false
	for _, item := range score.Items {
		if music, ok := item.(*ly.MusicItem); ok {
			hasMusic = true
			v.validateMusicScope(music.Music)
		}
	}
	if !hasMusic {
		v.report(exc.CodeScoreNoMusic, "\\score block contains no music")
	}
}

func (v *validatorRun) validateAssignment(a *ly.Assignment) {
	if music, ok := a.Value.(*ly.AssignMusic); ok {
		v.validateMusicScope(music.Music)
	}
}

// validateMusicScope validates one independent music expression. Spans
// (slurs, beams, hairpins) must balance within the scope.
func (v *validatorRun) validateMusicScope(music ly.Music) {
	spans := spanTracker{}
	v.validateMusic(music, &spans)
	spans.finish(v)
}

// spanTracker matches span start and end events by the index of the
// event that carries them, so unmatched reports can point at the
// offending event.
type spanTracker struct {
	index    int
	slurs    []int
	phrasing []int
	beams    []int
	hairpins []int
}

func (s *spanTracker) event(v *validatorRun, events []ly.PostEvent) {
	for _, event := range events {
		switch event.(type) {
		case *ly.PostSlurStart:
			s.slurs = append(s.slurs, s.index)
		case *ly.PostSlurEnd:
			if len(s.slurs) == 0 {
				v.report(exc.CodeUnmatchedSlur, fmt.Sprintf("slur end at event %d has no matching start", s.index))
			} else {
				s.slurs = s.slurs[:len(s.slurs)-1]
			}
		case *ly.PostPhrasingSlurStart:
			s.phrasing = append(s.phrasing, s.index)
		case *ly.PostPhrasingSlurEnd:
			if len(s.phrasing) == 0 {
				v.report(exc.CodeUnmatchedPhrasingSlur, fmt.Sprintf("phrasing slur end at event %d has no matching start", s.index))
			} else {
				s.phrasing = s.phrasing[:len(s.phrasing)-1]
			}
		case *ly.PostBeamStart:
			s.beams = append(s.beams, s.index)
		case *ly.PostBeamEnd:
			if len(s.beams) == 0 {
				v.report(exc.CodeUnmatchedBeam, fmt.Sprintf("beam end at event %d has no matching start", s.index))
			} else {
				s.beams = s.beams[:len(s.beams)-1]
			}
		case *ly.PostCrescendo, *ly.PostDecrescendo:
			s.hairpins = append(s.hairpins, s.index)
		case *ly.PostHairpinEnd:
			if len(s.hairpins) == 0 {
				v.report(exc.CodeUnmatchedHairpin, fmt.Sprintf("hairpin end at event %d has no matching start", s.index))
			} else {
				s.hairpins = s.hairpins[:len(s.hairpins)-1]
			}
		}
	}
	s.index++
}

// finish reports every span still open at the end of the scope, citing
// the orphaned start event and the last event of the scope.
func (s *spanTracker) finish(v *validatorRun) {
	last := s.index - 1
	for _, idx := range s.slurs {
		v.report(exc.CodeUnmatchedSlur, fmt.Sprintf("slur started at event %d is still open at event %d", idx, last))
	}
	for _, idx := range s.phrasing {
		v.report(exc.CodeUnmatchedPhrasingSlur, fmt.Sprintf("phrasing slur started at event %d is still open at event %d", idx, last))
	}
	for _, idx := range s.beams {
		v.report(exc.CodeUnmatchedBeam, fmt.Sprintf("beam started at event %d is still open at event %d", idx, last))
	}
	for _, idx := range s.hairpins {
		v.report(exc.CodeUnmatchedHairpin, fmt.Sprintf("hairpin started at event %d is still open at event %d", idx, last))
	}
}

func (v *validatorRun) validateMusic(music ly.Music, spans *spanTracker) {
	switch value := music.(type) {
	case *ly.Sequential:
		for _, item := range value.Items {
			v.validateMusic(item, spans)
		}
	case *ly.Simultaneous:
		for _, item := range value.Items {
			v.validateMusic(item, spans)
		}
	case *ly.Note:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.Chord:
		if len(value.Pitches) == 0 {
			v.report(exc.CodeEmptyChord, "chord contains no pitches")
		}
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.Rest:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.Skip:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.MultiMeasureRest:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.ChordRepetition:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.Lyric:
		if value.Text == "" {
			v.report(exc.CodeEmptyLyricSyllable, "lyric syllable is empty")
		}
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.Relative:
		v.validateMusic(value.Body, spans)
	case *ly.Fixed:
		v.validateMusic(value.Body, spans)
	case *ly.Transpose:
		v.validateMusic(value.Body, spans)
	case *ly.ContextedMusic:
		if !KnownContextTypes[value.ContextType] {
			v.report(exc.CodeUnknownContextType, fmt.Sprintf("unknown context type %s", value.ContextType))
		}
		v.validateMusicScope(value.Music)
	case *ly.ContextChange:
		if !KnownContextTypes[value.ContextType] {
			v.report(exc.CodeUnknownContextType, fmt.Sprintf("unknown context type %s", value.ContextType))
		}
	case *ly.Clef:
		if !isKnownClef(value.Name) {
			v.report(exc.CodeUnknownClefName, fmt.Sprintf("unknown clef %s", value.Name))
		}
	case *ly.TimeSignature:
		for _, num := range value.Numerators {
			if num == 0 {
				v.report(exc.CodeInvalidTimeNumerator, "time signature numerator must be positive")
			}
		}
		if !isPowerOfTwo(value.Denominator) {
			v.report(exc.CodeInvalidTimeDenominator, fmt.Sprintf("time signature denominator %d is not a power of two", value.Denominator))
		}
	case *ly.Tempo:
		v.validateTempo(value)
	case *ly.Tuplet:
		if value.Numerator == 0 || value.Denominator == 0 {
			v.report(exc.CodeInvalidTupletFraction, fmt.Sprintf("tuplet fraction %d/%d must have positive terms", value.Numerator, value.Denominator))
		}
		v.validateDuration(value.SpanDuration)
		v.validateMusic(value.Body, spans)
	case *ly.Grace:
		v.validateGraceBody(value.Body, spans)
	case *ly.Acciaccatura:
		v.validateGraceBody(value.Body, spans)
	case *ly.Appoggiatura:
		v.validateGraceBody(value.Body, spans)
	case *ly.AfterGrace:
		if value.Fraction != nil && (value.Fraction.Num == 0 || value.Fraction.Den == 0) {
			v.report(exc.CodeInvalidAfterGraceFrac, fmt.Sprintf("afterGrace fraction %d/%d must have positive terms", value.Fraction.Num, value.Fraction.Den))
		}
		v.validateMusic(value.Main, spans)
		v.validateGraceBody(value.Grace, spans)
	case *ly.Repeat:
		if value.Count == 0 {
			v.report(exc.CodeInvalidRepeatCount, "repeat count must be positive")
		}
		v.validateMusic(value.Body, spans)
		for _, alternative := range value.Alternatives {
			v.validateMusic(alternative, spans)
		}
	case *ly.BarLine:
		if value.Type == "" {
			v.report(exc.CodeEmptyBarLineType, "bar line type is empty")
		}
	case *ly.LyricMode:
		v.validateMusic(value.Body, spans)
	case *ly.ChordMode:
		v.validateMusic(value.Body, spans)
	case *ly.ChordEntry:
		v.validateDuration(value.Duration)
		for _, item := range value.Quality {
			if step, ok := item.(*ly.ChordQualityStep); ok {
				v.validateChordStep(step.Step)
			}
		}
		for _, step := range value.Removals {
			v.validateChordStep(step)
		}
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.DrumMode:
		v.validateMusic(value.Body, spans)
	case *ly.DrumNote:
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.DrumChord:
		if len(value.Names) == 0 {
			v.report(exc.CodeEmptyChord, "drum chord contains no notes")
		}
		v.validateDuration(value.Duration)
		v.validatePostEvents(value.PostEvents)
		spans.event(v, value.PostEvents)
	case *ly.FigureMode:
		v.validateMusic(value.Body, spans)
	case *ly.Figure:
		for _, figure := range value.Figures {
			if figure.Number != nil && (*figure.Number == 0 || *figure.Number > 99) {
				v.report(exc.CodeInvalidFigureNumber, fmt.Sprintf("bass figure %d is out of range", *figure.Number))
			}
		}
		v.validateDuration(value.Duration)
	case *ly.MusicFunction:
		for _, arg := range value.Args {
			if music, ok := arg.(*ly.ArgMusic); ok {
				v.validateMusicScope(music.Music)
			}
		}
	case *ly.AddLyrics:
		v.validateMusic(value.Music, spans)
		for _, lyrics := range value.Lyrics {
			v.validateMusicScope(lyrics)
		}
	case *ly.LyricsTo:
		v.validateMusicScope(value.Lyrics)
	case *ly.Once:
		v.validateMusic(value.Music, spans)
	}
}

// validateChordStep bounds chord quality and removal steps to the
// scale degrees chord mode can name, 1 through 13.
func (v *validatorRun) validateChordStep(step ly.ChordStep) {
	if step.Number == 0 || step.Number > 13 {
		v.report(exc.CodeInvalidChordStep, fmt.Sprintf("chord step %d is out of range", step.Number))
	}
}

func (v *validatorRun) validateGraceBody(body ly.Music, spans *spanTracker) {
	if seq, ok := body.(*ly.Sequential); ok && len(seq.Items) == 0 {
		v.report(exc.CodeEmptyGraceBody, "grace body contains no music")
	}
	v.validateMusic(body, spans)
}

func (v *validatorRun) validateDuration(d *ly.Duration) {
	if d == nil {
		return
	}
	if !d.ValidBase() {
		v.report(exc.CodeInvalidDurationBase, fmt.Sprintf("duration base %d is not a power of two between 1 and 128", d.Base))
	}
	if d.Dots > 4 {
		v.report(exc.CodeExcessiveDots, fmt.Sprintf("duration has %d dots, at most 4 are allowed", d.Dots))
	}
	for _, mult := range d.Multipliers {
		if mult.Den == 0 {
			v.report(exc.CodeZeroMultiplierDenom, "duration multiplier has a zero denominator")
		}
	}
}

func (v *validatorRun) validatePostEvents(events []ly.PostEvent) {
	for _, event := range events {
		switch value := event.(type) {
		case *ly.PostDynamic:
			if !ly.IsDynamicMarking(value.Name) {
				v.report(exc.CodeUnknownDynamic, fmt.Sprintf("unknown dynamic marking %s", value.Name))
			}
		case *ly.PostFingering:
			if value.Digit > 9 {
				v.report(exc.CodeInvalidFingeringDigit, fmt.Sprintf("fingering %d is not a single digit", value.Digit))
			}
		case *ly.PostStringNumber:
			if value.Number < 1 || value.Number > 9 {
				v.report(exc.CodeInvalidStringNumber, fmt.Sprintf("string number %d is out of range", value.Number))
			}
		case *ly.PostTremolo:
			if value.Value != 0 && (value.Value < 8 || !isPowerOfTwo(value.Value)) {
				v.report(exc.CodeInvalidTremoloType, fmt.Sprintf("tremolo type %d is not a power of two of at least 8", value.Value))
			}
		}
	}
}

func (v *validatorRun) validateTempo(tempo *ly.Tempo) {
	if tempo.Text == nil && tempo.Duration == nil && tempo.BPM == nil {
		v.report(exc.CodeEmptyTempo, "\\tempo has neither text nor a beat setting")
		return
	}
	v.validateDuration(tempo.Duration)
	if tempo.BPM != nil {
		if tempo.BPM.Low == 0 {
			v.report(exc.CodeInvalidTempoBpm, "tempo beats per minute must be positive")
		}
		if tempo.BPM.Range && tempo.BPM.High <= tempo.BPM.Low {
			v.report(exc.CodeInvalidTempoRange, fmt.Sprintf("tempo range %d-%d is not ascending", tempo.BPM.Low, tempo.BPM.High))
		}
	}
}

// isKnownClef accepts the standard clef names plus octave transposition
// suffixes such as G_8 or treble^15.
func isKnownClef(name string) bool {
	base := name
	for _, sep := range []string{"_", "^"} {
		if idx := strings.Index(base, sep); idx >= 0 {
			suffix := base[idx+1:]
			if suffix != "8" && suffix != "15" {
				return false
			}
			base = base[:idx]
			break
		}
	}
	return knownClefNames[base]
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}
