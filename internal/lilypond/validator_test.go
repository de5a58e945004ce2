// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lilyc/internal/exc"
	"gopkg.microglot.org/lilyc/internal/ly"
)

func validateSource(t *testing.T, src string) []string {
	t.Helper()
	document, err := Parse(context.Background(), src)
	require.NoError(t, err)
	pipeline, err := New()
	require.NoError(t, err)
	err = pipeline.Validate("/test.ly", document)
	if err == nil {
		return nil
	}
	var multi MultiException
	require.ErrorAs(t, err, &multi)
	codes := make([]string, 0, len(multi))
	for _, e := range multi {
		codes = append(codes, e.Code())
	}
	return codes
}

func TestValidateCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "score without music", input: "\\score { \\layout { } }", expected: []string{exc.CodeScoreNoMusic}},
		{name: "bad duration base", input: "{ c3 }", expected: []string{exc.CodeInvalidDurationBase}},
		{name: "too many dots", input: "{ c4..... }", expected: []string{exc.CodeExcessiveDots}},
		{name: "zero multiplier denominator", input: "{ c4*1/0 }", expected: []string{exc.CodeZeroMultiplierDenom}},
		{name: "unknown context type", input: "\\new Foo { c }", expected: []string{exc.CodeUnknownContextType}},
		{name: "unknown context in change", input: "{ \\change Foo = \"x\" }", expected: []string{exc.CodeUnknownContextType}},
		{name: "unknown clef", input: "{ \\clef foo }", expected: []string{exc.CodeUnknownClefName}},
		{name: "zero time numerator", input: "{ \\time 0/8 }", expected: []string{exc.CodeInvalidTimeNumerator}},
		{name: "bad time denominator", input: "{ \\time 3/5 }", expected: []string{exc.CodeInvalidTimeDenominator}},
		{name: "empty chord", input: "{ <>4 }", expected: []string{exc.CodeEmptyChord}},
		{name: "unclosed slur", input: "{ c( d }", expected: []string{exc.CodeUnmatchedSlur}},
		{name: "slur end without start", input: "{ c d) }", expected: []string{exc.CodeUnmatchedSlur}},
		{name: "unclosed phrasing slur", input: "{ c\\( d }", expected: []string{exc.CodeUnmatchedPhrasingSlur}},
		{name: "unclosed beam", input: "{ c[ d }", expected: []string{exc.CodeUnmatchedBeam}},
		{name: "beam end without start", input: "{ c] }", expected: []string{exc.CodeUnmatchedBeam}},
		{name: "unclosed hairpin", input: "{ c\\< d }", expected: []string{exc.CodeUnmatchedHairpin}},
		{name: "hairpin end without start", input: "{ c\\! }", expected: []string{exc.CodeUnmatchedHairpin}},
		{name: "fingering too large", input: "{ c-10 }", expected: []string{exc.CodeInvalidFingeringDigit}},
		{name: "string number zero", input: "{ c\\0 }", expected: []string{exc.CodeInvalidStringNumber}},
		{name: "tremolo not a power of two", input: "{ c4:7 }", expected: []string{exc.CodeInvalidTremoloType}},
		{name: "tremolo too small", input: "{ c4:4 }", expected: []string{exc.CodeInvalidTremoloType}},
		{name: "zero tuplet fraction", input: "\\tuplet 0/2 { c }", expected: []string{exc.CodeInvalidTupletFraction}},
		{name: "empty grace body", input: "{ \\grace { } c }", expected: []string{exc.CodeEmptyGraceBody}},
		{name: "zero afterGrace fraction", input: "{ \\afterGrace 0/4 c1 { b16 } }", expected: []string{exc.CodeInvalidAfterGraceFrac}},
		{name: "zero repeat count", input: "\\repeat volta 0 { c }", expected: []string{exc.CodeInvalidRepeatCount}},
		{name: "empty bar line", input: "{ \\bar \"\" }", expected: []string{exc.CodeEmptyBarLineType}},
		{name: "empty lyric syllable", input: "\\lyricmode { \"\" }", expected: []string{exc.CodeEmptyLyricSyllable}},
		{name: "empty tempo", input: "{ \\tempo }", expected: []string{exc.CodeEmptyTempo}},
		{name: "zero tempo bpm", input: "{ \\tempo 4 = 0 }", expected: []string{exc.CodeInvalidTempoBpm}},
		{name: "descending tempo range", input: "{ \\tempo 4 = 144-132 }", expected: []string{exc.CodeInvalidTempoRange}},
		{name: "huge fingering", input: "{ c-265 }", expected: []string{exc.CodeInvalidFingeringDigit}},
		{name: "huge string number", input: "{ c\\265 }", expected: []string{exc.CodeInvalidStringNumber}},
		{name: "chord step too large", input: "\\chordmode { c:14 }", expected: []string{exc.CodeInvalidChordStep}},
		{name: "chord removal step zero", input: "\\chordmode { c:7^0 }", expected: []string{exc.CodeInvalidChordStep}},
		{name: "empty drum chord", input: "\\drummode { <>4 }", expected: []string{exc.CodeEmptyChord}},
		{name: "bass figure out of range", input: "\\figuremode { \\<100\\> }", expected: []string{exc.CodeInvalidFigureNumber}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, validateSource(t, testCase.input))
		})
	}
}

func TestValidateCleanSources(t *testing.T) {
	t.Parallel()

	sources := []string{
		"{ c4 d8. e16 }",
		"{ c8[( d e] f) }",
		"{ c\\< d\\! e\\> f\\! }",
		"\\new Staff \\with { \\consists \"Span_arpeggio_engraver\" } { c }",
		"{ \\clef treble \\clef \"G_8\" \\clef \"bass^15\" }",
		"{ \\time 6/8 \\time 2+3/8 }",
		"{ \\tempo \"Allegro\" 4 = 120-132 }",
		"{ c4:16 c2:32 c4: }",
		"{ c-5 c\\1 c\\6 }",
		"\\tuplet 3/2 { c8 d e }",
		"\\score { { c4 } \\layout { } }",
		"\\repeat volta 2 { c }",
		"\\chordmode { c4:m7 d:maj7.9+^5 e/g f/+a }",
		"\\drummode { bd4 <bd sn>8 r4 }",
		"\\figuremode { \\<6 4\\>2 \\<_ 5-\\> }",
	}

	for _, source := range sources {
		source := source
		t.Run(source, func(t *testing.T) {
			t.Parallel()
			require.Empty(t, validateSource(t, source))
		})
	}
}

func TestValidateAccumulates(t *testing.T) {
	t.Parallel()

	codes := validateSource(t, "{ c3 d( \\clef foo \\time 3/5 }")
	require.Equal(t, []string{
		exc.CodeInvalidDurationBase,
		exc.CodeUnknownClefName,
		exc.CodeInvalidTimeDenominator,
		exc.CodeUnmatchedSlur,
	}, codes)
}

func TestValidateSpanEventIndexes(t *testing.T) {
	t.Parallel()

	document, err := Parse(context.Background(), "{ c4 d e) }")
	require.NoError(t, err)
	pipeline, err := New()
	require.NoError(t, err)
	err = pipeline.Validate("/test.ly", document)
	require.Error(t, err)
	var multi MultiException
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi, 1)
	require.Contains(t, multi[0].Message(), "event 2")
}

func TestValidateSpanScopes(t *testing.T) {
	t.Parallel()

	// A slur can not reach across voice boundaries, so each context
	// gets its own tracking scope.
	codes := validateSource(t, "<< \\new Voice { c( d } \\new Voice { e f) } >>")
	require.Equal(t, []string{exc.CodeUnmatchedSlur, exc.CodeUnmatchedSlur}, codes)

	// Within one music expression the spans match up.
	require.Empty(t, validateSource(t, "<< { c( d } { e f) } >>"))
}

func TestValidateUnknownDynamic(t *testing.T) {
	t.Parallel()

	// The parser only accepts known dynamic names, so a bad one can
	// only arrive through a hand built AST.
	document := &ly.Document{Items: []ly.ToplevelExpression{
		&ly.MusicItem{Music: &ly.Sequential{Items: []ly.Music{
			&ly.Note{
				Pitch:      ly.Pitch{Step: 'c'},
				PostEvents: []ly.PostEvent{&ly.PostDynamic{Name: "loudish"}},
			},
		}}},
	}}
	pipeline, err := New()
	require.NoError(t, err)
	err = pipeline.Validate("/test.ly", document)
	require.Error(t, err)
	var multi MultiException
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi, 1)
	require.Equal(t, exc.CodeUnknownDynamic, multi[0].Code())
}

func TestValidateUnmatchedSpanMessages(t *testing.T) {
	t.Parallel()

	document, err := Parse(context.Background(), "{ c( d e }")
	require.NoError(t, err)
	pipeline, err := New()
	require.NoError(t, err)
	err = pipeline.Validate("/test.ly", document)
	require.Error(t, err)
	var multi MultiException
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi, 1)
	require.Equal(t, exc.CodeUnmatchedSlur, multi[0].Code())
	require.Equal(t, "slur started at event 0 is still open at event 2", multi[0].Message())
}
