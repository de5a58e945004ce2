// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lilypond

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func serializeSource(t *testing.T, src string) string {
	t.Helper()
	return NewSerializer().Serialize(mustParse(t, src))
}

func TestSerializeCanonicalForms(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "music stays on one line",
			input:    "{\n  c4\n  d4\n}",
			expected: "{ c4 d4 }\n",
		},
		{
			name:     "irregular flat names normalize",
			input:    "{ as es }",
			expected: "{ aes ees }\n",
		},
		{
			name:     "times normalizes to tuplet",
			input:    "\\times 2/3 { c8 d e }",
			expected: "\\tuplet 3/2 { c8 d e }\n",
		},
		{
			name:     "simultaneous keyword normalizes to angles",
			input:    "\\simultaneous { c d }",
			expected: "<< c d >>\n",
		},
		{
			name:     "unit multiplier denominator is dropped",
			input:    "{ R1*4/1 }",
			expected: "{ R1*4 }\n",
		},
		{
			name:     "integral numbers print as integers",
			input:    "indent = 4.0",
			expected: "indent = 4\n",
		},
		{
			name:     "empty blocks collapse",
			input:    "\\header {\n}",
			expected: "\\header { }\n",
		},
		{
			name:     "plain clef names stay bare",
			input:    `{ \clef treble \clef "G_8" }`,
			expected: "{ \\clef treble \\clef \"G_8\" }\n",
		},
		{
			name:     "toplevel items get blank separators",
			input:    "\\version \"2.24.0\" melody = { c4 } \\score { \\melody }",
			expected: "\\version \"2.24.0\"\n\nmelody = { c4 }\n\n\\score {\n  \\melody\n}\n",
		},
		{
			name:     "score block layout",
			input:    `\score { { c4 d } \header { piece = "I" } \layout { } \midi { } }`,
			expected: "\\score {\n  { c4 d }\n  \\header {\n    piece = \"I\"\n  }\n  \\layout { }\n  \\midi { }\n}\n",
		},
		{
			name:     "layout context block",
			input:    "\\layout { indent = 0 \\context { \\Score \\remove \"Bar_number_engraver\" } }",
			expected: "\\layout {\n  indent = 0\n  \\context {\n    \\Score\n    \\remove \"Bar_number_engraver\"\n  }\n}\n",
		},
		{
			name:     "string escapes survive",
			input:    "title = \"a\\n\\\"b\\\"\"",
			expected: "title = \"a\\n\\\"b\\\"\"\n",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, serializeSource(t, testCase.input))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		"\\version \"2.24.0\"\n\n{ c4 d8. e16 }",
		"{ cis''4.~ cis'' }",
		"{ <c ees g>2. q4 <c e>8 q }",
		"{ r4 s8 R1*3/4 }",
		"{ c''=' c,,8*2/3 c!? d4\\rest }",
		"\\relative c' { c d e f }",
		"\\relative { c' d }",
		"\\fixed c'' { c d }",
		"\\transpose c d { e fis }",
		"\\tuplet 3/2 { c8 d e }",
		"\\tuplet 3/2 4 { c8 c c c c c }",
		"\\tuplet 3/2 { c8 \\tuplet 5/4 { d16 d d d d } }",
		"\\repeat volta 2 { c4 d } \\alternative { { e1 } { f1 } }",
		"\\repeat unfold 4 { c8 }",
		"\\repeat tremolo 8 { c32 d }",
		"{ \\grace { c16 } d4 \\acciaccatura { c16 } d4 \\appoggiatura { c16 } d4 }",
		"{ \\afterGrace 3/4 c1 { b16 c } d1 }",
		"{ \\afterGrace c1 { b16 } }",
		"\\new Staff { c4 }",
		"\\new Voice = \"melody\" \\with { \\consists \"Span_arpeggio_engraver\" } { c }",
		"\\context Staff \\with { \\remove \"Clef_engraver\" } { c }",
		"{ \\change Staff = \"lower\" c4 }",
		"{ \\clef \"G_8\" \\key fis \\minor \\time 2+3/8 c1 }",
		"{ \\time 6/8 \\tempo \"Allegro\" 4 = 132 c2. }",
		"{ \\tempo 4 = 132-144 \\tempo \"Slow\" c1 }",
		"{ \\mark \\default \\mark 2 \\mark \"A\" \\textMark \"x\" \\bar \"|.\" c1 | }",
		"{ c8[( d\\< e] f)\\! g\\( a2\\) }",
		"{ b2:16 c4: }",
		"{ c-. d^\\trill e_5 f-\"hi\" g\\ff a\\3 c-2 }",
		"{ c-- d__ e-_ f-! g-> a-+ b-^ }",
		"{ c^\\markup { \\italic espr. } }",
		"{ c\\tweak color #red d }",
		"{ \\once \\override NoteHead.color = #red c }",
		"{ \\override Staff.TextSpanner.bound-details.left.text = \"x\" c }",
		"{ \\set Staff.autoBeaming = ##f \\unset Staff.autoBeaming c }",
		"{ \\revert NoteHead.color c }",
		"<< { c } \\\\ { d } >>",
		"<< \\new Staff { c } \\new Staff { e } >>",
		"{ \\autoBeamOff c8 d \\autoBeamOn }",
		"{ #(display 1) c }",
		"{ \\melody }",
		"{ c d } \\addlyrics { la -- la __ la }",
		"{ c d } \\addlyrics { la la } \\addlyrics { lo lo }",
		"\\lyricmode { la4 -- li __ lu \"two words\" _ }",
		"\\lyricsto \"melody\" { la la }",
		"melody = { c4 d }",
		"tagline = \\markup { \\bold Hi }",
		"tagline = \\markup \\bold \"Hi\"",
		"\\markup \"plain\"",
		"\\markup { \\column { \"a\" \"b\" } }",
		"blurb = \\markuplist { \\bold a b }",
		"pointAndClick = ##f",
		"indent = -1.5",
		"\\header { title = \"Suite\" composer = \"Anon\" }",
		"\\paper { indent = 0 }",
		"\\score { { c4 } \\layout { indent = 0 } \\midi { } }",
		"\\book { \\paper { indent = 0 } \\bookpart { \\score { { c4 } } } { d4 } }",
		"\\layout { \\context { \\Score \\override SpacingSpanner.strict-note-spacing = ##t } }",
		"\\chordmode { c4:m7 d2:maj7.9+ e:sus4 f:11^5.7- g'/b a,/+cis r2 | }",
		"\\chords { c2 c/g }",
		"\\drummode { bd4 sn8 hh <bd sn>4 r4 s8 R1 << { hh8 } \\\\ { bd4 } >> }",
		"\\drums \\with { \\remove \"Clef_engraver\" } { bd4 }",
		"\\figuremode { \\<6 4\\>2 \\<_ 5- 7+ 3!\\> \\<[6!] 5\\+ 7/ 9\\\\\\> r4 }",
		"\\figures { \\<6\\> }",
		"{ \\omit Voice.Glissando c }",
		"{ \\magnifyMusic 0.63 { c4 d } }",
		"{ \\keepWithTag \"solo\" #(list 1) }",
		"{ \\myTweak 8 \\etc }",
	}

	for _, source := range sources {
		source := source
		t.Run(source, func(t *testing.T) {
			t.Parallel()
			first := mustParse(t, source)
			rendered := NewSerializer().Serialize(first)
			second, err := Parse(context.Background(), rendered)
			require.NoError(t, err, "reparse of %q", rendered)
			require.Equal(t, first, second, "round trip of %q via %q", source, rendered)
			require.Equal(t, rendered, NewSerializer().Serialize(second))
		})
	}
}
