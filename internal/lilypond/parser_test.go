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

func mustParse(t *testing.T, src string) *ly.Document {
	t.Helper()
	document, err := Parse(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, document)
	return document
}

func mustParseMusic(t *testing.T, src string) ly.Music {
	t.Helper()
	document := mustParse(t, src)
	require.Len(t, document.Items, 1)
	item, ok := document.Items[0].(*ly.MusicItem)
	require.True(t, ok, "expected a music item, got %T", document.Items[0])
	return item.Music
}

func octave(n int8) *int8 {
	return &n
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	document := mustParse(t, "\\version \"2.24.0\"\n{ c4 }")
	require.NotNil(t, document.Version)
	require.Equal(t, "2.24.0", document.Version.Version)
	require.Len(t, document.Items, 1)

	document = mustParse(t, "{ c4 }")
	require.Nil(t, document.Version)
}

func TestParseNotes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected ly.Music
	}{
		{
			name:  "dotted sharp note",
			input: "{ cis''4. }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{
					Pitch:    ly.Pitch{Step: 'c', Alter: 1, Octave: 2},
					Duration: &ly.Duration{Base: 4, Dots: 1},
				},
			}},
		},
		{
			name:  "flat with double dots",
			input: "{ ees2.. }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{
					Pitch:    ly.Pitch{Step: 'e', Alter: -1},
					Duration: &ly.Duration{Base: 2, Dots: 2},
				},
			}},
		},
		{
			name:  "duration multiplier",
			input: "{ c,,8*2/3 }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{
					Pitch: ly.Pitch{Step: 'c', Octave: -2},
					Duration: &ly.Duration{
						Base:        8,
						Multipliers: []ly.Fraction{{Num: 2, Den: 3}},
					},
				},
			}},
		},
		{
			name:  "accidental flags",
			input: "{ c!? }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{Pitch: ly.Pitch{Step: 'c', ForceAccidental: true, Cautionary: true}},
			}},
		},
		{
			name:  "octave check",
			input: "{ c''=' }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{Pitch: ly.Pitch{Step: 'c', Octave: 2, OctaveCheck: octave(1)}},
			}},
		},
		{
			name:  "pitched rest",
			input: "{ d4\\rest }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{
					Pitch:       ly.Pitch{Step: 'd'},
					Duration:    &ly.Duration{Base: 4},
					PitchedRest: true,
				},
			}},
		},
		{
			name:  "inherited duration",
			input: "{ c4~ c }",
			expected: &ly.Sequential{Items: []ly.Music{
				&ly.Note{
					Pitch:      ly.Pitch{Step: 'c'},
					Duration:   &ly.Duration{Base: 4},
					PostEvents: []ly.PostEvent{&ly.PostTie{}},
				},
				&ly.Note{Pitch: ly.Pitch{Step: 'c'}},
			}},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, mustParseMusic(t, testCase.input))
		})
	}
}

func TestParseChords(t *testing.T) {
	t.Parallel()

	expected := &ly.Sequential{Items: []ly.Music{
		&ly.Chord{
			Pitches: []ly.Pitch{
				{Step: 'c'},
				{Step: 'e', Alter: -1},
				{Step: 'g'},
			},
			Duration: &ly.Duration{Base: 2, Dots: 1},
		},
		&ly.ChordRepetition{Duration: &ly.Duration{Base: 4}},
	}}
	require.Equal(t, expected, mustParseMusic(t, "{ <c ees g>2. q4 }"))
}

func TestParseRests(t *testing.T) {
	t.Parallel()

	expected := &ly.Sequential{Items: []ly.Music{
		&ly.Rest{Duration: &ly.Duration{Base: 4}},
		&ly.Skip{Duration: &ly.Duration{Base: 8}},
		&ly.MultiMeasureRest{Duration: &ly.Duration{
			Base:        1,
			Multipliers: []ly.Fraction{{Num: 4, Den: 1}},
		}},
	}}
	require.Equal(t, expected, mustParseMusic(t, "{ r4 s8 R1*4 }"))
}

func TestParseTuplets(t *testing.T) {
	t.Parallel()

	t.Run("tuplet", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\tuplet 3/2 { c8 d e }")
		tuplet, ok := music.(*ly.Tuplet)
		require.True(t, ok)
		require.Equal(t, uint32(3), tuplet.Numerator)
		require.Equal(t, uint32(2), tuplet.Denominator)
		require.Nil(t, tuplet.SpanDuration)
		body, ok := tuplet.Body.(*ly.Sequential)
		require.True(t, ok)
		require.Len(t, body.Items, 3)
	})

	t.Run("tuplet with span duration", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\tuplet 3/2 8 { c c c }")
		tuplet, ok := music.(*ly.Tuplet)
		require.True(t, ok)
		require.Equal(t, &ly.Duration{Base: 8}, tuplet.SpanDuration)
	})

	t.Run("times normalizes to tuplet", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\times 2/3 { c8 d e }")
		tuplet, ok := music.(*ly.Tuplet)
		require.True(t, ok)
		require.Equal(t, uint32(3), tuplet.Numerator)
		require.Equal(t, uint32(2), tuplet.Denominator)
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\tuplet 3/2 { c8 \\tuplet 5/4 { d16 d d d d } }")
		outer, ok := music.(*ly.Tuplet)
		require.True(t, ok)
		body := outer.Body.(*ly.Sequential)
		require.Len(t, body.Items, 2)
		inner, ok := body.Items[1].(*ly.Tuplet)
		require.True(t, ok)
		require.Equal(t, uint32(5), inner.Numerator)
	})
}

func TestParseRelativeFixedTranspose(t *testing.T) {
	t.Parallel()

	t.Run("relative with reference", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\relative c' { c d }")
		relative, ok := music.(*ly.Relative)
		require.True(t, ok)
		require.NotNil(t, relative.Pitch)
		require.Equal(t, ly.Pitch{Step: 'c', Octave: 1}, relative.Pitch.Pitch)
		require.IsType(t, &ly.Sequential{}, relative.Body)
	})

	t.Run("relative without reference", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\relative { c d }")
		relative, ok := music.(*ly.Relative)
		require.True(t, ok)
		require.Nil(t, relative.Pitch)
	})

	t.Run("fixed", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\fixed c'' { c d }")
		fixed, ok := music.(*ly.Fixed)
		require.True(t, ok)
		require.NotNil(t, fixed.Pitch)
		require.Equal(t, ly.Pitch{Step: 'c', Octave: 2}, fixed.Pitch.Pitch)
	})

	t.Run("transpose", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\transpose c d { e }")
		transpose, ok := music.(*ly.Transpose)
		require.True(t, ok)
		require.Equal(t, ly.Pitch{Step: 'c'}, transpose.From.Pitch)
		require.Equal(t, ly.Pitch{Step: 'd'}, transpose.To.Pitch)
	})
}

func TestParseContextedMusic(t *testing.T) {
	t.Parallel()

	t.Run("new with name and with block", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, `\new Voice = "melody" \with { \consists "Span_arpeggio_engraver" } { c }`)
		contexted, ok := music.(*ly.ContextedMusic)
		require.True(t, ok)
		require.Equal(t, ly.ContextKeywordNew, contexted.Keyword)
		require.Equal(t, "Voice", contexted.ContextType)
		require.True(t, contexted.HasName)
		require.Equal(t, "melody", contexted.Name)
		require.Len(t, contexted.With, 1)
		consists, ok := contexted.With[0].(*ly.ContextModConsists)
		require.True(t, ok)
		require.Equal(t, "Span_arpeggio_engraver", consists.Name)
	})

	t.Run("context without name", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\context Staff { c }")
		contexted, ok := music.(*ly.ContextedMusic)
		require.True(t, ok)
		require.Equal(t, ly.ContextKeywordContext, contexted.Keyword)
		require.Equal(t, "Staff", contexted.ContextType)
		require.False(t, contexted.HasName)
		require.Empty(t, contexted.With)
	})

	t.Run("change", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, `{ \change Staff = "lower" }`)
		sequential := music.(*ly.Sequential)
		change, ok := sequential.Items[0].(*ly.ContextChange)
		require.True(t, ok)
		require.Equal(t, "Staff", change.ContextType)
		require.Equal(t, "lower", change.Name)
	})
}

func TestParseRepeat(t *testing.T) {
	t.Parallel()

	music := mustParseMusic(t, "\\repeat volta 2 { c d } \\alternative { { e } { f } }")
	repeat, ok := music.(*ly.Repeat)
	require.True(t, ok)
	require.Equal(t, ly.RepeatTypeVolta, repeat.Type)
	require.Equal(t, uint32(2), repeat.Count)
	require.Len(t, repeat.Alternatives, 2)

	music = mustParseMusic(t, "\\repeat unfold 4 { c }")
	repeat, ok = music.(*ly.Repeat)
	require.True(t, ok)
	require.Equal(t, ly.RepeatTypeUnfold, repeat.Type)
	require.Empty(t, repeat.Alternatives)
}

func TestParseGrace(t *testing.T) {
	t.Parallel()

	sequential := mustParseMusic(t, "{ \\grace { c16 } \\acciaccatura { d16 } \\appoggiatura { e16 } }").(*ly.Sequential)
	require.Len(t, sequential.Items, 3)
	require.IsType(t, &ly.Grace{}, sequential.Items[0])
	require.IsType(t, &ly.Acciaccatura{}, sequential.Items[1])
	require.IsType(t, &ly.Appoggiatura{}, sequential.Items[2])

	music := mustParseMusic(t, "{ \\afterGrace 3/4 c1 { d16 } }").(*ly.Sequential).Items[0]
	afterGrace, ok := music.(*ly.AfterGrace)
	require.True(t, ok)
	require.Equal(t, &ly.Fraction{Num: 3, Den: 4}, afterGrace.Fraction)
	require.IsType(t, &ly.Note{}, afterGrace.Main)

	music = mustParseMusic(t, "{ \\afterGrace c1 { d16 } }").(*ly.Sequential).Items[0]
	afterGrace, ok = music.(*ly.AfterGrace)
	require.True(t, ok)
	require.Nil(t, afterGrace.Fraction)
}

func TestParsePostEvents(t *testing.T) {
	t.Parallel()

	t.Run("spans", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, "{ c8[( d\\< e] f)\\! g\\( a\\) }").(*ly.Sequential)
		require.Equal(t, []ly.PostEvent{&ly.PostBeamStart{}, &ly.PostSlurStart{}}, sequential.Items[0].(*ly.Note).PostEvents)
		require.Equal(t, []ly.PostEvent{&ly.PostCrescendo{}}, sequential.Items[1].(*ly.Note).PostEvents)
		require.Equal(t, []ly.PostEvent{&ly.PostBeamEnd{}}, sequential.Items[2].(*ly.Note).PostEvents)
		require.Equal(t, []ly.PostEvent{&ly.PostSlurEnd{}, &ly.PostHairpinEnd{}}, sequential.Items[3].(*ly.Note).PostEvents)
		require.Equal(t, []ly.PostEvent{&ly.PostPhrasingSlurStart{}}, sequential.Items[4].(*ly.Note).PostEvents)
		require.Equal(t, []ly.PostEvent{&ly.PostPhrasingSlurEnd{}}, sequential.Items[5].(*ly.Note).PostEvents)
	})

	t.Run("directed", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ c-. d^\trill e_5 f-"hi" g-2 }`).(*ly.Sequential)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostArticulation{Direction: ly.DirectionNeutral, Script: ly.ScriptDot}},
			sequential.Items[0].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostNamedArticulation{Direction: ly.DirectionUp, Name: "trill"}},
			sequential.Items[1].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostFingering{Direction: ly.DirectionDown, Digit: 5}},
			sequential.Items[2].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostTextScript{Direction: ly.DirectionNeutral, Text: ly.Markup{Text: "hi"}}},
			sequential.Items[3].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostFingering{Direction: ly.DirectionNeutral, Digit: 2}},
			sequential.Items[4].(*ly.Note).PostEvents)
	})

	t.Run("dynamics ornaments strings tremolo", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ c\ff d\trill e\3 f:16 g: }`).(*ly.Sequential)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostDynamic{Name: "ff"}},
			sequential.Items[0].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostNamedArticulation{Direction: ly.DirectionNeutral, Name: "trill"}},
			sequential.Items[1].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostStringNumber{Direction: ly.DirectionNeutral, Number: 3}},
			sequential.Items[2].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostTremolo{Value: 16}},
			sequential.Items[3].(*ly.Note).PostEvents)
		require.Equal(t,
			[]ly.PostEvent{&ly.PostTremolo{}},
			sequential.Items[4].(*ly.Note).PostEvents)
	})

	t.Run("tweak", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ c\tweak color #red d }`).(*ly.Sequential)
		events := sequential.Items[0].(*ly.Note).PostEvents
		require.Len(t, events, 1)
		tweak, ok := events[0].(*ly.PostTweak)
		require.True(t, ok)
		require.Equal(t, []string{"color"}, tweak.Path.Segments)
		require.Equal(t, &ly.PropScheme{Raw: "#red"}, tweak.Value)
	})
}

func TestParseKeyClefTimeTempo(t *testing.T) {
	t.Parallel()

	t.Run("key", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, "{ \\key fis \\minor }").(*ly.Sequential)
		key, ok := sequential.Items[0].(*ly.KeySignature)
		require.True(t, ok)
		require.Equal(t, ly.Pitch{Step: 'f', Alter: 1}, key.Pitch)
		require.Equal(t, ly.ModeMinor, key.Mode)
	})

	t.Run("clef", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, "{ \\clef treble \\clef \"G_8\" }").(*ly.Sequential)
		require.Equal(t, &ly.Clef{Name: "treble"}, sequential.Items[0])
		require.Equal(t, &ly.Clef{Name: "G_8"}, sequential.Items[1])
	})

	t.Run("time", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, "{ \\time 6/8 \\time 2+3/8 }").(*ly.Sequential)
		require.Equal(t, &ly.TimeSignature{Numerators: []uint32{6}, Denominator: 8}, sequential.Items[0])
		require.Equal(t, &ly.TimeSignature{Numerators: []uint32{2, 3}, Denominator: 8}, sequential.Items[1])
	})

	t.Run("tempo", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ \tempo "Allegro" 4 = 132 \tempo 4 = 132-144 \tempo "Slow" }`).(*ly.Sequential)
		require.Equal(t, &ly.Tempo{
			Text:     &ly.Markup{Text: "Allegro"},
			Duration: &ly.Duration{Base: 4},
			BPM:      &ly.TempoRange{Low: 132},
		}, sequential.Items[0])
		require.Equal(t, &ly.Tempo{
			Duration: &ly.Duration{Base: 4},
			BPM:      &ly.TempoRange{Low: 132, High: 144, Range: true},
		}, sequential.Items[1])
		require.Equal(t, &ly.Tempo{Text: &ly.Markup{Text: "Slow"}}, sequential.Items[2])
	})

	t.Run("marks", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ \mark \default \mark 2 \mark "A" }`).(*ly.Sequential)
		require.Equal(t, &ly.Mark{}, sequential.Items[0])
		mark := sequential.Items[1].(*ly.Mark)
		require.NotNil(t, mark.Number)
		require.Equal(t, uint32(2), *mark.Number)
		mark = sequential.Items[2].(*ly.Mark)
		require.Equal(t, &ly.Markup{Text: "A"}, mark.Label)
	})

	t.Run("bar", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ \bar "|." c4 | }`).(*ly.Sequential)
		require.Equal(t, &ly.BarLine{Type: "|."}, sequential.Items[0])
		require.Equal(t, &ly.BarCheck{}, sequential.Items[2])
	})
}

func TestParseSimultaneous(t *testing.T) {
	t.Parallel()

	music := mustParseMusic(t, "<< { c } \\\\ { d } >>")
	simultaneous, ok := music.(*ly.Simultaneous)
	require.True(t, ok)
	require.Len(t, simultaneous.Items, 3)
	require.IsType(t, &ly.Sequential{}, simultaneous.Items[0])
	require.IsType(t, &ly.VoiceSeparator{}, simultaneous.Items[1])
	require.IsType(t, &ly.Sequential{}, simultaneous.Items[2])

	music = mustParseMusic(t, "\\simultaneous { c d }")
	simultaneous, ok = music.(*ly.Simultaneous)
	require.True(t, ok)
	require.Len(t, simultaneous.Items, 2)

	music = mustParseMusic(t, "\\sequential { c d }")
	sequential, ok := music.(*ly.Sequential)
	require.True(t, ok)
	require.Len(t, sequential.Items, 2)
}

func TestParseLyrics(t *testing.T) {
	t.Parallel()

	t.Run("lyricmode", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "\\lyricmode { la4 -- li __ lu }")
		mode, ok := music.(*ly.LyricMode)
		require.True(t, ok)
		body := mode.Body.(*ly.Sequential)
		require.Len(t, body.Items, 3)
		require.Equal(t, &ly.Lyric{
			Text:       "la",
			Duration:   &ly.Duration{Base: 4},
			PostEvents: []ly.PostEvent{&ly.PostLyricHyphen{}},
		}, body.Items[0])
		require.Equal(t, &ly.Lyric{
			Text:       "li",
			PostEvents: []ly.PostEvent{&ly.PostLyricExtender{}},
		}, body.Items[1])
		require.Equal(t, &ly.Lyric{Text: "lu"}, body.Items[2])
	})

	t.Run("addlyrics", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, "{ c d } \\addlyrics { la la } \\addlyrics { lo lo }")
		addLyrics, ok := music.(*ly.AddLyrics)
		require.True(t, ok)
		require.IsType(t, &ly.Sequential{}, addLyrics.Music)
		require.Len(t, addLyrics.Lyrics, 2)
	})

	t.Run("lyricsto", func(t *testing.T) {
		t.Parallel()
		music := mustParseMusic(t, `\lyricsto "melody" { la la }`)
		lyricsTo, ok := music.(*ly.LyricsTo)
		require.True(t, ok)
		require.Equal(t, "melody", lyricsTo.VoiceID)
		require.IsType(t, &ly.Sequential{}, lyricsTo.Lyrics)
	})
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	sequential := mustParseMusic(t, `{
		\override Staff.TextSpanner.bound-details.left.text = "x"
		\once \override NoteHead.color = #red
		\set Staff.autoBeaming = ##f
		\unset Staff.autoBeaming
		\revert Staff.TextSpanner.bound-details.left.text
	}`).(*ly.Sequential)
	require.Len(t, sequential.Items, 5)

	override := sequential.Items[0].(*ly.Override)
	require.Equal(t, []string{"Staff", "TextSpanner", "bound-details", "left", "text"}, override.Path.Segments)
	require.Equal(t, &ly.PropString{Value: "x"}, override.Value)

	once := sequential.Items[1].(*ly.Once)
	inner, ok := once.Music.(*ly.Override)
	require.True(t, ok)
	require.Equal(t, []string{"NoteHead", "color"}, inner.Path.Segments)
	require.Equal(t, &ly.PropScheme{Raw: "#red"}, inner.Value)

	set := sequential.Items[2].(*ly.Set)
	require.Equal(t, []string{"Staff", "autoBeaming"}, set.Path.Segments)
	require.Equal(t, &ly.PropScheme{Raw: "##f"}, set.Value)

	unset := sequential.Items[3].(*ly.Unset)
	require.Equal(t, []string{"Staff", "autoBeaming"}, unset.Path.Segments)

	revert := sequential.Items[4].(*ly.Revert)
	require.Equal(t, []string{"Staff", "TextSpanner", "bound-details", "left", "text"}, revert.Path.Segments)
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected ly.AssignmentValue
	}{
		{name: "string", input: `title = "Suite"`, expected: &ly.AssignString{Value: "Suite"}},
		{name: "number", input: "indent = 1.5", expected: &ly.AssignNumber{Value: 1.5}},
		{name: "negative number", input: "indent = -2", expected: &ly.AssignNumber{Value: -2}},
		{name: "scheme", input: "pointAndClick = ##f", expected: &ly.AssignScheme{Raw: "##f"}},
		{name: "identifier", input: `theme = \melody`, expected: &ly.AssignIdentifier{Name: "melody"}},
		{name: "markup text", input: `tagline = \markup "hi"`, expected: &ly.AssignMarkup{Markup: ly.Markup{Text: "hi"}}},
		{name: "markup raw", input: `tagline = \markup { \bold Hi }`, expected: &ly.AssignMarkup{Markup: ly.Markup{Raw: "{ \\bold Hi }"}}},
		{name: "markup list", input: `blurb = \markuplist { a b }`, expected: &ly.AssignMarkupList{Raw: "{ a b }"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			document := mustParse(t, testCase.input)
			require.Len(t, document.Items, 1)
			assignment, ok := document.Items[0].(*ly.Assignment)
			require.True(t, ok)
			require.Equal(t, testCase.expected, assignment.Value)
		})
	}

	t.Run("music value", func(t *testing.T) {
		t.Parallel()
		document := mustParse(t, "melody = { c4 d }")
		assignment := document.Items[0].(*ly.Assignment)
		require.Equal(t, "melody", assignment.Name)
		value, ok := assignment.Value.(*ly.AssignMusic)
		require.True(t, ok)
		require.IsType(t, &ly.Sequential{}, value.Music)
	})

	t.Run("note name on the left", func(t *testing.T) {
		t.Parallel()
		document := mustParse(t, "a = 4")
		assignment, ok := document.Items[0].(*ly.Assignment)
		require.True(t, ok)
		require.Equal(t, "a", assignment.Name)
	})
}

func TestParseScoreBlock(t *testing.T) {
	t.Parallel()

	document := mustParse(t, `\score {
		{ c4 d }
		\header { piece = "I" }
		\layout { indent = 0 }
		\midi { }
	}`)
	require.Len(t, document.Items, 1)
	score, ok := document.Items[0].(*ly.ScoreBlock)
	require.True(t, ok)
	require.Len(t, score.Items, 4)
	require.IsType(t, &ly.MusicItem{}, score.Items[0])
	header, ok := score.Items[1].(*ly.HeaderBlock)
	require.True(t, ok)
	require.Len(t, header.Fields, 1)
	require.Equal(t, "piece", header.Fields[0].Name)
	layout, ok := score.Items[2].(*ly.LayoutBlock)
	require.True(t, ok)
	require.Len(t, layout.Body, 1)
	midi, ok := score.Items[3].(*ly.MidiBlock)
	require.True(t, ok)
	require.Empty(t, midi.Body)
}

func TestParseBookBlocks(t *testing.T) {
	t.Parallel()

	document := mustParse(t, `\book {
		\paper { indent = 0 }
		\bookpart {
			\score { { c4 } }
		}
		{ d4 }
	}`)
	book, ok := document.Items[0].(*ly.BookBlock)
	require.True(t, ok)
	require.Len(t, book.Items, 3)
	require.IsType(t, &ly.PaperBlock{}, book.Items[0])
	bookPart, ok := book.Items[1].(*ly.BookPartBlock)
	require.True(t, ok)
	require.Len(t, bookPart.Items, 1)
	require.IsType(t, &ly.ScoreBlock{}, bookPart.Items[0])
	require.IsType(t, &ly.MusicItem{}, book.Items[2])
}

func TestParseLayoutContextBlock(t *testing.T) {
	t.Parallel()

	document := mustParse(t, `\layout {
		indent = 0
		\context {
			\Score
			\remove "Bar_number_engraver"
			\override SpacingSpanner.strict-note-spacing = ##t
		}
	}`)
	layout, ok := document.Items[0].(*ly.LayoutBlock)
	require.True(t, ok)
	require.Len(t, layout.Body, 2)
	contextMod, ok := layout.Body[1].(*ly.ContextModBlock)
	require.True(t, ok)
	require.Len(t, contextMod.Items, 3)
	require.Equal(t, &ly.ContextModRef{Name: "Score"}, contextMod.Items[0])
	require.Equal(t, &ly.ContextModRemove{Name: "Bar_number_engraver"}, contextMod.Items[1])
	override, ok := contextMod.Items[2].(*ly.ContextModOverride)
	require.True(t, ok)
	require.Equal(t, []string{"SpacingSpanner", "strict-note-spacing"}, override.Path.Segments)
}

func TestParseMarkup(t *testing.T) {
	t.Parallel()

	t.Run("toplevel raw", func(t *testing.T) {
		t.Parallel()
		document := mustParse(t, `\markup { \bold Hello }`)
		markup, ok := document.Items[0].(*ly.MarkupExpr)
		require.True(t, ok)
		require.Equal(t, ly.Markup{Raw: "{ \\bold Hello }"}, markup.Markup)
	})

	t.Run("toplevel string", func(t *testing.T) {
		t.Parallel()
		document := mustParse(t, `\markup "Hello"`)
		markup, ok := document.Items[0].(*ly.MarkupExpr)
		require.True(t, ok)
		require.Equal(t, ly.Markup{Text: "Hello"}, markup.Markup)
	})

	t.Run("text script markup", func(t *testing.T) {
		t.Parallel()
		sequential := mustParseMusic(t, `{ c^\markup { \italic espr. } }`).(*ly.Sequential)
		events := sequential.Items[0].(*ly.Note).PostEvents
		require.Len(t, events, 1)
		script, ok := events[0].(*ly.PostTextScript)
		require.True(t, ok)
		require.Equal(t, ly.DirectionUp, script.Direction)
		require.Equal(t, ly.Markup{Raw: "{ \\italic espr. }"}, script.Text)
	})
}

func TestParseMisc(t *testing.T) {
	t.Parallel()

	sequential := mustParseMusic(t, "{ \\autoBeamOff #(display 1) \\melody \\textMark \"x\" }").(*ly.Sequential)
	require.Equal(t, &ly.AutoBeamOff{}, sequential.Items[0])
	require.Equal(t, &ly.SchemeMusic{Raw: "#(display 1)"}, sequential.Items[1])
	require.Equal(t, &ly.Identifier{Name: "melody"}, sequential.Items[2])
	require.Equal(t, &ly.TextMark{Text: ly.Markup{Text: "x"}}, sequential.Items[3])
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{name: "unterminated sequential", input: "{ c4", code: exc.CodeUnexpectedEOF},
		{name: "number in music position", input: "{ 4 }", code: exc.CodeUnexpectedToken},
		{name: "version without string", input: "\\version 4", code: exc.CodeUnexpectedToken},
		{name: "tuplet without fraction", input: "\\tuplet x { c }", code: exc.CodeUnexpectedToken},
		{name: "assignment without value", input: "title =", code: exc.CodeUnexpectedEOF},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(context.Background(), testCase.input)
			require.Error(t, err)
			var multi MultiException
			require.ErrorAs(t, err, &multi)
			require.NotEmpty(t, multi)
			require.Equal(t, testCase.code, multi[0].Code())
		})
	}
}

func TestParseFailsOnLexErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{name: "stray character after music", input: "{ c4 } @", code: exc.CodeLexError},
		{name: "unterminated string after music", input: "{ c4 } \"oops", code: exc.CodeUnexpectedEOF},
		{name: "unterminated block comment after music", input: "{ c4 } %{ oops", code: exc.CodeLexError},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			document, err := Parse(context.Background(), testCase.input)
			require.Error(t, err)
			require.Nil(t, document)
			var multi MultiException
			require.ErrorAs(t, err, &multi)
			require.NotEmpty(t, multi)
			require.Equal(t, testCase.code, multi[0].Code())
		})
	}
}

func TestParseToplevelOctaveCheck(t *testing.T) {
	t.Parallel()

	document := mustParse(t, "c =' d4")
	require.Len(t, document.Items, 2)
	item, ok := document.Items[0].(*ly.MusicItem)
	require.True(t, ok, "expected a music item, got %T", document.Items[0])
	note, ok := item.Music.(*ly.Note)
	require.True(t, ok)
	require.Equal(t, octave(1), note.Pitch.OctaveCheck)

	document = mustParse(t, "a = 4")
	assignment, ok := document.Items[0].(*ly.Assignment)
	require.True(t, ok, "expected an assignment, got %T", document.Items[0])
	require.Equal(t, "a", assignment.Name)
}
