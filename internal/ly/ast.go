// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ly

// Document is the root AST node for a .ly source: an optional \version
// declaration followed by top-level expressions.
type Document struct {
	Version *Version
	Items   []ToplevelExpression
}

type Version struct {
	Version string
}

// ToplevelExpression is one top-level item in a file: a score, book,
// bookpart, header, paper, layout, midi block, an assignment, a music
// expression, or a markup.
type ToplevelExpression interface {
	toplevelExpression()
}

type ScoreBlock struct {
	Items []ScoreItem
}

type ScoreItem interface {
	scoreItem()
}

type BookBlock struct {
	Items []BookItem
}

type BookItem interface {
	bookItem()
}

type BookPartBlock struct {
	Items []BookPartItem
}

type BookPartItem interface {
	bookPartItem()
}

type HeaderBlock struct {
	Fields []*Assignment
}

type PaperBlock struct {
	Body []*Assignment
}

type LayoutBlock struct {
	Body []LayoutItem
}

type MidiBlock struct {
	Body []LayoutItem
}

// LayoutItem is an entry in a \layout or \midi block: either an
// assignment or a \context { ... } modification block.
type LayoutItem interface {
	layoutItem()
}

type ContextModBlock struct {
	Items []ContextModItem
}

func (*ScoreBlock) toplevelExpression()    {}
func (*BookBlock) toplevelExpression()     {}
func (*BookPartBlock) toplevelExpression() {}
func (*HeaderBlock) toplevelExpression()   {}
func (*PaperBlock) toplevelExpression()    {}
func (*LayoutBlock) toplevelExpression()   {}
func (*MidiBlock) toplevelExpression()     {}
func (*Assignment) toplevelExpression()    {}
func (*MarkupExpr) toplevelExpression()    {}
func (*MarkupList) toplevelExpression()    {}

func (*HeaderBlock) scoreItem() {}
func (*LayoutBlock) scoreItem() {}
func (*MidiBlock) scoreItem()   {}

func (*ScoreBlock) bookItem()    {}
func (*BookPartBlock) bookItem() {}
func (*HeaderBlock) bookItem()   {}
func (*PaperBlock) bookItem()    {}
func (*Assignment) bookItem()    {}

func (*ScoreBlock) bookPartItem()  {}
func (*HeaderBlock) bookPartItem() {}
func (*PaperBlock) bookPartItem()  {}
func (*Assignment) bookPartItem()  {}

func (*Assignment) layoutItem()      {}
func (*ContextModBlock) layoutItem() {}

// Assignment is `name = value`, at top level or inside a block.
type Assignment struct {
	Name  string
	Value AssignmentValue
}

type AssignmentValue interface {
	assignmentValue()
}

type AssignString struct {
	Value string
}

type AssignNumber struct {
	Value float64
}

type AssignMusic struct {
	Music Music
}

// AssignIdentifier is `name = \other`.
type AssignIdentifier struct {
	Name string
}

// AssignScheme is `name = #expr`, the Scheme source kept verbatim.
type AssignScheme struct {
	Raw string
}

type AssignMarkup struct {
	Markup Markup
}

type AssignMarkupList struct {
	Raw string
}

func (*AssignString) assignmentValue()     {}
func (*AssignNumber) assignmentValue()     {}
func (*AssignMusic) assignmentValue()      {}
func (*AssignIdentifier) assignmentValue() {}
func (*AssignScheme) assignmentValue()     {}
func (*AssignMarkup) assignmentValue()     {}
func (*AssignMarkupList) assignmentValue() {}

// Markup is a \markup body. A bare quoted string is stored in Text; any
// structured body is kept as a verbatim source slice in Raw. Exactly one
// of the two fields is populated.
type Markup struct {
	Text string
	Raw  string
}

// MarkupExpr is a \markup expression in toplevel or music position.
type MarkupExpr struct {
	Markup Markup
}

// MarkupList is a \markuplist expression, kept verbatim.
type MarkupList struct {
	Raw string
}

// ContextModItem is one entry in a \with { ... } or \context { ... }
// modification block.
type ContextModItem interface {
	contextModItem()
}

// ContextModRef is `\Name`, pulling in a named context definition.
type ContextModRef struct {
	Name string
}

type ContextModConsists struct {
	Name string
}

type ContextModRemove struct {
	Name string
}

type ContextModAccepts struct {
	Name string
}

type ContextModDenies struct {
	Name string
}

type ContextModAlias struct {
	Name string
}

type ContextModDefaultChild struct {
	Name string
}

type ContextModDescription struct {
	Text string
}

type ContextModName struct {
	Name string
}

type ContextModOverride struct {
	Path  PropertyPath
	Value PropertyValue
}

type ContextModRevert struct {
	Path PropertyPath
}

type ContextModSet struct {
	Path  PropertyPath
	Value PropertyValue
}

type ContextModUnset struct {
	Path PropertyPath
}

func (*ContextModRef) contextModItem()          {}
func (*ContextModConsists) contextModItem()     {}
func (*ContextModRemove) contextModItem()       {}
func (*ContextModAccepts) contextModItem()      {}
func (*ContextModDenies) contextModItem()       {}
func (*ContextModAlias) contextModItem()        {}
func (*ContextModDefaultChild) contextModItem() {}
func (*ContextModDescription) contextModItem()  {}
func (*ContextModName) contextModItem()         {}
func (*ContextModOverride) contextModItem()     {}
func (*ContextModRevert) contextModItem()       {}
func (*ContextModSet) contextModItem()          {}
func (*ContextModUnset) contextModItem()        {}
func (*Assignment) contextModItem()             {}

// PropertyPath is a dotted grob or property path such as
// Staff.NoteHead.color.
type PropertyPath struct {
	Segments []string
}

type PropertyValue interface {
	propertyValue()
}

type PropString struct {
	Value string
}

type PropNumber struct {
	Value float64
}

type PropScheme struct {
	Raw string
}

type PropIdentifier struct {
	Name string
}

func (*PropString) propertyValue()     {}
func (*PropNumber) propertyValue()     {}
func (*PropScheme) propertyValue()     {}
func (*PropIdentifier) propertyValue() {}

// Music is any music expression.
type Music interface {
	music()
}

type Sequential struct {
	Items []Music
}

type Simultaneous struct {
	Items []Music
}

type Note struct {
	Pitch       Pitch
	Duration    *Duration
	PitchedRest bool
	PostEvents  []PostEvent
}

type Chord struct {
	Pitches    []Pitch
	Duration   *Duration
	PostEvents []PostEvent
}

type Rest struct {
	Duration   *Duration
	PostEvents []PostEvent
}

type Skip struct {
	Duration   *Duration
	PostEvents []PostEvent
}

type MultiMeasureRest struct {
	Duration   *Duration
	PostEvents []PostEvent
}

// ChordRepetition is `q`, repeating the last explicit chord.
type ChordRepetition struct {
	Duration   *Duration
	PostEvents []PostEvent
}

// Relative is \relative with an optional reference pitch.
type Relative struct {
	Pitch *Note
	Body  Music
}

type Fixed struct {
	Pitch *Note
	Body  Music
}

type Transpose struct {
	From *Note
	To   *Note
	Body Music
}

type ContextKeyword uint8

const (
	ContextKeywordNew ContextKeyword = iota
	ContextKeywordContext
)

type ContextedMusic struct {
	Keyword     ContextKeyword
	ContextType string
	Name        string
	HasName     bool
	With        []ContextModItem
	Music       Music
}

type ContextChange struct {
	ContextType string
	Name        string
}

type Clef struct {
	Name string
}

type KeySignature struct {
	Pitch Pitch
	Mode  Mode
}

type TimeSignature struct {
	Numerators  []uint32
	Denominator uint32
}

// TempoRange is the bpm part of \tempo: a single value or a lo-hi range.
type TempoRange struct {
	Low   uint32
	High  uint32
	Range bool
}

type Tempo struct {
	Text     *Markup
	Duration *Duration
	BPM      *TempoRange
}

// Mark is \mark: \default when both fields are unset, otherwise a
// rehearsal number or a markup label.
type Mark struct {
	Number *uint32
	Label  *Markup
}

type TextMark struct {
	Text Markup
}

type Tuplet struct {
	Numerator    uint32
	Denominator  uint32
	SpanDuration *Duration
	Body         Music
}

type Grace struct {
	Body Music
}

type Acciaccatura struct {
	Body Music
}

type Appoggiatura struct {
	Body Music
}

type AfterGrace struct {
	Fraction *Fraction
	Main     Music
	Grace    Music
}

type RepeatType uint8

const (
	RepeatTypeVolta RepeatType = iota
	RepeatTypeUnfold
	RepeatTypePercent
	RepeatTypeTremolo
	RepeatTypeSegno
)

var repeatTypeNames = map[RepeatType]string{
	RepeatTypeVolta:   "volta",
	RepeatTypeUnfold:  "unfold",
	RepeatTypePercent: "percent",
	RepeatTypeTremolo: "tremolo",
	RepeatTypeSegno:   "segno",
}

func (t RepeatType) String() string {
	return repeatTypeNames[t]
}

// RepeatTypeFromName maps a \repeat type word to its RepeatType.
func RepeatTypeFromName(name string) (RepeatType, bool) {
	for t, n := range repeatTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

type Repeat struct {
	Type         RepeatType
	Count        uint32
	Body         Music
	Alternatives []Music
}

type BarCheck struct{}

// VoiceSeparator is the \\ divider between voices in a simultaneous
// group.
type VoiceSeparator struct{}

type BarLine struct {
	Type string
}

type LyricMode struct {
	Body Music
}

type AddLyrics struct {
	Music  Music
	Lyrics []Music
}

type LyricsTo struct {
	VoiceID string
	Lyrics  Music
}

type Lyric struct {
	Text       string
	Duration   *Duration
	PostEvents []PostEvent
}

type Override struct {
	Path  PropertyPath
	Value PropertyValue
}

type Revert struct {
	Path PropertyPath
}

type Set struct {
	Path  PropertyPath
	Value PropertyValue
}

type Unset struct {
	Path PropertyPath
}

type Once struct {
	Music Music
}

type AutoBeamOn struct{}

type AutoBeamOff struct{}

// SchemeMusic is a #... Scheme expression in music position, kept
// verbatim.
type SchemeMusic struct {
	Raw string
}

// Identifier is a \name reference to an assignment.
type Identifier struct {
	Name string
}

// ChordMode is \chordmode { ... }: the body reads note names as chord
// roots with :quality suffixes.
type ChordMode struct {
	Body Music
}

// DrumMode is \drummode { ... }: the body reads bare words as
// percussion instrument names.
type DrumMode struct {
	Body Music
}

// FigureMode is \figuremode { ... }: the body reads <...> groups as
// figured bass events.
type FigureMode struct {
	Body Music
}

// ChordModifier is a named chord quality word such as m or dim.
type ChordModifier uint8

const (
	ChordModifierMinor ChordModifier = iota
	ChordModifierMajor
	ChordModifierAugmented
	ChordModifierDiminished
	ChordModifierSuspended
)

var chordModifierNames = map[ChordModifier]string{
	ChordModifierMinor:      "m",
	ChordModifierMajor:      "maj",
	ChordModifierAugmented:  "aug",
	ChordModifierDiminished: "dim",
	ChordModifierSuspended:  "sus",
}

func (m ChordModifier) String() string {
	return chordModifierNames[m]
}

// ChordModifierFromName maps a quality word to its ChordModifier. The
// min spelling canonicalizes to m.
func ChordModifierFromName(name string) (ChordModifier, bool) {
	if name == "min" {
		return ChordModifierMinor, true
	}
	for m, n := range chordModifierNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// StepAlteration raises or lowers a chord step, as in 7+ or 5-.
type StepAlteration uint8

const (
	StepAlterationNatural StepAlteration = iota
	StepAlterationSharp
	StepAlterationFlat
)

func (a StepAlteration) String() string {
	switch a {
	case StepAlterationSharp:
		return "+"
	case StepAlterationFlat:
		return "-"
	}
	return ""
}

type ChordStep struct {
	Number     uint32
	Alteration StepAlteration
}

// ChordQualityItem is one dot-separated item after the colon in a chord
// entry: a named modifier or a numbered step.
type ChordQualityItem interface {
	chordQualityItem()
}

type ChordQualityModifier struct {
	Modifier ChordModifier
}

type ChordQualityStep struct {
	Step ChordStep
}

func (*ChordQualityModifier) chordQualityItem() {}
func (*ChordQualityStep) chordQualityItem()     {}

// ChordEntry is one chord-mode event:
// root [duration] [:quality] [^removals] [/inversion | /+bass].
type ChordEntry struct {
	Root       Pitch
	Duration   *Duration
	Quality    []ChordQualityItem
	Removals   []ChordStep
	Inversion  *Pitch
	Bass       *Pitch
	PostEvents []PostEvent
}

type DrumNote struct {
	Name       string
	Duration   *Duration
	PostEvents []PostEvent
}

type DrumChord struct {
	Names      []string
	Duration   *Duration
	PostEvents []PostEvent
}

// FigureAlteration is the accidental on a bass figure number.
type FigureAlteration uint8

const (
	FigureAlterationNatural FigureAlteration = iota
	FigureAlterationSharp
	FigureAlterationDoubleSharp
	FigureAlterationFlat
	FigureAlterationDoubleFlat
	FigureAlterationForcedNatural
)

func (a FigureAlteration) String() string {
	switch a {
	case FigureAlterationSharp:
		return "+"
	case FigureAlterationDoubleSharp:
		return "++"
	case FigureAlterationFlat:
		return "-"
	case FigureAlterationDoubleFlat:
		return "--"
	case FigureAlterationForcedNatural:
		return "!"
	}
	return ""
}

// FigureModification is a shape mark after a bass figure number:
// \+ (augmented), \! (no continuation), / (diminished), \\ (raised).
type FigureModification uint8

const (
	FigureModificationAugmented FigureModification = iota
	FigureModificationNoContinuation
	FigureModificationDiminished
	FigureModificationAugmentedSlash
)

// BassFigure is one entry in a figure group. A nil Number is the _
// spacer.
type BassFigure struct {
	Number        *uint32
	Alteration    FigureAlteration
	Modifications []FigureModification
	BracketStart  bool
	BracketStop   bool
}

// Figure is a figure group <...> with an optional duration.
type Figure struct {
	Figures  []BassFigure
	Duration *Duration
}

// MusicFunction is \name with its collected arguments; Partial marks a
// \etc partial application.
type MusicFunction struct {
	Name    string
	Args    []FunctionArg
	Partial bool
}

// FunctionArg is one argument collected after a music function name.
type FunctionArg interface {
	functionArg()
}

type ArgMusic struct {
	Music Music
}

type ArgString struct {
	Value string
}

type ArgNumber struct {
	Value float64
}

type ArgScheme struct {
	Raw string
}

type ArgDuration struct {
	Duration Duration
}

type ArgDefault struct{}

// ArgSymbols is a dotted symbol list such as Staff.TimeSignature.
type ArgSymbols struct {
	Segments []string
}

func (*ArgMusic) functionArg()    {}
func (*ArgString) functionArg()   {}
func (*ArgNumber) functionArg()   {}
func (*ArgScheme) functionArg()   {}
func (*ArgDuration) functionArg() {}
func (*ArgDefault) functionArg()  {}
func (*ArgSymbols) functionArg()  {}

func (*Sequential) music()       {}
func (*Simultaneous) music()     {}
func (*Note) music()             {}
func (*Chord) music()            {}
func (*Rest) music()             {}
func (*Skip) music()             {}
func (*MultiMeasureRest) music() {}
func (*ChordRepetition) music()  {}
func (*Relative) music()         {}
func (*Fixed) music()            {}
func (*Transpose) music()        {}
func (*ContextedMusic) music()   {}
func (*ContextChange) music()    {}
func (*Clef) music()             {}
func (*KeySignature) music()     {}
func (*TimeSignature) music()    {}
func (*Tempo) music()            {}
func (*Mark) music()             {}
func (*TextMark) music()         {}
func (*Tuplet) music()           {}
func (*Grace) music()            {}
func (*Acciaccatura) music()     {}
func (*Appoggiatura) music()     {}
func (*AfterGrace) music()       {}
func (*Repeat) music()           {}
func (*BarCheck) music()         {}
func (*VoiceSeparator) music()   {}
func (*BarLine) music()          {}
func (*LyricMode) music()        {}
func (*AddLyrics) music()        {}
func (*LyricsTo) music()         {}
func (*Lyric) music()            {}
func (*Override) music()         {}
func (*Revert) music()           {}
func (*Set) music()              {}
func (*Unset) music()            {}
func (*Once) music()             {}
func (*AutoBeamOn) music()       {}
func (*AutoBeamOff) music()      {}
func (*SchemeMusic) music()      {}
func (*Identifier) music()       {}
func (*MarkupExpr) music()       {}
func (*MarkupList) music()       {}
func (*ChordMode) music()        {}
func (*ChordEntry) music()       {}
func (*DrumMode) music()         {}
func (*DrumNote) music()         {}
func (*DrumChord) music()        {}
func (*FigureMode) music()       {}
func (*Figure) music()           {}
func (*MusicFunction) music()    {}

// MusicItem wraps a music expression where a container interface is
// required (score, book, and bookpart bodies).
type MusicItem struct {
	Music Music
}

func (*MusicItem) toplevelExpression() {}
func (*MusicItem) scoreItem()          {}
func (*MusicItem) bookItem()           {}
func (*MusicItem) bookPartItem()       {}

// Direction is the prefix on a directed post-event.
type Direction uint8

const (
	DirectionNeutral Direction = iota
	DirectionUp
	DirectionDown
)

// ScriptAbbreviation is a one-character articulation shorthand.
type ScriptAbbreviation uint8

const (
	ScriptDot ScriptAbbreviation = iota
	ScriptDash
	ScriptAccent
	ScriptMarcato
	ScriptStopped
	ScriptStaccatissimo
	ScriptPortato
)

// Char returns the source character for the abbreviation.
func (s ScriptAbbreviation) Char() byte {
	switch s {
	case ScriptDot:
		return '.'
	case ScriptDash:
		return '-'
	case ScriptAccent:
		return '>'
	case ScriptMarcato:
		return '^'
	case ScriptStopped:
		return '+'
	case ScriptStaccatissimo:
		return '!'
	case ScriptPortato:
		return '_'
	}
	return '?'
}

// PostEvent is an event attached after a note, chord, rest, or lyric.
type PostEvent interface {
	postEvent()
}

type PostTie struct{}
type PostSlurStart struct{}
type PostSlurEnd struct{}
type PostPhrasingSlurStart struct{}
type PostPhrasingSlurEnd struct{}
type PostBeamStart struct{}
type PostBeamEnd struct{}
type PostCrescendo struct{}
type PostDecrescendo struct{}
type PostHairpinEnd struct{}

type PostDynamic struct {
	Name string
}

type PostArticulation struct {
	Direction Direction
	Script    ScriptAbbreviation
}

type PostNamedArticulation struct {
	Direction Direction
	Name      string
}

type PostFingering struct {
	Direction Direction
	Digit     uint32
}

type PostStringNumber struct {
	Direction Direction
	Number    uint32
}

type PostTextScript struct {
	Direction Direction
	Text      Markup
}

type PostTweak struct {
	Path  PropertyPath
	Value PropertyValue
}

// PostTremolo is `:n`; 0 is the bare `:` placeholder.
type PostTremolo struct {
	Value uint32
}

type PostLyricHyphen struct{}
type PostLyricExtender struct{}

func (*PostTie) postEvent()               {}
func (*PostSlurStart) postEvent()         {}
func (*PostSlurEnd) postEvent()           {}
func (*PostPhrasingSlurStart) postEvent() {}
func (*PostPhrasingSlurEnd) postEvent()   {}
func (*PostBeamStart) postEvent()         {}
func (*PostBeamEnd) postEvent()           {}
func (*PostCrescendo) postEvent()         {}
func (*PostDecrescendo) postEvent()       {}
func (*PostHairpinEnd) postEvent()        {}
func (*PostDynamic) postEvent()           {}
func (*PostArticulation) postEvent()      {}
func (*PostNamedArticulation) postEvent() {}
func (*PostFingering) postEvent()         {}
func (*PostStringNumber) postEvent()      {}
func (*PostTextScript) postEvent()        {}
func (*PostTweak) postEvent()             {}
func (*PostTremolo) postEvent()           {}
func (*PostLyricHyphen) postEvent()       {}
func (*PostLyricExtender) postEvent()     {}

// KnownDynamics is the set of standard dynamic markings.
var KnownDynamics = []string{
	"ppppp", "pppp", "ppp", "pp", "p",
	"mp", "mf",
	"f", "ff", "fff", "ffff", "fffff",
	"fp", "sf", "sff", "sp", "spp", "sfz", "rfz", "n",
}

// IsDynamicMarking reports whether name is a standard dynamic marking.
func IsDynamicMarking(name string) bool {
	for _, d := range KnownDynamics {
		if d == name {
			return true
		}
	}
	return false
}

// KnownOrnaments is the set of named articulations and ornaments that
// attach to notes without a direction prefix.
var KnownOrnaments = map[string]bool{
	"accent": true, "espressivo": true, "marcato": true, "portato": true,
	"staccatissimo": true, "staccato": true, "tenuto": true,
	"prall": true, "prallup": true, "pralldown": true, "upprall": true,
	"downprall": true, "prallprall": true, "prallmordent": true,
	"lineprall": true, "mordent": true, "upmordent": true,
	"downmordent": true, "trill": true, "turn": true, "reverseturn": true,
	"slashturn": true, "haydnturn": true,
	"fermata": true, "shortfermata": true, "longfermata": true,
	"verylongfermata": true, "veryshortfermata": true,
	"upbow": true, "downbow": true, "flageolet": true, "open": true,
	"halfopen": true, "stopped": true, "snappizzicato": true,
	"lheel": true, "rheel": true, "ltoe": true, "rtoe": true,
	"segno": true, "coda": true, "varcoda": true, "thumb": true,
	"signumcongruentiae": true, "accentus": true, "circulus": true,
	"ictus": true, "semicirculus": true,
}

// IsOrnamentOrScript reports whether name is a known named articulation.
func IsOrnamentOrScript(name string) bool {
	return KnownOrnaments[name]
}
