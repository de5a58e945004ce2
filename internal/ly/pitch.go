// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ly

import "strings"

// Pitch is a note name, accidental alteration, and octave marks, using
// the Dutch naming convention (c d e f g a b with is/es suffixes).
//
// In relative mode the octave marks are relative to the previous pitch;
// in absolute and fixed mode they are absolute (c = the octave below
// middle C).
type Pitch struct {
	// Step is the base note letter, 'a' through 'g'.
	Step byte
	// Alter is the accidental in half steps: 1 = sharp, -1 = flat,
	// 0.5 = quarter sharp, and so on.
	Alter float32
	// Octave counts marks: positive for ', negative for ,.
	Octave int8
	// ForceAccidental is the ! suffix.
	ForceAccidental bool
	// Cautionary is the ? suffix.
	Cautionary bool
	// OctaveCheck is the =' style suffix when present.
	OctaveCheck *int8
}

var stepOrder = [7]byte{'c', 'd', 'e', 'f', 'g', 'a', 'b'}

var stepSemitones = [7]int32{0, 2, 4, 5, 7, 9, 11}

func stepIndex(step byte) int32 {
	for i, s := range stepOrder {
		if s == step {
			return int32(i)
		}
	}
	return 0
}

// ParsePitch parses a Dutch note name into its step and alteration.
func ParsePitch(name string) (step byte, alter float32, ok bool) {
	if name == "" {
		return 0, 0, false
	}
	step = name[0]
	if step < 'a' || step > 'g' {
		return 0, 0, false
	}
	suffix := name[1:]
	switch suffix {
	case "":
		alter = 0
	case "is":
		alter = 1
	case "isis":
		alter = 2
	case "es":
		alter = -1
	case "eses":
		alter = -2
	case "s":
		// Dutch irregulars: as and es.
		if step != 'a' && step != 'e' {
			return 0, 0, false
		}
		alter = -1
	case "ses":
		if step != 'a' && step != 'e' {
			return 0, 0, false
		}
		alter = -2
	case "ih":
		alter = 0.5
	case "isih":
		alter = 1.5
	case "eh":
		alter = -0.5
	case "eseh":
		alter = -1.5
	default:
		return 0, 0, false
	}
	return step, alter, true
}

// IsNoteName reports whether word spells a Dutch note name.
func IsNoteName(word string) bool {
	_, _, ok := ParsePitch(word)
	return ok
}

// NoteName renders the step and alteration in canonical Dutch spelling.
// Irregular flat names normalize: as becomes aes, es becomes ees.
func (p Pitch) NoteName() string {
	return string(p.Step) + alterSuffix(p.Alter)
}

func alterSuffix(alter float32) string {
	switch int32(alter * 2) {
	case 0:
		return ""
	case 2:
		return "is"
	case 4:
		return "isis"
	case -2:
		return "es"
	case -4:
		return "eses"
	case 1:
		return "ih"
	case 3:
		return "isih"
	case -1:
		return "eh"
	case -3:
		return "eseh"
	}
	return ""
}

// OctaveMarks renders the octave as ' or , characters.
func (p Pitch) OctaveMarks() string {
	if p.Octave > 0 {
		return strings.Repeat("'", int(p.Octave))
	}
	if p.Octave < 0 {
		return strings.Repeat(",", int(-p.Octave))
	}
	return ""
}

// AbsoluteOctave converts mark counting to absolute octaves, where the
// unmarked c is octave 3 and c' is middle C (octave 4).
func (p Pitch) AbsoluteOctave() int8 {
	return 3 + p.Octave
}

// ResolveRelative places the pitch in the octave closest to the
// reference (within a fourth), as LilyPond relative mode does, then
// applies the pitch's own octave marks on top. The reference octave
// uses marks counting.
func (p Pitch) ResolveRelative(refStep byte, refOct int8) Pitch {
	refAbs := int32(3) + int32(refOct)
	refIdx := stepIndex(refStep)
	myIdx := stepIndex(p.Step)

	stepDiff := myIdx - refIdx
	if stepDiff > 3 {
		stepDiff -= 7
	} else if stepDiff < -3 {
		stepDiff += 7
	}

	targetIdx := refIdx + stepDiff
	baseAbs := refAbs
	if targetIdx < 0 {
		baseAbs--
	} else if targetIdx >= 7 {
		baseAbs++
	}

	finalAbs := baseAbs + int32(p.Octave)
	out := p
	out.Octave = int8(finalAbs - 3)
	return out
}

// RelativeMarks is the inverse of ResolveRelative: the octave marks an
// absolute pitch needs when written after the given reference in
// relative mode.
func (p Pitch) RelativeMarks(refStep byte, refOct int8) int8 {
	refAbs := int32(3) + int32(refOct)
	refIdx := stepIndex(refStep)
	myIdx := stepIndex(p.Step)

	stepDiff := myIdx - refIdx
	if stepDiff > 3 {
		stepDiff -= 7
	} else if stepDiff < -3 {
		stepDiff += 7
	}

	targetIdx := refIdx + stepDiff
	baseAbs := refAbs
	if targetIdx < 0 {
		baseAbs--
	} else if targetIdx >= 7 {
		baseAbs++
	}

	return int8(int32(p.AbsoluteOctave()) - baseAbs)
}

// Transpose shifts the pitch by the interval between from and to,
// keeping the diatonic spelling of the interval.
func (p Pitch) Transpose(from, to Pitch) Pitch {
	// All arithmetic is in half semitone units so that quarter tone
	// alterations stay exact.
	fromSemi := stepSemitones[stepIndex(from.Step)]*2 + int32(from.Alter*2)
	toSemi := stepSemitones[stepIndex(to.Step)]*2 + int32(to.Alter*2)
	fromStepIdx := stepIndex(from.Step)
	toStepIdx := stepIndex(to.Step)

	stepInterval := toStepIdx - fromStepIdx
	semiInterval := (toSemi - fromSemi) +
		(int32(to.AbsoluteOctave())-int32(from.AbsoluteOctave()))*24

	myStepIdx := stepIndex(p.Step)
	rawNewIdx := myStepIdx + stepInterval
	newStepIdx := ((rawNewIdx % 7) + 7) % 7
	newStep := stepOrder[newStepIdx]
	octaveFromStep := (rawNewIdx - newStepIdx) / 7

	mySemi := stepSemitones[myStepIdx]*2 + int32(p.Alter*2) + int32(p.AbsoluteOctave())*24
	expectedSemi := mySemi + semiInterval
	newNaturalSemi := stepSemitones[newStepIdx]*2 + (int32(p.AbsoluteOctave())+octaveFromStep)*24
	newAlter := float32(expectedSemi-newNaturalSemi) / 2

	newAbsOct := (expectedSemi - stepSemitones[newStepIdx]*2 - int32(newAlter*2)) / 24

	out := p
	out.Step = newStep
	out.Alter = newAlter
	out.Octave = int8(newAbsOct - 3)
	return out
}

// Untranspose reverses Transpose for the same interval.
func (p Pitch) Untranspose(from, to Pitch) Pitch {
	return p.Transpose(to, from)
}

// Mode is a key signature mode.
type Mode uint8

const (
	ModeMajor Mode = iota
	ModeMinor
	ModeDorian
	ModePhrygian
	ModeLydian
	ModeMixolydian
	ModeAeolian
	ModeLocrian
	ModeIonian
)

var modeNames = map[Mode]string{
	ModeMajor:      "major",
	ModeMinor:      "minor",
	ModeDorian:     "dorian",
	ModePhrygian:   "phrygian",
	ModeLydian:     "lydian",
	ModeMixolydian: "mixolydian",
	ModeAeolian:    "aeolian",
	ModeLocrian:    "locrian",
	ModeIonian:     "ionian",
}

func (m Mode) String() string {
	return modeNames[m]
}

// ModeFromName maps a \mode word to its Mode.
func ModeFromName(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}
