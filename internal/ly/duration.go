// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ly

// Fraction is an n/m pair used by duration multipliers and \afterGrace.
type Fraction struct {
	Num uint32
	Den uint32
}

// Duration is a written duration: a base note value, augmentation dots,
// and any *n/m scaling factors in source order. A nil *Duration on an
// event means the duration is inherited from the previous event.
type Duration struct {
	// Base is the denominator of the written note value: 4 for a
	// quarter, 8 for an eighth, and so on.
	Base uint32
	Dots uint8
	// Multipliers holds each *n/m factor; *n alone is stored as n/1.
	Multipliers []Fraction
}

// ValidBase reports whether the base is a power of two between 1 and
// 128, the set of note values LilyPond accepts in plain digit form.
func (d *Duration) ValidBase() bool {
	b := d.Base
	return b >= 1 && b <= 128 && b&(b-1) == 0
}
