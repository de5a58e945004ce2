// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package ly

// KnownDrumPitches is the set of percussion instrument names accepted
// in \drummode bodies, long forms and their abbreviations.
var KnownDrumPitches = map[string]bool{
	"acousticbassdrum": true, "bassdrum": true,
	"hisidestick": true, "sidestick": true, "losidestick": true,
	"acousticsnare": true, "snare": true, "electricsnare": true,
	"handclap": true,
	"lowfloortom": true, "highfloortom": true,
	"lowtom": true, "lowmidtom": true, "himidtom": true, "hightom": true,
	"closedhihat": true, "hihat": true, "pedalhihat": true,
	"openhihat": true, "halfopenhihat": true,
	"crashcymbala": true, "crashcymbal": true, "crashcymbalb": true,
	"ridecymbala": true, "ridecymbal": true, "ridecymbalb": true,
	"chinesecymbal": true, "splashcymbal": true, "ridebell": true,
	"tambourine": true, "cowbell": true, "vibraslap": true,
	"mutehibongo": true, "hibongo": true, "openhibongo": true,
	"mutelobongo": true, "lobongo": true, "openlobongo": true,
	"mutehiconga": true, "hiconga": true, "openhiconga": true,
	"muteloconga": true, "loconga": true, "openloconga": true,
	"hitimbale": true, "lotimbale": true,
	"hiagogo": true, "loagogo": true,
	"cabasa": true, "maracas": true,
	"shortwhistle": true, "longwhistle": true,
	"shortguiro": true, "longguiro": true, "guiro": true,
	"claves": true,
	"hiwoodblock": true, "lowoodblock": true,
	"mutecuica": true, "opencuica": true,
	"mutetriangle": true, "triangle": true, "opentriangle": true,

	"bda": true, "bd": true,
	"ssh": true, "ss": true, "ssl": true,
	"sna": true, "sn": true, "sne": true,
	"hc": true,
	"tomfl": true, "tomfh": true,
	"toml": true, "tomml": true, "tommh": true, "tomh": true,
	"hhc": true, "hh": true, "hhp": true, "hho": true, "hhho": true,
	"cymca": true, "cymc": true, "cymcb": true,
	"cymra": true, "cymr": true, "cymrb": true,
	"cymch": true, "cyms": true, "rb": true,
	"tamb": true, "cb": true, "vibs": true,
	"bohm": true, "boh": true, "boho": true,
	"bolm": true, "bol": true, "bolo": true,
	"cghm": true, "cgh": true, "cgho": true,
	"cglm": true, "cgl": true, "cglo": true,
	"timh": true, "timl": true,
	"agh": true, "agl": true,
	"cab": true, "mar": true,
	"whs": true, "whl": true,
	"guis": true, "guil": true, "gui": true,
	"cl": true,
	"wbh": true, "wbl": true,
	"cuim": true, "cuio": true,
	"trim": true, "tri": true, "trio": true,
}

// IsDrumPitch reports whether name is a known percussion instrument
// name.
func IsDrumPitch(name string) bool {
	return KnownDrumPitches[name]
}
