package exc

// Fatal and file handling codes.
const (
	CodeUnknownFatal                  = "L0000"
	CodeFileNotFound                  = "L0001"
	CodeUnsuportedFileSystemOperation = "L0002"
	CodePermissionDenied              = "L0003"
	CodeUnsupportedFileFormat         = "L0004"
)

// Lexer and parser codes. Parsing is fail fast: the first reported
// parse code aborts the parse.
const (
	CodeLexError        = "P0001"
	CodeUnexpectedToken = "P0002"
	CodeUnexpectedEOF   = "P0003"
	CodeInvalidNoteName = "P0004"
	CodeInvalidNumber   = "P0005"
)

// Validation codes. Validation accumulates: every reported code shows
// up in the final set.
const (
	CodeScoreNoMusic             = "V0001"
	CodeInvalidDurationBase      = "V0002"
	CodeExcessiveDots            = "V0003"
	CodeZeroMultiplierDenom      = "V0004"
	CodeUnknownContextType       = "V0005"
	CodeUnknownClefName          = "V0006"
	CodeInvalidTimeNumerator     = "V0007"
	CodeInvalidTimeDenominator   = "V0008"
	CodeEmptyChord               = "V0009"
	CodeUnmatchedSlur            = "V0010"
	CodeUnmatchedPhrasingSlur    = "V0011"
	CodeUnmatchedBeam            = "V0012"
	CodeUnmatchedHairpin         = "V0013"
	CodeUnknownDynamic           = "V0014"
	CodeInvalidFingeringDigit    = "V0015"
	CodeInvalidStringNumber      = "V0016"
	CodeInvalidTremoloType       = "V0017"
	CodeInvalidTupletFraction    = "V0018"
	CodeEmptyGraceBody           = "V0019"
	CodeInvalidAfterGraceFrac    = "V0020"
	CodeInvalidRepeatCount       = "V0021"
	CodeEmptyBarLineType         = "V0022"
	CodeEmptyLyricSyllable       = "V0023"
	CodeEmptyTempo               = "V0024"
	CodeInvalidTempoBpm          = "V0025"
	CodeInvalidTempoRange        = "V0026"
	CodeInvalidChordStep         = "V0027"
	CodeInvalidFigureNumber      = "V0028"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
