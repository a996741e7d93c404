// tokens.go defines token types for wiki macro calls and Image macro arguments.
package macro

// WikiTokenType represents token types for [[Macro(args)]] syntax.
type WikiTokenType int

const (
	WikiTokenText WikiTokenType = iota // plain text between macro calls
	WikiTokenCall                      // [[Name]] or [[Name(args)]]
)

// WikiToken represents a single token from wiki text tokenization.
type WikiToken struct {
	Type         WikiTokenType
	MacroName    string // lowercase for matching
	OriginalName string // original case for reconstruction
	Args         string // raw text between the parentheses
	HasArgs      bool   // false for [[Name]]
	Text         string // set for Text tokens
	Position     int    // byte offset in original input
	OriginalText string // the full original call text for unknown macro reconstruction
}

// ImageTokenKind distinguishes bare positional values from key=value pairs.
type ImageTokenKind int

const (
	ImageTokenPositional ImageTokenKind = iota // 120px, right, nolink, nofigure
	ImageTokenPair                             // key=value or key="value"
)

func (k ImageTokenKind) String() string {
	if k == ImageTokenPair {
		return "pair"
	}
	return "positional"
}

// ScanPass identifies which scanner pass produced a token.
// Passes are applied in order, so later passes win on overlapping keys.
type ScanPass int

const (
	PassPositional ScanPass = iota + 1
	PassQuotedPair
	PassUnquotedPair
)

// ImageToken is one unit of the Image macro argument language.
type ImageToken struct {
	Kind   ImageTokenKind
	Key    string // lowercased key for pairs, empty for positional tokens
	Value  string // trimmed value; lowercased literal for positional tokens
	Quoted bool   // value came from a quoted literal
	Pass   ScanPass
	Offset int // byte offset of the token in the raw argument string
}
