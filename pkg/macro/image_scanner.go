// image_scanner.go implements the Image macro argument scanner.
package macro

import (
	"regexp"
	"strings"
)

// imageAttrKeys is the closed set of keys recognized in key=value pairs.
// Pairs with any other key are ignored.
const imageAttrKeys = `alt|altimage|desc|title|width|height|align|border|longdesc|class|id|usemap|link`

var (
	// Matches a bare keyword or size between delimiters: ", right," / " 120px" / ",50%"
	positionalPattern = regexp.MustCompile(`(?i)[, ](left|right|top|center|bottom|nofigure|nolink|[0-9]+(?:px|%|em)?)(?:[, ]|$)`)
	// Matches key="value, with, commas" or key='value'
	quotedPairPattern = regexp.MustCompile(`(?i)[, ](` + imageAttrKeys + `)=(?:"([^"]*)"|'([^']*)')`)
	// Matches key=value up to the next comma or end of input
	unquotedPairPattern = regexp.MustCompile(`(?i)[, ](` + imageAttrKeys + `)=([^"',]*)(?:[, ]|$)`)
)

// ScanImageArgs splits the Image macro arguments that follow the file
// specifier into tokens.
//
// Three independent passes run over the same input: positional values,
// quoted pairs, then unquoted pairs. Tokens are returned in pass order and,
// within a pass, in input order, so folding them left to right lets later
// passes overwrite earlier ones.
//
// A delimiter may be shared by adjacent tokens, so "left,120px" yields both.
// The start of input counts as a delimiter.
func ScanImageArgs(raw string) []ImageToken {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	// Prefix a delimiter so the first argument does not need one.
	s := "," + raw

	var tokens []ImageToken

	scanPass(positionalPattern, s, 3, func(m []int) {
		tokens = append(tokens, ImageToken{
			Kind:   ImageTokenPositional,
			Value:  strings.ToLower(strings.TrimSpace(s[m[2]:m[3]])),
			Pass:   PassPositional,
			Offset: m[2] - 1,
		})
	})

	scanPass(quotedPairPattern, s, 1, func(m []int) {
		value := ""
		switch {
		case m[4] >= 0:
			value = s[m[4]:m[5]]
		case m[6] >= 0:
			value = s[m[6]:m[7]]
		}
		tokens = append(tokens, ImageToken{
			Kind:   ImageTokenPair,
			Key:    strings.ToLower(strings.TrimSpace(s[m[2]:m[3]])),
			Value:  strings.TrimSpace(value),
			Quoted: true,
			Pass:   PassQuotedPair,
			Offset: m[2] - 1,
		})
	})

	scanPass(unquotedPairPattern, s, 5, func(m []int) {
		tokens = append(tokens, ImageToken{
			Kind:   ImageTokenPair,
			Key:    strings.ToLower(strings.TrimSpace(s[m[2]:m[3]])),
			Value:  strings.TrimSpace(s[m[4]:m[5]]),
			Pass:   PassUnquotedPair,
			Offset: m[2] - 1,
		})
	})

	return tokens
}

// scanPass calls fn for every match of re in s. Submatch indexes passed to fn
// are absolute offsets into s. Scanning resumes at the end index stored in
// m[resume] (1 resumes after the whole match), which lets the trailing
// delimiter of one match act as the leading delimiter of the next.
func scanPass(re *regexp.Regexp, s string, resume int, fn func(m []int)) {
	pos := 0
	for pos < len(s) {
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			return
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		fn(loc)

		next := loc[resume]
		if next <= pos {
			next = loc[1]
		}
		pos = next
	}
}
