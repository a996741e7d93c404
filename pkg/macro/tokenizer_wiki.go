// tokenizer_wiki.go implements tokenization for [[Macro(args)]] wiki syntax.
package macro

import (
	"fmt"
	"strings"
)

// TokenizeWiki scans input for wiki macro calls and returns a token stream.
// Recognized forms:
//   - [[Name]]       - call without arguments
//   - [[Name(args)]] - call with raw arguments, which end at the first ")]]"
//
// Text between calls is returned as WikiTokenText tokens.
// Unknown macro names are still tokenized (validation happens in the expander).
func TokenizeWiki(input string) ([]WikiToken, error) {
	var tokens []WikiToken
	pos := 0
	textStart := 0

	for pos < len(input) {
		// Look for opening brackets
		if strings.HasPrefix(input[pos:], "[[") {
			token, endPos, err := parseWikiCall(input, pos)
			if err != nil {
				// Not a valid call - treat '[' as text
				pos++
				continue
			}

			// Emit any accumulated text before this call
			if pos > textStart {
				tokens = append(tokens, WikiToken{
					Type:     WikiTokenText,
					Text:     input[textStart:pos],
					Position: textStart,
				})
			}

			tokens = append(tokens, token)
			pos = endPos
			textStart = pos
		} else {
			pos++
		}
	}

	// Emit any remaining text
	if textStart < len(input) {
		tokens = append(tokens, WikiToken{
			Type:     WikiTokenText,
			Text:     input[textStart:],
			Position: textStart,
		})
	}

	return tokens, nil
}

// parseWikiCall attempts to parse a macro call starting at pos.
// Returns the token, the position after the call, and any error.
func parseWikiCall(input string, pos int) (WikiToken, int, error) {
	if !strings.HasPrefix(input[pos:], "[[") {
		return WikiToken{}, pos, fmt.Errorf("expected '[['")
	}

	startPos := pos
	pos += 2 // skip '[['

	// Parse macro name
	nameStart := pos
	for pos < len(input) && isValidMacroNameChar(rune(input[pos])) {
		pos++
	}
	if pos == nameStart {
		return WikiToken{}, startPos, fmt.Errorf("empty macro name")
	}
	name := input[nameStart:pos]

	// [[Name]]
	if strings.HasPrefix(input[pos:], "]]") {
		pos += 2
		return WikiToken{
			Type:         WikiTokenCall,
			MacroName:    strings.ToLower(name),
			OriginalName: name,
			OriginalText: input[startPos:pos],
			Position:     startPos,
		}, pos, nil
	}

	if pos >= len(input) || input[pos] != '(' {
		return WikiToken{}, startPos, fmt.Errorf("expected '(' or ']]' after macro name")
	}
	pos++ // skip '('

	end := strings.Index(input[pos:], ")]]")
	if end < 0 {
		return WikiToken{}, startPos, fmt.Errorf("unclosed macro call")
	}
	args := input[pos : pos+end]
	pos += end + 3

	return WikiToken{
		Type:         WikiTokenCall,
		MacroName:    strings.ToLower(name),
		OriginalName: name,
		Args:         args,
		HasArgs:      true,
		OriginalText: input[startPos:pos],
		Position:     startPos,
	}, pos, nil
}

// isValidMacroNameChar returns true if r is valid in a macro name.
func isValidMacroNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
