// expander.go expands macro calls in wiki text to HTML.
package macro

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// SegmentType indicates whether a segment is text or an expanded macro.
type SegmentType int

const (
	SegmentText  SegmentType = iota // plain text/HTML content
	SegmentMacro                    // expanded macro call
)

// Segment represents either text content or an expanded macro call.
type Segment struct {
	Type   SegmentType
	Text   string // set when Type == SegmentText
	Call   *Call  // set when Type == SegmentMacro
	Output string // rendered HTML when Type == SegmentMacro
}

// ExpandResult contains the expanded output: a sequence of segments
// that alternate between text content and expanded macros.
type ExpandResult struct {
	Segments []Segment
	Warnings []string // any warnings generated during expansion
}

// AddTextSegment appends a text segment, merging with previous text if possible.
func (r *ExpandResult) AddTextSegment(text string) {
	if text == "" {
		return
	}
	// Merge adjacent text segments
	if len(r.Segments) > 0 && r.Segments[len(r.Segments)-1].Type == SegmentText {
		r.Segments[len(r.Segments)-1].Text += text
		return
	}
	r.Segments = append(r.Segments, Segment{
		Type: SegmentText,
		Text: text,
	})
}

// AddMacroSegment appends an expanded macro segment.
func (r *ExpandResult) AddMacroSegment(call *Call, output string) {
	r.Segments = append(r.Segments, Segment{
		Type:   SegmentMacro,
		Call:   call,
		Output: output,
	})
}

// AddWarning logs a warning and stores it in the result.
func (r *ExpandResult) AddWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Warn().Msg(msg)
}

// HTML joins all segments into the final document.
func (r *ExpandResult) HTML() string {
	var sb strings.Builder
	for _, seg := range r.Segments {
		if seg.Type == SegmentMacro {
			sb.WriteString(seg.Output)
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// Calls returns all expanded macro calls.
func (r *ExpandResult) Calls() []*Call {
	var calls []*Call
	for _, seg := range r.Segments {
		if seg.Type == SegmentMacro && seg.Call != nil {
			calls = append(calls, seg.Call)
		}
	}
	return calls
}

// Expander renders the macro calls of a wiki page.
type Expander struct {
	env *Env
}

// NewExpander returns an Expander rendering against env.
func NewExpander(env *Env) *Expander {
	return &Expander{env: env}
}

// Expand renders every macro call in input for page. Each call gets its own
// macro instance; stateful macros share a Session that lives for this call
// only. Unknown macros are kept as text.
func (e *Expander) Expand(ctx context.Context, input string, page PageContext) (*ExpandResult, error) {
	tokens, err := TokenizeWiki(input)
	if err != nil {
		return nil, err
	}

	result := &ExpandResult{}
	session := NewSession()
	defer session.Reset()

	for _, token := range tokens {
		switch token.Type {
		case WikiTokenText:
			result.AddTextSegment(token.Text)

		case WikiTokenCall:
			mt, known := LookupMacro(token.MacroName)
			if !known {
				result.AddWarning("unknown macro: %s", token.OriginalName)
				result.AddTextSegment(token.OriginalText)
				continue
			}

			call := &Call{
				Name:    mt.Title,
				Args:    token.Args,
				HasArgs: token.HasArgs,
				Page:    page,
			}
			out, err := mt.New(e.env, session).Render(ctx, call)
			if err != nil {
				result.AddWarning("%s macro failed: %v", mt.Title, err)
				out = diagnostic(mt.Title, token.Args, err.Error())
			}
			result.AddMacroSegment(call, out)
		}
	}

	return result, nil
}

// RenderMacro renders a single call outside of a page expansion.
func (e *Expander) RenderMacro(ctx context.Context, name, args string, page PageContext) (string, error) {
	mt, ok := LookupMacro(name)
	if !ok {
		return "", fmt.Errorf("unknown macro: %s", name)
	}
	call := &Call{Name: mt.Title, Args: args, HasArgs: args != "", Page: page}
	return mt.New(e.env, NewSession()).Render(ctx, call)
}
