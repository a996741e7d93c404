package macro

import (
	"context"
	"strconv"
	"strings"
)

// footnote is one collected note and the ids of the references pointing at it.
type footnote struct {
	stub    string
	content string
	refs    []string
}

// FootnoteSession collects footnotes for one page render. It is owned by the
// caller and must be Reset (or discarded) between pages.
type FootnoteSession struct {
	notes []*footnote
	count int
}

// NewFootnoteSession returns an empty session.
func NewFootnoteSession() *FootnoteSession {
	return &FootnoteSession{}
}

// Reset discards every collected footnote.
func (s *FootnoteSession) Reset() {
	s.notes = nil
	s.count = 0
}

// Len returns the number of distinct footnotes collected.
func (s *FootnoteSession) Len() int {
	return len(s.notes)
}

// Reference records a reference to the footnote labelled stub and returns
// the footnote number and the id of the reference anchor. A new footnote is
// created with body note unless stub was seen before.
func (s *FootnoteSession) Reference(stub, note string) (num int, refID string) {
	s.count++
	refID = "fndef-" + strconv.Itoa(s.count)

	for i, fn := range s.notes {
		if fn.stub == stub {
			fn.refs = append(fn.refs, refID)
			return i + 1, refID
		}
	}

	s.notes = append(s.notes, &footnote{
		stub:    stub,
		content: InlineMarkdown(note),
		refs:    []string{refID},
	})
	return len(s.notes), refID
}

// List renders the collected footnotes as an ordered list and resets the session.
func (s *FootnoteSession) List() string {
	var sb strings.Builder
	sb.WriteString(`<ol class="footnotes">`)
	for i, fn := range s.notes {
		sb.WriteString(`<li>`)
		switch {
		case len(fn.refs) > 1:
			sb.WriteString(`^ `)
			for j, ref := range fn.refs {
				sb.WriteString(`<sup class="tex2jax_ignore"><a href="#`)
				sb.WriteString(ref)
				sb.WriteString(`">`)
				sb.WriteString(backrefLabel(j))
				sb.WriteString(`</a></sup> `)
			}
		case len(fn.refs) == 1:
			sb.WriteString(`<a href="#`)
			sb.WriteString(fn.refs[0])
			sb.WriteString(`">^</a> `)
		}
		sb.WriteString(`<span id="fnref-`)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(`"></span>`)
		sb.WriteString(fn.content)
		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ol>`)

	s.Reset()
	return sb.String()
}

// backrefLabel returns a, b, ..., z, aa, ab, ... for the n-th back reference.
func backrefLabel(n int) string {
	label := ""
	for n >= 0 {
		label = string(rune('a'+n%26)) + label
		n = n/26 - 1
	}
	return label
}

// FootnoteMacro adds footnote references and lists collected footnotes:
//
//	[[Footnote(I am a footnote)]]
//	[[Footnote(label | I am another footnote)]]
//	[[Footnote(label)]]
//	[[Footnote]]
type FootnoteMacro struct {
	session *FootnoteSession
}

// NewFootnoteMacro returns a FootnoteMacro collecting into session.
func NewFootnoteMacro(session *FootnoteSession) *FootnoteMacro {
	if session == nil {
		session = NewFootnoteSession()
	}
	return &FootnoteMacro{session: session}
}

// Render implements Macro.
func (m *FootnoteMacro) Render(_ context.Context, call *Call) (string, error) {
	if strings.TrimSpace(call.Args) == "" {
		return m.session.List(), nil
	}

	stub, note, found := strings.Cut(call.Args, "|")
	stub = strings.TrimSpace(stub)
	note = strings.TrimSpace(note)
	if !found {
		note = stub
	}

	num, refID := m.session.Reference(stub, note)
	n := strconv.Itoa(num)
	return `<sup id="` + refID + `" class="tex2jax_ignore"><a href="#fnref-` + n + `">&#91;` + n + `&#93;</a></sup>`, nil
}
