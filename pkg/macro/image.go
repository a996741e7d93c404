package macro

import (
	"context"
	"strings"
)

// ImageMacro embeds an image: [[Image(file, args...)]].
//
// The first comma separated argument is the file specification:
//   - file          attachment of the current page
//   - Page:file     attachment of another page
//   - 123           attachment id
//   - https://...   external image
//
// The remaining arguments are parsed by ParseImageArgs.
type ImageMacro struct {
	locator *Locator
}

// NewImageMacro returns an ImageMacro resolving files through env.
func NewImageMacro(env *Env) *ImageMacro {
	return &ImageMacro{locator: NewLocator(env)}
}

// Render implements Macro. It never returns an error: failures are rendered
// as "(Image(<args>) failed - <reason>)".
func (m *ImageMacro) Render(ctx context.Context, call *Call) (string, error) {
	content := call.Args
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	spec, rest := SplitFileSpec(content)
	if spec == "" {
		return "", nil
	}
	attrs := ParseImageArgs(rest)

	res, err := m.locator.Locate(ctx, spec, call.Page)
	if err != nil {
		return failure("Image", content, err), nil
	}

	return CompileImage(res.File, attrs, res), nil
}

// SplitFileSpec splits raw Image arguments into the file specification and
// the remaining arguments, which keep their leading comma.
func SplitFileSpec(content string) (spec, rest string) {
	i := strings.Index(content, ",")
	if i < 0 {
		return strings.TrimSpace(content), ""
	}
	return strings.TrimSpace(content[:i]), content[i:]
}

// ImageExplanation describes how Image arguments were understood.
type ImageExplanation struct {
	File   string           `json:"file"`
	Tokens []ExplainedToken `json:"tokens"`
	Model  ExplainedModel   `json:"model"`
}

// ExplainedToken is the serializable form of an ImageToken.
type ExplainedToken struct {
	Pass   int    `json:"pass"`
	Kind   string `json:"kind"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value"`
	Quoted bool   `json:"quoted,omitempty"`
	Offset int    `json:"offset"`
}

// ExplainedModel is the serializable form of an AttributeModel.
type ExplainedModel struct {
	Size       string            `json:"size,omitempty"`
	Alignment  string            `json:"alignment,omitempty"`
	Style      string            `json:"style,omitempty"`
	Link       string            `json:"link"`
	LinkTarget string            `json:"linkTarget,omitempty"`
	External   bool              `json:"relExternal,omitempty"`
	Caption    *string           `json:"caption,omitempty"`
	NoFigure   bool              `json:"nofigure,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ExplainImage scans and resolves raw Image arguments without locating the file.
func ExplainImage(content string) *ImageExplanation {
	spec, rest := SplitFileSpec(content)
	tokens := ScanImageArgs(rest)
	m := ResolveImageAttrs(tokens)

	out := &ImageExplanation{File: spec, Tokens: make([]ExplainedToken, 0, len(tokens))}
	for _, t := range tokens {
		out.Tokens = append(out.Tokens, ExplainedToken{
			Pass:   int(t.Pass),
			Kind:   t.Kind.String(),
			Key:    t.Key,
			Value:  t.Value,
			Quoted: t.Quoted,
			Offset: t.Offset,
		})
	}

	em := ExplainedModel{
		Alignment:  string(m.Alignment),
		Style:      m.Style(),
		Link:       m.Link.String(),
		LinkTarget: m.LinkTarget,
		External:   m.RelExternal,
		NoFigure:   m.NoFigure,
	}
	if m.Size != nil {
		em.Size = m.Size.String()
	}
	if m.HasCaption {
		caption := m.Caption
		em.Caption = &caption
	}
	if m.HTMLAttrs.Len() > 0 {
		em.Attributes = make(map[string]string, m.HTMLAttrs.Len())
		for _, k := range m.HTMLAttrs.Keys() {
			em.Attributes[k], _ = m.HTMLAttrs.Get(k)
		}
	}
	out.Model = em
	return out
}
