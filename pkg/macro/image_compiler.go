// image_compiler.go renders a parsed Image macro to HTML.
package macro

import (
	"html"
	"strings"
)

// attributes never emitted on the <img> element
var compilerSkipAttrs = map[string]bool{
	"href":  true,
	"rel":   true,
	"desc":  true,
	"style": true,
	"alt":   true, // emitted first, see CompileImage
}

// CompileImage renders the figure for file:
//
//	<span class="figure" style="..."><a rel="lightbox" href="..."><img src="..." alt="..." /></a><span class="figcaption">...</span></span>
//
// The anchor is omitted when the model has no link, the figure class when
// nofigure was given, and the caption when there is no description.
// All attribute values and the caption are HTML escaped.
func CompileImage(file string, m *AttributeModel, res *ResolvedResource) string {
	caption := m.Caption
	if caption == "" && res != nil {
		caption = res.Description
	}

	alt, _ := m.HTMLAttrs.Get("alt")
	if alt == "" {
		alt = caption
	}
	if alt == "" {
		alt = file
	}

	src := file
	if res != nil && res.DisplayLink != "" {
		src = res.DisplayLink
	}

	var img strings.Builder
	img.WriteString(`<img src="`)
	img.WriteString(html.EscapeString(src))
	img.WriteString(`"`)
	writeAttr(&img, "alt", alt)
	if _, ok := m.HTMLAttrs.Get("width"); !ok && m.Size != nil {
		if px, ok := m.Size.Pixels(); ok {
			writeAttr(&img, "width", px)
		}
	}
	for _, k := range m.HTMLAttrs.Keys() {
		if compilerSkipAttrs[k] {
			continue
		}
		v, _ := m.HTMLAttrs.Get(k)
		writeAttr(&img, k, v)
	}
	img.WriteString(` />`)

	var sb strings.Builder
	sb.WriteString(`<span`)
	if !m.NoFigure {
		sb.WriteString(` class="figure"`)
	}
	if style := m.Style(); style != "" {
		sb.WriteString(` style="`)
		sb.WriteString(html.EscapeString(style))
		sb.WriteString(`"`)
	}
	sb.WriteString(`>`)

	if m.Link == LinkNone {
		sb.WriteString(img.String())
	} else {
		href := src
		if (m.Link == LinkExternal || m.Link == LinkInternal) && m.LinkTarget != "" {
			href = m.LinkTarget
		}
		rel := "lightbox"
		if m.RelExternal {
			rel = "external"
		}
		sb.WriteString(`<a rel="`)
		sb.WriteString(rel)
		sb.WriteString(`" href="`)
		sb.WriteString(html.EscapeString(href))
		sb.WriteString(`">`)
		sb.WriteString(img.String())
		sb.WriteString(`</a>`)
	}

	if caption != "" {
		sb.WriteString(`<span class="figcaption">`)
		sb.WriteString(html.EscapeString(caption))
		sb.WriteString(`</span>`)
	}
	sb.WriteString(`</span>`)

	return sb.String()
}

// writeAttr appends ` key="value"`, skipping empty values.
func writeAttr(sb *strings.Builder, key, value string) {
	value = strings.Trim(value, `"`)
	if value == "" {
		return
	}
	sb.WriteString(` `)
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`"`)
}
