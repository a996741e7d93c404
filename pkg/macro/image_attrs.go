// image_attrs.go defines the normalized attribute model produced by parsing Image macro arguments.
package macro

import "strings"

// Alignment is an image alignment keyword.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignTop    Alignment = "top"
	AlignBottom Alignment = "bottom"
	AlignCenter Alignment = "center"
)

// ParseAlignment returns the Alignment for a keyword, ignoring case and surrounding space.
func ParseAlignment(s string) (Alignment, bool) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignLeft, AlignRight, AlignTop, AlignBottom, AlignCenter:
		return a, true
	}
	return AlignNone, false
}

// LinkMode controls what the rendered image links to.
type LinkMode int

const (
	LinkDefault  LinkMode = iota // link to the resolved image itself
	LinkNone                     // no anchor
	LinkExternal                 // absolute URL given with link=
	LinkInternal                 // non-URL target given with link=, routed
)

func (m LinkMode) String() string {
	switch m {
	case LinkNone:
		return "none"
	case LinkExternal:
		return "external"
	case LinkInternal:
		return "internal"
	default:
		return "default"
	}
}

// Length is an image size. An empty Unit means pixels.
type Length struct {
	Value string
	Unit  string
}

// String renders the length as CSS, defaulting the unit to px.
func (l Length) String() string {
	if l.Unit == "" {
		return l.Value + "px"
	}
	return l.Value + l.Unit
}

// Pixels reports the integer pixel value, or false for relative units.
func (l Length) Pixels() (string, bool) {
	if l.Unit == "" || l.Unit == "px" {
		return l.Value, true
	}
	return "", false
}

// OrderedAttrs is a string map that remembers insertion order.
// Keys are lowercased and trimmed. Overwriting a key keeps its original position.
type OrderedAttrs struct {
	keys   []string
	values map[string]string
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Set assigns value to key.
func (o *OrderedAttrs) Set(key, value string) {
	key = normalizeKey(key)
	if o.values == nil {
		o.values = make(map[string]string)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored for key.
func (o *OrderedAttrs) Get(key string) (string, bool) {
	v, ok := o.values[normalizeKey(key)]
	return v, ok
}

// Delete removes key if present.
func (o *OrderedAttrs) Delete(key string) {
	key = normalizeKey(key)
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (o *OrderedAttrs) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *OrderedAttrs) Len() int {
	return len(o.keys)
}

// Join renders "k<kv>v<sep>k<kv>v" in insertion order.
func (o *OrderedAttrs) Join(sep, kv string) string {
	parts := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		parts = append(parts, k+kv+o.values[k])
	}
	return strings.Join(parts, sep)
}

// AttributeModel is the result of parsing Image macro arguments.
type AttributeModel struct {
	Size        *Length
	Alignment   Alignment
	Styles      OrderedAttrs
	Link        LinkMode
	LinkTarget  string // set for LinkExternal and LinkInternal
	RelExternal bool
	Caption     string
	HasCaption  bool
	NoFigure    bool
	HTMLAttrs   OrderedAttrs
}

// NewAttributeModel returns an empty model that links to the image itself.
func NewAttributeModel() *AttributeModel {
	return &AttributeModel{Link: LinkDefault}
}

// Normalize enforces nofigure => no link.
func (m *AttributeModel) Normalize() {
	if m.NoFigure {
		m.Link = LinkNone
		m.LinkTarget = ""
		m.RelExternal = false
	}
}

// Style returns the assembled CSS declaration list, e.g. "width:120px; float:right".
func (m *AttributeModel) Style() string {
	return m.Styles.Join("; ", ":")
}
