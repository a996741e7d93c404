// image_resolver.go folds scanned Image macro tokens into an AttributeModel.
package macro

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Bare positional size: 120, 120px, 50%, 2em
	positionalSizePattern = regexp.MustCompile(`^([0-9]+)(px|%|em)?$`)
	// Size given as a pair value requires a unit: width=120px
	pairSizePattern = regexp.MustCompile(`^([0-9]+)(px|%|em)$`)
	// Absolute URL schemes accepted for link targets and file specifications
	absoluteURLPattern = regexp.MustCompile(`^(https?:|mailto:|ftp:|gopher:|news:|file:)`)
	// A URL anywhere in a link= value
	embeddedURLPattern = regexp.MustCompile(`(https?:|mailto:|ftp:|gopher:|news:|file:)([^ |/"']*/)*([^ |\t\n/"']*[A-Za-z0-9/?=&~_])`)
	numericPattern     = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	leadingDigits      = regexp.MustCompile(`^\s*[+-]?[0-9]+`)
)

// ParseImageArgs scans and resolves the arguments that follow the file specification.
func ParseImageArgs(raw string) *AttributeModel {
	return ResolveImageAttrs(ScanImageArgs(raw))
}

// ResolveImageAttrs applies tokens in order to a fresh AttributeModel.
// The fold is pure: the same tokens always produce an identical model.
func ResolveImageAttrs(tokens []ImageToken) *AttributeModel {
	m := NewAttributeModel()
	for _, tok := range tokens {
		switch tok.Kind {
		case ImageTokenPositional:
			applyPositional(m, tok.Value)
		case ImageTokenPair:
			applyPair(m, tok.Key, tok.Value)
		}
	}
	m.Normalize()
	return m
}

func applyPositional(m *AttributeModel, value string) {
	if sm := positionalSizePattern.FindStringSubmatch(value); sm != nil {
		setSize(m, Length{Value: sm[1], Unit: sm[2]})
		return
	}

	switch value {
	case "nolink":
		m.Link = LinkNone
		m.LinkTarget = ""
		m.RelExternal = false
		return
	case "nofigure":
		m.NoFigure = true
		m.Link = LinkNone
		m.LinkTarget = ""
		m.RelExternal = false
		return
	}

	if a, ok := ParseAlignment(value); ok {
		applyAlignment(m, a)
	}
}

func applyPair(m *AttributeModel, key, value string) {
	switch key {
	case "width", "height":
		if sm := pairSizePattern.FindStringSubmatch(value); sm != nil {
			setSize(m, Length{Value: sm[1], Unit: sm[2]})
			return
		}
		if isNumeric(value) {
			setSize(m, Length{Value: value})
			return
		}
		m.HTMLAttrs.Set(key, value)
	case "link":
		applyLink(m, value)
	case "align":
		if a, ok := ParseAlignment(value); ok {
			applyAlignment(m, a)
			return
		}
		m.HTMLAttrs.Set(key, value)
	case "border":
		m.Styles.Set("border", "#ccc "+strconv.Itoa(intval(value))+"px solid")
	case "desc":
		m.Caption = value
		m.HasCaption = true
	default:
		m.HTMLAttrs.Set(key, value)
	}
}

func setSize(m *AttributeModel, l Length) {
	m.Size = &l
	m.HTMLAttrs.Delete("width")
	m.Styles.Set("width", l.String())
}

// applyAlignment composes alignment styles; it never touches width.
// top and bottom are accepted but add no style rule.
func applyAlignment(m *AttributeModel, a Alignment) {
	m.Alignment = a
	switch a {
	case AlignCenter:
		m.Styles.Set("display", "block")
		m.Styles.Set("margin-left", "auto")
		m.Styles.Set("margin-right", "auto")
	case AlignLeft:
		m.Styles.Set("float", "left")
		m.Styles.Set("margin-right", "1em")
	case AlignRight:
		m.Styles.Set("float", "right")
		m.Styles.Set("margin-left", "1em")
	}
}

func applyLink(m *AttributeModel, value string) {
	m.RelExternal = false
	if value == "" {
		m.Link = LinkNone
		m.LinkTarget = ""
		return
	}
	m.LinkTarget = value
	if IsExternalURL(value) {
		m.Link = LinkExternal
		m.RelExternal = true
		return
	}
	m.Link = LinkInternal
}

// IsExternalURL reports whether s starts with or contains an absolute URL.
func IsExternalURL(s string) bool {
	return absoluteURLPattern.MatchString(s) || embeddedURLPattern.MatchString(s)
}

func isNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// intval converts the leading integer of s, returning 0 when there is none.
func intval(s string) int {
	d := leadingDigits.FindString(s)
	if d == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(d))
	if err != nil {
		return 0
	}
	return n
}
