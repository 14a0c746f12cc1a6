package lipbalm

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// StyleMap maps tag names to styles.
type StyleMap map[string]lipgloss.Style

const (
	rootTag     = "lipbalm"
	noFormatTag = "no-format"
)

var defaultRenderer = lipgloss.DefaultRenderer()

// SetDefaultRenderer sets the renderer whose colour profile decides whether
// styles are applied.
func SetDefaultRenderer(r *lipgloss.Renderer) {
	defaultRenderer = r
	lipgloss.SetDefaultRenderer(r)
}

// Render executes tmpl with data and expands the resulting style tags.
func Render(tmpl string, data interface{}, styles StyleMap) (string, error) {
	t, err := template.New(rootTag).Funcs(template.FuncMap{"esc": Escape}).Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return ExpandTags(buf.String(), styles)
}

// ExpandTags applies styles to tagged spans.
func ExpandTags(input string, styles StyleMap) (string, error) {
	color := defaultRenderer.ColorProfile() != termenv.Ascii
	return expand(input, styles, color), nil
}

// StripTags removes every tag and keeps the content.
func StripTags(input string) string {
	return expand(input, nil, false)
}

// Escape makes s safe to embed as tag content.
func Escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

func expand(input string, styles StyleMap, color bool) string {
	if input == "" {
		return ""
	}
	dec := xml.NewDecoder(strings.NewReader("<" + rootTag + ">" + input + "</" + rootTag + ">"))
	dec.Strict = true
	if _, err := dec.Token(); err != nil {
		return input
	}
	out, err := walk(dec, styles, color)
	if err != nil {
		return input
	}
	return out
}

// walk consumes tokens up to and including the end of the current element.
func walk(dec *xml.Decoder, styles StyleMap, color bool) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			inner, err := walk(dec, styles, color)
			if err != nil {
				return "", err
			}
			sb.WriteString(apply(t.Name.Local, inner, styles, color))
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

func apply(name, inner string, styles StyleMap, color bool) string {
	if name == noFormatTag {
		if color {
			return ""
		}
		return inner
	}
	if !color {
		return inner
	}
	style, ok := styles[name]
	if !ok {
		return inner
	}
	return style.Render(inner)
}
