package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/buildexcluder/pkg/defines"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/ui/lipbalm"
	"github.com/arthur-debert/buildexcluder/pkg/ui/output/styles"
	"github.com/charmbracelet/lipgloss"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var funcs = template.FuncMap{
	"esc":  lipbalm.Escape,
	"join": strings.Join,
}

// Renderer executes output templates and applies styles.
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
}

// NewRenderer creates a renderer writing to w. With noColor set every style
// tag is stripped.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output")

	if !noColor {
		renderer := lipgloss.NewRenderer(w)
		lipbalm.SetDefaultRenderer(renderer)
		log.Debug().
			Str("colorProfile", fmt.Sprintf("%v", renderer.ColorProfile())).
			Str("NO_COLOR_env", os.Getenv("NO_COLOR")).
			Msg("Lipgloss renderer created")
	}

	tmpl, err := template.New("output").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		templates: tmpl,
		writer:    w,
		noColor:   noColor,
	}, nil
}

// TemplateFor returns the template that renders v.
func TemplateFor(v interface{}) (string, bool) {
	switch v.(type) {
	case *excluder.Report:
		return "report", true
	case *excluder.Preview:
		return "preview", true
	case []*excluder.Preview:
		return "previews", true
	case *excluder.Plan:
		return "plan", true
	case *excluder.Status:
		return "status", true
	case *defines.Explanation:
		return "defines", true
	case *rules.RuleSet:
		return "rules", true
	}
	return "", false
}

// RenderResult renders a known result type; anything else is printed with
// its default formatting.
func (r *Renderer) RenderResult(v interface{}) error {
	name, ok := TemplateFor(v)
	if !ok {
		_, err := fmt.Fprintf(r.writer, "%+v\n", v)
		return err
	}
	return r.Render(name, v)
}

// RenderMessage renders an informational line.
func (r *Renderer) RenderMessage(msg string) error {
	return r.Render("message", msg)
}

// RenderError renders err.
func (r *Renderer) RenderError(err error) error {
	return r.Render("error", err.Error())
}

// Render executes the named template with data and writes the styled result
// followed by a newline.
func (r *Renderer) Render(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	var out string
	if r.noColor {
		out = lipbalm.StripTags(buf.String())
	} else {
		var err error
		out, err = lipbalm.ExpandTags(buf.String(), styles.StyleRegistry)
		if err != nil {
			return fmt.Errorf("failed to expand tags: %w", err)
		}
	}

	_, err := fmt.Fprintln(r.writer, out)
	return err
}
