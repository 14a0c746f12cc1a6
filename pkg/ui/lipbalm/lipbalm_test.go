package lipbalm_test

import (
	"io"
	"testing"

	"github.com/arthur-debert/buildexcluder/pkg/ui/lipbalm"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	lipbalm.SetDefaultRenderer(r)
	return r
}

func testStyles(r *lipgloss.Renderer) lipbalm.StyleMap {
	return lipbalm.StyleMap{
		"Header":   r.NewStyle().Bold(true),
		"FilePath": r.NewStyle().Foreground(lipgloss.Color("#00AAFF")),
		"Excluded": r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
	}
}

func TestExpandTags(t *testing.T) {
	r := newRenderer(termenv.TrueColor)
	styles := testStyles(r)

	t.Run("simple styled tag", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<Header>pre-build</Header>`, styles)
		require.NoError(t, err)
		assert.Equal(t, styles["Header"].Render("pre-build"), got)
	})

	t.Run("multiple styled tags", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<FilePath>Assets/A</FilePath> is <Excluded>EXCLUDED</Excluded>`, styles)
		require.NoError(t, err)
		want := styles["FilePath"].Render("Assets/A") + " is " + styles["Excluded"].Render("EXCLUDED")
		assert.Equal(t, want, got)
	})

	t.Run("nested tags", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<Header>Plan <FilePath>x</FilePath></Header>`, styles)
		require.NoError(t, err)
		assert.Equal(t, styles["Header"].Render("Plan "+styles["FilePath"].Render("x")), got)
	})

	t.Run("unknown tag keeps content", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<Unknown>Text</Unknown>`, styles)
		require.NoError(t, err)
		assert.Equal(t, "Text", got)
	})

	t.Run("no-format hidden with colour", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<Header>Done</Header><no-format> (ok)</no-format>`, styles)
		require.NoError(t, err)
		assert.Equal(t, styles["Header"].Render("Done"), got)
	})

	t.Run("unparseable input returned unchanged", func(t *testing.T) {
		got, err := lipbalm.ExpandTags(`<Header>Unclosed`, styles)
		require.NoError(t, err)
		assert.Equal(t, `<Header>Unclosed`, got)
	})

	t.Run("empty string", func(t *testing.T) {
		got, err := lipbalm.ExpandTags("", styles)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}

func TestExpandTagsWithoutColour(t *testing.T) {
	r := newRenderer(termenv.Ascii)
	styles := testStyles(r)

	got, err := lipbalm.ExpandTags(`<Header>Status</Header><no-format> (ok)</no-format> <FilePath>Assets/A</FilePath>`, styles)
	require.NoError(t, err)
	assert.Equal(t, "Status (ok) Assets/A", got)
}

func TestRender(t *testing.T) {
	r := newRenderer(termenv.Ascii)
	styles := testStyles(r)

	t.Run("template values are escaped", func(t *testing.T) {
		got, err := lipbalm.Render(`<FilePath>{{esc .}}</FilePath>`, "Assets/R&D <old>", styles)
		require.NoError(t, err)
		assert.Equal(t, "Assets/R&D <old>", got)
	})

	t.Run("nil data", func(t *testing.T) {
		got, err := lipbalm.Render(`<Header>Static</Header>`, nil, styles)
		require.NoError(t, err)
		assert.Equal(t, "Static", got)
	})

	t.Run("template parse error", func(t *testing.T) {
		_, err := lipbalm.Render(`{{.Missing`, nil, styles)
		assert.Error(t, err)
	})
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips simple tags",
			input:    "<Bold>Hello</Bold> <Muted>World</Muted>",
			expected: "Hello World",
		},
		{
			name:     "strips nested tags",
			input:    "<Header><Bold>Title</Bold> <Muted>sub</Muted></Header>",
			expected: "Title sub",
		},
		{
			name:     "preserves newlines",
			input:    "<Header>First</Header>\n  <FilePath>Second</FilePath>",
			expected: "First\n  Second",
		},
		{
			name:     "keeps no-format content",
			input:    "<Bold>Styled</Bold> <no-format>Plain</no-format>",
			expected: "Styled Plain",
		},
		{
			name:     "unescapes entities",
			input:    "<FilePath>R&amp;D</FilePath>",
			expected: "R&D",
		},
		{
			name:     "invalid markup returned as is",
			input:    "Not <valid",
			expected: "Not <valid",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lipbalm.StripTags(tt.input))
		})
	}
}
