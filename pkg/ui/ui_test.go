package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/buildexcluder/pkg/defines"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/recovery"
	"github.com/arthur-debert/buildexcluder/pkg/relocate"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *excluder.Report {
	return &excluder.Report{
		Phase:      excluder.PhasePreBuild,
		Target:     "Android",
		RunID:      "r1",
		Conditions: []string{"DEBUG_BUILD"},
		Excluded:   []string{"Assets/StoreSpecific/GooglePlay"},
		Restored:   []string{},
		Recovered:  []string{},
		Skipped: []relocate.Skip{
			{Path: "Assets/Gone", Code: errors.ErrSourceMissing, Reason: "asset not found"},
		},
		Notes: []string{"rules file missing"},
	}
}

func excludedPreview() *excluder.Preview {
	return &excluder.Preview{
		Path:       "Assets/DebugTools",
		Conditions: []string{"DEBUG_BUILD"},
		Rule:       &rules.Rule{AssetPath: "Assets/DebugTools", Conditions: []string{"!DEBUG_BUILD"}},
		Decision:   rules.Decision{Exclude: true},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{name: "create terminal renderer", format: ui.FormatTerminal},
		{name: "create text renderer", format: ui.FormatText},
		{name: "create json renderer", format: ui.FormatJSON},
		{name: "create auto renderer with buffer", format: ui.FormatAuto},
		{name: "invalid format", format: ui.Format("xml"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			renderer, err := ui.NewRenderer(tt.format, buf)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				assert.Contains(t, err.Error(), "unknown format")
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, renderer)
			}
		})
	}
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))
		assert.Equal(t, "hello world\n", buf.String())
	})

	t.Run("render error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))
		assert.Equal(t, "Error: assert.AnError general error for testing\n", buf.String())
	})

	t.Run("render report", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleReport()))
		want := "pre-build for Android (run r1)\n" +
			"Active conditions: DEBUG_BUILD\n" +
			"Excluded (1)\n" +
			"  - Assets/StoreSpecific/GooglePlay\n" +
			"Skipped (1)\n" +
			"  ! Assets/Gone [SOURCE_MISSING] asset not found\n" +
			"rules file missing\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("render empty report", func(t *testing.T) {
		buf.Reset()
		report := &excluder.Report{Phase: excluder.PhasePostBuild}
		require.NoError(t, renderer.RenderResult(report))
		assert.Equal(t, "post-build\nActive conditions: none\nNothing to move.\n", buf.String())
	})

	t.Run("render excluded preview", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(excludedPreview()))
		want := "Assets/DebugTools\n" +
			"  Would be EXCLUDED (none of !DEBUG_BUILD)\n" +
			"  Active conditions: DEBUG_BUILD\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("render included preview", func(t *testing.T) {
		buf.Reset()
		p := &excluder.Preview{
			Path:       "Assets/DebugTools",
			Target:     "Android",
			Conditions: []string{},
			Rule:       &rules.Rule{AssetPath: "Assets/DebugTools", Conditions: []string{"!DEBUG_BUILD"}},
			Decision:   rules.Decision{Trigger: "!DEBUG_BUILD"},
			Held:       true,
		}
		require.NoError(t, renderer.RenderResult(p))
		out := buf.String()
		assert.Contains(t, out, "Would be INCLUDED (matched !DEBUG_BUILD) currently held")
		assert.Contains(t, out, "Active conditions: none for Android")
	})

	t.Run("render preview without rule", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(&excluder.Preview{Path: "Assets/Art"}))
		assert.Contains(t, buf.String(), "Would be INCLUDED (no rule)")
	})

	t.Run("render several previews", func(t *testing.T) {
		buf.Reset()
		previews := []*excluder.Preview{excludedPreview(), {Path: "Assets/Art"}}
		require.NoError(t, renderer.RenderResult(previews))
		assert.Contains(t, buf.String(), "DEBUG_BUILD\n\nAssets/Art\n")
	})

	t.Run("render plan", func(t *testing.T) {
		buf.Reset()
		plan := &excluder.Plan{
			Target:     "Android",
			Conditions: []string{"DEBUG_BUILD"},
			RulesPath:  "/p/BuildExcluder.toml",
			Entries:    []*excluder.Preview{excludedPreview()},
			Duplicates: []string{"Assets/DebugTools"},
		}
		require.NoError(t, renderer.RenderResult(plan))
		out := buf.String()
		assert.Contains(t, out, "Plan for Android /p/BuildExcluder.toml")
		assert.Contains(t, out, "  Assets/DebugTools EXCLUDED (none of !DEBUG_BUILD)")
		assert.Contains(t, out, "Duplicate rule for Assets/DebugTools; the first entry wins.")
	})

	t.Run("render clean status", func(t *testing.T) {
		buf.Reset()
		status := &excluder.Status{
			RulesPath: "/p/BuildExcluder.toml",
			Rules:     2,
			Holding:   "/p/ExcludedAssets",
		}
		require.NoError(t, renderer.RenderResult(status))
		want := "Status\n" +
			"Rules: /p/BuildExcluder.toml (2 entries)\n" +
			"Holding: /p/ExcludedAssets\n" +
			"Clean: nothing is excluded.\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("render dirty status", func(t *testing.T) {
		buf.Reset()
		status := &excluder.Status{
			RulesPath: "/p/BuildExcluder.toml",
			Holding:   "/p/ExcludedAssets",
			Session:   "/state/sessions/abc.session",
			RunID:     "r1",
			Tracked:   []string{"Assets/A"},
			Residue: []recovery.Orphan{
				{Key: "A", Path: "Assets/A"},
				{Key: "%zz"},
			},
		}
		require.NoError(t, renderer.RenderResult(status))
		out := buf.String()
		assert.Contains(t, out, "Session: /state/sessions/abc.session (run r1)")
		assert.Contains(t, out, "Tracked (1)\n  - Assets/A")
		assert.Contains(t, out, "  - %zz (undecodable)")
		assert.Contains(t, out, `Run "buildexcluder restore"`)
	})

	t.Run("render defines explanation", func(t *testing.T) {
		buf.Reset()
		exp := &defines.Explanation{
			Target: "Android",
			Active: []string{"A"},
			Sources: []defines.SourceResult{
				{Source: "flags", Defines: []string{"A"}},
				{Source: "csproj", Error: "[DEFINES_SOURCE] boom"},
			},
		}
		require.NoError(t, renderer.RenderResult(exp))
		want := "Conditions for Android\n" +
			"  flags: A\n" +
			"  csproj: [DEFINES_SOURCE] boom\n" +
			"Active: A\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("render rule set", func(t *testing.T) {
		buf.Reset()
		rs := &rules.RuleSet{Entries: []rules.Rule{
			{AssetPath: "Assets/A", Conditions: []string{"X", "!Y"}},
			{AssetPath: "Assets/R&D"},
		}}
		require.NoError(t, renderer.RenderResult(rs))
		assert.Equal(t, "Assets/A X, !Y\nAssets/R&D (no conditions)\n", buf.String())
	})

	t.Run("render empty rule set", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(&rules.RuleSet{}))
		assert.Equal(t, "No rules.\n", buf.String())
	})

	t.Run("render unknown result type", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(map[string]string{"foo": "bar"}))
		assert.Contains(t, buf.String(), "map[foo:bar]")
	})
}

func TestTerminalRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))
		assert.Contains(t, buf.String(), "hello world")
	})

	t.Run("render error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))
		assert.Contains(t, buf.String(), "assert.AnError")
	})

	t.Run("render preview", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(excludedPreview()))
		assert.Contains(t, buf.String(), "EXCLUDED")
		assert.Contains(t, buf.String(), "Assets/DebugTools")
	})
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "hello world", result["message"])
	})

	t.Run("render error with code", func(t *testing.T) {
		buf.Reset()
		cause := errors.New(errors.ErrConflict, "destination exists").WithDetail("path", "Assets/A")
		require.NoError(t, renderer.RenderError(cause))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "destination exists", result["error"])
		assert.Equal(t, "CONFLICT", result["code"])
		assert.Equal(t, map[string]interface{}{"path": "Assets/A"}, result["details"])
	})

	t.Run("render plain error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, assert.AnError.Error(), result["error"])
		assert.Equal(t, "UNKNOWN", result["code"])
		assert.NotContains(t, result, "details")
	})

	t.Run("render report", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(sampleReport()))

		var result excluder.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, excluder.PhasePreBuild, result.Phase)
		assert.Equal(t, []string{"Assets/StoreSpecific/GooglePlay"}, result.Excluded)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, errors.ErrSourceMissing, result.Skipped[0].Code)
	})

	t.Run("render preview", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(excludedPreview()))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "Assets/DebugTools", result["path"])
		decision := result["decision"].(map[string]interface{})
		assert.Equal(t, true, decision["exclude"])
	})
}
