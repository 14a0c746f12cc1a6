package rules_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/filesystem"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	fs := filesystem.NewOS()
	rs, err := rules.Load(fs, filepath.Join(t.TempDir(), "BuildExcluder.toml"))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, 0, rs.Len())
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BuildExcluder.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := rules.Load(filesystem.NewOS(), path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := rules.Load(filesystem.NewOS(), filepath.Join(t.TempDir(), "rules.ini"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_EditorJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BuildExcludeConfig.json")
	content := `{
    "entries": [
        {
            "assetPath": "Assets/StoreSpecific/GooglePlay",
            "defines": ["STORE_GOOGLEPLAY"]
        },
        {
            "assetPath": "Assets/DebugTools",
            "defines": ["!DEBUG_BUILD"]
        }
    ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rs, err := rules.Load(filesystem.NewOS(), path)
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "Assets/StoreSpecific/GooglePlay", rs.Entries[0].AssetPath)
	assert.Equal(t, []string{"!DEBUG_BUILD"}, rs.Entries[1].Conditions)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BuildExcluder.toml")
	content := `
[[entries]]
asset_path = "Assets/DeveloperAssets"
defines = ["!DEVELOPMENT_BUILD"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rs, err := rules.Load(filesystem.NewOS(), path)
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "Assets/DeveloperAssets", rs.Entries[0].AssetPath)
	assert.Equal(t, []string{"!DEVELOPMENT_BUILD"}, rs.Entries[0].Conditions)
}

func TestSave_RoundTripAllFormats(t *testing.T) {
	for _, name := range []string{"rules.toml", "rules.yaml", "rules.yml", "rules.json"} {
		t.Run(name, func(t *testing.T) {
			fs := filesystem.NewOS()
			path := filepath.Join(t.TempDir(), "nested", name)

			in := rules.DefaultRuleSet()
			in.Entries = append(in.Entries, rules.Rule{AssetPath: "Assets/Inert"})

			saved, err := rules.Save(fs, path, in)
			require.NoError(t, err)
			assert.Equal(t, 4, saved.Len(), "inert rule is pruned on save")

			out, err := rules.Load(fs, path)
			require.NoError(t, err)
			assert.Equal(t, rules.DefaultRuleSet(), out)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temporary file must not linger")
		})
	}
}

func TestSave_EmptyRuleSet(t *testing.T) {
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "rules.toml")

	_, err := rules.Save(fs, path, rules.RuleSet{})
	require.NoError(t, err)

	out, err := rules.Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func captureDebugLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	original := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	return &buf
}

func TestSaveLoad_DebugLogging(t *testing.T) {
	buf := captureDebugLog(t)
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "rules.toml")

	_, err := rules.Save(fs, path, rules.RuleSet{Entries: []rules.Rule{
		{AssetPath: "Assets/DebugTools", Conditions: []string{"DEBUG_BUILD"}},
		{AssetPath: "Assets/Inert"},
	}})
	require.NoError(t, err)
	_, err = rules.Load(fs, path)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"rules.file"`)
	assert.Contains(t, out, `"pruned":1`)
	assert.Contains(t, out, "Loaded rules file")
	assert.Contains(t, out, `"entries":1`)
}
