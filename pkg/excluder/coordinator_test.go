// pkg/excluder/coordinator_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem in temp directories
// PURPOSE: Verify full build cycles, crash recovery and read-only queries

package excluder_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/buildexcluder/pkg/defines"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/session"
	"github.com/arthur-debert/buildexcluder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	*testutil.Project
	rulesPath   string
	sessionPath string
}

func newFixture(t *testing.T, files map[string]string, entries ...rules.Rule) *fixture {
	t.Helper()
	p := testutil.NewProject(t).WithFiles(files)
	f := &fixture{
		Project:     p,
		rulesPath:   p.Path("BuildExcluder.toml"),
		sessionPath: filepath.Join(p.StateDir, "session"),
	}
	if entries != nil {
		_, err := rules.Save(p.FS, f.rulesPath, rules.RuleSet{Entries: entries})
		require.NoError(t, err)
	}
	return f
}

// coordinator returns a fresh coordinator sharing the on-disk session, as a
// separate process would.
func (f *fixture) coordinator(active ...string) *excluder.Coordinator {
	return excluder.New(excluder.Options{
		FS:        f.FS,
		Layout:    f.Layout,
		RulesPath: f.rulesPath,
		Tracker:   session.NewFile(f.FS, f.sessionPath),
		Defines:   defines.NewStatic(active...),
	})
}

func (f *fixture) tracked(t *testing.T) []string {
	t.Helper()
	got, err := session.NewFile(f.FS, f.sessionPath).Paths()
	require.NoError(t, err)
	return got
}

func TestCycle_ExcludeAndRestore(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/A/a.cs":   "a",
		"Assets/A.meta":   "meta",
		"Assets/Keep.txt": "keep",
	}, rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}})
	before := f.Tree()

	pre := f.coordinator().OnPreBuild("")
	assert.Equal(t, []string{"Assets/A"}, pre.Excluded)
	assert.Empty(t, pre.Skipped)
	assert.NotEmpty(t, pre.RunID)
	assert.False(t, testutil.PathExists(t, f.Path("Assets/A")))
	assert.True(t, testutil.FileExists(t, f.Path("ExcludedAssets/A/a.cs")))
	assert.True(t, testutil.FileExists(t, f.Path("ExcludedAssets/A.meta")))
	assert.Equal(t, []string{"Assets/A"}, f.tracked(t))

	post := f.coordinator().OnPostBuild()
	assert.Equal(t, []string{"Assets/A"}, post.Restored)
	assert.Empty(t, post.Recovered)
	assert.Empty(t, post.Skipped)
	assert.Equal(t, pre.RunID, post.RunID)

	testutil.AssertTree(t, before, f.Layout.TreeRoot())
	assert.False(t, testutil.PathExists(t, f.Layout.HoldingRoot()))
	assert.Empty(t, f.tracked(t))
}

func TestPreBuild_NegatedCondition(t *testing.T) {
	rule := rules.Rule{AssetPath: "Assets/B", Conditions: []string{"!DEBUG"}}

	f := newFixture(t, map[string]string{"Assets/B/b.cs": "b"}, rule)
	report := f.coordinator("DEBUG").OnPreBuild("")
	assert.Equal(t, []string{"Assets/B"}, report.Excluded)
	assert.Equal(t, []string{"DEBUG"}, report.Conditions)

	f = newFixture(t, map[string]string{"Assets/B/b.cs": "b"}, rule)
	report = f.coordinator().OnPreBuild("")
	assert.Empty(t, report.Excluded)
	assert.True(t, testutil.FileExists(t, f.Path("Assets/B/b.cs")))
}

func TestPreBuild_TargetReachesDefineSources(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/Store/GooglePlay/x": "x"},
		rules.Rule{AssetPath: "Assets/Store/GooglePlay", Conditions: []string{"STORE_GOOGLEPLAY"}})
	t.Setenv("TEST_BUILD_DEFINES_ANDROID", "STORE_GOOGLEPLAY")

	c := excluder.New(excluder.Options{
		FS:        f.FS,
		Layout:    f.Layout,
		RulesPath: f.rulesPath,
		Defines:   defines.NewEnv("TEST_BUILD_DEFINES", ""),
	})

	assert.Empty(t, c.OnPreBuild("Android").Excluded)
	assert.Empty(t, c.OnPostBuild().Restored)
	assert.Equal(t, []string{"Assets/Store/GooglePlay"}, c.OnPreBuild("iOS").Excluded)
	assert.Equal(t, []string{"Assets/Store/GooglePlay"}, c.OnPostBuild().Restored)
}

func TestStartup_AfterCrash(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/A/a.cs": "a",
		"Assets/B/b.cs": "b",
	},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}},
		rules.Rule{AssetPath: "Assets/B", Conditions: []string{"BAR"}},
	)
	before := f.Tree()

	pre := f.coordinator().OnPreBuild("")
	require.Len(t, pre.Excluded, 2)
	// The build process dies here; post-build never runs.

	report := f.coordinator().OnStartup()
	assert.Equal(t, excluder.PhaseStartup, report.Phase)
	assert.ElementsMatch(t, []string{"Assets/A", "Assets/B"}, report.Restored)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
	assert.Empty(t, f.tracked(t))
}

func TestStartup_LostSessionFallsBackToSweep(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Store/GooglePlay/x": "x",
	}, rules.Rule{AssetPath: "Assets/Store/GooglePlay", Conditions: []string{"STORE_GOOGLEPLAY"}})
	before := f.Tree()

	f.coordinator().OnPreBuild("")
	require.NoError(t, os.Remove(f.sessionPath))

	report := f.coordinator().OnStartup()
	assert.Empty(t, report.Restored)
	assert.Equal(t, []string{"Assets/Store/GooglePlay"}, report.Recovered)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
}

func TestStartup_OccupiedLocationKeepsOrphan(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/A/live.cs":        "live",
		"ExcludedAssets/A/old.cs": "old",
	})

	report := f.coordinator().OnStartup()

	assert.Empty(t, report.Recovered)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, errors.ErrConflict, report.Skipped[0].Code)
	assert.False(t, report.Failed(), "conflicts are warnings")
	assert.Equal(t, "live", testutil.ReadFile(t, f.Path("Assets/A/live.cs")))
	assert.Equal(t, "old", testutil.ReadFile(t, f.Path("ExcludedAssets/A/old.cs")))
}

func TestPreBuild_MissingRulesFile(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"})
	before := f.Tree()

	report := f.coordinator().OnPreBuild("")

	assert.Empty(t, report.Excluded)
	assert.Len(t, report.Notes, 1)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
}

func TestPreBuild_CorruptRulesFile(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/A/a.cs":      "a",
		"BuildExcluder.toml": "[[entries]\nasset_path = ",
	})
	before := f.Tree()

	report := f.coordinator().OnPreBuild("")

	assert.Empty(t, report.Excluded)
	assert.Len(t, report.Notes, 1)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
}

func TestPreBuild_FailureDoesNotAbortOthers(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/C/c.cs": "c",
	},
		rules.Rule{AssetPath: "Assets/Missing", Conditions: []string{"X"}},
		rules.Rule{AssetPath: "Assets/../Escape", Conditions: []string{"X"}},
		rules.Rule{AssetPath: "Assets/C", Conditions: []string{"X"}},
	)

	report := f.coordinator().OnPreBuild("")

	assert.Equal(t, []string{"Assets/C"}, report.Excluded)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, errors.ErrSourceMissing, report.Skipped[0].Code)
	assert.Equal(t, errors.ErrInvalidPath, report.Skipped[1].Code)
	assert.True(t, report.Failed())
	assert.Equal(t, []string{"Assets/C"}, f.tracked(t))
}

func TestPreBuild_DuplicateRulesFirstWins(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"KEEP"}},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"!KEEP"}},
	)

	report := f.coordinator("KEEP").OnPreBuild("")
	assert.Empty(t, report.Excluded)
	assert.Empty(t, report.Skipped)
}

func TestPreBuild_TwiceRestoresFirst(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}})

	f.coordinator().OnPreBuild("")
	second := f.coordinator().OnPreBuild("")

	assert.Equal(t, []string{"Assets/A"}, second.Restored)
	assert.Equal(t, []string{"Assets/A"}, second.Excluded)
	assert.Empty(t, second.Skipped)
	assert.Equal(t, []string{"Assets/A"}, f.tracked(t))
}

func TestPostBuild_Twice(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}})
	before := f.Tree()

	f.coordinator().OnPreBuild("")
	f.coordinator().OnPostBuild()
	second := f.coordinator().OnPostBuild()

	assert.False(t, second.Changed())
	assert.Empty(t, second.Skipped)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
}

func TestPostBuild_WithoutPreBuild(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"})
	report := f.coordinator().OnPostBuild()
	assert.False(t, report.Changed())
	assert.Empty(t, report.Skipped)
}

func TestCycle_SharedBaseNames(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/StoreA/Shared/a": "a",
		"Assets/StoreB/Shared/b": "b",
	},
		rules.Rule{AssetPath: "Assets/StoreA/Shared", Conditions: []string{"A"}},
		rules.Rule{AssetPath: "Assets/StoreB/Shared", Conditions: []string{"B"}},
	)
	before := f.Tree()

	pre := f.coordinator().OnPreBuild("")
	assert.Len(t, pre.Excluded, 2)
	assert.Empty(t, pre.Skipped)

	f.coordinator().OnPostBuild()
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
}

func TestCycle_LongAssetPath(t *testing.T) {
	logical := "Assets/" + strings.Repeat(strings.Repeat("d", 40)+"/", 6) + "Leaf"
	f := newFixture(t, map[string]string{logical + "/a.cs": "a"},
		rules.Rule{AssetPath: logical, Conditions: []string{"FOO"}})
	before := f.Tree()

	pre := f.coordinator().OnPreBuild("")
	assert.Equal(t, []string{logical}, pre.Excluded)
	assert.Empty(t, pre.Skipped)
	assert.False(t, testutil.PathExists(t, f.Path(logical)))

	post := f.coordinator().OnPostBuild()
	assert.Equal(t, []string{logical}, post.Restored)
	assert.Empty(t, post.Skipped)
	testutil.AssertTree(t, before, f.Layout.TreeRoot())
	assert.False(t, testutil.PathExists(t, f.Layout.HoldingRoot()))
}

func TestPostBuild_ConflictReportedOnce(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}})

	pre := f.coordinator().OnPreBuild("")
	require.Equal(t, []string{"Assets/A"}, pre.Excluded)
	testutil.CreateFile(t, f.Root, "Assets/A/live.cs", "live")

	post := f.coordinator().OnPostBuild()
	assert.Empty(t, post.Restored)
	assert.Empty(t, post.Recovered)
	require.Len(t, post.Skipped, 1)
	assert.Equal(t, "Assets/A", post.Skipped[0].Path)
	assert.Equal(t, errors.ErrConflict, post.Skipped[0].Code)
	assert.Equal(t, "live", testutil.ReadFile(t, f.Path("Assets/A/live.cs")))
	assert.True(t, testutil.FileExists(t, f.Path("ExcludedAssets/A/a.cs")))
}

func TestMemoryTrackerDefault(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/A/a.cs": "a"},
		rules.Rule{AssetPath: "Assets/A", Conditions: []string{"FOO"}})
	c := excluder.New(excluder.Options{FS: f.FS, Layout: f.Layout, RulesPath: f.rulesPath})

	pre := c.OnPreBuild("")
	assert.Equal(t, []string{"Assets/A"}, pre.Excluded)
	assert.Empty(t, pre.RunID)
	assert.Equal(t, []string{"Assets/A"}, c.OnPostBuild().Restored)
}
