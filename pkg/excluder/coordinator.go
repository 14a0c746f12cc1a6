package excluder

import (
	"github.com/arthur-debert/buildexcluder/pkg/defines"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/recovery"
	"github.com/arthur-debert/buildexcluder/pkg/relocate"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/session"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/rs/zerolog"
)

// runStamper is implemented by trackers that tag each cycle with a run ID.
type runStamper interface {
	Begin() string
	RunID() string
}

// locator is implemented by trackers stored on disk.
type locator interface {
	Path() string
}

// Options wires a Coordinator.
type Options struct {
	FS        types.FS
	Layout    *paths.Layout
	RulesPath string
	Tracker   session.Tracker
	// Defines resolves active conditions; nil means none are active.
	Defines defines.Source
}

// Coordinator runs the build hooks for one project.
type Coordinator struct {
	fs        types.FS
	layout    *paths.Layout
	rulesPath string
	tracker   session.Tracker
	defines   defines.Source
	engine    *relocate.Engine
	sweeper   *recovery.Sweeper
	logger    zerolog.Logger
}

// New creates a coordinator.
func New(opts Options) *Coordinator {
	engine := relocate.NewEngine(opts.FS, opts.Layout)
	tracker := opts.Tracker
	if tracker == nil {
		tracker = session.NewMemory()
	}
	src := opts.Defines
	if src == nil {
		src = defines.NewStatic()
	}
	return &Coordinator{
		fs:        opts.FS,
		layout:    opts.Layout,
		rulesPath: opts.RulesPath,
		tracker:   tracker,
		defines:   src,
		engine:    engine,
		sweeper:   recovery.NewSweeper(opts.FS, engine),
		logger:    logging.GetLogger("excluder"),
	}
}

// OnPreBuild excludes every asset whose rule says so under target's
// conditions. Leftovers of an unfinished cycle are restored first.
func (c *Coordinator) OnPreBuild(target string) *Report {
	done := logging.LogOperationStart(c.logger, string(PhasePreBuild))
	defer done()

	report := newReport(PhasePreBuild)
	report.Target = target

	if c.needsRestore() {
		c.logger.Warn().Msg("Previous build cycle did not finish, restoring before excluding")
		report.merge(c.restore(PhasePreBuild))
	}

	rs, ok := c.loadRules(report)
	if !ok {
		return report
	}
	for _, dup := range rs.Duplicates() {
		c.logger.Warn().Str("path", dup).Msg("Asset path has more than one rule, the first one wins")
	}

	active := c.activeConditions(target)
	report.Conditions = active.List()

	if stamper, ok := c.tracker.(runStamper); ok {
		report.RunID = stamper.Begin()
	}
	logger := c.logger.With().Str("run", report.RunID).Str("target", target).Logger()

	for _, rule := range rs.Effective() {
		if !rules.ShouldExclude(rule, active) {
			continue
		}
		if err := c.engine.Exclude(rule.AssetPath); err != nil {
			report.Skipped = append(report.Skipped, relocate.SkipFromError(rule.AssetPath, err))
			continue
		}
		report.Excluded = append(report.Excluded, rule.AssetPath)
		if err := c.tracker.Record(rule.AssetPath); err != nil {
			// Still in holding under its key; the orphan sweep brings it back.
			logger.Error().Err(err).Str("path", rule.AssetPath).Msg("Failed to record exclusion")
		}
	}

	logger.Info().
		Int("excluded", len(report.Excluded)).
		Int("skipped", len(report.Skipped)).
		Msg("Pre-build finished")
	return report
}

// OnPostBuild restores everything the pre-build hook excluded.
func (c *Coordinator) OnPostBuild() *Report {
	done := logging.LogOperationStart(c.logger, string(PhasePostBuild))
	defer done()
	return c.restore(PhasePostBuild)
}

// OnStartup restores anything left behind by an interrupted cycle.
func (c *Coordinator) OnStartup() *Report {
	done := logging.LogOperationStart(c.logger, string(PhaseStartup))
	defer done()
	return c.restore(PhaseStartup)
}

func (c *Coordinator) restore(phase Phase) *Report {
	report := newReport(phase)
	if stamper, ok := c.tracker.(runStamper); ok {
		report.RunID = stamper.RunID()
	}

	var failed []string
	tracked, err := c.tracker.Drain()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read session, relying on the orphan sweep")
		report.Notes = append(report.Notes, errors.Message(err))
	}
	for _, p := range tracked {
		if err := c.engine.Restore(p); err != nil {
			failed = append(failed, p)
			report.Skipped = append(report.Skipped, relocate.SkipFromError(p, err))
			continue
		}
		report.Restored = append(report.Restored, p)
	}

	swept := c.sweeper.SweepAndRestore(failed...)
	report.Recovered = append(report.Recovered, swept.Recovered...)
	report.Skipped = append(report.Skipped, swept.Skipped...)

	c.logger.Info().
		Str("phase", string(phase)).
		Int("restored", len(report.Restored)).
		Int("recovered", len(report.Recovered)).
		Int("skipped", len(report.Skipped)).
		Msg("Restoration finished")
	return report
}

func (c *Coordinator) needsRestore() bool {
	empty, err := c.tracker.IsEmpty()
	if err != nil || !empty {
		return true
	}
	orphans, err := c.sweeper.Scan()
	return err != nil || len(orphans) > 0
}

// loadRules reads the rules file. A missing file is a warning and a
// corrupt one an error; either way nothing is excluded.
func (c *Coordinator) loadRules(report *Report) (rules.RuleSet, bool) {
	rs, err := rules.Load(c.fs, c.rulesPath)
	switch {
	case err == nil:
		return rs, true
	case errors.IsErrorCode(err, errors.ErrNotFound):
		c.logger.Warn().Str("rules", c.rulesPath).Msg("No rules file, nothing to exclude")
	default:
		c.logger.Error().Err(err).Str("rules", c.rulesPath).Msg("Rules file is unreadable, nothing excluded")
	}
	report.Notes = append(report.Notes, errors.Message(err))
	return rs, false
}

func (c *Coordinator) activeConditions(target string) rules.ConditionSet {
	active, err := c.defines.Defines(target)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to resolve conditions, treating none as active")
		return rules.NewConditionSet()
	}
	return active
}

// Conditions returns the conditions active for target.
func (c *Coordinator) Conditions(target string) rules.ConditionSet {
	return c.activeConditions(target)
}

// Preview evaluates the first rule for assetPath without touching the tree.
// An asset without a rule is always included.
func (c *Coordinator) Preview(assetPath, target string) (*Preview, error) {
	logical, err := c.layout.Normalize(assetPath)
	if err != nil {
		return nil, err
	}
	rs, err := c.readRules()
	if err != nil {
		return nil, err
	}
	active := c.activeConditions(target)
	return c.preview(rs, logical, target, active), nil
}

func (c *Coordinator) preview(rs rules.RuleSet, logical, target string, active rules.ConditionSet) *Preview {
	p := &Preview{Path: logical, Target: target, Conditions: active.List()}
	if rule, ok := rs.Lookup(logical); ok {
		p.Rule = &rule
		p.Decision = rules.Evaluate(rule, active)
	}
	if holding, err := c.layout.HoldingPath(logical); err == nil {
		p.Held, _ = types.Exists(c.fs, holding)
	}
	return p
}

// Plan evaluates every effective rule without touching the tree.
func (c *Coordinator) Plan(target string) (*Plan, error) {
	rs, err := c.readRules()
	if err != nil {
		return nil, err
	}
	active := c.activeConditions(target)
	plan := &Plan{
		Target:     target,
		Conditions: active.List(),
		RulesPath:  c.rulesPath,
		Entries:    []*Preview{},
		Duplicates: rs.Duplicates(),
	}
	for _, rule := range rs.Effective() {
		plan.Entries = append(plan.Entries, c.preview(rs, rule.AssetPath, target, active))
	}
	return plan, nil
}

// readRules treats a missing rules file as an empty rule set.
func (c *Coordinator) readRules() (rules.RuleSet, error) {
	rs, err := rules.Load(c.fs, c.rulesPath)
	if err != nil && !errors.IsErrorCode(err, errors.ErrNotFound) {
		return rules.RuleSet{}, err
	}
	return rs, nil
}

// Status reports the session contents and holding residue.
func (c *Coordinator) Status() (*Status, error) {
	st := &Status{
		RulesPath: c.rulesPath,
		Holding:   c.layout.HoldingRoot(),
		Tracked:   []string{},
		Residue:   []recovery.Orphan{},
	}

	if rs, err := rules.Load(c.fs, c.rulesPath); err == nil {
		st.Rules = rs.Len()
	} else {
		st.RulesError = errors.Message(err)
	}

	if loc, ok := c.tracker.(locator); ok {
		st.Session = loc.Path()
	}
	if stamper, ok := c.tracker.(runStamper); ok {
		st.RunID = stamper.RunID()
	}

	tracked, err := c.tracker.Paths()
	if err != nil {
		return nil, err
	}
	st.Tracked = append(st.Tracked, tracked...)

	orphans, err := c.sweeper.Scan()
	if err != nil {
		return nil, err
	}
	st.Residue = append(st.Residue, orphans...)
	return st, nil
}
