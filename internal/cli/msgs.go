package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep assets out of a build by moving them aside while it runs"
	MsgVersionShort    = "Print version information"
	MsgPreBuildShort   = "Exclude assets whose rules are not satisfied"
	MsgPostBuildShort  = "Restore the assets excluded by pre-build"
	MsgRestoreShort    = "Restore every held asset"
	MsgRunShort        = "Run a build command between pre-build and post-build"
	MsgPreviewShort    = "Show whether assets would be excluded"
	MsgStatusShort     = "Show what is currently held"
	MsgDefinesShort    = "Show the active defines and where they come from"
	MsgConfigShort     = "Print the effective configuration"
	MsgRulesShort      = "Inspect and edit the rules file"
	MsgRulesListShort  = "List the rules"
	MsgRulesAddShort   = "Add or replace the rule for an asset"
	MsgRulesRmShort    = "Remove the rule for an asset"
	MsgRulesInitShort  = "Write the stock rule set"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgRuleSaved       = "Rule for %s saved to %s"
	MsgRuleDropped     = "Rule for %s has no conditions and was dropped"
	MsgRuleRemoved     = "Removed %d rule(s) for %s"
	MsgRulesInitDone   = "Wrote %d rules to %s"
	MsgNoRulesFile     = "No rules file at %s"
	MsgFallbackProject = "No project marker found, using %s"

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrRulesExist     = "rules file already exists: %s (use --force to overwrite)"
	MsgErrNoRule         = "no rule for %s"
	MsgErrCommandExit    = "build command exited with status %d"
	MsgErrCommandStart   = "failed to start build command"
	MsgErrMissingCommand = "no build command given"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProject = "Project root (default: nearest directory with an asset tree)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagDefine  = "Add an active define (repeatable, comma separated)"
	MsgFlagTarget  = "Build target: MSBuild configuration or Unity platform"
	MsgFlagDryRun  = "Print the plan without moving anything"
	MsgFlagWatch   = "Re-evaluate whenever the rules file changes"
	MsgFlagForce   = "Overwrite an existing rules file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/pre-build-long.txt
	msgPreBuildLongRaw string
	MsgPreBuildLong    = strings.TrimSpace(msgPreBuildLongRaw)

	//go:embed msgs/pre-build-example.txt
	msgPreBuildExampleRaw string
	MsgPreBuildExample    = strings.TrimRight(msgPreBuildExampleRaw, "\n")

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/preview-example.txt
	msgPreviewExampleRaw string
	MsgPreviewExample    = strings.TrimRight(msgPreviewExampleRaw, "\n")

	//go:embed msgs/rules-long.txt
	msgRulesLongRaw string
	MsgRulesLong    = strings.TrimSpace(msgRulesLongRaw)

	//go:embed msgs/rules-example.txt
	msgRulesExampleRaw string
	MsgRulesExample    = strings.TrimRight(msgRulesExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
