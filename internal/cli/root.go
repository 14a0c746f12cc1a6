// Package cli builds the buildexcluder command tree.
package cli

import (
	"embed"

	"github.com/arthur-debert/buildexcluder/internal/version"
	"github.com/arthur-debert/buildexcluder/pkg/cobrax/topics"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed help/*.md
var helpFS embed.FS

// Detail key carrying the exit status of a wrapped build command.
const exitCodeDetail = "exit_code"

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "buildexcluder",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.project, "project", "p", "", MsgFlagProject)
	flags.StringVarP(&opts.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringSliceVarP(&opts.defines, "define", "D", nil, MsgFlagDefine)
	flags.StringVarP(&opts.target, "target", "t", "", MsgFlagTarget)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "hooks", Title: "Build hooks:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "Inspect:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "Misc:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newPreBuildCmd(opts))
	rootCmd.AddCommand(newPostBuildCmd(opts))
	rootCmd.AddCommand(newRestoreCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newPreviewCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newDefinesCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	topicOpts := topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if err := topics.InitializeWithOptions(rootCmd, helpFS, "help", topicOpts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// ExitCode maps an error returned by the root command to a process exit
// status. A wrapped build command's own status is passed through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetErrorDetails(err)[exitCodeDetail].(int); ok && code > 0 {
		return code
	}
	return 1
}
