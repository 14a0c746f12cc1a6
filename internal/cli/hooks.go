package cli

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/spf13/cobra"
)

// Grace period a build command gets to exit after an interrupt is forwarded.
const runWaitDelay = 10 * time.Second

func newPreBuildCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "pre-build",
		Short:   MsgPreBuildShort,
		Long:    MsgPreBuildLong,
		Example: MsgPreBuildExample,
		GroupID: "hooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if dryRun {
				plan, err := a.coord.Plan(a.target)
				if err != nil {
					return err
				}
				return a.renderer.RenderResult(plan)
			}

			return a.renderReport(a.coord.OnPreBuild(a.target))
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newPostBuildCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "post-build",
		Short:   MsgPostBuildShort,
		GroupID: "hooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.renderReport(a.coord.OnPostBuild())
		},
	}
}

func newRestoreCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "restore",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		GroupID: "hooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.renderReport(a.coord.OnStartup())
		},
	}
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run -- <command> [args...]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "hooks",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrMissingCommand)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			// Interrupts are caught from here until post-build has run; the
			// build command is the only thing they stop.
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pre := a.coord.OnPreBuild(a.target)
			runErr := a.renderReport(pre)
			if runErr == nil {
				runErr = a.runBuild(ctx, cmd, args)
			}

			post := a.coord.OnPostBuild()
			if err := a.renderReport(post); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

// runBuild runs the build command attached to the terminal. Cancelling ctx
// forwards an interrupt to it.
func (a *app) runBuild(ctx context.Context, cmd *cobra.Command, args []string) error {
	build := exec.CommandContext(ctx, args[0], args[1:]...)
	build.Dir = a.cfg.Root
	build.Stdin = cmd.InOrStdin()
	build.Stdout = cmd.OutOrStdout()
	build.Stderr = cmd.ErrOrStderr()
	build.Cancel = func() error {
		return build.Process.Signal(os.Interrupt)
	}
	build.WaitDelay = runWaitDelay

	logging.LogCommand(args[0], args[1:])
	err := build.Run()
	if err == nil {
		return nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		return errors.Newf(errors.ErrCommandFailed, MsgErrCommandExit, code).
			WithDetail(exitCodeDetail, code)
	}
	return errors.Wrap(err, errors.ErrCommandFailed, MsgErrCommandStart).
		WithDetail("command", args[0])
}

// renderReport prints a hook report. Per-asset failures are part of the
// report and never fail the command.
func (a *app) renderReport(report *excluder.Report) error {
	return a.renderer.RenderResult(report)
}
