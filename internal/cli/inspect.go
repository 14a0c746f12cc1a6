package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/watch"
	"github.com/spf13/cobra"
)

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	var watchRules bool

	cmd := &cobra.Command{
		Use:     "preview <asset>...",
		Short:   MsgPreviewShort,
		Example: MsgPreviewExample,
		GroupID: "inspect",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if err := a.renderPreviews(args); err != nil {
				return err
			}
			if !watchRules {
				return nil
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.NewFile(a.cfg.RulesPath(), watch.DefaultDebounce)
			return w.Run(ctx, func() {
				// A broken rules file mid-edit is reported and the watch goes on.
				if err := a.renderPreviews(args); err != nil {
					_ = a.renderer.RenderError(err)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&watchRules, "watch", "w", false, MsgFlagWatch)
	return cmd
}

func (a *app) renderPreviews(assets []string) error {
	previews := make([]*excluder.Preview, 0, len(assets))
	for _, asset := range assets {
		p, err := a.coord.Preview(asset, a.target)
		if err != nil {
			return err
		}
		previews = append(previews, p)
	}
	if len(previews) == 1 {
		return a.renderer.RenderResult(previews[0])
	}
	return a.renderer.RenderResult(previews)
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			status, err := a.coord.Status()
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(status)
		},
	}
}

func newDefinesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "defines",
		Short:   MsgDefinesShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(a.sources.Explanation(a.target))
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			data, err := a.cfg.Dump()
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to write configuration")
			}
			return nil
		},
	}
}

// commandContext returns the command's context, which is nil when the
// command was run through Execute rather than ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
