package cli

import (
	"fmt"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		Example: MsgRulesExample,
		GroupID: "inspect",
	}

	cmd.AddCommand(newRulesListCmd(opts))
	cmd.AddCommand(newRulesAddCmd(opts))
	cmd.AddCommand(newRulesRemoveCmd(opts))
	cmd.AddCommand(newRulesInitCmd(opts))
	return cmd
}

func newRulesListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgRulesListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			rs, err := rules.Load(a.fs, a.cfg.RulesPath())
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				return a.renderer.RenderMessage(fmt.Sprintf(MsgNoRulesFile, a.cfg.RulesPath()))
			}
			if err != nil {
				return err
			}
			return a.renderer.RenderResult(&rs)
		},
	}
}

func newRulesAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <asset> <define>...",
		Short: MsgRulesAddShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			asset, err := a.layout.Normalize(args[0])
			if err != nil {
				return err
			}

			var conditions []string
			for _, arg := range args[1:] {
				conditions = append(conditions, rules.SplitDefines(arg)...)
			}

			rs, err := a.loadRulesForEdit()
			if err != nil {
				return err
			}
			rs.Set(asset, conditions)
			saved, err := rules.Save(a.fs, a.cfg.RulesPath(), rs)
			if err != nil {
				return err
			}

			a.logger.Info().Str("asset", asset).Strs("defines", conditions).Msg("Rule saved")
			if _, ok := saved.Lookup(asset); !ok {
				return a.renderer.RenderMessage(fmt.Sprintf(MsgRuleDropped, asset))
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgRuleSaved, asset, a.cfg.RulesPath()))
		},
	}
}

func newRulesRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <asset>",
		Aliases: []string{"rm"},
		Short:   MsgRulesRmShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			asset, err := a.layout.Normalize(args[0])
			if err != nil {
				return err
			}

			rs, err := a.loadRulesForEdit()
			if err != nil {
				return err
			}
			removed := rs.Remove(asset)
			if removed == 0 {
				return errors.Newf(errors.ErrNotFound, MsgErrNoRule, asset)
			}
			if _, err := rules.Save(a.fs, a.cfg.RulesPath(), rs); err != nil {
				return err
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgRuleRemoved, removed, asset))
		},
	}
}

func newRulesInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgRulesInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			path := a.cfg.RulesPath()

			exists, err := types.Exists(a.fs, path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, "failed to check %s", path)
			}
			if exists && !force {
				return errors.Newf(errors.ErrConflict, MsgErrRulesExist, path)
			}

			saved, err := rules.Save(a.fs, path, rules.DefaultRuleSet())
			if err != nil {
				return err
			}
			return a.renderer.RenderMessage(fmt.Sprintf(MsgRulesInitDone, saved.Len(), path))
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

// loadRulesForEdit reads the rules file, treating a missing file as empty.
func (a *app) loadRulesForEdit() (rules.RuleSet, error) {
	rs, err := rules.Load(a.fs, a.cfg.RulesPath())
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		return rules.RuleSet{}, nil
	}
	return rs, err
}
