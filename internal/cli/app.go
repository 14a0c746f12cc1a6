package cli

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/buildexcluder/pkg/config"
	"github.com/arthur-debert/buildexcluder/pkg/defines"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/excluder"
	"github.com/arthur-debert/buildexcluder/pkg/filesystem"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/session"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/arthur-debert/buildexcluder/pkg/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	verbosity int
	project   string
	format    string
	defines   []string
	target    string
}

// app is everything a command needs for one project.
type app struct {
	cfg      *config.Config
	fs       types.FS
	layout   *paths.Layout
	sources  *defines.Multi
	coord    *excluder.Coordinator
	target   string
	renderer ui.Renderer
	logger   zerolog.Logger
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	logger := logging.GetLogger("cli")

	root, err := projectRoot(opts.project, logger)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create renderer")
	}

	fsys := filesystem.NewOS()
	sources := buildSources(fsys, cfg, opts.defines)
	tracker := session.NewProjectFile(fsys, cfg.Session.Dir, cfg.Root)

	target := opts.target
	if target == "" {
		target = cfg.Defines.Target
	}

	logger.Debug().
		Str("root", cfg.Root).
		Str("rules", cfg.RulesPath()).
		Str("session", tracker.Path()).
		Str("target", target).
		Msg("Project loaded")

	coord := excluder.New(excluder.Options{
		FS:        fsys,
		Layout:    layout,
		RulesPath: cfg.RulesPath(),
		Tracker:   tracker,
		Defines:   sources,
	})

	return &app{
		cfg:      cfg,
		fs:       fsys,
		layout:   layout,
		sources:  sources,
		coord:    coord,
		target:   target,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// projectRoot resolves --project, falling back to discovery from the
// working directory.
func projectRoot(flag string, logger zerolog.Logger) (string, error) {
	if flag != "" {
		abs, err := filepath.Abs(paths.ExpandHome(flag))
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid project path %s", flag)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
	}
	root, fallback, err := paths.FindProjectRoot(cwd)
	if err != nil {
		return "", err
	}
	if fallback {
		logger.Warn().Msgf(MsgFallbackProject, root)
	}
	return root, nil
}

// buildSources assembles the define sources the configuration enables.
func buildSources(fsys types.FS, cfg *config.Config, flags []string) *defines.Multi {
	static := append(append([]string{}, cfg.Defines.Static...), flags...)
	sources := []defines.Source{defines.NewStatic(static...)}

	if cfg.Defines.Env != "" {
		sources = append(sources, defines.NewEnv(cfg.Defines.Env, cfg.Resolve(cfg.Defines.Dotenv)))
	}
	if cfg.Defines.Csproj != "" {
		sources = append(sources, defines.NewCsproj(fsys, cfg.Resolve(cfg.Defines.Csproj)))
	}
	if cfg.Defines.UnitySettings != "" {
		settings := cfg.Resolve(cfg.Defines.UnitySettings)
		// Projects that are not Unity projects have no player settings.
		if ok, _ := types.Exists(fsys, settings); ok {
			sources = append(sources, defines.NewUnity(fsys, settings))
		}
	}
	return defines.NewMulti(sources...)
}
