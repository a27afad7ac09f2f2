// Package cli provides the command-line interface for tinct-shell.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/tinct-shell/internal/assign"
	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/gnome"
	"github.com/jmylchreest/tinct-shell/internal/theme"
	"github.com/jmylchreest/tinct-shell/internal/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	quiet      bool
	configPath string
	path       string
	algorithm  string
	plugin     string
	seed       int64
	noCache    bool
}

// passOptions are the flags of the root theming pass.
type passOptions struct {
	random   bool
	dark     bool
	generate bool
	image    string
	dryRun   bool
	noApply  bool
	preview  bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	p := &passOptions{}

	rootCmd := &cobra.Command{
		Use:   "tinct-shell",
		Short: "Colour a GNOME Shell theme from your wallpaper",
		Long: `tinct-shell recolours a GNOME Shell user theme to match the desktop wallpaper.

The theme directory holds three files:
  template.css   gnome-shell stylesheet with var(--name) placeholders
  themes.css     the colour variables to replace
  generated.css  the colours assigned by the last --generate pass

A --generate pass extracts two palettes from the wallpaper, assigns a
colour to every variable in themes.css and writes generated.css. Every
pass then renders template.css into gnome-shell.css and reloads the
theme through gsettings.

Examples:
  # Assign new colours for a dark shell
  tinct-shell -g -d

  # Re-render the last generated colours for a light shell
  tinct-shell

  # Randomise assignment from a specific image without applying
  tinct-shell -g -r --image ~/Pictures/wall.jpg --no-apply --preview`,
		Version:      version.Short(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPass(cmd, g, p)
		},
	}

	addGlobalFlags(rootCmd.PersistentFlags(), g)
	addPassFlags(rootCmd.Flags(), p)

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newExportCmd(g))
	rootCmd.AddCommand(newImportCmd(g))

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func addGlobalFlags(f *pflag.FlagSet, g *globalOptions) {
	f.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	f.BoolVarP(&g.quiet, "quiet", "q", false, "suppress non-error output")
	f.StringVar(&g.configPath, "config", "", "config file (default "+configDefaultPath()+")")
	f.StringVarP(&g.path, "path", "p", "", "path to the theme folder")
	f.StringVar(&g.algorithm, "algorithm", "", fmt.Sprintf("palette extraction algorithm %v", colour.ValidAlgorithms()))
	f.StringVar(&g.plugin, "plugin", "", "external extractor plugin executable")
	f.Int64Var(&g.seed, "seed", 0, "seed for random assignment and k-means (0 = time based)")
	f.BoolVar(&g.noCache, "no-cache", false, "do not read or write the palette cache")
	f.SortFlags = false
}

func addPassFlags(f *pflag.FlagSet, p *passOptions) {
	f.BoolVarP(&p.random, "random", "r", false, "randomise the colours")
	f.BoolVarP(&p.dark, "dark", "d", false, "dark mode")
	f.BoolVarP(&p.generate, "generate", "g", false, "generate new colours instead of reusing generated.css")
	f.StringVar(&p.image, "image", "", "image to extract colours from (default: desktop wallpaper)")
	f.BoolVar(&p.dryRun, "dry-run", false, "compute the theme without writing or applying it")
	f.BoolVar(&p.noApply, "no-apply", false, "write files but do not reload the shell theme")
	f.BoolVar(&p.preview, "preview", false, "show the resolved colours")
	f.SortFlags = false
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// runPass executes one theming pass over the configured theme directory.
func runPass(cmd *cobra.Command, g *globalOptions, p *passOptions) error {
	a, err := newApp(cmd, g)
	if err != nil {
		return err
	}
	defer a.Close()

	mode := colour.ModeLight
	if p.dark {
		mode = colour.ModeDark
	}
	var strategy assign.Strategy = assign.Deterministic{}
	if p.random {
		strategy = assign.NewRandom(g.seed)
	}

	a.logger.Info("config", "random", p.random, "dark", p.dark, "generate", p.generate, "path", a.cfg.ThemeDir)

	opts := []theme.RunnerOption{theme.WithLogger(a.logger)}
	var src sourceHandle
	if p.generate {
		src, err = a.source()
		if err != nil {
			return err
		}
		defer src.close()
		if st := a.openStore(); st != nil {
			opts = append(opts, theme.WithHistory(st))
		}
	}

	runner := theme.NewRunner(a.themeConfig(), src.Source, gnome.New(a.logger), opts...)
	res, err := runner.Run(cmd.Context(), theme.Options{
		Mode:     mode,
		Strategy: strategy,
		Generate: p.generate,
		Image:    p.image,
		DryRun:   p.dryRun,
		NoApply:  p.noApply,
	})
	if err != nil {
		return err
	}

	if p.preview || p.dryRun {
		printEntries(cmd.OutOrStdout(), res.Entries)
	}
	if res.RunID != "" {
		a.logger.Info("run recorded", "id", res.RunID)
	}
	if res.Activated {
		a.logger.Info("theme applied", "theme", a.cfg.ThemeName)
	}
	return nil
}
