package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinct-shell/internal/bundle"
	"github.com/jmylchreest/tinct-shell/internal/theme"
)

func newExportCmd(g *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Package the rendered theme as a .tar.xz bundle",
		Long: `Package gnome-shell.css and generated.css into a .tar.xz archive laid out
as <theme_name>/gnome-shell/, ready to unpack into ~/.themes on another machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			dir := theme.Dir(a.cfg.ThemeDir)
			if err := dir.Validate(); err != nil {
				return err
			}

			prefix := path.Join(a.cfg.ThemeName, "gnome-shell")
			var entries []bundle.Entry
			for _, name := range []string{theme.OutputFile, theme.GeneratedFile} {
				data, err := os.ReadFile(dir.Path(name))
				if err != nil {
					if errors.Is(err, os.ErrNotExist) && name == theme.GeneratedFile {
						continue
					}
					return fmt.Errorf("failed to read %s: %w", name, err)
				}
				entries = append(entries, bundle.Entry{Name: path.Join(prefix, name), Data: data})
			}

			if output == "" {
				output = a.cfg.ThemeName + ".tar.xz"
			}
			if err := bundle.Create(output, entries); err != nil {
				return err
			}
			a.logger.Info("bundle written", "path", output, "files", len(entries))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <theme_name>.tar.xz)")
	return cmd
}

func newImportCmd(g *globalOptions) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "import <bundle.tar.xz>",
		Short: "Unpack a theme bundle",
		Long:  `Unpack a bundle created by "export" into the themes directory (default ~/.themes).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if dest == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to determine home directory: %w", err)
				}
				dest = filepath.Join(home, ".themes")
			}
			written, err := bundle.Extract(args[0], dest)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			a.logger.Info("bundle imported", "dest", dest, "files", len(written))
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "directory to unpack into (default ~/.themes)")
	return cmd
}
