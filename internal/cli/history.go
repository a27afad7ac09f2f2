package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinct-shell/internal/assign"
	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/gnome"
	"github.com/jmylchreest/tinct-shell/internal/theme"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and restore previously generated themes",
		Long: `Every --generate pass is recorded with the colours it produced.
Use "history list" to see them and "history restore" to bring one back.`,
	}
	cmd.AddCommand(newHistoryListCmd(g))
	cmd.AddCommand(newHistoryRestoreCmd(g))
	return cmd
}

func newHistoryListCmd(g *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.requireStore()
			if err != nil {
				return err
			}
			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "CREATED", "MODE", "STRATEGY", "VALUES", "IMAGE")
			for _, r := range runs {
				t.Row(
					shortID(r.ID),
					r.CreatedAt.Local().Format(time.DateTime),
					r.Mode,
					r.Strategy,
					strconv.Itoa(r.Groups),
					r.Image,
				)
			}
			fmt.Fprintln(out, t.String())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")
	return cmd
}

func newHistoryRestoreCmd(g *globalOptions) *cobra.Command {
	var noApply bool
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore the colours of a recorded run",
		Long: `Write the generated.css of a recorded run back into the theme directory,
render gnome-shell.css in the run's mode and reload the theme.

The id may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.requireStore()
			if err != nil {
				return err
			}
			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cfg := a.themeConfig()
			if g.path == "" && run.ThemeDir != "" {
				cfg.Dir = theme.Dir(run.ThemeDir)
			}
			if err := theme.Restore(cfg.Dir, run.GeneratedCSS); err != nil {
				return err
			}

			mode, err := colour.ParseMode(run.Mode)
			if err != nil {
				return fmt.Errorf("run %s: %w", shortID(run.ID), err)
			}
			runner := theme.NewRunner(cfg, nil, gnome.New(a.logger), theme.WithLogger(a.logger))
			if _, err := runner.Run(cmd.Context(), theme.Options{
				Mode:     mode,
				Strategy: assign.Deterministic{},
				NoApply:  noApply,
			}); err != nil {
				return err
			}
			a.logger.Info("run restored", "id", run.ID, "dir", cfg.Dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noApply, "no-apply", false, "write files but do not reload the shell theme")
	return cmd
}
