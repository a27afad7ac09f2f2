package theme

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinct-shell/internal/assign"
	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/css"
	"github.com/jmylchreest/tinct-shell/internal/extract"
	"github.com/jmylchreest/tinct-shell/internal/render"
	"github.com/jmylchreest/tinct-shell/internal/store"
)

// Shell is the desktop the theme is applied to. Activate returns an error
// when the theme was not applied.
type Shell interface {
	Wallpaper(ctx context.Context, mode colour.Mode) (string, error)
	Activate(ctx context.Context, neutral, target string) error
}

// HistoryRecorder stores generated themes.
type HistoryRecorder interface {
	RecordRun(ctx context.Context, r store.Run) (string, error)
}

// Config describes where the theme lives and how it is applied.
type Config struct {
	Dir          Dir
	ThemeName    string
	NeutralTheme string
	FontMarker   string
}

// Options select the behaviour of one pass.
type Options struct {
	Mode     colour.Mode
	Strategy assign.Strategy
	Generate bool   // Assign new colours instead of reusing generated.css
	Image    string // Overrides the desktop wallpaper
	DryRun   bool   // Compute everything, write and activate nothing
	NoApply  bool   // Write files but do not activate the theme
}

// Result reports what a pass produced.
type Result struct {
	Generated    bool
	Image        string
	Groups       int
	Entries      []css.Entry
	GeneratedCSS string
	ThemeCSS     string
	Written      []string
	RunID        string
	Activated    bool
}

// Runner executes passes over one theme directory.
type Runner struct {
	cfg     Config
	source  extract.Source
	shell   Shell
	history HistoryRecorder
	logger  hclog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHistory records every generation pass in h.
func WithHistory(h HistoryRecorder) RunnerOption {
	return func(r *Runner) { r.history = h }
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner. source is only used on generation passes.
func NewRunner(cfg Config, source extract.Source, shell Shell, opts ...RunnerOption) *Runner {
	if cfg.FontMarker == "" {
		cfg.FontMarker = render.DefaultFontMarker
	}
	r := &Runner{cfg: cfg, source: source, shell: shell}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = hclog.NewNullLogger()
	}
	return r
}

// Run performs one pass. Nothing is written unless every step before the
// writes succeeds.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	dir := r.cfg.Dir
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	r.logger.Debug("pass starting", "dir", dir, "mode", opts.Mode, "generate", opts.Generate, "dry_run", opts.DryRun)

	template, err := dir.read(TemplateFile, ErrMissingTemplate)
	if err != nil {
		return nil, err
	}

	res := &Result{Generated: opts.Generate}
	if opts.Generate {
		if err := r.generate(ctx, opts, res); err != nil {
			return nil, err
		}
	} else {
		if err := r.reuse(res); err != nil {
			return nil, err
		}
	}

	res.ThemeCSS = render.New(opts.Mode, r.cfg.FontMarker).Render(template, res.Entries)

	if opts.DryRun {
		r.logger.Info("dry run, nothing written")
		return res, nil
	}

	if opts.Generate {
		if err := writeFileAtomic(dir.Path(GeneratedFile), []byte(res.GeneratedCSS)); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, dir.Path(GeneratedFile))
	}
	if err := writeFileAtomic(dir.Path(OutputFile), []byte(res.ThemeCSS)); err != nil {
		return res, err
	}
	res.Written = append(res.Written, dir.Path(OutputFile))
	r.logger.Info("theme written", "path", dir.Path(OutputFile))

	if opts.Generate && r.history != nil {
		id, err := r.history.RecordRun(ctx, store.Run{
			ThemeDir:     string(dir),
			Image:        res.Image,
			Mode:         opts.Mode.String(),
			Strategy:     opts.Strategy.Name(),
			Groups:       res.Groups,
			GeneratedCSS: res.GeneratedCSS,
		})
		if err != nil {
			r.logger.Warn("failed to record run", "error", err)
		} else {
			res.RunID = id
		}
	}

	if !opts.NoApply && r.shell != nil {
		if err := r.shell.Activate(ctx, r.cfg.NeutralTheme, r.cfg.ThemeName); err != nil {
			r.logger.Warn("theme not applied", "theme", r.cfg.ThemeName, "error", err)
		} else {
			res.Activated = true
		}
	}
	return res, nil
}

func (r *Runner) generate(ctx context.Context, opts Options, res *Result) error {
	if opts.Strategy == nil {
		return fmt.Errorf("no assignment strategy configured")
	}
	if r.source == nil {
		return fmt.Errorf("no palette source configured")
	}

	text, err := r.cfg.Dir.read(ThemesFile, ErrMissingThemeFile)
	if err != nil {
		return err
	}
	decls, err := css.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", ThemesFile, err)
	}
	entries, err := decls.Entries()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", ThemesFile, err)
	}
	res.Groups = decls.DistinctValues()

	res.Image = opts.Image
	if res.Image == "" {
		if r.shell == nil {
			return fmt.Errorf("no image given and no desktop to read the wallpaper from")
		}
		res.Image, err = r.shell.Wallpaper(ctx, opts.Mode)
		if err != nil {
			return fmt.Errorf("failed to read wallpaper: %w", err)
		}
	}
	r.logger.Info("generating theme", "image", res.Image, "variables", len(entries), "values", res.Groups, "strategy", opts.Strategy.Name())

	pools, err := extract.BuildPools(ctx, r.source, res.Image, res.Groups)
	if err != nil {
		return err
	}

	vars := make([]assign.Variable, len(entries))
	for i, e := range entries {
		vars[i] = assign.Variable{
			Name:      e.Name,
			Colour:    e.Value.Colour,
			Alpha:     e.Value.Alpha,
			Important: e.Value.Important,
		}
	}

	assignments, err := assign.New(opts.Strategy, assign.WithLogger(r.logger)).Assign(vars, opts.Mode, pools)
	if err != nil {
		return err
	}

	res.Entries = make([]css.Entry, len(assignments))
	for i, a := range assignments {
		res.Entries[i] = css.Entry{Name: a.Name, Value: css.Value{Colour: a.Colour, Alpha: a.Alpha}}
	}
	res.GeneratedCSS = css.Serialize(res.Entries)
	return nil
}

func (r *Runner) reuse(res *Result) error {
	r.logger.Info("using existing " + GeneratedFile)
	text, err := r.cfg.Dir.read(GeneratedFile, ErrMissingGeneratedFile)
	if err != nil {
		return err
	}
	decls, err := css.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", GeneratedFile, err)
	}
	entries, err := decls.Entries()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", GeneratedFile, err)
	}
	res.Entries = entries
	res.GeneratedCSS = text
	return nil
}

// Restore writes generatedCSS into the theme directory, validating it first.
func Restore(dir Dir, generatedCSS string) error {
	if err := dir.Validate(); err != nil {
		return err
	}
	decls, err := css.Parse(generatedCSS)
	if err != nil {
		return fmt.Errorf("failed to parse stored theme: %w", err)
	}
	if _, err := decls.Entries(); err != nil {
		return fmt.Errorf("failed to parse stored theme: %w", err)
	}
	return writeFileAtomic(dir.Path(GeneratedFile), []byte(generatedCSS))
}
