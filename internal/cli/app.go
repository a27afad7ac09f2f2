package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/config"
	"github.com/jmylchreest/tinct-shell/internal/extract"
	"github.com/jmylchreest/tinct-shell/internal/image"
	"github.com/jmylchreest/tinct-shell/internal/store"
	"github.com/jmylchreest/tinct-shell/internal/theme"
)

// app holds what a command needs after flags and config are resolved.
type app struct {
	cfg    config.Config
	logger hclog.Logger
	seed   int64

	st      *store.Store
	stTried bool
}

// sourceHandle is a palette source plus its cleanup.
type sourceHandle struct {
	extract.Source
	close func()
}

func configDefaultPath() string {
	return config.DefaultPath()
}

// newLogger builds the command logger on w.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tinct-shell",
		Output: w,
		Level:  level,
	})
}

// newApp resolves configuration: defaults, config file, environment, then flags.
func newApp(cmd *cobra.Command, g *globalOptions) (*app, error) {
	logger := newLogger(cmd.ErrOrStderr(), g.verbose, g.quiet)

	path, required := config.DefaultPath(), false
	if g.configPath != "" {
		path, required = g.configPath, true
	}
	cfg, err := config.NewBuilder().WithFile(path, required).WithEnvConfig().Build()
	if err != nil {
		return nil, err
	}

	if g.path != "" {
		cfg.ThemeDir = g.path
	}
	if g.algorithm != "" {
		if !colour.IsValidAlgorithm(colour.Algorithm(g.algorithm)) {
			return nil, fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", g.algorithm, colour.ValidAlgorithms())
		}
		cfg.Algorithm = g.algorithm
	}
	if g.plugin != "" {
		cfg.ExtractorPlugin = g.plugin
	}
	if g.noCache {
		cfg.Cache = false
	}
	if abs, err := filepath.Abs(cfg.ThemeDir); err == nil {
		cfg.ThemeDir = abs
	}

	logger.Debug("configuration resolved",
		"theme_dir", cfg.ThemeDir,
		"algorithm", cfg.Algorithm,
		"plugin", cfg.ExtractorPlugin,
		"data_dir", cfg.DataDir,
		"cache", cfg.Cache)

	return &app{cfg: cfg, logger: logger, seed: g.seed}, nil
}

func (a *app) themeConfig() theme.Config {
	return theme.Config{
		Dir:          theme.Dir(a.cfg.ThemeDir),
		ThemeName:    a.cfg.ThemeName,
		NeutralTheme: a.cfg.NeutralTheme,
		FontMarker:   a.cfg.FontMarker,
	}
}

// openStore opens the database on first use. A failure is logged and nil returned.
func (a *app) openStore() *store.Store {
	if a.stTried {
		return a.st
	}
	a.stTried = true
	st, err := store.Open(a.cfg.DataDir)
	if err != nil {
		a.logger.Warn("history and palette cache unavailable", "error", err)
		return nil
	}
	a.st = st
	return st
}

// requireStore is openStore for commands that cannot work without it.
func (a *app) requireStore() (*store.Store, error) {
	if st := a.openStore(); st != nil {
		return st, nil
	}
	return nil, fmt.Errorf("failed to open database in %s", a.cfg.DataDir)
}

// source builds the configured palette source.
func (a *app) source() (sourceHandle, error) {
	var (
		src       extract.Source
		namespace string
		closer    = func() {}
	)

	if a.cfg.ExtractorPlugin != "" {
		// Plugin output may vary between runs, so it is not cached.
		ps := extract.NewPluginSource(a.cfg.ExtractorPlugin, a.logger)
		src, closer = ps, ps.Close
	} else {
		alg := colour.Algorithm(a.cfg.Algorithm)
		is, err := extract.NewImageSource(image.NewSmartLoader(), alg, a.seed, a.logger)
		if err != nil {
			return sourceHandle{}, err
		}
		src, namespace = is, string(alg)
		if alg == colour.AlgorithmKMeans {
			// Unseeded k-means differs per run, so it is not cached.
			if a.seed == 0 {
				namespace = ""
			} else {
				namespace = fmt.Sprintf("%s:%d", alg, a.seed)
			}
		}
	}

	if a.cfg.Cache && namespace != "" {
		if st := a.openStore(); st != nil {
			src = extract.NewCachedSource(src, st, namespace, a.logger)
		}
	}
	return sourceHandle{Source: src, close: closer}, nil
}

func (a *app) Close() {
	if a.st != nil {
		if err := a.st.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
}

// shortID trims a run ID for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
