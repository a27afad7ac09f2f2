package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tinct-shell/internal/assign"
	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/extract"
	"github.com/jmylchreest/tinct-shell/internal/image"
)

type extractOptions struct {
	groups int
	format string
}

// poolsJSON is the json output of the extract command.
type poolsJSON struct {
	Image     string             `json:"image"`
	Frequency []colour.ColorJSON `json:"frequency"`
	Luminance []colour.ColorJSON `json:"luminance"`
}

func newExtractCmd(g *globalOptions) *cobra.Command {
	o := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Show the candidate palettes extracted from an image",
		Long: `Extract the frequency and luminance palettes a --generate pass would
draw colours from.

The frequency palette is ranked by how much of the image each colour covers
and holds groups+3 colours. The luminance palette is ranked darkest first
and holds groups+8 colours.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Palettes sized for a theme with 12 distinct colours
  tinct-shell extract -n 12 wallpaper.jpg

  # JSON output using k-means
  tinct-shell extract --algorithm kmeans --format json wallpaper.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, o, args[0])
		},
	}
	cmd.Flags().IntVarP(&o.groups, "groups", "n", 16, "number of distinct theme values to size the palettes for")
	cmd.Flags().StringVarP(&o.format, "format", "f", "hex", "output format (hex, json)")
	return cmd
}

func runExtract(cmd *cobra.Command, g *globalOptions, o *extractOptions, ref string) error {
	if o.format != "hex" && o.format != "json" {
		return fmt.Errorf("unsupported format: %s (supported: hex, json)", o.format)
	}
	if o.groups < 1 {
		return fmt.Errorf("groups must be at least 1, got %d", o.groups)
	}
	if err := image.ValidateImagePath(ref); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	a, err := newApp(cmd, g)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.source()
	if err != nil {
		return err
	}
	defer src.close()

	pools, err := extract.BuildPools(cmd.Context(), src.Source, ref, o.groups)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.format == "json" {
		data, err := json.MarshalIndent(poolsJSON{
			Image:     ref,
			Frequency: candidatesJSON(pools.Frequency),
			Luminance: candidatesJSON(pools.Luminance),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printColours(out, "frequency", candidateColours(pools.Frequency))
	printColours(out, "luminance", candidateColours(pools.Luminance))
	return nil
}

func candidateColours(cs []assign.Candidate) []colour.RGB {
	out := make([]colour.RGB, len(cs))
	for i, c := range cs {
		out[i] = c.RGB
	}
	return out
}

func candidatesJSON(cs []assign.Candidate) []colour.ColorJSON {
	out := make([]colour.ColorJSON, len(cs))
	for i, c := range cs {
		out[i] = colour.ColorJSON{Hex: c.RGB.Hex(), RGB: c.RGB}
	}
	return out
}
