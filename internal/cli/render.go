package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impactriver/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file path (or base path for multiple outputs)
	highlight string  // author to highlight in the exported chart
	title     string  // document title
	noLegend  bool    // omit the legend column
	static    bool    // omit the hover script
	scale     float64 // PNG raster scale
	refresh   bool    // re-read history even if cached
}

// renderCommand creates the render command for generating charts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [dataset|repo]",
		Short: "Render a contribution river chart",
		Long: `Render draws a contribution river from a dataset file (.json, .toml or a
.js data script) or directly from a git repository directory.

SVG output embeds a small script so hovering an author raises their band and
shows its per-bucket sizes. Use --static for a script-free export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringP(keyFormat, "f", pipeline.DefaultFormat, "output format(s): svg, json, pdf, png (comma-separated)")
	cmd.Flags().String(keyLabelAnchor, pipeline.DefaultLabelAnchor, "label anchor: sample or final")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "author id to highlight")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().BoolVar(&opts.noLegend, "no-legend", false, "omit the author legend")
	cmd.Flags().BoolVar(&opts.static, "static", false, "omit the interactive script")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore a cached dataset for the current HEAD")
	addIngestFlags(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Highlight = opts.highlight
	popts.Title = opts.title
	popts.NoLegend = opts.noLegend
	popts.Static = opts.static
	popts.Scale = opts.scale
	popts.Refresh = opts.refresh

	ds, cached, err := c.loadInput(ctx, runner, input, popts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, ds, popts)
	if err != nil {
		return err
	}
	prog.done("Rendered chart")

	w := cmd.OutOrStdout()
	for _, warn := range result.Chart.Warnings {
		printWarning(w, "%v", warn)
	}

	paths, err := writeArtifacts(ctx, result.Artifacts, opts.output, input)
	if err != nil {
		return err
	}
	printSuccess(w, "Chart written")
	for _, p := range paths {
		printFile(w, p)
	}
	printStats(w, result.Stats.Authors, result.Stats.Buckets, result.Stats.Bands, cached || result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each rendered format. A single format goes to output
// as given; several formats share output's base path with their extension.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, output, input string) ([]string, error) {
	logger := loggerFromContext(ctx)

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := basePath(output, input)
	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "format", f, "path", path, "bytes", len(artifacts[f]))
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; a repository
// directory input is named after the directory. A known format extension on
// output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if info, err := os.Stat(input); err == nil && info.IsDir() {
			return strings.TrimSuffix(defaultDatasetPath(input), ".json")
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
