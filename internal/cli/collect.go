package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/pipeline"
)

// collectOpts holds the command-line flags for the collect command.
type collectOpts struct {
	output  string
	refresh bool
}

// collectCommand creates the collect command, which aggregates a repository's
// history into a dataset file for later rendering.
func (c *CLI) collectCommand() *cobra.Command {
	var opts collectOpts

	cmd := &cobra.Command{
		Use:   "collect [repo]",
		Short: "Aggregate git history into a dataset file",
		Long: `Collect reads the full history of a git repository, buckets commits by
date and writes the per-author lines changed as a JSON or TOML dataset.

Authors are identified by name; an alias file maps alternate names or emails
onto one author:

  [aliases]
  "jdoe@old-employer.com" = "Jane Doe"
  "jane" = "Jane Doe"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := "."
			if len(args) == 1 {
				repo = args[0]
			}
			return c.runCollect(cmd, repo, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.json or .toml, default <repo>.json)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore a cached dataset for the current HEAD")
	addIngestFlags(cmd)

	return cmd
}

// addIngestFlags registers the flags that shape aggregation. Their values are
// read back through the resolved config.
func addIngestFlags(cmd *cobra.Command) {
	cmd.Flags().Int(keyBucketDays, pipeline.DefaultBucketDays, "bucket width in days")
	cmd.Flags().Int(keyMaxBuckets, 0, "keep only the most recent N buckets (0 keeps all)")
	cmd.Flags().String(keyAliases, "", "TOML file mapping author names or emails to canonical names")
}

func (c *CLI) runCollect(cmd *cobra.Command, repo string, opts collectOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Repo = repo
	popts.Refresh = opts.refresh

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reading history of %s...", repo))
	spinner.Start()
	ds, info, err := runner.IngestWithCacheInfo(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Collected %s", plural(info.Commits, "commit")))

	out := opts.output
	if out == "" {
		out = defaultDatasetPath(repo)
	}
	if err := dataset.Export(ds, out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Dataset written")
	printFile(w, out)
	printStats(w, len(ds.Authors), len(ds.Buckets), 0, info.Hit)
	printNextStep(w, "Render it", "impactriver render "+out)
	return nil
}

// defaultDatasetPath names the dataset after the repository directory.
func defaultDatasetPath(repo string) string {
	abs, err := filepath.Abs(repo)
	if err != nil {
		abs = repo
	}
	name := strings.TrimSuffix(filepath.Base(abs), ".git")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = appName
	}
	return name + ".json"
}
