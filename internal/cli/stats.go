package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/render/river/sink"
)

const (
	sortBySize = "size"
	sortByName = "name"

	maxTableNameWidth = 32
)

// authorTotal summarizes one author's contributions across all buckets.
type authorTotal struct {
	ID      string  `json:"author_id"`
	Name    string  `json:"name"`
	Size    float64 `json:"size"`
	Share   float64 `json:"share"`
	Buckets int     `json:"buckets"`
	Peak    float64 `json:"peak"`
	First   int64   `json:"first"`
	Last    int64   `json:"last"`
}

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	sortBy string
	top    int
	json   bool
}

// statsCommand creates the stats command, which prints per-author totals.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{sortBy: sortBySize}

	cmd := &cobra.Command{
		Use:   "stats [dataset|repo]",
		Short: "Print per-author contribution totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.sortBy != sortBySize && opts.sortBy != sortByName {
				return fmt.Errorf("invalid sort: %s (must be 'size' or 'name')", opts.sortBy)
			}
			return c.runStats(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sortBy, "sort", opts.sortBy, "sort by: size, name")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "show only the first N authors")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	addIngestFlags(cmd)

	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, input string, opts statsOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	ds, _, err := c.loadInput(ctx, runner, input, c.pipelineOptions())
	if err != nil {
		return err
	}
	validate := ds.Validate
	if ds.IsEmpty() {
		validate = ds.ValidateReferences
	}
	if err := validate(); err != nil {
		return err
	}

	totals := authorTotals(ds)
	sortTotals(totals, opts.sortBy)
	if opts.top > 0 && opts.top < len(totals) {
		totals = totals[:opts.top]
	}

	w := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(totals)
	}
	return printTotalsTable(w, totals)
}

// authorTotals sums each legend author's contributions. Authors without any
// contribution are kept with zero totals.
func authorTotals(ds *dataset.Dataset) []authorTotal {
	index := make(map[string]int, len(ds.Authors))
	totals := make([]authorTotal, len(ds.Authors))
	for i, a := range ds.Authors {
		index[a.ID] = i
		totals[i] = authorTotal{ID: a.ID, Name: a.Name}
	}

	var grand float64
	for _, b := range ds.Buckets {
		for _, ct := range b.Contributions {
			i, ok := index[ct.AuthorID]
			if !ok || ct.Size <= 0 {
				continue
			}
			t := &totals[i]
			if t.Buckets == 0 {
				t.First = b.Date
			}
			t.Last = b.Date
			t.Buckets++
			t.Size += ct.Size
			t.Peak = max(t.Peak, ct.Size)
			grand += ct.Size
		}
	}
	if grand > 0 {
		for i := range totals {
			totals[i].Share = totals[i].Size / grand
		}
	}
	return totals
}

func sortTotals(totals []authorTotal, by string) {
	sort.SliceStable(totals, func(i, j int) bool {
		if by == sortByName {
			return strings.ToLower(totals[i].Name) < strings.ToLower(totals[j].Name)
		}
		return totals[i].Size > totals[j].Size
	})
}

// printTotalsTable prints the totals using the tablewriter API.
func printTotalsTable(w io.Writer, totals []authorTotal) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "ID", "Lines", "Share", "Buckets", "Peak", "First", "Last"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, t := range totals {
		first, last := "-", "-"
		if t.Buckets > 0 {
			first, last = sink.FormatDate(t.First), sink.FormatDate(t.Last)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncate(t.Name, maxTableNameWidth),
			t.ID,
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			fmt.Sprintf("%.1f%%", t.Share*100),
			strconv.Itoa(t.Buckets),
			strconv.FormatFloat(t.Peak, 'f', -1, 64),
			first,
			last,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
