package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impactriver/pkg/pipeline"
	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/selection"
	"github.com/matzehuels/impactriver/pkg/render/river/sink"
)

// List styles
var (
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const maxExploreLabels = 12

// =============================================================================
// LegendModel - Interactive legend walk
// =============================================================================

// LegendModel is the bubbletea model for walking a chart's legend. Moving
// the cursor previews an author; enter highlights it through the session,
// exactly as hovering does in the browser.
type LegendModel struct {
	Session *river.Session
	Cursor  int
	Offset  int
	Height  int

	// Last holds the directives emitted by the most recent selection.
	Last []selection.Directive
	Err  error
	// Save is set when the user asked to write the chart on exit.
	Save bool
}

// NewLegendModel creates a legend model for s.
func NewLegendModel(s *river.Session) LegendModel {
	return LegendModel{Session: s, Height: 15}
}

func (m LegendModel) Init() tea.Cmd {
	return nil
}

func (m LegendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	authors := m.Session.Chart.Authors
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.Save = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(authors)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(authors) == 0 {
				return m, nil
			}
			m.Last, m.Err = m.Session.Select(authors[m.Cursor].ID)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m LegendModel) View() string {
	var b strings.Builder
	chart := m.Session.Chart
	state := m.Session.State()

	b.WriteString(styleTitle.Render("Contribution River"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ highlight  s save  q quit"))
	b.WriteString("\n\n")

	if len(chart.Authors) == 0 {
		b.WriteString(listDimStyle.Render("  no authors"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(chart.Authors))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		a := chart.Authors[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if state.Set && state.Highlighted == a.ID {
			mark = iconSuccess
		}
		labels := "-"
		if band, ok := chart.Band(a.ID); ok {
			labels = fmt.Sprint(len(band.Labels))
		}
		rows = append(rows, []string{cursor, swatch(a.Color), a.Name, a.ID, labels, mark})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Author", "ID", "Labels", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(chart.Authors) {
				return lipgloss.NewStyle()
			}
			if !chart.Authors[idx].HasBand {
				return listDimStyle
			}
			if idx == m.Cursor && col >= 2 {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(chart.Authors))))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleWarning.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	if state.Set {
		b.WriteString(m.viewHighlight(state.Highlighted))
	}
	return b.String()
}

// viewHighlight describes the highlighted author's band and the directives
// the last selection emitted.
func (m LegendModel) viewHighlight(id string) string {
	var b strings.Builder
	chart := m.Session.Chart
	if a, ok := chart.Author(id); ok && a.Message != "" {
		b.WriteString(styleValue.Render(a.Message))
		b.WriteString("\n")
	}
	if band, ok := chart.Band(id); ok {
		texts := make([]string, 0, len(band.Labels))
		for i, l := range band.Labels {
			if i == maxExploreLabels {
				texts = append(texts, "...")
				break
			}
			texts = append(texts, l.Text)
		}
		b.WriteString(listDimStyle.Render("labels: " + strings.Join(texts, " ")))
		b.WriteString("\n")
	}
	if len(m.Last) > 0 {
		parts := make([]string, len(m.Last))
		for i, d := range m.Last {
			parts[i] = fmt.Sprintf("%s(%s)", d.Kind, d.AuthorID)
		}
		b.WriteString(listDimStyle.Render("directives: " + strings.Join(parts, " ")))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// exploreOpts holds the command-line flags for the explore command.
type exploreOpts struct {
	output    string
	highlight string
}

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore [dataset|repo]",
		Short: "Walk the chart legend in the terminal",
		Long: `Explore builds the chart and lists its legend. Highlighting an author shows
their per-bucket labels and the directives a renderer receives. Press s to
write the chart, with the current highlight and draw order, as SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG file written on save (default <input>.svg)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "author id highlighted at start")
	cmd.Flags().String(keyLabelAnchor, pipeline.DefaultLabelAnchor, "label anchor: sample or final")
	addIngestFlags(cmd)

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, input string, opts exploreOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	ds, _, err := c.loadInput(ctx, runner, input, popts)
	if err != nil {
		return err
	}
	chart, err := runner.Build(ctx, ds, popts)
	if err != nil {
		return err
	}
	session, err := runner.NewSession(ctx, chart, opts.highlight)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(NewLegendModel(session), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	if m, ok := final.(LegendModel); !ok || !m.Save {
		return nil
	}

	out := opts.output
	if out == "" {
		out = basePath("", input) + ".svg"
	}
	if err := os.WriteFile(out, sink.RenderSVG(session), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	w := cmd.OutOrStdout()
	printSuccess(w, "Chart written")
	printFile(w, out)
	return nil
}
