package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/yourusername/form-guide/internal/models"
	"github.com/yourusername/form-guide/internal/staking"
)

// Summary is the input of the markdown run summary.
type Summary struct {
	Date      string
	Documents []string
	Rows      []models.ScoredRow
	Bets      []models.ValueBet
}

// TopPicks returns the most likely runner of every race, ordered by race.
// Ties go to the lower box.
func TopPicks(rows []models.ScoredRow) []models.ScoredRow {
	best := make(map[models.RaceKey]models.ScoredRow)
	for _, r := range rows {
		cur, ok := best[r.RaceKey()]
		if !ok || r.ProbWin > cur.ProbWin || (r.ProbWin == cur.ProbWin && r.Box < cur.Box) {
			best[r.RaceKey()] = r
		}
	}

	picks := make([]models.ScoredRow, 0, len(best))
	for _, r := range best {
		picks = append(picks, r)
	}
	sort.Slice(picks, func(i, j int) bool {
		return picks[i].RaceKey().Less(picks[j].RaceKey())
	})
	return picks
}

// WriteMarkdown writes the run summary: documents, top pick per race and, when
// present, the value bets.
func WriteMarkdown(w io.Writer, s Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Summary – %s\n\n", s.Date)
	if len(s.Documents) > 0 {
		fmt.Fprintf(&b, "Documents: %s\n\n", strings.Join(s.Documents, ", "))
	}

	b.WriteString("## Top pick per race\n\n")
	if len(s.Rows) == 0 {
		b.WriteString("_No runners parsed._\n")
	} else {
		b.WriteString(PicksTable(TopPicks(s.Rows)).RenderMarkdown())
		b.WriteString("\n")
	}

	if len(s.Bets) > 0 {
		sum := staking.Summarize(s.Bets)
		b.WriteString("\n## Value bets\n\n")
		b.WriteString(BetsTable(s.Bets).RenderMarkdown())
		fmt.Fprintf(&b, "\n\nTotal stake: %s across %d bets (expected profit %.2f)\n",
			sum.TotalStake.StringFixed(2), sum.Bets, sum.ExpectedValue)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PicksTable builds a table of top picks.
func PicksTable(picks []models.ScoredRow) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Track", "Race", "Runner", "Box", "Prob"})
	for _, p := range picks {
		t.AppendRow(table.Row{p.Track, fmt.Sprintf("R%d", p.Race), p.Runner, p.Box, fmt.Sprintf("%.2f%%", p.ProbWin*100)})
	}
	t.SetStyle(table.StyleRounded)
	return t
}

// BetsTable builds a table of value bets.
func BetsTable(bets []models.ValueBet) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Track", "Race", "Box", "Runner", "Odds", "Prob", "Edge", "Stake"})
	for _, v := range bets {
		t.AppendRow(table.Row{
			v.Track, fmt.Sprintf("R%d", v.Race), v.Box, v.Runner,
			fmt.Sprintf("%.2f", v.OddsDecimal),
			fmt.Sprintf("%.2f%%", v.ProbWin*100),
			fmt.Sprintf("%.2f%%", v.Edge*100),
			v.Stake.StringFixed(2),
		})
	}
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderPicks prints the top picks as a console table.
func RenderPicks(w io.Writer, rows []models.ScoredRow) {
	t := PicksTable(TopPicks(rows))
	t.SetOutputMirror(w)
	t.Render()
}

// RenderBets prints value bets as a console table.
func RenderBets(w io.Writer, bets []models.ValueBet) {
	t := BetsTable(bets)
	t.SetOutputMirror(w)
	t.Render()
}
