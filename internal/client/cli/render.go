package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/essaydesk/internal/api"
)

const timeLayout = "2006-01-02 15:04"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func scoreCells(s api.Scores) []string {
	return []string{score(s.Argument), score(s.Logic), score(s.Clarity), score(s.Originality)}
}

func renderSubmission(w io.Writer, s *api.Submission) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Submission %s for %s at %s", s.ID, s.TeacherID, s.CreatedAt.Local().Format(timeLayout))))
	fmt.Fprintln(w, s.Feedback)
}

// renderProgress prints one row per submission followed by the averages.
func renderProgress(w io.Writer, p *api.GetProgressResponse) {
	if p == nil || len(p.Submissions) == 0 {
		fmt.Fprintln(w, "No submissions yet.")
		return
	}

	t := newTable("#", "Date", "Teacher", "Argument", "Logic", "Clarity", "Originality")
	for i, s := range p.Submissions {
		row := append([]string{strconv.Itoa(i + 1), s.CreatedAt.Local().Format(timeLayout), s.TeacherID}, scoreCells(s.Scores)...)
		t.Row(row...)
	}

	fmt.Fprintln(w, titleStyle.Render("Progress of "+p.StudentID))
	fmt.Fprintln(w, t.Render())

	if p.Averages != nil {
		a := p.Averages
		fmt.Fprintf(w, "Averages: argument %s, logic %s, clarity %s, originality %s\n",
			score(a.Argument), score(a.Logic), score(a.Clarity), score(a.Originality))
	}
}

func renderGroupStats(w io.Writer, rows []api.StudentStats) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No submissions addressed to you yet.")
		return
	}

	t := newTable("Student", "Essays", "Argument", "Logic", "Clarity", "Originality")
	for _, r := range rows {
		t.Row(append([]string{r.StudentID, strconv.Itoa(r.Submissions)}, scoreCells(r.Averages)...)...)
	}

	fmt.Fprintln(w, t.Render())
}
