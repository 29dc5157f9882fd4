package archive

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/essaydesk/internal/server/models"
)

var statsHeader = []string{"student_id", "submissions", "argument", "logic", "clarity", "originality"}

// StatsCSV renders group statistics with one row per student. Averages are
// written with two decimals.
func StatsCSV(rows []models.StudentStats) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(statsHeader); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{r.StudentID, strconv.Itoa(r.Submissions)}
		for _, c := range models.Criteria {
			record = append(record, fmt.Sprintf("%.2f", r.Averages.Get(c)))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
