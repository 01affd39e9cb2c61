package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/schedule"
)

const scheduleRows = "table.table-prog tbody tr"

// ParseSchedule extracts every student row from a day page. The second
// cell holds the student's name; each later cell may carry a data-nb
// JSON attribute describing one class-hour. Cells without usable data
// are skipped.
func ParseSchedule(r io.Reader) ([]models.StudentSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule page: %w", err)
	}

	var students []models.StudentSchedule
	doc.Find(scheduleRows).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() <= 2 {
			return
		}
		student := models.StudentSchedule{
			Name: strings.Join(strings.Fields(cells.Eq(1).Text()), " "),
		}
		cells.Slice(2, goquery.ToEnd).Each(func(_ int, cell *goquery.Selection) {
			raw, ok := cell.Attr("data-nb")
			if !ok || raw == "" {
				return
			}
			rec, err := decodeHour(raw)
			if err != nil {
				logger.Debug("Skipping malformed cell", "student", student.Name, "error", err)
				return
			}
			if !schedule.Accept(rec) {
				return
			}
			student.Hours = append(student.Hours, rec)
		})
		students = append(students, student)
	})
	return students, nil
}

func decodeHour(raw string) (models.HourRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return models.HourRecord{}, err
	}
	return models.HourRecord{
		UserID: scalar(fields["userid"]),
		PairID: scalar(fields["zid"]),
		Hour:   scalar(fields["hour"]),
	}, nil
}

// scalar renders a JSON string or number as text. Empty strings, zero,
// false and null all count as missing.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		return ""
	}
	return n.String()
}
