package download

import (
	"strconv"
	"time"

	"github.com/zwimpee2/clinical-note-review/internal/model"
)

// notesPart is one encounter's annotated notes, ready to be merged into the
// combined output.
type notesPart struct {
	meta   model.EncounterMeta
	header []string
	rows   [][]string
}

// encounterColumns are stamped onto every note row so the flat files are
// self-describing without a join back to the predictions file.
var encounterColumns = []string{
	"encounter_id", "patient_id", "encounter_start", "encounter_end", "los_days",
}

// annotate adds (or overwrites) the encounter metadata columns on a parsed
// notes table.
func annotate(header []string, rows [][]string, p model.PredictionRow, los *int) ([]string, [][]string) {
	values := map[string]string{
		"encounter_id":    p.EncounterID,
		"patient_id":      p.PatientID,
		"encounter_start": p.EncounterStart,
		"encounter_end":   p.EncounterEnd,
		"los_days":        "",
	}
	if los != nil {
		values["los_days"] = strconv.Itoa(*los)
	}

	index := map[string]int{}
	outHeader := append([]string(nil), header...)
	for i, c := range outHeader {
		index[c] = i
	}
	for _, c := range encounterColumns {
		if _, ok := index[c]; !ok {
			index[c] = len(outHeader)
			outHeader = append(outHeader, c)
		}
	}

	outRows := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(outHeader))
		copy(out, row)
		for _, c := range encounterColumns {
			out[index[c]] = values[c]
		}
		outRows[i] = out
	}
	return outHeader, outRows
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// losDays computes whole days between encounter start and end, nil when
// either timestamp does not parse.
func losDays(start, end string) *int {
	s, ok := parseTime(start)
	if !ok {
		return nil
	}
	e, ok := parseTime(end)
	if !ok {
		return nil
	}
	days := int(e.Sub(s).Hours() / 24)
	return &days
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combineNotes merges per-encounter tables into one table whose header is the
// union of all part headers in first-seen order. Cells a part does not carry
// stay empty.
func combineNotes(parts []*notesPart) ([]string, [][]string) {
	var header []string
	index := map[string]int{}
	for _, part := range parts {
		for _, c := range part.header {
			if _, ok := index[c]; !ok {
				index[c] = len(header)
				header = append(header, c)
			}
		}
	}

	var rows [][]string
	for _, part := range parts {
		for _, row := range part.rows {
			out := make([]string, len(header))
			for i, c := range part.header {
				if i < len(row) {
					out[index[c]] = row[i]
				}
			}
			rows = append(rows, out)
		}
	}
	return header, rows
}

// simplifyNotes projects the combined notes down to the key viewing columns.
// When the export carries note_text the canonical column set is used;
// otherwise we fall back to whichever of the known alternates exist, always
// keeping encounter_id and patient_id.
func simplifyNotes(header []string, rows [][]string) ([]string, [][]string) {
	has := map[string]bool{}
	for _, c := range header {
		has[c] = true
	}

	var want []string
	if has["note_text"] {
		want = []string{"encounter_id", "patient_id", "note_time", "note_type", "note_text"}
	} else {
		for _, c := range header {
			switch c {
			case "encounter_id", "patient_id", "timestamp", "text", "type", "department":
				want = append(want, c)
			}
		}
		if !contains(want, "encounter_id") {
			want = append([]string{"encounter_id"}, want...)
		}
		if !contains(want, "patient_id") {
			rest := append([]string(nil), want[1:]...)
			want = append([]string{want[0], "patient_id"}, rest...)
		}
	}

	var keep []string
	for _, c := range want {
		if has[c] {
			keep = append(keep, c)
		}
	}

	index := map[string]int{}
	for i, c := range header {
		index[c] = i
	}

	outRows := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(keep))
		for j, c := range keep {
			if idx := index[c]; idx < len(row) {
				out[j] = row[idx]
			}
		}
		outRows[i] = out
	}
	return keep, outRows
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
