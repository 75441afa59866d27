package download

import (
	"strings"

	"github.com/zwimpee2/clinical-note-review/internal/model"
)

// cleanQuoted strips one layer of surrounding double quotes left by the
// export path. Inner quotes are untouched.
func cleanQuoted(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// uniqueEncounters deduplicates predictions by encounter_id, keeping the
// first occurrence's metadata. Input order (already sorted by encounter) is
// preserved.
func uniqueEncounters(preds []model.PredictionRow) []model.PredictionRow {
	seen := map[string]bool{}
	var out []model.PredictionRow
	for _, p := range preds {
		if seen[p.EncounterID] {
			continue
		}
		seen[p.EncounterID] = true
		out = append(out, p)
	}
	return out
}
