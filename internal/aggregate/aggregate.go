// Package aggregate computes summary statistics over the full cross-file
// collection of validation records.
package aggregate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/model"
	"github.com/zwimpee2/clinical-note-review/internal/validity"
)

// Aggregate produces a SummaryReport over records. Verdicts are re-normalized
// from the raw values, so the result does not depend on what extraction
// stored. Records whose verdict stays ambiguous are excluded from every
// statistic but counted in AmbiguousCount. An empty or fully-ambiguous input
// yields a report with Empty set; callers must check it before reading the
// sub-tables.
func Aggregate(records []model.ValidationRecord) *model.SummaryReport {
	var resolved []model.ValidationRecord
	ambiguous := 0

	for _, r := range records {
		r.ValidationResult = validity.Normalize(r.ValidationResultRaw)
		if !r.ValidationResult.Resolved() {
			ambiguous++
			continue
		}
		resolved = append(resolved, r)
	}

	report := &model.SummaryReport{
		AmbiguousCount: ambiguous,
		ResolvedCount:  len(resolved),
	}

	if len(resolved) == 0 {
		report.Empty = true
		zap.L().Warn("no records with a clear valid/invalid status",
			zap.Int("ambiguous", ambiguous),
		)
		return report
	}

	report.Overall = overall(resolved)
	report.PerVersion = perVersion(resolved)
	report.InvalidReason = reasonCrossTab(resolved)
	report.Agreement = agreement(resolved)
	return report
}

func overall(resolved []model.ValidationRecord) model.OverallSummary {
	s := model.OverallSummary{Total: len(resolved)}
	for _, r := range resolved {
		if r.ValidationResult == validity.Valid {
			s.Valid++
		}
	}
	s.Invalid = s.Total - s.Valid
	s.ValidRate = rate(s.Valid, s.Total)
	s.InvalidRate = rate(s.Invalid, s.Total)
	return s
}

func perVersion(resolved []model.ValidationRecord) []model.VersionSummary {
	byKey := map[string]*model.VersionSummary{}
	for _, r := range resolved {
		s := byKey[r.VersionKey]
		if s == nil {
			s = &model.VersionSummary{VersionKey: r.VersionKey}
			byKey[r.VersionKey] = s
		}
		s.Total++
		if r.ValidationResult == validity.Valid {
			s.Valid++
		}
	}

	out := make([]model.VersionSummary, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		s := byKey[key]
		s.Invalid = s.Total - s.Valid
		s.ValidRate = rate(s.Valid, s.Total)
		s.InvalidRate = rate(s.Invalid, s.Total)
		out = append(out, *s)
	}
	return out
}

// reasonCrossTab counts invalid records by (version key, reason). Every
// version key seen in the resolved set gets a row, even with zero invalid
// records, so per-version totals reconcile against the version summaries.
func reasonCrossTab(resolved []model.ValidationRecord) *model.ReasonCrossTab {
	ct := &model.ReasonCrossTab{
		Counts:       map[string]map[string]int{},
		RowTotals:    map[string]int{},
		ReasonTotals: map[string]int{},
	}

	rowSet := map[string]bool{}
	reasonSet := map[string]bool{}

	for _, r := range resolved {
		if !rowSet[r.VersionKey] {
			rowSet[r.VersionKey] = true
			ct.Counts[r.VersionKey] = map[string]int{}
		}
		if r.ValidationResult != validity.Invalid {
			continue
		}

		reason := model.NoReason
		if r.InvalidReason != nil {
			reason = *r.InvalidReason
		}
		reasonSet[reason] = true

		ct.Counts[r.VersionKey][reason]++
		ct.RowTotals[r.VersionKey]++
		ct.ReasonTotals[reason]++
		ct.GrandTotal++
	}

	ct.Rows = sortedKeys(rowSet)
	ct.Reasons = sortedKeys(reasonSet)
	return ct
}

func agreement(resolved []model.ValidationRecord) []model.AgreementSummary {
	byKey := map[string]*model.AgreementSummary{}

	for _, r := range resolved {
		if r.GroundTruth == nil || r.PredictedClass == nil {
			continue
		}
		gt := strings.ToLower(strings.TrimSpace(*r.GroundTruth))
		pred := strings.ToLower(strings.TrimSpace(*r.PredictedClass))
		if gt == "" || pred == "" {
			continue
		}

		s := byKey[r.VersionKey]
		if s == nil {
			s = &model.AgreementSummary{VersionKey: r.VersionKey}
			byKey[r.VersionKey] = s
		}
		s.Total++
		if gt == pred {
			s.Matches++
		}
	}

	out := make([]model.AgreementSummary, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		s := byKey[key]
		s.Mismatches = s.Total - s.Matches
		s.AgreementRate = rate(s.Matches, s.Total)
		s.DisagreementRate = rate(s.Mismatches, s.Total)
		out = append(out, *s)
	}
	return out
}

// rate guards division by zero: a zero denominator reports 0, not an error.
func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// sortedKeys returns the map's keys in lexicographic order, keeping grouped
// output deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
