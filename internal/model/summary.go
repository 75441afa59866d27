package model

// NoReason is the cross-tab column used for invalid records that carry no
// invalid-reason value.
const NoReason = "(none)"

// OverallSummary covers every resolved record regardless of version key.
type OverallSummary struct {
	Total       int     `json:"total"`
	Valid       int     `json:"valid"`
	Invalid     int     `json:"invalid"`
	ValidRate   float64 `json:"valid_rate"`
	InvalidRate float64 `json:"invalid_rate"`
}

// VersionSummary is the per-version-key validity breakdown.
type VersionSummary struct {
	VersionKey  string  `json:"version_key"`
	Total       int     `json:"total"`
	Valid       int     `json:"valid"`
	Invalid     int     `json:"invalid"`
	ValidRate   float64 `json:"valid_rate"`
	InvalidRate float64 `json:"invalid_rate"`
}

// ReasonCrossTab counts invalid records by (version key, invalid reason).
// Rows and Reasons are sorted lexicographically; missing reasons appear under
// the NoReason column. Totals are kept separately so renderers can append
// them as an extra column and row.
type ReasonCrossTab struct {
	Rows    []string                  `json:"rows"`
	Reasons []string                  `json:"reasons"`
	Counts  map[string]map[string]int `json:"counts"`

	RowTotals    map[string]int `json:"row_totals"`
	ReasonTotals map[string]int `json:"reason_totals"`
	GrandTotal   int            `json:"grand_total"`
}

// Cell returns the count for a (version key, reason) pair, zero when either
// axis value is absent.
func (c *ReasonCrossTab) Cell(versionKey, reason string) int {
	if c.Counts == nil {
		return 0
	}
	return c.Counts[versionKey][reason]
}

// AgreementSummary compares predicted class against ground truth for one
// version key, over resolved records where both are present and non-empty.
type AgreementSummary struct {
	VersionKey       string  `json:"version_key"`
	Total            int     `json:"total"`
	Matches          int     `json:"matches"`
	Mismatches       int     `json:"mismatches"`
	AgreementRate    float64 `json:"agreement_rate"`
	DisagreementRate float64 `json:"disagreement_rate"`
}

// SummaryReport bundles every aggregate the analyzer produces. All rates are
// fractions in [0,1]; percentage formatting belongs to the reporting layer.
//
// When Empty is true no resolved records existed and the sub-tables are not
// populated; callers must branch on it before reading them.
type SummaryReport struct {
	Empty          bool `json:"empty"`
	AmbiguousCount int  `json:"ambiguous_count"`
	ResolvedCount  int  `json:"resolved_count"`

	Overall       OverallSummary     `json:"overall"`
	PerVersion    []VersionSummary   `json:"per_version"`
	InvalidReason *ReasonCrossTab    `json:"invalid_reason,omitempty"`
	Agreement     []AgreementSummary `json:"agreement"`
}
