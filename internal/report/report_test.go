package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/aggregate"
	"github.com/zwimpee2/clinical-note-review/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestRender_EmptyReport(t *testing.T) {
	var buf strings.Builder
	Render(&buf, &model.SummaryReport{Empty: true, AmbiguousCount: 3})

	out := buf.String()
	assert.Contains(t, out, "0 resolved")
	assert.Contains(t, out, "3 excluded with ambiguous validation status")
	assert.Contains(t, out, "No records with a clear Valid/Invalid status")
	assert.NotContains(t, out, "Overall Validation Summary")
}

func TestRender_FullReport(t *testing.T) {
	reason := "wrong_span"
	gt := "longer"
	predMatch := "Longer"
	predMiss := "shorter"

	rep := aggregate.Aggregate([]model.ValidationRecord{
		{VersionKey: "v1", ValidationResultRaw: "true", GroundTruth: &gt, PredictedClass: &predMatch},
		{VersionKey: "v1", ValidationResultRaw: "false", InvalidReason: &reason},
		{VersionKey: "v2", ValidationResultRaw: "true", GroundTruth: &gt, PredictedClass: &predMiss},
	})
	require.False(t, rep.Empty)

	var buf strings.Builder
	Render(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "--- Overall Validation Summary ---")
	assert.Contains(t, out, "Total Reviews Analyzed: 3")
	assert.Contains(t, out, "66.7%")

	assert.Contains(t, out, "--- Validation Summary by Version Key ---")
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "v2")

	assert.Contains(t, out, "--- Invalid Reason Analysis (for Invalid Attributions) ---")
	assert.Contains(t, out, "wrong_span")
	assert.Contains(t, out, "TOTAL INVALID")

	assert.Contains(t, out, "--- Agreement with Ground Truth")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "0.0%")
}

func TestRender_NoInvalidAttributions(t *testing.T) {
	rep := aggregate.Aggregate([]model.ValidationRecord{
		{VersionKey: "v1", ValidationResultRaw: "true"},
	})
	require.False(t, rep.Empty)

	var buf strings.Builder
	Render(&buf, rep)

	assert.Contains(t, buf.String(), "No invalid attributions found to analyze reasons.")
	assert.Contains(t, buf.String(), "No records found with non-empty Ground Truth and Predicted Class")
}
